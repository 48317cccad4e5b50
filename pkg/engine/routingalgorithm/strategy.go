package routingalgorithm

import (
	"errors"
	"fmt"

	"lintang/trafficsim/pkg/datastructure"
)

type PathStrategy string

const (
	Shortest            PathStrategy = "shortest"
	Cheapest            PathStrategy = "cheapest"
	Fastest             PathStrategy = "fastest"
	HighestSpeedLimit   PathStrategy = "highest-speed-limit"
	FewestIntersections PathStrategy = "fewest-intersections"
)

var ErrUnknownStrategy = errors.New("unknown path strategy")

// Strategies in a fixed order, used for random demo cars.
var Strategies = []PathStrategy{Shortest, Cheapest, Fastest, HighestSpeedLimit, FewestIntersections}

func ParsePathStrategy(s string) (PathStrategy, error) {
	for _, strategy := range Strategies {
		if string(strategy) == s {
			return strategy, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

func (s PathStrategy) String() string {
	return string(s)
}

// WeightFunc returns the edge cost of the strategy. all of them read the current (possibly congested) road.
func (s PathStrategy) WeightFunc() (WeightFunc, error) {
	switch s {
	case Shortest:
		return func(road *datastructure.Road) float64 { return road.Length }, nil
	case Cheapest:
		return func(road *datastructure.Road) float64 { return road.CurrentCost() }, nil
	case Fastest:
		return func(road *datastructure.Road) float64 { return road.Length / road.CurrentSpeed() }, nil
	case HighestSpeedLimit:
		// fixed limit, not congestion adjusted. negated so minimizing maximizes
		return func(road *datastructure.Road) float64 { return -road.SpeedLimit }, nil
	case FewestIntersections:
		return func(_ *datastructure.Road) float64 { return 1 }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, string(s))
	}
}
