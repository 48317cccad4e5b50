package agent

import (
	"lintang/trafficsim/pkg/datastructure"
	"lintang/trafficsim/pkg/engine/routingalgorithm"
)

// Car is a traffic agent. whole-path routing is done by the map from Strategy, DecideAtIntersection
// is only used for step-wise, intersection-local driving.
type Car interface {
	ID() int32
	Kind() Kind
	Start() *datastructure.Intersection
	End() *datastructure.Intersection
	Strategy() routingalgorithm.PathStrategy

	Path() []*datastructure.Intersection
	SetPath(path []*datastructure.Intersection)

	// DecideAtIntersection picks one of the intersection's roads and increments its traffic.
	// nil when the intersection has no roads.
	DecideAtIntersection(intersection *datastructure.Intersection) *datastructure.Road
	AbsorbRoadInformation(roads []*datastructure.Road)
	Desirability(road *datastructure.Road) (float64, bool)
}

type Kind string

const (
	KindBlind  Kind = "blind"
	KindGreedy Kind = "greedy"
)

// Rand is the part of a random source the agents need. *rand.Rand from golang.org/x/exp/rand fits.
type Rand interface {
	Intn(n int) int
}

// car holds what every variant shares.
type car struct {
	id       int32
	start    *datastructure.Intersection
	end      *datastructure.Intersection
	strategy routingalgorithm.PathStrategy
	path     []*datastructure.Intersection
}

func (c *car) ID() int32 {
	return c.id
}

func (c *car) Start() *datastructure.Intersection {
	return c.start
}

func (c *car) End() *datastructure.Intersection {
	return c.end
}

func (c *car) Strategy() routingalgorithm.PathStrategy {
	return c.strategy
}

// Path is nil until the map routed the car.
func (c *car) Path() []*datastructure.Intersection {
	return c.path
}

func (c *car) SetPath(path []*datastructure.Intersection) {
	c.path = path
}
