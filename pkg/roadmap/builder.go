package roadmap

import (
	"fmt"

	"lintang/trafficsim/pkg/agent"
	"lintang/trafficsim/pkg/config"
	"lintang/trafficsim/pkg/datastructure"
	"lintang/trafficsim/pkg/engine/routingalgorithm"
	"lintang/trafficsim/pkg/geo"
)

// FromConfig builds a map from a network description. ids follow the order in the description.
// an empty description gives the default map.
func FromConfig(network config.Network, rnd agent.Rand) (*Map, error) {
	if network.IsEmpty() {
		return New(nil, nil, nil, rnd), nil
	}
	if err := network.Validate(); err != nil {
		return nil, err
	}

	intersections := make([]*datastructure.Intersection, 0, len(network.Intersections))
	byLabel := make(map[string]*datastructure.Intersection, len(network.Intersections))
	for i, spec := range network.Intersections {
		var in *datastructure.Intersection
		if spec.HasPosition() {
			in = datastructure.NewIntersectionWithPosition(int32(i), spec.Label, spec.Position[0], spec.Position[1])
		} else {
			in = datastructure.NewIntersection(int32(i), spec.Label)
		}
		intersections = append(intersections, in)
		byLabel[spec.Label] = in
	}

	roads := make([]*datastructure.Road, 0, len(network.Roads))
	for i, spec := range network.Roads {
		from, to := byLabel[spec.From], byLabel[spec.To]
		length := spec.Length
		if length == 0 {
			length = geo.GreatCircleDistance(from.Lat, from.Lon, to.Lat, to.Lon)
		}
		road := datastructure.NewRoad(int32(i), spec.SpeedLimit, length, from, to)
		from.AddRoads(road)
		to.AddRoads(road)
		roads = append(roads, road)
	}

	cars := make([]agent.Car, 0, len(network.Cars))
	for i, spec := range network.Cars {
		strategy, err := routingalgorithm.ParsePathStrategy(spec.Strategy)
		if err != nil {
			return nil, fmt.Errorf("car %d: %w", i, err)
		}
		start, end := byLabel[spec.Start], byLabel[spec.End]
		switch agent.Kind(spec.Kind) {
		case agent.KindBlind:
			cars = append(cars, agent.NewBlindCar(int32(i), start, end, strategy, rnd))
		case agent.KindGreedy:
			cars = append(cars, agent.NewGreedyCar(int32(i), start, end, strategy))
		default:
			return nil, fmt.Errorf("%w: car %d has unknown kind %q", config.ErrInvalidNetwork, i, spec.Kind)
		}
	}

	log.Infof("network %q loaded: %d intersections, %d roads, %d cars", network.Name, len(intersections), len(roads), len(cars))
	return New(intersections, roads, cars, rnd), nil
}
