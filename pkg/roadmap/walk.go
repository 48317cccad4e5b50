package roadmap

import (
	"fmt"

	"lintang/trafficsim/pkg/agent"
	"lintang/trafficsim/pkg/datastructure"
	"lintang/trafficsim/pkg/engine/routingalgorithm"
)

/*
WalkCar drives car hop by hop with its own intersection-local decisions instead of a planned path.
before every decision the car observes the roads of the intersection it stands on. the walk stops at
the car's end, at a dead end, or after maxHops decisions. every decision adds the car to the chosen road.
an intersection with a road that does not touch it fails the walk before the car decides there.
*/
func (m *Map) WalkCar(car agent.Car, maxHops int) ([]*datastructure.Intersection, error) {
	current := car.Start()
	visited := []*datastructure.Intersection{current}

	for hop := 0; hop < maxHops && current != car.End(); hop++ {
		// incidence is checked before the decision commits traffic
		for _, road := range current.Roads() {
			if _, ok := road.OtherEnd(current); !ok {
				return visited, fmt.Errorf("car %d: %w: road %d at intersection %s", car.ID(),
					routingalgorithm.ErrCorruptIncidence, road.ID, current.Label)
			}
		}

		car.AbsorbRoadInformation(current.Roads())

		road := car.DecideAtIntersection(current)
		if road == nil {
			log.Debugf("car %d stuck at dead end %s", car.ID(), current.Label)
			break
		}

		current, _ = road.OtherEnd(current)
		visited = append(visited, current)
	}

	return visited, nil
}
