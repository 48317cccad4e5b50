package roadmap

import (
	"lintang/trafficsim/pkg/agent"
	"lintang/trafficsim/pkg/datastructure"
	"lintang/trafficsim/pkg/engine/routingalgorithm"
)

const defaultCarCount = 5

/*
createDefaultMap. demo network

	A --(50, 12)-- B --(60, 13)-- C

with five blind cars, strategy and distinct endpoints drawn from rnd.
*/
func (m *Map) createDefaultMap(rnd agent.Rand) {
	a := datastructure.NewIntersection(0, "A")
	b := datastructure.NewIntersection(1, "B")
	c := datastructure.NewIntersection(2, "C")

	ab := datastructure.NewRoad(0, 50, 12, a, b)
	bc := datastructure.NewRoad(1, 60, 13, b, c)

	a.AddRoads(ab)
	b.AddRoads(ab, bc)
	c.AddRoads(bc)

	m.intersections = []*datastructure.Intersection{a, b, c}
	m.roads = []*datastructure.Road{ab, bc}

	m.cars = make([]agent.Car, 0, defaultCarCount)
	for i := 0; i < defaultCarCount; i++ {
		start := rnd.Intn(len(m.intersections))
		end := (start + 1 + rnd.Intn(len(m.intersections)-1)) % len(m.intersections)
		strategy := routingalgorithm.Strategies[rnd.Intn(len(routingalgorithm.Strategies))]

		m.cars = append(m.cars, agent.NewBlindCar(int32(i), m.intersections[start], m.intersections[end], strategy, rnd))
	}
}
