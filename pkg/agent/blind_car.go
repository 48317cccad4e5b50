package agent

import (
	"lintang/trafficsim/pkg/datastructure"
	"lintang/trafficsim/pkg/engine/routingalgorithm"
)

// BlindCar picks roads uniformly at random and never learns.
type BlindCar struct {
	car
	rnd Rand
}

func NewBlindCar(id int32, start, end *datastructure.Intersection, strategy routingalgorithm.PathStrategy, rnd Rand) *BlindCar {
	return &BlindCar{
		car: car{id: id, start: start, end: end, strategy: strategy},
		rnd: rnd,
	}
}

func (c *BlindCar) Kind() Kind {
	return KindBlind
}

func (c *BlindCar) DecideAtIntersection(intersection *datastructure.Intersection) *datastructure.Road {
	roads := intersection.Roads()
	if len(roads) == 0 {
		return nil
	}
	road := roads[c.rnd.Intn(len(roads))]
	road.IncrementTraffic()
	return road
}

func (c *BlindCar) AbsorbRoadInformation(_ []*datastructure.Road) {}

func (c *BlindCar) Desirability(_ *datastructure.Road) (float64, bool) {
	return 0, false
}
