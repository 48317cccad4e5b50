package agent

import (
	"github.com/samber/lo"

	"lintang/trafficsim/pkg/datastructure"
	"lintang/trafficsim/pkg/engine/routingalgorithm"
)

// GreedyCar takes the currently fastest road and remembers observed speeds.
type GreedyCar struct {
	car
	memory RoadMemory
}

func NewGreedyCar(id int32, start, end *datastructure.Intersection, strategy routingalgorithm.PathStrategy) *GreedyCar {
	return &GreedyCar{
		car:    car{id: id, start: start, end: end, strategy: strategy},
		memory: make(RoadMemory),
	}
}

func (c *GreedyCar) Kind() Kind {
	return KindGreedy
}

// DecideAtIntersection takes the road with the highest current speed, the first one in incidence order on ties.
func (c *GreedyCar) DecideAtIntersection(intersection *datastructure.Intersection) *datastructure.Road {
	roads := intersection.Roads()
	if len(roads) == 0 {
		return nil
	}
	best := lo.MaxBy(roads, func(a, b *datastructure.Road) bool {
		return a.CurrentSpeed() > b.CurrentSpeed()
	})
	best.IncrementTraffic()
	return best
}

func (c *GreedyCar) AbsorbRoadInformation(roads []*datastructure.Road) {
	c.memory.Absorb(roads)
}

func (c *GreedyCar) Desirability(road *datastructure.Road) (float64, bool) {
	v, ok := c.memory[road]
	return v, ok
}
