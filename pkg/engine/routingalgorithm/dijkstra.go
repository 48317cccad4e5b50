package routingalgorithm

import (
	"errors"
	"fmt"

	"lintang/trafficsim/pkg/datastructure"
	"lintang/trafficsim/pkg/util"
)

var (
	ErrNoPathFound      = errors.New("no path found between the intersections")
	ErrCorruptIncidence = errors.New("road is not attached to the intersection it was reached from")
)

// WeightFunc returns the cost of traversing road. it is called with the road's current state.
type WeightFunc func(road *datastructure.Road) float64

type Path struct {
	Intersections []*datastructure.Intersection
	Weight        float64
}

// cameFromPair. one per queue entry, an intersection may have several until it is settled.
type cameFromPair struct {
	intersection *datastructure.Intersection
	parent       int32
}

/*
FindPath. dijkstra from start to end where the cost of a road is weight(road).

every intersection is settled at most once (first pop wins) and a neighbor is pushed whenever it is not
settled yet, so the search explores a tree of simple paths. with non-negative weights this is plain dijkstra.
negative weights (highest speed limit) are accepted but the result is only an approximation of the
best path, settled intersections are never re-optimized.
ties on cumulative weight are popped in insertion order.
*/
func FindPath(start, end *datastructure.Intersection, weight WeightFunc) (Path, error) {
	labels := []cameFromPair{{intersection: start, parent: -1}}

	pq := datastructure.NewMinHeap[int32]()
	pq.Insert(datastructure.PriorityQueueNode[int32]{Rank: 0, Item: 0})

	visited := make(map[*datastructure.Intersection]struct{})

	for pq.Size() > 0 {
		current, _ := pq.ExtractMin()
		curr := labels[current.Item].intersection

		if _, ok := visited[curr]; ok {
			continue
		}
		visited[curr] = struct{}{}

		if curr == end {
			return Path{
				Intersections: createPath(labels, current.Item),
				Weight:        current.Rank,
			}, nil
		}

		for _, road := range curr.Roads() {
			next, ok := road.OtherEnd(curr)
			if !ok {
				return Path{}, fmt.Errorf("%w: road %d at intersection %s", ErrCorruptIncidence, road.ID, curr.Label)
			}
			if _, ok := visited[next]; ok {
				continue
			}

			labels = append(labels, cameFromPair{intersection: next, parent: current.Item})
			pq.Insert(datastructure.PriorityQueueNode[int32]{
				Rank: current.Rank + weight(road),
				Item: int32(len(labels) - 1),
			})
		}
	}

	return Path{}, fmt.Errorf("%w: from %s to %s", ErrNoPathFound, start.Label, end.Label)
}

func createPath(labels []cameFromPair, last int32) []*datastructure.Intersection {
	path := make([]*datastructure.Intersection, 0)
	for curr := last; curr != -1; curr = labels[curr].parent {
		path = append(path, labels[curr].intersection)
	}
	return util.ReverseG(path)
}
