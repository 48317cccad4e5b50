package routingalgorithm

import (
	"lintang/trafficsim/pkg/datastructure"
)

// Components groups intersections into connected components. roads are undirected, so a single dfs
// pass is enough. component ids follow the order of intersections.
type Components struct {
	ID      map[*datastructure.Intersection]int32
	Members [][]*datastructure.Intersection
}

func ConnectedComponents(intersections []*datastructure.Intersection) Components {
	cc := Components{
		ID:      make(map[*datastructure.Intersection]int32, len(intersections)),
		Members: make([][]*datastructure.Intersection, 0),
	}

	for _, in := range intersections {
		if _, ok := cc.ID[in]; ok {
			continue
		}
		componentID := int32(len(cc.Members))
		component := make([]*datastructure.Intersection, 0)
		dfs(in, componentID, &component, cc.ID)
		cc.Members = append(cc.Members, component)
	}

	return cc
}

func dfs(v *datastructure.Intersection, componentID int32, output *[]*datastructure.Intersection,
	visited map[*datastructure.Intersection]int32) {
	visited[v] = componentID
	*output = append(*output, v)

	for _, road := range v.Roads() {
		next, ok := road.OtherEnd(v)
		if !ok {
			// corrupt incidence, FindPath reports it
			continue
		}
		if _, seen := visited[next]; !seen {
			dfs(next, componentID, output, visited)
		}
	}
}

func (cc Components) Connected(a, b *datastructure.Intersection) bool {
	idA, okA := cc.ID[a]
	idB, okB := cc.ID[b]
	return okA && okB && idA == idB
}
