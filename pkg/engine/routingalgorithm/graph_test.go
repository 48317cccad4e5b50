package routingalgorithm

import (
	"lintang/trafficsim/pkg/datastructure"
)

type testGraph struct {
	nodes map[string]*datastructure.Intersection
	roads []*datastructure.Road
}

func newTestGraph(labels ...string) *testGraph {
	g := &testGraph{nodes: make(map[string]*datastructure.Intersection)}
	for i, l := range labels {
		g.nodes[l] = datastructure.NewIntersection(int32(i), l)
	}
	return g
}

func (g *testGraph) connect(from, to string, speedLimit, length float64) *datastructure.Road {
	a, b := g.nodes[from], g.nodes[to]
	road := datastructure.NewRoad(int32(len(g.roads)), speedLimit, length, a, b)
	a.AddRoads(road)
	b.AddRoads(road)
	g.roads = append(g.roads, road)
	return road
}

func labels(path []*datastructure.Intersection) []string {
	out := make([]string, 0, len(path))
	for _, in := range path {
		out = append(out, in.Label)
	}
	return out
}
