package routingalgorithm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lintang/trafficsim/pkg/datastructure"
)

/*
	 A --(50, 12)-- B --(60, 13)-- C
*/
func linearGraph() *testGraph {
	g := newTestGraph("A", "B", "C")
	g.connect("A", "B", 50, 12)
	g.connect("B", "C", 60, 13)
	return g
}

/*
p=0, v=1, q=2, w=3, r=4, f=5

	 p
	  \
	   10
	     \
		  v -----3----- r
		 /            /
		6            5
	   /    		/
	  q ---5----- w ----15---- f
*/
func diamondGraph() *testGraph {
	g := newTestGraph("p", "v", "q", "w", "r", "f")
	g.connect("p", "v", 50, 10)
	g.connect("v", "r", 50, 3)
	g.connect("v", "q", 50, 6)
	g.connect("q", "w", 50, 5)
	g.connect("r", "w", 50, 5)
	g.connect("w", "f", 50, 15)
	return g
}

func mustWeight(t *testing.T, s PathStrategy) WeightFunc {
	t.Helper()
	w, err := s.WeightFunc()
	require.NoError(t, err)
	return w
}

func TestFindPathLinear(t *testing.T) {
	g := linearGraph()

	for _, strategy := range Strategies {
		t.Run(string(strategy), func(t *testing.T) {
			path, err := FindPath(g.nodes["A"], g.nodes["C"], mustWeight(t, strategy))
			require.NoError(t, err)
			assert.Equal(t, []string{"A", "B", "C"}, labels(path.Intersections))
		})
	}

	path, err := FindPath(g.nodes["A"], g.nodes["C"], mustWeight(t, Shortest))
	require.NoError(t, err)
	assert.Equal(t, 25.0, path.Weight)

	path, err = FindPath(g.nodes["A"], g.nodes["C"], mustWeight(t, FewestIntersections))
	require.NoError(t, err)
	assert.Equal(t, 2.0, path.Weight)
}

func TestFindPathDiamond(t *testing.T) {
	g := diamondGraph()

	// P -> V -> R -> W -> F = 10 + 3 + 5 + 15
	path, err := FindPath(g.nodes["p"], g.nodes["f"], mustWeight(t, Shortest))
	require.NoError(t, err)
	assert.Equal(t, []string{"p", "v", "r", "w", "f"}, labels(path.Intersections))
	assert.Equal(t, 33.0, path.Weight)

	// reverse direction, roads are undirected
	path, err = FindPath(g.nodes["f"], g.nodes["p"], mustWeight(t, Shortest))
	require.NoError(t, err)
	assert.Equal(t, []string{"f", "w", "r", "v", "p"}, labels(path.Intersections))
}

func TestFindPathSameStartAndEnd(t *testing.T) {
	g := linearGraph()

	path, err := FindPath(g.nodes["B"], g.nodes["B"], mustWeight(t, Shortest))
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, labels(path.Intersections))
	assert.Equal(t, 0.0, path.Weight)
}

func TestFindPathUnreachable(t *testing.T) {
	g := newTestGraph("A", "B", "C", "D")
	g.connect("A", "B", 50, 1)
	g.connect("C", "D", 50, 1)

	_, err := FindPath(g.nodes["A"], g.nodes["D"], mustWeight(t, Shortest))
	assert.ErrorIs(t, err, ErrNoPathFound)

	isolated := datastructure.NewIntersection(9, "Z")
	_, err = FindPath(g.nodes["A"], isolated, mustWeight(t, Cheapest))
	assert.ErrorIs(t, err, ErrNoPathFound)
}

func TestFindPathCorruptIncidence(t *testing.T) {
	g := newTestGraph("A", "B", "C")
	g.connect("A", "B", 50, 1)
	// B lists a road that does not touch B
	stray := datastructure.NewRoad(99, 50, 1, g.nodes["A"], g.nodes["C"])
	g.nodes["B"].AddRoads(stray)

	_, err := FindPath(g.nodes["A"], g.nodes["C"], mustWeight(t, Shortest))
	assert.ErrorIs(t, err, ErrCorruptIncidence)
}

func TestFindPathCheapestAvoidsCongestion(t *testing.T) {
	/*
		S --(len 10)-- X --(len 10)-- T     short branch
		S --(len 15)-- Y --(len 15)-- T     long branch
	*/
	g := newTestGraph("S", "X", "Y", "T")
	sx := g.connect("S", "X", 50, 10)
	xt := g.connect("X", "T", 50, 10)
	g.connect("S", "Y", 50, 15)
	g.connect("Y", "T", 50, 15)

	cheapest, err := FindPath(g.nodes["S"], g.nodes["T"], mustWeight(t, Cheapest))
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "X", "T"}, labels(cheapest.Intersections))

	// 12 cars on each short road: 10 + 6 = 16 > 15
	for i := 0; i < 12; i++ {
		sx.IncrementTraffic()
		xt.IncrementTraffic()
	}

	shortest, err := FindPath(g.nodes["S"], g.nodes["T"], mustWeight(t, Shortest))
	require.NoError(t, err)
	cheapest, err = FindPath(g.nodes["S"], g.nodes["T"], mustWeight(t, Cheapest))
	require.NoError(t, err)

	assert.Equal(t, []string{"S", "X", "T"}, labels(shortest.Intersections))
	assert.Equal(t, []string{"S", "Y", "T"}, labels(cheapest.Intersections))
	assert.Equal(t, 30.0, cheapest.Weight)
}

func TestFindPathFastestUsesCongestedSpeed(t *testing.T) {
	g := newTestGraph("S", "X", "Y", "T")
	sx := g.connect("S", "X", 60, 12)
	g.connect("X", "T", 60, 12)
	g.connect("S", "Y", 40, 12)
	g.connect("Y", "T", 40, 12)

	fastest, err := FindPath(g.nodes["S"], g.nodes["T"], mustWeight(t, Fastest))
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "X", "T"}, labels(fastest.Intersections))

	// S-X drops to the 10 floor
	for i := 0; i < 10; i++ {
		sx.IncrementTraffic()
	}
	fastest, err = FindPath(g.nodes["S"], g.nodes["T"], mustWeight(t, Fastest))
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "Y", "T"}, labels(fastest.Intersections))
}

func TestFindPathHighestSpeedLimit(t *testing.T) {
	g := newTestGraph("S", "X", "Y", "T")
	g.connect("S", "X", 30, 1)
	g.connect("X", "T", 30, 1)
	fast := g.connect("S", "Y", 90, 100)
	g.connect("Y", "T", 80, 100)

	// congestion does not matter for the limit
	for i := 0; i < 20; i++ {
		fast.IncrementTraffic()
	}

	path, err := FindPath(g.nodes["S"], g.nodes["T"], mustWeight(t, HighestSpeedLimit))
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "Y", "T"}, labels(path.Intersections))
	assert.Equal(t, -170.0, path.Weight)
}

func TestFindPathTieBreakFollowsInsertionOrder(t *testing.T) {
	g := newTestGraph("S", "X", "Y", "T")
	g.connect("S", "Y", 50, 1)
	g.connect("S", "X", 50, 1)
	g.connect("X", "T", 50, 1)
	g.connect("Y", "T", 50, 1)

	for i := 0; i < 5; i++ {
		path, err := FindPath(g.nodes["S"], g.nodes["T"], mustWeight(t, FewestIntersections))
		require.NoError(t, err)
		assert.Equal(t, []string{"S", "Y", "T"}, labels(path.Intersections))
	}
}

func TestFindPathDoesNotMutateTraffic(t *testing.T) {
	g := diamondGraph()

	for _, strategy := range Strategies {
		_, err := FindPath(g.nodes["p"], g.nodes["f"], mustWeight(t, strategy))
		require.NoError(t, err)
	}
	for _, road := range g.roads {
		assert.Equal(t, 0, road.Traffic())
	}
}
