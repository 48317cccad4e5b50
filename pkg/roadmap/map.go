package roadmap

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"lintang/trafficsim/pkg/agent"
	"lintang/trafficsim/pkg/datastructure"
	"lintang/trafficsim/pkg/engine/routingalgorithm"
	"lintang/trafficsim/pkg/util"
)

var (
	ErrUnknownIntersection = errors.New("unknown intersection")
	ErrUnknownRoad         = errors.New("unknown road")
	ErrUnknownCar          = errors.New("unknown car")
)

// Map owns the intersections, roads and cars of one simulation. it is not safe for concurrent use,
// callers run one operation at a time.
type Map struct {
	intersections []*datastructure.Intersection
	roads         []*datastructure.Road
	cars          []agent.Car

	intersectionByLabel map[string]*datastructure.Intersection
	roadByID            map[int32]*datastructure.Road
	carByID             map[int32]agent.Car
	components          routingalgorithm.Components
}

// New builds a map from the given collections. if any of them is empty the default demo network is used
// instead, rnd then picks the demo cars' strategies and endpoints and must not be nil.
func New(intersections []*datastructure.Intersection, roads []*datastructure.Road, cars []agent.Car, rnd agent.Rand) *Map {
	m := &Map{
		intersections: intersections,
		roads:         roads,
		cars:          cars,
	}
	if len(m.intersections) == 0 || len(m.roads) == 0 || len(m.cars) == 0 {
		util.AssertPanic(rnd != nil, "roadmap: default map needs a random source")
		log.Warn("creating default map")
		m.createDefaultMap(rnd)
	}
	m.buildIndex()
	return m
}

func (m *Map) buildIndex() {
	m.intersectionByLabel = make(map[string]*datastructure.Intersection, len(m.intersections))
	for _, in := range m.intersections {
		m.intersectionByLabel[in.Label] = in
	}
	m.roadByID = make(map[int32]*datastructure.Road, len(m.roads))
	for _, road := range m.roads {
		m.roadByID[road.ID] = road
	}
	m.carByID = make(map[int32]agent.Car, len(m.cars))
	for _, car := range m.cars {
		m.carByID[car.ID()] = car
	}
	// topology never changes after construction
	m.components = routingalgorithm.ConnectedComponents(m.intersections)
}

func (m *Map) Intersections() []*datastructure.Intersection {
	return m.intersections
}

func (m *Map) Roads() []*datastructure.Road {
	return m.roads
}

func (m *Map) Cars() []agent.Car {
	return m.cars
}

func (m *Map) Components() routingalgorithm.Components {
	return m.components
}

func (m *Map) Intersection(label string) (*datastructure.Intersection, error) {
	in, ok := m.intersectionByLabel[label]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIntersection, label)
	}
	return in, nil
}

func (m *Map) Road(id int32) (*datastructure.Road, error) {
	road, ok := m.roadByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRoad, id)
	}
	return road, nil
}

func (m *Map) Car(id int32) (agent.Car, error) {
	car, ok := m.carByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCar, id)
	}
	return car, nil
}

func (m *Map) FindShortestPath(start, end *datastructure.Intersection) ([]*datastructure.Intersection, error) {
	return m.FindPath(start, end, routingalgorithm.Shortest)
}

func (m *Map) FindCheapestPath(start, end *datastructure.Intersection) ([]*datastructure.Intersection, error) {
	return m.FindPath(start, end, routingalgorithm.Cheapest)
}

func (m *Map) FindShortestTimePath(start, end *datastructure.Intersection) ([]*datastructure.Intersection, error) {
	return m.FindPath(start, end, routingalgorithm.Fastest)
}

func (m *Map) FindHighestSpeedLimitPath(start, end *datastructure.Intersection) ([]*datastructure.Intersection, error) {
	return m.FindPath(start, end, routingalgorithm.HighestSpeedLimit)
}

func (m *Map) FindLeastIntersectionsPath(start, end *datastructure.Intersection) ([]*datastructure.Intersection, error) {
	return m.FindPath(start, end, routingalgorithm.FewestIntersections)
}

func (m *Map) FindPath(start, end *datastructure.Intersection, strategy routingalgorithm.PathStrategy) ([]*datastructure.Intersection, error) {
	route, err := m.Route(start, end, strategy)
	if err != nil {
		return nil, err
	}
	return route.Intersections, nil
}

// Route is FindPath plus the cumulative weight of the path. it never changes road state.
func (m *Map) Route(start, end *datastructure.Intersection, strategy routingalgorithm.PathStrategy) (routingalgorithm.Path, error) {
	weight, err := strategy.WeightFunc()
	if err != nil {
		return routingalgorithm.Path{}, err
	}
	return routingalgorithm.FindPath(start, end, weight)
}

/*
FindPathForCar. routes car with its own strategy and commits the route: every road on the path gets
one more car. this is the only feedback from routing into road state, nothing releases it again unless
a caller uses ReleaseRoad, so congestion only grows while cars are routed.
*/
func (m *Map) FindPathForCar(car agent.Car) ([]*datastructure.Intersection, error) {
	path, err := m.FindPath(car.Start(), car.End(), car.Strategy())
	if err != nil {
		return nil, fmt.Errorf("car %d: %w", car.ID(), err)
	}

	// resolve every hop before touching traffic, a broken hop commits nothing
	roads, err := m.RoadsAlong(path)
	if err != nil {
		return nil, fmt.Errorf("car %d: %w", car.ID(), err)
	}
	for _, road := range roads {
		road.IncrementTraffic()
	}

	car.SetPath(path)

	log.WithFields(logrus.Fields{
		"car":      car.ID(),
		"strategy": car.Strategy(),
		"hops":     len(roads),
	}).Debugf("car routed %s -> %s", car.Start().Label, car.End().Label)
	return path, nil
}

// FindRoadBetween returns the first road of i1 that connects it to i2, nil when there is none.
func (m *Map) FindRoadBetween(i1, i2 *datastructure.Intersection) *datastructure.Road {
	for _, road := range i1.Roads() {
		if road.Connects(i1, i2) {
			return road
		}
	}
	return nil
}

// RoadsAlong maps every consecutive pair of path to the road between them.
func (m *Map) RoadsAlong(path []*datastructure.Intersection) ([]*datastructure.Road, error) {
	hops := util.Pairwise(path)
	roads := make([]*datastructure.Road, 0, len(hops))
	for _, hop := range hops {
		road := m.FindRoadBetween(hop[0], hop[1])
		if road == nil {
			return nil, fmt.Errorf("%w: no road between %s and %s", routingalgorithm.ErrCorruptIncidence, hop[0].Label, hop[1].Label)
		}
		roads = append(roads, road)
	}
	return roads, nil
}

// ReleaseRoad takes one car off a road. the core never calls it by itself.
func (m *Map) ReleaseRoad(id int32) (*datastructure.Road, error) {
	road, err := m.Road(id)
	if err != nil {
		return nil, err
	}
	road.DecrementTraffic()
	return road, nil
}

type CarRoute struct {
	Car  agent.Car
	Path []*datastructure.Intersection
	Err  error
}

// RouteAllCars routes every car once, in creation order. a failing car does not stop the others.
func (m *Map) RouteAllCars() []CarRoute {
	results := make([]CarRoute, 0, len(m.cars))
	for _, car := range m.cars {
		path, err := m.FindPathForCar(car)
		if err != nil {
			log.Warnf("routing car %d: %v", car.ID(), err)
		}
		results = append(results, CarRoute{Car: car, Path: path, Err: err})
	}
	return results
}
