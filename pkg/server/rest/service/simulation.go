package service

import (
	"context"
	"errors"
	"sync"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/twpayne/go-polyline"

	"lintang/trafficsim/pkg/agent"
	"lintang/trafficsim/pkg/datastructure"
	"lintang/trafficsim/pkg/engine/routingalgorithm"
	"lintang/trafficsim/pkg/roadmap"
	"lintang/trafficsim/pkg/server"
	"lintang/trafficsim/pkg/snap"
)

var log = logrus.WithField("module", "service")

type Snapper interface {
	SnapToIntersection(lat, lon float64) (*datastructure.Intersection, float64, error)
}

// RoadView is a copy of a road's state taken while the service lock was held.
type RoadView struct {
	ID           int32   `json:"id"`
	From         string  `json:"from"`
	To           string  `json:"to"`
	SpeedLimit   float64 `json:"speed_limit"`
	Length       float64 `json:"length"`
	Traffic      int     `json:"traffic"`
	CurrentSpeed float64 `json:"current_speed"`
	CurrentCost  float64 `json:"current_cost"`
}

type IntersectionView struct {
	ID        int32     `json:"id"`
	Label     string    `json:"label"`
	Position  []float64 `json:"position,omitempty"`
	Component int32     `json:"component"`
}

type CarView struct {
	ID       int32    `json:"id"`
	Kind     string   `json:"kind"`
	Start    string   `json:"start"`
	End      string   `json:"end"`
	Strategy string   `json:"strategy"`
	Path     []string `json:"path,omitempty"`
}

type NetworkView struct {
	Intersections []IntersectionView `json:"intersections"`
	Roads         []RoadView         `json:"roads"`
	Cars          []CarView          `json:"cars"`
	Components    int                `json:"components"`
}

// RouteResult is a path plus what a renderer needs to draw it.
type RouteResult struct {
	Strategy string     `json:"strategy"`
	Path     []string   `json:"path"`
	Roads    []RoadView `json:"roads"`
	Weight   float64    `json:"weight"`
	// Polyline is empty unless every intersection on the path has a position.
	Polyline string `json:"polyline,omitempty"`
}

type SnapResult struct {
	ID         int32     `json:"id"`
	Label      string    `json:"label"`
	Position   []float64 `json:"position"`
	DistanceKm float64   `json:"distance_km"`
}

func pathLabels(path []*datastructure.Intersection) []string {
	return lo.Map(path, func(in *datastructure.Intersection, _ int) string { return in.Label })
}

func newRoadView(road *datastructure.Road) RoadView {
	from, to := road.ConnectedIntersections()
	return RoadView{
		ID:           road.ID,
		From:         from.Label,
		To:           to.Label,
		SpeedLimit:   road.SpeedLimit,
		Length:       road.Length,
		Traffic:      road.Traffic(),
		CurrentSpeed: road.CurrentSpeed(),
		CurrentCost:  road.CurrentCost(),
	}
}

func newIntersectionView(in *datastructure.Intersection, component int32) IntersectionView {
	view := IntersectionView{ID: in.ID, Label: in.Label, Component: component}
	if in.HasPosition {
		view.Position = []float64{in.Lat, in.Lon}
	}
	return view
}

func newCarView(car agent.Car) CarView {
	view := CarView{
		ID:       car.ID(),
		Kind:     string(car.Kind()),
		Start:    car.Start().Label,
		End:      car.End().Label,
		Strategy: car.Strategy().String(),
	}
	if path := car.Path(); path != nil {
		view.Path = pathLabels(path)
	}
	return view
}

// SimulationService serialises every call into the road map behind one mutex.
type SimulationService struct {
	mu      sync.Mutex
	roadMap *roadmap.Map
	snapper Snapper
}

func NewSimulationService(roadMap *roadmap.Map) *SimulationService {
	return &SimulationService{
		roadMap: roadMap,
		snapper: snap.NewIntersectionSnapper(roadMap.Intersections()),
	}
}

func (uc *SimulationService) Network(ctx context.Context) NetworkView {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	components := uc.roadMap.Components()
	return NetworkView{
		Intersections: lo.Map(uc.roadMap.Intersections(), func(in *datastructure.Intersection, _ int) IntersectionView {
			return newIntersectionView(in, components.ID[in])
		}),
		Roads:      lo.Map(uc.roadMap.Roads(), func(road *datastructure.Road, _ int) RoadView { return newRoadView(road) }),
		Cars:       lo.Map(uc.roadMap.Cars(), func(car agent.Car, _ int) CarView { return newCarView(car) }),
		Components: len(components.Members),
	}
}

func (uc *SimulationService) Route(ctx context.Context, from, to, strategyName string) (RouteResult, error) {
	strategy, err := routingalgorithm.ParsePathStrategy(strategyName)
	if err != nil {
		return RouteResult{}, server.WrapErrorf(err, server.ErrBadParamInput, "unknown strategy %q", strategyName)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	start, err := uc.roadMap.Intersection(from)
	if err != nil {
		return RouteResult{}, server.WrapErrorf(err, server.ErrNotFound, "intersection %q not found", from)
	}
	end, err := uc.roadMap.Intersection(to)
	if err != nil {
		return RouteResult{}, server.WrapErrorf(err, server.ErrNotFound, "intersection %q not found", to)
	}

	path, err := uc.roadMap.Route(start, end, strategy)
	if err != nil {
		return RouteResult{}, routingError(err, from, to)
	}

	return uc.routeResult(strategy, path.Intersections)
}

// RouteCar routes a car with its own strategy and commits the route to road traffic.
func (uc *SimulationService) RouteCar(ctx context.Context, carID int32) (RouteResult, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	car, err := uc.roadMap.Car(carID)
	if err != nil {
		return RouteResult{}, server.WrapErrorf(err, server.ErrNotFound, "car %d not found", carID)
	}

	path, err := uc.roadMap.FindPathForCar(car)
	if err != nil {
		return RouteResult{}, routingError(err, car.Start().Label, car.End().Label)
	}

	log.WithFields(logrus.Fields{"car": carID, "hops": len(path) - 1}).Info("car route committed")
	return uc.routeResult(car.Strategy(), path)
}

// WalkCar drives a car with its intersection-local decisions for at most maxHops roads.
func (uc *SimulationService) WalkCar(ctx context.Context, carID int32, maxHops int) (RouteResult, error) {
	if maxHops < 0 {
		return RouteResult{}, server.NewErrorf(server.ErrBadParamInput, "max_hops must not be negative")
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	car, err := uc.roadMap.Car(carID)
	if err != nil {
		return RouteResult{}, server.WrapErrorf(err, server.ErrNotFound, "car %d not found", carID)
	}

	visited, err := uc.roadMap.WalkCar(car, maxHops)
	if err != nil {
		return RouteResult{}, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}

	return uc.routeResult(car.Strategy(), visited)
}

func (uc *SimulationService) ReleaseRoad(ctx context.Context, roadID int32) (RoadView, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	road, err := uc.roadMap.Road(roadID)
	if err != nil {
		return RoadView{}, server.WrapErrorf(err, server.ErrNotFound, "road %d not found", roadID)
	}
	if road.Traffic() == 0 {
		return RoadView{}, server.NewErrorf(server.ErrConflict, "road %d has no traffic to release", roadID)
	}

	road, err = uc.roadMap.ReleaseRoad(roadID)
	if err != nil {
		return RoadView{}, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	return newRoadView(road), nil
}

func (uc *SimulationService) SnapToIntersection(ctx context.Context, lat, lon float64) (SnapResult, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	in, dist, err := uc.snapper.SnapToIntersection(lat, lon)
	if err != nil {
		return SnapResult{}, server.WrapErrorf(err, server.ErrNotFound, "sorry!! the location you entered is not covered by this network")
	}
	return SnapResult{
		ID:         in.ID,
		Label:      in.Label,
		Position:   []float64{in.Lat, in.Lon},
		DistanceKm: dist,
	}, nil
}

// routeResult weighs path with the strategy against current road state. callers hold uc.mu.
func (uc *SimulationService) routeResult(strategy routingalgorithm.PathStrategy, path []*datastructure.Intersection) (RouteResult, error) {
	roads, err := uc.roadMap.RoadsAlong(path)
	if err != nil {
		return RouteResult{}, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	weightFunc, err := strategy.WeightFunc()
	if err != nil {
		return RouteResult{}, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	weight := 0.0
	for _, road := range roads {
		weight += weightFunc(road)
	}

	return RouteResult{
		Strategy: strategy.String(),
		Path:     pathLabels(path),
		Roads:    lo.Map(roads, func(road *datastructure.Road, _ int) RoadView { return newRoadView(road) }),
		Weight:   weight,
		Polyline: CreatePolyline(path),
	}, nil
}

func routingError(err error, from, to string) error {
	switch {
	case errors.Is(err, routingalgorithm.ErrNoPathFound):
		return server.WrapErrorf(err, server.ErrNotFound, "no path from %s to %s", from, to)
	default:
		return server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
}

// CreatePolyline encodes the path positions, "" when one of them has no position.
func CreatePolyline(path []*datastructure.Intersection) string {
	coords := make([][]float64, 0, len(path))
	for _, in := range path {
		if !in.HasPosition {
			return ""
		}
		coords = append(coords, []float64{in.Lat, in.Lon})
	}
	if len(coords) == 0 {
		return ""
	}
	return string(polyline.EncodeCoords(coords))
}
