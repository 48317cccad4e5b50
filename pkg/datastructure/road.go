package datastructure

import "lintang/trafficsim/pkg/util"

const (
	congestionFactor      = 5.0 // speed lost per car on the road
	minSpeed              = 10.0
	baseCostPerUnit       = 1.0
	congestionCostPerUnit = 0.5
)

// Road is an undirected edge between two distinct intersections.
// SpeedLimit and Length never change, traffic is the only mutable state.
type Road struct {
	ID         int32
	SpeedLimit float64
	Length     float64

	ends    [2]*Intersection
	traffic int
}

func NewRoad(id int32, speedLimit, length float64, from, to *Intersection) *Road {
	util.AssertPanic(from != nil && to != nil, "road %d: endpoint is nil", id)
	util.AssertPanic(from != to, "road %d: both endpoints are intersection %s", id, from.Label)
	return &Road{
		ID:         id,
		SpeedLimit: speedLimit,
		Length:     length,
		ends:       [2]*Intersection{from, to},
	}
}

// CurrentSpeed. speed limit minus congestion penalty, never below minSpeed.
func (r *Road) CurrentSpeed() float64 {
	return max(r.SpeedLimit-float64(r.traffic)*congestionFactor, minSpeed)
}

func (r *Road) CurrentCost() float64 {
	return r.Length*baseCostPerUnit + float64(r.traffic)*congestionCostPerUnit
}

func (r *Road) Traffic() int {
	return r.traffic
}

func (r *Road) IncrementTraffic() {
	r.traffic++
}

// DecrementTraffic is a no-op when the road is already empty.
func (r *Road) DecrementTraffic() {
	if r.traffic > 0 {
		r.traffic--
	}
}

func (r *Road) ConnectedIntersections() (*Intersection, *Intersection) {
	return r.ends[0], r.ends[1]
}

// OtherEnd returns the endpoint that is not from. ok is false if from is not an endpoint of r.
func (r *Road) OtherEnd(from *Intersection) (*Intersection, bool) {
	switch from {
	case r.ends[0]:
		return r.ends[1], true
	case r.ends[1]:
		return r.ends[0], true
	default:
		return nil, false
	}
}

func (r *Road) Connects(a, b *Intersection) bool {
	return (r.ends[0] == a && r.ends[1] == b) || (r.ends[0] == b && r.ends[1] == a)
}
