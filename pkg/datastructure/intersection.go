package datastructure

// Intersection is a graph node. it does not own its roads, the map does.
type Intersection struct {
	ID    int32
	Label string

	Lat, Lon    float64
	HasPosition bool

	roads []*Road
}

func NewIntersection(id int32, label string) *Intersection {
	return &Intersection{
		ID:    id,
		Label: label,
		roads: make([]*Road, 0),
	}
}

func NewIntersectionWithPosition(id int32, label string, lat, lon float64) *Intersection {
	in := NewIntersection(id, label)
	in.Lat, in.Lon, in.HasPosition = lat, lon, true
	return in
}

// AddRoads appends roads in call order. the caller must only add roads that have in as an endpoint.
func (in *Intersection) AddRoads(roads ...*Road) {
	in.roads = append(in.roads, roads...)
}

// Roads returns incident roads in insertion order. callers must not modify the slice.
func (in *Intersection) Roads() []*Road {
	return in.roads
}

func (in *Intersection) String() string {
	return in.Label
}
