package snap

import (
	"errors"

	"github.com/dhconnelly/rtreego"

	"lintang/trafficsim/pkg/datastructure"
	"lintang/trafficsim/pkg/geo"
)

var (
	ErrNoPositionedIntersection = errors.New("network has no intersection with a position")
)

const pointTolerance = 1e-7

type intersectionLeaf struct {
	intersection *datastructure.Intersection
	bounds       rtreego.Rect
}

func (l *intersectionLeaf) Bounds() rtreego.Rect {
	return l.bounds
}

// IntersectionSnapper finds the positioned intersection closest to a coordinate.
// intersections without a position are never returned.
type IntersectionSnapper struct {
	rtree *rtreego.Rtree
	size  int
}

func NewIntersectionSnapper(intersections []*datastructure.Intersection) *IntersectionSnapper {
	rt := rtreego.NewTree(2, 25, 50)
	size := 0
	for _, in := range intersections {
		if !in.HasPosition {
			continue
		}
		rt.Insert(&intersectionLeaf{
			intersection: in,
			bounds:       rtreego.Point{in.Lat, in.Lon}.ToRect(pointTolerance),
		})
		size++
	}
	return &IntersectionSnapper{rtree: rt, size: size}
}

func (s *IntersectionSnapper) Size() int {
	return s.size
}

// SnapToIntersection returns the nearest intersection and its great-circle distance in km.
func (s *IntersectionSnapper) SnapToIntersection(lat, lon float64) (*datastructure.Intersection, float64, error) {
	if s.size == 0 {
		return nil, 0, ErrNoPositionedIntersection
	}

	leaf := s.rtree.NearestNeighbor(rtreego.Point{lat, lon}).(*intersectionLeaf)
	in := leaf.intersection
	return in, geo.GreatCircleDistance(lat, lon, in.Lat, in.Lon), nil
}
