package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const boundaryEpsilon = 1e-12

// Contains reports whether p lies strictly inside area. Points on an edge or
// vertex of any ring, holes included, are not contained.
func Contains(area orb.Geometry, p orb.Point) bool {
	switch g := area.(type) {
	case orb.Polygon:
		return polygonContains(g, p)
	case orb.MultiPolygon:
		for _, poly := range g {
			if polygonContains(poly, p) {
				return true
			}
		}
		return false
	case orb.Ring:
		return polygonContains(orb.Polygon{g}, p)
	case orb.Bound:
		return p[0] > g.Min[0] && p[0] < g.Max[0] && p[1] > g.Min[1] && p[1] < g.Max[1]
	case orb.Collection:
		for _, child := range g {
			if Contains(child, p) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func polygonContains(poly orb.Polygon, p orb.Point) bool {
	if len(poly) == 0 || len(poly[0]) < 3 {
		return false
	}
	for _, ring := range poly {
		if onRing(ring, p) {
			return false
		}
	}
	return planar.PolygonContains(poly, p)
}

func onRing(r orb.Ring, p orb.Point) bool {
	n := len(r)
	for i := 0; i < n; i++ {
		if onSegment(r[i], r[(i+1)%n], p) {
			return true
		}
	}
	return false
}

func onSegment(a, b, p orb.Point) bool {
	cross := (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
	if math.Abs(cross) > boundaryEpsilon {
		return false
	}
	return p[0] >= math.Min(a[0], b[0])-boundaryEpsilon &&
		p[0] <= math.Max(a[0], b[0])+boundaryEpsilon &&
		p[1] >= math.Min(a[1], b[1])-boundaryEpsilon &&
		p[1] <= math.Max(a[1], b[1])+boundaryEpsilon
}
