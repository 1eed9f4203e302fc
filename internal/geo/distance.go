// Package geo holds the pure geometric helpers used by matching and routing.
package geo

import (
	"readyToHelp/internal/domain"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// DistanceMeters is the haversine great-circle distance between a and b.
func DistanceMeters(a, b domain.Coordinate) float64 {
	return orbgeo.DistanceHaversine(a.Point(), b.Point())
}

var world = orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}

// SearchBound returns a box that contains every point within radiusMeters of
// center, padded by a meter so rounding never drops a qualifying point.
// Boxes that would wrap the antimeridian or a pole degrade to the whole world.
func SearchBound(center domain.Coordinate, radiusMeters float64) orb.Bound {
	if radiusMeters < 0 {
		radiusMeters = 0
	}
	b := orbgeo.BoundPad(orbgeo.NewBoundAroundPoint(center.Point(), radiusMeters), 1)
	if b.Min[0] < -180 || b.Max[0] > 180 || b.Min[1] < -90 || b.Max[1] > 90 {
		return world
	}
	return b
}
