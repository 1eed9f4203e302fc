package domain

import (
	"fmt"
	"math"

	"readyToHelp/pkg/e"

	"github.com/paulmach/orb"
)

const coordinateScale = 1e6

// Coordinate is a WGS84 position rounded to 6 decimal places.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func NewCoordinate(lat, lng float64) (Coordinate, error) {
	if err := CheckBounds(lat, lng); err != nil {
		return Coordinate{}, err
	}
	return Coordinate{Lat: round6(lat), Lng: round6(lng)}, nil
}

// CheckBounds reports ErrOutOfRange for latitudes outside [-90,90] or
// longitudes outside [-180,180]. NaN is rejected as well.
func CheckBounds(lat, lng float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude %v", e.ErrOutOfRange, lat)
	}
	if math.IsNaN(lng) || lng < -180 || lng > 180 {
		return fmt.Errorf("%w: longitude %v", e.ErrOutOfRange, lng)
	}
	return nil
}

// Point returns the coordinate in orb's (x=lng, y=lat) order.
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.6f,%.6f)", c.Lat, c.Lng)
}

// math.Round rounds half away from zero.
func round6(v float64) float64 {
	return math.Round(v*coordinateScale) / coordinateScale
}
