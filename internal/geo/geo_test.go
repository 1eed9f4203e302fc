package geo_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readyToHelp/internal/domain"
	"readyToHelp/internal/geo"
)

func coord(t *testing.T, lat, lng float64) domain.Coordinate {
	t.Helper()
	c, err := domain.NewCoordinate(lat, lng)
	require.NoError(t, err)
	return c
}

func TestDistanceMeters_SymmetricAndZero(t *testing.T) {
	t.Parallel()

	pairs := [][2]domain.Coordinate{
		{coord(t, 41.149612, -8.610993), coord(t, 38.722252, -9.139337)},
		{coord(t, -33.8688, 151.2093), coord(t, 51.5074, -0.1278)},
		{coord(t, 0, 179.9999), coord(t, 0, -179.9999)},
		{coord(t, 89.9, 0), coord(t, -89.9, 180)},
	}

	for _, p := range pairs {
		assert.Equal(t, geo.DistanceMeters(p[0], p[1]), geo.DistanceMeters(p[1], p[0]))
		assert.Zero(t, geo.DistanceMeters(p[0], p[0]))
		assert.Zero(t, geo.DistanceMeters(p[1], p[1]))
	}
}

func TestDistanceMeters_OneDegreeOfLatitude(t *testing.T) {
	t.Parallel()

	d := geo.DistanceMeters(coord(t, 0, 0), coord(t, 1, 0))
	assert.InDelta(t, 111319.49, d, 0.01)
}

func TestDistanceMeters_ShortRange(t *testing.T) {
	t.Parallel()

	base := coord(t, 41.149612, -8.610993)
	assert.LessOrEqual(t, geo.DistanceMeters(base, coord(t, 41.150061, -8.610993)), 50.0)
	assert.Greater(t, geo.DistanceMeters(base, coord(t, 41.150072, -8.610993)), 50.0)
}

var square = orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}}

func TestContains_Polygon(t *testing.T) {
	t.Parallel()

	assert.True(t, geo.Contains(square, orb.Point{0.5, 0.5}))
	assert.False(t, geo.Contains(square, orb.Point{1.5, 0.5}))
}

func TestContains_BoundaryIsNotContained(t *testing.T) {
	t.Parallel()

	for _, p := range []orb.Point{
		{0.5, 0}, {1, 0.5}, {0.5, 1}, {0, 0.5}, // edges
		{0, 0}, {1, 1}, // vertices
	} {
		assert.Falsef(t, geo.Contains(square, p), "boundary point %v reported as contained", p)
	}
}

func TestContains_Hole(t *testing.T) {
	t.Parallel()

	withHole := orb.Polygon{
		{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}},
		{{1, 1}, {1, 3}, {3, 3}, {3, 1}, {1, 1}},
	}
	assert.True(t, geo.Contains(withHole, orb.Point{0.5, 0.5}))
	assert.False(t, geo.Contains(withHole, orb.Point{2, 2}))
	assert.False(t, geo.Contains(withHole, orb.Point{1, 2}), "hole edge is boundary")
}

func TestContains_MultiPolygon(t *testing.T) {
	t.Parallel()

	mp := orb.MultiPolygon{
		square,
		{{{10, 10}, {11, 10}, {11, 11}, {10, 11}, {10, 10}}},
	}
	assert.True(t, geo.Contains(mp, orb.Point{10.5, 10.5}))
	assert.False(t, geo.Contains(mp, orb.Point{10.5, 10}))
	assert.False(t, geo.Contains(mp, orb.Point{5, 5}))
}

func TestContains_UnsupportedGeometry(t *testing.T) {
	t.Parallel()

	assert.False(t, geo.Contains(orb.Point{0, 0}, orb.Point{0, 0}))
	assert.False(t, geo.Contains(nil, orb.Point{0, 0}))
	assert.False(t, geo.Contains(orb.Polygon{}, orb.Point{0, 0}))
}

func TestSearchBound_ContainsPointsWithinRadius(t *testing.T) {
	t.Parallel()

	center := coord(t, 41.149612, -8.610993)
	b := geo.SearchBound(center, 50)

	near := coord(t, 41.150061, -8.610993)
	require.LessOrEqual(t, geo.DistanceMeters(center, near), 50.0)
	assert.True(t, b.Contains(near.Point()))

	far := coord(t, 41.16, -8.610993)
	assert.False(t, b.Contains(far.Point()))
}

func TestSearchBound_AntimeridianDegradesToWorld(t *testing.T) {
	t.Parallel()

	b := geo.SearchBound(coord(t, 0, 179.99999), 50)
	assert.True(t, b.Contains(orb.Point{-179.99999, 0}))
}
