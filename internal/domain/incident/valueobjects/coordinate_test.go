package valueobjects

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		lat     float32
		lng     float32
		wantErr bool
	}{
		{name: "madrid", lat: 40.416775, lng: -3.703790},
		{name: "north pole", lat: 90, lng: 0},
		{name: "antimeridian", lat: 0, lng: -180},
		{name: "latitude too high", lat: 90.5, lng: 0, wantErr: true},
		{name: "longitude too low", lat: 0, lng: -180.01, wantErr: true},
		{name: "nan latitude", lat: float32(math.NaN()), lng: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCoordinate(tt.lat, tt.lng)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.lat, c.Latitude())
			assert.Equal(t, tt.lng, c.Longitude())
		})
	}
}

func TestDistanceMeters_SameCoordinateIsZero(t *testing.T) {
	points := []Coordinate{
		MustCoordinate(40.416775, -3.703790),
		MustCoordinate(0, 0),
		MustCoordinate(-33.8688, 151.2093),
		MustCoordinate(89.9999, 179.9999),
	}

	for _, p := range points {
		assert.Equal(t, 0.0, DistanceMeters(p, p), "point %s", p)
	}
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	pairs := [][2]Coordinate{
		{MustCoordinate(40.416775, -3.703790), MustCoordinate(40.41681991555875, -3.703731005258922)},
		{MustCoordinate(40.416775, -3.703790), MustCoordinate(41.3874, 2.1686)},
		{MustCoordinate(-33.8688, 151.2093), MustCoordinate(51.5072, -0.1276)},
		{MustCoordinate(0, 179.5), MustCoordinate(0, -179.5)},
	}

	for _, p := range pairs {
		assert.Equal(t, DistanceMeters(p[0], p[1]), DistanceMeters(p[1], p[0]))
	}
}

func TestDistanceMeters_KnownDistances(t *testing.T) {
	origin := MustCoordinate(40.416775, -3.703790)

	tests := []struct {
		name      string
		other     Coordinate
		want      float64
		tolerance float64
	}{
		{
			name:      "a few meters away",
			other:     MustCoordinate(40.41681991555875, -3.703731005258922),
			want:      7.1,
			tolerance: 1.0,
		},
		{
			name:      "a few hundred meters away",
			other:     MustCoordinate(40.42, -3.70),
			want:      484,
			tolerance: 10,
		},
		{
			name:      "madrid to barcelona",
			other:     MustCoordinate(41.3874, 2.1686),
			want:      505000,
			tolerance: 5000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DistanceMeters(origin, tt.other), tt.tolerance)
		})
	}
}

func TestDistanceMeters_OneDegreeOfLatitude(t *testing.T) {
	a := MustCoordinate(0, 0)
	b := MustCoordinate(1, 0)

	want := EarthRadiusMeters * math.Pi / 180
	assert.InDelta(t, want, DistanceMeters(a, b), 0.5)
}

func TestCoordinate_DistanceToMatchesDistanceMeters(t *testing.T) {
	a := MustCoordinate(40.416775, -3.703790)
	b := MustCoordinate(40.42, -3.70)

	assert.Equal(t, DistanceMeters(a, b), a.DistanceTo(b))
}

func TestCoordinate_Equality(t *testing.T) {
	assert.True(t, MustCoordinate(1.5, 2.5) == MustCoordinate(1.5, 2.5))
	assert.False(t, MustCoordinate(1.5, 2.5) == MustCoordinate(1.5, 2.5000002))
}
