package valueobjects

import (
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used by DistanceMeters.
const EarthRadiusMeters = 6371000.0

// Coordinate is an immutable latitude/longitude pair in degrees.
// Two coordinates are equal only when both fields are bit-for-bit equal.
type Coordinate struct {
	latitude  float32
	longitude float32
}

// NewCoordinate validates the ranges and returns a coordinate.
func NewCoordinate(latitude, longitude float32) (Coordinate, error) {
	if math.IsNaN(float64(latitude)) || latitude < -90 || latitude > 90 {
		return Coordinate{}, fmt.Errorf("latitude must be between -90 and 90, got %v", latitude)
	}
	if math.IsNaN(float64(longitude)) || longitude < -180 || longitude > 180 {
		return Coordinate{}, fmt.Errorf("longitude must be between -180 and 180, got %v", longitude)
	}
	return Coordinate{latitude: latitude, longitude: longitude}, nil
}

// MustCoordinate is NewCoordinate for literals known to be valid.
func MustCoordinate(latitude, longitude float32) Coordinate {
	c, err := NewCoordinate(latitude, longitude)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Coordinate) Latitude() float32 {
	return c.latitude
}

func (c Coordinate) Longitude() float32 {
	return c.longitude
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%v, %v)", c.latitude, c.longitude)
}

// DistanceTo returns the great-circle distance to other in meters.
func (c Coordinate) DistanceTo(other Coordinate) float64 {
	return DistanceMeters(c, other)
}

// DistanceMeters computes the Haversine distance between a and b.
// It is symmetric and returns exactly zero when a == b.
func DistanceMeters(a, b Coordinate) float64 {
	lat1 := toRadians(a.latitude)
	lat2 := toRadians(b.latitude)
	dLat := lat2 - lat1
	dLng := toRadians(b.longitude) - toRadians(a.longitude)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng

	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRadians(deg float32) float64 {
	return float64(deg) * math.Pi / 180
}
