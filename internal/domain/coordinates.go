package domain

import (
	"fmt"
	"math"
	"strconv"
)

// Immutable geographic coordinate (latitude, longitude) in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewCoordinate validates the pair and returns it as a Coordinate.
// Both bounds are inclusive.
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return Coordinate{}, &InvalidCoordinateError{Reason: "latitude and longitude must be finite numbers"}
	}
	if lat < -90 || lat > 90 {
		return Coordinate{}, &InvalidCoordinateError{Reason: fmt.Sprintf("latitude %v must be between -90 and 90", lat)}
	}
	if lon < -180 || lon > 180 {
		return Coordinate{}, &InvalidCoordinateError{Reason: fmt.Sprintf("longitude %v must be between -180 and 180", lon)}
	}
	return Coordinate{Lat: lat, Lon: lon}, nil
}

// Validate re-checks the range invariant, for values built as struct literals.
func (c Coordinate) Validate() error {
	_, err := NewCoordinate(c.Lat, c.Lon)
	return err
}

// Return coordinates as [lon, lat] for GeoJSON-style APIs.
func (c Coordinate) LonLat() []float64 { return []float64{c.Lon, c.Lat} }

// String renders "lat,lon", the form TomTom expects in paths and query strings.
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}
