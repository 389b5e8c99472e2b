package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const kmPerDegree = 111.0

// Rectangular region used to scope incident queries.
type BBox struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// BBoxAround approximates a square box of radiusKm around center.
// Results are clamped to the valid coordinate range.
func BBoxAround(center Coordinate, radiusKm float64) BBox {
	latDeg := radiusKm / kmPerDegree

	cos := math.Abs(math.Cos(center.Lat * math.Pi / 180))
	lonDeg := 180.0
	// Near the poles a degree of longitude collapses to nothing.
	if cos > 1e-9 {
		lonDeg = math.Min(radiusKm/(kmPerDegree*cos), 180)
	}

	return BBox{
		MinLon: math.Max(center.Lon-lonDeg, -180),
		MinLat: math.Max(center.Lat-latDeg, -90),
		MaxLon: math.Min(center.Lon+lonDeg, 180),
		MaxLat: math.Min(center.Lat+latDeg, 90),
	}
}

// String renders "minLon,minLat,maxLon,maxLat".
func (b BBox) String() string {
	parts := []float64{b.MinLon, b.MinLat, b.MaxLon, b.MaxLat}
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strconv.FormatFloat(p, 'f', 6, 64)
	}
	return strings.Join(out, ",")
}

// ParseBBox parses and validates "minLon,minLat,maxLon,maxLat".
func ParseBBox(s string) (BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BBox{}, &InvalidCoordinateError{Reason: "bounding box must have 4 values: minLon,minLat,maxLon,maxLat"}
	}

	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BBox{}, &InvalidCoordinateError{Reason: fmt.Sprintf("bounding box value %q is not numeric", p)}
		}
		vals[i] = v
	}

	b := BBox{MinLon: vals[0], MinLat: vals[1], MaxLon: vals[2], MaxLat: vals[3]}
	if _, err := NewCoordinate(b.MinLat, b.MinLon); err != nil {
		return BBox{}, err
	}
	if _, err := NewCoordinate(b.MaxLat, b.MaxLon); err != nil {
		return BBox{}, err
	}
	if b.MinLon >= b.MaxLon || b.MinLat >= b.MaxLat {
		return BBox{}, &InvalidCoordinateError{Reason: "bounding box min values must be less than max values"}
	}

	return b, nil
}
