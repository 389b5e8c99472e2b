package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mobility-route-service/internal/domain"
	"mobility-route-service/internal/ports"
	"regexp"
	"strconv"
	"strings"
)

// LocationInput is the closed set of accepted location shapes: PlaceName,
// LatLonPair and KeyedPoint. Each variant normalizes itself.
type LocationInput interface {
	normalize(ctx context.Context, geocoder ports.Geocoder) (domain.Coordinate, error)
}

// PlaceName is free text resolved through the geocoder.
type PlaceName string

// LatLonPair is a positional [lat, lon] pair.
type LatLonPair struct {
	Lat float64
	Lon float64
}

// KeyedPoint is a mapping whose lat/lon keys were found under any supported
// synonym. A nil field means the key was missing.
type KeyedPoint struct {
	Lat *float64
	Lon *float64
}

// Point wraps an existing coordinate so it can be passed where input is expected.
func Point(c domain.Coordinate) LocationInput { return LatLonPair{Lat: c.Lat, Lon: c.Lon} }

var (
	latKeys = []string{"lat", "latitude"}
	lonKeys = []string{"lon", "lng", "longitude"}

	// "28.6139,77.2090", "28.6139, 77.2090" or "[28.6139, 77.2090]".
	coordString = regexp.MustCompile(`^\[?\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*\]?$`)
)

// Normalizer resolves any LocationInput into a validated coordinate.
type Normalizer struct {
	geocoder ports.Geocoder
}

func NewNormalizer(geocoder ports.Geocoder) *Normalizer {
	return &Normalizer{geocoder: geocoder}
}

// Normalize fails with *domain.InvalidCoordinateError for missing or
// out-of-range values and *domain.GeocodingError for unresolvable names.
func (n *Normalizer) Normalize(ctx context.Context, in LocationInput) (domain.Coordinate, error) {
	if in == nil {
		return domain.Coordinate{}, &domain.InvalidCoordinateError{Reason: "location is required"}
	}
	return in.normalize(ctx, n.geocoder)
}

func (p PlaceName) normalize(ctx context.Context, geocoder ports.Geocoder) (domain.Coordinate, error) {
	name := strings.Join(strings.Fields(string(p)), " ")
	if name == "" {
		return domain.Coordinate{}, &domain.InvalidCoordinateError{Reason: "place name must not be empty"}
	}

	// A name that is really a "lat,lon" string needs no geocoding.
	if m := coordString.FindStringSubmatch(name); m != nil {
		lat, _ := strconv.ParseFloat(m[1], 64)
		lon, _ := strconv.ParseFloat(m[2], 64)
		return domain.NewCoordinate(lat, lon)
	}

	if geocoder == nil {
		return domain.Coordinate{}, &domain.GeocodingError{Query: name, Err: errors.New("no geocoder configured")}
	}

	c, err := geocoder.Geocode(ctx, name)
	if err != nil {
		var ge *domain.GeocodingError
		if errors.As(err, &ge) {
			return domain.Coordinate{}, err
		}
		return domain.Coordinate{}, &domain.GeocodingError{Query: name, Err: err}
	}

	if err := c.Validate(); err != nil {
		return domain.Coordinate{}, &domain.GeocodingError{Query: name, Err: err}
	}
	return c, nil
}

func (p LatLonPair) normalize(context.Context, ports.Geocoder) (domain.Coordinate, error) {
	return domain.NewCoordinate(p.Lat, p.Lon)
}

func (k KeyedPoint) normalize(context.Context, ports.Geocoder) (domain.Coordinate, error) {
	if k.Lat == nil || k.Lon == nil {
		return domain.Coordinate{}, &domain.InvalidCoordinateError{Reason: "both latitude and longitude are required"}
	}
	return domain.NewCoordinate(*k.Lat, *k.Lon)
}

// ParseLocation decodes a JSON location. Shapes are tried in order: string,
// then two-element array, then object; the first matching shape wins.
func ParseLocation(raw json.RawMessage) (LocationInput, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, &domain.InvalidCoordinateError{Reason: "location is required"}
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, &domain.InvalidCoordinateError{Reason: fmt.Sprintf("decode place name: %v", err)}
		}
		return PlaceName(s), nil

	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, &domain.InvalidCoordinateError{Reason: fmt.Sprintf("decode coordinate pair: %v", err)}
		}
		if len(items) != 2 {
			return nil, &domain.InvalidCoordinateError{Reason: fmt.Sprintf("coordinate pair must have 2 elements, got %d", len(items))}
		}
		lat, err := parseNumber("latitude", items[0])
		if err != nil {
			return nil, err
		}
		lon, err := parseNumber("longitude", items[1])
		if err != nil {
			return nil, err
		}
		return LatLonPair{Lat: lat, Lon: lon}, nil

	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, &domain.InvalidCoordinateError{Reason: fmt.Sprintf("decode coordinate object: %v", err)}
		}
		var kp KeyedPoint
		var err error
		if kp.Lat, err = lookupNumber(fields, "latitude", latKeys); err != nil {
			return nil, err
		}
		if kp.Lon, err = lookupNumber(fields, "longitude", lonKeys); err != nil {
			return nil, err
		}
		return kp, nil

	default:
		return nil, &domain.InvalidCoordinateError{Reason: "location must be a place name, a [lat, lon] pair or an object with lat/lon keys"}
	}
}

// lookupNumber returns the first synonym present; nil when none is.
func lookupNumber(fields map[string]json.RawMessage, label string, keys []string) (*float64, error) {
	for _, k := range keys {
		raw, ok := fields[k]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		v, err := parseNumber(label, raw)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
	return nil, nil
}

// parseNumber accepts JSON numbers and numeric strings.
func parseNumber(label string, raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v, nil
		}
	}

	return 0, &domain.InvalidCoordinateError{Reason: fmt.Sprintf("%s must be numeric, got %s", label, string(raw))}
}
