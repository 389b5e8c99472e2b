package tomtom

import (
	"context"
	"errors"
	"fmt"
	"mobility-route-service/internal/domain"
	"mobility-route-service/internal/platform/obs"
	"mobility-route-service/internal/ports"
	"net/url"
)

// routeResponse covers both the native routing shape and a GeoJSON variant.
type routeResponse struct {
	Routes []struct {
		Summary struct {
			LengthInMeters        *float64 `json:"lengthInMeters"`
			TravelTimeInSeconds   *float64 `json:"travelTimeInSeconds"`
			TrafficDelayInSeconds float64  `json:"trafficDelayInSeconds"`
		} `json:"summary"`
		Legs []struct {
			Points []struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"points"`
		} `json:"legs"`
	} `json:"routes"`

	Features []struct {
		Properties struct {
			Summary struct {
				Distance     *float64 `json:"distance"`
				Duration     *float64 `json:"duration"`
				TrafficDelay float64  `json:"trafficDelay"`
			} `json:"summary"`
		} `json:"properties"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// geometryExtractor returns the polyline of one encoding, or nil if absent.
type geometryExtractor func(*routeResponse) []domain.Coordinate

// geometryExtractors are tried in order; the first non-empty result wins.
var geometryExtractors = []geometryExtractor{
	legPoints,
	featureCoordinates,
}

func legPoints(r *routeResponse) []domain.Coordinate {
	if len(r.Routes) == 0 {
		return nil
	}
	var out []domain.Coordinate
	for _, leg := range r.Routes[0].Legs {
		for _, p := range leg.Points {
			out = append(out, domain.Coordinate{Lat: p.Latitude, Lon: p.Longitude})
		}
	}
	return out
}

// featureCoordinates swaps GeoJSON [lon, lat] pairs into lat/lon order.
func featureCoordinates(r *routeResponse) []domain.Coordinate {
	if len(r.Features) == 0 {
		return nil
	}
	var out []domain.Coordinate
	for _, c := range r.Features[0].Geometry.Coordinates {
		if len(c) < 2 {
			continue
		}
		out = append(out, domain.Coordinate{Lat: c[1], Lon: c[0]})
	}
	return out
}

func extractGeometry(r *routeResponse) []domain.Coordinate {
	for _, extract := range geometryExtractors {
		if pts := extract(r); len(pts) > 0 {
			return pts
		}
	}
	return []domain.Coordinate{}
}

func extractSummary(r *routeResponse) (ports.RouteSummary, bool) {
	if len(r.Routes) > 0 {
		s := r.Routes[0].Summary
		if s.LengthInMeters != nil && s.TravelTimeInSeconds != nil {
			return ports.RouteSummary{
				DistanceMeters:      *s.LengthInMeters,
				TravelTimeSeconds:   *s.TravelTimeInSeconds,
				TrafficDelaySeconds: s.TrafficDelayInSeconds,
			}, true
		}
	}
	if len(r.Features) > 0 {
		s := r.Features[0].Properties.Summary
		if s.Distance != nil && s.Duration != nil {
			return ports.RouteSummary{
				DistanceMeters:      *s.Distance,
				TravelTimeSeconds:   *s.Duration,
				TrafficDelaySeconds: s.TrafficDelay,
			}, true
		}
	}
	return ports.RouteSummary{}, false
}

// routeQuery maps a strategy's request policy onto calculateRoute parameters.
func routeQuery(opts domain.RouteOptions) url.Values {
	q := url.Values{}
	q.Set("travelMode", "car")
	q.Set("computeTravelTimeFor", "all")
	q.Set("traffic", fmt.Sprint(opts.TrafficAware))

	switch opts.Objective {
	case domain.ObjectiveDistance:
		q.Set("routeType", "shortest")
	case domain.ObjectiveFuel:
		q.Set("routeType", "eco")
		q.Set("vehicleEngineType", "combustion")
		curve := opts.FuelCurve
		if curve == "" {
			curve = domain.DefaultFuelCurve
		}
		q.Set("constantSpeedConsumptionInLitersPerHundredkm", curve)
	default:
		q.Set("routeType", "fastest")
	}

	if opts.AvoidTolls {
		q.Set("avoid", "tollRoads")
	}
	return q
}

// Route issues a single calculateRoute request.
func (c *Client) Route(ctx context.Context, origin, destination domain.Coordinate, opts domain.RouteOptions) (_ ports.RouteSummary, err error) {
	op := "tomtom route " + string(opts.Strategy)
	defer obs.Time(ctx, c.log, "tomtom.Route")(&err)

	path := fmt.Sprintf("/routing/1/calculateRoute/%s:%s/json", origin, destination)

	var decoded routeResponse
	if err := c.getJSON(ctx, op, 1, path, routeQuery(opts), &decoded); err != nil {
		return ports.RouteSummary{}, err
	}

	if len(decoded.Routes) == 0 && len(decoded.Features) == 0 {
		return ports.RouteSummary{}, &domain.ProviderError{Op: op, Err: errors.New("no routes returned")}
	}

	summary, ok := extractSummary(&decoded)
	if !ok {
		return ports.RouteSummary{}, &domain.ProviderError{Op: op, Err: errors.New("route summary missing")}
	}
	summary.Geometry = extractGeometry(&decoded)

	return summary, nil
}
