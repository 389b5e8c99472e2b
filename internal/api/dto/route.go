package dto

import (
	"encoding/json"
	"mobility-route-service/internal/domain"
)

// RouteRequest carries two locations in any accepted shape: a place name,
// a "lat,lon" string, a [lat, lon] pair or an object with lat/lon keys.
type RouteRequest struct {
	Origin      json.RawMessage `json:"origin"`
	Destination json.RawMessage `json:"destination"`
}

type RouteResponse struct {
	Strategy                   domain.Strategy     `json:"strategy"`
	Success                    bool                `json:"success"`
	Error                      string              `json:"error,omitempty"`
	DistanceKm                 float64             `json:"distance_km"`
	DurationMinutes            float64             `json:"duration_minutes"`
	TrafficDelayMinutes        float64             `json:"traffic_delay_minutes"`
	DurationWithTrafficMinutes float64             `json:"duration_with_traffic_minutes"`
	CostUSD                    float64             `json:"cost_usd"`
	CO2Kg                      float64             `json:"co2_kg"`
	Distance                   string              `json:"distance,omitempty"`
	Duration                   string              `json:"duration,omitempty"`
	Geometry                   []domain.Coordinate `json:"geometry"`
}

// NewRouteResponse adds the human readable distance and duration to a
// succeeded record. Failed records only carry the strategy and the error.
func NewRouteResponse(r domain.RouteRecord) RouteResponse {
	res := RouteResponse{
		Strategy: r.Strategy,
		Success:  r.Success,
		Error:    r.Error,
		Geometry: r.Geometry,
	}
	if res.Geometry == nil {
		res.Geometry = []domain.Coordinate{}
	}
	if !r.Success {
		return res
	}

	res.DistanceKm = r.DistanceKm
	res.DurationMinutes = r.DurationMinutes
	res.TrafficDelayMinutes = r.TrafficDelayMinutes
	res.DurationWithTrafficMinutes = r.DurationWithTrafficMinutes
	res.CostUSD = r.CostUSD
	res.CO2Kg = r.CO2Kg
	res.Distance = domain.FormatDistance(r.DistanceKm * 1000)
	res.Duration = domain.FormatDuration(r.DurationWithTrafficMinutes * 60)
	return res
}

type SingleRouteResponse struct {
	Route       RouteResponse     `json:"route"`
	Origin      domain.Coordinate `json:"origin"`
	Destination domain.Coordinate `json:"destination"`
}

type CompareResponse struct {
	Fastest     RouteResponse           `json:"fastest"`
	Cheapest    RouteResponse           `json:"cheapest"`
	Eco         RouteResponse           `json:"eco"`
	Comparison  domain.ComparisonResult `json:"comparison"`
	Origin      domain.Coordinate       `json:"origin"`
	Destination domain.Coordinate       `json:"destination"`
}
