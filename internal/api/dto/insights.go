package dto

import (
	"mobility-route-service/internal/domain"
	"time"
)

type TrafficResponse struct {
	Location           domain.Coordinate      `json:"location"`
	CurrentSpeed       float64                `json:"current_speed"`
	FreeFlowSpeed      float64                `json:"free_flow_speed"`
	CurrentTravelTime  float64                `json:"current_travel_time"`
	FreeFlowTravelTime float64                `json:"free_flow_travel_time"`
	Confidence         float64                `json:"confidence"`
	CongestionLevel    domain.CongestionLevel `json:"congestion_level"`
	TimePeriod         string                 `json:"time_period"`
	IsPeakHour         bool                   `json:"is_peak_hour"`
	ObservedAt         time.Time              `json:"observed_at"`
}

type POIAnalysisResponse struct {
	Location     domain.Coordinate      `json:"location"`
	RadiusMeters int                    `json:"radius_meters"`
	Category     string                 `json:"category,omitempty"`
	POIs         []domain.POI           `json:"pois"`
	Distribution domain.POIDistribution `json:"distribution"`
}

// MobilityResponse is the area report. Traffic is null when the flow reading
// failed; Warnings lists every degraded input.
type MobilityResponse struct {
	Location     domain.Coordinate         `json:"location"`
	RadiusMeters int                       `json:"radius_meters"`
	Traffic      *domain.TrafficSnapshot   `json:"traffic"`
	Incidents    []domain.Incident         `json:"incidents"`
	Distribution domain.POIDistribution    `json:"poi_distribution"`
	Area         domain.AreaClassification `json:"area"`
	Mobility     domain.MobilityPattern    `json:"mobility"`
	TimePeriod   string                    `json:"time_period"`
	IsPeakHour   bool                      `json:"is_peak_hour"`
	Warnings     []string                  `json:"warnings"`
	ObservedAt   time.Time                 `json:"observed_at"`
}
