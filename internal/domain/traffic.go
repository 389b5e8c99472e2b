package domain

import "time"

// CongestionLevel is a qualitative bucket of current vs free-flow speed.
type CongestionLevel string

const (
	CongestionLow      CongestionLevel = "low"
	CongestionModerate CongestionLevel = "moderate"
	CongestionHigh     CongestionLevel = "high"
	CongestionSevere   CongestionLevel = "severe"
	CongestionUnknown  CongestionLevel = "unknown"
)

// ClassifySpeedRatio maps r = current/free-flow speed onto a congestion level.
func ClassifySpeedRatio(r float64) CongestionLevel {
	switch {
	case r >= 0.8:
		return CongestionLow
	case r >= 0.5:
		return CongestionModerate
	case r >= 0.3:
		return CongestionHigh
	default:
		return CongestionSevere
	}
}

// TrafficSnapshot is a point reading from the traffic flow collaborator.
type TrafficSnapshot struct {
	CurrentSpeed       float64 `json:"current_speed"`
	FreeFlowSpeed      float64 `json:"free_flow_speed"`
	Confidence         float64 `json:"confidence"`
	CurrentTravelTime  float64 `json:"current_travel_time"`
	FreeFlowTravelTime float64 `json:"free_flow_travel_time"`
}

// CongestionLevel is derived from the speed ratio, never stored.
func (t TrafficSnapshot) CongestionLevel() CongestionLevel {
	if t.FreeFlowSpeed <= 0 {
		return CongestionUnknown
	}
	return ClassifySpeedRatio(t.CurrentSpeed / t.FreeFlowSpeed)
}

// Incident is a reported traffic incident inside a bounding box.
type Incident struct {
	Type        string       `json:"type"`
	Category    int          `json:"category"`
	Delay       int          `json:"delay"`
	Description string       `json:"description"`
	Coordinates []Coordinate `json:"coordinates"`
	StartTime   *time.Time   `json:"start_time,omitempty"`
	EndTime     *time.Time   `json:"end_time,omitempty"`
}

// POI is a point of interest returned by nearby search.
type POI struct {
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	Coordinate     Coordinate `json:"coordinate"`
	DistanceMeters float64    `json:"distance_meters"`
	Address        string     `json:"address,omitempty"`
}

// TrafficRecord is one collected sample of a named location.
type TrafficRecord struct {
	BatchID            string          `json:"batch_id"`
	CollectedAt        time.Time       `json:"collected_at"`
	LocationName       string          `json:"location_name"`
	Coordinate         Coordinate      `json:"coordinate"`
	Hour               int             `json:"hour"`
	DayOfWeek          int             `json:"day_of_week"`
	IsWeekend          bool            `json:"is_weekend"`
	CurrentSpeed       float64         `json:"current_speed"`
	FreeFlowSpeed      float64         `json:"free_flow_speed"`
	CurrentTravelTime  float64         `json:"current_travel_time"`
	FreeFlowTravelTime float64         `json:"free_flow_travel_time"`
	Confidence         float64         `json:"confidence"`
	CongestionLevel    CongestionLevel `json:"congestion_level"`
	CongestionIndex    float64         `json:"congestion_index"`
}

// NamedLocation is a collection target.
type NamedLocation struct {
	Name       string     `json:"name"`
	Coordinate Coordinate `json:"coordinate"`
}
