package domain

import "fmt"

// Strategy is one of the three route computation modes.
type Strategy string

const (
	StrategyFastest  Strategy = "fastest"
	StrategyCheapest Strategy = "cheapest"
	StrategyEco      Strategy = "eco"
)

// Strategies lists every strategy in tie-break priority order.
var Strategies = []Strategy{StrategyFastest, StrategyCheapest, StrategyEco}

// ParseStrategy accepts the canonical names plus the "eco-friendly" alias.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "fastest":
		return StrategyFastest, nil
	case "cheapest":
		return StrategyCheapest, nil
	case "eco", "eco-friendly":
		return StrategyEco, nil
	default:
		return "", fmt.Errorf("parse strategy: unknown strategy %q", s)
	}
}

// Priority is the tie-break rank; lower wins.
func (s Strategy) Priority() int {
	for i, v := range Strategies {
		if v == s {
			return i
		}
	}
	return len(Strategies)
}

// Optimization objective requested from the routing provider.
type Objective string

const (
	ObjectiveTime     Objective = "time"
	ObjectiveDistance Objective = "distance"
	ObjectiveFuel     Objective = "fuel"
)

// RouteOptions is the provider-independent request policy for one strategy.
type RouteOptions struct {
	Strategy     Strategy
	TrafficAware bool
	Objective    Objective
	AvoidTolls   bool
	// FuelCurve is a fixed speed:consumption curve ("kmh,l/100km:...") used by
	// the fuel objective.
	FuelCurve string
}

// DefaultFuelCurve is the fixed consumption curve sent for eco routing.
const DefaultFuelCurve = "50,6.3:130,11.5"

// OptionsFor returns the request policy of a strategy.
func OptionsFor(s Strategy) RouteOptions {
	switch s {
	case StrategyCheapest:
		// Shortest distance without tolls stands in for lowest monetary cost.
		return RouteOptions{Strategy: s, TrafficAware: false, Objective: ObjectiveDistance, AvoidTolls: true}
	case StrategyEco:
		return RouteOptions{Strategy: s, TrafficAware: true, Objective: ObjectiveFuel, FuelCurve: DefaultFuelCurve}
	default:
		return RouteOptions{Strategy: StrategyFastest, TrafficAware: true, Objective: ObjectiveTime}
	}
}

// RouteRecord is the canonical result of one strategy's route computation.
// When Success is false only Strategy and Error are meaningful.
type RouteRecord struct {
	Strategy                   Strategy     `json:"strategy"`
	Success                    bool         `json:"success"`
	Error                      string       `json:"error,omitempty"`
	DistanceKm                 float64      `json:"distance_km"`
	DurationMinutes            float64      `json:"duration_minutes"`
	TrafficDelayMinutes        float64      `json:"traffic_delay_minutes"`
	DurationWithTrafficMinutes float64      `json:"duration_with_traffic_minutes"`
	CostUSD                    float64      `json:"cost_usd"`
	CO2Kg                      float64      `json:"co2_kg"`
	Geometry                   []Coordinate `json:"geometry"`
}

// Rates are the configured per-km constants used for derived fields.
type Rates struct {
	CostPerKm float64
	CO2PerKm  float64
}

// NewRouteRecord derives the cost, emission and total-duration fields locally
// so every strategy reports comparable units.
func NewRouteRecord(s Strategy, distanceKm, durationMin, delayMin float64, geometry []Coordinate, rates Rates) RouteRecord {
	if geometry == nil {
		geometry = []Coordinate{}
	}
	return RouteRecord{
		Strategy:                   s,
		Success:                    true,
		DistanceKm:                 distanceKm,
		DurationMinutes:            durationMin,
		TrafficDelayMinutes:        delayMin,
		DurationWithTrafficMinutes: durationMin + delayMin,
		CostUSD:                    distanceKm * rates.CostPerKm,
		CO2Kg:                      distanceKm * rates.CO2PerKm,
		Geometry:                   geometry,
	}
}

// FailedRouteRecord carries only the strategy and a human-readable error.
func FailedRouteRecord(s Strategy, msg string) RouteRecord {
	return RouteRecord{Strategy: s, Success: false, Error: msg, Geometry: []Coordinate{}}
}
