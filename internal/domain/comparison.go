package domain

// RouteDelta is the difference A minus B between two succeeded routes.
type RouteDelta struct {
	From            Strategy `json:"from"`
	To              Strategy `json:"to"`
	TimeDiffMinutes float64  `json:"time_diff_minutes"`
	CostDiffUSD     float64  `json:"cost_diff_usd"`
	CO2DiffKg       float64  `json:"co2_diff_kg"`
}

// ComparisonResult is a read-only view over the route records of one request.
// Winner fields are nil when fewer than two routes succeeded.
type ComparisonResult struct {
	Succeeded        []Strategy   `json:"succeeded"`
	Failed           []Strategy   `json:"failed"`
	Comparable       bool         `json:"comparable"`
	Note             string       `json:"note,omitempty"`
	FastestRoute     *Strategy    `json:"fastest_route"`
	CheapestRoute    *Strategy    `json:"cheapest_route"`
	GreenestRoute    *Strategy    `json:"greenest_route"`
	Deltas           []RouteDelta `json:"deltas"`
	Recommendation   string       `json:"recommendation"`
	RecommendedRoute *Strategy    `json:"recommended_route"`
}
