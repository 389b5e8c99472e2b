package domain

// ActivityLevel is a POI-count bucket; also used for incident impact.
type ActivityLevel string

const (
	LevelNone     ActivityLevel = "none"
	LevelLow      ActivityLevel = "low"
	LevelModerate ActivityLevel = "moderate"
	LevelHigh     ActivityLevel = "high"
)

// CategoryCount is the number of POIs in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// POIDistribution summarizes a POI set grouped by category.
type POIDistribution struct {
	Total                 int             `json:"total"`
	Categories            []CategoryCount `json:"categories"`
	AverageDistanceMeters float64         `json:"average_distance_meters"`
	DensityInsight        string          `json:"density_insight"`
	MostCommonCategory    string          `json:"most_common_category,omitempty"`
}

// AreaClassification labels an area from its POI mix and traffic.
type AreaClassification struct {
	AreaType        string          `json:"area_type"`
	TopCategories   []string        `json:"top_categories"`
	Characteristics []string        `json:"characteristics"`
	CongestionLevel CongestionLevel `json:"congestion_level"`
}

// MobilityPattern is recomputed from its inputs on every call.
type MobilityPattern struct {
	CongestionStatus CongestionLevel `json:"congestion_status"`
	IncidentCount    int             `json:"incident_count"`
	IncidentImpact   ActivityLevel   `json:"incident_impact"`
	POICount         int             `json:"poi_count"`
	AreaActivity     ActivityLevel   `json:"area_activity"`
	Description      string          `json:"description"`
	MobilityScore    int             `json:"mobility_score"`
}
