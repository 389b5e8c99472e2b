package services

import (
	"fmt"
	"mobility-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func snapshot(current, free float64) *domain.TrafficSnapshot {
	return &domain.TrafficSnapshot{CurrentSpeed: current, FreeFlowSpeed: free, Confidence: 0.9}
}

func pois(category string, n int, distance float64) []domain.POI {
	out := make([]domain.POI, n)
	for i := range out {
		out[i] = domain.POI{Name: fmt.Sprintf("%s %d", category, i), Category: category, DistanceMeters: distance}
	}
	return out
}

func TestCongestionBoundaries(t *testing.T) {
	tests := []struct {
		current, free float64
		want          domain.CongestionLevel
	}{
		{80, 100, domain.CongestionLow},
		{79.99, 100, domain.CongestionModerate},
		{50, 100, domain.CongestionModerate},
		{30, 100, domain.CongestionHigh},
		{29.99, 100, domain.CongestionSevere},
		{0, 100, domain.CongestionSevere},
		{40, 0, domain.CongestionUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CongestionOf(snapshot(tt.current, tt.free)), "%v/%v", tt.current, tt.free)
	}
	assert.Equal(t, domain.CongestionUnknown, CongestionOf(nil))
}

func TestMobilityScore(t *testing.T) {
	assert.Equal(t, 25, MobilityScore(domain.CongestionSevere, 10, domain.LevelHigh))
	assert.Equal(t, 100, MobilityScore(domain.CongestionLow, 0, domain.LevelLow))
	assert.Equal(t, 100, MobilityScore(domain.CongestionUnknown, 0, domain.LevelModerate))
	assert.Equal(t, 75, MobilityScore(domain.CongestionModerate, 2, domain.LevelLow))
	assert.Equal(t, 70, MobilityScore(domain.CongestionLow, 6, domain.LevelLow))
}

func TestIncidentImpactAndAreaActivity(t *testing.T) {
	assert.Equal(t, domain.LevelNone, IncidentImpact(0))
	assert.Equal(t, domain.LevelLow, IncidentImpact(1))
	assert.Equal(t, domain.LevelLow, IncidentImpact(5))
	assert.Equal(t, domain.LevelHigh, IncidentImpact(6))

	assert.Equal(t, domain.LevelLow, AreaActivity(20))
	assert.Equal(t, domain.LevelModerate, AreaActivity(21))
	assert.Equal(t, domain.LevelModerate, AreaActivity(50))
	assert.Equal(t, domain.LevelHigh, AreaActivity(51))
}

func TestAnalyzeMobility(t *testing.T) {
	incidents := make([]domain.Incident, 10)
	got := AnalyzeMobility(snapshot(10, 100), incidents, pois("restaurant", 60, 300))

	assert.Equal(t, domain.CongestionSevere, got.CongestionStatus)
	assert.Equal(t, domain.LevelHigh, got.IncidentImpact)
	assert.Equal(t, domain.LevelHigh, got.AreaActivity)
	assert.Equal(t, 25, got.MobilityScore)
	assert.Equal(t, 10, got.IncidentCount)
	assert.Equal(t, 60, got.POICount)
	assert.NotEmpty(t, got.Description)
}

func TestAnalyzePOIDistribution(t *testing.T) {
	set := append(pois("cafe", 3, 200), pois("bank", 3, 400)...)
	set = append(set, pois("park", 1, 600)...)

	got := AnalyzePOIDistribution(set)

	assert.Equal(t, 7, got.Total)
	assert.Equal(t, []domain.CategoryCount{{Category: "bank", Count: 3}, {Category: "cafe", Count: 3}, {Category: "park", Count: 1}}, got.Categories)
	assert.Equal(t, "bank", got.MostCommonCategory)
	assert.InDelta(t, 2400.0/7, got.AverageDistanceMeters, 1e-9)
	assert.Equal(t, "urban commercial", got.DensityInsight)

	assert.Equal(t, "mixed-use", AnalyzePOIDistribution(pois("cafe", 2, 500)).DensityInsight)
	assert.Equal(t, "residential/suburban", AnalyzePOIDistribution(pois("cafe", 2, 2000)).DensityInsight)

	empty := AnalyzePOIDistribution(nil)
	assert.Zero(t, empty.Total)
	assert.Empty(t, empty.MostCommonCategory)
}

func TestClassifyArea(t *testing.T) {
	tests := []struct {
		name string
		pois []domain.POI
		flow *domain.TrafficSnapshot
		want string
	}{
		{"commercial", pois("Shopping Center", 4, 100), nil, "commercial"},
		{"business over commercial", append(pois("Restaurant", 5, 100), pois("Office", 2, 100)...), nil, "business"},
		{"entertainment dominates", append(pois("Cinema", 1, 100), append(pois("Bank", 3, 100), pois("Apartments", 2, 100)...)...), nil, "entertainment"},
		{"fourth category ignored", append(append(pois("Bank", 4, 100), pois("Fuel Station", 3, 100)...), append(pois("Parking", 2, 100), pois("Cinema", 1, 100)...)...), nil, "business"},
		{"no keyword", pois("Fuel Station", 3, 100), nil, "mixed-use"},
		{"barber is not a bar", pois("Barber", 3, 100), nil, "mixed-use"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyArea(tt.pois, tt.flow).AreaType)
		})
	}
}

func TestClassifyAreaCharacteristics(t *testing.T) {
	quiet := ClassifyArea(pois("Park", 2, 100), snapshot(90, 100))
	assert.Equal(t, []string{"quiet area, suitable for evening walks"}, quiet.Characteristics)
	assert.Equal(t, domain.CongestionLow, quiet.CongestionLevel)

	busy := ClassifyArea(pois("Park", 2, 100), snapshot(20, 100))
	assert.Equal(t, []string{"busy area"}, busy.Characteristics)

	moderate := ClassifyArea(pois("Park", 2, 100), snapshot(60, 100))
	assert.Empty(t, moderate.Characteristics)

	unknown := ClassifyArea(nil, nil)
	assert.Equal(t, domain.CongestionUnknown, unknown.CongestionLevel)
	assert.Equal(t, "mixed-use", unknown.AreaType)
	assert.Empty(t, unknown.TopCategories)
}
