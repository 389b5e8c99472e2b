package services

import (
	"context"
	"errors"
	"mobility-route-service/internal/adapters/mock"
	"mobility-route-service/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInsights(tr *mock.Traffic) *AreaInsightsService {
	s := NewAreaInsightsService(tr, tr, tr, nil)
	// Wednesday 08:30, a weekday rush hour.
	s.now = func() time.Time { return time.Date(2026, 3, 4, 8, 30, 0, 0, time.UTC) }
	return s
}

func TestAnalyzeAreaCombinesInputs(t *testing.T) {
	tr := &mock.Traffic{
		Snapshot:    domain.TrafficSnapshot{CurrentSpeed: 20, FreeFlowSpeed: 50},
		IncidentSet: make([]domain.Incident, 3),
		POISet:      pois("Restaurant", 25, 300),
	}

	rep := testInsights(tr).AnalyzeArea(context.Background(), indiaGate, 1000, "")

	require.NotNil(t, rep.Flow)
	assert.Empty(t, rep.Warnings)
	assert.Equal(t, domain.CongestionHigh, rep.Mobility.CongestionStatus)
	assert.Equal(t, domain.LevelLow, rep.Mobility.IncidentImpact)
	assert.Equal(t, domain.LevelModerate, rep.Mobility.AreaActivity)
	assert.Equal(t, 100-30-15, rep.Mobility.MobilityScore)
	assert.Equal(t, "commercial", rep.Area.AreaType)
	assert.Equal(t, []string{"busy area"}, rep.Area.Characteristics)
	assert.Equal(t, "urban commercial", rep.Distribution.DensityInsight)
	assert.Equal(t, "morning", rep.TimePeriod)
	assert.True(t, rep.PeakHour)
}

func TestAnalyzeAreaDegradesOnFailures(t *testing.T) {
	tr := &mock.Traffic{
		FlowErr:     &domain.ProviderError{Op: "flow", Err: errors.New("timeout")},
		IncidentErr: errors.New("incidents down"),
		POISet:      pois("Park", 2, 800),
	}

	rep := testInsights(tr).AnalyzeArea(context.Background(), indiaGate, 500, "")

	assert.Nil(t, rep.Flow)
	assert.NotNil(t, rep.Incidents)
	assert.Empty(t, rep.Incidents)
	assert.Len(t, rep.POIs, 2)
	assert.Len(t, rep.Warnings, 2)
	assert.Equal(t, domain.CongestionUnknown, rep.Mobility.CongestionStatus)
	assert.Equal(t, 100, rep.Mobility.MobilityScore)
	assert.Equal(t, "residential", rep.Area.AreaType)
}

func TestTrafficInsight(t *testing.T) {
	tr := &mock.Traffic{Snapshot: domain.TrafficSnapshot{CurrentSpeed: 45, FreeFlowSpeed: 50, Confidence: 1}}

	ti, err := testInsights(tr).Traffic(context.Background(), indiaGate)
	require.NoError(t, err)
	assert.Equal(t, domain.CongestionLow, ti.Congestion)
	assert.Equal(t, indiaGate, ti.Location)

	tr.FlowErr = errors.New("boom")
	_, err = testInsights(tr).Traffic(context.Background(), indiaGate)
	assert.Error(t, err)
}

func TestPOIAnalysisFiltersCategory(t *testing.T) {
	tr := &mock.Traffic{POISet: append(pois("Cafe", 2, 100), pois("Bank", 1, 100)...)}

	found, dist, err := testInsights(tr).POIAnalysis(context.Background(), indiaGate, 1000, "cafe")
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, "Cafe", dist.MostCommonCategory)
}
