package services

import (
	"mobility-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRates = domain.Rates{CostPerKm: 0.15, CO2PerKm: 0.12}

// route builds a succeeded record with explicit cost and emission figures.
func route(s domain.Strategy, minutes, cost, co2 float64) domain.RouteRecord {
	r := domain.NewRouteRecord(s, 10, minutes, 0, nil, testRates)
	r.CostUSD = cost
	r.CO2Kg = co2
	return r
}

func failed(s domain.Strategy) domain.RouteRecord {
	return domain.FailedRouteRecord(s, "provider unavailable")
}

func records(rs ...domain.RouteRecord) map[domain.Strategy]domain.RouteRecord {
	m := make(map[domain.Strategy]domain.RouteRecord, len(rs))
	for _, r := range rs {
		m[r.Strategy] = r
	}
	return m
}

func TestCompareRoutesOnlyOneSucceeded(t *testing.T) {
	res := CompareRoutes(records(
		route(domain.StrategyFastest, 30, 5, 2),
		failed(domain.StrategyCheapest),
		failed(domain.StrategyEco),
	))

	assert.Equal(t, "only fastest available", res.Recommendation)
	assert.False(t, res.Comparable)
	assert.NotEmpty(t, res.Note)
	assert.Nil(t, res.CheapestRoute)
	assert.Nil(t, res.GreenestRoute)
	assert.Nil(t, res.FastestRoute)
	assert.Empty(t, res.Deltas)
	assert.Equal(t, []domain.Strategy{domain.StrategyFastest}, res.Succeeded)
	assert.Equal(t, []domain.Strategy{domain.StrategyCheapest, domain.StrategyEco}, res.Failed)
}

func TestCompareRoutesNoneSucceeded(t *testing.T) {
	res := CompareRoutes(records(failed(domain.StrategyFastest), failed(domain.StrategyCheapest), failed(domain.StrategyEco)))

	assert.Equal(t, "not enough data: no routes available", res.Recommendation)
	assert.Nil(t, res.RecommendedRoute)
	assert.Empty(t, res.Succeeded)
	assert.Len(t, res.Failed, 3)
}

func TestCompareRoutesMissingStrategyCountsAsFailed(t *testing.T) {
	res := CompareRoutes(records(route(domain.StrategyEco, 30, 5, 2)))

	assert.Equal(t, "only eco available", res.Recommendation)
	assert.Equal(t, []domain.Strategy{domain.StrategyFastest, domain.StrategyCheapest}, res.Failed)
}

func TestCompareRoutesTwoSucceeded(t *testing.T) {
	res := CompareRoutes(records(
		route(domain.StrategyEco, 35, 4, 1),
		failed(domain.StrategyCheapest),
		route(domain.StrategyFastest, 30, 5, 2),
	))

	assert.Equal(t, "choose between fastest and eco", res.Recommendation)
	assert.True(t, res.Comparable)
	require.NotNil(t, res.FastestRoute)
	assert.Equal(t, domain.StrategyFastest, *res.FastestRoute)
	assert.Equal(t, domain.StrategyEco, *res.CheapestRoute)
	assert.Equal(t, domain.StrategyEco, *res.GreenestRoute)

	require.Len(t, res.Deltas, 1)
	d := res.Deltas[0]
	assert.Equal(t, domain.StrategyFastest, d.From)
	assert.Equal(t, domain.StrategyEco, d.To)
	assert.InDelta(t, -5, d.TimeDiffMinutes, 1e-9)
	assert.InDelta(t, 1, d.CostDiffUSD, 1e-9)
}

func TestCompareRoutesRecommendsCheapestOnSmallTimeDifference(t *testing.T) {
	res := CompareRoutes(records(
		route(domain.StrategyFastest, 40, 10, 5),
		route(domain.StrategyCheapest, 43, 13, 5),
		route(domain.StrategyEco, 45, 12, 5),
	))

	assert.Equal(t, "cheapest: minimal time difference, significant savings", res.Recommendation)
	require.NotNil(t, res.RecommendedRoute)
	assert.Equal(t, domain.StrategyCheapest, *res.RecommendedRoute)
	assert.Len(t, res.Deltas, 3)
}

func TestCompareRoutesRecommendationRules(t *testing.T) {
	tests := []struct {
		name     string
		fastest  domain.RouteRecord
		cheapest domain.RouteRecord
		eco      domain.RouteRecord
		want     string
		pick     domain.Strategy
	}{
		{
			name:     "time critical",
			fastest:  route(domain.StrategyFastest, 20, 6, 3),
			cheapest: route(domain.StrategyCheapest, 40, 5, 3),
			eco:      route(domain.StrategyEco, 30, 5, 3),
			want:     "fastest: time is critical",
			pick:     domain.StrategyFastest,
		},
		{
			name:     "eco emissions",
			fastest:  route(domain.StrategyFastest, 20, 6, 3),
			cheapest: route(domain.StrategyCheapest, 30, 5, 3),
			eco:      route(domain.StrategyEco, 30, 5, 2.3),
			want:     "eco: significantly lower emissions",
			pick:     domain.StrategyEco,
		},
		{
			name:     "comparable",
			fastest:  route(domain.StrategyFastest, 20, 6, 3),
			cheapest: route(domain.StrategyCheapest, 30, 5, 3),
			eco:      route(domain.StrategyEco, 30, 5, 2.5),
			want:     "routes are comparable; choose by priority",
			pick:     domain.StrategyFastest,
		},
		{
			name:     "small time gap without savings",
			fastest:  route(domain.StrategyFastest, 20, 6, 3),
			cheapest: route(domain.StrategyCheapest, 22, 5, 3),
			eco:      route(domain.StrategyEco, 25, 5, 3),
			want:     "routes are comparable; choose by priority",
			pick:     domain.StrategyFastest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CompareRoutes(records(tt.fastest, tt.cheapest, tt.eco))
			assert.Equal(t, tt.want, res.Recommendation)
			require.NotNil(t, res.RecommendedRoute)
			assert.Equal(t, tt.pick, *res.RecommendedRoute)
		})
	}
}

func TestCompareRoutesTiesFollowPriority(t *testing.T) {
	res := CompareRoutes(records(
		route(domain.StrategyEco, 30, 5, 2),
		route(domain.StrategyCheapest, 30, 5, 2),
		route(domain.StrategyFastest, 30, 5, 2),
	))

	assert.Equal(t, domain.StrategyFastest, *res.FastestRoute)
	assert.Equal(t, domain.StrategyFastest, *res.CheapestRoute)
	assert.Equal(t, domain.StrategyFastest, *res.GreenestRoute)

	res = CompareRoutes(records(
		route(domain.StrategyFastest, 30, 6, 3),
		route(domain.StrategyCheapest, 31, 5, 2),
		route(domain.StrategyEco, 32, 5, 2),
	))
	assert.Equal(t, domain.StrategyCheapest, *res.CheapestRoute)
	assert.Equal(t, domain.StrategyCheapest, *res.GreenestRoute)
}

func TestCompareRoutesDoesNotModifyInput(t *testing.T) {
	in := records(route(domain.StrategyFastest, 30, 5, 2), failed(domain.StrategyEco))
	before := in[domain.StrategyFastest]

	CompareRoutes(in)

	assert.Len(t, in, 2)
	assert.Equal(t, before, in[domain.StrategyFastest])
}
