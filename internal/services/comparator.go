package services

import (
	"fmt"
	"math"
	"mobility-route-service/internal/domain"
)

// Recommendation thresholds. Time in minutes, cost in USD.
const (
	minorTimeDiff          = 5.0
	significantCostDiff    = 2.0
	criticalTimeDiff       = 15.0
	ecoEmissionRatio       = 0.8
	notEnoughRoutesNote    = "comparison needs at least two successful routes"
	noRoutesRecommendation = "not enough data: no routes available"
)

// CompareRoutes builds the comparison view over one request's route records.
// Strategies absent from records count as failed. The input is not modified.
func CompareRoutes(records map[domain.Strategy]domain.RouteRecord) domain.ComparisonResult {
	res := domain.ComparisonResult{
		Succeeded: []domain.Strategy{},
		Failed:    []domain.Strategy{},
		Deltas:    []domain.RouteDelta{},
	}

	ok := make(map[domain.Strategy]domain.RouteRecord, len(records))
	for _, s := range domain.Strategies {
		r, found := records[s]
		if found && r.Success {
			res.Succeeded = append(res.Succeeded, s)
			ok[s] = r
		} else {
			res.Failed = append(res.Failed, s)
		}
	}

	switch len(res.Succeeded) {
	case 0:
		res.Note = notEnoughRoutesNote
		res.Recommendation = noRoutesRecommendation
		return res
	case 1:
		only := res.Succeeded[0]
		res.Note = notEnoughRoutesNote
		res.Recommendation = fmt.Sprintf("only %s available", only)
		res.RecommendedRoute = &only
		return res
	}

	res.Comparable = true
	res.FastestRoute = argMin(res.Succeeded, ok, func(r domain.RouteRecord) float64 { return r.DurationWithTrafficMinutes })
	res.CheapestRoute = argMin(res.Succeeded, ok, func(r domain.RouteRecord) float64 { return r.CostUSD })
	res.GreenestRoute = argMin(res.Succeeded, ok, func(r domain.RouteRecord) float64 { return r.CO2Kg })

	for i, a := range res.Succeeded {
		for _, b := range res.Succeeded[i+1:] {
			ra, rb := ok[a], ok[b]
			res.Deltas = append(res.Deltas, domain.RouteDelta{
				From:            a,
				To:              b,
				TimeDiffMinutes: ra.DurationWithTrafficMinutes - rb.DurationWithTrafficMinutes,
				CostDiffUSD:     ra.CostUSD - rb.CostUSD,
				CO2DiffKg:       ra.CO2Kg - rb.CO2Kg,
			})
		}
	}

	if len(res.Succeeded) == 2 {
		res.Recommendation = fmt.Sprintf("choose between %s and %s", res.Succeeded[0], res.Succeeded[1])
		return res
	}

	res.Recommendation, res.RecommendedRoute = recommend(ok)
	return res
}

// recommend applies the first matching rule when all three routes succeeded.
func recommend(ok map[domain.Strategy]domain.RouteRecord) (string, *domain.Strategy) {
	fastest := ok[domain.StrategyFastest]
	cheapest := ok[domain.StrategyCheapest]
	eco := ok[domain.StrategyEco]

	timeDiff := math.Abs(fastest.DurationWithTrafficMinutes - cheapest.DurationWithTrafficMinutes)
	costDiff := math.Abs(fastest.CostUSD - cheapest.CostUSD)

	pick := func(s domain.Strategy) *domain.Strategy { return &s }

	switch {
	case timeDiff < minorTimeDiff && costDiff > significantCostDiff:
		return "cheapest: minimal time difference, significant savings", pick(domain.StrategyCheapest)
	case timeDiff > criticalTimeDiff:
		return "fastest: time is critical", pick(domain.StrategyFastest)
	case eco.CO2Kg < cheapest.CO2Kg*ecoEmissionRatio:
		return "eco: significantly lower emissions", pick(domain.StrategyEco)
	default:
		return "routes are comparable; choose by priority", pick(domain.StrategyFastest)
	}
}

// argMin walks strategies in priority order so ties keep the earlier one.
func argMin(order []domain.Strategy, ok map[domain.Strategy]domain.RouteRecord, metric func(domain.RouteRecord) float64) *domain.Strategy {
	var best domain.Strategy
	bestVal := math.Inf(1)
	for _, s := range order {
		if v := metric(ok[s]); v < bestVal {
			best, bestVal = s, v
		}
	}
	return &best
}
