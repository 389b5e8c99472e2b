package services

import (
	"fmt"
	"mobility-route-service/internal/domain"
	"sort"
	"strings"
	"unicode"
)

const (
	urbanCommercialRadius = 500.0
	mixedUseRadius        = 2000.0

	maxIncidentPenalty = 30
	incidentPenalty    = 5
	crowdingPenalty    = 5
)

// areaKeywords is ordered by increasing priority: a later match replaces an
// earlier one.
var areaKeywords = []struct {
	areaType string
	words    []string
}{
	{"commercial", []string{"shop", "store", "mall", "market", "retail", "shopping", "supermarket", "restaurant", "cafe"}},
	{"business", []string{"office", "business", "company", "bank", "corporate", "finance", "coworking"}},
	{"residential", []string{"residential", "apartment", "housing", "school", "park", "hospital"}},
	{"entertainment", []string{"entertainment", "cinema", "theater", "theatre", "nightlife", "club", "museum", "stadium", "amusement"}},
}

// CongestionOf is unknown when no flow reading is available.
func CongestionOf(flow *domain.TrafficSnapshot) domain.CongestionLevel {
	if flow == nil {
		return domain.CongestionUnknown
	}
	return flow.CongestionLevel()
}

// CongestionPenalty is the score deduction for a congestion level.
func CongestionPenalty(level domain.CongestionLevel) int {
	switch level {
	case domain.CongestionSevere:
		return 40
	case domain.CongestionHigh:
		return 30
	case domain.CongestionModerate:
		return 15
	default:
		return 0
	}
}

func IncidentImpact(count int) domain.ActivityLevel {
	switch {
	case count <= 0:
		return domain.LevelNone
	case count <= 5:
		return domain.LevelLow
	default:
		return domain.LevelHigh
	}
}

func AreaActivity(poiCount int) domain.ActivityLevel {
	switch {
	case poiCount <= 20:
		return domain.LevelLow
	case poiCount <= 50:
		return domain.LevelModerate
	default:
		return domain.LevelHigh
	}
}

// MobilityScore starts at 100 and subtracts congestion, incident and crowding
// penalties, clamped to [0, 100].
func MobilityScore(level domain.CongestionLevel, incidentCount int, activity domain.ActivityLevel) int {
	score := 100 - CongestionPenalty(level)
	score -= min(max(incidentCount, 0)*incidentPenalty, maxIncidentPenalty)
	if activity == domain.LevelHigh {
		score -= crowdingPenalty
	}
	return min(max(score, 0), 100)
}

// AnalyzeMobility is a pure function of its inputs. flow may be nil.
func AnalyzeMobility(flow *domain.TrafficSnapshot, incidents []domain.Incident, pois []domain.POI) domain.MobilityPattern {
	level := CongestionOf(flow)
	impact := IncidentImpact(len(incidents))
	activity := AreaActivity(len(pois))

	return domain.MobilityPattern{
		CongestionStatus: level,
		IncidentCount:    len(incidents),
		IncidentImpact:   impact,
		POICount:         len(pois),
		AreaActivity:     activity,
		Description: fmt.Sprintf("%s congestion, %d incidents (%s impact), %d points of interest (%s activity)",
			level, len(incidents), impact, len(pois), activity),
		MobilityScore: MobilityScore(level, len(incidents), activity),
	}
}

// AnalyzePOIDistribution groups POIs by category. Categories are ordered by
// count descending, then name.
func AnalyzePOIDistribution(pois []domain.POI) domain.POIDistribution {
	dist := domain.POIDistribution{
		Total:      len(pois),
		Categories: categoryCounts(pois),
	}
	if len(pois) == 0 {
		dist.DensityInsight = "no points of interest found"
		return dist
	}

	var total float64
	for _, p := range pois {
		total += p.DistanceMeters
	}
	dist.AverageDistanceMeters = total / float64(len(pois))

	switch {
	case dist.AverageDistanceMeters < urbanCommercialRadius:
		dist.DensityInsight = "urban commercial"
	case dist.AverageDistanceMeters < mixedUseRadius:
		dist.DensityInsight = "mixed-use"
	default:
		dist.DensityInsight = "residential/suburban"
	}
	dist.MostCommonCategory = dist.Categories[0].Category
	return dist
}

// ClassifyArea scans the top three categories against the keyword sets and
// adds a characteristic derived from traffic. flow may be nil.
func ClassifyArea(pois []domain.POI, flow *domain.TrafficSnapshot) domain.AreaClassification {
	counts := categoryCounts(pois)
	top := make([]string, 0, 3)
	for i := 0; i < len(counts) && i < 3; i++ {
		top = append(top, counts[i].Category)
	}

	area := domain.AreaClassification{
		AreaType:        "mixed-use",
		TopCategories:   top,
		Characteristics: []string{},
		CongestionLevel: CongestionOf(flow),
	}

	best := -1
	for _, c := range top {
		for rank, set := range areaKeywords {
			if rank > best && matchesAny(c, set.words) {
				best = rank
			}
		}
	}
	if best >= 0 {
		area.AreaType = areaKeywords[best].areaType
	}

	switch area.CongestionLevel {
	case domain.CongestionLow:
		area.Characteristics = append(area.Characteristics, "quiet area, suitable for evening walks")
	case domain.CongestionHigh, domain.CongestionSevere:
		area.Characteristics = append(area.Characteristics, "busy area")
	}
	return area
}

func categoryCounts(pois []domain.POI) []domain.CategoryCount {
	byName := map[string]int{}
	for _, p := range pois {
		c := strings.TrimSpace(p.Category)
		if c == "" {
			c = "uncategorized"
		}
		byName[c]++
	}

	out := make([]domain.CategoryCount, 0, len(byName))
	for c, n := range byName {
		out = append(out, domain.CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// matchesAny compares whole words, ignoring case and a plural "s".
func matchesAny(category string, words []string) bool {
	tokens := strings.FieldsFunc(strings.ToLower(category), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, t := range tokens {
		t = strings.TrimSuffix(t, "s")
		for _, w := range words {
			if t == strings.TrimSuffix(w, "s") {
				return true
			}
		}
	}
	return false
}
