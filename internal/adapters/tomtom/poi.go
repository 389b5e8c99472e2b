package tomtom

import (
	"context"
	"fmt"
	"mobility-route-service/internal/domain"
	"mobility-route-service/internal/platform/obs"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

const poiLimit = 100

type nearbyResponse struct {
	Results []struct {
		POI struct {
			Name       string   `json:"name"`
			Categories []string `json:"categories"`
		} `json:"poi"`
		Position struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"position"`
		Dist    float64 `json:"dist"`
		Address struct {
			FreeformAddress string `json:"freeformAddress"`
		} `json:"address"`
	} `json:"results"`
}

// POICacheKey quantizes the point to 3 decimals (about 110 m) so nearby
// searches share an entry.
func POICacheKey(point domain.Coordinate, radiusMeters int, category string) string {
	return fmt.Sprintf("poi:%.3f,%.3f:%d:%s", point.Lat, point.Lon, radiusMeters, normalize(category))
}

// SearchPOIs runs a nearby search, serving repeated searches from the POI cache.
func (c *Client) SearchPOIs(ctx context.Context, point domain.Coordinate, radiusMeters int, category string) (_ []domain.POI, err error) {
	defer obs.Time(ctx, c.log, "tomtom.SearchPOIs")(&err)

	key := POICacheKey(point, radiusMeters, category)
	if c.poiCache != nil {
		pois, ok, err := c.poiCache.Get(ctx, key)
		if err != nil {
			c.log.Warn("poi cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			return pois, nil
		}
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(point.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(point.Lon, 'f', -1, 64))
	q.Set("radius", strconv.Itoa(radiusMeters))
	q.Set("limit", strconv.Itoa(poiLimit))
	if category != "" {
		q.Set("categorySet", category)
	}
	if c.countrySet != "" {
		q.Set("countrySet", c.countrySet)
	}

	var decoded nearbyResponse
	if err := c.getJSON(ctx, "tomtom nearby search", c.maxAttempts, "/search/2/nearbySearch/.json", q, &decoded); err != nil {
		return nil, err
	}

	pois := make([]domain.POI, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		name := r.POI.Name
		if name == "" {
			name = "Unknown"
		}
		cat := "Unknown"
		if len(r.POI.Categories) > 0 {
			cat = r.POI.Categories[0]
		}
		pois = append(pois, domain.POI{
			Name:           name,
			Category:       cat,
			Coordinate:     domain.Coordinate{Lat: r.Position.Lat, Lon: r.Position.Lon},
			DistanceMeters: r.Dist,
			Address:        r.Address.FreeformAddress,
		})
	}

	if c.poiCache != nil {
		if err := c.poiCache.Put(ctx, key, pois); err != nil {
			c.log.Warn("poi cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return pois, nil
}
