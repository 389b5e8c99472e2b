package tomtom

import (
	"context"
	"fmt"
	"mobility-route-service/internal/domain"
	"mobility-route-service/internal/platform/obs"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

type geocodeResponse struct {
	Results []struct {
		Position struct {
			Lat *float64 `json:"lat"`
			Lon *float64 `json:"lon"`
		} `json:"position"`
	} `json:"results"`
}

// normalize gives consistent cache keys by collapsing whitespace and case.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Geocode resolves name to its best match, consulting the geocode cache first.
func (c *Client) Geocode(ctx context.Context, name string) (_ domain.Coordinate, err error) {
	defer obs.Time(ctx, c.log, "tomtom.Geocode")(&err)

	key := normalize(name)
	if key == "" {
		return domain.Coordinate{}, &domain.GeocodingError{Query: name, Err: domain.ErrNotFound}
	}

	if c.geocodeCache != nil {
		hits, err := c.geocodeCache.GetMany(ctx, []string{key})
		if err != nil {
			c.log.Warn("geocode cache read failed", zap.String("query", key), zap.Error(err))
		} else if hit, ok := hits[key]; ok {
			return hit, nil
		}
	}

	q := url.Values{}
	q.Set("limit", "1")
	q.Set("language", "en-US")
	if c.countrySet != "" {
		q.Set("countrySet", c.countrySet)
	}

	var decoded geocodeResponse
	path := "/search/2/geocode/" + url.PathEscape(key) + ".json"
	if err := c.getJSON(ctx, "tomtom geocode", c.maxAttempts, path, q, &decoded); err != nil {
		return domain.Coordinate{}, &domain.GeocodingError{Query: name, Err: err}
	}

	if len(decoded.Results) == 0 {
		return domain.Coordinate{}, &domain.GeocodingError{Query: name, Err: domain.ErrNotFound}
	}

	pos := decoded.Results[0].Position
	if pos.Lat == nil || pos.Lon == nil {
		return domain.Coordinate{}, &domain.GeocodingError{Query: name, Err: fmt.Errorf("result has no position")}
	}

	coord, err := domain.NewCoordinate(*pos.Lat, *pos.Lon)
	if err != nil {
		return domain.Coordinate{}, &domain.GeocodingError{Query: name, Err: err}
	}

	if c.geocodeCache != nil {
		if err := c.geocodeCache.PutMany(ctx, map[string]domain.Coordinate{key: coord}); err != nil {
			c.log.Warn("geocode cache write failed", zap.String("query", key), zap.Error(err))
		}
	}

	return coord, nil
}
