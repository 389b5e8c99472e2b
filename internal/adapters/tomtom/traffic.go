package tomtom

import (
	"context"
	"encoding/json"
	"errors"
	"mobility-route-service/internal/domain"
	"mobility-route-service/internal/platform/obs"
	"net/http"
	"net/url"
	"time"
)

const incidentFields = "{incidents{type,geometry{type,coordinates},properties{iconCategory,magnitudeOfDelay,events{description,code},startTime,endTime}}}"

type flowResponse struct {
	FlowSegmentData *struct {
		CurrentSpeed       float64 `json:"currentSpeed"`
		FreeFlowSpeed      float64 `json:"freeFlowSpeed"`
		CurrentTravelTime  float64 `json:"currentTravelTime"`
		FreeFlowTravelTime float64 `json:"freeFlowTravelTime"`
		Confidence         float64 `json:"confidence"`
	} `json:"flowSegmentData"`
}

type incidentResponse struct {
	Incidents []struct {
		Type     string `json:"type"`
		Geometry struct {
			Type        string          `json:"type"`
			Coordinates json.RawMessage `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			IconCategory     int `json:"iconCategory"`
			MagnitudeOfDelay int `json:"magnitudeOfDelay"`
			Events           []struct {
				Description string `json:"description"`
			} `json:"events"`
			StartTime *time.Time `json:"startTime"`
			EndTime   *time.Time `json:"endTime"`
		} `json:"properties"`
	} `json:"incidents"`
}

// Flow reads the flow segment nearest to point, speeds in km/h.
func (c *Client) Flow(ctx context.Context, point domain.Coordinate) (_ domain.TrafficSnapshot, err error) {
	defer obs.Time(ctx, c.log, "tomtom.Flow")(&err)

	q := url.Values{}
	q.Set("point", point.String())
	q.Set("unit", "KMPH")

	var decoded flowResponse
	if err := c.getJSON(ctx, "tomtom flow", c.maxAttempts, "/traffic/services/4/flowSegmentData/absolute/10/json", q, &decoded); err != nil {
		return domain.TrafficSnapshot{}, err
	}

	seg := decoded.FlowSegmentData
	if seg == nil {
		return domain.TrafficSnapshot{}, &domain.ProviderError{Op: "tomtom flow", Err: errors.New("no flow data available")}
	}

	return domain.TrafficSnapshot{
		CurrentSpeed:       seg.CurrentSpeed,
		FreeFlowSpeed:      seg.FreeFlowSpeed,
		Confidence:         seg.Confidence,
		CurrentTravelTime:  seg.CurrentTravelTime,
		FreeFlowTravelTime: seg.FreeFlowTravelTime,
	}, nil
}

// Incidents lists incidents inside bbox. A 404 means none were found.
func (c *Client) Incidents(ctx context.Context, bbox domain.BBox) (_ []domain.Incident, err error) {
	defer obs.Time(ctx, c.log, "tomtom.Incidents")(&err)

	q := url.Values{}
	q.Set("bbox", bbox.String())
	q.Set("fields", incidentFields)
	q.Set("language", "en-GB")

	var decoded incidentResponse
	err = c.getJSON(ctx, "tomtom incidents", c.maxAttempts, "/traffic/services/5/incidentDetails", q, &decoded)
	var pe *domain.ProviderError
	if errors.As(err, &pe) && pe.StatusCode == http.StatusNotFound {
		return []domain.Incident{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]domain.Incident, 0, len(decoded.Incidents))
	for _, in := range decoded.Incidents {
		desc := "Traffic incident"
		if len(in.Properties.Events) > 0 && in.Properties.Events[0].Description != "" {
			desc = in.Properties.Events[0].Description
		}
		out = append(out, domain.Incident{
			Type:        in.Type,
			Category:    in.Properties.IconCategory,
			Delay:       in.Properties.MagnitudeOfDelay,
			Description: desc,
			Coordinates: geoJSONPoints(in.Geometry.Coordinates),
			StartTime:   in.Properties.StartTime,
			EndTime:     in.Properties.EndTime,
		})
	}
	return out, nil
}

// geoJSONPoints accepts a Point ([lon, lat]) or a LineString ([[lon, lat], ...]).
func geoJSONPoints(raw json.RawMessage) []domain.Coordinate {
	var line [][]float64
	if err := json.Unmarshal(raw, &line); err == nil {
		out := make([]domain.Coordinate, 0, len(line))
		for _, p := range line {
			if len(p) >= 2 {
				out = append(out, domain.Coordinate{Lat: p[1], Lon: p[0]})
			}
		}
		return out
	}

	var pt []float64
	if err := json.Unmarshal(raw, &pt); err == nil && len(pt) >= 2 {
		return []domain.Coordinate{{Lat: pt[1], Lon: pt[0]}}
	}
	return []domain.Coordinate{}
}
