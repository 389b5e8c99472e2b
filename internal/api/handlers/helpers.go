package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mobility-route-service/internal/domain"
	"mobility-route-service/internal/platform/obs"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// envelope is the shape of every API response.
type envelope struct {
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	Message   string    `json:"message,omitempty"`
}

func writeJSON(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Timestamp: time.Now().UTC(), Data: data})
}

func writeError(c *gin.Context, status int, msg, detail string) {
	writeErrorData(c, status, msg, detail, nil)
}

func writeErrorData(c *gin.Context, status int, msg, detail string, data any) {
	c.AbortWithStatusJSON(status, envelope{Success: false, Timestamp: time.Now().UTC(), Data: data, Error: msg, Message: detail})
}

// writeFailure maps err onto a status. Input errors are echoed back; anything
// unexpected is logged and hidden behind a generic message.
func writeFailure(c *gin.Context, log *zap.Logger, err error) {
	var (
		invalid  *domain.InvalidCoordinateError
		geocode  *domain.GeocodingError
		provider *domain.ProviderError
	)

	switch {
	case errors.As(err, &invalid):
		writeError(c, http.StatusBadRequest, "invalid location", err.Error())
	case errors.As(err, &geocode):
		writeError(c, http.StatusUnprocessableEntity, "location could not be resolved", err.Error())
	case errors.As(err, &provider):
		writeError(c, http.StatusBadGateway, "upstream provider failed", err.Error())
	default:
		log.Error("request failed",
			zap.String("req_id", obs.RequestID(c.Request.Context())),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		writeError(c, http.StatusInternalServerError, "internal server error", "")
	}
}

// decodeJSON reads exactly one JSON object and rejects unknown fields.
func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid json body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

// pointParam reads the lat and lon query parameters.
func pointParam(c *gin.Context) (domain.Coordinate, error) {
	rawLat, rawLon := c.Query("lat"), c.Query("lon")
	if rawLat == "" || rawLon == "" {
		return domain.Coordinate{}, &domain.InvalidCoordinateError{Reason: "lat and lon query parameters are required"}
	}

	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return domain.Coordinate{}, &domain.InvalidCoordinateError{Reason: fmt.Sprintf("lat must be numeric, got %q", rawLat)}
	}
	lon, err := strconv.ParseFloat(rawLon, 64)
	if err != nil {
		return domain.Coordinate{}, &domain.InvalidCoordinateError{Reason: fmt.Sprintf("lon must be numeric, got %q", rawLon)}
	}
	return domain.NewCoordinate(lat, lon)
}

const (
	defaultRadiusMeters = 1000
	maxRadiusMeters     = 50000
)

// radiusParam reads the optional radius query parameter in meters.
func radiusParam(c *gin.Context) (int, error) {
	raw := c.Query("radius")
	if raw == "" {
		return defaultRadiusMeters, nil
	}
	r, err := strconv.Atoi(raw)
	if err != nil || r < 1 || r > maxRadiusMeters {
		return 0, fmt.Errorf("radius must be an integer between 1 and %d meters", maxRadiusMeters)
	}
	return r, nil
}
