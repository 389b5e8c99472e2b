package api

import (
	"encoding/json"
	"errors"
	"mobility-route-service/internal/adapters/mock"
	"mobility-route-service/internal/api/dto"
	"mobility-route-service/internal/domain"
	"mobility-route-service/internal/ports"
	"mobility-route-service/internal/services"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	indiaGate = domain.Coordinate{Lat: 28.6139, Lon: 77.2090}
	noida     = domain.Coordinate{Lat: 28.5355, Lon: 77.3910}
)

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func routeProvider() *mock.RouteProvider {
	return &mock.RouteProvider{Summaries: map[domain.Strategy]ports.RouteSummary{
		domain.StrategyFastest:  {DistanceMeters: 21000, TravelTimeSeconds: 2400, TrafficDelaySeconds: 300, Geometry: []domain.Coordinate{indiaGate, noida}},
		domain.StrategyCheapest: {DistanceMeters: 18000, TravelTimeSeconds: 2580},
		domain.StrategyEco:      {DistanceMeters: 19500, TravelTimeSeconds: 2700, TrafficDelaySeconds: 120},
	}}
}

func newTestRouter(rp *mock.RouteProvider, tr *mock.Traffic) http.Handler {
	geocoder := mock.NewGeocoder([]mock.Place{{Name: "India Gate", At: indiaGate}})
	routes := services.NewRouteService(rp, services.NewNormalizer(geocoder), domain.Rates{CostPerKm: 0.15, CO2PerKm: 0.12}, nil)
	insights := services.NewAreaInsightsService(tr, tr, tr, nil)
	return NewRouter(Deps{Routes: routes, Insights: insights})
}

func serve(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, response) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var res response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res), rec.Body.String())
	return rec, res
}

func TestHealth(t *testing.T) {
	h := newTestRouter(routeProvider(), &mock.Traffic{})

	rec, res := serve(t, h, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, res.Success)
	assert.JSONEq(t, `{"status":"ok"}`, string(res.Data))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newTestRouter(routeProvider(), &mock.Traffic{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestCompareRoutes(t *testing.T) {
	h := newTestRouter(routeProvider(), &mock.Traffic{})

	rec, res := serve(t, h, http.MethodPost, "/api/routing/compare",
		`{"origin": "India Gate", "destination": {"latitude": "28.5355", "lng": 77.391}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.True(t, res.Success)

	var body dto.CompareResponse
	require.NoError(t, json.Unmarshal(res.Data, &body))

	assert.Equal(t, indiaGate, body.Origin)
	assert.Equal(t, noida, body.Destination)
	assert.True(t, body.Fastest.Success)
	assert.Equal(t, "40m", body.Fastest.Duration)
	assert.Equal(t, "21.0 km", body.Fastest.Distance)
	assert.Len(t, body.Fastest.Geometry, 2)
	assert.Equal(t, "18.0 km", body.Cheapest.Distance)
	assert.Equal(t, domain.StrategyEco, body.Eco.Strategy)

	require.True(t, body.Comparison.Comparable)
	require.NotNil(t, body.Comparison.FastestRoute)
	assert.Equal(t, domain.StrategyFastest, *body.Comparison.FastestRoute)
	require.NotNil(t, body.Comparison.CheapestRoute)
	assert.Equal(t, domain.StrategyCheapest, *body.Comparison.CheapestRoute)
	require.NotNil(t, body.Comparison.RecommendedRoute)
	assert.Equal(t, domain.StrategyFastest, *body.Comparison.RecommendedRoute)
}

func TestCompareRoutesKeepsFailedStrategies(t *testing.T) {
	rp := routeProvider()
	rp.Errs = map[domain.Strategy]error{
		domain.StrategyEco: &domain.ProviderError{Op: "tomtom.Route", StatusCode: 500, Err: errors.New("upstream")},
	}
	h := newTestRouter(rp, &mock.Traffic{})

	rec, res := serve(t, h, http.MethodPost, "/api/routing/compare",
		`{"origin": [28.6139, 77.209], "destination": "28.5355,77.391"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body dto.CompareResponse
	require.NoError(t, json.Unmarshal(res.Data, &body))
	assert.False(t, body.Eco.Success)
	assert.NotEmpty(t, body.Eco.Error)
	assert.Empty(t, body.Eco.Duration)
	assert.Equal(t, []domain.Strategy{domain.StrategyEco}, body.Comparison.Failed)
	assert.Contains(t, body.Comparison.Recommendation, "choose between")
}

func TestCompareRoutesRejectsBadInput(t *testing.T) {
	h := newTestRouter(routeProvider(), &mock.Traffic{})

	tests := []struct {
		name   string
		body   string
		status int
		err    string
	}{
		{"malformed json", `{"origin": `, http.StatusBadRequest, "invalid request body"},
		{"unknown field", `{"origin": "India Gate", "destination": "India Gate", "mode": "car"}`, http.StatusBadRequest, "invalid request body"},
		{"trailing object", `{"origin": "India Gate", "destination": "India Gate"}{}`, http.StatusBadRequest, "invalid request body"},
		{"missing destination", `{"origin": "India Gate"}`, http.StatusBadRequest, "invalid destination"},
		{"latitude out of range", `{"origin": [95, 77], "destination": "India Gate"}`, http.StatusBadRequest, "invalid location"},
		{"missing longitude", `{"origin": {"lat": 28.6}, "destination": "India Gate"}`, http.StatusBadRequest, "invalid location"},
		{"unknown place", `{"origin": "Atlantis", "destination": "India Gate"}`, http.StatusUnprocessableEntity, "location could not be resolved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, res := serve(t, h, http.MethodPost, "/api/routing/compare", tt.body)

			assert.Equal(t, tt.status, rec.Code)
			assert.False(t, res.Success)
			assert.Equal(t, tt.err, res.Error)
		})
	}
}

func TestSingleRoute(t *testing.T) {
	rp := routeProvider()
	h := newTestRouter(rp, &mock.Traffic{})

	rec, res := serve(t, h, http.MethodPost, "/api/routing/eco-friendly",
		`{"origin": "India Gate", "destination": [28.5355, 77.391]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body dto.SingleRouteResponse
	require.NoError(t, json.Unmarshal(res.Data, &body))
	assert.Equal(t, domain.StrategyEco, body.Route.Strategy)
	assert.Equal(t, "19.5 km", body.Route.Distance)
	assert.Equal(t, "45m", body.Route.Duration)
	assert.Len(t, rp.Requests(), 1)
}

func TestSingleRouteUnknownStrategy(t *testing.T) {
	h := newTestRouter(routeProvider(), &mock.Traffic{})

	rec, res := serve(t, h, http.MethodPost, "/api/routing/scenic", `{"origin": "India Gate", "destination": "India Gate"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "unknown routing strategy", res.Error)
}

func TestSingleRouteProviderFailure(t *testing.T) {
	rp := routeProvider()
	rp.Errs = map[domain.Strategy]error{
		domain.StrategyFastest: &domain.ProviderError{Op: "tomtom.Route", StatusCode: 400, Err: errors.New("no route found")},
	}
	h := newTestRouter(rp, &mock.Traffic{})

	rec, res := serve(t, h, http.MethodPost, "/api/routing/fastest", `{"origin": "India Gate", "destination": [28.5355, 77.391]}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.False(t, res.Success)
	assert.Equal(t, "route unavailable", res.Error)
	assert.NotEmpty(t, res.Message)

	var body dto.SingleRouteResponse
	require.NoError(t, json.Unmarshal(res.Data, &body))
	assert.False(t, body.Route.Success)
}

func TestTrafficInsight(t *testing.T) {
	tr := &mock.Traffic{Snapshot: domain.TrafficSnapshot{CurrentSpeed: 18, FreeFlowSpeed: 45, Confidence: 0.9}}
	h := newTestRouter(routeProvider(), tr)

	rec, res := serve(t, h, http.MethodGet, "/api/insights/traffic?lat=28.6139&lon=77.209", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body dto.TrafficResponse
	require.NoError(t, json.Unmarshal(res.Data, &body))
	assert.Equal(t, indiaGate, body.Location)
	assert.Equal(t, domain.CongestionHigh, body.CongestionLevel)
	assert.NotEmpty(t, body.TimePeriod)
}

func TestTrafficInsightErrors(t *testing.T) {
	t.Run("missing lon", func(t *testing.T) {
		h := newTestRouter(routeProvider(), &mock.Traffic{})
		rec, _ := serve(t, h, http.MethodGet, "/api/insights/traffic?lat=28.6", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non numeric lat", func(t *testing.T) {
		h := newTestRouter(routeProvider(), &mock.Traffic{})
		rec, _ := serve(t, h, http.MethodGet, "/api/insights/traffic?lat=north&lon=77.2", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("provider failure", func(t *testing.T) {
		tr := &mock.Traffic{FlowErr: &domain.ProviderError{Op: "tomtom.Flow", StatusCode: 503, Err: errors.New("unavailable")}}
		h := newTestRouter(routeProvider(), tr)
		rec, res := serve(t, h, http.MethodGet, "/api/insights/traffic?lat=28.6&lon=77.2", "")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "upstream provider failed", res.Error)
	})

	t.Run("unexpected failure is hidden", func(t *testing.T) {
		tr := &mock.Traffic{FlowErr: errors.New("pool exhausted")}
		h := newTestRouter(routeProvider(), tr)
		rec, res := serve(t, h, http.MethodGet, "/api/insights/traffic?lat=28.6&lon=77.2", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal server error", res.Error)
		assert.Empty(t, res.Message)
	})
}

func TestPOIAnalysis(t *testing.T) {
	tr := &mock.Traffic{POISet: []domain.POI{
		{Name: "Cafe A", Category: "Cafe", DistanceMeters: 200},
		{Name: "Cafe B", Category: "Cafe", DistanceMeters: 400},
		{Name: "Lodhi Garden", Category: "Park", DistanceMeters: 900},
	}}
	h := newTestRouter(routeProvider(), tr)

	rec, res := serve(t, h, http.MethodGet, "/api/insights/poi-analysis?lat=28.6139&lon=77.209&radius=1500", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body dto.POIAnalysisResponse
	require.NoError(t, json.Unmarshal(res.Data, &body))
	assert.Equal(t, 1500, body.RadiusMeters)
	assert.Len(t, body.POIs, 3)
	assert.Equal(t, 3, body.Distribution.Total)
	assert.Equal(t, "Cafe", body.Distribution.MostCommonCategory)
	assert.Equal(t, "mixed-use", body.Distribution.DensityInsight)
}

func TestPOIAnalysisRejectsBadRadius(t *testing.T) {
	h := newTestRouter(routeProvider(), &mock.Traffic{})

	for _, radius := range []string{"0", "-5", "far", "50001"} {
		rec, res := serve(t, h, http.MethodGet, "/api/insights/poi-analysis?lat=28.6&lon=77.2&radius="+radius, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, radius)
		assert.Equal(t, "invalid radius", res.Error)
	}
}

func TestMobilityPatternsDegrade(t *testing.T) {
	tr := &mock.Traffic{
		FlowErr:     errors.New("flow down"),
		IncidentSet: []domain.Incident{{Type: "ACCIDENT", Description: "Collision"}},
		POIErr:      errors.New("search down"),
	}
	h := newTestRouter(routeProvider(), tr)

	rec, res := serve(t, h, http.MethodGet, "/api/insights/mobility-patterns?lat=28.6139&lon=77.209", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body dto.MobilityResponse
	require.NoError(t, json.Unmarshal(res.Data, &body))
	assert.Nil(t, body.Traffic)
	assert.Equal(t, 1000, body.RadiusMeters)
	assert.Len(t, body.Incidents, 1)
	assert.Len(t, body.Warnings, 2)
	assert.Equal(t, domain.CongestionUnknown, body.Mobility.CongestionStatus)
	assert.Equal(t, domain.LevelLow, body.Mobility.IncidentImpact)
	assert.Equal(t, "mixed-use", body.Area.AreaType)
}
