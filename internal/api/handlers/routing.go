package handlers

import (
	"mobility-route-service/internal/api/dto"
	"mobility-route-service/internal/domain"
	"mobility-route-service/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RoutingHandler struct {
	Routes *services.RouteService
	Log    *zap.Logger
}

// RegisterRoutes mounts the routing endpoints on r.
func (h *RoutingHandler) RegisterRoutes(r *gin.RouterGroup) {
	routing := r.Group("/routing")
	{
		routing.POST("/compare", h.Compare)
		routing.POST("/:strategy", h.Route)
	}
}

// Compare handles POST /api/routing/compare.
func (h *RoutingHandler) Compare(c *gin.Context) {
	origin, destination, ok := h.locations(c)
	if !ok {
		return
	}

	cmp, err := h.Routes.CompareRoutes(c.Request.Context(), origin, destination)
	if err != nil {
		writeFailure(c, h.Log, err)
		return
	}

	writeJSON(c, http.StatusOK, dto.CompareResponse{
		Fastest:     dto.NewRouteResponse(cmp.Routes[domain.StrategyFastest]),
		Cheapest:    dto.NewRouteResponse(cmp.Routes[domain.StrategyCheapest]),
		Eco:         dto.NewRouteResponse(cmp.Routes[domain.StrategyEco]),
		Comparison:  cmp.Comparison,
		Origin:      cmp.Origin,
		Destination: cmp.Destination,
	})
}

// Route handles POST /api/routing/{fastest|cheapest|eco-friendly}. A failed
// provider call is a 502 carrying the failed record.
func (h *RoutingHandler) Route(c *gin.Context) {
	strategy, err := domain.ParseStrategy(c.Param("strategy"))
	if err != nil {
		writeError(c, http.StatusNotFound, "unknown routing strategy", err.Error())
		return
	}

	origin, destination, ok := h.locations(c)
	if !ok {
		return
	}

	rec, o, d, err := h.Routes.ComputeRouteFrom(c.Request.Context(), strategy, origin, destination)
	if err != nil {
		writeFailure(c, h.Log, err)
		return
	}

	res := dto.SingleRouteResponse{Route: dto.NewRouteResponse(rec), Origin: o, Destination: d}
	if !rec.Success {
		writeErrorData(c, http.StatusBadGateway, "route unavailable", rec.Error, res)
		return
	}
	writeJSON(c, http.StatusOK, res)
}

func (h *RoutingHandler) locations(c *gin.Context) (origin, destination services.LocationInput, ok bool) {
	var req dto.RouteRequest
	if err := decodeJSON(c.Request.Body, &req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return nil, nil, false
	}

	var err error
	origin, err = services.ParseLocation(req.Origin)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid origin", err.Error())
		return nil, nil, false
	}
	destination, err = services.ParseLocation(req.Destination)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid destination", err.Error())
		return nil, nil, false
	}
	return origin, destination, true
}
