package handlers

import (
	"mobility-route-service/internal/api/dto"
	"mobility-route-service/internal/domain"
	"mobility-route-service/internal/services"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InsightsHandler struct {
	Insights *services.AreaInsightsService
	Log      *zap.Logger
}

// RegisterRoutes mounts the area insight endpoints on r.
func (h *InsightsHandler) RegisterRoutes(r *gin.RouterGroup) {
	insights := r.Group("/insights")
	{
		insights.GET("/traffic", h.Traffic)
		insights.GET("/poi-analysis", h.POIAnalysis)
		insights.GET("/mobility-patterns", h.MobilityPatterns)
	}
}

// Traffic handles GET /api/insights/traffic?lat&lon.
func (h *InsightsHandler) Traffic(c *gin.Context) {
	point, err := pointParam(c)
	if err != nil {
		writeFailure(c, h.Log, err)
		return
	}

	ti, err := h.Insights.Traffic(c.Request.Context(), point)
	if err != nil {
		writeFailure(c, h.Log, err)
		return
	}

	writeJSON(c, http.StatusOK, dto.TrafficResponse{
		Location:           ti.Location,
		CurrentSpeed:       ti.Flow.CurrentSpeed,
		FreeFlowSpeed:      ti.Flow.FreeFlowSpeed,
		CurrentTravelTime:  ti.Flow.CurrentTravelTime,
		FreeFlowTravelTime: ti.Flow.FreeFlowTravelTime,
		Confidence:         ti.Flow.Confidence,
		CongestionLevel:    ti.Congestion,
		TimePeriod:         ti.TimePeriod,
		IsPeakHour:         ti.PeakHour,
		ObservedAt:         ti.ObservedAt,
	})
}

// POIAnalysis handles GET /api/insights/poi-analysis?lat&lon&radius&category.
func (h *InsightsHandler) POIAnalysis(c *gin.Context) {
	point, err := pointParam(c)
	if err != nil {
		writeFailure(c, h.Log, err)
		return
	}
	radius, err := radiusParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid radius", err.Error())
		return
	}
	category := strings.TrimSpace(c.Query("category"))

	pois, dist, err := h.Insights.POIAnalysis(c.Request.Context(), point, radius, category)
	if err != nil {
		writeFailure(c, h.Log, err)
		return
	}
	if pois == nil {
		pois = []domain.POI{}
	}

	writeJSON(c, http.StatusOK, dto.POIAnalysisResponse{
		Location:     point,
		RadiusMeters: radius,
		Category:     category,
		POIs:         pois,
		Distribution: dist,
	})
}

// MobilityPatterns handles GET /api/insights/mobility-patterns?lat&lon&radius.
// Collaborator failures degrade the report instead of failing the request.
func (h *InsightsHandler) MobilityPatterns(c *gin.Context) {
	point, err := pointParam(c)
	if err != nil {
		writeFailure(c, h.Log, err)
		return
	}
	radius, err := radiusParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid radius", err.Error())
		return
	}

	rep := h.Insights.AnalyzeArea(c.Request.Context(), point, radius, "")

	writeJSON(c, http.StatusOK, dto.MobilityResponse{
		Location:     rep.Location,
		RadiusMeters: rep.RadiusMeters,
		Traffic:      rep.Flow,
		Incidents:    rep.Incidents,
		Distribution: rep.Distribution,
		Area:         rep.Area,
		Mobility:     rep.Mobility,
		TimePeriod:   rep.TimePeriod,
		IsPeakHour:   rep.PeakHour,
		Warnings:     rep.Warnings,
		ObservedAt:   rep.ObservedAt,
	})
}
