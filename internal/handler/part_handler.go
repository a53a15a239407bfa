package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"parts-service/internal/analog"
	"parts-service/internal/catalog"
	"parts-service/internal/compat"
	"parts-service/internal/middleware"
	"parts-service/internal/pricing"
	"parts-service/pkg/logger"
	"parts-service/prometheus"
)

type PartHandler struct {
	parts   *catalog.Store
	graph   *analog.Graph
	compat  *compat.Index
	pricing *pricing.Policy
}

func NewPartHandler(parts *catalog.Store, graph *analog.Graph, index *compat.Index, policy *pricing.Policy) *PartHandler {
	return &PartHandler{parts: parts, graph: graph, compat: index, pricing: policy}
}

// GetPart handles retrieving a single part by ID, priced for the viewer
func (h *PartHandler) GetPart(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid part id"})
	}

	part, err := h.parts.GetByID(c.Request().Context(), id)
	if err != nil {
		return errorResponse(c, log, err)
	}
	if part == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "part not found"})
	}

	prometheus.RecordPartView(c.Param("id"))
	viewer := middleware.ViewerFromContext(c)
	return c.JSON(http.StatusOK, newPartView(*part, "", viewer, h.pricing))
}

// GetAnalogs handles resolving the analog list for a part. Direct analogs
// come first, then indirect ones; an unknown part yields an empty list.
func (h *PartHandler) GetAnalogs(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid part id"})
	}

	relations, err := h.graph.Resolve(c.Request().Context(), id)
	if err != nil {
		return errorResponse(c, log, err)
	}
	prometheus.AnalogResolutionCounter.Inc()

	viewer := middleware.ViewerFromContext(c)
	views := make([]PartView, 0, len(relations))
	for _, rel := range relations {
		views = append(views, newPartView(rel.Part, string(rel.RelationType), viewer, h.pricing))
	}

	log.Info("analogs resolved",
		zap.Uint("part_id", id),
		zap.Int("count", len(views)))
	return c.JSON(http.StatusOK, views)
}

// GetCompatibilities handles listing the vehicles a part fits
func (h *PartHandler) GetCompatibilities(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid part id"})
	}

	entries, err := h.compat.GetCompatibilities(c.Request().Context(), id)
	if err != nil {
		return errorResponse(c, log, err)
	}

	log.Info("compatibilities listed",
		zap.Uint("part_id", id),
		zap.Int("count", len(entries)))
	return c.JSON(http.StatusOK, entries)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
