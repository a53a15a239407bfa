package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"parts-service/internal/analog"
	"parts-service/internal/compat"
	"parts-service/pkg/logger"
	"parts-service/prometheus"
)

// AnalogAdminHandler lets moderators manage graph edges directly, without
// going through a suggestion.
type AnalogAdminHandler struct {
	graph  *analog.Graph
	compat *compat.Index
}

func NewAnalogAdminHandler(graph *analog.Graph, index *compat.Index) *AnalogAdminHandler {
	return &AnalogAdminHandler{graph: graph, compat: index}
}

// AnalogEdgeRequest defines the structure for edge upserts
type AnalogEdgeRequest struct {
	SourcePartID uint   `json:"source_part_id"`
	AnalogPartID uint   `json:"analog_part_id"`
	Kind         string `json:"kind"` // direct or substitute
	Notes        string `json:"notes,omitempty"`
}

// UpsertEdge handles asserting an analog or substitute edge
func (h *AnalogAdminHandler) UpsertEdge(c echo.Context) error {
	log := logger.FromContext(c)

	var req AnalogEdgeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	ctx := c.Request().Context()
	var err error
	switch req.Kind {
	case "direct":
		err = h.graph.UpsertDirectEdge(ctx, req.SourcePartID, req.AnalogPartID, req.Notes)
	case "substitute":
		err = h.graph.UpsertSubstituteEdge(ctx, req.SourcePartID, req.AnalogPartID, req.Notes)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind must be direct or substitute"})
	}
	if err != nil {
		return errorResponse(c, log, err)
	}

	prometheus.RecordAnalogMutation(req.Kind)
	log.Info("analog edge upserted",
		zap.Uint("source_part_id", req.SourcePartID),
		zap.Uint("analog_part_id", req.AnalogPartID),
		zap.String("kind", req.Kind))
	return c.NoContent(http.StatusNoContent)
}

// RemoveEdge handles removing an edge (and its mirror, for direct edges)
func (h *AnalogAdminHandler) RemoveEdge(c echo.Context) error {
	log := logger.FromContext(c)

	source, err := parseID(c.Param("source"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid source part id"})
	}
	target, err := parseID(c.Param("target"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid target part id"})
	}

	if err := h.graph.RemoveEdge(c.Request().Context(), source, target); err != nil {
		return errorResponse(c, log, err)
	}

	prometheus.RecordAnalogMutation("remove")
	return c.NoContent(http.StatusNoContent)
}

// CompatibilityRequest defines the structure for direct compatibility upserts
type CompatibilityRequest struct {
	PartID      uint   `json:"part_id"`
	CarModelID  uint   `json:"car_model_id"`
	CarEngineID *uint  `json:"car_engine_id,omitempty"`
	StartYear   *int   `json:"start_year,omitempty"`
	EndYear     *int   `json:"end_year,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// UpsertCompatibility handles recording fitment directly
func (h *AnalogAdminHandler) UpsertCompatibility(c echo.Context) error {
	log := logger.FromContext(c)

	var req CompatibilityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	err := h.compat.UpsertCompatibility(c.Request().Context(),
		req.PartID, req.CarModelID, req.CarEngineID, req.StartYear, req.EndYear, req.Notes)
	if err != nil {
		return errorResponse(c, log, err)
	}

	log.Info("compatibility upserted",
		zap.Uint("part_id", req.PartID),
		zap.Uint("car_model_id", req.CarModelID))
	return c.NoContent(http.StatusNoContent)
}
