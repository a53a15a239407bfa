package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"parts-service/internal/middleware"
	"parts-service/internal/model"
	"parts-service/internal/moderation"
	"parts-service/pkg/logger"
	"parts-service/prometheus"
)

type SuggestionHandler struct {
	workflow *moderation.Workflow
}

func NewSuggestionHandler(workflow *moderation.Workflow) *SuggestionHandler {
	return &SuggestionHandler{workflow: workflow}
}

// SuggestionRequest defines the structure for suggestion submissions
type SuggestionRequest struct {
	Type                 string `json:"type"`
	SourcePartID         uint   `json:"source_part_id"`
	TargetPartID         *uint  `json:"target_part_id,omitempty"`
	ProposedNumber       string `json:"proposed_number,omitempty"`
	ProposedManufacturer string `json:"proposed_manufacturer,omitempty"`
	ProposedDescription  string `json:"proposed_description,omitempty"`
	IsDirect             *bool  `json:"is_direct,omitempty"`
	CarModelID           *uint  `json:"car_model_id,omitempty"`
	CarEngineID          *uint  `json:"car_engine_id,omitempty"`
	StartYear            *int   `json:"start_year,omitempty"`
	EndYear              *int   `json:"end_year,omitempty"`
	Comment              string `json:"comment,omitempty"`
}

// Submit handles a user proposing a new analog or compatibility relation
func (h *SuggestionHandler) Submit(c echo.Context) error {
	log := logger.FromContext(c)

	var req SuggestionRequest
	if err := c.Bind(&req); err != nil {
		log.Error("invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	viewer := middleware.ViewerFromContext(c)
	isDirect := true
	if req.IsDirect != nil {
		isDirect = *req.IsDirect
	}

	suggestion, err := h.workflow.Submit(c.Request().Context(), moderation.SubmitInput{
		Type:                 model.SuggestionType(req.Type),
		AuthorID:             viewer.UserID,
		SourcePartID:         req.SourcePartID,
		TargetPartID:         req.TargetPartID,
		ProposedNumber:       req.ProposedNumber,
		ProposedManufacturer: req.ProposedManufacturer,
		ProposedDescription:  req.ProposedDescription,
		IsDirect:             isDirect,
		CarModelID:           req.CarModelID,
		CarEngineID:          req.CarEngineID,
		StartYear:            req.StartYear,
		EndYear:              req.EndYear,
		Comment:              req.Comment,
	})
	if err != nil {
		return errorResponse(c, log, err)
	}

	log.Info("suggestion submitted",
		zap.Uint("suggestion_id", suggestion.ID),
		zap.String("type", string(suggestion.Type)),
		zap.Uint("author_id", viewer.UserID))
	return c.JSON(http.StatusCreated, suggestion)
}

// List handles the moderation queue listing, filtered by status
func (h *SuggestionHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	status := model.SuggestionStatus(c.QueryParam("status"))
	switch status {
	case "", model.SuggestionPending, model.SuggestionApproved, model.SuggestionRejected:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
	}

	suggestions, err := h.workflow.List(c.Request().Context(), status)
	if err != nil {
		return errorResponse(c, log, err)
	}
	return c.JSON(http.StatusOK, suggestions)
}

// Approve handles a moderator approving a pending suggestion
func (h *SuggestionHandler) Approve(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid suggestion id"})
	}

	viewer := middleware.ViewerFromContext(c)
	suggestion, err := h.workflow.Approve(c.Request().Context(), id, viewer.UserID)
	if err != nil {
		prometheus.RecordModerationDecision("approve_failed")
		return errorResponse(c, log, err)
	}

	prometheus.RecordModerationDecision("approved")
	return c.JSON(http.StatusOK, suggestion)
}

// RejectRequest carries the moderator's comment for a rejection
type RejectRequest struct {
	Comment string `json:"comment"`
}

// Reject handles a moderator rejecting a pending suggestion
func (h *SuggestionHandler) Reject(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid suggestion id"})
	}

	var req RejectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	viewer := middleware.ViewerFromContext(c)
	suggestion, err := h.workflow.Reject(c.Request().Context(), id, viewer.UserID, req.Comment)
	if err != nil {
		prometheus.RecordModerationDecision("reject_failed")
		return errorResponse(c, log, err)
	}

	prometheus.RecordModerationDecision("rejected")
	return c.JSON(http.StatusOK, suggestion)
}
