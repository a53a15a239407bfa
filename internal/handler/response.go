package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"parts-service/internal/apperr"
	"parts-service/internal/model"
	"parts-service/internal/pricing"
)

// PartView is a part as it leaves the service: the price is already
// transformed for the requesting viewer, the base price never appears.
type PartView struct {
	ID            uint            `json:"id"`
	PartNumber    string          `json:"part_number"`
	Manufacturer  string          `json:"manufacturer"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	CategoryID    uint            `json:"category_id"`
	DisplayPrice  decimal.Decimal `json:"display_price"`
	StockQuantity int             `json:"stock_quantity"`
	IsAvailable   bool            `json:"is_available"`
	RelationType  string          `json:"relation_type,omitempty"`
}

func newPartView(p model.Part, relation string, viewer model.Viewer, policy *pricing.Policy) PartView {
	return PartView{
		ID:            p.ID,
		PartNumber:    p.PartNumber,
		Manufacturer:  p.Manufacturer,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		DisplayPrice:  policy.DisplayPrice(p.BasePrice, viewer),
		StockQuantity: p.StockQuantity,
		IsAvailable:   p.IsAvailable,
		RelationType:  relation,
	}
}

// errorResponse maps the core error taxonomy onto HTTP statuses.
func errorResponse(c echo.Context, log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrInvalidRelation), errors.Is(err, apperr.ErrMissingReference):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrInvalidStateTransition), errors.Is(err, apperr.ErrConstraintViolation):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	default:
		log.Error("internal error", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
