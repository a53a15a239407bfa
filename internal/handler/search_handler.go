package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"parts-service/internal/catalog"
	"parts-service/internal/middleware"
	"parts-service/internal/search"
	"parts-service/pkg/logger"
	"parts-service/prometheus"
)

type SearchHandler struct {
	resolver *search.Resolver
}

func NewSearchHandler(resolver *search.Resolver) *SearchHandler {
	return &SearchHandler{resolver: resolver}
}

// Search handles catalog search. Query parameters: q (required) and mode
// (text or article, defaulting to text).
func (h *SearchHandler) Search(c echo.Context) error {
	log := logger.FromContext(c)

	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "query parameter q is required"})
	}

	mode := catalog.SearchMode(c.QueryParam("mode"))
	switch mode {
	case catalog.ModeText, catalog.ModeArticle:
	case "":
		mode = catalog.ModeText
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "mode must be text or article"})
	}
	prometheus.RecordSearch(string(mode))

	viewer := middleware.ViewerFromContext(c)
	results, err := h.resolver.Search(c.Request().Context(), query, mode, viewer)
	if err != nil {
		return errorResponse(c, log, err)
	}

	log.Info("search completed",
		zap.String("query", query),
		zap.String("mode", string(mode)),
		zap.Int("count", len(results)))
	return c.JSON(http.StatusOK, results)
}
