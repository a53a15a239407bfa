package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"parts-service/internal/model"
	"parts-service/pkg/logger"
)

// VehicleHandler serves the vehicle reference tables. Management of brands,
// models and engines happens in the admin catalog flows outside this
// service; these are read-only lookups for building compatibility
// suggestions and filters.
type VehicleHandler struct {
	db *gorm.DB
}

func NewVehicleHandler(db *gorm.DB) *VehicleHandler {
	return &VehicleHandler{db: db}
}

// ListBrands handles retrieving all car brands
func (h *VehicleHandler) ListBrands(c echo.Context) error {
	log := logger.FromContext(c)

	var brands []model.CarBrand
	if err := h.db.WithContext(c.Request().Context()).Order("name ASC").Find(&brands).Error; err != nil {
		return errorResponse(c, log, err)
	}
	return c.JSON(http.StatusOK, brands)
}

// ListModels handles retrieving the models of one brand
func (h *VehicleHandler) ListModels(c echo.Context) error {
	log := logger.FromContext(c)
	brandID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid brand id"})
	}

	var models []model.CarModel
	if err := h.db.WithContext(c.Request().Context()).
		Where("car_brand_id = ?", brandID).Order("name ASC").Find(&models).Error; err != nil {
		return errorResponse(c, log, err)
	}
	return c.JSON(http.StatusOK, models)
}

// ListEngines handles retrieving the engines of one model
func (h *VehicleHandler) ListEngines(c echo.Context) error {
	log := logger.FromContext(c)
	modelID, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid model id"})
	}

	var engines []model.CarEngine
	if err := h.db.WithContext(c.Request().Context()).
		Where("car_model_id = ?", modelID).Order("name ASC").Find(&engines).Error; err != nil {
		return errorResponse(c, log, err)
	}
	return c.JSON(http.StatusOK, engines)
}
