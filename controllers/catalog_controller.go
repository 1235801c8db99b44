package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dadalto/producao-api/services"
)

// CatalogController exposes the model value catalog.
type CatalogController struct {
	catalog *services.CatalogService
}

// NewCatalogController creates a catalog controller.
func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// RegisterModelRequest represents the request body for registering a model
type RegisterModelRequest struct {
	Name      string          `json:"name" binding:"required"`
	Category  string          `json:"category"`
	Sizes     string          `json:"sizes"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Register handles POST /api/v1/catalog/models
func (ctrl *CatalogController) Register(c *gin.Context) {
	var req RegisterModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	model, err := ctrl.catalog.RegisterModel(services.RegisterModelInput{
		Name:      req.Name,
		Category:  req.Category,
		Sizes:     req.Sizes,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, model)
}

// SetPriceRequest represents the request body for updating a unit price
type SetPriceRequest struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SetPrice handles PUT /api/v1/catalog/models/:name/price
func (ctrl *CatalogController) SetPrice(c *gin.Context) {
	var req SetPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	model, err := ctrl.catalog.SetPrice(c.Param("name"), req.UnitPrice)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, model)
}

// Get handles GET /api/v1/catalog/models/:name
func (ctrl *CatalogController) Get(c *gin.Context) {
	model, err := ctrl.catalog.GetModel(c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, model)
}

// List handles GET /api/v1/catalog/models
func (ctrl *CatalogController) List(c *gin.Context) {
	entries, err := ctrl.catalog.ListModels()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, entries)
}
