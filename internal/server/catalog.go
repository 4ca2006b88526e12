package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/maplebill/maplebill/internal/catalog/domain"
	"github.com/maplebill/maplebill/internal/money"
)

type createItemRequest struct {
	SKU         string                        `json:"sku"`
	Name        string                        `json:"name"`
	Description string                        `json:"description"`
	UnitPrice   money.Decimal                 `json:"unit_price"`
	UnitType    string                        `json:"unit_type"`
	Type        catalogdomain.ItemType        `json:"type"`
	Category    catalogdomain.ItemCategory    `json:"category"`
	TaxCode     string                        `json:"tax_code"`
	Product     *catalogdomain.ProductDetails `json:"product"`
	Service     *catalogdomain.ServiceDetails `json:"service"`
}

func (s *Server) CreateItem(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}
	if strings.TrimSpace(req.SKU) == "" {
		AbortWithError(c, newValidationError("sku", "required", "sku is required"))
		return
	}

	item := &catalogdomain.Item{
		ID:          s.genID.Generate(),
		SKU:         strings.TrimSpace(req.SKU),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		UnitType:    req.UnitType,
		Type:        req.Type,
		Category:    req.Category,
		TaxCode:     strings.TrimSpace(req.TaxCode),
		Product:     req.Product,
		Service:     req.Service,
	}
	if item.UnitType == "" {
		item.UnitType = "each"
	}
	if item.Category == "" {
		item.Category = catalogdomain.CategoryGeneralGoods
	}

	if err := s.catalog.Insert(c.Request.Context(), item); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": item})
}

func (s *Server) ListItems(c *gin.Context) {
	items, err := s.catalog.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	item, err := s.catalog.FindByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": item})
}
