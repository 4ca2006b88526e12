package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	customerdomain "github.com/maplebill/maplebill/internal/customer/domain"
	taxdomain "github.com/maplebill/maplebill/internal/tax/domain"
)

type createCustomerRequest struct {
	Name      string                      `json:"name"`
	Email     string                      `json:"email"`
	Type      customerdomain.CustomerType `json:"type"`
	TaxStatus taxdomain.TaxStatus         `json:"tax_status"`
	Addresses []customerdomain.Address    `json:"addresses"`
	Metadata  map[string]any              `json:"metadata"`
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		AbortWithError(c, newValidationError("name", "required", "name is required"))
		return
	}

	customer := &customerdomain.Customer{
		ID:        s.genID.Generate(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Type:      req.Type,
		TaxStatus: req.TaxStatus,
		Addresses: req.Addresses,
		Metadata:  datatypes.JSONMap(req.Metadata),
	}
	if customer.Metadata == nil {
		customer.Metadata = datatypes.JSONMap{}
	}
	if customer.Type == "" {
		customer.Type = customerdomain.CustomerTypeRegular
	}
	if customer.TaxStatus == "" {
		customer.TaxStatus = taxdomain.TaxStatusRegular
	}

	if err := s.customers.Insert(c.Request.Context(), customer); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": customer})
}

func (s *Server) ListCustomers(c *gin.Context) {
	customers, err := s.customers.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": customers})
}

func (s *Server) GetCustomer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	customer, err := s.customers.FindByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": customer})
}
