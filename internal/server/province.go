package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// province handlers are read-only: the Canadian baseline is seeded at
// startup and rate changes arrive through new seed data, not the API.

func (s *Server) ListProvinces(c *gin.Context) {
	provinces, err := s.provinces.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": provinces})
}

func (s *Server) GetProvince(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	province, err := s.provinces.FindByCode(c.Request.Context(), code)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": province})
}

// GetProvinceTaxes resolves the taxes in effect for a province on a date
// (today when the date query parameter is absent).
func (s *Server) GetProvinceTaxes(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	province, err := s.provinces.FindByCode(c.Request.Context(), code)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	date := time.Now().UTC()
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			AbortWithError(c, newValidationError("date", "invalid_date", "date must be YYYY-MM-DD"))
			return
		}
		date = parsed
	}

	taxes, err := s.taxEngine.GetTaxes(c.Request.Context(), province.ID, date)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": taxes})
}

func (s *Server) ListTaxes(c *gin.Context) {
	taxes, err := s.taxes.ListTaxes(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": taxes})
}
