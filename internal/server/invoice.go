package server

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	invoicedomain "github.com/maplebill/maplebill/internal/invoice/domain"
	"github.com/maplebill/maplebill/internal/money"
)

func parseID(c *gin.Context, param string) (snowflake.ID, bool) {
	raw := strings.TrimSpace(c.Param(param))
	id, err := snowflake.ParseString(raw)
	if err != nil {
		AbortWithError(c, newValidationError(param, "invalid_id", "invalid id"))
		return 0, false
	}
	return id, true
}

func parseIndex(c *gin.Context, param string) (int, bool) {
	raw := strings.TrimSpace(c.Param(param))
	index, err := strconv.Atoi(raw)
	if err != nil {
		AbortWithError(c, newValidationError(param, "invalid_index", "invalid index"))
		return 0, false
	}
	return index, true
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req invoicedomain.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}
	if req.CustomerID == 0 {
		AbortWithError(c, newValidationError("customer_id", "required", "customer_id is required"))
		return
	}

	inv, err := s.invoiceSvc.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": inv})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var filter invoicedomain.ListFilter
	if raw := strings.TrimSpace(c.Query("customer_id")); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, newValidationError("customer_id", "invalid_id", "invalid id"))
			return
		}
		filter.CustomerID = &id
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := invoicedomain.Status(raw)
		filter.Status = &status
	}

	invoices, err := s.invoiceSvc.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invoices})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	inv, err := s.invoiceSvc.GetInvoice(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) GetInvoicePDF(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	inv, err := s.invoiceSvc.GetInvoice(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.pdf.RenderInvoice(c.Request.Context(), inv, s.billingCfg.Get().Currency)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+inv.InvoiceNumber+`.pdf"`)
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, doc)
}

type addLineItemRequest struct {
	ItemID   snowflake.ID  `json:"item_id"`
	Quantity money.Decimal `json:"quantity"`
}

func (s *Server) AddLineItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req addLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	inv, err := s.invoiceSvc.AddLineItem(c.Request.Context(), id, req.ItemID, req.Quantity)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) RemoveLineItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	index, ok := parseIndex(c, "index")
	if !ok {
		return
	}

	inv, err := s.invoiceSvc.RemoveLineItem(c.Request.Context(), id, index)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) RemoveLineItemsForItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}

	inv, err := s.invoiceSvc.RemoveLineItemsForItem(c.Request.Context(), id, itemID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

type quantityRequest struct {
	Quantity money.Decimal `json:"quantity"`
}

func (s *Server) UpdateLineItemQuantity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	index, ok := parseIndex(c, "index")
	if !ok {
		return
	}

	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	inv, err := s.invoiceSvc.UpdateLineItemQuantity(c.Request.Context(), id, index, req.Quantity)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) MoveLineItemUp(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	index, ok := parseIndex(c, "index")
	if !ok {
		return
	}

	inv, err := s.invoiceSvc.MoveLineItemUp(c.Request.Context(), id, index)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) MoveLineItemDown(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	index, ok := parseIndex(c, "index")
	if !ok {
		return
	}

	inv, err := s.invoiceSvc.MoveLineItemDown(c.Request.Context(), id, index)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

type moveRequest struct {
	To int `json:"to"`
}

func (s *Server) MoveLineItemToPosition(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	index, ok := parseIndex(c, "index")
	if !ok {
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	inv, err := s.invoiceSvc.MoveLineItemToPosition(c.Request.Context(), id, index, req.To)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

type discountRequest struct {
	Name        string                      `json:"name"`
	Description string                      `json:"description"`
	Scope       invoicedomain.DiscountScope `json:"scope"`
	Percentage  money.Decimal               `json:"percentage"`
	FixedAmount money.Decimal               `json:"fixed_amount"`
}

func (r discountRequest) toDiscount(id snowflake.ID) invoicedomain.Discount {
	return invoicedomain.Discount{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Scope:       r.Scope,
		Percentage:  r.Percentage,
		FixedAmount: r.FixedAmount,
	}
}

func (s *Server) AddDiscount(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req discountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	inv, err := s.invoiceSvc.AddDiscount(c.Request.Context(), id, req.toDiscount(s.genID.Generate()))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) AddLineItemDiscount(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	index, ok := parseIndex(c, "index")
	if !ok {
		return
	}

	var req discountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	inv, err := s.invoiceSvc.AddLineItemDiscount(c.Request.Context(), id, index, req.toDiscount(s.genID.Generate()))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

type surchargeRequest struct {
	Name         string                              `json:"name"`
	FixedAmount  money.Decimal                       `json:"fixed_amount"`
	Rate         money.Decimal                       `json:"rate"`
	TaxTreatment invoicedomain.SurchargeTaxTreatment `json:"tax_treatment"`
}

func (s *Server) AddSurcharge(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req surchargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	surcharge := &invoicedomain.Surcharge{
		ID:           s.genID.Generate(),
		Name:         req.Name,
		FixedAmount:  req.FixedAmount,
		Rate:         req.Rate,
		TaxTreatment: req.TaxTreatment,
	}

	inv, err := s.invoiceSvc.AddSurcharge(c.Request.Context(), id, surcharge)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

type shippingRequest struct {
	Name           string        `json:"name"`
	Carrier        string        `json:"carrier"`
	TrackingNumber string        `json:"tracking_number"`
	Cost           money.Decimal `json:"cost"`
	IsRefundable   bool          `json:"is_refundable"`
}

func (s *Server) AddShipping(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req shippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	shipping, err := invoicedomain.NewShipping(req.Name, req.Carrier, req.TrackingNumber, req.Cost, req.IsRefundable)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	inv, err := s.invoiceSvc.AddShipping(c.Request.Context(), id, shipping)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) ApplyTaxes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	inv, err := s.invoiceSvc.ApplyTaxes(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) PostInvoice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	inv, err := s.invoiceSvc.PostInvoice(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) CancelInvoice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	inv, err := s.invoiceSvc.CancelInvoice(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

type paymentRequest struct {
	Amount      money.Decimal  `json:"amount"`
	PaymentDate time.Time      `json:"payment_date"`
	Notes       string         `json:"notes"`
	Gateway     string         `json:"gateway"`
	GatewayRef  string         `json:"gateway_ref"`
	Metadata    map[string]any `json:"metadata"`
}

func (s *Server) ProcessPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}
	if !req.Amount.IsPositive() {
		AbortWithError(c, newValidationError("amount", "invalid_amount", "amount must be positive"))
		return
	}

	inv, err := s.invoiceSvc.ProcessPayment(c.Request.Context(), id, invoicedomain.PaymentRequest{
		Amount:      req.Amount,
		PaymentDate: req.PaymentDate,
		Notes:       req.Notes,
		Gateway:     req.Gateway,
		GatewayRef:  req.GatewayRef,
		Metadata:    req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

type refundRequest struct {
	PaymentID        snowflake.ID  `json:"payment_id"`
	Amount           money.Decimal `json:"amount"`
	Reason           string        `json:"reason"`
	RefundDate       time.Time     `json:"refund_date"`
	IncludesShipping bool          `json:"includes_shipping"`
}

func (s *Server) ProcessRefund(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req refundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}
	if !req.Amount.IsPositive() {
		AbortWithError(c, newValidationError("amount", "invalid_amount", "amount must be positive"))
		return
	}

	inv, err := s.invoiceSvc.ProcessRefund(c.Request.Context(), id, invoicedomain.RefundRequest{
		PaymentID:        req.PaymentID,
		Amount:           req.Amount,
		Reason:           req.Reason,
		RefundDate:       req.RefundDate,
		IncludesShipping: req.IncludesShipping,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}
