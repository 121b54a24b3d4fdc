package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	salesapp "github.com/storeadmin/backend/internal/application/sales"
)

// IdempotencyKeyHeader carries the client's checkout deduplication key
const IdempotencyKeyHeader = "Idempotency-Key"

// POSHandler handles point-of-sale endpoints
type POSHandler struct {
	BaseHandler
	posService *salesapp.POSService
}

// NewPOSHandler creates a new POSHandler
func NewPOSHandler(posService *salesapp.POSService) *POSHandler {
	return &POSHandler{posService: posService}
}

// Quote handles POST /pos/quote
func (h *POSHandler) Quote(c *gin.Context) {
	var req salesapp.CartRequest
	if !h.BindJSON(c, &req) {
		return
	}
	quote, err := h.posService.Quote(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, quote)
}

// Checkout handles POST /pos/checkout
func (h *POSHandler) Checkout(c *gin.Context) {
	var req salesapp.CheckoutRequest
	if !h.BindJSON(c, &req) {
		return
	}
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	sale, err := h.posService.Checkout(c.Request.Context(), req, key, currentUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, sale)
}

// ListSales handles GET /sales
func (h *POSHandler) ListSales(c *gin.Context) {
	var filter salesapp.SaleListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	list, err := h.posService.ListSales(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessList(c, list, len(list))
}

// GetSale handles GET /sales/:id
func (h *POSHandler) GetSale(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	sale, err := h.posService.GetSale(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, sale)
}

// GetReceipt handles GET /sales/:id/receipt and answers with plain text
func (h *POSHandler) GetReceipt(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	receipt, err := h.posService.GetReceipt(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	c.String(http.StatusOK, receipt)
}
