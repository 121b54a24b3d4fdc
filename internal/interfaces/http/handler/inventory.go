package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/storeadmin/backend/internal/application/inventory"
)

// StockHandler serves stock levels and the movement log
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// ListStock handles GET /stock
func (h *StockHandler) ListStock(c *gin.Context) {
	var filter inventoryapp.StockListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	items, err := h.stockService.ListStock(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessList(c, items, len(items))
}

// ListMovements handles GET /stock/movements
func (h *StockHandler) ListMovements(c *gin.Context) {
	var filter inventoryapp.MovementListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	movements, err := h.stockService.ListMovements(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessList(c, movements, len(movements))
}

// AdjustmentHandler handles stock adjustment endpoints
type AdjustmentHandler struct {
	BaseHandler
	adjustmentService *inventoryapp.AdjustmentService
}

// NewAdjustmentHandler creates a new AdjustmentHandler
func NewAdjustmentHandler(adjustmentService *inventoryapp.AdjustmentService) *AdjustmentHandler {
	return &AdjustmentHandler{adjustmentService: adjustmentService}
}

// Create handles POST /adjustments
func (h *AdjustmentHandler) Create(c *gin.Context) {
	var req inventoryapp.AdjustmentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	adj, err := h.adjustmentService.Create(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, adj)
}

// GetByID handles GET /adjustments/:id
func (h *AdjustmentHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	adj, err := h.adjustmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, adj)
}

// List handles GET /adjustments
func (h *AdjustmentHandler) List(c *gin.Context) {
	var filter inventoryapp.AdjustmentListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	list, err := h.adjustmentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessList(c, list, len(list))
}

// Update handles PUT /adjustments/:id
func (h *AdjustmentHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req inventoryapp.AdjustmentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	adj, err := h.adjustmentService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, adj)
}

// Delete handles DELETE /adjustments/:id
func (h *AdjustmentHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	if err := h.adjustmentService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// TransferHandler handles stock transfer endpoints
type TransferHandler struct {
	BaseHandler
	transferService *inventoryapp.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transferService *inventoryapp.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

// Create handles POST /transfers
func (h *TransferHandler) Create(c *gin.Context) {
	var req inventoryapp.TransferRequest
	if !h.BindJSON(c, &req) {
		return
	}
	transfer, err := h.transferService.Create(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, transfer)
}

// GetByID handles GET /transfers/:id
func (h *TransferHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	transfer, err := h.transferService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, transfer)
}

// List handles GET /transfers
func (h *TransferHandler) List(c *gin.Context) {
	var filter inventoryapp.TransferListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	list, err := h.transferService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessList(c, list, len(list))
}

// Update handles PUT /transfers/:id
func (h *TransferHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req inventoryapp.TransferRequest
	if !h.BindJSON(c, &req) {
		return
	}
	transfer, err := h.transferService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, transfer)
}

// Delete handles DELETE /transfers/:id
func (h *TransferHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	if err := h.transferService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
