package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	saleapp "github.com/saleledger/backend/internal/application/sale"
	syncapp "github.com/saleledger/backend/internal/application/sync"
	"github.com/saleledger/backend/internal/interfaces/http/dto"
)

// SaleHandler handles sale capture and synchronization endpoints
type SaleHandler struct {
	BaseHandler
	captureService *saleapp.CaptureService
	coordinator    *syncapp.Coordinator
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(captureService *saleapp.CaptureService, coordinator *syncapp.Coordinator) *SaleHandler {
	return &SaleHandler{
		captureService: captureService,
		coordinator:    coordinator,
	}
}

// RegisterRoutes registers sale capture and synchronization routes
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.POST("", h.Record)
		sales.GET("", h.List)
	}
	syncGroup := rg.Group("/sync")
	{
		syncGroup.POST("", h.TriggerSync)
		syncGroup.GET("/status", h.SyncStatus)
	}
}

// Record captures a sale. A committed sale is answered with 201 and its
// authoritative record; a sale queued while offline is answered with 202
// and the local queue identifier.
func (h *SaleHandler) Record(c *gin.Context) {
	var req saleapp.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	response, err := h.captureService.RecordSale(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if response.Queued {
		c.JSON(http.StatusAccepted, dto.NewSuccessResponse(response))
		return
	}
	h.Created(c, response)
}

// List returns committed sales for a business within a date range
func (h *SaleHandler) List(c *gin.Context) {
	var filter saleapp.ListSalesFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sales, err := h.captureService.ListSales(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, sales)
}

// TriggerSync runs a synchronization pass on demand. The business_id
// query parameter narrows the run to one business; without it the whole
// queue is drained.
func (h *SaleHandler) TriggerSync(c *gin.Context) {
	businessID := uuid.Nil
	if raw := c.Query("business_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid business_id")
			return
		}
		businessID = parsed
	}

	result, err := h.coordinator.Sync(c.Request.Context(), businessID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// SyncStatusResponse reports the state of the local queue and coordinator
type SyncStatusResponse struct {
	Pending    int64 `json:"pending"`
	InProgress bool  `json:"in_progress"`
}

// SyncStatus reports how many captures are waiting in the local queue and
// whether a run is currently executing
func (h *SaleHandler) SyncStatus(c *gin.Context) {
	businessID := uuid.Nil
	if raw := c.Query("business_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid business_id")
			return
		}
		businessID = parsed
	}

	pending, err := h.captureService.PendingCount(c.Request.Context(), businessID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, SyncStatusResponse{
		Pending:    pending,
		InProgress: h.coordinator.InProgress(),
	})
}
