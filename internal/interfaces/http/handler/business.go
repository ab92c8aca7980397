package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	businessapp "github.com/saleledger/backend/internal/application/business"
)

// BusinessHandler handles business directory administration endpoints
type BusinessHandler struct {
	BaseHandler
	directoryService *businessapp.DirectoryService
}

// NewBusinessHandler creates a new BusinessHandler
func NewBusinessHandler(directoryService *businessapp.DirectoryService) *BusinessHandler {
	return &BusinessHandler{directoryService: directoryService}
}

// RegisterRoutes registers business directory administration routes
func (h *BusinessHandler) RegisterRoutes(rg *gin.RouterGroup) {
	businesses := rg.Group("/businesses")
	{
		businesses.POST("", h.Create)
		businesses.GET("", h.List)
		businesses.GET("/:id", h.Get)
		businesses.PUT("/:id/vat-rate", h.UpdateVATRate)
		businesses.DELETE("/:id", h.Deactivate)
	}
}

// Create registers a new business
func (h *BusinessHandler) Create(c *gin.Context) {
	var req businessapp.CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	response, err := h.directoryService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, response)
}

// Get retrieves a business by ID
func (h *BusinessHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid business ID")
		return
	}

	response, err := h.directoryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, response)
}

// List retrieves all businesses
func (h *BusinessHandler) List(c *gin.Context) {
	responses, err := h.directoryService.List(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, responses)
}

// UpdateVATRate changes a business's VAT rate. Sales committed before the
// change keep the rate they were computed with.
func (h *BusinessHandler) UpdateVATRate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid business ID")
		return
	}

	var req businessapp.UpdateVATRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	response, err := h.directoryService.UpdateVATRate(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, response)
}

// Deactivate marks a business inactive
func (h *BusinessHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid business ID")
		return
	}

	if err := h.directoryService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
