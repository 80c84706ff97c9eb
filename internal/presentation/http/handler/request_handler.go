package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tekstilpro/proforma-api/internal/application/service"
	"github.com/tekstilpro/proforma-api/internal/domain/enum"
	"github.com/tekstilpro/proforma-api/internal/presentation/http/dto/response"
	"github.com/tekstilpro/proforma-api/pkg/pagination"
)

// RequestHandler handles production request and quotation workflow HTTP requests
type RequestHandler struct {
	quotationService *service.QuotationService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(quotationService *service.QuotationService) *RequestHandler {
	return &RequestHandler{quotationService: quotationService}
}

// CreateRequestRequest represents the create request body
type CreateRequestRequest struct {
	CustomerName    string               `json:"customer_name" binding:"required"`
	CustomerEmail   *string              `json:"customer_email"`
	CustomerPhone   *string              `json:"customer_phone"`
	CustomerCompany *string              `json:"customer_company"`
	Items           []RequestItemRequest `json:"items" binding:"required,min=1"`
}

// RequestItemRequest represents a line item in the request body
type RequestItemRequest struct {
	ProductID        *string        `json:"product_id"`
	ProductName      string         `json:"product_name" binding:"required"`
	ProductImage     *string        `json:"product_image"`
	Quantity         int            `json:"quantity"`
	SizeDistribution map[string]int `json:"size_distribution"`
}

// ItemCostRequest represents the cost inputs for one item
type ItemCostRequest struct {
	ItemID         string  `json:"item_id" binding:"required"`
	UnitCost       float64 `json:"unit_cost"`
	PrintingCost   float64 `json:"printing_cost"`
	EmbroideryCost float64 `json:"embroidery_cost"`
}

// SaveQuoteRequest represents the save quote request body
type SaveQuoteRequest struct {
	ItemCosts          []ItemCostRequest `json:"item_costs"`
	ProfitMargin       float64           `json:"profit_margin"`
	VATRate            int               `json:"vat_rate"`
	SharedShippingCost float64           `json:"shared_shipping_cost"`
}

// RevisionRequest represents the request revision body
type RevisionRequest struct {
	Notes string `json:"notes" binding:"required"`
}

// List handles listing production requests
// @Summary List Requests
// @Description Get all production requests with pagination and filtering
// @Tags requests
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Search term"
// @Param status query int false "Status filter"
// @Param source query int false "Source filter"
// @Success 200 {object} response.APIResponse
// @Router /requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	page, perPage := paginationFromQuery(c)
	search := c.Query("search")

	var status *enum.RequestStatus
	if s := c.Query("status"); s != "" {
		if parsed, err := parseNonNegativeInt(s); err == nil {
			st := enum.RequestStatus(parsed)
			status = &st
		}
	}

	var source *enum.RequestSource
	if s := c.Query("source"); s != "" {
		if parsed, err := parseNonNegativeInt(s); err == nil {
			src := enum.RequestSource(parsed)
			source = &src
		}
	}

	result, err := h.quotationService.ListRequests(c.Request.Context(), &service.ListRequestsInput{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:    search,
		Status:    status,
		Source:    source,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Requests retrieved successfully", result)
}

// Get handles getting a single request with its latest quote
// @Summary Get Request
// @Description Get a production request by ID with items and latest quote
// @Tags requests
// @Security BearerAuth
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.APIResponse
// @Router /requests/{id} [get]
func (h *RequestHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid request ID")
		return
	}

	detail, err := h.quotationService.GetRequest(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Request retrieved successfully", detail)
}

// Create handles creating an intake request
// @Summary Create Request
// @Description Create a new production request awaiting cost entry
// @Tags requests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateRequestRequest true "Request data"
// @Success 201 {object} response.APIResponse
// @Router /requests [post]
func (h *RequestHandler) Create(c *gin.Context) {
	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.CreateRequestInput{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerCompany: req.CustomerCompany,
	}

	for _, item := range req.Items {
		itemInput := service.RequestItemInput{
			ProductName:      item.ProductName,
			ProductImage:     item.ProductImage,
			Quantity:         item.Quantity,
			SizeDistribution: item.SizeDistribution,
		}
		if item.ProductID != nil {
			productID, err := uuid.Parse(*item.ProductID)
			if err != nil {
				response.BadRequest(c, "Invalid product ID: "+*item.ProductID)
				return
			}
			itemInput.ProductID = &productID
		}
		input.Items = append(input.Items, itemInput)
	}

	request, err := h.quotationService.CreateRequest(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Request created successfully", request)
}

// SaveQuote handles saving a quote against a request
// @Summary Save Quote
// @Description Persist cost inputs, compute a quote snapshot and move the request to review
// @Tags requests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body SaveQuoteRequest true "Quote data"
// @Success 201 {object} response.APIResponse
// @Router /requests/{id}/quote [post]
func (h *RequestHandler) SaveQuote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid request ID")
		return
	}

	var req SaveQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.SaveQuoteInput{
		RequestID:          id,
		ProfitMargin:       req.ProfitMargin,
		VATRate:            req.VATRate,
		SharedShippingCost: req.SharedShippingCost,
	}
	for _, cost := range req.ItemCosts {
		itemID, err := uuid.Parse(cost.ItemID)
		if err != nil {
			response.BadRequest(c, "Invalid item ID: "+cost.ItemID)
			return
		}
		input.ItemCosts = append(input.ItemCosts, service.ItemCostInput{
			ItemID:         itemID,
			UnitCost:       cost.UnitCost,
			PrintingCost:   cost.PrintingCost,
			EmbroideryCost: cost.EmbroideryCost,
		})
	}

	quote, err := h.quotationService.SaveQuote(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Quote saved successfully", quote)
}

// ListQuotes handles listing a request's quote snapshots
// @Summary List Quotes
// @Description Get all quote snapshots for a request, newest first
// @Tags requests
// @Security BearerAuth
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.APIResponse
// @Router /requests/{id}/quotes [get]
func (h *RequestHandler) ListQuotes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid request ID")
		return
	}

	quotes, err := h.quotationService.ListQuotes(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotes retrieved successfully", quotes)
}

// RequestRevision handles requesting a revision
// @Summary Request Revision
// @Description Store revision notes and reset the request to pending
// @Tags requests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body RevisionRequest true "Revision notes"
// @Success 200 {object} response.APIResponse
// @Router /requests/{id}/revision [post]
func (h *RequestHandler) RequestRevision(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid request ID")
		return
	}

	var req RevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.quotationService.RequestRevision(c.Request.Context(), id, req.Notes); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Revision requested", nil)
}

// Approve handles approving a request
// @Summary Approve Request
// @Description Move a request to approved
// @Tags requests
// @Security BearerAuth
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.APIResponse
// @Router /requests/{id}/approve [post]
func (h *RequestHandler) Approve(c *gin.Context) {
	h.transition(c, h.quotationService.Approve, "Request approved")
}

// Reject handles rejecting a request
// @Summary Reject Request
// @Description Move a request to rejected
// @Tags requests
// @Security BearerAuth
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.APIResponse
// @Router /requests/{id}/reject [post]
func (h *RequestHandler) Reject(c *gin.Context) {
	h.transition(c, h.quotationService.Reject, "Request rejected")
}

// Archive handles archiving a request
// @Summary Archive Request
// @Description Move a request to archived
// @Tags requests
// @Security BearerAuth
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.APIResponse
// @Router /requests/{id}/archive [post]
func (h *RequestHandler) Archive(c *gin.Context) {
	h.transition(c, h.quotationService.Archive, "Request archived")
}

func (h *RequestHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) error, message string) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid request ID")
		return
	}

	if err := fn(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, message, nil)
}

// Delete handles deleting a request
// @Summary Delete Request
// @Description Remove a request together with its items and quotes
// @Tags requests
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 204
// @Router /requests/{id} [delete]
func (h *RequestHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid request ID")
		return
	}

	if err := h.quotationService.DeleteRequest(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
