package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tekstilpro/proforma-api/internal/application/service"
	"github.com/tekstilpro/proforma-api/internal/presentation/http/dto/response"
	"github.com/tekstilpro/proforma-api/pkg/pagination"
)

// ManualInvoiceHandler handles manual invoice builder HTTP requests
type ManualInvoiceHandler struct {
	manualInvoiceService *service.ManualInvoiceService
}

// NewManualInvoiceHandler creates a new manual invoice handler
func NewManualInvoiceHandler(manualInvoiceService *service.ManualInvoiceService) *ManualInvoiceHandler {
	return &ManualInvoiceHandler{manualInvoiceService: manualInvoiceService}
}

// ManualItemRequest represents a manually entered line item
type ManualItemRequest struct {
	ProductID        *string        `json:"product_id"`
	ProductName      string         `json:"product_name" binding:"required"`
	ProductImage     *string        `json:"product_image"`
	Quantity         int            `json:"quantity"`
	SizeDistribution map[string]int `json:"size_distribution"`
	UnitCost         float64        `json:"unit_cost"`
	PrintingCost     float64        `json:"printing_cost"`
	EmbroideryCost   float64        `json:"embroidery_cost"`
}

// CreateManualInvoiceRequest represents the manual invoice request body
type CreateManualInvoiceRequest struct {
	CustomerName       string              `json:"customer_name" binding:"required"`
	CustomerEmail      *string             `json:"customer_email"`
	CustomerPhone      *string             `json:"customer_phone"`
	CustomerCompany    *string             `json:"customer_company"`
	Items              []ManualItemRequest `json:"items" binding:"required,min=1"`
	ProfitMargin       float64             `json:"profit_margin"`
	VATRate            int                 `json:"vat_rate"`
	SharedShippingCost float64             `json:"shared_shipping_cost"`
}

// SearchProducts handles product lookup for item selection
// @Summary Search Products
// @Description Search catalog products by name (minimum 2 characters)
// @Tags manual-invoices
// @Security BearerAuth
// @Produce json
// @Param q query string true "Search query"
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Success 200 {object} response.APIResponse
// @Router /manual-invoices/products [get]
func (h *ManualInvoiceHandler) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	page, perPage := paginationFromQuery(c)

	result, err := h.manualInvoiceService.SearchProducts(c.Request.Context(), query, &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved successfully", result)
}

// Create handles creating a manual invoice
// @Summary Create Manual Invoice
// @Description Create a manual request and attach its quote snapshot. Requires an Idempotency-Key header.
// @Tags manual-invoices
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string true "Idempotency key"
// @Param request body CreateManualInvoiceRequest true "Invoice data"
// @Success 201 {object} response.APIResponse
// @Router /manual-invoices [post]
func (h *ManualInvoiceHandler) Create(c *gin.Context) {
	var req CreateManualInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.CreateManualInvoiceInput{
		CustomerName:       req.CustomerName,
		CustomerEmail:      req.CustomerEmail,
		CustomerPhone:      req.CustomerPhone,
		CustomerCompany:    req.CustomerCompany,
		ProfitMargin:       req.ProfitMargin,
		VATRate:            req.VATRate,
		SharedShippingCost: req.SharedShippingCost,
	}

	for _, item := range req.Items {
		itemInput := service.ManualItemInput{
			ProductName:      item.ProductName,
			ProductImage:     item.ProductImage,
			Quantity:         item.Quantity,
			SizeDistribution: item.SizeDistribution,
			UnitCost:         item.UnitCost,
			PrintingCost:     item.PrintingCost,
			EmbroideryCost:   item.EmbroideryCost,
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

	detail, err := h.manualInvoiceService.CreateManualInvoice(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Manual invoice created successfully", detail)
}
