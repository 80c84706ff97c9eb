package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tekstilpro/proforma-api/internal/application/service"
	"github.com/tekstilpro/proforma-api/internal/presentation/http/dto/response"
)

// DocumentHandler handles proforma document export HTTP requests
type DocumentHandler struct {
	documentService *service.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// EmailProformaRequest represents the email proforma request body
type EmailProformaRequest struct {
	Recipient string `json:"recipient"`
}

// Proforma handles fetching the proforma projection of a request
// @Summary Get Proforma
// @Description Get the renderable proforma invoice built from the latest quote
// @Tags documents
// @Security BearerAuth
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.APIResponse
// @Router /requests/{id}/proforma [get]
func (h *DocumentHandler) Proforma(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid request ID")
		return
	}

	proforma, err := h.documentService.BuildProforma(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Proforma retrieved successfully", proforma)
}

// ExportExcel handles downloading the proforma as an XLSX workbook
// @Summary Export Proforma Excel
// @Description Download the proforma invoice as an XLSX file
// @Tags documents
// @Security BearerAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Request ID"
// @Success 200
// @Router /requests/{id}/proforma/excel [get]
func (h *DocumentHandler) ExportExcel(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid request ID")
		return
	}

	data, filename, err := h.documentService.ExportExcel(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// Print handles sending the proforma summary to the thermal printer
// @Summary Print Proforma
// @Description Send a proforma summary to the configured thermal printer
// @Tags documents
// @Security BearerAuth
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.APIResponse
// @Router /requests/{id}/proforma/print [post]
func (h *DocumentHandler) Print(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid request ID")
		return
	}

	if err := h.documentService.PrintSummary(c.Request.Context(), *userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Proforma sent to printer", nil)
}

// Email handles emailing the proforma to the customer
// @Summary Email Proforma
// @Description Send the proforma invoice to the customer by email
// @Tags documents
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body EmailProformaRequest false "Optional recipient override"
// @Success 200 {object} response.APIResponse
// @Router /requests/{id}/proforma/email [post]
func (h *DocumentHandler) Email(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid request ID")
		return
	}

	var req EmailProformaRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}

	if err := h.documentService.EmailProforma(c.Request.Context(), *userID, id, req.Recipient); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Proforma emailed successfully", nil)
}
