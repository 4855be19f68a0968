package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"businessathi/internal/domain"
	"businessathi/internal/service"
)

// ExportHandler streams CSV and XLSX exports.
type ExportHandler struct {
	exportService service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// bindExport reads the export body. Format is validated before any data is
// touched. Returns false if a response was already written.
func bindExport(c *gin.Context) (req ExportRequest, userID uuid.UUID, v domain.Variant, format domain.ExportFormat, ok bool) {
	if userID, ok = extractUserID(c); !ok {
		return
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return req, userID, v, format, false
	}
	var err error
	if format, err = domain.ParseExportFormat(req.Format); err != nil {
		HandleError(c, err)
		return req, userID, v, format, false
	}
	if v, err = domain.ParseVariant(req.Type); err != nil {
		HandleError(c, err)
		return req, userID, v, format, false
	}
	return req, userID, v, format, true
}

func sendFile(c *gin.Context, file *domain.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

// Invoices handles POST /api/v1/invoices/export
// @Summary      Export invoices
// @Description  Serializes every invoice matching the filters as CSV or XLSX
// @Tags         exports
// @Accept       json
// @Produce      application/octet-stream
// @Param        body body ExportRequest true "Format, invoice type and filters"
// @Success      200 {file} file
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Failure      413 {object} APIResponse
// @Failure      429 {object} APIResponse
// @Security     BearerAuth
// @Router       /invoices/export [post]
func (h *ExportHandler) Invoices(c *gin.Context) {
	req, userID, v, format, ok := bindExport(c)
	if !ok {
		return
	}
	f, err := req.params().invoiceFilter(userID, v)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	file, err := h.exportService.ExportInvoices(c.Request.Context(), f, format)
	if err != nil {
		HandleError(c, err)
		return
	}
	sendFile(c, file)
}

// Customers handles POST /api/v1/customers/export
// @Summary      Export customers
// @Tags         exports
// @Accept       json
// @Produce      application/octet-stream
// @Param        body body ExportRequest true "Format, invoice type and filters"
// @Success      200 {file} file
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Security     BearerAuth
// @Router       /customers/export [post]
func (h *ExportHandler) Customers(c *gin.Context) {
	req, userID, v, format, ok := bindExport(c)
	if !ok {
		return
	}

	file, err := h.exportService.ExportCustomers(c.Request.Context(), req.params().customerFilter(userID, v), format)
	if err != nil {
		HandleError(c, err)
		return
	}
	sendFile(c, file)
}

// Products handles POST /api/v1/products/export
// @Summary      Export products
// @Tags         exports
// @Accept       json
// @Produce      application/octet-stream
// @Param        body body ExportRequest true "Format, invoice type and filters"
// @Success      200 {file} file
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Security     BearerAuth
// @Router       /products/export [post]
func (h *ExportHandler) Products(c *gin.Context) {
	req, userID, v, format, ok := bindExport(c)
	if !ok {
		return
	}

	file, err := h.exportService.ExportProducts(c.Request.Context(), req.params().productFilter(userID, v), format)
	if err != nil {
		HandleError(c, err)
		return
	}
	sendFile(c, file)
}
