package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"businessathi/internal/service"
)

// MasterHandler handles customer and product listings.
type MasterHandler struct {
	reportService service.ReportService
}

// NewMasterHandler creates a new MasterHandler.
func NewMasterHandler(reportService service.ReportService) *MasterHandler {
	return &MasterHandler{reportService: reportService}
}

// Customers handles GET /api/v1/:variant/customers
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Param        variant path string true "Invoice type" Enums(gst, local)
// @Param        search query string false "Matches name and address; GST also GSTIN and state"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(15)
// @Param        sort_by query string false "createdAt, customerName or state (GST only)"
// @Param        sort_order query string false "asc or desc" Enums(asc, desc)
// @Success      200 {object} APIResponse{data=[]domain.Customer,meta=PagMeta}
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /{variant}/customers [get]
func (h *MasterHandler) Customers(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	v, ok := extractVariant(c)
	if !ok {
		return
	}
	var p listParams
	if err := c.ShouldBindQuery(&p); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	page, err := h.reportService.FilterCustomers(c.Request.Context(), p.customerFilter(userID, v))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, page.Customers, PagMeta{
		TotalCount:  page.TotalCount,
		PageCount:   page.PageCount,
		CurrentPage: page.CurrentPage,
		PageSize:    page.PageSize,
	})
}

// Products handles GET /api/v1/:variant/products
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        variant path string true "Invoice type" Enums(gst, local)
// @Param        search query string false "Matches product name; numeric input on GST also matches HSN code"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(15)
// @Param        sort_by query string false "createdAt, productName; GST also hsnCode, cgstRate, sgstRate"
// @Param        sort_order query string false "asc or desc" Enums(asc, desc)
// @Success      200 {object} APIResponse{data=[]domain.Product,meta=PagMeta}
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /{variant}/products [get]
func (h *MasterHandler) Products(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	v, ok := extractVariant(c)
	if !ok {
		return
	}
	var p listParams
	if err := c.ShouldBindQuery(&p); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	page, err := h.reportService.FilterProducts(c.Request.Context(), p.productFilter(userID, v))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, page.Products, PagMeta{
		TotalCount:  page.TotalCount,
		PageCount:   page.PageCount,
		CurrentPage: page.CurrentPage,
		PageSize:    page.PageSize,
	})
}
