package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"businessathi/internal/domain"
	"businessathi/internal/service"
)

// InvoiceHandler handles invoice listing, lookup and statistics endpoints.
type InvoiceHandler struct {
	reportService service.ReportService
	statsService  service.StatsService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(reportService service.ReportService, statsService service.StatsService) *InvoiceHandler {
	return &InvoiceHandler{reportService: reportService, statsService: statsService}
}

// invoiceFilter binds the query string into an invoice filter for the
// authenticated user. Returns false if a response was already written.
func invoiceFilter(c *gin.Context) (domain.InvoiceFilter, bool) {
	userID, ok := extractUserID(c)
	if !ok {
		return domain.InvoiceFilter{}, false
	}
	v, ok := extractVariant(c)
	if !ok {
		return domain.InvoiceFilter{}, false
	}
	var p listParams
	if err := c.ShouldBindQuery(&p); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return domain.InvoiceFilter{}, false
	}
	f, err := p.invoiceFilter(userID, v)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return domain.InvoiceFilter{}, false
	}
	return f, true
}

// List handles GET /api/v1/:variant/invoices
// @Summary      List invoices
// @Description  Filtered, sorted and paginated invoices of one variant, normalized to the reporting shape
// @Tags         invoices
// @Produce      json
// @Param        variant path string true "Invoice type" Enums(gst, local)
// @Param        search query string false "Matches customer name, address or invoice number"
// @Param        month query string false "Month name, e.g. June"
// @Param        customer_id query string false "Customer UUID"
// @Param        date_from query string false "Start date (YYYY-MM-DD)"
// @Param        date_to query string false "End date (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(15)
// @Param        sort_by query string false "Sort key, e.g. invoiceDate or customer.customerName"
// @Param        sort_order query string false "asc or desc" Enums(asc, desc)
// @Success      200 {object} APIResponse{data=[]domain.ReportingRecord,meta=PagMeta}
// @Failure      400 {object} APIResponse
// @Failure      401 {object} APIResponse
// @Failure      500 {object} APIResponse
// @Security     BearerAuth
// @Router       /{variant}/invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	f, ok := invoiceFilter(c)
	if !ok {
		return
	}

	page, err := h.reportService.FilterInvoices(c.Request.Context(), f)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, page.Invoices, PagMeta{
		TotalCount:  page.TotalCount,
		PageCount:   page.PageCount,
		CurrentPage: page.CurrentPage,
		PageSize:    page.PageSize,
	})
}

// IDs handles GET /api/v1/:variant/invoices/ids
// @Summary      List matching invoice ids
// @Description  Every invoice id matching the filters, ignoring pagination; used by bulk PDF download
// @Tags         invoices
// @Produce      json
// @Param        variant path string true "Invoice type" Enums(gst, local)
// @Param        search query string false "Matches customer name, address or invoice number"
// @Param        month query string false "Month name"
// @Param        customer_id query string false "Customer UUID"
// @Param        date_from query string false "Start date (YYYY-MM-DD)"
// @Param        date_to query string false "End date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse{data=InvoiceIDsResponse}
// @Failure      400 {object} APIResponse
// @Failure      413 {object} APIResponse
// @Security     BearerAuth
// @Router       /{variant}/invoices/ids [get]
func (h *InvoiceHandler) IDs(c *gin.Context) {
	f, ok := invoiceFilter(c)
	if !ok {
		return
	}

	ids, err := h.reportService.ListInvoiceIDs(c.Request.Context(), f)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, InvoiceIDsResponse{IDs: ids, Count: len(ids)})
}

// Months handles GET /api/v1/:variant/invoices/months
// @Summary      Distinct invoice months
// @Tags         invoices
// @Produce      json
// @Param        variant path string true "Invoice type" Enums(gst, local)
// @Success      200 {object} APIResponse{data=[]string}
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /{variant}/invoices/months [get]
func (h *InvoiceHandler) Months(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	v, ok := extractVariant(c)
	if !ok {
		return
	}

	months, err := h.reportService.GetUniqueMonths(c.Request.Context(), userID, v)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, months)
}

// Customers handles GET /api/v1/:variant/invoices/customers
// @Summary      Customer filter options
// @Tags         invoices
// @Produce      json
// @Param        variant path string true "Invoice type" Enums(gst, local)
// @Success      200 {object} APIResponse{data=[]domain.CustomerOption}
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /{variant}/invoices/customers [get]
func (h *InvoiceHandler) Customers(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	v, ok := extractVariant(c)
	if !ok {
		return
	}

	options, err := h.reportService.GetUniqueCustomers(c.Request.Context(), userID, v)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, options)
}

// Statistics handles GET /api/v1/:variant/invoices/statistics
// @Summary      Invoice statistics
// @Description  Current month total, all-time totals and the current-year monthly breakdown
// @Tags         invoices
// @Produce      json
// @Param        variant path string true "Invoice type" Enums(gst, local)
// @Success      200 {object} APIResponse{data=domain.InvoiceStatistics}
// @Failure      400 {object} APIResponse
// @Failure      500 {object} APIResponse
// @Security     BearerAuth
// @Router       /{variant}/invoices/statistics [get]
func (h *InvoiceHandler) Statistics(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	v, ok := extractVariant(c)
	if !ok {
		return
	}

	stats, err := h.statsService.GetInvoiceStatistics(c.Request.Context(), userID, v)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, stats)
}
