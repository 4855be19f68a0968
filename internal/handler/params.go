package handler

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"businessathi/internal/domain"
)

const dateLayout = "2006-01-02"

// listParams are the filter, paging and ordering parameters shared by list
// endpoints (query string) and export endpoints (JSON body).
type listParams struct {
	Search     string `form:"search" json:"search"`
	Month      string `form:"month" json:"month"`
	CustomerID string `form:"customer_id" json:"customer_id"`
	DateFrom   string `form:"date_from" json:"date_from"`
	DateTo     string `form:"date_to" json:"date_to"`
	Page       int    `form:"page" json:"page"`
	PageSize   int    `form:"page_size" json:"page_size"`
	SortBy     string `form:"sort_by" json:"sort_by"`
	SortOrder  string `form:"sort_order" json:"sort_order"`
}

func parseDate(name, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid '%s': must be YYYY-MM-DD", name)
	}
	return &t, nil
}

func (p listParams) invoiceFilter(userID uuid.UUID, v domain.Variant) (domain.InvoiceFilter, error) {
	f := domain.InvoiceFilter{
		UserID:       userID,
		Variant:      v,
		Month:        p.Month,
		GlobalSearch: p.Search,
		Page:         p.Page,
		PageSize:     p.PageSize,
		SortBy:       p.SortBy,
		SortOrder:    domain.SortOrder(p.SortOrder),
	}
	if p.CustomerID != "" {
		id, err := uuid.Parse(p.CustomerID)
		if err != nil {
			return f, fmt.Errorf("invalid 'customer_id': must be a valid UUID")
		}
		f.CustomerID = &id
	}
	var err error
	if f.DateFrom, err = parseDate("date_from", p.DateFrom); err != nil {
		return f, err
	}
	if f.DateTo, err = parseDate("date_to", p.DateTo); err != nil {
		return f, err
	}
	return f, nil
}

func (p listParams) customerFilter(userID uuid.UUID, v domain.Variant) domain.CustomerFilter {
	return domain.CustomerFilter{
		UserID:       userID,
		Variant:      v,
		GlobalSearch: p.Search,
		Page:         p.Page,
		PageSize:     p.PageSize,
		SortBy:       p.SortBy,
		SortOrder:    domain.SortOrder(p.SortOrder),
	}
}

func (p listParams) productFilter(userID uuid.UUID, v domain.Variant) domain.ProductFilter {
	return domain.ProductFilter{
		UserID:       userID,
		Variant:      v,
		GlobalSearch: p.Search,
		Page:         p.Page,
		PageSize:     p.PageSize,
		SortBy:       p.SortBy,
		SortOrder:    domain.SortOrder(p.SortOrder),
	}
}

// ExportRequest is the body of the export endpoints.
type ExportRequest struct {
	Format     string `json:"format" example:"xlsx"`
	Type       string `json:"type" example:"gst"`
	Search     string `json:"search"`
	Month      string `json:"month"`
	CustomerID string `json:"customer_id"`
	DateFrom   string `json:"date_from" example:"2025-04-01"`
	DateTo     string `json:"date_to" example:"2025-06-30"`
	SortBy     string `json:"sort_by"`
	SortOrder  string `json:"sort_order"`
}

func (r ExportRequest) params() listParams {
	return listParams{
		Search:     r.Search,
		Month:      r.Month,
		CustomerID: r.CustomerID,
		DateFrom:   r.DateFrom,
		DateTo:     r.DateTo,
		SortBy:     r.SortBy,
		SortOrder:  r.SortOrder,
	}
}
