package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"businessathi/internal/domain"
	"businessathi/internal/port"
	"businessathi/internal/report"
)

// StatsService provides the invoice dashboard summary.
type StatsService interface {
	GetInvoiceStatistics(ctx context.Context, userID uuid.UUID, v domain.Variant) (*domain.InvoiceStatistics, error)
}

type statsService struct {
	invoices port.InvoiceRepository
	now      func() time.Time
	log      zerolog.Logger
}

// NewStatsService creates a new StatsService implementation. now supplies the
// current month and year; nil means time.Now.
func NewStatsService(invoices port.InvoiceRepository, now func() time.Time, log zerolog.Logger) StatsService {
	if now == nil {
		now = time.Now
	}
	return &statsService{
		invoices: invoices,
		now:      now,
		log:      log.With().Str("component", "stats").Logger(),
	}
}

func (s *statsService) GetInvoiceStatistics(ctx context.Context, userID uuid.UUID, v domain.Variant) (*domain.InvoiceStatistics, error) {
	variant, err := lookupArgs(userID, v)
	if err != nil {
		return nil, err
	}
	log := s.log.With().Str("user_id", userID.String()).Str("variant", string(variant)).Logger()

	amounts, err := s.invoices.ListInvoiceAmounts(ctx, variant, userID)
	if err != nil {
		return nil, fail(log, "GetInvoiceStatistics", "failed to compute invoice statistics", err)
	}

	stats, invalid := report.ComputeStatistics(s.now(), amounts)
	if invalid > 0 {
		log.Warn().Int("invalid_amounts", invalid).Msg("unparsable invoice totals counted as zero")
	}
	return &stats, nil
}
