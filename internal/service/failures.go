package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"businessathi/internal/domain"
	"businessathi/internal/metrics"
	"businessathi/internal/report"
)

// fail converts a storage or serialization error into the user-facing
// OperationError for op and logs the cause. Cancellation is passed through.
func fail(log zerolog.Logger, op, message string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		log.Debug().Err(err).Str("op", op).Msg("request canceled")
		return err
	}
	log.Error().Err(err).Str("op", op).Msg(message)
	return &domain.OperationError{Message: message}
}

// normalizeAll normalizes raws in order. Records with dangling references
// are skipped with a warning when skipDangling is set and abort the call
// otherwise. Inconsistent totals are logged and kept.
func normalizeAll(log zerolog.Logger, raws []domain.RawInvoice, v domain.Variant, skipDangling bool) ([]domain.ReportingRecord, error) {
	records := make([]domain.ReportingRecord, 0, len(raws))
	for _, raw := range raws {
		rec, err := report.Normalize(raw, v)
		if err != nil {
			metrics.NormalizationFailures.WithLabelValues(string(v), "integrity").Inc()
			var ie *domain.IntegrityError
			if skipDangling && errors.As(err, &ie) {
				log.Warn().Err(err).Str("invoice_id", raw.ID().String()).Msg("skipping invoice with dangling reference")
				continue
			}
			log.Error().Err(err).Str("invoice_id", raw.ID().String()).Str("variant", string(v)).Msg("invoice failed normalization")
			return nil, err
		}
		if err := report.CheckTotals(rec); err != nil {
			metrics.NormalizationFailures.WithLabelValues(string(v), "totals").Inc()
			log.Warn().Err(err).Str("invoice_id", rec.ID.String()).Msg("inconsistent invoice totals")
		}
		records = append(records, rec)
	}
	return records, nil
}
