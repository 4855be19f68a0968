package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"businessathi/internal/domain"
	"businessathi/internal/logger"
	"businessathi/internal/service"
)

type exportOptions struct {
	format    string
	output    string
	search    string
	month     string
	customer  string
	from      string
	to        string
	sortBy    string
	sortOrder string
}

func newExportCmd(global *globalOptions) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export [invoices|customers|products]",
		Short: "Export invoices, customers or products to CSV or XLSX",
		Example: `  # Export June GST invoices as a spreadsheet
  bizctl export invoices --user 6f1c... --month June --format xlsx

  # Export Local customers to a chosen path using the demo data set
  bizctl export customers --demo --type local --format csv -o customers.csv`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"invoices", "customers", "products"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, global, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "xlsx", "Output format: xlsx or csv")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file path (default: generated filename in the current directory)")
	cmd.Flags().StringVar(&opts.search, "search", "", "Global search text")
	cmd.Flags().StringVar(&opts.month, "month", "", "Month name, e.g. June (invoices only)")
	cmd.Flags().StringVar(&opts.customer, "customer", "", "Customer ID (invoices only)")
	cmd.Flags().StringVar(&opts.from, "from", "", "Start date YYYY-MM-DD (invoices only)")
	cmd.Flags().StringVar(&opts.to, "to", "", "End date YYYY-MM-DD (invoices only)")
	cmd.Flags().StringVar(&opts.sortBy, "sort-by", "", "Sort key")
	cmd.Flags().StringVar(&opts.sortOrder, "sort-order", "", "asc or desc")
	return cmd
}

func runExport(cmd *cobra.Command, global *globalOptions, opts *exportOptions, entity string) error {
	log := logger.WithComponent("export")

	format, err := domain.ParseExportFormat(opts.format)
	if err != nil {
		return fmt.Errorf("%w; use 'xlsx' or 'csv'", err)
	}
	v, err := global.parsedVariant()
	if err != nil {
		return err
	}
	userID, err := global.userID()
	if err != nil {
		return err
	}

	ctx, cancel := global.commandContext()
	defer cancel()

	be, err := global.openBackend(ctx, userID)
	if err != nil {
		return err
	}
	defer be.close()

	svc := service.NewExportService(be.invoices, be.customers, be.products, nil,
		service.NewReportOptions(be.cfg.Report, be.cfg.Redis), service.ArchiveOptions{}, time.Now, log)

	file, err := exportEntity(ctx, svc, entity, userID, v, format, opts)
	if err != nil {
		return err
	}

	path := opts.output
	if path == "" {
		path = filepath.Join(".", file.Filename)
	}
	if err := os.WriteFile(path, file.Content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	log.Info().Str("path", path).Int("rows", file.Rows).Msg("export written")
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", file.Rows, path)
	return nil
}

func exportEntity(ctx context.Context, svc service.ExportService, entity string, userID uuid.UUID, v domain.Variant, format domain.ExportFormat, opts *exportOptions) (*domain.ExportFile, error) {
	order := domain.SortOrder(opts.sortOrder)
	switch entity {
	case "customers":
		return svc.ExportCustomers(ctx, domain.CustomerFilter{
			UserID: userID, Variant: v, GlobalSearch: opts.search, SortBy: opts.sortBy, SortOrder: order,
		}, format)
	case "products":
		return svc.ExportProducts(ctx, domain.ProductFilter{
			UserID: userID, Variant: v, GlobalSearch: opts.search, SortBy: opts.sortBy, SortOrder: order,
		}, format)
	}

	f := domain.InvoiceFilter{
		UserID:       userID,
		Variant:      v,
		Month:        opts.month,
		GlobalSearch: opts.search,
		SortBy:       opts.sortBy,
		SortOrder:    order,
	}
	if opts.customer != "" {
		id, err := uuid.Parse(opts.customer)
		if err != nil {
			return nil, fmt.Errorf("invalid --customer: %w", err)
		}
		f.CustomerID = &id
	}
	var err error
	if f.DateFrom, err = parseDay("--from", opts.from); err != nil {
		return nil, err
	}
	if f.DateTo, err = parseDay("--to", opts.to); err != nil {
		return nil, err
	}
	return svc.ExportInvoices(ctx, f, format)
}

func parseDay(flag, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: must be YYYY-MM-DD", flag)
	}
	return &t, nil
}
