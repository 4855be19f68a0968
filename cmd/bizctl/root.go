package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"businessathi/internal/cache"
	"businessathi/internal/config"
	"businessathi/internal/domain"
	"businessathi/internal/port"
	"businessathi/internal/repository/memory"
	"businessathi/internal/repository/postgres"
)

var version = "1.0.0"

// demoUserID owns the seeded data set when --demo is used without --user.
var demoUserID = uuid.MustParse("00000000-0000-4000-8000-000000000001")

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	demo    bool
	user    string
	variant string
	timeout time.Duration
}

// backend bundles the repositories a command reads from.
type backend struct {
	invoices  port.InvoiceRepository
	customers port.CustomerRepository
	products  port.ProductRepository
	cfg       *config.Config
	close     func()
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "bizctl",
		Short: "Offline reporting tools for GST and Local invoices",
		Long: `bizctl runs the same filtering, statistics and export logic as the API
against the configured database, without going through HTTP.

Use --demo to run against an in-memory data set instead of PostgreSQL.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVar(&opts.demo, "demo", false, "Use a seeded in-memory store instead of PostgreSQL")
	root.PersistentFlags().StringVarP(&opts.user, "user", "u", "", "Owning user ID (defaults to the demo user with --demo)")
	root.PersistentFlags().StringVarP(&opts.variant, "type", "t", "gst", "Invoice type: gst or local")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Overall command timeout")

	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newStatsCmd(opts))
	root.AddCommand(newTokenCmd(opts))
	return root
}

// commandContext returns a context bounded by --timeout and canceled on
// interrupt.
func (o *globalOptions) commandContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (o *globalOptions) userID() (uuid.UUID, error) {
	if o.user == "" {
		if o.demo {
			return demoUserID, nil
		}
		return uuid.Nil, domain.ErrMissingUserID
	}
	id, err := uuid.Parse(o.user)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --user: %w", err)
	}
	return id, nil
}

func (o *globalOptions) parsedVariant() (domain.Variant, error) {
	return domain.ParseVariant(o.variant)
}

// openBackend connects to PostgreSQL, or seeds an in-memory store for
// --demo.
func (o *globalOptions) openBackend(ctx context.Context, userID uuid.UUID) (*backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if o.demo {
		store := memory.NewStore()
		memory.SeedDemo(store, userID, time.Now())
		return &backend{invoices: store, customers: store, products: store, cfg: cfg, close: func() {}}, nil
	}

	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &backend{
		invoices:  postgres.NewInvoiceRepo(db),
		customers: postgres.NewCustomerRepo(db),
		products:  postgres.NewProductRepo(db),
		cfg:       cfg,
		close:     func() { db.Close() },
	}, nil
}

// lookupCache is the cache used by CLI commands. Lookups are not repeated
// within one invocation.
func lookupCache() port.LookupCache {
	return cache.Noop{}
}
