package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"businessathi/internal/logger"
	"businessathi/internal/service"
)

func newStatsCmd(global *globalOptions) *cobra.Command {
	var lookups bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print invoice statistics as JSON",
		Long: `Print the current month total, all-time totals and the current-year
monthly breakdown for one user and invoice type.

With --lookups the distinct invoice months and customer options are printed
as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.WithComponent("stats")

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

			stats, err := service.NewStatsService(be.invoices, time.Now, log).GetInvoiceStatistics(ctx, userID, v)
			if err != nil {
				return err
			}
			out := map[string]interface{}{"statistics": stats}

			if lookups {
				reports := service.NewReportService(be.invoices, be.customers, be.products, lookupCache(),
					service.NewReportOptions(be.cfg.Report, be.cfg.Redis), log)
				months, err := reports.GetUniqueMonths(ctx, userID, v)
				if err != nil {
					return err
				}
				customers, err := reports.GetUniqueCustomers(ctx, userID, v)
				if err != nil {
					return err
				}
				out["months"] = months
				out["customers"] = customers
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("encoding statistics: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&lookups, "lookups", false, "Include distinct months and customer options")
	return cmd
}
