package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/ams-store/internal/app"
	"github.com/beesaferoot/ams-store/internal/export"
	"github.com/beesaferoot/ams-store/internal/store"
)

func reportCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run stored-procedure reports",
	}

	simple := func(use, short string, run func(cmd *cobra.Command, a *app.App) (interface{}, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.with(cmd, func(a *app.App) error {
					v, err := run(cmd, a)
					if err != nil {
						return err
					}
					return printJSON(cmd, v)
				})
			},
		}
	}

	overdue := simple("overdue", "List overdue payments", func(cmd *cobra.Command, a *app.App) (interface{}, error) {
		return a.Reports.OverduePayments(cmd.Context())
	})
	pending := simple("pending-complaints", "List pending complaints", func(cmd *cobra.Command, a *app.App) (interface{}, error) {
		return a.Reports.PendingComplaints(cmd.Context())
	})
	occupancy := simple("occupancy", "Show occupancy statistics", func(cmd *cobra.Command, a *app.App) (interface{}, error) {
		return a.Reports.OccupancyStatistics(cmd.Context())
	})
	dashboard := simple("dashboard", "Show dashboard statistics", func(cmd *cobra.Command, a *app.App) (interface{}, error) {
		return a.Reports.DashboardStatistics(cmd.Context())
	})

	available := simple("available", "List available apartments", func(cmd *cobra.Command, a *app.App) (interface{}, error) {
		f := cmd.Flags()
		bedrooms, _ := f.GetInt("min-bedrooms")
		bathrooms, _ := f.GetInt("min-bathrooms")
		minRent, _ := f.GetFloat64("min-rent")
		maxRent, _ := f.GetFloat64("max-rent")
		return a.Reports.AvailableApartments(cmd.Context(), bedrooms, bathrooms, minRent, maxRent)
	})
	available.Flags().Int("min-bedrooms", 0, "Minimum number of bedrooms")
	available.Flags().Int("min-bathrooms", 0, "Minimum number of bathrooms")
	available.Flags().Float64("min-rent", 0, "Minimum monthly rent")
	available.Flags().Float64("max-rent", 1e9, "Maximum monthly rent")

	revenue := simple("revenue", "Show the revenue report for a month", func(cmd *cobra.Command, a *app.App) (interface{}, error) {
		year, month := yearMonth(cmd)
		return a.Reports.MonthlyRevenueReport(cmd.Context(), year, month)
	})
	addYearMonthFlags(revenue)

	resident := simple("resident", "Show the report for one resident", func(cmd *cobra.Command, a *app.App) (interface{}, error) {
		id, _ := cmd.Flags().GetUint("id")
		return a.Reports.ResidentReport(cmd.Context(), id)
	})
	resident.Flags().Uint("id", 0, "Resident user id")
	_ = resident.MarkFlagRequired("id")

	cmd.AddCommand(overdue, available, pending, revenue, occupancy, dashboard, resident, exportCmd(r))
	return cmd
}

func exportCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the operational reports to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			year, month := yearMonth(cmd)
			return r.with(cmd, func(a *app.App) error {
				ctx := cmd.Context()
				overdue, err := a.Reports.OverduePayments(ctx)
				if err != nil {
					return err
				}
				pending, err := a.Reports.PendingComplaints(ctx)
				if err != nil {
					return err
				}
				revenue, err := a.Reports.MonthlyRevenueReport(ctx, year, month)
				if err != nil {
					return err
				}
				occupancy, err := a.Reports.OccupancyStatistics(ctx)
				if err != nil {
					return err
				}
				sheets := []export.Sheet{
					{Name: "Overdue Payments", Rows: overdue},
					{Name: "Pending Complaints", Rows: pending},
					{Name: fmt.Sprintf("Revenue %d-%02d", year, month), Rows: revenue},
					{Name: "Occupancy", Rows: []store.Row{occupancy}},
				}
				if out == "-" {
					return export.Write(cmd.OutOrStdout(), sheets...)
				}
				if err := export.Save(out, sheets...); err != nil {
					return err
				}
				return printJSON(cmd, map[string]string{"file": out})
			})
		},
	}
	cmd.Flags().String("out", "ams-report.xlsx", "Output workbook path, or - for stdout")
	addYearMonthFlags(cmd)
	return cmd
}

func addYearMonthFlags(cmd *cobra.Command) {
	now := time.Now()
	cmd.Flags().Int("year", now.Year(), "Report year")
	cmd.Flags().Int("month", int(now.Month()), "Report month (1-12)")
}

func yearMonth(cmd *cobra.Command) (int, int) {
	year, _ := cmd.Flags().GetInt("year")
	month, _ := cmd.Flags().GetInt("month")
	return year, month
}
