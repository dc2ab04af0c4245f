package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"salescore/internal/analytics"
)

const dateLayout = "2006-01-02"

func newMetricsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Derived metrics",
	}
	cmd.AddCommand(newMetricsClientCmd(app))
	cmd.AddCommand(newMetricsProductCmd(app))
	cmd.AddCommand(newMetricsEmployeeCmd(app))
	cmd.AddCommand(newMetricsSalesCmd(app))
	cmd.AddCommand(newMetricsDashboardCmd(app))
	return cmd
}

func newMetricsClientCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "client <client-id>",
		Short: "Client revenue and average check",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, func(ctx context.Context, s *session) (any, error) {
				revenue, err := s.svc.ClientRevenue(ctx, args[0])
				if err != nil {
					return nil, err
				}
				avg, err := s.svc.ClientAverageCheck(ctx, args[0])
				if err != nil {
					return nil, err
				}
				return map[string]any{"id": args[0], "revenue": revenue, "averageCheck": avg}, nil
			})
		},
	}
}

func newMetricsProductCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "product <product-id>",
		Short: "Available stock across all warehouses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, func(ctx context.Context, s *session) (any, error) {
				stock, err := s.svc.ProductStock(ctx, args[0])
				if err != nil {
					return nil, err
				}
				return map[string]any{"id": args[0], "stock": stock}, nil
			})
		},
	}
}

func newMetricsEmployeeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "employee <employee-id>",
		Short: "Employee efficiency in percent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, func(ctx context.Context, s *session) (any, error) {
				eff, err := s.svc.EmployeeEfficiency(ctx, args[0])
				if err != nil {
					return nil, err
				}
				return map[string]any{"id": args[0], "efficiency": eff}, nil
			})
		},
	}
}

func newMetricsSalesCmd(app *App) *cobra.Command {
	var period, from, to string

	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Order count and revenue per day, week or month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := analytics.ParsePeriod(period)
			if err != nil {
				return writeErr(cmd, err)
			}
			start, err := time.Parse(dateLayout, from)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("--from: %w", err))
			}
			end, err := time.Parse(dateLayout, to)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("--to: %w", err))
			}
			return run(cmd, app, func(ctx context.Context, s *session) (any, error) {
				return s.svc.SalesByPeriod(ctx, p, start, end.AddDate(0, 0, 1))
			})
		},
	}

	now := time.Now().UTC()
	cmd.Flags().StringVar(&period, "period", string(analytics.PeriodMonth), "Bucket width (day|week|month)")
	cmd.Flags().StringVar(&from, "from", now.AddDate(0, -6, 0).Format(dateLayout), "First day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", now.Format(dateLayout), "Last day, inclusive (YYYY-MM-DD)")
	return cmd
}

func newMetricsDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Headline figures: revenue, profit, overdue tasks, low stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, func(ctx context.Context, s *session) (any, error) {
				return s.svc.Dashboard(ctx)
			})
		},
	}
}
