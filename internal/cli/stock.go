package cli

import (
	"context"

	"github.com/spf13/cobra"
)

func newStockCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Warehouse stock commands",
	}
	cmd.AddCommand(newStockTransferCmd(app))
	cmd.AddCommand(newStockShowCmd(app))
	return cmd
}

func newStockTransferCmd(app *App) *cobra.Command {
	var from, to, product string
	var qty float64

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move stock between warehouses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, func(ctx context.Context, s *session) (any, error) {
				moved, res, err := s.svc.TransferStock(ctx, from, to, product, qty)
				if err != nil {
					return nil, err
				}
				out := map[string]any{"moved": moved, "from": from, "to": to, "product": product, "qty": qty}
				if len(res.Violations) > 0 {
					out["violations"] = res.Violations
				}
				return out, nil
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Source warehouse id")
	cmd.Flags().StringVar(&to, "to", "", "Destination warehouse id")
	cmd.Flags().StringVar(&product, "product", "", "Product id")
	cmd.Flags().Float64Var(&qty, "qty", 0, "Quantity to move")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.MarkFlagRequired("qty")
	return cmd
}

func newStockShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [product-id]",
		Short: "Show available stock for a product, or all low-stock lines",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, func(ctx context.Context, s *session) (any, error) {
				if len(args) == 0 {
					return s.svc.LowStock(ctx)
				}
				available, err := s.svc.ProductStock(ctx, args[0])
				if err != nil {
					return nil, err
				}
				return map[string]any{"product": args[0], "available": available}, nil
			})
		},
	}
}
