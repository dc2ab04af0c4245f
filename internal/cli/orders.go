package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"salescore/internal/core"
	"salescore/pkg/domain"
)

var orderStatuses = []domain.OrderStatus{
	domain.OrderNew, domain.OrderConfirmed, domain.OrderPicking, domain.OrderShipped,
	domain.OrderDelivered, domain.OrderReturned, domain.OrderCancelled,
}

func parseOrderStatus(s string) (domain.OrderStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, status := range orderStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// parseItem reads product:qty[:price[:discount]].
func parseItem(raw string) (domain.OrderItem, bool, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) < 2 || len(parts) > 4 || parts[0] == "" {
		return domain.OrderItem{}, false, fmt.Errorf("item %q: want product:qty[:price[:discount]]", raw)
	}
	nums := make([]float64, len(parts)-1)
	for i, p := range parts[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.OrderItem{}, false, fmt.Errorf("item %q: %w", raw, err)
		}
		nums[i] = v
	}
	item := domain.OrderItem{ProductID: parts[0], Quantity: nums[0]}
	hasPrice := len(nums) > 1
	if hasPrice {
		item.Price = nums[1]
	}
	if len(nums) > 2 {
		item.Discount = nums[2]
	}
	return item, hasPrice, nil
}

func newOrdersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Order commands",
	}
	cmd.AddCommand(newOrdersAddCmd(app))
	cmd.AddCommand(newOrdersStatusCmd(app))
	cmd.AddCommand(newOrdersTotalCmd(app))
	return cmd
}

func newOrdersAddCmd(app *App) *cobra.Command {
	var o domain.Order
	var items []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an order",
		Example: strings.TrimSpace(`
  salesctl orders add --client c1 --item p1:10 --item p2:5:120:10 --delivery 500
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, func(ctx context.Context, s *session) (any, error) {
				for _, raw := range items {
					item, hasPrice, err := parseItem(raw)
					if err != nil {
						return nil, err
					}
					if !hasPrice {
						if p, err := s.svc.GetProduct(ctx, item.ProductID); err == nil {
							item.Price = p.Price
						}
					}
					o.Items = append(o.Items, item)
				}
				created, res, err := s.svc.AddOrder(ctx, o)
				if err != nil {
					return nil, err
				}
				total, err := s.svc.OrderTotal(ctx, created.ID)
				if err != nil {
					return nil, err
				}
				out := withViolations(created, res)
				out["total"] = total
				return out, nil
			})
		},
	}

	cmd.Flags().StringVar(&o.ClientID, "client", "", "Client id")
	cmd.Flags().StringVar(&o.WarehouseID, "warehouse", "", "Shipping warehouse id")
	cmd.Flags().StringArrayVar(&items, "item", nil, "Order line product:qty[:price[:discount]] (repeatable; price defaults to the catalogue price)")
	cmd.Flags().Float64Var(&o.DeliveryCost, "delivery", 0, "Delivery cost")
	cmd.Flags().StringVar(&o.DeliveryAddress, "address", "", "Delivery address")
	cmd.Flags().StringVar(&o.Note, "note", "", "Note")
	_ = cmd.MarkFlagRequired("client")
	return cmd
}

func newOrdersStatusCmd(app *App) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "status <order-id> <status>",
		Short: "Set an order status and append it to the history",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := parseOrderStatus(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return run(cmd, app, func(ctx context.Context, s *session) (any, error) {
				updated, res, err := s.svc.UpdateOrderStatus(ctx, args[0], status, note)
				if err != nil {
					return nil, err
				}
				if updated.ID == "" {
					return nil, core.ErrNotFound{Entity: domain.EntityOrder, ID: args[0]}
				}
				return withViolations(updated, res), nil
			})
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "History note")
	return cmd
}

func newOrdersTotalCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "total <order-id>",
		Short: "Show order total, profit and paid amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, func(ctx context.Context, s *session) (any, error) {
				total, err := s.svc.OrderTotal(ctx, args[0])
				if err != nil {
					return nil, err
				}
				profit, err := s.svc.OrderProfit(ctx, args[0])
				if err != nil {
					return nil, err
				}
				paid, err := s.svc.OrderPaid(ctx, args[0])
				if err != nil {
					return nil, err
				}
				return map[string]any{"id": args[0], "total": total, "profit": profit, "paid": paid}, nil
			})
		},
	}
}
