// Package metrics computes derived values (order totals, profit, revenue,
// stock) from a store snapshot. Nothing here is cached; every call reads the
// snapshot it is given.
package metrics

import "salescore/pkg/domain"

// Source is the read surface the metrics need. domain.TransactionView
// satisfies it.
type Source interface {
	FindProduct(id string) (domain.Product, bool)
	ListOrders() []domain.Order
	ListWarehouses() []domain.Warehouse
	ListPayments() []domain.Payment
}

var _ Source = domain.TransactionView(nil)

// OrderTotal returns the discounted item sum plus delivery cost. Discounts
// outside [0,100] are used as given.
func OrderTotal(order domain.Order) float64 {
	total := order.DeliveryCost
	for _, item := range order.Items {
		total += item.DiscountedPrice() * item.Quantity
	}
	return total
}

// OrderProfit returns the margin over purchase price minus delivery cost.
// Items whose product no longer exists contribute nothing.
func OrderProfit(src Source, order domain.Order) float64 {
	profit := -order.DeliveryCost
	for _, item := range order.Items {
		product, ok := src.FindProduct(item.ProductID)
		if !ok {
			continue
		}
		profit += (item.DiscountedPrice() - product.PurchasePrice) * item.Quantity
	}
	return profit
}

func countedOrders(src Source, clientID string) []domain.Order {
	var out []domain.Order
	for _, order := range src.ListOrders() {
		if order.ClientID == clientID && order.Status.Counted() {
			out = append(out, order)
		}
	}
	return out
}

// ClientRevenue sums OrderTotal over the client's orders that are neither
// cancelled nor returned.
func ClientRevenue(src Source, clientID string) float64 {
	var revenue float64
	for _, order := range countedOrders(src, clientID) {
		revenue += OrderTotal(order)
	}
	return revenue
}

// ClientAverageCheck is ClientRevenue divided by the counted order count, or
// 0 when there are none.
func ClientAverageCheck(src Source, clientID string) float64 {
	orders := countedOrders(src, clientID)
	if len(orders) == 0 {
		return 0
	}
	var revenue float64
	for _, order := range orders {
		revenue += OrderTotal(order)
	}
	return revenue / float64(len(orders))
}

// ProductStock sums available quantity (quantity - reserved) across all warehouses.
func ProductStock(src Source, productID string) float64 {
	var stock float64
	for _, warehouse := range src.ListWarehouses() {
		for _, line := range warehouse.Stock {
			if line.ProductID == productID {
				stock += line.Available()
			}
		}
	}
	return stock
}

// LowStockLine is a stock line whose availability dropped below its minimum.
type LowStockLine struct {
	WarehouseID string
	ProductID   string
	Available   float64
	MinLevel    float64
}

// LowStock lists stock lines with available < minLevel, in warehouse order.
func LowStock(src Source) []LowStockLine {
	var out []LowStockLine
	for _, warehouse := range src.ListWarehouses() {
		for _, line := range warehouse.Stock {
			if line.Available() < line.MinLevel {
				out = append(out, LowStockLine{
					WarehouseID: warehouse.ID,
					ProductID:   line.ProductID,
					Available:   line.Available(),
					MinLevel:    line.MinLevel,
				})
			}
		}
	}
	return out
}

// OrderPaid returns income minus refunds recorded against the order. Fees
// are ignored.
func OrderPaid(src Source, orderID string) float64 {
	var paid float64
	for _, payment := range src.ListPayments() {
		if payment.OrderID != orderID {
			continue
		}
		switch payment.Type {
		case domain.PaymentIncome:
			paid += payment.Amount
		case domain.PaymentRefund:
			paid -= payment.Amount
		}
	}
	return paid
}

// EmployeeEfficiency averages the sales and task completion ratios, in
// percent. Ratios without a target are left out; with no targets at all the
// result is 0.
func EmployeeEfficiency(e domain.Employee) float64 {
	var sum float64
	var parts int
	if e.SalesTarget > 0 {
		sum += e.SalesActual / e.SalesTarget * 100
		parts++
	}
	if e.TasksTarget > 0 {
		sum += float64(e.TasksCompleted) / float64(e.TasksTarget) * 100
		parts++
	}
	if parts == 0 {
		return 0
	}
	return sum / float64(parts)
}
