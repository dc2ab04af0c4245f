package core

import (
	"context"
	"time"

	"salescore/internal/analytics"
	"salescore/internal/metrics"
)

func list[T any](ctx context.Context, s *Service, read func(TransactionView) []T) ([]T, error) {
	var out []T
	err := s.store.View(ctx, func(v TransactionView) error {
		out = read(v)
		return nil
	})
	return out, err
}

func get[T any](ctx context.Context, s *Service, entity EntityType, id string, find func(TransactionView, string) (T, bool)) (T, error) {
	var (
		out   T
		found bool
	)
	if err := s.store.View(ctx, func(v TransactionView) error {
		out, found = find(v, id)
		return nil
	}); err != nil {
		return out, err
	}
	if !found {
		return out, ErrNotFound{Entity: entity, ID: id}
	}
	return out, nil
}

// ListClients returns all clients in insertion order.
func (s *Service) ListClients(ctx context.Context) ([]Client, error) {
	return list(ctx, s, TransactionView.ListClients)
}

// GetClient returns the client with id or ErrNotFound.
func (s *Service) GetClient(ctx context.Context, id string) (Client, error) {
	return get(ctx, s, EntityClient, id, TransactionView.FindClient)
}

// ListLeads returns all leads in insertion order.
func (s *Service) ListLeads(ctx context.Context) ([]Lead, error) {
	return list(ctx, s, TransactionView.ListLeads)
}

// GetLead returns the lead with id or ErrNotFound.
func (s *Service) GetLead(ctx context.Context, id string) (Lead, error) {
	return get(ctx, s, EntityLead, id, TransactionView.FindLead)
}

// ListTasks returns all tasks in insertion order.
func (s *Service) ListTasks(ctx context.Context) ([]Task, error) {
	return list(ctx, s, TransactionView.ListTasks)
}

// GetTask returns the task with id or ErrNotFound.
func (s *Service) GetTask(ctx context.Context, id string) (Task, error) {
	return get(ctx, s, EntityTask, id, TransactionView.FindTask)
}

// ListProducts returns all products in insertion order.
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	return list(ctx, s, TransactionView.ListProducts)
}

// GetProduct returns the product with id or ErrNotFound.
func (s *Service) GetProduct(ctx context.Context, id string) (Product, error) {
	return get(ctx, s, EntityProduct, id, TransactionView.FindProduct)
}

// ListOrders returns all orders in insertion order.
func (s *Service) ListOrders(ctx context.Context) ([]Order, error) {
	return list(ctx, s, TransactionView.ListOrders)
}

// GetOrder returns the order with id or ErrNotFound.
func (s *Service) GetOrder(ctx context.Context, id string) (Order, error) {
	return get(ctx, s, EntityOrder, id, TransactionView.FindOrder)
}

// ListWarehouses returns all warehouses in insertion order.
func (s *Service) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	return list(ctx, s, TransactionView.ListWarehouses)
}

// GetWarehouse returns the warehouse with id or ErrNotFound.
func (s *Service) GetWarehouse(ctx context.Context, id string) (Warehouse, error) {
	return get(ctx, s, EntityWarehouse, id, TransactionView.FindWarehouse)
}

// ListEmployees returns all employees in insertion order.
func (s *Service) ListEmployees(ctx context.Context) ([]Employee, error) {
	return list(ctx, s, TransactionView.ListEmployees)
}

// GetEmployee returns the employee with id or ErrNotFound.
func (s *Service) GetEmployee(ctx context.Context, id string) (Employee, error) {
	return get(ctx, s, EntityEmployee, id, TransactionView.FindEmployee)
}

// ListReturns returns all returns in insertion order.
func (s *Service) ListReturns(ctx context.Context) ([]Return, error) {
	return list(ctx, s, TransactionView.ListReturns)
}

// GetReturn returns the return with id or ErrNotFound.
func (s *Service) GetReturn(ctx context.Context, id string) (Return, error) {
	return get(ctx, s, EntityReturn, id, TransactionView.FindReturn)
}

// ListPayments returns all payments in insertion order.
func (s *Service) ListPayments(ctx context.Context) ([]Payment, error) {
	return list(ctx, s, TransactionView.ListPayments)
}

// GetPayment returns the payment with id or ErrNotFound.
func (s *Service) GetPayment(ctx context.Context, id string) (Payment, error) {
	return get(ctx, s, EntityPayment, id, TransactionView.FindPayment)
}

func (s *Service) compute(ctx context.Context, fn func(TransactionView) error) error {
	return s.store.View(ctx, fn)
}

// OrderTotal returns the order's discounted item sum plus delivery.
func (s *Service) OrderTotal(ctx context.Context, orderID string) (float64, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return 0, err
	}
	return metrics.OrderTotal(order), nil
}

// OrderProfit returns the order's margin over purchase price minus delivery.
func (s *Service) OrderProfit(ctx context.Context, orderID string) (float64, error) {
	var (
		profit float64
		found  bool
	)
	err := s.compute(ctx, func(v TransactionView) error {
		var order Order
		if order, found = v.FindOrder(orderID); found {
			profit = metrics.OrderProfit(v, order)
		}
		return nil
	})
	if err == nil && !found {
		err = ErrNotFound{Entity: EntityOrder, ID: orderID}
	}
	return profit, err
}

// OrderPaid returns income minus refunds recorded for the order.
func (s *Service) OrderPaid(ctx context.Context, orderID string) (float64, error) {
	var paid float64
	err := s.compute(ctx, func(v TransactionView) error {
		paid = metrics.OrderPaid(v, orderID)
		return nil
	})
	return paid, err
}

// ClientRevenue sums the totals of the client's counted orders. A client
// without orders, or an unknown id, yields 0.
func (s *Service) ClientRevenue(ctx context.Context, clientID string) (float64, error) {
	var revenue float64
	err := s.compute(ctx, func(v TransactionView) error {
		revenue = metrics.ClientRevenue(v, clientID)
		return nil
	})
	return revenue, err
}

// ClientAverageCheck returns revenue per counted order, 0 when there are none.
func (s *Service) ClientAverageCheck(ctx context.Context, clientID string) (float64, error) {
	var avg float64
	err := s.compute(ctx, func(v TransactionView) error {
		avg = metrics.ClientAverageCheck(v, clientID)
		return nil
	})
	return avg, err
}

// ProductStock returns the available quantity across all warehouses.
func (s *Service) ProductStock(ctx context.Context, productID string) (float64, error) {
	var stock float64
	err := s.compute(ctx, func(v TransactionView) error {
		stock = metrics.ProductStock(v, productID)
		return nil
	})
	return stock, err
}

// LowStock lists stock lines below their minimum level.
func (s *Service) LowStock(ctx context.Context) ([]metrics.LowStockLine, error) {
	var lines []metrics.LowStockLine
	err := s.compute(ctx, func(v TransactionView) error {
		lines = metrics.LowStock(v)
		return nil
	})
	return lines, err
}

// EmployeeEfficiency returns the employee's efficiency percentage.
func (s *Service) EmployeeEfficiency(ctx context.Context, employeeID string) (float64, error) {
	emp, err := s.GetEmployee(ctx, employeeID)
	if err != nil {
		return 0, err
	}
	return metrics.EmployeeEfficiency(emp), nil
}

// FindClients filters clients relative to the service clock.
func (s *Service) FindClients(ctx context.Context, f analytics.ClientFilter) ([]Client, error) {
	clients, err := s.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.FilterClients(clients, f, s.now()), nil
}

// FindTasks filters tasks by effective status relative to the service clock.
func (s *Service) FindTasks(ctx context.Context, f analytics.TaskFilter) ([]Task, error) {
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.FilterTasks(tasks, f, s.now()), nil
}

// SalesByPeriod buckets counted order totals over [from, to).
func (s *Service) SalesByPeriod(ctx context.Context, period analytics.Period, from, to time.Time) ([]analytics.Bucket, error) {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.BucketOrders(orders, period, from, to, metrics.OrderTotal), nil
}

// Dashboard returns the headline figures as of the service clock.
func (s *Service) Dashboard(ctx context.Context) (analytics.Summary, error) {
	var summary analytics.Summary
	err := s.compute(ctx, func(v TransactionView) error {
		summary = analytics.DashboardSummary(v, s.now())
		return nil
	})
	return summary, err
}
