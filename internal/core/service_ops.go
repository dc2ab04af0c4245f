package core

import (
	"context"

	"salescore/pkg/domain"
)

type record[T any] interface {
	*T
	BaseRef() *domain.Base
}

func add[T any, P record[T]](ctx context.Context, s *Service, op string, create func(Transaction, T) (T, error), rec T) (T, Result, error) {
	var created T
	res, err := s.run(ctx, op, func(tx Transaction) (string, error) {
		var err error
		created, err = create(tx, rec)
		if err != nil {
			return "", err
		}
		return P(&created).BaseRef().ID, nil
	})
	return created, res, err
}

func update[T any, P record[T]](ctx context.Context, s *Service, op string, mutate func(Transaction, string, func(*T) error) (T, bool, error), id string, mutator func(*T) error) (T, Result, error) {
	var updated T
	res, err := s.run(ctx, op, func(tx Transaction) (string, error) {
		rec, found, err := mutate(tx, id, mutator)
		if !found {
			return "", nil
		}
		if err != nil {
			return id, err
		}
		updated = rec
		return id, nil
	})
	return updated, res, err
}

func remove(ctx context.Context, s *Service, op string, del func(Transaction, string) bool, id string) (bool, error) {
	var found bool
	_, err := s.run(ctx, op, func(tx Transaction) (string, error) {
		if found = del(tx, id); !found {
			return "", nil
		}
		return id, nil
	})
	return found, err
}

// AddClient stores a new client and returns it with its assigned id.
func (s *Service) AddClient(ctx context.Context, c Client) (Client, Result, error) {
	return add(ctx, s, "add_client", Transaction.CreateClient, c)
}

// UpdateClient applies mutator to the client with id. An unknown id is a no-op
// and returns the zero Client.
func (s *Service) UpdateClient(ctx context.Context, id string, mutator func(*Client) error) (Client, Result, error) {
	return update(ctx, s, "update_client", Transaction.UpdateClient, id, mutator)
}

// DeleteClient removes the client with id and reports whether it existed.
func (s *Service) DeleteClient(ctx context.Context, id string) (bool, error) {
	return remove(ctx, s, "delete_client", Transaction.DeleteClient, id)
}

// AddLead stores a new lead and returns it with its assigned id.
func (s *Service) AddLead(ctx context.Context, l Lead) (Lead, Result, error) {
	return add(ctx, s, "add_lead", Transaction.CreateLead, l)
}

// UpdateLead applies mutator to the lead with id. An unknown id is a no-op
// and returns the zero Lead.
func (s *Service) UpdateLead(ctx context.Context, id string, mutator func(*Lead) error) (Lead, Result, error) {
	return update(ctx, s, "update_lead", Transaction.UpdateLead, id, mutator)
}

// DeleteLead removes the lead with id and reports whether it existed.
func (s *Service) DeleteLead(ctx context.Context, id string) (bool, error) {
	return remove(ctx, s, "delete_lead", Transaction.DeleteLead, id)
}

// AddTask stores a new task and returns it with its assigned id.
func (s *Service) AddTask(ctx context.Context, t Task) (Task, Result, error) {
	return add(ctx, s, "add_task", Transaction.CreateTask, t)
}

// UpdateTask applies mutator to the task with id. An unknown id is a no-op
// and returns the zero Task.
func (s *Service) UpdateTask(ctx context.Context, id string, mutator func(*Task) error) (Task, Result, error) {
	return update(ctx, s, "update_task", Transaction.UpdateTask, id, mutator)
}

// DeleteTask removes the task with id and reports whether it existed.
func (s *Service) DeleteTask(ctx context.Context, id string) (bool, error) {
	return remove(ctx, s, "delete_task", Transaction.DeleteTask, id)
}

// AddProduct stores a new product and returns it with its assigned id.
func (s *Service) AddProduct(ctx context.Context, p Product) (Product, Result, error) {
	return add(ctx, s, "add_product", Transaction.CreateProduct, p)
}

// UpdateProduct applies mutator to the product with id. An unknown id is a no-op
// and returns the zero Product.
func (s *Service) UpdateProduct(ctx context.Context, id string, mutator func(*Product) error) (Product, Result, error) {
	return update(ctx, s, "update_product", Transaction.UpdateProduct, id, mutator)
}

// DeleteProduct removes the product with id and reports whether it existed.
func (s *Service) DeleteProduct(ctx context.Context, id string) (bool, error) {
	return remove(ctx, s, "delete_product", Transaction.DeleteProduct, id)
}

// AddOrder stores a new order and returns it with its assigned id.
func (s *Service) AddOrder(ctx context.Context, o Order) (Order, Result, error) {
	return add(ctx, s, "add_order", Transaction.CreateOrder, o)
}

// UpdateOrder applies mutator to the order with id. An unknown id is a no-op
// and returns the zero Order.
func (s *Service) UpdateOrder(ctx context.Context, id string, mutator func(*Order) error) (Order, Result, error) {
	return update(ctx, s, "update_order", Transaction.UpdateOrder, id, mutator)
}

// DeleteOrder removes the order with id and reports whether it existed.
func (s *Service) DeleteOrder(ctx context.Context, id string) (bool, error) {
	return remove(ctx, s, "delete_order", Transaction.DeleteOrder, id)
}

// AddWarehouse stores a new warehouse and returns it with its assigned id.
func (s *Service) AddWarehouse(ctx context.Context, w Warehouse) (Warehouse, Result, error) {
	return add(ctx, s, "add_warehouse", Transaction.CreateWarehouse, w)
}

// UpdateWarehouse applies mutator to the warehouse with id. An unknown id is a no-op
// and returns the zero Warehouse.
func (s *Service) UpdateWarehouse(ctx context.Context, id string, mutator func(*Warehouse) error) (Warehouse, Result, error) {
	return update(ctx, s, "update_warehouse", Transaction.UpdateWarehouse, id, mutator)
}

// DeleteWarehouse removes the warehouse with id and reports whether it existed.
func (s *Service) DeleteWarehouse(ctx context.Context, id string) (bool, error) {
	return remove(ctx, s, "delete_warehouse", Transaction.DeleteWarehouse, id)
}

// AddEmployee stores a new employee and returns it with its assigned id.
func (s *Service) AddEmployee(ctx context.Context, e Employee) (Employee, Result, error) {
	return add(ctx, s, "add_employee", Transaction.CreateEmployee, e)
}

// UpdateEmployee applies mutator to the employee with id. An unknown id is a no-op
// and returns the zero Employee.
func (s *Service) UpdateEmployee(ctx context.Context, id string, mutator func(*Employee) error) (Employee, Result, error) {
	return update(ctx, s, "update_employee", Transaction.UpdateEmployee, id, mutator)
}

// DeleteEmployee removes the employee with id and reports whether it existed.
func (s *Service) DeleteEmployee(ctx context.Context, id string) (bool, error) {
	return remove(ctx, s, "delete_employee", Transaction.DeleteEmployee, id)
}

// AddReturn stores a new return and returns it with its assigned id.
func (s *Service) AddReturn(ctx context.Context, r Return) (Return, Result, error) {
	return add(ctx, s, "add_return", Transaction.CreateReturn, r)
}

// UpdateReturn applies mutator to the return with id. An unknown id is a no-op
// and returns the zero Return.
func (s *Service) UpdateReturn(ctx context.Context, id string, mutator func(*Return) error) (Return, Result, error) {
	return update(ctx, s, "update_return", Transaction.UpdateReturn, id, mutator)
}

// DeleteReturn removes the return with id and reports whether it existed.
func (s *Service) DeleteReturn(ctx context.Context, id string) (bool, error) {
	return remove(ctx, s, "delete_return", Transaction.DeleteReturn, id)
}

// AddPayment stores a new payment and returns it with its assigned id.
func (s *Service) AddPayment(ctx context.Context, p Payment) (Payment, Result, error) {
	return add(ctx, s, "add_payment", Transaction.CreatePayment, p)
}

// UpdatePayment applies mutator to the payment with id. An unknown id is a no-op
// and returns the zero Payment.
func (s *Service) UpdatePayment(ctx context.Context, id string, mutator func(*Payment) error) (Payment, Result, error) {
	return update(ctx, s, "update_payment", Transaction.UpdatePayment, id, mutator)
}

// DeletePayment removes the payment with id and reports whether it existed.
func (s *Service) DeletePayment(ctx context.Context, id string) (bool, error) {
	return remove(ctx, s, "delete_payment", Transaction.DeletePayment, id)
}

// Patch shallow-merges fields, keyed by JSON field name, onto the record of
// the given entity type. Nested objects and arrays are replaced, not merged.
func (s *Service) Patch(ctx context.Context, entity EntityType, id string, fields map[string]any) (bool, Result, error) {
	var found bool
	res, err := s.run(ctx, "patch_"+string(entity), func(tx Transaction) (string, error) {
		var err error
		found, err = tx.Patch(entity, id, fields)
		if !found {
			return "", err
		}
		return id, err
	})
	return found, res, err
}

// UpdateOrderStatus sets the order status and appends one history entry.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status OrderStatus, note string) (Order, Result, error) {
	var updated Order
	res, err := s.run(ctx, "update_order_status", func(tx Transaction) (string, error) {
		order, found, err := tx.UpdateOrderStatus(id, status, note)
		if !found || err != nil {
			return "", err
		}
		updated = order
		return id, nil
	})
	return updated, res, err
}

// ConvertLeadToClient creates a client from the lead and marks the lead won.
// An unknown lead is a no-op and returns the zero Client.
func (s *Service) ConvertLeadToClient(ctx context.Context, leadID string) (Client, Result, error) {
	var created Client
	res, err := s.run(ctx, "convert_lead", func(tx Transaction) (string, error) {
		client, found, err := tx.ConvertLeadToClient(leadID)
		if !found || err != nil {
			return "", err
		}
		created = client
		return client.ID, nil
	})
	return created, res, err
}

// TransferStock moves qty of a product between two warehouses in a single
// commit. It reports false when nothing moved.
func (s *Service) TransferStock(ctx context.Context, fromWarehouseID, toWarehouseID, productID string, qty float64) (bool, Result, error) {
	var moved bool
	res, err := s.run(ctx, "transfer_stock", func(tx Transaction) (string, error) {
		var err error
		moved, err = tx.TransferStock(fromWarehouseID, toWarehouseID, productID, qty)
		if !moved {
			return "", err
		}
		return fromWarehouseID, err
	})
	return moved, res, err
}
