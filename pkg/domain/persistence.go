package domain

import (
	"context"
	"time"
)

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope. Update and delete calls on unknown ids
// report found=false and record no change.
type Transaction interface {
	Snapshot() TransactionView

	CreateClient(Client) (Client, error)
	UpdateClient(id string, mutator func(*Client) error) (Client, bool, error)
	DeleteClient(id string) bool
	CreateLead(Lead) (Lead, error)
	UpdateLead(id string, mutator func(*Lead) error) (Lead, bool, error)
	DeleteLead(id string) bool
	CreateTask(Task) (Task, error)
	UpdateTask(id string, mutator func(*Task) error) (Task, bool, error)
	DeleteTask(id string) bool
	CreateProduct(Product) (Product, error)
	UpdateProduct(id string, mutator func(*Product) error) (Product, bool, error)
	DeleteProduct(id string) bool
	CreateOrder(Order) (Order, error)
	UpdateOrder(id string, mutator func(*Order) error) (Order, bool, error)
	DeleteOrder(id string) bool
	CreateWarehouse(Warehouse) (Warehouse, error)
	UpdateWarehouse(id string, mutator func(*Warehouse) error) (Warehouse, bool, error)
	DeleteWarehouse(id string) bool
	CreateEmployee(Employee) (Employee, error)
	UpdateEmployee(id string, mutator func(*Employee) error) (Employee, bool, error)
	DeleteEmployee(id string) bool
	CreateReturn(Return) (Return, error)
	UpdateReturn(id string, mutator func(*Return) error) (Return, bool, error)
	DeleteReturn(id string) bool
	CreatePayment(Payment) (Payment, error)
	UpdatePayment(id string, mutator func(*Payment) error) (Payment, bool, error)
	DeletePayment(id string) bool

	// Patch shallow-merges fields onto the record identified by entity and id.
	Patch(entity EntityType, id string, fields map[string]any) (bool, error)
	UpdateOrderStatus(id string, status OrderStatus, note string) (Order, bool, error)
	ConvertLeadToClient(leadID string) (Client, bool, error)
	TransferStock(fromWarehouseID, toWarehouseID, productID string, qty float64) (bool, error)
}

// TransactionView provides read-only access to snapshot data for rules and metrics.
type TransactionView interface {
	ListClients() []Client
	FindClient(id string) (Client, bool)
	ListLeads() []Lead
	FindLead(id string) (Lead, bool)
	ListTasks() []Task
	FindTask(id string) (Task, bool)
	ListProducts() []Product
	FindProduct(id string) (Product, bool)
	ListOrders() []Order
	FindOrder(id string) (Order, bool)
	ListWarehouses() []Warehouse
	FindWarehouse(id string) (Warehouse, bool)
	ListEmployees() []Employee
	FindEmployee(id string) (Employee, bool)
	ListReturns() []Return
	FindReturn(id string) (Return, bool)
	ListPayments() []Payment
	FindPayment(id string) (Payment, bool)
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	NowFunc() func() time.Time
}
