// Package memory provides the in-memory implementation of the record store.
// It is the authoritative state for every durable backend, which snapshot it
// after each committed transaction.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"salescore/internal/ids"
	"salescore/pkg/domain"
)

// Compile-time contract assertions ensuring memory.Store adheres to the domain persistence interfaces.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Client aliases domain.Client for in-memory persistence operations.
	Client = domain.Client
	// Lead aliases domain.Lead.
	Lead = domain.Lead
	// Task aliases domain.Task.
	Task = domain.Task
	// Product aliases domain.Product.
	Product = domain.Product
	// Order aliases domain.Order.
	Order = domain.Order
	// Warehouse aliases domain.Warehouse.
	Warehouse = domain.Warehouse
	// Employee aliases domain.Employee.
	Employee = domain.Employee
	// Return aliases domain.Return.
	Return = domain.Return
	// Payment aliases domain.Payment.
	Payment = domain.Payment
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the random identifier source.
func WithIDGenerator(gen ids.Generator) Option {
	return func(s *Store) {
		if gen != nil {
			s.ids = gen
		}
	}
}

// WithNowFunc overrides the clock used to stamp createdAt and history entries.
func WithNowFunc(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.nowFn = now
		}
	}
}

// Store provides an in-memory transactional store for the CRM domain.
type Store struct {
	mu       sync.RWMutex
	state    memoryState
	engine   *RulesEngine
	nowFn    func() time.Time
	ids      ids.Generator
	revision uint64
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine, opts ...Option) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	s := &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
		ids:    ids.New(ids.StrategyUUID),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return normalizeSnapshot(snapshotFromMemoryState(s.state))
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(normalizeSnapshot(snapshot))
}

// RulesEngine exposes the currently configured engine so callers can register rules.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// NowFunc returns the time provider used by the in-memory store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// Revision increments once per committed transaction that recorded changes.
// Durable wrappers compare revisions to decide whether a write is needed.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

type transaction struct {
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
}

type transactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) TransactionView {
	return transactionView{state: state}
}

// RunInTransaction executes fn within a transactional copy of the store
// state. The copy replaces the live state only when fn succeeds and no rule
// blocks, so a failed call leaves nothing behind.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}
	if len(tx.changes) == 0 {
		return Result{}, nil
	}

	var result Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	s.revision++
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()
	view := newTransactionView(&snapshot)
	return fn(view)
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(&tx.state)
}

// record constrains pointer types whose element embeds domain.Base.
type record[T any] interface {
	*T
	BaseRef() *domain.Base
}

func indexOf[T any, P record[T]](items []T, id string) int {
	for i := range items {
		if P(&items[i]).BaseRef().ID == id {
			return i
		}
	}
	return -1
}

func findIn[T any, P record[T]](items []T, id string, clone func(T) T) (T, bool) {
	idx := indexOf[T, P](items, id)
	if idx < 0 {
		var zero T
		return zero, false
	}
	return clone(items[idx]), true
}

func createIn[T any, P record[T]](tx *transaction, items *[]T, entity domain.EntityType, rec T, clone func(T) T) (T, error) {
	var zero T
	base := P(&rec).BaseRef()
	exists := func(id string) bool { return indexOf[T, P](*items, id) >= 0 }
	if base.ID == "" {
		id, err := ids.Unique(tx.store.ids, exists)
		if err != nil {
			return zero, fmt.Errorf("%s id: %w", entity, err)
		}
		base.ID = id
	} else if exists(base.ID) {
		return zero, fmt.Errorf("%s %q already exists", entity, base.ID)
	}
	base.CreatedAt = tx.now
	*items = append(*items, clone(rec))
	tx.recordChange(Change{Entity: entity, Action: domain.ActionCreate, After: clone(rec)})
	return clone(rec), nil
}

func updateIn[T any, P record[T]](tx *transaction, items []T, entity domain.EntityType, id string, mutator func(*T) error, clone func(T) T) (T, bool, error) {
	var zero T
	idx := indexOf[T, P](items, id)
	if idx < 0 {
		return zero, false, nil
	}
	before := clone(items[idx])
	current := clone(items[idx])
	if err := mutator(&current); err != nil {
		return zero, true, err
	}
	*P(&current).BaseRef() = *P(&before).BaseRef()
	items[idx] = clone(current)
	tx.recordChange(Change{Entity: entity, Action: domain.ActionUpdate, Before: before, After: clone(current)})
	return clone(current), true, nil
}

func deleteFrom[T any, P record[T]](tx *transaction, items *[]T, entity domain.EntityType, id string) bool {
	idx := indexOf[T, P](*items, id)
	if idx < 0 {
		return false
	}
	before := (*items)[idx]
	*items = append((*items)[:idx:idx], (*items)[idx+1:]...)
	tx.recordChange(Change{Entity: entity, Action: domain.ActionDelete, Before: before})
	return true
}

func patchIn[T any, P record[T]](tx *transaction, items []T, entity domain.EntityType, id string, fields map[string]any, clone func(T) T) (bool, error) {
	_, found, err := updateIn[T, P](tx, items, entity, id, func(current *T) error {
		patched, err := domain.ApplyPatch(*current, fields)
		if err != nil {
			return err
		}
		*current = patched
		return nil
	}, clone)
	return found, err
}

// CreateClient stores a new client.
func (tx *transaction) CreateClient(c Client) (Client, error) {
	return createIn(tx, &tx.state.clients, domain.EntityClient, c, cloneClient)
}

// UpdateClient mutates an existing client.
func (tx *transaction) UpdateClient(id string, mutator func(*Client) error) (Client, bool, error) {
	return updateIn(tx, tx.state.clients, domain.EntityClient, id, mutator, cloneClient)
}

// DeleteClient removes a client. Orders that reference it are left in place.
func (tx *transaction) DeleteClient(id string) bool {
	return deleteFrom[Client](tx, &tx.state.clients, domain.EntityClient, id)
}

// CreateLead stores a new lead.
func (tx *transaction) CreateLead(l Lead) (Lead, error) {
	if l.Status == "" {
		l.Status = domain.LeadNew
	}
	return createIn(tx, &tx.state.leads, domain.EntityLead, l, cloneLead)
}

// UpdateLead mutates an existing lead.
func (tx *transaction) UpdateLead(id string, mutator func(*Lead) error) (Lead, bool, error) {
	return updateIn(tx, tx.state.leads, domain.EntityLead, id, mutator, cloneLead)
}

// DeleteLead removes a lead.
func (tx *transaction) DeleteLead(id string) bool {
	return deleteFrom[Lead](tx, &tx.state.leads, domain.EntityLead, id)
}

// CreateTask stores a new task.
func (tx *transaction) CreateTask(t Task) (Task, error) {
	if t.Status == "" {
		t.Status = domain.TaskOpen
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	return createIn(tx, &tx.state.tasks, domain.EntityTask, t, cloneTask)
}

// UpdateTask mutates an existing task.
func (tx *transaction) UpdateTask(id string, mutator func(*Task) error) (Task, bool, error) {
	return updateIn(tx, tx.state.tasks, domain.EntityTask, id, mutator, cloneTask)
}

// DeleteTask removes a task.
func (tx *transaction) DeleteTask(id string) bool {
	return deleteFrom[Task](tx, &tx.state.tasks, domain.EntityTask, id)
}

// CreateProduct stores a new product.
func (tx *transaction) CreateProduct(p Product) (Product, error) {
	return createIn(tx, &tx.state.products, domain.EntityProduct, p, cloneProduct)
}

// UpdateProduct mutates an existing product.
func (tx *transaction) UpdateProduct(id string, mutator func(*Product) error) (Product, bool, error) {
	return updateIn(tx, tx.state.products, domain.EntityProduct, id, mutator, cloneProduct)
}

// DeleteProduct removes a product. Order items and stock lines keep their references.
func (tx *transaction) DeleteProduct(id string) bool {
	return deleteFrom[Product](tx, &tx.state.products, domain.EntityProduct, id)
}

// CreateOrder stores a new order. The id is sequential (ORD-0001, ...) and the
// status history is seeded with the initial status.
func (tx *transaction) CreateOrder(o Order) (Order, error) {
	if o.Status == "" {
		o.Status = domain.OrderNew
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = domain.PaymentUnpaid
	}
	if o.ID == "" {
		orders := tx.state.orders
		o.ID = ids.NextOrderID(len(orders), func(id string) bool {
			return indexOf[Order](orders, id) >= 0
		})
	}
	o.StatusHistory = []domain.StatusChange{{Status: o.Status, At: tx.now}}
	return createIn(tx, &tx.state.orders, domain.EntityOrder, o, cloneOrder)
}

// UpdateOrder mutates an existing order. The status history is restored after
// the mutator runs; UpdateOrderStatus is the only way to extend it.
func (tx *transaction) UpdateOrder(id string, mutator func(*Order) error) (Order, bool, error) {
	return tx.updateOrder(id, mutator, nil)
}

func (tx *transaction) updateOrder(id string, mutator func(*Order) error, entry *domain.StatusChange) (Order, bool, error) {
	return updateIn(tx, tx.state.orders, domain.EntityOrder, id, func(o *Order) error {
		history := append([]domain.StatusChange{}, o.StatusHistory...)
		if err := mutator(o); err != nil {
			return err
		}
		if entry != nil {
			history = append(history, *entry)
		}
		o.StatusHistory = history
		return nil
	}, cloneOrder)
}

// DeleteOrder removes an order. Payments and returns that reference it are left in place.
func (tx *transaction) DeleteOrder(id string) bool {
	return deleteFrom[Order](tx, &tx.state.orders, domain.EntityOrder, id)
}

// UpdateOrderStatus sets the order status and appends exactly one history entry.
func (tx *transaction) UpdateOrderStatus(id string, status domain.OrderStatus, note string) (Order, bool, error) {
	entry := domain.StatusChange{Status: status, At: tx.now, Note: note}
	return tx.updateOrder(id, func(o *Order) error {
		o.Status = status
		return nil
	}, &entry)
}

// CreateWarehouse stores a new warehouse.
func (tx *transaction) CreateWarehouse(w Warehouse) (Warehouse, error) {
	return createIn(tx, &tx.state.warehouses, domain.EntityWarehouse, w, cloneWarehouse)
}

// UpdateWarehouse mutates an existing warehouse.
func (tx *transaction) UpdateWarehouse(id string, mutator func(*Warehouse) error) (Warehouse, bool, error) {
	return updateIn(tx, tx.state.warehouses, domain.EntityWarehouse, id, mutator, cloneWarehouse)
}

// DeleteWarehouse removes a warehouse and its stock lines.
func (tx *transaction) DeleteWarehouse(id string) bool {
	return deleteFrom[Warehouse](tx, &tx.state.warehouses, domain.EntityWarehouse, id)
}

// TransferStock moves qty of a product between warehouses. Both warehouses
// change inside this transaction, so the transfer commits as one state
// transition. Unknown warehouses, a missing source line, a non-positive
// quantity or identical endpoints make the call a no-op.
func (tx *transaction) TransferStock(fromID, toID, productID string, qty float64) (bool, error) {
	if qty <= 0 || fromID == toID {
		return false, nil
	}
	from := indexOf[Warehouse](tx.state.warehouses, fromID)
	to := indexOf[Warehouse](tx.state.warehouses, toID)
	if from < 0 || to < 0 {
		return false, nil
	}
	if stockLineIndex(tx.state.warehouses[from].Stock, productID) < 0 {
		return false, nil
	}
	if _, _, err := tx.UpdateWarehouse(fromID, func(w *Warehouse) error {
		w.Stock[stockLineIndex(w.Stock, productID)].Quantity -= qty
		return nil
	}); err != nil {
		return false, err
	}
	if _, _, err := tx.UpdateWarehouse(toID, func(w *Warehouse) error {
		if idx := stockLineIndex(w.Stock, productID); idx >= 0 {
			w.Stock[idx].Quantity += qty
			return nil
		}
		w.Stock = append(w.Stock, domain.StockLine{ProductID: productID, Quantity: qty})
		return nil
	}); err != nil {
		return false, err
	}
	return true, nil
}

func stockLineIndex(lines []domain.StockLine, productID string) int {
	for i, line := range lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

// CreateEmployee stores a new employee.
func (tx *transaction) CreateEmployee(e Employee) (Employee, error) {
	if e.Status == "" {
		e.Status = domain.EmploymentActive
	}
	return createIn(tx, &tx.state.employees, domain.EntityEmployee, e, cloneEmployee)
}

// UpdateEmployee mutates an existing employee.
func (tx *transaction) UpdateEmployee(id string, mutator func(*Employee) error) (Employee, bool, error) {
	return updateIn(tx, tx.state.employees, domain.EntityEmployee, id, mutator, cloneEmployee)
}

// DeleteEmployee removes an employee.
func (tx *transaction) DeleteEmployee(id string) bool {
	return deleteFrom[Employee](tx, &tx.state.employees, domain.EntityEmployee, id)
}

// CreateReturn stores a new return.
func (tx *transaction) CreateReturn(r Return) (Return, error) {
	if r.Status == "" {
		r.Status = domain.ReturnPending
	}
	return createIn(tx, &tx.state.returns, domain.EntityReturn, r, cloneReturn)
}

// UpdateReturn mutates an existing return.
func (tx *transaction) UpdateReturn(id string, mutator func(*Return) error) (Return, bool, error) {
	return updateIn(tx, tx.state.returns, domain.EntityReturn, id, mutator, cloneReturn)
}

// DeleteReturn removes a return.
func (tx *transaction) DeleteReturn(id string) bool {
	return deleteFrom[Return](tx, &tx.state.returns, domain.EntityReturn, id)
}

// CreatePayment stores a new payment.
func (tx *transaction) CreatePayment(p Payment) (Payment, error) {
	return createIn(tx, &tx.state.payments, domain.EntityPayment, p, clonePayment)
}

// UpdatePayment mutates an existing payment.
func (tx *transaction) UpdatePayment(id string, mutator func(*Payment) error) (Payment, bool, error) {
	return updateIn(tx, tx.state.payments, domain.EntityPayment, id, mutator, clonePayment)
}

// DeletePayment removes a payment.
func (tx *transaction) DeletePayment(id string) bool {
	return deleteFrom[Payment](tx, &tx.state.payments, domain.EntityPayment, id)
}

// ErrUnknownEntity is returned by Patch for entity types the store does not hold.
var ErrUnknownEntity = errors.New("unknown entity type")

// Patch shallow-merges fields onto the identified record.
func (tx *transaction) Patch(entity domain.EntityType, id string, fields map[string]any) (bool, error) {
	switch entity {
	case domain.EntityClient:
		return patchIn[Client](tx, tx.state.clients, entity, id, fields, cloneClient)
	case domain.EntityLead:
		return patchIn[Lead](tx, tx.state.leads, entity, id, fields, cloneLead)
	case domain.EntityTask:
		return patchIn[Task](tx, tx.state.tasks, entity, id, fields, cloneTask)
	case domain.EntityProduct:
		return patchIn[Product](tx, tx.state.products, entity, id, fields, cloneProduct)
	case domain.EntityOrder:
		_, found, err := tx.UpdateOrder(id, func(o *Order) error {
			patched, err := domain.ApplyPatch(*o, fields)
			if err != nil {
				return err
			}
			*o = patched
			return nil
		})
		return found, err
	case domain.EntityWarehouse:
		return patchIn[Warehouse](tx, tx.state.warehouses, entity, id, fields, cloneWarehouse)
	case domain.EntityEmployee:
		return patchIn[Employee](tx, tx.state.employees, entity, id, fields, cloneEmployee)
	case domain.EntityReturn:
		return patchIn[Return](tx, tx.state.returns, entity, id, fields, cloneReturn)
	case domain.EntityPayment:
		return patchIn[Payment](tx, tx.state.payments, entity, id, fields, clonePayment)
	default:
		return false, fmt.Errorf("patch %q: %w", entity, ErrUnknownEntity)
	}
}

// ConvertLeadToClient creates a client from a lead's fields and marks the lead won.
func (tx *transaction) ConvertLeadToClient(leadID string) (Client, bool, error) {
	lead, ok := findIn[Lead](tx.state.leads, leadID, cloneLead)
	if !ok {
		return Client{}, false, nil
	}
	client := clientFromLead(lead, tx.now)
	created, err := tx.CreateClient(client)
	if err != nil {
		return Client{}, true, err
	}
	if _, _, err := tx.UpdateLead(leadID, func(l *Lead) error {
		l.Status = domain.LeadWon
		return nil
	}); err != nil {
		return Client{}, true, err
	}
	return created, true, nil
}

func clientFromLead(lead Lead, now time.Time) Client {
	name := lead.Company
	if name == "" {
		name = lead.Name
	}
	contact := domain.Contact{Name: lead.Name, Phones: []string{}, Emails: []string{}}
	if lead.Phone != "" {
		contact.Phones = append(contact.Phones, lead.Phone)
	}
	if lead.Email != "" {
		contact.Emails = append(contact.Emails, lead.Email)
	}
	client := Client{
		Name:                name,
		Phone:               lead.Phone,
		Email:               lead.Email,
		ClientType:          domain.ClientTypeActive,
		CommunicationStatus: domain.CommunicationNone,
		ResponsibleID:       lead.ResponsibleID,
		Contacts:            []domain.Contact{contact},
		Comments:            []domain.Comment{},
		Communications:      []domain.Communication{},
		Deals:               []domain.Deal{},
	}
	if lead.Note != "" {
		client.Comments = append(client.Comments, domain.Comment{
			ID:        lead.ID + "-note",
			Text:      lead.Note,
			Author:    lead.ResponsibleID,
			CreatedAt: now,
		})
	}
	return client
}

// ListClients returns all clients within the snapshot.
func (v transactionView) ListClients() []Client { return cloneAll(v.state.clients, cloneClient) }

// FindClient retrieves a client by ID from the snapshot.
func (v transactionView) FindClient(id string) (Client, bool) {
	return findIn[Client](v.state.clients, id, cloneClient)
}

// ListLeads returns all leads.
func (v transactionView) ListLeads() []Lead { return cloneAll(v.state.leads, cloneLead) }

// FindLead retrieves a lead by ID.
func (v transactionView) FindLead(id string) (Lead, bool) {
	return findIn[Lead](v.state.leads, id, cloneLead)
}

// ListTasks returns all tasks.
func (v transactionView) ListTasks() []Task { return cloneAll(v.state.tasks, cloneTask) }

// FindTask retrieves a task by ID.
func (v transactionView) FindTask(id string) (Task, bool) {
	return findIn[Task](v.state.tasks, id, cloneTask)
}

// ListProducts returns all products.
func (v transactionView) ListProducts() []Product { return cloneAll(v.state.products, cloneProduct) }

// FindProduct retrieves a product by ID.
func (v transactionView) FindProduct(id string) (Product, bool) {
	return findIn[Product](v.state.products, id, cloneProduct)
}

// ListOrders returns all orders in creation order.
func (v transactionView) ListOrders() []Order { return cloneAll(v.state.orders, cloneOrder) }

// FindOrder retrieves an order by ID.
func (v transactionView) FindOrder(id string) (Order, bool) {
	return findIn[Order](v.state.orders, id, cloneOrder)
}

// ListWarehouses returns all warehouses.
func (v transactionView) ListWarehouses() []Warehouse {
	return cloneAll(v.state.warehouses, cloneWarehouse)
}

// FindWarehouse retrieves a warehouse by ID.
func (v transactionView) FindWarehouse(id string) (Warehouse, bool) {
	return findIn[Warehouse](v.state.warehouses, id, cloneWarehouse)
}

// ListEmployees returns all employees.
func (v transactionView) ListEmployees() []Employee { return cloneAll(v.state.employees, cloneEmployee) }

// FindEmployee retrieves an employee by ID.
func (v transactionView) FindEmployee(id string) (Employee, bool) {
	return findIn[Employee](v.state.employees, id, cloneEmployee)
}

// ListReturns returns all returns.
func (v transactionView) ListReturns() []Return { return cloneAll(v.state.returns, cloneReturn) }

// FindReturn retrieves a return by ID.
func (v transactionView) FindReturn(id string) (Return, bool) {
	return findIn[Return](v.state.returns, id, cloneReturn)
}

// ListPayments returns all payments.
func (v transactionView) ListPayments() []Payment { return cloneAll(v.state.payments, clonePayment) }

// FindPayment retrieves a payment by ID.
func (v transactionView) FindPayment(id string) (Payment, bool) {
	return findIn[Payment](v.state.payments, id, clonePayment)
}
