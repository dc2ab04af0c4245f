package memory

import (
	"time"

	"salescore/pkg/domain"
)

type memoryState struct {
	clients    []Client
	leads      []Lead
	tasks      []Task
	products   []Product
	orders     []Order
	warehouses []Warehouse
	employees  []Employee
	returns    []Return
	payments   []Payment
}

// Snapshot captures a point-in-time clone of the store state. Collections
// keep insertion order.
type Snapshot struct {
	Clients    []Client    `json:"clients"`
	Leads      []Lead      `json:"leads"`
	Tasks      []Task      `json:"tasks"`
	Products   []Product   `json:"products"`
	Orders     []Order     `json:"orders"`
	Warehouses []Warehouse `json:"warehouses"`
	Employees  []Employee  `json:"employees"`
	Returns    []Return    `json:"returns"`
	Payments   []Payment   `json:"payments"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	return snapshotFromMemoryState(memoryState{
		clients:    s.Clients,
		leads:      s.Leads,
		tasks:      s.Tasks,
		products:   s.Products,
		orders:     s.Orders,
		warehouses: s.Warehouses,
		employees:  s.Employees,
		returns:    s.Returns,
		payments:   s.Payments,
	})
}

func newMemoryState() memoryState {
	return memoryState{
		clients:    []Client{},
		leads:      []Lead{},
		tasks:      []Task{},
		products:   []Product{},
		orders:     []Order{},
		warehouses: []Warehouse{},
		employees:  []Employee{},
		returns:    []Return{},
		payments:   []Payment{},
	}
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	return Snapshot{
		Clients:    cloneAll(state.clients, cloneClient),
		Leads:      cloneAll(state.leads, cloneLead),
		Tasks:      cloneAll(state.tasks, cloneTask),
		Products:   cloneAll(state.products, cloneProduct),
		Orders:     cloneAll(state.orders, cloneOrder),
		Warehouses: cloneAll(state.warehouses, cloneWarehouse),
		Employees:  cloneAll(state.employees, cloneEmployee),
		Returns:    cloneAll(state.returns, cloneReturn),
		Payments:   cloneAll(state.payments, clonePayment),
	}
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	return memoryState{
		clients:    cloneAll(s.Clients, cloneClient),
		leads:      cloneAll(s.Leads, cloneLead),
		tasks:      cloneAll(s.Tasks, cloneTask),
		products:   cloneAll(s.Products, cloneProduct),
		orders:     cloneAll(s.Orders, cloneOrder),
		warehouses: cloneAll(s.Warehouses, cloneWarehouse),
		employees:  cloneAll(s.Employees, cloneEmployee),
		returns:    cloneAll(s.Returns, cloneReturn),
		payments:   cloneAll(s.Payments, clonePayment),
	}
}

// normalizeSnapshot replaces nil collections and nested arrays with empty
// slices so that encoded snapshots always carry arrays rather than null.
func normalizeSnapshot(snapshot Snapshot) Snapshot {
	if snapshot.Clients == nil {
		snapshot.Clients = []Client{}
	}
	if snapshot.Leads == nil {
		snapshot.Leads = []Lead{}
	}
	if snapshot.Tasks == nil {
		snapshot.Tasks = []Task{}
	}
	if snapshot.Products == nil {
		snapshot.Products = []Product{}
	}
	if snapshot.Orders == nil {
		snapshot.Orders = []Order{}
	}
	if snapshot.Warehouses == nil {
		snapshot.Warehouses = []Warehouse{}
	}
	if snapshot.Employees == nil {
		snapshot.Employees = []Employee{}
	}
	if snapshot.Returns == nil {
		snapshot.Returns = []Return{}
	}
	if snapshot.Payments == nil {
		snapshot.Payments = []Payment{}
	}

	for i := range snapshot.Clients {
		c := &snapshot.Clients[i]
		if c.Contacts == nil {
			c.Contacts = []domain.Contact{}
		}
		if c.Comments == nil {
			c.Comments = []domain.Comment{}
		}
		if c.Communications == nil {
			c.Communications = []domain.Communication{}
		}
		if c.Deals == nil {
			c.Deals = []domain.Deal{}
		}
	}
	for i := range snapshot.Tasks {
		if snapshot.Tasks[i].Comments == nil {
			snapshot.Tasks[i].Comments = []domain.Comment{}
		}
	}
	for i := range snapshot.Orders {
		o := &snapshot.Orders[i]
		if o.Items == nil {
			o.Items = []domain.OrderItem{}
		}
		if o.StatusHistory == nil {
			o.StatusHistory = []domain.StatusChange{}
		}
	}
	for i := range snapshot.Warehouses {
		if snapshot.Warehouses[i].Stock == nil {
			snapshot.Warehouses[i].Stock = []domain.StockLine{}
		}
	}
	return snapshot
}

func (s memoryState) clone() memoryState {
	return memoryStateFromSnapshot(Snapshot{
		Clients:    s.clients,
		Leads:      s.leads,
		Tasks:      s.tasks,
		Products:   s.products,
		Orders:     s.orders,
		Warehouses: s.warehouses,
		Employees:  s.employees,
		Returns:    s.returns,
		Payments:   s.payments,
	})
}

func cloneAll[T any](items []T, clone func(T) T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = clone(item)
	}
	return out
}

func cloneTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneFloatPtr(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string{}, values...)
}

// cloneClient deep-copies a client including its nested collections.
func cloneClient(c Client) Client {
	cp := c
	cp.NextContactAt = cloneTimePtr(c.NextContactAt)
	cp.LastCommunicationAt = cloneTimePtr(c.LastCommunicationAt)
	cp.ReminderAt = cloneTimePtr(c.ReminderAt)
	if c.Contacts != nil {
		cp.Contacts = make([]domain.Contact, len(c.Contacts))
		for i, contact := range c.Contacts {
			contact.Phones = cloneStrings(contact.Phones)
			contact.Emails = cloneStrings(contact.Emails)
			cp.Contacts[i] = contact
		}
	}
	if c.Comments != nil {
		cp.Comments = append([]domain.Comment{}, c.Comments...)
	}
	if c.Communications != nil {
		cp.Communications = make([]domain.Communication, len(c.Communications))
		for i, entry := range c.Communications {
			entry.ScheduledAt = cloneTimePtr(entry.ScheduledAt)
			entry.ClosedAt = cloneTimePtr(entry.ClosedAt)
			cp.Communications[i] = entry
		}
	}
	if c.Deals != nil {
		cp.Deals = append([]domain.Deal{}, c.Deals...)
	}
	return cp
}

func cloneLead(l Lead) Lead { return l }

// cloneTask deep-copies a task.
func cloneTask(t Task) Task {
	cp := t
	cp.DueDate = cloneTimePtr(t.DueDate)
	cp.Reward = cloneFloatPtr(t.Reward)
	cp.Penalty = cloneFloatPtr(t.Penalty)
	if t.Comments != nil {
		cp.Comments = append([]domain.Comment{}, t.Comments...)
	}
	return cp
}

func cloneProduct(p Product) Product { return p }

// cloneOrder deep-copies an order including items and status history.
func cloneOrder(o Order) Order {
	cp := o
	if o.Items != nil {
		cp.Items = append([]domain.OrderItem{}, o.Items...)
	}
	if o.StatusHistory != nil {
		cp.StatusHistory = append([]domain.StatusChange{}, o.StatusHistory...)
	}
	return cp
}

// cloneWarehouse deep-copies a warehouse and its stock lines.
func cloneWarehouse(w Warehouse) Warehouse {
	cp := w
	if w.Stock != nil {
		cp.Stock = append([]domain.StockLine{}, w.Stock...)
	}
	return cp
}

func cloneEmployee(e Employee) Employee { return e }
func cloneReturn(r Return) Return       { return r }
func clonePayment(p Payment) Payment    { return p }
