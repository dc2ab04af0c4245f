// Package domain defines the persistent CRM entities, value types, and rule
// evaluation primitives used by salescore.
package domain

import "time"

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and snapshot collections.
const (
	// EntityClient identifies a client (customer company) record.
	EntityClient EntityType = "client"
	// EntityLead identifies a sales lead record.
	EntityLead EntityType = "lead"
	// EntityTask identifies an internal task record.
	EntityTask EntityType = "task"
	// EntityProduct identifies a catalogue product record.
	EntityProduct EntityType = "product"
	// EntityOrder identifies a customer order record.
	EntityOrder EntityType = "order"
	// EntityWarehouse identifies a warehouse record and its stock lines.
	EntityWarehouse EntityType = "warehouse"
	// EntityEmployee identifies an employee record.
	EntityEmployee EntityType = "employee"
	// EntityReturn identifies an order return record.
	EntityReturn EntityType = "return"
	// EntityPayment identifies a payment record.
	EntityPayment EntityType = "payment"
)

// ClientType classifies a client relationship.
type ClientType string

// Canonical client classifications.
const (
	ClientTypeProspect ClientType = "prospect"
	ClientTypeActive   ClientType = "active"
	ClientTypeKey      ClientType = "key"
	ClientTypeInactive ClientType = "inactive"
)

// CommunicationStatus describes where a client sits in the contact cycle.
type CommunicationStatus string

// Communication statuses used by client filters.
const (
	CommunicationNone       CommunicationStatus = "none"
	CommunicationScheduled  CommunicationStatus = "scheduled"
	CommunicationInProgress CommunicationStatus = "in_progress"
	CommunicationWaiting    CommunicationStatus = "waiting"
	CommunicationCompleted  CommunicationStatus = "completed"
	CommunicationRejected   CommunicationStatus = "rejected"
)

// CommunicationEntryStatus distinguishes scheduled from closed log entries.
type CommunicationEntryStatus string

// Communication log entry states.
const (
	CommunicationEntryScheduled CommunicationEntryStatus = "scheduled"
	CommunicationEntryClosed    CommunicationEntryStatus = "closed"
)

// CommunicationResult captures the outcome recorded when a communication closes.
type CommunicationResult string

// Communication outcomes.
const (
	ResultSuccess     CommunicationResult = "success"
	ResultNoAnswer    CommunicationResult = "no_answer"
	ResultCallback    CommunicationResult = "callback"
	ResultRefused     CommunicationResult = "refused"
	ResultNotRelevant CommunicationResult = "not_relevant"
)

// LeadStatus enumerates lead pipeline states.
type LeadStatus string

// Lead pipeline states.
const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadWon       LeadStatus = "won"
	LeadLost      LeadStatus = "lost"
)

// TaskStatus enumerates stored task states.
type TaskStatus string

// Stored task states. TaskOverdue is never stored; it is derived from the due date.
const (
	TaskOpen       TaskStatus = "open"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskOverdue    TaskStatus = "overdue"
)

// TaskPriority ranks tasks.
type TaskPriority string

// Task priorities.
const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// OrderStatus enumerates the order lifecycle.
type OrderStatus string

// Order lifecycle: new → confirmed → picking → shipped → delivered, or returned/cancelled.
const (
	OrderNew       OrderStatus = "new"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPicking   OrderStatus = "picking"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderReturned  OrderStatus = "returned"
	OrderCancelled OrderStatus = "cancelled"
)

// Counted reports whether orders in this status contribute to revenue.
func (s OrderStatus) Counted() bool {
	return s != OrderCancelled && s != OrderReturned
}

// PaymentStatus tracks how much of an order has been paid.
type PaymentStatus string

// Order payment states.
const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// EmployeeRole enumerates staff roles.
type EmployeeRole string

// Staff roles.
const (
	RoleAdmin      EmployeeRole = "admin"
	RoleManager    EmployeeRole = "manager"
	RoleWarehouse  EmployeeRole = "warehouse"
	RoleLogistics  EmployeeRole = "logistics"
	RoleAccounting EmployeeRole = "accounting"
)

// EmploymentStatus enumerates employment states.
type EmploymentStatus string

// Employment states.
const (
	EmploymentActive   EmploymentStatus = "active"
	EmploymentVacation EmploymentStatus = "vacation"
	EmploymentFired    EmploymentStatus = "fired"
)

// ReturnStatus enumerates return processing states.
type ReturnStatus string

// Return processing states.
const (
	ReturnPending   ReturnStatus = "pending"
	ReturnApproved  ReturnStatus = "approved"
	ReturnRejected  ReturnStatus = "rejected"
	ReturnCompleted ReturnStatus = "completed"
)

// ReturnResolution describes how an approved return is settled.
type ReturnResolution string

// Return resolutions.
const (
	ResolutionRefund      ReturnResolution = "refund"
	ResolutionReplacement ReturnResolution = "replacement"
)

// PaymentType enumerates payment directions.
type PaymentType string

// Payment directions.
const (
	PaymentIncome PaymentType = "income"
	PaymentRefund PaymentType = "refund"
	PaymentFee    PaymentType = "fee"
)

// PaymentMethod enumerates payment channels.
type PaymentMethod string

// Payment channels.
const (
	MethodCash     PaymentMethod = "cash"
	MethodCard     PaymentMethod = "card"
	MethodTransfer PaymentMethod = "transfer"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Base contains common fields for all domain records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// BaseRef exposes the embedded base so persistence helpers can stamp and
// compare identifiers generically.
func (b *Base) BaseRef() *Base { return b }

// Contact is a person at a client company.
type Contact struct {
	Name     string   `json:"name"`
	Position string   `json:"position"`
	Phones   []string `json:"phones"`
	Emails   []string `json:"emails"`
}

// Comment is a free-text note attached to a client or task.
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// Communication is one scheduled or closed entry in a client's contact log.
type Communication struct {
	ID          string                   `json:"id"`
	Status      CommunicationEntryStatus `json:"status"`
	ScheduledAt *time.Time               `json:"scheduledAt,omitempty"`
	ClosedAt    *time.Time               `json:"closedAt,omitempty"`
	Note        string                   `json:"note"`
	Result      CommunicationResult      `json:"result,omitempty"`
	AuthorID    string                   `json:"authorId,omitempty"`
}

// Deal is a line item negotiated with a client. Amount is expected to equal
// Qty*Price but is stored as entered.
type Deal struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Unit        string  `json:"unit"`
	Qty         float64 `json:"qty"`
	Price       float64 `json:"price"`
	Amount      float64 `json:"amount"`
	Declaration string  `json:"declaration,omitempty"`
}

// Client represents a customer company tracked by the sales team.
type Client struct {
	Base
	Name                string              `json:"name"`
	Phone               string              `json:"phone"`
	Email               string              `json:"email"`
	Website             string              `json:"website"`
	Address             string              `json:"address"`
	City                string              `json:"city"`
	INN                 string              `json:"inn"`
	ClientType          ClientType          `json:"clientType"`
	CommunicationStatus CommunicationStatus `json:"communicationStatus"`
	NextContactAt       *time.Time          `json:"nextContactAt,omitempty"`
	LastCommunicationAt *time.Time          `json:"lastCommunicationAt,omitempty"`
	ReminderAt          *time.Time          `json:"reminderAt,omitempty"`
	ResponsibleID       string              `json:"responsibleId"`
	ManagerID           string              `json:"managerId"`
	Contacts            []Contact           `json:"contacts"`
	Comments            []Comment           `json:"comments"`
	Communications      []Communication     `json:"communications"`
	Deals               []Deal              `json:"deals"`
}

// Lead is an unqualified sales opportunity that may be converted into a client.
type Lead struct {
	Base
	Name          string     `json:"name"`
	Company       string     `json:"company"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email"`
	Source        string     `json:"source"`
	Status        LeadStatus `json:"status"`
	ResponsibleID string     `json:"responsibleId"`
	Note          string     `json:"note"`
	Value         float64    `json:"value"`
}

// Task is an internal work item assigned to an employee.
type Task struct {
	Base
	Title       string       `json:"title"`
	Description string       `json:"description"`
	AssigneeID  string       `json:"assigneeId"`
	CreatorID   string       `json:"creatorId"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	Reward      *float64     `json:"reward,omitempty"`
	Penalty     *float64     `json:"penalty,omitempty"`
	Comments    []Comment    `json:"comments"`
}

// EffectiveStatus returns TaskOverdue when the task is not completed and its
// due date has passed, otherwise the stored status.
func (t Task) EffectiveStatus(now time.Time) TaskStatus {
	if t.Status != TaskCompleted && t.DueDate != nil && t.DueDate.Before(now) {
		return TaskOverdue
	}
	return t.Status
}

// Product is a sellable catalogue item.
type Product struct {
	Base
	Name          string  `json:"name"`
	SKU           string  `json:"sku"`
	Category      string  `json:"category"`
	Unit          string  `json:"unit"`
	Price         float64 `json:"price"`
	PurchasePrice float64 `json:"purchasePrice"`
	VAT           float64 `json:"vat"`
}

// OrderItem is one product line on an order. Discount is a percentage.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
	Discount  float64 `json:"discount"`
}

// DiscountedPrice returns the unit price after the percentage discount.
func (i OrderItem) DiscountedPrice() float64 {
	return i.Price * (1 - i.Discount/100)
}

// StatusChange is one append-only entry in an order's status history.
type StatusChange struct {
	Status OrderStatus `json:"status"`
	At     time.Time   `json:"at"`
	Note   string      `json:"note,omitempty"`
}

// Order is a customer order shipped from a warehouse.
type Order struct {
	Base
	ClientID        string         `json:"clientId"`
	Items           []OrderItem    `json:"items"`
	Status          OrderStatus    `json:"status"`
	PaymentStatus   PaymentStatus  `json:"paymentStatus"`
	WarehouseID     string         `json:"warehouseId"`
	DeliveryCost    float64        `json:"deliveryCost"`
	DeliveryAddress string         `json:"deliveryAddress"`
	Note            string         `json:"note"`
	StatusHistory   []StatusChange `json:"statusHistory"`
}

// StockLine tracks one product inside a warehouse. Quantity and Reserved are
// tracked independently.
type StockLine struct {
	ProductID string  `json:"productId"`
	Quantity  float64 `json:"quantity"`
	Reserved  float64 `json:"reserved"`
	MinLevel  float64 `json:"minLevel"`
}

// Available returns quantity not held by reservations.
func (l StockLine) Available() float64 {
	return l.Quantity - l.Reserved
}

// Warehouse is a stock location.
type Warehouse struct {
	Base
	Name    string      `json:"name"`
	Address string      `json:"address"`
	Stock   []StockLine `json:"stock"`
}

// Employee is a staff member with efficiency targets.
type Employee struct {
	Base
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	Phone          string           `json:"phone"`
	Role           EmployeeRole     `json:"role"`
	Status         EmploymentStatus `json:"status"`
	SalesTarget    float64          `json:"salesTarget"`
	SalesActual    float64          `json:"salesActual"`
	TasksTarget    int              `json:"tasksTarget"`
	TasksCompleted int              `json:"tasksCompleted"`
}

// Return records a customer return against an order.
type Return struct {
	Base
	OrderID    string           `json:"orderId"`
	Status     ReturnStatus     `json:"status"`
	Resolution ReturnResolution `json:"resolution"`
	Reason     string           `json:"reason"`
	Amount     float64          `json:"amount"`
}

// Payment records money moving against an order.
type Payment struct {
	Base
	OrderID string        `json:"orderId"`
	Type    PaymentType   `json:"type"`
	Amount  float64       `json:"amount"`
	Method  PaymentMethod `json:"method"`
	Note    string        `json:"note"`
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured in audit trail.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
