package core

import "salescore/pkg/domain"

type (
	EntityType         = domain.EntityType
	Severity           = domain.Severity
	Base               = domain.Base
	Client             = domain.Client
	Lead               = domain.Lead
	Task               = domain.Task
	Product            = domain.Product
	Order              = domain.Order
	Warehouse          = domain.Warehouse
	Employee           = domain.Employee
	Return             = domain.Return
	Payment            = domain.Payment
	OrderStatus        = domain.OrderStatus
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	RuleViolationError = domain.RuleViolationError
	Rule               = domain.Rule
	RulesEngine        = domain.RulesEngine
	Transaction        = domain.Transaction
	TransactionView    = domain.TransactionView
	PersistentStore    = domain.PersistentStore
)

const (
	EntityClient    = domain.EntityClient
	EntityLead      = domain.EntityLead
	EntityTask      = domain.EntityTask
	EntityProduct   = domain.EntityProduct
	EntityOrder     = domain.EntityOrder
	EntityWarehouse = domain.EntityWarehouse
	EntityEmployee  = domain.EntityEmployee
	EntityReturn    = domain.EntityReturn
	EntityPayment   = domain.EntityPayment
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)
