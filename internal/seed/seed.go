// Package seed holds the compiled-in baseline dataset. It initializes an
// empty or unreadable store and supplies reference records for migrations.
package seed

import (
	"time"

	"salescore/internal/infra/persistence/memory"
	"salescore/pkg/domain"
)

// Epoch is the createdAt stamp shared by every seed record.
var Epoch = time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

func base(id string) domain.Base {
	return domain.Base{ID: id, CreatedAt: Epoch}
}

func at(days int) *time.Time {
	t := Epoch.AddDate(0, 0, days)
	return &t
}

func money(v float64) *float64 { return &v }

// Snapshot returns a fresh copy of the full seed dataset. Callers may mutate
// the result freely.
func Snapshot() memory.Snapshot {
	return memory.Snapshot{
		Clients:    Clients(),
		Leads:      Leads(),
		Tasks:      Tasks(),
		Products:   Products(),
		Orders:     Orders(),
		Warehouses: Warehouses(),
		Employees:  Employees(),
		Returns:    Returns(),
		Payments:   Payments(),
	}
}

// Clients returns the seed clients.
func Clients() []domain.Client {
	return []domain.Client{
		{
			Base:                base("1"),
			Name:                "ООО «Агроторг»",
			Phone:               "+7 (495) 123-45-67",
			Email:               "info@agrotorg.ru",
			Website:             "agrotorg.ru",
			Address:             "ул. Складская, 12",
			City:                "Москва",
			INN:                 "7701234567",
			ClientType:          domain.ClientTypeKey,
			CommunicationStatus: domain.CommunicationInProgress,
			NextContactAt:       at(3),
			LastCommunicationAt: at(-2),
			ResponsibleID:       "e2",
			ManagerID:           "e1",
			Contacts: []domain.Contact{
				{Name: "Петров Олег Сергеевич", Position: "Директор по закупкам", Phones: []string{"+7 (916) 555-01-01"}, Emails: []string{"petrov@agrotorg.ru"}},
			},
			Comments: []domain.Comment{
				{ID: "1-c1", Text: "Просит отсрочку платежа 14 дней", Author: "e2", CreatedAt: Epoch},
			},
			Communications: []domain.Communication{
				{ID: "1-m1", Status: domain.CommunicationEntryClosed, ScheduledAt: at(-3), ClosedAt: at(-2), Note: "Обсудили объём на квартал", Result: domain.ResultSuccess, AuthorID: "e2"},
				{ID: "1-m2", Status: domain.CommunicationEntryScheduled, ScheduledAt: at(3), Note: "Согласовать спецификацию", AuthorID: "e2"},
			},
			Deals: []domain.Deal{
				{ID: "1-d1", Title: "Пакет фасовочный 1 кг", Unit: "шт", Qty: 1200, Price: 0.9, Amount: 1080},
				{ID: "1-d2", Title: "Сахар песок 50 кг", Unit: "меш", Qty: 40, Price: 2150, Amount: 86000, Declaration: "10129050/150124/0001234"},
			},
		},
		{
			Base:                base("2"),
			Name:                "ИП Смирнова А. В.",
			Phone:               "+7 (812) 987-65-43",
			Email:               "smirnova@mail.ru",
			Address:             "пр. Невский, 88",
			City:                "Санкт-Петербург",
			INN:                 "780512345678",
			ClientType:          domain.ClientTypeActive,
			CommunicationStatus: domain.CommunicationWaiting,
			NextContactAt:       at(-1),
			ReminderAt:          at(-1),
			ResponsibleID:       "e3",
			ManagerID:           "e1",
			Contacts: []domain.Contact{
				{Name: "Смирнова Анна Викторовна", Position: "Владелец", Phones: []string{"+7 (921) 300-20-10"}, Emails: []string{}},
			},
			Comments:       []domain.Comment{},
			Communications: []domain.Communication{},
			Deals: []domain.Deal{
				{ID: "2-d1", Title: "Мука пшеничная в/с 50 кг", Unit: "меш", Qty: 20, Price: 1850, Amount: 37000},
			},
		},
		{
			Base:                base("3"),
			Name:                "ООО «Хлебный дом»",
			Phone:               "+7 (843) 222-33-44",
			Email:               "zakaz@hlebdom.ru",
			Website:             "hlebdom.ru",
			Address:             "ул. Баумана, 5",
			City:                "Казань",
			INN:                 "1655123456",
			ClientType:          domain.ClientTypeProspect,
			CommunicationStatus: domain.CommunicationScheduled,
			NextContactAt:       at(7),
			ResponsibleID:       "e2",
			ManagerID:           "e1",
			Contacts:            []domain.Contact{},
			Comments:            []domain.Comment{},
			Communications:      []domain.Communication{},
			Deals:               []domain.Deal{},
		},
	}
}

// Leads returns the seed leads.
func Leads() []domain.Lead {
	return []domain.Lead{
		{Base: base("l1"), Name: "Кузнецов Дмитрий", Company: "ООО «Пекарня №1»", Phone: "+7 (903) 111-22-33", Email: "kuznetsov@pekarnya1.ru", Source: "сайт", Status: domain.LeadNew, ResponsibleID: "e2", Note: "Интересуется мукой оптом", Value: 150000},
		{Base: base("l2"), Name: "Орлова Мария", Company: "Кафе «Утро»", Phone: "+7 (905) 444-55-66", Source: "выставка", Status: domain.LeadContacted, ResponsibleID: "e3", Value: 40000},
	}
}

// Tasks returns the seed tasks.
func Tasks() []domain.Task {
	return []domain.Task{
		{Base: base("t1"), Title: "Подготовить КП для «Хлебного дома»", Description: "Мука, сахар, упаковка", AssigneeID: "e2", CreatorID: "e1", Status: domain.TaskOpen, Priority: domain.PriorityHigh, DueDate: at(2), Reward: money(3000), Comments: []domain.Comment{}},
		{Base: base("t2"), Title: "Сверка остатков на складе «Север»", AssigneeID: "e4", CreatorID: "e1", Status: domain.TaskInProgress, Priority: domain.PriorityMedium, DueDate: at(-1), Penalty: money(1000), Comments: []domain.Comment{}},
		{Base: base("t3"), Title: "Закрыть акт сверки с ИП Смирновой", AssigneeID: "e5", CreatorID: "e1", Status: domain.TaskCompleted, Priority: domain.PriorityLow, DueDate: at(-5), Comments: []domain.Comment{}},
	}
}

// Products returns the seed products.
func Products() []domain.Product {
	return []domain.Product{
		{Base: base("p1"), Name: "Мука пшеничная в/с 50 кг", SKU: "FLR-050", Category: "Мука", Unit: "меш", Price: 1850, PurchasePrice: 1500, VAT: 10},
		{Base: base("p2"), Name: "Сахар песок 50 кг", SKU: "SGR-050", Category: "Сахар", Unit: "меш", Price: 2150, PurchasePrice: 1800, VAT: 10},
		{Base: base("p3"), Name: "Пакет фасовочный 1 кг", SKU: "PKG-001", Category: "Упаковка", Unit: "шт", Price: 0.9, PurchasePrice: 0.5, VAT: 20},
		{Base: base("p4"), Name: "Дрожжи прессованные 1 кг", SKU: "YST-001", Category: "Дрожжи", Unit: "кг", Price: 160, PurchasePrice: 110, VAT: 10},
	}
}

// Warehouses returns the seed warehouses.
func Warehouses() []domain.Warehouse {
	return []domain.Warehouse{
		{Base: base("w1"), Name: "Склад «Центральный»", Address: "Москва, ул. Складская, 1", Stock: []domain.StockLine{
			{ProductID: "p1", Quantity: 120, Reserved: 20, MinLevel: 30},
			{ProductID: "p2", Quantity: 80, Reserved: 10, MinLevel: 20},
			{ProductID: "p3", Quantity: 5000, Reserved: 1200, MinLevel: 1000},
			{ProductID: "p4", Quantity: 15, MinLevel: 20},
		}},
		{Base: base("w2"), Name: "Склад «Север»", Address: "Санкт-Петербург, ул. Портовая, 7", Stock: []domain.StockLine{
			{ProductID: "p1", Quantity: 40, MinLevel: 10},
			{ProductID: "p2", Quantity: 25, Reserved: 5, MinLevel: 10},
		}},
	}
}

// Employees returns the seed employees.
func Employees() []domain.Employee {
	return []domain.Employee{
		{Base: base("e1"), Name: "Волков Андрей", Email: "volkov@salescore.ru", Role: domain.RoleAdmin, Status: domain.EmploymentActive},
		{Base: base("e2"), Name: "Соколова Елена", Email: "sokolova@salescore.ru", Phone: "+7 (916) 700-00-02", Role: domain.RoleManager, Status: domain.EmploymentActive, SalesTarget: 500000, SalesActual: 412000, TasksTarget: 20, TasksCompleted: 17},
		{Base: base("e3"), Name: "Морозов Павел", Email: "morozov@salescore.ru", Phone: "+7 (916) 700-00-03", Role: domain.RoleManager, Status: domain.EmploymentVacation, SalesTarget: 300000, SalesActual: 150000, TasksTarget: 15, TasksCompleted: 9},
		{Base: base("e4"), Name: "Лебедев Игорь", Email: "lebedev@salescore.ru", Role: domain.RoleWarehouse, Status: domain.EmploymentActive, TasksTarget: 30, TasksCompleted: 28},
		{Base: base("e5"), Name: "Новикова Ольга", Email: "novikova@salescore.ru", Role: domain.RoleAccounting, Status: domain.EmploymentActive},
	}
}

func history(steps ...domain.OrderStatus) []domain.StatusChange {
	out := make([]domain.StatusChange, 0, len(steps))
	for i, status := range steps {
		out = append(out, domain.StatusChange{Status: status, At: Epoch.AddDate(0, 0, i)})
	}
	return out
}

// Orders returns the seed orders.
func Orders() []domain.Order {
	return []domain.Order{
		{
			Base:            base("ORD-0001"),
			ClientID:        "1",
			Items:           []domain.OrderItem{{ProductID: "p2", Quantity: 40, Price: 2150}, {ProductID: "p3", Quantity: 1200, Price: 0.9}},
			Status:          domain.OrderDelivered,
			PaymentStatus:   domain.PaymentPaid,
			WarehouseID:     "w1",
			DeliveryCost:    3500,
			DeliveryAddress: "Москва, ул. Складская, 12",
			StatusHistory:   history(domain.OrderNew, domain.OrderConfirmed, domain.OrderPicking, domain.OrderShipped, domain.OrderDelivered),
		},
		{
			Base:          base("ORD-0002"),
			ClientID:      "2",
			Items:         []domain.OrderItem{{ProductID: "p1", Quantity: 20, Price: 1850, Discount: 5}},
			Status:        domain.OrderConfirmed,
			PaymentStatus: domain.PaymentPartial,
			WarehouseID:   "w2",
			DeliveryCost:  1200,
			StatusHistory: history(domain.OrderNew, domain.OrderConfirmed),
		},
		{
			Base:          base("ORD-0003"),
			ClientID:      "1",
			Items:         []domain.OrderItem{{ProductID: "p4", Quantity: 10, Price: 160}},
			Status:        domain.OrderReturned,
			PaymentStatus: domain.PaymentRefunded,
			WarehouseID:   "w1",
			StatusHistory: history(domain.OrderNew, domain.OrderShipped, domain.OrderReturned),
		},
	}
}

// Returns returns the seed returns.
func Returns() []domain.Return {
	return []domain.Return{
		{Base: base("r1"), OrderID: "ORD-0003", Status: domain.ReturnCompleted, Resolution: domain.ResolutionRefund, Reason: "Истёк срок годности", Amount: 1600},
	}
}

// Payments returns the seed payments.
func Payments() []domain.Payment {
	return []domain.Payment{
		{Base: base("pay1"), OrderID: "ORD-0001", Type: domain.PaymentIncome, Amount: 90580, Method: domain.MethodTransfer},
		{Base: base("pay2"), OrderID: "ORD-0002", Type: domain.PaymentIncome, Amount: 20000, Method: domain.MethodCard},
		{Base: base("pay3"), OrderID: "ORD-0003", Type: domain.PaymentIncome, Amount: 1600, Method: domain.MethodCash},
		{Base: base("pay4"), OrderID: "ORD-0003", Type: domain.PaymentRefund, Amount: 1600, Method: domain.MethodCash, Note: "Возврат по акту r1"},
	}
}
