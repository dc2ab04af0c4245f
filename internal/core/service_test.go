package core

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"salescore/internal/analytics"
	"salescore/pkg/domain"
)

var fixedNow = time.Date(2024, time.March, 13, 12, 0, 0, 0, time.UTC)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{WithClock(ClockFunc(func() time.Time { return fixedNow }))}, opts...)
	return NewInMemoryService(NewDefaultRulesEngine(), opts...)
}

func TestAddAssignsIDAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	client, _, err := svc.AddClient(ctx, Client{Name: "Acme"})
	if err != nil {
		t.Fatalf("add client: %v", err)
	}
	if client.ID == "" || !client.CreatedAt.Equal(fixedNow) {
		t.Fatalf("expected id and createdAt, got %+v", client.Base)
	}
	got, err := svc.GetClient(ctx, client.ID)
	if err != nil || got.Name != "Acme" {
		t.Fatalf("get client: %+v %v", got, err)
	}
}

func TestUpdateAndDeleteUnknownAreNoops(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	if _, _, err := svc.AddProduct(ctx, Product{Name: "Salt"}); err != nil {
		t.Fatalf("add product: %v", err)
	}
	updated, _, err := svc.UpdateProduct(ctx, "missing", func(p *Product) error {
		p.Name = "ghost"
		return nil
	})
	if err != nil || updated.ID != "" {
		t.Fatalf("expected silent no-op, got %+v %v", updated, err)
	}
	found, err := svc.DeleteProduct(ctx, "missing")
	if err != nil || found {
		t.Fatalf("expected silent delete no-op, got found=%v err=%v", found, err)
	}
	found, _, err = svc.Patch(ctx, EntityProduct, "missing", map[string]any{"name": "x"})
	if err != nil || found {
		t.Fatalf("expected silent patch no-op, got found=%v err=%v", found, err)
	}
	products, _ := svc.ListProducts(ctx)
	if len(products) != 1 || products[0].Name != "Salt" {
		t.Fatalf("unexpected products %+v", products)
	}
}

func TestUpdateMutatorErrorRollsBack(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	lead, _, err := svc.AddLead(ctx, Lead{Name: "Ivan"})
	if err != nil {
		t.Fatalf("add lead: %v", err)
	}
	boom := errors.New("boom")
	if _, _, err := svc.UpdateLead(ctx, lead.ID, func(l *Lead) error {
		l.Name = "changed"
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected mutator error, got %v", err)
	}
	got, _ := svc.GetLead(ctx, lead.ID)
	if got.Name != "Ivan" {
		t.Fatalf("expected rollback, got %q", got.Name)
	}
}

func TestDeleteDoesNotCascade(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	client, _, _ := svc.AddClient(ctx, Client{Name: "Acme"})
	order, _, err := svc.AddOrder(ctx, Order{ClientID: client.ID})
	if err != nil {
		t.Fatalf("add order: %v", err)
	}
	if found, err := svc.DeleteClient(ctx, client.ID); err != nil || !found {
		t.Fatalf("delete client: found=%v err=%v", found, err)
	}
	kept, err := svc.GetOrder(ctx, order.ID)
	if err != nil || kept.ClientID != client.ID {
		t.Fatalf("expected dangling order to remain, got %+v %v", kept, err)
	}
	if _, err := svc.GetClient(ctx, client.ID); !errors.As(err, &ErrNotFound{}) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOrderLifecycleAndMetrics(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	product, _, _ := svc.AddProduct(ctx, Product{Name: "Flour", Price: 100, PurchasePrice: 60})
	client, _, _ := svc.AddClient(ctx, Client{Name: "Bakery"})

	order, _, err := svc.AddOrder(ctx, Order{
		ClientID:     client.ID,
		DeliveryCost: 15,
		Items: []domain.OrderItem{
			{ProductID: product.ID, Quantity: 3, Price: 100, Discount: 10},
			{ProductID: "gone", Quantity: 1, Price: 50},
		},
	})
	if err != nil {
		t.Fatalf("add order: %v", err)
	}
	if order.ID != "ORD-0001" || order.Status != domain.OrderNew || len(order.StatusHistory) != 1 {
		t.Fatalf("unexpected order %+v", order)
	}

	total, err := svc.OrderTotal(ctx, order.ID)
	if err != nil || !approx(total, 15+270+50) {
		t.Fatalf("unexpected total %v %v", total, err)
	}
	profit, err := svc.OrderProfit(ctx, order.ID)
	if err != nil || !approx(profit, (90-60)*3-15) {
		t.Fatalf("unexpected profit %v %v", profit, err)
	}
	if _, err := svc.OrderTotal(ctx, "ORD-9999"); !errors.As(err, &ErrNotFound{}) {
		t.Fatalf("expected not found for unknown order, got %v", err)
	}
	if _, err := svc.OrderProfit(ctx, "ORD-9999"); !errors.As(err, &ErrNotFound{}) {
		t.Fatalf("expected not found for unknown order profit, got %v", err)
	}

	shipped, _, err := svc.UpdateOrderStatus(ctx, order.ID, domain.OrderShipped, "courier")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if len(shipped.StatusHistory) != 2 || shipped.StatusHistory[0] != order.StatusHistory[0] || shipped.StatusHistory[1].Status != domain.OrderShipped {
		t.Fatalf("unexpected history %+v", shipped.StatusHistory)
	}

	revenue, _ := svc.ClientRevenue(ctx, client.ID)
	avg, _ := svc.ClientAverageCheck(ctx, client.ID)
	if !approx(revenue, total) || !approx(avg, total) {
		t.Fatalf("unexpected revenue %v avg %v", revenue, avg)
	}
	if _, _, err := svc.UpdateOrderStatus(ctx, order.ID, domain.OrderCancelled, ""); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	avg, _ = svc.ClientAverageCheck(ctx, client.ID)
	if avg != 0 {
		t.Fatalf("expected zero average for cancelled-only client, got %v", avg)
	}

	if _, _, err := svc.AddPayment(ctx, Payment{OrderID: order.ID, Type: domain.PaymentIncome, Amount: 200}); err != nil {
		t.Fatalf("add payment: %v", err)
	}
	if _, _, err := svc.AddPayment(ctx, Payment{OrderID: order.ID, Type: domain.PaymentRefund, Amount: 50}); err != nil {
		t.Fatalf("add refund: %v", err)
	}
	if paid, _ := svc.OrderPaid(ctx, order.ID); paid != 150 {
		t.Fatalf("unexpected paid %v", paid)
	}
	if missing, _, _ := svc.UpdateOrderStatus(ctx, "ORD-0404", domain.OrderShipped, ""); missing.ID != "" {
		t.Fatalf("expected no-op for unknown order")
	}
}

func TestConvertLeadToClient(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	lead, _, _ := svc.AddLead(ctx, Lead{Name: "Olga", Company: "Mill LLC", Phone: "+7 900", ResponsibleID: "e1"})
	client, _, err := svc.ConvertLeadToClient(ctx, lead.ID)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if client.ID == "" || client.Name != "Mill LLC" || client.ResponsibleID != "e1" {
		t.Fatalf("unexpected client %+v", client)
	}
	got, _ := svc.GetLead(ctx, lead.ID)
	if got.Status != domain.LeadWon {
		t.Fatalf("expected lead won, got %s", got.Status)
	}
	none, _, err := svc.ConvertLeadToClient(ctx, "missing")
	if err != nil || none.ID != "" {
		t.Fatalf("expected no-op for unknown lead, got %+v %v", none, err)
	}
	clients, _ := svc.ListClients(ctx)
	if len(clients) != 1 {
		t.Fatalf("expected one client, got %d", len(clients))
	}
}

func TestTransferStockRoundTripAndWarning(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	a, _, _ := svc.AddWarehouse(ctx, Warehouse{Name: "A", Stock: []domain.StockLine{{ProductID: "p1", Quantity: 10, Reserved: 2}}})
	b, _, _ := svc.AddWarehouse(ctx, Warehouse{Name: "B"})

	moved, res, err := svc.TransferStock(ctx, a.ID, b.ID, "p1", 4)
	if err != nil || !moved || len(res.Violations) != 0 {
		t.Fatalf("transfer: moved=%v res=%+v err=%v", moved, res, err)
	}
	if stock, _ := svc.ProductStock(ctx, "p1"); stock != 8 {
		t.Fatalf("expected total available 8, got %v", stock)
	}
	if _, _, err := svc.TransferStock(ctx, b.ID, a.ID, "p1", 4); err != nil {
		t.Fatalf("transfer back: %v", err)
	}
	wa, _ := svc.GetWarehouse(ctx, a.ID)
	wb, _ := svc.GetWarehouse(ctx, b.ID)
	if wa.Stock[0].Quantity != 10 || wb.Stock[0].Quantity != 0 {
		t.Fatalf("expected round trip restore, got %+v %+v", wa.Stock, wb.Stock)
	}

	moved, res, err = svc.TransferStock(ctx, a.ID, b.ID, "p1", 9)
	if err != nil || !moved {
		t.Fatalf("overdraw transfer: %v", err)
	}
	if len(res.Violations) != 1 || res.Violations[0].Rule != "negative_stock" || res.Violations[0].Severity != SeverityWarn {
		t.Fatalf("expected negative stock warning, got %+v", res.Violations)
	}

	if moved, _, _ := svc.TransferStock(ctx, a.ID, "nowhere", "p1", 1); moved {
		t.Fatalf("expected no-op for unknown warehouse")
	}
}

func TestDefaultRulesWarnWithoutBlocking(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, res, err := svc.AddOrder(ctx, Order{Items: []domain.OrderItem{{ProductID: "ghost", Quantity: 1, Price: 1}}})
	if err != nil {
		t.Fatalf("order with unknown product must commit: %v", err)
	}
	if len(res.Violations) != 1 || res.Violations[0].Rule != "order_products" {
		t.Fatalf("expected order_products warning, got %+v", res.Violations)
	}

	client, res, err := svc.AddClient(ctx, Client{Name: "Seed", Deals: []domain.Deal{{ID: "d1", Qty: 1200, Price: 0.9, Amount: 1080}}})
	if err != nil || len(res.Violations) != 0 {
		t.Fatalf("matching deal amount should not warn: %+v %v", res.Violations, err)
	}
	updated, res, err := svc.UpdateClient(ctx, client.ID, func(c *Client) error {
		c.Deals[0].Qty = 1000
		return nil
	})
	if err != nil {
		t.Fatalf("update client: %v", err)
	}
	if updated.Deals[0].Amount != 1080 {
		t.Fatalf("amount must be kept as stored, got %v", updated.Deals[0].Amount)
	}
	if len(res.Violations) != 1 || res.Violations[0].Rule != "deal_amount" {
		t.Fatalf("expected deal_amount warning, got %+v", res.Violations)
	}
}

func TestBlockingRuleRollsBack(t *testing.T) {
	ctx := context.Background()
	engine := NewRulesEngine()
	engine.Register(blockAll{})
	svc := NewInMemoryService(engine)
	if svc.RulesEngine() != engine {
		t.Fatalf("expected engine passthrough")
	}
	_, _, err := svc.AddTask(ctx, Task{Title: "blocked"})
	var violation RuleViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected rule violation, got %v", err)
	}
	if tasks, _ := svc.ListTasks(ctx); len(tasks) != 0 {
		t.Fatalf("blocked commit must not persist")
	}
}

type blockAll struct{}

func (blockAll) Name() string { return "block_all" }

func (blockAll) Evaluate(context.Context, domain.RuleView, []domain.Change) (domain.Result, error) {
	return domain.Result{Violations: []domain.Violation{{Rule: "block_all", Severity: SeverityBlock}}}, nil
}

func TestPatchShallowMerge(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	emp, _, _ := svc.AddEmployee(ctx, Employee{Name: "Anna", SalesTarget: 100, SalesActual: 50, TasksTarget: 10, TasksCompleted: 10})
	found, _, err := svc.Patch(ctx, EntityEmployee, emp.ID, map[string]any{"salesActual": 100, "id": "hijack"})
	if err != nil || !found {
		t.Fatalf("patch: found=%v err=%v", found, err)
	}
	eff, err := svc.EmployeeEfficiency(ctx, emp.ID)
	if err != nil || eff != 100 {
		t.Fatalf("unexpected efficiency %v %v", eff, err)
	}
	if _, err := svc.EmployeeEfficiency(ctx, "hijack"); err == nil {
		t.Fatalf("id must not be patchable")
	}
	if _, _, err := svc.Patch(ctx, "invoice", emp.ID, nil); err == nil {
		t.Fatalf("expected unknown entity error")
	}
}

func TestReturnsAndReaders(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	ret, _, err := svc.AddReturn(ctx, Return{OrderID: "ORD-0001", Reason: "damaged"})
	if err != nil || ret.Status != domain.ReturnPending {
		t.Fatalf("add return: %+v %v", ret, err)
	}
	approved, _, _ := svc.UpdateReturn(ctx, ret.ID, func(r *Return) error {
		r.Status = domain.ReturnApproved
		return nil
	})
	if approved.Status != domain.ReturnApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}
	if found, _ := svc.DeleteReturn(ctx, ret.ID); !found {
		t.Fatalf("expected delete")
	}
	if _, err := svc.GetReturn(ctx, ret.ID); err == nil || err.Error() != "return "+ret.ID+" not found" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestFindersAndDashboard(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	past := fixedNow.Add(-time.Hour)
	if _, _, err := svc.AddClient(ctx, Client{Name: "Due", NextContactAt: &past}); err != nil {
		t.Fatalf("add client: %v", err)
	}
	if _, _, err := svc.AddClient(ctx, Client{Name: "Later"}); err != nil {
		t.Fatalf("add client: %v", err)
	}
	if _, _, err := svc.AddTask(ctx, Task{Title: "Call", DueDate: &past}); err != nil {
		t.Fatalf("add task: %v", err)
	}
	due, _ := svc.FindClients(ctx, analytics.ClientFilter{Overdue: true})
	if len(due) != 1 || due[0].Name != "Due" {
		t.Fatalf("unexpected due clients %+v", due)
	}
	overdue, _ := svc.FindTasks(ctx, analytics.TaskFilter{Status: domain.TaskOverdue})
	if len(overdue) != 1 {
		t.Fatalf("expected one overdue task, got %d", len(overdue))
	}
	if _, _, err := svc.AddOrder(ctx, Order{Items: []domain.OrderItem{{ProductID: "p", Quantity: 2, Price: 5}}}); err != nil {
		t.Fatalf("add order: %v", err)
	}
	summary, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if summary.ClientsToCall != 1 || summary.OverdueTasks != 1 || summary.Revenue != 10 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	buckets, err := svc.SalesByPeriod(ctx, analytics.PeriodDay, fixedNow.Add(-24*time.Hour), fixedNow.Add(24*time.Hour))
	if err != nil || len(buckets) != 3 || buckets[1].Orders != 1 || buckets[1].Revenue != 10 {
		t.Fatalf("unexpected buckets %+v %v", buckets, err)
	}
	low, err := svc.LowStock(ctx)
	if err != nil || len(low) != 0 {
		t.Fatalf("unexpected low stock %+v %v", low, err)
	}
}
