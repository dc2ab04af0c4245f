package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescore/pkg/domain"
)

type fakeSource struct {
	products   []domain.Product
	orders     []domain.Order
	warehouses []domain.Warehouse
	payments   []domain.Payment
}

func (f fakeSource) FindProduct(id string) (domain.Product, bool) {
	for _, p := range f.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (f fakeSource) ListOrders() []domain.Order         { return f.orders }
func (f fakeSource) ListWarehouses() []domain.Warehouse { return f.warehouses }
func (f fakeSource) ListPayments() []domain.Payment     { return f.payments }

func product(id string, purchase float64) domain.Product {
	return domain.Product{Base: domain.Base{ID: id}, PurchasePrice: purchase}
}

func TestOrderTotal(t *testing.T) {
	order := domain.Order{
		DeliveryCost: 500,
		Items: []domain.OrderItem{
			{ProductID: "p1", Quantity: 10, Price: 100, Discount: 10},
			{ProductID: "p2", Quantity: 2, Price: 50},
		},
	}
	assert.InDelta(t, 500+900+100, OrderTotal(order), 1e-9)

	plain := domain.Order{Items: []domain.OrderItem{{Quantity: 3, Price: 7}, {Quantity: 1, Price: 4}}}
	assert.InDelta(t, 25, OrderTotal(plain), 1e-9, "zero discount reduces to plain sum")

	assert.Equal(t, 0.0, OrderTotal(domain.Order{}))
}

func TestOrderTotalDoesNotClampDiscount(t *testing.T) {
	order := domain.Order{Items: []domain.OrderItem{{Quantity: 1, Price: 100, Discount: 150}}}
	assert.InDelta(t, -50, OrderTotal(order), 1e-9)
}

func TestOrderProfitSkipsMissingProducts(t *testing.T) {
	src := fakeSource{products: []domain.Product{product("p1", 60)}}
	order := domain.Order{
		DeliveryCost: 100,
		Items: []domain.OrderItem{
			{ProductID: "p1", Quantity: 10, Price: 100, Discount: 10},
			{ProductID: "deleted", Quantity: 5, Price: 1000},
		},
	}
	// (90 - 60) * 10 - 100
	assert.InDelta(t, 200, OrderProfit(src, order), 1e-9)

	onlyMissing := domain.Order{DeliveryCost: 40, Items: []domain.OrderItem{{ProductID: "gone", Quantity: 1, Price: 10}}}
	assert.InDelta(t, -40, OrderProfit(src, onlyMissing), 1e-9, "delivery subtracted exactly once")
}

func TestClientRevenueAndAverageCheck(t *testing.T) {
	src := fakeSource{orders: []domain.Order{
		{ClientID: "c1", Status: domain.OrderDelivered, Items: []domain.OrderItem{{Quantity: 1, Price: 100}}},
		{ClientID: "c1", Status: domain.OrderNew, Items: []domain.OrderItem{{Quantity: 2, Price: 100}}},
		{ClientID: "c1", Status: domain.OrderCancelled, Items: []domain.OrderItem{{Quantity: 1, Price: 1000}}},
		{ClientID: "c1", Status: domain.OrderReturned, Items: []domain.OrderItem{{Quantity: 1, Price: 1000}}},
		{ClientID: "c2", Status: domain.OrderDelivered, Items: []domain.OrderItem{{Quantity: 1, Price: 7}}},
	}}
	assert.InDelta(t, 300, ClientRevenue(src, "c1"), 1e-9)
	assert.InDelta(t, 150, ClientAverageCheck(src, "c1"), 1e-9)
	assert.InDelta(t, 7, ClientRevenue(src, "c2"), 1e-9)
}

func TestClientAverageCheckWithoutOrders(t *testing.T) {
	src := fakeSource{orders: []domain.Order{
		{ClientID: "c1", Status: domain.OrderCancelled, Items: []domain.OrderItem{{Quantity: 1, Price: 10}}},
	}}
	assert.Equal(t, 0.0, ClientAverageCheck(src, "c1"))
	assert.Equal(t, 0.0, ClientAverageCheck(src, "nobody"))
	assert.Equal(t, 0.0, ClientRevenue(src, "nobody"))
}

func TestProductStockAndLowStock(t *testing.T) {
	src := fakeSource{warehouses: []domain.Warehouse{
		{Base: domain.Base{ID: "w1"}, Stock: []domain.StockLine{
			{ProductID: "p1", Quantity: 10, Reserved: 3, MinLevel: 5},
			{ProductID: "p2", Quantity: 1, MinLevel: 5},
		}},
		{Base: domain.Base{ID: "w2"}, Stock: []domain.StockLine{
			{ProductID: "p1", Quantity: 4, Reserved: 4, MinLevel: 1},
		}},
		{Base: domain.Base{ID: "w3"}},
	}}
	assert.InDelta(t, 7, ProductStock(src, "p1"), 1e-9)
	assert.InDelta(t, 1, ProductStock(src, "p2"), 1e-9)
	assert.Equal(t, 0.0, ProductStock(src, "unknown"))

	low := LowStock(src)
	require.Len(t, low, 2)
	assert.Equal(t, LowStockLine{WarehouseID: "w1", ProductID: "p2", Available: 1, MinLevel: 5}, low[0])
	assert.Equal(t, "w2", low[1].WarehouseID)
}

func TestOrderPaid(t *testing.T) {
	src := fakeSource{payments: []domain.Payment{
		{OrderID: "o1", Type: domain.PaymentIncome, Amount: 1000},
		{OrderID: "o1", Type: domain.PaymentRefund, Amount: 200},
		{OrderID: "o1", Type: domain.PaymentFee, Amount: 30},
		{OrderID: "o2", Type: domain.PaymentIncome, Amount: 5},
	}}
	assert.InDelta(t, 800, OrderPaid(src, "o1"), 1e-9)
	assert.Equal(t, 0.0, OrderPaid(src, "none"))
}

func TestEmployeeEfficiency(t *testing.T) {
	tests := []struct {
		name string
		emp  domain.Employee
		want float64
	}{
		{"no targets", domain.Employee{}, 0},
		{"sales only", domain.Employee{SalesTarget: 100, SalesActual: 80}, 80},
		{"tasks only", domain.Employee{TasksTarget: 10, TasksCompleted: 5}, 50},
		{"both", domain.Employee{SalesTarget: 100, SalesActual: 120, TasksTarget: 4, TasksCompleted: 2}, 85},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EmployeeEfficiency(tt.emp), 1e-9)
		})
	}
}
