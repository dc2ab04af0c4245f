package analytics

import (
	"time"

	"salescore/internal/metrics"
	"salescore/pkg/domain"
)

// Summary is the dashboard headline set.
type Summary struct {
	Revenue        float64
	Profit         float64
	OrdersByStatus map[domain.OrderStatus]int
	OverdueTasks   int
	LowStock       int
	ClientsToCall  int
	OpenLeads      int
}

// DashboardSummary computes the headline figures from a store view. Revenue
// and profit cover counted orders only.
func DashboardSummary(view domain.TransactionView, now time.Time) Summary {
	s := Summary{OrdersByStatus: make(map[domain.OrderStatus]int)}
	for _, o := range view.ListOrders() {
		s.OrdersByStatus[o.Status]++
		if !o.Status.Counted() {
			continue
		}
		s.Revenue += metrics.OrderTotal(o)
		s.Profit += metrics.OrderProfit(view, o)
	}
	s.OverdueTasks = OverdueTasks(view.ListTasks(), now)
	s.LowStock = len(metrics.LowStock(view))
	for _, c := range view.ListClients() {
		if NeedsContact(c, now) {
			s.ClientsToCall++
		}
	}
	for _, l := range view.ListLeads() {
		if l.Status != domain.LeadWon && l.Status != domain.LeadLost {
			s.OpenLeads++
		}
	}
	return s
}
