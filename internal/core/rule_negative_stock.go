package core

import (
	"context"
	"fmt"

	"salescore/pkg/domain"
)

// NewNegativeStockRule warns when a changed warehouse holds a stock line
// whose available quantity dropped below zero.
func NewNegativeStockRule() domain.Rule {
	return negativeStockRule{}
}

type negativeStockRule struct{}

func (negativeStockRule) Name() string { return "negative_stock" }

func (r negativeStockRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		w, ok := change.After.(domain.Warehouse)
		if !ok {
			continue
		}
		for _, line := range w.Stock {
			if line.Available() >= 0 {
				continue
			}
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     r.Name(),
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("warehouse %s product %s available %.2f", w.ID, line.ProductID, line.Available()),
				Entity:   domain.EntityWarehouse,
				EntityID: w.ID,
			})
		}
	}
	return res, nil
}
