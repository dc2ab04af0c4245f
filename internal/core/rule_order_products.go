package core

import (
	"context"
	"fmt"

	"salescore/pkg/domain"
)

// NewOrderProductsRule warns when a created or updated order references a
// product the store does not hold. Such items count toward totals but not
// toward profit.
func NewOrderProductsRule() domain.Rule {
	return orderProductsRule{}
}

type orderProductsRule struct{}

func (orderProductsRule) Name() string { return "order_products" }

func (r orderProductsRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		order, ok := change.After.(domain.Order)
		if !ok {
			continue
		}
		for _, item := range order.Items {
			if _, found := view.FindProduct(item.ProductID); found {
				continue
			}
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     r.Name(),
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("order %s references unknown product %s", order.ID, item.ProductID),
				Entity:   domain.EntityOrder,
				EntityID: order.ID,
			})
		}
	}
	return res, nil
}
