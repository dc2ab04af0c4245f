package core

import (
	"context"
	"fmt"
	"math"

	"salescore/pkg/domain"
)

const dealAmountTolerance = 0.005

// NewDealAmountRule warns when a client deal's stored amount differs from
// qty*price. The stored amount is kept as entered.
func NewDealAmountRule() domain.Rule {
	return dealAmountRule{}
}

type dealAmountRule struct{}

func (dealAmountRule) Name() string { return "deal_amount" }

func (r dealAmountRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		client, ok := change.After.(domain.Client)
		if !ok {
			continue
		}
		for _, deal := range client.Deals {
			expected := deal.Qty * deal.Price
			if math.Abs(deal.Amount-expected) <= dealAmountTolerance {
				continue
			}
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     r.Name(),
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("client %s deal %s amount %.2f, qty*price %.2f", client.ID, deal.ID, deal.Amount, expected),
				Entity:   domain.EntityClient,
				EntityID: client.ID,
			})
		}
	}
	return res, nil
}
