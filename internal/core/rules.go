package core

import "salescore/pkg/domain"

// NewRulesEngine constructs an empty engine.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
// Every built-in rule warns; none blocks a commit.
func NewDefaultRulesEngine() *RulesEngine {
	engine := NewRulesEngine()
	engine.Register(NewNegativeStockRule())
	engine.Register(NewOrderProductsRule())
	engine.Register(NewDealAmountRule())
	return engine
}
