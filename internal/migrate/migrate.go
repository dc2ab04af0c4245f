// Package migrate upgrades a persisted snapshot from the schema version it was
// written at to CurrentVersion. Each version has its own step and steps run
// one at a time in order; some merge with the seed, one resets collections
// outright.
package migrate

import (
	"errors"
	"fmt"

	"salescore/internal/infra/persistence/memory"
	"salescore/internal/textfix"
	"salescore/pkg/domain"
)

// CurrentVersion is the schema version written by this build.
const CurrentVersion = 6

// ErrMissingStep is returned when the table has no step for a version in range.
var ErrMissingStep = errors.New("migrate: no step registered")

// Step upgrades state from version k to k+1 in place. seed is a fresh copy of
// the baseline dataset the step may take records from.
type Step struct {
	Description string
	Apply       func(state *memory.Snapshot, seed memory.Snapshot)
}

// Steps maps each source version k to the step producing version k+1.
var Steps = map[int]Step{
	1: {Description: "fill empty client fields from seed", Apply: fillClients},
	2: {Description: "repair mis-decoded Cyrillic text", Apply: repairText},
	3: {Description: "merge catalogue, warehouses and staff with seed", Apply: mergeReference},
	4: {Description: "normalize nested arrays, task priority and deal amounts", Apply: normalize},
	5: {Description: "reset clients, orders, returns and payments to seed", Apply: resetSales},
}

// Applied records one step that ran.
type Applied struct {
	From        int
	To          int
	Description string
}

// Run upgrades state from version from to version to, applying each step
// exactly once in ascending order. seedFn supplies a fresh seed per step.
// Versions below 1 are treated as 1. When from >= to the state is returned
// unchanged.
func Run(from, to int, state memory.Snapshot, seedFn func() memory.Snapshot) (memory.Snapshot, []Applied, error) {
	return runTable(Steps, from, to, state, seedFn)
}

func runTable(table map[int]Step, from, to int, state memory.Snapshot, seedFn func() memory.Snapshot) (memory.Snapshot, []Applied, error) {
	if from < 1 {
		from = 1
	}
	if from >= to {
		return state, nil, nil
	}
	for v := from; v < to; v++ {
		if _, ok := table[v]; !ok {
			return state, nil, fmt.Errorf("%w for version %d", ErrMissingStep, v)
		}
	}
	out := state.Clone()
	var applied []Applied
	for v := from; v < to; v++ {
		step := table[v]
		step.Apply(&out, seedFn())
		applied = append(applied, Applied{From: v, To: v + 1, Description: step.Description})
	}
	return out, applied, nil
}

func seedByID[T any, P interface {
	*T
	BaseRef() *domain.Base
}](items []T) map[string]T {
	out := make(map[string]T, len(items))
	for i := range items {
		out[P(&items[i]).BaseRef().ID] = items[i]
	}
	return out
}

// fillByID fills empty fields of every persisted record that has a seed
// counterpart with the same id.
func fillByID[T any, P interface {
	*T
	BaseRef() *domain.Base
}](persisted []T, seed []T) {
	byID := seedByID[T, P](seed)
	for i := range persisted {
		if ref, ok := byID[P(&persisted[i]).BaseRef().ID]; ok {
			FillEmpty(&persisted[i], ref)
		}
	}
}

// mergeByID fills persisted records from seed and appends seed records whose
// id is not persisted, keeping persisted order first.
func mergeByID[T any, P interface {
	*T
	BaseRef() *domain.Base
}](persisted []T, seed []T) []T {
	fillByID[T, P](persisted, seed)
	present := make(map[string]bool, len(persisted))
	for i := range persisted {
		present[P(&persisted[i]).BaseRef().ID] = true
	}
	for i := range seed {
		if !present[P(&seed[i]).BaseRef().ID] {
			persisted = append(persisted, seed[i])
		}
	}
	return persisted
}

func fillClients(state *memory.Snapshot, seed memory.Snapshot) {
	fillByID[domain.Client](state.Clients, seed.Clients)
}

func repairText(state *memory.Snapshot, _ memory.Snapshot) {
	textfix.FixStrings(&state.Clients)
	textfix.FixStrings(&state.Leads)
	textfix.FixStrings(&state.Products)
	textfix.FixStrings(&state.Employees)
	textfix.FixStrings(&state.Tasks)
}

func mergeReference(state *memory.Snapshot, seed memory.Snapshot) {
	state.Products = mergeByID[domain.Product](state.Products, seed.Products)
	state.Warehouses = mergeByID[domain.Warehouse](state.Warehouses, seed.Warehouses)
	state.Employees = mergeByID[domain.Employee](state.Employees, seed.Employees)
}

func normalize(state *memory.Snapshot, _ memory.Snapshot) {
	for i := range state.Clients {
		c := &state.Clients[i]
		if c.Contacts == nil {
			c.Contacts = []domain.Contact{}
		}
		for j := range c.Contacts {
			if c.Contacts[j].Phones == nil {
				c.Contacts[j].Phones = []string{}
			}
			if c.Contacts[j].Emails == nil {
				c.Contacts[j].Emails = []string{}
			}
		}
		if c.Comments == nil {
			c.Comments = []domain.Comment{}
		}
		if c.Communications == nil {
			c.Communications = []domain.Communication{}
		}
		if c.Deals == nil {
			c.Deals = []domain.Deal{}
		}
		for j := range c.Deals {
			if c.Deals[j].Amount == 0 {
				c.Deals[j].Amount = c.Deals[j].Qty * c.Deals[j].Price
			}
		}
	}
	for i := range state.Tasks {
		t := &state.Tasks[i]
		if t.Priority == "" {
			t.Priority = domain.PriorityMedium
		}
		if t.Comments == nil {
			t.Comments = []domain.Comment{}
		}
	}
}

func resetSales(state *memory.Snapshot, seed memory.Snapshot) {
	state.Clients = seed.Clients
	state.Orders = seed.Orders
	state.Returns = seed.Returns
	state.Payments = seed.Payments
}
