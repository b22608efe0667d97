package workflow

import (
	"fmt"
	"sort"
	"sync"
)

// Catalog is the validated registry of state definitions, transition
// rules and state mappings. It is read-mostly: administrative definition
// calls mutate it under a write lock, while the executor, the aggregator
// and the UI queries only take read locks.
//
// All cross-object invariants are enforced here at definition time:
// transition endpoints must exist, final states get no outgoing edges,
// and each origin state keeps a single mapping per origin category.
type Catalog struct {
	mu            sync.RWMutex
	states        map[Category]map[StateCode]StateDefinition
	transitions   map[Category]map[StateCode]map[StateCode]Transition
	mappings      map[Category]map[StateCode]StateMapping
	nextMappingID int64
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		states:        make(map[Category]map[StateCode]StateDefinition),
		transitions:   make(map[Category]map[StateCode]map[StateCode]Transition),
		mappings:      make(map[Category]map[StateCode]StateMapping),
		nextMappingID: 1,
	}
}

// DefineState registers or updates a state definition. The call is
// idempotent on (category, code). Re-defining a state as final while it
// still has outgoing transitions, or as non-final while registered
// final semantics are relied upon by existing rules, fails with
// ErrDuplicateStateCode: that is a configuration error, not a runtime
// condition.
func (c *Catalog) DefineState(def StateDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.stateLocked(def.Category(), def.Code())
	if ok && existing.IsFinal() != def.IsFinal() && def.IsFinal() && c.hasOutgoingLocked(def.Category(), def.Code()) {
		return fmt.Errorf(
			"%w: %s/%s cannot become final while outgoing transitions exist",
			ErrDuplicateStateCode, def.Category(), def.Code(),
		)
	}

	if c.states[def.Category()] == nil {
		c.states[def.Category()] = make(map[StateCode]StateDefinition)
	}
	c.states[def.Category()][def.Code()] = def
	return nil
}

// State returns the definition registered for (category, code).
func (c *Catalog) State(category Category, code StateCode) (StateDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stateLocked(category, code)
}

// States returns all states of a category ordered by their Order
// attribute, ties broken by code.
func (c *Catalog) States(category Category) []StateDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	defs := make([]StateDefinition, 0, len(c.states[category]))
	for _, def := range c.states[category] {
		defs = append(defs, def)
	}

	sort.Slice(defs, func(i, j int) bool {
		if defs[i].Order() != defs[j].Order() {
			return defs[i].Order() < defs[j].Order()
		}
		return defs[i].Code() < defs[j].Code()
	})

	return defs
}

// DefineTransition registers a transition rule. Fails with
// ErrUnknownState when either endpoint is not registered in the
// category, and with ErrIllegalFinalOrigin when the origin state is
// final. Defining the same (category, from, to) again replaces the rule.
func (c *Catalog) DefineTransition(t Transition) error {
	if err := t.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	from, ok := c.stateLocked(t.Category(), t.From())
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrUnknownState, t.Category(), t.From())
	}
	if _, ok = c.stateLocked(t.Category(), t.To()); !ok {
		return fmt.Errorf("%w: %s/%s", ErrUnknownState, t.Category(), t.To())
	}

	if from.IsFinal() {
		return fmt.Errorf(
			"%w: %s/%s is final and cannot have outgoing transitions",
			ErrIllegalFinalOrigin, t.Category(), t.From(),
		)
	}

	if c.transitions[t.Category()] == nil {
		c.transitions[t.Category()] = make(map[StateCode]map[StateCode]Transition)
	}
	if c.transitions[t.Category()][t.From()] == nil {
		c.transitions[t.Category()][t.From()] = make(map[StateCode]Transition)
	}
	c.transitions[t.Category()][t.From()][t.To()] = t
	return nil
}

// Rule returns the transition registered for (category, from, to),
// active or not.
func (c *Catalog) Rule(category Category, from, to StateCode) (Transition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ruleLocked(category, from, to)
}

// IsAllowed reports whether an active rule permits the move and the
// origin state is not final.
func (c *Catalog) IsAllowed(category Category, from, to StateCode) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if def, ok := c.stateLocked(category, from); !ok || def.IsFinal() {
		return false
	}

	t, ok := c.ruleLocked(category, from, to)
	return ok && t.Active()
}

// RequiredPermission returns the permission gating the move, if any.
// The second result is false when no active rule exists.
func (c *Catalog) RequiredPermission(category Category, from, to StateCode) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.ruleLocked(category, from, to)
	if !ok || !t.Active() {
		return "", false
	}
	return t.Permission(), true
}

// AllowedTargets returns the destination states the given actor may
// move to from the given state, ordered by the destination's Order
// attribute. Automatic rules are excluded: they are never a legal
// interactive action.
func (c *Catalog) AllowedTargets(category Category, from StateCode, actor Actor) []StateCode {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if def, ok := c.stateLocked(category, from); !ok || def.IsFinal() {
		return nil
	}

	targets := make([]StateCode, 0)
	for to, t := range c.transitions[category][from] {
		if !t.Active() || t.Automatic() {
			continue
		}
		if t.Permission() != "" && !actor.HasPermission(t.Permission()) {
			continue
		}
		targets = append(targets, to)
	}

	sort.Slice(targets, func(i, j int) bool {
		a, _ := c.stateLocked(category, targets[i])
		b, _ := c.stateLocked(category, targets[j])
		if a.Order() != b.Order() {
			return a.Order() < b.Order()
		}
		return targets[i] < targets[j]
	})

	return targets
}

// AutomaticRules returns every active automatic transition across all
// categories, in deterministic order. The scheduler sweeps these.
func (c *Catalog) AutomaticRules() []Transition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rules := make([]Transition, 0)
	for _, byFrom := range c.transitions {
		for _, byTo := range byFrom {
			for _, t := range byTo {
				if t.Active() && t.Automatic() {
					rules = append(rules, t)
				}
			}
		}
	}

	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Category() != rules[j].Category() {
			return rules[i].Category() < rules[j].Category()
		}
		if rules[i].From() != rules[j].From() {
			return rules[i].From() < rules[j].From()
		}
		return rules[i].To() < rules[j].To()
	})

	return rules
}

// DefineMapping registers a state mapping. Both endpoints must be
// registered states of their categories. Re-defining the mapping for an
// origin state replaces it, keeping the original insertion-order ID so
// the aggregation tie-break stays stable.
func (c *Catalog) DefineMapping(m StateMapping) error {
	if err := m.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.stateLocked(m.FromCategory(), m.FromState()); !ok {
		return fmt.Errorf("%w: %s/%s", ErrUnknownState, m.FromCategory(), m.FromState())
	}
	if _, ok := c.stateLocked(m.ToCategory(), m.ToState()); !ok {
		return fmt.Errorf("%w: %s/%s", ErrUnknownState, m.ToCategory(), m.ToState())
	}

	if existing, ok := c.mappings[m.FromCategory()][m.FromState()]; ok {
		m = m.withID(existing.ID())
	} else if m.ID() == 0 {
		m = m.withID(c.nextMappingID)
	}
	if m.ID() >= c.nextMappingID {
		c.nextMappingID = m.ID() + 1
	}

	if c.mappings[m.FromCategory()] == nil {
		c.mappings[m.FromCategory()] = make(map[StateCode]StateMapping)
	}
	c.mappings[m.FromCategory()][m.FromState()] = m
	return nil
}

// MappingFor returns the active mapping registered for an origin state.
func (c *Catalog) MappingFor(fromCategory Category, fromState StateCode) (StateMapping, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.mappings[fromCategory][fromState]
	if !ok || !m.Active() {
		return StateMapping{}, false
	}
	return m, true
}

// HasMappingsFrom reports whether the category participates in
// aggregation as a source. The executor uses this to decide whether a
// transition must trigger re-aggregation of the owning composite.
func (c *Catalog) HasMappingsFrom(category Category) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.mappings[category]) > 0
}

// Snapshot returns the catalog contents as a CatalogConfig, states first
// by category and order, transitions and mappings in deterministic order.
// Used when persisting the configuration.
func (c *Catalog) Snapshot() CatalogConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var cfg CatalogConfig

	categories := make([]Category, 0, len(c.states))
	for category := range c.states {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	for _, category := range categories {
		codes := make([]StateCode, 0, len(c.states[category]))
		for code := range c.states[category] {
			codes = append(codes, code)
		}
		sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
		for _, code := range codes {
			cfg.States = append(cfg.States, c.states[category][code])
		}

		for _, byTo := range c.transitions[category] {
			for _, t := range byTo {
				cfg.Transitions = append(cfg.Transitions, t)
			}
		}
		for _, m := range c.mappings[category] {
			cfg.Mappings = append(cfg.Mappings, m)
		}
	}

	sort.Slice(cfg.Transitions, func(i, j int) bool {
		a, b := cfg.Transitions[i], cfg.Transitions[j]
		if a.Category() != b.Category() {
			return a.Category() < b.Category()
		}
		if a.From() != b.From() {
			return a.From() < b.From()
		}
		return a.To() < b.To()
	})
	sort.Slice(cfg.Mappings, func(i, j int) bool {
		return cfg.Mappings[i].ID() < cfg.Mappings[j].ID()
	})

	return cfg
}

// Swap atomically replaces the catalog contents with those of another
// catalog. Used after a successful bulk configuration import.
func (c *Catalog) Swap(from *Catalog) {
	from.mu.RLock()
	states := from.states
	transitions := from.transitions
	mappings := from.mappings
	nextID := from.nextMappingID
	from.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.states = states
	c.transitions = transitions
	c.mappings = mappings
	c.nextMappingID = nextID
}

func (c *Catalog) stateLocked(category Category, code StateCode) (StateDefinition, bool) {
	def, ok := c.states[category][code]
	return def, ok
}

func (c *Catalog) ruleLocked(category Category, from, to StateCode) (Transition, bool) {
	t, ok := c.transitions[category][from][to]
	return t, ok
}

func (c *Catalog) hasOutgoingLocked(category Category, from StateCode) bool {
	return len(c.transitions[category][from]) > 0
}
