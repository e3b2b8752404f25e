package token

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRuleNameRequired is returned when a rule is registered without a name.
	ErrRuleNameRequired = errors.New("token ruler: rule name is required")
	// ErrRuleExists is returned when a rule name is registered twice.
	ErrRuleExists = errors.New("token ruler: rule already registered")
	// ErrRuleNotFound is returned when an anchor rule does not exist.
	ErrRuleNotFound = errors.New("token ruler: rule not found")
)

// State carries one document through the core rules. Each render owns its
// State; rules must not retain it.
type State struct {
	Source []byte
	Tokens []*Token
	Env    map[string]any
}

// NewState prepares an empty state for the supplied source.
func NewState(source []byte) *State {
	return &State{
		Source: source,
		Env:    map[string]any{},
	}
}

// RuleFunc mutates the state in place. The returned flag reports whether the
// rule asks the core to run the pipeline again; the core never re-runs, so rules
// return false.
type RuleFunc func(state *State) bool

type namedRule struct {
	name    string
	fn      RuleFunc
	enabled bool
}

// Ruler keeps core rules in execution order.
type Ruler struct {
	rules []namedRule
}

// Push appends a rule at the end of the chain.
func (r *Ruler) Push(name string, fn RuleFunc) error {
	if err := r.check(name, fn); err != nil {
		return err
	}
	r.rules = append(r.rules, namedRule{name: name, fn: fn, enabled: true})
	return nil
}

// After inserts a rule immediately after the anchor rule.
func (r *Ruler) After(anchor, name string, fn RuleFunc) error {
	idx := r.index(anchor)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrRuleNotFound, anchor)
	}
	return r.insert(idx+1, name, fn)
}

// Before inserts a rule immediately before the anchor rule.
func (r *Ruler) Before(anchor, name string, fn RuleFunc) error {
	idx := r.index(anchor)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrRuleNotFound, anchor)
	}
	return r.insert(idx, name, fn)
}

// Disable switches a rule off without removing it.
func (r *Ruler) Disable(name string) error {
	idx := r.index(name)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrRuleNotFound, name)
	}
	r.rules[idx].enabled = false
	return nil
}

// Names lists the enabled rules in execution order.
func (r *Ruler) Names() []string {
	names := make([]string, 0, len(r.rules))
	for _, rule := range r.rules {
		if rule.enabled {
			names = append(names, rule.name)
		}
	}
	return names
}

// Process runs every enabled rule once, in order.
func (r *Ruler) Process(state *State) {
	for _, rule := range r.rules {
		if !rule.enabled {
			continue
		}
		rule.fn(state)
	}
}

func (r *Ruler) insert(at int, name string, fn RuleFunc) error {
	if err := r.check(name, fn); err != nil {
		return err
	}
	r.rules = append(r.rules, namedRule{})
	copy(r.rules[at+1:], r.rules[at:])
	r.rules[at] = namedRule{name: name, fn: fn, enabled: true}
	return nil
}

func (r *Ruler) check(name string, fn RuleFunc) error {
	if strings.TrimSpace(name) == "" {
		return ErrRuleNameRequired
	}
	if fn == nil {
		return fmt.Errorf("token ruler: rule %s has no function", name)
	}
	if r.index(name) >= 0 {
		return fmt.Errorf("%w: %s", ErrRuleExists, name)
	}
	return nil
}

func (r *Ruler) index(name string) int {
	for i, rule := range r.rules {
		if rule.name == name {
			return i
		}
	}
	return -1
}
