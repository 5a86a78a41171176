// Package research tracks which techs are unlocked and what they add up to.
package research

import (
	"errors"
	"fmt"

	"github.com/ec429/hbuilder/internal/catalog"
	"github.com/ec429/hbuilder/internal/tech"
)

var (
	ErrUnknownTech = errors.New("unknown tech")
	ErrMissingReqs = errors.New("tech requirements not met")
)

// State is an immutable snapshot of research progress: the unlocked techs,
// the hardware they unlock and the folded coefficient table. Every change
// produces a new State with a higher Version.
type State struct {
	Version uint64
	Techs   map[string]bool
	Engines map[string]bool
	Turrets map[string]bool
	Numbers tech.Numbers
}

// Apply folds the unlocked techs, in catalog order, into a fresh State:
// each tech's numbers overlay the table (last non-zero wins) and its engines
// and turrets become available. Apply never modifies its inputs.
func Apply(cat *catalog.Catalog, unlocked map[string]bool) State {
	s := State{
		Techs:   make(map[string]bool, len(unlocked)),
		Engines: make(map[string]bool),
		Turrets: make(map[string]bool),
	}
	for _, t := range cat.Techs {
		if !unlocked[t.Ident] {
			continue
		}
		s.Techs[t.Ident] = true
		tech.Overlay(&s.Numbers, &t.Numbers)
		for _, e := range t.Engines {
			s.Engines[e] = true
		}
		for _, g := range t.Turrets {
			s.Turrets[g] = true
		}
	}
	return s
}

// With re-applies the catalog for a new unlock set.
func (s State) With(cat *catalog.Catalog, unlocked map[string]bool) State {
	next := Apply(cat, unlocked)
	next.Version = s.Version + 1
	return next
}

// Refresh re-applies the current unlock set, e.g. after a catalog reload.
func (s State) Refresh(cat *catalog.Catalog) State {
	return s.With(cat, s.Techs)
}

// HaveReqs reports whether every requirement of ident is unlocked in s.
func HaveReqs(cat *catalog.Catalog, s State, ident string) bool {
	t, ok := cat.Tech(ident)
	if !ok {
		return false
	}
	for _, r := range t.Requires {
		if !s.Techs[r] {
			return false
		}
	}
	return true
}

// Toggle unlocks ident, or locks it if already unlocked. Unlocking needs
// every requirement; locking does not cascade to dependents.
func (s State) Toggle(cat *catalog.Catalog, ident string) (State, error) {
	if _, ok := cat.Tech(ident); !ok {
		return s, fmt.Errorf("%w %q", ErrUnknownTech, ident)
	}
	next := make(map[string]bool, len(s.Techs)+1)
	for k := range s.Techs {
		next[k] = true
	}
	if next[ident] {
		delete(next, ident)
	} else {
		if !HaveReqs(cat, s, ident) {
			return s, fmt.Errorf("%s: %w", ident, ErrMissingReqs)
		}
		next[ident] = true
	}
	return s.With(cat, next), nil
}

// Unlocked lists the unlocked techs in catalog order.
func (s State) Unlocked(cat *catalog.Catalog) []string {
	var out []string
	for _, t := range cat.Techs {
		if s.Techs[t.Ident] {
			out = append(out, t.Ident)
		}
	}
	return out
}

func (s State) EngineUnlocked(ident string) bool { return s.Engines[ident] }
func (s State) TurretUnlocked(ident string) bool { return s.Turrets[ident] }
