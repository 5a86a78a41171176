package tech

import (
	"errors"
	"fmt"
)

// Tier is the refit level of a design. Each tier permits a strict subset
// of the changes the previous one allows.
type Tier int

const (
	Fresh    Tier = iota // a clean-sheet design
	Mark                 // a new design based on an old one
	Mod                  // alterations to existing airframes
	Doctrine             // effect of doctrine changes

	TierCount
)

var tierNames = [TierCount]string{"Fresh", "Mark", "Mod", "Doctrine"}

func (t Tier) String() string {
	if t < 0 || t >= TierCount {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tierNames[t]
}

// Valid reports whether t is one of the four tiers.
func (t Tier) Valid() bool { return t >= Fresh && t < TierCount }

// Boundary is the first block a refit of this tier may refresh from the
// catalog; every block before it is inherited from the parent.
func (t Tier) Boundary() Block {
	switch t {
	case Mark:
		return BlockMark
	case Mod:
		return BlockMod
	case Doctrine:
		return BlockDoctrine
	default:
		return BlockCore
	}
}

var (
	ErrNoParent = errors.New("refit has no parent design")
	ErrBadTier  = errors.New("invalid refit tier")
)

// Resolve builds the coefficient snapshot a design of the given tier is
// computed against. Fresh designs take the catalog snapshot unchanged and
// never look at parent.
func Resolve(tier Tier, parent *Numbers, catalog Numbers) (Numbers, error) {
	if !tier.Valid() {
		return Numbers{}, fmt.Errorf("%w: %d", ErrBadTier, int(tier))
	}
	if tier == Fresh {
		return catalog, nil
	}
	if parent == nil {
		return Numbers{}, fmt.Errorf("resolve %s: %w", tier, ErrNoParent)
	}
	out := catalog
	b := tier.Boundary()
	if b > BlockCore {
		out.Core = parent.Core
	}
	if b > BlockMark {
		out.Mark = parent.Mark
	}
	if b > BlockMod {
		out.Mod = parent.Mod
	}
	return out, nil
}
