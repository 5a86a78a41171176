package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicate = errors.New("duplicate ident")
	ErrNoSuchRef = errors.New("reference to unknown ident")
)

// Catalog is the read-only set of entity records. Slices keep file order
// (tech application order matters); lookups go through the index maps.
type Catalog struct {
	Engines       []*Engine
	Turrets       []*Turret
	Manufacturers []*Manufacturer
	Techs         []*Tech

	engines map[string]*Engine
	turrets map[string]*Turret
	manfs   map[string]*Manufacturer
	techs   map[string]*Tech
}

// New indexes the records and checks that every cross-reference resolves.
// Tech requirements must name an earlier tech.
func New(engines []*Engine, turrets []*Turret, manfs []*Manufacturer, techs []*Tech) (*Catalog, error) {
	c := &Catalog{
		Engines:       engines,
		Turrets:       turrets,
		Manufacturers: manfs,
		Techs:         techs,
		engines:       make(map[string]*Engine, len(engines)),
		turrets:       make(map[string]*Turret, len(turrets)),
		manfs:         make(map[string]*Manufacturer, len(manfs)),
		techs:         make(map[string]*Tech, len(techs)),
	}
	for _, e := range engines {
		if _, dup := c.engines[e.Ident]; dup {
			return nil, fmt.Errorf("engine %s: %w", e.Ident, ErrDuplicate)
		}
		c.engines[e.Ident] = e
	}
	for _, t := range turrets {
		if _, dup := c.turrets[t.Ident]; dup {
			return nil, fmt.Errorf("turret %s: %w", t.Ident, ErrDuplicate)
		}
		c.turrets[t.Ident] = t
	}
	for _, m := range manfs {
		if _, dup := c.manfs[m.Ident]; dup {
			return nil, fmt.Errorf("manufacturer %s: %w", m.Ident, ErrDuplicate)
		}
		c.manfs[m.Ident] = m
	}
	for _, e := range engines {
		if e.Upgrade == "" {
			continue
		}
		if _, ok := c.engines[e.Upgrade]; !ok {
			return nil, fmt.Errorf("engine %s upgrade %s: %w", e.Ident, e.Upgrade, ErrNoSuchRef)
		}
	}
	for _, t := range techs {
		if _, dup := c.techs[t.Ident]; dup {
			return nil, fmt.Errorf("tech %s: %w", t.Ident, ErrDuplicate)
		}
		for _, r := range t.Requires {
			if _, ok := c.techs[r]; !ok {
				return nil, fmt.Errorf("tech %s requires %s: %w", t.Ident, r, ErrNoSuchRef)
			}
		}
		for _, e := range t.Engines {
			if _, ok := c.engines[e]; !ok {
				return nil, fmt.Errorf("tech %s engine %s: %w", t.Ident, e, ErrNoSuchRef)
			}
		}
		for _, g := range t.Turrets {
			if _, ok := c.turrets[g]; !ok {
				return nil, fmt.Errorf("tech %s turret %s: %w", t.Ident, g, ErrNoSuchRef)
			}
		}
		c.techs[t.Ident] = t
	}
	return c, nil
}

func (c *Catalog) Engine(ident string) (*Engine, bool) {
	e, ok := c.engines[ident]
	return e, ok
}

func (c *Catalog) Turret(ident string) (*Turret, bool) {
	t, ok := c.turrets[ident]
	return t, ok
}

func (c *Catalog) Manufacturer(ident string) (*Manufacturer, bool) {
	m, ok := c.manfs[ident]
	return m, ok
}

func (c *Catalog) Tech(ident string) (*Tech, bool) {
	t, ok := c.techs[ident]
	return t, ok
}
