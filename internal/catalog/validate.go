package catalog

import (
	"fmt"
	"strings"
)

// Validate checks semantic constraints that a single line cannot.
// Every problem is reported, not just the first.
func Validate(c *Catalog) error {
	var errs []string

	for _, e := range c.Engines {
		if e.SCL > 3 {
			errs = append(errs, fmt.Sprintf("engine %s: SCL must be 0..3", e.Ident))
		}
		if e.BHP == 0 {
			errs = append(errs, fmt.Sprintf("engine %s: BHP must be > 0", e.Ident))
		}
		if e.Upgrade == e.Ident {
			errs = append(errs, fmt.Sprintf("engine %s: cannot upgrade to itself", e.Ident))
		}
	}
	for _, t := range c.Turrets {
		if t.Location <= LocNone || t.Location >= LocCount {
			errs = append(errs, fmt.Sprintf("turret %s: LXN must be 1..%d", t.Ident, LocCount-1))
		}
		if t.ESL > 2 {
			errs = append(errs, fmt.Sprintf("turret %s: ESL must be 0..2", t.Ident))
		}
		if t.SRV > 1000 {
			errs = append(errs, fmt.Sprintf("turret %s: SRV is per mille", t.Ident))
		}
	}
	for _, m := range c.Manufacturers {
		if m.BOF == 0 {
			errs = append(errs, fmt.Sprintf("manufacturer %s: BOF must be > 0", m.Ident))
		}
		if m.ACT == 0 || m.ACC == 0 {
			errs = append(errs, fmt.Sprintf("manufacturer %s: ACT and ACC must be > 0", m.Ident))
		}
	}
	for _, t := range c.Techs {
		if t.Month > 12 {
			errs = append(errs, fmt.Sprintf("tech %s: month must be 0..12", t.Ident))
		}
		if t.Numbers.Mark.ESL > 2 {
			errs = append(errs, fmt.Sprintf("tech %s: ESL must be 0..2", t.Ident))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
