package bomber

import (
	"github.com/ec429/hbuilder/internal/catalog"
	"github.com/ec429/hbuilder/internal/tech"
)

// canOperate reports whether a dual-role crewman of class c may man g.
func canOperate(c CrewClass, g *catalog.Turret) bool {
	switch c {
	case Pilot:
		return g.OCP
	case Navigator:
		return g.OCN
	case BombAimer:
		return g.OCB
	}
	return false
}

func (r *run) crew() error {
	b, tn := r.b, r.tn
	c := &b.Crew

	c.Gunners, c.Engineers = 0, 0
	c.Pilot, c.Nav = false, false
	c.DC, c.BN = 0, 0
	b.Turrets.Manned = [catalog.LocCount]bool{}

	if len(c.Men) > MaxCrew {
		r.errorf("Crew of %d is too large (max %d)!", len(c.Men), MaxCrew)
	}
	for i, m := range c.Men {
		if m.Class < 0 || m.Class >= CrewClasses {
			return fail(FailBadEnum, "crew class %d at %d", int(m.Class), i+1)
		}
		switch m.Class {
		case Pilot:
			c.Pilot = true
		case Navigator:
			c.Nav = true
			c.BN += pick(m.Gun, 0.75, 1.0)
		case BombAimer:
			c.BN += pick(m.Gun, 0.45, 0.6)
		case Wireless:
			c.DC += pick(m.Gun, 0.45, 0.6)
			// Radionavigation by pre-Gee methods such as beams.
			if b.Elec.ESL >= ESLHigh {
				c.BN += pick(m.Gun, 0.15, 0.2)
			}
		case Engineer:
			c.Engineers++
			c.DC += pick(m.Gun, 0.75, 1.0)
		}

		switch {
		case m.Class == Gunner:
			c.Gunners++
		case !m.Gun:
		case m.Class == Wireless:
			c.Gunners++
		case m.Class == Engineer:
			r.errorf("Engineer cannot dual-role as gunner!")
		default:
			if r.assignTurret(m.Class) {
				c.Gunners++
			} else {
				r.warnf("No turrets found for %s to dual-role operate.", m.Class)
			}
		}
	}
	if !c.Pilot {
		r.errorf("Crew must include a pilot!")
	}
	if !c.Nav {
		r.errorf("Crew must include a navigator!")
	}
	if c.Gunners < b.Turrets.NeedGunners {
		r.warnf("Fewer gunners than turrets, defence will be weakened.")
	}

	if r.refit(tech.Mod) {
		have, was := c.Count(), r.p.Crew.Count()
		for k := CrewClass(0); k < CrewClasses; k++ {
			switch {
			case r.refit(tech.Doctrine) && have[k] != was[k]:
				r.errorf("Cannot change number of %ss in a Doctrine refit!", k)
			case have[k] > was[k]:
				r.errorf("Cannot add %s positions in a Mod!", k)
			}
		}
	}

	// Incidentals were paid for the airframe's original crew and are not
	// recovered by removing men later.
	n := max(len(c.Men), len(b.LineageRoot().Crew.Men))
	c.Tare = float64(n) * float64(tn.Mod.CMI)
	c.Gross = float64(len(c.Men)) * 168
	c.CCT = c.Tare * (pct(tn.Mod.CCC) - 1)
	c.ES = pct(tn.Mod.CES)
	if tn.Mod.CES == 0 {
		c.ES = 1
	}
	return nil
}

// assignTurret gives the first free turret this class can operate to a
// dual-role crewman.
func (r *run) assignTurret(c CrewClass) bool {
	t := &r.b.Turrets
	for loc := catalog.LocNose; loc < catalog.LocCount; loc++ {
		g := t.Type[loc]
		if g == nil || t.Manned[loc] || !canOperate(c, g) {
			continue
		}
		t.Manned[loc] = true
		return true
	}
	return false
}

func pick(cond bool, yes, no float64) float64 {
	if cond {
		return yes
	}
	return no
}
