package bomber

import (
	"github.com/ec429/hbuilder/internal/catalog"
	"github.com/ec429/hbuilder/internal/tech"
)

// coverRate is the base defensive-fire weight of each direction.
var coverRate = [catalog.CoverCount]float64{
	catalog.CoverFront:    1,
	catalog.CoverBeamHigh: 2,
	catalog.CoverBeamLow:  1,
	catalog.CoverTailHigh: 2,
	catalog.CoverTailLow:  3,
	catalog.CoverBeneath:  3,
}

func (r *run) turrets() error {
	b, tn := r.b, r.tn
	t := &b.Turrets

	t.NeedGunners = 0
	t.Drag, t.Tare, t.MTare, t.Ammo, t.Cost = 0, 0, 0, 0, 0
	t.Coverage = [catalog.CoverCount]float64{}
	unserv := 1.0

	if t.Type[catalog.LocNose] != nil && b.Engines.Odd {
		r.errorf("Turret in nose position conflicts with engine!")
	}
	for loc := catalog.LocNose; loc < catalog.LocCount; loc++ {
		g, mount := t.Type[loc], t.Prepared(loc)

		if mount != nil {
			if mount.Location != loc {
				r.errorf("%s mount cannot be prepared in %s position!", mount.Name, loc)
			}
			t.MTare += float64(mount.TWT) * pct(tn.Mark.GTF)
		}
		if r.refit(tech.Mod) && mount != r.p.Turrets.Prepared(loc) {
			r.errorf("Cannot prepare new turret mounts in a Mod (%s)!", loc)
		}
		if r.refit(tech.Doctrine) && g != r.p.Turrets.Type[loc] {
			r.errorf("Cannot change turrets in a Doctrine refit (%s)!", loc)
		}
		if g == nil {
			continue
		}
		if g.Location != loc {
			r.errorf("%s cannot be fitted in %s position!", g.Name, loc)
		}
		if mount.TWT < g.TWT {
			r.errorf("%s mount is too light for %s!", mount.Name, g.Name)
		}
		if r.u != nil && !r.u.TurretUnlocked(g.Ident) {
			r.errorf("%s not developed yet!", g.Name)
		}
		if g.Slab && b.Fuse.Type != tech.FuseSlabby {
			r.errorf("%s requires slab-sided fuselage!", g.Name)
		}
		if g.ESL > b.Elec.ESL {
			r.errorf("%s needs better electrics!", g.Name)
		}

		t.NeedGunners++
		t.Drag += float64(g.DRG) * float64(tn.Mark.GDF)
		tare := float64(g.TWT) * pct(tn.Mark.GTF)
		t.Tare += tare
		t.Ammo += float64(g.Guns) * float64(tn.Mod.GAM)
		unserv *= 1 - float64(g.SRV)/1000
		t.Cost += 3*tare + float64(g.Guns)*float64(tn.Mark.GCF)/10 + float64(g.Guns)*float64(tn.Mod.GAC)/10
		for d := range t.Coverage {
			t.Coverage[d] += float64(g.Coverage[d]) / 10
		}
	}
	t.Serv = 1 - unserv

	t.Rate = [2]float64{}
	for d, cov := range t.Coverage {
		x := coverRate[d] * r.curve.Apply(cov)
		if catalog.Direction(d) != catalog.CoverBeneath {
			t.Rate[0] += x
		}
		t.Rate[1] += x
	}

	if t.NeedGunners == 0 && uint32(max(b.Engines.Number, 0)) > tn.Core.UBL {
		r.warnf("Unarmed bomber with %d engines is a sitting duck.", b.Engines.Number)
	}
	return nil
}
