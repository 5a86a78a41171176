package bomber

import (
	"math"

	"github.com/ec429/hbuilder/internal/tech"
)

func (r *run) tanks() error {
	b, tn := r.b, r.tn
	t := &b.Tanks

	if t.Pct > 100 {
		r.errorf("Tanks cannot be filled beyond 100%%!")
	}
	if r.refit(tech.Doctrine) && (t.HLB != r.p.Tanks.HLB || t.SST != r.p.Tanks.SST) {
		r.errorf("Cannot change fuel tanks in a Doctrine refit!")
	}

	t.Cap = float64(t.HLB) * 100
	t.Mass = t.Cap * float64(t.Pct) / 100
	t.Hours = 0
	if b.Engines.FuelRate > 0 {
		t.Hours = t.Mass / b.Engines.FuelRate
	}
	t.Tare = t.Cap * float64(tn.Mark.FUT) / 1000
	t.Cost = t.Tare * pct(tn.Mark.FUC)
	// Wing thickness scales with chord, so volume goes as area * chord.
	t.Ratio = t.Mass * 1.45 / math.Max(float64(b.Wing.Area)*b.Wing.Chord, 1)
	if t.Ratio > pick(t.SST, 2.5, 2.0) {
		r.warnf("Wing is crammed with fuel, vulnerability high.")
	}
	t.Vuln = t.Ratio * float64(tn.Mark.FUV) / 400
	if t.SST {
		if tn.Mod.SFT == 0 || tn.Mod.SFC == 0 || tn.Mod.SFV == 0 {
			r.errorf("Self sealing tanks not developed yet!")
		}
		t.Tare *= pct(tn.Mod.SFT)
		t.Cost *= pct(tn.Mod.SFC)
		t.Vuln *= pct(tn.Mod.SFV)
	}
	if b.Fuse.Type == tech.FuseGeodetic {
		t.Vuln *= pct(tn.Mark.FGV)
	}
	return nil
}
