package bomber

import "github.com/ec429/hbuilder/internal/tech"

func (r *run) fuselage() error {
	b, tn := r.b, r.tn
	f := &b.Fuse
	act := float64(b.Manf.ACT) / 100

	b.CoreTare = (b.Turrets.Tare + b.Crew.Tare + b.Bay.Tare) * act
	b.CoreMTare = (b.Turrets.MTare + b.Crew.Tare + b.Bay.Tare) * act
	if f.Type < 0 || f.Type >= tech.FuseCount {
		r.errorf("Nonexistent fuselage type!")
		return fail(FailBadEnum, "fuselage type %d", f.Type)
	}
	if f.Type == tech.FuseGeodetic && !b.Manf.Geodetic {
		r.errorf("This manufacturer cannot design geodetics!")
	}
	if r.refit(tech.Mark) && f.Type != r.p.Fuse.Type {
		r.errorf("Cannot change fuselage type in a refit!")
	}
	if r.refit(tech.Mod) && b.Manf != r.p.Manf {
		r.errorf("Cannot change manufacturer in a Mod!")
	}

	// Structure is sized for the prepared mounts, not what is fitted.
	f.Tare = b.CoreMTare * pct(tn.Mark.FT[f.Type]) * float64(b.Manf.FT[f.Type]) / 100
	f.Serv = float64(tn.Mark.FS[f.Type]) / 1000
	f.Fail = float64(tn.Mark.FF[f.Type]) / 1000
	f.Cost = f.Tare * 1.2 * float64(b.Manf.ACC) / 100 * pct(tn.Mark.FC[f.Type])
	f.Vuln = pct(tn.Mark.FV[f.Type])
	// Drag needs the total tare; see perf.
	return nil
}
