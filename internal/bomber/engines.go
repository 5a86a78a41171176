package bomber

import (
	"math"

	"github.com/ec429/hbuilder/internal/tech"
)

func (r *run) engines() error {
	b, tn := r.b, r.tn
	e := &b.Engines

	if e.Type == nil {
		return fail(FailBadEnum, "no engine type")
	}
	mount := e.Mounted()
	if e.Type.SCL < 0 || e.Type.SCL > 3 {
		return fail(FailBadEnum, "%s supercharger class %d", e.Type.Ident, e.Type.SCL)
	}
	if e.Number < 1 {
		r.errorf("Bomber must have at least one engine!")
	}
	if r.u != nil && !r.u.EngineUnlocked(e.Type.Ident) {
		r.errorf("%s not developed yet!", e.Type.Name)
	}
	if e.Type != mount && e.Type.Ident != mount.Upgrade {
		r.errorf("%s cannot be fitted to %s mounts!", e.Type.Name, mount.Name)
	}
	if r.refit(tech.Mark) && e.Number != r.p.Engines.Number {
		r.errorf("Cannot change number of engines in a refit!")
	}
	if r.refit(tech.Mod) {
		if mount != r.p.Engines.Mounted() {
			r.errorf("Cannot change engine mounts in a Mod!")
		}
		if e.Egg != r.p.Engines.Egg {
			r.errorf("Cannot add or remove Power Eggs in a Mod!")
		}
	}
	if r.refit(tech.Doctrine) && e.Type != r.p.Engines.Type {
		r.errorf("Cannot change engines in a Doctrine refit!")
	}

	ees, eet, eec := 1.0, 1.0, 1.0
	e.Odd = e.Number&1 == 1
	e.ManuMatch = b.Manf.EngineMaker != "" && b.Manf.EngineMaker == e.Type.Maker
	if e.Egg {
		if tn.Mark.EES == 0 || tn.Mark.EET == 0 || tn.Mark.EEC == 0 {
			r.errorf("Power Egg mounts not developed yet!")
		}
		ees, eet, eec = pct(tn.Mark.EES), pct(tn.Mark.EET), pct(tn.Mark.EEC)
	}

	n := float64(e.Number)
	fai := float64(e.Type.FAI) / 1000
	e.PowerFactor = n
	if e.Odd {
		e.PowerFactor -= 0.1
	}
	e.Vuln = float64(e.Type.VUL) / 100
	e.Rely1 = 1 - math.Pow(1-fai, n)
	if e.Number > 1 {
		e.Rely2 = e.Rely1 - n*fai*math.Pow(1-fai, n-1)
	} else {
		e.Rely2 = e.Rely1
	}
	e.Serv = 1 - math.Pow(1-float64(e.Type.SVC)/1000*ees, n)
	e.Cost = n * float64(e.Type.COS) * eec * (1 + 0.5*pct(tn.Mark.EMC))
	if e.Number > 3 {
		e.Cost *= pct(tn.Mark.G4C)
		if tn.Mark.G4C == 0 || tn.Mark.G4T == 0 {
			r.errorf("Four-engined bombers not developed yet!")
		}
	}
	e.SCL = e.Type.SCL
	e.FuelRate = n * float64(e.Type.BHP) * 0.36

	mounts := 220 * n
	if e.Odd {
		mounts -= 55
	}
	if e.Number > 3 {
		mounts += float64(tn.Mark.G4T) * float64(e.Number/2-1)
	}
	if e.ManuMatch {
		mounts *= 0.8
	}
	e.Tare = n*float64(e.Type.TWT)*eet + mounts
	e.Drag = n * float64(e.Type.DRG) * pct(tn.Mark.EDF)
	return nil
}
