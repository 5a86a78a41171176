package bomber

import (
	"math"

	"github.com/ec429/hbuilder/internal/tech"
)

// Ceiling search: 500 ft bands, bounded step count, climb-rate floor.
const (
	ceilingSteps = 70
	ceilingFloor = 520.0 // ft/min
)

// enginePower returns the installed horsepower at alt (thousands of ft).
func enginePower(e *Engines, alt float64) float64 {
	if e.Type == nil {
		return 0
	}
	mfth, ffth, scp := 10.25, 16.0, 0.02
	var msp, fsp float64
	switch e.SCL {
	case 0:
		mfth = 0
	case 3:
		mfth, ffth, scp = 12, 21, 0.06
	}
	msp = math.Exp(math.Min(mfth-alt, 0) / 25.1)
	if e.SCL >= 2 {
		fsp = math.Exp(math.Min(ffth-alt, 0)/25.1) - scp
	}
	return e.PowerFactor * float64(e.Type.BHP) * math.Max(msp, fsp)
}

// minSpeed is the minimum flying speed (mph) for lift lb at alt.
func minSpeed(w *Wing, lift, alt float64) float64 {
	rho := 0.0075 * math.Exp(-alt/25.1)
	return math.Sqrt(lift*2/(w.CL*rho*math.Max(float64(w.Area), 1))) * 15 / 22
}

// climbRate is in ft/min at alt.
func climbRate(b *Bomber, alt float64) float64 {
	gross := math.Max(b.Gross, 1)
	v := minSpeed(&b.Wing, gross, alt)
	lpwr := b.Drag * v / 375
	cpwr := (enginePower(&b.Engines, alt) - lpwr) * 0.52
	return cpwr * 33e3 / gross
}

// airspeed solves v·WD + v²·NWD/200 = 375·P for the positive root.
// Non-wing drag is normalised to 200 mph and scaled linearly in v.
func airspeed(b *Bomber, alt float64) float64 {
	pwr := enginePower(&b.Engines, alt)
	wd := b.Wing.Drag
	a := (b.Drag - wd) / 200
	c := -pwr * 375
	if a <= 0 {
		if wd <= 0 {
			return 0
		}
		return -c / wd
	}
	m := math.Sqrt(wd*wd - 4*a*c)
	return (m - wd) / (2 * a)
}

func (r *run) ceiling() {
	b := r.b
	var (
		alt int
		tim float64 // minutes
	)
	for alt = 0; alt <= ceilingSteps; alt++ {
		c := climbRate(b, float64(alt)*0.5)
		if c < ceilingFloor {
			break
		}
		if tim > float64(r.tn.Doctrine.CLT) {
			break
		}
		tim += 500 / c
	}
	b.Ceiling = float64(alt) * 0.5
}

func (r *run) perf() error {
	b, tn := r.b, r.tn

	b.Tare = b.CoreTare + b.Fuse.Tare + b.Tanks.Tare +
		b.Wing.Tare*pct(tn.Core.FWT) +
		b.Engines.Tare*pct(tn.Core.ETF)
	b.Gross = b.Tare + b.Tanks.Mass + b.Turrets.Ammo + b.Crew.Gross + float64(b.Bay.Load)
	b.Overgross = b.Tare + b.Tanks.Cap + b.Turrets.Ammo + b.Crew.Gross + float64(b.Bay.Cap)

	switch {
	case r.refit(tech.Mod):
		b.MTOW = r.p.MTOW
		if b.Gross > float64(b.MTOW) {
			r.errorf("Gross weight %.0f lb exceeds airframe limit %d lb!", b.Gross, b.MTOW)
		}
	case b.UserMTOW:
		if b.Gross > float64(b.MTOW) {
			r.errorf("Gross weight %.0f lb exceeds stated maximum %d lb!", b.Gross, b.MTOW)
		}
	default:
		b.MTOW = int(math.Ceil(b.Gross))
	}

	b.Wing.WL = b.Gross / math.Max(float64(b.Wing.Area), 1)
	b.Wing.Drag = b.Gross / math.Max(b.Wing.LD, 1)
	b.Fuse.Drag = math.Sqrt(math.Max(b.Tare-b.Wing.Tare, 0)) *
		float64(b.Manf.FD[b.Fuse.Type]) / 100 *
		float64(tn.Mark.FD[b.Fuse.Type]) / 10
	b.Drag = b.Wing.Drag + b.Fuse.Drag + b.Engines.Drag + b.Turrets.Drag

	b.TakeoffSpd = minSpeed(&b.Wing, b.Gross, 0) * 1.6
	if b.TakeoffSpd > 120 {
		r.errorf("Take-off speed is dangerously high!")
	} else if b.TakeoffSpd > 110 {
		r.warnf("Take-off speed is worryingly high.")
	}
	r.runway()

	r.ceiling()
	b.CruiseAlt = math.Min(b.Ceiling, 10) + math.Max(b.Ceiling-10, 0)/2
	b.CruiseSpd = airspeed(b, b.CruiseAlt)
	b.InitClimb = climbRate(b, 0)
	if b.InitClimb < 400 {
		r.errorf("Design can barely take off!")
	} else if b.InitClimb < 640 {
		r.warnf("Climb rate is very slow.")
	}
	b.DeckSpd = airspeed(b, 0)
	b.Ferry = b.Tanks.Hours * b.CruiseSpd
	b.Range = math.Max(b.Ferry*0.6-150, 0)
	if b.Range < 300 {
		r.errorf("Range is far too low!")
	} else if b.Range < 500 {
		r.warnf("Range is on the low side.")
	}
	return nil
}

// runway checks take-off speed and weight against grass and concrete
// airfield limits. A zero limit is not checked.
func (r *run) runway() {
	b, d := r.b, r.tn.Doctrine
	if d.RGS == 0 && d.RGG == 0 && d.RCS == 0 && d.RCG == 0 {
		return
	}
	within := func(spd, wt uint32) bool {
		return (spd == 0 || b.TakeoffSpd <= float64(spd)) &&
			(wt == 0 || b.Gross <= float64(wt))
	}
	if within(d.RGS, d.RGG) {
		return
	}
	if (d.RCS != 0 || d.RCG != 0) && within(d.RCS, d.RCG) {
		r.warnf("Design needs concrete runways.")
		return
	}
	r.warnf("Design is too heavy for any airfield!")
}
