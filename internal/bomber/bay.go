package bomber

import "github.com/ec429/hbuilder/internal/tech"

var girthNames = [tech.GirthCount]string{"small bombs", "medium bombs", "cookies"}

func (r *run) bombBay() error {
	b, tn := r.b, r.tn
	a := &b.Bay

	if a.Girth < 0 || a.Girth >= tech.GirthCount {
		r.errorf("Nonexistent bombbay girth!")
		return fail(FailBadEnum, "bay girth %d", a.Girth)
	}
	if tn.Core.BT[a.Girth] == 0 {
		r.errorf("Bay for %s not developed yet!", girthNames[a.Girth])
	}
	if a.CSBS && tn.Mod.CSB == 0 {
		r.errorf("Course-Setting Bomb Sight not developed yet!")
	}
	if a.Load > a.Cap {
		r.errorf("Bomb load %d lb exceeds bay capacity %d lb!", a.Load, a.Cap)
	}
	if r.refit(tech.Mark) && a.Girth != r.p.Bay.Girth {
		r.errorf("Cannot change bay girth in a refit!")
	}
	if r.refit(tech.Mod) && a.Cap != r.p.Bay.Cap {
		r.errorf("Cannot change bay capacity in a Mod!")
	}
	if r.refit(tech.Doctrine) && a.CSBS != r.p.Bay.CSBS {
		r.errorf("Cannot change bombsight in a Doctrine refit!")
	}

	threshold := float64(tn.Core.BBB+uint32(max(b.Manf.BBB, 0))) * 1000
	a.Factor = float64(tn.Core.BT[a.Girth]) / 1000 * float64(b.Manf.BT[a.Girth]) / 100
	a.BigFactor = 0
	if capacity := float64(a.Cap); capacity > threshold {
		bbf := tn.Core.BBF
		if bbf == 0 {
			r.errorf("Bomb bay too large for current structures!")
			bbf = 1
		}
		a.BigFactor = (capacity - threshold) / (float64(bbf) * 1e5)
	}
	a.Tare = float64(a.Cap)*(a.Factor+a.BigFactor) + pick(a.CSBS, 90, 20)
	a.Cost = pick(a.CSBS, 1200, 0)
	a.Cookie = a.Girth == tech.GirthCookie ||
		(a.Girth == tech.GirthMedium && tn.Doctrine.BMC != 0)
	return nil
}
