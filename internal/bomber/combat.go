package bomber

import "math"

func (r *run) rely() error {
	b := r.b
	b.Serv = 1 - (b.Engines.Serv*6 + b.Turrets.Serv + b.Fuse.Serv + float64(b.Manf.SVP)/100)
	b.Fail = b.Engines.Rely1*2 + b.Engines.Rely2*30 + b.Fuse.Fail
	if b.Crew.Engineers > 0 {
		b.Fail *= 0.9 / b.Crew.ES
	}
	return nil
}

func (r *run) combat() error {
	b := r.b

	b.RollPen = math.Pow(b.Wing.AR, 0.8) * 0.7
	b.TurnPen = math.Sqrt(math.Max(b.Wing.WL-float64(b.Manf.TPL), 0))
	b.ManuPen = b.RollPen + b.TurnPen
	b.EvadeFactor = math.Max(30-b.Ceiling, 3) / 10 *
		math.Sqrt(math.Max(350-b.CruiseSpd, 30)/1.7) *
		(1 - 0.3/math.Max(b.ManuPen-4.5, 0.5))
	b.Vuln = (b.Engines.Vuln+b.Fuse.Vuln)*math.Max(3.8-math.Sqrt(b.Crew.DC), 1) +
		b.Tanks.Vuln
	b.FlakFactor = b.Vuln * 3 * math.Sqrt(math.Max(30-b.Ceiling, 3))

	// Lower is better for the turret rate, so a gunner shortfall scales it up.
	sgf := math.Max(float64(b.Turrets.NeedGunners+1)/float64(b.Crew.Gunners+1), 1)
	for sch := range b.FightFactor {
		b.FightFactor[sch] = math.Pow(b.EvadeFactor, 0.7) *
			(b.Vuln*4 + b.Turrets.Rate[sch]*sgf) / 3
		b.Defn[sch] = b.FightFactor[sch] + b.FlakFactor
	}

	// BN 1.45 gives .24; 210 mph .124; High electrics .17.
	b.Accu = math.Sqrt(b.Crew.BN)*b.Crew.ES*0.2 +
		math.Pow(math.Max(b.CruiseSpd, 0), 0.6)/200 +
		math.Sqrt(1+float64(b.Elec.ESL))*0.12 +
		pick(b.Bay.CSBS, 0.12, 0)
	return nil
}
