package bomber

import (
	"github.com/ec429/hbuilder/internal/catalog"
	"github.com/ec429/hbuilder/internal/tech"
)

var eslNames = [ESLCount]string{"Low", "High", "Stable"}

type navAid struct {
	name string
	esl  int
	cost float64
}

var navAids = [tech.NavCount]navAid{
	tech.NavGee:  {"Gee", ESLHigh, 300},
	tech.NavH2S:  {"H2S", ESLStable, 1500},
	tech.NavOboe: {"Oboe", ESLHigh, 450},
}

func (r *run) electrics() error {
	b, tn := r.b, r.tn
	e := &b.Elec

	if e.ESL < 0 || e.ESL >= ESLCount {
		r.errorf("Nonexistent electric supply level!")
		return fail(FailBadEnum, "electric supply level %d", e.ESL)
	}
	if uint32(e.ESL) > tn.Mark.ESL {
		r.errorf("Electrics %s not developed yet!", eslNames[e.ESL])
	}
	if r.refit(tech.Doctrine) && (e.ESL != r.p.Elec.ESL || e.NavAids != r.p.Elec.NavAids) {
		r.errorf("Cannot change electrics in a Doctrine refit!")
	}

	n := float64(max(b.Engines.Number, 1))
	switch e.ESL {
	case ESLLow:
		e.Cost = 90
	case ESLHigh:
		e.Cost = 600 / n
	case ESLStable:
		e.Cost = pick(b.Fuse.Type == tech.FuseSlender, 1200, 900) + 500/n
	}

	e.NavCost = 0
	for i, on := range e.NavAids {
		if !on {
			continue
		}
		aid := navAids[i]
		if tn.Mod.NA[i] == 0 {
			r.errorf("%s not developed yet!", aid.name)
		}
		if e.ESL < aid.esl {
			r.errorf("%s needs %s electrics!", aid.name, eslNames[aid.esl])
		}
		if i == tech.NavH2S && b.Turrets.Prepared(catalog.LocVentral) != nil {
			r.errorf("H2S scanner conflicts with ventral turret mount!")
		}
		e.NavCost += aid.cost
	}
	return nil
}
