package bomber

import (
	"math"

	"github.com/ec429/hbuilder/internal/catalog"
	"github.com/ec429/hbuilder/internal/tech"
)

func (r *run) cost() error {
	b, tn := r.b, r.tn

	b.CoreCost = (b.CoreTare + b.Crew.CCT) *
		float64(b.Manf.ACC) / 100 *
		pct(tn.Mark.CC[b.Fuse.Type]) *
		pick(b.Engines.Number > 2, 2, 1)
	// Structure stressed beyond what it carries costs more per pound.
	b.StressFactor = math.Pow(float64(b.MTOW)/2/math.Max(b.Tare, 1), 2)
	structure := (b.CoreCost + b.Bay.Cost + b.Fuse.Cost + b.Wing.Cost) * b.StressFactor
	b.Cost = b.Engines.Cost + b.Turrets.Cost + structure +
		b.Elec.Cost + b.Elec.NavCost + b.Tanks.Cost
	return nil
}

// Refit effort weights.
var refitBaseline = [tech.TierCount]float64{
	tech.Mark: 0.25,
	tech.Mod:  0.05,
}

const (
	effortEngine    = 1.0
	effortTurret    = 0.25
	effortCrew      = 0.1
	effortBombsight = 0.2
	effortESL       = 0.3
	effortNavAid    = 0.2
	effortTanks     = 0.2
)

// effort measures the new engineering in a refit relative to its parent.
func (r *run) effort() float64 {
	b, p := r.b, r.p
	e := refitBaseline[b.Refit]
	if b.Engines.Type != p.Engines.Type {
		e += effortEngine
	}
	for loc := catalog.LocNose; loc < catalog.LocCount; loc++ {
		if b.Turrets.Type[loc] != p.Turrets.Type[loc] {
			e += effortTurret
		}
	}
	if added := len(b.Crew.Men) - len(p.Crew.Men); added > 0 {
		e += effortCrew * float64(added)
	}
	if b.Bay.CSBS && !p.Bay.CSBS {
		e += effortBombsight
	}
	if gained := b.Elec.ESL - p.Elec.ESL; gained > 0 {
		e += effortESL * float64(gained)
	}
	for i, on := range b.Elec.NavAids {
		if on && !p.Elec.NavAids[i] {
			e += effortNavAid
		}
	}
	if b.Tanks.HLB > p.Tanks.HLB {
		e += effortTanks
	}
	return e
}

func (r *run) dev() error {
	b := r.b
	bof := float64(max(b.Manf.BOF, 1))
	og := math.Max(b.Overgross, 0)
	cost := math.Max(b.Cost, 0)

	b.TProto = math.Pow(og, 0.3) * math.Pow(cost, 0.2) * 100 / bof
	b.TProd = math.Pow(og, 0.4) * math.Pow(cost, 0.2) * 60 / bof
	b.CProto = cost * 15
	b.CProd = cost * 30
	if b.Refit == tech.Fresh || r.p == nil {
		return nil
	}

	scale := math.Sqrt(r.effort())
	b.TProto *= scale
	b.CProto *= scale
	switch b.Refit {
	case tech.Mod:
		b.TProd *= scale
		b.CProd *= scale
	case tech.Doctrine:
		b.TProd, b.CProd = 0, 0
	}
	return nil
}
