package bomber

import (
	"math"

	"github.com/ec429/hbuilder/internal/tech"
)

func (r *run) wing() error {
	b, tn := r.b, r.tn
	w := &b.Wing

	if r.refit(tech.Mark) && (w.Area != r.p.Wing.Area || w.Art != r.p.Wing.Art) {
		r.errorf("Cannot change wing in a refit!")
	}
	w.AR = float64(w.Art) / 10
	// Every sqrt and pow below needs a sane aspect ratio.
	if w.AR < 1.0 {
		r.errorf("Wing aspect ratio too low!")
		return fail(FailAspectRatio, "aspect ratio %.1f", w.AR)
	}
	area := float64(w.Area)
	w.Span = math.Sqrt(area * w.AR)
	w.Chord = math.Sqrt(area / w.AR)
	w.CL = math.Pi * math.Pi / 6 / (1 + 2/w.AR)
	w.LD = math.Pi * math.Sqrt(w.AR) * pct(tn.Mark.WLD) * float64(b.Manf.WLD) / 100

	four := b.Engines.Number > 3
	arpen := math.Sqrt(math.Max(w.AR, float64(b.Manf.WAP))) / 6
	epen := 1.0
	if four {
		epen = float64(b.Manf.WT4) / 100
	}
	w.Tare = math.Pow(w.Span, pct(tn.Core.WTS)) *
		math.Pow(w.Chord, pct(tn.Core.WTC)) *
		pct(tn.Core.WTF) * arpen * epen

	arpen = math.Max(w.AR, 6) / 6
	epen = 1.0
	if four {
		epen = float64(b.Manf.WC4) / 100
	}
	w.Cost = math.Pow(w.Tare, float64(b.Manf.WCP)/100) *
		pct(tn.Core.WCF) * float64(b.Manf.WCF) / 100 *
		arpen * epen / 12
	// WL and Drag need the gross weight; see perf.
	return nil
}
