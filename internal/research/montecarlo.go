package research

import (
	"math"
	"sort"

	"github.com/ec429/hbuilder/internal/catalog"
)

// Stats summarises when one tech gets researched, in months after the
// timeline start. Samples where the tech was never researched are counted
// in Never and excluded from the other fields.
type Stats struct {
	Mean   float64
	StdDev float64
	P50    float64
	P90    float64
	Never  float64 // fraction of trials
}

// calcStats computes mean/stddev/percentiles for integer samples.
func calcStats(xs []int, trials int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{Never: 1}
	}
	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	mean := sum / float64(n)

	// variance (population)
	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}

	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		if n == 1 {
			return float64(cp[0])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return float64(cp[i])
		}
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}

	return Stats{
		Mean:   mean,
		StdDev: math.Sqrt(acc / float64(n)),
		P50:    percentile(0.50),
		P90:    percentile(0.90),
		Never:  float64(trials-n) / float64(trials),
	}
}

// RunMonteCarlo simulates trials timelines from one seeded RNG and returns
// per-tech statistics keyed by ident.
func RunMonteCarlo(cat *catalog.Catalog, p TimelineParams, trials int, rng RandomSource) map[string]Stats {
	if trials <= 0 {
		return nil
	}
	samples := make(map[string][]int, len(cat.Techs))
	for i := 0; i < trials; i++ {
		tl := Simulate(cat, p, rng)
		for _, id := range tl.Start {
			samples[id] = append(samples[id], 0)
		}
		for _, ev := range tl.Events {
			months := (ev.Year-p.StartYear)*12 + ev.Month - p.StartMonth
			samples[ev.Tech] = append(samples[ev.Tech], months)
		}
	}
	out := make(map[string]Stats, len(cat.Techs))
	for _, t := range cat.Techs {
		out[t.Ident] = calcStats(samples[t.Ident], trials)
	}
	return out
}
