package research

import (
	"github.com/ec429/hbuilder/internal/catalog"
)

// TimelineParams controls a simulated research schedule.
type TimelineParams struct {
	// Techs dated before StartYear (or undated) are known at the start.
	StartYear  int
	StartMonth int // the first simulated month is the one after this
	EndYear    int
	EndMonth   int // inclusive
	// SkipProb is the chance that a month with something available
	// produces nothing.
	SkipProb float64
	// From LookaheadMonth onward, a month with nothing available for the
	// current year looks at next year's techs with LookaheadProb.
	LookaheadMonth int
	LookaheadProb  float64
}

// DefaultTimeline runs from October 1939 to May 1945.
func DefaultTimeline() TimelineParams {
	return TimelineParams{
		StartYear:      1939,
		StartMonth:     9,
		EndYear:        1945,
		EndMonth:       5,
		SkipProb:       0.3,
		LookaheadMonth: 7,
		LookaheadProb:  0.3,
	}
}

// Event is one tech researched in a given month.
type Event struct {
	Year  int
	Month int
	Tech  string
}

// Timeline is the result of one simulated schedule.
type Timeline struct {
	Start        []string // known from the outset
	Events       []Event
	Unresearched []string
}

// Simulate researches at most one tech per month, choosing uniformly among
// techs whose requirements are met and whose year has come.
func Simulate(cat *catalog.Catalog, p TimelineParams, rng RandomSource) Timeline {
	if rng == nil {
		rng = DefaultRNG()
	}
	have := make(map[string]bool, len(cat.Techs))
	var tl Timeline
	for _, t := range cat.Techs {
		if t.Year == 0 || t.Year < p.StartYear {
			have[t.Ident] = true
			tl.Start = append(tl.Start, t.Ident)
		}
	}

	reqsMet := func(t *catalog.Tech) bool {
		for _, r := range t.Requires {
			if !have[r] {
				return false
			}
		}
		return true
	}
	dueBy := func(year int) []*catalog.Tech {
		var out []*catalog.Tech
		for _, t := range cat.Techs {
			if !have[t.Ident] && t.Year <= year && reqsMet(t) {
				out = append(out, t)
			}
		}
		return out
	}

	y, m := p.StartYear, p.StartMonth
	for y < p.EndYear || (y == p.EndYear && m < p.EndMonth) {
		if m++; m > 12 {
			y++
			m -= 12
		}
		avail := dueBy(y)
		if len(avail) == 0 {
			if m < p.LookaheadMonth || rng.Float64() >= p.LookaheadProb {
				continue
			}
			avail = dueBy(y + 1)
		} else if rng.Float64() < p.SkipProb {
			continue
		}
		if len(avail) == 0 {
			continue
		}
		t := avail[pick(rng, len(avail))]
		have[t.Ident] = true
		tl.Events = append(tl.Events, Event{Year: y, Month: m, Tech: t.Ident})
	}

	for _, t := range cat.Techs {
		if !have[t.Ident] {
			tl.Unresearched = append(tl.Unresearched, t.Ident)
		}
	}
	return tl
}

// UnlockedBy returns the unlock set as of the end of the given month.
func (tl Timeline) UnlockedBy(year, month int) map[string]bool {
	out := make(map[string]bool, len(tl.Start)+len(tl.Events))
	for _, id := range tl.Start {
		out[id] = true
	}
	for _, ev := range tl.Events {
		if ev.Year < year || (ev.Year == year && ev.Month <= month) {
			out[ev.Tech] = true
		}
	}
	return out
}
