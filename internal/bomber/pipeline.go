package bomber

import (
	"fmt"
	"math"

	"github.com/ec429/hbuilder/internal/tech"
)

// CurveForm selects the coverage diminishing-returns law.
type CurveForm string

const (
	CurveQuadratic CurveForm = "quadratic" // k/(k+c²)
	CurveLinear    CurveForm = "linear"    // 1/(1+c)
)

// Curve turns a coverage score into a fire-rate multiplier in (0, 1].
type Curve struct {
	Form CurveForm
	K    float64
}

// DefaultCurve is the quadratic curve with k=3.
func DefaultCurve() Curve { return Curve{Form: CurveQuadratic, K: 3} }

// Apply returns the multiplier for a coverage score; negative scores count
// as zero.
func (c Curve) Apply(cov float64) float64 {
	cov = math.Max(cov, 0)
	if c.Form == CurveLinear {
		return 1 / (1 + cov)
	}
	k := c.K
	if k <= 0 {
		k = 3
	}
	return k / (k + cov*cov)
}

// Calculator runs the pipeline. The zero value is not usable; see
// NewCalculator.
type Calculator struct {
	curve    Curve
	capacity int
}

// Option configures a Calculator.
type Option func(*Calculator)

func WithCurve(c Curve) Option { return func(k *Calculator) { k.curve = c } }
func WithDiagCapacity(n int) Option { return func(k *Calculator) { k.capacity = n } }

// NewCalculator returns a Calculator with the default curve and
// diagnostic capacity, then applies opts.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{curve: DefaultCurve(), capacity: DefaultCapacity}
	for _, o := range opts {
		o(c)
	}
	if c.capacity <= 0 {
		c.capacity = DefaultCapacity
	}
	return c
}

// Calculate resolves b's tech snapshot against the live catalog numbers
// and then runs the pipeline.
func (c *Calculator) Calculate(b *Bomber, live tech.Numbers, u Unlocks) error {
	r := c.newRun(b, u)
	if err := r.begin(); err != nil {
		return err
	}
	var parent *tech.Numbers
	if b.Parent != nil {
		parent = &b.Parent.Tech
	}
	tn, err := tech.Resolve(b.Refit, parent, live)
	if err != nil {
		return fmt.Errorf("resolve tech: %w", err)
	}
	b.Tech = tn
	return r.stages()
}

// Replay recomputes a stored design on the tech snapshot it was saved
// with, so its frozen blocks and MTOW are what its refits inherit. A
// record saved before its first calculation has no snapshot and is
// resolved against live instead.
func (c *Calculator) Replay(b *Bomber, live tech.Numbers, u Unlocks) error {
	if b.Tech.IsZero() {
		return c.Calculate(b, live, u)
	}
	return c.Run(b, u)
}

// run carries per-calculation state through the stages.
type run struct {
	diagBuffer
	b     *Bomber
	p     *Bomber // parent, nil when fresh
	tn    *tech.Numbers
	u     Unlocks
	curve Curve
}

func (c *Calculator) newRun(b *Bomber, u Unlocks) *run {
	return &run{
		diagBuffer: diagBuffer{b: b, cap: c.capacity},
		b:          b,
		p:          b.Parent,
		tn:         &b.Tech,
		u:          u,
		curve:      c.curve,
	}
}

// Run recomputes every derived field of b from its inputs and b.Tech.
// Design-rule violations become diagnostics; only structurally impossible
// designs return an error, which wraps a *Failure.
func (c *Calculator) Run(b *Bomber, u Unlocks) error {
	r := c.newRun(b, u)
	if err := r.begin(); err != nil {
		return err
	}
	return r.stages()
}

// begin clears the previous run's diagnostics and rejects designs no
// stage can start on.
func (r *run) begin() error {
	r.reset()
	b := r.b
	if !b.Refit.Valid() {
		return fail(FailBadEnum, "refit tier %d", int(b.Refit))
	}
	if b.Refit != tech.Fresh && b.Parent == nil {
		r.errorf("%s refit has no parent design!", b.Refit)
		return fail(FailNoParent, "%s refit", b.Refit)
	}
	if b.Manf == nil {
		return fail(FailBadEnum, "no manufacturer")
	}
	return nil
}

func (r *run) stages() error {
	for _, stage := range []struct {
		name string
		fn   func() error
	}{
		{"engines", r.engines},
		{"turrets", r.turrets},
		{"wing", r.wing},
		{"crew", r.crew},
		{"bay", r.bombBay},
		{"fuselage", r.fuselage},
		{"electrics", r.electrics},
		{"tanks", r.tanks},
		{"performance", r.perf},
		{"reliability", r.rely},
		{"combat", r.combat},
		{"cost", r.cost},
		{"development", r.dev},
	} {
		if err := stage.fn(); err != nil {
			return fmt.Errorf("%s: %w", stage.name, err)
		}
	}
	return nil
}

// refit reports whether b is at least the given tier (and so bound by its
// restrictions).
func (r *run) refit(t tech.Tier) bool {
	return r.p != nil && r.b.Refit >= t
}

func pct(v uint32) float64 { return float64(v) / 100 }
