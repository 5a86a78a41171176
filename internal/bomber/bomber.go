// Package bomber holds the design model and the calculation pipeline that
// derives every performance, cost and schedule figure from it.
package bomber

import (
	"errors"

	"github.com/ec429/hbuilder/internal/catalog"
	"github.com/ec429/hbuilder/internal/tech"
)

// Electric supply levels.
const (
	ESLLow = iota
	ESLHigh
	ESLStable

	ESLCount
)

// MaxCrew bounds the crew roster.
const MaxCrew = 16

var ErrBadRefit = errors.New("refit tier must be mark, mod or doctrine")

// Unlocks answers the per-item gating questions the pipeline asks.
type Unlocks interface {
	EngineUnlocked(ident string) bool
	TurretUnlocked(ident string) bool
}

// Engines is the powerplant: count, fitted type and the mounts built for it.
type Engines struct {
	// Inputs
	Number int
	Type   *catalog.Engine
	Mount  *catalog.Engine // what the nacelles were built for
	Egg    bool
	// Output cache
	Odd, ManuMatch bool
	PowerFactor    float64
	Vuln           float64
	Rely1, Rely2   float64
	Serv           float64
	Cost           float64
	SCL            int
	FuelRate       float64 // lb/h
	Tare           float64
	Drag           float64
}

// Mounted returns the engine the mounts were built for, defaulting to the
// fitted type.
func (e *Engines) Mounted() *catalog.Engine {
	if e.Mount != nil {
		return e.Mount
	}
	return e.Type
}

// Turrets holds the fitted turret and prepared mount at each location.
type Turrets struct {
	// Inputs, indexed by catalog.Location (index 0 unused)
	Type  [catalog.LocCount]*catalog.Turret
	Mount [catalog.LocCount]*catalog.Turret
	// Output cache
	NeedGunners int
	Manned      [catalog.LocCount]bool // a dual-role crewman operates it
	Drag        float64
	Tare        float64 // fitted turrets
	MTare       float64 // prepared mounts
	Ammo        float64
	Serv        float64
	Cost        float64
	Coverage    [catalog.CoverCount]float64
	Rate        [2]float64 // day, night
}

// Prepared returns the mount structure at loc: the explicit mount, or the
// fitted turret when no mount was recorded.
func (t *Turrets) Prepared(loc catalog.Location) *catalog.Turret {
	if t.Mount[loc] != nil {
		return t.Mount[loc]
	}
	return t.Type[loc]
}

// Wing is the mainplane, sized by area and aspect ratio.
type Wing struct {
	// Inputs
	Area int // sq ft
	Art  int // aspect ratio in tenths
	// Output cache
	AR     float64
	Span   float64
	Chord  float64
	CL, LD float64
	Tare   float64
	Cost   float64
	WL     float64
	Drag   float64
}

// CrewClass is a crew position.
type CrewClass int

const (
	Pilot CrewClass = iota
	Navigator
	BombAimer
	Wireless
	Engineer
	Gunner

	CrewClasses
)

var crewLetters = [CrewClasses]byte{'P', 'N', 'B', 'W', 'E', 'G'}
var crewNames = [CrewClasses]string{"Pilot", "Navigator", "Bomb-aimer", "Wireless-op", "Engineer", "Gunner"}

func (c CrewClass) String() string {
	if c < 0 || c >= CrewClasses {
		return "Unknown crew"
	}
	return crewNames[c]
}

// Letter is the one-character roster code.
func (c CrewClass) Letter() byte {
	if c < 0 || c >= CrewClasses {
		return '?'
	}
	return crewLetters[c]
}

// CrewClassFor maps a roster letter back to its class.
func CrewClassFor(letter byte) (CrewClass, bool) {
	for i, l := range crewLetters {
		if l == letter {
			return CrewClass(i), true
		}
	}
	return 0, false
}

// Crewman is one crew position; Gun marks a dual-role gunner.
type Crewman struct {
	Class CrewClass
	Gun   bool // dual-role gunner
}

// Crew is the roster in record order.
type Crew struct {
	// Inputs
	Men []Crewman
	// Output cache
	Gunners, Engineers int
	Pilot, Nav         bool
	Tare               float64
	Gross              float64
	DC                 float64 // damage control
	BN                 float64 // bombing/navigation skill
	CCT                float64 // added to core tare for core cost
	ES                 float64 // effective skill
}

// Count returns the number of crewmen of each class.
func (c *Crew) Count() [CrewClasses]int {
	var v [CrewClasses]int
	for _, m := range c.Men {
		if m.Class >= 0 && m.Class < CrewClasses {
			v[m.Class]++
		}
	}
	return v
}

// BombBay is the bay capacity, girth class and bombsight.
type BombBay struct {
	// Inputs
	Cap   int
	Load  int
	Girth int // tech.Girth*
	CSBS  bool
	// Output cache
	Factor    float64
	BigFactor float64
	Tare      float64
	Cost      float64 // bombsight only; the rest is paid through core tare
	Cookie    bool
}

// Fuselage is the body construction type.
type Fuselage struct {
	// Inputs
	Type int // tech.Fuse*
	// Output cache
	Serv, Fail float64
	Tare       float64
	Cost       float64
	Vuln       float64
	Drag       float64
}

// Electrics is the supply level and fitted nav aids.
type Electrics struct {
	// Inputs
	ESL     int
	NavAids [tech.NavCount]bool
	// Output cache
	Cost    float64
	NavCost float64
}

// Tanks is fuel capacity, fill and self-sealing.
type Tanks struct {
	// Inputs
	HLB int // capacity, hundreds of lb
	Pct int // fill level, %
	SST bool
	// Output cache
	Hours float64
	Cap   float64
	Mass  float64
	Tare  float64
	Cost  float64
	Ratio float64
	Vuln  float64
}

// Dice is the randomisation record. It is carried with a design but not
// computed here.
type Dice struct {
	Rolled bool
	Drag   int
	Serv   int
	Vuln   int
	Manu   int
	Accu   int
}

// Bomber is one design, fresh or refit.
type Bomber struct {
	// Inputs
	Parent   *Bomber // nil for a fresh design
	Manf     *catalog.Manufacturer
	Engines  Engines
	Turrets  Turrets
	Wing     Wing
	Crew     Crew
	Bay      BombBay
	Fuse     Fuselage
	Elec     Electrics
	Tanks    Tanks
	Refit    tech.Tier
	Tech     tech.Numbers // resolved snapshot
	Dice     Dice
	MTOW     int // structure stressed for this; Mod and Doctrine cannot exceed it
	UserMTOW bool

	// Output cache
	Diagnostics  []Diagnostic
	HasError     bool
	Serv         float64
	Fail         float64
	CoreTare     float64
	CoreMTare    float64
	Tare         float64
	Gross        float64
	Overgross    float64
	Drag         float64
	CoreCost     float64
	StressFactor float64
	Cost         float64
	TakeoffSpd   float64
	Ceiling      float64 // thousands of ft
	CruiseAlt    float64
	CruiseSpd    float64
	InitClimb    float64
	DeckSpd      float64
	Ferry        float64
	Range        float64
	RollPen      float64
	TurnPen      float64
	ManuPen      float64
	EvadeFactor  float64
	Vuln         float64
	FightFactor  [2]float64
	FlakFactor   float64
	Defn         [2]float64
	Accu         float64
	TProto       float64
	TProd        float64
	CProto       float64
	CProd        float64
}

// Init returns a fresh design with the baseline defaults: one engine,
// a pilot and a navigator, a full small bay and full tanks.
func Init(m *catalog.Manufacturer, e *catalog.Engine) *Bomber {
	return &Bomber{
		Manf: m,
		Engines: Engines{
			Number: 1,
			Type:   e,
			Mount:  e,
		},
		Wing: Wing{Area: 240, Art: 70},
		Crew: Crew{Men: []Crewman{{Class: Pilot}, {Class: Navigator}}},
		Bay:  BombBay{Cap: 1000, Load: 1000, Girth: tech.GirthSmall},
		Tanks: Tanks{
			HLB: 18,
			Pct: 100,
		},
	}
}

// NewRefit copies the inputs of parent into a new design of the given tier.
// The copy shares catalog records but no mutable state with parent.
// Mod and Doctrine refits keep the parent's prepared engine and turret
// mounts; a Mark is a new airframe and starts with mounts matching what
// is fitted.
func NewRefit(parent *Bomber, tier tech.Tier) (*Bomber, error) {
	if parent == nil {
		return nil, tech.ErrNoParent
	}
	if tier <= tech.Fresh || tier >= tech.TierCount {
		return nil, ErrBadRefit
	}
	b := &Bomber{
		Parent:   parent,
		Manf:     parent.Manf,
		Engines:  Engines{Number: parent.Engines.Number, Type: parent.Engines.Type, Egg: parent.Engines.Egg},
		Wing:     Wing{Area: parent.Wing.Area, Art: parent.Wing.Art},
		Crew:     Crew{Men: append([]Crewman(nil), parent.Crew.Men...)},
		Bay:      BombBay{Cap: parent.Bay.Cap, Load: parent.Bay.Load, Girth: parent.Bay.Girth, CSBS: parent.Bay.CSBS},
		Fuse:     Fuselage{Type: parent.Fuse.Type},
		Elec:     Electrics{ESL: parent.Elec.ESL, NavAids: parent.Elec.NavAids},
		Tanks:    Tanks{HLB: parent.Tanks.HLB, Pct: parent.Tanks.Pct, SST: parent.Tanks.SST},
		Refit:    tier,
		Tech:     parent.Tech,
		Dice:     parent.Dice,
		MTOW:     parent.MTOW,
		UserMTOW: parent.UserMTOW,
	}
	b.Turrets.Type = parent.Turrets.Type
	if tier >= tech.Mod {
		b.Engines.Mount = parent.Engines.Mounted()
		for loc := catalog.LocNose; loc < catalog.LocCount; loc++ {
			b.Turrets.Mount[loc] = parent.Turrets.Prepared(loc)
		}
	}
	return b, nil
}

// LineageRoot follows parents while the design is a Mod or Doctrine refit
// of an existing airframe, and returns the airframe's original design.
func (b *Bomber) LineageRoot() *Bomber {
	r := b
	for r.Refit >= tech.Mod && r.Parent != nil {
		r = r.Parent
	}
	return r
}
