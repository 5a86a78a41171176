package server

import (
	"github.com/ec429/hbuilder/internal/bomber"
)

type Diagnostic struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type EngineResult struct {
	PowerFactor float64 `json:"power_factor"`
	ManuMatch   bool    `json:"manu_match"`
	Rely1       float64 `json:"rely1"`
	Rely2       float64 `json:"rely2"`
	Serv        float64 `json:"serv"`
	Cost        float64 `json:"cost"`
	FuelRate    float64 `json:"fuel_rate"`
	Tare        float64 `json:"tare"`
	Drag        float64 `json:"drag"`
}

type TurretResult struct {
	NeedGunners int        `json:"need_gunners"`
	Tare        float64    `json:"tare"`
	MountTare   float64    `json:"mount_tare"`
	Ammo        float64    `json:"ammo"`
	Drag        float64    `json:"drag"`
	Cost        float64    `json:"cost"`
	Coverage    []float64  `json:"coverage"`
	Rate        [2]float64 `json:"rate"`
}

type WingResult struct {
	AR    float64 `json:"ar"`
	Span  float64 `json:"span"`
	Chord float64 `json:"chord"`
	CL    float64 `json:"cl"`
	LD    float64 `json:"ld"`
	WL    float64 `json:"wing_loading"`
	Tare  float64 `json:"tare"`
	Cost  float64 `json:"cost"`
	Drag  float64 `json:"drag"`
}

type CrewResult struct {
	Gunners   int     `json:"gunners"`
	Engineers int     `json:"engineers"`
	Tare      float64 `json:"tare"`
	Gross     float64 `json:"gross"`
	DC        float64 `json:"damage_control"`
	BN        float64 `json:"bombnav"`
	ES        float64 `json:"skill"`
}

type TankResult struct {
	Hours float64 `json:"hours"`
	Mass  float64 `json:"mass"`
	Tare  float64 `json:"tare"`
	Cost  float64 `json:"cost"`
	Ratio float64 `json:"ratio"`
	Vuln  float64 `json:"vuln"`
}

// Result is the JSON view of a computed design.
type Result struct {
	Refit       string       `json:"refit"`
	HasError    bool         `json:"has_error"`
	Diagnostics []Diagnostic `json:"diagnostics"`

	Engines  EngineResult `json:"engines"`
	Turrets  TurretResult `json:"turrets"`
	Wing     WingResult   `json:"wing"`
	Crew     CrewResult   `json:"crew"`
	Tanks    TankResult   `json:"tanks"`
	BayTare  float64      `json:"bay_tare"`
	Cookie   bool         `json:"cookie"`
	FuseTare float64      `json:"fuselage_tare"`

	MTOW         int        `json:"mtow"`
	CoreTare     float64    `json:"core_tare"`
	Tare         float64    `json:"tare"`
	Gross        float64    `json:"gross"`
	Overgross    float64    `json:"overgross"`
	Drag         float64    `json:"drag"`
	CoreCost     float64    `json:"core_cost"`
	StressFactor float64    `json:"stress_factor"`
	Cost         float64    `json:"cost"`
	TakeoffSpd   float64    `json:"takeoff_speed"`
	Ceiling      float64    `json:"ceiling"`
	CruiseAlt    float64    `json:"cruise_alt"`
	CruiseSpd    float64    `json:"cruise_speed"`
	InitClimb    float64    `json:"initial_climb"`
	DeckSpd      float64    `json:"deck_speed"`
	Ferry        float64    `json:"ferry"`
	Range        float64    `json:"range"`
	Serv         float64    `json:"serviceability"`
	Fail         float64    `json:"failure"`
	ManuPen      float64    `json:"manu_penalty"`
	EvadeFactor  float64    `json:"evade_factor"`
	Vuln         float64    `json:"vuln"`
	FightFactor  [2]float64 `json:"fight_factor"`
	FlakFactor   float64    `json:"flak_factor"`
	Defn         [2]float64 `json:"defn"`
	Accu         float64    `json:"accuracy"`
	TProto       float64    `json:"t_proto"`
	TProd        float64    `json:"t_prod"`
	CProto       float64    `json:"c_proto"`
	CProd        float64    `json:"c_prod"`
}

func NewResult(b *bomber.Bomber) Result {
	diags := make([]Diagnostic, 0, len(b.Diagnostics))
	for _, d := range b.Diagnostics {
		diags = append(diags, Diagnostic{Severity: d.Severity.String(), Message: d.String()})
	}
	e, t, w, c, k := &b.Engines, &b.Turrets, &b.Wing, &b.Crew, &b.Tanks
	return Result{
		Refit:       b.Refit.String(),
		HasError:    b.HasError,
		Diagnostics: diags,
		Engines: EngineResult{
			PowerFactor: e.PowerFactor, ManuMatch: e.ManuMatch,
			Rely1: e.Rely1, Rely2: e.Rely2, Serv: e.Serv, Cost: e.Cost,
			FuelRate: e.FuelRate, Tare: e.Tare, Drag: e.Drag,
		},
		Turrets: TurretResult{
			NeedGunners: t.NeedGunners, Tare: t.Tare, MountTare: t.MTare,
			Ammo: t.Ammo, Drag: t.Drag, Cost: t.Cost,
			Coverage: append([]float64(nil), t.Coverage[:]...), Rate: t.Rate,
		},
		Wing: WingResult{
			AR: w.AR, Span: w.Span, Chord: w.Chord, CL: w.CL, LD: w.LD,
			WL: w.WL, Tare: w.Tare, Cost: w.Cost, Drag: w.Drag,
		},
		Crew: CrewResult{
			Gunners: c.Gunners, Engineers: c.Engineers, Tare: c.Tare,
			Gross: c.Gross, DC: c.DC, BN: c.BN, ES: c.ES,
		},
		Tanks: TankResult{
			Hours: k.Hours, Mass: k.Mass, Tare: k.Tare, Cost: k.Cost,
			Ratio: k.Ratio, Vuln: k.Vuln,
		},
		BayTare:      b.Bay.Tare,
		Cookie:       b.Bay.Cookie,
		FuseTare:     b.Fuse.Tare,
		MTOW:         b.MTOW,
		CoreTare:     b.CoreTare,
		Tare:         b.Tare,
		Gross:        b.Gross,
		Overgross:    b.Overgross,
		Drag:         b.Drag,
		CoreCost:     b.CoreCost,
		StressFactor: b.StressFactor,
		Cost:         b.Cost,
		TakeoffSpd:   b.TakeoffSpd,
		Ceiling:      b.Ceiling,
		CruiseAlt:    b.CruiseAlt,
		CruiseSpd:    b.CruiseSpd,
		InitClimb:    b.InitClimb,
		DeckSpd:      b.DeckSpd,
		Ferry:        b.Ferry,
		Range:        b.Range,
		Serv:         b.Serv,
		Fail:         b.Fail,
		ManuPen:      b.ManuPen,
		EvadeFactor:  b.EvadeFactor,
		Vuln:         b.Vuln,
		FightFactor:  b.FightFactor,
		FlakFactor:   b.FlakFactor,
		Defn:         b.Defn,
		Accu:         b.Accu,
		TProto:       b.TProto,
		TProd:        b.TProd,
		CProto:       b.CProto,
		CProd:        b.CProd,
	}
}
