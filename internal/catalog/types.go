// types.go
package catalog

import "github.com/ec429/hbuilder/internal/tech"

// Location is a turret mount position.
type Location int

const (
	LocNone Location = iota
	LocNose
	LocDorsal
	LocTail
	LocWaist
	LocVentral
	LocChin

	LocCount
)

var locationNames = [LocCount]string{"unspecified", "nose", "dorsal", "tail", "waist", "ventral", "chin"}

func (l Location) String() string {
	if l < 0 || l >= LocCount {
		return "invalid"
	}
	return locationNames[l]
}

// Direction is a defensive coverage sector.
type Direction int

const (
	CoverFront    Direction = iota // GCF
	CoverBeamHigh                  // GCD
	CoverBeamLow                   // GCV
	CoverTailHigh                  // GCH
	CoverTailLow                   // GCL
	CoverBeneath                   // GCB

	CoverCount
)

// Engine is one aero-engine type.
type Engine struct {
	Ident   string
	BHP     int    // horsepower
	VUL     int    // vulnerability, %
	FAI     int    // failure chance per sortie, per mille
	SVC     int    // service chance per day, per mille
	COS     int    // unit cost
	SCL     int    // supercharger class 0..3
	TWT     int    // tare weight, lb
	DRG     int    // drag
	Upgrade string // engine ident these mounts can take when overbuilt
	Maker   string
	Name    string
}

// Turret is a defensive gun position type.
type Turret struct {
	Ident    string
	SRV      int // service chance, per mille
	TWT      int // tare weight, lb
	DRG      int
	Location Location
	Guns     int
	Coverage [CoverCount]int // tenths
	OCP      bool            // operable by a dual-role pilot
	OCN      bool            // ... navigator
	OCB      bool            // ... bomb-aimer
	Slab     bool            // needs a slab-sided fuselage
	ESL      int             // minimum electric supply level
	Name     string
}

// Manufacturer holds per-firm bonuses and maluses.
type Manufacturer struct {
	Ident       string
	WAP         int // wing aspect-ratio penalty floor
	WLD         int // wing lift/drag, %
	BT          [tech.GirthCount]int
	BBB         int
	WCF         int
	WCP         int
	WC4         int
	WT4         int
	ACC         int // airframe cost, %
	ACT         int // airframe core tare, %
	Geodetic    bool
	TPL         int // turn penalty wing-loading threshold
	FD          [tech.FuseCount]int
	FT          [tech.FuseCount]int
	SVP         int
	BOF         int // build organisation factor
	EngineMaker string
	Name        string
}

// Tech is a research item: a coefficient block plus the hardware it
// unlocks.
type Tech struct {
	Ident    string
	Year     int
	Month    int
	interim  bool // i=, accepted and ignored
	Requires []string
	Engines  []string
	Turrets  []string
	Numbers  tech.Numbers
	Name     string
}
