package tech

// Fuselage type indices shared by every per-fuselage coefficient array.
const (
	FuseNormal = iota
	FuseSlender
	FuseSlabby
	FuseGeodetic

	FuseCount
)

// Bomb bay girth indices.
const (
	GirthSmall = iota
	GirthMedium
	GirthCookie

	GirthCount
)

// Navigation aid indices.
const (
	NavGee = iota
	NavH2S
	NavOboe

	NavCount
)

// CoreBlock cannot change even in a Mark refit.
type CoreBlock struct {
	FWT uint32             // fuselage wing tare * 100
	WTS uint32             // wing tare span exponent * 100
	WTC uint32             // wing tare chord exponent * 100
	WTF uint32             // wing tare factor * 100
	WCF uint32             // wing cost factor * 100
	ETF uint32             // engine tare factor * 100
	BT  [GirthCount]uint32 // bay tare factor * 1000
	BBB uint32             // bay big-factor base, thousands of lb
	BBF uint32             // bay big-factor fraction / 1e5
	UBL uint32             // unarmed bomber limit (engine count)
}

// MarkBlock cannot change in a Mod refit.
type MarkBlock struct {
	FT  [FuseCount]uint32 // fuselage tare * 100
	FD  [FuseCount]uint32 // fuselage drag * 10
	FS  [FuseCount]uint32 // fuselage serv * 1000
	FF  [FuseCount]uint32 // fuselage fail * 1000
	FV  [FuseCount]uint32 // fuselage vuln * 100
	CC  [FuseCount]uint32 // core cost * 100
	FC  [FuseCount]uint32 // fuselage cost * 100
	WLD uint32            // wing lift/drag * 100
	G4T uint32            // tare penalty for 4+ engine mounts
	G4C uint32            // cost scaling for 4+ engines * 100
	FUT uint32            // fuel tare * 1000
	FUV uint32            // fuel vuln * 100
	FUC uint32            // fuel cost * 100
	FGV uint32            // fuel geodetic vuln factor * 100
	EDF uint32            // engine drag factor * 100
	EMC uint32            // engine mounting cost factor * 100
	EES uint32            // power egg serv factor * 100
	EET uint32            // power egg tare factor * 100
	EEC uint32            // power egg cost factor * 100
	GTF uint32            // gun tare factor * 100
	GDF uint32            // gun drag factor
	GCF uint32            // gun cost factor * 10
	ESL uint32            // electric supply level
}

// ModBlock cannot change in a Doctrine refit.
type ModBlock struct {
	SFT uint32           // self-sealing tare scaling * 100
	SFV uint32           // self-sealing vuln scaling * 100
	SFC uint32           // self-sealing cost scaling * 100
	CMI uint32           // crewman incidentals tare
	CES uint32           // crewman effective skill * 100
	CCC uint32           // crewman core cost scaling * 100
	GAM uint32           // gun ammo mass, lb/gun
	GAC uint32           // gun ammo track cost * 10
	CSB uint32           // course-setting bombsight (flag)
	NA  [NavCount]uint32 // nav aids (flags)
}

// DoctrineBlock changes even without a refit.
type DoctrineBlock struct {
	CLT uint32 // climb time budget, minutes
	BMC uint32 // medium bay cookie carriage (flag)
	RGS uint32 // max take-off speed, grass
	RGG uint32 // max gross take-off weight, grass
	RCS uint32 // max take-off speed, concrete
	RCG uint32 // max gross take-off weight, concrete
}

// Numbers is the flat coefficient table every calculator reads. The four
// blocks are ordered: a refit freezes a prefix of them.
type Numbers struct {
	Core     CoreBlock
	Mark     MarkBlock
	Mod      ModBlock
	Doctrine DoctrineBlock
}

// Block identifies one of the four partitions of Numbers.
type Block int

const (
	BlockCore Block = iota
	BlockMark
	BlockMod
	BlockDoctrine
)

func (b Block) String() string {
	switch b {
	case BlockCore:
		return "core"
	case BlockMark:
		return "mark"
	case BlockMod:
		return "mod"
	case BlockDoctrine:
		return "doctrine"
	default:
		return "unknown"
	}
}

// Field describes one named coefficient.
type Field struct {
	Key   string
	Block Block
	ref   func(n *Numbers) *uint32
}

// Get returns the field's value in n.
func (f Field) Get(n *Numbers) uint32 { return *f.ref(n) }

// Set stores v into the field of n.
func (f Field) Set(n *Numbers, v uint32) { *f.ref(n) = v }

func core(key string, ref func(n *Numbers) *uint32) Field {
	return Field{Key: key, Block: BlockCore, ref: ref}
}

func mark(key string, ref func(n *Numbers) *uint32) Field {
	return Field{Key: key, Block: BlockMark, ref: ref}
}

func mod(key string, ref func(n *Numbers) *uint32) Field {
	return Field{Key: key, Block: BlockMod, ref: ref}
}

func doctrine(key string, ref func(n *Numbers) *uint32) Field {
	return Field{Key: key, Block: BlockDoctrine, ref: ref}
}

// fuseSuffix names the per-fuselage variants: Normal, Thin, Slab, Geodetic.
var fuseSuffix = [FuseCount]string{"N", "T", "S", "G"}

func perFuse(prefix string, ctor func(string, func(*Numbers) *uint32) Field, arr func(n *Numbers) *[FuseCount]uint32) []Field {
	out := make([]Field, FuseCount)
	for i := range out {
		i := i
		out[i] = ctor(prefix+fuseSuffix[i], func(n *Numbers) *uint32 { return &arr(n)[i] })
	}
	return out
}

// fields lists every coefficient in block order. Record and catalog keys
// come from here, so the order is also the serialisation order.
var fields = buildFields()

func buildFields() []Field {
	fs := []Field{
		core("FWT", func(n *Numbers) *uint32 { return &n.Core.FWT }),
		core("WTS", func(n *Numbers) *uint32 { return &n.Core.WTS }),
		core("WTC", func(n *Numbers) *uint32 { return &n.Core.WTC }),
		core("WTF", func(n *Numbers) *uint32 { return &n.Core.WTF }),
		core("WCF", func(n *Numbers) *uint32 { return &n.Core.WCF }),
		core("ETF", func(n *Numbers) *uint32 { return &n.Core.ETF }),
		core("BTS", func(n *Numbers) *uint32 { return &n.Core.BT[GirthSmall] }),
		core("BTM", func(n *Numbers) *uint32 { return &n.Core.BT[GirthMedium] }),
		core("BTC", func(n *Numbers) *uint32 { return &n.Core.BT[GirthCookie] }),
		core("BBB", func(n *Numbers) *uint32 { return &n.Core.BBB }),
		core("BBF", func(n *Numbers) *uint32 { return &n.Core.BBF }),
		core("UBL", func(n *Numbers) *uint32 { return &n.Core.UBL }),
	}
	fs = append(fs, perFuse("FT", mark, func(n *Numbers) *[FuseCount]uint32 { return &n.Mark.FT })...)
	fs = append(fs, perFuse("FD", mark, func(n *Numbers) *[FuseCount]uint32 { return &n.Mark.FD })...)
	fs = append(fs, perFuse("FS", mark, func(n *Numbers) *[FuseCount]uint32 { return &n.Mark.FS })...)
	fs = append(fs, perFuse("FF", mark, func(n *Numbers) *[FuseCount]uint32 { return &n.Mark.FF })...)
	fs = append(fs, perFuse("FV", mark, func(n *Numbers) *[FuseCount]uint32 { return &n.Mark.FV })...)
	fs = append(fs, perFuse("CC", mark, func(n *Numbers) *[FuseCount]uint32 { return &n.Mark.CC })...)
	fs = append(fs, perFuse("FC", mark, func(n *Numbers) *[FuseCount]uint32 { return &n.Mark.FC })...)
	fs = append(fs,
		mark("WLD", func(n *Numbers) *uint32 { return &n.Mark.WLD }),
		mark("G4T", func(n *Numbers) *uint32 { return &n.Mark.G4T }),
		mark("G4C", func(n *Numbers) *uint32 { return &n.Mark.G4C }),
		mark("FUT", func(n *Numbers) *uint32 { return &n.Mark.FUT }),
		mark("FUV", func(n *Numbers) *uint32 { return &n.Mark.FUV }),
		mark("FUC", func(n *Numbers) *uint32 { return &n.Mark.FUC }),
		mark("FGV", func(n *Numbers) *uint32 { return &n.Mark.FGV }),
		mark("EDF", func(n *Numbers) *uint32 { return &n.Mark.EDF }),
		mark("EMC", func(n *Numbers) *uint32 { return &n.Mark.EMC }),
		mark("EES", func(n *Numbers) *uint32 { return &n.Mark.EES }),
		mark("EET", func(n *Numbers) *uint32 { return &n.Mark.EET }),
		mark("EEC", func(n *Numbers) *uint32 { return &n.Mark.EEC }),
		mark("GTF", func(n *Numbers) *uint32 { return &n.Mark.GTF }),
		mark("GDF", func(n *Numbers) *uint32 { return &n.Mark.GDF }),
		mark("GCF", func(n *Numbers) *uint32 { return &n.Mark.GCF }),
		mark("ESL", func(n *Numbers) *uint32 { return &n.Mark.ESL }),

		mod("SFT", func(n *Numbers) *uint32 { return &n.Mod.SFT }),
		mod("SFV", func(n *Numbers) *uint32 { return &n.Mod.SFV }),
		mod("SFC", func(n *Numbers) *uint32 { return &n.Mod.SFC }),
		mod("CMI", func(n *Numbers) *uint32 { return &n.Mod.CMI }),
		mod("CES", func(n *Numbers) *uint32 { return &n.Mod.CES }),
		mod("CCC", func(n *Numbers) *uint32 { return &n.Mod.CCC }),
		mod("GAM", func(n *Numbers) *uint32 { return &n.Mod.GAM }),
		mod("GAC", func(n *Numbers) *uint32 { return &n.Mod.GAC }),
		mod("CSB", func(n *Numbers) *uint32 { return &n.Mod.CSB }),
		mod("NAG", func(n *Numbers) *uint32 { return &n.Mod.NA[NavGee] }),
		mod("NAH", func(n *Numbers) *uint32 { return &n.Mod.NA[NavH2S] }),
		mod("NAO", func(n *Numbers) *uint32 { return &n.Mod.NA[NavOboe] }),

		doctrine("CLT", func(n *Numbers) *uint32 { return &n.Doctrine.CLT }),
		doctrine("BMC", func(n *Numbers) *uint32 { return &n.Doctrine.BMC }),
		doctrine("RGS", func(n *Numbers) *uint32 { return &n.Doctrine.RGS }),
		doctrine("RGG", func(n *Numbers) *uint32 { return &n.Doctrine.RGG }),
		doctrine("RCS", func(n *Numbers) *uint32 { return &n.Doctrine.RCS }),
		doctrine("RCG", func(n *Numbers) *uint32 { return &n.Doctrine.RCG }),
	)
	return fs
}

var byKey = func() map[string]Field {
	m := make(map[string]Field, len(fields))
	for _, f := range fields {
		m[f.Key] = f
	}
	return m
}()

// Fields returns every coefficient in serialisation order.
func Fields() []Field {
	return append([]Field(nil), fields...)
}

// Lookup finds a coefficient by its catalog/record key.
func Lookup(key string) (Field, bool) {
	f, ok := byKey[key]
	return f, ok
}

// Overlay copies every non-zero field of src into dst: the last non-zero
// value wins.
func Overlay(dst *Numbers, src *Numbers) {
	for _, f := range fields {
		if v := f.Get(src); v != 0 {
			f.Set(dst, v)
		}
	}
}

// IsZero reports whether no coefficient is set.
func (n *Numbers) IsZero() bool {
	return *n == Numbers{}
}
