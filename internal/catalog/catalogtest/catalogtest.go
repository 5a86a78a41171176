// Package catalogtest provides a small, internally consistent catalog for
// tests across the module.
package catalogtest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ec429/hbuilder/internal/catalog"
)

// Engines, Turrets, Manufacturers and Techs are the fixture files.
const (
	Engines = `# ident:stats
MERL:BHP=1030:VUL=10:FAI=15:SVC=40:COS=2000:SCL=2:TWT=1450:DRG=30:u=MER2:m=RR:n=Merlin II
MER2:BHP=1280:VUL=10:FAI=14:SVC=45:COS=2400:SCL=2:TWT=1480:DRG=31:m=RR:n=Merlin XX
PEGA:BHP=965:VUL=12:FAI=20:SVC=35:COS=1700:SCL=1:TWT=1100:DRG=34:m=BR:n=Pegasus XVIII
HERC:BHP=1375:VUL=11:FAI=18:SVC=40:COS=2600:SCL=1:TWT=1900:DRG=38:m=BR:n=Hercules XI
`
	Turrets = `FN5N:LXN=1:TWT=500:GUN=2:SRV=10:DRG=5:GCF=20:GCD=5:GCV=5:OCN=1:OCB=1:n=FN.5 nose
FN50:LXN=2:TWT=800:GUN=2:SRV=15:DRG=10:GCF=5:GCD=15:GCV=5:GCH=10:n=FN.50 dorsal
FN7D:LXN=2:TWT=600:GUN=2:SRV=15:DRG=12:GCF=5:GCD=12:GCH=8:n=FN.7 dorsal
FN20:LXN=3:TWT=900:GUN=4:SRV=20:DRG=8:GCD=5:GCV=5:GCH=20:GCL=15:n=FN.20 tail
SLBW:LXN=4:TWT=300:GUN=1:SRV=5:DRG=6:GCD=8:GCV=8:SLB=1:OCB=1:n=Waist guns
FN21:LXN=5:TWT=700:GUN=2:SRV=25:DRG=15:GCL=5:GCB=15:ESL=1:n=FN.21 ventral
`
	Manufacturers = `**:WAP=6:WLD=100:BTS=100:BTM=100:BTC=100:BBB=0:WCF=100:WCP=100:WC4=100:WT4=100:ACC=100:ACT=100:GEO=0:TPL=30:FDN=100:FDT=100:FDS=100:FDG=100:FTN=100:FTT=100:FTS=100:FTG=100:SVP=2:BOF=10
AV:e=RR:BOF=12:WLD=105:n=Avro
BR:e=BR:ACT=95:n=Bristol
VI:e=RR:GEO=1:FTG=90:n=Vickers
`
	Techs = `BAS:n=Baseline:FWT=100:WTS=150:WTC=50:WTF=450:WCF=100:ETF=100:BTS=10:BBB=4:BBF=30:UBL=1:FTN=150:FTT=130:FTS=160:FTG=120:FDN=30:FDT=25:FDS=35:FDG=30:FSN=10:FST=10:FSS=10:FSG=10:FFN=5:FFT=5:FFS=5:FFG=5:FVN=20:FVT=20:FVS=25:FVG=30:CCN=100:CCT=110:CCS=100:CCG=120:FCN=100:FCT=100:FCS=100:FCG=100:WLD=100:FUT=80:FUV=60:FUC=50:FGV=120:EDF=100:EMC=50:GTF=100:GDF=1:GCF=50:CMI=150:CES=100:CCC=150:GAM=60:GAC=40:CLT=40:t=FN5N:e=PEGA
MRL:y=1936:n=Merlin:e=MERL
HRC:y=1939:n=Hercules:e=HERC
MR2:y=1940:r=MRL:n=Merlin XX:e=MER2
TUR:y=1938:n=Powered turrets:t=FN50:t=FN7D:t=FN20:t=SLBW
ESH:y=1939:n=High-voltage electrics:ESL=1
ESS:y=1941:r=ESH:n=Stabilised supply:ESL=2
VNT:y=1940:r=ESH:n=Ventral turret:t=FN21
GEE:y=1941:r=ESH:n=Gee:NAG=1
HTS:y=1942:r=ESS:n=H2S:NAH=1
OBO:y=1942:r=ESH:n=Oboe:NAO=1
SST:y=1939:n=Self-sealing tanks:SFT=120:SFV=40:SFC=130
BMD:y=1938:n=Medium bay:BTM=8
CKE:y=1941:r=BMD:n=Cookie carriage:BTC=7:BMC=1
G4E:y=1938:n=Four-engine layout:G4T=200:G4C=120
EGG:y=1940:i=1:n=Power eggs:EES=80:EET=105:EEC=110
CSB:y=1940:n=Course-setting bombsight:CSB=1
FUL:y=1940:n=Light tankage:FUT=70
RWY:y=1940:n=Runway doctrine:RGS=100:RGG=40000:RCS=130:RCG=70000
CLB:y=1941:n=Climb doctrine:CLT=50
`
)

// Files maps each catalog file name to its contents.
func Files() map[string]string {
	return map[string]string{
		"eng":  Engines,
		"guns": Turrets,
		"manu": Manufacturers,
		"tech": Techs,
	}
}

// New parses the fixture into a catalog.
func New(t testing.TB) *catalog.Catalog {
	t.Helper()
	engines, err := catalog.ReadEngines(strings.NewReader(Engines))
	require.NoError(t, err)
	turrets, err := catalog.ReadTurrets(strings.NewReader(Turrets))
	require.NoError(t, err)
	manfs, err := catalog.ReadManufacturers(strings.NewReader(Manufacturers))
	require.NoError(t, err)
	techs, err := catalog.ReadTechs(strings.NewReader(Techs))
	require.NoError(t, err)
	c, err := catalog.New(engines, turrets, manfs, techs)
	require.NoError(t, err)
	require.NoError(t, catalog.Validate(c))
	return c
}

// WriteDir writes the fixture files into a fresh temporary directory.
func WriteDir(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range Files() {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}
