package character

// EquipStat indexes the per-equip bonus table in wire order.
type EquipStat int

const (
	StatSTR EquipStat = iota
	StatDEX
	StatINT
	StatLUK
	StatHP
	StatMP
	StatWATK
	StatMAGIC
	StatWDEF
	StatMDEF
	StatACC
	StatAVOID
	StatHANDS
	StatSPEED
	StatJUMP

	NumEquipStats
)

var equipStatNames = [NumEquipStats]string{
	"STR", "DEX", "INT", "LUK", "HP", "MP", "WATK", "MAGIC",
	"WDEF", "MDEF", "ACC", "AVOID", "HANDS", "SPEED", "JUMP",
}

func (s EquipStat) String() string {
	if s >= 0 && s < NumEquipStats {
		return equipStatNames[s]
	}
	return "UNKNOWN"
}

// EquipStats is the fixed-size bonus table of an equip.
type EquipStats [NumEquipStats]int16

func (s *EquipStats) Get(stat EquipStat) int16 {
	if stat < 0 || stat >= NumEquipStats {
		return 0
	}
	return s[stat]
}
