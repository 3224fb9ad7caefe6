package character

// Stats is the character stat block sent on field entry.
type Stats struct {
	Name   string
	Female bool
	Skin   uint8
	Face   int32
	Hair   int32
	PetIDs [3]int64

	Level uint8
	Job   int16
	STR   int16
	DEX   int16
	INT   int16
	LUK   int16
	HP    int16
	MaxHP int16
	MP    int16
	MaxMP int16
	AP    int16
	SP    int16
	// SPTable holds per-book skill points for jobs that track them separately.
	SPTable map[uint8]uint8

	Exp    int32
	Fame   int16
	MapID  int32
	Portal uint8
}

// HasSPTable reports whether the job sends per-book skill points.
func HasSPTable(job int16) bool {
	return job >= 2200 && job <= 2218
}
