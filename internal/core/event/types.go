package event

// CharacterEntered fires after a full character entry was decoded.
type CharacterEntered struct {
	CharacterID int32
	MapID       int32
	// Partial is true when some sections failed to decode.
	Partial bool
}

// MapChanged fires after the stage loaded a new map.
type MapChanged struct {
	MapID    int32
	Portal   uint8
	Fallback bool
}

// ObjectSpawned and ObjectRemoved track map objects by kind name and oid.
type ObjectSpawned struct {
	Kind string
	OID  int32
}

type ObjectRemoved struct {
	Kind string
	OID  int32
}

// PhysicsAnomaly reports a safety net that fired for one object.
type PhysicsAnomaly struct {
	Kind    string
	OID     int32
	Anomaly string
	Y       float64
}
