package data

// PortalEntry is a spawn or warp point of a map.
type PortalEntry struct {
	ID         uint8  `yaml:"id"`
	Name       string `yaml:"name"`
	Type       int    `yaml:"type"`
	X          int16  `yaml:"x"`
	Y          int16  `yaml:"y"`
	TargetMap  int32  `yaml:"target_map"`
	TargetName string `yaml:"target_name"`
}

// PortalTable looks portals up by id or name.
type PortalTable struct {
	byID   map[uint8]*PortalEntry
	byName map[string]*PortalEntry
}

func newPortalTable(entries []PortalEntry) *PortalTable {
	t := &PortalTable{
		byID:   make(map[uint8]*PortalEntry, len(entries)),
		byName: make(map[string]*PortalEntry, len(entries)),
	}
	for i := range entries {
		e := &entries[i]
		t.byID[e.ID] = e
		if e.Name != "" {
			t.byName[e.Name] = e
		}
	}
	return t
}

// Get returns the portal with the given id, or nil.
func (t *PortalTable) Get(id uint8) *PortalEntry {
	return t.byID[id]
}

func (t *PortalTable) ByName(name string) *PortalEntry {
	return t.byName[name]
}

func (t *PortalTable) Count() int {
	return len(t.byID)
}
