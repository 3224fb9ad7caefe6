package data

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/journeygo/client/internal/physics"
)

// MapInfo is one map as stored in the YAML map files.
type MapInfo struct {
	MapID      int32           `yaml:"map_id"`
	Name       string          `yaml:"name"`
	Underwater bool            `yaml:"underwater"`
	ReturnMap  int32           `yaml:"return_map"`
	Footholds  []FootholdEntry `yaml:"footholds"`
	Portals    []PortalEntry   `yaml:"portals"`
}

// FootholdEntry mirrors physics.Foothold with YAML keys.
type FootholdEntry struct {
	ID    uint16 `yaml:"id"`
	Prev  uint16 `yaml:"prev"`
	Next  uint16 `yaml:"next"`
	Layer uint8  `yaml:"layer"`
	X1    int16  `yaml:"x1"`
	Y1    int16  `yaml:"y1"`
	X2    int16  `yaml:"x2"`
	Y2    int16  `yaml:"y2"`
}

type mapEntry struct {
	info    MapInfo
	tree    *physics.Tree
	portals *PortalTable
}

// MapDataTable is the terrain source: footholds, portals and flags per map.
// It is read-only after LoadMapData.
type MapDataTable struct {
	maps map[int32]*mapEntry
}

type mapListFile struct {
	Maps []MapInfo `yaml:"maps"`
}

// LoadMapData reads every *.yaml file in dir. A map id defined twice keeps
// the definition from the file that sorts last.
func LoadMapData(dir string) (*MapDataTable, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list map files in %s: %w", dir, err)
	}
	sort.Strings(paths)

	table := &MapDataTable{maps: make(map[int32]*mapEntry)}
	for _, path := range paths {
		if err := table.loadFile(path); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func (t *MapDataTable) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read map file %s: %w", path, err)
	}
	var file mapListFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse map file %s: %w", path, err)
	}
	for _, info := range file.Maps {
		t.Add(info)
	}
	return nil
}

// Add registers a map built in code. Used by tests and the simulator.
func (t *MapDataTable) Add(info MapInfo) {
	if t.maps == nil {
		t.maps = make(map[int32]*mapEntry)
	}
	fhs := make([]physics.Foothold, 0, len(info.Footholds))
	for _, f := range info.Footholds {
		fhs = append(fhs, physics.Foothold{
			ID: f.ID, Prev: f.Prev, Next: f.Next, Layer: f.Layer,
			X1: f.X1, Y1: f.Y1, X2: f.X2, Y2: f.Y2,
		})
	}
	t.maps[info.MapID] = &mapEntry{
		info:    info,
		tree:    physics.NewTree(fhs),
		portals: newPortalTable(info.Portals),
	}
}

func (t *MapDataTable) Count() int {
	return len(t.maps)
}

// GetInfo returns metadata for a map, or nil if not found.
func (t *MapDataTable) GetInfo(mapID int32) *MapInfo {
	e := t.maps[mapID]
	if e == nil {
		return nil
	}
	return &e.info
}

// Tree returns the foothold tree of a map. Unknown maps get an empty tree so
// the caller can keep simulating with the no-terrain fallbacks.
func (t *MapDataTable) Tree(mapID int32) (*physics.Tree, bool) {
	e := t.maps[mapID]
	if e == nil {
		return physics.NewTree(nil), false
	}
	return e.tree, true
}

// Portals returns the portal table of a map; never nil.
func (t *MapDataTable) Portals(mapID int32) *PortalTable {
	e := t.maps[mapID]
	if e == nil {
		return newPortalTable(nil)
	}
	return e.portals
}

// MapIDs lists the loaded maps in ascending order.
func (t *MapDataTable) MapIDs() []int32 {
	ids := make([]int32, 0, len(t.maps))
	for id := range t.maps {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
