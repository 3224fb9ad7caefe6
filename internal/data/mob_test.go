package data

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMobTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mobs.yaml")
	body := `
mobs:
  - {mob_id: 100100, name: Snail, level: 1, speed: -65}
  - {mob_id: 2300100, name: Stirge, level: 20, fly: true, fly_speed: 20}
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	mobs, err := LoadMobTable(path)
	if err != nil {
		t.Fatalf("LoadMobTable: %v", err)
	}
	if mobs.Count() != 2 {
		t.Fatalf("count = %d", mobs.Count())
	}
	snail := mobs.Get(100100)
	if snail == nil || snail.Name != "Snail" || snail.CanFly {
		t.Fatalf("snail = %+v", snail)
	}
	if got := snail.WalkSpeed(); math.Abs(got-0.035) > 1e-9 {
		t.Errorf("walk speed = %v, want 0.035", got)
	}
	stirge := mobs.Get(2300100)
	if stirge == nil || !stirge.CanFly {
		t.Fatalf("stirge = %+v", stirge)
	}
	if got := stirge.AirSpeed(); math.Abs(got-0.06) > 1e-9 {
		t.Errorf("air speed = %v, want 0.06", got)
	}
	if mobs.Get(1) != nil {
		t.Error("unknown id returned a template")
	}
}

func TestNilMobTable(t *testing.T) {
	var mobs *MobTable
	if mobs.Get(100100) != nil || mobs.Count() != 0 {
		t.Fatal("nil table should be empty")
	}
}

func TestLoadMobTableErrors(t *testing.T) {
	if _, err := LoadMobTable(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file loaded")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("mobs: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadMobTable(path); err == nil {
		t.Error("malformed yaml loaded")
	}
}

func TestBundledMobsLoad(t *testing.T) {
	mobs, err := LoadMobTable(filepath.Join("..", "..", "data", "mobs.yaml"))
	if err != nil {
		t.Fatalf("bundled mob list: %v", err)
	}
	if mobs.Count() == 0 {
		t.Fatal("bundled mob list is empty")
	}
}
