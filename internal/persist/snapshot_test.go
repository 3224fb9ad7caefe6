package persist

import (
	"testing"

	"github.com/journeygo/client/internal/character"
)

func sampleState() *character.State {
	st := character.NewState(96)
	st.ID = 7
	st.Stats.Name = "Rook"
	st.Stats.Level = 30
	st.Stats.MapID = 100000000
	st.Inventory.Meso = 500
	st.Inventory.Add(character.InvUse, 1, &character.Item{ItemBase: character.ItemBase{ID: 2000000}, Count: 50})
	st.Inventory.Add(character.InvEquip, 3, &character.Equip{ItemBase: character.ItemBase{ID: 1302000}})
	st.Skills.Set(1000001, character.Skill{Level: 3})
	return st
}

func TestSnapshotFlattensInOrder(t *testing.T) {
	s := NewSnapshot(sampleState(), false)
	if len(s.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(s.Items))
	}
	// equip inventory comes before use
	if s.Items[0].ItemID != 1302000 || s.Items[0].Kind != "equip" || s.Items[0].Quantity != 1 {
		t.Errorf("first item = %+v", s.Items[0])
	}
	if s.Items[1].Quantity != 50 || s.Items[1].Kind != "plain" {
		t.Errorf("second item = %+v", s.Items[1])
	}
	if s.Meso != 500 || len(s.Skills) != 1 {
		t.Errorf("meso=%d skills=%d", s.Meso, len(s.Skills))
	}
}

func TestSnapshotDigestTracksContent(t *testing.T) {
	a := NewSnapshot(sampleState(), false)
	b := NewSnapshot(sampleState(), true)
	if a.Digest != b.Digest {
		t.Fatal("identical states produced different digests")
	}

	st := sampleState()
	st.Inventory.Meso++
	if NewSnapshot(st, false).Digest == a.Digest {
		t.Error("meso change did not change digest")
	}

	st = sampleState()
	st.Skills.Set(1000001, character.Skill{Level: 4})
	if NewSnapshot(st, false).Digest == a.Digest {
		t.Error("skill change did not change digest")
	}
}
