package character

import (
	"errors"
	"testing"
)

func TestInventorySlotBounds(t *testing.T) {
	inv := NewInventory(96)
	inv.SetSlotMax(InvUse, 24)

	if err := inv.Add(InvUse, 24, &Item{ItemBase: ItemBase{ID: 2000000}}); err != nil {
		t.Fatalf("slot at max rejected: %v", err)
	}
	for _, slot := range []int16{0, -3, 25} {
		if err := inv.Add(InvUse, slot, &Item{}); !errors.Is(err, ErrSlotOutOfRange) {
			t.Errorf("slot %d: err = %v, want ErrSlotOutOfRange", slot, err)
		}
	}
	// equipped slots are not bounded by a slot max
	if err := inv.Add(InvEquipped, 111, &Equip{}); err != nil {
		t.Errorf("equipped slot 111: %v", err)
	}
	if err := inv.Add(InvNone, 1, &Item{}); err == nil {
		t.Error("category none accepted")
	}
	if inv.SlotMax(InvEtc) != 96 {
		t.Errorf("default slot max = %d", inv.SlotMax(InvEtc))
	}
}

func TestInventoryRelocateAndEach(t *testing.T) {
	inv := NewInventory(96)
	a := &Item{ItemBase: ItemBase{ID: 1}}
	b := &Item{ItemBase: ItemBase{ID: 2}}
	inv.Add(InvEtc, 5, a)
	inv.Add(InvEtc, 2, b)

	var order []int16
	inv.Each(InvEtc, func(slot int16, _ Record) { order = append(order, slot) })
	if len(order) != 2 || order[0] != 2 || order[1] != 5 {
		t.Fatalf("Each order = %v", order)
	}

	if err := inv.Relocate(InvEtc, 5, InvEtc, 2); err != nil {
		t.Fatal(err)
	}
	if rec, _ := inv.Get(InvEtc, 2); rec != a {
		t.Fatal("move did not place source")
	}
	if rec, _ := inv.Get(InvEtc, 5); rec != b {
		t.Fatal("move did not swap destination")
	}
	if _, ok := inv.Remove(InvEtc, 5); !ok || inv.Count(InvEtc) != 1 {
		t.Fatal("remove")
	}
	if err := inv.Relocate(InvEtc, 9, InvEtc, 1); err == nil {
		t.Fatal("moving an empty slot succeeded")
	}
}

func TestInventoryRelocateAcrossCategories(t *testing.T) {
	inv := NewInventory(96)
	hat := &Equip{ItemBase: ItemBase{ID: 1002000}}
	worn := &Equip{ItemBase: ItemBase{ID: 1002001}}
	inv.Add(InvEquip, 4, hat)
	inv.Add(InvEquipped, 1, worn)

	if err := inv.Relocate(InvEquip, 4, InvEquipped, 1); err != nil {
		t.Fatal(err)
	}
	if rec, _ := inv.Get(InvEquipped, 1); rec != hat {
		t.Error("source not worn")
	}
	if rec, _ := inv.Get(InvEquip, 4); rec != worn {
		t.Error("worn item not swapped back")
	}

	if err := inv.Relocate(InvEquipped, 1, InvEquip, 0); !errors.Is(err, ErrSlotOutOfRange) {
		t.Fatalf("slot 0 destination: err = %v", err)
	}
	if rec, _ := inv.Get(InvEquipped, 1); rec != hat {
		t.Error("rejected move changed the source")
	}
}

func TestInventorySetCount(t *testing.T) {
	inv := NewInventory(96)
	inv.Add(InvUse, 1, &Item{ItemBase: ItemBase{ID: 2000000}, Count: 100})
	inv.Add(InvEquip, 1, &Equip{})

	if err := inv.SetCount(InvUse, 1, 37); err != nil {
		t.Fatal(err)
	}
	if rec, _ := inv.Get(InvUse, 1); rec.(*Item).Count != 37 {
		t.Errorf("count = %d", rec.(*Item).Count)
	}
	if err := inv.SetCount(InvUse, 2, 1); err == nil {
		t.Error("empty slot accepted")
	}
	if err := inv.SetCount(InvEquip, 1, 1); err == nil {
		t.Error("equip accepted a count")
	}
}

func TestQuestLogLastStarted(t *testing.T) {
	q := NewQuestLog()
	if _, ok := q.LastStarted(); ok {
		t.Fatal("empty log has a last started quest")
	}
	q.AddStarted(1000, "")
	q.AddStarted(2500, "x")
	q.AddStarted(1200, "")
	if id, _ := q.LastStarted(); id != 2500 {
		t.Fatalf("last started = %d", id)
	}
}

func TestEquipStatNames(t *testing.T) {
	if StatSTR.String() != "STR" || StatJUMP.String() != "JUMP" {
		t.Fatal("stat names")
	}
	if int(NumEquipStats) != 15 {
		t.Fatalf("stat table size = %d", NumEquipStats)
	}
}
