package character

import (
	"errors"
	"fmt"
	"sort"
)

var ErrSlotOutOfRange = errors.New("slot out of range")

// Inventory maps (category, slot) to item records. Slots start at 1; every
// category except Equipped is bounded by its slot maximum.
type Inventory struct {
	Meso int32

	slotMax        [InvEquipped + 1]uint8
	defaultSlotMax uint8
	items          map[InventoryType]map[int16]Record
}

func NewInventory(defaultSlotMax int) *Inventory {
	if defaultSlotMax <= 0 || defaultSlotMax > 255 {
		defaultSlotMax = 96
	}
	return &Inventory{
		defaultSlotMax: uint8(defaultSlotMax),
		items:          make(map[InventoryType]map[int16]Record, int(InvEquipped)),
	}
}

func (inv *Inventory) SetSlotMax(t InventoryType, n uint8) {
	if t.Valid() {
		inv.slotMax[t] = n
	}
}

// SlotMax returns the configured maximum, falling back to the default when
// the server never sent one (or sent zero).
func (inv *Inventory) SlotMax(t InventoryType) uint8 {
	if t.Valid() && inv.slotMax[t] != 0 {
		return inv.slotMax[t]
	}
	return inv.defaultSlotMax
}

func (inv *Inventory) checkSlot(t InventoryType, slot int16) error {
	if !t.Valid() {
		return fmt.Errorf("%w: invalid category %s", ErrSlotOutOfRange, t)
	}
	if slot < 1 {
		return fmt.Errorf("%w: %s slot %d", ErrSlotOutOfRange, t, slot)
	}
	if t != InvEquipped && int(slot) > int(inv.SlotMax(t)) {
		return fmt.Errorf("%w: %s slot %d exceeds max %d", ErrSlotOutOfRange, t, slot, inv.SlotMax(t))
	}
	return nil
}

// Add stores rec at (t, slot), replacing anything already there.
func (inv *Inventory) Add(t InventoryType, slot int16, rec Record) error {
	if err := inv.checkSlot(t, slot); err != nil {
		return err
	}
	m, ok := inv.items[t]
	if !ok {
		m = make(map[int16]Record)
		inv.items[t] = m
	}
	m[slot] = rec
	return nil
}

func (inv *Inventory) Get(t InventoryType, slot int16) (Record, bool) {
	rec, ok := inv.items[t][slot]
	return rec, ok
}

func (inv *Inventory) Remove(t InventoryType, slot int16) (Record, bool) {
	rec, ok := inv.items[t][slot]
	if ok {
		delete(inv.items[t], slot)
	}
	return rec, ok
}

// Relocate moves a record between two slots that may sit in different
// categories, as equipping does. An occupied destination is swapped into
// the source slot.
func (inv *Inventory) Relocate(srcT InventoryType, from int16, dstT InventoryType, to int16) error {
	if err := inv.checkSlot(dstT, to); err != nil {
		return err
	}
	src, ok := inv.items[srcT][from]
	if !ok {
		return fmt.Errorf("move %s: slot %d is empty", srcT, from)
	}
	if dst, ok := inv.items[dstT][to]; ok {
		inv.items[srcT][from] = dst
	} else {
		delete(inv.items[srcT], from)
	}
	return inv.Add(dstT, to, src)
}

// SetCount changes the quantity of the plain item at (t, slot).
func (inv *Inventory) SetCount(t InventoryType, slot int16, count int16) error {
	rec, ok := inv.items[t][slot]
	if !ok {
		return fmt.Errorf("set count %s: slot %d is empty", t, slot)
	}
	it, ok := rec.(*Item)
	if !ok {
		return fmt.Errorf("set count %s: slot %d holds a %s", t, slot, rec.Kind())
	}
	it.Count = count
	return nil
}

func (inv *Inventory) Count(t InventoryType) int { return len(inv.items[t]) }

func (inv *Inventory) Total() int {
	n := 0
	for _, m := range inv.items {
		n += len(m)
	}
	return n
}

// Each visits the records of one category in ascending slot order.
func (inv *Inventory) Each(t InventoryType, fn func(slot int16, rec Record)) {
	m := inv.items[t]
	slots := make([]int16, 0, len(m))
	for s := range m {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	for _, s := range slots {
		fn(s, m[s])
	}
}
