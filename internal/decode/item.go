package decode

import (
	"fmt"

	"github.com/journeygo/client/internal/character"
	"github.com/journeygo/client/internal/net/packet"
)

const (
	petIDMin = 5000000
	petIDMax = 5000102
)

// ClassifyItem decides the wire shape of an item record. Anything that is
// neither in an equip category nor a pet id decodes as a plain item.
func ClassifyItem(t character.InventoryType, id int32) character.RecordKind {
	switch {
	case t == character.InvEquip || t == character.InvEquipped:
		return character.KindEquip
	case id >= petIDMin && id <= petIDMax:
		return character.KindPet
	default:
		return character.KindPlain
	}
}

// hasRechargeTail reports whether a plain item carries the 8 extra bytes of
// rechargeable projectiles (throwing stars and bullets).
func hasRechargeTail(id int32) bool {
	class := id / 10000
	return class == 233 || class == 207
}

// ParseItem decodes one record and stores it in inv. A record whose bytes
// run out is not stored.
func ParseItem(r *packet.Reader, t character.InventoryType, slot int16, inv *character.Inventory) error {
	rec := readRecord(r, t)
	t, slot = placement(t, slot)
	if err := r.Err(); err != nil {
		return fmt.Errorf("item %d in %s slot %d: %w", rec.ItemID(), t, slot, err)
	}
	return inv.Add(t, slot, rec)
}

// readRecord reads the type byte, the item id and the record body.
func readRecord(r *packet.Reader, t character.InventoryType) character.Record {
	r.ReadUint8() // type
	id := r.ReadInt()
	switch ClassifyItem(t, id) {
	case character.KindEquip:
		return parseEquip(r, id)
	case character.KindPet:
		return parsePet(r, id)
	default:
		return parsePlain(r, id)
	}
}

// placement maps a wire slot to its category: negative equip slots are worn.
func placement(t character.InventoryType, slot int16) (character.InventoryType, int16) {
	if (t == character.InvEquip || t == character.InvEquipped) && slot < 0 {
		return character.InvEquipped, -slot
	}
	return t, slot
}

func parseBase(r *packet.Reader, id int32) character.ItemBase {
	b := character.ItemBase{ID: id}
	b.Cash = r.ReadBool()
	if b.Cash {
		b.UniqueID = r.ReadLong()
	}
	b.Expiration = r.ReadLong()
	return b
}

func parseEquip(r *packet.Reader, id int32) *character.Equip {
	e := &character.Equip{ItemBase: parseBase(r, id)}
	e.Slots = r.ReadUint8()
	e.Level = r.ReadUint8()
	for i := range e.Stats {
		e.Stats[i] = r.ReadShort()
	}
	e.Owner = r.ReadString()
	e.Flag = r.ReadShort()
	if e.Cash {
		r.Skip(10)
	} else {
		r.Skip(1)
		e.ItemLevel = r.ReadUint8()
		r.Skip(2)
		e.ItemExp = r.ReadShort()
		e.Vicious = r.ReadInt()
		r.Skip(8)
	}
	r.Skip(12)
	return e
}

func parsePet(r *packet.Reader, id int32) *character.Pet {
	p := &character.Pet{ItemBase: parseBase(r, id)}
	p.Name = r.ReadPaddedString(13)
	p.Level = r.ReadUint8()
	p.Closeness = r.ReadShort()
	p.Fullness = r.ReadUint8()
	r.Skip(18)
	return p
}

func parsePlain(r *packet.Reader, id int32) *character.Item {
	it := &character.Item{ItemBase: parseBase(r, id)}
	it.Count = r.ReadShort()
	it.Owner = r.ReadString()
	it.Flag = r.ReadShort()
	if hasRechargeTail(id) {
		r.Skip(8)
	}
	return it
}
