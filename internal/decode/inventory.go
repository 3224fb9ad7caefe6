package decode

import (
	"errors"
	"fmt"

	"github.com/journeygo/client/internal/character"
	"github.com/journeygo/client/internal/net/packet"
)

// wideSections are the three int16-marker sections in wire order. The second
// one carries cash equips under negated slots, which land in the equipped
// category.
var wideSections = [...]struct {
	name   string
	t      character.InventoryType
	negate bool
}{
	{"equipped", character.InvEquipped, false},
	{"cash equipped", character.InvEquip, true},
	{"equip", character.InvEquip, false},
}

var narrowSections = [...]character.InventoryType{
	character.InvUse, character.InvSetup, character.InvEtc, character.InvCash,
}

var slotMaxOrder = [...]character.InventoryType{
	character.InvEquip, character.InvUse, character.InvSetup, character.InvEtc, character.InvCash,
}

// ParseInventory decodes the whole inventory block. Records that were decoded
// before a failure stay in inv. A section that hits its cap or a bad marker
// stops the block, since the cursor no longer sits on a record boundary.
func ParseInventory(r *packet.Reader, inv *character.Inventory, lim Limits) error {
	inv.Meso = r.ReadInt()
	for _, t := range slotMaxOrder {
		inv.SetSlotMax(t, r.ReadUint8())
	}
	r.Skip(8)

	var errs []error
	for _, s := range wideSections {
		err := parseWideSection(r, inv, s.t, s.negate, lim.WideMarkerCap)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s section: %w", s.name, err))
			if desynced(err) {
				return errors.Join(errs...)
			}
		}
	}

	r.Skip(2)

	for _, t := range narrowSections {
		err := parseNarrowSection(r, inv, t, lim.NarrowMarkerCap, lim.NarrowMarkerMax)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s section: %w", t, err))
			if desynced(err) {
				break
			}
		}
	}
	return errors.Join(errs...)
}

func parseWideSection(r *packet.Reader, inv *character.Inventory, t character.InventoryType, negate bool, limit int) error {
	var errs []error
	count := 0
	pos := r.ReadShort()
	for pos != 0 && r.Err() == nil {
		if count >= limit {
			errs = append(errs, fmt.Errorf("%w: %d records without a terminator", ErrSectionCap, count))
			break
		}
		slot := pos
		if negate {
			slot = -pos
		}
		if err := ParseItem(r, t, slot, inv); err != nil {
			errs = append(errs, err)
		}
		count++
		pos = r.ReadShort()
	}
	if err := r.Err(); err != nil && len(errs) == 0 {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func parseNarrowSection(r *packet.Reader, inv *character.Inventory, t character.InventoryType, limit, maxMarker int) error {
	var errs []error
	count := 0
	pos := r.ReadInt8()
	for pos != 0 && r.Err() == nil {
		if int(pos) < 0 || int(pos) > maxMarker {
			errs = append(errs, fmt.Errorf("%w: %d", ErrBadMarker, pos))
			break
		}
		if count >= limit {
			errs = append(errs, fmt.Errorf("%w: %d records without a terminator", ErrSectionCap, count))
			break
		}
		if err := ParseItem(r, t, int16(pos), inv); err != nil {
			errs = append(errs, err)
		}
		count++
		pos = r.ReadInt8()
	}
	if err := r.Err(); err != nil && len(errs) == 0 {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// isOnlySlotRejection reports whether every error in err is a slot bounds
// rejection. Those leave the cursor aligned.
func isOnlySlotRejection(err error) bool {
	if err == character.ErrSlotOutOfRange {
		return true
	}
	switch e := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if !isOnlySlotRejection(inner) {
				return false
			}
		}
		return true
	case interface{ Unwrap() error }:
		if inner := e.Unwrap(); inner != nil {
			return isOnlySlotRejection(inner)
		}
	}
	return false
}
