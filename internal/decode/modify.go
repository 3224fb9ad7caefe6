package decode

import (
	"errors"
	"fmt"

	"github.com/journeygo/client/internal/character"
	"github.com/journeygo/client/internal/net/packet"
)

// ErrBadOpMode means an inventory modification carried an unknown mode.
var ErrBadOpMode = errors.New("unknown inventory modification mode")

type InventoryOpMode uint8

const (
	OpAdd InventoryOpMode = iota
	OpCount
	OpMove
	OpRemove
)

func (m InventoryOpMode) String() string {
	switch m {
	case OpAdd:
		return "add"
	case OpCount:
		return "count"
	case OpMove:
		return "move"
	case OpRemove:
		return "remove"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// InventoryOp is one entry of an inventory modification. Slot and To keep
// their wire sign; negative equip slots are worn items.
type InventoryOp struct {
	Mode   InventoryOpMode
	Type   character.InventoryType
	Slot   int16
	Count  int16 // OpCount
	To     int16 // OpMove
	Record character.Record
}

// ParseInventoryOps decodes an inventory modification message. Entries
// before a failure are returned.
func ParseInventoryOps(r *packet.Reader) ([]InventoryOp, error) {
	r.ReadBool() // update tick
	if r.Available() == 0 {
		return nil, r.Err()
	}
	n := int(r.ReadUint8())
	ops := make([]InventoryOp, 0, n)
	worn := false
	for i := 0; i < n && r.Err() == nil; i++ {
		op := InventoryOp{
			Mode: InventoryOpMode(r.ReadUint8()),
			Type: character.InventoryType(r.ReadUint8()),
			Slot: r.ReadShort(),
		}
		switch op.Mode {
		case OpAdd:
			op.Record = readRecord(r, op.Type)
		case OpCount:
			op.Count = r.ReadShort()
		case OpMove:
			op.To = r.ReadShort()
			worn = worn || op.Slot < 0 || op.To < 0
		case OpRemove:
			worn = worn || op.Slot < 0
		default:
			return ops, fmt.Errorf("%w: %d in entry %d", ErrBadOpMode, op.Mode, i)
		}
		if r.Err() == nil {
			ops = append(ops, op)
		}
	}
	if worn && r.Err() == nil {
		r.ReadUint8() // movement marker after equip changes
	}
	return ops, r.Err()
}

// ApplyInventoryOps applies ops in order and returns the failures joined.
// A failed entry does not stop the rest.
func ApplyInventoryOps(inv *character.Inventory, ops []InventoryOp) error {
	var errs []error
	for _, op := range ops {
		t, slot := placement(op.Type, op.Slot)
		var err error
		switch op.Mode {
		case OpAdd:
			err = inv.Add(t, slot, op.Record)
		case OpCount:
			err = inv.SetCount(t, slot, op.Count)
		case OpMove:
			dstT, to := placement(op.Type, op.To)
			err = inv.Relocate(t, slot, dstT, to)
		case OpRemove:
			if _, ok := inv.Remove(t, slot); !ok {
				err = fmt.Errorf("remove %s: slot %d is empty", t, slot)
			}
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s op: %w", op.Mode, err))
		}
	}
	return errors.Join(errs...)
}
