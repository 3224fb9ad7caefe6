package character

import "fmt"

// InventoryType is the inventory category a record lives in.
type InventoryType int8

const (
	InvNone InventoryType = iota
	InvEquip
	InvUse
	InvSetup
	InvEtc
	InvCash
	InvEquipped
)

var inventoryTypeNames = [...]string{"none", "equip", "use", "setup", "etc", "cash", "equipped"}

func (t InventoryType) String() string {
	if t >= 0 && int(t) < len(inventoryTypeNames) {
		return inventoryTypeNames[t]
	}
	return fmt.Sprintf("inventory(%d)", int8(t))
}

func (t InventoryType) Valid() bool { return t > InvNone && t <= InvEquipped }

// RecordKind is the wire shape of an item record.
type RecordKind int

const (
	KindPlain RecordKind = iota
	KindEquip
	KindPet
)

func (k RecordKind) String() string {
	switch k {
	case KindEquip:
		return "equip"
	case KindPet:
		return "pet"
	default:
		return "plain"
	}
}

// Record is any inventory entry.
type Record interface {
	ItemID() int32
	Kind() RecordKind
}

// ItemBase holds the fields every record variant starts with.
type ItemBase struct {
	ID         int32
	Cash       bool
	UniqueID   int64 // only meaningful when Cash
	Expiration int64
}

func (b ItemBase) ItemID() int32 { return b.ID }

// Item is a plain stackable item.
type Item struct {
	ItemBase
	Count int16
	Owner string
	Flag  int16
}

func (*Item) Kind() RecordKind { return KindPlain }

// Equip is a wearable item with its own stat table.
type Equip struct {
	ItemBase
	Slots     uint8 // remaining upgrade slots
	Level     uint8
	Stats     EquipStats
	Owner     string
	Flag      int16
	ItemLevel uint8
	ItemExp   int16
	Vicious   int32
}

func (*Equip) Kind() RecordKind { return KindEquip }

// Pet is a pet item.
type Pet struct {
	ItemBase
	Name      string
	Level     uint8
	Closeness int16
	Fullness  uint8
}

func (*Pet) Kind() RecordKind { return KindPet }
