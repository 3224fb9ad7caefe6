package persist

import (
	"encoding/binary"
	"hash"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/journeygo/client/internal/character"
)

// SnapshotItem is one inventory record flattened for storage.
type SnapshotItem struct {
	InvType    int16
	Slot       int16
	ItemID     int32
	Kind       string
	Quantity   int16
	Expiration int64
}

type SnapshotSkill struct {
	SkillID     int32
	Level       int32
	MasterLevel int32
}

// Snapshot is a point-in-time copy of the decoded character, keyed by the
// digest of its contents so identical states are stored once.
type Snapshot struct {
	CharacterID int32
	Name        string
	Level       uint8
	Job         int16
	MapID       int32
	Meso        int32
	Exp         int32
	Fame        int16
	Partial     bool
	Items       []SnapshotItem
	Skills      []SnapshotSkill
	Digest      [32]byte
	TakenAt     time.Time
}

// NewSnapshot flattens st. Items are ordered by inventory type then slot and
// skills by id, so the digest depends only on content.
func NewSnapshot(st *character.State, partial bool) *Snapshot {
	s := &Snapshot{
		CharacterID: st.ID,
		Name:        st.Stats.Name,
		Level:       st.Stats.Level,
		Job:         st.Stats.Job,
		MapID:       st.Stats.MapID,
		Exp:         st.Stats.Exp,
		Fame:        st.Stats.Fame,
		Partial:     partial,
		TakenAt:     time.Now(),
	}
	if st.Inventory != nil {
		s.Meso = st.Inventory.Meso
		for t := character.InvEquip; t <= character.InvEquipped; t++ {
			st.Inventory.Each(t, func(slot int16, rec character.Record) {
				s.Items = append(s.Items, flattenRecord(t, slot, rec))
			})
		}
	}
	if st.Skills != nil {
		st.Skills.Each(func(id int32, sk character.Skill) {
			s.Skills = append(s.Skills, SnapshotSkill{SkillID: id, Level: sk.Level, MasterLevel: sk.MasterLevel})
		})
	}
	s.Digest = s.digest()
	return s
}

func flattenRecord(t character.InventoryType, slot int16, rec character.Record) SnapshotItem {
	it := SnapshotItem{
		InvType:  int16(t),
		Slot:     slot,
		ItemID:   rec.ItemID(),
		Kind:     rec.Kind().String(),
		Quantity: 1,
	}
	switch r := rec.(type) {
	case *character.Item:
		it.Quantity = r.Count
		it.Expiration = r.Expiration
	case *character.Equip:
		it.Expiration = r.Expiration
	case *character.Pet:
		it.Expiration = r.Expiration
	}
	return it
}

func (s *Snapshot) digest() [32]byte {
	h, _ := blake2b.New256(nil) // only fails for oversized keys
	writeInt(h, int64(s.CharacterID))
	writeString(h, s.Name)
	writeInt(h, int64(s.Level))
	writeInt(h, int64(s.Job))
	writeInt(h, int64(s.MapID))
	writeInt(h, int64(s.Meso))
	writeInt(h, int64(s.Exp))
	writeInt(h, int64(s.Fame))
	writeInt(h, int64(len(s.Items)))
	for _, it := range s.Items {
		writeInt(h, int64(it.InvType))
		writeInt(h, int64(it.Slot))
		writeInt(h, int64(it.ItemID))
		writeString(h, it.Kind)
		writeInt(h, int64(it.Quantity))
		writeInt(h, it.Expiration)
	}
	writeInt(h, int64(len(s.Skills)))
	for _, sk := range s.Skills {
		writeInt(h, int64(sk.SkillID))
		writeInt(h, int64(sk.Level))
		writeInt(h, int64(sk.MasterLevel))
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func writeInt(h hash.Hash, v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	h.Write(b[:])
}

func writeString(h hash.Hash, v string) {
	writeInt(h, int64(len(v)))
	h.Write([]byte(v))
}
