package decode

import (
	"github.com/journeygo/client/internal/character"
	"github.com/journeygo/client/internal/net/packet"
)

// maxLookSlots bounds the 0xFF-terminated equip lists of a look.
const maxLookSlots = 64

func ParseStats(r *packet.Reader) (character.Stats, error) {
	var s character.Stats
	s.Name = r.ReadPaddedString(13)
	s.Female = r.ReadBool()
	s.Skin = r.ReadUint8()
	s.Face = r.ReadInt()
	s.Hair = r.ReadInt()
	for i := range s.PetIDs {
		s.PetIDs[i] = r.ReadLong()
	}

	s.Level = r.ReadUint8()
	s.Job = r.ReadShort()
	s.STR = r.ReadShort()
	s.DEX = r.ReadShort()
	s.INT = r.ReadShort()
	s.LUK = r.ReadShort()
	s.HP = r.ReadShort()
	s.MaxHP = r.ReadShort()
	s.MP = r.ReadShort()
	s.MaxMP = r.ReadShort()
	s.AP = r.ReadShort()

	if character.HasSPTable(s.Job) {
		n := int(r.ReadUint8())
		s.SPTable = make(map[uint8]uint8, n)
		for i := 0; i < n && r.Err() == nil; i++ {
			book := r.ReadUint8()
			s.SPTable[book] = r.ReadUint8()
		}
	} else {
		s.SP = r.ReadShort()
	}

	s.Exp = r.ReadInt()
	s.Fame = r.ReadShort()
	r.Skip(4) // gacha exp
	s.MapID = r.ReadInt()
	s.Portal = r.ReadUint8()
	r.Skip(4)
	return s, r.Err()
}

// ParseLook decodes an appearance block. Messages too short to hold one only
// carry the gender byte.
func ParseLook(r *packet.Reader) (character.Look, error) {
	look := character.Look{
		Equips: make(map[uint8]int32),
		Masked: make(map[uint8]int32),
	}
	if r.Available() < 10 {
		if r.Available() >= 1 {
			look.Female = r.ReadUint8() == 1
		}
		return look, r.Err()
	}

	look.Female = r.ReadUint8() == 1
	look.Skin = r.ReadUint8()
	look.Face = r.ReadInt()
	r.ReadBool() // megaphone
	look.Hair = r.ReadInt()

	readSlots(r, look.Equips)
	readSlots(r, look.Masked)
	if r.Available() >= 4 {
		look.CashWeapon = r.ReadInt()
	}
	return look, r.Err()
}

func readSlots(r *packet.Reader, into map[uint8]int32) {
	if r.Available() < 1 {
		return
	}
	slot := r.ReadUint8()
	for n := 0; slot != 0xFF && n < maxLookSlots && r.Available() >= 4; n++ {
		into[slot] = r.ReadInt()
		if r.Available() < 1 {
			return
		}
		slot = r.ReadUint8()
	}
}
