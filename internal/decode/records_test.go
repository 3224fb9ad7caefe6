package decode

import (
	"testing"

	"github.com/journeygo/client/internal/character"
	"github.com/journeygo/client/internal/net/packet"
)

func TestParseItemCashRecords(t *testing.T) {
	w := packet.NewWriter()

	// pet: 22-byte cash header, 35-byte body
	w.WriteUint8(3)
	w.WriteInt(5000000)
	w.WriteBool(true)
	w.WriteLong(0x1122334455)
	w.WriteLong(150842304000000000)
	w.WritePaddedString("Brownie", 13)
	w.WriteUint8(12)
	w.WriteShort(480)
	w.WriteUint8(87)
	w.WriteZero(18)
	petEnd := w.Len()

	// cash equip: 22-byte header, 10-byte cash tail instead of 18
	w.WriteUint8(1)
	w.WriteInt(1702000)
	w.WriteBool(true)
	w.WriteLong(777)
	w.WriteLong(-1)
	w.WriteUint8(0)
	w.WriteUint8(0)
	stats := statsFor(3)
	for _, v := range stats {
		w.WriteShort(v)
	}
	w.WriteString("Owner")
	w.WriteShort(0x10)
	w.WriteZero(10)
	w.WriteZero(12)
	equipEnd := w.Len()

	// cash plain item
	w.WriteUint8(2)
	w.WriteInt(5040000)
	w.WriteBool(true)
	w.WriteLong(9001)
	w.WriteLong(-1)
	w.WriteShort(3)
	w.WriteString("")
	w.WriteShort(0)
	plainEnd := w.Len()
	w.WriteUint8(0xAB) // must stay unread

	if petEnd != 57 || equipEnd-petEnd != 85 || plainEnd-equipEnd != 28 {
		t.Fatalf("fixture sizes = %d/%d/%d", petEnd, equipEnd-petEnd, plainEnd-equipEnd)
	}

	r := packet.NewReader(w.Bytes())
	inv := character.NewInventory(96)

	if err := ParseItem(r, character.InvCash, 1, inv); err != nil {
		t.Fatalf("pet: %v", err)
	}
	if r.Position() != petEnd {
		t.Fatalf("cursor after pet = %d, want %d", r.Position(), petEnd)
	}
	rec, ok := inv.Get(character.InvCash, 1)
	pet, isPet := rec.(*character.Pet)
	if !ok || !isPet {
		t.Fatalf("cash slot 1 = %#v", rec)
	}
	if pet.Name != "Brownie" || pet.Level != 12 || pet.Closeness != 480 || pet.Fullness != 87 {
		t.Errorf("pet = %+v", pet)
	}
	if !pet.Cash || pet.UniqueID != 0x1122334455 || pet.Expiration != 150842304000000000 {
		t.Errorf("pet base = %+v", pet.ItemBase)
	}

	if err := ParseItem(r, character.InvEquip, 3, inv); err != nil {
		t.Fatalf("cash equip: %v", err)
	}
	if r.Position() != equipEnd {
		t.Fatalf("cursor after cash equip = %d, want %d", r.Position(), equipEnd)
	}
	rec, ok = inv.Get(character.InvEquip, 3)
	eq, isEquip := rec.(*character.Equip)
	if !ok || !isEquip {
		t.Fatalf("equip slot 3 = %#v", rec)
	}
	if !eq.Cash || eq.UniqueID != 777 || eq.Stats != stats || eq.Owner != "Owner" || eq.Flag != 0x10 {
		t.Errorf("cash equip = %+v", eq)
	}
	if eq.ItemLevel != 0 || eq.ItemExp != 0 || eq.Vicious != 0 {
		t.Errorf("cash equip read non-cash fields: %+v", eq)
	}

	if err := ParseItem(r, character.InvCash, 2, inv); err != nil {
		t.Fatalf("cash item: %v", err)
	}
	if r.Position() != plainEnd {
		t.Fatalf("cursor after cash item = %d, want %d", r.Position(), plainEnd)
	}
	rec, ok = inv.Get(character.InvCash, 2)
	it, isItem := rec.(*character.Item)
	if !ok || !isItem || !it.Cash || it.UniqueID != 9001 || it.Count != 3 {
		t.Fatalf("cash slot 2 = %#v", rec)
	}
}

func TestParseItemNonCashEquipTail(t *testing.T) {
	w := packet.NewWriter()
	w.WriteUint8(1)
	w.WriteInt(1302000)
	w.WriteBool(false)
	w.WriteLong(-1)
	w.WriteUint8(7)
	w.WriteUint8(2)
	for range (character.EquipStats{}) {
		w.WriteShort(1)
	}
	w.WriteString("")
	w.WriteShort(0)
	w.WriteUint8(0)
	w.WriteUint8(4) // item level
	w.WriteShort(0)
	w.WriteShort(250) // item exp
	w.WriteInt(2)     // vicious
	w.WriteLong(0)
	w.WriteZero(12)
	end := w.Len()
	w.WriteUint8(0xAB)

	r := packet.NewReader(w.Bytes())
	inv := character.NewInventory(96)
	if err := ParseItem(r, character.InvEquip, 1, inv); err != nil {
		t.Fatal(err)
	}
	if end != 80 || r.Position() != end {
		t.Fatalf("record = %d bytes, cursor = %d", end, r.Position())
	}
	rec, _ := inv.Get(character.InvEquip, 1)
	eq := rec.(*character.Equip)
	if eq.Cash || eq.Slots != 7 || eq.Level != 2 || eq.ItemLevel != 4 || eq.ItemExp != 250 || eq.Vicious != 2 {
		t.Errorf("equip = %+v", eq)
	}
}

func TestParseTeleportRock(t *testing.T) {
	w := packet.NewWriter()
	for i := int32(0); i < character.TeleportRockSlots; i++ {
		w.WriteInt(100000000 + i)
	}
	for i := int32(0); i < character.VIPTeleportRockSlots; i++ {
		w.WriteInt(200000000 + i)
	}
	w.WriteUint8(0xAB)

	r := packet.NewReader(w.Bytes())
	var tr character.TeleportRock
	if err := ParseTeleportRock(r, &tr); err != nil {
		t.Fatal(err)
	}
	if r.Position() != 60 {
		t.Fatalf("cursor = %d, want 60", r.Position())
	}
	if tr.Regular[0] != 100000000 || tr.Regular[4] != 100000004 || tr.VIP[9] != 200000009 {
		t.Errorf("rock = %+v", tr)
	}

	var short character.TeleportRock
	if err := ParseTeleportRock(packet.NewReader(make([]byte, 20)), &short); err == nil {
		t.Error("truncated rock list decoded without error")
	}
}

func TestParseRings(t *testing.T) {
	w := packet.NewWriter()
	w.WriteShort(1)
	w.WriteInt(11)
	w.WritePaddedString("Crush", 13)
	w.WriteLong(1001)
	w.WriteLong(1002)
	crushEnd := w.Len()

	w.WriteShort(1)
	w.WriteInt(22)
	w.WritePaddedString("Friend", 13)
	w.WriteLong(2001)
	w.WriteLong(2002)
	w.WriteInt(1112800)
	friendEnd := w.Len()

	w.WriteShort(1)
	w.WriteInt(9)  // marriage id
	w.WriteInt(7)  // own id
	w.WriteInt(33) // partner
	w.WriteZero(2)
	w.WriteInt(1112803)
	w.WriteZero(4)
	w.WritePaddedString("Me", 13)
	w.WritePaddedString("Spouse", 13)
	marriageEnd := w.Len()
	w.WriteUint8(0xAB)

	if crushEnd != 2+33 || friendEnd-crushEnd != 2+37 || marriageEnd-friendEnd != 2+48 {
		t.Fatalf("fixture sizes = %d/%d/%d", crushEnd, friendEnd-crushEnd, marriageEnd-friendEnd)
	}

	r := packet.NewReader(w.Bytes())
	rings, err := ParseRings(r)
	if err != nil {
		t.Fatal(err)
	}
	if r.Position() != marriageEnd {
		t.Fatalf("cursor = %d, want %d", r.Position(), marriageEnd)
	}
	want := []character.Ring{
		{Kind: character.RingCrush, PartnerID: 11, PartnerName: "Crush", RingID: 1001, PairRingID: 1002},
		{Kind: character.RingFriend, PartnerID: 22, PartnerName: "Friend", RingID: 2001, PairRingID: 2002, ItemID: 1112800},
		{Kind: character.RingMarriage, PartnerID: 33, PartnerName: "Spouse", ItemID: 1112803, MarriageID: 9},
	}
	if len(rings) != len(want) {
		t.Fatalf("rings = %+v", rings)
	}
	for i := range want {
		if rings[i] != want[i] {
			t.Errorf("ring %d = %+v, want %+v", i, rings[i], want[i])
		}
	}
}

func TestParseRingsBadCount(t *testing.T) {
	w := packet.NewWriter()
	w.WriteShort(-1)
	if _, err := ParseRings(packet.NewReader(w.Bytes())); err == nil {
		t.Fatal("negative ring count accepted")
	}
}

func TestParseNewYearCards(t *testing.T) {
	w := packet.NewWriter()
	w.WriteShort(1)
	w.WriteInt(5)
	w.WriteInt(7)
	w.WriteString("Alice")
	w.WriteBool(false)
	w.WriteLong(1000)
	w.WriteInt(8)
	w.WriteString("Bob")
	w.WriteBool(true)
	w.WriteBool(true)
	w.WriteLong(2000)
	w.WriteString("hny")
	end := w.Len()
	w.WriteUint8(0xAB)

	// 2 count + 4+4+(2+5)+1+8+4+(2+3)+1+1+8+(2+3)
	if end != 2+48 {
		t.Fatalf("fixture size = %d", end)
	}
	r := packet.NewReader(w.Bytes())
	cards, err := ParseNewYearCards(r)
	if err != nil {
		t.Fatal(err)
	}
	if r.Position() != end {
		t.Fatalf("cursor = %d, want %d", r.Position(), end)
	}
	want := character.NewYearCard{
		ID: 5, SenderID: 7, SenderName: "Alice", SentAt: 1000,
		ReceiverID: 8, ReceiverName: "Bob", ReceiverDiscarded: true, Received: true,
		ReceivedAt: 2000, Message: "hny",
	}
	if len(cards) != 1 || cards[0] != want {
		t.Fatalf("cards = %+v", cards)
	}
}

func TestParseAreaInfo(t *testing.T) {
	w := packet.NewWriter()
	w.WriteShort(2)
	w.WriteShort(1000)
	w.WriteString("done=1")
	w.WriteShort(1200)
	w.WriteString("")
	end := w.Len()
	w.WriteUint8(0xAB)

	r := packet.NewReader(w.Bytes())
	info := make(map[int16]string)
	if err := ParseAreaInfo(r, info); err != nil {
		t.Fatal(err)
	}
	if end != 2+(2+2+6)+(2+2) || r.Position() != end {
		t.Fatalf("record = %d bytes, cursor = %d", end, r.Position())
	}
	if len(info) != 2 || info[1000] != "done=1" || info[1200] != "" {
		t.Errorf("area info = %v", info)
	}

	// a truncated entry is not stored
	w = packet.NewWriter()
	w.WriteShort(1)
	w.WriteShort(5)
	w.WriteUShort(10)
	partial := make(map[int16]string)
	if err := ParseAreaInfo(packet.NewReader(w.Bytes()), partial); err == nil || len(partial) != 0 {
		t.Fatalf("truncated area info: err=%v entries=%v", err, partial)
	}
}
