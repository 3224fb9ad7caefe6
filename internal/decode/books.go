package decode

import (
	"fmt"

	"github.com/journeygo/client/internal/character"
	"github.com/journeygo/client/internal/net/packet"
)

const monsterCardSize = 3

// ParseMonsterBook decodes the cover and card list. A declared count larger
// than the remaining bytes can hold is shrunk to fit.
func ParseMonsterBook(r *packet.Reader, mb *character.MonsterBook, lim Limits) error {
	mb.Cover = r.ReadInt()
	r.Skip(1)
	n := int(r.ReadShort())
	if err := r.Err(); err != nil {
		return err
	}
	if n < 0 || n > lim.MonsterBookMax {
		return fmt.Errorf("%w: %d cards", ErrBadCount, n)
	}
	if n*monsterCardSize > r.Available() {
		n = r.Available() / monsterCardSize
	}
	for i := 0; i < n; i++ {
		if r.Available() < monsterCardSize {
			break
		}
		id := r.ReadShort()
		level := r.ReadInt8()
		mb.AddCard(id, level)
	}
	return r.Err()
}

func ParseTeleportRock(r *packet.Reader, tr *character.TeleportRock) error {
	for i := range tr.Regular {
		tr.Regular[i] = r.ReadInt()
	}
	for i := range tr.VIP {
		tr.VIP[i] = r.ReadInt()
	}
	return r.Err()
}

// ParseRings decodes the crush, friendship and marriage ring lists.
func ParseRings(r *packet.Reader) ([]character.Ring, error) {
	var rings []character.Ring

	n := int(r.ReadShort())
	if n < 0 {
		return rings, fmt.Errorf("%w: %d crush rings", ErrBadCount, n)
	}
	for i := 0; i < n && r.Err() == nil; i++ {
		ring := character.Ring{Kind: character.RingCrush}
		ring.PartnerID = r.ReadInt()
		ring.PartnerName = r.ReadPaddedString(13)
		ring.RingID = r.ReadLong()
		ring.PairRingID = r.ReadLong()
		if r.Err() == nil {
			rings = append(rings, ring)
		}
	}

	n = int(r.ReadShort())
	if n < 0 {
		return rings, fmt.Errorf("%w: %d friendship rings", ErrBadCount, n)
	}
	for i := 0; i < n && r.Err() == nil; i++ {
		ring := character.Ring{Kind: character.RingFriend}
		ring.PartnerID = r.ReadInt()
		ring.PartnerName = r.ReadPaddedString(13)
		ring.RingID = r.ReadLong()
		ring.PairRingID = r.ReadLong()
		ring.ItemID = r.ReadInt()
		if r.Err() == nil {
			rings = append(rings, ring)
		}
	}

	n = int(r.ReadShort())
	if n < 0 {
		return rings, fmt.Errorf("%w: %d marriage rings", ErrBadCount, n)
	}
	for i := 0; i < n && r.Err() == nil; i++ {
		ring := character.Ring{Kind: character.RingMarriage}
		ring.MarriageID = r.ReadInt()
		r.ReadInt() // own id
		ring.PartnerID = r.ReadInt()
		r.Skip(2)
		ring.ItemID = r.ReadInt()
		r.Skip(4)
		r.ReadPaddedString(13) // own name
		ring.PartnerName = r.ReadPaddedString(13)
		if r.Err() == nil {
			rings = append(rings, ring)
		}
	}
	return rings, r.Err()
}

func ParseMiniGame(r *packet.Reader) error {
	r.Skip(2)
	return r.Err()
}

func ParseNewYearCards(r *packet.Reader) ([]character.NewYearCard, error) {
	n := int(r.ReadShort())
	if n < 0 {
		return nil, fmt.Errorf("%w: %d new year cards", ErrBadCount, n)
	}
	var cards []character.NewYearCard
	for i := 0; i < n && r.Err() == nil; i++ {
		var c character.NewYearCard
		c.ID = r.ReadInt()
		c.SenderID = r.ReadInt()
		c.SenderName = r.ReadString()
		c.SenderDiscarded = r.ReadBool()
		c.SentAt = r.ReadLong()
		c.ReceiverID = r.ReadInt()
		c.ReceiverName = r.ReadString()
		c.ReceiverDiscarded = r.ReadBool()
		c.Received = r.ReadBool()
		c.ReceivedAt = r.ReadLong()
		c.Message = r.ReadString()
		if r.Err() == nil {
			cards = append(cards, c)
		}
	}
	return cards, r.Err()
}

func ParseAreaInfo(r *packet.Reader, into map[int16]string) error {
	n := int(r.ReadShort())
	if n < 0 {
		return fmt.Errorf("%w: %d area entries", ErrBadCount, n)
	}
	for i := 0; i < n && r.Err() == nil; i++ {
		area := r.ReadShort()
		info := r.ReadString()
		if r.Err() == nil {
			into[area] = info
		}
	}
	return r.Err()
}
