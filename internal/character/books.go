package character

// MonsterBook records the collected card levels and the cover card.
type MonsterBook struct {
	Cover int32
	cards map[int16]int8
}

func NewMonsterBook() *MonsterBook {
	return &MonsterBook{cards: make(map[int16]int8)}
}

func (m *MonsterBook) AddCard(id int16, level int8) { m.cards[id] = level }

func (m *MonsterBook) Card(id int16) (int8, bool) {
	l, ok := m.cards[id]
	return l, ok
}

func (m *MonsterBook) Len() int { return len(m.cards) }

const (
	TeleportRockSlots    = 5
	VIPTeleportRockSlots = 10
)

// TeleportRock holds the saved map ids of the regular and VIP rocks.
type TeleportRock struct {
	Regular [TeleportRockSlots]int32
	VIP     [VIPTeleportRockSlots]int32
}

// Ring is one entry of the crush, friendship or marriage ring lists.
type Ring struct {
	Kind        RingKind
	PartnerID   int32
	PartnerName string
	RingID      int64
	PairRingID  int64
	ItemID      int32
	MarriageID  int32 // marriage rings only
}

type RingKind uint8

const (
	RingCrush RingKind = iota + 1
	RingFriend
	RingMarriage
)

// NewYearCard is a sent or received greeting card.
type NewYearCard struct {
	ID                int32
	SenderID          int32
	SenderName        string
	SenderDiscarded   bool
	SentAt            int64
	ReceiverID        int32
	ReceiverName      string
	ReceiverDiscarded bool
	Received          bool
	ReceivedAt        int64
	Message           string
}
