package decode

import (
	"errors"

	"github.com/journeygo/client/internal/character"
	"github.com/journeygo/client/internal/net/packet"
)

const (
	DefaultMapID = 100000000
	maxMapID     = 999999999
)

type section struct {
	name string
	// optional sections are only decoded when more than two bytes remain
	optional bool
	parse    func() error
}

// ParseCharacterInfo decodes the full character block of a field entry in
// wire order. Sections that decode are kept in st even when a later one
// fails; the returned error joins one *SectionError per failed section.
func ParseCharacterInfo(r *packet.Reader, st *character.State, lim Limits) error {
	sections := []section{
		{name: "stats", parse: func() error {
			s, err := ParseStats(r)
			if err == nil {
				st.Stats = s
			}
			return err
		}},
		{name: "buddy", parse: func() error {
			st.BuddyCap = r.ReadUint8()
			if r.ReadBool() {
				st.LinkedName = r.ReadString()
			}
			return r.Err()
		}},
		{name: "inventory", parse: func() error { return ParseInventory(r, st.Inventory, lim) }},
		{name: "skills", parse: func() error { return ParseSkillBook(r, st.Skills) }},
		{name: "cooldowns", parse: func() error { return ParseCooldowns(r, st.Cooldowns, lim) }},
		{name: "quests", parse: func() error { return ParseQuestLog(r, st.Quests) }},
		{name: "minigame", parse: func() error { return ParseMiniGame(r) }},
	}
	if lim.RingSections {
		sections = append(sections, section{name: "rings", parse: func() error {
			rings, err := ParseRings(r)
			st.Rings = rings
			return err
		}})
	}
	sections = append(sections,
		section{name: "teleport rock", parse: func() error { return ParseTeleportRock(r, &st.TeleportRock) }},
		section{name: "monster book", parse: func() error { return ParseMonsterBook(r, st.MonsterBook, lim) }},
		section{name: "new year cards", optional: true, parse: func() error {
			cards, err := ParseNewYearCards(r)
			st.NewYearCards = cards
			return err
		}},
		section{name: "area info", optional: true, parse: func() error { return ParseAreaInfo(r, st.AreaInfo) }},
	)

	var errs []error
	for _, s := range sections {
		if s.optional && r.Available() <= 2 {
			continue
		}
		start := r.Position()
		if err := s.parse(); err != nil {
			errs = append(errs, &SectionError{
				Section:   s.name,
				Offset:    start,
				Remaining: r.Available(),
				Err:       err,
			})
			if desynced(err) {
				break
			}
		}
	}
	return errors.Join(errs...)
}

// SetField is the outcome of a field transition message.
type SetField struct {
	Channel int32
	// ChangeMap is true for a plain map change; false for a full character
	// entry that replaced the character state.
	ChangeMap   bool
	CharacterID int32
	MapID       int32
	Portal      uint8
	// MapFallback is set when the server sent an unusable map id.
	MapFallback bool
}

// ParseSetField decodes a field transition. On a full entry st is filled in
// place; the returned error carries any section failures.
func ParseSetField(r *packet.Reader, st *character.State, lim Limits) (SetField, error) {
	var sf SetField
	sf.Channel = r.ReadInt()
	mode1 := r.ReadInt8()
	mode2 := r.ReadInt8()

	if mode1 == 0 && mode2 == 0 {
		sf.ChangeMap = true
		r.Skip(3)
		sf.MapID = r.ReadInt()
		sf.Portal = r.ReadUint8()
		if err := r.Err(); err != nil {
			return sf, &SectionError{Section: "change map", Offset: r.Position(), Err: err}
		}
		sf.fixMap()
		return sf, nil
	}

	r.Skip(23)
	sf.CharacterID = r.ReadInt()
	if err := r.Err(); err != nil {
		return sf, &SectionError{Section: "entry header", Offset: r.Position(), Err: err}
	}
	st.ID = sf.CharacterID
	err := ParseCharacterInfo(r, st, lim)
	sf.MapID = st.Stats.MapID
	sf.Portal = st.Stats.Portal
	sf.fixMap()
	return sf, err
}

func (sf *SetField) fixMap() {
	if sf.MapID <= 0 || sf.MapID > maxMapID {
		sf.MapID = DefaultMapID
		sf.Portal = 0
		sf.MapFallback = true
	}
}
