package decode

import (
	"fmt"

	"github.com/journeygo/client/internal/character"
	"github.com/journeygo/client/internal/net/packet"
)

// SkillShape tells whether a skill record carries a master level.
type SkillShape int

const (
	NoMasterLevel SkillShape = iota
	HasMasterLevel
)

// ClassifySkill infers the record shape from the id: fourth advancement
// skills (id % 100000 / 10000 == 2) send a master level.
func ClassifySkill(id int32) SkillShape {
	if (id%100000)/10000 == 2 {
		return HasMasterLevel
	}
	return NoMasterLevel
}

func ParseSkillBook(r *packet.Reader, book *character.SkillBook) error {
	n := int(r.ReadShort())
	if n < 0 {
		return fmt.Errorf("%w: %d skills", ErrBadCount, n)
	}
	for i := 0; i < n && r.Err() == nil; i++ {
		id := r.ReadInt()
		s := character.Skill{
			Level:      r.ReadInt(),
			Expiration: r.ReadLong(),
		}
		if ClassifySkill(id) == HasMasterLevel {
			s.MasterLevel = r.ReadInt()
		}
		if r.Err() == nil {
			book.Set(id, s)
		}
	}
	return r.Err()
}

func ParseCooldowns(r *packet.Reader, cd *character.Cooldowns, lim Limits) error {
	n := int(r.ReadShort())
	if n < 0 || n > lim.CooldownMax {
		return fmt.Errorf("%w: %d cooldowns", ErrBadCount, n)
	}
	for i := 0; i < n && r.Err() == nil; i++ {
		id := r.ReadInt()
		secs := r.ReadShort()
		if r.Err() == nil {
			cd.Add(id, secs)
		}
	}
	return r.Err()
}

// ParseQuestLog decodes started and completed quests. A started id that is
// already known is a sub-update of the most recent started quest.
func ParseQuestLog(r *packet.Reader, q *character.QuestLog) error {
	n := int(r.ReadShort())
	if n < 0 {
		return fmt.Errorf("%w: %d started quests", ErrBadCount, n)
	}
	for i := 0; i < n && r.Err() == nil; i++ {
		id := r.ReadShort()
		data := r.ReadString()
		if r.Err() != nil {
			break
		}
		if q.IsStarted(id) {
			last, _ := q.LastStarted()
			q.AddInProgress(last, id, data)
		} else {
			q.AddStarted(id, data)
		}
	}

	n = int(r.ReadShort())
	if n < 0 {
		return fmt.Errorf("%w: %d completed quests", ErrBadCount, n)
	}
	for i := 0; i < n && r.Err() == nil; i++ {
		id := r.ReadShort()
		at := r.ReadLong()
		if r.Err() == nil {
			q.AddCompleted(id, at)
		}
	}
	return r.Err()
}
