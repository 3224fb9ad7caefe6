package character

import "sort"

type Skill struct {
	Level       int32
	MasterLevel int32
	Expiration  int64
}

// SkillBook maps skill ids to the character's learned levels.
type SkillBook struct {
	skills map[int32]Skill
}

func NewSkillBook() *SkillBook {
	return &SkillBook{skills: make(map[int32]Skill)}
}

func (b *SkillBook) Set(id int32, s Skill) { b.skills[id] = s }

func (b *SkillBook) Get(id int32) (Skill, bool) {
	s, ok := b.skills[id]
	return s, ok
}

func (b *SkillBook) Len() int { return len(b.skills) }

// Each visits skills in ascending id order.
func (b *SkillBook) Each(fn func(id int32, s Skill)) {
	ids := make([]int32, 0, len(b.skills))
	for id := range b.skills {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fn(id, b.skills[id])
	}
}

// Cooldowns holds remaining cooldown seconds per skill.
type Cooldowns struct {
	remaining map[int32]int16
}

func NewCooldowns() *Cooldowns {
	return &Cooldowns{remaining: make(map[int32]int16)}
}

func (c *Cooldowns) Add(skillID int32, seconds int16) { c.remaining[skillID] = seconds }

func (c *Cooldowns) Get(skillID int32) (int16, bool) {
	s, ok := c.remaining[skillID]
	return s, ok
}

func (c *Cooldowns) Len() int { return len(c.remaining) }

// Longest returns the largest remaining cooldown in seconds.
func (c *Cooldowns) Longest() int16 {
	var n int16
	for _, s := range c.remaining {
		n = max(n, s)
	}
	return n
}
