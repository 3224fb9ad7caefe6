package character

// State is everything the client knows about its own character. It is owned
// by the tick goroutine.
type State struct {
	ID         int32
	Stats      Stats
	BuddyCap   uint8
	LinkedName string

	Inventory    *Inventory
	Skills       *SkillBook
	Cooldowns    *Cooldowns
	Quests       *QuestLog
	MonsterBook  *MonsterBook
	TeleportRock TeleportRock
	Rings        []Ring
	NewYearCards []NewYearCard
	AreaInfo     map[int16]string
}

func NewState(defaultSlotMax int) *State {
	return &State{
		Inventory:   NewInventory(defaultSlotMax),
		Skills:      NewSkillBook(),
		Cooldowns:   NewCooldowns(),
		Quests:      NewQuestLog(),
		MonsterBook: NewMonsterBook(),
		AreaInfo:    make(map[int16]string),
	}
}
