package character

// QuestProgress is an in-progress sub-update attached to a started quest.
type QuestProgress struct {
	SubID int16
	Data  string
}

type QuestLog struct {
	started    map[int16]string
	inProgress map[int16]QuestProgress
	completed  map[int16]int64
}

func NewQuestLog() *QuestLog {
	return &QuestLog{
		started:    make(map[int16]string),
		inProgress: make(map[int16]QuestProgress),
		completed:  make(map[int16]int64),
	}
}

func (q *QuestLog) AddStarted(id int16, data string) { q.started[id] = data }

func (q *QuestLog) IsStarted(id int16) bool {
	_, ok := q.started[id]
	return ok
}

// LastStarted returns the highest started quest id.
func (q *QuestLog) LastStarted() (int16, bool) {
	var last int16
	found := false
	for id := range q.started {
		if !found || id > last {
			last = id
			found = true
		}
	}
	return last, found
}

func (q *QuestLog) AddInProgress(id, subID int16, data string) {
	q.inProgress[id] = QuestProgress{SubID: subID, Data: data}
}

func (q *QuestLog) AddCompleted(id int16, at int64) { q.completed[id] = at }

func (q *QuestLog) Started(id int16) (string, bool) {
	d, ok := q.started[id]
	return d, ok
}

func (q *QuestLog) InProgress(id int16) (QuestProgress, bool) {
	p, ok := q.inProgress[id]
	return p, ok
}

func (q *QuestLog) Completed(id int16) (int64, bool) {
	t, ok := q.completed[id]
	return t, ok
}

func (q *QuestLog) Counts() (started, inProgress, completed int) {
	return len(q.started), len(q.inProgress), len(q.completed)
}
