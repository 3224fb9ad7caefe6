package ecs

// World owns the entity pool, the component registry and the queue of
// entities waiting to be destroyed at the end of the tick.
type World struct {
	pool     *EntityPool
	registry *Registry
	queued   map[EntityID]struct{}
	queue    []EntityID
}

func NewWorld() *World {
	return &World{
		pool:     NewEntityPool(),
		registry: NewRegistry(),
		queued:   make(map[EntityID]struct{}),
		queue:    make([]EntityID, 0, 32),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// MarkForDestruction queues id for FlushDestroyQueue. Marking twice is a no-op.
func (w *World) MarkForDestruction(id EntityID) {
	if !w.pool.Alive(id) {
		return
	}
	if _, dup := w.queued[id]; dup {
		return
	}
	w.queued[id] = struct{}{}
	w.queue = append(w.queue, id)
}

// Marked reports whether id is waiting to be destroyed.
func (w *World) Marked(id EntityID) bool {
	_, ok := w.queued[id]
	return ok
}

// Pending is the number of queued entities.
func (w *World) Pending() int { return len(w.queue) }

// FlushDestroyQueue destroys the queued entities and strips their components.
// It returns how many were destroyed.
func (w *World) FlushDestroyQueue() int {
	n := len(w.queue)
	for _, id := range w.queue {
		w.registry.RemoveAll(id)
		w.pool.Destroy(id)
		delete(w.queued, id)
	}
	w.queue = w.queue[:0]
	return n
}

// DestroyNow removes id immediately, bypassing the queue.
func (w *World) DestroyNow(id EntityID) {
	w.registry.RemoveAll(id)
	w.pool.Destroy(id)
	if _, ok := w.queued[id]; ok {
		delete(w.queued, id)
		for i, q := range w.queue {
			if q == id {
				w.queue = append(w.queue[:i], w.queue[i+1:]...)
				break
			}
		}
	}
}
