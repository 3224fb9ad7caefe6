package ecs

import "testing"

func TestEntityPoolGenerations(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	if a.IsZero() {
		t.Fatal("first entity has the zero id")
	}
	if !p.Alive(a) {
		t.Fatal("new entity not alive")
	}
	p.Destroy(a)
	if p.Alive(a) {
		t.Fatal("destroyed entity still alive")
	}
	b := p.Create()
	if b.Index() != a.Index() || b.Generation() == a.Generation() {
		t.Fatalf("slot not recycled with a new generation: a=%x b=%x", a, b)
	}
	if p.Alive(a) {
		t.Fatal("stale id resolves after reuse")
	}
	if p.Live() != 1 {
		t.Errorf("live = %d, want 1", p.Live())
	}
}

func TestEachSortedOrder(t *testing.T) {
	w := NewWorld()
	s := NewPtrComponentStore[int]()
	w.Registry().Register(s)
	var ids []EntityID
	for i := 0; i < 20; i++ {
		id := w.CreateEntity()
		v := i
		s.Set(id, &v)
		ids = append(ids, id)
	}
	var seen []EntityID
	s.EachSorted(func(id EntityID, _ *int) { seen = append(seen, id) })
	for i := 1; i < len(seen); i++ {
		if seen[i-1] >= seen[i] {
			t.Fatalf("order broken at %d: %v", i, seen)
		}
	}
	if len(seen) != len(ids) {
		t.Fatalf("visited %d, want %d", len(seen), len(ids))
	}
}

func TestDeferredDestroy(t *testing.T) {
	w := NewWorld()
	s := NewPtrComponentStore[string]()
	w.Registry().Register(s)
	id := w.CreateEntity()
	v := "mob"
	s.Set(id, &v)

	w.MarkForDestruction(id)
	w.MarkForDestruction(id)
	if !w.Alive(id) || !s.Has(id) {
		t.Fatal("entity removed before flush")
	}
	if w.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", w.Pending())
	}
	if n := w.FlushDestroyQueue(); n != 1 {
		t.Fatalf("flushed %d, want 1", n)
	}
	if w.Alive(id) || s.Has(id) {
		t.Fatal("entity survived flush")
	}
}

func TestEach2(t *testing.T) {
	a := NewPtrComponentStore[int]()
	b := NewPtrComponentStore[string]()
	p := NewEntityPool()
	x, y, z := p.Create(), p.Create(), p.Create()
	one, two := 1, 2
	a.Set(x, &one)
	a.Set(y, &two)
	s := "z"
	b.Set(y, &s)
	b.Set(z, &s)

	var hits []EntityID
	Each2(a, b, func(id EntityID, _ *int, _ *string) { hits = append(hits, id) })
	if len(hits) != 1 || hits[0] != y {
		t.Fatalf("hits = %v, want [%v]", hits, y)
	}
}
