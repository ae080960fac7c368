package id

import (
	"sync"
	"testing"
)

func TestNextMonotonic(t *testing.T) {
	g := NewGenerator()
	prev := g.Next()
	for i := 0; i < 10000; i++ {
		cur := g.Next()
		if cur.Compare(prev) <= 0 {
			t.Fatalf("id %s not greater than %s", cur, prev)
		}
		prev = cur
	}
}

func TestClockBackwards(t *testing.T) {
	g := NewGenerator()
	orig := now
	defer func() { now = orig }()

	ts := int64(1_700_000_000_000)
	now = func() int64 { return ts }
	a := g.Next()
	ts -= 50 // clock steps back
	b := g.Next()
	if b.Compare(a) <= 0 {
		t.Fatalf("backwards clock broke monotonicity: %s then %s", a, b)
	}
}

func TestConcurrentUniqueness(t *testing.T) {
	g := NewGenerator()
	const workers, per = 8, 2000

	var mu sync.Mutex
	seen := make(map[ID]struct{}, workers*per)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]ID, 0, per)
			for i := 0; i < per; i++ {
				local = append(local, g.Next())
			}
			mu.Lock()
			for _, v := range local {
				seen[v] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()
	if len(seen) != workers*per {
		t.Fatalf("expected %d unique ids, got %d", workers*per, len(seen))
	}
}

func TestStringRoundTrip(t *testing.T) {
	g := NewGenerator()
	v := g.Next()
	if len(v.String()) != 32 {
		t.Fatalf("hex id length = %d, want 32", len(v.String()))
	}
	if v.Time().IsZero() {
		t.Fatalf("embedded time should not be zero")
	}
}
