package masonry

import (
	"sync"
	"testing"
)

func TestGuardedConcurrentAccess(t *testing.T) {
	p := &provider{count: 50, bounds: Bounds{Width: 400}}
	l := newLayout(t, constant(50, 20), p, WithColumns(4))
	g := NewGuarded(l)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				switch (i + j) % 3 {
				case 0:
					g.Invalidate()
				case 1:
					if got := len(g.All()); got != 50 {
						t.Errorf("All() returned %d items", got)
					}
				default:
					_ = g.AttributesInRect(NewRect(0, 0, 400, 100))
					_ = g.ContentSize()
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestGuardedDo(t *testing.T) {
	l := newLayout(t, constant(4, 10), &provider{count: 4, bounds: Bounds{Width: 200}}, WithPadding(0))
	g := NewGuarded(l)
	g.Prepare()

	var size Size
	err := g.Do(func(l *Layout) error {
		if err := l.SetColumns(4); err != nil {
			return err
		}
		size = l.ContentSize()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if size.Height != 10 {
		t.Errorf("height = %v, want 10", size.Height)
	}

	if err := g.Do(func(l *Layout) error { return l.SetColumns(0) }); err == nil {
		t.Error("Do should return the callback error")
	}
}
