package masonry

import "sync"

// Guarded serializes access to a Layout with a single mutex so that one
// goroutine cannot read the cache while another is filling it.
type Guarded struct {
	mu     sync.Mutex
	layout *Layout
}

// NewGuarded wraps l. The caller must not use l directly afterwards.
func NewGuarded(l *Layout) *Guarded {
	return &Guarded{layout: l}
}

// Do runs fn with exclusive access to the wrapped layout. Compound
// operations (reconfigure then query) should run inside one Do call.
func (g *Guarded) Do(fn func(l *Layout) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(g.layout)
}

// Prepare computes the layout if it is not cached.
func (g *Guarded) Prepare() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.layout.Prepare()
}

// Invalidate drops the cached layout.
func (g *Guarded) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.layout.Invalidate()
}

// ContentSize returns the content size of the wrapped layout.
func (g *Guarded) ContentSize() Size {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.layout.ContentSize()
}

// AttributesInRect returns the attributes intersecting r.
func (g *Guarded) AttributesInRect(r Rect) []Attributes {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.layout.AttributesInRect(r)
}

// All returns every attribute of the wrapped layout.
func (g *Guarded) All() []Attributes {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.layout.All()
}
