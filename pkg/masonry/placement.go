package masonry

import (
	"strings"

	"github.com/matzehuels/pinboard/pkg/errors"
)

// Placement selects the column each item is placed into.
type Placement int

const (
	// PlacementRoundRobin assigns item i to column i mod columns, whatever
	// the current column heights are. This is the classic behavior of the
	// layout and the default.
	PlacementRoundRobin Placement = iota

	// PlacementShortest assigns each item to the column with the smallest
	// accumulated height, breaking ties by the lowest column index.
	PlacementShortest
)

// Placement names as accepted by ParsePlacement.
const (
	PlacementNameRoundRobin = "round-robin"
	PlacementNameShortest   = "shortest"
)

// String returns the placement name.
func (p Placement) String() string {
	switch p {
	case PlacementRoundRobin:
		return PlacementNameRoundRobin
	case PlacementShortest:
		return PlacementNameShortest
	default:
		return "unknown"
	}
}

// Valid reports whether p is a known strategy.
func (p Placement) Valid() bool {
	return p == PlacementRoundRobin || p == PlacementShortest
}

// ParsePlacement converts a name into a Placement. The empty string selects
// the default round-robin strategy.
func ParsePlacement(name string) (Placement, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PlacementNameRoundRobin, "roundrobin":
		return PlacementRoundRobin, nil
	case PlacementNameShortest:
		return PlacementShortest, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidPlacement,
			"invalid placement %q (must be one of: %s, %s)", name, PlacementNameRoundRobin, PlacementNameShortest)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Placement) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidPlacement, "invalid placement %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Placement) UnmarshalText(text []byte) error {
	v, err := ParsePlacement(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// columnCursor chooses columns while a layout is being prepared.
type columnCursor struct {
	placement Placement
	next      int
}

// pick returns the column for the next item given the running column
// heights.
func (c *columnCursor) pick(yOffset []float64) int {
	if c.placement == PlacementShortest {
		best := 0
		for col := 1; col < len(yOffset); col++ {
			if yOffset[col] < yOffset[best] {
				best = col
			}
		}
		return best
	}
	col := c.next
	c.next = (c.next + 1) % len(yOffset)
	return col
}
