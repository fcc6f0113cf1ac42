package masonry

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/pinboard/pkg/errors"
)

func TestParsePlacement(t *testing.T) {
	tests := []struct {
		input   string
		want    Placement
		wantErr bool
	}{
		{"", PlacementRoundRobin, false},
		{"round-robin", PlacementRoundRobin, false},
		{"RoundRobin", PlacementRoundRobin, false},
		{" shortest ", PlacementShortest, false},
		{"tallest", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePlacement(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePlacement(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidPlacement) {
				t.Errorf("error code = %q", errors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParsePlacement(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPlacementJSON(t *testing.T) {
	var cfg struct {
		Placement Placement `json:"placement"`
	}
	if err := json.Unmarshal([]byte(`{"placement":"shortest"}`), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Placement != PlacementShortest {
		t.Errorf("Placement = %v, want shortest", cfg.Placement)
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"placement":"shortest"}` {
		t.Errorf("Marshal = %s", data)
	}

	if err := json.Unmarshal([]byte(`{"placement":"diagonal"}`), &cfg); err == nil {
		t.Error("expected error for unknown placement")
	}
}

func TestColumnCursorRoundRobin(t *testing.T) {
	c := columnCursor{placement: PlacementRoundRobin}
	y := []float64{500, 0, 0}
	var got []int
	for i := 0; i < 7; i++ {
		got = append(got, c.pick(y))
	}
	want := []int{0, 1, 2, 0, 1, 2, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("picks = %v, want %v", got, want)
		}
	}
}

func TestColumnCursorShortest(t *testing.T) {
	c := columnCursor{placement: PlacementShortest}
	tests := []struct {
		y    []float64
		want int
	}{
		{[]float64{0, 0, 0}, 0},
		{[]float64{10, 0, 0}, 1},
		{[]float64{10, 5, 3}, 2},
		{[]float64{3, 5, 3}, 0},
		{[]float64{7}, 0},
	}
	for _, tt := range tests {
		if got := c.pick(tt.y); got != tt.want {
			t.Errorf("pick(%v) = %d, want %d", tt.y, got, tt.want)
		}
	}
}
