package masonry

import "testing"

func TestAttributesEqual(t *testing.T) {
	a := Attributes{Index: 1, Frame: NewRect(6, 6, 88, 100), PhotoHeight: 70}

	tests := map[string]struct {
		other Attributes
		want  bool
	}{
		"identical":    {a, true},
		"index":        {Attributes{Index: 2, Frame: a.Frame, PhotoHeight: 70}, false},
		"frame":        {Attributes{Index: 1, Frame: NewRect(6, 7, 88, 100), PhotoHeight: 70}, false},
		"photo height": {Attributes{Index: 1, Frame: a.Frame, PhotoHeight: 71}, false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := a.Equal(tt.other); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAttributesCopiesDoNotAlias(t *testing.T) {
	a := Attributes{Index: 0, Frame: NewRect(0, 0, 10, 10), PhotoHeight: 5}
	b := a
	b.Frame.Height = 99
	b.PhotoHeight = 1
	if a.Frame.Height != 10 || a.PhotoHeight != 5 {
		t.Errorf("copy mutated original: %+v", a)
	}
}

func TestAttributesSubFrames(t *testing.T) {
	a := Attributes{Frame: NewRect(6, 6, 88, 120), PhotoHeight: 80}

	if got, want := a.PhotoFrame(), NewRect(6, 6, 88, 80); got != want {
		t.Errorf("PhotoFrame() = %+v, want %+v", got, want)
	}
	if got, want := a.AnnotationFrame(), NewRect(6, 86, 88, 40); got != want {
		t.Errorf("AnnotationFrame() = %+v, want %+v", got, want)
	}

	// Padding larger than the annotation leaves no annotation area.
	tall := Attributes{Frame: NewRect(0, 0, 10, 5), PhotoHeight: 8}
	if got := tall.PhotoFrame().Height; got != 5 {
		t.Errorf("PhotoFrame height = %v, want 5", got)
	}
	if got := tall.AnnotationFrame().Height; got != 0 {
		t.Errorf("AnnotationFrame height = %v, want 0", got)
	}
}
