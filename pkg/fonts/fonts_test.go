package fonts

import "testing"

func TestFace(t *testing.T) {
	tests := []struct {
		name string
		size float64
	}{
		{"label", LabelSize},
		{"title", TitleSize},
		{"small", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			face, err := Face(tt.size)
			if err != nil {
				t.Fatalf("Face(%v): %v", tt.size, err)
			}
			defer face.Close()
			m := face.Metrics()
			if m.Ascent.Ceil() <= 0 || m.Ascent.Ceil() > int(tt.size)+2 {
				t.Errorf("ascent %d not plausible for size %v", m.Ascent.Ceil(), tt.size)
			}
			if adv, ok := face.GlyphAdvance('0'); !ok || adv <= 0 {
				t.Errorf("no advance for '0'")
			}
		})
	}
}

func TestRegularCached(t *testing.T) {
	a, err := Regular()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Regular()
	if a != b {
		t.Error("Regular() parsed the font twice")
	}
}
