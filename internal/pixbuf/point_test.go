package pixbuf

import "testing"

func TestPointFromIndex(t *testing.T) {
	tests := []struct {
		name  string
		i     int
		width int
		want  Point
	}{
		{"origin", 0, 4, Point{0, 0}},
		{"end of first row", 3, 4, Point{3, 0}},
		{"start of second row", 4, 4, Point{0, 1}},
		{"middle", 9, 4, Point{1, 2}},
		{"single column", 5, 1, Point{0, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PointFromIndex(tt.i, tt.width)
			if got != tt.want {
				t.Errorf("PointFromIndex(%d, %d): got %+v, want %+v", tt.i, tt.width, got, tt.want)
			}
		})
	}
}

func TestIndexFromPoint(t *testing.T) {
	if got := IndexFromPoint(Point{X: 2, Y: 3}, 5); got != 17 {
		t.Errorf("IndexFromPoint: got %d, want 17", got)
	}
	if got := IndexFromPoint(Point{}, 5); got != 0 {
		t.Errorf("IndexFromPoint origin: got %d, want 0", got)
	}
}

func TestCoordinateRoundTrip(t *testing.T) {
	sizes := []struct{ w, h int }{
		{1, 1}, {1, 7}, {7, 1}, {4, 4}, {13, 5}, {64, 3},
	}

	for _, s := range sizes {
		for i := 0; i < s.w*s.h; i++ {
			p := PointFromIndex(i, s.w)
			if p.X < 0 || p.X >= s.w || p.Y < 0 || p.Y >= s.h {
				t.Fatalf("%dx%d: index %d mapped outside buffer: %+v", s.w, s.h, i, p)
			}
			if got := IndexFromPoint(p, s.w); got != i {
				t.Fatalf("%dx%d: round trip of %d gave %d", s.w, s.h, i, got)
			}
		}
	}
}
