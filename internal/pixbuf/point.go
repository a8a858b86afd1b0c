package pixbuf

// Point is an integer pixel coordinate. For a buffer of width W and height H a
// valid point satisfies 0 <= X < W and 0 <= Y < H.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PointFromIndex maps a linear pixel index to its (x, y) position in a grid
// whose rows are width pixels wide.
//
// The index is not bounds checked. Callers pass 0 <= i < width*height for some
// height; anything else yields a meaningless point.
func PointFromIndex(i, width int) Point {
	return Point{X: i % width, Y: i / width}
}

// IndexFromPoint is the inverse of PointFromIndex for the same width.
func IndexFromPoint(p Point, width int) int {
	return p.Y*width + p.X
}
