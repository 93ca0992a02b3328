package geometry

// Contains the coordinates of a point in a given reference frame
type Coordinate struct {
	X float64
	Y float64
	Z float64
}
