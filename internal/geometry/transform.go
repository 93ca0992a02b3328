package geometry

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Transform is a 4x4 homogeneous matrix associating a point cloud local
// reference frame to the chunk reference frame. Values are stored row major.
type Transform struct {
	m *mat.Dense
}

// Builds the identity transform
func Identity() *Transform {
	values := make([]float64, 16)
	for i := 0; i < 4; i++ {
		values[i*4+i] = 1
	}
	return &Transform{m: mat.NewDense(4, 4, values)}
}

// Builds a transform from 16 row major values
func NewTransform(values [16]float64) *Transform {
	data := make([]float64, 16)
	copy(data, values[:])
	return &Transform{m: mat.NewDense(4, 4, data)}
}

// Builds a rigid transform from a unit quaternion (w, x, y, z) and a translation.
// The quaternion is normalized before use, a zero quaternion yields an error.
func FromQuaternion(w, x, y, z float64, translation Coordinate) (*Transform, error) {
	n := math.Sqrt(w*w + x*x + y*y + z*z)
	if n == 0 {
		return nil, errors.New("cannot build a rotation from a zero quaternion")
	}
	w, x, y, z = w/n, x/n, y/n, z/n

	return NewTransform([16]float64{
		1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w), translation.X,
		2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w), translation.Y,
		2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y), translation.Z,
		0, 0, 0, 1,
	}), nil
}

// Returns the composition t * other
func (t *Transform) Mul(other *Transform) *Transform {
	var out mat.Dense
	out.Mul(t.m, other.m)
	return &Transform{m: &out}
}

// Returns the inverse transform
func (t *Transform) Inverse() (*Transform, error) {
	var out mat.Dense
	if err := out.Inverse(t.m); err != nil {
		return nil, fmt.Errorf("transform is not invertible: %w", err)
	}
	return &Transform{m: &out}, nil
}

// Returns a deep copy of the transform
func (t *Transform) Copy() *Transform {
	return NewTransform(t.Values())
}

// Returns the translation component, i.e. the position of the local frame
// origin in the target frame
func (t *Transform) Translation() Coordinate {
	return Coordinate{
		X: t.m.At(0, 3),
		Y: t.m.At(1, 3),
		Z: t.m.At(2, 3),
	}
}

// Returns the 16 row major matrix values
func (t *Transform) Values() [16]float64 {
	var values [16]float64
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			values[r*4+c] = t.m.At(r, c)
		}
	}
	return values
}

// Returns true if every entry of the two transforms differs less than the tolerance
func (t *Transform) ApproxEqual(other *Transform, tolerance float64) bool {
	if other == nil {
		return false
	}
	a, b := t.Values(), other.Values()
	for i := range a {
		if math.Abs(a[i]-b[i]) > tolerance {
			return false
		}
	}
	return true
}

// Pretty prints the matrix row by row for console debugging
func (t *Transform) String() string {
	if t == nil {
		return "None"
	}
	rows := make([]string, 4)
	for r := 0; r < 4; r++ {
		cols := make([]string, 4)
		for c := 0; c < 4; c++ {
			cols[c] = fmt.Sprintf("% .6f", t.m.At(r, c))
		}
		rows[r] = "[ " + strings.Join(cols, "  ") + " ]"
	}
	return strings.Join(rows, "\n")
}

func (t *Transform) MarshalJSON() ([]byte, error) {
	values := t.Values()
	return json.Marshal(values[:])
}

func (t *Transform) UnmarshalJSON(data []byte) error {
	var values []float64
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	if len(values) != 16 {
		return fmt.Errorf("transform must have 16 values, got %d", len(values))
	}
	var fixed [16]float64
	copy(fixed[:], values)
	t.m = NewTransform(fixed).m
	return nil
}
