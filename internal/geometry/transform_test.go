package geometry

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	identity := Identity()
	values := identity.Values()
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			expected := 0.0
			if r == c {
				expected = 1.0
			}
			assert.Equal(t, expected, values[r*4+c])
		}
	}
}

func TestMulTranslations(t *testing.T) {
	a := NewTransform([16]float64{
		1, 0, 0, 1,
		0, 1, 0, 2,
		0, 0, 1, 3,
		0, 0, 0, 1,
	})
	b := NewTransform([16]float64{
		1, 0, 0, 10,
		0, 1, 0, 20,
		0, 0, 1, 30,
		0, 0, 0, 1,
	})

	composed := a.Mul(b)
	translation := composed.Translation()
	assert.Equal(t, 11.0, translation.X)
	assert.Equal(t, 22.0, translation.Y)
	assert.Equal(t, 33.0, translation.Z)
}

func TestInverse(t *testing.T) {
	transform, err := FromQuaternion(math.Cos(math.Pi/8), 0, 0, math.Sin(math.Pi/8), Coordinate{X: 5, Y: -3, Z: 2})
	require.NoError(t, err)

	inverse, err := transform.Inverse()
	require.NoError(t, err)

	assert.True(t, transform.Mul(inverse).ApproxEqual(Identity(), 1e-9))
	assert.True(t, inverse.Mul(transform).ApproxEqual(Identity(), 1e-9))
}

// delta = target * inv(current) must take the current pose exactly onto the target
func TestDeltaComposition(t *testing.T) {
	target, err := FromQuaternion(0.8, 0.1, -0.3, 0.2, Coordinate{X: 100, Y: 200, Z: 15})
	require.NoError(t, err)
	current, err := FromQuaternion(0.9, -0.2, 0.1, 0.4, Coordinate{X: -40, Y: 7, Z: 99})
	require.NoError(t, err)

	inverse, err := current.Inverse()
	require.NoError(t, err)
	delta := target.Mul(inverse)

	assert.True(t, delta.Mul(current).ApproxEqual(target, 1e-9))
}

func TestFromQuaternion(t *testing.T) {
	t.Run("rotation of 90 degrees around Z", func(t *testing.T) {
		transform, err := FromQuaternion(math.Cos(math.Pi/4), 0, 0, math.Sin(math.Pi/4), Coordinate{})
		require.NoError(t, err)

		expected := NewTransform([16]float64{
			0, -1, 0, 0,
			1, 0, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, 1,
		})
		assert.True(t, transform.ApproxEqual(expected, 1e-9))
	})

	t.Run("non unit quaternion is normalized", func(t *testing.T) {
		scaled, err := FromQuaternion(2*math.Cos(math.Pi/4), 0, 0, 2*math.Sin(math.Pi/4), Coordinate{})
		require.NoError(t, err)
		unit, err := FromQuaternion(math.Cos(math.Pi/4), 0, 0, math.Sin(math.Pi/4), Coordinate{})
		require.NoError(t, err)
		assert.True(t, scaled.ApproxEqual(unit, 1e-9))
	})

	t.Run("zero quaternion is rejected", func(t *testing.T) {
		_, err := FromQuaternion(0, 0, 0, 0, Coordinate{})
		assert.Error(t, err)
	})
}

func TestApproxEqual(t *testing.T) {
	a := Identity()
	b := Identity()
	assert.True(t, a.ApproxEqual(b, 1e-9))
	assert.False(t, a.ApproxEqual(nil, 1e-9))

	values := b.Values()
	values[3] += 1e-3
	c := NewTransform(values)
	assert.False(t, a.ApproxEqual(c, 1e-6))
	assert.True(t, a.ApproxEqual(c, 1e-2))
}

func TestJSONRoundTrip(t *testing.T) {
	original, err := FromQuaternion(0.7, 0.1, 0.2, -0.1, Coordinate{X: 1.5, Y: -2.25, Z: 3})
	require.NoError(t, err)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	decoded := &Transform{}
	require.NoError(t, json.Unmarshal(data, decoded))
	assert.True(t, original.ApproxEqual(decoded, 1e-12))
}

func TestUnmarshalRejectsWrongLength(t *testing.T) {
	decoded := &Transform{}
	err := json.Unmarshal([]byte("[1, 2, 3]"), decoded)
	assert.Error(t, err)
}

func TestString(t *testing.T) {
	var nilTransform *Transform
	assert.Equal(t, "None", nilTransform.String())

	rendered := Identity().String()
	assert.Contains(t, rendered, "1.000000")
	assert.Contains(t, rendered, "[ ")
}
