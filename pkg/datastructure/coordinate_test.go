package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordinateEqual(t *testing.T) {
	a := NewCoordinate(-7.557155, 110.771702)

	assert.True(t, a.Equal(NewCoordinate(-7.557155, 110.771702)))
	assert.True(t, a.Equal(NewCoordinate(-7.5571554, 110.7717024)))
	assert.False(t, a.Equal(NewCoordinate(-7.557157, 110.771702)))
	assert.False(t, a.Equal(NewCoordinate(-7.557155, 110.771704)))
}

func TestQuantizeConsistentWithEpsilon(t *testing.T) {
	// raw float bits differ but the quantized keys match
	a := NewCoordinate(1.0000001, 2.0000001)
	b := NewCoordinate(1.0000004, 2.0000004)

	assert.Equal(t, quantize(a), quantize(b))
	assert.True(t, a.Equal(b))
}

func TestCreatePolyline(t *testing.T) {
	path := []Coordinate{
		NewCoordinate(38.5, -120.2),
		NewCoordinate(40.7, -120.95),
		NewCoordinate(43.252, -126.453),
	}

	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", CreatePolyline(path))
}
