package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMath(t *testing.T) {
	for p := -10; p <= 10; p++ {
		assert.InDeltaf(t, math.Pow(1.3, float64(p)), POW(1.3, p), 1e-12, "p = %d", p)
	}
	assert.Equal(t, 1., FallingFactorial(4, 0))
	assert.Equal(t, 12., FallingFactorial(4, 2))
	assert.Equal(t, 0., FallingFactorial(2, 3))
}
