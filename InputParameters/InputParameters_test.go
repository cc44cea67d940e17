package InputParameters

import (
	"testing"

	"github.com/notargets/fevalues/mapping"
	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	{ // The example file is complete
		ip := &InputParameters{}
		require.NoError(t, ip.Parse([]byte(ExampleFile)))
		assert.Equal(t, "Distorted Q2 box", ip.Title)
		assert.Equal(t, []int{4, 2}, ip.Subdivisions)
		flags, err := ip.UpdateFlags()
		require.NoError(t, err)
		assert.Equal(t, types.UpdateValues|types.UpdateGradients|types.UpdateJxWValues, flags)
		s, err := ip.NewSetup()
		require.NoError(t, err)
		assert.Equal(t, 32, s.DoFs.Triangulation().NCells())
		assert.Equal(t, 32*9, s.DoFs.NDoFs())
		assert.Equal(t, 16, s.Quadrature.Size())
		assert.IsType(t, mapping.NewQ1(), s.Mapping)
		vol, err := s.Measure()
		require.NoError(t, err)
		assert.InDelta(t, 2., vol, 1e-12)
	}
	{ // Defaults
		ip := &InputParameters{}
		require.NoError(t, ip.Parse([]byte("Dimension: 3\nDegree: 1\nComponents: 3\n")))
		assert.Equal(t, 2, ip.QuadraturePoints)
		assert.Equal(t, []float64{1, 1, 1}, ip.Upper)
		el, err := ip.NewElement()
		require.NoError(t, err)
		assert.Equal(t, 3, el.NComponents())
		fq, err := ip.NewFaceQuadrature()
		require.NoError(t, err)
		assert.Equal(t, 2, fq.Dim)
	}
	{ // Bad input
		for _, in := range []string{
			"Dimension: 4\nDegree: 1\n",
			"Dimension: 2\nDegree: 0\n",
			"Dimension: 2\nDegree: 1\nSubdivisions: [2]\n",
			"Dimension: 2\nDegree: 1\nFlags: [values, velocity]\n",
			"Dimension: 2\nDegree: 1\nComponents: 2\nDirections: [[1, 0]]\n",
		} {
			ip := &InputParameters{}
			assert.Error(t, ip.Parse([]byte(in)), in)
		}
		ip := &InputParameters{}
		require.NoError(t, ip.Parse([]byte("Dimension: 1\nDegree: 1\nMapping: affine\n")))
		_, err := ip.NewMapping()
		assert.Error(t, err)
		ip.QuadratureType = "Simpson"
		_, err = ip.NewQuadrature()
		assert.Error(t, err)
	}
}

func TestDistortion(t *testing.T) {
	var (
		lower = tensor.NewTensor1(0, 0)
		upper = tensor.NewTensor1(2, 1)
		f     = Distortion(2, 0.1, lower, upper)
	)
	assert.Equal(t, tensor.NewTensor1(0, 0.5), f(tensor.NewTensor1(0, 0.5)))
	assert.InDelta(t, 0., f(tensor.NewTensor1(2, 0.3)).Sub(tensor.NewTensor1(2, 0.3)).Norm(), 1e-15)
	y := f(tensor.NewTensor1(1, 0.5))
	assert.InDelta(t, 1.2, y[0], 1e-15)
	assert.InDelta(t, 0.6, y[1], 1e-15)
}
