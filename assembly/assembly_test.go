package assembly

import (
	"testing"

	"github.com/notargets/fevalues/element"
	"github.com/notargets/fevalues/mapping"
	"github.com/notargets/fevalues/mesh"
	"github.com/notargets/fevalues/quadrature"
	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func newSetup(t *testing.T, dim, degree, n, workers int) Setup {
	tria, err := mesh.NewHyperRectangle(dim, tensor.NewTensor1(-1, 0, 1), tensor.NewTensor1(1, 3, 2),
		[]int{n, n + 1, n}[:dim])
	require.NoError(t, err)
	el, err := element.Q(dim, degree)
	require.NoError(t, err)
	dofs, err := mesh.NewDoFHandler(tria, el)
	require.NoError(t, err)
	quad, err := quadrature.NewGauss(dim, degree+3)
	require.NoError(t, err)
	return Setup{DoFs: dofs, Mapping: mapping.NewQ1(), Quadrature: quad, Workers: workers}
}

func TestMeasure(t *testing.T) {
	volumes := []float64{2, 6, 6}
	areas := []float64{2, 2 * (2 + 3), 2 * (2*3 + 2*1 + 3*1)}
	for dim := 1; dim <= 3; dim++ {
		for _, workers := range []int{1, 3} {
			s := newSetup(t, dim, 1, 3, workers)
			vol, err := s.Measure()
			require.NoError(t, err)
			assert.InDeltaf(t, volumes[dim-1], vol, 1e-12, "dim %d workers %d", dim, workers)

			faceQuad := quadrature.Point()
			if dim > 1 {
				faceQuad, err = quadrature.NewGauss(dim-1, 2)
				require.NoError(t, err)
			}
			area, err := s.BoundaryMeasure(faceQuad)
			require.NoError(t, err)
			assert.InDeltaf(t, areas[dim-1], area, 1e-12, "dim %d workers %d", dim, workers)
		}
	}
}

func TestMassMatrix(t *testing.T) {
	s := newSetup(t, 2, 2, 2, 4)
	M, err := s.MassMatrix()
	require.NoError(t, err)
	nd := s.DoFs.NDoFs()
	r, c := M.Dims()
	assert.Equal(t, [2]int{nd, nd}, [2]int{r, c})
	ones := make([]float64, nd)
	floats.AddConst(1, ones)
	row := M.MulVec(utils.NewVector(nd, ones))
	// Partition of unity: the entries sum to the area
	assert.InDelta(t, 6., floats.Sum(row.RawVector().Data), 1e-12)
	// Block diagonal: nothing couples different cells
	n := s.DoFs.FiniteElement().NDoFsPerCell()
	assert.Equal(t, 0., M.At(0, n))
	assert.InDelta(t, M.At(1, 2), M.At(2, 1), 1e-15)
}

func TestProject(t *testing.T) {
	{ // A function in the discrete space is reproduced
		s := newSetup(t, 2, 2, 3, 2)
		f := func(x tensor.Tensor1) []float64 { return []float64{x[0]*x[0] - 2*x[0]*x[1] + 3} }
		grad := func(x tensor.Tensor1) []tensor.Tensor1 {
			return []tensor.Tensor1{tensor.NewTensor1(2*x[0]-2*x[1], -2*x[0])}
		}
		u, err := s.Project(f)
		require.NoError(t, err)
		l2, h1, err := s.Errors(u, f, grad)
		require.NoError(t, err)
		assert.InDelta(t, 0., l2, 1e-10)
		assert.InDelta(t, 0., h1, 1e-9)
	}
	{ // The projection error of a smooth function drops with refinement
		f := func(x tensor.Tensor1) []float64 { return []float64{x[0] * x[0] * x[0]} }
		var errs []float64
		for _, n := range []int{2, 4} {
			s := newSetup(t, 1, 1, n, 2)
			u, err := s.Project(f)
			require.NoError(t, err)
			l2, _, err := s.Errors(u, f, nil)
			require.NoError(t, err)
			errs = append(errs, l2)
		}
		assert.Greater(t, errs[0]/errs[1], 3.)
	}
	{ // Component count mismatch
		s := newSetup(t, 1, 1, 2, 1)
		_, err := s.Project(func(x tensor.Tensor1) []float64 { return []float64{1, 2} })
		assert.Error(t, err)
	}
}
