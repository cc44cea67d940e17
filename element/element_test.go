package element

import (
	"testing"

	"github.com/notargets/fevalues/fe"
	"github.com/notargets/fevalues/quadrature"
	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLagrange1D(t *testing.T) {
	for degree := 0; degree <= 4; degree++ {
		l, err := NewLagrange1D(degree)
		require.NoError(t, err)
		{ // Nodal property
			for i, x := range l.Nodes {
				for j := range l.Nodes {
					want := 0.
					if i == j {
						want = 1
					}
					assert.InDeltaf(t, want, l.Derivative(j, 0, x), 1e-12, "degree %d l_%d(x_%d)", degree, j, i)
				}
			}
		}
		{ // Derivatives against central differences
			const h = 1e-5
			x := 0.37
			for j := range l.Nodes {
				for order := 1; order <= degree; order++ {
					fd := (l.Derivative(j, order-1, x+h) - l.Derivative(j, order-1, x-h)) / (2 * h)
					assert.InDeltaf(t, fd, l.Derivative(j, order, x), 1e-5*(1+fd*fd), "degree %d j %d order %d", degree, j, order)
				}
				assert.Equal(t, 0., l.Derivative(j, degree+1, x))
			}
		}
	}
	_, err := NewLagrange1D(-1)
	assert.Error(t, err)
}

func TestTensorBasis(t *testing.T) {
	for dim := 1; dim <= tensor.MaxDim; dim++ {
		tb, err := NewTensorBasis(dim, 2)
		require.NoError(t, err)
		x := tensor.NewTensor1(0.2, 0.7, 0.45)
		var (
			sum     float64
			gradSum tensor.Tensor1
			hessSum tensor.Tensor2
		)
		for j := 0; j < tb.N; j++ {
			assert.InDelta(t, 1., tb.Value(j, tb.Node(j)), 1e-12)
			sum += tb.Value(j, x)
			gradSum = gradSum.Add(tb.Gradient(j, x))
			hessSum = hessSum.AddScaled(1, tb.Hessian(j, x))
			h := tb.Hessian(j, x)
			assert.Equal(t, h, h.Transpose())
			third := tb.ThirdDerivative(j, x)
			for a := 0; a < dim; a++ {
				for b := 0; b < dim; b++ {
					for c := 0; c < dim; c++ {
						assert.Equal(t, third[a][b][c], third[c][a][b])
					}
				}
			}
		}
		// Partition of unity
		assert.InDelta(t, 1., sum, 1e-12)
		assert.InDelta(t, 0., gradSum.Norm(), 1e-11)
		for a := 0; a < dim; a++ {
			for b := 0; b < dim; b++ {
				assert.InDelta(t, 0., hessSum[a][b], 1e-10)
			}
		}
		// The first coordinate runs fastest
		assert.Equal(t, 0.5, tb.Node(1)[0])
		if dim > 1 {
			assert.Equal(t, tensor.NewTensor1(0, 0.5), tb.Node(3))
		}
	}
	_, err := NewTensorBasis(4, 1)
	assert.Error(t, err)
}

func TestPolyElements(t *testing.T) {
	base, err := Q(2, 1)
	require.NoError(t, err)
	{ // Scalar element
		assert.Equal(t, 4, base.NDoFsPerCell())
		assert.Equal(t, 1, base.NComponents())
		assert.True(t, base.IsPrimitive())
		assert.Equal(t, "Q1(2)", base.String())
		assert.Equal(t, types.BasisFlags, base.SupportedUpdateFlags())
		f := base.UpdateRules().Closure(types.UpdateHessians)
		assert.True(t, f.Contains(types.UpdateInverseJacobians|types.UpdateJacobianPushedForwardGrads))
	}
	{ // System
		sys, err := System(base, 3)
		require.NoError(t, err)
		assert.Equal(t, 12, sys.NDoFsPerCell())
		assert.True(t, sys.IsPrimitive())
		for i := 0; i < sys.NDoFsPerCell(); i++ {
			comp, idx := sys.SystemToComponentIndex(i)
			assert.Equal(t, i%3, comp)
			assert.Equal(t, i/3, idx)
			assert.Equal(t, i/3, sys.scalarIndex[i])
		}
		_, err = System(sys, 2)
		assert.Error(t, err)
	}
	{ // Directional elements are non primitive as soon as a direction mixes components
		dir, err := Directional(base, [][]float64{{1, 0}, {1, 1}})
		require.NoError(t, err)
		assert.Equal(t, 8, dir.NDoFsPerCell())
		assert.False(t, dir.IsPrimitive())
		assert.True(t, dir.IsPrimitiveShapeFunction(0))
		assert.False(t, dir.IsPrimitiveShapeFunction(1))
		assert.Equal(t, []bool{true, true}, dir.NonzeroComponents(1))
		assert.Equal(t, []float64{1, 1}, dir.directions[3])
		assert.Panics(t, func() { dir.SystemToComponentIndex(1) })
		table, nRows := fe.MakeShapeFunctionToRowTable(dir)
		assert.Equal(t, 12, nRows)
		assert.Equal(t, []int{0, -1, 1, 2}, table[:4])
		_, err = Directional(base, [][]float64{{0, 0}})
		assert.Error(t, err)
		_, err = Directional(base, [][]float64{{1, 0}, {1}})
		assert.Error(t, err)
	}
}

// identityData is the geometry of the reference cell itself.
func identityData(flags types.UpdateFlags, n int) *fe.MappingData {
	md := &fe.MappingData{}
	md.Initialize(flags, n)
	for k := 0; k < n; k++ {
		if md.InverseJacobians != nil {
			md.InverseJacobians[k] = tensor.Tensor2{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
		}
	}
	return md
}

func TestFillOnReferenceCell(t *testing.T) {
	base, err := Q(2, 2)
	require.NoError(t, err)
	el, err := Directional(base, [][]float64{{2, -1}})
	require.NoError(t, err)
	q, err := quadrature.NewGauss(2, 2)
	require.NoError(t, err)
	flags := el.UpdateRules().Closure(types.UpdateValues | types.Update3rdDerivatives)
	var ed fe.ElementData
	ed.Initialize(flags, el, q.Size())
	data, err := el.NewInternalData(flags, q, &ed)
	require.NoError(t, err)
	el.FillValues(fe.SimilarityNone, identityData(flags, q.Size()), data, &ed)
	for i := 0; i < el.NDoFsPerCell(); i++ {
		j := el.scalarIndex[i]
		for k, x := range q.Points {
			assert.InDelta(t, 2*base.Basis().Value(j, x), ed.ShapeValues.At(ed.Row(i, 0), k), 1e-14)
			assert.InDelta(t, -base.Basis().Value(j, x), ed.ShapeValues.At(ed.Row(i, 1), k), 1e-14)
			g := ed.ShapeGradients[ed.Row(i, 1)][k]
			assert.InDelta(t, 0., g.AddScaled(1, base.Basis().Gradient(j, x)).Norm(), 1e-13)
			want := tensor.Tensor3{}.AddScaled(-1, base.Basis().ThirdDerivative(j, x))
			assert.InDeltaSlice(t, want.Flat(), ed.Shape3rdDerivatives[ed.Row(i, 1)][k].Flat(), 1e-12)
		}
	}
	_, err = el.NewInternalData(flags, quadrature.Point(), nil)
	assert.ErrorIs(t, err, fe.ErrDimensionMismatch)
}
