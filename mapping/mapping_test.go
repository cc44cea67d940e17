package mapping

import (
	"testing"

	"github.com/notargets/fevalues/fe"
	"github.com/notargets/fevalues/mesh"
	"github.com/notargets/fevalues/quadrature"
	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

// fill runs a mapping on one cell the way a cell evaluator does.
func fill(t *testing.T, m fe.Mapping, cell fe.Cell, q quadrature.Quadrature, requested types.UpdateFlags) (*fe.MappingData, error) {
	flags := m.UpdateRules().Closure(requested)
	data, err := m.NewInternalData(flags, q)
	require.NoError(t, err)
	md := &fe.MappingData{}
	md.Initialize(flags, q.Size())
	return md, m.FillValues(cell, fe.SimilarityNone, data, md)
}

func box(t *testing.T, dim int, n ...int) *mesh.Triangulation {
	tria, err := mesh.NewHyperRectangle(dim, tensor.NewTensor1(-1, 0.5, 2), tensor.NewTensor1(1, 2, 5), n[:dim])
	require.NoError(t, err)
	return tria
}

func TestCartesian(t *testing.T) {
	q, err := quadrature.NewGauss(2, 2)
	require.NoError(t, err)
	tria := box(t, 2, 2, 3)
	var total float64
	for _, cell := range tria.Cells() {
		md, err := fill(t, NewCartesian(), cell, q, types.UpdateJxWValues|types.UpdateQuadraturePoints|types.UpdateInverseJacobians)
		require.NoError(t, err)
		total += floats.Sum(md.JxW)
		for k := range q.Points {
			assert.Equal(t, tensor.Tensor2{{1, 0, 0}, {0, 0.5, 0}}, md.Jacobians[k])
			assert.Equal(t, tensor.Tensor2{{1, 0, 0}, {0, 2, 0}}, md.InverseJacobians[k])
			x := md.QuadraturePoints[k]
			for d := 0; d < 2; d++ {
				assert.True(t, x[d] > cell.Vertex(0)[d] && x[d] < cell.Vertex(3)[d])
			}
		}
	}
	assert.InDelta(t, 3., total, 1e-14)
	{ // Faces carry the edge length in the boundary form
		fq, err := quadrature.NewGauss(1, 2)
		require.NoError(t, err)
		lengths := []float64{0.5, 0.5, 1, 1}
		for face := 0; face < 4; face++ {
			flags := mappingRules.Closure(types.UpdateJxWValues | types.UpdateNormalVectors | types.UpdateBoundaryForms)
			data, err := NewCartesian().NewInternalData(flags, quadrature.ProjectToFace(2, fq, face))
			require.NoError(t, err)
			md := &fe.MappingData{}
			md.Initialize(flags, fq.Size())
			require.NoError(t, NewCartesian().FillFaceValues(tria.Cell(0), face, data, md))
			assert.InDelta(t, lengths[face], floats.Sum(md.JxW), 1e-15)
			assert.Equal(t, quadrature.ReferenceNormal(face), md.NormalVectors[0])
			assert.InDelta(t, lengths[face], md.BoundaryForms[0].Norm(), 1e-15)
		}
	}
}

func TestQ1MatchesCartesianOnBoxes(t *testing.T) {
	for dim := 1; dim <= 3; dim++ {
		q, err := quadrature.NewGauss(dim, 2)
		require.NoError(t, err)
		flags := types.UpdateJxWValues | types.UpdateQuadraturePoints | types.UpdateJacobianPushedForward2ndDerivatives
		cell := box(t, dim, 3, 2, 1).Cell(1)
		a, err := fill(t, NewCartesian(), cell, q, flags)
		require.NoError(t, err)
		b, err := fill(t, NewQ1(), cell, q, flags)
		require.NoError(t, err)
		assert.InDeltaSlice(t, a.JxW, b.JxW, 1e-14)
		for k := range q.Points {
			assert.InDelta(t, 0., a.QuadraturePoints[k].Sub(b.QuadraturePoints[k]).Norm(), 1e-14)
			assert.InDeltaSlice(t, a.Jacobians[k].Flat(), b.Jacobians[k].Flat(), 1e-14)
			assert.InDeltaSlice(t, a.JacobianPushedForward2ndDerivatives[k].Flat(),
				b.JacobianPushedForward2ndDerivatives[k].Flat(), 1e-13)
		}
	}
}

func TestQ1Derivatives(t *testing.T) {
	const h = 1e-5
	for dim := 2; dim <= 3; dim++ {
		tria, err := mesh.NewHyperCube(dim, 1)
		require.NoError(t, err)
		tria.Transform(func(x tensor.Tensor1) tensor.Tensor1 {
			y := tensor.NewTensor1(x[0]+0.2*x[1]*x[2], x[1]+0.3*x[0]*x[0], x[2]-0.1*x[0]*x[1])
			for d := dim; d < tensor.MaxDim; d++ {
				y[d] = 0
			}
			return y
		})
		xi0 := tensor.NewTensor1(0.4, 0.3, 0.7)
		if dim == 2 {
			xi0[2] = 0
		}
		points := []tensor.Tensor1{xi0}
		for b := 0; b < dim; b++ {
			points = append(points, xi0.AddScaled(h, tensor.Unit(b)), xi0.AddScaled(-h, tensor.Unit(b)))
		}
		q, err := quadrature.NewQuadrature(dim, points, make([]float64, len(points)))
		require.NoError(t, err)
		flags := types.UpdateQuadraturePoints | types.UpdateJacobianGrads | types.UpdateJacobian2ndDerivatives |
			types.UpdateJacobianPushedForwardGrads | types.UpdateInverseJacobians
		md, err := fill(t, NewQ1(), tria.Cell(0), q, flags)
		require.NoError(t, err)
		var (
			J  = md.Jacobians[0]
			JG = md.JacobianGrads[0]
			K  = md.InverseJacobians[0]
		)
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				want := 0.
				if i == j {
					want = 1
				}
				assert.InDelta(t, want, J.Mul(K)[i][j], 1e-14)
			}
		}
		for b := 0; b < dim; b++ {
			dx := md.QuadraturePoints[2*b+1].Sub(md.QuadraturePoints[2*b+2]).Scale(0.5 / h)
			dJ := md.Jacobians[2*b+1].AddScaled(-1, md.Jacobians[2*b+2]).Scale(0.5 / h)
			for i := 0; i < dim; i++ {
				assert.InDelta(t, dx[i], J[i][b], 1e-8)
				for a := 0; a < dim; a++ {
					assert.InDelta(t, dJ[i][a], JG[i][a][b], 1e-8)
					for c := 0; c < dim; c++ {
						dJG := (md.JacobianGrads[2*b+1][i][a][c] - md.JacobianGrads[2*b+2][i][a][c]) * 0.5 / h
						assert.InDelta(t, dJG, md.Jacobian2ndDerivatives[0][i][a][c][b], 1e-8)
					}
				}
			}
		}
		{ // Pushed forward gradients contract the reference indices with K
			P := md.JacobianPushedForwardGrads[0]
			for i := 0; i < dim; i++ {
				for j := 0; j < dim; j++ {
					for k := 0; k < dim; k++ {
						var want float64
						for a := 0; a < dim; a++ {
							for b := 0; b < dim; b++ {
								want += JG[i][a][b] * K[a][j] * K[b][k]
							}
						}
						assert.InDelta(t, want, P[i][j][k], 1e-13)
					}
				}
			}
		}
	}
}

func TestSimilarityAndErrors(t *testing.T) {
	tria := box(t, 2, 3, 3)
	var (
		c0, c1 = tria.Cell(0), tria.Cell(1)
		m      = NewQ1()
	)
	assert.Equal(t, fe.SimilaritySame, m.CellSimilarity(c0, c0))
	assert.Equal(t, fe.SimilarityTranslation, m.CellSimilarity(c0, c1))
	assert.Equal(t, fe.SimilarityTranslation, NewCartesian().CellSimilarity(c1, tria.Cell(8)))
	assert.Equal(t, fe.SimilarityNone, m.CellSimilarity(nil, c1))
	{ // Cells of a different size
		other := box(t, 2, 2, 2)
		assert.Equal(t, fe.SimilarityNone, m.CellSimilarity(c0, other.Cell(0)))
	}
	q, err := quadrature.NewGauss(2, 2)
	require.NoError(t, err)
	{ // A collapsed cell
		flat, err := mesh.NewHyperCube(2, 1)
		require.NoError(t, err)
		flat.Transform(func(x tensor.Tensor1) tensor.Tensor1 { return tensor.NewTensor1(x[0], 0) })
		_, err = fill(t, m, flat.Cell(0), q, types.UpdateJxWValues)
		assert.Error(t, err)
	}
	{ // Dimension mismatch between cell and quadrature
		line, err := mesh.NewHyperCube(1, 1)
		require.NoError(t, err)
		_, err = fill(t, m, line.Cell(0), q, types.UpdateJxWValues)
		assert.ErrorIs(t, err, fe.ErrCellDimension)
		_, err = fill(t, NewCartesian(), line.Cell(0), q, types.UpdateJxWValues)
		assert.ErrorIs(t, err, fe.ErrCellDimension)
	}
	{ // Zero dimensional rules only exist on faces of a line
		_, err := m.NewInternalData(types.UpdateJxWValues, quadrature.Point())
		assert.ErrorIs(t, err, fe.ErrDimensionMismatch)
	}
}
