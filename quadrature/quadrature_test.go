package quadrature

import (
	"math"
	"testing"

	"github.com/notargets/fevalues/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func integrate(q Quadrature, f func(x tensor.Tensor1) float64) (sum float64) {
	for k, x := range q.Points {
		sum += q.Weights[k] * f(x)
	}
	return
}

func TestGauss(t *testing.T) {
	{ // Weights sum to the reference cell measure
		for dim := 1; dim <= 3; dim++ {
			for n := 1; n < 6; n++ {
				q, err := NewGauss(dim, n)
				require.NoError(t, err)
				assert.Equal(t, int(math.Pow(float64(n), float64(dim))), q.Size())
				assert.InDeltaf(t, 1., integrate(q, func(tensor.Tensor1) float64 { return 1 }), 1e-13, "dim %d n %d", dim, n)
			}
		}
	}
	{ // Exact for degree 2n-1 in each coordinate
		for n := 1; n < 7; n++ {
			q, err := NewGauss(1, n)
			require.NoError(t, err)
			for p := 0; p < 2*n; p++ {
				exact := 1. / float64(p+1)
				got := integrate(q, func(x tensor.Tensor1) float64 { return math.Pow(x[0], float64(p)) })
				assert.InDeltaf(t, exact, got, 1e-13, "n %d p %d", n, p)
			}
		}
		q, _ := NewGauss(3, 3)
		got := integrate(q, func(x tensor.Tensor1) float64 { return math.Pow(x[0], 5) * x[1] * x[1] * math.Pow(x[2], 4) })
		assert.InDelta(t, 1./6/3/5, got, 1e-14)
	}
	{ // Gauss-Lobatto includes the end points
		q, err := NewGaussLobatto(1, 4)
		require.NoError(t, err)
		assert.InDelta(t, 0., q.Points[0][0], 1e-15)
		assert.InDelta(t, 1., q.Points[3][0], 1e-15)
		assert.InDelta(t, 1./12, q.Weights[0], 1e-14)
		got := integrate(q, func(x tensor.Tensor1) float64 { return math.Pow(x[0], 5) })
		assert.InDelta(t, 1./6, got, 1e-14)
	}
	{ // Bad input
		_, err := NewGauss(2, 0)
		assert.Error(t, err)
		_, err = NewGaussLobatto(2, 1)
		assert.Error(t, err)
		_, err = NewQuadrature(2, []tensor.Tensor1{{}}, nil)
		assert.Error(t, err)
	}
}

func TestProjection(t *testing.T) {
	{ // Faces lie on the boundary of the reference cell
		for dim := 1; dim <= 3; dim++ {
			fq := Point()
			if dim > 1 {
				fq, _ = NewGauss(dim-1, 2)
			}
			for face := 0; face < NFaces(dim); face++ {
				q := ProjectToFace(dim, fq, face)
				d, sign := FaceNormalDirection(face)
				want := 0.
				if sign > 0 {
					want = 1
				}
				for _, x := range q.Points {
					assert.Equal(t, want, x[d])
				}
				assert.InDelta(t, 1., integrate(q, func(tensor.Tensor1) float64 { return 1 }), 1e-14)
				assert.Equal(t, sign, ReferenceNormal(face)[d])
			}
		}
	}
	{ // Subfaces tile the face
		fq, _ := NewGauss(2, 3)
		var total float64
		f := func(x tensor.Tensor1) float64 { return x[0]*x[0] + x[1] }
		for sf := 0; sf < NSubfaces(3); sf++ {
			q := ProjectToSubface(3, fq, 5, sf)
			for _, x := range q.Points {
				assert.Equal(t, 1., x[2])
			}
			total += integrate(q, f)
		}
		full := integrate(ProjectToFace(3, fq, 5), f)
		assert.InDelta(t, full, total, 1e-14)
		assert.InDelta(t, 1./3+0.5, total, 1e-14)
	}
	{ // Collections
		q2, _ := NewGauss(1, 2)
		q3, _ := NewGauss(1, 3)
		c := Collection{q2, q3, q2, q3}
		assert.Equal(t, 3, c.MaxSize())
		assert.Equal(t, 3, c.Face(1).Size())
		assert.Equal(t, 2, Collection{q2}.Face(3).Size())
		assert.Panics(t, func() { ProjectToFace(2, q2, 4) })
		assert.Panics(t, func() { ProjectToSubface(2, q2, 0, 2) })
	}
}
