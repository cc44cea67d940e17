// Package quadrature provides point sets and weights on the reference hypercube [0,1]^dim
// together with their projection onto faces and subfaces of the reference cell.
package quadrature

import (
	"fmt"

	"github.com/notargets/fevalues/tensor"
)

type Quadrature struct {
	Dim     int
	Points  []tensor.Tensor1
	Weights []float64
}

func NewQuadrature(dim int, points []tensor.Tensor1, weights []float64) (q Quadrature, err error) {
	if dim < 0 || dim > tensor.MaxDim {
		err = fmt.Errorf("quadrature dimension must be in [0,%d], have %d", tensor.MaxDim, dim)
		return
	}
	if len(points) != len(weights) {
		err = fmt.Errorf("mismatch: %d points and %d weights", len(points), len(weights))
		return
	}
	if len(points) == 0 {
		err = fmt.Errorf("quadrature needs at least one point")
		return
	}
	q = Quadrature{Dim: dim, Points: points, Weights: weights}
	return
}

func (q Quadrature) Size() int { return len(q.Points) }

// Point returns the zero dimensional rule with a single point at the
// origin and unit weight, used on the vertex faces of a line.
func Point() Quadrature {
	return Quadrature{Dim: 0, Points: []tensor.Tensor1{{}}, Weights: []float64{1}}
}

// NewGauss returns the n^dim point tensor product Gauss-Legendre rule, exact for
// polynomials of degree 2n-1 in each coordinate.
func NewGauss(dim, n int) (q Quadrature, err error) {
	if n < 1 {
		err = fmt.Errorf("Gauss quadrature needs at least one point, have %d", n)
		return
	}
	x, w := JacobiGQ(0, 0, n-1)
	return TensorProduct(dim, x, w)
}

// NewGaussLobatto returns the n^dim point tensor product Gauss-Lobatto rule which
// includes the cell vertices, exact for polynomials of degree 2n-3.
func NewGaussLobatto(dim, n int) (q Quadrature, err error) {
	if n < 2 {
		err = fmt.Errorf("Gauss-Lobatto quadrature needs at least two points, have %d", n)
		return
	}
	x, w := JacobiGL(n - 1)
	return TensorProduct(dim, x, w)
}

// TensorProduct maps a one dimensional rule on [-1,1] to [0,1] and builds the
// tensor product rule, with the first coordinate running fastest.
func TensorProduct(dim int, x, w []float64) (q Quadrature, err error) {
	if dim == 0 {
		return Point(), nil
	}
	if dim < 0 || dim > tensor.MaxDim {
		err = fmt.Errorf("quadrature dimension must be in [0,%d], have %d", tensor.MaxDim, dim)
		return
	}
	var (
		n  = len(x)
		np = 1
	)
	for d := 0; d < dim; d++ {
		np *= n
	}
	q = Quadrature{
		Dim:     dim,
		Points:  make([]tensor.Tensor1, np),
		Weights: make([]float64, np),
	}
	for k := 0; k < np; k++ {
		q.Weights[k] = 1
		kk := k
		for d := 0; d < dim; d++ {
			i := kk % n
			kk /= n
			q.Points[k][d] = 0.5 * (x[i] + 1)
			q.Weights[k] *= 0.5 * w[i]
		}
	}
	return
}

// Collection holds the quadrature rules used on faces, either one rule shared by all
// faces or one rule per face.
type Collection []Quadrature

func (c Collection) Face(face int) Quadrature {
	if len(c) == 1 {
		return c[0]
	}
	return c[face]
}

func (c Collection) MaxSize() (n int) {
	for _, q := range c {
		if q.Size() > n {
			n = q.Size()
		}
	}
	return
}
