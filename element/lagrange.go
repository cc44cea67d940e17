package element

import (
	"fmt"

	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/utils"
)

// Lagrange1D holds the monomial coefficients of the Lagrange polynomials on the
// equidistant nodes j/degree of [0,1]. Coefficients come from the inverse of the
// Vandermonde matrix V_ik = x_i^k.
type Lagrange1D struct {
	Degree int
	Nodes  []float64
	C      utils.Matrix // C[k][j] is the coefficient of x^k in polynomial j
}

func NewLagrange1D(degree int) (l *Lagrange1D, err error) {
	if degree < 0 {
		err = fmt.Errorf("polynomial degree must be >= 0, have %d", degree)
		return
	}
	n := degree + 1
	l = &Lagrange1D{Degree: degree, Nodes: make([]float64, n)}
	if degree == 0 {
		l.Nodes[0] = 0.5
		l.C = utils.NewMatrix(1, 1, []float64{1})
		return
	}
	V := utils.NewMatrix(n, n)
	for i := range l.Nodes {
		l.Nodes[i] = float64(i) / float64(degree)
		for k := 0; k < n; k++ {
			V.Set(i, k, utils.POW(l.Nodes[i], k))
		}
	}
	if l.C, err = V.Inverse(); err != nil {
		return nil, fmt.Errorf("Lagrange basis of degree %d: %w", degree, err)
	}
	l.C.SetReadOnly("C")
	return
}

// Derivative returns the order-th derivative of polynomial j at x.
func (l *Lagrange1D) Derivative(j, order int, x float64) (d float64) {
	for k := l.Degree; k >= order; k-- {
		// Horner in x over the surviving monomials
		d = d*x + l.C.At(k, j)*utils.FallingFactorial(k, order)
	}
	return
}

/*
	TensorBasis is the product basis φ_j(ξ) = Π_d l_{j_d}(ξ_d) on [0,1]^dim with the
	multi-index j = j_0 + (p+1) j_1 + (p+1)^2 j_2, i.e. the first coordinate runs fastest,
	matching the lexicographic vertex order of the reference cell for p = 1.
*/
type TensorBasis struct {
	Dim   int
	Poly  *Lagrange1D
	N     int
	index [][tensor.MaxDim]int
}

func NewTensorBasis(dim, degree int) (tb *TensorBasis, err error) {
	if dim < 1 || dim > tensor.MaxDim {
		err = fmt.Errorf("dimension must be in [1,%d], have %d", tensor.MaxDim, dim)
		return
	}
	var poly *Lagrange1D
	if poly, err = NewLagrange1D(degree); err != nil {
		return
	}
	n1 := degree + 1
	tb = &TensorBasis{Dim: dim, Poly: poly, N: 1}
	for d := 0; d < dim; d++ {
		tb.N *= n1
	}
	tb.index = make([][tensor.MaxDim]int, tb.N)
	for j := range tb.index {
		jj := j
		for d := 0; d < dim; d++ {
			tb.index[j][d] = jj % n1
			jj /= n1
		}
	}
	return
}

// Node is the support point of basis function j.
func (tb *TensorBasis) Node(j int) (x tensor.Tensor1) {
	for d := 0; d < tb.Dim; d++ {
		x[d] = tb.Poly.Nodes[tb.index[j][d]]
	}
	return
}

// Derivative returns the mixed derivative of basis function j with orders[d]
// derivatives in coordinate d.
func (tb *TensorBasis) Derivative(j int, orders [tensor.MaxDim]int, x tensor.Tensor1) (d float64) {
	d = 1
	for c := 0; c < tb.Dim; c++ {
		d *= tb.Poly.Derivative(tb.index[j][c], orders[c], x[c])
		if d == 0 {
			return
		}
	}
	return
}

func (tb *TensorBasis) Value(j int, x tensor.Tensor1) float64 {
	return tb.Derivative(j, [tensor.MaxDim]int{}, x)
}

func (tb *TensorBasis) Gradient(j int, x tensor.Tensor1) (g tensor.Tensor1) {
	for a := 0; a < tb.Dim; a++ {
		var o [tensor.MaxDim]int
		o[a]++
		g[a] = tb.Derivative(j, o, x)
	}
	return
}

func (tb *TensorBasis) Hessian(j int, x tensor.Tensor1) (h tensor.Tensor2) {
	for a := 0; a < tb.Dim; a++ {
		for b := a; b < tb.Dim; b++ {
			var o [tensor.MaxDim]int
			o[a]++
			o[b]++
			h[a][b] = tb.Derivative(j, o, x)
			h[b][a] = h[a][b]
		}
	}
	return
}

func (tb *TensorBasis) ThirdDerivative(j int, x tensor.Tensor1) (t tensor.Tensor3) {
	for a := 0; a < tb.Dim; a++ {
		for b := 0; b < tb.Dim; b++ {
			for c := 0; c < tb.Dim; c++ {
				var o [tensor.MaxDim]int
				o[a]++
				o[b]++
				o[c]++
				t[a][b][c] = tb.Derivative(j, o, x)
			}
		}
	}
	return
}
