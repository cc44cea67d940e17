package quadrature

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

func gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1.
	a1 := alpha + 1.
	b1 := beta + 1.
	return math.Gamma(a1) * math.Gamma(b1) * math.Pow(2, ab1) / ab1 / math.Gamma(ab1)
}

// JacobiGQ returns the N+1 point Gauss quadrature for the Jacobi weight
// (1-x)^alpha (1+x)^beta on [-1,1], from the eigen decomposition of the
// symmetric tridiagonal Jacobi matrix (Golub-Welsch).
func JacobiGQ(alpha, beta float64, N int) (x, w []float64) {
	if N == 0 {
		return []float64{-(alpha - beta) / (alpha + beta + 2.)}, []float64{2.}
	}
	var (
		h1 = make([]float64, N+1)
		JJ = mat.NewSymDense(N+1, nil)
	)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}
	// main diagonal: -1/2*(alpha^2-beta^2)/(h1+2)/h1
	fac := -.5 * (alpha*alpha - beta*beta)
	for i := 0; i < N+1; i++ {
		val := h1[i]
		if alpha+beta < 1.e-15 && i == 0 {
			continue
		}
		JJ.SetSym(i, i, fac/(val*(val+2.)))
	}
	for i := 0; i < N; i++ {
		ip1 := float64(i + 1)
		val := h1[i]
		d1 := 2. / (val + 2.)
		d1 *= math.Sqrt(ip1 * (ip1 + alpha + beta) * (ip1 + alpha) * (ip1 + beta) / ((val + 1.) * (val + 3.)))
		JJ.SetSym(i, i+1, d1)
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(JJ, true); !ok {
		panic(fmt.Errorf("eigenvalue decomposition failed for Jacobi matrix of order %d", N+1))
	}
	x = eig.Values(nil)
	var VVr mat.Dense
	eig.VectorsTo(&VVr)
	w = make([]float64, N+1)
	g0 := gamma0(alpha, beta)
	for i, v := range VVr.RawRowView(0) {
		w[i] = v * v * g0
	}
	return
}

// legendreP evaluates the Legendre polynomial of degree n at x by the three term recurrence.
func legendreP(n int, x float64) float64 {
	if n == 0 {
		return 1
	}
	p0, p1 := 1., x
	for k := 1; k < n; k++ {
		kf := float64(k)
		p0, p1 = p1, ((2*kf+1)*x*p1-kf*p0)/(kf+1)
	}
	return p1
}

// JacobiGL returns the N+1 point Gauss-Lobatto-Legendre quadrature on [-1,1], N >= 1.
func JacobiGL(N int) (x, w []float64) {
	x = make([]float64, N+1)
	w = make([]float64, N+1)
	x[0], x[N] = -1, 1
	if N > 1 {
		xint, _ := JacobiGQ(1, 1, N-2)
		copy(x[1:N], xint)
	}
	nf := float64(N)
	for i := range x {
		p := legendreP(N, x[i])
		w[i] = 2 / (nf * (nf + 1) * p * p)
	}
	return
}
