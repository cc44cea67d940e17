// Package tensor holds the small fixed size tensors stored at quadrature points.
//
// All tensors are dimensioned for MaxDim and used with an explicit dim <= MaxDim;
// entries with an index >= dim are kept at zero so that sums and contractions over the
// full MaxDim range give the same answer as over dim.
package tensor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const MaxDim = 3

type (
	Tensor1 [MaxDim]float64
	Tensor2 [MaxDim]Tensor1
	Tensor3 [MaxDim]Tensor2
	Tensor4 [MaxDim]Tensor3
	Tensor5 [MaxDim]Tensor4
)

// Linear is satisfied by every tensor type and lets accumulation loops be written once.
type Linear[T any] interface {
	AddScaled(a float64, x T) T
}

func NewTensor1(x ...float64) (v Tensor1) {
	copy(v[:], x)
	return
}

func Unit(d int) (v Tensor1) {
	v[d] = 1
	return
}

func (v Tensor1) Add(w Tensor1) Tensor1 {
	for i := range v {
		v[i] += w[i]
	}
	return v
}

func (v Tensor1) Sub(w Tensor1) Tensor1 {
	for i := range v {
		v[i] -= w[i]
	}
	return v
}

func (v Tensor1) Scale(a float64) Tensor1 {
	for i := range v {
		v[i] *= a
	}
	return v
}

func (v Tensor1) AddScaled(a float64, w Tensor1) Tensor1 {
	for i := range v {
		v[i] += a * w[i]
	}
	return v
}

func (v Tensor1) Dot(w Tensor1) float64 { return floats.Dot(v[:], w[:]) }

func (v Tensor1) Norm() float64 { return floats.Norm(v[:], 2) }

func (v Tensor1) Flat() []float64 { return v[:] }

// Outer returns v ⊗ w.
func (v Tensor1) Outer(w Tensor1) (r Tensor2) {
	for i := range v {
		for j := range w {
			r[i][j] = v[i] * w[j]
		}
	}
	return
}

func (t Tensor2) AddScaled(a float64, x Tensor2) Tensor2 {
	for i := range t {
		for j := range t[i] {
			t[i][j] += a * x[i][j]
		}
	}
	return t
}

func (t Tensor2) Scale(a float64) Tensor2 {
	return Tensor2{}.AddScaled(a, t)
}

func (t Tensor2) Transpose() (r Tensor2) {
	for i := range t {
		for j := range t[i] {
			r[j][i] = t[i][j]
		}
	}
	return
}

func (t Tensor2) Trace() (tr float64) {
	for d := 0; d < MaxDim; d++ {
		tr += t[d][d]
	}
	return
}

func (t Tensor2) MulVec(v Tensor1) (r Tensor1) {
	for i := range t {
		for j := range t[i] {
			r[i] += t[i][j] * v[j]
		}
	}
	return
}

func (t Tensor2) Mul(s Tensor2) (r Tensor2) {
	for i := range t {
		for j := range s {
			for k := range s[j] {
				r[i][k] += t[i][j] * s[j][k]
			}
		}
	}
	return
}

func (t Tensor2) Flat() []float64 {
	f := make([]float64, 0, MaxDim*MaxDim)
	for i := range t {
		f = append(f, t[i][:]...)
	}
	return f
}

// Det is the determinant of the leading dim x dim block.
func (t Tensor2) Det(dim int) float64 {
	switch dim {
	case 1:
		return t[0][0]
	case 2:
		return t[0][0]*t[1][1] - t[0][1]*t[1][0]
	case 3:
		return t[0][0]*(t[1][1]*t[2][2]-t[1][2]*t[2][1]) -
			t[0][1]*(t[1][0]*t[2][2]-t[1][2]*t[2][0]) +
			t[0][2]*(t[1][0]*t[2][1]-t[1][1]*t[2][0])
	}
	panic(dimError(dim))
}

// Inverse of the leading dim x dim block by cofactors, ok is false when singular.
func (t Tensor2) Inverse(dim int) (r Tensor2, ok bool) {
	det := t.Det(dim)
	if det == 0 || math.IsNaN(det) {
		return
	}
	switch dim {
	case 1:
		r[0][0] = 1 / det
	case 2:
		r[0][0] = t[1][1] / det
		r[0][1] = -t[0][1] / det
		r[1][0] = -t[1][0] / det
		r[1][1] = t[0][0] / det
	case 3:
		r[0][0] = (t[1][1]*t[2][2] - t[1][2]*t[2][1]) / det
		r[0][1] = -(t[0][1]*t[2][2] - t[0][2]*t[2][1]) / det
		r[0][2] = (t[0][1]*t[1][2] - t[0][2]*t[1][1]) / det
		r[1][0] = -(t[1][0]*t[2][2] - t[1][2]*t[2][0]) / det
		r[1][1] = (t[0][0]*t[2][2] - t[0][2]*t[2][0]) / det
		r[1][2] = -(t[0][0]*t[1][2] - t[0][2]*t[1][0]) / det
		r[2][0] = (t[1][0]*t[2][1] - t[1][1]*t[2][0]) / det
		r[2][1] = -(t[0][0]*t[2][1] - t[0][1]*t[2][0]) / det
		r[2][2] = (t[0][0]*t[1][1] - t[0][1]*t[1][0]) / det
	}
	ok = true
	return
}

func (t Tensor3) AddScaled(a float64, x Tensor3) Tensor3 {
	for i := range t {
		t[i] = t[i].AddScaled(a, x[i])
	}
	return t
}

func (t Tensor3) Flat() []float64 {
	f := make([]float64, 0, MaxDim*MaxDim*MaxDim)
	for i := range t {
		f = append(f, t[i].Flat()...)
	}
	return f
}

func (t Tensor4) AddScaled(a float64, x Tensor4) Tensor4 {
	for i := range t {
		t[i] = t[i].AddScaled(a, x[i])
	}
	return t
}

func (t Tensor4) Flat() []float64 {
	f := make([]float64, 0, MaxDim*MaxDim*MaxDim*MaxDim)
	for i := range t {
		f = append(f, t[i].Flat()...)
	}
	return f
}

func (t Tensor5) AddScaled(a float64, x Tensor5) Tensor5 {
	for i := range t {
		t[i] = t[i].AddScaled(a, x[i])
	}
	return t
}

func (t Tensor5) Flat() []float64 {
	f := make([]float64, 0, MaxDim*MaxDim*MaxDim*MaxDim*MaxDim)
	for i := range t {
		f = append(f, t[i].Flat()...)
	}
	return f
}

type dimError int

func (d dimError) Error() string {
	return fmt.Sprintf("tensor: dimension must be 1, 2 or 3, have %d", int(d))
}
