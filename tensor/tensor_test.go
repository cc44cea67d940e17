package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTensorAlgebra(t *testing.T) {
	{ // Det and Inverse for each dimension
		J := Tensor2{{2, 1, 0}, {0.5, 3, 0}, {0, 0, 1}}
		for dim := 1; dim <= MaxDim; dim++ {
			inv, ok := J.Inverse(dim)
			assert.True(t, ok)
			prod := J.Mul(inv)
			for i := 0; i < dim; i++ {
				for j := 0; j < dim; j++ {
					want := 0.
					if i == j {
						want = 1
					}
					assert.InDeltaf(t, want, prod[i][j], 1e-14, "dim %d (%d,%d)", dim, i, j)
				}
			}
		}
		assert.InDelta(t, 2., J.Det(1), 1e-15)
		assert.InDelta(t, 5.5, J.Det(2), 1e-15)
		assert.InDelta(t, 5.5, J.Det(3), 1e-15)
		_, ok := Tensor2{}.Inverse(2)
		assert.False(t, ok)
		assert.Panics(t, func() { J.Det(4) })
	}
	{ // Trace, transpose, outer
		a := NewTensor1(1, 2, 3)
		b := NewTensor1(4, 5, 6)
		o := a.Outer(b)
		assert.Equal(t, 4.+10+18, o.Trace())
		assert.Equal(t, o.Transpose(), b.Outer(a))
		assert.Equal(t, 32., a.Dot(b))
		assert.InDelta(t, 3.7416573867739413, a.Norm(), 1e-15)
		assert.Equal(t, NewTensor1(9, 12, 15), a.AddScaled(2, b))
	}
}

func TestSymmetric(t *testing.T) {
	{ // The single row closed form equals symmetrizing the full tensor
		g := NewTensor1(1.5, -2, 0.25)
		for n := 0; n < MaxDim; n++ {
			var full Tensor2
			full[n] = g
			assert.Equal(t, Symmetrize(full), SymmetrizeSingleRow(n, g))
		}
	}
	{ // Unrolled indices cover the upper triangle once
		for dim := 1; dim <= MaxDim; dim++ {
			seen := map[[2]int]bool{}
			for k := 0; k < NSymmetricComponents(dim); k++ {
				i, j := SymmetricUnrolledToComponent(dim, k)
				assert.True(t, i <= j && j < dim)
				seen[[2]int{i, j}] = true
			}
			assert.Len(t, seen, NSymmetricComponents(dim))
			for k := 0; k < NTensorComponents(dim); k++ {
				i, j := TensorUnrolledToComponent(dim, k)
				assert.Equal(t, k, i*dim+j)
			}
		}
		i, j := SymmetricUnrolledToComponent(3, 4)
		assert.Equal(t, [2]int{0, 2}, [2]int{i, j})
	}
}

func TestCovariant(t *testing.T) {
	// A diagonal map x = diag(2,4,5) ξ has jinv = diag(1/2,1/4,1/5)
	jinv := Tensor2{{0.5, 0, 0}, {0, 0.25, 0}, {0, 0, 0.2}}
	g := NewTensor1(1, 1, 1)
	assert.Equal(t, NewTensor1(0.5, 0.25, 0.2), g.Covariant(jinv))

	var h Tensor2
	h[0][1], h[1][0] = 1, 1
	hp := h.Covariant(jinv)
	assert.InDelta(t, 0.125, hp[0][1], 1e-15)
	assert.InDelta(t, 0.125, hp[1][0], 1e-15)

	var t3 Tensor3
	t3[0][1][2] = 1
	tp := t3.Covariant(jinv)
	assert.InDelta(t, 0.5*0.25*0.2, tp[0][1][2], 1e-15)
	tt := t3.CovariantTail(jinv)
	assert.InDelta(t, 0.25*0.2, tt[0][1][2], 1e-15)

	var t5 Tensor5
	t5[2][0][0][1][2] = 1
	t5p := t5.CovariantTail(jinv)
	assert.InDelta(t, 0.5*0.5*0.25*0.2, t5p[2][0][0][1][2], 1e-15)
}

func TestNestedRanks(t *testing.T) {
	{ // Every slice of a tensor is the tensor of one rank lower
		var T Tensor3
		T[1] = Tensor2{{1, 2}, {3, 4}}
		assert.Equal(t, 5., T[1].Trace())
		assert.Equal(t, NewTensor1(3, 4), T[1][1])
		assert.Equal(t, 11., T[1][1].Dot(NewTensor1(1, 2)))
		var F Tensor4
		F[0][1] = T[1]
		F = F.AddScaled(2, F)
		assert.Equal(t, 12., F[0][1][1][1])
		assert.Equal(t, 15., F[0][1].Trace())
	}
	{ // Push forward with a diagonal inverse scales each index by its entry
		var (
			jinv = Tensor2{{2, 0, 0}, {0, 3, 0}, {0, 0, 5}}
			T    Tensor5
		)
		T[0][1][2][0][1] = 1
		T[2][2][2][2][2] = 1
		R := T.CovariantTail(jinv)
		assert.Equal(t, 3.*5*2*3, R[0][1][2][0][1])
		assert.Equal(t, 5.*5*5*5, R[2][2][2][2][2])
		assert.Equal(t, 0., R[1][1][2][0][1])
		var G Tensor3
		G[1][0][2] = 1
		assert.Equal(t, 3.*2*5, G.Covariant(jinv)[1][0][2])
		assert.Equal(t, 2.*5, G.CovariantTail(jinv)[1][0][2])
	}
}
