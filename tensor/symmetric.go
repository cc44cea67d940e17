package tensor

// SymTensor2 is a symmetric rank 2 tensor stored in full form.
type SymTensor2 Tensor2

func (s SymTensor2) AddScaled(a float64, x SymTensor2) SymTensor2 {
	return SymTensor2(Tensor2(s).AddScaled(a, Tensor2(x)))
}

func (s SymTensor2) Trace() float64 { return Tensor2(s).Trace() }

func (s SymTensor2) Flat() []float64 { return Tensor2(s).Flat() }

// Symmetrize returns (t + tᵀ)/2.
func Symmetrize(t Tensor2) (s SymTensor2) {
	for i := range t {
		for j := range t[i] {
			s[i][j] = 0.5 * (t[i][j] + t[j][i])
		}
	}
	return
}

// SymmetrizeSingleRow returns the symmetric part of the tensor whose row n equals t
// and whose other rows are zero.
func SymmetrizeSingleRow(n int, t Tensor1) (s SymTensor2) {
	for k := 0; k < MaxDim; k++ {
		if k == n {
			s[n][n] = t[n]
			continue
		}
		s[n][k] = t[k] / 2
		s[k][n] = t[k] / 2
	}
	return
}

// NSymmetricComponents is the number of independent entries of a symmetric rank 2
// tensor in dim dimensions.
func NSymmetricComponents(dim int) int { return dim * (dim + 1) / 2 }

// NTensorComponents is the number of entries of a rank 2 tensor in dim dimensions.
func NTensorComponents(dim int) int { return dim * dim }

var symmetricUnrolled = [MaxDim + 1][][2]int{
	{},
	{{0, 0}},
	{{0, 0}, {1, 1}, {0, 1}},
	{{0, 0}, {1, 1}, {2, 2}, {0, 1}, {0, 2}, {1, 2}},
}

// SymmetricUnrolledToComponent maps the unrolled index of a symmetric tensor to (i,j):
// the diagonal first, then the upper triangle row by row.
func SymmetricUnrolledToComponent(dim, k int) (i, j int) {
	ij := symmetricUnrolled[dim][k]
	return ij[0], ij[1]
}

// TensorUnrolledToComponent maps the unrolled, row major, index of a rank 2 tensor to (i,j).
func TensorUnrolledToComponent(dim, k int) (i, j int) {
	return k / dim, k % dim
}
