package fe

import (
	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/types"
	"gonum.org/v1/gonum/mat"
)

// SymmetricTensorView exposes dim(dim+1)/2 consecutive components as a symmetric rank 2
// tensor field, stored diagonal first and then the upper triangle row by row.
type SymmetricTensorView struct {
	view
}

// TensorView exposes dim*dim consecutive components as a rank 2 tensor field in row
// major order.
type TensorView struct {
	view
}

// forEach calls fn with the block component, the cache row and the tensor indices of
// every nonzero component of the shape function.
func forEach(sf *ShapeFunctionData, unroll func(k int) (a, b int), fn func(row, a, b int)) {
	switch sf.Single.Kind {
	case NonzeroSingle:
		a, b := unroll(sf.Single.Component)
		fn(sf.Single.Row, a, b)
	case NonzeroMultiple:
		for k, nz := range sf.IsNonzero {
			if nz {
				a, b := unroll(k)
				fn(sf.RowIndex[k], a, b)
			}
		}
	}
}

func (sv *SymmetricTensorView) unroll(k int) (a, b int) {
	return tensor.SymmetricUnrolledToComponent(sv.fev.dim, k)
}

func (sv *SymmetricTensorView) valueOf(sf *ShapeFunctionData, q int) (r tensor.SymTensor2) {
	forEach(sf, sv.unroll, func(row, a, b int) {
		val := sv.value(row, q)
		r[a][b], r[b][a] = val, val
	})
	return
}

// divergenceOf is Σ_j ∂S_ij/∂x_j; an off diagonal component feeds both rows.
func (sv *SymmetricTensorView) divergenceOf(sf *ShapeFunctionData, q int) (r tensor.Tensor1) {
	forEach(sf, sv.unroll, func(row, a, b int) {
		g := sv.gradient(row, q)
		r[a] += g[b]
		if a != b {
			r[b] += g[a]
		}
	})
	return
}

func (sv *SymmetricTensorView) gradientOf(sf *ShapeFunctionData, q int) (r tensor.Tensor3) {
	forEach(sf, sv.unroll, func(row, a, b int) {
		g := sv.gradient(row, q)
		r[a][b], r[b][a] = g, g
	})
	return
}

func (sv *SymmetricTensorView) Value(i, q int) tensor.SymTensor2 {
	return sv.valueOf(sv.descriptor(types.UpdateValues, "shape values", i, q), q)
}

func (sv *SymmetricTensorView) Divergence(i, q int) tensor.Tensor1 {
	return sv.divergenceOf(sv.descriptor(types.UpdateGradients, "shape gradients", i, q), q)
}

func (sv *SymmetricTensorView) Gradient(i, q int) tensor.Tensor3 {
	return sv.gradientOf(sv.descriptor(types.UpdateGradients, "shape gradients", i, q), q)
}

func (sv *SymmetricTensorView) FunctionValues(global mat.Vector) []tensor.SymTensor2 {
	return sv.FunctionValuesFromLocal(sv.fev.localValues(global))
}

func (sv *SymmetricTensorView) FunctionValuesFromLocal(local []float64) []tensor.SymTensor2 {
	sv.fev.require(types.UpdateValues, "shape values")
	return reconstruct(&sv.view, local, sv.valueOf)
}

func (sv *SymmetricTensorView) FunctionDivergences(global mat.Vector) []tensor.Tensor1 {
	return sv.FunctionDivergencesFromLocal(sv.fev.localValues(global))
}

func (sv *SymmetricTensorView) FunctionDivergencesFromLocal(local []float64) []tensor.Tensor1 {
	sv.fev.require(types.UpdateGradients, "shape gradients")
	return reconstruct(&sv.view, local, sv.divergenceOf)
}

func (sv *SymmetricTensorView) FunctionGradients(global mat.Vector) []tensor.Tensor3 {
	return sv.FunctionGradientsFromLocal(sv.fev.localValues(global))
}

func (sv *SymmetricTensorView) FunctionGradientsFromLocal(local []float64) []tensor.Tensor3 {
	sv.fev.require(types.UpdateGradients, "shape gradients")
	return reconstruct(&sv.view, local, sv.gradientOf)
}

func (tv *TensorView) unroll(k int) (a, b int) {
	return tensor.TensorUnrolledToComponent(tv.fev.dim, k)
}

func (tv *TensorView) valueOf(sf *ShapeFunctionData, q int) (r tensor.Tensor2) {
	forEach(sf, tv.unroll, func(row, a, b int) {
		r[a][b] = tv.value(row, q)
	})
	return
}

// divergenceOf is Σ_j ∂T_ij/∂x_j.
func (tv *TensorView) divergenceOf(sf *ShapeFunctionData, q int) (r tensor.Tensor1) {
	forEach(sf, tv.unroll, func(row, a, b int) {
		r[a] += tv.gradient(row, q)[b]
	})
	return
}

func (tv *TensorView) gradientOf(sf *ShapeFunctionData, q int) (r tensor.Tensor3) {
	forEach(sf, tv.unroll, func(row, a, b int) {
		r[a][b] = tv.gradient(row, q)
	})
	return
}

func (tv *TensorView) Value(i, q int) tensor.Tensor2 {
	return tv.valueOf(tv.descriptor(types.UpdateValues, "shape values", i, q), q)
}

func (tv *TensorView) Divergence(i, q int) tensor.Tensor1 {
	return tv.divergenceOf(tv.descriptor(types.UpdateGradients, "shape gradients", i, q), q)
}

func (tv *TensorView) Gradient(i, q int) tensor.Tensor3 {
	return tv.gradientOf(tv.descriptor(types.UpdateGradients, "shape gradients", i, q), q)
}

func (tv *TensorView) FunctionValues(global mat.Vector) []tensor.Tensor2 {
	return tv.FunctionValuesFromLocal(tv.fev.localValues(global))
}

func (tv *TensorView) FunctionValuesFromLocal(local []float64) []tensor.Tensor2 {
	tv.fev.require(types.UpdateValues, "shape values")
	return reconstruct(&tv.view, local, tv.valueOf)
}

func (tv *TensorView) FunctionDivergences(global mat.Vector) []tensor.Tensor1 {
	return tv.FunctionDivergencesFromLocal(tv.fev.localValues(global))
}

func (tv *TensorView) FunctionDivergencesFromLocal(local []float64) []tensor.Tensor1 {
	tv.fev.require(types.UpdateGradients, "shape gradients")
	return reconstruct(&tv.view, local, tv.divergenceOf)
}

func (tv *TensorView) FunctionGradients(global mat.Vector) []tensor.Tensor3 {
	return tv.FunctionGradientsFromLocal(tv.fev.localValues(global))
}

func (tv *TensorView) FunctionGradientsFromLocal(local []float64) []tensor.Tensor3 {
	tv.fev.require(types.UpdateGradients, "shape gradients")
	return reconstruct(&tv.view, local, tv.gradientOf)
}
