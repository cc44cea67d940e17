package fe

import (
	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/types"
	"gonum.org/v1/gonum/mat"
)

// VectorView exposes dim consecutive components of the element as a vector field.
type VectorView struct {
	view
}

/*
	Every quantity dispatches on the descriptor of the shape function: zero when no
	component of the block is nonzero, a single cache row embedded at its component, or a
	loop over the nonzero components of the block.
*/

func (vv *VectorView) valueOf(sf *ShapeFunctionData, q int) (r tensor.Tensor1) {
	switch sf.Single.Kind {
	case NonzeroSingle:
		r[sf.Single.Component] = vv.value(sf.Single.Row, q)
	case NonzeroMultiple:
		for d, nz := range sf.IsNonzero {
			if nz {
				r[d] = vv.value(sf.RowIndex[d], q)
			}
		}
	}
	return
}

// gradientOf returns the tensor whose row d is the gradient of component d.
func (vv *VectorView) gradientOf(sf *ShapeFunctionData, q int) (r tensor.Tensor2) {
	switch sf.Single.Kind {
	case NonzeroSingle:
		r[sf.Single.Component] = vv.gradient(sf.Single.Row, q)
	case NonzeroMultiple:
		for d, nz := range sf.IsNonzero {
			if nz {
				r[d] = vv.gradient(sf.RowIndex[d], q)
			}
		}
	}
	return
}

func (vv *VectorView) symmetricGradientOf(sf *ShapeFunctionData, q int) (r tensor.SymTensor2) {
	switch sf.Single.Kind {
	case NonzeroSingle:
		r = tensor.SymmetrizeSingleRow(sf.Single.Component, vv.gradient(sf.Single.Row, q))
	case NonzeroMultiple:
		r = tensor.Symmetrize(vv.gradientOf(sf, q))
	}
	return
}

func (vv *VectorView) divergenceOf(sf *ShapeFunctionData, q int) (div float64) {
	switch sf.Single.Kind {
	case NonzeroSingle:
		div = vv.gradient(sf.Single.Row, q)[sf.Single.Component]
	case NonzeroMultiple:
		for d, nz := range sf.IsNonzero {
			if nz {
				div += vv.gradient(sf.RowIndex[d], q)[d]
			}
		}
	}
	return
}

// curlSingle is the curl of the field whose only nonzero component is comp with gradient g.
// In 2D the curl is the scalar ∂v1/∂x0 - ∂v0/∂x1 stored in entry 0.
func curlSingle(dim, comp int, g tensor.Tensor1) (r tensor.Tensor1) {
	switch dim {
	case 2:
		switch comp {
		case 0:
			r[0] = -g[1]
		case 1:
			r[0] = g[0]
		}
	case 3:
		switch comp {
		case 0:
			r[1], r[2] = g[2], -g[1]
		case 1:
			r[0], r[2] = -g[2], g[0]
		case 2:
			r[0], r[1] = g[1], -g[0]
		}
	default:
		panic(ErrCurl1D)
	}
	return
}

func (vv *VectorView) curlOf(sf *ShapeFunctionData, q int) (r tensor.Tensor1) {
	dim := vv.fev.dim
	if dim == 1 {
		panic(ErrCurl1D)
	}
	switch sf.Single.Kind {
	case NonzeroSingle:
		r = curlSingle(dim, sf.Single.Component, vv.gradient(sf.Single.Row, q))
	case NonzeroMultiple:
		for d, nz := range sf.IsNonzero {
			if nz {
				r = r.Add(curlSingle(dim, d, vv.gradient(sf.RowIndex[d], q)))
			}
		}
	}
	return
}

func (vv *VectorView) hessianOf(sf *ShapeFunctionData, q int) (r tensor.Tensor3) {
	switch sf.Single.Kind {
	case NonzeroSingle:
		r[sf.Single.Component] = vv.hessian(sf.Single.Row, q)
	case NonzeroMultiple:
		for d, nz := range sf.IsNonzero {
			if nz {
				r[d] = vv.hessian(sf.RowIndex[d], q)
			}
		}
	}
	return
}

// hessianDiagonalOf keeps row d, column k as the diagonal entry (k,k) of the Hessian of
// component d.
func (vv *VectorView) hessianDiagonalOf(sf *ShapeFunctionData, q int) (r tensor.Tensor2) {
	h := vv.hessianOf(sf, q)
	for d := 0; d < tensor.MaxDim; d++ {
		for k := 0; k < tensor.MaxDim; k++ {
			r[d][k] = h[d][k][k]
		}
	}
	return
}

func (vv *VectorView) thirdDerivativeOf(sf *ShapeFunctionData, q int) (r tensor.Tensor4) {
	switch sf.Single.Kind {
	case NonzeroSingle:
		r[sf.Single.Component] = vv.thirdDerivative(sf.Single.Row, q)
	case NonzeroMultiple:
		for d, nz := range sf.IsNonzero {
			if nz {
				r[d] = vv.thirdDerivative(sf.RowIndex[d], q)
			}
		}
	}
	return
}

func (vv *VectorView) Value(i, q int) tensor.Tensor1 {
	return vv.valueOf(vv.descriptor(types.UpdateValues, "shape values", i, q), q)
}

func (vv *VectorView) Gradient(i, q int) tensor.Tensor2 {
	return vv.gradientOf(vv.descriptor(types.UpdateGradients, "shape gradients", i, q), q)
}

func (vv *VectorView) SymmetricGradient(i, q int) tensor.SymTensor2 {
	return vv.symmetricGradientOf(vv.descriptor(types.UpdateGradients, "shape gradients", i, q), q)
}

func (vv *VectorView) Divergence(i, q int) float64 {
	return vv.divergenceOf(vv.descriptor(types.UpdateGradients, "shape gradients", i, q), q)
}

// Curl is a pseudo scalar in entry 0 in 2D and a vector in 3D.
func (vv *VectorView) Curl(i, q int) tensor.Tensor1 {
	return vv.curlOf(vv.descriptor(types.UpdateGradients, "shape gradients", i, q), q)
}

func (vv *VectorView) Hessian(i, q int) tensor.Tensor3 {
	return vv.hessianOf(vv.descriptor(types.UpdateHessians, "shape hessians", i, q), q)
}

func (vv *VectorView) ThirdDerivative(i, q int) tensor.Tensor4 {
	return vv.thirdDerivativeOf(vv.descriptor(types.Update3rdDerivatives, "shape 3rd derivatives", i, q), q)
}

// reconstruct sums coefficient times the per shape function quantity f over the shape
// functions that are nonzero on the block of the view.
func reconstruct[T tensor.Linear[T]](vw *view, local []float64, f func(sf *ShapeFunctionData, q int) T) []T {
	var (
		v   = vw.fev
		out = make([]T, v.nCurrent)
	)
	v.checkLocal(local)
	for i, coef := range local {
		sf := &vw.shapeFunctions[i]
		if coef == 0 || sf.Single.Kind == NonzeroNone {
			continue
		}
		for q := range out {
			out[q] = out[q].AddScaled(coef, f(sf, q))
		}
	}
	return out
}

func (vv *VectorView) FunctionValues(global mat.Vector) []tensor.Tensor1 {
	return vv.FunctionValuesFromLocal(vv.fev.localValues(global))
}

func (vv *VectorView) FunctionValuesFromLocal(local []float64) []tensor.Tensor1 {
	vv.fev.require(types.UpdateValues, "shape values")
	return reconstruct(&vv.view, local, vv.valueOf)
}

func (vv *VectorView) FunctionGradients(global mat.Vector) []tensor.Tensor2 {
	return vv.FunctionGradientsFromLocal(vv.fev.localValues(global))
}

func (vv *VectorView) FunctionGradientsFromLocal(local []float64) []tensor.Tensor2 {
	vv.fev.require(types.UpdateGradients, "shape gradients")
	return reconstruct(&vv.view, local, vv.gradientOf)
}

func (vv *VectorView) FunctionSymmetricGradients(global mat.Vector) []tensor.SymTensor2 {
	return vv.FunctionSymmetricGradientsFromLocal(vv.fev.localValues(global))
}

func (vv *VectorView) FunctionSymmetricGradientsFromLocal(local []float64) []tensor.SymTensor2 {
	vv.fev.require(types.UpdateGradients, "shape gradients")
	return reconstruct(&vv.view, local, vv.symmetricGradientOf)
}

func (vv *VectorView) FunctionDivergences(global mat.Vector) []float64 {
	return vv.FunctionDivergencesFromLocal(vv.fev.localValues(global))
}

func (vv *VectorView) FunctionDivergencesFromLocal(local []float64) (out []float64) {
	vv.fev.require(types.UpdateGradients, "shape gradients")
	div := reconstruct(&vv.view, local, func(sf *ShapeFunctionData, q int) number {
		return number(vv.divergenceOf(sf, q))
	})
	out = make([]float64, len(div))
	for q, d := range div {
		out[q] = float64(d)
	}
	return
}

func (vv *VectorView) FunctionCurls(global mat.Vector) []tensor.Tensor1 {
	return vv.FunctionCurlsFromLocal(vv.fev.localValues(global))
}

func (vv *VectorView) FunctionCurlsFromLocal(local []float64) []tensor.Tensor1 {
	vv.fev.require(types.UpdateGradients, "shape gradients")
	if vv.fev.dim == 1 {
		panic(ErrCurl1D)
	}
	return reconstruct(&vv.view, local, vv.curlOf)
}

func (vv *VectorView) FunctionHessians(global mat.Vector) []tensor.Tensor3 {
	return vv.FunctionHessiansFromLocal(vv.fev.localValues(global))
}

func (vv *VectorView) FunctionHessiansFromLocal(local []float64) []tensor.Tensor3 {
	vv.fev.require(types.UpdateHessians, "shape hessians")
	return reconstruct(&vv.view, local, vv.hessianOf)
}

// FunctionLaplacians returns the vector of component Laplacians at each point.
func (vv *VectorView) FunctionLaplacians(global mat.Vector) []tensor.Tensor1 {
	return vv.FunctionLaplaciansFromLocal(vv.fev.localValues(global))
}

func (vv *VectorView) FunctionLaplaciansFromLocal(local []float64) (out []tensor.Tensor1) {
	vv.fev.require(types.UpdateHessians, "shape hessians")
	diag := reconstruct(&vv.view, local, vv.hessianDiagonalOf)
	out = make([]tensor.Tensor1, len(diag))
	for q := range diag {
		for d := 0; d < tensor.MaxDim; d++ {
			out[q][d] = trace(diag[q][d])
		}
	}
	return
}

func (vv *VectorView) FunctionThirdDerivatives(global mat.Vector) []tensor.Tensor4 {
	return vv.FunctionThirdDerivativesFromLocal(vv.fev.localValues(global))
}

func (vv *VectorView) FunctionThirdDerivativesFromLocal(local []float64) []tensor.Tensor4 {
	vv.fev.require(types.Update3rdDerivatives, "shape 3rd derivatives")
	return reconstruct(&vv.view, local, vv.thirdDerivativeOf)
}
