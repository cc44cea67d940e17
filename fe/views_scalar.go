package fe

import (
	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/types"
	"gonum.org/v1/gonum/mat"
)

// ScalarView exposes one component of the element as a scalar field.
type ScalarView struct {
	view
}

func (sv *ScalarView) Value(i, q int) float64 {
	sf := sv.descriptor(types.UpdateValues, "shape values", i, q)
	if sf.Single.Kind == NonzeroNone {
		return 0
	}
	return sv.value(sf.Single.Row, q)
}

func (sv *ScalarView) Gradient(i, q int) (g tensor.Tensor1) {
	sf := sv.descriptor(types.UpdateGradients, "shape gradients", i, q)
	if sf.Single.Kind == NonzeroNone {
		return
	}
	return sv.gradient(sf.Single.Row, q)
}

func (sv *ScalarView) Hessian(i, q int) (h tensor.Tensor2) {
	sf := sv.descriptor(types.UpdateHessians, "shape hessians", i, q)
	if sf.Single.Kind == NonzeroNone {
		return
	}
	return sv.hessian(sf.Single.Row, q)
}

func (sv *ScalarView) ThirdDerivative(i, q int) (t tensor.Tensor3) {
	sf := sv.descriptor(types.Update3rdDerivatives, "shape 3rd derivatives", i, q)
	if sf.Single.Kind == NonzeroNone {
		return
	}
	return sv.thirdDerivative(sf.Single.Row, q)
}

// reconstructScalar sums coefficient times the row quantity over the shape functions that are
// nonzero in the component of the view.
func reconstructScalar[T tensor.Linear[T]](vw *view, local []float64, f func(row, q int) T) []T {
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
			out[q] = out[q].AddScaled(coef, f(sf.Single.Row, q))
		}
	}
	return out
}

func (sv *ScalarView) FunctionValues(global mat.Vector) []float64 {
	return sv.FunctionValuesFromLocal(sv.fev.localValues(global))
}

func (sv *ScalarView) FunctionValuesFromLocal(local []float64) (out []float64) {
	sv.fev.require(types.UpdateValues, "shape values")
	vals := reconstructScalar(&sv.view, local, sv.fev.valueRow)
	out = make([]float64, len(vals))
	for q, val := range vals {
		out[q] = float64(val)
	}
	return
}

func (sv *ScalarView) FunctionGradients(global mat.Vector) []tensor.Tensor1 {
	return sv.FunctionGradientsFromLocal(sv.fev.localValues(global))
}

func (sv *ScalarView) FunctionGradientsFromLocal(local []float64) []tensor.Tensor1 {
	sv.fev.require(types.UpdateGradients, "shape gradients")
	return reconstructScalar(&sv.view, local, sv.fev.gradientRow)
}

func (sv *ScalarView) FunctionHessians(global mat.Vector) []tensor.Tensor2 {
	return sv.FunctionHessiansFromLocal(sv.fev.localValues(global))
}

func (sv *ScalarView) FunctionHessiansFromLocal(local []float64) []tensor.Tensor2 {
	sv.fev.require(types.UpdateHessians, "shape hessians")
	return reconstructScalar(&sv.view, local, sv.fev.hessianRow)
}

func (sv *ScalarView) FunctionLaplacians(global mat.Vector) []float64 {
	return sv.FunctionLaplaciansFromLocal(sv.fev.localValues(global))
}

func (sv *ScalarView) FunctionLaplaciansFromLocal(local []float64) (out []float64) {
	sv.fev.require(types.UpdateHessians, "shape hessians")
	diag := reconstructScalar(&sv.view, local, sv.fev.diagonalRow)
	out = make([]float64, len(diag))
	for q, d := range diag {
		out[q] = trace(d)
	}
	return
}

func (sv *ScalarView) FunctionThirdDerivatives(global mat.Vector) []tensor.Tensor3 {
	return sv.FunctionThirdDerivativesFromLocal(sv.fev.localValues(global))
}

func (sv *ScalarView) FunctionThirdDerivativesFromLocal(local []float64) []tensor.Tensor3 {
	sv.fev.require(types.Update3rdDerivatives, "shape 3rd derivatives")
	return reconstructScalar(&sv.view, local, sv.fev.thirdDerivativeRow)
}
