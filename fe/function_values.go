package fe

import (
	"fmt"

	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/types"
	"gonum.org/v1/gonum/mat"
)

/*
	Function reconstruction: u(x_q) = Σ_i u_i φ_i(x_q) with the coefficients u_i of the
	current cell. The global forms extract the coefficients through the DoF cell passed to
	Reinit, the FromLocal forms take them directly.
*/

// localValues extracts the coefficients of the loaded cell from a global field.
func (v *Values) localValues(global mat.Vector) []float64 {
	if !v.tracker.Loaded() {
		panic(ErrNotReinited)
	}
	if v.dofCell == nil {
		panic(ErrNeedsDoFHandler)
	}
	local := make([]float64, v.element.NDoFsPerCell())
	v.dofCell.GetDoFValues(global, local)
	return local
}

func (v *Values) checkLocal(local []float64) {
	if len(local) != v.element.NDoFsPerCell() {
		panic(fmt.Errorf("%w: have %d local coefficients for %d shape functions",
			ErrDimensionMismatch, len(local), v.element.NDoFsPerCell()))
	}
}

func (v *Values) checkScalarElement() {
	if n := v.element.NComponents(); n != 1 {
		panic(fmt.Errorf("%w: scalar reconstruction on an element with %d components", ErrDimensionMismatch, n))
	}
}

// accumulate adds coefficient times the per row quantity f into out[q][c] for every
// nonzero component c of every shape function.
func accumulate[T tensor.Linear[T]](v *Values, local []float64, f func(row, q int) T, out [][]T) {
	var (
		ed    = &v.elementData
		nComp = v.element.NComponents()
	)
	for i, coef := range local {
		if coef == 0 {
			continue
		}
		for c := 0; c < nComp; c++ {
			row := ed.Row(i, c)
			if row < 0 {
				continue
			}
			for q := 0; q < v.nCurrent; q++ {
				out[q][c] = out[q][c].AddScaled(coef, f(row, q))
			}
		}
	}
}

func newTable[T any](n, nComp int) [][]T {
	var (
		storage = make([]T, n*nComp)
		out     = make([][]T, n)
	)
	for q := range out {
		out[q] = storage[q*nComp : (q+1)*nComp]
	}
	return out
}

func column[T any](table [][]T) []T {
	out := make([]T, len(table))
	for q := range table {
		out[q] = table[q][0]
	}
	return out
}

type number float64

func (a number) AddScaled(s float64, x number) number { return a + number(s)*x }

func (v *Values) valueRow(row, q int) number {
	return number(v.elementData.ShapeValues.At(row, q))
}

func (v *Values) gradientRow(row, q int) tensor.Tensor1 { return v.elementData.ShapeGradients[row][q] }

func (v *Values) hessianRow(row, q int) tensor.Tensor2 { return v.elementData.ShapeHessians[row][q] }

func (v *Values) thirdDerivativeRow(row, q int) tensor.Tensor3 {
	return v.elementData.Shape3rdDerivatives[row][q]
}

// diagonalRow keeps the diagonal of the Hessian; its entries are summed in the same order
// as the full Hessians so the trace taken at the end equals the trace of the reduction.
func (v *Values) diagonalRow(row, q int) (d tensor.Tensor1) {
	h := v.elementData.ShapeHessians[row][q]
	for k := 0; k < tensor.MaxDim; k++ {
		d[k] = h[k][k]
	}
	return
}

func trace(d tensor.Tensor1) (tr float64) {
	for k := 0; k < tensor.MaxDim; k++ {
		tr += d[k]
	}
	return
}

// FunctionValuesVector returns [q][component] values of the field.
func (v *Values) FunctionValuesVector(global mat.Vector) [][]float64 {
	return v.FunctionValuesVectorFromLocal(v.localValues(global))
}

func (v *Values) FunctionValuesVectorFromLocal(local []float64) (out [][]float64) {
	v.require(types.UpdateValues, "shape values")
	v.checkLocal(local)
	table := newTable[number](v.nCurrent, v.element.NComponents())
	accumulate(v, local, v.valueRow, table)
	out = make([][]float64, v.nCurrent)
	for q := range table {
		out[q] = make([]float64, len(table[q]))
		for c, val := range table[q] {
			out[q][c] = float64(val)
		}
	}
	return
}

func (v *Values) FunctionGradientsVector(global mat.Vector) [][]tensor.Tensor1 {
	return v.FunctionGradientsVectorFromLocal(v.localValues(global))
}

func (v *Values) FunctionGradientsVectorFromLocal(local []float64) (out [][]tensor.Tensor1) {
	v.require(types.UpdateGradients, "shape gradients")
	v.checkLocal(local)
	out = newTable[tensor.Tensor1](v.nCurrent, v.element.NComponents())
	accumulate(v, local, v.gradientRow, out)
	return
}

func (v *Values) FunctionHessiansVector(global mat.Vector) [][]tensor.Tensor2 {
	return v.FunctionHessiansVectorFromLocal(v.localValues(global))
}

func (v *Values) FunctionHessiansVectorFromLocal(local []float64) (out [][]tensor.Tensor2) {
	v.require(types.UpdateHessians, "shape hessians")
	v.checkLocal(local)
	out = newTable[tensor.Tensor2](v.nCurrent, v.element.NComponents())
	accumulate(v, local, v.hessianRow, out)
	return
}

func (v *Values) FunctionLaplaciansVector(global mat.Vector) [][]float64 {
	return v.FunctionLaplaciansVectorFromLocal(v.localValues(global))
}

func (v *Values) FunctionLaplaciansVectorFromLocal(local []float64) (out [][]float64) {
	v.require(types.UpdateHessians, "shape hessians")
	v.checkLocal(local)
	diag := newTable[tensor.Tensor1](v.nCurrent, v.element.NComponents())
	accumulate(v, local, v.diagonalRow, diag)
	out = make([][]float64, v.nCurrent)
	for q := range diag {
		out[q] = make([]float64, len(diag[q]))
		for c, d := range diag[q] {
			out[q][c] = trace(d)
		}
	}
	return
}

func (v *Values) FunctionThirdDerivativesVector(global mat.Vector) [][]tensor.Tensor3 {
	return v.FunctionThirdDerivativesVectorFromLocal(v.localValues(global))
}

func (v *Values) FunctionThirdDerivativesVectorFromLocal(local []float64) (out [][]tensor.Tensor3) {
	v.require(types.Update3rdDerivatives, "shape 3rd derivatives")
	v.checkLocal(local)
	out = newTable[tensor.Tensor3](v.nCurrent, v.element.NComponents())
	accumulate(v, local, v.thirdDerivativeRow, out)
	return
}

// Scalar element forms, one entry per quadrature point.

func (v *Values) FunctionValues(global mat.Vector) []float64 {
	return v.FunctionValuesFromLocal(v.localValues(global))
}

func (v *Values) FunctionValuesFromLocal(local []float64) []float64 {
	v.checkScalarElement()
	return column(v.FunctionValuesVectorFromLocal(local))
}

func (v *Values) FunctionGradients(global mat.Vector) []tensor.Tensor1 {
	return v.FunctionGradientsFromLocal(v.localValues(global))
}

func (v *Values) FunctionGradientsFromLocal(local []float64) []tensor.Tensor1 {
	v.checkScalarElement()
	return column(v.FunctionGradientsVectorFromLocal(local))
}

func (v *Values) FunctionHessians(global mat.Vector) []tensor.Tensor2 {
	return v.FunctionHessiansFromLocal(v.localValues(global))
}

func (v *Values) FunctionHessiansFromLocal(local []float64) []tensor.Tensor2 {
	v.checkScalarElement()
	return column(v.FunctionHessiansVectorFromLocal(local))
}

func (v *Values) FunctionLaplacians(global mat.Vector) []float64 {
	return v.FunctionLaplaciansFromLocal(v.localValues(global))
}

func (v *Values) FunctionLaplaciansFromLocal(local []float64) []float64 {
	v.checkScalarElement()
	return column(v.FunctionLaplaciansVectorFromLocal(local))
}

func (v *Values) FunctionThirdDerivatives(global mat.Vector) []tensor.Tensor3 {
	return v.FunctionThirdDerivativesFromLocal(v.localValues(global))
}

func (v *Values) FunctionThirdDerivativesFromLocal(local []float64) []tensor.Tensor3 {
	v.checkScalarElement()
	return column(v.FunctionThirdDerivativesVectorFromLocal(local))
}
