package fe

import (
	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/types"
	"github.com/notargets/fevalues/utils"
)

// ElementData is the basis cache. Arrays are indexed [row][q] where the row of a
// (shape function, component) pair comes from the row table: primitive shape functions
// own one row, non primitive ones one row per nonzero component.
type ElementData struct {
	ShapeValues         utils.Matrix // NRows x maxN
	ShapeGradients      [][]tensor.Tensor1
	ShapeHessians       [][]tensor.Tensor2
	Shape3rdDerivatives [][]tensor.Tensor3

	nComponents  int
	nRows        int
	rowTable     []int // nDoFs x nComponents, -1 for structurally zero components
	firstRowOfFn []int
}

// MakeShapeFunctionToRowTable numbers the rows: shape functions in order, and within a
// shape function its nonzero components in order.
func MakeShapeFunctionToRowTable(element FiniteElement) (table []int, nRows int) {
	var (
		nDoFs = element.NDoFsPerCell()
		nComp = element.NComponents()
	)
	table = make([]int, nDoFs*nComp)
	for i := 0; i < nDoFs; i++ {
		nonzero := element.NonzeroComponents(i)
		for c := 0; c < nComp; c++ {
			if nonzero[c] {
				table[i*nComp+c] = nRows
				nRows++
			} else {
				table[i*nComp+c] = -1
			}
		}
	}
	return
}

func (ed *ElementData) Initialize(flags types.UpdateFlags, element FiniteElement, n int) {
	ed.rowTable, ed.nRows = MakeShapeFunctionToRowTable(element)
	ed.nComponents = element.NComponents()
	ed.firstRowOfFn = make([]int, element.NDoFsPerCell())
	for i := range ed.firstRowOfFn {
		ed.firstRowOfFn[i] = -1
		for c := 0; c < ed.nComponents; c++ {
			if r := ed.rowTable[i*ed.nComponents+c]; r >= 0 {
				ed.firstRowOfFn[i] = r
				break
			}
		}
	}
	ed.ShapeValues = utils.Matrix{}
	if flags.Contains(types.UpdateValues) {
		ed.ShapeValues = utils.NewMatrix(ed.nRows, n)
	}
	ed.ShapeGradients = allocRows[tensor.Tensor1](flags, types.UpdateGradients, ed.nRows, n)
	ed.ShapeHessians = allocRows[tensor.Tensor2](flags, types.UpdateHessians, ed.nRows, n)
	ed.Shape3rdDerivatives = allocRows[tensor.Tensor3](flags, types.Update3rdDerivatives, ed.nRows, n)
}

func allocRows[T any](flags, flag types.UpdateFlags, nRows, n int) [][]T {
	if !flags.Contains(flag) {
		return nil
	}
	var (
		storage = make([]T, nRows*n)
		rows    = make([][]T, nRows)
	)
	for r := range rows {
		rows[r] = storage[r*n : (r+1)*n]
	}
	return rows
}

// Row returns the cache row of component c of shape function i, -1 if that component
// is structurally zero.
func (ed *ElementData) Row(i, c int) int { return ed.rowTable[i*ed.nComponents+c] }

func (ed *ElementData) NRows() int { return ed.nRows }

func (ed *ElementData) MemoryConsumption() (bytes int) {
	nr, nc := ed.ShapeValues.Dims()
	bytes = nr * nc * 8
	for _, r := range ed.ShapeGradients {
		bytes += sizeOf(r)
	}
	for _, r := range ed.ShapeHessians {
		bytes += sizeOf(r)
	}
	for _, r := range ed.Shape3rdDerivatives {
		bytes += sizeOf(r)
	}
	bytes += 8 * (len(ed.rowTable) + len(ed.firstRowOfFn))
	return
}
