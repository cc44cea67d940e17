package fe

import (
	"fmt"
	"unsafe"

	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/types"
)

// Options tune an evaluator at construction.
type Options struct {
	// DisableCellSimilarity forces a full recomputation on every Reinit
	DisableCellSimilarity bool
}

/*
	Values is the capability set shared by cell, face and subface evaluators: it owns the
	geometric and basis caches, the cell tracker and the component views. It is not safe
	for concurrent use, parallel loops hold one evaluator per worker.
*/
type Values struct {
	kind     Kind
	dim      int
	mapping  Mapping
	element  FiniteElement
	flags    types.UpdateFlags
	maxN     int
	nCurrent int

	mappingData MappingData
	elementData ElementData
	tracker     CellTracker
	similarity  Similarity
	dofCell     DoFCell

	views viewCache
}

func newValues(kind Kind, mapping Mapping, element FiniteElement, dim, maxN int,
	requested types.UpdateFlags, opts []Options) (v *Values, err error) {
	if element.Dim() != dim {
		err = fmt.Errorf("%w: element has dimension %d, quadrature %d", ErrDimensionMismatch, element.Dim(), dim)
		return
	}
	var flags types.UpdateFlags
	if flags, err = ResolveUpdateFlags(requested, element, mapping, kind); err != nil {
		return
	}
	v = &Values{
		kind:    kind,
		dim:     dim,
		mapping: mapping,
		element: element,
		flags:   flags,
		maxN:    maxN,
	}
	for _, o := range opts {
		v.tracker.disabled = v.tracker.disabled || o.DisableCellSimilarity
	}
	v.tracker.faceEvaluation = kind != CellKind
	v.mappingData.Initialize(flags, maxN)
	v.elementData.Initialize(flags, element, maxN)
	return
}

// prepare validates the incoming cell before any cache is touched.
func (v *Values) prepare(cell Cell) (err error) {
	if cell.Dim() != v.dim {
		return fmt.Errorf("%w: cell has dimension %d, evaluator %d", ErrCellDimension, cell.Dim(), v.dim)
	}
	v.dofCell = nil
	if dc, ok := cell.(DoFCell); ok {
		if dc.FiniteElement() != v.element {
			return ErrFEMismatch
		}
		v.dofCell = dc
	}
	return
}

// fail leaves the evaluator without a loaded cell after an unsuccessful Reinit.
func (v *Values) fail(err error) error {
	v.tracker.Reset()
	v.nCurrent = 0
	return err
}

func (v *Values) loaded(cell Cell, face, subface, n int, sim Similarity) {
	v.nCurrent = n
	v.similarity = sim
	v.tracker.Load(cell, face, subface)
}

// Close releases the change notification subscription.
func (v *Values) Close() { v.tracker.Close() }

func (v *Values) require(flag types.UpdateFlags, field string) {
	if !v.flags.Contains(flag) {
		panic(&UninitializedFieldError{Field: field, Flag: flag})
	}
	if !v.tracker.Loaded() {
		panic(ErrNotReinited)
	}
}

func (v *Values) checkPoint(q int) {
	if q < 0 || q >= v.nCurrent {
		panic(&IndexRangeError{Name: "quadrature point", Index: q, Max: v.nCurrent})
	}
}

func (v *Values) checkShape(i int) {
	if n := v.element.NDoFsPerCell(); i < 0 || i >= n {
		panic(&IndexRangeError{Name: "shape function", Index: i, Max: n})
	}
}

func (v *Values) checkComponent(c int) {
	if n := v.element.NComponents(); c < 0 || c >= n {
		panic(&IndexRangeError{Name: "component", Index: c, Max: n})
	}
}

// primitiveRow is the cache row of a primitive shape function.
func (v *Values) primitiveRow(i int) int {
	v.checkShape(i)
	if !v.element.IsPrimitiveShapeFunction(i) {
		panic(&ShapeFunctionNotPrimitiveError{Index: i})
	}
	return v.elementData.firstRowOfFn[i]
}

func (v *Values) Dim() int                       { return v.dim }
func (v *Values) Kind() Kind                     { return v.kind }
func (v *Values) UpdateFlags() types.UpdateFlags { return v.flags }
func (v *Values) FiniteElement() FiniteElement   { return v.element }
func (v *Values) Mapping() Mapping               { return v.mapping }
func (v *Values) DoFsPerCell() int               { return v.element.NDoFsPerCell() }
func (v *Values) MaxNQuadraturePoints() int      { return v.maxN }
func (v *Values) CellSimilarity() Similarity     { return v.similarity }
func (v *Values) Cell() Cell                     { return v.tracker.Cell() }
func (v *Values) NQuadraturePoints() int         { return v.nCurrent }
func (v *Values) GetMappingData() *MappingData   { return &v.mappingData }
func (v *Values) GetElementData() *ElementData   { return &v.elementData }
func (v *Values) ShapeFunctionRow(i, c int) int  { return v.elementData.Row(i, c) }
func (v *Values) NRows() int                     { return v.elementData.NRows() }

/*
	Shape function accessors. The plain forms need a primitive shape function, the
	...Component forms work for any shape function and return zero for components in
	which the shape function is structurally zero.
*/

func (v *Values) ShapeValue(i, q int) float64 {
	v.require(types.UpdateValues, "shape values")
	v.checkPoint(q)
	return v.elementData.ShapeValues.At(v.primitiveRow(i), q)
}

func (v *Values) ShapeValueComponent(i, q, c int) float64 {
	v.require(types.UpdateValues, "shape values")
	v.checkPoint(q)
	v.checkShape(i)
	v.checkComponent(c)
	if r := v.elementData.Row(i, c); r >= 0 {
		return v.elementData.ShapeValues.At(r, q)
	}
	return 0
}

func (v *Values) ShapeGrad(i, q int) tensor.Tensor1 {
	v.require(types.UpdateGradients, "shape gradients")
	v.checkPoint(q)
	return v.elementData.ShapeGradients[v.primitiveRow(i)][q]
}

func (v *Values) ShapeGradComponent(i, q, c int) (g tensor.Tensor1) {
	v.require(types.UpdateGradients, "shape gradients")
	v.checkPoint(q)
	v.checkShape(i)
	v.checkComponent(c)
	if r := v.elementData.Row(i, c); r >= 0 {
		g = v.elementData.ShapeGradients[r][q]
	}
	return
}

func (v *Values) ShapeHessian(i, q int) tensor.Tensor2 {
	v.require(types.UpdateHessians, "shape hessians")
	v.checkPoint(q)
	return v.elementData.ShapeHessians[v.primitiveRow(i)][q]
}

func (v *Values) ShapeHessianComponent(i, q, c int) (h tensor.Tensor2) {
	v.require(types.UpdateHessians, "shape hessians")
	v.checkPoint(q)
	v.checkShape(i)
	v.checkComponent(c)
	if r := v.elementData.Row(i, c); r >= 0 {
		h = v.elementData.ShapeHessians[r][q]
	}
	return
}

func (v *Values) Shape3rdDerivative(i, q int) tensor.Tensor3 {
	v.require(types.Update3rdDerivatives, "shape 3rd derivatives")
	v.checkPoint(q)
	return v.elementData.Shape3rdDerivatives[v.primitiveRow(i)][q]
}

func (v *Values) Shape3rdDerivativeComponent(i, q, c int) (t tensor.Tensor3) {
	v.require(types.Update3rdDerivatives, "shape 3rd derivatives")
	v.checkPoint(q)
	v.checkShape(i)
	v.checkComponent(c)
	if r := v.elementData.Row(i, c); r >= 0 {
		t = v.elementData.Shape3rdDerivatives[r][q]
	}
	return
}

// Geometry accessors. The slice forms are views of the cache valid until the next Reinit.

func (v *Values) QuadraturePoint(q int) tensor.Tensor1 {
	v.require(types.UpdateQuadraturePoints, "quadrature points")
	v.checkPoint(q)
	return v.mappingData.QuadraturePoints[q]
}

func (v *Values) QuadraturePoints() []tensor.Tensor1 {
	v.require(types.UpdateQuadraturePoints, "quadrature points")
	return v.mappingData.QuadraturePoints[:v.nCurrent]
}

func (v *Values) JxW(q int) float64 {
	v.require(types.UpdateJxWValues, "JxW values")
	v.checkPoint(q)
	return v.mappingData.JxW[q]
}

func (v *Values) JxWValues() []float64 {
	v.require(types.UpdateJxWValues, "JxW values")
	return v.mappingData.JxW[:v.nCurrent]
}

func (v *Values) Jacobian(q int) tensor.Tensor2 {
	v.require(types.UpdateJacobians, "jacobians")
	v.checkPoint(q)
	return v.mappingData.Jacobians[q]
}

func (v *Values) Jacobians() []tensor.Tensor2 {
	v.require(types.UpdateJacobians, "jacobians")
	return v.mappingData.Jacobians[:v.nCurrent]
}

func (v *Values) JacobianGrad(q int) tensor.Tensor3 {
	v.require(types.UpdateJacobianGrads, "jacobian gradients")
	v.checkPoint(q)
	return v.mappingData.JacobianGrads[q]
}

func (v *Values) JacobianGrads() []tensor.Tensor3 {
	v.require(types.UpdateJacobianGrads, "jacobian gradients")
	return v.mappingData.JacobianGrads[:v.nCurrent]
}

func (v *Values) JacobianPushedForwardGrad(q int) tensor.Tensor3 {
	v.require(types.UpdateJacobianPushedForwardGrads, "pushed forward jacobian gradients")
	v.checkPoint(q)
	return v.mappingData.JacobianPushedForwardGrads[q]
}

func (v *Values) JacobianPushedForwardGrads() []tensor.Tensor3 {
	v.require(types.UpdateJacobianPushedForwardGrads, "pushed forward jacobian gradients")
	return v.mappingData.JacobianPushedForwardGrads[:v.nCurrent]
}

func (v *Values) Jacobian2ndDerivative(q int) tensor.Tensor4 {
	v.require(types.UpdateJacobian2ndDerivatives, "jacobian 2nd derivatives")
	v.checkPoint(q)
	return v.mappingData.Jacobian2ndDerivatives[q]
}

func (v *Values) Jacobian2ndDerivatives() []tensor.Tensor4 {
	v.require(types.UpdateJacobian2ndDerivatives, "jacobian 2nd derivatives")
	return v.mappingData.Jacobian2ndDerivatives[:v.nCurrent]
}

func (v *Values) JacobianPushedForward2ndDerivative(q int) tensor.Tensor4 {
	v.require(types.UpdateJacobianPushedForward2ndDerivatives, "pushed forward jacobian 2nd derivatives")
	v.checkPoint(q)
	return v.mappingData.JacobianPushedForward2ndDerivatives[q]
}

func (v *Values) JacobianPushedForward2ndDerivatives() []tensor.Tensor4 {
	v.require(types.UpdateJacobianPushedForward2ndDerivatives, "pushed forward jacobian 2nd derivatives")
	return v.mappingData.JacobianPushedForward2ndDerivatives[:v.nCurrent]
}

func (v *Values) Jacobian3rdDerivative(q int) tensor.Tensor5 {
	v.require(types.UpdateJacobian3rdDerivatives, "jacobian 3rd derivatives")
	v.checkPoint(q)
	return v.mappingData.Jacobian3rdDerivatives[q]
}

func (v *Values) Jacobian3rdDerivatives() []tensor.Tensor5 {
	v.require(types.UpdateJacobian3rdDerivatives, "jacobian 3rd derivatives")
	return v.mappingData.Jacobian3rdDerivatives[:v.nCurrent]
}

func (v *Values) JacobianPushedForward3rdDerivative(q int) tensor.Tensor5 {
	v.require(types.UpdateJacobianPushedForward3rdDerivatives, "pushed forward jacobian 3rd derivatives")
	v.checkPoint(q)
	return v.mappingData.JacobianPushedForward3rdDerivatives[q]
}

func (v *Values) JacobianPushedForward3rdDerivatives() []tensor.Tensor5 {
	v.require(types.UpdateJacobianPushedForward3rdDerivatives, "pushed forward jacobian 3rd derivatives")
	return v.mappingData.JacobianPushedForward3rdDerivatives[:v.nCurrent]
}

func (v *Values) InverseJacobian(q int) tensor.Tensor2 {
	v.require(types.UpdateInverseJacobians, "inverse jacobians")
	v.checkPoint(q)
	return v.mappingData.InverseJacobians[q]
}

func (v *Values) InverseJacobians() []tensor.Tensor2 {
	v.require(types.UpdateInverseJacobians, "inverse jacobians")
	return v.mappingData.InverseJacobians[:v.nCurrent]
}

func (v *Values) NormalVector(q int) tensor.Tensor1 {
	v.require(types.UpdateNormalVectors, "normal vectors")
	v.checkPoint(q)
	return v.mappingData.NormalVectors[q]
}

func (v *Values) NormalVectors() []tensor.Tensor1 {
	v.require(types.UpdateNormalVectors, "normal vectors")
	return v.mappingData.NormalVectors[:v.nCurrent]
}

// MemoryConsumption estimates the bytes held by the evaluator and its caches.
func (v *Values) MemoryConsumption() int {
	return int(unsafe.Sizeof(*v)) + v.mappingData.MemoryConsumption() +
		v.elementData.MemoryConsumption() + v.views.memoryConsumption()
}
