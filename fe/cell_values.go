package fe

import (
	"github.com/notargets/fevalues/quadrature"
	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/types"
)

// Evaluator is satisfied by cell, face and subface evaluators.
type Evaluator interface {
	Base() *Values
	NQuadraturePoints() int
	DoFsPerCell() int
	UpdateFlags() types.UpdateFlags
	ShapeValueComponent(i, q, c int) float64
	ShapeGradComponent(i, q, c int) tensor.Tensor1
	JxW(q int) float64
	QuadraturePoint(q int) tensor.Tensor1
	Scalar(e ScalarExtractor) *ScalarView
	Vector(e VectorExtractor) *VectorView
	Close()
}

func (v *Values) Base() *Values { return v }

// CellValues evaluates shape functions and geometry at the quadrature points of a cell.
type CellValues struct {
	*Values
	quad            quadrature.Quadrature
	mappingInternal MappingInternal
	elementInternal ElementInternal
}

func NewCellValues(mapping Mapping, element FiniteElement, quad quadrature.Quadrature,
	flags types.UpdateFlags, opts ...Options) (cv *CellValues, err error) {
	var v *Values
	if v, err = newValues(CellKind, mapping, element, quad.Dim, quad.Size(), flags, opts); err != nil {
		return
	}
	cv = &CellValues{Values: v, quad: quad}
	if cv.mappingInternal, err = mapping.NewInternalData(v.flags, quad); err != nil {
		return nil, err
	}
	if cv.elementInternal, err = element.NewInternalData(v.flags, quad, &v.elementData); err != nil {
		return nil, err
	}
	return
}

func (cv *CellValues) Quadrature() quadrature.Quadrature { return cv.quad }

// Reinit loads cell into the caches. Work is skipped according to the similarity of cell
// with the previously loaded cell. After an error no cell is loaded.
func (cv *CellValues) Reinit(cell Cell) (err error) {
	if err = cv.prepare(cell); err != nil {
		return cv.fail(err)
	}
	sim := cv.tracker.Classify(cell, -1, -1, cv.mapping)
	if sim != SimilaritySame {
		if err = cv.mapping.FillValues(cell, sim, cv.mappingInternal, &cv.mappingData); err != nil {
			return cv.fail(err)
		}
		cv.element.FillValues(sim, &cv.mappingData, cv.elementInternal, &cv.elementData)
	}
	cv.loaded(cell, -1, -1, cv.quad.Size(), sim)
	return
}
