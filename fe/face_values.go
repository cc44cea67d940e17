package fe

import (
	"github.com/notargets/fevalues/quadrature"
	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/types"
)

// FaceValues evaluates on one face of a cell. The face rules have dimension dim-1, a
// collection holds one rule for every face or a single rule shared by all faces.
type FaceValues struct {
	*Values
	quads            quadrature.Collection
	mappingInternals []MappingInternal
	elementInternals []ElementInternal
	faceNumber       int
}

func faceDim(quads quadrature.Collection) int {
	if len(quads) == 0 {
		return -1
	}
	return quads[0].Dim + 1
}

func checkFaceCollection(dim int, quads quadrature.Collection) error {
	if len(quads) != 1 && len(quads) != quadrature.NFaces(dim) {
		return ErrDimensionMismatch
	}
	for _, q := range quads {
		if q.Dim != dim-1 {
			return ErrDimensionMismatch
		}
	}
	return nil
}

func NewFaceValues(mapping Mapping, element FiniteElement, quads quadrature.Collection,
	flags types.UpdateFlags, opts ...Options) (fv *FaceValues, err error) {
	dim := faceDim(quads)
	if err = checkFaceCollection(dim, quads); err != nil {
		return
	}
	var v *Values
	if v, err = newValues(FaceKind, mapping, element, dim, quads.MaxSize(), flags, opts); err != nil {
		return
	}
	fv = &FaceValues{
		Values:           v,
		quads:            quads,
		mappingInternals: make([]MappingInternal, quadrature.NFaces(dim)),
		elementInternals: make([]ElementInternal, quadrature.NFaces(dim)),
		faceNumber:       -1,
	}
	for face := range fv.mappingInternals {
		q := quadrature.ProjectToFace(dim, quads.Face(face), face)
		if fv.mappingInternals[face], err = mapping.NewInternalData(v.flags, q); err != nil {
			return nil, err
		}
		if fv.elementInternals[face], err = element.NewInternalData(v.flags, q, nil); err != nil {
			return nil, err
		}
	}
	return
}

// Reinit loads face of cell. The number of quadrature points follows the rule of face.
func (fv *FaceValues) Reinit(cell Cell, face int) (err error) {
	if err = fv.prepare(cell); err != nil {
		return fv.fail(err)
	}
	if nf := quadrature.NFaces(fv.dim); face < 0 || face >= nf {
		return fv.fail(&IndexRangeError{Name: "face", Index: face, Max: nf})
	}
	sim := fv.tracker.Classify(cell, face, -1, fv.mapping)
	if sim != SimilaritySame {
		if err = fv.mapping.FillFaceValues(cell, face, fv.mappingInternals[face], &fv.mappingData); err != nil {
			return fv.fail(err)
		}
		fv.element.FillValues(SimilarityNone, &fv.mappingData, fv.elementInternals[face], &fv.elementData)
	}
	fv.faceNumber = face
	fv.loaded(cell, face, -1, fv.quads.Face(face).Size(), sim)
	return
}

func (fv *FaceValues) FaceNumber() int { return fv.faceNumber }

// FaceIndex is the global index of the current face, -1 when the cell does not number
// its faces.
func (fv *FaceValues) FaceIndex() int {
	if cell, ok := fv.Cell().(FaceIndexer); ok {
		return cell.FaceIndex(fv.faceNumber)
	}
	return -1
}

func (fv *FaceValues) Quadrature() quadrature.Collection { return fv.quads }

func boundaryForm(v *Values, q int) tensor.Tensor1 {
	v.require(types.UpdateBoundaryForms, "boundary forms")
	v.checkPoint(q)
	return v.mappingData.BoundaryForms[q]
}

func boundaryForms(v *Values) []tensor.Tensor1 {
	v.require(types.UpdateBoundaryForms, "boundary forms")
	return v.mappingData.BoundaryForms[:v.nCurrent]
}

// BoundaryForm is the outward normal scaled by the face measure of the mapping.
func (fv *FaceValues) BoundaryForm(q int) tensor.Tensor1 { return boundaryForm(fv.Values, q) }

func (fv *FaceValues) BoundaryForms() []tensor.Tensor1 { return boundaryForms(fv.Values) }
