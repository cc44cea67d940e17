package fe

import (
	"github.com/notargets/fevalues/quadrature"
	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/types"
)

// SubfaceValues evaluates on one half (per face direction) of a face, as needed where a
// refined neighbour meets a coarse cell.
type SubfaceValues struct {
	*Values
	quads            quadrature.Collection
	mappingInternals []MappingInternal
	elementInternals []ElementInternal
	faceNumber       int
	subfaceNumber    int
}

func NewSubfaceValues(mapping Mapping, element FiniteElement, quads quadrature.Collection,
	flags types.UpdateFlags, opts ...Options) (sv *SubfaceValues, err error) {
	dim := faceDim(quads)
	if err = checkFaceCollection(dim, quads); err != nil {
		return
	}
	var v *Values
	if v, err = newValues(SubfaceKind, mapping, element, dim, quads.MaxSize(), flags, opts); err != nil {
		return
	}
	var (
		nf = quadrature.NFaces(dim)
		ns = quadrature.NSubfaces(dim)
	)
	sv = &SubfaceValues{
		Values:           v,
		quads:            quads,
		mappingInternals: make([]MappingInternal, nf*ns),
		elementInternals: make([]ElementInternal, nf*ns),
		faceNumber:       -1,
		subfaceNumber:    -1,
	}
	for face := 0; face < nf; face++ {
		for sub := 0; sub < ns; sub++ {
			q := quadrature.ProjectToSubface(dim, quads.Face(face), face, sub)
			k := face*ns + sub
			if sv.mappingInternals[k], err = mapping.NewInternalData(v.flags, q); err != nil {
				return nil, err
			}
			if sv.elementInternals[k], err = element.NewInternalData(v.flags, q, nil); err != nil {
				return nil, err
			}
		}
	}
	return
}

func (sv *SubfaceValues) Reinit(cell Cell, face, subface int) (err error) {
	if err = sv.prepare(cell); err != nil {
		return sv.fail(err)
	}
	var (
		nf = quadrature.NFaces(sv.dim)
		ns = quadrature.NSubfaces(sv.dim)
	)
	if face < 0 || face >= nf {
		return sv.fail(&IndexRangeError{Name: "face", Index: face, Max: nf})
	}
	if subface < 0 || subface >= ns {
		return sv.fail(&IndexRangeError{Name: "subface", Index: subface, Max: ns})
	}
	sim := sv.tracker.Classify(cell, face, subface, sv.mapping)
	if sim != SimilaritySame {
		k := face*ns + subface
		if err = sv.mapping.FillFaceValues(cell, face, sv.mappingInternals[k], &sv.mappingData); err != nil {
			return sv.fail(err)
		}
		sv.element.FillValues(SimilarityNone, &sv.mappingData, sv.elementInternals[k], &sv.elementData)
	}
	sv.faceNumber, sv.subfaceNumber = face, subface
	sv.loaded(cell, face, subface, sv.quads.Face(face).Size(), sim)
	return
}

func (sv *SubfaceValues) FaceNumber() int    { return sv.faceNumber }
func (sv *SubfaceValues) SubfaceNumber() int { return sv.subfaceNumber }

func (sv *SubfaceValues) FaceIndex() int {
	if cell, ok := sv.Cell().(FaceIndexer); ok {
		return cell.FaceIndex(sv.faceNumber)
	}
	return -1
}

func (sv *SubfaceValues) BoundaryForm(q int) tensor.Tensor1 { return boundaryForm(sv.Values, q) }

func (sv *SubfaceValues) BoundaryForms() []tensor.Tensor1 { return boundaryForms(sv.Values) }
