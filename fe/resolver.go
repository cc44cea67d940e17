package fe

import (
	"github.com/notargets/fevalues/types"
)

type Kind uint8

const (
	CellKind Kind = iota
	FaceKind
	SubfaceKind
)

func (k Kind) String() string {
	switch k {
	case CellKind:
		return "cell"
	case FaceKind:
		return "face"
	case SubfaceKind:
		return "subface"
	}
	return "unknown"
}

// On faces the measure is taken from the boundary form instead of the Jacobian determinant.
var faceRules = types.Rules{
	{When: types.UpdateJxWValues, Require: types.UpdateBoundaryForms},
	{When: types.UpdateNormalVectors, Require: types.UpdateBoundaryForms},
}

func (k Kind) rules() types.Rules {
	if k == CellKind {
		return nil
	}
	return faceRules
}

// ResolveUpdateFlags closes the requested flags over the rules of the element, the
// mapping and the evaluator kind, then checks that every resulting flag can be provided.
func ResolveUpdateFlags(requested types.UpdateFlags, element FiniteElement, mapping Mapping, kind Kind) (flags types.UpdateFlags, err error) {
	rules := types.Concat(element.UpdateRules(), mapping.UpdateRules(), kind.rules())
	flags = rules.Closure(requested)
	var unsupported types.UpdateFlags
	unsupported |= flags & types.BasisFlags &^ element.SupportedUpdateFlags()
	unsupported |= flags & types.GeometryFlags &^ mapping.SupportedUpdateFlags()
	unsupported |= flags &^ types.AllFlags
	if kind == CellKind {
		unsupported |= flags & types.FaceOnlyFlags
	}
	if unsupported != 0 {
		err = &UnsupportedFlagsError{Requested: requested, Unsupported: unsupported, Kind: kind}
		flags = 0
	}
	return
}
