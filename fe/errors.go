package fe

import (
	"errors"
	"fmt"

	"github.com/notargets/fevalues/types"
)

var (
	ErrDimensionMismatch = errors.New("dimension mismatch between element, mapping and quadrature")
	ErrNotReinited       = errors.New("no cell is loaded, call Reinit before accessing cell data")
	ErrFENotPrimitive    = errors.New("the finite element is not primitive")
	ErrFEMismatch        = errors.New("the finite element of the cell differs from the one of the evaluator")
	ErrCellDimension     = errors.New("the cell dimension differs from the evaluator dimension")
	ErrNeedsDoFHandler   = errors.New("global field access needs a cell that carries degrees of freedom")
	ErrCurl1D            = errors.New("curl is not defined in one dimension")
)

// UnsupportedFlagsError is returned by constructors when the resolved flags contain
// quantities that the element, the mapping or the evaluator kind cannot produce.
type UnsupportedFlagsError struct {
	Requested   types.UpdateFlags
	Unsupported types.UpdateFlags
	Kind        Kind
}

func (e *UnsupportedFlagsError) Error() string {
	return fmt.Sprintf("%s evaluator cannot provide [%s] (requested [%s])", e.Kind, e.Unsupported, e.Requested)
}

// UninitializedFieldError reports access to a quantity whose flag was not requested.
type UninitializedFieldError struct {
	Field string
	Flag  types.UpdateFlags
}

func (e *UninitializedFieldError) Error() string {
	return fmt.Sprintf("access to %s which was not computed, add update flag %s at construction", e.Field, e.Flag)
}

// ComponentRangeError reports a view whose component block lies outside the element.
type ComponentRangeError struct {
	View        string
	First, Size int
	NComponents int
}

func (e *ComponentRangeError) Error() string {
	return fmt.Sprintf("%s view of components [%d,%d) exceeds the %d components of the element",
		e.View, e.First, e.First+e.Size, e.NComponents)
}

// ShapeFunctionNotPrimitiveError is raised by the whole element accessors for shape
// functions with more than one nonzero component.
type ShapeFunctionNotPrimitiveError struct {
	Index int
}

func (e *ShapeFunctionNotPrimitiveError) Error() string {
	return fmt.Sprintf("shape function %d is not primitive, use the ...Component accessor instead", e.Index)
}

type IndexRangeError struct {
	Name       string
	Index, Max int
}

func (e *IndexRangeError) Error() string {
	return fmt.Sprintf("%s index %d is out of range [0,%d)", e.Name, e.Index, e.Max)
}
