package fe

import (
	"github.com/notargets/fevalues/quadrature"
	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/types"
	"gonum.org/v1/gonum/mat"
)

// FiniteElement describes the shape functions on the reference cell and fills the
// basis cache from reference data and the geometry of the current cell.
type FiniteElement interface {
	Dim() int
	NDoFsPerCell() int
	NComponents() int
	IsPrimitive() bool
	IsPrimitiveShapeFunction(i int) bool
	// NonzeroComponents has one entry per vector component of the element
	NonzeroComponents(i int) []bool
	// SystemToComponentIndex is only defined for primitive shape functions
	SystemToComponentIndex(i int) (comp, index int)
	SupportedUpdateFlags() types.UpdateFlags
	UpdateRules() types.Rules
	// NewInternalData evaluates everything that does not depend on the cell. When out
	// is not nil, cell independent parts of the cache are written once.
	NewInternalData(flags types.UpdateFlags, q quadrature.Quadrature, out *ElementData) (ElementInternal, error)
	FillValues(sim Similarity, md *MappingData, data ElementInternal, out *ElementData)
}

// Mapping computes the geometry of the map from the reference cell to a cell.
type Mapping interface {
	SupportedUpdateFlags() types.UpdateFlags
	UpdateRules() types.Rules
	NewInternalData(flags types.UpdateFlags, q quadrature.Quadrature) (MappingInternal, error)
	FillValues(cell Cell, sim Similarity, data MappingInternal, out *MappingData) error
	FillFaceValues(cell Cell, face int, data MappingInternal, out *MappingData) error
	CellSimilarity(prev, cur Cell) Similarity
}

// ElementInternal and MappingInternal are the opaque workspaces of the collaborators,
// created once per evaluator and quadrature rule.
type ElementInternal interface{}
type MappingInternal interface{}

// ChangeNotifier invokes subscribed callbacks whenever the mesh changes structure or
// geometry. The returned function removes the subscription.
type ChangeNotifier interface {
	Subscribe(fn func()) (cancel func())
}

// Cell is compared by identity: two Cell values refer to the same cell iff they are ==.
type Cell interface {
	Dim() int
	NVertices() int
	Vertex(i int) tensor.Tensor1
	Index() int
	Triangulation() ChangeNotifier
}

// DoFCell is a cell that can extract its local coefficients from a global field.
type DoFCell interface {
	Cell
	FiniteElement() FiniteElement
	GetDoFValues(global mat.Vector, local []float64)
}

// FaceIndexer is implemented by cells that know the global index of their faces.
type FaceIndexer interface {
	FaceIndex(face int) int
}
