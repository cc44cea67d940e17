package mesh

import (
	"fmt"

	"github.com/notargets/fevalues/fe"
	"gonum.org/v1/gonum/mat"
)

// DoFHandler numbers the degrees of freedom of a discontinuous field: cell k owns the
// consecutive global indices [k*n, (k+1)*n) with n the shape functions per cell.
type DoFHandler struct {
	tria    *Triangulation
	element fe.FiniteElement
	cells   []*DoFCell
}

func NewDoFHandler(tria *Triangulation, element fe.FiniteElement) (h *DoFHandler, err error) {
	if element.Dim() != tria.Dim() {
		err = fmt.Errorf("%w: element dimension %d, mesh dimension %d", fe.ErrDimensionMismatch, element.Dim(), tria.Dim())
		return
	}
	h = &DoFHandler{tria: tria, element: element}
	h.distribute()
	return
}

// distribute rebuilds the DoF cells after the mesh replaced its cells by refinement.
func (h *DoFHandler) distribute() {
	if len(h.cells) == h.tria.NCells() && h.cells[0].Cell == h.tria.Cell(0) {
		return
	}
	h.cells = make([]*DoFCell, h.tria.NCells())
	for k, c := range h.tria.Cells() {
		h.cells[k] = &DoFCell{Cell: c, handler: h}
	}
}

func (h *DoFHandler) Triangulation() *Triangulation   { return h.tria }
func (h *DoFHandler) FiniteElement() fe.FiniteElement { return h.element }
func (h *DoFHandler) NDoFs() int                      { return h.tria.NCells() * h.element.NDoFsPerCell() }

func (h *DoFHandler) Cells() []*DoFCell {
	h.distribute()
	return h.cells
}

// DoFCell is a mesh cell that knows its global degrees of freedom. The handler keeps one
// DoFCell per cell so repeated iteration yields identical handles.
type DoFCell struct {
	*Cell
	handler *DoFHandler
}

func (c *DoFCell) FiniteElement() fe.FiniteElement { return c.handler.element }

func (c *DoFCell) DoFIndices() (idx []int) {
	n := c.handler.element.NDoFsPerCell()
	idx = make([]int, n)
	for i := range idx {
		idx[i] = c.index*n + i
	}
	return
}

func (c *DoFCell) GetDoFValues(global mat.Vector, local []float64) {
	n := c.handler.element.NDoFsPerCell()
	if len(local) != n {
		panic(fmt.Errorf("local storage has length %d, want %d", len(local), n))
	}
	if global.Len() != c.handler.NDoFs() {
		panic(fmt.Errorf("global vector has length %d, want %d", global.Len(), c.handler.NDoFs()))
	}
	for i := range local {
		local[i] = global.AtVec(c.index*n + i)
	}
}

// SetDoFValues writes local coefficients into a global vector.
func (c *DoFCell) SetDoFValues(local []float64, global *mat.VecDense) {
	n := c.handler.element.NDoFsPerCell()
	for i, val := range local {
		global.SetVec(c.index*n+i, val)
	}
}

var _ fe.DoFCell = (*DoFCell)(nil)
