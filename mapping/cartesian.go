package mapping

import (
	"fmt"

	"github.com/notargets/fevalues/fe"
	"github.com/notargets/fevalues/quadrature"
	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/types"
)

// Cartesian maps the reference cell onto axis aligned boxes, x = v_0 + diag(h) ξ.
// Jacobian derivatives vanish.
type Cartesian struct{}

func NewCartesian() *Cartesian { return &Cartesian{} }

func (m *Cartesian) SupportedUpdateFlags() types.UpdateFlags { return types.GeometryFlags }
func (m *Cartesian) UpdateRules() types.Rules                { return mappingRules }

func (m *Cartesian) NewInternalData(flags types.UpdateFlags, q quadrature.Quadrature) (fe.MappingInternal, error) {
	return newInternalData(flags, q)
}

// extents returns the lower corner and edge lengths of an axis aligned cell.
func (m *Cartesian) extents(cell fe.Cell, dim int) (lower, h tensor.Tensor1, err error) {
	if err = checkCell(cell, dim); err != nil {
		return
	}
	lower = cell.Vertex(0)
	h = cell.Vertex(cell.NVertices() - 1).Sub(lower)
	for v := 0; v < cell.NVertices(); v++ {
		var want tensor.Tensor1
		for d := 0; d < dim; d++ {
			want[d] = lower[d]
			if v&(1<<uint(d)) != 0 {
				want[d] += h[d]
			}
		}
		if cell.Vertex(v).Sub(want).Norm() > 1.e-12*h.Norm() {
			err = fmt.Errorf("cell %d is not an axis aligned box, vertex %d is %v", cell.Index(), v, cell.Vertex(v))
			return
		}
	}
	return
}

func (m *Cartesian) geometry(lower, h tensor.Tensor1, dim int, xi tensor.Tensor1) (g geometry) {
	for d := 0; d < dim; d++ {
		g.x[d] = lower[d] + h[d]*xi[d]
		g.J[d][d] = h[d]
	}
	return
}

func (m *Cartesian) FillValues(cell fe.Cell, sim fe.Similarity, data fe.MappingInternal, out *fe.MappingData) error {
	d := data.(*internalData)
	dim := d.quad.Dim
	lower, h, err := m.extents(cell, dim)
	if err != nil {
		return err
	}
	for k, xi := range d.quad.Points {
		g := m.geometry(lower, h, dim, xi)
		if err = store(dim, d.flags, k, d.quad.Weights[k], &g, sim, out); err != nil {
			return err
		}
	}
	return nil
}

func (m *Cartesian) FillFaceValues(cell fe.Cell, face int, data fe.MappingInternal, out *fe.MappingData) error {
	d := data.(*internalData)
	dim := d.quad.Dim
	lower, h, err := m.extents(cell, dim)
	if err != nil {
		return err
	}
	for k, xi := range d.quad.Points {
		g := m.geometry(lower, h, dim, xi)
		if err = storeFace(dim, d.flags, face, k, d.quad.Weights[k], &g, out); err != nil {
			return err
		}
	}
	return nil
}

func (m *Cartesian) CellSimilarity(prev, cur fe.Cell) fe.Similarity { return cellSimilarity(prev, cur) }
