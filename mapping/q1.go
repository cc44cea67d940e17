package mapping

import (
	"fmt"

	"github.com/notargets/fevalues/element"
	"github.com/notargets/fevalues/fe"
	"github.com/notargets/fevalues/quadrature"
	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/types"
)

// Q1 is the multilinear map x(ξ) = Σ_v X_v N_v(ξ) through the 2^dim vertices, with N_v
// the degree one Lagrange basis in lexicographic vertex order.
type Q1 struct{}

func NewQ1() *Q1 { return &Q1{} }

// q1Data adds the derivatives of the vertex functions at the quadrature points.
type q1Data struct {
	*internalData
	nv    int
	shape [][]float64 // [q][v]
	grads [][]tensor.Tensor1
	hess  [][]tensor.Tensor2
	third [][]tensor.Tensor3
}

func (m *Q1) SupportedUpdateFlags() types.UpdateFlags { return types.GeometryFlags }
func (m *Q1) UpdateRules() types.Rules                { return mappingRules }

func (m *Q1) NewInternalData(flags types.UpdateFlags, q quadrature.Quadrature) (fe.MappingInternal, error) {
	base, err := newInternalData(flags, q)
	if err != nil {
		return nil, err
	}
	var tb *element.TensorBasis
	if tb, err = element.NewTensorBasis(q.Dim, 1); err != nil {
		return nil, err
	}
	d := &q1Data{
		internalData: base,
		nv:           tb.N,
		shape:        make([][]float64, q.Size()),
		grads:        make([][]tensor.Tensor1, q.Size()),
		hess:         make([][]tensor.Tensor2, q.Size()),
		third:        make([][]tensor.Tensor3, q.Size()),
	}
	for k, xi := range q.Points {
		d.shape[k] = make([]float64, tb.N)
		d.grads[k] = make([]tensor.Tensor1, tb.N)
		d.hess[k] = make([]tensor.Tensor2, tb.N)
		d.third[k] = make([]tensor.Tensor3, tb.N)
		for v := 0; v < tb.N; v++ {
			d.shape[k][v] = tb.Value(v, xi)
			d.grads[k][v] = tb.Gradient(v, xi)
			d.hess[k][v] = tb.Hessian(v, xi)
			d.third[k][v] = tb.ThirdDerivative(v, xi)
		}
	}
	return d, nil
}

// geometry sums vertex contributions. Fourth derivatives of a multilinear map vanish for
// dim <= 3, so J3 stays zero.
func (m *Q1) geometry(d *q1Data, X []tensor.Tensor1, k int) (g geometry) {
	for v := 0; v < d.nv; v++ {
		g.x = g.x.AddScaled(d.shape[k][v], X[v])
		for i := 0; i < tensor.MaxDim; i++ {
			if X[v][i] == 0 {
				continue
			}
			g.J[i] = g.J[i].AddScaled(X[v][i], d.grads[k][v])
			g.JG[i] = g.JG[i].AddScaled(X[v][i], d.hess[k][v])
			g.J2[i] = g.J2[i].AddScaled(X[v][i], d.third[k][v])
		}
	}
	return
}

func (m *Q1) vertices(cell fe.Cell, d *q1Data) (X []tensor.Tensor1, err error) {
	if err = checkCell(cell, d.quad.Dim); err != nil {
		return
	}
	if cell.NVertices() != d.nv {
		err = fmt.Errorf("cell %d has %d vertices, want %d", cell.Index(), cell.NVertices(), d.nv)
		return
	}
	X = make([]tensor.Tensor1, d.nv)
	for v := range X {
		X[v] = cell.Vertex(v)
	}
	return
}

func (m *Q1) FillValues(cell fe.Cell, sim fe.Similarity, data fe.MappingInternal, out *fe.MappingData) error {
	d := data.(*q1Data)
	X, err := m.vertices(cell, d)
	if err != nil {
		return err
	}
	for k := range d.quad.Points {
		g := m.geometry(d, X, k)
		if err = store(d.quad.Dim, d.flags, k, d.quad.Weights[k], &g, sim, out); err != nil {
			return err
		}
	}
	return nil
}

func (m *Q1) FillFaceValues(cell fe.Cell, face int, data fe.MappingInternal, out *fe.MappingData) error {
	d := data.(*q1Data)
	X, err := m.vertices(cell, d)
	if err != nil {
		return err
	}
	for k := range d.quad.Points {
		g := m.geometry(d, X, k)
		if err = storeFace(d.quad.Dim, d.flags, face, k, d.quad.Weights[k], &g, out); err != nil {
			return err
		}
	}
	return nil
}

func (m *Q1) CellSimilarity(prev, cur fe.Cell) fe.Similarity { return cellSimilarity(prev, cur) }
