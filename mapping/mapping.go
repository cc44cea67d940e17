// Package mapping provides maps from the reference cell [0,1]^dim to mesh cells: an
// axis aligned scaling and the multilinear map through the cell vertices.
package mapping

import (
	"fmt"
	"math"

	"github.com/notargets/fevalues/fe"
	"github.com/notargets/fevalues/quadrature"
	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/types"
)

var mappingRules = types.Rules{
	{When: types.UpdateJxWValues, Require: types.UpdateJacobians},
	{When: types.UpdateInverseJacobians, Require: types.UpdateJacobians},
	{When: types.UpdateBoundaryForms, Require: types.UpdateJacobians | types.UpdateInverseJacobians},
	{When: types.UpdateNormalVectors, Require: types.UpdateBoundaryForms},
	{When: types.UpdateJacobianPushedForwardGrads, Require: types.UpdateJacobianGrads | types.UpdateInverseJacobians},
	{When: types.UpdateJacobianPushedForward2ndDerivatives,
		Require: types.UpdateJacobian2ndDerivatives | types.UpdateInverseJacobians},
	{When: types.UpdateJacobianPushedForward3rdDerivatives,
		Require: types.UpdateJacobian3rdDerivatives | types.UpdateInverseJacobians},
}

// geometry is the map and its derivatives at one point: J[i][a] = ∂x_i/∂ξ_a and the
// higher forms add one reference index per derivative.
type geometry struct {
	x  tensor.Tensor1
	J  tensor.Tensor2
	JG tensor.Tensor3
	J2 tensor.Tensor4
	J3 tensor.Tensor5
}

type internalData struct {
	flags types.UpdateFlags
	quad  quadrature.Quadrature
}

func newInternalData(flags types.UpdateFlags, q quadrature.Quadrature) (*internalData, error) {
	if q.Dim < 1 || q.Dim > tensor.MaxDim {
		return nil, fmt.Errorf("%w: mapping quadrature has dimension %d", fe.ErrDimensionMismatch, q.Dim)
	}
	return &internalData{flags: flags, quad: q}, nil
}

func checkCell(cell fe.Cell, dim int) error {
	if cell.Dim() != dim {
		return fmt.Errorf("%w: cell has dimension %d, quadrature %d", fe.ErrCellDimension, cell.Dim(), dim)
	}
	if nv := cell.NVertices(); nv != 1<<uint(dim) {
		return fmt.Errorf("cell %d has %d vertices, a hypercube in %d dimensions has %d", cell.Index(), nv, dim, 1<<uint(dim))
	}
	return nil
}

// store writes the requested quantities of point k. With a translation only the position
// changes, everything derived from the Jacobian is kept from the previous cell.
func store(dim int, flags types.UpdateFlags, k int, w float64, g *geometry, sim fe.Similarity, out *fe.MappingData) error {
	if flags.Contains(types.UpdateQuadraturePoints) {
		out.QuadraturePoints[k] = g.x
	}
	if sim == fe.SimilarityTranslation {
		return nil
	}
	det := g.J.Det(dim)
	jinv, ok := g.J.Inverse(dim)
	if !ok || math.IsNaN(det) {
		return fmt.Errorf("degenerate cell, Jacobian determinant %g at point %d", det, k)
	}
	if flags.Contains(types.UpdateJxWValues) {
		out.JxW[k] = math.Abs(det) * w
	}
	if flags.Contains(types.UpdateJacobians) {
		out.Jacobians[k] = g.J
	}
	if flags.Contains(types.UpdateInverseJacobians) {
		out.InverseJacobians[k] = jinv
	}
	if flags.Contains(types.UpdateJacobianGrads) {
		out.JacobianGrads[k] = g.JG
	}
	if flags.Contains(types.UpdateJacobianPushedForwardGrads) {
		out.JacobianPushedForwardGrads[k] = g.JG.CovariantTail(jinv)
	}
	if flags.Contains(types.UpdateJacobian2ndDerivatives) {
		out.Jacobian2ndDerivatives[k] = g.J2
	}
	if flags.Contains(types.UpdateJacobianPushedForward2ndDerivatives) {
		out.JacobianPushedForward2ndDerivatives[k] = g.J2.CovariantTail(jinv)
	}
	if flags.Contains(types.UpdateJacobian3rdDerivatives) {
		out.Jacobian3rdDerivatives[k] = g.J3
	}
	if flags.Contains(types.UpdateJacobianPushedForward3rdDerivatives) {
		out.JacobianPushedForward3rdDerivatives[k] = g.J3.CovariantTail(jinv)
	}
	return nil
}

// storeFace adds the boundary form |det J| J^-T n̂ of face, the outward normal and the
// face measure. On faces JxW is taken from the boundary form.
func storeFace(dim int, flags types.UpdateFlags, face, k int, w float64, g *geometry, out *fe.MappingData) error {
	if err := store(dim, flags&^types.UpdateJxWValues, k, w, g, fe.SimilarityNone, out); err != nil {
		return err
	}
	var (
		det     = math.Abs(g.J.Det(dim))
		jinv, _ = g.J.Inverse(dim)
		bf      = jinv.Transpose().MulVec(quadrature.ReferenceNormal(face)).Scale(det)
		area    = bf.Norm()
	)
	if flags.Contains(types.UpdateBoundaryForms) {
		out.BoundaryForms[k] = bf
	}
	if flags.Contains(types.UpdateNormalVectors) {
		out.NormalVectors[k] = bf.Scale(1 / area)
	}
	if flags.Contains(types.UpdateJxWValues) {
		out.JxW[k] = area * w
	}
	return nil
}

// translationOf reports whether cur equals prev up to a shift of all vertices.
func translationOf(prev, cur fe.Cell) bool {
	if prev == nil || cur == nil || prev.NVertices() != cur.NVertices() || prev.Dim() != cur.Dim() {
		return false
	}
	var (
		p0, c0 = prev.Vertex(0), cur.Vertex(0)
		diam   float64
	)
	for i := 1; i < cur.NVertices(); i++ {
		diam = math.Max(diam, cur.Vertex(i).Sub(c0).Norm())
	}
	tol := 1.e-12 * diam
	for i := 1; i < cur.NVertices(); i++ {
		dp := prev.Vertex(i).Sub(p0)
		dc := cur.Vertex(i).Sub(c0)
		if dp.Sub(dc).Norm() > tol {
			return false
		}
	}
	return true
}

func cellSimilarity(prev, cur fe.Cell) fe.Similarity {
	switch {
	case prev == cur:
		return fe.SimilaritySame
	case translationOf(prev, cur):
		return fe.SimilarityTranslation
	}
	return fe.SimilarityNone
}
