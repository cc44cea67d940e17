package assembly

import (
	"fmt"
	"math"

	"github.com/notargets/fevalues/fe"
	"github.com/notargets/fevalues/mesh"
	"github.com/notargets/fevalues/quadrature"
	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/types"
	"github.com/notargets/fevalues/utils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Measure is the volume of the mesh, Σ_K Σ_q JxW.
func (s Setup) Measure() (vol float64, err error) {
	partial := make([]float64, s.Workers+1)
	err = s.ForEachCell(types.UpdateJxWValues, func(np int, fev *fe.CellValues, _ *mesh.DoFCell) error {
		partial[np] += floats.Sum(fev.JxWValues())
		return nil
	})
	vol = floats.Sum(partial)
	return
}

// BoundaryMeasure is the measure of the mesh boundary.
func (s Setup) BoundaryMeasure(faceQuad quadrature.Quadrature) (area float64, err error) {
	partial := make([]float64, s.Workers+1)
	err = s.ForEachFace(faceQuad, types.UpdateJxWValues,
		func(cell *mesh.DoFCell, face int) bool { return cell.Neighbor(face) == nil },
		func(np int, fev *fe.FaceValues, _ *mesh.DoFCell, _ int) error {
			partial[np] += floats.Sum(fev.JxWValues())
			return nil
		})
	area = floats.Sum(partial)
	return
}

// localMass is M_ij = Σ_q Σ_c φ_ic φ_jc JxW_q, row major.
func localMass(fev *fe.CellValues) []float64 {
	var (
		n     = fev.DoFsPerCell()
		nComp = fev.FiniteElement().NComponents()
		M     = make([]float64, n*n)
	)
	for q := 0; q < fev.NQuadraturePoints(); q++ {
		jxw := fev.JxW(q)
		for c := 0; c < nComp; c++ {
			for i := 0; i < n; i++ {
				phiI := fev.ShapeValueComponent(i, q, c)
				if phiI == 0 {
					continue
				}
				for j := 0; j < n; j++ {
					M[i*n+j] += phiI * fev.ShapeValueComponent(j, q, c) * jxw
				}
			}
		}
	}
	return M
}

type entry struct {
	i, j int
	val  float64
}

// MassMatrix assembles the global mass matrix. Workers collect entries, the sparse matrix
// is filled afterwards since the DOK is not safe for concurrent writes.
func (s Setup) MassMatrix() (M utils.CSR, err error) {
	entries := make([][]entry, s.Workers+1)
	err = s.ForEachCell(types.UpdateValues|types.UpdateJxWValues, func(np int, fev *fe.CellValues, cell *mesh.DoFCell) error {
		var (
			Mk  = localMass(fev)
			idx = cell.DoFIndices()
			n   = len(idx)
		)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if Mk[i*n+j] != 0 {
					entries[np] = append(entries[np], entry{idx[i], idx[j], Mk[i*n+j]})
				}
			}
		}
		return nil
	})
	if err != nil {
		return
	}
	nd := s.DoFs.NDoFs()
	D := utils.NewDOK(nd, nd)
	for _, list := range entries {
		for _, e := range list {
			D.Add(e.i, e.j, e.val)
		}
	}
	M = D.ToCSR()
	return
}

// Function is a vector valued field with one value per element component.
type Function func(x tensor.Tensor1) []float64

// Gradient returns the gradient of every component of a Function.
type Gradient func(x tensor.Tensor1) []tensor.Tensor1

// Project computes the L2 projection of f. The field is discontinuous so the global mass
// matrix is block diagonal and every cell is solved on its own by a Cholesky factorization.
func (s Setup) Project(f Function) (u utils.Vector, err error) {
	u = utils.NewVector(s.DoFs.NDoFs())
	flags := types.UpdateValues | types.UpdateJxWValues | types.UpdateQuadraturePoints
	err = s.ForEachCell(flags, func(np int, fev *fe.CellValues, cell *mesh.DoFCell) error {
		var (
			n     = fev.DoFsPerCell()
			nComp = fev.FiniteElement().NComponents()
			b     = make([]float64, n)
			ch    mat.Cholesky
			x     mat.VecDense
		)
		for q := 0; q < fev.NQuadraturePoints(); q++ {
			fq := f(fev.QuadraturePoint(q))
			if len(fq) != nComp {
				return fmt.Errorf("function has %d components, element %d", len(fq), nComp)
			}
			for i := 0; i < n; i++ {
				for c := 0; c < nComp; c++ {
					b[i] += fev.ShapeValueComponent(i, q, c) * fq[c] * fev.JxW(q)
				}
			}
		}
		if ok := ch.Factorize(mat.NewSymDense(n, localMass(fev))); !ok {
			return fmt.Errorf("local mass matrix of cell %d is not positive definite", cell.Index())
		}
		if err := ch.SolveVecTo(&x, mat.NewVecDense(n, b)); err != nil {
			return err
		}
		cell.SetDoFValues(x.RawVector().Data, u.V)
		return nil
	})
	return
}

// Errors returns the L2 norm of u - f and the H1 seminorm of u - f, the latter only when
// grad is not nil.
func (s Setup) Errors(u mat.Vector, f Function, grad Gradient) (l2, h1 float64, err error) {
	flags := types.UpdateValues | types.UpdateJxWValues | types.UpdateQuadraturePoints
	if grad != nil {
		flags |= types.UpdateGradients
	}
	var (
		l2p = make([]float64, s.Workers+1)
		h1p = make([]float64, s.Workers+1)
	)
	err = s.ForEachCell(flags, func(np int, fev *fe.CellValues, cell *mesh.DoFCell) error {
		var (
			vals  = fev.FunctionValuesVector(u)
			grads [][]tensor.Tensor1
		)
		if grad != nil {
			grads = fev.FunctionGradientsVector(u)
		}
		for q := 0; q < fev.NQuadraturePoints(); q++ {
			x := fev.QuadraturePoint(q)
			for c, fc := range f(x) {
				d := vals[q][c] - fc
				l2p[np] += d * d * fev.JxW(q)
			}
			if grad != nil {
				for c, gc := range grad(x) {
					d := grads[q][c].Sub(gc).Norm()
					h1p[np] += d * d * fev.JxW(q)
				}
			}
		}
		return nil
	})
	l2, h1 = math.Sqrt(floats.Sum(l2p)), math.Sqrt(floats.Sum(h1p))
	return
}
