package element

import (
	"fmt"

	"github.com/notargets/fevalues/fe"
	"github.com/notargets/fevalues/quadrature"
	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/types"
)

// internalData holds reference cell derivatives of every scalar basis function at the
// quadrature points, indexed [j][q].
type internalData struct {
	flags  types.UpdateFlags
	n      int
	values [][]float64
	grads  [][]tensor.Tensor1
	hess   [][]tensor.Tensor2
	third  [][]tensor.Tensor3
}

func (p *Poly) NewInternalData(flags types.UpdateFlags, q quadrature.Quadrature, out *fe.ElementData) (fe.ElementInternal, error) {
	if q.Dim != p.Dim() {
		return nil, fmt.Errorf("%w: %s has dimension %d, quadrature %d", fe.ErrDimensionMismatch, p.name, p.Dim(), q.Dim)
	}
	var (
		tb = p.basis
		d  = &internalData{flags: flags, n: q.Size()}
	)
	if flags.Contains(types.UpdateValues) {
		d.values = make([][]float64, tb.N)
	}
	if flags.Contains(types.UpdateGradients) {
		d.grads = make([][]tensor.Tensor1, tb.N)
	}
	if flags.Contains(types.UpdateHessians) {
		d.hess = make([][]tensor.Tensor2, tb.N)
	}
	if flags.Contains(types.Update3rdDerivatives) {
		d.third = make([][]tensor.Tensor3, tb.N)
	}
	for j := 0; j < tb.N; j++ {
		if d.values != nil {
			d.values[j] = make([]float64, d.n)
		}
		if d.grads != nil {
			d.grads[j] = make([]tensor.Tensor1, d.n)
		}
		if d.hess != nil {
			d.hess[j] = make([]tensor.Tensor2, d.n)
		}
		if d.third != nil {
			d.third[j] = make([]tensor.Tensor3, d.n)
		}
		for k, x := range q.Points {
			if d.values != nil {
				d.values[j][k] = tb.Value(j, x)
			}
			if d.grads != nil {
				d.grads[j][k] = tb.Gradient(j, x)
			}
			if d.hess != nil {
				d.hess[j][k] = tb.Hessian(j, x)
			}
			if d.third != nil {
				d.third[j][k] = tb.ThirdDerivative(j, x)
			}
		}
	}
	if out != nil {
		p.fillShapeValues(d, out)
	}
	return d, nil
}

// fillShapeValues copies the cell independent values into the cache rows.
func (p *Poly) fillShapeValues(d *internalData, out *fe.ElementData) {
	if d.values == nil {
		return
	}
	for i := range p.scalarIndex {
		vals := d.values[p.scalarIndex[i]]
		for c, w := range p.directions[i] {
			if w == 0 {
				continue
			}
			row := out.ShapeValues.RawRowView(out.Row(i, c))
			for k := 0; k < d.n; k++ {
				row[k] = w * vals[k]
			}
		}
	}
}

/*
	FillValues maps reference derivatives to the cell. With x(ξ) and K = (dx/dξ)^-1,
	gradients are covariant, g_i = ĝ_a K_ai. Higher derivatives pick up terms from the
	derivatives of K, written with P = jacobian_pushed_forward_grads:

		H_ij  = Ĥ_ij - Σ_m g_m P_mij
		T_ijk = T̂_ijk - Σ_m (Ĥ_mj P_mik + Ĥ_im P_mjk + H_mk P_mij + g_m ∂_k P_mij)
		∂_k P_mij = R_mijk - Σ_p (P_mpj P_pik + P_mip P_pjk)

	where hatted quantities are pushed forward reference derivatives and R is the pushed
	forward Jacobian second derivative.
*/
func (p *Poly) FillValues(sim fe.Similarity, md *fe.MappingData, data fe.ElementInternal, out *fe.ElementData) {
	d := data.(*internalData)
	if sim != fe.SimilarityNone {
		// reference values are cell independent, derivatives equal those of the last cell
		return
	}
	p.fillShapeValues(d, out)
	var (
		nb    = p.basis.N
		grads = make([]tensor.Tensor1, d.n)
		hess  = make([]tensor.Tensor2, d.n)
		third = make([]tensor.Tensor3, d.n)
	)
	for j := 0; j < nb; j++ {
		if d.grads == nil {
			break
		}
		for k := 0; k < d.n; k++ {
			jinv := md.InverseJacobians[k]
			grads[k] = d.grads[j][k].Covariant(jinv)
			if d.hess == nil {
				continue
			}
			hHat := d.hess[j][k].Covariant(jinv)
			P := md.JacobianPushedForwardGrads[k]
			hess[k] = hHat
			for m := 0; m < tensor.MaxDim; m++ {
				hess[k] = hess[k].AddScaled(-grads[k][m], P[m])
			}
			if d.third == nil {
				continue
			}
			third[k] = thirdDerivative(d.third[j][k].Covariant(jinv), hHat, hess[k], grads[k], P,
				md.JacobianPushedForward2ndDerivatives[k])
		}
		p.scatter(j, grads, hess, third, d, out)
	}
}

func thirdDerivative(tHat tensor.Tensor3, hHat, h tensor.Tensor2, g tensor.Tensor1, P tensor.Tensor3, R tensor.Tensor4) (t tensor.Tensor3) {
	var dP tensor.Tensor4 // dP[m][i][j][k] = ∂_k P_mij
	for m := 0; m < tensor.MaxDim; m++ {
		for i := 0; i < tensor.MaxDim; i++ {
			for j := 0; j < tensor.MaxDim; j++ {
				for k := 0; k < tensor.MaxDim; k++ {
					v := R[m][i][j][k]
					for pp := 0; pp < tensor.MaxDim; pp++ {
						v -= P[m][pp][j]*P[pp][i][k] + P[m][i][pp]*P[pp][j][k]
					}
					dP[m][i][j][k] = v
				}
			}
		}
	}
	t = tHat
	for i := 0; i < tensor.MaxDim; i++ {
		for j := 0; j < tensor.MaxDim; j++ {
			for k := 0; k < tensor.MaxDim; k++ {
				for m := 0; m < tensor.MaxDim; m++ {
					t[i][j][k] -= hHat[m][j]*P[m][i][k] + hHat[i][m]*P[m][j][k] +
						h[m][k]*P[m][i][j] + g[m]*dP[m][i][j][k]
				}
			}
		}
	}
	return
}

// scatter writes the physical derivatives of scalar basis function j into the rows of
// every shape function built on it.
func (p *Poly) scatter(j int, grads []tensor.Tensor1, hess []tensor.Tensor2, third []tensor.Tensor3,
	d *internalData, out *fe.ElementData) {
	for i, sj := range p.scalarIndex {
		if sj != j {
			continue
		}
		for c, w := range p.directions[i] {
			if w == 0 {
				continue
			}
			row := out.Row(i, c)
			for k := 0; k < d.n; k++ {
				out.ShapeGradients[row][k] = grads[k].Scale(w)
				if d.hess != nil {
					out.ShapeHessians[row][k] = hess[k].Scale(w)
				}
				if d.third != nil {
					out.Shape3rdDerivatives[row][k] = tensor.Tensor3{}.AddScaled(w, third[k])
				}
			}
		}
	}
}
