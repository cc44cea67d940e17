// Package element provides tensor product Lagrange elements on [0,1]^dim: the scalar
// Q_p element, primitive vector systems of it and non primitive elements whose shape
// functions point along fixed directions.
package element

import (
	"fmt"

	"github.com/notargets/fevalues/types"
)

// Poly is a finite element whose shape function i is b_{j(i)}(ξ) d_i, a scalar basis
// function times a constant direction vector over the components.
type Poly struct {
	name        string
	basis       *TensorBasis
	nComponents int
	scalarIndex []int       // j(i)
	directions  [][]float64 // d_i, one entry per component
	nonzero     [][]bool
	component   []int // component of primitive shape functions, -1 otherwise
	primitive   bool
}

func (p *Poly) init() *Poly {
	n := len(p.scalarIndex)
	p.nonzero = make([][]bool, n)
	p.component = make([]int, n)
	p.primitive = true
	for i := 0; i < n; i++ {
		p.nonzero[i] = make([]bool, p.nComponents)
		p.component[i] = -1
		var count int
		for c, w := range p.directions[i] {
			if w != 0 {
				p.nonzero[i][c] = true
				p.component[i] = c
				count++
			}
		}
		if count != 1 {
			p.component[i] = -1
			p.primitive = false
		}
	}
	return p
}

// Q is the scalar Lagrange element with the given degree in each coordinate.
func Q(dim, degree int) (p *Poly, err error) {
	var tb *TensorBasis
	if tb, err = NewTensorBasis(dim, degree); err != nil {
		return
	}
	p = &Poly{
		name:        fmt.Sprintf("Q%d(%d)", degree, dim),
		basis:       tb,
		nComponents: 1,
		scalarIndex: make([]int, tb.N),
		directions:  make([][]float64, tb.N),
	}
	for j := range p.scalarIndex {
		p.scalarIndex[j] = j
		p.directions[j] = []float64{1}
	}
	return p.init(), nil
}

// System repeats a scalar element over n components. Shape function i is the scalar
// function i/n in component i%n.
func System(base *Poly, n int) (p *Poly, err error) {
	if base.nComponents != 1 {
		err = fmt.Errorf("system base must be scalar, have %d components", base.nComponents)
		return
	}
	if n < 1 {
		err = fmt.Errorf("system needs at least one component, have %d", n)
		return
	}
	nb := base.NDoFsPerCell()
	p = &Poly{
		name:        fmt.Sprintf("System[%s^%d]", base.name, n),
		basis:       base.basis,
		nComponents: n,
		scalarIndex: make([]int, nb*n),
		directions:  make([][]float64, nb*n),
	}
	for i := range p.scalarIndex {
		p.scalarIndex[i] = base.scalarIndex[i/n]
		p.directions[i] = make([]float64, n)
		p.directions[i][i%n] = 1
	}
	return p.init(), nil
}

// Directional attaches every direction to every scalar basis function. Directions with
// more than one nonzero entry give non primitive shape functions.
func Directional(base *Poly, directions [][]float64) (p *Poly, err error) {
	if base.nComponents != 1 {
		err = fmt.Errorf("directional base must be scalar, have %d components", base.nComponents)
		return
	}
	if len(directions) == 0 {
		err = fmt.Errorf("directional element needs at least one direction")
		return
	}
	nc := len(directions[0])
	for k, d := range directions {
		if len(d) != nc || nc == 0 {
			err = fmt.Errorf("direction %d has %d components, want %d", k, len(d), nc)
			return
		}
		var norm float64
		for _, w := range d {
			norm += w * w
		}
		if norm == 0 {
			err = fmt.Errorf("direction %d is zero", k)
			return
		}
	}
	var (
		nb = base.NDoFsPerCell()
		nd = len(directions)
	)
	p = &Poly{
		name:        fmt.Sprintf("Directional[%s x %d]", base.name, nd),
		basis:       base.basis,
		nComponents: nc,
		scalarIndex: make([]int, nb*nd),
		directions:  make([][]float64, nb*nd),
	}
	for i := range p.scalarIndex {
		p.scalarIndex[i] = base.scalarIndex[i/nd]
		p.directions[i] = append([]float64(nil), directions[i%nd]...)
	}
	return p.init(), nil
}

func (p *Poly) String() string                      { return p.name }
func (p *Poly) Dim() int                            { return p.basis.Dim }
func (p *Poly) Basis() *TensorBasis                 { return p.basis }
func (p *Poly) NDoFsPerCell() int                   { return len(p.scalarIndex) }
func (p *Poly) NComponents() int                    { return p.nComponents }
func (p *Poly) IsPrimitive() bool                   { return p.primitive }
func (p *Poly) IsPrimitiveShapeFunction(i int) bool { return p.component[i] >= 0 }
func (p *Poly) NonzeroComponents(i int) []bool      { return p.nonzero[i] }

func (p *Poly) SystemToComponentIndex(i int) (comp, index int) {
	if p.component[i] < 0 {
		panic(fmt.Errorf("shape function %d of %s is not primitive", i, p.name))
	}
	return p.component[i], p.scalarIndex[i]
}

func (p *Poly) SupportedUpdateFlags() types.UpdateFlags { return types.BasisFlags }

var polyRules = types.Rules{
	{When: types.UpdateGradients, Require: types.UpdateInverseJacobians},
	{When: types.UpdateHessians, Require: types.UpdateGradients | types.UpdateInverseJacobians |
		types.UpdateJacobianPushedForwardGrads},
	{When: types.Update3rdDerivatives, Require: types.UpdateHessians | types.UpdateGradients |
		types.UpdateInverseJacobians | types.UpdateJacobianPushedForwardGrads |
		types.UpdateJacobianPushedForward2ndDerivatives},
}

func (p *Poly) UpdateRules() types.Rules { return polyRules }
