package fe

import (
	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/types"
)

// Extractors select the component block a view works on.
type (
	ScalarExtractor          struct{ Component int }
	VectorExtractor          struct{ FirstComponent int }
	SymmetricTensorExtractor struct{ FirstComponent int }
	TensorExtractor          struct{ FirstComponent int }
)

type NonzeroKind uint8

const (
	// NonzeroNone means the shape function vanishes on the whole block
	NonzeroNone NonzeroKind = iota
	// NonzeroSingle means exactly one component of the block is nonzero
	NonzeroSingle
	// NonzeroMultiple means several components of the block are nonzero
	NonzeroMultiple
)

func (k NonzeroKind) String() string {
	return [...]string{"none", "single", "multiple"}[k]
}

// NonzeroComponent is the fast path of a shape function within a view. For Single,
// Row is the cache row and Component the index within the block.
type NonzeroComponent struct {
	Kind      NonzeroKind
	Row       int
	Component int
}

// ShapeFunctionData describes one shape function restricted to a view's block.
type ShapeFunctionData struct {
	IsNonzero []bool
	RowIndex  []int
	Single    NonzeroComponent
}

// buildShapeFunctionData depends only on the component structure of the element, never on
// cache contents.
func buildShapeFunctionData(element FiniteElement, ed *ElementData, first, n int) (sfd []ShapeFunctionData) {
	nDoFs := element.NDoFsPerCell()
	sfd = make([]ShapeFunctionData, nDoFs)
	for i := range sfd {
		var (
			nonzero = element.NonzeroComponents(i)
			d       = &sfd[i]
			count   int
		)
		d.IsNonzero = make([]bool, n)
		d.RowIndex = make([]int, n)
		for c := 0; c < n; c++ {
			d.IsNonzero[c] = nonzero[first+c]
			d.RowIndex[c] = -1
			if d.IsNonzero[c] {
				d.RowIndex[c] = ed.Row(i, first+c)
				count++
				d.Single = NonzeroComponent{Kind: NonzeroSingle, Row: d.RowIndex[c], Component: c}
			}
		}
		switch count {
		case 0:
			d.Single = NonzeroComponent{Kind: NonzeroNone, Row: -1, Component: -1}
		case 1:
		default:
			d.Single = NonzeroComponent{Kind: NonzeroMultiple, Row: -1, Component: -1}
		}
	}
	return
}

// viewCache holds the views of an evaluator, built on first use and kept for its lifetime.
type viewCache struct {
	scalars    map[int]*ScalarView
	vectors    map[int]*VectorView
	symTensors map[int]*SymmetricTensorView
	tensors    map[int]*TensorView
}

func (vc *viewCache) memoryConsumption() (bytes int) {
	count := func(sfd []ShapeFunctionData) {
		for _, d := range sfd {
			bytes += len(d.IsNonzero) + 8*len(d.RowIndex) + 24
		}
	}
	for _, v := range vc.scalars {
		count(v.shapeFunctions)
	}
	for _, v := range vc.vectors {
		count(v.shapeFunctions)
	}
	for _, v := range vc.symTensors {
		count(v.shapeFunctions)
	}
	for _, v := range vc.tensors {
		count(v.shapeFunctions)
	}
	return
}

func (v *Values) checkBlock(view string, first, size int) {
	if n := v.element.NComponents(); first < 0 || first+size > n {
		panic(&ComponentRangeError{View: view, First: first, Size: size, NComponents: n})
	}
}

// view is the part shared by all view kinds: the evaluator it reads from and the
// descriptors of every shape function on its block.
type view struct {
	fev            *Values
	first          int
	shapeFunctions []ShapeFunctionData
}

func (v *Values) newView(name string, first, size int) view {
	v.checkBlock(name, first, size)
	return view{
		fev:            v,
		first:          first,
		shapeFunctions: buildShapeFunctionData(v.element, &v.elementData, first, size),
	}
}

// ShapeFunctionData returns the descriptor of shape function i.
func (vw *view) ShapeFunctionData(i int) ShapeFunctionData {
	vw.fev.checkShape(i)
	return vw.shapeFunctions[i]
}

func (vw *view) FirstComponent() int { return vw.first }

func (v *Values) Scalar(e ScalarExtractor) *ScalarView {
	if sv, ok := v.views.scalars[e.Component]; ok {
		return sv
	}
	if v.views.scalars == nil {
		v.views.scalars = make(map[int]*ScalarView)
	}
	sv := &ScalarView{view: v.newView("scalar", e.Component, 1)}
	v.views.scalars[e.Component] = sv
	return sv
}

func (v *Values) Vector(e VectorExtractor) *VectorView {
	if vv, ok := v.views.vectors[e.FirstComponent]; ok {
		return vv
	}
	if v.views.vectors == nil {
		v.views.vectors = make(map[int]*VectorView)
	}
	vv := &VectorView{view: v.newView("vector", e.FirstComponent, v.dim)}
	v.views.vectors[e.FirstComponent] = vv
	return vv
}

func (v *Values) SymmetricTensor(e SymmetricTensorExtractor) *SymmetricTensorView {
	if sv, ok := v.views.symTensors[e.FirstComponent]; ok {
		return sv
	}
	if v.views.symTensors == nil {
		v.views.symTensors = make(map[int]*SymmetricTensorView)
	}
	sv := &SymmetricTensorView{view: v.newView("symmetric tensor", e.FirstComponent, tensor.NSymmetricComponents(v.dim))}
	v.views.symTensors[e.FirstComponent] = sv
	return sv
}

func (v *Values) Tensor(e TensorExtractor) *TensorView {
	if tv, ok := v.views.tensors[e.FirstComponent]; ok {
		return tv
	}
	if v.views.tensors == nil {
		v.views.tensors = make(map[int]*TensorView)
	}
	tv := &TensorView{view: v.newView("tensor", e.FirstComponent, tensor.NTensorComponents(v.dim))}
	v.views.tensors[e.FirstComponent] = tv
	return tv
}

// Cache readers shared by the views, descriptor checks flags and indices once per call.

func (vw *view) value(row, q int) float64 {
	return vw.fev.elementData.ShapeValues.At(row, q)
}

func (vw *view) gradient(row, q int) tensor.Tensor1 {
	return vw.fev.elementData.ShapeGradients[row][q]
}

func (vw *view) hessian(row, q int) tensor.Tensor2 {
	return vw.fev.elementData.ShapeHessians[row][q]
}

func (vw *view) thirdDerivative(row, q int) tensor.Tensor3 {
	return vw.fev.elementData.Shape3rdDerivatives[row][q]
}

func (vw *view) descriptor(flag types.UpdateFlags, field string, i, q int) *ShapeFunctionData {
	vw.fev.require(flag, field)
	vw.fev.checkPoint(q)
	vw.fev.checkShape(i)
	return &vw.shapeFunctions[i]
}
