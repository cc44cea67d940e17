// Package mesh provides a structured mesh of hypercube cells over a box, with uniform
// refinement, vertex transformation and change notification.
package mesh

import (
	"fmt"
	"sort"
	"sync"

	"github.com/notargets/fevalues/fe"
	"github.com/notargets/fevalues/tensor"
)

type Triangulation struct {
	dim          int
	lower, upper tensor.Tensor1
	subdivisions [tensor.MaxDim]int
	vertices     []tensor.Tensor1
	cells        []*Cell
	faces        map[faceKey]int
	nFaces       int
	transforms   []func(x tensor.Tensor1) tensor.Tensor1

	mu        sync.Mutex
	listeners map[int]func()
	nextID    int
}

type faceKey [4]int

// NewHyperRectangle meshes the box [lower, upper] with subdivisions[d] cells along d.
func NewHyperRectangle(dim int, lower, upper tensor.Tensor1, subdivisions []int) (t *Triangulation, err error) {
	if dim < 1 || dim > tensor.MaxDim {
		err = fmt.Errorf("mesh dimension must be in [1,%d], have %d", tensor.MaxDim, dim)
		return
	}
	if len(subdivisions) != dim {
		err = fmt.Errorf("need %d subdivisions, have %d", dim, len(subdivisions))
		return
	}
	t = &Triangulation{dim: dim, lower: lower, upper: upper}
	for d := 0; d < dim; d++ {
		if subdivisions[d] < 1 {
			return nil, fmt.Errorf("subdivisions must be >= 1, have %v", subdivisions)
		}
		if upper[d] <= lower[d] {
			return nil, fmt.Errorf("upper corner %v must exceed lower corner %v", upper, lower)
		}
		t.subdivisions[d] = subdivisions[d]
	}
	t.build()
	return
}

// NewHyperCube meshes [0,1]^dim with n cells per direction.
func NewHyperCube(dim, n int) (*Triangulation, error) {
	var (
		upper tensor.Tensor1
		subs  = make([]int, dim)
	)
	for d := 0; d < dim && d < tensor.MaxDim; d++ {
		upper[d] = 1
		subs[d] = n
	}
	return NewHyperRectangle(dim, tensor.Tensor1{}, upper, subs)
}

func (t *Triangulation) nVertexPoints(d int) int { return t.subdivisions[d] + 1 }

func (t *Triangulation) vertexID(ix [tensor.MaxDim]int) (id int) {
	for d := t.dim - 1; d >= 0; d-- {
		id = id*t.nVertexPoints(d) + ix[d]
	}
	return
}

// build creates new vertices, cells and faces. Existing cells are detached, so handles to
// them no longer compare equal to any cell of the mesh.
func (t *Triangulation) build() {
	var (
		nv, nc = 1, 1
	)
	for d := 0; d < t.dim; d++ {
		nv *= t.nVertexPoints(d)
		nc *= t.subdivisions[d]
	}
	t.vertices = make([]tensor.Tensor1, nv)
	for id := range t.vertices {
		rem := id
		for d := 0; d < t.dim; d++ {
			i := rem % t.nVertexPoints(d)
			rem /= t.nVertexPoints(d)
			t.vertices[id][d] = t.lower[d] + (t.upper[d]-t.lower[d])*float64(i)/float64(t.subdivisions[d])
		}
		for _, f := range t.transforms {
			t.vertices[id] = f(t.vertices[id])
		}
	}
	t.cells = make([]*Cell, nc)
	t.faces = make(map[faceKey]int)
	t.nFaces = 0
	nVert := 1 << uint(t.dim)
	for k := range t.cells {
		var (
			c   = &Cell{tria: t, index: k, vertexIDs: make([]int, nVert)}
			rem = k
		)
		for d := 0; d < t.dim; d++ {
			c.coords[d] = rem % t.subdivisions[d]
			rem /= t.subdivisions[d]
		}
		for v := 0; v < nVert; v++ {
			ix := c.coords
			for d := 0; d < t.dim; d++ {
				if v&(1<<uint(d)) != 0 {
					ix[d]++
				}
			}
			c.vertexIDs[v] = t.vertexID(ix)
		}
		c.faces = make([]int, 2*t.dim)
		for f := range c.faces {
			key := c.faceKey(f)
			idx, ok := t.faces[key]
			if !ok {
				idx = t.nFaces
				t.faces[key] = idx
				t.nFaces++
			}
			c.faces[f] = idx
		}
		t.cells[k] = c
	}
}

func (t *Triangulation) Dim() int         { return t.dim }
func (t *Triangulation) NCells() int      { return len(t.cells) }
func (t *Triangulation) NVertices() int   { return len(t.vertices) }
func (t *Triangulation) NFaces() int      { return t.nFaces }
func (t *Triangulation) Cells() []*Cell   { return t.cells }
func (t *Triangulation) Cell(k int) *Cell { return t.cells[k] }

// Refine splits every cell into 2^dim children. All cell handles are replaced.
func (t *Triangulation) Refine() {
	for d := 0; d < t.dim; d++ {
		t.subdivisions[d] *= 2
	}
	t.build()
	t.changed()
}

// Transform moves every vertex through f. Cell handles stay valid but their geometry
// changes, so listeners are notified. Later refinements apply f to the new vertices.
func (t *Triangulation) Transform(f func(x tensor.Tensor1) tensor.Tensor1) {
	t.transforms = append(t.transforms, f)
	for i, x := range t.vertices {
		t.vertices[i] = f(x)
	}
	t.changed()
}

// Subscribe registers fn to be called after every change of the mesh.
func (t *Triangulation) Subscribe(fn func()) (cancel func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.listeners == nil {
		t.listeners = make(map[int]func())
	}
	id := t.nextID
	t.nextID++
	t.listeners[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.listeners, id)
			t.mu.Unlock()
		})
	}
}

func (t *Triangulation) changed() {
	t.mu.Lock()
	ids := make([]int, 0, len(t.listeners))
	for id := range t.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), len(ids))
	for i, id := range ids {
		fns[i] = t.listeners[id]
	}
	t.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

var _ fe.ChangeNotifier = (*Triangulation)(nil)
