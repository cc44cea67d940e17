package mesh

import (
	"sort"

	"github.com/notargets/fevalues/fe"
	"github.com/notargets/fevalues/tensor"
)

// Cell is a hypercube of the mesh with vertices in lexicographic order: vertex v has
// bit d of v set when it lies on the upper side along direction d.
type Cell struct {
	tria      *Triangulation
	index     int
	coords    [tensor.MaxDim]int
	vertexIDs []int
	faces     []int
}

func (c *Cell) Dim() int                         { return c.tria.dim }
func (c *Cell) NVertices() int                   { return len(c.vertexIDs) }
func (c *Cell) Vertex(i int) tensor.Tensor1      { return c.tria.vertices[c.vertexIDs[i]] }
func (c *Cell) Index() int                       { return c.index }
func (c *Cell) Triangulation() fe.ChangeNotifier { return c.tria }
func (c *Cell) Mesh() *Triangulation             { return c.tria }
func (c *Cell) FaceIndex(face int) int           { return c.faces[face] }

func (c *Cell) faceKey(face int) (key faceKey) {
	var (
		d    = face / 2
		side = face % 2
		ids  []int
	)
	for v, id := range c.vertexIDs {
		if (v>>uint(d))&1 == side {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	for i := range key {
		key[i] = -1
	}
	copy(key[:], ids)
	return
}

// AtBoundary reports whether face lies on the boundary of the mesh.
func (c *Cell) AtBoundary(face int) bool {
	d, side := face/2, face%2
	if side == 0 {
		return c.coords[d] == 0
	}
	return c.coords[d] == c.tria.subdivisions[d]-1
}

// Neighbor returns the cell across face, nil at the boundary.
func (c *Cell) Neighbor(face int) *Cell {
	if c.AtBoundary(face) {
		return nil
	}
	d := face / 2
	ix := c.coords
	if face%2 == 0 {
		ix[d]--
	} else {
		ix[d]++
	}
	k := 0
	for dd := c.tria.dim - 1; dd >= 0; dd-- {
		k = k*c.tria.subdivisions[dd] + ix[dd]
	}
	return c.tria.cells[k]
}
