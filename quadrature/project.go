package quadrature

import (
	"fmt"

	"github.com/notargets/fevalues/tensor"
)

/*
	Faces of the reference cell [0,1]^dim are numbered f = 2*d + s: the face is normal to
	coordinate direction d and lies at x_d = s. The face coordinates are the remaining
	cell coordinates in increasing order.

	Subfaces split a face in half along each face coordinate, bit k of the subface number
	selects the upper half along face coordinate k.
*/

func NFaces(dim int) int { return 2 * dim }

func NSubfaces(dim int) int {
	if dim < 1 {
		return 0
	}
	return 1 << uint(dim-1)
}

// FaceNormalDirection returns the coordinate direction normal to face and the sign of
// the outward normal.
func FaceNormalDirection(face int) (d int, sign float64) {
	d = face / 2
	sign = -1
	if face%2 == 1 {
		sign = 1
	}
	return
}

// ReferenceNormal is the outward unit normal of face on the reference cell.
func ReferenceNormal(face int) (n tensor.Tensor1) {
	d, sign := FaceNormalDirection(face)
	n[d] = sign
	return
}

func checkFace(dim int, q Quadrature, face int) {
	if q.Dim != dim-1 {
		panic(fmt.Errorf("face quadrature must have dimension %d, have %d", dim-1, q.Dim))
	}
	if face < 0 || face >= NFaces(dim) {
		panic(fmt.Errorf("face %d is out of range [0,%d)", face, NFaces(dim)))
	}
}

func embed(dim, face int, xi tensor.Tensor1) (x tensor.Tensor1) {
	d, sign := FaceNormalDirection(face)
	if sign > 0 {
		x[d] = 1
	}
	k := 0
	for c := 0; c < dim; c++ {
		if c == d {
			continue
		}
		x[c] = xi[k]
		k++
	}
	return
}

// ProjectToFace maps a dim-1 dimensional rule onto face of the dim dimensional
// reference cell. Weights are those of the face rule.
func ProjectToFace(dim int, q Quadrature, face int) (r Quadrature) {
	checkFace(dim, q, face)
	r = Quadrature{
		Dim:     dim,
		Points:  make([]tensor.Tensor1, q.Size()),
		Weights: make([]float64, q.Size()),
	}
	for k, xi := range q.Points {
		r.Points[k] = embed(dim, face, xi)
	}
	copy(r.Weights, q.Weights)
	return
}

// ProjectToSubface maps a dim-1 dimensional rule onto subface of face. Weights are
// scaled by the ratio of subface to face measure so that a boundary form taken from
// the parent face integrates over the subface.
func ProjectToSubface(dim int, q Quadrature, face, subface int) (r Quadrature) {
	checkFace(dim, q, face)
	if subface < 0 || subface >= NSubfaces(dim) {
		panic(fmt.Errorf("subface %d is out of range [0,%d)", subface, NSubfaces(dim)))
	}
	var (
		scale = 1. / float64(NSubfaces(dim))
	)
	r = Quadrature{
		Dim:     dim,
		Points:  make([]tensor.Tensor1, q.Size()),
		Weights: make([]float64, q.Size()),
	}
	for k, xi := range q.Points {
		var sub tensor.Tensor1
		for c := 0; c < dim-1; c++ {
			sub[c] = 0.5 * xi[c]
			if subface&(1<<uint(c)) != 0 {
				sub[c] += 0.5
			}
		}
		r.Points[k] = embed(dim, face, sub)
		r.Weights[k] = q.Weights[k] * scale
	}
	return
}
