package fe

import (
	"unsafe"

	"github.com/notargets/fevalues/tensor"
	"github.com/notargets/fevalues/types"
)

// MappingData is the geometric cache. Each array has the maximum number of quadrature
// points of the evaluator and is nil unless its flag was resolved.
type MappingData struct {
	QuadraturePoints                    []tensor.Tensor1
	JxW                                 []float64
	Jacobians                           []tensor.Tensor2
	JacobianGrads                       []tensor.Tensor3
	JacobianPushedForwardGrads          []tensor.Tensor3
	Jacobian2ndDerivatives              []tensor.Tensor4
	JacobianPushedForward2ndDerivatives []tensor.Tensor4
	Jacobian3rdDerivatives              []tensor.Tensor5
	JacobianPushedForward3rdDerivatives []tensor.Tensor5
	InverseJacobians                    []tensor.Tensor2
	NormalVectors                       []tensor.Tensor1
	BoundaryForms                       []tensor.Tensor1
}

func alloc[T any](flags, flag types.UpdateFlags, n int) []T {
	if !flags.Contains(flag) {
		return nil
	}
	return make([]T, n)
}

func (md *MappingData) Initialize(flags types.UpdateFlags, n int) {
	md.QuadraturePoints = alloc[tensor.Tensor1](flags, types.UpdateQuadraturePoints, n)
	md.JxW = alloc[float64](flags, types.UpdateJxWValues, n)
	md.Jacobians = alloc[tensor.Tensor2](flags, types.UpdateJacobians, n)
	md.JacobianGrads = alloc[tensor.Tensor3](flags, types.UpdateJacobianGrads, n)
	md.JacobianPushedForwardGrads = alloc[tensor.Tensor3](flags, types.UpdateJacobianPushedForwardGrads, n)
	md.Jacobian2ndDerivatives = alloc[tensor.Tensor4](flags, types.UpdateJacobian2ndDerivatives, n)
	md.JacobianPushedForward2ndDerivatives = alloc[tensor.Tensor4](flags, types.UpdateJacobianPushedForward2ndDerivatives, n)
	md.Jacobian3rdDerivatives = alloc[tensor.Tensor5](flags, types.UpdateJacobian3rdDerivatives, n)
	md.JacobianPushedForward3rdDerivatives = alloc[tensor.Tensor5](flags, types.UpdateJacobianPushedForward3rdDerivatives, n)
	md.InverseJacobians = alloc[tensor.Tensor2](flags, types.UpdateInverseJacobians, n)
	md.NormalVectors = alloc[tensor.Tensor1](flags, types.UpdateNormalVectors, n)
	md.BoundaryForms = alloc[tensor.Tensor1](flags, types.UpdateBoundaryForms, n)
}

func sizeOf[T any](s []T) int {
	var zero T
	return len(s) * int(unsafe.Sizeof(zero))
}

func (md *MappingData) MemoryConsumption() int {
	return sizeOf(md.QuadraturePoints) + sizeOf(md.JxW) + sizeOf(md.Jacobians) +
		sizeOf(md.JacobianGrads) + sizeOf(md.JacobianPushedForwardGrads) +
		sizeOf(md.Jacobian2ndDerivatives) + sizeOf(md.JacobianPushedForward2ndDerivatives) +
		sizeOf(md.Jacobian3rdDerivatives) + sizeOf(md.JacobianPushedForward3rdDerivatives) +
		sizeOf(md.InverseJacobians) + sizeOf(md.NormalVectors) + sizeOf(md.BoundaryForms)
}
