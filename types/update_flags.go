package types

import (
	"fmt"
	"sort"
	"strings"
)

// UpdateFlags selects the quantities an evaluator computes at quadrature points.
type UpdateFlags uint32

const (
	UpdateValues UpdateFlags = 1 << iota
	UpdateGradients
	UpdateHessians
	Update3rdDerivatives
	UpdateQuadraturePoints
	UpdateJxWValues
	UpdateJacobians
	UpdateJacobianGrads
	UpdateJacobianPushedForwardGrads
	UpdateJacobian2ndDerivatives
	UpdateJacobianPushedForward2ndDerivatives
	UpdateJacobian3rdDerivatives
	UpdateJacobianPushedForward3rdDerivatives
	UpdateInverseJacobians
	UpdateNormalVectors
	UpdateBoundaryForms
	updateSentinel

	UpdateDefault UpdateFlags = 0
)

const (
	// BasisFlags are filled by the finite element
	BasisFlags = UpdateValues | UpdateGradients | UpdateHessians | Update3rdDerivatives
	// GeometryFlags are filled by the mapping
	GeometryFlags = UpdateQuadraturePoints | UpdateJxWValues | UpdateJacobians |
		UpdateJacobianGrads | UpdateJacobianPushedForwardGrads |
		UpdateJacobian2ndDerivatives | UpdateJacobianPushedForward2ndDerivatives |
		UpdateJacobian3rdDerivatives | UpdateJacobianPushedForward3rdDerivatives |
		UpdateInverseJacobians | UpdateNormalVectors | UpdateBoundaryForms
	// FaceOnlyFlags only make sense on faces of a cell
	FaceOnlyFlags = UpdateNormalVectors | UpdateBoundaryForms
	AllFlags      = updateSentinel - 1
)

var UpdateFlagNameMap = map[string]UpdateFlags{
	"values":                                  UpdateValues,
	"gradients":                               UpdateGradients,
	"hessians":                                UpdateHessians,
	"3rd_derivatives":                         Update3rdDerivatives,
	"third_derivatives":                       Update3rdDerivatives,
	"quadrature_points":                       UpdateQuadraturePoints,
	"jxw_values":                              UpdateJxWValues,
	"jxw":                                     UpdateJxWValues,
	"jacobians":                               UpdateJacobians,
	"jacobian_grads":                          UpdateJacobianGrads,
	"jacobian_pushed_forward_grads":           UpdateJacobianPushedForwardGrads,
	"jacobian_2nd_derivatives":                UpdateJacobian2ndDerivatives,
	"jacobian_pushed_forward_2nd_derivatives": UpdateJacobianPushedForward2ndDerivatives,
	"jacobian_3rd_derivatives":                UpdateJacobian3rdDerivatives,
	"jacobian_pushed_forward_3rd_derivatives": UpdateJacobianPushedForward3rdDerivatives,
	"inverse_jacobians":                       UpdateInverseJacobians,
	"normal_vectors":                          UpdateNormalVectors,
	"boundary_forms":                          UpdateBoundaryForms,
}

var updateFlagNames = [...]string{
	"values",
	"gradients",
	"hessians",
	"3rd_derivatives",
	"quadrature_points",
	"jxw_values",
	"jacobians",
	"jacobian_grads",
	"jacobian_pushed_forward_grads",
	"jacobian_2nd_derivatives",
	"jacobian_pushed_forward_2nd_derivatives",
	"jacobian_3rd_derivatives",
	"jacobian_pushed_forward_3rd_derivatives",
	"inverse_jacobians",
	"normal_vectors",
	"boundary_forms",
}

// Contains reports whether every flag in other is also set in f.
func (f UpdateFlags) Contains(other UpdateFlags) bool { return f&other == other }

// Intersects reports whether f and other share at least one flag.
func (f UpdateFlags) Intersects(other UpdateFlags) bool { return f&other != 0 }

func (f UpdateFlags) Union(other UpdateFlags) UpdateFlags { return f | other }

func (f UpdateFlags) Without(other UpdateFlags) UpdateFlags { return f &^ other }

func (f UpdateFlags) String() string {
	if f == 0 {
		return "default"
	}
	var names []string
	for i, name := range updateFlagNames {
		if f&(1<<uint(i)) != 0 {
			names = append(names, name)
		}
	}
	if rem := f &^ AllFlags; rem != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint32(rem)))
	}
	return strings.Join(names, "|")
}

// ParseUpdateFlags converts flag names, as used in the YAML input, into a flag set.
func ParseUpdateFlags(names []string) (f UpdateFlags, err error) {
	var unknown []string
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		key = strings.TrimPrefix(key, "update_")
		if flag, ok := UpdateFlagNameMap[key]; ok {
			f |= flag
		} else {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) != 0 {
		sort.Strings(unknown)
		err = fmt.Errorf("unknown update flags: %s", strings.Join(unknown, ", "))
	}
	return
}
