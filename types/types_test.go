package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateFlags(t *testing.T) {
	{ // Union and containment
		f := UpdateValues | UpdateGradients
		assert.True(t, f.Contains(UpdateValues))
		assert.True(t, f.Contains(UpdateValues|UpdateGradients))
		assert.False(t, f.Contains(UpdateHessians))
		assert.True(t, f.Intersects(UpdateGradients|UpdateHessians))
		assert.False(t, f.Intersects(GeometryFlags))
		assert.Equal(t, UpdateValues, f.Without(UpdateGradients))
		assert.Equal(t, f|UpdateJxWValues, f.Union(UpdateJxWValues))
	}
	{ // Names
		assert.Equal(t, "default", UpdateDefault.String())
		assert.Equal(t, "values|gradients", (UpdateValues | UpdateGradients).String())
		assert.Equal(t, "jxw_values|inverse_jacobians", (UpdateInverseJacobians | UpdateJxWValues).String())
		f, err := ParseUpdateFlags([]string{"values", "update_gradients", " JxW "})
		require.NoError(t, err)
		assert.Equal(t, UpdateValues|UpdateGradients|UpdateJxWValues, f)
		_, err = ParseUpdateFlags([]string{"values", "curls"})
		assert.EqualError(t, err, "unknown update flags: curls")
	}
	{ // Every named flag is in the set of all flags
		for name, flag := range UpdateFlagNameMap {
			assert.Truef(t, AllFlags.Contains(flag), "flag %s", name)
		}
		assert.Equal(t, AllFlags, BasisFlags|GeometryFlags)
	}
}

func TestRulesClosure(t *testing.T) {
	rules := Rules{
		{When: UpdateGradients, Require: UpdateInverseJacobians},
		{When: UpdateInverseJacobians, Require: UpdateJacobians},
		{When: UpdateHessians, Require: UpdateGradients | UpdateJacobianPushedForwardGrads},
		{When: UpdateJacobianPushedForwardGrads, Require: UpdateJacobianGrads | UpdateInverseJacobians},
	}
	{ // Transitive
		got := rules.Closure(UpdateHessians)
		want := UpdateHessians | UpdateGradients | UpdateJacobianPushedForwardGrads |
			UpdateJacobianGrads | UpdateInverseJacobians | UpdateJacobians
		assert.Equal(t, want, got)
	}
	{ // Idempotent and monotone over every subset of the basis flags
		var subsets []UpdateFlags
		for s := UpdateFlags(0); s <= BasisFlags; s++ {
			if BasisFlags.Contains(s) {
				subsets = append(subsets, s|UpdateQuadraturePoints)
			}
		}
		for _, s1 := range subsets {
			c1 := rules.Closure(s1)
			assert.Equal(t, c1, rules.Closure(c1))
			assert.True(t, c1.Contains(s1))
			for _, s2 := range subsets {
				if s2.Contains(s1) {
					assert.Truef(t, rules.Closure(s2).Contains(c1), "%v ⊆ %v", s1, s2)
				}
			}
		}
	}
	{ // Concat preserves order and content
		extra := Rules{{When: UpdateNormalVectors, Require: UpdateBoundaryForms}}
		all := Concat(rules, extra)
		assert.Len(t, all, len(rules)+1)
		assert.True(t, all.Closure(UpdateNormalVectors).Contains(UpdateBoundaryForms))
	}
}
