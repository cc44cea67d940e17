package types

// Rule adds Require to a flag set whenever the set intersects When.
type Rule struct {
	When    UpdateFlags
	Require UpdateFlags
}

type Rules []Rule

// Closure returns the smallest superset of flags that is closed under all rules.
// Rules only ever add flags, so the result is idempotent and monotone in flags.
func (rs Rules) Closure(flags UpdateFlags) UpdateFlags {
	for {
		next := flags
		for _, r := range rs {
			if next.Intersects(r.When) {
				next |= r.Require
			}
		}
		if next == flags {
			return flags
		}
		flags = next
	}
}

// Concat joins rule sets from several providers.
func Concat(sets ...Rules) (rs Rules) {
	for _, s := range sets {
		rs = append(rs, s...)
	}
	return
}
