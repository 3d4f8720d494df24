package arith

import (
	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/mta/internal/params"
)

// IsValidNatModN checks that ints are all in the range [1,…,N-1] and are co-prime to N.
// Neither N nor ints are written to.
func IsValidNatModN(N *saferith.Modulus, ints ...*saferith.Nat) bool {
	if N == nil {
		return false
	}
	n := CloneModulus(N)
	for _, i := range ints {
		if i == nil {
			return false
		}
		x := CloneNat(i)
		if _, _, lt := x.CmpMod(n); lt != 1 {
			return false
		}
		if x.IsUnit(n) != 1 {
			return false
		}
	}
	return true
}

// IsBelowN checks that ints are all in the range [0,…,N-1].
// Neither N nor ints are written to.
func IsBelowN(N *saferith.Modulus, ints ...*saferith.Nat) bool {
	if N == nil {
		return false
	}
	n := CloneModulus(N)
	for _, i := range ints {
		if i == nil {
			return false
		}
		if _, _, lt := CloneNat(i).CmpMod(n); lt != 1 {
			return false
		}
	}
	return true
}

// IsInIntervalLEps returns true if n ∈ [-2ˡ⁺ᵉ,…,2ˡ⁺ᵉ].
func IsInIntervalLEps(n *saferith.Int) bool {
	if n == nil {
		return false
	}
	return n.TrueLen() <= params.LPlusEpsilon
}
