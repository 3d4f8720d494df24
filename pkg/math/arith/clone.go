package arith

import "github.com/cronokirby/saferith"

// saferith may rewrite the limbs of an operand while reading it, so values that
// are shared between goroutines are only ever handed to it through a copy.

// CloneNat returns a copy of x that shares no memory with it.
func CloneNat(x *saferith.Nat) *saferith.Nat {
	if x == nil {
		return nil
	}
	return new(saferith.Nat).SetNat(x)
}

// CloneInt returns a copy of x that shares no memory with it.
func CloneInt(x *saferith.Int) *saferith.Int {
	if x == nil {
		return nil
	}
	return x.Clone()
}

// CloneModulus returns a copy of m that shares no memory with it.
func CloneModulus(m *saferith.Modulus) *saferith.Modulus {
	if m == nil {
		return nil
	}
	return saferith.ModulusFromNat(m.Nat())
}

// Clone returns a deep copy of n, keeping the factorization if it is known.
func (n *Modulus) Clone() *Modulus {
	if n == nil {
		return nil
	}
	out := &Modulus{Modulus: CloneModulus(n.Modulus)}
	if n.hasFactorization() {
		out.p = CloneModulus(n.p)
		out.q = CloneModulus(n.q)
		out.pNat = CloneNat(n.pNat)
		out.pInv = CloneNat(n.pInv)
	}
	return out
}
