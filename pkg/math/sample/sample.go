package sample

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/mta/pkg/math/curve"
)

const maxIterations = 255

var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

func mustReadBits(rand io.Reader, buf []byte) {
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err == nil {
			return
		}
	}
	panic(ErrMaxIterations)
}

// ModN samples an element of ℤₙ. It does not write to n, which may be shared.
func ModN(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	return modN(rand, copyModulus(n))
}

// copyModulus is arith.CloneModulus, which cannot be imported from here.
func copyModulus(n *saferith.Modulus) *saferith.Modulus {
	return saferith.ModulusFromNat(n.Nat())
}

func modN(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	out := new(saferith.Nat)
	buf := make([]byte, (n.BitLen()+7)/8)
	for {
		mustReadBits(rand, buf)
		out.SetBytes(buf)
		if _, _, lt := out.CmpMod(n); lt == 1 {
			return out
		}
	}
}

// UnitModN returns a u ∈ ℤₙˣ. It does not write to n, which may be shared.
func UnitModN(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	n = copyModulus(n)
	for i := 0; i < maxIterations; i++ {
		u := modN(rand, n)
		if u.IsUnit(n) == 1 {
			return u
		}
	}
	panic(ErrMaxIterations)
}

// Pedersen generates the s, t, λ such that s = tˡ.
func Pedersen(rand io.Reader, phi *saferith.Nat, n *saferith.Modulus) (s, t, lambda *saferith.Nat) {
	phiMod := saferith.ModulusFromNat(new(saferith.Nat).SetNat(phi))
	n = copyModulus(n)

	lambda = modN(rand, phiMod)

	tau := UnitModN(rand, n)
	// t = τ² mod N
	t = tau.ModMul(tau, tau, n)
	// s = tˡ mod N
	s = new(saferith.Nat).Exp(t, lambda, n)

	return
}

// Scalar returns a uniformly random element of ℤ_q.
//
// Enough extra bytes are read so that the reduction mod q is unbiased.
func Scalar(rand io.Reader, group curve.Curve) curve.Scalar {
	buf := make([]byte, group.SafeScalarBytes())
	mustReadBits(rand, buf)
	return group.NewScalar().SetNat(new(saferith.Nat).SetBytes(buf))
}

// ScalarUnit returns a random non-zero element of ℤ_q.
func ScalarUnit(rand io.Reader, group curve.Curve) curve.Scalar {
	for i := 0; i < maxIterations; i++ {
		s := Scalar(rand, group)
		if !s.IsZero() {
			return s
		}
	}
	panic(ErrMaxIterations)
}

// ScalarPointPair returns a random scalar s together with s⋅G.
func ScalarPointPair(rand io.Reader, group curve.Curve) (curve.Scalar, curve.Point) {
	s := Scalar(rand, group)
	return s, s.ActOnBase()
}
