package paillier

import (
	"errors"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/mta/pkg/math/arith"
	"github.com/taurusgroup/mta/pkg/math/sample"
	"github.com/taurusgroup/mta/pkg/pedersen"
)

// SecretKey is the secret key corresponding to a Public Paillier Key.
//
// A public key is a modulus N, and the secret key contains the information
// needed to factor N into two primes, P and Q. This allows us to decrypt
// values encrypted using this modulus.
type SecretKey struct {
	*PublicKey
	// p, q such that N = p⋅q
	p, q *saferith.Nat
	// phi = ϕ = (p-1)(q-1)
	phi *saferith.Nat
	// phiInv = ϕ⁻¹ mod N
	phiInv *saferith.Nat
}

// P returns the first of the two factors composing this key.
func (sk *SecretKey) P() *saferith.Nat {
	return sk.p
}

// Q returns the second of the two factors composing this key.
func (sk *SecretKey) Q() *saferith.Nat {
	return sk.q
}

// Phi returns ϕ = (P-1)(Q-1).
//
// This is the result of the totient function ϕ(N), where N = P⋅Q
// is our public key. This function counts the number of units mod N.
func (sk *SecretKey) Phi() *saferith.Nat {
	return sk.phi
}

// NewSecretKeyFromPrimes generates a new SecretKey. Assumes that P and Q are distinct primes.
func NewSecretKeyFromPrimes(P, Q *saferith.Nat) *SecretKey {
	oneNat := new(saferith.Nat).SetUint64(1)

	n := arith.ModulusFromFactors(P, Q)

	nNat := n.Nat()
	nPlusOne := new(saferith.Nat).Add(nNat, oneNat, -1)
	// Tightening is fine, since n is public
	nPlusOne.Resize(nPlusOne.TrueLen())

	pMinus1 := new(saferith.Nat).Sub(P, oneNat, -1)
	qMinus1 := new(saferith.Nat).Sub(Q, oneNat, -1)
	phi := new(saferith.Nat).Mul(pMinus1, qMinus1, -1)
	// ϕ⁻¹ mod N
	phiInv := new(saferith.Nat).ModInverse(phi, n.Modulus)

	pSquared := new(saferith.Nat).Mul(P, P, -1)
	qSquared := new(saferith.Nat).Mul(Q, Q, -1)
	nSquared := arith.ModulusFromFactors(pSquared, qSquared)

	return &SecretKey{
		p:      P,
		q:      Q,
		phi:    phi,
		phiInv: phiInv,
		PublicKey: &PublicKey{
			n:        n,
			nSquared: nSquared,
			nNat:     nNat,
			nPlusOne: nPlusOne,
		},
	}
}

// Clone returns a deep copy of sk, or nil if sk is nil.
func (sk *SecretKey) Clone() *SecretKey {
	if sk == nil {
		return nil
	}
	return &SecretKey{
		PublicKey: sk.PublicKey.Clone(),
		p:         arith.CloneNat(sk.p),
		q:         arith.CloneNat(sk.q),
		phi:       arith.CloneNat(sk.phi),
		phiInv:    arith.CloneNat(sk.phiInv),
	}
}

// Dec decrypts c and returns the plaintext m ∈ [0, N).
// It returns an error if gcd(c, N²) != 1 or if c is not in [1, N²-1].
//
// Dec works on copies of sk and ct, so it may be called concurrently on a shared key.
func (sk *SecretKey) Dec(ct *Ciphertext) (*saferith.Nat, error) {
	oneNat := new(saferith.Nat).SetUint64(1)

	sk, ct = sk.Clone(), ct.Clone()
	if sk == nil || !sk.PublicKey.ValidateCiphertexts(ct) {
		return nil, errors.New("paillier: failed to decrypt invalid ciphertext")
	}
	n := sk.PublicKey.n.Modulus

	// r = c^Phi 						(mod N²)
	result := sk.PublicKey.nSquared.Exp(ct.c, sk.phi)
	// r = c^Phi - 1
	result.Sub(result, oneNat, -1)
	// r = [(c^Phi - 1)/N]
	result.Div(result, n, -1)
	// r = [(c^Phi - 1)/N] • Phi^-1		(mod N)
	result.ModMul(result, sk.phiInv, n)
	return result, nil
}

// GeneratePedersen samples ring-Pedersen parameters over N, and returns them
// with the trapdoor λ such that s = tˡ.
func (sk *SecretKey) GeneratePedersen(rand io.Reader) (*pedersen.Parameters, *saferith.Nat) {
	s, t, lambda := sample.Pedersen(rand, sk.phi, sk.n.Modulus)
	ped := pedersen.New(sk.n.Clone(), s, t)
	return ped, lambda
}

type secretKeyCBOR struct {
	_    struct{} `cbor:",toarray"`
	P, Q []byte
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (sk *SecretKey) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(secretKeyCBOR{
		P: sk.p.Bytes(),
		Q: sk.q.Bytes(),
	})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// Both primes are checked with ValidatePrime.
func (sk *SecretKey) UnmarshalBinary(data []byte) error {
	var x secretKeyCBOR
	if err := cbor.Unmarshal(data, &x); err != nil {
		return fmt.Errorf("paillier: unmarshal secret key: %w", err)
	}
	p := new(saferith.Nat).SetBytes(x.P)
	q := new(saferith.Nat).SetBytes(x.Q)
	for _, prime := range []*saferith.Nat{p, q} {
		if err := ValidatePrime(prime); err != nil {
			return err
		}
	}
	if p.Eq(q) == 1 {
		return ErrNotSafePrime
	}
	*sk = *NewSecretKeyFromPrimes(p, q)
	return nil
}
