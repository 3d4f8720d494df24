package paillier

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/mta/pkg/math/arith"
	"github.com/taurusgroup/mta/pkg/math/sample"
)

// PublicKey is a Paillier public key N = p⋅q, with generator N+1.
//
// saferith writes to its operands while computing, so a PublicKey must not be used
// by several goroutines at once. Concurrent users each work on a Clone.
type PublicKey struct {
	// n = p⋅q
	n *arith.Modulus
	// nSquared = n²
	nSquared *arith.Modulus

	// These values are cached out of convenience, and performance
	nNat *saferith.Nat
	// nPlusOne = n + 1
	nPlusOne *saferith.Nat
}

// N is the public modulus making up this key.
func (pk *PublicKey) N() *saferith.Modulus {
	return pk.n.Modulus
}

// Modulus returns an arith.Modulus for N which may allow for accelerated exponentiation when this
// public key was generated from a secret key.
func (pk *PublicKey) Modulus() *arith.Modulus {
	return pk.n
}

// ModulusSquared returns N².
func (pk *PublicKey) ModulusSquared() *saferith.Modulus {
	return pk.nSquared.Modulus
}

// NewPublicKey returns an initialized PublicKey.
// It caches N+1 and N² for faster operations.
func NewPublicKey(n *saferith.Modulus) *PublicKey {
	nNat := n.Nat()
	nPlusOne := new(saferith.Nat).Add(nNat, new(saferith.Nat).SetUint64(1), -1)
	// Tightening is fine, since n is public
	nPlusOne.Resize(nPlusOne.TrueLen())
	nSquared := saferith.ModulusFromNat(new(saferith.Nat).Mul(nNat, nNat, -1))
	return &PublicKey{
		n:        arith.ModulusFromN(n),
		nSquared: arith.ModulusFromN(nSquared),
		nNat:     nNat,
		nPlusOne: nPlusOne,
	}
}

// Clone returns a deep copy of pk, or nil if pk is nil.
func (pk *PublicKey) Clone() *PublicKey {
	if pk == nil {
		return nil
	}
	return &PublicKey{
		n:        pk.n.Clone(),
		nSquared: pk.nSquared.Clone(),
		nNat:     arith.CloneNat(pk.nNat),
		nPlusOne: arith.CloneNat(pk.nPlusOne),
	}
}

// Enc returns the encryption of m under the public key pk.
// The nonce used to encrypt is returned.
//
// The message m may be any integer, it is encrypted as m (mod N).
//
// ct = (1+N)ᵐρᴺ (mod N²).
func (pk PublicKey) Enc(m *saferith.Int) (*Ciphertext, *saferith.Nat) {
	nonce := sample.UnitModN(rand.Reader, pk.n.Modulus)
	return pk.EncWithNonce(m, nonce), nonce
}

// EncWithNonce returns the encryption of m under the public key pk.
// The nonce is not returned.
//
// ct = (1+N)ᵐρᴺ (mod N²).
func (pk PublicKey) EncWithNonce(m *saferith.Int, nonce *saferith.Nat) *Ciphertext {
	// (N+1)ᵐ mod N²
	c := pk.nSquared.ExpI(pk.nPlusOne, m)
	// ρᴺ mod N²
	rhoN := pk.nSquared.Exp(nonce, pk.nNat)
	// (N+1)ᵐ rho ^ N
	c.ModMul(c, rhoN, pk.nSquared.Modulus)

	return &Ciphertext{c: c}
}

// Equal returns true if pk ≡ other.
func (pk PublicKey) Equal(other *PublicKey) bool {
	if other == nil {
		return false
	}
	return arith.CloneNat(pk.nNat).Eq(arith.CloneNat(other.nNat)) == 1
}

// ValidateCiphertexts checks if all ciphertexts are in the correct range and coprime to N²
// ct ∈ [1, …, N²-1] AND GCD(ct,N²) = 1.
func (pk PublicKey) ValidateCiphertexts(cts ...*Ciphertext) bool {
	for _, ct := range cts {
		if ct == nil {
			return false
		}
		if !arith.IsValidNatModN(pk.nSquared.Modulus, ct.c) {
			return false
		}
	}
	return true
}

// ValidateNonce checks that ρ ∈ ℤₙˣ.
func (pk PublicKey) ValidateNonce(nonce *saferith.Nat) bool {
	return arith.IsValidNatModN(pk.n.Modulus, nonce)
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (pk *PublicKey) WriteTo(w io.Writer) (int64, error) {
	if pk == nil {
		return 0, io.ErrUnexpectedEOF
	}
	n, err := w.Write(pk.n.Big().Bytes())
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (PublicKey) Domain() string {
	return "Paillier PublicKey"
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(pk.n.Bytes())
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// The modulus is checked with ValidateN.
func (pk *PublicKey) UnmarshalBinary(data []byte) error {
	var nBytes []byte
	if err := cbor.Unmarshal(data, &nBytes); err != nil {
		return fmt.Errorf("paillier: unmarshal public key: %w", err)
	}
	nNat := new(saferith.Nat).SetBytes(nBytes)
	if nNat.EqZero() == 1 {
		return ErrPaillierNil
	}
	n := saferith.ModulusFromNat(nNat)
	if err := ValidateN(n); err != nil {
		return err
	}
	*pk = *NewPublicKey(n)
	return nil
}
