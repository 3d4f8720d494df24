package paillier

import (
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/mta/internal/params"
	"github.com/taurusgroup/mta/pkg/math/arith"
)

// Ciphertext represents an integer of the for (1+N)ᵐρᴺ (mod N²), representing the encryption of m ∈ ℤₙˣ.
type Ciphertext struct {
	c *saferith.Nat
}

// Add sets ct to the homomorphic sum ct ⊕ ct₂.
// ct ← ct•ct₂ (mod N²).
func (ct *Ciphertext) Add(pk *PublicKey, ct2 *Ciphertext) *Ciphertext {
	if ct2 == nil {
		return ct
	}

	ct.c.ModMul(ct.c, ct2.c, pk.nSquared.Modulus)

	return ct
}

// Mul sets ct to the homomorphic multiplication of k ⊙ ct.
// ct ← ctᵏ (mod N²).
func (ct *Ciphertext) Mul(pk *PublicKey, k *saferith.Int) *Ciphertext {
	if k == nil {
		return ct
	}

	ct.c = pk.nSquared.ExpI(ct.c, k)

	return ct
}

// Equal check whether ct ≡ ctₐ (mod N²).
func (ct *Ciphertext) Equal(ctA *Ciphertext) bool {
	if ct == nil || ctA == nil || ct.c == nil || ctA.c == nil {
		return false
	}
	return arith.CloneNat(ct.c).Eq(arith.CloneNat(ctA.c)) == 1
}

// Clone returns a deep copy of ct, or nil if ct is not set.
func (ct *Ciphertext) Clone() *Ciphertext {
	if ct == nil || ct.c == nil {
		return nil
	}
	return &Ciphertext{c: arith.CloneNat(ct.c)}
}

// Nat returns the underlying integer. It must not be modified.
func (ct *Ciphertext) Nat() *saferith.Nat {
	return ct.c
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (ct *Ciphertext) WriteTo(w io.Writer) (int64, error) {
	if ct == nil || ct.c == nil {
		return 0, io.ErrUnexpectedEOF
	}
	b := ct.c.Big().Bytes()
	if len(b) > params.BytesCiphertext {
		n, err := w.Write(b)
		return int64(n), err
	}
	buf := make([]byte, params.BytesCiphertext)
	copy(buf[params.BytesCiphertext-len(b):], b)
	n, err := w.Write(buf)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (*Ciphertext) Domain() string {
	return "Paillier Ciphertext"
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (ct *Ciphertext) MarshalBinary() ([]byte, error) {
	return ct.c.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// Range checks are left to PublicKey.ValidateCiphertexts.
func (ct *Ciphertext) UnmarshalBinary(data []byte) error {
	ct.c = new(saferith.Nat).SetBytes(data)
	return nil
}
