package pedersen

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/mta/pkg/math/arith"
)

type Error string

const (
	ErrNilFields    Error = "contains nil field"
	ErrSEqualT      Error = "S cannot be equal to T"
	ErrNotValidModN Error = "S and T must be in [1,…,N-1] and coprime to N"
)

func (e Error) Error() string {
	return fmt.Sprintf("pedersen: %s", string(e))
}

// Parameters is a ring-Pedersen statement (N̂, s, t) owned by a verifier.
// Range proofs made for this verifier commit to the witness with it.
//
// Like paillier.PublicKey, it must be cloned before being used from several goroutines.
type Parameters struct {
	n    *arith.Modulus
	s, t *saferith.Nat
}

// New returns a new set of Pedersen parameters.
// Assumes ValidateParameters(n, s, t) returns nil.
func New(n *arith.Modulus, s, t *saferith.Nat) *Parameters {
	return &Parameters{
		s: s,
		t: t,
		n: n,
	}
}

// ValidateParameters check n, s and t, and returns an error if any of the following is true:
//   - n, s, or t is nil.
//   - s, t are not in [1, …,n-1].
//   - s, t are not coprime to N.
//   - s = t.
func ValidateParameters(n *saferith.Modulus, s, t *saferith.Nat) error {
	if n == nil || s == nil || t == nil {
		return ErrNilFields
	}
	// s, t ∈ ℤₙˣ
	if !arith.IsValidNatModN(n, s, t) {
		return ErrNotValidModN
	}
	if arith.CloneNat(s).Eq(arith.CloneNat(t)) == 1 {
		return ErrSEqualT
	}
	return nil
}

// Clone returns a deep copy of p, or nil if p is nil.
func (p *Parameters) Clone() *Parameters {
	if p == nil {
		return nil
	}
	return &Parameters{
		n: p.n.Clone(),
		s: arith.CloneNat(p.s),
		t: arith.CloneNat(p.t),
	}
}

// N = p•q, p ≡ q ≡ 3 mod 4.
func (p Parameters) N() *saferith.Modulus { return p.n.Modulus }

// NArith returns N with the CRT acceleration, if the factorization is known.
func (p Parameters) NArith() *arith.Modulus { return p.n }

// S = r² mod N.
func (p Parameters) S() *saferith.Nat { return p.s }

// T = Sˡ mod N.
func (p Parameters) T() *saferith.Nat { return p.t }

// Commit computes sˣ tʸ (mod N)
//
// x and y are taken as saferith.Int, because we want to keep these values in secret,
// in general. The commitment produced, on the other hand, hides their values,
// and can be safely shared.
func (p Parameters) Commit(x, y *saferith.Int) *saferith.Nat {
	sx := p.n.ExpI(p.s, x)
	ty := p.n.ExpI(p.t, y)
	return sx.ModMul(sx, ty, p.n.Modulus)
}

// Verify returns true if sᵃ tᵇ ≡ S Tᵉ (mod N).
func (p Parameters) Verify(a, b, e *saferith.Int, S, T *saferith.Nat) bool {
	if a == nil || b == nil || S == nil || T == nil || e == nil {
		return false
	}
	nMod := p.n.Modulus
	if !arith.IsValidNatModN(nMod, S, T) {
		return false
	}

	sa := p.n.ExpI(p.s, a)         // sᵃ (mod N)
	tb := p.n.ExpI(p.t, b)         // tᵇ (mod N)
	lhs := sa.ModMul(sa, tb, nMod) // lhs = sᵃ⋅tᵇ (mod N)

	te := p.n.ExpI(T, e)          // Tᵉ (mod N)
	rhs := te.ModMul(te, S, nMod) // rhs = S⋅Tᵉ (mod N)
	return lhs.Eq(rhs) == 1
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
// Each of N, S, T is written with a two byte length prefix.
func (p *Parameters) WriteTo(w io.Writer) (int64, error) {
	if p == nil {
		return 0, io.ErrUnexpectedEOF
	}
	nAll := int64(0)
	for _, i := range []*saferith.Nat{p.n.Nat(), p.s, p.t} {
		b := i.Big().Bytes()
		buf := make([]byte, 2, 2+len(b))
		binary.BigEndian.PutUint16(buf, uint16(len(b)))
		n, err := w.Write(append(buf, b...))
		nAll += int64(n)
		if err != nil {
			return nAll, err
		}
	}
	return nAll, nil
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (Parameters) Domain() string {
	return "Pedersen Parameters"
}

type parametersCBOR struct {
	_    struct{} `cbor:",toarray"`
	N, S []byte
	T    []byte
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p *Parameters) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(parametersCBOR{
		N: p.n.Bytes(),
		S: p.s.Bytes(),
		T: p.t.Bytes(),
	})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, and validates the result.
// The factorization of N is never transmitted.
func (p *Parameters) UnmarshalBinary(data []byte) error {
	var x parametersCBOR
	if err := cbor.Unmarshal(data, &x); err != nil {
		return fmt.Errorf("pedersen: unmarshal: %w", err)
	}
	nNat := new(saferith.Nat).SetBytes(x.N)
	if nNat.EqZero() == 1 {
		return ErrNilFields
	}
	n := saferith.ModulusFromNat(nNat)
	s := new(saferith.Nat).SetBytes(x.S)
	t := new(saferith.Nat).SetBytes(x.T)
	if err := ValidateParameters(n, s, t); err != nil {
		return err
	}
	*p = Parameters{n: arith.ModulusFromN(n), s: s, t: t}
	return nil
}
