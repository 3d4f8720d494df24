package zkenc

import (
	"crypto/rand"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/mta/pkg/hash"
	"github.com/taurusgroup/mta/pkg/math/arith"
	"github.com/taurusgroup/mta/pkg/math/curve"
	"github.com/taurusgroup/mta/pkg/math/sample"
	"github.com/taurusgroup/mta/pkg/paillier"
	"github.com/taurusgroup/mta/pkg/pedersen"
)

// Public is the statement of a range proof: a Paillier ciphertext under the prover's key,
// and the verifier's ring-Pedersen parameters.
type Public struct {
	// K = Enc₀(k;ρ)
	K *paillier.Ciphertext

	Prover *paillier.PublicKey
	Aux    *pedersen.Parameters
}

// clone returns a copy of public that shares no saferith value with it.
func (public Public) clone() Public {
	return Public{
		K:      public.K.Clone(),
		Prover: public.Prover.Clone(),
		Aux:    public.Aux.Clone(),
	}
}

// Private is the witness for Public.K.
type Private struct {
	// K = k ∈ 2ˡ = Dec₀(K)
	// plaintext of K
	K *saferith.Int

	// Rho = ρ
	// nonce of K
	Rho *saferith.Nat
}

type Commitment struct {
	// S = sᵏtᵘ
	S *saferith.Nat
	// A = Enc₀ (α, r)
	A *paillier.Ciphertext
	// C = sᵃtᵍ
	C *saferith.Nat
}

// Proof is a proof that the plaintext of Public.K lies in ±2^(ℓ+ε).
type Proof struct {
	*Commitment
	// Z₁ = α + e⋅k
	Z1 *saferith.Int
	// Z₂ = r ⋅ ρᵉ mod N₀
	Z2 *saferith.Nat
	// Z₃ = γ + e⋅μ
	Z3 *saferith.Int
}

func (p *Proof) IsValid(public Public) bool {
	if !p.isAllocated() {
		return false
	}
	if !public.Prover.ValidateCiphertexts(p.A) {
		return false
	}
	if !arith.IsValidNatModN(public.Prover.N(), p.Z2) {
		return false
	}
	return true
}

// NewProof proves the statement for the verifier whose parameters are public.Aux.
// Neither public nor private is written to.
func NewProof(group curve.Curve, hash *hash.Hash, public Public, private Private) *Proof {
	public = public.clone()
	private = Private{K: arith.CloneInt(private.K), Rho: arith.CloneNat(private.Rho)}
	N := public.Prover.N()

	alpha := sample.IntervalLEps(rand.Reader)
	r := sample.UnitModN(rand.Reader, N)
	mu := sample.IntervalLN(rand.Reader)
	gamma := sample.IntervalLEpsN(rand.Reader)

	A := public.Prover.EncWithNonce(alpha, r)

	commitment := &Commitment{
		S: public.Aux.Commit(private.K, mu),
		A: A,
		C: public.Aux.Commit(alpha, gamma),
	}

	e, _ := challenge(hash, group, public, commitment)

	z1 := new(saferith.Int).Mul(e, private.K, -1)
	z1.Add(z1, alpha, -1)

	z2 := new(saferith.Nat).ExpI(private.Rho, e, N)
	z2.ModMul(z2, r, N)

	z3 := new(saferith.Int).Mul(e, mu, -1)
	z3.Add(z3, gamma, -1)

	return &Proof{
		Commitment: commitment,
		Z1:         z1,
		Z2:         z2,
		Z3:         z3,
	}
}

// Verify reports whether p is a valid proof for public.
// p and public are only read, so a proof may be checked from several goroutines.
func (p *Proof) Verify(group curve.Curve, hash *hash.Hash, public Public) bool {
	if public.K == nil || public.Prover == nil || public.Aux == nil {
		return false
	}
	if !p.isAllocated() {
		return false
	}
	p, public = p.clone(), public.clone()
	if !p.IsValid(public) {
		return false
	}

	prover := public.Prover

	if !arith.IsInIntervalLEps(p.Z1) {
		return false
	}

	e, err := challenge(hash, group, public, p.Commitment)
	if err != nil {
		return false
	}

	if !public.Aux.Verify(p.Z1, p.Z3, e, p.C, p.S) {
		return false
	}

	{
		// lhs = Enc(z₁;z₂)
		lhs := prover.EncWithNonce(p.Z1, p.Z2)

		// rhs = (e ⊙ K) ⊕ A
		rhs := public.K.Clone().Mul(prover, e).Add(prover, p.A)
		if !lhs.Equal(rhs) {
			return false
		}
	}

	return true
}

func (p *Proof) clone() *Proof {
	return &Proof{
		Commitment: &Commitment{
			S: arith.CloneNat(p.S),
			A: p.A.Clone(),
			C: arith.CloneNat(p.C),
		},
		Z1: arith.CloneInt(p.Z1),
		Z2: arith.CloneNat(p.Z2),
		Z3: arith.CloneInt(p.Z3),
	}
}

func challenge(hash *hash.Hash, group curve.Curve, public Public, commitment *Commitment) (e *saferith.Int, err error) {
	err = hash.WriteAny(public.Aux, public.Prover, public.K,
		commitment.S, commitment.A, commitment.C)
	e = sample.IntervalScalar(hash.Digest(), group)
	return
}

// Empty returns a proof with allocated fields, ready to be unmarshalled into.
func Empty() *Proof {
	return &Proof{Commitment: &Commitment{}}
}
