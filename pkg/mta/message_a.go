package mta

import (
	"crypto/rand"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/mta/pkg/hash"
	"github.com/taurusgroup/mta/pkg/math/arith"
	"github.com/taurusgroup/mta/pkg/math/curve"
	"github.com/taurusgroup/mta/pkg/math/sample"
	"github.com/taurusgroup/mta/pkg/paillier"
	"github.com/taurusgroup/mta/pkg/pedersen"
	"github.com/taurusgroup/mta/pkg/pool"
	zkenc "github.com/taurusgroup/mta/pkg/zk/enc"
)

// MessageA is sent by A to B.
type MessageA struct {
	// C = Enc_A(a; ρ)
	C *paillier.Ciphertext
	// RangeProofs[i] proves that |a| < 2ˡ, for the verifier owning statements[i].
	RangeProofs []*zkenc.Proof
}

// NewMessageA encrypts a under ek with a fresh nonce ρ ∈ ℤₙˣ, and proves that
// the plaintext is small once for each statement.
// It returns the message and ρ.
func NewMessageA(group curve.Curve, h *hash.Hash, pl *pool.Pool, a curve.Scalar, ek *paillier.PublicKey, statements []*pedersen.Parameters) (*MessageA, *saferith.Nat) {
	nonce := sample.UnitModN(rand.Reader, ek.N())
	return NewMessageAWithNonce(group, h, pl, a, ek, nonce, statements), nonce
}

// NewMessageAWithNonce is like NewMessageA, but encrypts with the given nonce.
// The ciphertext only depends on a, ek and nonce.
//
// ek, nonce and statements are only read, and may be shared with other exchanges.
func NewMessageAWithNonce(group curve.Curve, h *hash.Hash, pl *pool.Pool, a curve.Scalar, ek *paillier.PublicKey, nonce *saferith.Nat, statements []*pedersen.Parameters) *MessageA {
	ek, nonce = ek.Clone(), arith.CloneNat(nonce)
	h = orNew(h)
	aInt := curve.MakeInt(a)
	C := ek.EncWithNonce(aInt, nonce)

	hashes := make([]*hash.Hash, len(statements))
	for i := range hashes {
		hashes[i] = rangeProofHash(h)
	}
	private := zkenc.Private{K: aInt, Rho: nonce}
	results := pl.Parallelize(len(statements), func(i int) interface{} {
		public := zkenc.Public{K: C, Prover: ek, Aux: statements[i]}
		return zkenc.NewProof(group, hashes[i], public, private)
	})

	proofs := make([]*zkenc.Proof, len(results))
	for i, r := range results {
		proofs[i] = r.(*zkenc.Proof)
	}
	return &MessageA{
		C:           C,
		RangeProofs: proofs,
	}
}

// EmptyMessageA returns a MessageA ready to be unmarshalled into.
func EmptyMessageA(curve.Curve) *MessageA {
	return &MessageA{}
}
