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
	zksch "github.com/taurusgroup/mta/pkg/zk/sch"
)

// MessageB is sent by B back to A.
type MessageB struct {
	// C = (b ⊙ C_A) ⊕ Enc_A(beta_tag; nonce)
	C *paillier.Ciphertext
	// BProof proves knowledge of b, and carries B = b•G.
	BProof *zksch.DLog
	// BetaTagProof proves knowledge of beta_tag (mod q), and carries beta_tag•G.
	BetaTagProof *zksch.DLog
}

// NewMessageB checks msgA against statements, and answers it with fresh randomness.
// It returns the message, B's share beta and the randomness that was used.
//
// Besides the range proof count and the range proofs themselves, NewMessageB
// rejects b = 0 and beta_tag ≡ 0 (mod q), since neither exponent could then be
// proven to A. The latter happens with negligible probability for fresh randomness.
func NewMessageB(group curve.Curve, h *hash.Hash, pl *pool.Pool, b curve.Scalar, ek *paillier.PublicKey, msgA *MessageA, statements []*pedersen.Parameters) (*MessageB, curve.Scalar, *Randomness, error) {
	if msgA == nil || len(msgA.RangeProofs) != len(statements) {
		return nil, nil, nil, reject(opMessageB, "range proof count does not match statements")
	}
	if ek == nil {
		return nil, nil, nil, reject(opMessageB, "missing encryption key")
	}
	randomness := &Randomness{
		Nonce:   sample.UnitModN(rand.Reader, ek.N()),
		BetaTag: sample.ModN(rand.Reader, ek.N()),
	}
	msgB, beta, err := NewMessageBWithRandomness(group, h, pl, b, ek, msgA, randomness, statements)
	if err != nil {
		return nil, nil, nil, err
	}
	return msgB, beta, randomness, nil
}

// NewMessageBWithRandomness is like NewMessageB, but uses the given randomness.
// The ciphertext only depends on b, ek, msgA.C and randomness.
//
// The checks are performed in order, and the first failing one returns ErrInvalid:
//   - len(msgA.RangeProofs) = len(statements), before anything else is read;
//   - all inputs are present, C_A ∈ ℤ_{N²}ˣ, nonce ∈ ℤₙˣ and beta_tag ∈ [0, N);
//   - every range proof verifies against its statement;
//   - b ≠ 0 and beta_tag ≢ 0 (mod q), so that both can be proven.
//
// The last check goes beyond validating msgA: a zero exponent has no proof of
// knowledge, so the answer is refused rather than sent without one.
//
// ek, msgA, randomness and statements are only read, and may be shared with other exchanges.
func NewMessageBWithRandomness(group curve.Curve, h *hash.Hash, pl *pool.Pool, b curve.Scalar, ek *paillier.PublicKey, msgA *MessageA, randomness *Randomness, statements []*pedersen.Parameters) (*MessageB, curve.Scalar, error) {
	if msgA == nil || len(msgA.RangeProofs) != len(statements) {
		return nil, nil, reject(opMessageB, "range proof count does not match statements")
	}

	if group == nil || ek == nil || b == nil || randomness == nil {
		return nil, nil, reject(opMessageB, "missing input")
	}
	for _, statement := range statements {
		if statement == nil {
			return nil, nil, reject(opMessageB, "missing statement")
		}
	}
	ek = ek.Clone()
	cA := msgA.C.Clone()
	nonce, betaTagNat := arith.CloneNat(randomness.Nonce), arith.CloneNat(randomness.BetaTag)
	if !ek.ValidateCiphertexts(cA) {
		return nil, nil, reject(opMessageB, "invalid ciphertext")
	}
	if !ek.ValidateNonce(nonce) || !arith.IsBelowN(ek.N(), betaTagNat) {
		return nil, nil, reject(opMessageB, "randomness out of range")
	}

	h = orNew(h)
	if !verifyRangeProofs(group, h, pl, ek, cA, msgA.RangeProofs, statements) {
		return nil, nil, reject(opMessageB, "range proof verification failed")
	}

	// C_B = (b ⊙ C_A) ⊕ Enc(beta_tag; nonce)
	betaTagInt := new(saferith.Int).SetNat(betaTagNat)
	blinding := ek.EncWithNonce(betaTagInt, nonce)
	C := cA.Mul(ek, curve.MakeInt(b)).Add(ek, blinding)

	// beta = -(beta_tag mod q)
	betaTag := betaTagScalar(group, betaTagNat)
	beta := group.NewScalar().Sub(betaTag)

	bProof, err := zksch.ProveDLog(bProofHash(h), b)
	if err != nil {
		return nil, nil, reject(opMessageB, "b is zero")
	}
	betaTagProof, err := zksch.ProveDLog(betaTagProofHash(h), betaTag)
	if err != nil {
		return nil, nil, reject(opMessageB, "beta_tag is zero mod q")
	}

	return &MessageB{
		C:            C,
		BProof:       bProof,
		BetaTagProof: betaTagProof,
	}, beta, nil
}

// betaTagScalar reduces beta_tag ∈ [0, N) modulo q.
// Both B's share and the proof of beta_tag use this reduction.
func betaTagScalar(group curve.Curve, betaTag *saferith.Nat) curve.Scalar {
	return group.NewScalar().SetNat(betaTag)
}

// verifyRangeProof is replaced in tests to count verifications.
var verifyRangeProof = (*zkenc.Proof).Verify

// verifyRangeProofs verifies every proof before combining the results, so that
// the time taken does not depend on which proof failed.
func verifyRangeProofs(group curve.Curve, h *hash.Hash, pl *pool.Pool, ek *paillier.PublicKey, C *paillier.Ciphertext, proofs []*zkenc.Proof, statements []*pedersen.Parameters) bool {
	hashes := make([]*hash.Hash, len(statements))
	for i := range hashes {
		hashes[i] = rangeProofHash(h)
	}
	results := pl.Parallelize(len(statements), func(i int) interface{} {
		public := zkenc.Public{K: C, Prover: ek, Aux: statements[i]}
		return verifyRangeProof(proofs[i], group, hashes[i], public)
	})
	valid := true
	for _, r := range results {
		valid = r.(bool) && valid
	}
	return valid
}

// EmptyMessageB returns a MessageB with allocated points, ready to be unmarshalled into.
func EmptyMessageB(group curve.Curve) *MessageB {
	return &MessageB{
		BProof:       zksch.EmptyDLog(group),
		BetaTagProof: zksch.EmptyDLog(group),
	}
}
