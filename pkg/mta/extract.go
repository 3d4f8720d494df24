package mta

import (
	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/mta/pkg/hash"
	"github.com/taurusgroup/mta/pkg/math/curve"
)

// VerifyProofsGetAlpha is run by A on the MessageB answering its MessageA.
// It decrypts C_B with dk, and returns alpha = Dec(C_B) mod q along with the
// decrypted plaintext in [0, N).
//
// Both proofs are verified, and A checks that a•B + beta_tag•G = alpha•G,
// where B and beta_tag•G are the points carried by the proofs.
// Any failure returns ErrInvalid.
func (m *MessageB) VerifyProofsGetAlpha(group curve.Curve, h *hash.Hash, dk Decryptor, a curve.Scalar) (curve.Scalar, *saferith.Nat, error) {
	if m == nil || m.C == nil || m.BProof == nil || m.BetaTagProof == nil {
		return nil, nil, reject(opExtract, "incomplete message")
	}
	if group == nil || dk == nil || a == nil {
		return nil, nil, reject(opExtract, "missing input")
	}

	plaintext, err := dk.Dec(m.C)
	if err != nil {
		return nil, nil, reject(opExtract, "decryption failed")
	}
	alpha := group.NewScalar().SetNat(plaintext)

	h = orNew(h)
	bValid := m.BProof.Verify(bProofHash(h))
	betaTagValid := m.BetaTagProof.Verify(betaTagProofHash(h))
	if !bValid || !betaTagValid {
		return nil, nil, reject(opExtract, "knowledge of exponent proof failed")
	}

	// a•B + beta_tag•G = alpha•G
	lhs := a.Act(m.BProof.X).Add(m.BetaTagProof.X)
	if !lhs.Equal(alpha.ActOnBase()) {
		return nil, nil, reject(opExtract, "decryption inconsistent with committed exponents")
	}

	return alpha, plaintext, nil
}
