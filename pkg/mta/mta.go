// Package mta implements the Paillier based multiplicative-to-additive share
// conversion used by GG18 threshold ECDSA.
//
// Party A holds a and a Paillier key pair, party B holds b. After the exchange
//
//	A → MessageA → B → MessageB → A
//
// A holds alpha and B holds beta such that alpha + beta ≡ a⋅b (mod q).
// Every function is stateless, and independent exchanges may run concurrently.
package mta

import (
	"errors"

	"github.com/cronokirby/saferith"
	"github.com/rs/zerolog/log"
	"github.com/taurusgroup/mta/pkg/hash"
	"github.com/taurusgroup/mta/pkg/paillier"
	"github.com/taurusgroup/mta/pkg/party"
)

// ErrInvalid is returned for every rejected input: malformed messages, failed
// proofs and an inconsistent decryption all look the same to the caller.
var ErrInvalid = errors.New("mta: invalid key or input")

// Decryptor is the capability to decrypt ciphertexts under A's Paillier key.
// It is implemented by *paillier.SecretKey and *config.Config.
type Decryptor interface {
	Dec(ct *paillier.Ciphertext) (*saferith.Nat, error)
}

var _ Decryptor = (*paillier.SecretKey)(nil)

// Randomness is the randomness B uses to build a MessageB.
type Randomness struct {
	// Nonce ∈ ℤₙˣ is the Paillier nonce used to encrypt BetaTag.
	Nonce *saferith.Nat
	// BetaTag ∈ [0, N) is the additive blinding of a⋅b.
	BetaTag *saferith.Nat
}

const (
	opMessageB = "message_b"
	opExtract  = "extract"
)

func reject(op, reason string) error {
	log.Debug().Str("op", op).Str("reason", reason).Msg("mta: rejected input")
	return ErrInvalid
}

// SessionHash returns a transcript hash binding the proofs of an exchange to
// the initiator, the responder and any additional context, such as a
// config.Config or a session identifier.
func SessionHash(from, to party.ID, context ...interface{}) (*hash.Hash, error) {
	h := hash.New()
	if err := h.WriteAny(from, to); err != nil {
		return nil, err
	}
	if err := h.WriteAny(context...); err != nil {
		return nil, err
	}
	return h, nil
}

// the proofs of an exchange each use their own fork of the transcript.
func rangeProofHash(h *hash.Hash) *hash.Hash {
	return h.Fork([]byte("range proof"))
}

func bProofHash(h *hash.Hash) *hash.Hash {
	return h.Fork([]byte("b"))
}

func betaTagProofHash(h *hash.Hash) *hash.Hash {
	return h.Fork([]byte("beta_tag"))
}

func orNew(h *hash.Hash) *hash.Hash {
	if h == nil {
		return hash.New()
	}
	return h
}
