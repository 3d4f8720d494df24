package mta

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/mta/pkg/paillier"
	zkenc "github.com/taurusgroup/mta/pkg/zk/enc"
)

var encMode = func() cbor.EncMode {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}()

type messageAMarshal struct {
	_           struct{} `cbor:",toarray"`
	C           []byte
	RangeProofs [][]byte
}

type messageBMarshal struct {
	_            struct{} `cbor:",toarray"`
	C            []byte
	BProof       []byte
	BetaTagProof []byte
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *MessageA) MarshalBinary() ([]byte, error) {
	if m == nil || m.C == nil {
		return nil, errors.New("mta: cannot marshal incomplete MessageA")
	}
	C, err := m.C.MarshalBinary()
	if err != nil {
		return nil, err
	}
	proofs := make([][]byte, len(m.RangeProofs))
	for i, p := range m.RangeProofs {
		if proofs[i], err = p.MarshalBinary(); err != nil {
			return nil, fmt.Errorf("mta: range proof %d: %w", i, err)
		}
	}
	return encMode.Marshal(messageAMarshal{C: C, RangeProofs: proofs})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// The contents are only checked by NewMessageB.
func (m *MessageA) UnmarshalBinary(data []byte) error {
	var x messageAMarshal
	if err := cbor.Unmarshal(data, &x); err != nil {
		return fmt.Errorf("mta: %w", err)
	}
	C := new(paillier.Ciphertext)
	if err := C.UnmarshalBinary(x.C); err != nil {
		return fmt.Errorf("mta: %w", err)
	}
	proofs := make([]*zkenc.Proof, len(x.RangeProofs))
	for i, data := range x.RangeProofs {
		proofs[i] = zkenc.Empty()
		if err := proofs[i].UnmarshalBinary(data); err != nil {
			return fmt.Errorf("mta: range proof %d: %w", i, err)
		}
	}
	m.C = C
	m.RangeProofs = proofs
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *MessageB) MarshalBinary() ([]byte, error) {
	if m == nil || m.C == nil {
		return nil, errors.New("mta: cannot marshal incomplete MessageB")
	}
	C, err := m.C.MarshalBinary()
	if err != nil {
		return nil, err
	}
	bProof, err := m.BProof.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("mta: b proof: %w", err)
	}
	betaTagProof, err := m.BetaTagProof.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("mta: beta_tag proof: %w", err)
	}
	return encMode.Marshal(messageBMarshal{C: C, BProof: bProof, BetaTagProof: betaTagProof})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// m must have been created with EmptyMessageB.
func (m *MessageB) UnmarshalBinary(data []byte) error {
	if m == nil || m.BProof == nil || m.BetaTagProof == nil {
		return errors.New("mta: MessageB must be initialized using EmptyMessageB")
	}
	var x messageBMarshal
	if err := cbor.Unmarshal(data, &x); err != nil {
		return fmt.Errorf("mta: %w", err)
	}
	C := new(paillier.Ciphertext)
	if err := C.UnmarshalBinary(x.C); err != nil {
		return fmt.Errorf("mta: %w", err)
	}
	if err := m.BProof.UnmarshalBinary(x.BProof); err != nil {
		return fmt.Errorf("mta: b proof: %w", err)
	}
	if err := m.BetaTagProof.UnmarshalBinary(x.BetaTagProof); err != nil {
		return fmt.Errorf("mta: beta_tag proof: %w", err)
	}
	m.C = C
	return nil
}
