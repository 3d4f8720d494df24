package zksch

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/mta/pkg/hash"
	"github.com/taurusgroup/mta/pkg/math/curve"
)

// ErrZeroSecret is returned when asked to prove knowledge of a zero secret.
var ErrZeroSecret = errors.New("zksch: cannot prove knowledge of a zero exponent")

// DLog is a self-contained proof of knowledge of x such that X = x•G.
// It carries the public point X along with the Schnorr proof.
type DLog struct {
	X     curve.Point
	Proof *Proof
}

// ProveDLog returns X = x•G together with a proof of knowledge of x.
func ProveDLog(hash *hash.Hash, x curve.Scalar) (*DLog, error) {
	if x == nil || x.IsZero() {
		return nil, ErrZeroSecret
	}
	group := x.Curve()
	X := x.ActOnBase()
	a := NewRandomness(rand.Reader, group, nil)
	z := a.Prove(hash, X, x, nil)
	if z == nil {
		return nil, ErrZeroSecret
	}
	return &DLog{
		X:     X,
		Proof: &Proof{C: *a.Commitment(), Z: *z},
	}, nil
}

// Verify returns true if the proof shows knowledge of the discrete logarithm of d.X.
func (d *DLog) Verify(hash *hash.Hash) bool {
	if d == nil || d.X == nil || d.Proof == nil {
		return false
	}
	return d.Proof.Verify(hash, d.X, nil)
}

// EmptyDLog returns a DLog with allocated points and scalars, ready to be unmarshalled into.
func EmptyDLog(group curve.Curve) *DLog {
	return &DLog{
		X:     group.NewPoint(),
		Proof: EmptyProof(group),
	}
}

type dlogCBOR struct {
	_       struct{} `cbor:",toarray"`
	X, C, Z []byte
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (d *DLog) MarshalBinary() ([]byte, error) {
	if d == nil || d.X == nil || d.Proof == nil || !d.Proof.IsValid() {
		return nil, errors.New("zksch: cannot marshal incomplete proof")
	}
	X, err := d.X.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("zksch: marshal X: %w", err)
	}
	C, err := d.Proof.C.C.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("zksch: marshal commitment: %w", err)
	}
	Z, err := d.Proof.Z.Z.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("zksch: marshal response: %w", err)
	}
	return cbor.Marshal(dlogCBOR{X: X, C: C, Z: Z})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// d must have been created with EmptyDLog.
func (d *DLog) UnmarshalBinary(data []byte) error {
	if d == nil || d.X == nil || d.Proof == nil || d.Proof.C.C == nil || d.Proof.Z.Z == nil {
		return errors.New("zksch: unmarshal into uninitialized proof")
	}
	var x dlogCBOR
	if err := cbor.Unmarshal(data, &x); err != nil {
		return err
	}
	if err := d.X.UnmarshalBinary(x.X); err != nil {
		return fmt.Errorf("zksch: unmarshal X: %w", err)
	}
	if err := d.Proof.C.C.UnmarshalBinary(x.C); err != nil {
		return fmt.Errorf("zksch: unmarshal commitment: %w", err)
	}
	if err := d.Proof.Z.Z.UnmarshalBinary(x.Z); err != nil {
		return fmt.Errorf("zksch: unmarshal response: %w", err)
	}
	return nil
}
