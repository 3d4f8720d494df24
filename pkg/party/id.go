package party

import (
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/mta/pkg/math/curve"
)

// ID represents a unique identifier for a participant in our scheme.
//
// You should think of this type as an opaque identifier for a party. IDs are
// public, and every party shares the same view of them.
type ID string

// Scalar converts this ID into a scalar, by interpreting its bytes as a big endian integer.
func (id ID) Scalar(group curve.Curve) curve.Scalar {
	return group.NewScalar().SetNat(new(saferith.Nat).SetBytes([]byte(id)))
}

// WriteTo implements io.WriterTo interface.
func (id ID) WriteTo(w io.Writer) (int64, error) {
	if id == "" {
		return 0, io.ErrUnexpectedEOF
	}
	n, err := w.Write([]byte(id))
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (ID) Domain() string {
	return "ID"
}
