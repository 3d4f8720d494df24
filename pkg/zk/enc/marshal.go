package zkenc

import (
	"errors"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/mta/pkg/paillier"
)

type proofCBOR struct {
	_          struct{} `cbor:",toarray"`
	S, A, C    []byte
	Z1, Z2, Z3 []byte
}

// intBytes encodes i as a sign byte followed by its absolute value.
func intBytes(i *saferith.Int) []byte {
	return append([]byte{byte(i.IsNegative())}, i.Abs().Bytes()...)
}

func intFromBytes(data []byte) (*saferith.Int, error) {
	if len(data) == 0 || data[0] > 1 {
		return nil, errors.New("zkenc: invalid integer encoding")
	}
	out := new(saferith.Int).SetBytes(data[1:])
	out.Neg(saferith.Choice(data[0]))
	return out, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p *Proof) MarshalBinary() ([]byte, error) {
	if !p.isAllocated() {
		return nil, errors.New("zkenc: cannot marshal incomplete proof")
	}
	A, err := p.A.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(proofCBOR{
		S:  p.S.Bytes(),
		A:  A,
		C:  p.C.Bytes(),
		Z1: intBytes(p.Z1),
		Z2: p.Z2.Bytes(),
		Z3: intBytes(p.Z3),
	})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *Proof) UnmarshalBinary(data []byte) error {
	var x proofCBOR
	if err := cbor.Unmarshal(data, &x); err != nil {
		return err
	}
	z1, err := intFromBytes(x.Z1)
	if err != nil {
		return err
	}
	z3, err := intFromBytes(x.Z3)
	if err != nil {
		return err
	}
	A := new(paillier.Ciphertext)
	if err = A.UnmarshalBinary(x.A); err != nil {
		return err
	}
	*p = Proof{
		Commitment: &Commitment{
			S: new(saferith.Nat).SetBytes(x.S),
			A: A,
			C: new(saferith.Nat).SetBytes(x.C),
		},
		Z1: z1,
		Z2: new(saferith.Nat).SetBytes(x.Z2),
		Z3: z3,
	}
	return nil
}

func (p *Proof) isAllocated() bool {
	return p != nil && p.Commitment != nil && p.S != nil && p.A != nil && p.C != nil &&
		p.Z1 != nil && p.Z2 != nil && p.Z3 != nil
}
