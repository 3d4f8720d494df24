package hash

import (
	"encoding"
	"fmt"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/mta/internal/params"
	"github.com/zeebo/blake3"
)

const DigestLengthBytes = params.SecBytes * 2 // 64

// Hash is the hash function used to derive Fiat-Shamir challenges.
//
// Internally, this is a wrapper around blake3.Hasher, whose extendable output
// is used as a source of randomness by the proofs.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash with an empty state.
func New() *Hash {
	return &Hash{h: blake3.New()}
}

// Digest returns a reader for the current output of the function.
//
// This finalizes the current state of the hash, and returns what's
// essentially a stream of random bytes.
func (hash *Hash) Digest() io.Reader {
	return hash.h.Digest()
}

// Sum returns a slice of length DigestLengthBytes resulting from the current hash state.
// If a different length is required, use io.ReadFull(hash.Digest(), out) instead.
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash.Sum: internal hash failure: %v", err))
	}
	return out
}

// WriteAny takes many different data types and writes them to the hash state.
//
// Currently supported types:
//
//   - []byte
//   - *saferith.Nat, *saferith.Int, *saferith.Modulus
//   - *big.Int
//   - hash.WriterToWithDomain
//   - encoding.BinaryMarshaler (curve points and scalars)
//
// Each value is written as (<domain><data>). Integers are encoded with their
// minimal big endian representation, so that the result does not depend on the
// capacity a saferith value happens to carry.
func (hash *Hash) WriteAny(data ...interface{}) error {
	for _, d := range data {
		var toBeWritten WriterToWithDomain
		switch t := d.(type) {
		case []byte:
			toBeWritten = &BytesWithDomain{"[]byte", t}
		case *saferith.Nat:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *saferith.Nat: nil")
			}
			toBeWritten = &BytesWithDomain{"saferith.Nat", t.Big().Bytes()}
		case *saferith.Int:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *saferith.Int: nil")
			}
			sign := byte(t.IsNegative())
			toBeWritten = &BytesWithDomain{"saferith.Int", append([]byte{sign}, t.Abs().Big().Bytes()...)}
		case *saferith.Modulus:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *saferith.Modulus: nil")
			}
			toBeWritten = &BytesWithDomain{"saferith.Modulus", t.Big().Bytes()}
		case *big.Int:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *big.Int: nil")
			}
			bytes, err := t.GobEncode()
			if err != nil {
				return fmt.Errorf("hash.Hash: GobEncode: %w", err)
			}
			toBeWritten = &BytesWithDomain{"big.Int", bytes}
		case WriterToWithDomain:
			toBeWritten = t
		case encoding.BinaryMarshaler:
			bytes, err := t.MarshalBinary()
			if err != nil {
				return fmt.Errorf("hash.Hash: write encoding.BinaryMarshaler: %w", err)
			}
			toBeWritten = &BytesWithDomain{"BinaryMarshaler", bytes}
		default:
			return fmt.Errorf("hash.Hash: unsupported type %T", d)
		}
		if err := writeWithDomain(hash.h, toBeWritten); err != nil {
			return fmt.Errorf("hash.Hash: write %s: %w", toBeWritten.Domain(), err)
		}
	}
	return nil
}

// Clone returns a copy of the Hash in its current state.
func (hash *Hash) Clone() *Hash {
	return &Hash{h: hash.h.Clone()}
}

// Fork returns a copy of the Hash in its current state, to which data has been appended.
func (hash *Hash) Fork(data ...interface{}) *Hash {
	newHash := hash.Clone()
	if err := newHash.WriteAny(data...); err != nil {
		panic(err)
	}
	return newHash
}
