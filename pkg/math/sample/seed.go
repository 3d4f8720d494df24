package sample

import (
	"io"

	"golang.org/x/crypto/chacha20"
)

// seededReader expands a seed into a deterministic stream of bytes.
type seededReader struct {
	cipher *chacha20.Cipher
}

// NewSeededReader returns an io.Reader producing the ChaCha20 keystream keyed by
// seed, truncated or zero padded to 32 bytes.
//
// The same seed always yields the same stream, which makes sampling reproducible
// in tests and benchmarks. It must never be used to generate key material.
func NewSeededReader(seed []byte) io.Reader {
	var key [chacha20.KeySize]byte
	copy(key[:], seed)
	var nonce [chacha20.NonceSize]byte
	cipher, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		panic(err)
	}
	return &seededReader{cipher: cipher}
}

func (r *seededReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	r.cipher.XORKeyStream(p, p)
	return len(p), nil
}
