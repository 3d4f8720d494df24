package sample

import (
	"bytes"
	"crypto/rand"
	"io"
	"math/big"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/mta/internal/params"
	"github.com/taurusgroup/mta/pkg/math/curve"
)

func TestModN(t *testing.T) {
	n := saferith.ModulusFromUint64(3 * 11 * 65519)
	for i := 0; i < 100; i++ {
		x := ModN(rand.Reader, n)
		_, _, lt := x.CmpMod(n)
		assert.Equal(t, saferith.Choice(1), lt, "ModN generated a number >= %v: %v", n, x)
	}
}

func TestUnitModN(t *testing.T) {
	n := saferith.ModulusFromUint64(3 * 11)
	for i := 0; i < 100; i++ {
		u := UnitModN(rand.Reader, n)
		assert.Equal(t, saferith.Choice(1), u.IsUnit(n))
	}
}

func TestOddPrimes(t *testing.T) {
	assert.Equal(t, []uint32{3, 5, 7, 11, 13, 17, 19, 23, 29}, oddPrimes(30))
}

func TestBlumPrime(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping safe prime generation in short mode")
	}
	var p *saferith.Nat
	for p == nil {
		p = tryBlumPrime(rand.Reader)
	}
	pBig := p.Big()
	assert.Equal(t, params.BitsBlumPrime, pBig.BitLen())
	assert.True(t, pBig.ProbablyPrime(20), "p must be prime")
	q := new(big.Int).Rsh(pBig, 1)
	assert.True(t, q.ProbablyPrime(20), "(p-1)/2 must be prime")
	assert.Equal(t, uint64(3), new(big.Int).Mod(pBig, big.NewInt(4)).Uint64())
}

func TestIntervals(t *testing.T) {
	group := curve.Secp256k1{}
	for i := 0; i < 20; i++ {
		assert.LessOrEqual(t, IntervalL(rand.Reader).TrueLen(), params.L)
		assert.LessOrEqual(t, IntervalLEps(rand.Reader).TrueLen(), params.LPlusEpsilon)
		assert.LessOrEqual(t, IntervalLN(rand.Reader).TrueLen(), params.L+params.BitsIntModN)
		assert.LessOrEqual(t, IntervalLEpsN(rand.Reader).TrueLen(), params.LPlusEpsilon+params.BitsIntModN)
		assert.LessOrEqual(t, IntervalScalar(rand.Reader, group).TrueLen(), group.ScalarBits())
	}
}

func TestScalar(t *testing.T) {
	group := curve.Secp256k1{}
	a := Scalar(rand.Reader, group)
	b := Scalar(rand.Reader, group)
	assert.False(t, a.Equal(b))
	assert.False(t, ScalarUnit(rand.Reader, group).IsZero())

	s, P := ScalarPointPair(rand.Reader, group)
	assert.True(t, s.ActOnBase().Equal(P))
}

func TestSeededReader(t *testing.T) {
	seed := []byte("seed")
	a := make([]byte, 100)
	b := make([]byte, 100)
	_, err := io.ReadFull(NewSeededReader(seed), a)
	require.NoError(t, err)
	_, err = io.ReadFull(NewSeededReader(seed), b)
	require.NoError(t, err)
	assert.Equal(t, a, b, "same seed should give the same stream")
	assert.False(t, bytes.Equal(a, make([]byte, 100)))

	_, err = io.ReadFull(NewSeededReader([]byte("other")), b)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	group := curve.Secp256k1{}
	s1 := Scalar(NewSeededReader(seed), group)
	s2 := Scalar(NewSeededReader(seed), group)
	assert.True(t, s1.Equal(s2))
}

// This exists to save the results of functions we want to benchmark, to avoid
// having them optimized away.
var resultNat *saferith.Nat

func BenchmarkModN(b *testing.B) {
	b.StopTimer()
	nBytes := make([]byte, (params.BitsPaillier+7)/8)
	_, _ = rand.Read(nBytes)
	nBytes[0] |= 0x80
	n := saferith.ModulusFromBytes(nBytes)
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		resultNat = ModN(rand.Reader, n)
	}
}
