package zksch

import (
	"crypto/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/mta/pkg/hash"
	"github.com/taurusgroup/mta/pkg/math/curve"
	"github.com/taurusgroup/mta/pkg/math/sample"
)

func TestSchPass(t *testing.T) {
	group := curve.Secp256k1{}

	a := NewRandomness(rand.Reader, group, nil)
	x, X := sample.ScalarPointPair(rand.Reader, group)

	proof := a.Prove(hash.New(), X, x, nil)
	assert.True(t, proof.Verify(hash.New(), X, a.Commitment(), nil), "failed to verify response")
	assert.True(t, NewProof(hash.New(), X, x, nil).Verify(hash.New(), X, nil), "failed to verify proof")
}

func TestSchFail(t *testing.T) {
	group := curve.Secp256k1{}

	a := NewRandomness(rand.Reader, group, nil)
	x, X := group.NewScalar(), group.NewPoint()

	assert.Nil(t, a.Prove(hash.New(), X, x, nil), "proof should not accept identity point")

	var nilProof *Proof
	assert.False(t, nilProof.Verify(hash.New(), sample.Scalar(rand.Reader, group).ActOnBase(), nil))
	assert.False(t, EmptyProof(group).Verify(hash.New(), sample.Scalar(rand.Reader, group).ActOnBase(), nil))
}

func TestSchWrongStatement(t *testing.T) {
	group := curve.Secp256k1{}
	x, X := sample.ScalarPointPair(rand.Reader, group)
	proof := NewProof(hash.New(), X, x, nil)
	require.NotNil(t, proof)

	_, Y := sample.ScalarPointPair(rand.Reader, group)
	assert.False(t, proof.Verify(hash.New(), Y, nil))

	h := hash.New()
	require.NoError(t, h.WriteAny([]byte("other")))
	assert.False(t, proof.Verify(h, X, nil))
}

func TestSchGenerator(t *testing.T) {
	group := curve.Secp256k1{}
	gen := sample.Scalar(rand.Reader, group).ActOnBase()
	x := sample.ScalarUnit(rand.Reader, group)
	X := x.Act(gen)

	proof := NewProof(hash.New(), X, x, gen)
	assert.True(t, proof.Verify(hash.New(), X, gen))
	assert.False(t, proof.Verify(hash.New(), X, nil), "proof is bound to its generator")
}

func TestDLog(t *testing.T) {
	group := curve.Secp256k1{}
	x := sample.ScalarUnit(rand.Reader, group)

	d, err := ProveDLog(hash.New(), x)
	require.NoError(t, err)
	assert.True(t, d.X.Equal(x.ActOnBase()))
	assert.True(t, d.Verify(hash.New()))

	data, err := d.MarshalBinary()
	require.NoError(t, err)
	d2 := EmptyDLog(group)
	require.NoError(t, d2.UnmarshalBinary(data))
	assert.True(t, d2.Verify(hash.New()))
	assert.True(t, d2.X.Equal(d.X))

	// swapping the point breaks the proof
	d2.X = sample.ScalarUnit(rand.Reader, group).ActOnBase()
	assert.False(t, d2.Verify(hash.New()))

	_, err = ProveDLog(hash.New(), group.NewScalar())
	assert.ErrorIs(t, err, ErrZeroSecret)

	var nilDLog *DLog
	assert.False(t, nilDLog.Verify(hash.New()))
	assert.Error(t, EmptyDLog(group).UnmarshalBinary([]byte{0x01}))
}

func TestDLog_TamperedResponse(t *testing.T) {
	group := curve.Secp256k1{}
	x := sample.ScalarUnit(rand.Reader, group)
	d, err := ProveDLog(hash.New(), x)
	require.NoError(t, err)

	one := group.NewScalar().SetNat(new(saferith.Nat).SetUint64(1))
	d.Proof.Z.Z = group.NewScalar().Set(d.Proof.Z.Z).Add(one)
	assert.False(t, d.Verify(hash.New()))
}
