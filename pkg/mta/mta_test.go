package mta

import (
	"crypto/rand"
	"sync/atomic"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/mta/pkg/hash"
	"github.com/taurusgroup/mta/pkg/math/curve"
	"github.com/taurusgroup/mta/pkg/math/sample"
	"github.com/taurusgroup/mta/pkg/paillier"
	"github.com/taurusgroup/mta/pkg/pedersen"
	"github.com/taurusgroup/mta/pkg/pool"
	"github.com/taurusgroup/mta/pkg/zk"
	zkenc "github.com/taurusgroup/mta/pkg/zk/enc"
	zksch "github.com/taurusgroup/mta/pkg/zk/sch"
)

var group = curve.Secp256k1{}

func statements() []*pedersen.Parameters {
	return []*pedersen.Parameters{zk.Pedersen, zk.ThirdPedersen}
}

func sessionHash(t *testing.T) *hash.Hash {
	h, err := SessionHash("a", "b")
	require.NoError(t, err)
	return h
}

// exchange runs an honest MtA and returns everything both sides end up with.
type exchange struct {
	a, b  curve.Scalar
	msgA  *MessageA
	msgB  *MessageB
	beta  curve.Scalar
	nonce *saferith.Nat
	r     *Randomness
}

func runExchange(t *testing.T, pl *pool.Pool) *exchange {
	h := sessionHash(t)
	ek := zk.ProverPaillierPublic
	a := sample.ScalarUnit(rand.Reader, group)
	b := sample.ScalarUnit(rand.Reader, group)

	msgA, nonce := NewMessageA(group, h, pl, a, ek, statements())
	require.Len(t, msgA.RangeProofs, 2)

	msgB, beta, r, err := NewMessageB(group, h, pl, b, ek, msgA, statements())
	require.NoError(t, err)
	return &exchange{a: a, b: b, msgA: msgA, msgB: msgB, beta: beta, nonce: nonce, r: r}
}

func product(a, b curve.Scalar) curve.Scalar {
	return group.NewScalar().Set(a).Mul(b)
}

func TestMtA(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	for i := 0; i < 3; i++ {
		e := runExchange(t, pl)
		alpha, plaintext, err := e.msgB.VerifyProofsGetAlpha(group, sessionHash(t), zk.ProverPaillierSecret, e.a)
		require.NoError(t, err)

		sum := group.NewScalar().Set(alpha).Add(e.beta)
		assert.True(t, sum.Equal(product(e.a, e.b)), "alpha + beta should equal a⋅b")
		assert.True(t, group.NewScalar().SetNat(plaintext).Equal(alpha))
		_, _, lt := plaintext.CmpMod(zk.ProverPaillierPublic.N())
		assert.Equal(t, saferith.Choice(1), lt, "plaintext should be in [0, N)")
	}
}

func TestMtA_NoPool(t *testing.T) {
	e := runExchange(t, nil)
	alpha, _, err := e.msgB.VerifyProofsGetAlpha(group, sessionHash(t), zk.ProverPaillierSecret, e.a)
	require.NoError(t, err)
	assert.True(t, group.NewScalar().Set(alpha).Add(e.beta).Equal(product(e.a, e.b)))
}

func TestMtA_ReturnedRandomness(t *testing.T) {
	e := runExchange(t, nil)
	ek := zk.ProverPaillierPublic

	// ρ reproduces C_A
	C := ek.EncWithNonce(curve.MakeInt(e.a), e.nonce)
	assert.True(t, C.Equal(e.msgA.C))

	// the randomness reproduces C_B, and beta = -beta_tag
	msgB, beta, err := NewMessageBWithRandomness(group, sessionHash(t), nil, e.b, ek, e.msgA, e.r, statements())
	require.NoError(t, err)
	assert.True(t, msgB.C.Equal(e.msgB.C))
	assert.True(t, beta.Equal(e.beta))
	assert.True(t, group.NewScalar().Set(beta).Add(group.NewScalar().SetNat(e.r.BetaTag)).IsZero())
}

func TestMessageB_Tampering(t *testing.T) {
	h := sessionHash(t)
	ek := zk.ProverPaillierPublic
	a := sample.ScalarUnit(rand.Reader, group)
	b := sample.ScalarUnit(rand.Reader, group)
	msgA, _ := NewMessageA(group, h, nil, a, ek, statements())

	t.Run("ciphertext", func(t *testing.T) {
		bad := &MessageA{C: msgA.C.Clone(), RangeProofs: msgA.RangeProofs}
		bad.C.Mul(ek, new(saferith.Int).SetUint64(2))
		_, _, _, err := NewMessageB(group, h, nil, b, ek, bad, statements())
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("ciphertext bit", func(t *testing.T) {
		data, err := msgA.C.MarshalBinary()
		require.NoError(t, err)
		data[len(data)-1] ^= 1
		C := new(paillier.Ciphertext)
		require.NoError(t, C.UnmarshalBinary(data))
		bad := &MessageA{C: C, RangeProofs: msgA.RangeProofs}
		_, _, _, err = NewMessageB(group, h, nil, b, ek, bad, statements())
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("ciphertext out of range", func(t *testing.T) {
		bad := &MessageA{C: new(paillier.Ciphertext), RangeProofs: msgA.RangeProofs}
		require.NoError(t, bad.C.UnmarshalBinary(nil))
		_, _, _, err := NewMessageB(group, h, nil, b, ek, bad, statements())
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("range proof", func(t *testing.T) {
		tampered := *msgA.RangeProofs[1]
		tampered.Z2 = new(saferith.Nat).ModAdd(tampered.Z2, new(saferith.Nat).SetUint64(1), ek.N())
		bad := &MessageA{C: msgA.C, RangeProofs: []*zkenc.Proof{msgA.RangeProofs[0], &tampered}}
		_, _, _, err := NewMessageB(group, h, nil, b, ek, bad, statements())
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("missing range proof", func(t *testing.T) {
		bad := &MessageA{C: msgA.C, RangeProofs: []*zkenc.Proof{msgA.RangeProofs[0], nil}}
		_, _, _, err := NewMessageB(group, h, nil, b, ek, bad, statements())
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("statement order", func(t *testing.T) {
		swapped := []*pedersen.Parameters{zk.ThirdPedersen, zk.Pedersen}
		_, _, _, err := NewMessageB(group, h, nil, b, ek, msgA, swapped)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("transcript", func(t *testing.T) {
		other, err := SessionHash("a", "c")
		require.NoError(t, err)
		_, _, _, err = NewMessageB(group, other, nil, b, ek, msgA, statements())
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("encryption key", func(t *testing.T) {
		_, _, _, err := NewMessageB(group, h, nil, b, zk.VerifierPaillierPublic, msgA, statements())
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("untampered", func(t *testing.T) {
		_, _, _, err := NewMessageB(group, h, nil, b, ek, msgA, statements())
		assert.NoError(t, err)
	})
}

func TestMessageB_LengthMismatch(t *testing.T) {
	// Neither the key nor the proofs may be touched: both are nil and would panic.
	msgA := &MessageA{RangeProofs: []*zkenc.Proof{nil, nil}}
	oneStatement := []*pedersen.Parameters{nil}
	b := sample.ScalarUnit(rand.Reader, group)

	assert.NotPanics(t, func() {
		_, _, _, err := NewMessageB(group, nil, nil, b, nil, msgA, oneStatement)
		assert.ErrorIs(t, err, ErrInvalid)

		_, _, err = NewMessageBWithRandomness(group, nil, nil, b, nil, msgA, nil, oneStatement)
		assert.ErrorIs(t, err, ErrInvalid)

		_, _, _, err = NewMessageB(group, nil, nil, b, nil, nil, nil)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	// one fewer statement than proofs, with a real message
	ek := zk.ProverPaillierPublic
	realA, _ := NewMessageA(group, sessionHash(t), nil, sample.ScalarUnit(rand.Reader, group), ek, statements())
	verified := countRangeProofVerifications(t)
	_, _, _, err := NewMessageB(group, sessionHash(t), nil, b, ek, realA, statements()[:1])
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Zero(t, verified.Load(), "no range proof may be verified on a count mismatch")

	// the matching count verifies every proof
	_, _, _, err = NewMessageB(group, sessionHash(t), nil, b, ek, realA, statements())
	assert.NoError(t, err)
	assert.EqualValues(t, len(statements()), verified.Load())
}

func TestMessageB_VerifiesAllRangeProofs(t *testing.T) {
	ek := zk.ProverPaillierPublic
	msgA, _ := NewMessageA(group, sessionHash(t), nil, sample.ScalarUnit(rand.Reader, group), ek, statements())
	bad := *msgA.RangeProofs[0]
	bad.Z1 = new(saferith.Int).Add(bad.Z1, new(saferith.Int).SetUint64(1), -1)
	msgA.RangeProofs[0] = &bad

	verified := countRangeProofVerifications(t)
	_, _, _, err := NewMessageB(group, sessionHash(t), nil, sample.ScalarUnit(rand.Reader, group), ek, msgA, statements())
	assert.ErrorIs(t, err, ErrInvalid)
	assert.EqualValues(t, len(statements()), verified.Load(), "a failing proof must not stop the others from being verified")
}

// countRangeProofVerifications counts calls to verifyRangeProof until the test ends.
func countRangeProofVerifications(t *testing.T) *atomic.Int64 {
	var count atomic.Int64
	verify := verifyRangeProof
	verifyRangeProof = func(p *zkenc.Proof, group curve.Curve, h *hash.Hash, public zkenc.Public) bool {
		count.Add(1)
		return verify(p, group, h, public)
	}
	t.Cleanup(func() { verifyRangeProof = verify })
	return &count
}

func TestMessageB_Randomness(t *testing.T) {
	h := sessionHash(t)
	ek := zk.ProverPaillierPublic
	a := sample.ScalarUnit(rand.Reader, group)
	b := sample.ScalarUnit(rand.Reader, group)
	msgA, _ := NewMessageA(group, h, nil, a, ek, nil)
	nonce := sample.UnitModN(rand.Reader, ek.N())

	t.Run("beta_tag = N", func(t *testing.T) {
		r := &Randomness{Nonce: nonce, BetaTag: ek.N().Nat()}
		_, _, err := NewMessageBWithRandomness(group, h, nil, b, ek, msgA, r, nil)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("zero nonce", func(t *testing.T) {
		r := &Randomness{Nonce: new(saferith.Nat), BetaTag: new(saferith.Nat).SetUint64(7)}
		_, _, err := NewMessageBWithRandomness(group, h, nil, b, ek, msgA, r, nil)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("missing randomness", func(t *testing.T) {
		_, _, err := NewMessageBWithRandomness(group, h, nil, b, ek, msgA, nil, nil)
		assert.ErrorIs(t, err, ErrInvalid)
		_, _, err = NewMessageBWithRandomness(group, h, nil, b, ek, msgA, &Randomness{Nonce: nonce}, nil)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("beta_tag ≡ 0 (mod q)", func(t *testing.T) {
		r := &Randomness{Nonce: nonce, BetaTag: group.Order().Nat()}
		_, _, err := NewMessageBWithRandomness(group, h, nil, b, ek, msgA, r, nil)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("zero b", func(t *testing.T) {
		r := &Randomness{Nonce: nonce, BetaTag: new(saferith.Nat).SetUint64(7)}
		_, _, err := NewMessageBWithRandomness(group, h, nil, group.NewScalar(), ek, msgA, r, nil)
		assert.ErrorIs(t, err, ErrInvalid)
	})
}

func TestBetaTagReduction(t *testing.T) {
	// beta_tag ⩾ q must be reduced the same way by B and in the proof checked by A
	h := sessionHash(t)
	ek := zk.ProverPaillierPublic
	a := sample.ScalarUnit(rand.Reader, group)
	b := sample.ScalarUnit(rand.Reader, group)
	msgA, _ := NewMessageA(group, h, nil, a, ek, statements())

	seven := new(saferith.Nat).SetUint64(7)
	r := &Randomness{
		Nonce:   sample.UnitModN(rand.Reader, ek.N()),
		BetaTag: new(saferith.Nat).Add(group.Order().Nat(), seven, -1),
	}
	msgB, beta, err := NewMessageBWithRandomness(group, h, nil, b, ek, msgA, r, statements())
	require.NoError(t, err)

	minusSeven := group.NewScalar().Sub(group.NewScalar().SetNat(seven))
	assert.True(t, beta.Equal(minusSeven))
	assert.True(t, msgB.BetaTagProof.X.Equal(group.NewScalar().SetNat(seven).ActOnBase()))

	alpha, plaintext, err := msgB.VerifyProofsGetAlpha(group, h, zk.ProverPaillierSecret, a)
	require.NoError(t, err)
	assert.True(t, group.NewScalar().Set(alpha).Add(beta).Equal(product(a, b)))

	// the raw plaintext is a⋅b + beta_tag, without any reduction mod q
	expected := new(saferith.Nat).Mul(curve.MakeNat(a), curve.MakeNat(b), -1)
	expected.Add(expected, r.BetaTag, -1)
	assert.Equal(t, saferith.Choice(1), plaintext.Eq(expected))
}

func TestDeterminism(t *testing.T) {
	h := sessionHash(t)
	ek := zk.ProverPaillierPublic
	a := sample.ScalarUnit(rand.Reader, group)
	b := sample.ScalarUnit(rand.Reader, group)
	nonce := sample.UnitModN(rand.Reader, ek.N())

	msgA1 := NewMessageAWithNonce(group, h, nil, a, ek, nonce, statements())
	msgA2 := NewMessageAWithNonce(group, h, nil, a, ek, nonce, statements())
	c1, err := msgA1.C.MarshalBinary()
	require.NoError(t, err)
	c2, err := msgA2.C.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, c1, c2)

	msgA3, _ := NewMessageA(group, h, nil, a, ek, statements())
	msgA4, _ := NewMessageA(group, h, nil, a, ek, statements())
	assert.False(t, msgA3.C.Equal(msgA4.C))

	r := &Randomness{
		Nonce:   sample.UnitModN(rand.Reader, ek.N()),
		BetaTag: sample.ModN(rand.Reader, ek.N()),
	}
	msgB1, beta1, err := NewMessageBWithRandomness(group, h, nil, b, ek, msgA1, r, statements())
	require.NoError(t, err)
	msgB2, beta2, err := NewMessageBWithRandomness(group, h, nil, b, ek, msgA1, r, statements())
	require.NoError(t, err)
	c1, err = msgB1.C.MarshalBinary()
	require.NoError(t, err)
	c2, err = msgB2.C.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, c1, c2)
	assert.True(t, beta1.Equal(beta2))

	msgB3, _, _, err := NewMessageB(group, h, nil, b, ek, msgA1, statements())
	require.NoError(t, err)
	msgB4, _, _, err := NewMessageB(group, h, nil, b, ek, msgA1, statements())
	require.NoError(t, err)
	assert.False(t, msgB3.C.Equal(msgB4.C))
}

func TestVerifyBAgainstPublic(t *testing.T) {
	e := runExchange(t, nil)
	B := e.b.ActOnBase()
	assert.True(t, VerifyBAgainstPublic(B, e.msgB.BProof.X))
	assert.True(t, e.msgB.VerifyBAgainstPublic(B))

	other := sample.ScalarUnit(rand.Reader, group).ActOnBase()
	assert.False(t, VerifyBAgainstPublic(other, e.msgB.BProof.X))
	assert.False(t, e.msgB.VerifyBAgainstPublic(other))

	// the proofs play no role
	broken := &MessageB{C: e.msgB.C, BProof: &zksch.DLog{X: B}, BetaTagProof: nil}
	assert.True(t, broken.VerifyBAgainstPublic(B))

	assert.False(t, VerifyBAgainstPublic(nil, B))
	assert.False(t, VerifyBAgainstPublic(B, nil))
	var nilMessage *MessageB
	assert.False(t, nilMessage.VerifyBAgainstPublic(B))
	assert.True(t, VerifyBAgainstPublic(group.NewPoint(), group.NewPoint()))
}

func TestExtract_Tampering(t *testing.T) {
	sk := zk.ProverPaillierSecret

	t.Run("b proof for another scalar", func(t *testing.T) {
		e := runExchange(t, nil)
		other := sample.ScalarUnit(rand.Reader, group)
		// a valid proof, on the right transcript, but for the wrong exponent
		proof, err := zksch.ProveDLog(bProofHash(sessionHash(t)), other)
		require.NoError(t, err)
		e.msgB.BProof = proof
		_, _, err = e.msgB.VerifyProofsGetAlpha(group, sessionHash(t), sk, e.a)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("b proof on another transcript", func(t *testing.T) {
		e := runExchange(t, nil)
		proof, err := zksch.ProveDLog(hash.New(), e.b)
		require.NoError(t, err)
		e.msgB.BProof = proof
		_, _, err = e.msgB.VerifyProofsGetAlpha(group, sessionHash(t), sk, e.a)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("swapped proofs", func(t *testing.T) {
		e := runExchange(t, nil)
		e.msgB.BProof, e.msgB.BetaTagProof = e.msgB.BetaTagProof, e.msgB.BProof
		_, _, err := e.msgB.VerifyProofsGetAlpha(group, sessionHash(t), sk, e.a)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("ciphertext", func(t *testing.T) {
		e := runExchange(t, nil)
		e.msgB.C.Add(sk.PublicKey, e.msgA.C)
		_, _, err := e.msgB.VerifyProofsGetAlpha(group, sessionHash(t), sk, e.a)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("wrong secret", func(t *testing.T) {
		e := runExchange(t, nil)
		_, _, err := e.msgB.VerifyProofsGetAlpha(group, sessionHash(t), sk, sample.ScalarUnit(rand.Reader, group))
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("wrong key", func(t *testing.T) {
		e := runExchange(t, nil)
		_, _, err := e.msgB.VerifyProofsGetAlpha(group, sessionHash(t), zk.VerifierPaillierSecret, e.a)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("incomplete", func(t *testing.T) {
		var nilMessage *MessageB
		_, _, err := nilMessage.VerifyProofsGetAlpha(group, nil, sk, sample.ScalarUnit(rand.Reader, group))
		assert.ErrorIs(t, err, ErrInvalid)
		_, _, err = EmptyMessageB(group).VerifyProofsGetAlpha(group, nil, sk, sample.ScalarUnit(rand.Reader, group))
		assert.ErrorIs(t, err, ErrInvalid)
		e := runExchange(t, nil)
		_, _, err = e.msgB.VerifyProofsGetAlpha(group, sessionHash(t), nil, e.a)
		assert.ErrorIs(t, err, ErrInvalid)
	})
}

func TestMarshal(t *testing.T) {
	h := sessionHash(t)
	ek := zk.ProverPaillierPublic
	a := sample.ScalarUnit(rand.Reader, group)
	b := sample.ScalarUnit(rand.Reader, group)

	msgA, _ := NewMessageA(group, h, nil, a, ek, statements())
	dataA, err := msgA.MarshalBinary()
	require.NoError(t, err)
	receivedA := EmptyMessageA(group)
	require.NoError(t, receivedA.UnmarshalBinary(dataA))
	dataA2, err := receivedA.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, dataA, dataA2)

	msgB, beta, _, err := NewMessageB(group, h, nil, b, ek, receivedA, statements())
	require.NoError(t, err)
	dataB, err := msgB.MarshalBinary()
	require.NoError(t, err)
	receivedB := EmptyMessageB(group)
	require.NoError(t, receivedB.UnmarshalBinary(dataB))

	alpha, _, err := receivedB.VerifyProofsGetAlpha(group, h, zk.ProverPaillierSecret, a)
	require.NoError(t, err)
	assert.True(t, group.NewScalar().Set(alpha).Add(beta).Equal(product(a, b)))

	assert.Error(t, new(MessageB).UnmarshalBinary(dataB), "MessageB needs EmptyMessageB")
	assert.Error(t, EmptyMessageA(group).UnmarshalBinary(dataB))
	assert.Error(t, EmptyMessageB(group).UnmarshalBinary(dataA))
	_, err = new(MessageA).MarshalBinary()
	assert.Error(t, err)
}
