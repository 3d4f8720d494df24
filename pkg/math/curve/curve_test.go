package curve

import (
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalar_SetNatReduces(t *testing.T) {
	group := Secp256k1{}
	q := group.Order().Nat()

	// q + 5 ≡ 5
	qPlus5 := new(saferith.Nat).Add(q, new(saferith.Nat).SetUint64(5), -1)
	five := group.NewScalar().SetNat(new(saferith.Nat).SetUint64(5))
	assert.True(t, group.NewScalar().SetNat(qPlus5).Equal(five))

	// a 2048 bit value, reduced
	wide := new(saferith.Nat).Lsh(new(saferith.Nat).SetUint64(1), 2047, -1)
	expected := new(saferith.Nat).Mod(wide, group.Order())
	got := MakeNat(group.NewScalar().SetNat(wide))
	assert.Equal(t, saferith.Choice(1), got.Eq(expected))

	assert.True(t, group.NewScalar().SetNat(q).IsZero())
}

func TestScalar_Marshal(t *testing.T) {
	group := Secp256k1{}
	s := group.NewScalar().SetNat(new(saferith.Nat).SetUint64(0xED))
	data, err := s.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, data, 32)

	s2 := group.NewScalar()
	require.NoError(t, s2.UnmarshalBinary(data))
	assert.True(t, s.Equal(s2))

	assert.Error(t, s2.UnmarshalBinary(data[:31]))
	tooBig := group.Order().Bytes()
	assert.Error(t, s2.UnmarshalBinary(tooBig), "q is not a canonical scalar")
}

func TestPoint_Marshal(t *testing.T) {
	group := Secp256k1{}
	s := group.NewScalar().SetNat(new(saferith.Nat).SetUint64(1234567))
	P := s.ActOnBase()
	data, err := P.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, data, 33)

	P2 := group.NewPoint()
	require.NoError(t, P2.UnmarshalBinary(data))
	assert.True(t, P.Equal(P2))

	_, err = group.NewPoint().MarshalBinary()
	assert.Error(t, err, "identity has no encoding")

	data[0] = 0x04
	assert.Error(t, P2.UnmarshalBinary(data))
}

func TestPoint_Arithmetic(t *testing.T) {
	group := Secp256k1{}
	G := group.NewBasePoint()
	two := group.NewScalar().SetNat(new(saferith.Nat).SetUint64(2))

	assert.True(t, G.Add(G).Equal(two.ActOnBase()))
	assert.True(t, G.Sub(G).IsIdentity())
	assert.True(t, G.Add(G.Negate()).IsIdentity())
	assert.True(t, two.Act(G).Equal(two.ActOnBase()))
	assert.False(t, G.Equal(group.NewPoint()))
	assert.True(t, group.NewPoint().Equal(group.NewPoint()))

	// a⋅G + b⋅G = (a+b)⋅G
	a := group.NewScalar().SetNat(new(saferith.Nat).SetUint64(3))
	b := group.NewScalar().SetNat(new(saferith.Nat).SetUint64(5))
	sum := group.NewScalar().Set(a).Add(b)
	assert.True(t, a.ActOnBase().Add(b.ActOnBase()).Equal(sum.ActOnBase()))

	// Sub and Negate agree
	diff := group.NewScalar().Set(b).Sub(a)
	assert.True(t, b.ActOnBase().Sub(a.ActOnBase()).Equal(diff.ActOnBase()))
	minusA := group.NewScalar().Set(a).Negate()
	assert.True(t, a.ActOnBase().Negate().Equal(minusA.ActOnBase()))
}

func TestMakeInt(t *testing.T) {
	group := Secp256k1{}
	s := group.NewScalar().SetNat(new(saferith.Nat).SetUint64(42))
	assert.Equal(t, int64(42), MakeInt(s).Big().Int64())
	assert.Equal(t, uint64(42), MakeNat(s).Big().Uint64())
}
