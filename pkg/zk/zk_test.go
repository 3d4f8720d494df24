package zk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taurusgroup/mta/pkg/paillier"
	"github.com/taurusgroup/mta/pkg/pedersen"
)

func TestFixtures(t *testing.T) {
	for _, sk := range []*paillier.SecretKey{ProverPaillierSecret, VerifierPaillierSecret, ThirdPaillierSecret} {
		assert.NoError(t, paillier.ValidatePrime(sk.P()))
		assert.NoError(t, paillier.ValidatePrime(sk.Q()))
		assert.NoError(t, paillier.ValidateN(sk.N()))
	}
	for _, ped := range []*pedersen.Parameters{Pedersen, ThirdPedersen} {
		assert.NoError(t, pedersen.ValidateParameters(ped.N(), ped.S(), ped.T()))
	}
	assert.False(t, ProverPaillierPublic.Equal(VerifierPaillierPublic))
}
