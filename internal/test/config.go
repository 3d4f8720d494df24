package test

import (
	"fmt"
	"io"

	"github.com/taurusgroup/mta/pkg/config"
	"github.com/taurusgroup/mta/pkg/math/curve"
	"github.com/taurusgroup/mta/pkg/paillier"
	"github.com/taurusgroup/mta/pkg/party"
	"github.com/taurusgroup/mta/pkg/zk"
)

// GenerateConfig creates configurations for n ⩽ 3 parties, reusing the fixed Paillier keys of pkg/zk.
func GenerateConfig(group curve.Curve, n int, source io.Reader) (map[party.ID]*config.Config, party.IDSlice) {
	fixed := []*paillier.SecretKey{zk.ProverPaillierSecret, zk.VerifierPaillierSecret, zk.ThirdPaillierSecret}
	if n > len(fixed) {
		panic(fmt.Sprintf("test: at most %d fixed Paillier keys are available", len(fixed)))
	}
	partyIDs := PartyIDs(n)
	keys := make(map[party.ID]*paillier.SecretKey, n)
	for i, id := range partyIDs {
		keys[id] = fixed[i]
	}
	configs, err := config.NewFromKeys(group, keys, source)
	if err != nil {
		panic(err)
	}
	return configs, partyIDs
}
