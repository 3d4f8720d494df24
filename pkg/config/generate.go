package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/taurusgroup/mta/pkg/math/curve"
	"github.com/taurusgroup/mta/pkg/math/sample"
	"github.com/taurusgroup/mta/pkg/paillier"
	"github.com/taurusgroup/mta/pkg/party"
	"github.com/taurusgroup/mta/pkg/pool"
)

// Generate creates a Config for each of the given parties, acting as a trusted dealer.
// Paillier keys are generated on the pool, which makes this slow for more than a few parties.
func Generate(group curve.Curve, ids []party.ID, rand io.Reader, pl *pool.Pool) (map[party.ID]*Config, error) {
	keys := make(map[party.ID]*paillier.SecretKey, len(ids))
	for _, id := range ids {
		_, sk := paillier.KeyGen(rand, pl)
		keys[id] = sk
	}
	return NewFromKeys(group, keys, rand)
}

// NewFromKeys creates a Config for each party holding one of the given Paillier keys.
// ECDSA shares and Pedersen parameters are sampled from rand.
func NewFromKeys(group curve.Curve, keys map[party.ID]*paillier.SecretKey, rand io.Reader) (map[party.ID]*Config, error) {
	if len(keys) == 0 {
		return nil, errors.New("config: no parties")
	}
	ids := make([]party.ID, 0, len(keys))
	for id := range keys {
		ids = append(ids, id)
	}
	partyIDs := party.NewIDSlice(ids)
	if !partyIDs.Valid() {
		return nil, errors.New("config: invalid party IDs")
	}

	configs := make(map[party.ID]*Config, len(keys))
	public := make(map[party.ID]*Public, len(keys))
	for _, id := range partyIDs {
		sk := keys[id]
		if sk == nil {
			return nil, fmt.Errorf("config: party %s: no Paillier key", id)
		}
		ped, _ := sk.GeneratePedersen(rand)
		ecdsa := sample.ScalarUnit(rand, group)
		configs[id] = &Config{
			Group:    group,
			ID:       id,
			ECDSA:    ecdsa,
			Paillier: sk,
			Public:   public,
		}
		public[id] = &Public{
			ECDSA:    ecdsa.ActOnBase(),
			Paillier: sk.PublicKey,
			Pedersen: ped,
		}
	}
	return configs, nil
}
