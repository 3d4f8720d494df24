package config

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/mta/pkg/math/curve"
	"github.com/taurusgroup/mta/pkg/paillier"
	"github.com/taurusgroup/mta/pkg/party"
	"github.com/taurusgroup/mta/pkg/pedersen"
)

// EmptyConfig creates an empty Config with a fixed group, ready for unmarshalling.
//
// This needs to be used for unmarshalling, otherwise the points on the curve can't
// be decoded.
func EmptyConfig(group curve.Curve) *Config {
	return &Config{
		Group: group,
	}
}

type configMarshal struct {
	_        struct{} `cbor:",toarray"`
	ID       party.ID
	ECDSA    []byte
	Paillier []byte
	Public   []publicMarshal
}

type publicMarshal struct {
	_        struct{} `cbor:",toarray"`
	ID       party.ID
	ECDSA    []byte
	Paillier []byte
	Pedersen []byte
}

var encMode = func() cbor.EncMode {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}()

func (c *Config) MarshalBinary() ([]byte, error) {
	ps := make([]publicMarshal, 0, len(c.Public))
	for _, id := range c.PartyIDs() {
		p := c.Public[id]
		ecdsa, err := p.ECDSA.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("config: party %s: %w", id, err)
		}
		pk, err := p.Paillier.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("config: party %s: %w", id, err)
		}
		ped, err := p.Pedersen.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("config: party %s: %w", id, err)
		}
		ps = append(ps, publicMarshal{
			ID:       id,
			ECDSA:    ecdsa,
			Paillier: pk,
			Pedersen: ped,
		})
	}
	ecdsa, err := c.ECDSA.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	sk, err := c.Paillier.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return encMode.Marshal(&configMarshal{
		ID:       c.ID,
		ECDSA:    ecdsa,
		Paillier: sk,
		Public:   ps,
	})
}

func (c *Config) UnmarshalBinary(data []byte) error {
	if c.Group == nil {
		return errors.New("config must be initialized using EmptyConfig")
	}
	var cm configMarshal
	if err := cbor.Unmarshal(data, &cm); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ecdsa := c.Group.NewScalar()
	if err := ecdsa.UnmarshalBinary(cm.ECDSA); err != nil {
		return fmt.Errorf("config: ECDSA: %w", err)
	}
	if ecdsa.IsZero() {
		return errors.New("config: ECDSA secret key is zero")
	}

	paillierSecret := new(paillier.SecretKey)
	if err := paillierSecret.UnmarshalBinary(cm.Paillier); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ps := make(map[party.ID]*Public, len(cm.Public))
	for _, pm := range cm.Public {
		if _, ok := ps[pm.ID]; ok {
			return fmt.Errorf("config: party %s: duplicate entry", pm.ID)
		}

		ped := new(pedersen.Parameters)
		if err := ped.UnmarshalBinary(pm.Pedersen); err != nil {
			return fmt.Errorf("config: party %s: %w", pm.ID, err)
		}

		// handle our own key separately, keeping the factorization
		if pm.ID == cm.ID {
			if ped.N().Nat().Eq(paillierSecret.N().Nat()) != 1 {
				return fmt.Errorf("config: party %s: Pedersen modulus differs from Paillier modulus", pm.ID)
			}
			ps[pm.ID] = &Public{
				ECDSA:    ecdsa.ActOnBase(),
				Paillier: paillierSecret.PublicKey,
				Pedersen: pedersen.New(paillierSecret.Modulus(), ped.S(), ped.T()),
			}
			continue
		}

		X := c.Group.NewPoint()
		if err := X.UnmarshalBinary(pm.ECDSA); err != nil {
			return fmt.Errorf("config: party %s: %w", pm.ID, err)
		}
		pk := new(paillier.PublicKey)
		if err := pk.UnmarshalBinary(pm.Paillier); err != nil {
			return fmt.Errorf("config: party %s: %w", pm.ID, err)
		}
		ps[pm.ID] = &Public{
			ECDSA:    X,
			Paillier: pk,
			Pedersen: ped,
		}
	}

	*c = Config{
		Group:    c.Group,
		ID:       cm.ID,
		ECDSA:    ecdsa,
		Paillier: paillierSecret,
		Public:   ps,
	}
	return c.Validate()
}
