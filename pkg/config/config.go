package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/mta/pkg/math/curve"
	"github.com/taurusgroup/mta/pkg/paillier"
	"github.com/taurusgroup/mta/pkg/party"
	"github.com/taurusgroup/mta/pkg/pedersen"
)

// Public holds public information for a party.
type Public struct {
	// ECDSA public key share
	ECDSA curve.Point
	// Paillier is the key under which this party receives MtA ciphertexts.
	Paillier *paillier.PublicKey
	// Pedersen is the range proof statement (N̂, s, t) other parties prove against
	// when this party verifies.
	Pedersen *pedersen.Parameters
}

// Config is the key material a party needs to take part in MtA exchanges,
// along with the public data of every other party.
type Config struct {
	Group curve.Curve

	ID party.ID

	// ECDSA is this party's secret share xᵢ
	ECDSA curve.Scalar

	// Paillier is this party's decryption key
	Paillier *paillier.SecretKey

	// Public maps party.ID to party. It contains all public information associated to a party.
	Public map[party.ID]*Public
}

// Validate ensures that the data is consistent. In particular it verifies:
//   - all public data is present and valid
//   - the secrets correspond to the data from an included party.
func (c Config) Validate() error {
	if c.Group == nil || c.ECDSA == nil || c.Paillier == nil {
		return errors.New("config: one or more field is empty")
	}

	if c.ECDSA.IsZero() {
		return errors.New("config: ECDSA secret key share is zero")
	}

	for j, publicJ := range c.Public {
		if err := publicJ.validate(); err != nil {
			return fmt.Errorf("config: party %s: %w", j, err)
		}
	}

	// verify our ID is present
	public := c.Public[c.ID]
	if public == nil {
		return errors.New("config: no public data for secret")
	}

	if !c.ECDSA.ActOnBase().Equal(public.ECDSA) {
		return errors.New("config: ECDSA secret key share does not correspond to public share")
	}

	if !c.Paillier.PublicKey.Equal(public.Paillier) {
		return errors.New("config: P•Q ≠ N")
	}

	return nil
}

// validate returns an error if Public is invalid. Otherwise return nil.
func (p *Public) validate() error {
	if p == nil || p.ECDSA == nil || p.Paillier == nil || p.Pedersen == nil {
		return errors.New("public: one or more field is empty")
	}

	if p.ECDSA.IsIdentity() {
		return errors.New("public: ECDSA public key share is identity")
	}

	if err := paillier.ValidateN(p.Paillier.N()); err != nil {
		return fmt.Errorf("public: %w", err)
	}

	if err := pedersen.ValidateParameters(p.Pedersen.N(), p.Pedersen.S(), p.Pedersen.T()); err != nil {
		return fmt.Errorf("public: %w", err)
	}

	return nil
}

// PartyIDs returns a sorted slice of party IDs.
func (c Config) PartyIDs() party.IDSlice {
	ids := make([]party.ID, 0, len(c.Public))
	for j := range c.Public {
		ids = append(ids, j)
	}
	return party.NewIDSlice(ids)
}

// Statements returns the Pedersen parameters of the given parties, in the same order.
func (c Config) Statements(ids []party.ID) ([]*pedersen.Parameters, error) {
	out := make([]*pedersen.Parameters, 0, len(ids))
	for _, id := range ids {
		public, ok := c.Public[id]
		if !ok || public.Pedersen == nil {
			return nil, fmt.Errorf("config: party %s: no Pedersen parameters", id)
		}
		out = append(out, public.Pedersen)
	}
	return out, nil
}

// Dec decrypts ct with this party's Paillier key.
func (c *Config) Dec(ct *paillier.Ciphertext) (*saferith.Nat, error) {
	if c == nil || c.Paillier == nil {
		return nil, errors.New("config: no Paillier secret key")
	}
	return c.Paillier.Dec(ct)
}

// WriteTo implements io.WriterTo interface.
func (c *Config) WriteTo(w io.Writer) (total int64, err error) {
	if c == nil {
		return 0, io.ErrUnexpectedEOF
	}
	var n int64

	partyIDs := c.PartyIDs()
	n, err = partyIDs.WriteTo(w)
	total += n
	if err != nil {
		return
	}

	for _, j := range partyIDs {
		n, err = c.Public[j].WriteTo(w)
		total += n
		if err != nil {
			return
		}
	}

	return
}

// Domain implements hash.WriterToWithDomain.
func (Config) Domain() string {
	return "MtA Config"
}

// Domain implements hash.WriterToWithDomain.
func (Public) Domain() string {
	return "Public Data"
}

// WriteTo implements io.WriterTo interface.
func (p *Public) WriteTo(w io.Writer) (total int64, err error) {
	if p == nil || p.ECDSA == nil {
		return 0, io.ErrUnexpectedEOF
	}
	data, err := p.ECDSA.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	total = int64(n)
	if err != nil {
		return
	}

	var m int64
	m, err = p.Paillier.WriteTo(w)
	total += m
	if err != nil {
		return
	}

	m, err = p.Pedersen.WriteTo(w)
	total += m
	return
}
