package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/taurusgroup/mta/internal/test"
	"github.com/taurusgroup/mta/pkg/config"
	"github.com/taurusgroup/mta/pkg/hash"
	"github.com/taurusgroup/mta/pkg/math/curve"
	"github.com/taurusgroup/mta/pkg/mta"
	"github.com/taurusgroup/mta/pkg/party"
	"github.com/taurusgroup/mta/pkg/pool"
	"golang.org/x/sync/errgroup"
)

const (
	kindMessageA uint8 = iota + 1
	kindMessageB
)

// envelope is the payload of a test.Message.
type envelope struct {
	_       struct{} `cbor:",toarray"`
	Kind    uint8
	Payload []byte
}

// exchange is the outcome of one MtA between an initiator and a responder,
// as seen by both of them.
type exchange struct {
	Session  string
	From, To party.ID
	Alpha    curve.Scalar
	Beta     curve.Scalar
	PublicOK bool
	Duration time.Duration
	Bytes    int
	Correct  bool
}

type participant struct {
	cfg     *config.Config
	ids     party.IDSlice
	pl      *pool.Pool
	session string
	log     zerolog.Logger

	started map[party.ID]time.Time
	sent    map[party.ID]int
}

// sessionHash binds an exchange to the session, both parties, the initiator's
// Paillier key and the responder's Pedersen parameters.
func (p *participant) sessionHash(from, to party.ID) (*hash.Hash, error) {
	ek := p.cfg.Public[from].Paillier
	statement := p.cfg.Public[to].Pedersen
	return mta.SessionHash(from, to, []byte(p.session), ek, statement)
}

func send(net *test.Network, from, to party.ID, kind uint8, payload []byte) (int, error) {
	data, err := cbor.Marshal(envelope{Kind: kind, Payload: payload})
	if err != nil {
		return 0, err
	}
	net.Send(&test.Message{From: from, To: to, Data: data})
	return len(data), nil
}

// run sends a MessageA to every other party, answers every MessageA it receives,
// and returns once all exchanges involving this party are complete.
func (p *participant) run(ctx context.Context, net *test.Network) ([]*exchange, error) {
	id := p.cfg.ID
	others := p.ids.Remove(id)
	for _, to := range others {
		h, err := p.sessionHash(id, to)
		if err != nil {
			return nil, err
		}
		statements, err := p.cfg.Statements([]party.ID{to})
		if err != nil {
			return nil, err
		}
		p.started[to] = time.Now()
		msgA, _ := mta.NewMessageA(group, h, p.pl, p.cfg.ECDSA, p.cfg.Paillier.PublicKey, statements)
		data, err := msgA.MarshalBinary()
		if err != nil {
			return nil, err
		}
		n, err := send(net, id, to, kindMessageA, data)
		if err != nil {
			return nil, err
		}
		p.sent[to] = n
		p.log.Debug().Str("to", string(to)).Int("bytes", n).Msg("sent MessageA")
	}

	answered := make(map[party.ID]*exchange, len(others))
	completed := make(map[party.ID]*exchange, len(others))
	inbox := net.Next(id)
	for len(answered) < len(others) || len(completed) < len(others) {
		var msg *test.Message
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case m, ok := <-inbox:
			if !ok {
				return nil, errors.New("network closed")
			}
			msg = m
		}

		var env envelope
		if err := cbor.Unmarshal(msg.Data, &env); err != nil {
			return nil, fmt.Errorf("from %s: %w", msg.From, err)
		}
		switch env.Kind {
		case kindMessageA:
			if _, ok := answered[msg.From]; ok || !others.Contains(msg.From) {
				return nil, fmt.Errorf("unexpected MessageA from %s", msg.From)
			}
			e, err := p.answer(net, msg.From, env.Payload)
			if err != nil {
				return nil, fmt.Errorf("MessageA from %s: %w", msg.From, err)
			}
			answered[msg.From] = e
		case kindMessageB:
			if _, ok := completed[msg.From]; ok || !others.Contains(msg.From) {
				return nil, fmt.Errorf("unexpected MessageB from %s", msg.From)
			}
			e, err := p.complete(msg.From, env.Payload)
			if err != nil {
				return nil, fmt.Errorf("MessageB from %s: %w", msg.From, err)
			}
			e.Bytes += len(msg.Data)
			completed[msg.From] = e
		default:
			return nil, fmt.Errorf("from %s: unknown message kind %d", msg.From, env.Kind)
		}
	}

	out := make([]*exchange, 0, 2*len(others))
	for _, from := range others {
		out = append(out, answered[from], completed[from])
	}
	return out, nil
}

// answer plays B for an exchange initiated by from.
func (p *participant) answer(net *test.Network, from party.ID, payload []byte) (*exchange, error) {
	id := p.cfg.ID
	msgA := mta.EmptyMessageA(group)
	if err := msgA.UnmarshalBinary(payload); err != nil {
		return nil, err
	}
	h, err := p.sessionHash(from, id)
	if err != nil {
		return nil, err
	}
	statements, err := p.cfg.Statements([]party.ID{id})
	if err != nil {
		return nil, err
	}
	ek := p.cfg.Public[from].Paillier
	msgB, beta, _, err := mta.NewMessageB(group, h, p.pl, p.cfg.ECDSA, ek, msgA, statements)
	if err != nil {
		return nil, err
	}
	data, err := msgB.MarshalBinary()
	if err != nil {
		return nil, err
	}
	n, err := send(net, id, from, kindMessageB, data)
	if err != nil {
		return nil, err
	}
	p.log.Debug().Str("to", string(from)).Int("bytes", n).Msg("sent MessageB")
	return &exchange{Session: p.session, From: from, To: id, Beta: beta}, nil
}

// complete plays A on the answer of to.
func (p *participant) complete(to party.ID, payload []byte) (*exchange, error) {
	id := p.cfg.ID
	msgB := mta.EmptyMessageB(group)
	if err := msgB.UnmarshalBinary(payload); err != nil {
		return nil, err
	}
	h, err := p.sessionHash(id, to)
	if err != nil {
		return nil, err
	}
	alpha, _, err := msgB.VerifyProofsGetAlpha(group, h, p.cfg, p.cfg.ECDSA)
	if err != nil {
		return nil, err
	}
	publicOK := msgB.VerifyBAgainstPublic(p.cfg.Public[to].ECDSA)
	if !publicOK {
		p.log.Warn().Str("from", string(to)).Msg("b does not match the public share")
	}
	return &exchange{
		Session:  p.session,
		From:     id,
		To:       to,
		Alpha:    alpha,
		PublicOK: publicOK,
		Duration: time.Since(p.started[to]),
		Bytes:    p.sent[to],
	}, nil
}

// runSession runs an exchange between every ordered pair of parties, each party
// in its own goroutine. The halves of each exchange are merged in the result.
func runSession(pl *pool.Pool, configs map[party.ID]*config.Config, ids party.IDSlice, session string) ([]*exchange, error) {
	net := test.NewNetwork(ids)
	defer net.Close()

	var mtx sync.Mutex
	halves := make(map[[2]party.ID]*exchange)
	merge := func(e *exchange) {
		mtx.Lock()
		defer mtx.Unlock()
		key := [2]party.ID{e.From, e.To}
		other, ok := halves[key]
		if !ok {
			halves[key] = e
			return
		}
		if e.Alpha != nil {
			e.Beta = other.Beta
		} else {
			e.Alpha, e.PublicOK, e.Duration, e.Bytes = other.Alpha, other.PublicOK, other.Duration, other.Bytes
		}
		halves[key] = e
	}

	eg, ctx := errgroup.WithContext(context.Background())
	for _, id := range ids {
		p := &participant{
			cfg:     configs[id],
			ids:     ids,
			pl:      pl,
			session: session,
			log:     log.With().Str("party", string(id)).Str("session", session).Logger(),
			started: make(map[party.ID]time.Time, len(ids)),
			sent:    make(map[party.ID]int, len(ids)),
		}
		eg.Go(func() error {
			out, err := p.run(ctx, net)
			if err != nil {
				return fmt.Errorf("party %s: %w", p.cfg.ID, err)
			}
			for _, e := range out {
				merge(e)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	results := make([]*exchange, 0, len(halves))
	for _, from := range ids {
		for _, to := range ids {
			if e, ok := halves[[2]party.ID{from, to}]; ok {
				results = append(results, e)
			}
		}
	}
	log.Info().Str("session", session).Int("exchanges", len(results)).Msg("session complete")
	return results, nil
}
