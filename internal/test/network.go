package test

import (
	"sync"

	"github.com/taurusgroup/mta/pkg/party"
)

// Message is an encoded payload sent from one party to another.
type Message struct {
	From, To party.ID
	Data     []byte
}

// Network is an in-memory point to point transport between a fixed set of parties.
// Messages are delivered in the order they were sent.
type Network struct {
	parties        party.IDSlice
	listenChannels map[party.ID]chan *Message
	mtx            sync.Mutex
}

func NewNetwork(parties party.IDSlice) *Network {
	n := &Network{
		parties:        parties,
		listenChannels: make(map[party.ID]chan *Message, len(parties)),
	}
	N := len(parties)
	for _, id := range parties {
		n.listenChannels[id] = make(chan *Message, N*N)
	}
	return n
}

// Next returns the channel on which id receives its messages.
// It returns nil if id is not part of the network.
func (n *Network) Next(id party.ID) <-chan *Message {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return n.listenChannels[id]
}

// Send delivers msg to its recipient. Messages to unknown parties are dropped.
func (n *Network) Send(msg *Message) {
	n.mtx.Lock()
	c, ok := n.listenChannels[msg.To]
	n.mtx.Unlock()
	if ok {
		c <- msg
	}
}

// Close closes every listening channel. It must not be called while Send is in progress.
func (n *Network) Close() {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	for id, c := range n.listenChannels {
		close(c)
		delete(n.listenChannels, id)
	}
}
