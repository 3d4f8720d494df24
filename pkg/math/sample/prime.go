package sample

import (
	"io"
	"math"
	"math/big"
	"sync"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/mta/internal/params"
	"github.com/taurusgroup/mta/pkg/pool"
)

// oddPrimes returns every odd prime strictly below bound.
func oddPrimes(bound uint32) []uint32 {
	composite := make([]bool, bound)
	for p := uint32(2); p*p < bound; p++ {
		if composite[p] {
			continue
		}
		for i := p * p; i < bound; i += p {
			composite[i] = true
		}
	}
	estimate := float64(bound) / math.Log(float64(bound))
	out := make([]uint32, 0, int(estimate))
	for p := uint32(3); p < bound; p++ {
		if !composite[p] {
			out = append(out, p)
		}
	}
	return out
}

const (
	// number of offsets from the random base that are sieved at once
	sieveSize = 1 << 18
	// sieving primes are taken below this bound
	primeBound = 1 << 20
	// Miller-Rabin rounds applied to (p-1)/2
	blumPrimalityIterations = 20
)

var (
	sievePrimes     []uint32
	sievePrimesOnce sync.Once
	sievePool       = sync.Pool{
		New: func() interface{} {
			s := make([]bool, sieveSize)
			return &s
		},
	}
)

// tryBlumPrime makes one attempt at finding a safe prime p of params.BitsBlumPrime
// bits with p ≡ 3 (mod 4). It returns nil when the window after a random
// starting point contains no such prime.
func tryBlumPrime(rand io.Reader) *saferith.Nat {
	sievePrimesOnce.Do(func() {
		sievePrimes = oddPrimes(primeBound)
	})

	buf := make([]byte, (params.BitsBlumPrime+7)/8)
	if _, err := io.ReadFull(rand, buf); err != nil {
		return nil
	}
	// base ≡ 3 (mod 4), with the top two bits set so that p⋅q has exactly twice the size
	buf[0] |= 0xC0
	buf[len(buf)-1] |= 3
	base := new(big.Int).SetBytes(buf)

	candidatesPtr := sievePool.Get().(*[]bool)
	defer sievePool.Put(candidatesPtr)
	candidates := *candidatesPtr
	for i := range candidates {
		// only base + 4k stays ≡ 3 (mod 4)
		candidates[i] = i%4 == 0
	}

	// x ≡ 0 (mod r) means x is composite, and x ≡ 1 (mod r) means (x-1)/2 is.
	r := new(big.Int)
	for _, prime := range sievePrimes {
		r.SetUint64(uint64(prime))
		rem := int(r.Mod(base, r).Uint64())
		step := int(prime)
		start := 0
		if rem != 0 {
			start = step - rem
		}
		for i := start; i < len(candidates); i += step {
			candidates[i] = false
			if i+1 < len(candidates) {
				candidates[i+1] = false
			}
		}
	}

	p, q := new(big.Int), new(big.Int)
	for delta, ok := range candidates {
		if !ok {
			continue
		}
		p.SetUint64(uint64(delta))
		p.Add(p, base)
		if p.BitLen() > params.BitsBlumPrime {
			return nil
		}
		q.Rsh(p, 1)
		if !q.ProbablyPrime(blumPrimalityIterations) {
			continue
		}
		// a single Miller-Rabin round on p suffices once q is prime
		if !p.ProbablyPrime(0) {
			continue
		}
		return new(saferith.Nat).SetBig(p, params.BitsBlumPrime)
	}
	return nil
}

// Paillier generate the necessary integers for a Paillier key pair.
// p, q are safe primes ((p - 1) / 2 is also prime), and Blum primes (p = 3 mod 4)
// n = pq.
func Paillier(rand io.Reader, pl *pool.Pool) (p, q *saferith.Nat) {
	reader := pool.NewLockedReader(rand)
	for {
		results := pl.Search(2, func() interface{} {
			p := tryBlumPrime(reader)
			if p == nil {
				return nil
			}
			return p
		})
		p, q = results[0].(*saferith.Nat), results[1].(*saferith.Nat)
		if p.Eq(q) != 1 {
			return
		}
	}
}
