// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package bloom implements the Bloom filter that pre-screens k-mers during
// anchor finding. The filter never produces false negatives; false
// positives are removed by an exact comparison downstream.
package bloom

import (
	"math"
	"math/bits"

	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/bitset"
)

const (
	// MinBits is the smallest filter size.
	MinBits = 1 << 16
	// MaxHashes caps the number of probes per key.
	MaxHashes = 32
)

// Filter is a Bloom filter over byte-string keys. Thread compatible.
type Filter struct {
	words   []uintptr
	nBits   uint64
	nHashes int
}

// OptimalBits returns the number of bits for expected elements at the given
// false-positive probability, before rounding.
func OptimalBits(expected int, errorProb float64) uint64 {
	if expected < 1 {
		expected = 1
	}
	m := -float64(expected) * math.Log(errorProb) / (math.Ln2 * math.Ln2)
	if m < 1 {
		m = 1
	}
	return uint64(math.Ceil(m))
}

// OptimalHashes returns the number of probes per key for the given
// false-positive probability.
func OptimalHashes(errorProb float64) int {
	k := int(math.Ceil(-math.Log2(errorProb)))
	if k < 1 {
		k = 1
	}
	if k > MaxHashes {
		k = MaxHashes
	}
	return k
}

// New creates a filter sized for the expected number of elements and the
// target false-positive probability, which must be in (0, 1).
func New(expected int, errorProb float64) *Filter {
	if !(errorProb > 0 && errorProb < 1) {
		errorProb = 0.5
	}
	nBits := OptimalBits(expected, errorProb)
	if nBits < MinBits {
		nBits = MinBits
	}
	wordBits := uint64(bitset.BitsPerWord)
	nWords := (nBits + wordBits - 1) / wordBits
	return &Filter{
		words:   make([]uintptr, nWords),
		nBits:   nWords * wordBits,
		nHashes: OptimalHashes(errorProb),
	}
}

// Bits returns the size of the filter in bits.
func (f *Filter) Bits() uint64 { return f.nBits }

// Hashes returns the number of probes per key.
func (f *Filter) Hashes() int { return f.nHashes }

// Fingerprint computes the digest the ...Hash methods expect.
func Fingerprint(key []byte) uint64 {
	return farm.Hash64(key)
}

// probes derives the two halves of the Kirsch-Mitzenmacher scheme. h2 is
// forced odd so that consecutive probes differ.
func probes(digest uint64) (h1, h2 uint64) {
	return digest, bits.RotateLeft64(digest, 32) | 1
}

// TestHash reports whether the fingerprint may have been added.
func (f *Filter) TestHash(digest uint64) bool {
	h1, h2 := probes(digest)
	for i := 0; i < f.nHashes; i++ {
		idx := (h1 + uint64(i)*h2) % f.nBits
		if !bitset.Test(f.words, int(idx)) {
			return false
		}
	}
	return true
}

// AddHash marks the fingerprint present.
func (f *Filter) AddHash(digest uint64) {
	h1, h2 := probes(digest)
	for i := 0; i < f.nHashes; i++ {
		bitset.Set(f.words, int((h1+uint64(i)*h2)%f.nBits))
	}
}

// TestAndAddHash marks the fingerprint present and reports whether it was
// already (possibly) present.
func (f *Filter) TestAndAddHash(digest uint64) bool {
	h1, h2 := probes(digest)
	present := true
	for i := 0; i < f.nHashes; i++ {
		idx := int((h1 + uint64(i)*h2) % f.nBits)
		if !bitset.Test(f.words, idx) {
			present = false
			bitset.Set(f.words, idx)
		}
	}
	return present
}

// Test reports whether key may have been added.
func (f *Filter) Test(key []byte) bool { return f.TestHash(Fingerprint(key)) }

// Add marks key present.
func (f *Filter) Add(key []byte) { f.AddHash(Fingerprint(key)) }

// TestAndAdd marks key present and reports whether it was already present.
func (f *Filter) TestAndAdd(key []byte) bool { return f.TestAndAddHash(Fingerprint(key)) }
