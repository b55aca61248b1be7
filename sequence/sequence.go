// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package sequence defines the nucleotide sequences that fragments and
// blocks point into, together with the oriented window scanner used to
// enumerate fixed-length k-mers.
package sequence

import (
	"sync/atomic"

	gunsafe "github.com/grailbio/base/unsafe"
)

// Ori is the orientation of a fragment or window on a sequence.
type Ori int8

const (
	// Forward reads the sequence left to right.
	Forward Ori = 1
	// Reverse reads the reverse complement, right to left.
	Reverse Ori = -1
	// FirstOri is the orientation a scanner yields first at each position.
	FirstOri = Forward
)

// Sequence is the capability consumed by fragments and the anchor finder.
// Implementations must be immutable once fragments refer to them.
type Sequence interface {
	// ID is unique per process. It breaks ties when ordering fragments that
	// share coordinates.
	ID() uint64
	// Name is the sequence name, e.g., "chr1".
	Name() string
	// Size is the number of bases.
	Size() int
	// CharAt returns the (forward) base at the given 0-based position.
	CharAt(pos int) byte
}

var lastID uint64

// NextID allocates a process-unique sequence ID.
func NextID() uint64 {
	return atomic.AddUint64(&lastID, 1)
}

// InMemory is a Sequence that keeps all its bases in memory.
type InMemory struct {
	id   uint64
	name string
	data string
}

// NewInMemory creates a sequence from raw text. Non-letters (newlines,
// digits, separators) are dropped, letters are upper-cased and letters
// other than ACGT are replaced by N.
func NewInMemory(name, text string) *InMemory {
	buf := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c < 'A' || c > 'Z' {
			continue
		}
		if !isACGT[c] {
			c = 'N'
		}
		buf = append(buf, c)
	}
	return &InMemory{id: NextID(), name: name, data: gunsafe.BytesToString(buf)}
}

// ID implements Sequence.
func (s *InMemory) ID() uint64 { return s.id }

// Name implements Sequence.
func (s *InMemory) Name() string { return s.name }

// Size implements Sequence.
func (s *InMemory) Size() int { return len(s.data) }

// CharAt implements Sequence.
func (s *InMemory) CharAt(pos int) byte { return s.data[pos] }

// Contents returns the normalized bases.
func (s *InMemory) Contents() string { return s.data }

// Substr returns the forward bases in [min, max].
func (s *InMemory) Substr(min, max int) string { return s.data[min : max+1] }

// AppendWindow appends the length bases starting at begin and read in
// direction ori to dst. Reverse windows are complemented.
func AppendWindow(dst []byte, seq Sequence, begin, length int, ori Ori) []byte {
	if ori == Forward {
		if s, ok := seq.(*InMemory); ok {
			return append(dst, s.data[begin:begin+length]...)
		}
		for i := 0; i < length; i++ {
			dst = append(dst, seq.CharAt(begin+i))
		}
		return dst
	}
	for i := 0; i < length; i++ {
		dst = append(dst, Complement(seq.CharAt(begin-i)))
	}
	return dst
}

// MakeHash folds the oriented bases of a window into a 64-bit value using
// multiplier mul. Windows whose oriented contents are equal hash equally
// regardless of where they sit or which strand they read.
func MakeHash(mul uint64, seq Sequence, begin, length int, ori Ori) uint64 {
	h := uint64(length)
	pos := begin
	for i := 0; i < length; i++ {
		c := seq.CharAt(pos)
		if ori == Reverse {
			c = Complement(c)
		}
		h = h*mul ^ uint64(c)
		pos += int(ori)
	}
	return h
}
