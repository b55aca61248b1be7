// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package pangenome

import (
	"strconv"
	"strings"

	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/bloomrepeats/sequence"
	"github.com/spaolacci/murmur3"
)

// Fragment is an oriented closed interval [MinPos, MaxPos] on a sequence.
//
// Fragments are linked into chains by Prev/Next. The chain is independent of
// block membership and usually follows the order of fragments along a
// sequence. A fragment belongs to at most one Block, which owns it.
//
// Coordinates are signed. An interval with MinPos > MaxPos, or one that
// falls off the sequence, is not an error: it is the "invalid" state
// produced by Exclude and friends, and is detected with Valid.
//
// Fragments are not thread safe.
type Fragment struct {
	seq        sequence.Sequence
	min, max   int
	ori        sequence.Ori
	prev, next *Fragment
	block      *Block
	arena      *Arena
}

// NewFragment creates a standalone fragment on the heap. Any ori other than
// Forward is stored as Reverse.
func NewFragment(seq sequence.Sequence, min, max int, ori sequence.Ori) *Fragment {
	f := &Fragment{}
	f.init(seq, min, max, ori)
	return f
}

// Invalid returns a fresh fragment in the invalid state (MinPos=1,
// MaxPos=0, no sequence).
func Invalid() *Fragment {
	return NewFragment(nil, 1, 0, sequence.Forward)
}

func (f *Fragment) init(seq sequence.Sequence, min, max int, ori sequence.Ori) {
	f.seq = seq
	f.min = min
	f.max = max
	f.SetOri(ori)
}

// newSibling allocates a fragment from the same arena as f, if any.
func (f *Fragment) newSibling(seq sequence.Sequence, min, max int, ori sequence.Ori) *Fragment {
	if f.arena != nil {
		return f.arena.NewFragment(seq, min, max, ori)
	}
	return NewFragment(seq, min, max, ori)
}

// Clone returns a new unlinked, blockless fragment with f's coordinates.
func (f *Fragment) Clone() *Fragment {
	return f.newSibling(f.seq, f.min, f.max, f.ori)
}

// ApplyCoords copies the sequence and coordinates of other into f. Links
// and block membership are unchanged.
func (f *Fragment) ApplyCoords(other *Fragment) {
	f.seq = other.seq
	f.min = other.min
	f.max = other.max
	f.ori = other.ori
}

// Delete releases f. It is first unlinked from its chain, its neighbors
// being relinked to each other, and then removed from its block.
func (f *Fragment) Delete() {
	f.Disconnect(true)
	if b := f.block; b != nil {
		f.block = nil
		b.remove(f)
	}
	if a := f.arena; a != nil {
		a.release(f)
	}
}

// Seq returns the sequence the fragment lies on.
func (f *Fragment) Seq() sequence.Sequence { return f.seq }

// Block returns the block owning f, or nil.
func (f *Fragment) Block() *Block { return f.block }

// MinPos returns the smallest position covered.
func (f *Fragment) MinPos() int { return f.min }

// SetMinPos sets MinPos.
func (f *Fragment) SetMinPos(pos int) { f.min = pos }

// MaxPos returns the largest position covered.
func (f *Fragment) MaxPos() int { return f.max }

// SetMaxPos sets MaxPos.
func (f *Fragment) SetMaxPos(pos int) { f.max = pos }

// Ori returns the orientation.
func (f *Fragment) Ori() sequence.Ori { return f.ori }

// SetOri sets the orientation.
func (f *Fragment) SetOri(ori sequence.Ori) {
	if ori == sequence.Forward {
		f.ori = sequence.Forward
	} else {
		f.ori = sequence.Reverse
	}
}

// Inverse flips the orientation.
func (f *Fragment) Inverse() { f.ori = -f.ori }

// Length returns MaxPos-MinPos+1.
func (f *Fragment) Length() int { return f.max - f.min + 1 }

// BeginPos is the position of the first base read in f's orientation.
func (f *Fragment) BeginPos() int {
	if f.ori == sequence.Forward {
		return f.min
	}
	return f.max
}

// SetBeginPos moves the first base read.
func (f *Fragment) SetBeginPos(pos int) {
	if f.ori == sequence.Forward {
		f.min = pos
	} else {
		f.max = pos
	}
}

// LastPos is the position of the last base read in f's orientation.
func (f *Fragment) LastPos() int {
	if f.ori == sequence.Forward {
		return f.max
	}
	return f.min
}

// SetLastPos moves the last base read.
func (f *Fragment) SetLastPos(pos int) {
	if f.ori == sequence.Forward {
		f.max = pos
	} else {
		f.min = pos
	}
}

// EndPos is one step past LastPos. For a reverse fragment starting at
// position 0 it is -1, meaning "before the start of the sequence".
func (f *Fragment) EndPos() int {
	if f.ori == sequence.Forward {
		return f.max + 1
	}
	return f.min - 1
}

// Valid reports whether f denotes a non-empty interval inside its sequence.
func (f *Fragment) Valid() bool {
	return f.seq != nil && 0 <= f.min && f.min <= f.max && f.max < f.seq.Size()
}

func seqID(s sequence.Sequence) uint64 {
	if s == nil {
		return 0
	}
	return s.ID()
}

// Compare orders fragments by (MinPos, MaxPos, Ori, sequence ID).
func (f *Fragment) Compare(other *Fragment) int {
	switch {
	case f.min != other.min:
		return cmpInt(f.min, other.min)
	case f.max != other.max:
		return cmpInt(f.max, other.max)
	case f.ori != other.ori:
		return cmpInt(int(f.ori), int(other.ori))
	}
	a, b := seqID(f.seq), seqID(other.seq)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	return 1
}

// Less reports whether f orders before other.
func (f *Fragment) Less(other *Fragment) bool { return f.Compare(other) < 0 }

// Equal reports whether f and other cover the same interval of the same
// sequence in the same orientation.
func (f *Fragment) Equal(other *Fragment) bool {
	return f.min == other.min && f.max == other.max && f.ori == other.ori && f.seq == other.seq
}

// Has reports whether pos lies inside f.
func (f *Fragment) Has(pos int) bool { return f.min <= pos && pos <= f.max }

// RawAt returns the base at offset pos from BeginPos, stepping by Ori and
// complementing reverse fragments. pos may be negative or past the end as
// long as it stays on the sequence.
func (f *Fragment) RawAt(pos int) byte {
	c := f.seq.CharAt(f.BeginPos() + int(f.ori)*pos)
	if f.ori == sequence.Reverse {
		return sequence.Complement(c)
	}
	return c
}

// At is like RawAt, but negative offsets count from the end of f.
func (f *Fragment) At(pos int) byte {
	if pos < 0 {
		pos += f.Length()
	}
	return f.RawAt(pos)
}

// Bases returns the bases of f read in its orientation.
func (f *Fragment) Bases() string {
	return f.Substr(0, f.Length()-1)
}

// Substr returns the bases at offsets [from, to]. Negative offsets count
// from the end of f.
func (f *Fragment) Substr(from, to int) string {
	if from < 0 {
		from += f.Length()
	}
	if to < 0 {
		to += f.Length()
	}
	if to < from {
		return ""
	}
	buf := make([]byte, 0, to-from+1)
	for i := from; i <= to; i++ {
		buf = append(buf, f.RawAt(i))
	}
	return gunsafe.BytesToString(buf)
}

// Subfragment returns a new fragment between offsets from and to of f. The
// result reads in f's orientation when from <= to, and in the opposite one
// otherwise.
func (f *Fragment) Subfragment(from, to int) *Fragment {
	b := f.BeginPos() + int(f.ori)*from
	l := f.BeginPos() + int(f.ori)*to
	ori := f.ori
	if from > to {
		ori = -ori
	}
	min, max := b, l
	if min > max {
		min, max = max, min
	}
	return f.newSibling(f.seq, min, max, ori)
}

// ID returns "<seqname>_<begin>_<last>".
func (f *Fragment) ID() string {
	var name string
	if f.seq != nil {
		name = f.seq.Name()
	}
	return name + "_" + strconv.Itoa(f.BeginPos()) + "_" + strconv.Itoa(f.LastPos())
}

// Hash is a content hash of the bases of f.
func (f *Fragment) Hash() uint64 {
	return murmur3.Sum64(gunsafe.StringToBytes(f.Bases()))
}

// String returns f as a FASTA record: the header carries the location and
// the block name, if any.
func (f *Fragment) String() string {
	var b strings.Builder
	b.WriteByte('>')
	if f.seq != nil && f.seq.Name() != "" {
		b.WriteString(f.seq.Name())
		b.WriteByte('_')
	}
	b.WriteString(strconv.Itoa(f.BeginPos()))
	b.WriteByte('_')
	b.WriteString(strconv.Itoa(f.LastPos()))
	if f.block != nil {
		b.WriteString(" block=")
		b.WriteString(f.block.Name())
	}
	b.WriteByte('\n')
	b.WriteString(f.Bases())
	return b.String()
}

func (f *Fragment) mustSameSeq(op string, other *Fragment) {
	if f.seq != other.seq {
		log.Panicf("%s: fragments %s and %s lie on different sequences", op, f.ID(), other.ID())
	}
}
