package pangenome

import (
	"encoding/binary"
	"math/rand"
	"sort"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/bloomrepeats/sequence"
)

const (
	// DefaultBlockName is the name of a block that was never named.
	DefaultBlockName = "00000000"
	// MaxBlockNameLength is the longest name SetName accepts.
	MaxBlockNameLength = 40

	randomNameAlphabet = "0123456789abcdef"
	randomNameLength   = 8
)

// Block is a group of fragments believed to be copies of the same region.
// A block owns its fragments: erasing a fragment, clearing or deleting the
// block deletes them. Fragment order within a block is the insertion order
// and has no meaning beyond stable iteration.
type Block struct {
	name      string
	fragments []*Fragment
}

// NewBlock creates an empty block named DefaultBlockName.
func NewBlock() *Block {
	return &Block{name: DefaultBlockName}
}

// NewNamedBlock creates an empty block with the given name.
func NewNamedBlock(name string) *Block {
	b := &Block{}
	b.SetName(name)
	return b
}

// Name returns the block name.
func (b *Block) Name() string { return b.name }

// ValidBlockName reports whether name has 1 to MaxBlockNameLength ASCII
// letters or digits.
func ValidBlockName(name string) bool {
	if len(name) < 1 || len(name) > MaxBlockNameLength {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

// SetName renames the block. It panics unless ValidBlockName(name).
func (b *Block) SetName(name string) {
	if !ValidBlockName(name) {
		log.Panicf("block name %q: want 1-%d letters or digits", name, MaxBlockNameLength)
	}
	b.name = name
}

// SetRandomName assigns 8 random hex digits drawn from rng.
func (b *Block) SetRandomName(rng *rand.Rand) {
	buf := make([]byte, randomNameLength)
	for i := range buf {
		buf[i] = randomNameAlphabet[rng.Intn(len(randomNameAlphabet))]
	}
	b.name = string(buf)
}

// SetNameFromFragments derives an 8 hex digit name from the fragment IDs, so
// that blocks with the same fragments get the same name in every run.
func (b *Block) SetNameFromFragments() {
	ids := make([]string, len(b.fragments))
	for i, f := range b.fragments {
		ids[i] = f.ID()
	}
	sort.Strings(ids)
	joint := []byte(strings.Join(ids, " "))
	const loopSize = 8 // one uint32 to multiply by, one to xor with
	for len(joint)%loopSize != 0 {
		joint = append(joint, ' ')
	}
	a := uint32(1)
	for i := 0; i < len(joint); i += loopSize {
		a *= binary.LittleEndian.Uint32(joint[i:])
		a ^= binary.LittleEndian.Uint32(joint[i+4:])
	}
	buf := make([]byte, 8)
	for i := 0; i < 4; i++ {
		v := byte(a >> (8 * uint(3-i)))
		buf[2*i] = randomNameAlphabet[v>>4]
		buf[2*i+1] = randomNameAlphabet[v&0x0f]
	}
	b.name = string(buf)
}

// Insert adds f to the block, which takes ownership of it. It panics if f
// already belongs to a block.
func (b *Block) Insert(f *Fragment) {
	if f.block != nil {
		log.Panicf("insert %s into block %s: fragment belongs to block %s", f.ID(), b.name, f.block.name)
	}
	b.fragments = append(b.fragments, f)
	f.block = b
}

func (b *Block) indexOf(f *Fragment) int {
	for i, g := range b.fragments {
		if g == f {
			return i
		}
	}
	return -1
}

// remove drops f from the fragment list without deleting it.
func (b *Block) remove(f *Fragment) {
	i := b.indexOf(f)
	if i < 0 {
		log.Panicf("block %s: fragment %s not found", b.name, f.ID())
	}
	copy(b.fragments[i:], b.fragments[i+1:])
	b.fragments[len(b.fragments)-1] = nil
	b.fragments = b.fragments[:len(b.fragments)-1]
}

// Erase removes f from the block and deletes it.
func (b *Block) Erase(f *Fragment) {
	b.remove(f)
	if f.block != nil {
		f.block = nil
		f.Delete()
	}
}

// Has reports whether f belongs to the block.
func (b *Block) Has(f *Fragment) bool { return b.indexOf(f) >= 0 }

// Size returns the number of fragments.
func (b *Block) Size() int { return len(b.fragments) }

// Empty reports whether the block has no fragments.
func (b *Block) Empty() bool { return len(b.fragments) == 0 }

// Front returns the first fragment, or nil.
func (b *Block) Front() *Fragment {
	if len(b.fragments) == 0 {
		return nil
	}
	return b.fragments[0]
}

// Fragments returns the fragments of the block. The caller must not modify
// the slice.
func (b *Block) Fragments() []*Fragment { return b.fragments }

// Each calls fn for every fragment in block order.
func (b *Block) Each(fn func(f *Fragment)) {
	for _, f := range b.fragments {
		fn(f)
	}
}

// Clear deletes all fragments.
func (b *Block) Clear() {
	fragments := b.fragments
	b.fragments = nil
	for _, f := range fragments {
		if f.block != nil {
			f.block = nil
			f.Delete()
		}
	}
}

// Delete releases the block and all of its fragments.
func (b *Block) Delete() { b.Clear() }

// SortFragments orders the fragments by Fragment.Less.
func (b *Block) SortFragments() {
	sort.Slice(b.fragments, func(i, j int) bool { return b.fragments[i].Less(b.fragments[j]) })
}

// Clone returns a block with the same name and copies of all fragments.
// The copies are not linked into any chain.
func (b *Block) Clone() *Block {
	c := &Block{name: b.name, fragments: make([]*Fragment, 0, len(b.fragments))}
	for _, f := range b.fragments {
		c.Insert(f.Clone())
	}
	return c
}

// Identity returns the fraction of columns, up to the length of the shortest
// fragment, where all fragments agree, relative to the length of the
// longest fragment. An empty block has identity 0.
func (b *Block) Identity() float64 {
	if len(b.fragments) == 0 {
		return 0
	}
	minLen, maxLen := b.fragments[0].Length(), b.fragments[0].Length()
	for _, f := range b.fragments[1:] {
		if l := f.Length(); l < minLen {
			minLen = l
		} else if l > maxLen {
			maxLen = l
		}
	}
	equal := 0
	for pos := 0; pos < minLen; pos++ {
		c := b.fragments[0].At(pos)
		same := true
		for _, f := range b.fragments[1:] {
			if f.At(pos) != c {
				same = false
				break
			}
		}
		if same {
			equal++
		}
	}
	return float64(equal) / float64(maxLen)
}

type oriCount map[sequence.Sequence]map[sequence.Ori]int

func countOri(b *Block) oriCount {
	c := oriCount{}
	for _, f := range b.fragments {
		m := c[f.seq]
		if m == nil {
			m = map[sequence.Ori]int{}
			c[f.seq] = m
		}
		m[f.ori]++
	}
	return c
}

// Match compares the per-sequence, per-orientation fragment counts of two
// blocks. It returns 1 if they are equal, -1 if they are equal once one
// block is inverted, and 0 otherwise.
func Match(one, another *Block) int {
	if one.Size() != another.Size() {
		return 0
	}
	allMatch, allMatchInversed := true, true
	counts, otherCounts := countOri(one), countOri(another)
	for seq, c := range counts {
		oc, ok := otherCounts[seq]
		if !ok {
			return 0
		}
		for _, ori := range [...]sequence.Ori{sequence.Reverse, sequence.Forward} {
			if c[ori] != oc[ori] {
				allMatch = false
			}
			if c[ori] != oc[-ori] {
				allMatchInversed = false
			}
		}
		if !allMatch && !allMatchInversed {
			return 0
		}
	}
	if allMatch {
		return 1
	}
	return -1
}

// Inverse flips every fragment.
func (b *Block) Inverse() {
	for _, f := range b.fragments {
		f.Inverse()
	}
}

// Patch applies d to every fragment.
func (b *Block) Patch(d Diff) {
	for _, f := range b.fragments {
		f.Patch(d)
	}
}

// Split splits every fragment at newLength and returns a new block of the
// tails. The new block is empty if no fragment is longer than newLength.
func (b *Block) Split(newLength int) *Block {
	result := NewBlock()
	for _, f := range b.fragments {
		if tail := f.Split(newLength); tail != nil {
			result.Insert(tail)
		}
	}
	return result
}

// FindPlace calls FindPlace on every fragment.
func (b *Block) FindPlace() {
	for _, f := range b.fragments {
		f.FindPlace()
	}
}

// MaxShiftEnd returns the smallest MaxShiftEnd over the fragments.
func (b *Block) MaxShiftEnd(maxOverlap int) int {
	result := int(^uint(0) >> 1)
	for _, f := range b.fragments {
		if s := f.MaxShiftEnd(maxOverlap); s < result {
			result = s
		}
	}
	return result
}

// CommonPositions sums CommonPositions(f) over the fragments.
func (b *Block) CommonPositions(f *Fragment) int {
	n := 0
	for _, g := range b.fragments {
		n += g.CommonPositions(f)
	}
	return n
}

// String lists the fragments as FASTA records sorted by ID.
func (b *Block) String() string {
	fragments := append([]*Fragment(nil), b.fragments...)
	sort.Slice(fragments, func(i, j int) bool { return fragments[i].ID() < fragments[j].ID() })
	var sb strings.Builder
	for _, f := range fragments {
		sb.WriteString(f.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
