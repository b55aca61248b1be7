package pangenome

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/bloomrepeats/sequence"
)

// BlockSet owns a collection of blocks and the sequences their fragments
// point into. Blocks iterate in insertion order.
type BlockSet struct {
	arena  *Arena
	seqs   []sequence.Sequence
	blocks []*Block
	index  map[*Block]struct{}
}

// NewBlockSet creates an empty block set with its own fragment arena.
func NewBlockSet() *BlockSet {
	return &BlockSet{arena: NewArena(), index: map[*Block]struct{}{}}
}

// Arena returns the arena fragments of this set should be allocated from.
func (bs *BlockSet) Arena() *Arena { return bs.arena }

// AddSequence registers a sequence.
func (bs *BlockSet) AddSequence(s sequence.Sequence) { bs.seqs = append(bs.seqs, s) }

// AddSequences registers sequences.
func (bs *BlockSet) AddSequences(seqs []sequence.Sequence) { bs.seqs = append(bs.seqs, seqs...) }

// Sequences returns the registered sequences.
func (bs *BlockSet) Sequences() []sequence.Sequence { return bs.seqs }

// Insert adds b to the set, which takes ownership of it.
func (bs *BlockSet) Insert(b *Block) {
	if _, ok := bs.index[b]; ok {
		log.Panicf("block set: block %s inserted twice", b.Name())
	}
	bs.index[b] = struct{}{}
	bs.blocks = append(bs.blocks, b)
}

// Erase removes b from the set and deletes it.
func (bs *BlockSet) Erase(b *Block) {
	if _, ok := bs.index[b]; !ok {
		log.Panicf("block set: block %s not found", b.Name())
	}
	delete(bs.index, b)
	for i, c := range bs.blocks {
		if c == b {
			bs.blocks = append(bs.blocks[:i], bs.blocks[i+1:]...)
			break
		}
	}
	b.Delete()
}

// Has reports whether b belongs to the set.
func (bs *BlockSet) Has(b *Block) bool {
	_, ok := bs.index[b]
	return ok
}

// Size returns the number of blocks.
func (bs *BlockSet) Size() int { return len(bs.blocks) }

// Empty reports whether the set has no blocks.
func (bs *BlockSet) Empty() bool { return len(bs.blocks) == 0 }

// Front returns the first block, or nil.
func (bs *BlockSet) Front() *Block {
	if len(bs.blocks) == 0 {
		return nil
	}
	return bs.blocks[0]
}

// Blocks returns the blocks. The caller must not modify the slice.
func (bs *BlockSet) Blocks() []*Block { return bs.blocks }

// Each calls fn for every block in insertion order.
func (bs *BlockSet) Each(fn func(b *Block)) {
	for _, b := range bs.blocks {
		fn(b)
	}
}

// Clear deletes all blocks. Sequences stay registered.
func (bs *BlockSet) Clear() {
	blocks := bs.blocks
	bs.blocks = nil
	bs.index = map[*Block]struct{}{}
	for _, b := range blocks {
		b.Delete()
	}
}

// ConnectFragments links, for every sequence, all of its fragments into a
// chain sorted by Fragment.Less.
func (bs *BlockSet) ConnectFragments() {
	bySeq := map[sequence.Sequence][]*Fragment{}
	var order []sequence.Sequence
	for _, b := range bs.blocks {
		for _, f := range b.fragments {
			if _, ok := bySeq[f.seq]; !ok {
				order = append(order, f.seq)
			}
			bySeq[f.seq] = append(bySeq[f.seq], f)
		}
	}
	for _, s := range order {
		fragments := bySeq[s]
		sort.SliceStable(fragments, func(i, j int) bool { return fragments[i].Less(fragments[j]) })
		for i := 1; i < len(fragments); i++ {
			Connect(fragments[i-1], fragments[i])
		}
	}
}

// Overlaps connects the fragments and reports whether any two neighbors
// share a position.
func (bs *BlockSet) Overlaps() bool {
	bs.ConnectFragments()
	for _, b := range bs.blocks {
		for _, f := range b.fragments {
			if n := f.next; n != nil && f.CommonPositions(n) > 0 {
				return true
			}
		}
	}
	return false
}

// Filter erases fragments shorter than minFragmentLength and then blocks
// with fewer than minBlockSize fragments.
func (bs *BlockSet) Filter(minFragmentLength, minBlockSize int) {
	var kept []*Block
	for _, b := range bs.blocks {
		for _, f := range append([]*Fragment(nil), b.fragments...) {
			if f.Length() < minFragmentLength {
				b.Erase(f)
			}
		}
		if b.Size() < minBlockSize {
			delete(bs.index, b)
			b.Delete()
			continue
		}
		kept = append(kept, b)
	}
	bs.blocks = kept
}

// UniqueNames gives every block a distinct name. Blocks still named
// DefaultBlockName are named from their fragments; blocks whose name is
// taken by an earlier block get random names from rng.
func (bs *BlockSet) UniqueNames(rng *rand.Rand) {
	seen := map[string]bool{}
	for _, b := range bs.blocks {
		if b.name == DefaultBlockName {
			b.SetNameFromFragments()
		}
		for seen[b.name] {
			b.SetRandomName(rng)
		}
		seen[b.name] = true
	}
}

// String lists all blocks as FASTA records.
func (bs *BlockSet) String() string {
	var sb strings.Builder
	for _, b := range bs.blocks {
		sb.WriteString(b.String())
	}
	return sb.String()
}
