// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package anchor finds anchors: exact repeats of a fixed length shared by
// two or more places of a set of sequences.
//
// The search runs in two passes over all windows of AnchorSize bases. The
// first pass streams the windows through a Bloom filter and remembers the
// hashes of windows that hit it. The second pass rescans the sequences,
// groups the windows with remembered hashes by exact content, and hands
// every group with at least two members to the anchor handler as a
// pangenome.Block. Bloom and hash false positives only cost memory in the
// second pass; they never produce wrong blocks.
//
// Both passes run on Opts.Workers goroutines. The Bloom filter is driven
// by a single reducer that consumes first-pass results in sequence order,
// so the output does not depend on the number of workers.
package anchor

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/syncqueue"
	"github.com/grailbio/bloomrepeats/bloom"
	"github.com/grailbio/bloomrepeats/pangenome"
	"github.com/grailbio/bloomrepeats/sequence"
)

// hashMul is the multiplier of the window hash that links the two passes.
const hashMul = 1484954565

// Handler receives every anchor block. It takes ownership of the block.
type Handler func(b *pangenome.Block)

// Finder finds anchors in a set of sequences. A Finder is not thread safe;
// Run itself uses Opts.Workers goroutines.
type Finder struct {
	opts    Opts
	seqs    []sequence.Sequence
	handler Handler
	arena   *pangenome.Arena
	stats   Stats
}

// New creates a Finder with the given options.
func New(opts Opts) *Finder {
	return &Finder{opts: opts}
}

// Opts returns the options of the Finder.
func (f *Finder) Opts() Opts { return f.opts }

// AddSequence adds a sequence to search.
func (f *Finder) AddSequence(s sequence.Sequence) { f.seqs = append(f.seqs, s) }

// AddSequences adds sequences to search.
func (f *Finder) AddSequences(seqs []sequence.Sequence) { f.seqs = append(f.seqs, seqs...) }

// SetAnchorHandler registers the callback receiving anchor blocks. It
// replaces any block set registered by SetBlockSet.
func (f *Finder) SetAnchorHandler(h Handler) {
	f.handler = h
	f.arena = nil
}

// SetBlockSet makes Run insert anchor blocks into bs. Fragments are
// allocated from the arena of bs.
func (f *Finder) SetBlockSet(bs *pangenome.BlockSet) {
	f.handler = bs.Insert
	f.arena = bs.Arena()
}

// Stats returns the statistics of the last Run.
func (f *Finder) Stats() Stats { return f.stats }

// Run searches the sequences for anchors and calls the handler with every
// anchor block, in ascending order of the block contents. The fragments of
// each block are sorted by pangenome.Fragment.Less. Run does nothing if no
// handler is registered.
func (f *Finder) Run() error {
	if err := f.opts.Validate(); err != nil {
		return err
	}
	if f.handler == nil {
		log.Printf("anchor: no anchor handler registered, skipping search")
		return nil
	}
	var (
		k         = f.opts.AnchorSize
		sizes     = make([]int, len(f.seqs))
		lengthSum = 0
	)
	for i, s := range f.seqs {
		sizes[i] = s.Size()
		lengthSum += sizes[i]
	}
	tasks := makeTasks(sizes, k)
	expected := expectedCount(lengthSum, k)
	filter := bloom.New(expected, 1/float64(expected))
	stats := Stats{
		Sequences:    len(f.seqs),
		FilterBits:   filter.Bits(),
		FilterHashes: filter.Hashes(),
	}
	log.Printf("anchor: %d sequences, %d bases, %d tasks, bloom filter %d bits/%d hashes",
		len(f.seqs), lengthSum, len(tasks), filter.Bits(), filter.Hashes())

	possible, windows, err := f.findCandidates(filter, tasks)
	if err != nil {
		return errors.E(err, "anchor: candidate pass")
	}
	stats.Windows = windows
	stats.Candidates = len(possible)
	log.Debug.Printf("anchor: %d windows, %d candidate hashes", windows, len(possible))

	blocks := newBlockMap()
	if err := f.collectBlocks(possible, tasks, blocks); err != nil {
		return errors.E(err, "anchor: collection pass")
	}
	sorted := blocks.drain()
	stats.Blocks = len(sorted)
	for _, b := range sorted {
		if b.Size() < 2 {
			stats.Discarded++
			b.Delete()
			continue
		}
		b.SortFragments()
		stats.Emitted++
		f.handler(b)
	}
	f.stats = stats
	log.Printf("anchor: %v", stats)
	return nil
}

// expectedCount returns the number of distinct windows the Bloom filter is
// sized for: the total length, capped at the number of distinct k-mers.
func expectedCount(lengthSum, k int) int {
	n := lengthSum
	if k < 31 {
		if kmers := 1 << uint(2*k); n > kmers {
			n = kmers
		}
	}
	if n < 1 {
		n = 1
	}
	return n
}

// orientations returns the window orientations scanned, in scan order.
func (f *Finder) orientations() []sequence.Ori {
	if f.opts.OnlyOri != 0 {
		return []sequence.Ori{f.opts.OnlyOri}
	}
	return []sequence.Ori{sequence.FirstOri, -sequence.FirstOri}
}

// hashedWindow is a first-pass window: its Bloom fingerprint and the hash
// used to recognize it in the second pass.
type hashedWindow struct {
	digest uint64
	hash   uint64
	ori    sequence.Ori
}

// hashedTask holds the windows of one task in scan order.
type hashedTask struct {
	// first is set for the first task of a sequence.
	first   bool
	windows []hashedWindow
}

func (f *Finder) hashTask(t task) *hashedTask {
	var (
		seq = f.seqs[t.seq]
		k   = f.opts.AnchorSize
		buf = make([]byte, 0, k)
		ht  = &hashedTask{first: t.from == 0}
	)
	ht.windows = make([]hashedWindow, 0, (t.to-t.from)*len(f.orientations()))
	sc := sequence.NewRangeScanner(seq, k, f.opts.OnlyOri, t.from, t.to)
	for sc.Scan() {
		w := sc.Get()
		begin := w.BeginPos()
		buf = sequence.AppendWindow(buf[:0], seq, begin, k, w.Ori)
		ht.windows = append(ht.windows, hashedWindow{
			digest: bloom.Fingerprint(buf),
			hash:   sequence.MakeHash(hashMul, seq, begin, k, w.Ori),
			ori:    w.Ori,
		})
	}
	return ht
}

// findCandidates runs the first pass. Workers hash the windows of each
// task; a single reducer feeds them to the filter in task order.
//
// A window that hits the filter marks its hash as a possible anchor unless
// the previous window of the same orientation also hit. A run of
// overlapping hits thus flags only the window starting the run. The state
// is reset at the start of every sequence.
func (f *Finder) findCandidates(filter *bloom.Filter, tasks []task) (possible map[uint64]struct{}, windows int, err error) {
	possible = make(map[uint64]struct{})
	queue := syncqueue.NewOrderedQueue(2 * f.opts.workers())
	reduced := make(chan error, 1)
	go func() {
		var prev [2]bool // indexed by oriIndex
		for {
			v, ok, err := queue.Next()
			if err != nil || !ok {
				reduced <- err
				return
			}
			ht := v.(*hashedTask)
			if ht.first {
				prev = [2]bool{}
			}
			for _, w := range ht.windows {
				var hit bool
				if f.opts.addsOri(w.ori) {
					hit = filter.TestAndAddHash(w.digest)
				} else {
					hit = filter.TestHash(w.digest)
				}
				i := oriIndex(w.ori)
				switch {
				case !hit:
					prev[i] = false
				case !prev[i]:
					prev[i] = true
					possible[w.hash] = struct{}{}
				}
			}
			windows += len(ht.windows)
		}
	}()
	err = runTasks(f.opts.workers(), len(tasks), func(i int) error {
		defer func() {
			if r := recover(); r != nil {
				queue.Close(errors.E(fmt.Sprintf("anchor: hashing task %d panicked", i)))
				panic(r)
			}
		}()
		return queue.Insert(i, f.hashTask(tasks[i]))
	})
	if closeErr := queue.Close(err); err == nil {
		err = closeErr
	}
	if reduceErr := <-reduced; err == nil {
		err = reduceErr
	}
	return
}

func oriIndex(ori sequence.Ori) int {
	if ori == sequence.Forward {
		return 1
	}
	return 0
}

// collectBlocks runs the second pass, adding a fragment to blocks for
// every window whose hash is a possible anchor.
func (f *Finder) collectBlocks(possible map[uint64]struct{}, tasks []task, blocks *blockMap) error {
	k := f.opts.AnchorSize
	return runTasks(f.opts.workers(), len(tasks), func(i int) error {
		t := tasks[i]
		seq := f.seqs[t.seq]
		buf := make([]byte, 0, k)
		sc := sequence.NewRangeScanner(seq, k, f.opts.OnlyOri, t.from, t.to)
		for sc.Scan() {
			w := sc.Get()
			begin := w.BeginPos()
			if _, ok := possible[sequence.MakeHash(hashMul, seq, begin, k, w.Ori)]; !ok {
				continue
			}
			var fr *pangenome.Fragment
			if f.arena != nil {
				fr = f.arena.NewFragment(seq, w.MinPos, w.MaxPos, w.Ori)
			} else {
				fr = pangenome.NewFragment(seq, w.MinPos, w.MaxPos, w.Ori)
			}
			buf = sequence.AppendWindow(buf[:0], seq, begin, k, w.Ori)
			blocks.add(buf, fr)
		}
		return nil
	})
}
