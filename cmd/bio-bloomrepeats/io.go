package main

// This file defines blockSetWriter and readBlockSet. A block set found by the
// "find" command can be dumped into a recordio file and later printed by the
// "view" command without rerunning the finder.

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/recordio"
	"github.com/grailbio/base/recordio/recordiozstd"
	"github.com/grailbio/bloomrepeats/anchor"
	"github.com/grailbio/bloomrepeats/pangenome"
	"github.com/grailbio/bloomrepeats/sequence"
)

const (
	// <fileVersionHeader, fileVersion> is stored in a recordio header.
	fileVersionHeader = "bloomrepeatsversion"
	fileVersion       = "BR_V1"
)

// seqRecord is one input sequence. Fragments refer to it by its index.
type seqRecord struct {
	Name  string
	Bases string
}

type fragmentRecord struct {
	Seq      int
	Min, Max int
	Ori      sequence.Ori
}

// blockRecord is stored once per block, in block set order.
type blockRecord struct {
	Name      string
	Fragments []fragmentRecord
}

// blockSetTrailer is stored in the trailer section of the recordio file.
type blockSetTrailer struct {
	// Opts are the finder options used to generate the blocks.
	Opts  anchor.Opts
	Stats anchor.Stats
	// Seqs lists every sequence of the block set, including the ones with no
	// fragments.
	Seqs []seqRecord
}

// blockSetWriter writes blocks to a recordio file.
type blockSetWriter struct {
	out    file.File
	w      recordio.Writer
	seqIdx map[sequence.Sequence]int
	h      blockSetTrailer
}

func newBlockSetWriter(ctx context.Context, path string, opts anchor.Opts) (*blockSetWriter, error) {
	recordiozstd.Init()
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "rio create", path)
	}
	w := recordio.NewWriter(out.Writer(ctx), recordio.WriterOpts{
		Transformers: []string{recordiozstd.Name},
	})
	w.AddHeader(fileVersionHeader, fileVersion)
	w.AddHeader(recordio.KeyTrailer, true)
	return &blockSetWriter{
		out:    out,
		w:      w,
		seqIdx: map[sequence.Sequence]int{},
		h:      blockSetTrailer{Opts: opts},
	}, nil
}

// AddSequence registers a sequence. Sequences must be added before the
// blocks that refer to them.
func (w *blockSetWriter) AddSequence(s sequence.Sequence) {
	if _, ok := w.seqIdx[s]; ok {
		return
	}
	w.seqIdx[s] = len(w.h.Seqs)
	w.h.Seqs = append(w.h.Seqs, seqRecord{Name: s.Name(), Bases: sequenceBases(s)})
}

func sequenceBases(s sequence.Sequence) string {
	if m, ok := s.(*sequence.InMemory); ok {
		return m.Contents()
	}
	buf := make([]byte, s.Size())
	for i := range buf {
		buf[i] = s.CharAt(i)
	}
	return string(buf)
}

// Write appends one block.
func (w *blockSetWriter) Write(b *pangenome.Block) error {
	rec := blockRecord{Name: b.Name(), Fragments: make([]fragmentRecord, 0, b.Size())}
	for _, f := range b.Fragments() {
		idx, ok := w.seqIdx[f.Seq()]
		if !ok {
			return errors.E(errors.Invalid, fmt.Sprintf("block %s: fragment %s on unregistered sequence", b.Name(), f.ID()))
		}
		rec.Fragments = append(rec.Fragments, fragmentRecord{Seq: idx, Min: f.MinPos(), Max: f.MaxPos(), Ori: f.Ori()})
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return errors.E(err, "encode block", b.Name())
	}
	w.w.Append(buf.Bytes())
	return nil
}

// WriteBlockSet registers the sequences of bs and writes all of its blocks.
func (w *blockSetWriter) WriteBlockSet(bs *pangenome.BlockSet) error {
	for _, s := range bs.Sequences() {
		w.AddSequence(s)
	}
	for _, b := range bs.Blocks() {
		if err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// Close writes the trailer and closes the file. It must be called exactly
// once, after all the blocks are written.
func (w *blockSetWriter) Close(ctx context.Context, stats anchor.Stats) error {
	w.h.Stats = stats
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(w.h); err != nil {
		return errors.E(err, "encode trailer")
	}
	w.w.SetTrailer(buf.Bytes())
	e := errors.Once{}
	e.Set(w.w.Finish())
	e.Set(w.out.Close(ctx))
	return e.Err()
}

// rioBlockSet is the content of a recordio file written by blockSetWriter.
type rioBlockSet struct {
	Opts     anchor.Opts
	Stats    anchor.Stats
	BlockSet *pangenome.BlockSet
}

// readBlockSet reads a file written by blockSetWriter. The fragments of the
// returned block set are connected.
func readBlockSet(ctx context.Context, path string) (rio rioBlockSet, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return rio, errors.E(err, "rio open", path)
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	recordiozstd.Init()
	r := recordio.NewScanner(in.Reader(ctx), recordio.ScannerOpts{})
	defer r.Finish()
	versionFound := false
	for _, kv := range r.Header() {
		if kv.Key == fileVersionHeader {
			if v, _ := kv.Value.(string); v != fileVersion {
				return rio, errors.E(errors.Invalid, fmt.Sprintf("%s: file version %v, want %v", path, kv.Value, fileVersion))
			}
			versionFound = true
			break
		}
	}
	if !versionFound {
		return rio, errors.E(errors.Invalid, path, fileVersionHeader+" not found")
	}
	var h blockSetTrailer
	if err = gob.NewDecoder(bytes.NewReader(r.Trailer())).Decode(&h); err != nil {
		return rio, errors.E(err, "decode trailer", path)
	}
	rio.Opts, rio.Stats = h.Opts, h.Stats

	bs := pangenome.NewBlockSet()
	seqs := make([]sequence.Sequence, len(h.Seqs))
	for i, s := range h.Seqs {
		seqs[i] = sequence.NewInMemory(s.Name, s.Bases)
	}
	bs.AddSequences(seqs)
	for r.Scan() {
		var rec blockRecord
		if err = gob.NewDecoder(bytes.NewReader(r.Get().([]byte))).Decode(&rec); err != nil {
			return rio, errors.E(err, "decode block", path)
		}
		if !pangenome.ValidBlockName(rec.Name) {
			return rio, errors.E(errors.Invalid, fmt.Sprintf("%s: invalid block name %q", path, rec.Name))
		}
		b := pangenome.NewNamedBlock(rec.Name)
		for _, fr := range rec.Fragments {
			if fr.Seq < 0 || fr.Seq >= len(seqs) {
				return rio, errors.E(errors.Invalid, fmt.Sprintf("%s: block %s: sequence index %d out of range", path, rec.Name, fr.Seq))
			}
			b.Insert(bs.Arena().NewFragment(seqs[fr.Seq], fr.Min, fr.Max, fr.Ori))
		}
		bs.Insert(b)
	}
	if err = r.Err(); err != nil {
		return rio, errors.E(err, "rio read", path)
	}
	bs.ConnectFragments()
	rio.BlockSet = bs
	return rio, nil
}
