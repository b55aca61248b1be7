package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/bloomrepeats/anchor"
	"github.com/grailbio/bloomrepeats/encoding/fasta"
	"github.com/grailbio/bloomrepeats/pangenome"
	"github.com/grailbio/bloomrepeats/sequence"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/errgroup"
	"v.io/x/lib/vlog"
)

type findFlags struct {
	opts              anchor.Opts
	minFragmentLength int
	minBlockSize      int
	seed              int64
	out               string
	rio               string
	lineWidth         int
	fai               bool
}

type viewFlags struct {
	out       string
	stats     bool
	lineWidth int
}

// readFASTA reads all records of a FASTA file. Files whose name ends in ".gz"
// are gunzipped.
func readFASTA(ctx context.Context, path string) (recs []fasta.Record, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open", path)
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	var r io.Reader = in.Reader(ctx)
	if strings.HasSuffix(path, ".gz") {
		gz, e := gzip.NewReader(r)
		if e != nil {
			return nil, errors.E(e, "gzip", path)
		}
		defer gz.Close() // nolint: errcheck
		r = gz
	}
	var (
		rec fasta.Record
		s   = fasta.NewScanner(r)
	)
	for s.Scan(&rec) {
		recs = append(recs, rec)
	}
	if e := s.Err(); e != nil {
		return nil, errors.E(e, path)
	}
	return recs, nil
}

// loadSequences reads the FASTA files in parallel. Sequences are returned,
// and get their IDs, in the order of the paths and then of the records.
func loadSequences(ctx context.Context, paths []string) ([]sequence.Sequence, error) {
	recs := make([][]fasta.Record, len(paths))
	var g errgroup.Group
	for i := range paths {
		i := i
		g.Go(func() error {
			var err error
			if recs[i], err = readFASTA(ctx, paths[i]); err != nil {
				return err
			}
			vlog.VI(1).Infof("%s: read %d sequences", paths[i], len(recs[i]))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var seqs []sequence.Sequence
	for _, fileRecs := range recs {
		for _, rec := range fileRecs {
			seqs = append(seqs, sequence.NewInMemory(rec.Name, rec.Bases))
		}
	}
	return seqs, nil
}

// output is a FASTA destination: stdout, a file or a gzipped file.
type output struct {
	f  file.File
	gz *gzip.Writer
	w  io.Writer
}

func createOutput(ctx context.Context, path string, stdout io.Writer) (*output, error) {
	if path == "" || path == "-" {
		return &output{w: stdout}, nil
	}
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "create", path)
	}
	o := &output{f: f, w: f.Writer(ctx)}
	if strings.HasSuffix(path, ".gz") {
		o.gz = gzip.NewWriter(o.w)
		o.w = o.gz
	}
	return o, nil
}

func (o *output) Close(ctx context.Context) error {
	e := errors.Once{}
	if o.gz != nil {
		e.Set(o.gz.Close())
	}
	if o.f != nil {
		e.Set(o.f.Close(ctx))
	}
	return e.Err()
}

// writeBlockSet writes bs as FASTA to path, or to stdout if path is empty.
// If fai is set, the FASTA index is written to path+".fai"; path must then
// name an uncompressed file.
func writeBlockSet(ctx context.Context, path string, stdout io.Writer, lineWidth int, fai bool, bs *pangenome.BlockSet) error {
	if fai && (path == "" || path == "-" || strings.HasSuffix(path, ".gz")) {
		return errors.E(errors.Invalid, fmt.Sprintf("cannot index FASTA output %q", path))
	}
	out, err := createOutput(ctx, path, stdout)
	if err != nil {
		return err
	}
	w := fasta.NewWriter(out.w, lineWidth)
	e := errors.Once{}
	e.Set(w.WriteBlockSet(bs))
	e.Set(w.Flush())
	e.Set(out.Close(ctx))
	if e.Err() != nil || !fai {
		return e.Err()
	}
	idx, err := file.Create(ctx, path+".fai")
	if err != nil {
		return errors.E(err, "create", path+".fai")
	}
	e.Set(fasta.WriteIndex(idx.Writer(ctx), w.Index()))
	e.Set(idx.Close(ctx))
	return e.Err()
}

// find runs the anchor finder on the sequences of the FASTA files, filters
// and names the blocks found, and writes them out.
func find(ctx context.Context, stdout io.Writer, flags findFlags, paths []string) (*pangenome.BlockSet, error) {
	if err := flags.opts.Validate(); err != nil {
		return nil, err
	}
	seqs, err := loadSequences(ctx, paths)
	if err != nil {
		return nil, err
	}
	log.Printf("find: read %d sequences from %d files", len(seqs), len(paths))

	bs := pangenome.NewBlockSet()
	bs.AddSequences(seqs)
	finder := anchor.New(flags.opts)
	finder.AddSequences(seqs)
	finder.SetBlockSet(bs)
	if err = finder.Run(); err != nil {
		return nil, err
	}
	stats := finder.Stats()
	log.Printf("find: %v", stats)

	bs.Filter(flags.minFragmentLength, flags.minBlockSize)
	if bs.Overlaps() {
		log.Debug.Printf("find: some anchors overlap on their sequences")
	}
	bs.UniqueNames(rand.New(rand.NewSource(flags.seed)))
	log.Printf("find: %d blocks after filtering", bs.Size())

	if err = writeBlockSet(ctx, flags.out, stdout, flags.lineWidth, flags.fai, bs); err != nil {
		return nil, err
	}
	if flags.rio != "" {
		w, err := newBlockSetWriter(ctx, flags.rio, flags.opts)
		if err != nil {
			return nil, err
		}
		if err = w.WriteBlockSet(bs); err != nil {
			return nil, err
		}
		if err = w.Close(ctx, stats); err != nil {
			return nil, err
		}
	}
	return bs, nil
}
