package fasta

import (
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
)

// IndexEntry is one line of a FASTA index (*.fai), as defined by "samtools
// faidx" (http://www.htslib.org/doc/faidx.html).
type IndexEntry struct {
	Name string
	// Length is the number of bases of the record.
	Length int
	// Offset is the byte offset of the first base of the record.
	Offset int64
	// LineBases is the number of bases per line, LineWidth the number of
	// bytes per line including the newline.
	LineBases int
	LineWidth int
}

// WriteIndex writes the entries in the *.fai format.
func WriteIndex(out io.Writer, entries []IndexEntry) error {
	w := tsv.NewWriter(out)
	for _, e := range entries {
		if e.Name == "" {
			return errors.E(errors.Invalid, "fasta index: empty sequence name")
		}
		w.WriteString(e.Name)
		w.WriteInt64(int64(e.Length))
		w.WriteInt64(e.Offset)
		w.WriteInt64(int64(e.LineBases))
		w.WriteInt64(int64(e.LineWidth))
		if err := w.EndLine(); err != nil {
			return err
		}
	}
	return w.Flush()
}
