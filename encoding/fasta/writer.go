package fasta

import (
	"bufio"
	"io"
	"sort"

	"github.com/grailbio/bloomrepeats/pangenome"
)

// DefaultLineWidth is the number of bases per line written by Writer.
const DefaultLineWidth = 60

// Writer writes FASTA records. Sequence lines are wrapped at the line width.
type Writer struct {
	w         *bufio.Writer
	lineWidth int
	err       error
	offset    int64 // bytes written so far
	index     []IndexEntry
}

// NewWriter constructs a FASTA writer on w. A non-positive lineWidth disables
// wrapping. Flush must be called once writing is done.
func NewWriter(w io.Writer, lineWidth int) *Writer {
	return &Writer{w: bufio.NewWriter(w), lineWidth: lineWidth}
}

// Write writes one record. The header is the record name followed by the
// description, if any.
func (w *Writer) Write(rec *Record) error {
	header := rec.Name
	if rec.Description != "" {
		header += " " + rec.Description
	}
	w.write(rec.Name, header, rec.Bases)
	return w.err
}

func (w *Writer) write(name, header, bases string) {
	if w.err != nil {
		return
	}
	w.w.WriteByte('>')
	w.w.WriteString(header)
	_, w.err = w.w.WriteString("\n")
	w.offset += int64(len(header) + 2)

	e := IndexEntry{Name: name, Length: len(bases), Offset: w.offset, LineBases: len(bases)}
	if w.lineWidth > 0 && e.LineBases > w.lineWidth {
		e.LineBases = w.lineWidth
	}
	e.LineWidth = e.LineBases + 1
	w.index = append(w.index, e)

	for len(bases) > 0 && w.err == nil {
		n := len(bases)
		if w.lineWidth > 0 && n > w.lineWidth {
			n = w.lineWidth
		}
		w.w.WriteString(bases[:n])
		_, w.err = w.w.WriteString("\n")
		w.offset += int64(n + 1)
		bases = bases[n:]
	}
}

// Index returns the *.fai entries of the records written so far.
func (w *Writer) Index() []IndexEntry { return w.index }

// WriteFragment writes f as a record named by its ID. Fragments of a block
// carry the block name in the description.
func (w *Writer) WriteFragment(f *pangenome.Fragment) error {
	id := f.ID()
	header := id
	if b := f.Block(); b != nil {
		header += " block=" + b.Name()
	}
	w.write(id, header, f.Bases())
	return w.err
}

// WriteBlock writes the fragments of b ordered by ID.
func (w *Writer) WriteBlock(b *pangenome.Block) error {
	fragments := append([]*pangenome.Fragment(nil), b.Fragments()...)
	sort.Slice(fragments, func(i, j int) bool { return fragments[i].ID() < fragments[j].ID() })
	for _, f := range fragments {
		if err := w.WriteFragment(f); err != nil {
			return err
		}
	}
	return nil
}

// WriteBlockSet writes every block of bs, blocks in iteration order.
func (w *Writer) WriteBlockSet(bs *pangenome.BlockSet) error {
	for _, b := range bs.Blocks() {
		if err := w.WriteBlock(b); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}
