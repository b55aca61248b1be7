// Package fasta reads and writes FASTA files. FASTA files consist of a
// number of named sequences that may be interrupted by newlines. For
// example:
//
// >chr7
// ACGTAC
// GAGGAC
// GCG
// >chr8 A viral sequence
// ACGT
//
// Note: Sequence names are defined to be the stretch of characters excluding
// spaces immediately after '>'.  Any text that appears after a space is kept
// as the record description. For example, '>chr8 A viral sequence' becomes
// name 'chr8'.
package fasta

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/grailbio/bloomrepeats/sequence"
	"github.com/pkg/errors"
)

const (
	maxLineSize = 1024 * 1024 * 300 // 300 MB
)

// Record is one sequence of a FASTA file.
type Record struct {
	Name        string
	Description string
	Bases       string
}

// Scanner reads FASTA records one at a time. Scanners are not threadsafe.
type Scanner struct {
	b       *bufio.Scanner
	err     error
	header  string // header line of the next record, without '>'
	started bool
	pending bool // header is set
	bases   strings.Builder
}

// NewScanner constructs a Scanner that reads FASTA data from r.
func NewScanner(r io.Reader) *Scanner {
	b := bufio.NewScanner(r)
	b.Buffer(nil, maxLineSize)
	return &Scanner{b: b}
}

// Scan reads the next record into rec. It returns false at the end of the
// input or on error; Err tells the two apart.
func (s *Scanner) Scan(rec *Record) bool {
	if s.err != nil {
		return false
	}
	if !s.started {
		s.started = true
		if !s.nextHeader() {
			return false
		}
	}
	if !s.pending {
		return false
	}
	rec.Name, rec.Description = splitHeader(s.header)
	if rec.Name == "" {
		s.err = errors.Errorf("malformed FASTA file: empty sequence name")
		return false
	}
	s.pending = false
	s.bases.Reset()
	for {
		if !s.b.Scan() {
			if s.err = s.b.Err(); s.err != nil {
				s.err = errors.Wrap(s.err, "couldn't read FASTA data")
				return false
			}
			s.err = io.EOF
			break
		}
		line := bytes.TrimRight(s.b.Bytes(), "\r")
		if len(line) > 0 && line[0] == '>' {
			s.header = string(line[1:])
			s.pending = true
			break
		}
		s.bases.Write(line)
	}
	rec.Bases = s.bases.String()
	return true
}

// nextHeader skips blank lines up to the first header.
func (s *Scanner) nextHeader() bool {
	for s.b.Scan() {
		line := bytes.TrimRight(s.b.Bytes(), "\r")
		if len(line) == 0 {
			continue
		}
		if line[0] != '>' {
			s.err = errors.Errorf("malformed FASTA file: data before the first header: %.20q", line)
			return false
		}
		s.header = string(line[1:])
		s.pending = true
		return true
	}
	if s.err = s.b.Err(); s.err != nil {
		s.err = errors.Wrap(s.err, "couldn't read FASTA data")
	} else {
		s.err = io.EOF
	}
	return false
}

// Err returns the error that stopped Scan, or nil at the end of the input.
func (s *Scanner) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}

func splitHeader(header string) (name, description string) {
	header = strings.TrimSpace(header)
	if i := strings.IndexAny(header, " \t"); i >= 0 {
		return header[:i], strings.TrimSpace(header[i+1:])
	}
	return header, ""
}

// Read parses all records of r into in-memory sequences, in the order of
// appearance. Empty records are kept; they simply have no windows.
func Read(r io.Reader) ([]*sequence.InMemory, error) {
	var (
		seqs []*sequence.InMemory
		rec  Record
	)
	s := NewScanner(r)
	for s.Scan(&rec) {
		seqs = append(seqs, sequence.NewInMemory(rec.Name, rec.Bases))
	}
	return seqs, s.Err()
}
