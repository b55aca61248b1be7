package anchor

import "fmt"

// Stats summarizes one Finder.Run.
type Stats struct {
	// Sequences is the number of sequences scanned.
	Sequences int
	// Windows is the number of oriented windows fed to the Bloom filter.
	Windows int
	// FilterBits and FilterHashes describe the Bloom filter size.
	FilterBits   uint64
	FilterHashes int
	// Candidates is the number of distinct window hashes flagged as possible
	// anchors in the first pass.
	Candidates int
	// Blocks is the number of distinct window contents collected in the
	// second pass.
	Blocks int
	// Emitted counts blocks handed to the anchor handler, Discarded the
	// single-fragment blocks that were dropped.
	Emitted   int
	Discarded int
}

// Merge adds the field values of the two Stats objects and creates new Stats.
func (s Stats) Merge(o Stats) Stats {
	s.Sequences += o.Sequences
	s.Windows += o.Windows
	s.FilterBits += o.FilterBits
	if o.FilterHashes > s.FilterHashes {
		s.FilterHashes = o.FilterHashes
	}
	s.Candidates += o.Candidates
	s.Blocks += o.Blocks
	s.Emitted += o.Emitted
	s.Discarded += o.Discarded
	return s
}

func (s Stats) String() string {
	return fmt.Sprintf("sequences=%d windows=%d filter=%dbits/%dhashes candidates=%d blocks=%d emitted=%d discarded=%d",
		s.Sequences, s.Windows, s.FilterBits, s.FilterHashes, s.Candidates, s.Blocks, s.Emitted, s.Discarded)
}
