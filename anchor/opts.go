package anchor

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/bloomrepeats/sequence"
)

// Opts configures a Finder.
type Opts struct {
	// AnchorSize is the window length, in bases, of the exact repeats to
	// look for.
	AnchorSize int
	// Workers is the number of goroutines scanning sequences. Values below
	// one mean one.
	Workers int
	// OnlyOri restricts scanning to one orientation. Zero scans both.
	OnlyOri sequence.Ori
	// PalindromeElimination adds only reverse windows to the Bloom filter
	// when both orientations are scanned. Forward windows are only tested,
	// so a k-mer and its reverse complement are not counted as two
	// independent copies.
	PalindromeElimination bool
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	AnchorSize:            20, // bloomrepeats: --anchor-size
	Workers:               1,  // bloomrepeats: --workers
	OnlyOri:               0,
	PalindromeElimination: true,
}

// Validate checks that o describes a runnable configuration.
func (o Opts) Validate() error {
	if o.AnchorSize < 1 {
		return errors.E(errors.Invalid, fmt.Sprintf("anchor size must be positive, got %d", o.AnchorSize))
	}
	if o.Workers < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("negative worker count %d", o.Workers))
	}
	switch o.OnlyOri {
	case 0, sequence.Forward, sequence.Reverse:
	default:
		return errors.E(errors.Invalid, fmt.Sprintf("orientation must be -1, 0 or 1, got %d", o.OnlyOri))
	}
	return nil
}

func (o Opts) workers() int {
	if o.Workers < 1 {
		return 1
	}
	return o.Workers
}

// addsOri reports whether windows of orientation ori are inserted into the
// Bloom filter, as opposed to only tested against it.
func (o Opts) addsOri(ori sequence.Ori) bool {
	return o.OnlyOri != 0 || !o.PalindromeElimination || ori == sequence.Reverse
}
