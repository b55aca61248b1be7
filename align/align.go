// Package align implements the pairwise aligner fragments use to check that
// two stretches of sequence match up to a few edits.
package align

// Opts configures an Aligner.
type Opts struct {
	// MaxErrors is the maximum number of substitutions and gaps in an
	// alignment.
	MaxErrors int
	// GapRange bounds how far the alignment may drift from the diagonal,
	// i.e., |i-j| for every aligned prefix pair (i, j).
	GapRange int
}

// DefaultOpts is used by fragments when no aligner is given.
var DefaultOpts = Opts{
	MaxErrors: 5,
	GapRange:  5,
}

// Aligner is a banded edit-distance aligner. It is not thread safe; it
// reuses its matrix between calls.
type Aligner struct {
	opts Opts
	m    matrix
}

// New creates an aligner.
func New(opts Opts) *Aligner {
	if opts.MaxErrors < 0 {
		opts.MaxErrors = 0
	}
	if opts.GapRange < 0 {
		opts.GapRange = 0
	}
	return &Aligner{opts: opts}
}

// Opts returns the options the aligner was created with.
func (a *Aligner) Opts() Opts { return a.opts }

// Align finds the longest pair of prefixes of s1 and s2 that align with at
// most MaxErrors edits within the band. "Longest" maximizes the sum of the
// prefix lengths; ties prefer fewer edits and then prefixes closer to the
// diagonal. It returns the last offsets of the prefixes in s1 and s2, or
// ok=false if no non-empty pair of prefixes aligns.
func (a *Aligner) Align(s1, s2 string) (s1Last, s2Last int, ok bool) {
	n, k := len(s1), len(s2)
	a.m.reset(n+1, k+1)
	band := a.opts.GapRange
	bestI, bestJ, bestCost := 0, 0, 0
	for i := 0; i <= n; i++ {
		rowOK := false
		for j := 0; j <= k; j++ {
			if j-i > band || i-j > band {
				a.m.set(i, j, unreachable)
				continue
			}
			a.m.computeCell(i, j, s1, s2)
			cost := a.m.at(i, j)
			if cost > a.opts.MaxErrors {
				continue
			}
			rowOK = true
			if i == 0 || j == 0 {
				continue
			}
			if better(i, j, cost, bestI, bestJ, bestCost) {
				bestI, bestJ, bestCost = i, j, cost
			}
		}
		if !rowOK {
			break
		}
	}
	if bestI == 0 {
		return -1, -1, false
	}
	return bestI - 1, bestJ - 1, true
}

func better(i, j, cost, bestI, bestJ, bestCost int) bool {
	if bestI == 0 {
		return true
	}
	if s, bs := i+j, bestI+bestJ; s != bs {
		return s > bs
	}
	if cost != bestCost {
		return cost < bestCost
	}
	return absInt(i-j) < absInt(bestI-bestJ)
}

// Aligned reports whether s1 and s2 align end to end.
func (a *Aligner) Aligned(s1, s2 string) bool {
	l1, l2, ok := a.Align(s1, s2)
	return ok && l1 == len(s1)-1 && l2 == len(s2)-1
}

// Distance returns the Levenshtein distance between s1 and s2.
func Distance(s1, s2 string) int {
	var m matrix
	m.reset(len(s1)+1, len(s2)+1)
	for i := 0; i <= len(s1); i++ {
		for j := 0; j <= len(s2); j++ {
			m.computeCell(i, j, s1, s2)
		}
	}
	return m.at(len(s1), len(s2))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
