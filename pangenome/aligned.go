package pangenome

import "github.com/grailbio/bloomrepeats/align"

// DefaultAlignBatch is the number of bases handed to the aligner at a time
// by Fragment.Aligned.
const DefaultAlignBatch = 100

// PairAligner aligns the prefixes of two strings.
type PairAligner interface {
	// Align returns the last positions of a and b covered by the best
	// prefix alignment of a and b, and false if no non-empty prefix aligns.
	Align(a, b string) (aLast, bLast int, ok bool)
}

func fullyAligned(pa PairAligner, a, b string) bool {
	aLast, bLast, ok := pa.Align(a, b)
	return ok && aLast == len(a)-1 && bLast == len(b)-1
}

// Aligned reports whether f and other align end to end. The bases are fed
// to pa batch bases at a time. A nil pa uses align.DefaultOpts and a
// non-positive batch uses DefaultAlignBatch.
func (f *Fragment) Aligned(other *Fragment, pa PairAligner, batch int) bool {
	if pa == nil {
		pa = align.New(align.DefaultOpts)
	}
	if batch <= 0 {
		batch = DefaultAlignBatch
	}
	fLen, oLen := f.Length(), other.Length()
	fLast, oLast := -1, -1
	for fLast < fLen-1 && oLast < oLen-1 {
		a := f.Substr(minInt(fLen-1, fLast+1), minInt(fLen-1, fLast+batch))
		b := other.Substr(minInt(oLen-1, oLast+1), minInt(oLen-1, oLast+batch))
		aLast, bLast, ok := pa.Align(a, b)
		if !ok || aLast == -1 || bLast == -1 {
			return false
		}
		fLast += aLast + 1
		oLast += bLast + 1
	}
	return fullyAligned(pa, f.Substr(fLast, fLen-1), other.Substr(oLast, oLen-1))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
