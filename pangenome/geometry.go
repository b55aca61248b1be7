package pangenome

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/bloomrepeats/sequence"
)

// Diff is an orientation-relative delta between two fragments of one
// sequence. See Fragment.DiffTo.
type Diff struct {
	// Begin and Last are measured along the orientation of the fragment the
	// diff is applied to.
	Begin, Last int
	// Ori is Reverse if the orientation flips.
	Ori sequence.Ori
}

// ShiftEnd moves the last position of f by shift bases in f's direction.
// Negative values shrink f.
func (f *Fragment) ShiftEnd(shift int) {
	if f.ori == sequence.Forward {
		f.max += shift
	} else {
		f.min -= shift
	}
}

// MaxShiftEnd returns how far ShiftEnd may move without leaving the
// sequence. Unless maxOverlap is -1, the result is also limited so that f
// overlaps its logical next neighbor by at most maxOverlap bases.
func (f *Fragment) MaxShiftEnd(maxOverlap int) int {
	var result int
	if f.ori == sequence.Forward {
		result = f.seq.Size() - f.max - 1
	} else {
		result = f.min
	}
	if maxOverlap != -1 {
		if n := f.LogicalNeighbor(sequence.Forward); n != nil {
			var nShift int
			if f.ori == sequence.Forward {
				nShift = n.min - f.max - 1
			} else {
				nShift = f.min - n.max - 1
			}
			nShift += maxOverlap
			if nShift < result {
				result = nShift
			}
		}
	}
	return result
}

// CanJoin reports whether one and another can be merged by Join: same
// sequence, same orientation and directly linked.
func CanJoin(one, another *Fragment) bool {
	return one.seq == another.seq && one.ori == another.ori && one.IsNeighbor(another)
}

// Join returns a new fragment spanning one and another, which must satisfy
// CanJoin. The new fragment takes their place in the chain; one and another
// are left unlinked on the outer side.
func Join(one, another *Fragment) *Fragment {
	if !CanJoin(one, another) {
		log.Panicf("join: %s and %s can not be joined", one.ID(), another.ID())
	}
	if another.next == one {
		one, another = another, one
	}
	min, max := one.min, one.max
	if another.min < min {
		min = another.min
	}
	if another.max > max {
		max = another.max
	}
	joined := one.newSibling(one.seq, min, max, one.ori)
	if one.prev != nil {
		Connect(one.prev, joined)
	}
	if another.next != nil {
		Connect(joined, another.next)
	}
	return joined
}

func overlap(a, b *Fragment) (maxMin, minMax int) {
	maxMin, minMax = a.min, a.max
	if b.min > maxMin {
		maxMin = b.min
	}
	if b.max < minMax {
		minMax = b.max
	}
	return
}

// CommonPositions returns the number of positions shared by f and other.
// Fragments on different sequences share none.
func (f *Fragment) CommonPositions(other *Fragment) int {
	if f.seq != other.seq {
		return 0
	}
	if maxMin, minMax := overlap(f, other); maxMin <= minMax {
		return minMax - maxMin + 1
	}
	return 0
}

// DistTo returns 0 if f and other overlap, or else the number of positions
// strictly between them.
func (f *Fragment) DistTo(other *Fragment) int {
	f.mustSameSeq("dist to", other)
	switch {
	case f.CommonPositions(other) > 0:
		return 0
	case f.Less(other):
		return other.min - f.max - 1
	default:
		return f.min - other.max - 1
	}
}

// CommonFragment returns the intersection of f and other with f's
// orientation, or an invalid fragment if they do not intersect.
func (f *Fragment) CommonFragment(other *Fragment) *Fragment {
	if f.seq == other.seq {
		if maxMin, minMax := overlap(f, other); maxMin <= minMax {
			return NewFragment(f.seq, maxMin, minMax, f.ori)
		}
	}
	return Invalid()
}

// IsSubfragmentOf reports whether other covers f.
func (f *Fragment) IsSubfragmentOf(other *Fragment) bool {
	return f.seq == other.seq && f.min >= other.min && f.max <= other.max
}

// IsInternalSubfragmentOf reports whether other covers f and extends past
// it on both sides.
func (f *Fragment) IsInternalSubfragmentOf(other *Fragment) bool {
	return f.seq == other.seq && f.min > other.min && f.max < other.max
}

// DiffTo returns the Diff that Patch needs to turn f into other.
func (f *Fragment) DiffTo(other *Fragment) Diff {
	f.mustSameSeq("diff", other)
	d := Diff{
		Begin: int(f.ori) * (other.BeginPos() - f.BeginPos()),
		Last:  int(f.ori) * (other.LastPos() - f.LastPos()),
		Ori:   sequence.Forward,
	}
	if other.ori != f.ori {
		d.Ori = sequence.Reverse
	}
	return d
}

// Patch applies d to f.
func (f *Fragment) Patch(d Diff) {
	newBegin := f.BeginPos() + int(f.ori)*d.Begin
	newLast := f.LastPos() + int(f.ori)*d.Last
	f.SetOri(f.ori * d.Ori)
	f.SetBeginPos(newBegin)
	f.SetLastPos(newLast)
}

// Exclude shrinks f so that it no longer overlaps other. If other covers f,
// or lies strictly inside it, f becomes invalid.
func (f *Fragment) Exclude(other *Fragment) {
	f.mustSameSeq("exclude", other)
	if maxMin, minMax := overlap(f, other); maxMin <= minMax {
		switch {
		case f.min < other.min:
			f.max = other.min - 1
		case f.max > other.max:
			f.min = other.max + 1
		default:
			oldMin := f.min
			f.min = f.max + 1
			f.max = oldMin
		}
	}
}

// ExclusionDiff returns the Diff that Exclude(other) would apply to f.
func (f *Fragment) ExclusionDiff(other *Fragment) Diff {
	var tmp Fragment
	tmp.ApplyCoords(f)
	tmp.Exclude(other)
	return f.DiffTo(&tmp)
}

// Split cuts f after newLength bases. f keeps its first newLength bases and
// the remainder is returned as a new fragment; both are repositioned in the
// chain. Split returns nil and leaves f intact if f is not longer than
// newLength.
func (f *Fragment) Split(newLength int) *Fragment {
	if f.Length() <= newLength {
		return nil
	}
	tail := f.Clone()
	tail.SetBeginPos(f.BeginPos() + int(f.ori)*newLength)
	f.SetLastPos(f.BeginPos() + int(f.ori)*(newLength-1))
	f.FindPlace()
	tail.FindPlaceAfter(f)
	return tail
}
