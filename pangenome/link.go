package pangenome

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/bloomrepeats/sequence"
)

// Prev returns the previous fragment in the chain, or nil.
func (f *Fragment) Prev() *Fragment { return f.prev }

// Next returns the next fragment in the chain, or nil.
func (f *Fragment) Next() *Fragment { return f.next }

// Neighbor returns Next for ori=Forward and Prev for ori=Reverse.
func (f *Fragment) Neighbor(ori sequence.Ori) *Fragment {
	if ori == sequence.Forward {
		return f.next
	}
	return f.prev
}

// LogicalNeighbor is Neighbor relative to f's own orientation, i.e.,
// LogicalNeighbor(Forward) is the fragment f reads towards.
func (f *Fragment) LogicalNeighbor(ori sequence.Ori) *Fragment {
	return f.Neighbor(f.ori * ori)
}

// IsNeighbor reports whether other is directly linked to f.
func (f *Fragment) IsNeighbor(other *Fragment) bool {
	return f.prev == other || f.next == other
}

// AnotherNeighbor returns the neighbor of f that is not other. It panics if
// other is not a neighbor of f.
func (f *Fragment) AnotherNeighbor(other *Fragment) *Fragment {
	if !f.IsNeighbor(other) {
		log.Panicf("another neighbor: %s is not a neighbor of %s", other.ID(), f.ID())
	}
	if f.prev == other {
		return f.next
	}
	return f.prev
}

// Connect links first -> second. Fragments previously linked after first or
// before second lose that link.
func Connect(first, second *Fragment) {
	if first == nil || second == nil {
		log.Panicf("connect: nil fragment")
	}
	if first.next == second {
		if second.prev != first {
			log.Panicf("connect: broken chain between %s and %s", first.ID(), second.ID())
		}
		return
	}
	if first.next != nil {
		first.next.prev = nil
	}
	if second.prev != nil {
		second.prev.next = nil
	}
	first.next = second
	second.prev = first
}

// ConnectOri links first -> second for ori=Forward and second -> first
// otherwise.
func ConnectOri(first, second *Fragment, ori sequence.Ori) {
	if ori == sequence.Forward {
		Connect(first, second)
	} else {
		Connect(second, first)
	}
}

// Disconnect removes f from its chain. With connectNeighbors, the former
// neighbors of f are linked to each other.
func (f *Fragment) Disconnect(connectNeighbors bool) {
	if connectNeighbors && f.next != nil && f.next != f && f.prev != nil && f.prev != f {
		Connect(f.prev, f.next)
	} else {
		if f.next != nil {
			f.next.prev = nil
		}
		if f.prev != nil {
			f.prev.next = nil
		}
	}
	f.next = nil
	f.prev = nil
}

// RearrangeWith swaps the chain positions of f and other.
func (f *Fragment) RearrangeWith(other *Fragment) {
	fPrev, fNext := f.prev, f.next
	oPrev, oNext := other.prev, other.next
	f.Disconnect(false)
	other.Disconnect(false)
	if fPrev != nil && fPrev != other {
		Connect(fPrev, other)
	}
	if fNext != nil && fNext != other {
		Connect(other, fNext)
	}
	if oPrev != nil && oPrev != f {
		Connect(oPrev, f)
	}
	if oNext != nil && oNext != f {
		Connect(f, oNext)
	}
	if fNext == other {
		Connect(other, f)
	}
	if oNext == f {
		Connect(f, other)
	}
}

// FindPlace moves f along its chain, swapping it with neighbors that are out
// of order, until both of its neighbors are ordered correctly relative to f.
func (f *Fragment) FindPlace() {
	for _, ori := range [...]sequence.Ori{sequence.Reverse, sequence.Forward} {
		for {
			n := f.Neighbor(ori)
			if n == nil {
				break
			}
			if (ori == sequence.Forward && n.Less(f)) || (ori == sequence.Reverse && f.Less(n)) {
				f.RearrangeWith(n)
			} else {
				break
			}
		}
	}
}

// FindPlaceAfter splices f into the chain right after startFrom and then
// calls FindPlace.
func (f *Fragment) FindPlaceAfter(startFrom *Fragment) {
	f.Disconnect(true)
	if startFrom.next != nil {
		Connect(f, startFrom.next)
	}
	Connect(startFrom, f)
	f.FindPlace()
}
