package pangenome

import (
	"sync"

	"github.com/grailbio/bloomrepeats/sequence"
)

const arenaSlabSize = 4096

// Arena allocates fragments from large slabs and recycles deleted ones
// through a free list. Fragments allocated from an arena return to it when
// deleted; they must not be used afterwards. Arena is thread safe.
type Arena struct {
	mu   sync.Mutex
	slab []Fragment  // unused tail of the current slab
	free []*Fragment // deleted fragments ready for reuse
	live int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// NewFragment is like the package-level NewFragment, but allocates from a.
func (a *Arena) NewFragment(seq sequence.Sequence, min, max int, ori sequence.Ori) *Fragment {
	a.mu.Lock()
	var f *Fragment
	if n := len(a.free); n > 0 {
		f = a.free[n-1]
		a.free[n-1] = nil
		a.free = a.free[:n-1]
	} else {
		if len(a.slab) == 0 {
			a.slab = make([]Fragment, arenaSlabSize)
		}
		f = &a.slab[0]
		a.slab = a.slab[1:]
	}
	a.live++
	a.mu.Unlock()
	f.init(seq, min, max, ori)
	f.arena = a
	return f
}

func (a *Arena) release(f *Fragment) {
	*f = Fragment{}
	a.mu.Lock()
	a.free = append(a.free, f)
	a.live--
	a.mu.Unlock()
}

// Live returns the number of fragments allocated and not yet deleted.
func (a *Arena) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}
