package pangenome

import "github.com/biogo/store/llrb"

// fragmentKey orders fragments in an llrb.Tree by Fragment.Compare.
type fragmentKey struct{ f *Fragment }

func (k fragmentKey) Compare(c llrb.Comparable) int {
	return k.f.Compare(c.(fragmentKey).f)
}

// Merge moves the fragments of other into b, leaving other empty.
// Fragments with equal coordinates are kept once: duplicates within b are
// deleted first, then other is inverted if one of its inverted fragments
// is already in b, and finally fragments of other equal to one in b are
// deleted. The fragments of b end up sorted by Fragment.Less.
func (b *Block) Merge(other *Block) {
	var tree llrb.Tree
	for _, f := range append([]*Fragment(nil), b.fragments...) {
		if tree.Get(fragmentKey{f}) != nil {
			f.Delete()
		} else {
			tree.Insert(fragmentKey{f})
		}
	}
	inverseNeeded := false
	for _, f := range other.fragments {
		f.Inverse()
		if tree.Get(fragmentKey{f}) != nil {
			inverseNeeded = true
		}
		f.Inverse()
	}
	if inverseNeeded {
		other.Inverse()
	}
	for _, f := range append([]*Fragment(nil), other.fragments...) {
		if tree.Get(fragmentKey{f}) != nil {
			f.Delete()
		} else {
			tree.Insert(fragmentKey{f})
		}
	}
	for _, f := range b.fragments {
		f.block = nil
	}
	for _, f := range other.fragments {
		f.block = nil
	}
	b.fragments = b.fragments[:0]
	other.fragments = nil
	tree.Do(func(c llrb.Comparable) bool {
		b.Insert(c.(fragmentKey).f)
		return false
	})
}
