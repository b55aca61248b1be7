package pangenome_test

import (
	"math/rand"
	"testing"

	"github.com/grailbio/bloomrepeats/align"
	"github.com/grailbio/bloomrepeats/pangenome"
	"github.com/grailbio/bloomrepeats/sequence"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

const (
	fwd = sequence.Forward
	rev = sequence.Reverse
)

func newSeq(text string) *sequence.InMemory { return sequence.NewInMemory("", text) }

func frag(s sequence.Sequence, min, max int, ori sequence.Ori) *pangenome.Fragment {
	return pangenome.NewFragment(s, min, max, ori)
}

func expectFrag(t *testing.T, got, want *pangenome.Fragment) {
	t.Helper()
	expect.True(t, got.Equal(want), "got %s, want %s", got.ID(), want.ID())
}

func TestFragmentBases(t *testing.T) {
	s1 := newSeq("tggtccgagatgcgggcc")
	f1 := frag(s1, 0, 9, fwd)
	assert.EQ(t, f1.Length(), 10)
	expect.EQ(t, f1.Bases(), "TGGTCCGAGA")
	f2 := frag(s1, 0, 9, rev)
	assert.EQ(t, f2.Length(), 10)
	expect.EQ(t, f2.Bases(), "TCTCGGACCA")

	expect.EQ(t, f1.Substr(1, 1), "G")
	expect.EQ(t, f1.Substr(1, 2), "GG")
	expect.EQ(t, f1.Substr(1, -1), "GGTCCGAGA")
	expect.EQ(t, f1.Substr(-2, -1), "GA")
	expect.EQ(t, f2.Substr(1, 1), "C")
	expect.EQ(t, f2.Substr(1, 2), "CT")
	expect.EQ(t, f2.Substr(1, -1), "CTCGGACCA")
	expect.EQ(t, f2.Substr(-2, -1), "CA")
}

func TestFragmentPositions(t *testing.T) {
	s1 := newSeq("tggtccgagatgcgggcc")
	f := frag(s1, 0, 9, fwd)
	expect.EQ(t, f.BeginPos(), 0)
	expect.EQ(t, f.LastPos(), 9)
	expect.EQ(t, f.EndPos(), 10)
	f.Inverse()
	expect.EQ(t, f.Ori(), rev)
	expect.EQ(t, f.BeginPos(), 9)
	expect.EQ(t, f.LastPos(), 0)
	expect.EQ(t, f.EndPos(), -1)
	f.SetBeginPos(8)
	f.SetLastPos(2)
	expect.EQ(t, f.MinPos(), 2)
	expect.EQ(t, f.MaxPos(), 8)
	expect.True(t, f.Has(2))
	expect.False(t, f.Has(9))

	expect.False(t, pangenome.Invalid().Valid())
	expect.False(t, frag(s1, 10, 18, fwd).Valid())
	expect.False(t, frag(s1, -1, 3, fwd).Valid())
	expect.True(t, frag(s1, 10, 17, fwd).Valid())
	// Anything other than Forward is stored as Reverse.
	expect.EQ(t, frag(s1, 0, 1, 0).Ori(), rev)
}

func TestFragmentSubfragment(t *testing.T) {
	s1 := newSeq("tggtccgagatgcgggcc")
	f1 := frag(s1, 0, 9, fwd)
	f2 := frag(s1, 0, 9, rev)
	expect.EQ(t, f1.Subfragment(1, 1).Bases(), "G")
	expect.EQ(t, f1.Subfragment(0, 5).Bases(), "TGGTCC")
	expect.EQ(t, f1.Subfragment(5, 0).Bases(), "GGACCA")
	expect.EQ(t, f2.Subfragment(1, 1).Bases(), "C")
	expect.EQ(t, f2.Subfragment(0, 5).Bases(), "TCTCGG")
	expect.EQ(t, f2.Subfragment(5, 0).Bases(), "CCGAGA")
}

func TestFragmentApplyCoords(t *testing.T) {
	s1 := newSeq("tggtccgagatgcgggcc")
	f1 := frag(s1, 0, 9, fwd)
	f2 := f1.Clone()
	var f3 pangenome.Fragment
	f3.ApplyCoords(f2)
	expectFrag(t, f1, frag(s1, 0, 9, fwd))
	expectFrag(t, f2, frag(s1, 0, 9, fwd))
	expectFrag(t, &f3, frag(s1, 0, 9, fwd))
}

func TestFragmentExpand(t *testing.T) {
	s1 := newSeq("TGGTCCGAGAtgcgggcc")
	f1 := frag(s1, 0, 9, fwd)
	assert.EQ(t, f1.Length(), 10)
	expect.EQ(t, f1.MaxShiftEnd(-1), 8)
	f1.ShiftEnd(1)
	expect.True(t, f1.Valid())
	expect.EQ(t, f1.Length(), 11)
	expect.EQ(t, f1.MaxShiftEnd(-1), 7)
	f1.Inverse()
	f1.ShiftEnd(1)
	expect.False(t, f1.Valid())
	expect.EQ(t, f1.MaxShiftEnd(-1), -1)
	f1.ShiftEnd(-1)
	expect.EQ(t, f1.Length(), 11)
	expect.True(t, f1.Valid())
	expect.EQ(t, f1.MaxShiftEnd(-1), 0)
	f1.ShiftEnd(-1)
	expect.EQ(t, f1.Length(), 10)
	expect.EQ(t, f1.MinPos(), 1)
	expect.EQ(t, f1.MaxShiftEnd(-1), 1)

	f1.ShiftEnd(f1.MaxShiftEnd(-1))
	f1.Inverse()
	f1.ShiftEnd(f1.MaxShiftEnd(-1))
	expect.True(t, f1.Valid())
	expect.EQ(t, f1.MinPos(), 0)
	expect.EQ(t, f1.MaxPos(), s1.Size()-1)
}

func TestFragmentMaxShiftTwoFragments(t *testing.T) {
	s1 := newSeq("ggtGGTcCGAga")
	f1 := frag(s1, 3, 5, fwd)
	f2 := frag(s1, 7, 9, fwd)
	pangenome.Connect(f1, f2)
	expect.EQ(t, f1.MaxShiftEnd(-1), 6)
	expect.EQ(t, f1.MaxShiftEnd(0), 1)
	expect.EQ(t, f1.MaxShiftEnd(1), 2)
	expect.EQ(t, f1.MaxShiftEnd(4), 5)
	expect.EQ(t, f1.MaxShiftEnd(100), 6)
	expect.EQ(t, f2.MaxShiftEnd(-1), 2)
	expect.EQ(t, f2.MaxShiftEnd(0), 2)
	f1.Inverse()
	expect.EQ(t, f1.MaxShiftEnd(-1), 3)
	expect.EQ(t, f1.MaxShiftEnd(0), 3)
	expect.EQ(t, f2.MaxShiftEnd(-1), 2)
	expect.EQ(t, f2.MaxShiftEnd(0), 2)
	f2.Inverse()
	expect.EQ(t, f1.MaxShiftEnd(-1), 3)
	expect.EQ(t, f1.MaxShiftEnd(0), 3)
	expect.EQ(t, f2.MaxShiftEnd(-1), 7)
	expect.EQ(t, f2.MaxShiftEnd(0), 1)

	// Neighbor before the start of the sequence.
	f1.Disconnect(true)
	pangenome.Connect(f2, f1)
	f2.SetMinPos(-22)
	f2.SetMaxPos(-20)
	assert.False(t, f2.Valid())
	expect.EQ(t, f1.MaxShiftEnd(-1), 3)
	expect.EQ(t, f1.MaxShiftEnd(0), 3)

	// Neighbor past the end of the sequence.
	f1.Disconnect(true)
	pangenome.Connect(f1, f2)
	f1.Inverse()
	f2.SetMinPos(20)
	f2.SetMaxPos(22)
	assert.False(t, f2.Valid())
	expect.EQ(t, f1.MaxShiftEnd(-1), 6)
	expect.EQ(t, f1.MaxShiftEnd(0), 6)
}

func TestFragmentEqualAndLess(t *testing.T) {
	s1 := newSeq("tggtccgagatgcgggcc")
	s2 := newSeq("tggtccgagatgcgggcc")
	f1 := frag(s1, 0, 9, fwd)
	expect.True(t, f1.Equal(f1))
	expect.True(t, f1.Equal(frag(s1, 0, 9, fwd)))
	expect.False(t, f1.Equal(frag(s1, 0, 9, rev)))
	expect.False(t, f1.Equal(frag(s2, 0, 9, fwd)))

	expect.False(t, frag(s1, 0, 9, fwd).Less(frag(s1, 0, 9, fwd)))
	expect.True(t, frag(s1, 0, 9, fwd).Less(frag(s1, 2, 9, fwd)))
	expect.True(t, frag(s1, 0, 9, fwd).Less(frag(s1, 0, 10, fwd)))
	expect.True(t, frag(s1, 0, 9, rev).Less(frag(s1, 0, 9, fwd)))
	expect.True(t, frag(s1, 0, 9, fwd).Less(frag(s2, 0, 9, fwd)))
	expect.False(t, frag(s2, 0, 9, fwd).Less(frag(s1, 0, 9, fwd)))
}

// Less must be a strict total order consistent with Equal.
func TestFragmentOrderIsTotal(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	seqs := []sequence.Sequence{newSeq("ACGTACGTAC"), newSeq("ACGTACGTAC")}
	var fs []*pangenome.Fragment
	for i := 0; i < 60; i++ {
		min := r.Intn(5)
		ori := fwd
		if r.Intn(2) == 0 {
			ori = rev
		}
		fs = append(fs, frag(seqs[r.Intn(2)], min, min+r.Intn(3), ori))
	}
	for _, a := range fs {
		expect.False(t, a.Less(a))
		for _, b := range fs {
			n := 0
			if a.Less(b) {
				n++
			}
			if b.Less(a) {
				n++
			}
			if a.Equal(b) {
				n++
			}
			assert.EQ(t, n, 1, "%s %s", a.ID(), b.ID())
			for _, c := range fs {
				if a.Less(b) && b.Less(c) {
					assert.True(t, a.Less(c))
				}
			}
		}
	}
}

func TestFragmentRawAt(t *testing.T) {
	s1 := newSeq("tggtcCGAGATgcgggcc")
	f1 := frag(s1, 5, 10, fwd)
	f2 := frag(s1, 5, 10, rev)
	expect.EQ(t, f1.RawAt(0), byte('C'))
	expect.EQ(t, f1.RawAt(1), byte('G'))
	expect.EQ(t, f1.RawAt(-1), byte('C'))
	expect.EQ(t, f1.RawAt(-2), byte('T'))
	expect.EQ(t, f2.RawAt(0), byte('A'))
	expect.EQ(t, f2.RawAt(1), byte('T'))
	expect.EQ(t, f2.RawAt(-1), byte('C'))
	expect.EQ(t, f2.RawAt(-2), byte('G'))

	expect.EQ(t, f1.At(0), byte('C'))
	expect.EQ(t, f1.At(1), byte('G'))
	expect.EQ(t, f1.At(-1), byte('T'))
	expect.EQ(t, f1.At(-2), byte('A'))
	expect.EQ(t, f2.At(0), byte('A'))
	expect.EQ(t, f2.At(1), byte('T'))
	expect.EQ(t, f2.At(-1), byte('G'))
	expect.EQ(t, f2.At(-2), byte('C'))
}

func newCycle(s sequence.Sequence, ori2, ori3 sequence.Ori) (f1, f2, f3 *pangenome.Fragment) {
	f1 = frag(s, 1, 2, fwd)
	f2 = frag(s, 5, 6, ori2)
	f3 = frag(s, 7, 8, ori3)
	pangenome.Connect(f1, f2)
	pangenome.Connect(f2, f3)
	pangenome.Connect(f3, f1)
	return
}

func TestFragmentDisconnect(t *testing.T) {
	s1 := newSeq("tggtcCGAGATgcgggcc")
	f1, f2, f3 := newCycle(s1, rev, fwd)
	require.True(t, f1.Next() == f2 && f2.Next() == f3 && f3.Next() == f1)
	require.True(t, f1.Prev() == f3 && f2.Prev() == f1 && f3.Prev() == f2)
	f2.Disconnect(true)
	expect.True(t, f1.Next() == f3)
	expect.True(t, f1.Prev() == f3)
	expect.True(t, f3.Prev() == f1)
	expect.True(t, f3.Next() == f1)
	expect.Nil(t, f2.Next())
	expect.Nil(t, f2.Prev())
	f1.Disconnect(false)
	expect.Nil(t, f1.Prev())
	expect.Nil(t, f1.Next())
	expect.Nil(t, f3.Prev())
	expect.Nil(t, f3.Next())
}

func TestFragmentDeleteRelinks(t *testing.T) {
	s1 := newSeq("tggtcCGAGATgcgggcc")
	f1, f2, f3 := newCycle(s1, rev, fwd)
	b := pangenome.NewBlock()
	b.Insert(f2)
	f2.Delete()
	expect.True(t, f1.Next() == f3)
	expect.True(t, f1.Prev() == f3)
	expect.True(t, f3.Prev() == f1)
	expect.True(t, f3.Next() == f1)
	expect.True(t, b.Empty())
	f1.Disconnect(false)
	expect.Nil(t, f3.Prev())
	expect.Nil(t, f3.Next())
}

func TestFragmentConnectOri(t *testing.T) {
	s1 := newSeq("tggtcCGAGATgcgggcc")
	f1 := frag(s1, 1, 2, fwd)
	f2 := frag(s1, 5, 6, rev)
	pangenome.Connect(f1, f2)
	require.True(t, f1.Next() == f2)
	require.Nil(t, f2.Next())
	require.Nil(t, f1.Prev())
	require.True(t, f2.Prev() == f1)
	pangenome.ConnectOri(f1, f2, rev) // closes the cycle
	expect.True(t, f1.Next() == f2)
	expect.True(t, f2.Next() == f1)
	expect.True(t, f1.Prev() == f2)
	expect.True(t, f2.Prev() == f1)

	require.Panics(t, func() { pangenome.Connect(f1, nil) })
}

func TestFragmentRearrangeWith(t *testing.T) {
	s1 := newSeq("tGGtcCGAGatgcgggcc")
	f1 := frag(s1, 1, 2, fwd)
	f2 := frag(s1, 5, 6, rev)
	f3 := frag(s1, 7, 8, fwd)
	pangenome.ConnectOri(f1, f2, rev) // wrong order
	pangenome.ConnectOri(f2, f3, rev) // wrong order
	f1.RearrangeWith(f3)
	expect.True(t, f1.Next() == f2)
	expect.True(t, f2.Next() == f3)
	expect.Nil(t, f3.Next())
	expect.Nil(t, f1.Prev())
	expect.True(t, f2.Prev() == f1)
	expect.True(t, f3.Prev() == f2)
	f1.RearrangeWith(f2)
	expect.True(t, f1.Next() == f3)
	expect.True(t, f2.Next() == f1)
	expect.Nil(t, f3.Next())
	expect.True(t, f1.Prev() == f2)
	expect.Nil(t, f2.Prev())
	expect.True(t, f3.Prev() == f1)
}

func expectChain(t *testing.T, fs ...*pangenome.Fragment) {
	t.Helper()
	expect.Nil(t, fs[0].Prev())
	expect.Nil(t, fs[len(fs)-1].Next())
	for i := 1; i < len(fs); i++ {
		expect.True(t, fs[i-1].Next() == fs[i], "next of %s", fs[i-1].ID())
		expect.True(t, fs[i].Prev() == fs[i-1], "prev of %s", fs[i].ID())
	}
}

func TestFragmentFindPlace(t *testing.T) {
	s1 := newSeq("tGGtcCGAGatgcgggcc")
	f1 := frag(s1, 1, 2, fwd)
	f2 := frag(s1, 5, 6, rev)
	f3 := frag(s1, 7, 8, fwd)
	pangenome.ConnectOri(f1, f2, rev) // wrong order
	pangenome.ConnectOri(f2, f3, rev) // wrong order
	f1.FindPlace()
	f2.FindPlace()
	f3.FindPlace()
	expectChain(t, f1, f2, f3)
}

func TestFragmentFindPlaceAfter(t *testing.T) {
	s1 := newSeq("tGGtcCGAGatgcgggcc")
	f1 := frag(s1, 1, 2, fwd)
	f2 := frag(s1, 5, 6, rev)
	f3 := frag(s1, 7, 8, fwd)
	pangenome.Connect(f1, f3)
	f2.FindPlaceAfter(f1)
	expectChain(t, f1, f2, f3)
	f1.FindPlaceAfter(f2)
	expectChain(t, f1, f2, f3)
}

func TestFragmentNeighbor(t *testing.T) {
	s1 := newSeq("tggtcCGAGATgcgggcc")
	f1, f2, f3 := newCycle(s1, rev, fwd)
	expect.True(t, f1.Neighbor(fwd) == f2)
	expect.True(t, f1.Neighbor(rev) == f3)
	expect.True(t, f2.Neighbor(fwd) == f3)
	expect.True(t, f2.Neighbor(rev) == f1)
	expect.True(t, f3.Neighbor(fwd) == f1)
	expect.True(t, f3.Neighbor(rev) == f2)

	expect.True(t, f1.LogicalNeighbor(fwd) == f2)
	expect.True(t, f1.LogicalNeighbor(rev) == f3)
	expect.True(t, f2.LogicalNeighbor(fwd) == f1)
	expect.True(t, f2.LogicalNeighbor(rev) == f3)
	expect.True(t, f3.LogicalNeighbor(fwd) == f1)
	expect.True(t, f3.LogicalNeighbor(rev) == f2)

	expect.True(t, f1.IsNeighbor(f2))
	expect.True(t, f2.IsNeighbor(f1))
	expect.True(t, f2.AnotherNeighbor(f1) == f3)
	expect.True(t, f3.AnotherNeighbor(f2) == f1)

	lone := frag(s1, 10, 11, fwd)
	require.Panics(t, func() { f1.AnotherNeighbor(lone) })
}

func TestFragmentCommonPositions(t *testing.T) {
	s1 := newSeq("tggtccgagatgcgggcc")
	s2 := newSeq("tggtccgagatgcgggcc")
	f1 := frag(s1, 0, 5, fwd)
	f2 := frag(s1, 5, 10, rev)
	f3 := frag(s1, 6, 8, rev)
	f4 := frag(s2, 6, 8, rev)
	expect.EQ(t, f1.CommonPositions(f2), 1)
	expect.EQ(t, f2.CommonPositions(f1), 1)
	expect.EQ(t, f2.CommonPositions(f3), 3)
	expect.EQ(t, f3.CommonPositions(f2), 3)
	expect.EQ(t, f1.CommonPositions(f3), 0)
	expect.EQ(t, f3.CommonPositions(f1), 0)
	expect.EQ(t, f3.CommonPositions(f4), 0)

	expectFrag(t, f1.CommonFragment(f2), frag(s1, 5, 5, fwd))
	expectFrag(t, f2.CommonFragment(f1), frag(s1, 5, 5, rev))
	expectFrag(t, f2.CommonFragment(f3), frag(s1, 6, 8, rev))
	expectFrag(t, f3.CommonFragment(f2), frag(s1, 6, 8, rev))
	expect.False(t, f1.CommonFragment(f3).Valid())
	expect.False(t, f3.CommonFragment(f1).Valid())
	expect.False(t, f3.CommonFragment(f4).Valid())
}

func TestFragmentDistTo(t *testing.T) {
	s1 := newSeq("tggtccgagatgcgggcc")
	s2 := newSeq("tggtccgagatgcgggcc")
	f1 := frag(s1, 0, 5, fwd)
	f2 := frag(s1, 5, 6, rev)
	f3 := frag(s1, 7, 8, rev)
	expect.EQ(t, f1.DistTo(f2), 0)
	expect.EQ(t, f2.DistTo(f1), 0)
	expect.EQ(t, f1.DistTo(f3), 1)
	expect.EQ(t, f3.DistTo(f1), 1)
	expect.EQ(t, f2.DistTo(f3), 0)
	expect.EQ(t, f3.DistTo(f2), 0)
	require.Panics(t, func() { f1.DistTo(frag(s2, 0, 1, fwd)) })
}

func TestFragmentIsSubfragment(t *testing.T) {
	s1 := newSeq("tggtccgagatgcgggcc")
	s2 := newSeq("tggtccgagatgcgggcc")
	f1 := frag(s1, 0, 5, fwd)
	f2 := frag(s1, 5, 10, rev)
	f3 := frag(s1, 6, 8, rev)
	f3a := frag(s1, 5, 8, rev)
	f4 := frag(s2, 6, 8, rev)
	expect.False(t, f1.IsSubfragmentOf(f2))
	expect.False(t, f1.IsInternalSubfragmentOf(f2))
	expect.True(t, f2.IsSubfragmentOf(f2))
	expect.False(t, f2.IsInternalSubfragmentOf(f2))
	expect.False(t, f2.IsSubfragmentOf(f1))
	expect.False(t, f2.IsInternalSubfragmentOf(f1))
	expect.False(t, f3.IsSubfragmentOf(f4))
	expect.False(t, f3.IsInternalSubfragmentOf(f4))
	expect.True(t, f3.IsSubfragmentOf(f3a))
	expect.False(t, f3.IsInternalSubfragmentOf(f3a))
	expect.True(t, f3.IsSubfragmentOf(f2))
	expect.True(t, f3.IsInternalSubfragmentOf(f2))
}

func TestFragmentJoin(t *testing.T) {
	s1 := newSeq("tggtcCGAGATgcgggcc")
	f1, f2, f3 := newCycle(s1, fwd, rev)
	expect.True(t, pangenome.CanJoin(f1, f2))
	expect.True(t, pangenome.CanJoin(f2, f1))
	expect.False(t, pangenome.CanJoin(f1, f3))
	expect.False(t, pangenome.CanJoin(f2, f3))
	f12 := pangenome.Join(f1, f2)
	expect.EQ(t, f12.Ori(), fwd)
	expect.True(t, f12.Seq() == sequence.Sequence(s1))
	expect.EQ(t, f12.MinPos(), 1)
	expect.EQ(t, f12.MaxPos(), 6)
	expect.True(t, f12.IsNeighbor(f3))
	expect.False(t, f12.IsNeighbor(f1))
	expect.False(t, f12.IsNeighbor(f2))

	require.Panics(t, func() { pangenome.Join(f1, f3) })
}

func TestFragmentDiffPatch(t *testing.T) {
	s1 := newSeq("tggtccgagatgcgggcc")
	f0 := frag(s1, 0, 5, fwd)
	f1 := frag(s1, 0, 5, fwd)
	f2 := frag(s1, 5, 10, rev)
	f3 := frag(s1, 6, 8, rev)
	f1.Patch(f1.DiffTo(f2))
	f3.Patch(f3.DiffTo(f2))
	expectFrag(t, f1, f2)
	expectFrag(t, f3, f2)
	f2.Patch(f0.DiffTo(f2))
	expectFrag(t, f2, f0)
}

func TestFragmentDiffPatchRandom(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	s := newSeq("tggtccgagatgcgggcctggtccgagatgcgggcc")
	randFrag := func() *pangenome.Fragment {
		min := r.Intn(s.Size())
		max := min + r.Intn(s.Size()-min)
		ori := fwd
		if r.Intn(2) == 0 {
			ori = rev
		}
		return frag(s, min, max, ori)
	}
	for i := 0; i < 1000; i++ {
		a, b := randFrag(), randFrag()
		a.Patch(a.DiffTo(b))
		assert.True(t, a.Equal(b), "%s %s", a.ID(), b.ID())
	}
}

func TestFragmentExclude(t *testing.T) {
	s1 := newSeq("tggtccgagatgcgggcc")
	f1 := frag(s1, 0, 5, fwd)
	f2 := frag(s1, 5, 10, rev)
	f3 := frag(s1, 6, 8, rev)
	f1.Exclude(f3)
	expectFrag(t, f1, frag(s1, 0, 5, fwd))
	f2.Exclude(f1)
	expectFrag(t, f2, frag(s1, 6, 10, rev))
	f2.Exclude(f3)
	expectFrag(t, f2, frag(s1, 9, 10, rev))
	expect.True(t, f2.Valid())
	f2.Exclude(frag(s1, 9, 10, rev))
	expect.False(t, f2.Valid())
	expect.True(t, f3.Valid())
	f3.Exclude(frag(s1, 2, 10, fwd))
	expect.False(t, f3.Valid())

	single := frag(s1, 4, 4, fwd)
	single.Exclude(frag(s1, 4, 4, rev))
	expect.False(t, single.Valid())
}

func TestFragmentExclusionDiff(t *testing.T) {
	s1 := newSeq("tggtccgagatgcgggcc")
	f1 := frag(s1, 0, 5, fwd)
	f2 := frag(s1, 5, 10, rev)
	f3 := frag(s1, 6, 8, rev)
	f1.Patch(f1.ExclusionDiff(f3))
	expectFrag(t, f1, frag(s1, 0, 5, fwd))
	f2.Patch(f2.ExclusionDiff(f1))
	expectFrag(t, f2, frag(s1, 6, 10, rev))
	f2.Patch(f2.ExclusionDiff(f3))
	expectFrag(t, f2, frag(s1, 9, 10, rev))
	expect.True(t, f2.Valid())
	f2.Patch(f2.ExclusionDiff(frag(s1, 9, 10, rev)))
	expect.False(t, f2.Valid())
	expect.True(t, f3.Valid())
	f3.Patch(f3.ExclusionDiff(frag(s1, 2, 10, fwd)))
	expect.False(t, f3.Valid())
}

func TestFragmentSplit(t *testing.T) {
	s1 := newSeq("tggtccgagatgcgggcc")
	f1 := frag(s1, 0, 10, fwd)
	f2 := frag(s1, 3, 5, rev)
	f3 := frag(s1, 6, 8, rev)
	pangenome.Connect(f1, f2)
	pangenome.Connect(f2, f3)
	f2a := f1.Split(5)
	require.NotNil(t, f2a)
	expectFrag(t, f1, frag(s1, 0, 4, fwd))
	expectFrag(t, f2a, frag(s1, 5, 10, fwd))
	expectChain(t, f1, f2, f2a, f3)

	expect.Nil(t, f1.Split(5))
	expectFrag(t, f1, frag(s1, 0, 4, fwd))
	expectChain(t, f1, f2, f2a, f3)

	f3a := f3.Split(1)
	require.NotNil(t, f3a)
	expectFrag(t, f3, frag(s1, 8, 8, rev))
	expectFrag(t, f3a, frag(s1, 6, 7, rev))
	expect.True(t, f3.Prev() == f3a)
	expect.True(t, f3a.Prev() == f2a)
}

func TestFragmentSplitJoinRoundTrip(t *testing.T) {
	s := newSeq("tggtccgagatgcgggcc")
	for n := 1; n < 10; n++ {
		for _, ori := range []sequence.Ori{fwd, rev} {
			f := frag(s, 2, 11, ori)
			tail := f.Split(n)
			require.NotNil(t, tail)
			expect.EQ(t, f.Length(), n)
			expect.EQ(t, tail.Length(), 10-n)
			expect.EQ(t, f.DistTo(tail), 0)
			expect.EQ(t, f.CommonPositions(tail), 0)
			expect.True(t, f.IsNeighbor(tail))
			expect.Nil(t, f.Split(n))

			joined := pangenome.Join(f, tail)
			expectFrag(t, joined, frag(s, 2, 11, ori))
		}
	}
}

func TestFragmentAligned(t *testing.T) {
	eq := align.New(align.Opts{})
	s1 := newSeq("tggtccga|tggtccga")
	expect.True(t, frag(s1, 0, 0, fwd).Aligned(frag(s1, 8, 8, fwd), eq, 0))
	expect.True(t, frag(s1, 0, 0, fwd).Aligned(frag(s1, 3, 3, fwd), eq, 0))
	expect.False(t, frag(s1, 0, 0, fwd).Aligned(frag(s1, 1, 1, fwd), eq, 0))
	expect.False(t, frag(s1, 0, 0, fwd).Aligned(frag(s1, 1, 1, fwd), eq, 1))
	expect.True(t, frag(s1, 0, 0, fwd).Aligned(frag(s1, 0, 0, fwd), eq, 0))
	expect.True(t, frag(s1, 0, 0, fwd).Aligned(frag(s1, 7, 7, rev), eq, 0))
	expect.True(t, frag(s1, 0, 7, fwd).Aligned(frag(s1, 8, 15, fwd), eq, 0))
	expect.True(t, frag(s1, 0, 7, fwd).Aligned(frag(s1, 8, 15, fwd), eq, 3))
	expect.True(t, frag(s1, 0, 7, fwd).Aligned(frag(s1, 8, 15, fwd), eq, 1))
	expect.False(t, frag(s1, 0, 7, fwd).Aligned(frag(s1, 8, 14, fwd), eq, 0))

	oe := align.New(align.Opts{MaxErrors: 1, GapRange: 1})
	expect.True(t, frag(s1, 0, 7, fwd).Aligned(frag(s1, 8, 14, fwd), oe, 0))
	expect.True(t, frag(s1, 0, 7, fwd).Aligned(frag(s1, 8, 14, fwd), oe, 3))
	expect.True(t, frag(s1, 0, 7, fwd).Aligned(frag(s1, 8, 14, fwd), oe, 1))

	// The default aligner tolerates a few errors.
	expect.True(t, frag(s1, 0, 7, fwd).Aligned(frag(s1, 8, 14, fwd), nil, 0))
}

func TestFragmentIDAndString(t *testing.T) {
	s1 := newSeq("tggtccga|tggtccga")
	expect.EQ(t, frag(s1, 1, 2, fwd).ID(), "_1_2")
	expect.EQ(t, frag(s1, 1, 2, rev).ID(), "_2_1")
	named := sequence.NewInMemory("seq", "tggtccga|tggtccga")
	expect.EQ(t, frag(named, 1, 2, rev).ID(), "seq_2_1")

	f := frag(named, 1, 2, fwd)
	expect.EQ(t, f.String(), ">seq_1_2\nGG")
	b := pangenome.NewNamedBlock("abc")
	b.Insert(f)
	expect.EQ(t, f.String(), ">seq_1_2 block=abc\nGG")
	expect.EQ(t, frag(s1, 1, 2, rev).String(), ">2_1\nCC")
}

func TestFragmentHash(t *testing.T) {
	s := newSeq("ACGTTTACGT")
	expect.EQ(t, frag(s, 0, 3, fwd).Hash(), frag(s, 6, 9, fwd).Hash())
	expect.EQ(t, frag(s, 0, 3, fwd).Hash(), frag(s, 0, 3, rev).Hash())
	expect.True(t, frag(s, 0, 3, fwd).Hash() != frag(s, 1, 4, fwd).Hash())
}
