package align

import (
	"math/rand"
	"testing"

	"github.com/antzucaro/matchr"
	"github.com/grailbio/testutil/expect"
)

func TestDistanceMatchesLevenshtein(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	randSeq := func() string {
		b := make([]byte, r.Intn(12))
		for i := range b {
			b[i] = "ACGT"[r.Intn(4)]
		}
		return string(b)
	}
	for i := 0; i < 500; i++ {
		s1, s2 := randSeq(), randSeq()
		expect.EQ(t, Distance(s1, s2), matchr.Levenshtein(s1, s2), "%q %q", s1, s2)
	}
}

func TestAlignExact(t *testing.T) {
	eq := New(Opts{})
	tests := []struct {
		s1, s2       string
		last1, last2 int
		ok           bool
	}{
		{"T", "T", 0, 0, true},
		{"T", "G", -1, -1, false},
		{"TGGTCCGA", "TGGTCCGA", 7, 7, true},
		{"TGGTCCGA", "TGGTCCG", 6, 6, true},
		{"TGGACCGA", "TGGTCCGA", 2, 2, true},
		{"", "A", -1, -1, false},
	}
	for _, test := range tests {
		l1, l2, ok := eq.Align(test.s1, test.s2)
		expect.EQ(t, ok, test.ok, test)
		expect.EQ(t, l1, test.last1, test)
		expect.EQ(t, l2, test.last2, test)
	}
	expect.True(t, eq.Aligned("ACGT", "ACGT"))
	expect.False(t, eq.Aligned("ACGT", "ACG"))
}

func TestAlignWithErrors(t *testing.T) {
	a := New(Opts{MaxErrors: 1, GapRange: 1})
	l1, l2, ok := a.Align("TGGTCCGA", "TGGTCCG")
	expect.True(t, ok)
	expect.EQ(t, l1, 7)
	expect.EQ(t, l2, 6)
	expect.True(t, a.Aligned("A", "G"))
	expect.True(t, a.Aligned("GA", "G"))
	expect.False(t, a.Aligned("GAA", "G"))
	expect.True(t, a.Aligned("TGGACCGA", "TGGTCCGA"))
	expect.False(t, a.Aligned("TGGACCGT", "TGGTCCGA"))

	// An indel beyond the band can not be reached.
	narrow := New(Opts{MaxErrors: 3, GapRange: 0})
	expect.False(t, narrow.Aligned("AACGT", "ACGT"))
	wide := New(Opts{MaxErrors: 3, GapRange: 1})
	expect.True(t, wide.Aligned("AACGT", "ACGT"))
}

func TestMatrixString(t *testing.T) {
	a := New(Opts{MaxErrors: 2, GapRange: 1})
	a.Align("AC", "AG")
	expect.EQ(t, a.m.String(), "\n\n0 | 1 | -\n1 | 0 | 1\n- | 1 | 1")
}

func TestNewClampsOpts(t *testing.T) {
	a := New(Opts{MaxErrors: -3, GapRange: -1})
	expect.EQ(t, a.Opts(), Opts{})
}
