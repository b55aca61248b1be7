package align

import (
	"fmt"
	"strconv"
	"strings"
)

// unreachable marks cells outside the band.
const unreachable = int(^uint(0) >> 2)

// matrix represents a 2 dimensional matrix.
type matrix struct {
	nRow, nCol int
	data       []int // row-major nRow*nCol array.
}

// reset resizes m to n x k, reusing its storage when possible.
func (m *matrix) reset(n, k int) {
	m.nRow, m.nCol = n, k
	if cap(m.data) < n*k {
		m.data = make([]int, n*k)
	}
	m.data = m.data[:n*k]
}

func (m *matrix) at(i, j int) int { return m.data[i*m.nCol+j] }

func (m *matrix) set(i, j, v int) { m.data[i*m.nCol+j] = v }

// String returns a string representation of a matrix. Unreachable cells are
// printed as "-".
func (m *matrix) String() string {
	cell := func(d int) string {
		if d >= unreachable {
			return "-"
		}
		return strconv.Itoa(d)
	}
	maxLength := 0
	for _, d := range m.data {
		if l := len(cell(d)); l > maxLength {
			maxLength = l
		}
	}
	lines := []string{"\n"}
	for i := 0; i < m.nRow; i++ {
		var parts []string
		for j := 0; j < m.nCol; j++ {
			parts = append(parts, fmt.Sprintf("%*s", maxLength, cell(m.at(i, j))))
		}
		lines = append(lines, strings.Join(parts, " | "))
	}
	return strings.Join(lines, "\n")
}

// computeCell computes the edit distance cell (i, j) between prefixes
// a[:i] and b[:j].
//
//   ___|___
//    1 | 3
//    2 | 4
//
// Cell 4 is reached diagonally from 1 (match or substitution), from 2
// (insertion in b) or from 3 (deletion from b).
func (m *matrix) computeCell(i, j int, a, b string) {
	if i == 0 {
		m.set(i, j, j)
		return
	}
	if j == 0 {
		m.set(i, j, i)
		return
	}
	diag := m.at(i-1, j-1)
	if a[i-1] != b[j-1] {
		diag++
	}
	v := diag
	if d := m.at(i-1, j) + 1; d < v {
		v = d
	}
	if r := m.at(i, j-1) + 1; r < v {
		v = r
	}
	m.set(i, j, v)
}
