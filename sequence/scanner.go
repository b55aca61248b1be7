package sequence

// Window is one fixed-length oriented window produced by Scanner.
type Window struct {
	// MinPos and MaxPos are the closed interval covered by the window.
	MinPos, MaxPos int
	Ori            Ori
}

// BeginPos is the position of the first base read.
func (w Window) BeginPos() int {
	if w.Ori == Forward {
		return w.MinPos
	}
	return w.MaxPos
}

// Scanner enumerates the windows of one sequence. Typical usage:
//
//   sc := sequence.NewScanner(seq, 20, 0)
//   for sc.Scan() {
//     w := sc.Get()
//     ...
//   }
//
// With onlyOri == 0, each start position yields its FirstOri window and then
// the opposite one. Otherwise only the onlyOri window is produced.
type Scanner struct {
	windowSize int
	onlyOri    Ori
	from, to   int

	started bool
	cur     Window
}

// NewScanner creates a scanner over all windows of seq.
func NewScanner(seq Sequence, windowSize int, onlyOri Ori) *Scanner {
	return NewRangeScanner(seq, windowSize, onlyOri, 0, seq.Size())
}

// NewRangeScanner creates a scanner over the windows of seq whose minimum
// position lies in [from, to). The range is clipped to the windows that fit
// in seq.
func NewRangeScanner(seq Sequence, windowSize int, onlyOri Ori, from, to int) *Scanner {
	if from < 0 {
		from = 0
	}
	if last := seq.Size() - windowSize + 1; to > last {
		to = last
	}
	return &Scanner{windowSize: windowSize, onlyOri: onlyOri, from: from, to: to}
}

// Scan advances to the next window. It returns false once no window fits.
func (s *Scanner) Scan() bool {
	if s.windowSize <= 0 || s.from >= s.to {
		return false
	}
	if !s.started {
		s.started = true
		ori := FirstOri
		if s.onlyOri != 0 {
			ori = s.onlyOri
		}
		s.cur = Window{MinPos: s.from, MaxPos: s.from + s.windowSize - 1, Ori: ori}
		return true
	}
	if s.onlyOri == 0 && s.cur.Ori == FirstOri {
		s.cur.Ori = -FirstOri
		return true
	}
	if s.cur.MinPos+1 >= s.to {
		return false
	}
	s.cur.MinPos++
	s.cur.MaxPos++
	if s.onlyOri == 0 {
		s.cur.Ori = FirstOri
	}
	return true
}

// Get returns the current window. It is valid only after Scan returns true.
func (s *Scanner) Get() Window {
	return s.cur
}
