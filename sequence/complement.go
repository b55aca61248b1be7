package sequence

var (
	complementMap [256]byte
	isACGT        [256]bool
)

func init() {
	for i := range complementMap {
		complementMap[i] = 'N'
	}
	complementMap['A'] = 'T'
	complementMap['a'] = 'T'
	complementMap['C'] = 'G'
	complementMap['c'] = 'G'
	complementMap['G'] = 'C'
	complementMap['g'] = 'C'
	complementMap['T'] = 'A'
	complementMap['t'] = 'A'

	for _, c := range []byte("ACGT") {
		isACGT[c] = true
	}
}

// Complement returns the complementary base. Bases other than ACGT
// (either case) complement to N.
func Complement(c byte) byte {
	return complementMap[c]
}

// ReverseComplement returns the reverse complement of seq.
func ReverseComplement(seq string) string {
	buf := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		buf[len(seq)-1-i] = complementMap[seq[i]]
	}
	return string(buf)
}
