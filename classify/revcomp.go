package classify

var complement = [256]byte{}

func init() {
	for i := range complement {
		complement[i] = byte(i)
	}
	complement['A'], complement['T'] = 'T', 'A'
	complement['C'], complement['G'] = 'G', 'C'
}

// ReverseComplement returns the reverse of seq with A<->T and C<->G swapped.
// Any other byte (N, lower case, ...) is carried over unchanged, so the
// operation is its own inverse for every input.
func ReverseComplement(seq string) string {
	n := len(seq)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = complement[seq[n-1-i]]
	}

	return string(out)
}
