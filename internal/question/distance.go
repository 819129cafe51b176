package question

// Distance returns the optimal string alignment distance between a and b:
// the number of single-rune insertions, deletions, substitutions or
// adjacent transpositions needed to turn a into b.
//
// Runes are compared, not bytes, so multi-byte text is measured per character.
func Distance(a, b string) int {
	if a == b {
		return 0
	}
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	rows := len(ra) + 1
	cols := len(rb) + 1
	d := make([][]int, rows)
	for i := range d {
		d[i] = make([]int, cols)
		d[i][0] = i
	}
	for j := 0; j < cols; j++ {
		d[0][j] = j
	}

	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			v := min(
				d[i-1][j]+1,      // delete
				d[i][j-1]+1,      // insert
				d[i-1][j-1]+cost, // substitute
			)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				v = min(v, d[i-2][j-2]+cost)
			}
			d[i][j] = v
		}
	}
	return d[rows-1][cols-1]
}
