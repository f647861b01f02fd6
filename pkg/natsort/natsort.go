// Package natsort implements natural string ordering, where runs of
// digits embedded in a string compare by numeric value instead of
// lexicographically: "R2" sorts before "R10", which sorts before "R100".
//
// Pad, pin and record names in a component pool are almost always short
// alphanumeric designators, so this is the ordering a human reviewer
// expects in every table and tree of the report.
package natsort

// Compare returns -1, 0 or 1 comparing a and b in natural order.
// Digit runs compare numerically (longer run of equal value wins are
// broken by the run length so "007" and "7" stay distinct), all other
// bytes compare as-is.
func Compare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			// Compare the full digit runs numerically.
			si, sj := i, j
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			na := trimZeros(a[si:i])
			nb := trimZeros(b[sj:j])
			if len(na) != len(nb) {
				if len(na) < len(nb) {
					return -1
				}
				return 1
			}
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
			// Equal value: fewer leading zeros sorts first.
			if i-si != j-sj {
				if i-si < j-sj {
					return -1
				}
				return 1
			}
			continue
		}
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case i < len(a):
		return 1
	case j < len(b):
		return -1
	}
	return 0
}

// Less reports whether a sorts before b in natural order.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func trimZeros(s string) string {
	for len(s) > 1 && s[0] == '0' {
		s = s[1:]
	}
	return s
}
