package timeline

// The timeline of a work is a fixed-length ordered sequence of optional dates.
// The set of filled positions must always form a contiguous prefix: a position
// may be filled only when every earlier position is filled, and cleared only
// when every later position is empty.

// IndexOf returns the position of field within fields, -1 when unknown.
func IndexOf(fields []string, field string) int {
	for i, f := range fields {
		if f == field {
			return i
		}
	}
	return -1
}

// CanFill reports whether position idx may be given a value.
func CanFill(filled []bool, idx int) bool {
	if idx < 0 || idx >= len(filled) {
		return false
	}
	return idx == 0 || filled[idx-1]
}

// CanClear reports whether position idx may be emptied.
func CanClear(filled []bool, idx int) bool {
	if idx < 0 || idx >= len(filled) {
		return false
	}
	for i := idx + 1; i < len(filled); i++ {
		if filled[i] {
			return false
		}
	}
	return true
}

// IsPrefix reports whether the filled positions form a contiguous prefix.
func IsPrefix(filled []bool) bool {
	seenEmpty := false
	for _, f := range filled {
		if !f {
			seenEmpty = true
		} else if seenEmpty {
			return false
		}
	}
	return true
}
