package syntax

import "sort"

type lineIndex struct {
	starts []int
}

func buildLineIndex(content string) lineIndex {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return lineIndex{starts: starts}
}

// lineCol maps a byte offset to a 1-based line and byte column.
func (i lineIndex) lineCol(offset int) (uint32, uint32) {
	if offset < 0 {
		return 1, 1
	}
	line := sort.Search(len(i.starts), func(idx int) bool { return i.starts[idx] > offset }) - 1
	if line < 0 {
		line = 0
	}
	col := (offset - i.starts[line]) + 1
	if col < 1 {
		col = 1
	}
	return uint32(line + 1), uint32(col)
}
