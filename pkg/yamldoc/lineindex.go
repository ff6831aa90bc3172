package yamldoc

import "sort"

// LineIndex supports O(log n) conversion between byte offsets and
// (line, column) positions, and recovering the byte range spanned by a
// given line.
type LineIndex struct {
	src      string
	starts   []int // byte offset of the start of each line
}

// NewLineIndex builds a LineIndex over src.
func NewLineIndex(src string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{src: src, starts: starts}
}

// Position converts a byte offset into a 1-based (line, column) pair.
func (li *LineIndex) Position(offset int) (line, col int) {
	i := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, offset - li.starts[i] + 1
}

// LineRange returns the half-open byte range [start, end) of the given
// 1-based line, not including its trailing newline.
func (li *LineIndex) LineRange(line int) (start, end int) {
	idx := line - 1
	if idx < 0 || idx >= len(li.starts) {
		return len(li.src), len(li.src)
	}
	start = li.starts[idx]
	if idx+1 < len(li.starts) {
		end = li.starts[idx+1] - 1 // exclude '\n'
	} else {
		end = len(li.src)
	}
	if end > 0 && end <= len(li.src) && end > start && li.src[end-1] == '\r' {
		end--
	}
	return start, end
}

// LineCount returns the total number of lines in the source.
func (li *LineIndex) LineCount() int { return len(li.starts) }

// LineOf returns the 1-based line number containing offset.
func (li *LineIndex) LineOf(offset int) int {
	line, _ := li.Position(offset)
	return line
}

// LineStart returns the byte offset of the start of the given 1-based
// line.
func (li *LineIndex) LineStart(line int) int {
	start, _ := li.LineRange(line)
	return start
}
