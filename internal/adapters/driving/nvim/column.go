package nvim

import (
	"unicode/utf8"

	"github.com/custodia-labs/quill/internal/keyword"
)

// wordBeforeCursor finds the keyword that ends at the byte offset cursor
// (the position just after the last typed character). It returns the byte
// offset where that word starts and the word itself. When no keyword ends
// at cursor, start is cursor and word is empty.
func wordBeforeCursor(m *keyword.Matcher, line string, cursor int) (start int, word string) {
	cursor = clampByte(line, cursor)

	last := utf8.RuneCountInString(line[:cursor]) - 1
	if last < 0 {
		return cursor, ""
	}

	span := m.FindBoundary(line, last)
	if span.Len() <= 0 || span.Start > last {
		return cursor, ""
	}

	start = byteOffset(line, span.Start)
	end := byteOffset(line, last+1)
	return start, line[start:end]
}

// byteOffset converts a code point index of line to a byte offset.
func byteOffset(line string, runeIndex int) int {
	i := 0
	for offset := range line {
		if i == runeIndex {
			return offset
		}
		i++
	}
	return len(line)
}

// clampByte limits cursor to [0, len(line)] and moves it back onto a code
// point boundary.
func clampByte(line string, cursor int) int {
	if cursor < 0 {
		return 0
	}
	if cursor > len(line) {
		return len(line)
	}
	for cursor > 0 && cursor < len(line) && !utf8.RuneStart(line[cursor]) {
		cursor--
	}
	return cursor
}
