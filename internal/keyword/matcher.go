package keyword

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/quill/internal/core/domain"
)

// DefaultSpec is used for buffers whose definition has not been reported yet.
// It is Vim's default with '_' written as its code point.
const DefaultSpec = "@,48-57,95,192-255"

const tripleSeparator = ",,,"

// Matcher decides which code points belong to a keyword.
// A Matcher is immutable after Parse and safe for concurrent use.
type Matcher struct {
	spec     string
	anyAlpha bool
	chars    map[rune]struct{}
}

// Parse builds a Matcher from a boundary definition.
func Parse(spec string) (*Matcher, error) {
	if strings.Contains(spec, tripleSeparator) {
		return nil, &ParseError{Spec: spec, Reason: "triple separator"}
	}

	m := &Matcher{
		spec:  spec,
		chars: make(map[rune]struct{}),
	}

	for _, section := range strings.Split(spec, ",") {
		switch {
		case section == "@":
			m.anyAlpha = true
		case section == "@-@":
			m.chars['@'] = struct{}{}
		case isNumericRange(section):
			m.addRange(section)
		case isDigits(section):
			if r, ok := codePoint(section); ok {
				m.chars[r] = struct{}{}
			}
		case isAlphabetic(section):
			for _, r := range section {
				m.chars[r] = struct{}{}
			}
		default:
			// Unknown syntax (exclusions, letter ranges, punctuation) is skipped.
		}
	}

	return m, nil
}

// MustParse is like Parse but panics on error. Use only with constants.
func MustParse(spec string) *Matcher {
	m, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return m
}

// Default returns a Matcher for DefaultSpec.
func Default() *Matcher {
	return MustParse(DefaultSpec)
}

// Spec returns the definition the Matcher was built from.
func (m *Matcher) Spec() string {
	return m.spec
}

// Matches reports whether r belongs to a keyword.
func (m *Matcher) Matches(r rune) bool {
	if _, ok := m.chars[r]; ok {
		return true
	}
	return m.anyAlpha && (r > 255 || unicode.IsLetter(r))
}

// FindBoundary returns the keyword span around cursor.
//
// The scan moves left from cursor while Matches holds; Start is one past the
// first non-matching position, or 0. It then moves right from cursor+1;
// Finish is the last matching index, or cursor when nothing to the right
// matches. When the code point at cursor is not a keyword character the
// result is empty (Finish == Start-1). A cursor past the end of the line is
// clamped to the last code point.
func (m *Matcher) FindBoundary(line string, cursor int) domain.LineRange {
	runes := []rune(line)
	n := len(runes)
	if n == 0 {
		return domain.LineRange{Start: 0, Finish: -1}
	}
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}

	start := 0
	for i := cursor; i >= 0; i-- {
		if !m.Matches(runes[i]) {
			start = i + 1
			break
		}
	}

	finish := cursor
	for i := cursor + 1; i < n; i++ {
		if !m.Matches(runes[i]) {
			break
		}
		finish = i
	}

	return domain.LineRange{Start: start, Finish: finish}
}

// Words splits line into maximal runs of keyword characters.
func (m *Matcher) Words(line string) []string {
	var words []string
	start := -1
	for i, r := range line {
		if m.Matches(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			words = append(words, line[start:i])
			start = -1
		}
	}
	if start >= 0 {
		words = append(words, line[start:])
	}
	return words
}

func (m *Matcher) addRange(section string) {
	lo, hi, _ := strings.Cut(section, "-")
	first, ok := codePoint(lo)
	if !ok {
		return
	}
	last, ok := codePoint(hi)
	if !ok {
		return
	}
	for r := first; r <= last; r++ {
		if utf8.ValidRune(r) {
			m.chars[r] = struct{}{}
		}
	}
}

func codePoint(digits string) (rune, bool) {
	n, err := strconv.ParseInt(digits, 10, 32)
	if err != nil || n > unicode.MaxRune {
		return 0, false
	}
	r := rune(n)
	return r, utf8.ValidRune(r)
}

func isNumericRange(section string) bool {
	lo, hi, found := strings.Cut(section, "-")
	return found && isDigits(lo) && isDigits(hi)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
