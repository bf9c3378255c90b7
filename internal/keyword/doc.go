// Package keyword parses keyword boundary definitions and finds the word
// around a cursor.
//
// A boundary definition is a comma-separated list of sections, the same
// shape as Vim's 'iskeyword' option:
//
//	@         any alphabetic character or code point above 255
//	@-@       the literal '@'
//	48-57     an inclusive range of code points
//	95        a single code point
//	abc       each listed letter
//
// Sections in any other form are ignored so newer editor syntax does not
// break parsing. A definition containing ",,," is rejected.
//
// All offsets are code-point indices, never byte offsets.
package keyword
