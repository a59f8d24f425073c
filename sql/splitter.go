package sql

import "strings"

// scanner tracks the quoting state of a single left-to-right pass over
// script text. A fresh scanner is created per Split call; nothing is
// shared between calls.
type scanner struct {
	inString   bool
	stringChar byte
	current    strings.Builder
	statements []string
}

// Split divides raw SQL script text into individual statements.
//
// Statements are terminated by semicolons that appear outside string
// literals. Line comments ("--" to end of line) are stripped unless the
// marker occurs inside a string literal. Each returned statement is
// trimmed of surrounding whitespace, has no trailing semicolon, and is
// never empty; a final statement without a terminating semicolon is
// still returned. Statement order matches appearance order.
//
// Inside a string literal a doubled quote character is the escaped form
// of that quote and does not close the string. Backslash escapes are
// not honored. An unterminated string literal runs to the end of the
// input; the partial statement is still emitted.
//
// Split is a total function: it performs no I/O and cannot fail.
func Split(text string) []string {
	var sc scanner

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if sc.inString {
			if ch == sc.stringChar {
				// Doubled quote is an escaped quote, keep both.
				if i+1 < len(text) && text[i+1] == sc.stringChar {
					sc.current.WriteByte(ch)
					sc.current.WriteByte(text[i+1])
					i++
					continue
				}
				sc.inString = false
			}
			sc.current.WriteByte(ch)
			continue
		}

		switch {
		case ch == '\'' || ch == '"':
			sc.inString = true
			sc.stringChar = ch
			sc.current.WriteByte(ch)

		case ch == '-' && i+1 < len(text) && text[i+1] == '-':
			// Line comment: discard through end of line, keep the newline
			// so adjacent lines do not fuse into one word.
			for i < len(text) && text[i] != '\n' {
				i++
			}
			if i < len(text) {
				sc.current.WriteByte('\n')
			}

		case ch == ';':
			sc.flush()

		default:
			sc.current.WriteByte(ch)
		}
	}

	sc.flush()
	return sc.statements
}

// flush trims the accumulated buffer and appends it to the output if it
// holds any statement text.
func (sc *scanner) flush() {
	stmt := strings.TrimSpace(sc.current.String())
	if stmt != "" {
		sc.statements = append(sc.statements, stmt)
	}
	sc.current.Reset()
}
