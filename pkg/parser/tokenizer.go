package parser

import "strings"

// SplitLine splits one line of delimited text into fields. A double quote
// toggles the quoted state, a doubled quote inside a quoted field emits one
// literal quote, and the delimiter is literal text while quoted. An
// unterminated quote at end of line is not an error: the remainder is taken
// as literal text, which keeps messy exports parseable.
func SplitLine(line string, delim rune) []string {
	fields := make([]string, 0, 8)
	var current strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == delim && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(c)
		}
	}

	return append(fields, current.String())
}
