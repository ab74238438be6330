// Package rcp handles the text side of the Yamaha Remote Control Protocol:
// tokenizing lines, inferring argument types, and framing the TCP byte stream.
package rcp

import "strings"

// Split breaks an RCP line into space separated tokens.
//
// A double quote opens a span in which spaces do not split; the quote characters
// stay in the token, so `scene name 1 "Test Scene"` yields four tokens, the last
// being `"Test Scene"`. Runs of spaces produce no empty tokens.
//
// An unmatched quote keeps the span open to the end of the line: everything after
// it, spaces included, lands in one final token carrying a single quote character.
func Split(line string) []string {
	var (
		tokens   []string
		current  strings.Builder
		inQuotes bool
	)
	for _, c := range line {
		switch {
		case c == '"':
			inQuotes = !inQuotes
			current.WriteRune(c)
		case c == ' ' && !inQuotes:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(c)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}
