// Package tspdio parses and writes the instance and solution file
// formats: geometric, graph, and matrix instances, the restricted-
// instance overlay prefix, and the solution record format. Parsing strips
// /* ... */ comments before tokenizing; writing is canonical so that
// parse, serialize, parse round-trips byte-equal.
package tspdio

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/windrose-labs/tspdrone/tsperr"
)

var commentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)

// stripComments removes every /* ... */ block from s, mirroring the
// wire format's comment rule.
func stripComments(s string) string {
	return commentPattern.ReplaceAllString(s, " ")
}

// identifierPattern matches a transformed, wire-safe identifier.
var identifierPattern = regexp.MustCompile(`[^A-Za-z0-9_=\-\[\],.]`)

// transformIdentifier rewrites any character outside the wire format's
// identifier alphabet with an underscore, so a written name always
// round-trips as a single whitespace-delimited token.
func transformIdentifier(name string) string {
	return identifierPattern.ReplaceAllString(name, "_")
}

// scanner tokenizes a comment-stripped, whitespace-delimited input
// string, the field-by-field reader every instance and solution format
// parses with.
type scanner struct {
	tokens []string
	pos    int
}

func newScanner(input string) *scanner {
	return &scanner{tokens: strings.Fields(stripComments(input))}
}

func (s *scanner) hasNext() bool {
	return s.pos < len(s.tokens)
}

func (s *scanner) next() (string, error) {
	if !s.hasNext() {
		return "", tsperr.New(tsperr.InvalidInput, "unexpected end of input")
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok, nil
}

func (s *scanner) nextInt() (int, error) {
	tok, err := s.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, tsperr.Wrap(tsperr.InvalidInput, "expected an integer token", err)
	}
	return v, nil
}

func (s *scanner) nextFloat() (float64, error) {
	tok, err := s.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, tsperr.Wrap(tsperr.InvalidInput, "expected a floating point token", err)
	}
	return v, nil
}

func (s *scanner) nextBool() (bool, error) {
	tok, err := s.next()
	if err != nil {
		return false, err
	}
	v, err := strconv.ParseBool(tok)
	if err != nil {
		return false, tsperr.Wrap(tsperr.InvalidInput, "expected a boolean token", err)
	}
	return v, nil
}
