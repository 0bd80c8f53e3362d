// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package fnspec

import (
	"fmt"
	"strconv"
	"unicode"
)

// pointScanner reads the point list format:
//
//	[(x0, y0), (x1, y1), ...]
//
// Whitespace, trailing commas, "//" line comments and "/* */" block comments
// are allowed between elements.
type pointScanner struct {
	src []rune
	pos int
}

// parsePointList returns the pairs of a point list in textual order.
func parsePointList(input string) ([]Key, error) {
	s := &pointScanner{src: []rune(input)}

	if err := s.expect('['); err != nil {
		return nil, err
	}

	var keys []Key
	for {
		if err := s.skip(); err != nil {
			return nil, err
		}
		if s.peek() == ']' {
			s.pos++
			break
		}

		key, err := s.pair()
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)

		if err := s.skip(); err != nil {
			return nil, err
		}
		switch s.peek() {
		case ',':
			s.pos++
		case ']':
			// closed on the next iteration
		default:
			return nil, s.errorf("expected ',' or ']'")
		}
	}

	if err := s.skip(); err != nil {
		return nil, err
	}
	if s.pos != len(s.src) {
		return nil, s.errorf("unexpected trailing input")
	}
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}
	return keys, nil
}

// pair reads "(x, y)" with an optional trailing comma before ")".
func (s *pointScanner) pair() (Key, error) {
	if err := s.expect('('); err != nil {
		return Key{}, err
	}
	x, err := s.number()
	if err != nil {
		return Key{}, err
	}
	if err := s.expect(','); err != nil {
		return Key{}, err
	}
	y, err := s.number()
	if err != nil {
		return Key{}, err
	}
	if err := s.skip(); err != nil {
		return Key{}, err
	}
	if s.peek() == ',' {
		s.pos++
	}
	if err := s.expect(')'); err != nil {
		return Key{}, err
	}
	return Key{X: x, Y: y}, nil
}

// number reads an optionally signed numeric literal.
func (s *pointScanner) number() (float64, error) {
	if err := s.skip(); err != nil {
		return 0, err
	}
	start := s.pos
	if ch := s.peek(); ch == '+' || ch == '-' {
		s.pos++
	}
	if ch := s.peek(); !unicode.IsDigit(ch) && ch != '.' {
		return 0, s.errorf("expected number")
	}
	end, err := scanNumber(s.src, s.pos)
	if err != nil {
		return 0, err
	}
	s.pos = end
	value, err := strconv.ParseFloat(string(s.src[start:end]), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", string(s.src[start:end]), err)
	}
	return value, nil
}

func (s *pointScanner) expect(ch rune) error {
	if err := s.skip(); err != nil {
		return err
	}
	if s.peek() != ch {
		return s.errorf("expected %q", ch)
	}
	s.pos++
	return nil
}

// skip advances past whitespace and comments.
func (s *pointScanner) skip() error {
	for s.pos < len(s.src) {
		ch := s.src[s.pos]
		switch {
		case unicode.IsSpace(ch):
			s.pos++
		case ch == '/' && s.at(s.pos+1) == '/':
			for s.pos < len(s.src) && s.src[s.pos] != '\n' {
				s.pos++
			}
		case ch == '/' && s.at(s.pos+1) == '*':
			start := s.pos
			s.pos += 2
			for s.pos < len(s.src) && !(s.src[s.pos] == '*' && s.at(s.pos+1) == '/') {
				s.pos++
			}
			if s.pos >= len(s.src) {
				return fmt.Errorf("unterminated comment at %d", start)
			}
			s.pos += 2
		default:
			return nil
		}
	}
	return nil
}

func (s *pointScanner) peek() rune {
	return s.at(s.pos)
}

func (s *pointScanner) at(i int) rune {
	if i < len(s.src) {
		return s.src[i]
	}
	return 0
}

func (s *pointScanner) errorf(format string, args ...any) error {
	found := "end of input"
	if s.pos < len(s.src) {
		found = strconv.QuoteRune(s.src[s.pos])
	}
	return fmt.Errorf("%s at %d, found %s", fmt.Sprintf(format, args...), s.pos, found)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
