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
	"strings"
	"unicode"
)

type tokenType int

const (
	numberToken tokenType = iota
	identToken
	plusToken
	minusToken
	starToken
	slashToken
	caretToken
	leftParenToken
	rightParenToken
)

type token struct {
	typ   tokenType
	value string
	pos   int
}

func (t token) String() string {
	return fmt.Sprintf("%q@%d", t.value, t.pos)
}

// isOperand reports whether a token can end an operand, which makes a
// following + or - binary.
func (t token) isOperand() bool {
	return t.typ == numberToken || t.typ == identToken || t.typ == rightParenToken
}

// tokenize splits an expression into tokens. Whitespace separates tokens and
// is otherwise ignored. A braced identifier "{x}" yields the identifier x.
func tokenize(input string) ([]token, error) {
	var tokens []token
	runes := []rune(input)
	i := 0
	for i < len(runes) {
		ch := runes[i]

		switch {
		case unicode.IsSpace(ch):
			i++

		case unicode.IsDigit(ch) || ch == '.':
			start := i
			end, err := scanNumber(runes, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{typ: numberToken, value: string(runes[start:end]), pos: start})
			i = end

		case isIdentStart(ch):
			start := i
			for i < len(runes) && isIdentPart(runes[i]) {
				i++
			}
			tokens = append(tokens, token{typ: identToken, value: string(runes[start:i]), pos: start})

		case ch == '{':
			start := i
			end := start + 1
			for end < len(runes) && runes[end] != '}' {
				end++
			}
			if end == len(runes) {
				return nil, fmt.Errorf("unterminated variable at %d", start)
			}
			name := strings.TrimSpace(string(runes[start+1 : end]))
			if !isIdentifier(name) {
				return nil, fmt.Errorf("invalid variable %q at %d", name, start)
			}
			tokens = append(tokens, token{typ: identToken, value: name, pos: start})
			i = end + 1

		default:
			typ, ok := operatorTokens[ch]
			if !ok {
				return nil, fmt.Errorf("unexpected character %q at %d", ch, i)
			}
			tokens = append(tokens, token{typ: typ, value: string(ch), pos: i})
			i++
		}
	}
	return tokens, nil
}

var operatorTokens = map[rune]tokenType{
	'+': plusToken,
	'-': minusToken,
	'*': starToken,
	'/': slashToken,
	'^': caretToken,
	'(': leftParenToken,
	')': rightParenToken,
}

// scanNumber returns the end index of the unsigned numeric literal starting
// at i: digits, an optional fraction and an optional exponent.
func scanNumber(runes []rune, i int) (int, error) {
	start := i
	digits := 0
	for i < len(runes) && unicode.IsDigit(runes[i]) {
		i++
		digits++
	}
	if i < len(runes) && runes[i] == '.' {
		i++
		for i < len(runes) && unicode.IsDigit(runes[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, fmt.Errorf("malformed number at %d", start)
	}
	if i < len(runes) && (runes[i] == 'e' || runes[i] == 'E') {
		j := i + 1
		if j < len(runes) && (runes[j] == '+' || runes[j] == '-') {
			j++
		}
		expDigits := 0
		for j < len(runes) && unicode.IsDigit(runes[j]) {
			j++
			expDigits++
		}
		// "2e" followed by something else is left for the parser to reject.
		if expDigits > 0 {
			i = j
		}
	}
	return i, nil
}

func isIdentStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || unicode.IsDigit(ch)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, ch := range s {
		if i == 0 && !isIdentStart(ch) {
			return false
		}
		if !isIdentPart(ch) {
			return false
		}
	}
	return true
}
