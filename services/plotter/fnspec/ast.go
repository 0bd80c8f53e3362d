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
	"errors"
	"fmt"
	"strconv"
)

// maxDepth bounds the recursion of buildAST for pathological inputs such as
// thousands of nested parentheses.
const maxDepth = 256

var errTooDeep = errors.New("expression nested too deeply")

// findBinaryOperator returns the index of the operator of the given types at
// parenthesis depth zero where the token slice should be split, or -1.
//
// Left-associative operators split at the rightmost match so that
// "a - b - c" becomes "(a - b) - c". The right-associative caret splits at the
// leftmost match so that "a ^ b ^ c" becomes "a ^ (b ^ c)".
func findBinaryOperator(types []tokenType, tokens []token, rightAssoc bool) int {
	match := -1
	depth := 0
	for i, tok := range tokens {
		switch tok.typ {
		case leftParenToken:
			depth++
			continue
		case rightParenToken:
			depth--
			continue
		}
		if depth != 0 {
			continue
		}

		for _, typ := range types {
			if tok.typ != typ {
				continue
			}
			// + and - are only binary when they follow an operand
			if typ == plusToken || typ == minusToken {
				if i == 0 || !tokens[i-1].isOperand() {
					continue
				}
			}
			if rightAssoc {
				return i
			}
			match = i
		}
	}
	return match
}

// matchingParen returns the index of the parenthesis closing the one at open,
// or -1 when it is unbalanced.
func matchingParen(tokens []token, open int) int {
	depth := 0
	for i := open; i < len(tokens); i++ {
		switch tokens[i].typ {
		case leftParenToken:
			depth++
		case rightParenToken:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// precedenceLevels lists binary operators from lowest to highest precedence.
var precedenceLevels = []struct {
	types      []tokenType
	rightAssoc bool
}{
	{[]tokenType{plusToken, minusToken}, false},
	{[]tokenType{starToken, slashToken}, false},
}

func buildASTRecursive(tokens []token, depth int) (Expr, error) {
	if depth > maxDepth {
		return nil, errTooDeep
	}
	if len(tokens) == 0 {
		return nil, errors.New("missing operand")
	}

	// Strip a full ( ... )
	if tokens[0].typ == leftParenToken && matchingParen(tokens, 0) == len(tokens)-1 {
		return buildASTRecursive(tokens[1:len(tokens)-1], depth+1)
	}

	for _, level := range precedenceLevels {
		idx := findBinaryOperator(level.types, tokens, level.rightAssoc)
		if idx == -1 {
			continue
		}
		left, err := buildASTRecursive(tokens[:idx], depth+1)
		if err != nil {
			return nil, err
		}
		right, err := buildASTRecursive(tokens[idx+1:], depth+1)
		if err != nil {
			return nil, err
		}

		switch tokens[idx].typ {
		case plusToken:
			return add{left: left, right: right}, nil
		case minusToken:
			return subtract{left: left, right: right}, nil
		case starToken:
			return multiply{left: left, right: right}, nil
		case slashToken:
			return divide{left: left, right: right}, nil
		default:
			return nil, fmt.Errorf("unexpected operator %v", tokens[idx])
		}
	}

	// Leading sign binds looser than ^, so -x^2 is -(x^2)
	if tokens[0].typ == minusToken || tokens[0].typ == plusToken {
		operand, err := buildASTRecursive(tokens[1:], depth+1)
		if err != nil {
			return nil, err
		}
		if tokens[0].typ == plusToken {
			return operand, nil
		}
		return negate{operand: operand}, nil
	}

	if idx := findBinaryOperator([]tokenType{caretToken}, tokens, true); idx != -1 {
		base, err := buildASTRecursive(tokens[:idx], depth+1)
		if err != nil {
			return nil, err
		}
		exponent, err := buildASTRecursive(tokens[idx+1:], depth+1)
		if err != nil {
			return nil, err
		}
		return power{base: base, exponent: exponent}, nil
	}

	// Function application: name ( ... )
	if len(tokens) >= 3 && tokens[0].typ == identToken && tokens[1].typ == leftParenToken {
		fn, ok := functions[tokens[0].value]
		if !ok {
			return nil, fmt.Errorf("unknown function %v", tokens[0])
		}
		if matchingParen(tokens, 1) != len(tokens)-1 {
			return nil, fmt.Errorf("unexpected tokens after call to %v", tokens[0])
		}
		arg, err := buildASTRecursive(tokens[2:len(tokens)-1], depth+1)
		if err != nil {
			return nil, err
		}
		return call{name: tokens[0].value, fn: fn, arg: arg}, nil
	}

	if len(tokens) == 1 {
		tok := tokens[0]
		switch tok.typ {
		case numberToken:
			value, err := strconv.ParseFloat(tok.value, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %v", tok)
			}
			return number{value: value}, nil
		case identToken:
			if value, ok := constants[tok.value]; ok {
				return constant{name: tok.value, value: value}, nil
			}
			if _, ok := functions[tok.value]; ok {
				return nil, fmt.Errorf("function %v used without argument", tok)
			}
			return variable{name: tok.value}, nil
		default:
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
	}

	return nil, fmt.Errorf("could not parse tokens starting at %v", tokens[0])
}

// buildAST parses a token stream into an expression tree.
func buildAST(tokens []token) (Expr, error) {
	return buildASTRecursive(tokens, 0)
}
