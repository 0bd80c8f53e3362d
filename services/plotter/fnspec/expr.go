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
	"math"
	"strconv"
)

// Expr is a node of a parsed expression tree.
//
// Eval substitutes x for the free variable. String renders the node in a
// form Parse accepts again.
type Expr interface {
	Eval(x float64) float64
	String() string
	isExpr()
}

type number struct {
	value float64
}

type constant struct {
	name  string
	value float64
}

type variable struct {
	name string
}

type negate struct {
	operand Expr
}

type add struct {
	left  Expr
	right Expr
}

type subtract struct {
	left  Expr
	right Expr
}

type multiply struct {
	left  Expr
	right Expr
}

type divide struct {
	left  Expr
	right Expr
}

type power struct {
	base     Expr
	exponent Expr
}

type call struct {
	name string
	fn   func(float64) float64
	arg  Expr
}

func (n number) Eval(float64) float64   { return n.value }
func (c constant) Eval(float64) float64 { return c.value }
func (v variable) Eval(x float64) float64 {
	return x
}
func (n negate) Eval(x float64) float64 { return -n.operand.Eval(x) }
func (a add) Eval(x float64) float64    { return a.left.Eval(x) + a.right.Eval(x) }
func (s subtract) Eval(x float64) float64 {
	return s.left.Eval(x) - s.right.Eval(x)
}
func (m multiply) Eval(x float64) float64 { return m.left.Eval(x) * m.right.Eval(x) }
func (d divide) Eval(x float64) float64   { return d.left.Eval(x) / d.right.Eval(x) }
func (p power) Eval(x float64) float64 {
	return math.Pow(p.base.Eval(x), p.exponent.Eval(x))
}
func (c call) Eval(x float64) float64 { return c.fn(c.arg.Eval(x)) }

func (n number) String() string   { return strconv.FormatFloat(n.value, 'g', -1, 64) }
func (c constant) String() string { return c.name }
func (v variable) String() string { return v.name }
func (n negate) String() string   { return "-" + wrap(n.operand) }
func (a add) String() string      { return wrap(a.left) + " + " + wrap(a.right) }
func (s subtract) String() string { return wrap(s.left) + " - " + wrap(s.right) }
func (m multiply) String() string { return wrap(m.left) + " * " + wrap(m.right) }
func (d divide) String() string   { return wrap(d.left) + " / " + wrap(d.right) }
func (p power) String() string    { return wrap(p.base) + "^" + wrap(p.exponent) }
func (c call) String() string     { return c.name + "(" + c.arg.String() + ")" }

// wrap parenthesizes compound operands so String output never depends on
// precedence rules.
func wrap(e Expr) string {
	switch e.(type) {
	case number, constant, variable, call:
		return e.String()
	}
	return "(" + e.String() + ")"
}

func (number) isExpr()   {}
func (constant) isExpr() {}
func (variable) isExpr() {}
func (negate) isExpr()   {}
func (add) isExpr()      {}
func (subtract) isExpr() {}
func (multiply) isExpr() {}
func (divide) isExpr()   {}
func (power) isExpr()    {}
func (call) isExpr()     {}

// functions lists the unary functions accepted in expressions. log is the
// natural logarithm.
var functions = map[string]func(float64) float64{
	"sin":    math.Sin,
	"cos":    math.Cos,
	"tan":    math.Tan,
	"asin":   math.Asin,
	"acos":   math.Acos,
	"atan":   math.Atan,
	"sinh":   math.Sinh,
	"cosh":   math.Cosh,
	"tanh":   math.Tanh,
	"exp":    math.Exp,
	"log":    math.Log,
	"ln":     math.Log,
	"log2":   math.Log2,
	"log10":  math.Log10,
	"sqrt":   math.Sqrt,
	"cbrt":   math.Cbrt,
	"abs":    math.Abs,
	"floor":  math.Floor,
	"ceil":   math.Ceil,
	"round":  math.Round,
	"trunc":  math.Trunc,
	"signum": signum,
}

var constants = map[string]float64{
	"PI":  math.Pi,
	"pi":  math.Pi,
	"E":   math.E,
	"TAU": 2 * math.Pi,
	"tau": 2 * math.Pi,
}

func signum(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return x
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// variables returns the distinct free variable names used in e, in order of
// first appearance.
func variables(e Expr) []string {
	var names []string
	seen := make(map[string]bool)
	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case variable:
			if !seen[n.name] {
				seen[n.name] = true
				names = append(names, n.name)
			}
		case negate:
			walk(n.operand)
		case add:
			walk(n.left)
			walk(n.right)
		case subtract:
			walk(n.left)
			walk(n.right)
		case multiply:
			walk(n.left)
			walk(n.right)
		case divide:
			walk(n.left)
			walk(n.right)
		case power:
			walk(n.base)
			walk(n.exponent)
		case call:
			walk(n.arg)
		}
	}
	walk(e)
	return names
}
