// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package value

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

var (
	// ErrDivisionByZero is returned by Div when the divisor is zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrIntTooLarge is returned when an integer operand does not fit in a float.
	ErrIntTooLarge = errors.New("int too large to convert to float")
)

// Add returns a+b. Integer operands give an integer of any size, any Float
// operand makes a Float.
func Add(a, b Value) (Value, error) {
	return numeric('+', a, b, addInt64, (*big.Int).Add,
		func(x, y float64) Value { return Float{V: x + y} })
}

// Mul returns a*b with the same promotion rules as Add.
func Mul(a, b Value) (Value, error) {
	return numeric('*', a, b, mulInt64, (*big.Int).Mul,
		func(x, y float64) Value { return Float{V: x * y} })
}

// Div returns a/b. Division always produces a Float.
func Div(a, b Value) (Value, error) {
	x, y, err := floatOperands('/', a, b)
	if err != nil {
		return nil, err
	}
	if y == 0 {
		return nil, ErrDivisionByZero
	}
	return Float{V: x / y}, nil
}

// addInt64 reports ok=false when x+y overflows int64.
func addInt64(x, y int64) (int64, bool) {
	r := x + y
	if (x > 0 && y > 0 && r < 0) || (x < 0 && y < 0 && r >= 0) {
		return 0, false
	}
	return r, true
}

// mulInt64 reports ok=false when x*y overflows int64.
func mulInt64(x, y int64) (int64, bool) {
	if x == 0 || y == 0 {
		return 0, true
	}
	r := x * y
	if r/y != x || (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
		return 0, false
	}
	return r, true
}

func numeric(op byte, a, b Value,
	small func(x, y int64) (int64, bool),
	wide func(z, x, y *big.Int) *big.Int,
	floats func(x, y float64) Value,
) (Value, error) {
	if x, ok := a.(Int); ok {
		if y, ok := b.(Int); ok {
			if r, ok := small(x.V, y.V); ok {
				return Int{V: r}, nil
			}
		}
	}
	if x, ok := toBig(a); ok {
		if y, ok := toBig(b); ok {
			return NewInt(wide(new(big.Int), x, y)), nil
		}
	}
	x, y, err := floatOperands(op, a, b)
	if err != nil {
		return nil, err
	}
	return floats(x, y), nil
}

// toBig widens an integer of either kind.
func toBig(v Value) (*big.Int, bool) {
	switch n := v.(type) {
	case Int:
		return big.NewInt(n.V), true
	case BigInt:
		return n.V, true
	}
	return nil, false
}

func floatOperands(op byte, a, b Value) (float64, float64, error) {
	x, okA := toFloat(a)
	y, okB := toFloat(b)
	if !okA || !okB {
		return 0, 0, operandError(op, a, b)
	}
	if (math.IsInf(x, 0) && !isFloat(a)) || (math.IsInf(y, 0) && !isFloat(b)) {
		return 0, 0, ErrIntTooLarge
	}
	return x, y, nil
}

func isFloat(v Value) bool {
	_, ok := v.(Float)
	return ok
}

// ToFloat widens a number to float64. A BigInt beyond the float64 range is
// an error.
func ToFloat(v Value) (float64, error) {
	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("'%s' is not a number", v.Type())
	}
	if math.IsInf(f, 0) && !isFloat(v) {
		return 0, ErrIntTooLarge
	}
	return f, nil
}

// toFloat widens a number to float64.
func toFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n.V), true
	case BigInt:
		f, _ := new(big.Float).SetInt(n.V).Float64()
		return f, true
	case Float:
		return n.V, true
	}
	return 0, false
}

func operandError(op byte, a, b Value) error {
	return fmt.Errorf("unsupported operand type(s) for %c: '%s' and '%s'", op, a.Type(), b.Type())
}
