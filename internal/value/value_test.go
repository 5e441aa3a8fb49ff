package value

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestParseNumber(t *testing.T) {
	v, ok := ParseNumber("42")
	if !ok {
		t.Fatalf("expected 42 to parse")
	}
	if i, isInt := v.(Int); !isInt || i.V != 42 {
		t.Errorf("expected Int 42, got %#v", v)
	}

	v, ok = ParseNumber("4.5")
	if !ok {
		t.Fatalf("expected 4.5 to parse")
	}
	if f, isFloat := v.(Float); !isFloat || f.V != 4.5 {
		t.Errorf("expected Float 4.5, got %#v", v)
	}

	v, _ = ParseNumber("3.0")
	if _, isFloat := v.(Float); !isFloat {
		t.Errorf("expected 3.0 to be a Float, got %#v", v)
	}

	v, _ = ParseNumber("-7")
	if i, isInt := v.(Int); !isInt || i.V != -7 {
		t.Errorf("expected Int -7, got %#v", v)
	}

	for _, s := range []string{"", "abc", "1_000", "inf", "nan", "x1", "1.2.3"} {
		if _, ok := ParseNumber(s); ok {
			t.Errorf("expected %q not to parse as a number", s)
		}
	}
}

func TestStringForms(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Int{V: 5}, "5"},
		{Float{V: 2}, "2.0"},
		{Float{V: 2.5}, "2.5"},
		{Float{V: 1e20}, "1e+20"},
		{Bool{V: true}, "true"},
		{Bool{V: false}, "false"},
		{Null{}, ""},
		{Str{V: "hi"}, "hi"},
		{List{Items: []Value{Int{V: 1}, Str{V: "a"}}}, `[1, "a"]`},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Errorf("%#v: expected %q, got %q", c.v, c.want, got)
		}
	}
}

func TestMapKeepsInsertionOrder(t *testing.T) {
	m := NewMap()
	m.Set("b", Int{V: 1})
	m.Set("a", Str{V: "x"})
	m.Set("b", Int{V: 2})

	if m.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", m.Len())
	}
	keys := m.Keys()
	if keys[0] != "b" || keys[1] != "a" {
		t.Errorf("expected [b a], got %v", keys)
	}
	if v, _ := m.Get("b"); v.(Int).V != 2 {
		t.Errorf("expected b=2, got %v", v)
	}
	if got := m.String(); got != `{b: 2, a: "x"}` {
		t.Errorf("unexpected map text %q", got)
	}
}

func TestArithmetic(t *testing.T) {
	v, err := Add(Int{V: 2}, Int{V: 3})
	if err != nil || v != (Int{V: 5}) {
		t.Errorf("2+3: got %v, %v", v, err)
	}

	v, err = Mul(Int{V: 2}, Float{V: 1.5})
	if err != nil || v != (Float{V: 3}) {
		t.Errorf("2*1.5: got %v, %v", v, err)
	}

	v, err = Div(Int{V: 7}, Int{V: 2})
	if err != nil || v != (Float{V: 3.5}) {
		t.Errorf("7/2: got %v, %v", v, err)
	}

	if _, err := Div(Int{V: 1}, Int{V: 0}); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("expected division by zero, got %v", err)
	}

	_, err = Add(Str{V: "a"}, Int{V: 1})
	if err == nil {
		t.Fatalf("expected type error for str+int")
	}
	if err.Error() != "unsupported operand type(s) for +: 'str' and 'int'" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestIntegerOverflowWidens(t *testing.T) {
	tests := []struct {
		name string
		op   func(a, b Value) (Value, error)
		a, b Value
		want string
	}{
		{"max+1", Add, Int{V: math.MaxInt64}, Int{V: 1}, "9223372036854775808"},
		{"min+-1", Add, Int{V: math.MinInt64}, Int{V: -1}, "-9223372036854775809"},
		{"max*2", Mul, Int{V: math.MaxInt64}, Int{V: 2}, "18446744073709551614"},
		{"min*-1", Mul, Int{V: math.MinInt64}, Int{V: -1}, "9223372036854775808"},
		{"-1*min", Mul, Int{V: -1}, Int{V: math.MinInt64}, "9223372036854775808"},
	}
	for _, tt := range tests {
		v, err := tt.op(tt.a, tt.b)
		if err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
			continue
		}
		if _, ok := v.(BigInt); !ok {
			t.Errorf("%s: expected BigInt, got %#v", tt.name, v)
		}
		if v.String() != tt.want || v.Type() != "int" {
			t.Errorf("%s: got %s (%s), want %s", tt.name, v, v.Type(), tt.want)
		}
	}
}

func TestBigIntNarrowsWhenItFits(t *testing.T) {
	big, _ := Add(Int{V: math.MaxInt64}, Int{V: 1})
	v, err := Add(big, Int{V: -1})
	if err != nil || v != (Int{V: math.MaxInt64}) {
		t.Errorf("expected Int max, got %#v, %v", v, err)
	}

	v, err = Add(big, Float{V: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := v.(Float); !ok {
		t.Errorf("expected Float when mixing with a float, got %#v", v)
	}
}

func TestIntTooLargeForFloat(t *testing.T) {
	huge, ok := ParseNumber("1" + strings.Repeat("0", 400))
	if !ok {
		t.Fatal("expected a 401-digit literal to parse")
	}
	if _, err := Div(huge, Int{V: 1}); !errors.Is(err, ErrIntTooLarge) {
		t.Errorf("expected ErrIntTooLarge, got %v", err)
	}
	if _, err := ToFloat(huge); !errors.Is(err, ErrIntTooLarge) {
		t.Errorf("expected ErrIntTooLarge from ToFloat, got %v", err)
	}
}

func TestParseLargeIntegerLiteral(t *testing.T) {
	v, ok := ParseNumber("99999999999999999999")
	if !ok {
		t.Fatal("expected literal to parse")
	}
	if _, isBig := v.(BigInt); !isBig || v.String() != "99999999999999999999" {
		t.Errorf("expected exact BigInt, got %#v", v)
	}

	v, _ = ParseNumber("-9223372036854775808")
	if v != (Int{V: math.MinInt64}) {
		t.Errorf("expected Int min, got %#v", v)
	}

	v, _ = ParseNumber("1e20")
	if _, isFloat := v.(Float); !isFloat {
		t.Errorf("exponent literals stay Float, got %#v", v)
	}
}
