package strconvx

import "testing"

func TestFormatFloatRecordFields(t *testing.T) {
	cases := []struct {
		in   float64
		prec int
		want string
	}{
		{1013.25, 2, "1013.25"},
		{123.45, 2, "123.45"},
		{12.345678, 6, "12.345678"},
		{-98.765432, 6, "-98.765432"},
		{0, 2, "0.00"},
	}
	for _, c := range cases {
		if got := FormatFloat(c.in, 'f', c.prec, 64); got != c.want {
			t.Errorf("FormatFloat(%v, %d) = %q, want %q", c.in, c.prec, got, c.want)
		}
	}
}

func TestItoa(t *testing.T) {
	if got := Itoa(915000000); got != "915000000" {
		t.Errorf("Itoa = %q", got)
	}
	if got := Itoa(-5); got != "-5" {
		t.Errorf("Itoa(-5) = %q", got)
	}
}

func TestParseFloat(t *testing.T) {
	v, err := ParseFloat("1025.90", 64)
	if err != nil || v < 1025.89 || v > 1025.91 {
		t.Errorf("ParseFloat = %v, %v", v, err)
	}
	if _, err := ParseFloat("12a", 64); err == nil {
		t.Error("expected error for malformed input")
	}
}
