//go:build rp2040 || rp2350

package strconvx

// Minimal, allocation-aware replacements with identical signatures.
// Decimal formatting only covers what the tracker emits: record fields and
// AT command arguments. FormatFloat is not IEEE-perfect; precision here is
// always small (2 or 6 digits).

func Itoa(i int) string { return FormatInt(int64(i), 10) }

func FormatInt(i int64, base int) string {
	neg := i < 0
	var u uint64
	if neg {
		u = uint64(-i)
	} else {
		u = uint64(i)
	}
	s := FormatUint(u, base)
	if neg {
		return "-" + s
	}
	return s
}

func FormatUint(u uint64, base int) string {
	if base < 2 || base > 36 {
		base = 10
	}
	if u == 0 {
		return "0"
	}
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	var buf [64]byte
	i := len(buf)
	b := uint64(base)
	for u > 0 {
		i--
		buf[i] = digits[u%b]
		u /= b
	}
	return string(buf[i:])
}

func FormatFloat(f float64, fmt byte, prec, _ int) string {
	if prec < 0 {
		prec = 6
	}
	_ = fmt // only fixed-point output is supported on MCU builds
	neg := false
	if f < 0 {
		neg = true
		f = -f
	}
	pow := 1.0
	for i := 0; i < prec; i++ {
		pow *= 10
	}
	// Round once in fixed-point space, then split.
	scaled := uint64(f*pow + 0.5)
	intp := scaled / uint64(pow)
	frac := scaled % uint64(pow)

	out := FormatUint(intp, 10)
	if prec > 0 {
		fs := FormatUint(frac, 10)
		for len(fs) < prec {
			fs = "0" + fs
		}
		out += "." + fs
	}
	if neg {
		return "-" + out
	}
	return out
}

type parseError struct{}

func (parseError) Error() string { return "invalid syntax" }

func ParseFloat(s string, _ int) (float64, error) {
	if len(s) == 0 {
		return 0, parseError{}
	}
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}
	var intPart uint64
	var i int
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		intPart = intPart*10 + uint64(s[i]-'0')
		i++
	}
	var frac float64
	if i < len(s) && s[i] == '.' {
		i++
		scale := 1.0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			frac = frac*10 + float64(s[i]-'0')
			scale *= 10
			i++
		}
		frac /= scale
	}
	if i != len(s) {
		return 0, parseError{}
	}
	v := float64(intPart) + frac
	if neg {
		v = -v
	}
	return v, nil
}

func Atoi(s string) (int, error) {
	if len(s) == 0 {
		return 0, parseError{}
	}
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}
	if len(s) == 0 {
		return 0, parseError{}
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, parseError{}
		}
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		n = -n
	}
	return n, nil
}
