package strx

import "unicode/utf8"

// Coalesce returns s if non-empty, otherwise d.
func Coalesce(s, d string) string {
	if s == "" {
		return d
	}
	return s
}

// DecodeLossy decodes p as UTF-8, dropping invalid byte sequences instead of
// substituting replacement runes. Malformed radio or GPS bytes must never
// poison a record line.
func DecodeLossy(p []byte) string {
	if utf8.Valid(p) {
		return string(p)
	}
	out := make([]byte, 0, len(p))
	for len(p) > 0 {
		r, size := utf8.DecodeRune(p)
		if r == utf8.RuneError && size == 1 {
			p = p[1:]
			continue
		}
		out = append(out, p[:size]...)
		p = p[size:]
	}
	return string(out)
}
