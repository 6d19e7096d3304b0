package internal

// needsEscapeTable marks the bytes that cannot appear unescaped inside a JSON string.
var needsEscapeTable = [256]bool{
	0x00: true, 0x01: true, 0x02: true, 0x03: true, 0x04: true, 0x05: true, 0x06: true, 0x07: true,
	0x08: true, 0x09: true, 0x0A: true, 0x0B: true, 0x0C: true, 0x0D: true, 0x0E: true, 0x0F: true,
	0x10: true, 0x11: true, 0x12: true, 0x13: true, 0x14: true, 0x15: true, 0x16: true, 0x17: true,
	0x18: true, 0x19: true, 0x1A: true, 0x1B: true, 0x1C: true, 0x1D: true, 0x1E: true, 0x1F: true,
	'"':  true,
	'\\': true,
}

// shortEscapes holds the two-byte escapes; zero entries fall back to \u00XX.
var shortEscapes = [256]byte{
	'\b': 'b',
	'\t': 't',
	'\n': 'n',
	'\f': 'f',
	'\r': 'r',
	'"':  '"',
	'\\': '\\',
}

const hexChars = "0123456789abcdef"

// NeedsEscape reports whether s contains a control character, a quote or a backslash.
func NeedsEscape(s string) bool {
	n := len(s)

	// 8 bytes per round; the comparisons are cheap enough that the table
	// lookup only runs when something suspicious shows up.
	for i := 0; i+8 <= n; i += 8 {
		b0, b1, b2, b3 := s[i], s[i+1], s[i+2], s[i+3]
		b4, b5, b6, b7 := s[i+4], s[i+5], s[i+6], s[i+7]

		if b0 < 0x20 || b1 < 0x20 || b2 < 0x20 || b3 < 0x20 ||
			b4 < 0x20 || b5 < 0x20 || b6 < 0x20 || b7 < 0x20 ||
			b0 == '"' || b1 == '"' || b2 == '"' || b3 == '"' ||
			b4 == '"' || b5 == '"' || b6 == '"' || b7 == '"' ||
			b0 == '\\' || b1 == '\\' || b2 == '\\' || b3 == '\\' ||
			b4 == '\\' || b5 == '\\' || b6 == '\\' || b7 == '\\' {
			return true
		}
	}

	for i := n &^ 7; i < n; i++ {
		if needsEscapeTable[s[i]] {
			return true
		}
	}
	return false
}

// AppendQuoted appends s to dst as a double-quoted JSON string.
// Bytes outside the escape set, including non-ASCII and invalid UTF-8, are copied as-is.
func AppendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	if !NeedsEscape(s) {
		dst = append(dst, s...)
		return append(dst, '"')
	}
	dst = AppendEscaped(dst, s)
	return append(dst, '"')
}

// AppendEscaped appends the escaped body of s without surrounding quotes.
func AppendEscaped(dst []byte, s string) []byte {
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !needsEscapeTable[c] {
			continue
		}
		if start < i {
			dst = append(dst, s[start:i]...)
		}
		if short := shortEscapes[c]; short != 0 {
			dst = append(dst, '\\', short)
		} else {
			dst = append(dst, '\\', 'u', '0', '0', hexChars[c>>4], hexChars[c&0x0f])
		}
		start = i + 1
	}
	if start < len(s) {
		dst = append(dst, s[start:]...)
	}
	return dst
}
