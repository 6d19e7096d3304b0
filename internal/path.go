package internal

import "strconv"

// PathElem is one step of a key path.
type PathElem struct {
	Key   string
	Index int
	IsIdx bool
}

// FormatPath renders elems as a JSONPath-like string, e.g. $.user.tags[2].
func FormatPath(elems []PathElem) string {
	b := make([]byte, 0, 32)
	b = append(b, '$')
	for _, e := range elems {
		switch {
		case e.IsIdx:
			b = append(b, '[')
			b = strconv.AppendInt(b, int64(e.Index), 10)
			b = append(b, ']')
		case isIdentifier(e.Key):
			b = append(b, '.')
			b = append(b, e.Key...)
		default:
			b = append(b, '[')
			b = AppendQuoted(b, e.Key)
			b = append(b, ']')
		}
	}
	return string(b)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || c == '$':
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
