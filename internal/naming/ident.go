package naming

import (
	"go/token"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Exported upper-cases the first rune of name.
func Exported(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// Unexported lower-cases the leading upper-case run of name, keeping the last
// capital when it starts the next word: URLPath -> urlPath, ID -> id.
func Unexported(name string) string {
	runes := []rune(name)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return name
	case n == 1 || n == len(runes):
	default:
		if unicode.IsLower(runes[n]) {
			n--
		}
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// WithVisibility adjusts the first rune of name so the identifier is
// exported exactly when exported is true.
func WithVisibility(name string, exported bool) string {
	if exported {
		return Exported(name)
	}
	return Unexported(name)
}

// Taken is a set of identifiers already in use.
type Taken map[string]struct{}

// Has reports whether name is in use.
func (t Taken) Has(name string) bool {
	_, ok := t[name]
	return ok
}

// Add records name as used.
func (t Taken) Add(name string) {
	t[name] = struct{}{}
}

// Free returns want, or want followed by the smallest number >= 2 that is
// not taken. Keywords are never returned.
func (t Taken) Free(want string) string {
	if !t.Has(want) && !token.IsKeyword(want) {
		return want
	}
	for i := 2; ; i++ {
		candidate := want + strconv.Itoa(i)
		if !t.Has(candidate) {
			return candidate
		}
	}
}
