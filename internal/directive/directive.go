// Package directive implements the field directive mini-language: a tag group
// such as `builder:"each=AddTag"` is split into key/value pairs, every key is
// looked up in a fixed table, and every value goes through the parser that key
// declares.
package directive

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"

	"github.com/goliatone/go-buildergen/pkg/schema"
)

// DefaultTag is the struct tag key that holds the directive group.
const DefaultTag = "builder"

// KeyEach names the accumulator method of a repeated field.
const KeyEach = "each"

// Lookup extracts the directive group stored under tagKey from an unquoted
// struct tag. It follows the conventional key:"value" grammar that
// reflect.StructTag uses, but where reflect silently gives up on a broken tag
// Lookup returns an *Error when the broken part mentions tagKey.
func Lookup(tag, tagKey string) (string, bool, error) {
	if tagKey == "" {
		tagKey = DefaultTag
	}
	rest := tag
	for {
		rest = strings.TrimLeft(rest, " ")
		if rest == "" {
			return "", false, nil
		}
		pair := rest

		i := 0
		for i < len(rest) && rest[i] > ' ' && rest[i] != ':' && rest[i] != '"' && rest[i] != 0x7f {
			i++
		}
		if i == 0 || i+1 >= len(rest) || rest[i] != ':' || rest[i+1] != '"' {
			return malformed(pair, tagKey, `expected key:"value"`)
		}
		key := rest[:i]
		rest = rest[i+1:]

		i = 1
		for i < len(rest) && rest[i] != '"' {
			if rest[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(rest) {
			return malformed(pair, tagKey, "unterminated quoted value")
		}
		quoted := rest[:i+1]
		rest = rest[i+1:]

		if key != tagKey {
			continue
		}
		group, err := strconv.Unquote(quoted)
		if err != nil {
			return malformed(pair, tagKey, "invalid quoted value")
		}
		return group, true, nil
	}
}

func malformed(pair, tagKey, reason string) (string, bool, error) {
	if !strings.Contains(pair, tagKey) {
		return "", false, nil
	}
	return "", false, &Error{Reason: fmt.Sprintf("malformed %s tag %s: %s", tagKey, strconv.Quote(pair), reason)}
}

// Split breaks a directive group into its pairs in written order. Items are
// separated by commas; empty items are ignored.
func Split(group string) []schema.Directive {
	var out []schema.Directive
	for _, item := range strings.Split(group, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key, value, found := strings.Cut(item, "=")
		out = append(out, schema.Directive{
			Key:      strings.TrimSpace(key),
			Value:    strings.TrimSpace(value),
			HasValue: found,
		})
	}
	return out
}

// Set is the interpreted form of a field's directives.
type Set struct {
	// Each is the accumulator method name; empty when absent.
	Each string
}

// Error describes one rejected directive.
type Error struct {
	Key    string
	Reason string
}

func (e *Error) Error() string {
	if e.Key == "" {
		return e.Reason
	}
	return fmt.Sprintf("directive %q: %s", e.Key, e.Reason)
}

type valueParser func(value string) (string, error)

type keySpec struct {
	parse valueParser
	apply func(set *Set, value string)
	isSet func(set Set) bool
}

var keys = map[string]keySpec{
	KeyEach: {
		parse: parseIdentifier,
		apply: func(set *Set, value string) { set.Each = value },
		isSet: func(set Set) bool { return set.Each != "" },
	},
}

// Known reports whether key is part of the directive table.
func Known(key string) bool {
	_, ok := keys[key]
	return ok
}

// Interpret evaluates directives in order. Every directive is checked; when
// several are malformed the last one observed is reported. Any failure
// rejects the whole set.
func Interpret(directives []schema.Directive) (Set, error) {
	var (
		set  Set
		last error
	)
	for _, d := range directives {
		spec, ok := keys[d.Key]
		if !ok {
			last = &Error{Key: d.Key, Reason: fmt.Sprintf("unrecognized key (supported: %s)", KeyEach)}
			continue
		}
		if !d.HasValue {
			last = &Error{Key: d.Key, Reason: "missing value, expected " + d.Key + "=Name"}
			continue
		}
		value, err := spec.parse(d.Value)
		if err != nil {
			last = &Error{Key: d.Key, Reason: err.Error()}
			continue
		}
		if spec.isSet(set) {
			last = &Error{Key: d.Key, Reason: "declared more than once"}
			continue
		}
		spec.apply(&set, value)
	}
	if last != nil {
		return Set{}, last
	}
	return set, nil
}

func parseIdentifier(value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("empty value, expected an identifier")
	}
	if value == "_" {
		return "", fmt.Errorf("blank identifier %q cannot name a method", value)
	}
	if token.IsKeyword(value) {
		return "", fmt.Errorf("%q is a Go keyword", value)
	}
	if !token.IsIdentifier(value) {
		return "", fmt.Errorf("%q is not a valid identifier", value)
	}
	return value, nil
}
