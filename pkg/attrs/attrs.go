// Package attrs reads values back out of slog-style key/value lists.
package attrs

import "log/slog"

// Lookup returns the value paired with key in a [key1, value1, key2, value2, ...]
// list. slog.Attr elements are matched by their key as well.
func Lookup(attrs []any, key string) (any, bool) {
	for i := 0; i < len(attrs); i++ {
		switch k := attrs[i].(type) {
		case slog.Attr:
			if k.Key == key {
				return k.Value.Any(), true
			}
		case string:
			if i+1 >= len(attrs) {
				return nil, false
			}
			if k == key {
				return attrs[i+1], true
			}
			i++
		}
	}
	return nil, false
}

// ExtractString is Lookup for string values. Missing keys and non-string
// values yield "".
func ExtractString(attrs []any, key string) string {
	v, ok := Lookup(attrs, key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
