package window

import (
	"net/url"
	"sort"
	"strings"
)

// Field is one form key and its value.
type Field struct {
	Key   string
	Value string
}

// Fields is an ordered set of form fields.
type Fields []Field

func (f Fields) sort() {
	sort.Slice(f, func(i, j int) bool { return f[i].Key < f[j].Key })
}

// Get returns the value stored under key.
func (f Fields) Get(key string) (string, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return "", false
}

func (f Fields) Keys() []string {
	keys := make([]string, len(f))
	for i, field := range f {
		keys[i] = field.Key
	}
	return keys
}

func (f Fields) Map() map[string]string {
	m := make(map[string]string, len(f))
	for _, field := range f {
		m[field.Key] = field.Value
	}
	return m
}

func (f Fields) Values() url.Values {
	values := make(url.Values, len(f))
	for _, field := range f {
		values.Set(field.Key, field.Value)
	}
	return values
}

// Encode renders the fields as application/x-www-form-urlencoded in their current order.
// Letters, digits and "-_." are kept, space becomes "+" and every other byte is percent-encoded,
// "~" included, so the gateway sees the same bytes it hashes.
func (f Fields) Encode() string {
	var sb strings.Builder
	for i, field := range f {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(formEscape(field.Key))
		sb.WriteByte('=')
		sb.WriteString(formEscape(field.Value))
	}
	return sb.String()
}

func formEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "~", "%7E")
}

// fieldsFromMap keeps the keys that contain "onpay" and sorts them.
func fieldsFromMap(received map[string]string) Fields {
	fields := make(Fields, 0, len(received))
	for key, value := range received {
		if strings.Contains(key, "onpay") {
			fields = append(fields, Field{Key: key, Value: value})
		}
	}
	fields.sort()
	return fields
}
