// Package record parses loosely structured "Key: Value" headers out of free
// text, preserving document order.
package record

import "strings"

// sentinel marks the start of the report body; header extraction stops there.
const sentinel = "chief complaint:"

// Field is one extracted name/value pair, used for the JSON envelope form.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Record is an ordered field-name to value mapping. Insertion order follows
// document order; a duplicate key updates the value in place.
type Record struct {
	order  []string
	values map[string]string
}

// Extract scans text line by line. A line whose trimmed, case-folded content
// equals the sentinel stops processing immediately and is not itself
// recorded. Otherwise a line containing a colon is split on the first colon,
// both sides trimmed, and inserted (last write wins). Lines without a colon
// are ignored. Never fails.
func Extract(text string) *Record {
	rec := &Record{values: map[string]string{}}
	for _, line := range strings.Split(text, "\n") {
		if strings.ToLower(strings.TrimSpace(line)) == sentinel {
			break
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		rec.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	return rec
}

func (r *Record) Set(name, value string) {
	if _, exists := r.values[name]; !exists {
		r.order = append(r.order, name)
	}
	r.values[name] = value
}

func (r *Record) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// GetOr returns the field value, or fallback if the field is absent.
func (r *Record) GetOr(name, fallback string) string {
	if v, ok := r.values[name]; ok {
		return v
	}
	return fallback
}

func (r *Record) Len() int { return len(r.order) }

// Fields returns the record in document order.
func (r *Record) Fields() []Field {
	out := make([]Field, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, Field{Name: name, Value: r.values[name]})
	}
	return out
}

// FromFields rebuilds a Record from its envelope form.
func FromFields(fields []Field) *Record {
	rec := &Record{values: make(map[string]string, len(fields))}
	for _, f := range fields {
		rec.Set(f.Name, f.Value)
	}
	return rec
}
