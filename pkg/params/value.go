package params

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds
type Kind int

const (
	KindScalar Kind = iota
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is a loosely typed option value: a scalar (string, bool, int64 or
// float64), a sequence of values, or a string-keyed mapping of values.
type Value struct {
	kind    Kind
	scalar  interface{}
	items   []Value
	keys    []string
	entries map[string]Value
}

// Definition is the raw option set of a single job
type Definition map[string]Value

// String returns a string scalar
func String(s string) Value { return Value{kind: KindScalar, scalar: s} }

// Bool returns a boolean scalar
func Bool(b bool) Value { return Value{kind: KindScalar, scalar: b} }

// Int returns an integer scalar
func Int(i int64) Value { return Value{kind: KindScalar, scalar: i} }

// Float returns a float scalar
func Float(f float64) Value { return Value{kind: KindScalar, scalar: f} }

// Sequence returns a sequence of values
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, items: append([]Value(nil), items...)}
}

// Strings returns a sequence of string scalars
func Strings(items ...string) Value {
	v := Value{kind: KindSequence, items: make([]Value, 0, len(items))}
	for _, s := range items {
		v.items = append(v.items, String(s))
	}
	return v
}

// Mapping returns a mapping; keys keep the given order
func Mapping(keys []string, entries map[string]Value) Value {
	v := Value{kind: KindMapping, entries: make(map[string]Value, len(entries))}
	for _, k := range keys {
		e, ok := entries[k]
		if !ok {
			continue
		}
		if _, seen := v.entries[k]; seen {
			continue
		}
		v.keys = append(v.keys, k)
		v.entries[k] = e
	}
	return v
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsScalar() bool   { return v.kind == KindScalar }
func (v Value) IsSequence() bool { return v.kind == KindSequence }
func (v Value) IsMapping() bool  { return v.kind == KindMapping }

// Scalar returns the raw scalar (string, bool, int64 or float64)
func (v Value) Scalar() (interface{}, bool) {
	if v.kind != KindScalar {
		return nil, false
	}
	return v.scalar, true
}

// AsString returns the scalar if it is a string
func (v Value) AsString() (string, bool) {
	s, ok := v.scalar.(string)
	return s, ok && v.kind == KindScalar
}

// Items returns the elements of a sequence
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}
	return append([]Value(nil), v.items...)
}

// Keys returns the mapping keys in insertion order
func (v Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}
	return append([]string(nil), v.keys...)
}

// Get returns a mapping entry
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	e, ok := v.entries[key]
	return e, ok
}

// Len returns the number of sequence items or mapping entries, 1 for scalars
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.items)
	case KindMapping:
		return len(v.keys)
	default:
		return 1
	}
}

// Inspect renders the value for error messages: strings are double quoted,
// other scalars are written bare.
func (v Value) Inspect() string {
	switch v.kind {
	case KindSequence:
		parts := make([]string, 0, len(v.items))
		for _, item := range v.items {
			parts = append(parts, item.Inspect())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMapping:
		parts := make([]string, 0, len(v.keys))
		for _, k := range v.keys {
			parts = append(parts, strconv.Quote(k)+"=>"+v.entries[k].Inspect())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}

	switch s := v.scalar.(type) {
	case string:
		return strconv.Quote(s)
	default:
		return v.Text()
	}
}

// Text renders a scalar without quoting
func (v Value) Text() string {
	switch s := v.scalar.(type) {
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case nil:
		if v.kind != KindScalar {
			return v.Inspect()
		}
		return ""
	default:
		return fmt.Sprint(s)
	}
}

// FromAny converts plain Go values (as produced by encoding/json or yaml
// decoders into interface{}) into a Value. nil yields ok=false.
func FromAny(x interface{}) (Value, bool, error) {
	switch t := x.(type) {
	case nil:
		return Value{}, false, nil
	case Value:
		return t, true, nil
	case string:
		return String(t), true, nil
	case bool:
		return Bool(t), true, nil
	case int:
		return Int(int64(t)), true, nil
	case int32:
		return Int(int64(t)), true, nil
	case int64:
		return Int(t), true, nil
	case uint:
		return Int(int64(t)), true, nil
	case uint64:
		return Int(int64(t)), true, nil
	case float32:
		return Float(float64(t)), true, nil
	case float64:
		return Float(t), true, nil
	case []string:
		return Strings(t...), true, nil
	case []interface{}:
		items := make([]Value, 0, len(t))
		for i, e := range t {
			item, ok, err := FromAny(e)
			if err != nil {
				return Value{}, false, fmt.Errorf("item %d: %w", i, err)
			}
			if !ok {
				continue
			}
			items = append(items, item)
		}
		return Value{kind: KindSequence, items: items}, true, nil
	case map[string]string:
		m := make(map[string]interface{}, len(t))
		for k, e := range t {
			m[k] = e
		}
		return FromAny(m)
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		// plain Go maps carry no order
		sort.Strings(keys)
		entries := make(map[string]Value, len(t))
		for _, k := range keys {
			e, ok, err := FromAny(t[k])
			if err != nil {
				return Value{}, false, fmt.Errorf("key %s: %w", k, err)
			}
			if ok {
				entries[k] = e
			}
		}
		return Mapping(keys, entries), true, nil
	default:
		return Value{}, false, fmt.Errorf("unsupported value type %T", x)
	}
}

// NewDefinition builds a Definition from plain Go values, dropping nil entries
func NewDefinition(raw map[string]interface{}) (Definition, error) {
	def := make(Definition, len(raw))
	for k, x := range raw {
		v, ok, err := FromAny(x)
		if err != nil {
			return nil, fmt.Errorf("option %s: %w", k, err)
		}
		if ok {
			def[k] = v
		}
	}
	return def, nil
}

// Lookup returns an option if it was supplied
func (d Definition) Lookup(name string) (Value, bool) {
	v, ok := d[name]
	return v, ok
}

// Has reports whether an option was supplied
func (d Definition) Has(name string) bool {
	_, ok := d[name]
	return ok
}
