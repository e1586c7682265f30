package protoparser

import "strings"

// Kind discriminates the variants an option Value can take.
type Kind int

const (
	// StringKind is a scalar: an identifier, a number or boolean kept as
	// its source text, or a decoded string literal.
	StringKind Kind = iota
	// ListKind is an ordered sequence of values.
	ListKind
	// MapKind is an insertion-ordered mapping of names to values, parsed
	// from an aggregate form or produced by merging.
	MapKind
	// OptionKind is a nested option, produced by dotted components after
	// a parenthesized option name, e.g. (validation.range).min = 1.
	OptionKind
)

// OptionElement is a datastructure which models the option construct in
// a protobuf file. Option constructs exist at various levels/contexts
// like file, message, field, enum constant and rpc.
type OptionElement struct {
	Name            string
	Value           Value
	IsParenthesized bool
}

// Equal reports recursive structural equality.
func (o OptionElement) Equal(other OptionElement) bool {
	return o.Name == other.Name &&
		o.IsParenthesized == other.IsParenthesized &&
		o.Value.Equal(other.Value)
}

// Value is the value of an option. It is a closed variant: consult
// Kind() and then one of Scalar, List, Map or Option. Values are
// immutable once the parse returns.
type Value struct {
	kind Kind
	str  string
	list []Value
	m    *OptionMap
	opt  *OptionElement
}

// StringValue returns a scalar value holding the given text.
func StringValue(s string) Value {
	return Value{kind: StringKind, str: s}
}

// ListValue returns a list value over the given elements.
func ListValue(vs ...Value) Value {
	return Value{kind: ListKind, list: vs}
}

// MapValue returns a map value over the given mapping.
func MapValue(m *OptionMap) Value {
	return Value{kind: MapKind, m: m}
}

// OptionValue returns a nested-option value.
func OptionValue(o OptionElement) Value {
	return Value{kind: OptionKind, opt: &o}
}

// Kind returns the variant of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// Scalar returns the text of a StringKind value.
func (v Value) Scalar() string {
	return v.str
}

// List returns the elements of a ListKind value.
func (v Value) List() []Value {
	return v.list
}

// Map returns the mapping of a MapKind value.
func (v Value) Map() *OptionMap {
	return v.m
}

// Option returns the nested option of an OptionKind value.
func (v Value) Option() OptionElement {
	if v.opt == nil {
		return OptionElement{}
	}
	return *v.opt
}

// Equal reports recursive structural equality. Maps compare as logical
// mappings, independent of insertion order.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case StringKind:
		return v.str == other.str
	case ListKind:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case MapKind:
		return v.m.Equal(other.m)
	default:
		return v.Option().Equal(other.Option())
	}
}

// OptionMap is a mapping of option names to values which remembers the
// order in which names first appeared in source.
type OptionMap struct {
	keys []string
	vals map[string]Value
}

// NewOptionMap returns an empty mapping.
func NewOptionMap() *OptionMap {
	return &OptionMap{vals: map[string]Value{}}
}

// Len returns the number of entries.
func (m *OptionMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the names in insertion order.
func (m *OptionMap) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Get returns the value stored under name.
func (m *OptionMap) Get(name string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.vals[name]
	return v, ok
}

// Equal reports whether the two mappings are logically equal, comparing
// entries independent of insertion order.
func (m *OptionMap) Equal(other *OptionMap) bool {
	if m.Len() != other.Len() {
		return false
	}
	if m == nil {
		return true
	}
	for _, k := range m.keys {
		ov, ok := other.Get(k)
		if !ok || !m.vals[k].Equal(ov) {
			return false
		}
	}
	return true
}

// Add merges one named value into the mapping: map-shaped values under
// the same name merge recursively, anything else folds into a list.
func (m *OptionMap) Add(name string, v Value) {
	old, ok := m.vals[name]
	if !ok {
		m.set(name, v)
		return
	}
	if old.kind == MapKind && v.kind == MapKind {
		for _, k := range v.m.keys {
			old.m.Add(k, v.m.vals[k])
		}
		return
	}
	m.fold(name, v)
}

// AddOption merges an option into the mapping view. A parenthesized
// name is one atomic key; a bare dotted name nests by its components;
// nested-option values expand into single-entry maps so that repeated
// roots can merge.
func (m *OptionMap) AddOption(o OptionElement) {
	keys := []string{o.Name}
	if !o.IsParenthesized {
		keys = strings.Split(o.Name, ".")
	}
	v := mapForm(o.Value)
	for i := len(keys) - 1; i >= 1; i-- {
		inner := NewOptionMap()
		inner.set(keys[i], v)
		v = MapValue(inner)
	}
	m.Add(keys[0], v)
}

func (m *OptionMap) set(name string, v Value) {
	if _, ok := m.vals[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.vals[name] = v
}

// fold inserts a key read from an aggregate: a repeated key folds its
// values into a list, scalars and aggregates alike.
func (m *OptionMap) fold(name string, v Value) {
	old, ok := m.vals[name]
	if !ok {
		m.set(name, v)
		return
	}
	if old.kind == ListKind {
		old.list = append(old.list, v)
		m.vals[name] = old
		return
	}
	m.vals[name] = ListValue(old, v)
}

// mapForm rewrites a nested-option chain as a single-entry map.
func mapForm(v Value) Value {
	if v.kind != OptionKind {
		return v
	}
	inner := NewOptionMap()
	inner.AddOption(v.Option())
	return MapValue(inner)
}

func buildOptionMap(opts []OptionElement) *OptionMap {
	m := NewOptionMap()
	for _, o := range opts {
		m.AddOption(o)
	}
	return m
}
