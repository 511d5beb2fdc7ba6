// Package yamlvalue implements the tagged-union Value type that backs
// Document metadata: a YAML scalar or composite, with ordering and
// containment. Grounded on gopkg.in/yaml.v3's yaml.Node (the pack's
// default YAML library, corroborated by upbound-up and
// awsqed-config-formatter), walked the same way
// awsqed-config-formatter walks yaml.Node.Kind/Tag to classify scalars.
package yamlvalue

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Kind discriminates the tagged union.
type Kind int

const (
	Null Kind = iota
	Boolean
	Integer
	Real
	String
	Array
	Mapping
	Alias
	Bad
)

// Value is a YAML scalar or composite, classified per Kind.
type Value struct {
	Kind    Kind
	Bool    bool
	Int     int64
	Float   float64
	Str     string
	Items   []Value
	Entries []Entry
	Alias   *Value
}

// Entry is one key/value pair of a Mapping, keyed by string - per the
// data model, a non-string YAML key fails that entry, not the document.
type Entry struct {
	Key   string
	Value Value
}

const errUnknownNodeKind = "unrecognised YAML node kind"

// FromNode converts a decoded yaml.Node into a Value.
func FromNode(n *yaml.Node) (Value, error) {
	if n == nil {
		return Value{Kind: Null}, nil
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Value{Kind: Null}, nil
		}
		return FromNode(n.Content[0])
	case yaml.ScalarNode:
		return scalarFromNode(n), nil
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := FromNode(c)
			if err != nil {
				items = append(items, Value{Kind: Bad, Str: err.Error()})
				continue
			}
			items = append(items, v)
		}
		return Value{Kind: Array, Items: items}, nil
	case yaml.MappingNode:
		entries := make([]Entry, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode || keyNode.Tag == "!!null" {
				continue
			}
			if keyNode.Tag != "" && keyNode.Tag != "!!str" && !looksLikePlainString(keyNode) {
				continue
			}
			v, err := FromNode(valNode)
			if err != nil {
				v = Value{Kind: Bad, Str: err.Error()}
			}
			entries = append(entries, Entry{Key: keyNode.Value, Value: v})
		}
		return Value{Kind: Mapping, Entries: entries}, nil
	case yaml.AliasNode:
		inner, err := FromNode(n.Alias)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: Alias, Alias: &inner}, nil
	default:
		return Value{Kind: Bad, Str: "unrecognised node kind"}, errors.New(errUnknownNodeKind)
	}
}

// looksLikePlainString reports whether a scalar node should be treated
// as a string key even without an explicit !!str tag (the common case
// for unquoted mapping keys).
func looksLikePlainString(n *yaml.Node) bool {
	return n.Style == 0 || n.Style == yaml.DoubleQuotedStyle || n.Style == yaml.SingleQuotedStyle
}

func scalarFromNode(n *yaml.Node) Value {
	switch n.Tag {
	case "!!null":
		return Value{Kind: Null}
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return Value{Kind: Bad, Str: n.Value}
		}
		return Value{Kind: Boolean, Bool: b}
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return Value{Kind: Bad, Str: n.Value}
		}
		return Value{Kind: Integer, Int: i}
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return Value{Kind: Bad, Str: n.Value}
		}
		return Value{Kind: Real, Float: f}
	default:
		return Value{Kind: String, Str: n.Value}
	}
}

// Display renders v as a human-readable string, used for title fallback
// and CLI formatting.
func (v Value) Display() string {
	switch v.Kind {
	case Null:
		return ""
	case Boolean:
		return strconv.FormatBool(v.Bool)
	case Integer:
		return strconv.FormatInt(v.Int, 10)
	case Real:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case String:
		return v.Str
	case Array:
		parts := make([]string, len(v.Items))
		for i, it := range v.Items {
			parts[i] = it.Display()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Mapping:
		parts := make([]string, len(v.Entries))
		for i, e := range v.Entries {
			parts[i] = e.Key + ": " + e.Value.Display()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case Alias:
		if v.Alias != nil {
			return v.Alias.Display()
		}
		return ""
	default:
		return "<bad: " + v.Str + ">"
	}
}

// Contains answers whether needle matches v or any element/value nested
// within it, per §4.8's Query.Contains semantics: string equality at
// leaves; any element for arrays/mappings; numbers/booleans match by
// parsing the needle.
func (v Value) Contains(needle string) bool {
	switch v.Kind {
	case String:
		return v.Str == needle
	case Boolean:
		b, err := strconv.ParseBool(needle)
		return err == nil && b == v.Bool
	case Integer:
		i, err := strconv.ParseInt(needle, 0, 64)
		return err == nil && i == v.Int
	case Real:
		f, err := strconv.ParseFloat(needle, 64)
		return err == nil && f == v.Float
	case Array:
		for _, it := range v.Items {
			if it.Contains(needle) {
				return true
			}
		}
		return false
	case Mapping:
		for _, e := range v.Entries {
			if e.Value.Contains(needle) {
				return true
			}
		}
		return false
	case Alias:
		return v.Alias != nil && v.Alias.Contains(needle)
	default:
		return false
	}
}

// Compare orders two Values. Values of different Kind order by Kind; same-Kind scalars compare
// naturally; composites compare by length then element-wise.
func Compare(a, b Value) int {
	if a.Kind != b.Kind {
		return int(a.Kind) - int(b.Kind)
	}
	switch a.Kind {
	case Boolean:
		return boolCompare(a.Bool, b.Bool)
	case Integer:
		switch {
		case a.Int < b.Int:
			return -1
		case a.Int > b.Int:
			return 1
		default:
			return 0
		}
	case Real:
		switch {
		case a.Float < b.Float:
			return -1
		case a.Float > b.Float:
			return 1
		default:
			return 0
		}
	case String:
		return strings.Compare(a.Str, b.Str)
	case Array:
		return compareSlices(a.Items, b.Items)
	case Mapping:
		return compareEntries(a.Entries, b.Entries)
	default:
		return 0
	}
}

func boolCompare(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}
	return 1
}

func compareSlices(a, b []Value) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

func compareEntries(a, b []Entry) int {
	sa := append([]Entry(nil), a...)
	sb := append([]Entry(nil), b...)
	sort.Slice(sa, func(i, j int) bool { return sa[i].Key < sa[j].Key })
	sort.Slice(sb, func(i, j int) bool { return sb[i].Key < sb[j].Key })
	for i := 0; i < len(sa) && i < len(sb); i++ {
		if sa[i].Key != sb[i].Key {
			return strings.Compare(sa[i].Key, sb[i].Key)
		}
		if c := Compare(sa[i].Value, sb[i].Value); c != 0 {
			return c
		}
	}
	return len(sa) - len(sb)
}
