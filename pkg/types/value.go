package types

import (
	"strconv"
	"strings"
)

// ValueKind identifies the syntactic shape of a parsed datum.
type ValueKind string

const (
	KindSymbol  ValueKind = "symbol"
	KindKeyword ValueKind = "keyword"
	KindNumber  ValueKind = "number"
	KindString  ValueKind = "string"
	KindChar    ValueKind = "char"
	KindRegex   ValueKind = "regex"
	KindList    ValueKind = "list"
	KindVector  ValueKind = "vector"
	KindMap     ValueKind = "map"
	KindSet     ValueKind = "set"
	KindTagged  ValueKind = "tagged"
)

// Value is a structurally parsed Clojure datum. It carries no evaluation
// semantics: atoms keep their source text (strings are decoded), collections
// keep their children in source order, and map children alternate key/value.
type Value struct {
	Kind     ValueKind
	Text     string  // atom payload: symbol/keyword/number/char source text, decoded string value
	Children []Value // collection members; for KindTagged, [tag, form]
	Meta     []Value // metadata forms attached via ^, outermost first
}

// Symbol constructs a symbol atom.
func Symbol(name string) Value {
	return Value{Kind: KindSymbol, Text: name}
}

// Keyword constructs a keyword atom. The text includes the leading colon(s).
func Keyword(text string) Value {
	return Value{Kind: KindKeyword, Text: text}
}

// Str constructs a string atom from an already-decoded value.
func Str(s string) Value {
	return Value{Kind: KindString, Text: s}
}

// List constructs a list from its members.
func List(children ...Value) Value {
	return Value{Kind: KindList, Children: children}
}

// IsSymbol reports whether v is a symbol with the given name.
func (v Value) IsSymbol(name string) bool {
	return v.Kind == KindSymbol && v.Text == name
}

// HeadSymbol returns the name of the leading symbol of a list, or "" if v is
// not a list or its first member is not a symbol.
func (v Value) HeadSymbol() string {
	if v.Kind != KindList || len(v.Children) == 0 {
		return ""
	}
	head := v.Children[0]
	if head.Kind != KindSymbol {
		return ""
	}
	return head.Text
}

// String renders the value in EDN-like notation. Metadata is not rendered;
// the output is for diagnostics and CLI display, not round-tripping.
func (v Value) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v Value) write(b *strings.Builder) {
	switch v.Kind {
	case KindString:
		b.WriteString(strconv.Quote(v.Text))
	case KindRegex:
		b.WriteString(`#"`)
		b.WriteString(v.Text)
		b.WriteString(`"`)
	case KindList:
		v.writeSeq(b, "(", ")")
	case KindVector:
		v.writeSeq(b, "[", "]")
	case KindMap:
		v.writeSeq(b, "{", "}")
	case KindSet:
		v.writeSeq(b, "#{", "}")
	case KindTagged:
		b.WriteString("#")
		for i, c := range v.Children {
			if i > 0 {
				b.WriteString(" ")
			}
			c.write(b)
		}
	default:
		b.WriteString(v.Text)
	}
}

func (v Value) writeSeq(b *strings.Builder, open, close string) {
	b.WriteString(open)
	for i, c := range v.Children {
		if i > 0 {
			b.WriteString(" ")
		}
		c.write(b)
	}
	b.WriteString(close)
}
