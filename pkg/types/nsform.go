package types

import "strings"

// DeclKind distinguishes the two recognized namespace declaration heads.
type DeclKind string

const (
	// DeclNS is a full namespace declaration: (ns the.name ...).
	DeclNS DeclKind = "ns"
	// DeclInNS is a namespace switch: (in-ns 'the.name).
	DeclInNS DeclKind = "in-ns"
)

// NSForm is the canonical shape of a namespace-declaring top-level form.
// Quoted in-ns arguments are unwrapped before an NSForm is built, so Name is
// always the bare symbol text regardless of the source spelling.
type NSForm struct {
	Kind     DeclKind
	Name     string  // namespace symbol text, never empty on a returned form
	NameMeta []Value // metadata attached to the name symbol
	Rest     []Value // forms following the name, in source order
	Path     string  // file path or "archive!entry" the form was read from
}

// Form reconstructs the normalized (keyword symbol rest...) list.
func (f *NSForm) Form() Value {
	children := make([]Value, 0, 2+len(f.Rest))
	children = append(children, Symbol(string(f.Kind)))
	name := Symbol(f.Name)
	name.Meta = f.NameMeta
	children = append(children, name)
	children = append(children, f.Rest...)
	return Value{Kind: KindList, Children: children}
}

// Doc locates the documentation string of a namespace declaration without
// evaluating anything. It performs the same normalization the ns macro does
// at read level: shorthand metadata on the name symbol, a string literal
// immediately after the name, or a :doc entry in a leading attribute map.
// The second return is false when no doc string is present.
func (f *NSForm) Doc() (string, bool) {
	for _, m := range f.NameMeta {
		if doc, ok := docFromMeta(m); ok {
			return doc, true
		}
	}
	rest := f.Rest
	if len(rest) > 0 && rest[0].Kind == KindString {
		return rest[0].Text, true
	}
	if len(rest) > 0 && rest[0].Kind == KindMap {
		if doc, ok := docFromAttrMap(rest[0]); ok {
			return doc, true
		}
	}
	return "", false
}

// docFromMeta interprets one ^meta form attached to the name symbol.
func docFromMeta(m Value) (string, bool) {
	switch m.Kind {
	case KindString:
		// ^"..." attaches :tag, not :doc
		return "", false
	case KindMap:
		return docFromAttrMap(m)
	default:
		return "", false
	}
}

// docFromAttrMap finds a :doc key with a string value in a map form.
func docFromAttrMap(m Value) (string, bool) {
	for i := 0; i+1 < len(m.Children); i += 2 {
		if m.Children[i].Kind == KindKeyword && m.Children[i].Text == ":doc" &&
			m.Children[i+1].Kind == KindString {
			return m.Children[i+1].Text, true
		}
	}
	return "", false
}

// PathForName converts a namespace name to the relative source path where a
// loader would expect it: dashes become underscores, dots become slashes,
// and the extension (default "clj") is appended.
func PathForName(name, ext string) string {
	if ext == "" {
		ext = "clj"
	}
	path := strings.ReplaceAll(name, "-", "_")
	path = strings.ReplaceAll(path, ".", "/")
	return path + "." + ext
}
