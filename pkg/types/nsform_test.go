package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathForName(t *testing.T) {
	assert.Equal(t, "my_lib/core.clj", PathForName("my-lib.core", ""))
	assert.Equal(t, "my_lib/core.cljc", PathForName("my-lib.core", "cljc"))
	assert.Equal(t, "single.clj", PathForName("single", ""))
	assert.Equal(t, "a/b/c_d.clj", PathForName("a.b.c-d", ""))
}

func TestPathForName_RoundTrip(t *testing.T) {
	names := []string{"a.b", "my-lib.core", "x.y-z.w", "abc123.def-4"}
	for _, name := range names {
		path := PathForName(name, "")
		base := strings.TrimSuffix(path, ".clj")
		back := strings.ReplaceAll(strings.ReplaceAll(base, "_", "-"), "/", ".")
		assert.Equal(t, name, back, "round trip for %s", name)
	}
}

func TestDoc_StringAfterName(t *testing.T) {
	form := &NSForm{Kind: DeclNS, Name: "a.b", Rest: []Value{Str("Doc.")}}
	doc, ok := form.Doc()
	require.True(t, ok)
	assert.Equal(t, "Doc.", doc)
}

func TestDoc_MetadataMap(t *testing.T) {
	meta := Value{Kind: KindMap, Children: []Value{Keyword(":doc"), Str("From meta.")}}
	form := &NSForm{Kind: DeclNS, Name: "a.b", NameMeta: []Value{meta}}

	doc, ok := form.Doc()
	require.True(t, ok)
	assert.Equal(t, "From meta.", doc)
}

func TestDoc_AttrMap(t *testing.T) {
	attrs := Value{Kind: KindMap, Children: []Value{
		Keyword(":author"), Str("somebody"),
		Keyword(":doc"), Str("From attrs."),
	}}
	form := &NSForm{Kind: DeclNS, Name: "a.b", Rest: []Value{attrs}}

	doc, ok := form.Doc()
	require.True(t, ok)
	assert.Equal(t, "From attrs.", doc)
}

func TestDoc_Absent(t *testing.T) {
	form := &NSForm{Kind: DeclNS, Name: "a.b", Rest: []Value{
		List(Keyword(":require"), Symbol("clojure.set")),
	}}
	_, ok := form.Doc()
	assert.False(t, ok)
}

func TestDoc_StringMetaIsTagNotDoc(t *testing.T) {
	form := &NSForm{Kind: DeclNS, Name: "a.b", NameMeta: []Value{Str("a tag")}}
	_, ok := form.Doc()
	assert.False(t, ok)
}

func TestNSForm_Form(t *testing.T) {
	form := &NSForm{Kind: DeclInNS, Name: "a.c"}
	assert.Equal(t, "(in-ns a.c)", form.Form().String())

	withRest := &NSForm{Kind: DeclNS, Name: "a.b", Rest: []Value{Str("Doc.")}}
	assert.Equal(t, `(ns a.b "Doc.")`, withRest.Form().String())
}

func TestValue_String(t *testing.T) {
	v := List(Symbol("ns"), Symbol("a.b"),
		Value{Kind: KindVector, Children: []Value{Keyword(":k"), Value{Kind: KindNumber, Text: "1"}}})
	assert.Equal(t, "(ns a.b [:k 1])", v.String())

	set := Value{Kind: KindSet, Children: []Value{Symbol("x")}}
	assert.Equal(t, "#{x}", set.String())

	re := Value{Kind: KindRegex, Text: "a+"}
	assert.Equal(t, `#"a+"`, re.String())
}

func TestValue_HeadSymbol(t *testing.T) {
	assert.Equal(t, "ns", List(Symbol("ns"), Symbol("x")).HeadSymbol())
	assert.Equal(t, "", List(Str("ns")).HeadSymbol())
	assert.Equal(t, "", Symbol("ns").HeadSymbol())
	assert.Equal(t, "", List().HeadSymbol())
}
