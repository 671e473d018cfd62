package reader

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cljtools/nsscan/pkg/types"
)

// readAll drains the reader, failing the test on any parse error.
func readAll(t *testing.T, src string) []types.Value {
	t.Helper()
	rd := New(strings.NewReader(src), Mode{})
	var forms []types.Value
	for {
		v, err := rd.Next()
		if err == io.EOF {
			return forms
		}
		require.NoError(t, err)
		forms = append(forms, v)
	}
}

func TestNext_Atoms(t *testing.T) {
	forms := readAll(t, `foo :kw 42 -7 "hello" \newline my.ns/sym`)
	require.Len(t, forms, 7)

	assert.Equal(t, types.KindSymbol, forms[0].Kind)
	assert.Equal(t, "foo", forms[0].Text)
	assert.Equal(t, types.KindKeyword, forms[1].Kind)
	assert.Equal(t, ":kw", forms[1].Text)
	assert.Equal(t, types.KindNumber, forms[2].Kind)
	assert.Equal(t, "42", forms[2].Text)
	assert.Equal(t, types.KindNumber, forms[3].Kind)
	assert.Equal(t, types.KindString, forms[4].Kind)
	assert.Equal(t, "hello", forms[4].Text)
	assert.Equal(t, types.KindChar, forms[5].Kind)
	assert.Equal(t, `\newline`, forms[5].Text)
	assert.Equal(t, "my.ns/sym", forms[6].Text)
}

func TestNext_Collections(t *testing.T) {
	forms := readAll(t, `(a b) [1 2 3] {:k "v"} #{x y}`)
	require.Len(t, forms, 4)

	assert.Equal(t, types.KindList, forms[0].Kind)
	assert.Len(t, forms[0].Children, 2)
	assert.Equal(t, types.KindVector, forms[1].Kind)
	assert.Len(t, forms[1].Children, 3)
	assert.Equal(t, types.KindMap, forms[2].Kind)
	assert.Len(t, forms[2].Children, 2)
	assert.Equal(t, types.KindSet, forms[3].Kind)
	assert.Len(t, forms[3].Children, 2)
}

func TestNext_NestedForms(t *testing.T) {
	forms := readAll(t, `(ns a.b (:require [clojure.string :as str]))`)
	require.Len(t, forms, 1)
	require.Len(t, forms[0].Children, 3)

	req := forms[0].Children[2]
	assert.Equal(t, types.KindList, req.Kind)
	assert.Equal(t, ":require", req.Children[0].Text)
	assert.Equal(t, types.KindVector, req.Children[1].Kind)
}

func TestNext_CommentsAndDiscard(t *testing.T) {
	src := `
; leading comment
#!/usr/bin/env clojure
#_(ignored form) #_ignored-atom
foo ; trailing comment
,,, bar
`
	forms := readAll(t, src)
	require.Len(t, forms, 2)
	assert.Equal(t, "foo", forms[0].Text)
	assert.Equal(t, "bar", forms[1].Text)
}

func TestNext_CommentBeforeClose(t *testing.T) {
	forms := readAll(t, "(foo ; trailing\n)")
	require.Len(t, forms, 1)
	require.Len(t, forms[0].Children, 1)
	assert.Equal(t, "foo", forms[0].Children[0].Text)
}

func TestNext_QuoteFamily(t *testing.T) {
	forms := readAll(t, "'x #'v @r `tpl ~u ~@us")
	require.Len(t, forms, 6)

	assert.Equal(t, "quote", forms[0].HeadSymbol())
	assert.Equal(t, "x", forms[0].Children[1].Text)
	assert.Equal(t, "var", forms[1].HeadSymbol())
	assert.Equal(t, "deref", forms[2].HeadSymbol())
	assert.Equal(t, "syntax-quote", forms[3].HeadSymbol())
	assert.Equal(t, "unquote", forms[4].HeadSymbol())
	assert.Equal(t, "unquote-splicing", forms[5].HeadSymbol())
}

func TestNext_Metadata(t *testing.T) {
	forms := readAll(t, `(ns ^{:doc "Docs."} my.ns)`)
	require.Len(t, forms, 1)

	name := forms[0].Children[1]
	assert.Equal(t, "my.ns", name.Text)
	require.Len(t, name.Meta, 1)
	assert.Equal(t, types.KindMap, name.Meta[0].Kind)
}

func TestNext_StackedMetadata(t *testing.T) {
	forms := readAll(t, `^:private ^{:doc "D"} sym`)
	require.Len(t, forms, 1)
	require.Len(t, forms[0].Meta, 2)
	assert.Equal(t, ":private", forms[0].Meta[0].Text)
	assert.Equal(t, types.KindMap, forms[0].Meta[1].Kind)
}

func TestNext_StringEscapes(t *testing.T) {
	forms := readAll(t, `"a\nb" "tab\there" "q\"q" "uA" "\\"`)
	require.Len(t, forms, 5)
	assert.Equal(t, "a\nb", forms[0].Text)
	assert.Equal(t, "tab\there", forms[1].Text)
	assert.Equal(t, `q"q`, forms[2].Text)
	assert.Equal(t, "uA", forms[3].Text)
	assert.Equal(t, `\`, forms[4].Text)
}

func TestNext_RegexAndTagged(t *testing.T) {
	forms := readAll(t, `#"a\"b+" #inst "2020-01-01" ##Inf`)
	require.Len(t, forms, 3)

	assert.Equal(t, types.KindRegex, forms[0].Kind)
	assert.Equal(t, `a\"b+`, forms[0].Text)
	assert.Equal(t, types.KindTagged, forms[1].Kind)
	assert.Equal(t, "inst", forms[1].Children[0].Text)
	assert.Equal(t, types.KindNumber, forms[2].Kind)
}

func TestNext_NamespacedMap(t *testing.T) {
	forms := readAll(t, `#:person{:name "n"} #::{:x 1}`)
	require.Len(t, forms, 2)
	assert.Equal(t, types.KindMap, forms[0].Kind)
	assert.Equal(t, types.KindMap, forms[1].Kind)
}

func TestNext_ReaderConditional(t *testing.T) {
	t.Run("selects clj branch", func(t *testing.T) {
		forms := readAll(t, `#?(:clj 1 :cljs 2)`)
		require.Len(t, forms, 1)
		assert.Equal(t, "1", forms[0].Text)
	})

	t.Run("falls back to default", func(t *testing.T) {
		forms := readAll(t, `#?(:cljs 2 :default 3)`)
		require.Len(t, forms, 1)
		assert.Equal(t, "3", forms[0].Text)
	})

	t.Run("no matching branch reads as nothing", func(t *testing.T) {
		forms := readAll(t, `#?(:cljs 2) after`)
		require.Len(t, forms, 1)
		assert.Equal(t, "after", forms[0].Text)
	})

	t.Run("splices into collection", func(t *testing.T) {
		forms := readAll(t, `[1 #?@(:clj [2 3]) 4]`)
		require.Len(t, forms, 1)
		require.Len(t, forms[0].Children, 4)
		assert.Equal(t, "3", forms[0].Children[2].Text)
	})

	t.Run("top-level splice is an error", func(t *testing.T) {
		rd := New(strings.NewReader(`#?@(:clj [1 2])`), Mode{})
		_, err := rd.Next()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "top level")
	})

	t.Run("ignore mode rejects conditionals", func(t *testing.T) {
		rd := New(strings.NewReader(`#?(:clj 1)`), Mode{Cond: CondIgnore})
		_, err := rd.Next()
		require.Error(t, err)
	})
}

func TestNext_MalformedTail(t *testing.T) {
	rd := New(strings.NewReader(`(ns good.ns) (unclosed`), Mode{})

	first, err := rd.Next()
	require.NoError(t, err)
	assert.Equal(t, "ns", first.HeadSymbol())

	_, err = rd.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line ")

	// sequence is exhausted after the error
	_, err = rd.Next()
	assert.Equal(t, io.EOF, err)
}

func TestNext_UnmatchedDelimiter(t *testing.T) {
	rd := New(strings.NewReader(`)`), Mode{})
	_, err := rd.Next()
	require.Error(t, err)
}

func TestModeFromEnv(t *testing.T) {
	t.Setenv("NSSCAN_READ_COND", "")
	assert.Equal(t, CondAllow, ModeFromEnv().Cond)

	t.Setenv("NSSCAN_READ_COND", "ignore")
	assert.Equal(t, CondIgnore, ModeFromEnv().Cond)
}
