package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cljtools/nsscan/pkg/types"
)

// writeFile drops a fixture source file into a temp dir.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFirstForm_SingleDeclaration(t *testing.T) {
	path := writeFile(t, "core.clj", `(ns my-lib.core "Core utilities." (:require [clojure.set]))`)

	form, err := FirstForm(path, Config{})
	require.NoError(t, err)
	require.NotNil(t, form)

	assert.Equal(t, types.DeclNS, form.Kind)
	assert.Equal(t, "my-lib.core", form.Name)
	assert.Equal(t, path, form.Path)

	doc, ok := form.Doc()
	require.True(t, ok)
	assert.Equal(t, "Core utilities.", doc)
}

func TestAllForms_FileOrder(t *testing.T) {
	path := writeFile(t, "b.clj", `(ns a.b "Doc.") (in-ns 'a.c)`)

	forms, err := AllForms(path, Config{})
	require.NoError(t, err)
	require.Len(t, forms, 2)

	assert.Equal(t, types.DeclNS, forms[0].Kind)
	assert.Equal(t, "a.b", forms[0].Name)
	assert.Equal(t, types.DeclInNS, forms[1].Kind)
	assert.Equal(t, "a.c", forms[1].Name)

	// quote stripped: the normalized form renders without the wrapper
	assert.Equal(t, "(in-ns a.c)", forms[1].Form().String())
}

func TestFirstForm_MatchesAllFormsHead(t *testing.T) {
	path := writeFile(t, "one.clj", `(def unrelated 1) (ns single.ns) (def more 2)`)

	first, err := FirstForm(path, Config{})
	require.NoError(t, err)
	all, err := AllForms(path, Config{})
	require.NoError(t, err)

	require.NotNil(t, first)
	require.Len(t, all, 1)
	assert.Equal(t, *first, all[0])
}

func TestAllForms_NoDeclarations(t *testing.T) {
	path := writeFile(t, "plain.clj", `(def x 1) (println x)`)

	forms, err := AllForms(path, Config{})
	require.NoError(t, err)
	assert.Empty(t, forms)
}

func TestExtract_SymbolLessFormDropped(t *testing.T) {
	path := writeFile(t, "odd.clj", `(ns) (in-ns) (ns real.ns)`)

	form, err := FirstForm(path, Config{})
	require.NoError(t, err)
	require.NotNil(t, form)
	assert.Equal(t, "real.ns", form.Name)
}

func TestExtract_NonSymbolArgumentDropped(t *testing.T) {
	forms, err := AllForms(writeFile(t, "bad.clj", `(ns "not-a-symbol") (in-ns 42)`), Config{})
	require.NoError(t, err)
	assert.Empty(t, forms)
}

func TestAllForms_LenientKeepsPriorForms(t *testing.T) {
	path := writeFile(t, "broken.clj", `(ns good.ns) (in-ns 'also.good) (((`)

	forms, err := AllForms(path, Config{})
	require.NoError(t, err)
	require.Len(t, forms, 2)
	assert.Equal(t, "good.ns", forms[0].Name)
	assert.Equal(t, "also.good", forms[1].Name)
}

func TestAllForms_StrictPropagatesParseError(t *testing.T) {
	path := writeFile(t, "broken.clj", `(ns good.ns) (((`)

	_, err := AllForms(path, Config{Strict: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestFirstForm_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.clj")

	form, err := FirstForm(missing, Config{})
	require.NoError(t, err)
	assert.Nil(t, form)

	_, err = FirstForm(missing, Config{Strict: true})
	require.Error(t, err)
}

func TestAllForms_ReaderConditionalFile(t *testing.T) {
	path := writeFile(t, "cond.cljc", `#?(:clj (ns cond.host) :cljs (ns cond.js))`)

	forms, err := AllForms(path, Config{})
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, "cond.host", forms[0].Name)
}

func TestScan_FirstOnlyStopsReadAhead(t *testing.T) {
	// the malformed tail is never reached in first-only mode
	src := `(ns first.ns) (((`
	forms, err := Scan(strings.NewReader(src), "mem.clj", Config{Strict: true}, true)
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, "first.ns", forms[0].Name)
}

func TestExtract_MetadataPreserved(t *testing.T) {
	path := writeFile(t, "meta.clj", `(ns ^{:doc "Meta doc."} meta.ns)`)

	form, err := FirstForm(path, Config{})
	require.NoError(t, err)
	require.NotNil(t, form)

	doc, ok := form.Doc()
	require.True(t, ok)
	assert.Equal(t, "Meta doc.", doc)
}
