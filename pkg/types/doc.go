// Package types provides the shared data model for the nsscan namespace
// scanner.
//
// Value is a structurally parsed Clojure datum produced by the reader.
// NSForm is the canonical representation of a namespace-declaring top-level
// form after normalization:
//
//	form := &types.NSForm{
//	    Kind: types.DeclNS,
//	    Name: "my.ns.core",
//	    Rest: []types.Value{types.Str("Core utilities.")},
//	}
//	doc, ok := form.Doc() // "Core utilities.", true
//
// Both (ns my.ns) and (in-ns 'my.ns) normalize to the same three-part shape,
// so consumers never branch on quoting.
//
// PathForName maps a namespace name to its expected relative source path:
//
//	types.PathForName("my-lib.core", "") // "my_lib/core.clj"
//
// All operations in this package are pure; nothing here touches the
// filesystem or evaluates code.
package types
