// Package reader parses Clojure source text into structural forms.
//
// The reader is deliberately shallow: it understands delimiters, atoms,
// strings, metadata, and the dispatch macros well enough to produce a
// faithful tree of types.Value, but it performs no symbol resolution, no
// number validation, and no evaluation. That is all a namespace scanner
// needs, and it keeps malformed-but-plausible files readable.
//
// # Usage
//
//	rd := reader.New(file, reader.ModeFromEnv())
//	for {
//	    form, err := rd.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        // malformed tail; forms read so far are still valid
//	        break
//	    }
//	    // use form
//	}
//
// The sequence is lazy, finite, and non-restartable: each Next parses one
// top-level form, and after the first error the reader keeps returning
// io.EOF.
//
// # Reader conditionals
//
// #?(...) and #?@(...) are resolved at read time against Mode.Features
// (default :clj, with :default as fallback). Mode is resolved once from
// the environment (NSSCAN_READ_COND) by the caller and passed into New;
// the reader itself keeps no global state.
package reader
