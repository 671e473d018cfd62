package reader

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cljtools/nsscan/pkg/types"
)

// Reader produces a lazy, finite, non-restartable sequence of top-level
// forms from a character stream. Each Next call parses exactly one form;
// after the first error the sequence is exhausted and Next keeps returning
// io.EOF.
type Reader struct {
	r       *bufio.Reader
	mode    Mode
	line    int
	peeked  rune
	hasPeek bool
	done    bool
}

// formFlag classifies the outcome of a single readForm step.
type formFlag int

const (
	formOne    formFlag = iota // one form was produced
	formNone                   // nothing was produced (comment, discard, dead conditional)
	formSplice                 // a conditional branch to splice into the enclosing collection
)

// New creates a Reader over r with the given mode. A zero Mode behaves like
// DefaultMode.
func New(r io.Reader, mode Mode) *Reader {
	return &Reader{r: bufio.NewReader(r), mode: mode.normalized(), line: 1}
}

// Next returns the next top-level form. It returns io.EOF at end of stream
// and a parse error for malformed input; either way the sequence ends.
func (r *Reader) Next() (types.Value, error) {
	if r.done {
		return types.Value{}, io.EOF
	}
	for {
		v, flag, err := r.readForm()
		if err != nil {
			r.done = true
			return types.Value{}, err
		}
		switch flag {
		case formOne:
			return v, nil
		case formSplice:
			r.done = true
			return types.Value{}, r.errorf("reader conditional splicing not allowed at the top level")
		}
		// formNone: keep reading
	}
}

// rune-level access with one-rune lookahead

func (r *Reader) next() (rune, error) {
	if r.hasPeek {
		r.hasPeek = false
		return r.peeked, nil
	}
	c, _, err := r.r.ReadRune()
	if err != nil {
		return 0, err
	}
	if c == '\n' {
		r.line++
	}
	return c, nil
}

func (r *Reader) peek() (rune, error) {
	if !r.hasPeek {
		c, _, err := r.r.ReadRune()
		if err != nil {
			return 0, err
		}
		if c == '\n' {
			r.line++
		}
		r.peeked = c
		r.hasPeek = true
	}
	return r.peeked, nil
}

func (r *Reader) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("line %d: %s", r.line, fmt.Sprintf(format, args...))
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == ','
}

// isTerminator reports whether c ends an atom token.
func isTerminator(c rune) bool {
	if isSpace(c) {
		return true
	}
	switch c {
	case '(', ')', '[', ']', '{', '}', '"', ';':
		return true
	}
	return false
}

// readForm reads one syntactic unit. io.EOF is returned only when the
// stream ends cleanly before the unit starts; inside a form, end of input
// is a parse error.
func (r *Reader) readForm() (types.Value, formFlag, error) {
	for {
		c, err := r.next()
		if err != nil {
			if err == io.EOF {
				return types.Value{}, formNone, io.EOF
			}
			return types.Value{}, formNone, err
		}
		switch {
		case isSpace(c):
			continue
		case c == ';':
			if err := r.skipLine(); err != nil {
				return types.Value{}, formNone, err
			}
			continue
		case c == '(':
			v, err := r.readSeq(')', types.KindList)
			return v, formOne, err
		case c == '[':
			v, err := r.readSeq(']', types.KindVector)
			return v, formOne, err
		case c == '{':
			v, err := r.readSeq('}', types.KindMap)
			return v, formOne, err
		case c == ')' || c == ']' || c == '}':
			return types.Value{}, formNone, r.errorf("unmatched delimiter %q", c)
		case c == '"':
			v, err := r.readString()
			return v, formOne, err
		case c == '\\':
			v, err := r.readChar()
			return v, formOne, err
		case c == '\'':
			v, err := r.wrap("quote")
			return v, formOne, err
		case c == '`':
			v, err := r.wrap("syntax-quote")
			return v, formOne, err
		case c == '~':
			sym := "unquote"
			if p, err := r.peek(); err == nil && p == '@' {
				_, _ = r.next()
				sym = "unquote-splicing"
			}
			v, err := r.wrap(sym)
			return v, formOne, err
		case c == '@':
			v, err := r.wrap("deref")
			return v, formOne, err
		case c == '^':
			v, err := r.readMeta()
			return v, formOne, err
		case c == '#':
			return r.readDispatch()
		default:
			v, err := r.readAtom(c)
			return v, formOne, err
		}
	}
}

// readRequired reads the next form, skipping comments and discards, and
// turns end-of-input into a parse error. Used wherever a form must follow.
func (r *Reader) readRequired(after string) (types.Value, error) {
	for {
		v, flag, err := r.readForm()
		if err != nil {
			if err == io.EOF {
				return types.Value{}, r.errorf("unexpected end of input after %s", after)
			}
			return types.Value{}, err
		}
		switch flag {
		case formOne:
			return v, nil
		case formSplice:
			return types.Value{}, r.errorf("reader conditional splicing not allowed after %s", after)
		}
	}
}

func (r *Reader) skipLine() error {
	for {
		c, err := r.next()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if c == '\n' {
			return nil
		}
	}
}

// readSeq reads collection members until the closing delimiter.
func (r *Reader) readSeq(close rune, kind types.ValueKind) (types.Value, error) {
	var children []types.Value
	for {
		// Peek past whitespace and line comments for the closing delimiter.
		for {
			p, err := r.peek()
			if err != nil {
				if err == io.EOF {
					return types.Value{}, r.errorf("unexpected end of input, expected %q", close)
				}
				return types.Value{}, err
			}
			if isSpace(p) {
				_, _ = r.next()
				continue
			}
			if p == ';' {
				_, _ = r.next()
				if err := r.skipLine(); err != nil {
					return types.Value{}, err
				}
				continue
			}
			break
		}
		p, _ := r.peek()
		if p == close {
			_, _ = r.next()
			return types.Value{Kind: kind, Children: children}, nil
		}
		v, flag, err := r.readForm()
		if err != nil {
			if err == io.EOF {
				return types.Value{}, r.errorf("unexpected end of input, expected %q", close)
			}
			return types.Value{}, err
		}
		switch flag {
		case formOne:
			children = append(children, v)
		case formSplice:
			children = append(children, v.Children...)
		}
	}
}

// wrap reads the following form f and returns (sym f).
func (r *Reader) wrap(sym string) (types.Value, error) {
	v, err := r.readRequired(quoteName(sym))
	if err != nil {
		return types.Value{}, err
	}
	return types.List(types.Symbol(sym), v), nil
}

func quoteName(sym string) string {
	if sym == "quote" {
		return "quote (')"
	}
	return sym
}

// readMeta reads ^meta followed by its target and attaches the metadata to
// the target, outermost first.
func (r *Reader) readMeta() (types.Value, error) {
	meta, err := r.readRequired("metadata marker ^")
	if err != nil {
		return types.Value{}, err
	}
	target, err := r.readRequired("metadata")
	if err != nil {
		return types.Value{}, err
	}
	target.Meta = append([]types.Value{meta}, target.Meta...)
	return target, nil
}

// readString reads a double-quoted string, decoding escapes.
func (r *Reader) readString() (types.Value, error) {
	var b strings.Builder
	for {
		c, err := r.next()
		if err != nil {
			return types.Value{}, r.errorf("unexpected end of input in string")
		}
		if c == '"' {
			return types.Str(b.String()), nil
		}
		if c != '\\' {
			b.WriteRune(c)
			continue
		}
		e, err := r.next()
		if err != nil {
			return types.Value{}, r.errorf("unexpected end of input in string")
		}
		switch e {
		case '"', '\\', '/':
			b.WriteRune(e)
		case 'n':
			b.WriteRune('\n')
		case 't':
			b.WriteRune('\t')
		case 'r':
			b.WriteRune('\r')
		case 'b':
			b.WriteRune('\b')
		case 'f':
			b.WriteRune('\f')
		case 'u':
			code := 0
			for i := 0; i < 4; i++ {
				d, err := r.next()
				if err != nil {
					return types.Value{}, r.errorf("unexpected end of input in unicode escape")
				}
				v := hexDigit(d)
				if v < 0 {
					return types.Value{}, r.errorf("invalid unicode escape digit %q", d)
				}
				code = code*16 + v
			}
			b.WriteRune(rune(code))
		case '0', '1', '2', '3', '4', '5', '6', '7':
			code := int(e - '0')
			for {
				p, err := r.peek()
				if err != nil || p < '0' || p > '7' {
					break
				}
				_, _ = r.next()
				code = code*8 + int(p-'0')
			}
			b.WriteRune(rune(code))
		default:
			return types.Value{}, r.errorf("unsupported string escape \\%c", e)
		}
	}
}

func hexDigit(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// readRegex reads #"..." keeping the pattern text raw; escaped quotes stay
// inside the pattern.
func (r *Reader) readRegex() (types.Value, error) {
	var b strings.Builder
	for {
		c, err := r.next()
		if err != nil {
			return types.Value{}, r.errorf("unexpected end of input in regex literal")
		}
		if c == '"' {
			return types.Value{Kind: types.KindRegex, Text: b.String()}, nil
		}
		b.WriteRune(c)
		if c == '\\' {
			e, err := r.next()
			if err != nil {
				return types.Value{}, r.errorf("unexpected end of input in regex literal")
			}
			b.WriteRune(e)
		}
	}
}

// readChar reads a character literal after the backslash. Named characters
// (\newline, \uXXXX, \o377) are kept as their source text.
func (r *Reader) readChar() (types.Value, error) {
	c, err := r.next()
	if err != nil {
		return types.Value{}, r.errorf("unexpected end of input after \\")
	}
	var b strings.Builder
	b.WriteRune('\\')
	b.WriteRune(c)
	for {
		p, err := r.peek()
		if err != nil || isTerminator(p) {
			break
		}
		_, _ = r.next()
		b.WriteRune(p)
	}
	return types.Value{Kind: types.KindChar, Text: b.String()}, nil
}

// readAtom reads a symbol, keyword, or number token starting with first.
func (r *Reader) readAtom(first rune) (types.Value, error) {
	var b strings.Builder
	b.WriteRune(first)
	for {
		p, err := r.peek()
		if err != nil || isTerminator(p) {
			break
		}
		_, _ = r.next()
		b.WriteRune(p)
	}
	return classifyAtom(b.String()), nil
}

func classifyAtom(text string) types.Value {
	if strings.HasPrefix(text, ":") {
		return types.Keyword(text)
	}
	if isNumberToken(text) {
		return types.Value{Kind: types.KindNumber, Text: text}
	}
	return types.Symbol(text)
}

func isNumberToken(text string) bool {
	if text == "" {
		return false
	}
	c := text[0]
	if c >= '0' && c <= '9' {
		return true
	}
	if (c == '+' || c == '-') && len(text) > 1 {
		return text[1] >= '0' && text[1] <= '9'
	}
	return false
}

// readDispatch handles forms introduced by '#'.
func (r *Reader) readDispatch() (types.Value, formFlag, error) {
	c, err := r.next()
	if err != nil {
		return types.Value{}, formNone, r.errorf("unexpected end of input after #")
	}
	switch c {
	case '{':
		v, err := r.readSeq('}', types.KindSet)
		return v, formOne, err
	case '"':
		v, err := r.readRegex()
		return v, formOne, err
	case '\'':
		v, err := r.wrap("var")
		return v, formOne, err
	case '(':
		// anonymous fn literal, read structurally as a list
		v, err := r.readSeq(')', types.KindList)
		return v, formOne, err
	case '_':
		if _, err := r.readRequired("#_ discard"); err != nil {
			return types.Value{}, formNone, err
		}
		return types.Value{}, formNone, nil
	case '!':
		// shebang-style line comment
		if err := r.skipLine(); err != nil {
			return types.Value{}, formNone, err
		}
		return types.Value{}, formNone, nil
	case '?':
		return r.readCond()
	case '#':
		// symbolic value: ##Inf, ##-Inf, ##NaN
		v, err := r.readAtom('#')
		if err != nil {
			return types.Value{}, formNone, err
		}
		return types.Value{Kind: types.KindNumber, Text: "#" + v.Text}, formOne, nil
	case '^':
		v, err := r.readMeta()
		return v, formOne, err
	case ':':
		v, err := r.readNamespacedMap()
		return v, formOne, err
	default:
		// tagged literal: #tag form
		tag, err := r.readAtom(c)
		if err != nil {
			return types.Value{}, formNone, err
		}
		form, err := r.readRequired("tagged literal " + tag.Text)
		if err != nil {
			return types.Value{}, formNone, err
		}
		return types.Value{Kind: types.KindTagged, Children: []types.Value{tag, form}}, formOne, nil
	}
}

// readNamespacedMap reads #:alias{...} or #::{...}, dropping the alias.
func (r *Reader) readNamespacedMap() (types.Value, error) {
	for {
		p, err := r.peek()
		if err != nil {
			return types.Value{}, r.errorf("unexpected end of input in namespaced map")
		}
		if p == '{' {
			_, _ = r.next()
			return r.readSeq('}', types.KindMap)
		}
		if isTerminator(p) {
			return types.Value{}, r.errorf("namespaced map must be followed by a map")
		}
		_, _ = r.next()
	}
}

// readCond reads a reader conditional (#? or #?@) and selects the branch
// matching the mode's features.
func (r *Reader) readCond() (types.Value, formFlag, error) {
	if r.mode.Cond == CondIgnore {
		return types.Value{}, formNone, r.errorf("reader conditionals are not allowed in this mode")
	}
	splicing := false
	if p, err := r.peek(); err == nil && p == '@' {
		_, _ = r.next()
		splicing = true
	}
	c, err := r.next()
	if err != nil || c != '(' {
		return types.Value{}, formNone, r.errorf("reader conditional body must be a list")
	}
	body, err := r.readSeq(')', types.KindList)
	if err != nil {
		return types.Value{}, formNone, err
	}
	if len(body.Children)%2 != 0 {
		return types.Value{}, formNone, r.errorf("reader conditional requires an even number of forms")
	}
	sel, ok := selectBranch(body.Children, r.mode.Features)
	if !ok {
		return types.Value{}, formNone, nil
	}
	if !splicing {
		return sel, formOne, nil
	}
	if sel.Kind != types.KindList && sel.Kind != types.KindVector {
		return types.Value{}, formNone, r.errorf("spliced reader conditional branch must be a collection")
	}
	return sel, formSplice, nil
}

// selectBranch picks the first branch whose feature keyword is in features;
// :default matches unconditionally.
func selectBranch(pairs []types.Value, features []string) (types.Value, bool) {
	for i := 0; i+1 < len(pairs); i += 2 {
		kw := pairs[i]
		if kw.Kind != types.KindKeyword {
			continue
		}
		if kw.Text == ":default" {
			return pairs[i+1], true
		}
		for _, f := range features {
			if kw.Text == f {
				return pairs[i+1], true
			}
		}
	}
	return types.Value{}, false
}
