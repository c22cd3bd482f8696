package tokenizer

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shibukawa/radlang/diag"
)

// TokenIterator uses Go 1.23 iterator pattern
type TokenIterator iter.Seq[Token]

// Default limits used when Options leaves a field at zero.
const (
	DefaultTabWidth   = 8
	DefaultMaxNesting = 64
)

// Options are options for the tokenizer
type Options struct {
	// TabWidth is the indentation width one tab contributes.
	TabWidth int
	// MaxNesting limits how deeply interpolations may nest inside strings.
	MaxNesting int
	// SkipComments drops COMMENT tokens from the stream.
	SkipComments bool
}

type frameKind int

const (
	stringFrame frameKind = iota
	interpFrame
)

// tripleQuote opens and closes a multiline string.
const tripleQuote = `"""`

// frame is one entry of the string/interpolation mode stack.
type frame struct {
	kind  frameKind
	quote rune
	raw   bool
	start diag.Position
	depth int // bracket depth before an interpolation opened

	// multiline strings only
	triple bool
	strip  int  // indentation of the closing quotes, removed from every line
	bol    bool // at the start of a content line
}

// Tokenizer turns rad source text into a token stream with layout tokens.
type Tokenizer struct {
	input   string
	options Options

	pos    int
	line   int
	column int

	indents  *IndentStack
	brackets BracketDepth
	frames   []frame

	pending       []Token
	atLineStart   bool
	lineHasTokens bool
	started       bool
	finished      bool
	eof           Token

	diags diag.Reporter
}

// NewTokenizer creates a new Tokenizer
func NewTokenizer(input string, options ...Options) *Tokenizer {
	opts := Options{}
	if len(options) > 0 {
		opts = options[0]
	}

	if opts.TabWidth <= 0 {
		opts.TabWidth = DefaultTabWidth
	}

	if opts.MaxNesting <= 0 {
		opts.MaxNesting = DefaultMaxNesting
	}

	return &Tokenizer{
		input:       input,
		options:     opts,
		line:        1,
		column:      1,
		indents:     NewIndentStack(),
		atLineStart: true,
	}
}

// Next returns the next token. After EOF it keeps returning EOF.
func (t *Tokenizer) Next() Token {
	for {
		for len(t.pending) > 0 {
			tok := t.pending[0]
			t.pending = t.pending[1:]

			if t.options.SkipComments && tok.Type == COMMENT {
				continue
			}

			return tok
		}

		if t.finished {
			return t.eof
		}

		t.scan()
	}
}

// Tokens returns an iterator of tokens ending with EOF.
func (t *Tokenizer) Tokens() TokenIterator {
	return func(yield func(Token) bool) {
		for {
			tok := t.Next()
			if !yield(tok) || tok.Type == EOF {
				return
			}
		}
	}
}

// AllTokens gets all tokens as a slice, EOF included.
func (t *Tokenizer) AllTokens() []Token {
	tokens := make([]Token, 0, 64)
	for tok := range t.Tokens() {
		tokens = append(tokens, tok)
	}

	return tokens
}

// Diagnostics returns the lexical problems found so far, ordered by position.
func (t *Tokenizer) Diagnostics() diag.List {
	return t.diags.List()
}

func (t *Tokenizer) scan() {
	if !t.started {
		t.started = true
		t.scanPreamble()

		if len(t.pending) > 0 {
			return
		}
	}

	if f := t.top(); f != nil && f.kind == stringFrame {
		t.scanStringPart(f)
		return
	}

	if t.atLineStart {
		t.scanLineStart()

		if len(t.pending) > 0 || t.atLineStart {
			return
		}
	}

	t.skipSpaces()
	t.scanToken()
}

// scanPreamble recognises the shebang and the --- file header.
func (t *Tokenizer) scanPreamble() {
	if strings.HasPrefix(t.input, "\ufeff") {
		t.advance()
	}

	if strings.HasPrefix(t.input[t.pos:], "#!") {
		start := t.position()
		t.advanceTo(t.lineEnd(t.pos))
		t.emit(SHEBANG, t.input[start.Offset:t.pos], start)

		if t.peekByte(0) == '\n' {
			t.advance()
		}
	}

	p := t.pos
	for p < len(t.input) && strings.TrimSpace(t.input[p:t.lineEnd(p)]) == "" {
		p = t.nextLine(p)
	}

	if p >= len(t.input) || !isHeaderFence(t.input[p:t.lineEnd(p)]) {
		return
	}

	t.advanceTo(p)
	start := t.position()
	t.advanceTo(t.nextLine(p))
	contentStart := t.pos

	for q := contentStart; q < len(t.input); q = t.nextLine(q) {
		if isHeaderFence(t.input[q:t.lineEnd(q)]) {
			t.advanceTo(t.nextLine(q))
			t.emit(FILE_HEADER, t.input[contentStart:q], start)

			return
		}
	}

	t.advanceTo(len(t.input))
	t.diags.Report(diag.LexicalError, diag.Span{Start: start, End: t.position()}, ErrUnterminatedHeader)
	t.emit(FILE_HEADER, t.input[contentStart:], start)
}

func isHeaderFence(line string) bool {
	return strings.TrimRight(line, " \t\r") == "---"
}

// scanLineStart measures indentation of the next significant line.
// Blank and comment-only lines are skipped without layout tokens.
func (t *Tokenizer) scanLineStart() {
	for {
		lineStart := t.position()
		width := 0

	measure:
		for t.pos < len(t.input) {
			switch t.input[t.pos] {
			case ' ':
				width++
			case '\t':
				width += t.options.TabWidth
			case '\r', '\f':
			default:
				if !isInvisibleSpace(t.peekRune()) {
					break measure
				}
			}

			t.advance()
		}

		switch {
		case t.pos >= len(t.input):
			t.atLineStart = false
			return
		case t.input[t.pos] == '\n':
			t.advance()
			continue
		case t.startsComment() || t.input[t.pos] == '#':
			t.scanComment()

			if t.peekByte(0) == '\n' {
				t.advance()
			}

			return
		}

		t.atLineStart = false
		t.applyIndent(width, lineStart)

		return
	}
}

func (t *Tokenizer) applyIndent(width int, lineStart diag.Position) {
	pos := t.position()
	top := t.indents.Top()

	switch {
	case width > top:
		t.indents.Push(width)
		t.emitAt(INDENT, "", pos)
	case width < top:
		dedents, consistent := t.indents.Dedent(width)
		for range dedents {
			t.emitAt(DEDENT, "", pos)
		}

		if !consistent {
			t.diags.Reportf(diag.StructuralWarning, diag.Span{Start: lineStart, End: pos}, ErrInconsistentDedent,
				"indentation width %d matches no enclosing block", width)
		}
	}
}

func (t *Tokenizer) skipSpaces() {
	for t.pos < len(t.input) {
		switch t.input[t.pos] {
		case ' ', '\t', '\r', '\f':
			t.advance()
		default:
			if !isInvisibleSpace(t.peekRune()) {
				return
			}

			t.advance()
		}
	}
}

// isInvisibleSpace reports zero-width characters that count as whitespace:
// the byte order mark, the word joiner and the zero width space.
func isInvisibleSpace(r rune) bool {
	return r == '\ufeff' || r == '\u2060' || r == '\u200b'
}

func (t *Tokenizer) scanToken() {
	if t.pos >= len(t.input) {
		t.scanEOF()
		return
	}

	start := t.position()
	c := t.input[t.pos]

	switch {
	case c == '\n':
		t.advance()

		if t.brackets.Suppressed() {
			return
		}

		if t.lineHasTokens {
			t.emit(NEWLINE, "\n", start)
			t.lineHasTokens = false
		}

		t.atLineStart = true
	case t.startsComment():
		t.scanComment()
	case c == '#':
		t.advanceTo(t.lineEnd(t.pos))
		t.emit(ARG_COMMENT, strings.TrimSpace(t.input[start.Offset+1:t.pos]), start)
	case c == 'r' && isQuote(t.peekByte(1)):
		t.scanStringStart(true)
	case isQuote(c):
		t.scanStringStart(false)
	case isDigit(c):
		t.scanNumber()
	case c == '_' || isLetter(t.peekRune()):
		t.scanIdentifier()
	default:
		t.scanOperator()
	}
}

func (t *Tokenizer) scanComment() {
	start := t.position()
	t.advanceTo(t.lineEnd(t.pos))
	t.emit(COMMENT, strings.TrimRight(t.input[start.Offset:t.pos], "\r"), start)
}

func (t *Tokenizer) scanNumber() {
	start := t.position()
	for isDigit(t.peekByte(0)) {
		t.advance()
	}

	if t.peekByte(0) == '.' && isDigit(t.peekByte(1)) {
		t.advance()

		for isDigit(t.peekByte(0)) {
			t.advance()
		}

		t.emit(FLOAT, t.input[start.Offset:t.pos], start)

		return
	}

	t.emit(INT, t.input[start.Offset:t.pos], start)
}

func (t *Tokenizer) scanIdentifier() {
	start := t.position()
	for t.pos < len(t.input) {
		r := t.peekRune()
		if r != '_' && !isLetter(r) && !unicode.IsDigit(r) {
			break
		}

		t.advance()
	}

	word := t.input[start.Offset:t.pos]
	t.emit(LookupKeyword(word), word, start)
}

var twoCharOperators = map[string]TokenType{
	"+=": PLUS_ASSIGN,
	"-=": MINUS_ASSIGN,
	"*=": MULTIPLY_ASSIGN,
	"/=": DIVIDE_ASSIGN,
	"%=": MODULO_ASSIGN,
	"++": INCREMENT,
	"--": DECREMENT,
	"==": EQUAL,
	"!=": NOT_EQUAL,
	"<=": LESS_EQUAL,
	">=": GREATER_EQUAL,
	"->": ARROW,
	"$!": DOLLAR_BANG,
}

var oneCharOperators = map[byte]TokenType{
	'+': PLUS,
	'-': MINUS,
	'*': MULTIPLY,
	'/': DIVIDE,
	'%': MODULO,
	'=': ASSIGN,
	'<': LESS_THAN,
	'>': GREATER_THAN,
	'?': QUESTION,
	':': COLON,
	',': COMMA,
	'.': DOT,
	'$': DOLLAR,
}

func (t *Tokenizer) scanOperator() {
	start := t.position()
	c := t.input[t.pos]

	if t.pos+1 < len(t.input) {
		if tt, ok := twoCharOperators[t.input[t.pos:t.pos+2]]; ok {
			t.advance()
			t.advance()
			t.emit(tt, t.input[start.Offset:t.pos], start)

			return
		}
	}

	if tt, ok := oneCharOperators[c]; ok {
		t.advance()
		t.emit(tt, string(c), start)

		return
	}

	switch c {
	case '(', '[', '{':
		t.advance()
		t.brackets.Open()
		t.emit(openerType(c), string(c), start)

		return
	case ')', ']':
		t.advance()
		t.brackets.Close(t.bracketFloor())
		t.emit(closerType(c), string(c), start)

		return
	case '}':
		t.advance()

		if f := t.top(); f != nil && f.kind == interpFrame && t.brackets.Depth() <= f.depth+1 {
			t.popFrame()
			t.brackets.Reset(f.depth)
			t.emit(INTERP_END, "}", start)

			return
		}

		t.brackets.Close(t.bracketFloor())
		t.emit(CLOSED_BRACE, "}", start)

		return
	}

	r := t.peekRune()
	t.advance()
	t.emit(ILLEGAL, string(r), start)
	t.diags.Reportf(diag.LexicalError, diag.Span{Start: start, End: t.position()}, ErrIllegalCharacter, "%q", r)
}

func openerType(c byte) TokenType {
	switch c {
	case '(':
		return OPENED_PARENS
	case '[':
		return OPENED_BRACKET
	default:
		return OPENED_BRACE
	}
}

func closerType(c byte) TokenType {
	if c == ')' {
		return CLOSED_PARENS
	}

	return CLOSED_BRACKET
}

// bracketFloor keeps a stray closer inside an interpolation from
// consuming the interpolation's own brace.
func (t *Tokenizer) bracketFloor() int {
	if f := t.top(); f != nil && f.kind == interpFrame {
		return f.depth + 1
	}

	return 0
}

func (t *Tokenizer) scanStringStart(raw bool) {
	start := t.position()
	if raw {
		t.advance()
	}

	if strings.HasPrefix(t.input[t.pos:], tripleQuote) && t.blankAfter(t.pos+len(tripleQuote)) {
		t.scanMultilineStart(start, raw)
		return
	}

	quote := rune(t.input[t.pos])
	t.advance()
	t.emit(STRING_START, t.input[start.Offset:t.pos], start)
	t.frames = append(t.frames, frame{kind: stringFrame, quote: quote, raw: raw, start: start})
}

// scanMultilineStart opens a """ string. The rest of the opening line may
// only hold whitespace and a comment. Content starts on the next line and
// every line loses the indentation of the closing quotes.
func (t *Tokenizer) scanMultilineStart(start diag.Position, raw bool) {
	t.advanceTo(t.pos + len(tripleQuote))
	t.emit(STRING_START, t.input[start.Offset:t.pos], start)

	t.skipSpaces()

	if t.startsComment() {
		t.scanComment()
	}

	if t.peekByte(0) == '\n' {
		t.advance()
	}

	t.frames = append(t.frames, frame{
		kind:   stringFrame,
		quote:  '"',
		raw:    raw,
		start:  start,
		triple: true,
		strip:  t.closingIndent(t.pos),
		bol:    true,
	})
}

// blankAfter reports whether the line holds nothing but whitespace and an
// optional comment from p on.
func (t *Tokenizer) blankAfter(p int) bool {
	rest := strings.TrimLeft(t.input[p:t.lineEnd(p)], " \t\r\f")
	return rest == "" || strings.HasPrefix(rest, "//")
}

// closingIndent finds the first line from p that starts with """ after
// blanks and returns the number of blanks before it.
func (t *Tokenizer) closingIndent(p int) int {
	for p < len(t.input) {
		line := t.input[p:t.lineEnd(p)]
		trimmed := strings.TrimLeft(line, " \t")

		if strings.HasPrefix(trimmed, tripleQuote) {
			return len(line) - len(trimmed)
		}

		p = t.lineEnd(p) + 1
	}

	return 0
}

// closesAt reports whether the line starting at p is the closing line of f.
func (t *Tokenizer) closesAt(f *frame, p int) bool {
	for n := 0; n < f.strip && p < len(t.input) && (t.input[p] == ' ' || t.input[p] == '\t'); n++ {
		p++
	}

	return strings.HasPrefix(t.input[p:], tripleQuote)
}

// stripIndent drops up to f.strip blanks at the start of a content line.
// A shorter indentation is reported unless the line is blank.
func (t *Tokenizer) stripIndent(f *frame) {
	start := t.position()

	n := 0
	for ; n < f.strip && (t.peekByte(0) == ' ' || t.peekByte(0) == '\t'); n++ {
		t.advance()
	}

	if n == f.strip || t.pos >= len(t.input) {
		return
	}

	if c := t.peekByte(0); c != '\n' && c != '\r' {
		t.diags.Reportf(diag.LexicalError, diag.Span{Start: start, End: t.position()}, ErrMultilineIndent,
			"expected %d, got %d", f.strip, n)
	}
}

// endsString reports whether the input at the current position closes f.
func (t *Tokenizer) endsString(f *frame) bool {
	if f.triple {
		return strings.HasPrefix(t.input[t.pos:], tripleQuote)
	}

	return t.peekRune() == f.quote
}

func (t *Tokenizer) scanStringPart(f *frame) {
	if f.bol {
		f.bol = false
		t.stripIndent(f)
	}

	start := t.position()

	if t.pos >= len(t.input) || (!f.triple && t.input[t.pos] == '\n') {
		t.diags.Report(diag.LexicalError, diag.Span{Start: f.start, End: start}, ErrUnterminatedString)
		t.emitAt(STRING_END, "", start)
		t.popFrame()

		return
	}

	r := t.peekRune()

	switch {
	case f.triple && r == '\n':
		t.advance()
		f.bol = true

		// the line break before the closing quotes is not content
		if !t.closesAt(f, t.pos) {
			t.emit(STRING_CONTENT, "\n", start)
		}
	case t.endsString(f):
		if f.triple {
			t.advanceTo(t.pos + len(tripleQuote))
		} else {
			t.advance()
		}

		t.emit(STRING_END, t.input[start.Offset:t.pos], start)
		t.popFrame()
	case !f.raw && r == '\\':
		t.advance()

		if isEscapable(t.peekByte(0)) {
			t.advance()
			t.emit(ESCAPE, t.input[start.Offset:t.pos], start)

			return
		}

		t.emit(STRING_CONTENT, `\`, start)
	case !f.raw && r == '{':
		t.advance()

		if t.interpolationDepth() >= t.options.MaxNesting {
			t.diags.Report(diag.LexicalError, diag.Span{Start: start, End: t.position()}, ErrNestingTooDeep)
			t.abandonLine(start)

			return
		}

		t.frames = append(t.frames, frame{kind: interpFrame, start: start, depth: t.brackets.Depth()})
		t.brackets.Open()
		t.emit(INTERP_START, "{", start)
	default:
		for t.pos < len(t.input) {
			r := t.peekRune()
			if r == '\n' || t.endsString(f) || (!f.raw && (r == '\\' || r == '{')) {
				break
			}

			t.advance()
		}

		t.emit(STRING_CONTENT, t.input[start.Offset:t.pos], start)
	}
}

// abandonLine closes every open string and interpolation at pos and skips
// the rest of the line, so an overlong nesting is reported once.
func (t *Tokenizer) abandonLine(pos diag.Position) {
	for len(t.frames) > 0 {
		if t.top().kind == interpFrame {
			t.emitAt(INTERP_END, "", pos)
		} else {
			t.emitAt(STRING_END, "", pos)
		}

		t.popFrame()
	}

	t.brackets.Reset(0)
	t.advanceTo(t.lineEnd(t.pos))
}

func (t *Tokenizer) scanEOF() {
	pos := t.position()

	// an interpolation left open by EOF is closed so its string can report
	if f := t.top(); f != nil && f.kind == interpFrame {
		t.popFrame()
		t.brackets.Reset(f.depth)
		t.emitAt(INTERP_END, "", pos)

		return
	}

	if t.brackets.Suppressed() {
		t.diags.Report(diag.SyntaxError, diag.Span{Start: pos, End: pos}, ErrUnbalancedBrackets)
		t.brackets.Reset(0)
	}

	if t.lineHasTokens {
		t.emitAt(NEWLINE, "", pos)
		t.lineHasTokens = false
	}

	for range t.indents.Unwind() {
		t.emitAt(DEDENT, "", pos)
	}

	t.eof = Token{Type: EOF, Span: diag.Span{Start: pos, End: pos}}
	t.pending = append(t.pending, t.eof)
	t.finished = true
}

func (t *Tokenizer) top() *frame {
	if len(t.frames) == 0 {
		return nil
	}

	return &t.frames[len(t.frames)-1]
}

func (t *Tokenizer) popFrame() {
	t.frames = t.frames[:len(t.frames)-1]
}

func (t *Tokenizer) interpolationDepth() int {
	n := 0
	for _, f := range t.frames {
		if f.kind == interpFrame {
			n++
		}
	}

	return n
}

func (t *Tokenizer) emit(tt TokenType, value string, start diag.Position) {
	t.pending = append(t.pending, Token{Type: tt, Value: value, Span: diag.Span{Start: start, End: t.position()}})

	switch tt {
	case COMMENT, NEWLINE, INDENT, DEDENT, SHEBANG, FILE_HEADER, EOF:
	default:
		t.lineHasTokens = true
	}
}

// emitAt emits a zero-width token.
func (t *Tokenizer) emitAt(tt TokenType, value string, pos diag.Position) {
	t.pending = append(t.pending, Token{Type: tt, Value: value, Span: diag.Span{Start: pos, End: pos}})
}

func (t *Tokenizer) position() diag.Position {
	return diag.Position{Offset: t.pos, Line: t.line, Column: t.column}
}

func (t *Tokenizer) peekByte(n int) byte {
	if t.pos+n < len(t.input) {
		return t.input[t.pos+n]
	}

	return 0
}

func (t *Tokenizer) peekRune() rune {
	if t.pos >= len(t.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(t.input[t.pos:])

	return r
}

// advance consumes one rune.
func (t *Tokenizer) advance() {
	if t.pos >= len(t.input) {
		return
	}

	r, size := utf8.DecodeRuneInString(t.input[t.pos:])
	t.pos += size

	if r == '\n' {
		t.line++
		t.column = 1
	} else {
		t.column++
	}
}

func (t *Tokenizer) advanceTo(offset int) {
	for t.pos < offset {
		t.advance()
	}
}

func (t *Tokenizer) startsComment() bool {
	return t.peekByte(0) == '/' && t.peekByte(1) == '/'
}

// lineEnd returns the offset of the newline ending the line containing p.
func (t *Tokenizer) lineEnd(p int) int {
	if i := strings.IndexByte(t.input[p:], '\n'); i >= 0 {
		return p + i
	}

	return len(t.input)
}

func (t *Tokenizer) nextLine(p int) int {
	return min(t.lineEnd(p)+1, len(t.input))
}

func isQuote(c byte) bool {
	return c == '"' || c == '\'' || c == '`'
}

func isEscapable(c byte) bool {
	switch c {
	case '\'', '"', '`', 'n', 't', '\\', '{':
		return true
	default:
		return false
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(r rune) bool {
	return unicode.IsLetter(r)
}
