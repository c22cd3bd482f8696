package tokenizer

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/radlang/diag"
)

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}

	return types
}

func TestTokenIterator(t *testing.T) {
	tokenizer := NewTokenizer("x = 1\n")

	var actualTypes []TokenType
	for token := range tokenizer.Tokens() {
		actualTypes = append(actualTypes, token.Type)
	}

	assert.Equal(t, []TokenType{IDENTIFIER, ASSIGN, INT, NEWLINE, EOF}, actualTypes)
}

func TestIteratorEarlyTermination(t *testing.T) {
	tokenizer := NewTokenizer("a = b + c * d\n")

	count := 0
	for range tokenizer.Tokens() {
		count++
		if count >= 3 {
			break
		}
	}

	assert.Equal(t, 3, count)
	assert.Equal(t, PLUS, tokenizer.Next().Type)
}

func TestNextAfterEOF(t *testing.T) {
	tokenizer := NewTokenizer("a")
	tokens := tokenizer.AllTokens()

	assert.Equal(t, []TokenType{IDENTIFIER, NEWLINE, EOF}, tokenTypes(tokens))
	assert.Equal(t, EOF, tokenizer.Next().Type)
	assert.Equal(t, EOF, tokenizer.Next().Type)
}

func TestLayout(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		options  Options
		expected []TokenType
	}{
		{
			name:  "block and dedent",
			input: "if a:\n    b\n    c\nd\n",
			expected: []TokenType{
				IF, IDENTIFIER, COLON, NEWLINE,
				INDENT, IDENTIFIER, NEWLINE, IDENTIFIER, NEWLINE,
				DEDENT, IDENTIFIER, NEWLINE, EOF,
			},
		},
		{
			name:  "dedents unwound at EOF",
			input: "if a:\n  if b:\n    c",
			expected: []TokenType{
				IF, IDENTIFIER, COLON, NEWLINE,
				INDENT, IF, IDENTIFIER, COLON, NEWLINE,
				INDENT, IDENTIFIER, NEWLINE,
				DEDENT, DEDENT, EOF,
			},
		},
		{
			name:  "blank and comment lines keep indentation",
			input: "a\n\n   // note\nb\n",
			expected: []TokenType{
				IDENTIFIER, NEWLINE, COMMENT, IDENTIFIER, NEWLINE, EOF,
			},
		},
		{
			name:     "comments skipped",
			input:    "a // trailing\n# full line\nb\n",
			options:  Options{SkipComments: true},
			expected: []TokenType{IDENTIFIER, NEWLINE, IDENTIFIER, NEWLINE, EOF},
		},
		{
			name:  "newlines inside brackets are whitespace",
			input: "x = [1,\n    2]\ny\n",
			expected: []TokenType{
				IDENTIFIER, ASSIGN, OPENED_BRACKET, INT, COMMA, INT, CLOSED_BRACKET, NEWLINE,
				IDENTIFIER, NEWLINE, EOF,
			},
		},
		{
			name:  "tab counts as tab width",
			input: "if a:\n\tb\n        c\n",
			expected: []TokenType{
				IF, IDENTIFIER, COLON, NEWLINE,
				INDENT, IDENTIFIER, NEWLINE, IDENTIFIER, NEWLINE,
				DEDENT, EOF,
			},
		},
		{
			name:  "arg comment",
			input: "args:\n    name string # the name\n",
			expected: []TokenType{
				ARGS, COLON, NEWLINE,
				INDENT, IDENTIFIER, IDENTIFIER, ARG_COMMENT, NEWLINE,
				DEDENT, EOF,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenizer := NewTokenizer(tt.input, tt.options)
			assert.Equal(t, tt.expected, tokenTypes(tokenizer.AllTokens()))
			assert.Equal(t, 0, len(tokenizer.Diagnostics()))
		})
	}
}

func TestStrings(t *testing.T) {
	type tok struct {
		Type  TokenType
		Value string
	}

	tests := []struct {
		name     string
		input    string
		expected []tok
	}{
		{
			name:  "interpolation",
			input: `"x={a+1}"`,
			expected: []tok{
				{STRING_START, `"`}, {STRING_CONTENT, "x="}, {INTERP_START, "{"},
				{IDENTIFIER, "a"}, {PLUS, "+"}, {INT, "1"},
				{INTERP_END, "}"}, {STRING_END, `"`},
			},
		},
		{
			name:  "escapes and stray backslash",
			input: `"a\nb\q"`,
			expected: []tok{
				{STRING_START, `"`}, {STRING_CONTENT, "a"}, {ESCAPE, `\n`}, {STRING_CONTENT, "b"},
				{STRING_CONTENT, `\`}, {STRING_CONTENT, "q"}, {STRING_END, `"`},
			},
		},
		{
			name:  "raw string",
			input: `r'a{b}\n'`,
			expected: []tok{
				{STRING_START, `r'`}, {STRING_CONTENT, `a{b}\n`}, {STRING_END, `'`},
			},
		},
		{
			name:  "nested string inside interpolation",
			input: "`a{f(\"b\")}c`",
			expected: []tok{
				{STRING_START, "`"}, {STRING_CONTENT, "a"}, {INTERP_START, "{"},
				{IDENTIFIER, "f"}, {OPENED_PARENS, "("},
				{STRING_START, `"`}, {STRING_CONTENT, "b"}, {STRING_END, `"`},
				{CLOSED_PARENS, ")"}, {INTERP_END, "}"},
				{STRING_CONTENT, "c"}, {STRING_END, "`"},
			},
		},
		{
			name:  "map literal inside interpolation",
			input: `"{ {"k": 1}["k"] }"`,
			expected: []tok{
				{STRING_START, `"`}, {INTERP_START, "{"},
				{OPENED_BRACE, "{"}, {STRING_START, `"`}, {STRING_CONTENT, "k"}, {STRING_END, `"`},
				{COLON, ":"}, {INT, "1"}, {CLOSED_BRACE, "}"},
				{OPENED_BRACKET, "["}, {STRING_START, `"`}, {STRING_CONTENT, "k"}, {STRING_END, `"`},
				{CLOSED_BRACKET, "]"}, {INTERP_END, "}"}, {STRING_END, `"`},
			},
		},
		{
			name:  "format specifier",
			input: `"{x:<10.2}"`,
			expected: []tok{
				{STRING_START, `"`}, {INTERP_START, "{"}, {IDENTIFIER, "x"}, {COLON, ":"},
				{LESS_THAN, "<"}, {FLOAT, "10.2"}, {INTERP_END, "}"}, {STRING_END, `"`},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenizer := NewTokenizer(tt.input)

			var actual []tok
			for token := range tokenizer.Tokens() {
				if token.Type == NEWLINE || token.Type == EOF {
					continue
				}

				actual = append(actual, tok{token.Type, token.Value})
			}

			assert.Equal(t, tt.expected, actual)
			assert.Equal(t, 0, len(tokenizer.Diagnostics()))
		})
	}
}

func TestOperators(t *testing.T) {
	input := "+ - * / % += -= *= /= %= ++ -- == != < <= > >= = ? : , . -> $ $! ( ) [ ] { }"
	expected := []TokenType{
		PLUS, MINUS, MULTIPLY, DIVIDE, MODULO,
		PLUS_ASSIGN, MINUS_ASSIGN, MULTIPLY_ASSIGN, DIVIDE_ASSIGN, MODULO_ASSIGN,
		INCREMENT, DECREMENT, EQUAL, NOT_EQUAL, LESS_THAN, LESS_EQUAL, GREATER_THAN, GREATER_EQUAL,
		ASSIGN, QUESTION, COLON, COMMA, DOT, ARROW, DOLLAR, DOLLAR_BANG,
		OPENED_PARENS, CLOSED_PARENS, OPENED_BRACKET, CLOSED_BRACKET, OPENED_BRACE, CLOSED_BRACE,
		NEWLINE, EOF,
	}

	tokenizer := NewTokenizer(input)
	assert.Equal(t, expected, tokenTypes(tokenizer.AllTokens()))
}

func TestKeywordsAndContextualWords(t *testing.T) {
	tokenizer := NewTokenizer("if not x in y and unsafe or quiet confirm fields json true false")
	expected := []TokenType{
		IF, NOT, IDENTIFIER, IN, IDENTIFIER, AND, IDENTIFIER, OR,
		IDENTIFIER, IDENTIFIER, IDENTIFIER, IDENTIFIER, TRUE, FALSE, NEWLINE, EOF,
	}

	assert.Equal(t, expected, tokenTypes(tokenizer.AllTokens()))
	assert.True(t, IF.IsKeyword())
	assert.False(t, IDENTIFIER.IsKeyword())
}

func TestNumbers(t *testing.T) {
	tokens := NewTokenizer("3.14 42 1.x").AllTokens()

	assert.Equal(t, []TokenType{FLOAT, INT, INT, DOT, IDENTIFIER, NEWLINE, EOF}, tokenTypes(tokens))
	assert.Equal(t, "3.14", tokens[0].Value)
	assert.Equal(t, "42", tokens[1].Value)
}

func TestPositions(t *testing.T) {
	tokens := NewTokenizer("a\n  日本 = 1").AllTokens()

	// a NEWLINE INDENT 日本 = 1 NEWLINE DEDENT EOF
	assert.Equal(t, INDENT, tokens[2].Type)
	assert.Equal(t, diag.Position{Offset: 4, Line: 2, Column: 3}, tokens[2].Span.Start)

	word := tokens[3]
	assert.Equal(t, "日本", word.Value)
	assert.Equal(t, diag.Position{Offset: 4, Line: 2, Column: 3}, word.Span.Start)
	assert.Equal(t, diag.Position{Offset: 10, Line: 2, Column: 5}, word.Span.End)

	assign := tokens[4]
	assert.Equal(t, diag.Position{Offset: 11, Line: 2, Column: 6}, assign.Span.Start)
}

func TestShebangAndHeader(t *testing.T) {
	input := "#!/usr/bin/env rad\n\n---\nAbout this script.\n\nMore.\n---\nx = 1\n"
	tokenizer := NewTokenizer(input)
	tokens := tokenizer.AllTokens()

	assert.Equal(t, []TokenType{SHEBANG, FILE_HEADER, IDENTIFIER, ASSIGN, INT, NEWLINE, EOF}, tokenTypes(tokens))
	assert.Equal(t, "#!/usr/bin/env rad", tokens[0].Value)
	assert.Equal(t, "About this script.\n\nMore.\n", tokens[1].Value)
	assert.Equal(t, 8, tokens[2].Span.Start.Line)
	assert.Equal(t, 0, len(tokenizer.Diagnostics()))
}

func TestLexicalErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		options  Options
		expected []TokenType
		category diag.Category
		err      error
	}{
		{
			name:     "unterminated string at EOF",
			input:    `x = "abc`,
			expected: []TokenType{IDENTIFIER, ASSIGN, STRING_START, STRING_CONTENT, STRING_END, NEWLINE, EOF},
			category: diag.LexicalError,
			err:      ErrUnterminatedString,
		},
		{
			name:  "unterminated string resynchronises at newline",
			input: "x = \"abc\ny = 1\n",
			expected: []TokenType{
				IDENTIFIER, ASSIGN, STRING_START, STRING_CONTENT, STRING_END, NEWLINE,
				IDENTIFIER, ASSIGN, INT, NEWLINE, EOF,
			},
			category: diag.LexicalError,
			err:      ErrUnterminatedString,
		},
		{
			name:     "illegal character",
			input:    "a ! b",
			expected: []TokenType{IDENTIFIER, ILLEGAL, IDENTIFIER, NEWLINE, EOF},
			category: diag.LexicalError,
			err:      ErrIllegalCharacter,
		},
		{
			name:     "unterminated header",
			input:    "---\nabc\n",
			expected: []TokenType{FILE_HEADER, EOF},
			category: diag.LexicalError,
			err:      ErrUnterminatedHeader,
		},
		{
			name:     "unbalanced bracket",
			input:    "x = (1\n",
			expected: []TokenType{IDENTIFIER, ASSIGN, OPENED_PARENS, INT, NEWLINE, EOF},
			category: diag.SyntaxError,
			err:      ErrUnbalancedBrackets,
		},
		{
			name:    "interpolation nesting limit",
			input:   `"{"{x}"}"`,
			options: Options{MaxNesting: 1},
			expected: []TokenType{
				STRING_START, INTERP_START, STRING_START,
				STRING_END, INTERP_END, STRING_END, NEWLINE, EOF,
			},
			category: diag.LexicalError,
			err:      ErrNestingTooDeep,
		},
		{
			name:     "multiline string indented less than its closing quotes",
			input:    "x = \"\"\"\n  a\n b\n  \"\"\"\n",
			expected: []TokenType{IDENTIFIER, ASSIGN, STRING_START, STRING_CONTENT, STRING_CONTENT, STRING_CONTENT, STRING_END, NEWLINE, EOF},
			category: diag.LexicalError,
			err:      ErrMultilineIndent,
		},
		{
			name:     "unterminated multiline string",
			input:    "x = \"\"\"\n  a\n",
			expected: []TokenType{IDENTIFIER, ASSIGN, STRING_START, STRING_CONTENT, STRING_CONTENT, STRING_END, NEWLINE, EOF},
			category: diag.LexicalError,
			err:      ErrUnterminatedString,
		},
		{
			name:  "inconsistent dedent",
			input: "if a:\n    b\n  c\nd\n",
			expected: []TokenType{
				IF, IDENTIFIER, COLON, NEWLINE,
				INDENT, IDENTIFIER, NEWLINE,
				DEDENT, IDENTIFIER, NEWLINE,
				IDENTIFIER, NEWLINE, EOF,
			},
			category: diag.StructuralWarning,
			err:      ErrInconsistentDedent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenizer := NewTokenizer(tt.input, tt.options)
			assert.Equal(t, tt.expected, tokenTypes(tokenizer.AllTokens()))

			diags := tokenizer.Diagnostics()
			assert.Equal(t, 1, len(diags))
			assert.Equal(t, tt.category, diags[0].Category)
			assert.True(t, errors.Is(diags[0], tt.err))
		})
	}
}

func TestNestingLimitReportedOnce(t *testing.T) {
	input := "x = " + strings.Repeat(`"{`, 500) + "\ny = 1\n"

	tokenizer := NewTokenizer(input, Options{MaxNesting: 8})
	tokens := tokenizer.AllTokens()

	diags := tokenizer.Diagnostics()
	assert.Equal(t, 1, len(diags))
	assert.True(t, errors.Is(diags[0], ErrNestingTooDeep))

	starts, ends := 0, 0
	for _, tok := range tokens {
		switch tok.Type {
		case STRING_START, INTERP_START:
			starts++
		case STRING_END, INTERP_END:
			ends++
		}
	}

	assert.Equal(t, 17, starts)
	assert.Equal(t, starts, ends)

	tail := tokenTypes(tokens[len(tokens)-5:])
	assert.Equal(t, []TokenType{IDENTIFIER, ASSIGN, INT, NEWLINE, EOF}, tail)
}

func TestMultilineStrings(t *testing.T) {
	type tok struct {
		Type  TokenType
		Value string
	}

	tests := []struct {
		name     string
		input    string
		expected []tok
	}{
		{
			name:  "closing indentation is stripped",
			input: "x = \"\"\"\n    hello\n      {name}\n    \"\"\"\nprint(x)\n",
			expected: []tok{
				{IDENTIFIER, "x"}, {ASSIGN, "="}, {STRING_START, `"""`},
				{STRING_CONTENT, "hello"}, {STRING_CONTENT, "\n"}, {STRING_CONTENT, "  "},
				{INTERP_START, "{"}, {IDENTIFIER, "name"}, {INTERP_END, "}"},
				{STRING_END, `"""`}, {NEWLINE, "\n"},
				{IDENTIFIER, "print"}, {OPENED_PARENS, "("}, {IDENTIFIER, "x"}, {CLOSED_PARENS, ")"},
				{NEWLINE, "\n"}, {EOF, ""},
			},
		},
		{
			name:  "raw with quotes, comment and blank line",
			input: "s = r\"\"\"  // note\n  a \"b\" {c}\n\n  \"\"\"\n",
			expected: []tok{
				{IDENTIFIER, "s"}, {ASSIGN, "="}, {STRING_START, `r"""`}, {COMMENT, "// note"},
				{STRING_CONTENT, `a "b" {c}`}, {STRING_CONTENT, "\n"},
				{STRING_END, `"""`}, {NEWLINE, "\n"}, {EOF, ""},
			},
		},
		{
			name:  "inside an indented block",
			input: "if a:\n    x = \"\"\"\n      one\n      two\n    \"\"\"\n    y\n",
			expected: []tok{
				{IF, "if"}, {IDENTIFIER, "a"}, {COLON, ":"}, {NEWLINE, "\n"},
				{INDENT, ""}, {IDENTIFIER, "x"}, {ASSIGN, "="}, {STRING_START, `"""`},
				{STRING_CONTENT, "  one"}, {STRING_CONTENT, "\n"}, {STRING_CONTENT, "  two"},
				{STRING_END, `"""`}, {NEWLINE, "\n"},
				{IDENTIFIER, "y"}, {NEWLINE, "\n"}, {DEDENT, ""}, {EOF, ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenizer := NewTokenizer(tt.input)

			var actual []tok
			for token := range tokenizer.Tokens() {
				actual = append(actual, tok{token.Type, token.Value})
			}

			assert.Equal(t, tt.expected, actual)
			assert.Equal(t, 0, len(tokenizer.Diagnostics()))
		})
	}
}

func TestInvisibleWhitespace(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{"byte order mark", "\ufeffx = 1\n", []TokenType{IDENTIFIER, ASSIGN, INT, NEWLINE, EOF}},
		{"byte order mark before shebang", "\ufeff#!/usr/bin/env rad\nx\n", []TokenType{SHEBANG, IDENTIFIER, NEWLINE, EOF}},
		{"zero width space between tokens", "a\u200b=\u2060b\n", []TokenType{IDENTIFIER, ASSIGN, IDENTIFIER, NEWLINE, EOF}},
		{"zero width space in indentation", "if a:\n\u200b    b\n", []TokenType{IF, IDENTIFIER, COLON, NEWLINE, INDENT, IDENTIFIER, NEWLINE, DEDENT, EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenizer := NewTokenizer(tt.input)
			assert.Equal(t, tt.expected, tokenTypes(tokenizer.AllTokens()))
			assert.Equal(t, 0, len(tokenizer.Diagnostics()))
		})
	}
}

func TestUnterminatedStringSpan(t *testing.T) {
	tokenizer := NewTokenizer(`x = "abc`)
	tokens := tokenizer.AllTokens()

	end := tokens[4]
	assert.Equal(t, STRING_END, end.Type)
	assert.Equal(t, "", end.Value)
	assert.Equal(t, 8, end.Span.Start.Offset)
	assert.Equal(t, 0, end.Span.Len())

	d := tokenizer.Diagnostics()[0]
	assert.Equal(t, 4, d.Span.Start.Offset)
	assert.Equal(t, 8, d.Span.End.Offset)
}

func TestIndentStack(t *testing.T) {
	s := NewIndentStack()
	assert.Equal(t, 0, s.Top())

	s.Push(4)
	s.Push(8)
	assert.Equal(t, []int{4, 8}, s.Widths())

	dedents, consistent := s.Dedent(4)
	assert.Equal(t, 1, dedents)
	assert.True(t, consistent)

	dedents, consistent = s.Dedent(2)
	assert.Equal(t, 1, dedents)
	assert.False(t, consistent)
	assert.Equal(t, []int{2}, s.Widths())

	// silent levels produce no DEDENT
	dedents, consistent = s.Dedent(0)
	assert.Equal(t, 0, dedents)
	assert.True(t, consistent)
	assert.Equal(t, 0, s.Len())

	s.Push(2)
	s.PushSilent(3)
	s.Push(6)
	assert.Equal(t, 2, s.Unwind())
}

func TestBracketDepth(t *testing.T) {
	var b BracketDepth
	assert.False(t, b.Suppressed())
	assert.False(t, b.Close(0))
	assert.Equal(t, 0, b.Depth())

	b.Open()
	b.Open()
	assert.True(t, b.Suppressed())
	assert.False(t, b.Close(2))
	assert.True(t, b.Close(0))
	assert.Equal(t, 1, b.Depth())

	b.Reset(-3)
	assert.Equal(t, 0, b.Depth())
}
