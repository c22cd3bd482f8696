package tokenizer

import (
	"errors"

	"github.com/shibukawa/radlang/diag"
)

// Sentinel errors
var (
	ErrIllegalCharacter   = errors.New("illegal character")
	ErrUnterminatedString = errors.New("unterminated string literal")
	ErrUnterminatedHeader = errors.New("unterminated file header")
	ErrNestingTooDeep     = errors.New("maximum nesting depth exceeded")
	ErrInconsistentDedent = errors.New("inconsistent dedent")
	ErrUnbalancedBrackets = errors.New("unbalanced bracket at end of input")
	ErrMultilineIndent    = errors.New("multiline string line is indented less than its closing quotes")
)

// TokenType represents the type of a token
type TokenType int

const (
	// Basic tokens
	EOF TokenType = iota
	ILLEGAL
	IDENTIFIER // identifiers and contextual words
	INT        // 42
	FLOAT      // 3.14

	// Layout
	NEWLINE
	INDENT
	DEDENT

	// Trivia and file metadata
	COMMENT     // // line comment
	ARG_COMMENT // # trailing comment of an arg declaration
	SHEBANG     // #!/usr/bin/env rad
	FILE_HEADER // --- ... ---

	// Strings
	STRING_START   // ", ', `, """ and their r-prefixed forms
	STRING_CONTENT // literal run inside a string
	ESCAPE         // \n, \t, \\, \{, ...
	INTERP_START   // {
	INTERP_END     // }
	STRING_END     // closing quote (empty value when synthesised)

	// Keywords
	IF
	ELSE
	FOR
	WHILE
	SWITCH
	CASE
	DEFAULT
	YIELD
	ARGS
	RAD
	REQUEST
	DISPLAY
	DEFER
	ERRDEFER
	DEL
	BREAK
	CONTINUE
	IN
	NOT
	AND
	OR
	TRUE
	FALSE

	// Arithmetic operators
	PLUS     // +
	MINUS    // -
	MULTIPLY // *
	DIVIDE   // /
	MODULO   // %

	// Assignment operators
	ASSIGN          // =
	PLUS_ASSIGN     // +=
	MINUS_ASSIGN    // -=
	MULTIPLY_ASSIGN // *=
	DIVIDE_ASSIGN   // /=
	MODULO_ASSIGN   // %=
	INCREMENT       // ++
	DECREMENT       // --

	// Comparison operators
	EQUAL         // ==
	NOT_EQUAL     // !=
	LESS_THAN     // <
	LESS_EQUAL    // <=
	GREATER_THAN  // >
	GREATER_EQUAL // >=

	// Punctuation
	QUESTION       // ?
	COLON          // :
	COMMA          // ,
	DOT            // .
	ARROW          // ->
	DOLLAR         // $
	DOLLAR_BANG    // $!
	OPENED_PARENS  // (
	CLOSED_PARENS  // )
	OPENED_BRACKET // [
	CLOSED_BRACKET // ]
	OPENED_BRACE   // {
	CLOSED_BRACE   // }
)

var keywords = map[string]TokenType{
	"if":       IF,
	"else":     ELSE,
	"for":      FOR,
	"while":    WHILE,
	"switch":   SWITCH,
	"case":     CASE,
	"default":  DEFAULT,
	"yield":    YIELD,
	"args":     ARGS,
	"rad":      RAD,
	"request":  REQUEST,
	"display":  DISPLAY,
	"defer":    DEFER,
	"errdefer": ERRDEFER,
	"del":      DEL,
	"break":    BREAK,
	"continue": CONTINUE,
	"in":       IN,
	"not":      NOT,
	"and":      AND,
	"or":       OR,
	"true":     TRUE,
	"false":    FALSE,
}

// LookupKeyword returns the keyword token type for word, or IDENTIFIER.
func LookupKeyword(word string) TokenType {
	if tt, ok := keywords[word]; ok {
		return tt
	}

	return IDENTIFIER
}

// IsKeyword reports whether the token type is a reserved word.
func (t TokenType) IsKeyword() bool {
	return t >= IF && t <= FALSE
}

// IsTrivia reports whether the token carries no syntax.
func (t TokenType) IsTrivia() bool {
	return t == COMMENT
}

// String returns the string representation of TokenType
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case ILLEGAL:
		return "ILLEGAL"
	case IDENTIFIER:
		return "IDENTIFIER"
	case INT:
		return "INT"
	case FLOAT:
		return "FLOAT"
	case NEWLINE:
		return "NEWLINE"
	case INDENT:
		return "INDENT"
	case DEDENT:
		return "DEDENT"
	case COMMENT:
		return "COMMENT"
	case ARG_COMMENT:
		return "ARG_COMMENT"
	case SHEBANG:
		return "SHEBANG"
	case FILE_HEADER:
		return "FILE_HEADER"
	case STRING_START:
		return "STRING_START"
	case STRING_CONTENT:
		return "STRING_CONTENT"
	case ESCAPE:
		return "ESCAPE"
	case INTERP_START:
		return "INTERP_START"
	case INTERP_END:
		return "INTERP_END"
	case STRING_END:
		return "STRING_END"
	case IF:
		return "IF"
	case ELSE:
		return "ELSE"
	case FOR:
		return "FOR"
	case WHILE:
		return "WHILE"
	case SWITCH:
		return "SWITCH"
	case CASE:
		return "CASE"
	case DEFAULT:
		return "DEFAULT"
	case YIELD:
		return "YIELD"
	case ARGS:
		return "ARGS"
	case RAD:
		return "RAD"
	case REQUEST:
		return "REQUEST"
	case DISPLAY:
		return "DISPLAY"
	case DEFER:
		return "DEFER"
	case ERRDEFER:
		return "ERRDEFER"
	case DEL:
		return "DEL"
	case BREAK:
		return "BREAK"
	case CONTINUE:
		return "CONTINUE"
	case IN:
		return "IN"
	case NOT:
		return "NOT"
	case AND:
		return "AND"
	case OR:
		return "OR"
	case TRUE:
		return "TRUE"
	case FALSE:
		return "FALSE"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case MULTIPLY:
		return "MULTIPLY"
	case DIVIDE:
		return "DIVIDE"
	case MODULO:
		return "MODULO"
	case ASSIGN:
		return "ASSIGN"
	case PLUS_ASSIGN:
		return "PLUS_ASSIGN"
	case MINUS_ASSIGN:
		return "MINUS_ASSIGN"
	case MULTIPLY_ASSIGN:
		return "MULTIPLY_ASSIGN"
	case DIVIDE_ASSIGN:
		return "DIVIDE_ASSIGN"
	case MODULO_ASSIGN:
		return "MODULO_ASSIGN"
	case INCREMENT:
		return "INCREMENT"
	case DECREMENT:
		return "DECREMENT"
	case EQUAL:
		return "EQUAL"
	case NOT_EQUAL:
		return "NOT_EQUAL"
	case LESS_THAN:
		return "LESS_THAN"
	case LESS_EQUAL:
		return "LESS_EQUAL"
	case GREATER_THAN:
		return "GREATER_THAN"
	case GREATER_EQUAL:
		return "GREATER_EQUAL"
	case QUESTION:
		return "QUESTION"
	case COLON:
		return "COLON"
	case COMMA:
		return "COMMA"
	case DOT:
		return "DOT"
	case ARROW:
		return "ARROW"
	case DOLLAR:
		return "DOLLAR"
	case DOLLAR_BANG:
		return "DOLLAR_BANG"
	case OPENED_PARENS:
		return "OPENED_PARENS"
	case CLOSED_PARENS:
		return "CLOSED_PARENS"
	case OPENED_BRACKET:
		return "OPENED_BRACKET"
	case CLOSED_BRACKET:
		return "CLOSED_BRACKET"
	case OPENED_BRACE:
		return "OPENED_BRACE"
	case CLOSED_BRACE:
		return "CLOSED_BRACE"
	default:
		return "UNKNOWN"
	}
}

// Token represents a token
type Token struct {
	Type  TokenType
	Value string
	Span  diag.Span
}

// Pos returns the start position of the token.
func (t Token) Pos() diag.Position {
	return t.Span.Start
}

// Is reports whether the token is an IDENTIFIER spelled word.
func (t Token) Is(word string) bool {
	return t.Type == IDENTIFIER && t.Value == word
}

// String returns the string representation of Token
func (t Token) String() string {
	return t.Type.String() + ": " + t.Value
}
