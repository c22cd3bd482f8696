package parser

import "errors"

// Sentinel errors - Parser related
var (
	// Token level errors
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrMissingElement  = errors.New("missing required element")
	ErrInvalidNumber   = errors.New("invalid number literal")
	ErrNestingTooDeep  = errors.New("maximum nesting depth exceeded")

	// Statement errors
	ErrUnexpectedIndent    = errors.New("unexpected indent")
	ErrInvalidTarget       = errors.New("invalid assignment target")
	ErrInvalidShellCommand = errors.New("invalid shell command")
	ErrDuplicateDefault    = errors.New("duplicate default clause")

	// Call errors
	ErrArgumentOrder = errors.New("positional argument follows named argument")

	// Args block errors
	ErrMisplacedArgBlock = errors.New("args block must precede other statements")
	ErrDefaultMismatch   = errors.New("default value does not match declared type")
	ErrInvalidConstraint = errors.New("invalid argument constraint")
)
