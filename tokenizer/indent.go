package tokenizer

import (
	"github.com/emirpasic/gods/stacks/arraystack"
)

type indentLevel struct {
	width  int
	silent bool
}

// IndentStack tracks the indentation widths of the open blocks.
// Widths are strictly increasing from bottom to top; an empty stack has width 0.
// A silent level was pushed during dedent recovery and never produced an INDENT,
// so popping it never produces a DEDENT.
type IndentStack struct {
	levels *arraystack.Stack
}

// NewIndentStack creates an empty indentation stack.
func NewIndentStack() *IndentStack {
	return &IndentStack{levels: arraystack.New()}
}

// Top returns the innermost width.
func (s *IndentStack) Top() int {
	top, ok := s.levels.Peek()
	if !ok {
		return 0
	}

	return top.(indentLevel).width
}

// Len returns the number of open levels, silent ones included.
func (s *IndentStack) Len() int {
	return s.levels.Size()
}

// Push opens a level that produced an INDENT.
func (s *IndentStack) Push(width int) {
	s.levels.Push(indentLevel{width: width})
}

// PushSilent opens a level without a matching INDENT.
func (s *IndentStack) PushSilent(width int) {
	s.levels.Push(indentLevel{width: width, silent: true})
}

// Pop removes the innermost level.
func (s *IndentStack) Pop() (width int, silent bool, ok bool) {
	v, ok := s.levels.Pop()
	if !ok {
		return 0, false, false
	}

	level := v.(indentLevel)

	return level.width, level.silent, true
}

// Dedent pops every level wider than width. It returns how many DEDENT tokens
// the pops produce and whether width matches the remaining top. On mismatch
// width is pushed silently so the stack stays consistent with the source.
func (s *IndentStack) Dedent(width int) (dedents int, consistent bool) {
	for s.Len() > 0 && s.Top() > width {
		_, silent, _ := s.Pop()
		if !silent {
			dedents++
		}
	}

	if s.Top() == width {
		return dedents, true
	}

	s.PushSilent(width)

	return dedents, false
}

// Unwind pops everything and returns the number of DEDENT tokens owed.
func (s *IndentStack) Unwind() int {
	dedents := 0
	for s.Len() > 0 {
		if _, silent, _ := s.Pop(); !silent {
			dedents++
		}
	}

	return dedents
}

// Widths returns the open widths from outermost to innermost.
func (s *IndentStack) Widths() []int {
	values := s.levels.Values()
	widths := make([]int, len(values))

	for i, v := range values {
		widths[len(values)-1-i] = v.(indentLevel).width
	}

	return widths
}

// BracketDepth counts open brackets. While the depth is positive newlines
// and indentation are insignificant.
type BracketDepth struct {
	depth int
}

// Depth returns the current nesting.
func (b *BracketDepth) Depth() int {
	return b.depth
}

// Open records an opening bracket.
func (b *BracketDepth) Open() {
	b.depth++
}

// Close records a closing bracket. It never goes below floor and reports
// whether the bracket balanced an open one.
func (b *BracketDepth) Close(floor int) bool {
	if b.depth <= floor {
		return false
	}

	b.depth--

	return true
}

// Reset restores a depth recorded earlier.
func (b *BracketDepth) Reset(depth int) {
	b.depth = max(depth, 0)
}

// Suppressed reports whether layout tokens are currently suppressed.
func (b *BracketDepth) Suppressed() bool {
	return b.depth > 0
}
