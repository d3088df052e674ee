package token

import "fmt"

// Token is a source position attached to AST nodes and diagnostics.
// Line and Column are 1-based; a zero Line means the position is unknown.
type Token struct {
	File   string
	Line   int
	Column int
	Lexeme string
}

func (t Token) IsZero() bool {
	return t.Line == 0 && t.Column == 0 && t.File == ""
}

func (t Token) String() string {
	if t.File != "" {
		return fmt.Sprintf("%s:%d:%d", t.File, t.Line, t.Column)
	}
	return fmt.Sprintf("%d:%d", t.Line, t.Column)
}
