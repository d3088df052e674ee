package diagnostics

import (
	"fmt"
	"github.com/funvibe/mathsema/internal/token"
	"sort"
)

type ErrorCode string

// Phase names the stage that produced a diagnostic.
type Phase string

const (
	PhaseLoader   Phase = "loader"
	PhaseAnalyzer Phase = "analyzer"
	PhaseInternal Phase = "internal"
)

const (
	ErrA001 ErrorCode = "A001" // unresolved identifier
	ErrA002 ErrorCode = "A002" // type mismatch
	ErrA003 ErrorCode = "A003" // field not found
	ErrA004 ErrorCode = "A004" // wrong argument count
	ErrA005 ErrorCode = "A005" // parameter mode mismatch
	ErrA006 ErrorCode = "A006" // argument kind or type mismatch
	ErrA007 ErrorCode = "A007" // non-self-referential inductive definition
	ErrA008 ErrorCode = "A008" // no matching overload
	ErrA009 ErrorCode = "A009" // procedure does not conform to its operation
	ErrA010 ErrorCode = "A010" // numeric theory not visible
	ErrA011 ErrorCode = "A011" // unknown or cyclic module
	ErrA012 ErrorCode = "A012" // duplicate declaration
	ErrL001 ErrorCode = "L001" // unit decoding error
	ErrI001 ErrorCode = "I001" // internal fault
)

// DiagnosticError is a user-facing problem found while loading or analyzing a unit.
type DiagnosticError struct {
	Phase   Phase
	Code    ErrorCode
	Token   token.Token
	File    string
	Message string
}

func (e *DiagnosticError) Error() string {
	loc := ""
	file := e.File
	if file == "" {
		file = e.Token.File
	}
	if e.Token.Line > 0 {
		if file != "" {
			loc = fmt.Sprintf("%s:%d:%d: ", file, e.Token.Line, e.Token.Column)
		} else {
			loc = fmt.Sprintf("%d:%d: ", e.Token.Line, e.Token.Column)
		}
	} else if file != "" {
		loc = file + ": "
	}
	return fmt.Sprintf("%s[%s] error [%s]: %s", loc, e.Phase, e.Code, e.Message)
}

func NewError(code ErrorCode, tok token.Token, msg string) *DiagnosticError {
	return &DiagnosticError{Phase: PhaseAnalyzer, Code: code, Token: tok, File: tok.File, Message: msg}
}

func NewErrorf(code ErrorCode, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	return NewError(code, tok, fmt.Sprintf(format, args...))
}

func NewLoaderError(tok token.Token, msg string) *DiagnosticError {
	return &DiagnosticError{Phase: PhaseLoader, Code: ErrL001, Token: tok, File: tok.File, Message: msg}
}

// Collector accumulates reported errors for one analysis run.
// Errors at the same position with the same code are reported once; the
// first message wins.
type Collector struct {
	errorSet map[string]*DiagnosticError
	order    []string
	reported int
}

func NewCollector() *Collector {
	return &Collector{errorSet: make(map[string]*DiagnosticError)}
}

// Add records err. Every call moves the checkpoint counter, duplicates
// included, so checkpoints observe re-reported problems too.
func (c *Collector) Add(err *DiagnosticError) {
	c.reported++
	key := dedupKey(err)
	if _, exists := c.errorSet[key]; exists {
		return
	}
	c.order = append(c.order, key)
	c.errorSet[key] = err
}

// dedupKey is file:line:col:code. Errors without a position also keep
// their message, since nothing else tells them apart.
func dedupKey(err *DiagnosticError) string {
	key := fmt.Sprintf("%s:%d:%d:%s", err.Token.File, err.Token.Line, err.Token.Column, err.Code)
	if err.Token.Line == 0 && err.Token.Column == 0 {
		key += ":" + err.Message
	}
	return key
}

// Count returns the number of unique errors, the same number Errors returns.
func (c *Collector) Count() int {
	return len(c.order)
}

// Checkpoint marks the current error count.
func (c *Collector) Checkpoint() int {
	return c.reported
}

// Since returns how many errors were reported after checkpoint.
func (c *Collector) Since(checkpoint int) int {
	return c.reported - checkpoint
}

// Errors returns unique errors sorted by position. Errors without a position
// keep their report order and come first.
func (c *Collector) Errors() []*DiagnosticError {
	result := make([]*DiagnosticError, 0, len(c.order))
	for _, key := range c.order {
		result = append(result, c.errorSet[key])
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Token.File != result[j].Token.File {
			return result[i].Token.File < result[j].Token.File
		}
		if result[i].Token.Line != result[j].Token.Line {
			return result[i].Token.Line < result[j].Token.Line
		}
		return result[i].Token.Column < result[j].Token.Column
	})
	return result
}

// HasCode reports whether an error with the given code was collected.
func (c *Collector) HasCode(code ErrorCode) bool {
	for _, err := range c.errorSet {
		if err.Code == code {
			return true
		}
	}
	return false
}
