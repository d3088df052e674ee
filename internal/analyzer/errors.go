package analyzer

import (
	"fmt"

	"github.com/funvibe/mathsema/internal/diagnostics"
	"github.com/funvibe/mathsema/internal/token"
)

// ResolutionError is a failure to type an expression. When the failure was
// reported, Reported is true and Diag is in the analyzer's collector;
// quiet resolution produces unreported errors that callers drop.
type ResolutionError struct {
	Diag     *diagnostics.DiagnosticError
	Reported bool
}

func (e *ResolutionError) Error() string {
	return e.Diag.Error()
}

func (e *ResolutionError) Unwrap() error {
	return e.Diag
}

// InternalFault signals that the analysis contradicted a guarantee of an
// earlier step. It is raised with panic and recovered by Analyze.
type InternalFault struct {
	Token   token.Token
	Message string
	Cause   error
}

func (f *InternalFault) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("internal fault: %s: %v", f.Message, f.Cause)
	}
	return "internal fault: " + f.Message
}

func (f *InternalFault) Unwrap() error {
	return f.Cause
}

func fault(tok token.Token, cause error, format string, args ...interface{}) *InternalFault {
	return &InternalFault{Token: tok, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// asFault converts a recovered panic value into an InternalFault.
func asFault(r interface{}) *InternalFault {
	switch v := r.(type) {
	case *InternalFault:
		return v
	case error:
		return &InternalFault{Message: "unexpected failure", Cause: v}
	default:
		return &InternalFault{Message: fmt.Sprint(v)}
	}
}
