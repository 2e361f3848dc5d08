// Package analysis implements OpenABL's semantic analysis pass: the single
// walk that resolves every VarExpression to a VarId, types every expression,
// folds the environment and const declarations to compile-time types.Value,
// and enforces the language's structural invariants.
package analysis

import (
	"fmt"

	"github.com/openabl/openabl-go/internal/ast"
)

// Error is a single semantic diagnostic, shaped like internal/errors'
// CompilerError but specialized to carry the offending ast.Location
// directly rather than a re-derived lexer.Position.
type Error struct {
	Loc     ast.Location
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s on line %d", e.Message, e.Loc.Begin.Line)
}

// errorStream accumulates diagnostics during a walk instead of failing on
// the first one, so `openabl lint` can report every problem in a script in
// a single pass.
type errorStream struct {
	errs []*Error
}

func (s *errorStream) add(loc ast.Location, format string, args ...interface{}) {
	s.errs = append(s.errs, &Error{Loc: loc, Message: fmt.Sprintf(format, args...)})
}

func (s *errorStream) ok() bool { return len(s.errs) == 0 }
