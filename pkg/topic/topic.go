// Package topic decides whether two rule content blocks address the same
// guidance topic. The resolution engine only does structural bookkeeping of
// conflicts; the semantic judgment is delegated to a pluggable [Classifier].
package topic

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/macropower/regent/pkg/expr"
)

// Classifier reports whether two content blocks address the same guidance
// topic. Implementations must be safe for concurrent use.
type Classifier interface {
	SameTopic(a, b string) bool
}

// Nop returns a [Classifier] that never matches. It is the default: with no
// external classifier configured, the engine flags no conflicts.
func Nop() Classifier {
	return nopClassifier{}
}

type nopClassifier struct{}

func (nopClassifier) SameTopic(_, _ string) bool { return false }

// CELClassifier judges topic equality with a CEL expression.
//
// The expression has access to variables:
//   - `a` (string): The first content block.
//   - `b` (string): The second content block.
//
// It must return a boolean value, e.g.:
//   - a.contains("naming") && b.contains("naming")
//   - a.matches("(?i)error handling") && b.matches("(?i)error handling")
type CELClassifier struct {
	program cel.Program

	// Expression is the CEL source this classifier was built from.
	Expression string
}

// NewCEL compiles expression into a [CELClassifier].
func NewCEL(expression string) (*CELClassifier, error) {
	env, err := expr.NewEnvironment(
		cel.Variable("a", cel.StringType),
		cel.Variable("b", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	program, err := env.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("classifier %q: %w", expression, err)
	}

	return &CELClassifier{
		program:    program,
		Expression: expression,
	}, nil
}

// MustNewCEL compiles expression and panics if it is invalid.
func MustNewCEL(expression string) *CELClassifier {
	c, err := NewCEL(expression)
	if err != nil {
		panic(err)
	}

	return c
}

// SameTopic evaluates the expression against the two blocks. Evaluation
// failures and non-boolean results are treated as a non-match.
func (c *CELClassifier) SameTopic(a, b string) bool {
	result, _, err := c.program.Eval(map[string]any{
		"a": a,
		"b": b,
	})
	if err != nil {
		return false
	}

	if boolVal, ok := result.Value().(bool); ok {
		return boolVal
	}

	return false
}
