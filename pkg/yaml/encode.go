package yaml

import (
	"io"

	"github.com/goccy/go-yaml"
)

// Encoder writes effective rule sets for `--output yaml`. Two-space indent
// with indented sequences, matching the front-matter style of the documents
// themselves.
type Encoder struct {
	e *yaml.Encoder
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		e: yaml.NewEncoder(w, yaml.Indent(2), yaml.IndentSequence(true)),
	}
}

func (e *Encoder) Encode(v any) error {
	return e.e.Encode(v) //nolint:wrapcheck // Return the original error.
}

func (e *Encoder) Close() error {
	return e.e.Close() //nolint:wrapcheck // Return the original error.
}
