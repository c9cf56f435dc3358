package rules

import (
	"strings"

	_ "embed"
)

//go:generate go run ../../internal/schemagen -o frontmatter.v1beta1.json

//go:embed frontmatter.v1beta1.json
var schemaJSON []byte

// Frontmatter is the metadata header of a rule document. All fields are
// optional; omitted fields fall back to the source defaults.
type Frontmatter struct {
	// Origin overrides the precedence tier implied by the source location.
	Origin string `json:"origin,omitempty" jsonschema:"title=Origin,enum=global,enum=workspace,enum=project,enum=reference"`
	// Scope is an ordered set of path globs; empty applies everywhere.
	Scope []string `json:"scope,omitempty" jsonschema:"title=Scope Patterns"`
	// Tools names the consuming tools this document is relevant to; empty
	// applies to all tools.
	Tools []string `json:"tools,omitempty" jsonschema:"title=Tool Targets"`
	// References names other documents this one includes, in order.
	References []string `json:"references,omitempty" jsonschema:"title=References"`
}

const frontmatterDelimiter = "---"

// ExtractFrontmatter splits raw document text into its front-matter header
// and body. Documents without a front-matter fence are all body.
func ExtractFrontmatter(content string) (meta, body string, ok bool) {
	if !strings.HasPrefix(content, frontmatterDelimiter+"\n") &&
		!strings.HasPrefix(content, frontmatterDelimiter+"\r\n") {
		return "", content, false
	}

	// Skip the opening fence line.
	rest := content[len(frontmatterDelimiter):]
	rest = strings.TrimPrefix(rest, "\r")
	rest = strings.TrimPrefix(rest, "\n")

	for _, fence := range []string{"\n" + frontmatterDelimiter + "\n", "\n" + frontmatterDelimiter + "\r\n"} {
		if idx := strings.Index(rest, fence); idx >= 0 {
			return rest[:idx], rest[idx+len(fence):], true
		}
	}

	// A closing fence at end-of-input with no trailing newline.
	if rest2, found := strings.CutSuffix(rest, "\n"+frontmatterDelimiter); found {
		return rest2, "", true
	}

	return "", content, false
}
