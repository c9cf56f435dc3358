package resolve

import (
	"strings"
)

// Request is the context an effective rule set is computed for.
type Request struct {
	// TargetPath is the file the consuming tool is working on.
	TargetPath string `json:"targetPath"`
	// ToolID identifies the consuming tool.
	ToolID string `json:"toolId"`
}

// TaggedBlock is one content block in an effective rule set, tagged with the
// document it originated from for traceability.
type TaggedBlock struct {
	DocID string `json:"docId"`
	Text  string `json:"text"`
}

// Conflict records two co-applicable documents whose content was judged to
// address the same guidance topic. Both sides stay in the rule set; the
// conflict list exists so the external consumer can decide how to present it.
type Conflict struct {
	DocA string `json:"docA"`
	DocB string `json:"docB"`
}

// EffectiveRuleSet is the deduplicated, precedence-ordered composition of all
// applicable documents for a request. Later blocks refine earlier ones.
type EffectiveRuleSet struct {
	Blocks    []TaggedBlock `json:"blocks"`
	Conflicts []Conflict    `json:"conflicts,omitempty"`
}

// Empty reports whether no document applied. This is a normal outcome, not an
// error.
func (e *EffectiveRuleSet) Empty() bool {
	return len(e.Blocks) == 0
}

// Text renders the rule set as plain text, blocks separated by blank lines,
// exactly as handed to the consuming tool.
func (e *EffectiveRuleSet) Text() string {
	parts := make([]string, len(e.Blocks))
	for i, b := range e.Blocks {
		parts[i] = b.Text
	}

	return strings.Join(parts, "\n\n")
}
