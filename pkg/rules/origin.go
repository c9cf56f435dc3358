package rules

import (
	"fmt"
)

// Origin is the precedence class of a document's source. Documents from a
// higher tier refine documents from a lower tier when both apply.
type Origin string

const (
	// OriginGlobal marks machine-wide documents, e.g. from a user config dir.
	OriginGlobal Origin = "global"
	// OriginWorkspace marks documents shared across projects in a workspace.
	OriginWorkspace Origin = "workspace"
	// OriginProject marks documents scoped to a single project.
	OriginProject Origin = "project"
	// OriginReference marks documents that exist to be pulled in explicitly
	// via references from other documents.
	OriginReference Origin = "reference"
)

// AllOrigins lists every valid origin, lowest precedence tier first.
var AllOrigins = []Origin{
	OriginGlobal,
	OriginWorkspace,
	OriginProject,
	OriginReference,
}

// ParseOrigin converts s into an [Origin].
func ParseOrigin(s string) (Origin, error) {
	o := Origin(s)
	if !o.Valid() {
		return "", fmt.Errorf("unknown origin %q, must be one of %v", s, AllOrigins)
	}

	return o, nil
}

func (o Origin) Valid() bool {
	switch o {
	case OriginGlobal, OriginWorkspace, OriginProject, OriginReference:
		return true
	}

	return false
}

// Tier returns the base precedence tier, lower sorts earlier.
func (o Origin) Tier() int {
	switch o {
	case OriginGlobal:
		return 0
	case OriginWorkspace:
		return 1
	case OriginProject:
		return 2
	case OriginReference:
		return 3
	}

	return -1
}

func (o Origin) String() string {
	return string(o)
}
