package rules

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/macropower/regent/pkg/scope"
	"github.com/macropower/regent/pkg/yaml"
)

// DefaultValidator checks front-matter metadata against the embedded schema.
var DefaultValidator = yaml.MustNewValidator(
	"https://github.com/macropower/regent/pkg/rules/frontmatter.v1beta1.json",
	schemaJSON,
)

// Source is one raw rule document: an identifier derived from its location,
// the origin tier implied by that location, and the raw bytes.
type Source struct {
	ID     string
	Origin Origin
	Data   []byte
}

// Load parses sources into an immutable document [Set].
//
// Malformed documents are excluded and reported in the returned warnings, the
// load continues without them. Two sources producing the same ID abort the
// load with a [DuplicateDocumentError]. References are normalized to exact
// document IDs; a document referencing an unknown ID is treated as malformed,
// and exclusion cascades to documents that referenced it in turn.
func Load(sources []Source) (*Set, []Warning, error) {
	docs := make(map[string]*Document, len(sources))
	seen := make(map[string]bool, len(sources))

	var warnings []Warning

	for _, src := range sources {
		if src.ID == "" {
			return nil, nil, errors.New("source with empty ID")
		}

		// Duplicate IDs are fatal even when one of the two is malformed.
		if seen[src.ID] {
			return nil, nil, &DuplicateDocumentError{ID: src.ID}
		}

		seen[src.ID] = true

		doc, err := parseDocument(src)
		if err != nil {
			warnings = append(warnings, Warning{ID: src.ID, Err: err})

			continue
		}

		docs[doc.ID] = doc
	}

	warnings = append(warnings, resolveReferences(docs)...)

	all := make([]*Document, 0, len(docs))
	for _, d := range docs {
		all = append(all, d)
	}

	set, err := NewSet(all...)
	if err != nil {
		return nil, nil, err
	}

	return set, warnings, nil
}

// parseDocument builds a [Document] from one raw source. Any failure is
// wrapped in a [MalformedDocumentError].
func parseDocument(src Source) (*Document, error) {
	meta, body, _ := ExtractFrontmatter(string(src.Data))

	fm, err := decodeFrontmatter(meta)
	if err != nil {
		return nil, &MalformedDocumentError{ID: src.ID, Err: err}
	}

	origin := src.Origin
	if fm.Origin != "" {
		origin, err = ParseOrigin(fm.Origin)
		if err != nil {
			return nil, &MalformedDocumentError{ID: src.ID, Err: err}
		}
	}

	if !origin.Valid() {
		return nil, &MalformedDocumentError{
			ID:  src.ID,
			Err: errors.New("no origin declared in front-matter or source"),
		}
	}

	if err := scope.Validate(fm.Scope); err != nil {
		return nil, &MalformedDocumentError{ID: src.ID, Err: err}
	}

	for _, ref := range fm.References {
		if ref == src.ID {
			return nil, &MalformedDocumentError{
				ID:  src.ID,
				Err: errors.New("document references itself"),
			}
		}
	}

	return &Document{
		ID:            src.ID,
		Origin:        origin,
		ScopePatterns: fm.Scope,
		ToolTargets:   fm.Tools,
		References:    fm.References,
		Blocks:        SplitBody(body),
		Fingerprint:   Fingerprint(src.Data),
	}, nil
}

// decodeFrontmatter validates the metadata header against the embedded JSON
// schema, then decodes it into a [Frontmatter].
func decodeFrontmatter(meta string) (*Frontmatter, error) {
	fm := &Frontmatter{}
	if strings.TrimSpace(meta) == "" {
		return fm, nil
	}

	var anyMeta any

	dec := yaml.NewDecoder(strings.NewReader(meta))
	if err := dec.Decode(&anyMeta); err != nil {
		return nil, fmt.Errorf("decode front-matter: %w", err)
	}

	if err := DefaultValidator.Validate(anyMeta); err != nil {
		return nil, fmt.Errorf("validate front-matter: %w", err)
	}

	dec = yaml.NewDecoder(strings.NewReader(meta))
	if err := dec.Decode(fm); err != nil {
		return nil, fmt.Errorf("decode front-matter: %w", err)
	}

	return fm, nil
}

// resolveReferences rewrites references to exact document IDs and excludes
// documents whose references cannot be resolved. Excluding a document can
// orphan references in other documents, so exclusion repeats to a fixpoint.
func resolveReferences(docs map[string]*Document) []Warning {
	var warnings []Warning

	for _, d := range sortedDocs(docs) {
		for i, ref := range d.References {
			if _, ok := docs[ref]; ok {
				continue
			}

			// Allow references relative to the referencing document.
			candidate := path.Join(path.Dir(d.ID), ref)
			if _, ok := docs[candidate]; ok {
				d.References[i] = candidate
			}
		}
	}

	for {
		var excluded []string

		for _, d := range sortedDocs(docs) {
			for _, ref := range d.References {
				if _, ok := docs[ref]; ok {
					continue
				}

				warnings = append(warnings, Warning{
					ID: d.ID,
					Err: &MalformedDocumentError{
						ID:  d.ID,
						Err: fmt.Errorf("reference to unknown document %q", ref),
					},
				})
				excluded = append(excluded, d.ID)

				break
			}
		}

		if len(excluded) == 0 {
			return warnings
		}

		for _, id := range excluded {
			delete(docs, id)
		}
	}
}

func sortedDocs(docs map[string]*Document) []*Document {
	out := make([]*Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}
