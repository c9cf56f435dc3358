// Package rules defines the rule document model and the loader that turns raw
// sources (front-matter metadata plus an opaque body) into immutable
// [Document] values collected in a [Set].
package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// Block is one opaque unit of guidance text. The engine never interprets
// block contents; it only orders and deduplicates them.
type Block struct {
	Text string
}

// Document is the immutable parsed representation of one rule source.
type Document struct {
	// ID is a stable identifier derived from the source location, unique
	// within a load session.
	ID string

	// Origin determines the document's base precedence tier.
	Origin Origin

	// ScopePatterns are path globs limiting which target files the document
	// applies to. Empty means "applies everywhere".
	ScopePatterns []string

	// ToolTargets limits which consuming tools the document is relevant to.
	// Empty means "applies to all tools".
	ToolTargets []string

	// References names other documents this one includes, in order. Resolved
	// to exact document IDs by the loader.
	References []string

	// Blocks is the document body, split into ordered content blocks.
	Blocks []Block

	// Fingerprint is the content hash of the raw source, used for cache
	// invalidation and change detection.
	Fingerprint string
}

// Scoped reports whether the document restricts the paths it applies to.
func (d *Document) Scoped() bool {
	return len(d.ScopePatterns) > 0
}

// Fingerprint hashes raw source bytes into a stable hex digest.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:])
}

var blockSeparator = regexp.MustCompile(`\n[ \t]*\n+`)

// SplitBody splits a document body into content blocks on blank-line
// boundaries. Block order is preserved; surrounding whitespace is trimmed.
// Splitting is purely structural, the text itself stays opaque.
func SplitBody(body string) []Block {
	var blocks []Block

	for _, part := range blockSeparator.Split(body, -1) {
		part = strings.TrimRight(strings.TrimLeft(part, "\n"), " \t\n")
		if part == "" {
			continue
		}

		blocks = append(blocks, Block{Text: part})
	}

	return blocks
}
