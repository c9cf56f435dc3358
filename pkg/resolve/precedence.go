package resolve

import (
	"sort"

	"github.com/macropower/regent/pkg/rules"
	"github.com/macropower/regent/pkg/topic"
)

// orderDocuments sorts applicable documents most-specific-last, so that later
// entries read as refining earlier ones:
//
//  1. Origin tier: global < workspace < project < reference.
//  2. Within a tier, scoped documents sort after unscoped ones.
//  3. Remaining ties break by ID ascending, for determinism.
func orderDocuments(docs []*rules.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, b := docs[i], docs[j]

		if a.Origin.Tier() != b.Origin.Tier() {
			return a.Origin.Tier() < b.Origin.Tier()
		}

		if a.Scoped() != b.Scoped() {
			return !a.Scoped()
		}

		return a.ID < b.ID
	})
}

// detectConflicts flags pairs of co-applicable documents whose content blocks
// the classifier judges to address the same topic. Neither side is dropped;
// the pairs are carried in the result for the consumer to present.
func detectConflicts(docs []*rules.Document, cls topic.Classifier) []Conflict {
	if cls == nil || len(docs) < 2 {
		return nil
	}

	// Pair by ascending ID so the output is deterministic regardless of the
	// precedence order the documents arrived in.
	byID := make([]*rules.Document, len(docs))
	copy(byID, docs)
	sort.Slice(byID, func(i, j int) bool { return byID[i].ID < byID[j].ID })

	var conflicts []Conflict

	for i := 0; i < len(byID); i++ {
		for j := i + 1; j < len(byID); j++ {
			if sameTopic(byID[i], byID[j], cls) {
				conflicts = append(conflicts, Conflict{
					DocA: byID[i].ID,
					DocB: byID[j].ID,
				})
			}
		}
	}

	return conflicts
}

func sameTopic(a, b *rules.Document, cls topic.Classifier) bool {
	for _, ba := range a.Blocks {
		for _, bb := range b.Blocks {
			if cls.SameTopic(ba.Text, bb.Text) {
				return true
			}
		}
	}

	return false
}
