package resolve

import (
	"github.com/macropower/regent/pkg/rules"
)

// merge concatenates content blocks in precedence order. Each document's
// reference closure is emitted before the document's own content, documents
// are emitted at most once however many reference paths reach them, and a
// block byte-identical to one first emitted by a different document is
// skipped. Blocks are never reordered or dropped relative to their source
// document's internal order: a document repeating its own block keeps every
// copy.
func merge(snap *Snapshot, ordered []*rules.Document) []TaggedBlock {
	emittedDoc := make(map[string]bool)
	firstEmitter := make(map[string]string)

	var out []TaggedBlock

	for _, d := range ordered {
		for _, id := range snap.Closure(d.ID) {
			if emittedDoc[id] {
				continue
			}

			emittedDoc[id] = true

			doc, ok := snap.docs.Get(id)
			if !ok {
				continue
			}

			for _, b := range doc.Blocks {
				if from, seen := firstEmitter[b.Text]; seen && from != id {
					continue
				}

				firstEmitter[b.Text] = id
				out = append(out, TaggedBlock{DocID: id, Text: b.Text})
			}
		}
	}

	return out
}
