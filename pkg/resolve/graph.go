package resolve

import (
	"fmt"

	"github.com/macropower/regent/pkg/rules"
)

// Snapshot pairs an immutable document [rules.Set] with its fully expanded
// reference closures. Constructing a Snapshot is where cycles are detected,
// so a Snapshot in hand is always safe to resolve against.
type Snapshot struct {
	docs     *rules.Set
	closures map[string][]string
}

// NewSnapshot expands every document's references into a transitive inclusion
// closure. A cycle anywhere in the graph is a fatal [CyclicReferenceError].
func NewSnapshot(docs *rules.Set) (*Snapshot, error) {
	closures, err := expand(docs)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		docs:     docs,
		closures: closures,
	}, nil
}

// Documents returns the underlying document set.
func (s *Snapshot) Documents() *rules.Set {
	return s.docs
}

// Closure returns the document IDs transitively reachable from id via
// references, dependencies first and id itself last, each exactly once.
func (s *Snapshot) Closure(id string) []string {
	return s.closures[id]
}

// expand computes the post-order reference closure of every document via
// depth-first traversal with an explicit recursion stack for cycle detection.
func expand(docs *rules.Set) (map[string][]string, error) {
	closures := make(map[string][]string, docs.Len())
	onStack := make(map[string]bool)

	var stack []string

	var visit func(id string) ([]string, error)
	visit = func(id string) ([]string, error) {
		if c, ok := closures[id]; ok {
			return c, nil
		}

		if onStack[id] {
			return nil, &CyclicReferenceError{Path: cyclePath(stack, id)}
		}

		doc, ok := docs.Get(id)
		if !ok {
			// The loader guarantees resolvable references; reaching this
			// means the set was constructed by hand with a dangling ID.
			return nil, fmt.Errorf("reference to unknown document %q", id)
		}

		onStack[id] = true
		stack = append(stack, id)

		var out []string

		seen := make(map[string]bool)

		for _, ref := range doc.References {
			sub, err := visit(ref)
			if err != nil {
				return nil, err
			}

			for _, s := range sub {
				if !seen[s] {
					seen[s] = true
					out = append(out, s)
				}
			}
		}

		if !seen[id] {
			out = append(out, id)
		}

		stack = stack[:len(stack)-1]
		onStack[id] = false
		closures[id] = out

		return out, nil
	}

	for _, id := range docs.IDs() {
		if _, err := visit(id); err != nil {
			return nil, err
		}
	}

	return closures, nil
}

// cyclePath trims the recursion stack to the segment forming the cycle and
// closes the loop by repeating the entry document.
func cyclePath(stack []string, id string) []string {
	start := 0

	for i, s := range stack {
		if s == id {
			start = i

			break
		}
	}

	path := make([]string, 0, len(stack)-start+1)
	path = append(path, stack[start:]...)
	path = append(path, id)

	return path
}
