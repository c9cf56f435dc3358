package session

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/macropower/regent/pkg/rules"
)

// discoverSources walks each source root and collects markdown rule
// documents. Document IDs are the slash-cleaned path relative to the root,
// prefixed with the origin name, so documents from different tiers never
// collide. Missing roots are skipped; rule directories are optional.
func discoverSources(ctx context.Context, dirs []DirSource) ([]rules.Source, error) {
	var out []rules.Source

	for _, ds := range dirs {
		root := filepath.Clean(ds.Root)

		if _, err := os.Stat(root); os.IsNotExist(err) {
			slog.DebugContext(ctx, "skipping missing rule directory",
				slog.String("root", root),
			)

			continue
		}

		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() || !isRuleFile(d.Name()) {
				return nil
			}

			data, err := os.ReadFile(p) //nolint:gosec // G304: Paths come from the configured roots.
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}

			rel, err := filepath.Rel(root, p)
			if err != nil {
				return fmt.Errorf("relativize document path: %w", err)
			}

			out = append(out, rules.Source{
				ID:     path.Join(ds.Origin.String(), filepath.ToSlash(rel)),
				Origin: ds.Origin,
				Data:   data,
			})

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk rule directory %q: %w", root, err)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func isRuleFile(name string) bool {
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown")
}
