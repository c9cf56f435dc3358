package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/regent/pkg/resolve"
	"github.com/macropower/regent/pkg/rules"
	"github.com/macropower/regent/pkg/topic"
)

func blockTexts(ers *resolve.EffectiveRuleSet) []string {
	out := make([]string, 0, len(ers.Blocks))
	for _, b := range ers.Blocks {
		out = append(out, b.Text)
	}

	return out
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	g := newDoc("global/base.md", rules.OriginGlobal, "B1")
	w := newDoc("workspace/matlab.md", rules.OriginWorkspace, "B2")
	w.ScopePatterns = []string{"**/*.m"}
	p := newDoc("project/lib.md", rules.OriginProject, "P3")
	p.ScopePatterns = []string{"lib/**"}
	p.References = []string{"workspace/matlab.md"}

	snap := mustSnapshot(t, g, w, p)
	r := resolve.NewResolver()

	ers, err := r.Resolve(t.Context(), snap, resolve.Request{
		TargetPath: "lib/calc.m",
		ToolID:     "claude",
	})
	require.NoError(t, err)

	// Global first, then workspace, then the project document. The workspace
	// document is both directly applicable and referenced from the project
	// document; its content appears exactly once.
	assert.Equal(t, []string{"B1", "B2", "P3"}, blockTexts(ers))
	assert.Equal(t, "global/base.md", ers.Blocks[0].DocID)
	assert.Equal(t, "workspace/matlab.md", ers.Blocks[1].DocID)
	assert.Equal(t, "project/lib.md", ers.Blocks[2].DocID)
	assert.Empty(t, ers.Conflicts)
}

func TestResolver_ScopeFiltering(t *testing.T) {
	t.Parallel()

	g := newDoc("global/base.md", rules.OriginGlobal, "Base.")
	tests := newDoc("project/tests.md", rules.OriginProject, "Test rules.")
	tests.ScopePatterns = []string{"tests/**"}

	snap := mustSnapshot(t, g, tests)
	r := resolve.NewResolver()

	ers, err := r.Resolve(t.Context(), snap, resolve.Request{TargetPath: "src/main.m", ToolID: "claude"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Base."}, blockTexts(ers))
}

func TestResolver_ToolFiltering(t *testing.T) {
	t.Parallel()

	copilotOnly := newDoc("project/copilot.md", rules.OriginProject, "Copilot rules.")
	copilotOnly.ToolTargets = []string{"copilot"}
	anyTool := newDoc("project/any.md", rules.OriginProject, "Any tool.")

	snap := mustSnapshot(t, copilotOnly, anyTool)
	r := resolve.NewResolver()

	ers, err := r.Resolve(t.Context(), snap, resolve.Request{TargetPath: "src/main.m", ToolID: "claude"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Any tool."}, blockTexts(ers))

	ers, err = r.Resolve(t.Context(), snap, resolve.Request{TargetPath: "src/main.m", ToolID: "copilot"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Any tool.", "Copilot rules."}, blockTexts(ers))
}

func TestResolver_Precedence(t *testing.T) {
	t.Parallel()

	// Most specific last: tier ascending, unscoped before scoped within a
	// tier, ID ascending for full ties.
	scopedGlobal := newDoc("global/scoped.md", rules.OriginGlobal, "global scoped")
	scopedGlobal.ScopePatterns = []string{"src/**"}
	plainGlobal := newDoc("global/zz.md", rules.OriginGlobal, "global plain")
	projectB := newDoc("project/b.md", rules.OriginProject, "project b")
	projectA := newDoc("project/a.md", rules.OriginProject, "project a")

	snap := mustSnapshot(t, scopedGlobal, plainGlobal, projectA, projectB)
	r := resolve.NewResolver()

	ers, err := r.Resolve(t.Context(), snap, resolve.Request{TargetPath: "src/main.m", ToolID: "claude"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"global plain",
		"global scoped",
		"project a",
		"project b",
	}, blockTexts(ers))
}

func TestResolver_EmptyResult(t *testing.T) {
	t.Parallel()

	d := newDoc("project/tests.md", rules.OriginProject, "Test rules.")
	d.ScopePatterns = []string{"tests/**"}

	snap := mustSnapshot(t, d)
	r := resolve.NewResolver()

	ers, err := r.Resolve(t.Context(), snap, resolve.Request{TargetPath: "src/main.m", ToolID: "claude"})
	require.NoError(t, err)

	assert.True(t, ers.Empty())
	assert.Empty(t, ers.Text())
}

func TestResolver_Idempotence(t *testing.T) {
	t.Parallel()

	// shared is reachable from both p1 and p2; its content must appear once.
	shared := newDoc("reference/shared.md", rules.OriginReference, "Shared guidance.")
	p1 := newDoc("project/p1.md", rules.OriginProject, "P1.")
	p1.References = []string{"reference/shared.md"}
	p2 := newDoc("project/p2.md", rules.OriginProject, "P2.")
	p2.References = []string{"reference/shared.md"}

	snap := mustSnapshot(t, shared, p1, p2)
	r := resolve.NewResolver()

	ers, err := r.Resolve(t.Context(), snap, resolve.Request{TargetPath: "src/main.m", ToolID: "claude"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Shared guidance.", "P1.", "P2."}, blockTexts(ers))
}

func TestResolver_BlockDedup(t *testing.T) {
	t.Parallel()

	a := newDoc("project/a.md", rules.OriginProject, "Always write tests.\n\nA only.")
	b := newDoc("project/b.md", rules.OriginProject, "Always write tests.\n\nB only.")

	snap := mustSnapshot(t, a, b)
	r := resolve.NewResolver()

	ers, err := r.Resolve(t.Context(), snap, resolve.Request{TargetPath: "src/main.m", ToolID: "claude"})
	require.NoError(t, err)

	// A block byte-identical to one from an earlier document keeps only the
	// first occurrence.
	assert.Equal(t, []string{"Always write tests.", "A only.", "B only."}, blockTexts(ers))
}

func TestResolver_BlockDedupIsCrossDocumentOnly(t *testing.T) {
	t.Parallel()

	// A document legitimately repeating its own block keeps every copy; its
	// internal block sequence is never altered.
	a := newDoc("project/a.md", rules.OriginProject, "X\n\nY\n\nX")
	b := newDoc("project/b.md", rules.OriginProject, "X\n\nB only.")

	snap := mustSnapshot(t, a, b)
	r := resolve.NewResolver()

	ers, err := r.Resolve(t.Context(), snap, resolve.Request{TargetPath: "src/main.m", ToolID: "claude"})
	require.NoError(t, err)

	assert.Equal(t, []string{"X", "Y", "X", "B only."}, blockTexts(ers))
	assert.Equal(t, "project/a.md", ers.Blocks[2].DocID)
}

func TestResolver_Determinism(t *testing.T) {
	t.Parallel()

	g := newDoc("global/base.md", rules.OriginGlobal, "Base.")
	w := newDoc("workspace/w.md", rules.OriginWorkspace, "W.")
	p := newDoc("project/p.md", rules.OriginProject, "P.")
	p.References = []string{"workspace/w.md"}

	snap := mustSnapshot(t, g, w, p)
	req := resolve.Request{TargetPath: "src/main.m", ToolID: "claude"}

	first, err := resolve.NewResolver().Resolve(t.Context(), snap, req)
	require.NoError(t, err)

	for range 5 {
		got, err := resolve.NewResolver().Resolve(t.Context(), snap, req)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestResolver_CacheHit(t *testing.T) {
	t.Parallel()

	g := newDoc("global/base.md", rules.OriginGlobal, "Base.")
	snap := mustSnapshot(t, g)
	r := resolve.NewResolver()
	req := resolve.Request{TargetPath: "src/main.m", ToolID: "claude"}

	first, err := r.Resolve(t.Context(), snap, req)
	require.NoError(t, err)

	second, err := r.Resolve(t.Context(), snap, req)
	require.NoError(t, err)
	assert.Same(t, first, second)

	// A different target is a different cache entry.
	other, err := r.Resolve(t.Context(), snap, resolve.Request{TargetPath: "lib/calc.m", ToolID: "claude"})
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestResolver_CacheKeyedBySetHash(t *testing.T) {
	t.Parallel()

	r := resolve.NewResolver()
	req := resolve.Request{TargetPath: "src/main.m", ToolID: "claude"}

	snapV1 := mustSnapshot(t, newDoc("global/base.md", rules.OriginGlobal, "Version one."))
	snapV2 := mustSnapshot(t, newDoc("global/base.md", rules.OriginGlobal, "Version two."))

	first, err := r.Resolve(t.Context(), snapV1, req)
	require.NoError(t, err)
	assert.Equal(t, []string{"Version one."}, blockTexts(first))

	// Same request against changed content must not serve the stale entry.
	second, err := r.Resolve(t.Context(), snapV2, req)
	require.NoError(t, err)
	assert.Equal(t, []string{"Version two."}, blockTexts(second))
}

func TestResolver_InvalidateCache(t *testing.T) {
	t.Parallel()

	g := newDoc("global/base.md", rules.OriginGlobal, "Base.")
	snap := mustSnapshot(t, g)
	r := resolve.NewResolver()
	req := resolve.Request{TargetPath: "src/main.m", ToolID: "claude"}

	first, err := r.Resolve(t.Context(), snap, req)
	require.NoError(t, err)

	r.InvalidateCache()

	second, err := r.Resolve(t.Context(), snap, req)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, first, second)
}

func TestResolver_Conflicts(t *testing.T) {
	t.Parallel()

	a := newDoc("project/a.md", rules.OriginProject, "Use tabs for indentation.")
	b := newDoc("project/b.md", rules.OriginProject, "Use spaces for indentation.")
	c := newDoc("project/c.md", rules.OriginProject, "Name tests descriptively.")

	snap := mustSnapshot(t, a, b, c)

	cls := topic.MustNewCEL(`a.contains("indentation") && b.contains("indentation")`)
	r := resolve.NewResolver(resolve.WithClassifier(cls))

	ers, err := r.Resolve(t.Context(), snap, resolve.Request{TargetPath: "src/main.m", ToolID: "claude"})
	require.NoError(t, err)

	// Conflicts are reported, never resolved: both sides stay in the output.
	require.Len(t, ers.Conflicts, 1)
	assert.Equal(t, "project/a.md", ers.Conflicts[0].DocA)
	assert.Equal(t, "project/b.md", ers.Conflicts[0].DocB)
	assert.Len(t, ers.Blocks, 3)
}

func TestEffectiveRuleSet_Text(t *testing.T) {
	t.Parallel()

	ers := &resolve.EffectiveRuleSet{
		Blocks: []resolve.TaggedBlock{
			{DocID: "a", Text: "First."},
			{DocID: "b", Text: "Second."},
		},
	}

	assert.Equal(t, "First.\n\nSecond.", ers.Text())
}
