package resolve

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/regent/pkg/log"
	"github.com/macropower/regent/pkg/rules"
	"github.com/macropower/regent/pkg/scope"
	"github.com/macropower/regent/pkg/topic"
)

// Resolver computes effective rule sets. It holds no document state itself;
// every resolution receives an explicit [Snapshot].
type Resolver struct {
	tracer     trace.Tracer
	classifier topic.Classifier
	cache      *Cache
}

type ResolverOpt func(*Resolver)

// WithClassifier installs the topic classifier used for conflict detection.
func WithClassifier(cls topic.Classifier) ResolverOpt {
	return func(r *Resolver) {
		r.classifier = cls
	}
}

func NewResolver(opts ...ResolverOpt) *Resolver {
	r := &Resolver{
		tracer:     otel.Tracer("regent-resolver"),
		classifier: topic.Nop(),
		cache:      NewCache(),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve returns the effective rule set for req against snap. Repeated calls
// with an unchanged document set return identical ordered content. No
// applicable documents is not an error; it yields an empty rule set.
func (r *Resolver) Resolve(ctx context.Context, snap *Snapshot, req Request) (*EffectiveRuleSet, error) {
	ctx, span := r.tracer.Start(ctx, "resolve",
		trace.WithAttributes(
			attribute.String("target_path", req.TargetPath),
			attribute.String("tool_id", req.ToolID),
			attribute.Int("document_count", snap.docs.Len()),
		),
	)
	defer span.End()

	key := cacheKey(req, snap.docs.Hash())
	if cached, ok := r.cache.Get(key); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))

		return cached, nil
	}

	applicable := applicableDocuments(snap.docs, req)
	orderDocuments(applicable)

	ers := &EffectiveRuleSet{
		Blocks:    merge(snap, applicable),
		Conflicts: detectConflicts(applicable, r.classifier),
	}

	log.WithContext(ctx).Debug("resolved rule set",
		slog.String("target", req.TargetPath),
		slog.String("tool", req.ToolID),
		slog.Int("applicable", len(applicable)),
		slog.Int("blocks", len(ers.Blocks)),
		slog.Int("conflicts", len(ers.Conflicts)),
	)

	r.cache.Put(key, ers)

	return ers, nil
}

// InvalidateCache drops all memoized rule sets, e.g. after a document reload.
func (r *Resolver) InvalidateCache() {
	r.cache.Purge()
}

// applicableDocuments filters the set down to documents whose tool targets
// and scope patterns admit the request. Iteration follows the set's sorted ID
// order, so the result is deterministic before precedence sorting.
func applicableDocuments(docs *rules.Set, req Request) []*rules.Document {
	var out []*rules.Document

	for _, id := range docs.IDs() {
		d, _ := docs.Get(id)
		if scope.Applies(d.ScopePatterns, d.ToolTargets, req.TargetPath, req.ToolID) {
			out = append(out, d)
		}
	}

	return out
}
