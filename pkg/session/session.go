// Package session owns the lifecycle of a rule document set: discovering
// sources on disk, loading them into immutable snapshots, swapping snapshots
// on reload, and answering resolution queries against the current snapshot.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/macropower/regent/pkg/resolve"
	"github.com/macropower/regent/pkg/rules"
)

// DirSource maps a directory tree of rule documents to the origin tier its
// location implies. Documents may still override the origin in front-matter.
type DirSource struct {
	Root   string
	Origin rules.Origin
}

// Session serves resolution requests against an immutable document snapshot.
//
// Reload builds a complete new snapshot and swaps it atomically; resolutions
// already in flight keep the snapshot they started with, so a reload never
// mixes partially-loaded documents into a single resolution. A fatal load
// error poisons the session: every Resolve returns a [resolve.ResolutionError]
// until a later reload succeeds.
type Session struct {
	resolver *resolve.Resolver
	snap     *resolve.Snapshot
	loadErr  error
	sources  []DirSource
	warnings []rules.Warning
	mu       sync.RWMutex
}

type Opt func(*Session)

// WithResolver replaces the default resolver, e.g. to install a topic
// classifier for conflict detection.
func WithResolver(r *resolve.Resolver) Opt {
	return func(s *Session) {
		s.resolver = r
	}
}

// New creates a session over the given source directories and performs the
// initial load. On a fatal load error the session is still returned; it
// serves errors until a subsequent Reload succeeds.
func New(sources []DirSource, opts ...Opt) (*Session, error) {
	s := &Session{
		resolver: resolve.NewResolver(),
		sources:  sources,
	}
	for _, opt := range opts {
		opt(s)
	}

	err := s.Reload(context.Background())

	return s, err
}

// Reload rebuilds the snapshot from the source directories. The whole
// resolution cache is invalidated on success.
func (s *Session) Reload(ctx context.Context) error {
	srcs, err := discoverSources(ctx, s.sources)
	if err != nil {
		s.setLoadError(err)

		return err
	}

	set, warnings, err := rules.Load(srcs)
	if err != nil {
		s.setLoadError(err)

		return err
	}

	snap, err := resolve.NewSnapshot(set)
	if err != nil {
		s.setLoadError(err)

		return err
	}

	s.mu.Lock()
	s.snap = snap
	s.warnings = warnings
	s.loadErr = nil
	s.mu.Unlock()

	s.resolver.InvalidateCache()

	slog.DebugContext(ctx, "session reloaded",
		slog.Int("documents", set.Len()),
		slog.Int("warnings", len(warnings)),
	)

	return nil
}

// Resolve returns the effective rule set for (targetPath, toolID) against the
// current snapshot.
func (s *Session) Resolve(ctx context.Context, targetPath, toolID string) (*resolve.EffectiveRuleSet, error) {
	s.mu.RLock()
	snap, loadErr := s.snap, s.loadErr
	s.mu.RUnlock()

	if loadErr != nil {
		return nil, &resolve.ResolutionError{Err: loadErr}
	}

	return s.resolver.Resolve(ctx, snap, resolve.Request{
		TargetPath: targetPath,
		ToolID:     toolID,
	})
}

// Snapshot returns the current document snapshot, or nil after a fatal load
// error on a fresh session.
func (s *Session) Snapshot() *resolve.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snap
}

// Warnings lists the non-fatal problems from the last successful load,
// typically malformed documents that were excluded.
func (s *Session) Warnings() []rules.Warning {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.warnings
}

func (s *Session) setLoadError(err error) {
	s.mu.Lock()
	s.loadErr = err
	s.mu.Unlock()
}
