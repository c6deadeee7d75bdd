// Package learning tracks which learning path a user selected and which
// module sections they have completed. Module access is gated by the active
// path's recommendation list.
package learning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Maxerns/moneymentor-sub000/internal/core"
	"github.com/Maxerns/moneymentor-sub000/internal/store"
)

type Tracker struct {
	store store.DocumentStore
	now   func() time.Time
}

type Option func(*Tracker)

// WithClock overrides the time source. Test hook.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func NewTracker(st store.DocumentStore, opts ...Option) *Tracker {
	t := &Tracker{store: st, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// GetProgress fetches or lazily creates the user's progress document. An
// empty userID serves guest mode: an empty document comes back without any
// store access, so unauthenticated browsing never fails.
func (t *Tracker) GetProgress(ctx context.Context, userID string) (core.LearningProgress, error) {
	if userID == "" {
		return core.NewLearningProgress(), nil
	}

	var doc core.LearningProgress
	err := t.store.Get(ctx, store.LearningPath(userID), &doc)
	if errors.Is(err, store.ErrNotExist) {
		doc = core.NewLearningProgress()
		if err := t.store.Set(ctx, store.LearningPath(userID), doc); err != nil {
			return core.LearningProgress{}, fmt.Errorf("create progress: %w: %w", core.ErrPersistence, err)
		}
		return doc, nil
	}
	if err != nil {
		return core.LearningProgress{}, fmt.Errorf("get progress: %w: %w", core.ErrPersistence, err)
	}
	if doc.Progress == nil {
		doc.Progress = map[string]core.ModuleProgress{}
	}
	return doc, nil
}

// SelectPath activates a learning path: the path's first module becomes
// current, its module list becomes the recommendation set and prior module
// progress is reset. The write merges only the fields this tracker owns;
// the empty progress map replaces the old one wholesale.
func (t *Tracker) SelectPath(ctx context.Context, userID, pathID string) error {
	if userID == "" {
		return fmt.Errorf("select path: %w", core.ErrNotAuthenticated)
	}
	path, ok := PathByID(pathID)
	if !ok {
		return fmt.Errorf("select path %q: %w", pathID, core.ErrUnknownPath)
	}

	fields := map[string]any{
		"selectedPath":    path.ID,
		"currentModule":   path.Modules[0],
		"recommendations": path.Modules,
		"progress":        map[string]any{},
		"lastUpdated":     t.now().UTC(),
	}
	if err := t.store.Merge(ctx, store.LearningPath(userID), fields); err != nil {
		return fmt.Errorf("select path %q: %w: %w", pathID, core.ErrPersistence, err)
	}

	slog.InfoContext(ctx, "Learning path selected",
		"user_id", userID,
		"path", path.ID,
		"current_module", path.Modules[0])
	return nil
}

// CompleteSection appends a section title to the module's completed list,
// creating the module entry on first touch. The write is scoped to the
// single progress.<moduleId> field when the document already exists.
//
// Overall module completion never flips here; no operation defines that
// transition.
func (t *Tracker) CompleteSection(ctx context.Context, userID, moduleID, sectionTitle string) (core.ModuleProgress, error) {
	if userID == "" {
		return core.ModuleProgress{}, fmt.Errorf("complete section: %w", core.ErrNotAuthenticated)
	}

	path := store.LearningPath(userID)
	now := t.now().UTC()

	var doc core.LearningProgress
	err := t.store.Get(ctx, path, &doc)
	if errors.Is(err, store.ErrNotExist) {
		doc = core.NewLearningProgress()
		entry := core.ModuleProgress{
			ModuleID:          moduleID,
			LastAccessed:      now,
			SectionsCompleted: []string{sectionTitle},
		}
		doc.Progress[moduleID] = entry
		doc.LastUpdated = now
		if err := t.store.Set(ctx, path, doc); err != nil {
			return core.ModuleProgress{}, fmt.Errorf("complete section: %w: %w", core.ErrPersistence, err)
		}
		return entry, nil
	}
	if err != nil {
		return core.ModuleProgress{}, fmt.Errorf("complete section: %w: %w", core.ErrPersistence, err)
	}

	entry, ok := doc.Progress[moduleID]
	if !ok {
		entry = core.ModuleProgress{ModuleID: moduleID}
	}
	entry.LastAccessed = now
	if !contains(entry.SectionsCompleted, sectionTitle) {
		entry.SectionsCompleted = append(entry.SectionsCompleted, sectionTitle)
	}

	updates := []store.FieldUpdate{
		{Path: []string{"progress", moduleID}, Value: entry},
		{Path: []string{"lastUpdated"}, Value: now},
	}
	if err := t.store.Update(ctx, path, updates); err != nil {
		return core.ModuleProgress{}, fmt.Errorf("complete section: %w: %w", core.ErrPersistence, err)
	}

	slog.InfoContext(ctx, "Section completed",
		"user_id", userID,
		"module", moduleID,
		"section", sectionTitle,
		"sections_done", len(entry.SectionsCompleted))
	return entry, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
