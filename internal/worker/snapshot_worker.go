// Package worker refreshes profile budget history from transaction events.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Maxerns/moneymentor-sub000/internal/core"
	"github.com/Maxerns/moneymentor-sub000/internal/events"
	"github.com/Maxerns/moneymentor-sub000/internal/profile"
	"github.com/Maxerns/moneymentor-sub000/internal/store"
)

// SnapshotWorker listens for ledger mutations and upserts the affected
// period's totals into the user's profile budget history.
type SnapshotWorker struct {
	store    store.DocumentStore
	profiles *profile.Service
}

func NewSnapshotWorker(st store.DocumentStore, profiles *profile.Service) *SnapshotWorker {
	return &SnapshotWorker{store: st, profiles: profiles}
}

// HandleTransactionEvent reloads the event's budget document and records a
// fresh snapshot. A missing document means the period was deleted since the
// event was published; the event is dropped.
func (w *SnapshotWorker) HandleTransactionEvent(ctx context.Context, event *events.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"user_id", event.UserID,
		"period", event.Period,
		"action", event.Action)

	var doc core.BudgetPeriod
	err := w.store.Get(ctx, store.BudgetPath(event.UserID, event.Period), &doc)
	if errors.Is(err, store.ErrNotExist) {
		slog.WarnContext(ctx, "Budget period gone, dropping event",
			"user_id", event.UserID,
			"period", event.Period)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load budget period: %w", err)
	}

	entry := core.BudgetHistoryEntry{
		Period:           doc.Period,
		TotalBudgetCents: doc.TotalBudgetCents,
		TotalSpentCents:  doc.TotalSpentCents,
	}
	if err := w.profiles.RecordBudgetSnapshot(ctx, event.UserID, entry); err != nil {
		return fmt.Errorf("record snapshot: %w", err)
	}
	return nil
}

// Run consumes events until ctx is cancelled.
func (w *SnapshotWorker) Run(ctx context.Context, client *events.Client) error {
	return client.ConsumeTransactions(ctx, func(event *events.TransactionEvent) error {
		return w.HandleTransactionEvent(ctx, event)
	})
}
