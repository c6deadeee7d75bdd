package worker

import (
	"context"
	"testing"

	"github.com/Maxerns/moneymentor-sub000/internal/core"
	"github.com/Maxerns/moneymentor-sub000/internal/events"
	"github.com/Maxerns/moneymentor-sub000/internal/ledger"
	"github.com/Maxerns/moneymentor-sub000/internal/profile"
	"github.com/Maxerns/moneymentor-sub000/internal/store/memory"
)

func TestHandleTransactionEvent(t *testing.T) {
	st := memory.New()
	profiles := profile.NewService(st, nil)
	w := NewSnapshotWorker(st, profiles)
	svc := ledger.NewService(st)
	ctx := context.Background()

	if err := svc.SetBudget(ctx, "u1", 50000); err != nil {
		t.Fatal(err)
	}
	tx, err := svc.AddTransaction(ctx, "u1", "Food", "42.50", "Groceries")
	if err != nil {
		t.Fatal(err)
	}
	doc, err := svc.LoadPeriod(ctx, "u1", nil)
	if err != nil {
		t.Fatal(err)
	}

	event := events.NewTransactionEvent("u1", doc.Period, tx.ID, events.ActionCreated, tx.AmountCents)
	if err := w.HandleTransactionEvent(ctx, event); err != nil {
		t.Fatalf("HandleTransactionEvent: %v", err)
	}

	prof, err := profiles.Get(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(prof.BudgetHistory) != 1 {
		t.Fatalf("history = %+v, want one entry", prof.BudgetHistory)
	}
	entry := prof.BudgetHistory[0]
	if entry.Period != doc.Period || entry.TotalSpentCents != 4250 || entry.TotalBudgetCents != 50000 {
		t.Errorf("entry = %+v", entry)
	}
}

func TestHandleTransactionEventUpserts(t *testing.T) {
	st := memory.New()
	profiles := profile.NewService(st, nil)
	w := NewSnapshotWorker(st, profiles)
	svc := ledger.NewService(st)
	ctx := context.Background()

	tx, err := svc.AddTransaction(ctx, "u1", "Food", "10.00", "first")
	if err != nil {
		t.Fatal(err)
	}
	doc, err := svc.LoadPeriod(ctx, "u1", nil)
	if err != nil {
		t.Fatal(err)
	}
	event := events.NewTransactionEvent("u1", doc.Period, tx.ID, events.ActionCreated, tx.AmountCents)

	if err := w.HandleTransactionEvent(ctx, event); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddTransaction(ctx, "u1", "Food", "5.00", "second"); err != nil {
		t.Fatal(err)
	}
	if err := w.HandleTransactionEvent(ctx, event); err != nil {
		t.Fatal(err)
	}

	prof, err := profiles.Get(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(prof.BudgetHistory) != 1 {
		t.Fatalf("history = %+v, want single upserted entry", prof.BudgetHistory)
	}
	if prof.BudgetHistory[0].TotalSpentCents != 1500 {
		t.Errorf("spent = %d, want 1500", prof.BudgetHistory[0].TotalSpentCents)
	}
}

func TestHandleTransactionEventMissingPeriod(t *testing.T) {
	st := memory.New()
	w := NewSnapshotWorker(st, profile.NewService(st, nil))

	event := events.NewTransactionEvent("ghost", "2026-8", "tx", events.ActionDeleted, 0)
	if err := w.HandleTransactionEvent(context.Background(), event); err != nil {
		t.Fatalf("missing period should drop the event, got %v", err)
	}

	var doc core.Profile
	if err := st.Get(context.Background(), "users/ghost", &doc); err == nil {
		t.Error("worker created a profile for a missing period")
	}
}
