// Package profile manages the users/{uid} document: the simple financial
// snapshot figures, budget history, theme preference, the linked bank and
// full account deletion.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Maxerns/moneymentor-sub000/internal/core"
	"github.com/Maxerns/moneymentor-sub000/internal/identity"
	"github.com/Maxerns/moneymentor-sub000/internal/store"
)

type Service struct {
	store    store.DocumentStore
	accounts identity.Manager
	now      func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source. Test hook.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService builds the profile service. accounts may be nil, in which case
// DeleteAll only removes stored documents.
func NewService(st store.DocumentStore, accounts identity.Manager, opts ...Option) *Service {
	s := &Service{store: st, accounts: accounts, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get fetches or lazily creates the profile document.
func (s *Service) Get(ctx context.Context, userID string) (core.Profile, error) {
	if userID == "" {
		return core.Profile{}, fmt.Errorf("get profile: %w", core.ErrNotAuthenticated)
	}

	var doc core.Profile
	err := s.store.Get(ctx, store.UserPath(userID), &doc)
	if errors.Is(err, store.ErrNotExist) {
		doc = core.NewProfile()
		if err := s.store.Set(ctx, store.UserPath(userID), doc); err != nil {
			return core.Profile{}, fmt.Errorf("create profile: %w: %w", core.ErrPersistence, err)
		}
		return doc, nil
	}
	if err != nil {
		return core.Profile{}, fmt.Errorf("get profile: %w: %w", core.ErrPersistence, err)
	}
	return doc, nil
}

// SetFinancials updates any subset of the snapshot figures. Nil fields stay
// untouched; the write is a merge so unrelated profile fields survive.
func (s *Service) SetFinancials(ctx context.Context, userID string, budget, savings, debt *int64) error {
	if userID == "" {
		return fmt.Errorf("set financials: %w", core.ErrNotAuthenticated)
	}

	fields := map[string]any{}
	for name, v := range map[string]*int64{"budget": budget, "savings": savings, "debt": debt} {
		if v == nil {
			continue
		}
		if *v < 0 {
			return fmt.Errorf("set financials %s: %w", name, core.ErrInvalidAmount)
		}
		fields[name] = core.FinancialValue{ValueCents: *v, IsSet: true}
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.store.Merge(ctx, store.UserPath(userID), fields); err != nil {
		return fmt.Errorf("set financials: %w: %w", core.ErrPersistence, err)
	}
	slog.InfoContext(ctx, "Financial snapshot updated",
		"user_id", userID,
		"fields", len(fields))
	return nil
}

// SetDarkTheme stores the theme preference.
func (s *Service) SetDarkTheme(ctx context.Context, userID string, dark bool) error {
	if userID == "" {
		return fmt.Errorf("set theme: %w", core.ErrNotAuthenticated)
	}
	fields := map[string]any{"darkTheme": dark}
	if err := s.store.Merge(ctx, store.UserPath(userID), fields); err != nil {
		return fmt.Errorf("set theme: %w: %w", core.ErrPersistence, err)
	}
	return nil
}

// LinkBank stores an open-banking token and the accounts it covers. The
// token is opaque; no balance refresh happens here.
func (s *Service) LinkBank(ctx context.Context, userID, accessToken string, accounts []core.BankAccount) error {
	if userID == "" {
		return fmt.Errorf("link bank: %w", core.ErrNotAuthenticated)
	}
	if accessToken == "" {
		return fmt.Errorf("link bank: %w", core.ErrNotFound)
	}
	link := core.BankLink{
		AccessToken: accessToken,
		Accounts:    accounts,
		LinkedAt:    s.now().UTC(),
	}
	if err := s.store.Merge(ctx, store.UserPath(userID), map[string]any{"bank": link}); err != nil {
		return fmt.Errorf("link bank: %w: %w", core.ErrPersistence, err)
	}
	slog.InfoContext(ctx, "Bank linked",
		"user_id", userID,
		"accounts", len(accounts))
	return nil
}

// RecordBudgetSnapshot upserts one period's totals into budgetHistory. At
// most one entry per period key; a repeat snapshot overwrites in place.
func (s *Service) RecordBudgetSnapshot(ctx context.Context, userID string, entry core.BudgetHistoryEntry) error {
	if userID == "" {
		return fmt.Errorf("record snapshot: %w", core.ErrNotAuthenticated)
	}
	entry.RecordedAt = s.now().UTC()

	doc, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	replaced := false
	for i := range doc.BudgetHistory {
		if doc.BudgetHistory[i].Period == entry.Period {
			doc.BudgetHistory[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		doc.BudgetHistory = append(doc.BudgetHistory, entry)
	}

	fields := map[string]any{"budgetHistory": doc.BudgetHistory}
	if err := s.store.Merge(ctx, store.UserPath(userID), fields); err != nil {
		return fmt.Errorf("record snapshot: %w: %w", core.ErrPersistence, err)
	}
	slog.InfoContext(ctx, "Budget snapshot recorded",
		"user_id", userID,
		"period", entry.Period,
		"total_spent_cents", entry.TotalSpentCents)
	return nil
}

// DeleteAll removes every document the service knows for the user and, when
// an account manager is wired, the identity record itself. Documents go
// first so a failed identity delete leaves a retryable state.
func (s *Service) DeleteAll(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("delete account: %w", core.ErrNotAuthenticated)
	}

	paths := []string{
		store.UserPath(userID),
		store.LearningPath(userID),
		store.BudgetPath(userID, core.CurrentPeriod()),
	}
	for _, p := range paths {
		if err := s.store.Delete(ctx, p); err != nil {
			return fmt.Errorf("delete account: %w: %w", core.ErrPersistence, err)
		}
	}

	if s.accounts != nil {
		if err := s.accounts.DeleteUser(ctx, userID); err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
	}

	slog.InfoContext(ctx, "Account deleted", "user_id", userID)
	return nil
}
