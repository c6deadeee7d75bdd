// Package ledger maintains one budget-period document per user and keeps
// category and aggregate totals synchronized across every mutation.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Maxerns/moneymentor-sub000/internal/core"
	"github.com/Maxerns/moneymentor-sub000/internal/events"
	"github.com/Maxerns/moneymentor-sub000/internal/store"
)

// Publisher notifies downstream consumers of ledger mutations. Publishing is
// best-effort: a failure is logged and never fails the mutation.
type Publisher interface {
	PublishTransaction(ctx context.Context, event *events.TransactionEvent) error
}

type Service struct {
	store     store.DocumentStore
	publisher Publisher
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher attaches a best-effort event publisher.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithClock overrides the time source. Test hook.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(st store.DocumentStore, opts ...Option) *Service {
	s := &Service{store: st, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) period() string {
	return core.PeriodKey(s.now())
}

// LoadPeriod fetches the current period's document, creating and persisting
// a zero-initialized one for first-time users. Transactions come back sorted
// most recent first.
func (s *Service) LoadPeriod(ctx context.Context, userID string, categories []core.Category) (core.BudgetPeriod, error) {
	period := s.period()
	path := store.BudgetPath(userID, period)

	var doc core.BudgetPeriod
	err := s.store.Get(ctx, path, &doc)
	if errors.Is(err, store.ErrNotExist) {
		if len(categories) == 0 {
			categories = core.DefaultCategories()
		}
		doc = core.NewBudgetPeriod(period, categories)
		if err := s.store.Set(ctx, path, doc); err != nil {
			return core.BudgetPeriod{}, fmt.Errorf("create period %s: %w: %w", period, core.ErrPersistence, err)
		}
		slog.InfoContext(ctx, "Created budget period",
			"user_id", userID,
			"period", period,
			"categories", len(doc.Categories))
		return doc, nil
	}
	if err != nil {
		return core.BudgetPeriod{}, fmt.Errorf("load period %s: %w: %w", period, core.ErrPersistence, err)
	}

	doc.SortTransactions()
	return doc, nil
}

// load fetches the current period's document without persisting anything.
// An absent document becomes a fresh in-memory default so that a validation
// failure during a mutation never issues a write.
func (s *Service) load(ctx context.Context, userID string) (core.BudgetPeriod, string, error) {
	period := s.period()
	path := store.BudgetPath(userID, period)

	var doc core.BudgetPeriod
	err := s.store.Get(ctx, path, &doc)
	if errors.Is(err, store.ErrNotExist) {
		return core.NewBudgetPeriod(period, core.DefaultCategories()), path, nil
	}
	if err != nil {
		return core.BudgetPeriod{}, "", fmt.Errorf("load period %s: %w: %w", period, core.ErrPersistence, err)
	}
	return doc, path, nil
}

func (s *Service) persist(ctx context.Context, path string, doc core.BudgetPeriod) error {
	if err := s.store.Set(ctx, path, doc); err != nil {
		return fmt.Errorf("persist period %s: %w: %w", doc.Period, core.ErrPersistence, err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, userID, period, txID string, action events.Action, amountCents int64) {
	if s.publisher == nil {
		return
	}
	event := events.NewTransactionEvent(userID, period, txID, action, amountCents)
	if err := s.publisher.PublishTransaction(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"error", err,
			"user_id", userID,
			"period", period,
			"action", action)
	}
}

// SetBudget overwrites the period's budget ceiling. Zero is allowed;
// negative amounts are rejected before any read or write.
func (s *Service) SetBudget(ctx context.Context, userID string, amountCents int64) error {
	if amountCents < 0 {
		return fmt.Errorf("set budget: %w", core.ErrInvalidAmount)
	}
	doc, path, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	doc.TotalBudgetCents = amountCents
	if err := s.persist(ctx, path, doc); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Budget updated",
		"user_id", userID,
		"period", doc.Period,
		"total_budget_cents", amountCents)
	return nil
}

// AddTransaction records an expense against a category. Validation happens
// on the in-memory document, so a rejected transaction never writes.
func (s *Service) AddTransaction(ctx context.Context, userID, category, amount, description string) (core.Transaction, error) {
	cents, err := core.ParseDecimalToCents(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	doc, path, err := s.load(ctx, userID)
	if err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{
		ID:          uuid.NewString(),
		AmountCents: cents,
		Description: description,
		Date:        s.now().UTC(),
		Type:        core.TypeExpense,
		Category:    category,
	}
	if err := doc.AddExpense(tx); err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}
	if err := s.persist(ctx, path, doc); err != nil {
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Transaction added",
		"user_id", userID,
		"period", doc.Period,
		"transaction_id", tx.ID,
		"category", category,
		"amount_cents", cents)
	s.publish(ctx, userID, doc.Period, tx.ID, events.ActionCreated, cents)
	return tx, nil
}

// AddIncome records an income transaction. Income never touches category
// spend or the spent total.
func (s *Service) AddIncome(ctx context.Context, userID, amount, description string) (core.Transaction, error) {
	cents, err := core.ParseDecimalToCents(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add income: %w", err)
	}

	doc, path, err := s.load(ctx, userID)
	if err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{
		ID:          uuid.NewString(),
		AmountCents: cents,
		Description: description,
		Date:        s.now().UTC(),
		Type:        core.TypeIncome,
	}
	if err := doc.AddIncome(tx); err != nil {
		return core.Transaction{}, fmt.Errorf("add income: %w", err)
	}
	if err := s.persist(ctx, path, doc); err != nil {
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Income added",
		"user_id", userID,
		"period", doc.Period,
		"transaction_id", tx.ID,
		"amount_cents", cents)
	s.publish(ctx, userID, doc.Period, tx.ID, events.ActionCreated, cents)
	return tx, nil
}

// EditTransaction replaces a transaction's amount and description. The
// amount delta moves the owning category's spent and the period total.
func (s *Service) EditTransaction(ctx context.Context, userID, transactionID, amount, description string) error {
	cents, err := core.ParseDecimalToCents(amount)
	if err != nil {
		return fmt.Errorf("edit transaction: %w", err)
	}

	doc, path, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if err := doc.EditTransaction(transactionID, cents, description); err != nil {
		return fmt.Errorf("edit transaction: %w", err)
	}
	if err := s.persist(ctx, path, doc); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Transaction edited",
		"user_id", userID,
		"period", doc.Period,
		"transaction_id", transactionID,
		"amount_cents", cents)
	s.publish(ctx, userID, doc.Period, transactionID, events.ActionUpdated, cents)
	return nil
}

// DeleteTransaction removes a transaction and reverses its totals.
func (s *Service) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	doc, path, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if err := doc.RemoveTransaction(transactionID); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if err := s.persist(ctx, path, doc); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Transaction deleted",
		"user_id", userID,
		"period", doc.Period,
		"transaction_id", transactionID)
	s.publish(ctx, userID, doc.Period, transactionID, events.ActionDeleted, 0)
	return nil
}

// AddCategory adds a spending category to the current period.
func (s *Service) AddCategory(ctx context.Context, userID string, category core.Category) error {
	doc, path, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if err := doc.AddCategory(category); err != nil {
		return fmt.Errorf("add category: %w", err)
	}
	if err := s.persist(ctx, path, doc); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Category added",
		"user_id", userID,
		"period", doc.Period,
		"category", category.Name)
	return nil
}

// RemoveCategory removes a category with no expense transactions.
func (s *Service) RemoveCategory(ctx context.Context, userID, name string) error {
	doc, path, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if err := doc.RemoveCategory(name); err != nil {
		return fmt.Errorf("remove category: %w", err)
	}
	if err := s.persist(ctx, path, doc); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Category removed",
		"user_id", userID,
		"period", doc.Period,
		"category", name)
	return nil
}
