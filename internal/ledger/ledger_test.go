package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Maxerns/moneymentor-sub000/internal/core"
	"github.com/Maxerns/moneymentor-sub000/internal/events"
	"github.com/Maxerns/moneymentor-sub000/internal/store"
	"github.com/Maxerns/moneymentor-sub000/internal/store/memory"
)

// countingStore wraps the memory backend to count writes, so tests can
// assert that rejected operations never touch storage.
type countingStore struct {
	*memory.Store
	writes int
}

func (c *countingStore) Set(ctx context.Context, path string, doc any) error {
	c.writes++
	return c.Store.Set(ctx, path, doc)
}

func (c *countingStore) Merge(ctx context.Context, path string, fields map[string]any) error {
	c.writes++
	return c.Store.Merge(ctx, path, fields)
}

func (c *countingStore) Update(ctx context.Context, path string, updates []store.FieldUpdate) error {
	c.writes++
	return c.Store.Update(ctx, path, updates)
}

type capturingPublisher struct {
	events []*events.TransactionEvent
}

func (p *capturingPublisher) PublishTransaction(_ context.Context, e *events.TransactionEvent) error {
	p.events = append(p.events, e)
	return nil
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2026, time.August, 30, 10, 0, 0, 0, time.UTC)
	}
}

func newTestService(t *testing.T) (*Service, *countingStore, *capturingPublisher) {
	t.Helper()
	cs := &countingStore{Store: memory.New()}
	pub := &capturingPublisher{}
	svc := NewService(cs, WithPublisher(pub), WithClock(fixedClock()))
	return svc, cs, pub
}

func reload(t *testing.T, svc *Service, uid string) core.BudgetPeriod {
	t.Helper()
	doc, err := svc.LoadPeriod(context.Background(), uid, nil)
	if err != nil {
		t.Fatalf("LoadPeriod: %v", err)
	}
	return doc
}

func checkInvariant(t *testing.T, doc core.BudgetPeriod) {
	t.Helper()
	if got := doc.ExpenseTotalCents(); got != doc.TotalSpentCents {
		t.Errorf("totalSpent = %d, expense sum = %d", doc.TotalSpentCents, got)
	}
	var catSum int64
	for _, c := range doc.Categories {
		catSum += c.SpentCents
		if got := doc.CategoryExpenseCents(c.Name); got != c.SpentCents {
			t.Errorf("category %q spent = %d, transaction sum = %d", c.Name, c.SpentCents, got)
		}
	}
	if catSum != doc.TotalSpentCents {
		t.Errorf("category sum = %d, totalSpent = %d", catSum, doc.TotalSpentCents)
	}
}

func TestLoadPeriodCreatesOnFirstAccess(t *testing.T) {
	svc, cs, _ := newTestService(t)
	ctx := context.Background()

	doc, err := svc.LoadPeriod(ctx, "u1", nil)
	if err != nil {
		t.Fatalf("LoadPeriod: %v", err)
	}
	if doc.Period != "2026-8" {
		t.Errorf("period = %q, want 2026-8", doc.Period)
	}
	if doc.TotalBudgetCents != 0 || doc.TotalSpentCents != 0 || len(doc.Transactions) != 0 {
		t.Errorf("fresh period not zero-initialized: %+v", doc)
	}
	if len(doc.Categories) == 0 {
		t.Error("default categories missing")
	}
	if cs.writes != 1 {
		t.Errorf("writes = %d, want 1 (creation persists)", cs.writes)
	}

	// Second load returns the stored document without another write.
	if _, err := svc.LoadPeriod(ctx, "u1", nil); err != nil {
		t.Fatal(err)
	}
	if cs.writes != 1 {
		t.Errorf("writes after reload = %d, want 1", cs.writes)
	}
}

func TestLoadPeriodCallerCategories(t *testing.T) {
	svc, _, _ := newTestService(t)
	doc, err := svc.LoadPeriod(context.Background(), "u1", []core.Category{{Name: "Rent", LimitCents: 90000}})
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Categories) != 1 || doc.Categories[0].Name != "Rent" {
		t.Errorf("categories = %+v", doc.Categories)
	}
}

func TestSetBudget(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.SetBudget(ctx, "u1", 50000); err != nil {
		t.Fatalf("SetBudget: %v", err)
	}
	if doc := reload(t, svc, "u1"); doc.TotalBudgetCents != 50000 {
		t.Errorf("totalBudget = %d, want 50000", doc.TotalBudgetCents)
	}

	if err := svc.SetBudget(ctx, "u1", 0); err != nil {
		t.Errorf("zero budget should be allowed: %v", err)
	}
	if err := svc.SetBudget(ctx, "u1", -1); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("negative budget err = %v, want ErrInvalidAmount", err)
	}
}

func TestAddTransactionScenario(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()

	if err := svc.SetBudget(ctx, "u1", 50000); err != nil {
		t.Fatal(err)
	}
	tx, err := svc.AddTransaction(ctx, "u1", "Food", "42.50", "Groceries")
	if err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if tx.ID == "" || tx.Type != core.TypeExpense || tx.AmountCents != 4250 {
		t.Errorf("tx = %+v", tx)
	}

	doc := reload(t, svc, "u1")
	if c, _ := doc.Category("Food"); c.SpentCents != 4250 {
		t.Errorf("Food spent = %d, want 4250", c.SpentCents)
	}
	if doc.TotalSpentCents != 4250 || doc.TotalBudgetCents != 50000 {
		t.Errorf("totals = spent %d budget %d", doc.TotalSpentCents, doc.TotalBudgetCents)
	}
	checkInvariant(t, doc)

	if len(pub.events) != 1 || pub.events[0].Action != events.ActionCreated {
		t.Errorf("published events = %+v", pub.events)
	}
}

func TestAddIncomeReturnsTypedTransaction(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tx, err := svc.AddIncome(ctx, "u1", "2500.00", "salary")
	if err != nil {
		t.Fatalf("AddIncome: %v", err)
	}
	if tx.Type != core.TypeIncome || tx.Category != "" {
		t.Errorf("tx = %+v, want income with no category", tx)
	}

	doc := reload(t, svc, "u1")
	stored := doc.Transactions[0]
	if stored.Type != tx.Type || stored.ID != tx.ID {
		t.Errorf("stored = %+v, returned = %+v", stored, tx)
	}
	if doc.TotalSpentCents != 0 {
		t.Errorf("income moved totalSpent: %d", doc.TotalSpentCents)
	}
}

func TestAddTransactionValidationWritesNothing(t *testing.T) {
	tests := []struct {
		name        string
		category    string
		amount      string
		description string
		want        error
	}{
		{"unparseable amount", "Food", "abc", "x", core.ErrInvalidAmount},
		{"zero amount", "Food", "0", "x", core.ErrInvalidAmount},
		{"negative amount", "Food", "-5", "x", core.ErrInvalidAmount},
		{"unknown category", "Yachts", "10", "x", core.ErrUnknownCategory},
		{"empty description", "Food", "10", "", core.ErrMissingDescription},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, cs, pub := newTestService(t)
			_, err := svc.AddTransaction(context.Background(), "u1", tt.category, tt.amount, tt.description)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if cs.writes != 0 {
				t.Errorf("rejected transaction issued %d writes", cs.writes)
			}
			if len(pub.events) != 0 {
				t.Errorf("rejected transaction published %d events", len(pub.events))
			}
		})
	}
}

func TestEditTransaction(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tx, err := svc.AddTransaction(ctx, "u1", "Food", "10.00", "lunch")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.EditTransaction(ctx, "u1", tx.ID, "15.00", "late lunch"); err != nil {
		t.Fatalf("EditTransaction: %v", err)
	}

	doc := reload(t, svc, "u1")
	if doc.TotalSpentCents != 1500 {
		t.Errorf("totalSpent = %d, want 1500", doc.TotalSpentCents)
	}
	checkInvariant(t, doc)

	// Description-only edit leaves totals unchanged.
	if err := svc.EditTransaction(ctx, "u1", tx.ID, "15.00", "very late lunch"); err != nil {
		t.Fatal(err)
	}
	doc = reload(t, svc, "u1")
	if doc.TotalSpentCents != 1500 {
		t.Errorf("description edit moved totalSpent to %d", doc.TotalSpentCents)
	}

	if err := svc.EditTransaction(ctx, "u1", "missing", "5.00", "x"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("edit missing err = %v, want ErrNotFound", err)
	}
}

func TestDeleteAndReAddRestoresTotals(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddTransaction(ctx, "u1", "Food", "20.00", "base"); err != nil {
		t.Fatal(err)
	}
	tx, err := svc.AddTransaction(ctx, "u1", "Food", "12.34", "snack")
	if err != nil {
		t.Fatal(err)
	}
	before := reload(t, svc, "u1")

	if err := svc.DeleteTransaction(ctx, "u1", tx.ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	mid := reload(t, svc, "u1")
	if mid.TotalSpentCents != 2000 {
		t.Errorf("totalSpent after delete = %d, want 2000", mid.TotalSpentCents)
	}
	checkInvariant(t, mid)

	if _, err := svc.AddTransaction(ctx, "u1", "Food", "12.34", "snack"); err != nil {
		t.Fatal(err)
	}
	after := reload(t, svc, "u1")
	if after.TotalSpentCents != before.TotalSpentCents {
		t.Errorf("totalSpent = %d, want %d", after.TotalSpentCents, before.TotalSpentCents)
	}
	if c, _ := after.Category("Food"); c.SpentCents != 3234 {
		t.Errorf("Food spent = %d, want 3234", c.SpentCents)
	}

	if err := svc.DeleteTransaction(ctx, "u1", tx.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("delete missing err = %v, want ErrNotFound", err)
	}
}

func TestInvariantUnderMixedSequence(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	var ids []string
	for _, step := range []struct {
		category, amount, description string
	}{
		{"Food", "12.50", "groceries"},
		{"Transport", "3.20", "bus"},
		{"Food", "45.00", "restaurant"},
		{"Shopping", "99.99", "shoes"},
		{"Food", "7.25", "coffee beans"},
	} {
		tx, err := svc.AddTransaction(ctx, "u1", step.category, step.amount, step.description)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, tx.ID)
		checkInvariant(t, reload(t, svc, "u1"))
	}

	if err := svc.EditTransaction(ctx, "u1", ids[0], "20.00", "groceries"); err != nil {
		t.Fatal(err)
	}
	checkInvariant(t, reload(t, svc, "u1"))

	if err := svc.DeleteTransaction(ctx, "u1", ids[3]); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddIncome(ctx, "u1", "2500.00", "salary"); err != nil {
		t.Fatal(err)
	}
	doc := reload(t, svc, "u1")
	checkInvariant(t, doc)
	if doc.TotalSpentCents != 2000+320+4500+725 {
		t.Errorf("totalSpent = %d", doc.TotalSpentCents)
	}
}

func TestTransactionsSortedOnLoad(t *testing.T) {
	cs := &countingStore{Store: memory.New()}
	day := 0
	svc := NewService(cs, WithClock(func() time.Time {
		day++
		return time.Date(2026, time.August, day%28+1, 0, 0, 0, 0, time.UTC)
	}))
	ctx := context.Background()

	for _, d := range []string{"first", "second", "third"} {
		if _, err := svc.AddTransaction(ctx, "u1", "Food", "1.00", d); err != nil {
			t.Fatal(err)
		}
	}
	doc, err := svc.LoadPeriod(ctx, "u1", nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(doc.Transactions); i++ {
		if doc.Transactions[i].Date.After(doc.Transactions[i-1].Date) {
			t.Errorf("transactions not sorted descending: %v before %v",
				doc.Transactions[i-1].Date, doc.Transactions[i].Date)
		}
	}
}

func TestCategoryManagement(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.AddCategory(ctx, "u1", core.Category{Name: "Pets", LimitCents: 5000}); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if err := svc.AddCategory(ctx, "u1", core.Category{Name: "Pets"}); !errors.Is(err, core.ErrCategoryExists) {
		t.Errorf("duplicate err = %v, want ErrCategoryExists", err)
	}

	if _, err := svc.AddTransaction(ctx, "u1", "Pets", "9.99", "kibble"); err != nil {
		t.Fatal(err)
	}
	if err := svc.RemoveCategory(ctx, "u1", "Pets"); !errors.Is(err, core.ErrCategoryInUse) {
		t.Errorf("remove in-use err = %v, want ErrCategoryInUse", err)
	}
	if err := svc.RemoveCategory(ctx, "u1", "Nope"); !errors.Is(err, core.ErrUnknownCategory) {
		t.Errorf("remove unknown err = %v, want ErrUnknownCategory", err)
	}
}

// Two services sharing a store model the same account on two devices. The
// read-modify-write cycle has no version check, so the later write wins and
// silently discards the earlier one. Known lost-update race, not a
// guarantee.
func TestConcurrentWritersLastWriteWins(t *testing.T) {
	shared := memory.New()
	a := NewService(shared, WithClock(fixedClock()))
	b := NewService(shared, WithClock(fixedClock()))
	ctx := context.Background()

	if _, err := a.LoadPeriod(ctx, "u1", nil); err != nil {
		t.Fatal(err)
	}

	// Both devices read, then write in turn.
	if err := a.SetBudget(ctx, "u1", 10000); err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddTransaction(ctx, "u1", "Food", "5.00", "apple"); err != nil {
		t.Fatal(err)
	}

	doc, err := a.LoadPeriod(ctx, "u1", nil)
	if err != nil {
		t.Fatal(err)
	}
	// b read after a wrote, so both effects land here. The race only bites
	// when reads interleave before writes, which a sequential test cannot
	// drive through the public API; documenting the final state is the
	// point.
	if doc.TotalBudgetCents != 10000 || doc.TotalSpentCents != 500 {
		t.Errorf("totals = budget %d spent %d", doc.TotalBudgetCents, doc.TotalSpentCents)
	}
	checkInvariant(t, doc)
}

func TestPersistenceFailureSurfaces(t *testing.T) {
	svc := NewService(failingStore{}, WithClock(fixedClock()))
	_, err := svc.AddTransaction(context.Background(), "u1", "Food", "5.00", "apple")
	if !errors.Is(err, core.ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
}

type failingStore struct{}

var errDown = errors.New("backend down")

func (failingStore) Get(context.Context, string, any) error { return errDown }
func (failingStore) Set(context.Context, string, any) error { return errDown }
func (failingStore) Merge(context.Context, string, map[string]any) error { return errDown }
func (failingStore) Update(context.Context, string, []store.FieldUpdate) error { return errDown }
func (failingStore) Delete(context.Context, string) error { return errDown }
func (failingStore) Close() error { return nil }
