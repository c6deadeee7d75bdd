package core

import (
	"sort"
	"strings"
	"time"
)

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Category is a named spending bucket. SpentCents is an accumulator: it must
// always equal the sum of amounts over the expense transactions referencing
// this category within the same period document.
type Category struct {
	Name       string `json:"name" firestore:"name"`
	LimitCents int64  `json:"limitCents" firestore:"limitCents"`
	SpentCents int64  `json:"spentCents" firestore:"spentCents"`
	Icon       string `json:"icon,omitempty" firestore:"icon,omitempty"`
	Color      string `json:"color,omitempty" firestore:"color,omitempty"`
}

// Transaction is a single income or expense record. Type and Category are
// fixed at creation; only amount and description are editable.
type Transaction struct {
	ID          string          `json:"id" firestore:"id"`
	AmountCents int64           `json:"amountCents" firestore:"amountCents"`
	Description string          `json:"description" firestore:"description"`
	Date        time.Time       `json:"date" firestore:"date"`
	Type        TransactionType `json:"type" firestore:"type"`
	Category    string          `json:"category,omitempty" firestore:"category,omitempty"`
}

// BudgetPeriod is one user's budget document for a single calendar month.
//
// Invariant: TotalSpentCents == Σ Category.SpentCents == Σ amount over
// expense transactions. Every mutating method below moves all three
// together; callers persist the whole document afterwards.
type BudgetPeriod struct {
	Period           string        `json:"period" firestore:"period"`
	Categories       []Category    `json:"categories" firestore:"categories"`
	Transactions     []Transaction `json:"transactions" firestore:"transactions"`
	TotalBudgetCents int64         `json:"totalBudgetCents" firestore:"totalBudgetCents"`
	TotalSpentCents  int64         `json:"totalSpentCents" firestore:"totalSpentCents"`
	CreatedAt        time.Time     `json:"createdAt" firestore:"createdAt"`
}

// NewBudgetPeriod builds a zero-initialized period document with the given
// category set. Category spent accumulators start at zero regardless of the
// input.
func NewBudgetPeriod(period string, categories []Category) BudgetPeriod {
	cats := make([]Category, len(categories))
	for i, c := range categories {
		c.SpentCents = 0
		cats[i] = c
	}
	return BudgetPeriod{
		Period:       period,
		Categories:   cats,
		Transactions: []Transaction{},
		CreatedAt:    time.Now().UTC(),
	}
}

// DefaultCategories is the built-in category list used when a first-time
// user loads a period without supplying their own.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Food", Icon: "restaurant", Color: "#FF9800"},
		{Name: "Transport", Icon: "directions_bus", Color: "#2196F3"},
		{Name: "Housing", Icon: "home", Color: "#4CAF50"},
		{Name: "Entertainment", Icon: "movie", Color: "#9C27B0"},
		{Name: "Shopping", Icon: "shopping_cart", Color: "#E91E63"},
		{Name: "Other", Icon: "category", Color: "#607D8B"},
	}
}

func (p *BudgetPeriod) categoryIndex(name string) int {
	for i := range p.Categories {
		if p.Categories[i].Name == name {
			return i
		}
	}
	return -1
}

// Category returns the named category, if present.
func (p *BudgetPeriod) Category(name string) (Category, bool) {
	if i := p.categoryIndex(name); i >= 0 {
		return p.Categories[i], true
	}
	return Category{}, false
}

func (p *BudgetPeriod) transactionIndex(id string) int {
	for i := range p.Transactions {
		if p.Transactions[i].ID == id {
			return i
		}
	}
	return -1
}

// AddExpense appends an expense transaction and moves the owning category's
// spent accumulator and the period total with it.
func (p *BudgetPeriod) AddExpense(tx Transaction) error {
	if tx.AmountCents <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(tx.Description) == "" {
		return ErrMissingDescription
	}
	i := p.categoryIndex(tx.Category)
	if i < 0 {
		return ErrUnknownCategory
	}
	tx.Type = TypeExpense
	p.Categories[i].SpentCents += tx.AmountCents
	p.TotalSpentCents += tx.AmountCents
	p.Transactions = append(p.Transactions, tx)
	return nil
}

// AddIncome appends an income transaction. Income never touches category
// spend accumulators or the period spent total.
func (p *BudgetPeriod) AddIncome(tx Transaction) error {
	if tx.AmountCents <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(tx.Description) == "" {
		return ErrMissingDescription
	}
	tx.Type = TypeIncome
	tx.Category = ""
	p.Transactions = append(p.Transactions, tx)
	return nil
}

// EditTransaction replaces amount and description in place. The amount delta
// is applied to the owning category and the period total; type and category
// are not editable.
func (p *BudgetPeriod) EditTransaction(id string, amountCents int64, description string) error {
	if amountCents <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(description) == "" {
		return ErrMissingDescription
	}
	i := p.transactionIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	tx := &p.Transactions[i]
	delta := amountCents - tx.AmountCents
	if tx.Type == TypeExpense {
		if ci := p.categoryIndex(tx.Category); ci >= 0 {
			p.Categories[ci].SpentCents += delta
		}
		p.TotalSpentCents += delta
	}
	tx.AmountCents = amountCents
	tx.Description = description
	return nil
}

// RemoveTransaction deletes a transaction and reverses its effect on the
// owning category and the period total.
func (p *BudgetPeriod) RemoveTransaction(id string) error {
	i := p.transactionIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	tx := p.Transactions[i]
	if tx.Type == TypeExpense {
		if ci := p.categoryIndex(tx.Category); ci >= 0 {
			p.Categories[ci].SpentCents -= tx.AmountCents
		}
		p.TotalSpentCents -= tx.AmountCents
	}
	p.Transactions = append(p.Transactions[:i], p.Transactions[i+1:]...)
	return nil
}

// AddCategory appends a new named category with a zero spent accumulator.
func (p *BudgetPeriod) AddCategory(c Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrUnknownCategory
	}
	if c.LimitCents < 0 {
		return ErrInvalidAmount
	}
	if p.categoryIndex(c.Name) >= 0 {
		return ErrCategoryExists
	}
	c.SpentCents = 0
	p.Categories = append(p.Categories, c)
	return nil
}

// RemoveCategory deletes a category. It refuses while expense transactions
// still reference the category, so the spent invariant cannot be orphaned.
func (p *BudgetPeriod) RemoveCategory(name string) error {
	i := p.categoryIndex(name)
	if i < 0 {
		return ErrUnknownCategory
	}
	for _, tx := range p.Transactions {
		if tx.Type == TypeExpense && tx.Category == name {
			return ErrCategoryInUse
		}
	}
	p.Categories = append(p.Categories[:i], p.Categories[i+1:]...)
	return nil
}

// SortTransactions orders transactions most recent first for presentation.
// Storage order stays append-only; this only affects the loaded copy.
func (p *BudgetPeriod) SortTransactions() {
	sort.SliceStable(p.Transactions, func(i, j int) bool {
		return p.Transactions[i].Date.After(p.Transactions[j].Date)
	})
}

// ExpenseTotalCents recomputes the spent total from the transaction list.
// Used by tests and the snapshot worker to cross-check the accumulators.
func (p *BudgetPeriod) ExpenseTotalCents() int64 {
	var total int64
	for _, tx := range p.Transactions {
		if tx.Type == TypeExpense {
			total += tx.AmountCents
		}
	}
	return total
}

// CategoryExpenseCents recomputes one category's spend from the transaction
// list.
func (p *BudgetPeriod) CategoryExpenseCents(name string) int64 {
	var total int64
	for _, tx := range p.Transactions {
		if tx.Type == TypeExpense && tx.Category == name {
			total += tx.AmountCents
		}
	}
	return total
}
