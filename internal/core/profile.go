package core

import "time"

// FinancialValue is one of the simple snapshot figures on the user profile
// (budget, savings, debt). IsSet distinguishes "zero" from "never entered".
type FinancialValue struct {
	ValueCents int64 `json:"valueCents" firestore:"valueCents"`
	IsSet      bool  `json:"isSet" firestore:"isSet"`
}

// BudgetHistoryEntry is one period's totals recorded on the profile by the
// snapshot worker. At most one entry per period key.
type BudgetHistoryEntry struct {
	Period           string    `json:"period" firestore:"period"`
	TotalBudgetCents int64     `json:"totalBudgetCents" firestore:"totalBudgetCents"`
	TotalSpentCents  int64     `json:"totalSpentCents" firestore:"totalSpentCents"`
	RecordedAt       time.Time `json:"recordedAt" firestore:"recordedAt"`
}

type BankAccount struct {
	ID           string `json:"id" firestore:"id"`
	Name         string `json:"name" firestore:"name"`
	Type         string `json:"type" firestore:"type"`
	BalanceCents int64  `json:"balanceCents" firestore:"balanceCents"`
}

// BankLink holds the open-banking token and the accounts it grants access
// to. The token is opaque to this service.
type BankLink struct {
	AccessToken string        `json:"accessToken" firestore:"accessToken"`
	Accounts    []BankAccount `json:"accounts" firestore:"accounts"`
	LinkedAt    time.Time     `json:"linkedAt" firestore:"linkedAt"`
}

// Profile is the users/{uid} document.
type Profile struct {
	Budget        FinancialValue       `json:"budget" firestore:"budget"`
	Savings       FinancialValue       `json:"savings" firestore:"savings"`
	Debt          FinancialValue       `json:"debt" firestore:"debt"`
	BudgetHistory []BudgetHistoryEntry `json:"budgetHistory" firestore:"budgetHistory"`
	DarkTheme     bool                 `json:"darkTheme" firestore:"darkTheme"`
	Bank          BankLink             `json:"bank" firestore:"bank"`
	CreatedAt     time.Time            `json:"createdAt" firestore:"createdAt"`
}

// NewProfile returns the default document created on first access.
func NewProfile() Profile {
	return Profile{
		BudgetHistory: []BudgetHistoryEntry{},
		CreatedAt:     time.Now().UTC(),
	}
}
