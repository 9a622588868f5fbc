package models

import "time"

// Expense is an institution expense entry.
type Expense struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Amount      int64     `json:"amount" db:"amount"`
	Category    string    `json:"category" db:"category"`
	ExpenseDate time.Time `json:"expenseDate" db:"expense_date"`
	Notes       *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
