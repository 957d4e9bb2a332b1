// Package model defines the entities persisted by the ledger.
package model

import (
	"fmt"
	"time"
)

// TransactionType discriminates income from expense. The set is closed: every
// consumer switches exhaustively over these two values.
type TransactionType string

const (
	// TypeIncome is money coming in ("entrada"). Income never touches a
	// category balance and may carry a free-text label instead.
	TypeIncome TransactionType = "entrada"
	// TypeExpense is money going out ("saida"). An expense always references
	// a category and contributes to its cached balance.
	TypeExpense TransactionType = "saida"
)

// ParseTransactionType converts user input into a TransactionType. It accepts
// both the English names used on the command line and the stored values.
func ParseTransactionType(s string) (TransactionType, error) {
	switch s {
	case "income", "entrada":
		return TypeIncome, nil
	case "expense", "saida":
		return TypeExpense, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q (want income or expense)", s)
	}
}

// Valid reports whether t is one of the two known types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single income or expense event. Value is always positive
// and denominated in minor currency units (cents).
type Transaction struct {
	Date       time.Time
	Category   *Category // joined category attributes on reads; nil for income
	CategoryID *int64    // required for expenses, nil for income
	Label      string    // free-text description, optional
	Type       TransactionType
	ID         int64
	Value      int64
}

// SignedValue returns the transaction's contribution to the total balance:
// positive for income, negative for expense.
func (t *Transaction) SignedValue() int64 {
	if t.Type == TypeExpense {
		return -t.Value
	}
	return t.Value
}
