package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// fines are rendered as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

type TransactionType string

const (
	TransactionBorrow TransactionType = "BORROW"
	TransactionReturn TransactionType = "RETURN"
)

type TransactionStatus string

const (
	StatusActive   TransactionStatus = "ACTIVE"
	StatusReturned TransactionStatus = "RETURNED"
)

// Transaction is one ledger row. A completed loan leaves two rows: the closed
// BORROW row carrying the due date and fine, and a separate RETURN row.
type Transaction struct {
	ID              int64             `json:"id" db:"id"`
	UserID          int64             `json:"userId" db:"user_id"`
	BookID          int64             `json:"bookId" db:"book_id"`
	Type            TransactionType   `json:"transactionType" db:"transaction_type"`
	TransactionDate time.Time         `json:"transactionDate" db:"transaction_date"`
	DueDate         *time.Time        `json:"dueDate" db:"due_date"`
	ReturnDate      *time.Time        `json:"returnDate" db:"return_date"`
	Fine            *decimal.Decimal  `json:"fine" db:"fine"`
	Status          TransactionStatus `json:"status" db:"status"`

	Username  string `json:"username,omitempty" db:"username"`
	BookTitle string `json:"bookTitle,omitempty" db:"book_title"`
}

func (t Transaction) IsOverdue(now time.Time) bool {
	return t.Status == StatusActive && t.DueDate != nil && t.DueDate.Before(now)
}

type TransactionFilter struct {
	UserID    int64
	BookID    int64
	Status    TransactionStatus
	DueBefore *time.Time
}
