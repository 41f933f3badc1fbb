// Package policy holds the lending rules. It does no I/O.
package policy

import (
	"time"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/shopspring/decimal"
)

const (
	LoanPeriod = 14 * 24 * time.Hour
	day        = 24 * time.Hour
)

// DailyFine is charged for every whole day past the due date.
var DailyFine = decimal.NewFromInt(1)

func DueDate(borrowedAt time.Time) time.Time {
	return borrowedAt.Add(LoanPeriod)
}

// OverdueDays counts whole days between due and returned, truncated toward zero.
func OverdueDays(due, returned time.Time) int64 {
	if !returned.After(due) {
		return 0
	}
	return int64(returned.Sub(due) / day)
}

// Fine is nil unless returned is strictly after due. A return less than a day
// late is overdue but accrues a zero fine.
func Fine(due, returned time.Time) *decimal.Decimal {
	if !returned.After(due) {
		return nil
	}
	fine := DailyFine.Mul(decimal.NewFromInt(OverdueDays(due, returned)))
	return &fine
}

// CheckBorrow applies the borrow eligibility rules in order.
func CheckBorrow(book model.Book, hasActiveLoan bool) error {
	if book.AvailableCopies <= 0 {
		return errs.ErrBookUnavailable
	}
	if hasActiveLoan {
		return errs.ErrDuplicateActiveLoan
	}
	return nil
}
