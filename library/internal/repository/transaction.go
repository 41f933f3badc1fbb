package repository

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

var transactionColumns = []string{
	"id", "user_id", "book_id", "transaction_type", "transaction_date",
	"due_date", "return_date", "fine", "status",
}

func columnList(columns []string) string {
	return strings.Join(columns, ", ")
}

func (r *repository) CreateTransaction(ctx context.Context, tx model.Transaction) (model.Transaction, error) {
	query, args, err := qb.Insert(transactionsTableName).
		Columns("user_id", "book_id", "transaction_type", "transaction_date",
			"due_date", "return_date", "fine", "status").
		Values(tx.UserID, tx.BookID, tx.Type, tx.TransactionDate,
			tx.DueDate, tx.ReturnDate, tx.Fine, tx.Status).
		Suffix("returning " + columnList(transactionColumns)).
		ToSql()
	if err != nil {
		return model.Transaction{}, err
	}
	created, err := collectOne[model.Transaction](ctx, r.db, errs.ErrNoActiveLoan, query, args...)
	if err != nil {
		r.log.Error("CreateTransaction", zap.String("q", query), zap.Error(err))
		return model.Transaction{}, err
	}
	return created, nil
}

func (r *repository) GetActiveLoan(ctx context.Context, userID, bookID int64) (model.Transaction, error) {
	query, args, err := qb.Select(transactionColumns...).
		From(transactionsTableName).
		Where(sq.Eq{
			"user_id":          userID,
			"book_id":          bookID,
			"transaction_type": model.TransactionBorrow,
			"status":           model.StatusActive,
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Transaction{}, err
	}
	return collectOne[model.Transaction](ctx, r.db, errs.ErrNoActiveLoan, query, args...)
}

// CloseLoan moves an ACTIVE borrow record to RETURNED.
func (r *repository) CloseLoan(ctx context.Context, id int64, returnedAt time.Time, fine *decimal.Decimal) (model.Transaction, error) {
	q := `
update transactions
    set status = @returned, return_date = @return_date, fine = @fine
where id = @id and status = @active
returning ` + columnList(transactionColumns)
	args := pgx.NamedArgs{
		"id":          id,
		"return_date": returnedAt,
		"fine":        fine,
		"returned":    model.StatusReturned,
		"active":      model.StatusActive,
	}
	return collectOne[model.Transaction](ctx, r.db, errs.ErrNoActiveLoan, q, args)
}

func (r *repository) ListTransactions(ctx context.Context, filter model.TransactionFilter) ([]model.Transaction, error) {
	columns := make([]string, 0, len(transactionColumns)+2)
	for _, c := range transactionColumns {
		columns = append(columns, "t."+c)
	}
	columns = append(columns, "u.username", "b.title as book_title")

	q := qb.Select(columns...).
		From(transactionsTableName + " t").
		Join(usersTableName + " u on u.id = t.user_id").
		Join(booksTableName + " b on b.id = t.book_id").
		OrderBy("t.transaction_date", "t.id")

	if filter.UserID != 0 {
		q = q.Where(sq.Eq{"t.user_id": filter.UserID})
	}
	if filter.BookID != 0 {
		q = q.Where(sq.Eq{"t.book_id": filter.BookID})
	}
	if filter.Status != "" {
		q = q.Where(sq.Eq{"t.status": filter.Status})
	}
	if filter.DueBefore != nil {
		q = q.Where(sq.Lt{"t.due_date": *filter.DueBefore})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("ListTransactions", zap.String("query", query), zap.Any("args", args))

	return collectAll[model.Transaction](ctx, r.db, query, args...)
}
