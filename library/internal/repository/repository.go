package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

type Repository interface {
	// InTx runs fn inside one READ COMMITTED transaction. Calls made through the
	// repo passed to fn share that transaction; any error rolls everything back.
	InTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error

	GetBook(ctx context.Context, id int64) (model.Book, error)
	// GetBookForUpdate locks the book row until the surrounding transaction ends.
	GetBookForUpdate(ctx context.Context, id int64) (model.Book, error)
	GetBookByISBN(ctx context.Context, isbn string) (model.Book, error)
	ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	UpdateBook(ctx context.Context, book model.Book) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
	AdjustAvailable(ctx context.Context, bookID int64, delta int) (model.Book, error)

	GetUser(ctx context.Context, id int64) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	UpdateUser(ctx context.Context, user model.User) (model.User, error)
	DeleteUser(ctx context.Context, id int64) error

	CreateTransaction(ctx context.Context, tx model.Transaction) (model.Transaction, error)
	GetActiveLoan(ctx context.Context, userID, bookID int64) (model.Transaction, error)
	CloseLoan(ctx context.Context, id int64, returnedAt time.Time, fine *decimal.Decimal) (model.Transaction, error)
	ListTransactions(ctx context.Context, filter model.TransactionFilter) ([]model.Transaction, error)
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type repository struct {
	pool *pgxpool.Pool
	db   querier
	inTx bool
	log  *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		pool: db,
		db:   db,
		log:  log.Named("repo"),
	}, nil
}

const (
	usersTableName        = `users`
	booksTableName        = `books`
	transactionsTableName = `transactions`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *repository) InTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error {
	if r.inTx {
		return fn(ctx, r)
	}
	return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(ctx, &repository{
			pool: r.pool,
			db:   tx,
			inTx: true,
			log:  r.log,
		})
	})
}

func collectOne[T any](ctx context.Context, db querier, notFound error, query string, args ...any) (T, error) {
	var zero T
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return zero, mapError(err)
	}
	defer rows.Close()

	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, notFound
		}
		return zero, mapError(err)
	}
	return item, nil
}

func collectAll[T any](ctx context.Context, db querier, query string, args ...any) ([]T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	return items, nil
}

// mapError turns constraint violations into domain errors.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		switch pgErr.ConstraintName {
		case "books_isbn_key":
			return errs.ErrISBNTaken
		case "users_username_key":
			return errs.ErrUsernameTaken
		case "users_email_key":
			return errs.ErrEmailTaken
		case "transactions_active_loan_uidx":
			return errs.ErrDuplicateActiveLoan
		}
	case pgerrcode.ForeignKeyViolation:
		switch pgErr.ConstraintName {
		case "transactions_book_id_fkey":
			return errs.ErrBookReferenced
		case "transactions_user_id_fkey":
			return errs.ErrUserReferenced
		}
	case pgerrcode.CheckViolation:
		if pgErr.ConstraintName == "books_available_copies_check" {
			return errors.Wrap(errs.ErrInternalConsistency, pgErr.Message)
		}
	}
	return err
}
