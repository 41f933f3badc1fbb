package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

var bookColumns = []string{
	"id", "title", "author", "isbn", "publisher", "publication_year", "category",
	"total_copies", "available_copies", "description", "created_at", "updated_at",
}

func (r *repository) GetBook(ctx context.Context, id int64) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	return collectOne[model.Book](ctx, r.db, errs.ErrBookNotFound, query, args...)
}

func (r *repository) GetBookForUpdate(ctx context.Context, id int64) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		Suffix("for update").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	return collectOne[model.Book](ctx, r.db, errs.ErrBookNotFound, query, args...)
}

func (r *repository) GetBookByISBN(ctx context.Context, isbn string) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"isbn": isbn}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	return collectOne[model.Book](ctx, r.db, errs.ErrBookNotFound, query, args...)
}

func (r *repository) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	q := qb.Select(bookColumns...).
		From(booksTableName).
		OrderBy("id")

	if filter.Title != "" {
		q = q.Where(sq.ILike{"title": "%" + filter.Title + "%"})
	}
	if filter.Author != "" {
		q = q.Where(sq.ILike{"author": "%" + filter.Author + "%"})
	}
	if filter.Category != "" {
		q = q.Where(sq.Eq{"category": filter.Category})
	}
	if filter.AvailableOnly {
		q = q.Where(sq.Gt{"available_copies": 0})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	return collectAll[model.Book](ctx, r.db, query, args...)
}

func (r *repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "isbn", "publisher", "publication_year", "category",
			"total_copies", "available_copies", "description").
		Values(book.Title, book.Author, book.ISBN, book.Publisher, book.PublicationYear, book.Category,
			book.TotalCopies, book.AvailableCopies, book.Description).
		Suffix("returning " + columnList(bookColumns)).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	created, err := collectOne[model.Book](ctx, r.db, errs.ErrBookNotFound, query, args...)
	if err != nil {
		r.log.Error("CreateBook", zap.String("q", query), zap.Error(err))
		return model.Book{}, err
	}
	return created, nil
}

func (r *repository) UpdateBook(ctx context.Context, book model.Book) (model.Book, error) {
	query, args, err := qb.Update(booksTableName).
		SetMap(map[string]any{
			"title":            book.Title,
			"author":           book.Author,
			"isbn":             book.ISBN,
			"publisher":        book.Publisher,
			"publication_year": book.PublicationYear,
			"category":         book.Category,
			"total_copies":     book.TotalCopies,
			"available_copies": book.AvailableCopies,
			"description":      book.Description,
			"updated_at":       sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": book.ID}).
		Suffix("returning " + columnList(bookColumns)).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	return collectOne[model.Book](ctx, r.db, errs.ErrBookNotFound, query, args...)
}

func (r *repository) DeleteBook(ctx context.Context, id int64) error {
	query, args, err := qb.Delete(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrBookNotFound
	}
	return nil
}

// AdjustAvailable shifts available_copies by delta and returns the updated row.
func (r *repository) AdjustAvailable(ctx context.Context, bookID int64, delta int) (model.Book, error) {
	q := `
update books
    set available_copies = available_copies + @delta, updated_at = now()
where id = @id
returning ` + columnList(bookColumns)
	args := pgx.NamedArgs{
		"id":    bookID,
		"delta": delta,
	}
	book, err := collectOne[model.Book](ctx, r.db, errs.ErrBookNotFound, q, args)
	if err != nil {
		return model.Book{}, errors.Wrapf(err, "adjust available copies of book %d", bookID)
	}
	return book, nil
}
