package service

import (
	"context"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/repository"
)

func (s *Service) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	return s.repo.ListBooks(ctx, filter)
}

func (s *Service) GetBook(ctx context.Context, id int64) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) GetBookByISBN(ctx context.Context, isbn string) (model.Book, error) {
	return s.repo.GetBookByISBN(ctx, isbn)
}

// CreateBook puts every copy of a new title on the shelf.
func (s *Service) CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error) {
	book := bookFromRequest(req)
	book.AvailableCopies = req.TotalCopies
	return s.repo.CreateBook(ctx, book)
}

// UpdateBook keeps the number of copies on loan: a change of total copies shifts
// the available copies by the same amount.
func (s *Service) UpdateBook(ctx context.Context, id int64, req model.BookRequest) (model.Book, error) {
	var updated model.Book
	err := s.repo.InTx(ctx, func(ctx context.Context, repo repository.Repository) error {
		current, err := repo.GetBookForUpdate(ctx, id)
		if err != nil {
			return err
		}
		onLoan := current.OnLoan()
		if req.TotalCopies < onLoan {
			return errs.ErrCopiesOnLoan
		}

		book := bookFromRequest(req)
		book.ID = id
		book.AvailableCopies = req.TotalCopies - onLoan
		updated, err = repo.UpdateBook(ctx, book)
		return err
	})
	if err != nil {
		return model.Book{}, err
	}
	return updated, nil
}

func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	return s.repo.DeleteBook(ctx, id)
}

func bookFromRequest(req model.BookRequest) model.Book {
	return model.Book{
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		Publisher:       req.Publisher,
		PublicationYear: req.PublicationYear,
		Category:        req.Category,
		TotalCopies:     req.TotalCopies,
		Description:     req.Description,
	}
}
