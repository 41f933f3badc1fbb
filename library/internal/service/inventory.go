package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/repository"
)

// DecrementAvailable takes one copy off the shelf. repo must be the
// transactional repository of the caller.
func (s *Service) DecrementAvailable(ctx context.Context, repo repository.Repository, bookID int64) (model.Book, error) {
	return s.adjustAvailable(ctx, repo, bookID, -1)
}

// IncrementAvailable puts one copy back on the shelf.
func (s *Service) IncrementAvailable(ctx context.Context, repo repository.Repository, bookID int64) (model.Book, error) {
	return s.adjustAvailable(ctx, repo, bookID, 1)
}

func (s *Service) adjustAvailable(ctx context.Context, repo repository.Repository, bookID int64, delta int) (model.Book, error) {
	book, err := repo.AdjustAvailable(ctx, bookID, delta)
	if err != nil {
		if errors.Is(err, errs.ErrInternalConsistency) {
			s.log.Error("inventory invariant violated", zap.Int64("bookID", bookID), zap.Int("delta", delta), zap.Error(err))
		}
		return model.Book{}, err
	}
	if book.AvailableCopies < 0 || book.AvailableCopies > book.TotalCopies {
		s.log.Error("inventory invariant violated",
			zap.Int64("bookID", bookID),
			zap.Int("delta", delta),
			zap.Int("available", book.AvailableCopies),
			zap.Int("total", book.TotalCopies),
		)
		return model.Book{}, errors.Wrapf(errs.ErrInternalConsistency,
			"book %d: available %d of %d", bookID, book.AvailableCopies, book.TotalCopies)
	}
	return book, nil
}
