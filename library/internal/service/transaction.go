package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/policy"
	"github.com/Astemirdum/library-management/library/internal/repository"
	"github.com/Astemirdum/library-management/pkg/kafka"
	"github.com/Astemirdum/library-management/pkg/metrics"
)

// Borrow lends one copy of the book to the user and returns the BORROW record.
func (s *Service) Borrow(ctx context.Context, userID, bookID int64) (model.Transaction, error) {
	now := s.clock()

	var created model.Transaction
	err := s.repo.InTx(ctx, func(ctx context.Context, repo repository.Repository) error {
		user, err := repo.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		book, err := repo.GetBookForUpdate(ctx, bookID)
		if err != nil {
			return err
		}
		hasActiveLoan, err := activeLoanExists(ctx, repo, userID, bookID)
		if err != nil {
			return err
		}
		if err = policy.CheckBorrow(book, hasActiveLoan); err != nil {
			return err
		}

		if _, err = s.DecrementAvailable(ctx, repo, bookID); err != nil {
			return err
		}
		due := policy.DueDate(now)
		created, err = repo.CreateTransaction(ctx, model.Transaction{
			UserID:          userID,
			BookID:          bookID,
			Type:            model.TransactionBorrow,
			TransactionDate: now,
			DueDate:         &due,
			Status:          model.StatusActive,
		})
		if err != nil {
			return err
		}
		created.Username = user.Username
		created.BookTitle = book.Title
		return nil
	})
	if err != nil {
		s.rejected("borrow", userID, bookID, err)
		return model.Transaction{}, err
	}

	metrics.LoansTotal.WithLabelValues(string(model.TransactionBorrow)).Inc()
	s.publish(ctx, kafka.EventBorrow, created, nil)
	return created, nil
}

// Return closes the user's active loan of the book and returns the RETURN record.
// The fine, if any, is recorded on the closed BORROW record.
func (s *Service) Return(ctx context.Context, userID, bookID int64) (model.Transaction, error) {
	now := s.clock()

	var (
		returned model.Transaction
		closed   model.Transaction
	)
	err := s.repo.InTx(ctx, func(ctx context.Context, repo repository.Repository) error {
		user, err := repo.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		book, err := repo.GetBookForUpdate(ctx, bookID)
		if err != nil {
			return err
		}
		loan, err := repo.GetActiveLoan(ctx, userID, bookID)
		if err != nil {
			return err
		}
		if loan.DueDate == nil {
			return errors.Wrapf(errs.ErrInternalConsistency, "active loan %d has no due date", loan.ID)
		}

		closed, err = repo.CloseLoan(ctx, loan.ID, now, policy.Fine(*loan.DueDate, now))
		if err != nil {
			return err
		}
		returnDate := now
		returned, err = repo.CreateTransaction(ctx, model.Transaction{
			UserID:          userID,
			BookID:          bookID,
			Type:            model.TransactionReturn,
			TransactionDate: now,
			ReturnDate:      &returnDate,
			Status:          model.StatusReturned,
		})
		if err != nil {
			return err
		}
		if _, err = s.IncrementAvailable(ctx, repo, bookID); err != nil {
			return err
		}
		returned.Username = user.Username
		returned.BookTitle = book.Title
		return nil
	})
	if err != nil {
		s.rejected("return", userID, bookID, err)
		return model.Transaction{}, err
	}

	metrics.LoansTotal.WithLabelValues(string(model.TransactionReturn)).Inc()
	if closed.Fine != nil {
		fine, _ := closed.Fine.Float64()
		metrics.FinesAssessedTotal.Add(fine)
	}
	s.publish(ctx, kafka.EventReturn, returned, closed.Fine)
	return returned, nil
}

func (s *Service) AllTransactions(ctx context.Context) ([]model.Transaction, error) {
	return s.repo.ListTransactions(ctx, model.TransactionFilter{})
}

func (s *Service) UserTransactions(ctx context.Context, userID int64) ([]model.Transaction, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListTransactions(ctx, model.TransactionFilter{UserID: userID})
}

func (s *Service) BookTransactions(ctx context.Context, bookID int64) ([]model.Transaction, error) {
	if _, err := s.repo.GetBook(ctx, bookID); err != nil {
		return nil, err
	}
	return s.repo.ListTransactions(ctx, model.TransactionFilter{BookID: bookID})
}

// OverdueTransactions lists active loans whose due date has passed.
func (s *Service) OverdueTransactions(ctx context.Context) ([]model.Transaction, error) {
	now := s.clock()
	return s.repo.ListTransactions(ctx, model.TransactionFilter{
		Status:    model.StatusActive,
		DueBefore: &now,
	})
}

func (s *Service) ActiveTransactions(ctx context.Context) ([]model.Transaction, error) {
	return s.repo.ListTransactions(ctx, model.TransactionFilter{Status: model.StatusActive})
}

func activeLoanExists(ctx context.Context, repo repository.Repository, userID, bookID int64) (bool, error) {
	_, err := repo.GetActiveLoan(ctx, userID, bookID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errs.ErrNoActiveLoan):
		return false, nil
	default:
		return false, err
	}
}

func (s *Service) rejected(operation string, userID, bookID int64, err error) {
	kind := errs.Kind(err)
	if kind == nil || errors.Is(kind, errs.ErrInternalConsistency) {
		s.log.Error(operation, zap.Int64("userID", userID), zap.Int64("bookID", bookID), zap.Error(err))
		return
	}
	metrics.LoanRejectionsTotal.WithLabelValues(operation, rejectionReason(err, kind)).Inc()
	s.log.Debug(operation+" rejected", zap.Int64("userID", userID), zap.Int64("bookID", bookID), zap.Error(err))
}

// rejectionReason is the fixed message of the domain error, never the wrapped
// text, so the metric label set stays bounded.
func rejectionReason(err, kind error) string {
	var domainErr *errs.Error
	if errors.As(err, &domainErr) {
		return domainErr.Error()
	}
	return kind.Error()
}
