package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/repository"
)

// fakeRepo is an in-memory Repository. A transaction holds the lock for its
// whole duration and restores a snapshot when fn fails.
type fakeRepo struct {
	mu    *sync.Mutex
	state *fakeState
	inTx  bool
}

type fakeState struct {
	nextID    int64
	books     map[int64]model.Book
	users     map[int64]model.User
	txs       []model.Transaction
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		mu: &sync.Mutex{},
		state: &fakeState{
			books: map[int64]model.Book{},
			users: map[int64]model.User{},
		},
	}
}

var _ repository.Repository = (*fakeRepo)(nil)

func (st *fakeState) clone() fakeState {
	c := *st
	c.books = make(map[int64]model.Book, len(st.books))
	for k, v := range st.books {
		c.books[k] = v
	}
	c.users = make(map[int64]model.User, len(st.users))
	for k, v := range st.users {
		c.users[k] = v
	}
	c.txs = append([]model.Transaction(nil), st.txs...)
	return c
}

func (r *fakeRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.mu.Lock()
	return r.mu.Unlock
}

func (r *fakeRepo) id() int64 {
	r.state.nextID++
	return r.state.nextID
}

func (r *fakeRepo) InTx(ctx context.Context, fn func(ctx context.Context, repo repository.Repository) error) error {
	if r.inTx {
		return fn(ctx, r)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.state.clone()
	if err := fn(ctx, &fakeRepo{mu: r.mu, state: r.state, inTx: true}); err != nil {
		*r.state = snapshot
		return err
	}
	return nil
}

func (r *fakeRepo) addBook(b model.Book) model.Book {
	defer r.lock()()
	b.ID = r.id()
	r.state.books[b.ID] = b
	return b
}

func (r *fakeRepo) addUser(u model.User) model.User {
	defer r.lock()()
	u.ID = r.id()
	r.state.users[u.ID] = u
	return u
}

func (r *fakeRepo) book(id int64) model.Book {
	defer r.lock()()
	return r.state.books[id]
}

func (r *fakeRepo) transactions() []model.Transaction {
	defer r.lock()()
	return append([]model.Transaction(nil), r.state.txs...)
}

func (r *fakeRepo) failCreate(err error) {
	defer r.lock()()
	r.state.createErr = err
}

func (r *fakeRepo) GetBook(_ context.Context, id int64) (model.Book, error) {
	defer r.lock()()
	b, ok := r.state.books[id]
	if !ok {
		return model.Book{}, errs.ErrBookNotFound
	}
	return b, nil
}

func (r *fakeRepo) GetBookForUpdate(ctx context.Context, id int64) (model.Book, error) {
	return r.GetBook(ctx, id)
}

func (r *fakeRepo) GetBookByISBN(_ context.Context, isbn string) (model.Book, error) {
	defer r.lock()()
	for _, b := range r.state.books {
		if b.ISBN == isbn {
			return b, nil
		}
	}
	return model.Book{}, errs.ErrBookNotFound
}

func (r *fakeRepo) ListBooks(_ context.Context, filter model.BookFilter) ([]model.Book, error) {
	defer r.lock()()
	var out []model.Book
	for _, b := range r.state.books {
		if filter.Title != "" && !strings.Contains(strings.ToLower(b.Title), strings.ToLower(filter.Title)) {
			continue
		}
		if filter.Author != "" && !strings.Contains(strings.ToLower(b.Author), strings.ToLower(filter.Author)) {
			continue
		}
		if filter.Category != "" && b.Category != filter.Category {
			continue
		}
		if filter.AvailableOnly && b.AvailableCopies == 0 {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRepo) CreateBook(_ context.Context, book model.Book) (model.Book, error) {
	defer r.lock()()
	for _, b := range r.state.books {
		if b.ISBN == book.ISBN {
			return model.Book{}, errs.ErrISBNTaken
		}
	}
	book.ID = r.id()
	r.state.books[book.ID] = book
	return book, nil
}

func (r *fakeRepo) UpdateBook(_ context.Context, book model.Book) (model.Book, error) {
	defer r.lock()()
	if _, ok := r.state.books[book.ID]; !ok {
		return model.Book{}, errs.ErrBookNotFound
	}
	r.state.books[book.ID] = book
	return book, nil
}

func (r *fakeRepo) DeleteBook(_ context.Context, id int64) error {
	defer r.lock()()
	if _, ok := r.state.books[id]; !ok {
		return errs.ErrBookNotFound
	}
	for _, tx := range r.state.txs {
		if tx.BookID == id {
			return errs.ErrBookReferenced
		}
	}
	delete(r.state.books, id)
	return nil
}

// AdjustAvailable rejects results outside [0, total] like the books check constraint.
func (r *fakeRepo) AdjustAvailable(_ context.Context, bookID int64, delta int) (model.Book, error) {
	defer r.lock()()
	b, ok := r.state.books[bookID]
	if !ok {
		return model.Book{}, errs.ErrBookNotFound
	}
	b.AvailableCopies += delta
	if b.AvailableCopies < 0 || b.AvailableCopies > b.TotalCopies {
		return model.Book{}, errors.Wrap(errs.ErrInternalConsistency, "books_available_copies_check")
	}
	r.state.books[bookID] = b
	return b, nil
}

func (r *fakeRepo) GetUser(_ context.Context, id int64) (model.User, error) {
	defer r.lock()()
	u, ok := r.state.users[id]
	if !ok {
		return model.User{}, errs.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeRepo) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	defer r.lock()()
	for _, u := range r.state.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, errs.ErrUserNotFound
}

func (r *fakeRepo) ListUsers(_ context.Context) ([]model.User, error) {
	defer r.lock()()
	out := make([]model.User, 0, len(r.state.users))
	for _, u := range r.state.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRepo) CreateUser(_ context.Context, user model.User) (model.User, error) {
	defer r.lock()()
	for _, u := range r.state.users {
		if u.Username == user.Username {
			return model.User{}, errs.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return model.User{}, errs.ErrEmailTaken
		}
	}
	user.ID = r.id()
	r.state.users[user.ID] = user
	return user, nil
}

func (r *fakeRepo) UpdateUser(_ context.Context, user model.User) (model.User, error) {
	defer r.lock()()
	if _, ok := r.state.users[user.ID]; !ok {
		return model.User{}, errs.ErrUserNotFound
	}
	r.state.users[user.ID] = user
	return user, nil
}

func (r *fakeRepo) DeleteUser(_ context.Context, id int64) error {
	defer r.lock()()
	if _, ok := r.state.users[id]; !ok {
		return errs.ErrUserNotFound
	}
	for _, tx := range r.state.txs {
		if tx.UserID == id {
			return errs.ErrUserReferenced
		}
	}
	delete(r.state.users, id)
	return nil
}

func (r *fakeRepo) CreateTransaction(_ context.Context, tx model.Transaction) (model.Transaction, error) {
	defer r.lock()()
	if r.state.createErr != nil {
		return model.Transaction{}, r.state.createErr
	}
	if tx.Status == model.StatusActive {
		for _, t := range r.state.txs {
			if t.Status == model.StatusActive && t.UserID == tx.UserID && t.BookID == tx.BookID {
				return model.Transaction{}, errs.ErrDuplicateActiveLoan
			}
		}
	}
	tx.ID = r.id()
	r.state.txs = append(r.state.txs, tx)
	return tx, nil
}

func (r *fakeRepo) GetActiveLoan(_ context.Context, userID, bookID int64) (model.Transaction, error) {
	defer r.lock()()
	for _, t := range r.state.txs {
		if t.Type == model.TransactionBorrow && t.Status == model.StatusActive && t.UserID == userID && t.BookID == bookID {
			return t, nil
		}
	}
	return model.Transaction{}, errs.ErrNoActiveLoan
}

func (r *fakeRepo) CloseLoan(_ context.Context, id int64, returnedAt time.Time, fine *decimal.Decimal) (model.Transaction, error) {
	defer r.lock()()
	for i, t := range r.state.txs {
		if t.ID == id && t.Status == model.StatusActive {
			t.Status = model.StatusReturned
			t.ReturnDate = &returnedAt
			t.Fine = fine
			r.state.txs[i] = t
			return t, nil
		}
	}
	return model.Transaction{}, errs.ErrNoActiveLoan
}

func (r *fakeRepo) ListTransactions(_ context.Context, filter model.TransactionFilter) ([]model.Transaction, error) {
	defer r.lock()()
	var out []model.Transaction
	for _, t := range r.state.txs {
		if filter.UserID != 0 && t.UserID != filter.UserID {
			continue
		}
		if filter.BookID != 0 && t.BookID != filter.BookID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.DueBefore != nil && (t.DueDate == nil || !t.DueDate.Before(*filter.DueBefore)) {
			continue
		}
		t.Username = r.state.users[t.UserID].Username
		t.BookTitle = r.state.books[t.BookID].Title
		out = append(out, t)
	}
	return out, nil
}
