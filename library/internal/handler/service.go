package handler

import (
	"context"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type TransactionService interface {
	Borrow(ctx context.Context, userID, bookID int64) (model.Transaction, error)
	Return(ctx context.Context, userID, bookID int64) (model.Transaction, error)
	AllTransactions(ctx context.Context) ([]model.Transaction, error)
	UserTransactions(ctx context.Context, userID int64) ([]model.Transaction, error)
	BookTransactions(ctx context.Context, bookID int64) ([]model.Transaction, error)
	OverdueTransactions(ctx context.Context) ([]model.Transaction, error)
	ActiveTransactions(ctx context.Context) ([]model.Transaction, error)
}

type BookService interface {
	ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	GetBookByISBN(ctx context.Context, isbn string) (model.Book, error)
	CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, id int64, req model.BookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	CreateUser(ctx context.Context, req model.UserCreateRequest) (model.User, error)
	UpdateUser(ctx context.Context, id int64, req model.UserUpdateRequest) (model.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type AuthService interface {
	Register(ctx context.Context, req model.UserCreateRequest) (model.AuthResponse, error)
	Login(ctx context.Context, req model.AuthRequest) (model.AuthResponse, error)
	Logout(ctx context.Context) error
}

var (
	_ TransactionService = (*service.Service)(nil)
	_ BookService        = (*service.Service)(nil)
	_ UserService        = (*service.Service)(nil)
	_ AuthService        = (*service.Service)(nil)
)
