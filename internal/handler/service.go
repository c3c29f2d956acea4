package handler

import (
	"context"

	"github.com/natalie-goriela/Library-API/internal/model"
	"github.com/natalie-goriela/Library-API/internal/service"
	"github.com/natalie-goriela/Library-API/pkg/auth"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type BookService interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	ListBooks(ctx context.Context, filter model.BookFilter) (model.ListBooks, error)
	UpdateBook(ctx context.Context, id int64, req model.CreateBookRequest) (model.Book, error)
	PatchBook(ctx context.Context, id int64, req model.PatchBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

type BorrowingService interface {
	CreateBorrowing(ctx context.Context, req model.CreateBorrowingRequest, profile auth.Profile) (model.BorrowingDetail, error)
	GetBorrowing(ctx context.Context, id int64, profile auth.Profile) (model.BorrowingDetail, error)
	ListBorrowings(ctx context.Context, filter model.BorrowingFilter, profile auth.Profile) (model.ListBorrowings, error)
	ReturnBorrowing(ctx context.Context, id int64, profile auth.Profile) (model.Borrowing, error)
	UpdateBorrowing(ctx context.Context, id int64, req model.ReturnBorrowingRequest) (model.Borrowing, error)
}

type AuthService interface {
	Register(ctx context.Context, req model.UserCreateRequest) (model.User, error)
	Authorize(ctx context.Context, req model.AuthRequest) (string, error)
	Me(ctx context.Context, userID int64) (model.User, error)
}

var (
	_ BookService      = (*service.BookService)(nil)
	_ BorrowingService = (*service.BorrowingService)(nil)
	_ AuthService      = (*service.AuthService)(nil)
)
