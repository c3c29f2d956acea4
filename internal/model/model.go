package model

import (
	"fmt"
)

type Cover string

const (
	CoverHard Cover = "HARD"
	CoverSoft Cover = "SOFT"
)

type Book struct {
	ID        int64  `json:"id" db:"id"`
	Title     string `json:"title" db:"title"`
	Author    string `json:"author" db:"author"`
	Cover     Cover  `json:"cover" db:"cover"`
	Inventory int    `json:"inventory" db:"inventory"`
	DailyFee  Fee    `json:"daily_fee" db:"daily_fee"`
}

// Describe renders the book the way notifications and logs refer to it.
func (b Book) Describe() string {
	return fmt.Sprintf("%s (%s)", b.Title, b.Author)
}

// BookBrief is the trimmed book shape embedded into borrowing listings.
type BookBrief struct {
	Title  string `json:"title" db:"title"`
	Author string `json:"author" db:"author"`
}

type User struct {
	ID           int64  `json:"id" db:"id"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	IsStaff      bool   `json:"is_staff" db:"is_staff"`
}

type Borrowing struct {
	ID                 int64 `json:"id" db:"id"`
	BorrowDate         Date  `json:"borrow_date" db:"borrow_date"`
	ExpectedReturnDate Date  `json:"expected_return_date" db:"expected_return_date"`
	ActualReturnDate   *Date `json:"actual_return_date" db:"actual_return_date"`
	BookID             int64 `json:"book_id" db:"book_id"`
	UserID             int64 `json:"user_id" db:"user_id"`
}

// Active reports whether the borrowing has not been returned yet.
func (b Borrowing) Active() bool {
	return b.ActualReturnDate == nil
}

// BorrowingItem is the listing shape: the ledger row plus a brief book.
type BorrowingItem struct {
	Borrowing
	Book BookBrief `json:"book"`
}

// BorrowingDetail is the retrieve shape: the ledger row plus the full book.
type BorrowingDetail struct {
	Borrowing
	Book Book `json:"book"`
}

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []Book `json:"items"`
}

type ListBorrowings struct {
	Paging `json:",inline"`
	Items  []BorrowingItem `json:"items"`
}

const (
	DefaultPageSize = 5
	MaxPageSize     = 100
)

// PageParams carries normalized pagination; zero values fall back to the
// first page with the default size.
type PageParams struct {
	Page int
	Size int
}

func (p *PageParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
}

type BookFilter struct {
	Title  string
	Author string
	PageParams
}

type BorrowingFilter struct {
	IsActive *bool
	UserID   *int64
	PageParams
}

type CreateBookRequest struct {
	Title     string `json:"title" validate:"required"`
	Author    string `json:"author" validate:"required"`
	Cover     Cover  `json:"cover" validate:"required,oneof=HARD SOFT"`
	Inventory int    `json:"inventory"`
	DailyFee  Fee    `json:"daily_fee"`
}

// PatchBookRequest updates only the supplied fields.
type PatchBookRequest struct {
	Title     *string `json:"title"`
	Author    *string `json:"author"`
	Cover     *Cover  `json:"cover" validate:"omitempty,oneof=HARD SOFT"`
	Inventory *int    `json:"inventory"`
	DailyFee  *Fee    `json:"daily_fee"`
}

type CreateBorrowingRequest struct {
	BorrowDate         Date  `json:"borrow_date" validate:"required"`
	ExpectedReturnDate Date  `json:"expected_return_date" validate:"required"`
	BookID             int64 `json:"book" validate:"required"`
}

type ReturnBorrowingRequest struct {
	ActualReturnDate Date `json:"actual_return_date" validate:"required"`
}

type ReturnBorrowingResponse struct {
	Status string `json:"status"`
}

type UserCreateRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type AuthRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
}
