package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/natalie-goriela/Library-API/internal/errs"
	"github.com/natalie-goriela/Library-API/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=book.go -destination=mocks/book.go -package=repository_mocks

type BookRepository interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	ListBooks(ctx context.Context, filter model.BookFilter) (model.ListBooks, error)
	UpdateBook(ctx context.Context, id int64, req model.CreateBookRequest) (model.Book, error)
	PatchBook(ctx context.Context, id int64, req model.PatchBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

type bookRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewBookRepository(db *sqlx.DB, log *zap.Logger) *bookRepository {
	return &bookRepository{
		db:  db,
		log: log.Named("repo"),
	}
}

const booksTableName = `books`

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const bookColumns = `id, title, author, cover, inventory, daily_fee`

func (r *bookRepository) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "cover", "inventory", "daily_fee").
		Values(req.Title, req.Author, req.Cover, req.Inventory, req.DailyFee).
		Suffix("returning " + bookColumns).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		r.log.Error("CreateBook", zap.String("q", query), zap.Any("args", args))
		return model.Book{}, wrapPgError(err)
	}
	return book, nil
}

func (r *bookRepository) GetBook(ctx context.Context, id int64) (model.Book, error) {
	query, args, err := qb.Select(bookColumns).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *bookRepository) ListBooks(ctx context.Context, filter model.BookFilter) (model.ListBooks, error) {
	q := qb.Select(bookColumns).
		From(booksTableName).
		Distinct().
		OrderBy("title asc", "id asc")

	if filter.Title != "" {
		q = q.Where(sq.ILike{"title": fmt.Sprint("%", filter.Title, "%")})
	}
	if filter.Author != "" {
		q = q.Where(sq.ILike{"author": fmt.Sprint("%", filter.Author, "%")})
	}
	q = q.Limit(uint64(filter.Size)).Offset(uint64((filter.Page - 1) * filter.Size))

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	books := make([]model.Book, 0)
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return model.ListBooks{}, err
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:          filter.Page,
			PageSize:      filter.Size,
			TotalElements: len(books),
		},
		Items: books,
	}, nil
}

func (r *bookRepository) UpdateBook(ctx context.Context, id int64, req model.CreateBookRequest) (model.Book, error) {
	query, args, err := qb.Update(booksTableName).
		Set("title", req.Title).
		Set("author", req.Author).
		Set("cover", req.Cover).
		Set("inventory", req.Inventory).
		Set("daily_fee", req.DailyFee).
		Where(sq.Eq{"id": id}).
		Suffix("returning " + bookColumns).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		r.log.Error("UpdateBook", zap.String("q", query), zap.Any("args", args))
		return model.Book{}, wrapPgError(err)
	}
	return book, nil
}

func (r *bookRepository) PatchBook(ctx context.Context, id int64, req model.PatchBookRequest) (model.Book, error) {
	q := qb.Update(booksTableName)
	if req.Title != nil {
		q = q.Set("title", *req.Title)
	}
	if req.Author != nil {
		q = q.Set("author", *req.Author)
	}
	if req.Cover != nil {
		q = q.Set("cover", *req.Cover)
	}
	if req.Inventory != nil {
		q = q.Set("inventory", *req.Inventory)
	}
	if req.DailyFee != nil {
		q = q.Set("daily_fee", *req.DailyFee)
	}
	query, args, err := q.Where(sq.Eq{"id": id}).
		Suffix("returning " + bookColumns).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		return model.Book{}, wrapPgError(err)
	}
	return book, nil
}

func (r *bookRepository) DeleteBook(ctx context.Context, id int64) error {
	query, args, err := qb.Delete(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errs.ErrNotFound
	}
	return nil
}
