package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/natalie-goriela/Library-API/internal/errs"
	"github.com/natalie-goriela/Library-API/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=borrowing.go -destination=mocks/borrowing.go -package=repository_mocks

type BorrowingRepository interface {
	// CreateBorrowing atomically decrements the book inventory and inserts
	// an active ledger row. Returns errs.ErrOutOfStock when no copies remain.
	CreateBorrowing(ctx context.Context, req model.CreateBorrowingRequest, userID int64) (model.BorrowingDetail, error)
	// ReturnBorrowing atomically closes an active ledger row and increments
	// the book inventory. Returns errs.ErrAlreadyReturned on a second call.
	ReturnBorrowing(ctx context.Context, id int64, date model.Date) (model.Borrowing, error)
	GetBorrowing(ctx context.Context, id int64) (model.BorrowingDetail, error)
	ListBorrowings(ctx context.Context, filter model.BorrowingFilter) (model.ListBorrowings, error)
}

type borrowingRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewBorrowingRepository(db *sqlx.DB, log *zap.Logger) *borrowingRepository {
	return &borrowingRepository{
		db:  db,
		log: log.Named("repo"),
	}
}

const (
	borrowingsTableName = `borrowings`

	borrowingColumns = `id, borrow_date, expected_return_date, actual_return_date, book_id, user_id`
)

// inTx runs fn inside a transaction; rollback on error is best effort.
func (r *borrowingRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "commit tx")
}

// lockBook takes the row lock serializing concurrent lifecycle transitions
// on the same book.
func lockBook(ctx context.Context, tx *sqlx.Tx, id int64) (model.Book, error) {
	const q = `
	select id, title, author, cover, inventory, daily_fee from books
	where id = $1
	for update`
	var book model.Book
	if err := tx.GetContext(ctx, &book, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *borrowingRepository) CreateBorrowing(ctx context.Context, req model.CreateBorrowingRequest, userID int64) (model.BorrowingDetail, error) {
	var detail model.BorrowingDetail
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		book, err := lockBook(ctx, tx, req.BookID)
		if err != nil {
			return err
		}
		if book.Inventory == 0 {
			return errs.ErrOutOfStock
		}

		if _, err := tx.ExecContext(ctx,
			`update books set inventory = inventory - 1 where id = $1`, book.ID); err != nil {
			return wrapPgError(err)
		}
		book.Inventory--

		query, args, err := qb.Insert(borrowingsTableName).
			Columns("borrow_date", "expected_return_date", "book_id", "user_id").
			Values(req.BorrowDate, req.ExpectedReturnDate, book.ID, userID).
			Suffix("returning " + borrowingColumns).
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &detail.Borrowing, query, args...); err != nil {
			r.log.Error("CreateBorrowing", zap.String("q", query), zap.Any("args", args))
			return wrapPgError(err)
		}
		detail.Book = book
		return nil
	})
	if err != nil {
		return model.BorrowingDetail{}, err
	}
	return detail, nil
}

func (r *borrowingRepository) ReturnBorrowing(ctx context.Context, id int64, date model.Date) (model.Borrowing, error) {
	var borrowing model.Borrowing
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		const q = `
		select ` + borrowingColumns + ` from borrowings
		where id = $1
		for update`
		if err := tx.GetContext(ctx, &borrowing, q, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}
		if !borrowing.Active() {
			return errs.ErrAlreadyReturned
		}
		if err := model.ValidateActualReturnDate(borrowing.BorrowDate, &date); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`update borrowings set actual_return_date = $2 where id = $1`, id, date); err != nil {
			return wrapPgError(err)
		}
		borrowing.ActualReturnDate = &date

		if _, err := lockBook(ctx, tx, borrowing.BookID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`update books set inventory = inventory + 1 where id = $1`, borrowing.BookID); err != nil {
			return wrapPgError(err)
		}
		return nil
	})
	if err != nil {
		return model.Borrowing{}, err
	}
	return borrowing, nil
}

func (r *borrowingRepository) GetBorrowing(ctx context.Context, id int64) (model.BorrowingDetail, error) {
	query, args, err := qb.Select(borrowingColumns).
		From(borrowingsTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.BorrowingDetail{}, err
	}
	var detail model.BorrowingDetail
	if err := r.db.GetContext(ctx, &detail.Borrowing, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BorrowingDetail{}, errs.ErrNotFound
		}
		return model.BorrowingDetail{}, err
	}

	query, args, err = qb.Select(bookColumns).
		From(booksTableName).
		Where(sq.Eq{"id": detail.BookID}).
		ToSql()
	if err != nil {
		return model.BorrowingDetail{}, err
	}
	if err := r.db.GetContext(ctx, &detail.Book, query, args...); err != nil {
		return model.BorrowingDetail{}, err
	}
	return detail, nil
}

type borrowingRow struct {
	model.Borrowing
	BookTitle  string `db:"book_title"`
	BookAuthor string `db:"book_author"`
}

func (r *borrowingRepository) ListBorrowings(ctx context.Context, filter model.BorrowingFilter) (model.ListBorrowings, error) {
	q := qb.Select("b.id", "b.borrow_date", "b.expected_return_date", "b.actual_return_date",
		"b.book_id", "b.user_id", "bk.title as book_title", "bk.author as book_author").
		From(borrowingsTableName + " b").
		Join(booksTableName + " bk on bk.id = b.book_id").
		OrderBy("b.borrow_date desc", "b.id desc")

	if filter.UserID != nil {
		q = q.Where(sq.Eq{"b.user_id": *filter.UserID})
	}
	if filter.IsActive != nil && *filter.IsActive {
		q = q.Where(sq.Eq{"b.actual_return_date": nil})
	}
	q = q.Limit(uint64(filter.Size)).Offset(uint64((filter.Page - 1) * filter.Size))

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBorrowings{}, err
	}
	r.log.Debug("ListBorrowings", zap.String("query", query), zap.Any("args", args))

	var rows []borrowingRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return model.ListBorrowings{}, err
	}

	items := make([]model.BorrowingItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, model.BorrowingItem{
			Borrowing: row.Borrowing,
			Book: model.BookBrief{
				Title:  row.BookTitle,
				Author: row.BookAuthor,
			},
		})
	}

	return model.ListBorrowings{
		Paging: model.Paging{
			Page:          filter.Page,
			PageSize:      filter.Size,
			TotalElements: len(items),
		},
		Items: items,
	}, nil
}
