package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/natalie-goriela/Library-API/internal/errs"
	"github.com/natalie-goriela/Library-API/internal/model"
	"github.com/natalie-goriela/Library-API/internal/notifier"
	repository_mocks "github.com/natalie-goriela/Library-API/internal/repository/mocks"
	"github.com/natalie-goriela/Library-API/internal/service"
	"github.com/natalie-goriela/Library-API/pkg/auth"
)

type stubNotifier struct {
	events []notifier.BorrowingCreatedEvent
	err    error
}

func (s *stubNotifier) BorrowingCreated(_ context.Context, event notifier.BorrowingCreatedEvent) error {
	s.events = append(s.events, event)
	return s.err
}

func date(offsetDays int) model.Date {
	return model.DateFromTime(time.Now().AddDate(0, 0, offsetDays))
}

func dptr(d model.Date) *model.Date { return &d }

var reader = auth.Profile{UserID: 7, Email: "reader@example.com"}

func TestBorrowingService_CreateBorrowing(t *testing.T) {
	t.Parallel()

	req := model.CreateBorrowingRequest{
		BorrowDate:         date(0),
		ExpectedReturnDate: date(10),
		BookID:             1,
	}
	detail := model.BorrowingDetail{
		Borrowing: model.Borrowing{
			ID:                 42,
			BorrowDate:         req.BorrowDate,
			ExpectedReturnDate: req.ExpectedReturnDate,
			BookID:             1,
			UserID:             reader.UserID,
		},
		Book: model.Book{ID: 1, Title: "1984", Author: "George Orwell", Inventory: 0},
	}

	t.Run("ok emits notification after commit", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repository_mocks.NewMockBorrowingRepository(c)
		repo.EXPECT().
			CreateBorrowing(context.Background(), req, reader.UserID).
			Return(detail, nil)
		sink := &stubNotifier{}
		svc := service.NewBorrowingService(repo, sink, zap.NewExample().Named("test"))

		got, err := svc.CreateBorrowing(context.Background(), req, reader)
		require.NoError(t, err)
		require.Equal(t, detail, got)

		require.Len(t, sink.events, 1)
		event := sink.events[0]
		require.NotEmpty(t, event.EventID)
		require.Equal(t, int64(42), event.BorrowingID)
		require.Equal(t, "1984 (George Orwell)", event.Book)
		require.Equal(t, "reader@example.com", event.UserEmail)
	})

	t.Run("notifier failure does not fail the create", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repository_mocks.NewMockBorrowingRepository(c)
		repo.EXPECT().
			CreateBorrowing(context.Background(), req, reader.UserID).
			Return(detail, nil)
		sink := &stubNotifier{err: errs.ErrNotFound}
		svc := service.NewBorrowingService(repo, sink, zap.NewExample().Named("test"))

		got, err := svc.CreateBorrowing(context.Background(), req, reader)
		require.NoError(t, err)
		require.Equal(t, detail, got)
	})

	t.Run("backdated borrow date fails before any mutation", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repository_mocks.NewMockBorrowingRepository(c)
		sink := &stubNotifier{}
		svc := service.NewBorrowingService(repo, sink, zap.NewExample().Named("test"))

		backdated := req
		backdated.BorrowDate = date(-1)
		_, err := svc.CreateBorrowing(context.Background(), backdated, reader)

		var ve *errs.ValidationError
		require.ErrorAs(t, err, &ve)
		require.Contains(t, ve.Fields, "borrow_date")
		require.Empty(t, sink.events)
	})

	t.Run("inverted return window fails", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repository_mocks.NewMockBorrowingRepository(c)
		svc := service.NewBorrowingService(repo, &stubNotifier{}, zap.NewExample().Named("test"))

		inverted := req
		inverted.BorrowDate = date(5)
		inverted.ExpectedReturnDate = date(4)
		_, err := svc.CreateBorrowing(context.Background(), inverted, reader)

		var ve *errs.ValidationError
		require.ErrorAs(t, err, &ve)
		require.Contains(t, ve.Fields, "expected_return_date")
	})

	t.Run("both dates invalid reports both fields", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repository_mocks.NewMockBorrowingRepository(c)
		svc := service.NewBorrowingService(repo, &stubNotifier{}, zap.NewExample().Named("test"))

		bad := req
		bad.BorrowDate = date(-1)
		bad.ExpectedReturnDate = date(-3)
		_, err := svc.CreateBorrowing(context.Background(), bad, reader)

		var ve *errs.ValidationError
		require.ErrorAs(t, err, &ve)
		require.Contains(t, ve.Fields, "borrow_date")
		require.Contains(t, ve.Fields, "expected_return_date")
	})

	t.Run("out of stock propagates and skips notification", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repository_mocks.NewMockBorrowingRepository(c)
		repo.EXPECT().
			CreateBorrowing(context.Background(), req, reader.UserID).
			Return(model.BorrowingDetail{}, errs.ErrOutOfStock)
		sink := &stubNotifier{}
		svc := service.NewBorrowingService(repo, sink, zap.NewExample().Named("test"))

		_, err := svc.CreateBorrowing(context.Background(), req, reader)
		require.ErrorIs(t, err, errs.ErrOutOfStock)
		require.Empty(t, sink.events)
	})
}

func TestBorrowingService_ReturnBorrowing(t *testing.T) {
	t.Parallel()

	active := model.BorrowingDetail{
		Borrowing: model.Borrowing{
			ID:                 42,
			BorrowDate:         date(-5),
			ExpectedReturnDate: date(5),
			BookID:             1,
			UserID:             reader.UserID,
		},
		Book: model.Book{ID: 1, Title: "1984", Author: "George Orwell"},
	}
	returned := active
	returned.ActualReturnDate = dptr(date(0))

	var tests = []struct {
		name     string
		profile  auth.Profile
		detail   model.BorrowingDetail
		wantRepo bool
		wantErr  error
	}{
		{name: "owner returns", profile: reader, detail: active, wantRepo: true},
		{name: "staff returns for someone else", profile: auth.Profile{UserID: 99, IsStaff: true}, detail: active, wantRepo: true},
		{name: "stranger is forbidden", profile: auth.Profile{UserID: 99}, detail: active, wantErr: errs.ErrForbidden},
		{name: "second return fails", profile: reader, detail: returned, wantErr: errs.ErrAlreadyReturned},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			repo := repository_mocks.NewMockBorrowingRepository(c)
			repo.EXPECT().
				GetBorrowing(context.Background(), int64(42)).
				Return(tt.detail, nil)
			if tt.wantRepo {
				repo.EXPECT().
					ReturnBorrowing(context.Background(), int64(42), model.Today()).
					Return(tt.detail.Borrowing, nil)
			}
			svc := service.NewBorrowingService(repo, &stubNotifier{}, zap.NewExample().Named("test"))

			_, err := svc.ReturnBorrowing(context.Background(), 42, tt.profile)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestBorrowingService_UpdateBorrowing(t *testing.T) {
	t.Parallel()

	active := model.BorrowingDetail{
		Borrowing: model.Borrowing{
			ID:                 42,
			BorrowDate:         date(-5),
			ExpectedReturnDate: date(5),
			BookID:             1,
			UserID:             reader.UserID,
		},
	}

	t.Run("sets the supplied date", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repository_mocks.NewMockBorrowingRepository(c)
		repo.EXPECT().
			GetBorrowing(context.Background(), int64(42)).
			Return(active, nil)
		repo.EXPECT().
			ReturnBorrowing(context.Background(), int64(42), date(-1)).
			Return(active.Borrowing, nil)
		svc := service.NewBorrowingService(repo, &stubNotifier{}, zap.NewExample().Named("test"))

		_, err := svc.UpdateBorrowing(context.Background(), 42, model.ReturnBorrowingRequest{ActualReturnDate: date(-1)})
		require.NoError(t, err)
	})

	t.Run("rejects a date before the borrow date", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repository_mocks.NewMockBorrowingRepository(c)
		repo.EXPECT().
			GetBorrowing(context.Background(), int64(42)).
			Return(active, nil)
		svc := service.NewBorrowingService(repo, &stubNotifier{}, zap.NewExample().Named("test"))

		_, err := svc.UpdateBorrowing(context.Background(), 42, model.ReturnBorrowingRequest{ActualReturnDate: date(-10)})
		var ve *errs.ValidationError
		require.ErrorAs(t, err, &ve)
		require.Contains(t, ve.Fields, "actual_return_date")
	})

	t.Run("rejects a second return", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repository_mocks.NewMockBorrowingRepository(c)
		closed := active
		closed.ActualReturnDate = dptr(date(0))
		repo.EXPECT().
			GetBorrowing(context.Background(), int64(42)).
			Return(closed, nil)
		svc := service.NewBorrowingService(repo, &stubNotifier{}, zap.NewExample().Named("test"))

		_, err := svc.UpdateBorrowing(context.Background(), 42, model.ReturnBorrowingRequest{ActualReturnDate: date(0)})
		require.ErrorIs(t, err, errs.ErrAlreadyReturned)
	})
}

func TestBorrowingService_ListBorrowings(t *testing.T) {
	t.Parallel()

	t.Run("non-staff is pinned to own records", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repository_mocks.NewMockBorrowingRepository(c)
		other := int64(99)
		repo.EXPECT().
			ListBorrowings(context.Background(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter model.BorrowingFilter) (model.ListBorrowings, error) {
				require.NotNil(t, filter.UserID)
				require.Equal(t, reader.UserID, *filter.UserID)
				require.Equal(t, model.DefaultPageSize, filter.Size)
				return model.ListBorrowings{}, nil
			})
		svc := service.NewBorrowingService(repo, &stubNotifier{}, zap.NewExample().Named("test"))

		_, err := svc.ListBorrowings(context.Background(), model.BorrowingFilter{UserID: &other}, reader)
		require.NoError(t, err)
	})

	t.Run("staff may filter by user", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repository_mocks.NewMockBorrowingRepository(c)
		other := int64(99)
		repo.EXPECT().
			ListBorrowings(context.Background(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter model.BorrowingFilter) (model.ListBorrowings, error) {
				require.NotNil(t, filter.UserID)
				require.Equal(t, other, *filter.UserID)
				return model.ListBorrowings{}, nil
			})
		svc := service.NewBorrowingService(repo, &stubNotifier{}, zap.NewExample().Named("test"))

		staff := auth.Profile{UserID: 1, IsStaff: true}
		_, err := svc.ListBorrowings(context.Background(), model.BorrowingFilter{UserID: &other}, staff)
		require.NoError(t, err)
	})
}

func TestBorrowingService_GetBorrowing(t *testing.T) {
	t.Parallel()

	detail := model.BorrowingDetail{
		Borrowing: model.Borrowing{ID: 42, UserID: reader.UserID, BookID: 1},
	}

	c := gomock.NewController(t)
	defer c.Finish()
	repo := repository_mocks.NewMockBorrowingRepository(c)
	repo.EXPECT().
		GetBorrowing(context.Background(), int64(42)).
		Return(detail, nil).
		Times(2)
	svc := service.NewBorrowingService(repo, &stubNotifier{}, zap.NewExample().Named("test"))

	got, err := svc.GetBorrowing(context.Background(), 42, reader)
	require.NoError(t, err)
	require.Equal(t, detail, got)

	_, err = svc.GetBorrowing(context.Background(), 42, auth.Profile{UserID: 99})
	require.ErrorIs(t, err, errs.ErrForbidden)
}
