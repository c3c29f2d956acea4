package service_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/natalie-goriela/Library-API/internal/errs"
	"github.com/natalie-goriela/Library-API/internal/model"
	repository_mocks "github.com/natalie-goriela/Library-API/internal/repository/mocks"
	"github.com/natalie-goriela/Library-API/internal/service"
)

func TestBookService_CreateBook(t *testing.T) {
	t.Parallel()

	req := model.CreateBookRequest{
		Title:     "1984",
		Author:    "George Orwell",
		Cover:     model.CoverHard,
		Inventory: 3,
		DailyFee:  model.Fee(150),
	}

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repository_mocks.NewMockBookRepository(c)
		repo.EXPECT().
			CreateBook(context.Background(), req).
			Return(model.Book{ID: 1, Title: "1984"}, nil)
		svc := service.NewBookService(repo, zap.NewExample().Named("test"))

		book, err := svc.CreateBook(context.Background(), req)
		require.NoError(t, err)
		require.Equal(t, int64(1), book.ID)
	})

	t.Run("negative inventory never reaches the repository", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repository_mocks.NewMockBookRepository(c)
		svc := service.NewBookService(repo, zap.NewExample().Named("test"))

		bad := req
		bad.Inventory = -1
		_, err := svc.CreateBook(context.Background(), bad)

		var ve *errs.ValidationError
		require.ErrorAs(t, err, &ve)
		require.Equal(t, []string{"Inventory must be a positive integer"}, ve.Fields["inventory"])
	})
}

func TestBookService_PatchBook(t *testing.T) {
	t.Parallel()

	t.Run("negative inventory fails", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repository_mocks.NewMockBookRepository(c)
		svc := service.NewBookService(repo, zap.NewExample().Named("test"))

		inv := -5
		_, err := svc.PatchBook(context.Background(), 1, model.PatchBookRequest{Inventory: &inv})
		var ve *errs.ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("empty patch reads the current row", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repository_mocks.NewMockBookRepository(c)
		repo.EXPECT().
			GetBook(context.Background(), int64(1)).
			Return(model.Book{ID: 1}, nil)
		svc := service.NewBookService(repo, zap.NewExample().Named("test"))

		book, err := svc.PatchBook(context.Background(), 1, model.PatchBookRequest{})
		require.NoError(t, err)
		require.Equal(t, int64(1), book.ID)
	})

	t.Run("partial patch is forwarded", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repository_mocks.NewMockBookRepository(c)
		title := "Animal Farm"
		req := model.PatchBookRequest{Title: &title}
		repo.EXPECT().
			PatchBook(context.Background(), int64(1), req).
			Return(model.Book{ID: 1, Title: title}, nil)
		svc := service.NewBookService(repo, zap.NewExample().Named("test"))

		book, err := svc.PatchBook(context.Background(), 1, req)
		require.NoError(t, err)
		require.Equal(t, title, book.Title)
	})
}

func TestBookService_ListBooks(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	repo := repository_mocks.NewMockBookRepository(c)
	repo.EXPECT().
		ListBooks(context.Background(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter model.BookFilter) (model.ListBooks, error) {
			require.Equal(t, 1, filter.Page)
			require.Equal(t, model.MaxPageSize, filter.Size)
			return model.ListBooks{}, nil
		})
	svc := service.NewBookService(repo, zap.NewExample().Named("test"))

	_, err := svc.ListBooks(context.Background(), model.BookFilter{
		PageParams: model.PageParams{Page: 0, Size: 500},
	})
	require.NoError(t, err)
}
