package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/natalie-goriela/Library-API/internal/model"
	"github.com/natalie-goriela/Library-API/internal/repository"
)

type BookService struct {
	log  *zap.Logger
	repo repository.BookRepository
}

func NewBookService(repo repository.BookRepository, log *zap.Logger) *BookService {
	return &BookService{
		log:  log,
		repo: repo,
	}
}

func (s *BookService) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	if err := model.ValidateInventory(req.Inventory); err != nil {
		return model.Book{}, err
	}
	return s.repo.CreateBook(ctx, req)
}

func (s *BookService) GetBook(ctx context.Context, id int64) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *BookService) ListBooks(ctx context.Context, filter model.BookFilter) (model.ListBooks, error) {
	filter.Normalize()
	return s.repo.ListBooks(ctx, filter)
}

func (s *BookService) UpdateBook(ctx context.Context, id int64, req model.CreateBookRequest) (model.Book, error) {
	if err := model.ValidateInventory(req.Inventory); err != nil {
		return model.Book{}, err
	}
	return s.repo.UpdateBook(ctx, id, req)
}

func (s *BookService) PatchBook(ctx context.Context, id int64, req model.PatchBookRequest) (model.Book, error) {
	if req.Inventory != nil {
		if err := model.ValidateInventory(*req.Inventory); err != nil {
			return model.Book{}, err
		}
	}
	if req.Title == nil && req.Author == nil && req.Cover == nil && req.Inventory == nil && req.DailyFee == nil {
		return s.repo.GetBook(ctx, id)
	}
	return s.repo.PatchBook(ctx, id, req)
}

func (s *BookService) DeleteBook(ctx context.Context, id int64) error {
	return s.repo.DeleteBook(ctx, id)
}
