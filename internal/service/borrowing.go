package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/natalie-goriela/Library-API/internal/errs"
	"github.com/natalie-goriela/Library-API/internal/model"
	"github.com/natalie-goriela/Library-API/internal/notifier"
	"github.com/natalie-goriela/Library-API/internal/repository"
	"github.com/natalie-goriela/Library-API/pkg/auth"
)

// BorrowingService is the lifecycle controller: it validates transitions,
// delegates the atomic inventory mutation to the repository and emits the
// created event once the transaction has committed.
type BorrowingService struct {
	log      *zap.Logger
	repo     repository.BorrowingRepository
	notifier notifier.Notifier
}

func NewBorrowingService(repo repository.BorrowingRepository, n notifier.Notifier, log *zap.Logger) *BorrowingService {
	return &BorrowingService{
		log:      log,
		repo:     repo,
		notifier: n,
	}
}

func (s *BorrowingService) CreateBorrowing(ctx context.Context, req model.CreateBorrowingRequest, profile auth.Profile) (model.BorrowingDetail, error) {
	var ve *errs.ValidationError
	ve = errs.Merge(ve, model.ValidateBorrowDate(req.BorrowDate))
	ve = errs.Merge(ve, model.ValidateExpectedReturnDate(req.BorrowDate, req.ExpectedReturnDate))
	if err := ve.OrNil(); err != nil {
		return model.BorrowingDetail{}, err
	}

	detail, err := s.repo.CreateBorrowing(ctx, req, profile.UserID)
	if err != nil {
		return model.BorrowingDetail{}, err
	}

	// The transaction is committed at this point. A failed delivery is
	// logged and never surfaced to the caller.
	event := notifier.BorrowingCreatedEvent{
		EventID:            uuid.NewString(),
		BorrowingID:        detail.ID,
		BorrowDate:         detail.BorrowDate,
		ExpectedReturnDate: detail.ExpectedReturnDate,
		Book:               detail.Book.Describe(),
		UserEmail:          profile.Email,
	}
	if err := s.notifier.BorrowingCreated(ctx, event); err != nil {
		s.log.Error("borrowing notification", zap.Error(err),
			zap.Int64("borrowing_id", detail.ID))
	}

	return detail, nil
}

func (s *BorrowingService) GetBorrowing(ctx context.Context, id int64, profile auth.Profile) (model.BorrowingDetail, error) {
	detail, err := s.repo.GetBorrowing(ctx, id)
	if err != nil {
		return model.BorrowingDetail{}, err
	}
	if detail.UserID != profile.UserID && !profile.Staff() {
		return model.BorrowingDetail{}, errs.ErrForbidden
	}
	return detail, nil
}

func (s *BorrowingService) ListBorrowings(ctx context.Context, filter model.BorrowingFilter, profile auth.Profile) (model.ListBorrowings, error) {
	if !profile.Staff() {
		// Non-staff callers only ever see their own ledger.
		filter.UserID = &profile.UserID
	}
	filter.Normalize()
	return s.repo.ListBorrowings(ctx, filter)
}

// ReturnBorrowing is the explicit return action: owner or staff, the actual
// return date is today.
func (s *BorrowingService) ReturnBorrowing(ctx context.Context, id int64, profile auth.Profile) (model.Borrowing, error) {
	detail, err := s.repo.GetBorrowing(ctx, id)
	if err != nil {
		return model.Borrowing{}, err
	}
	if detail.UserID != profile.UserID && !profile.Staff() {
		return model.Borrowing{}, errs.ErrForbidden
	}
	if !detail.Active() {
		return model.Borrowing{}, errs.ErrAlreadyReturned
	}
	return s.repo.ReturnBorrowing(ctx, id, model.Today())
}

// UpdateBorrowing is the update-style return: staff-only by route policy,
// the actual return date comes from the request body.
func (s *BorrowingService) UpdateBorrowing(ctx context.Context, id int64, req model.ReturnBorrowingRequest) (model.Borrowing, error) {
	detail, err := s.repo.GetBorrowing(ctx, id)
	if err != nil {
		return model.Borrowing{}, err
	}
	if !detail.Active() {
		return model.Borrowing{}, errs.ErrAlreadyReturned
	}
	if err := model.ValidateActualReturnDate(detail.BorrowDate, &req.ActualReturnDate); err != nil {
		return model.Borrowing{}, err
	}
	return s.repo.ReturnBorrowing(ctx, id, req.ActualReturnDate)
}
