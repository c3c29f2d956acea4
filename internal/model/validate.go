package model

import (
	"github.com/natalie-goriela/Library-API/internal/errs"
)

const (
	msgInventory    = "Inventory must be a positive integer"
	msgBackdated    = "The borrowing cannot be backdated"
	msgReturnWindow = "Return date cannot be earlier than the borrow date"
)

// ValidateInventory fails when the value is negative. Runs before every
// book persist.
func ValidateInventory(inventory int) error {
	if inventory < 0 {
		return errs.NewValidationError("inventory", msgInventory)
	}
	return nil
}

// ValidateBorrowDate rejects backdated borrowings.
func ValidateBorrowDate(borrowDate Date) error {
	if borrowDate.Before(Today()) {
		return errs.NewValidationError("borrow_date", msgBackdated)
	}
	return nil
}

// ValidateExpectedReturnDate rejects return windows that close before they open.
func ValidateExpectedReturnDate(borrowDate, expectedReturnDate Date) error {
	if expectedReturnDate.Before(borrowDate) {
		return errs.NewValidationError("expected_return_date", msgReturnWindow)
	}
	return nil
}

// ValidateActualReturnDate rejects an actual return that precedes the borrow
// date. A nil date means the borrowing is still active and passes.
func ValidateActualReturnDate(borrowDate Date, actualReturnDate *Date) error {
	if actualReturnDate != nil && actualReturnDate.Before(borrowDate) {
		return errs.NewValidationError("actual_return_date", msgReturnWindow)
	}
	return nil
}
