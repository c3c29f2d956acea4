// Package notifier delivers borrowing-created events to the configured
// sink. Delivery is fire-and-forget: the lifecycle controller emits after
// its transaction commits and never fails a request on a delivery error.
package notifier

import (
	"context"
	"fmt"

	"github.com/natalie-goriela/Library-API/internal/model"
)

type BorrowingCreatedEvent struct {
	EventID            string     `json:"event_id"`
	BorrowingID        int64      `json:"borrowing_id"`
	BorrowDate         model.Date `json:"borrow_date"`
	ExpectedReturnDate model.Date `json:"expected_return_date"`
	Book               string     `json:"book"`
	UserEmail          string     `json:"user_email"`
}

// Text renders the human-readable notification body.
func (e BorrowingCreatedEvent) Text() string {
	return fmt.Sprintf(
		"New borrowing № %d was created \n"+
			"Borrowing date: %s\n"+
			"Return by: %s\n"+
			"Book: %s\n"+
			"User: %s",
		e.BorrowingID, e.BorrowDate, e.ExpectedReturnDate, e.Book, e.UserEmail,
	)
}

type Notifier interface {
	BorrowingCreated(ctx context.Context, event BorrowingCreatedEvent) error
}

// Nop drops events; used when no sink is configured.
type Nop struct{}

func (Nop) BorrowingCreated(context.Context, BorrowingCreatedEvent) error { return nil }
