package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/natalie-goriela/Library-API/internal/errs"
	"github.com/natalie-goriela/Library-API/internal/model"
)

func date(offsetDays int) model.Date {
	return model.DateFromTime(time.Now().AddDate(0, 0, offsetDays))
}

func TestValidateInventory(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name      string
		inventory int
		wantErr   bool
	}{
		{name: "zero is valid", inventory: 0, wantErr: false},
		{name: "positive is valid", inventory: 5, wantErr: false},
		{name: "large is valid", inventory: 1 << 20, wantErr: false},
		{name: "negative fails", inventory: -1, wantErr: true},
		{name: "very negative fails", inventory: -100, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := model.ValidateInventory(tt.inventory)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var ve *errs.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, []string{"Inventory must be a positive integer"}, ve.Fields["inventory"])
		})
	}
}

func TestValidateBorrowDate(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name       string
		borrowDate model.Date
		wantErr    bool
	}{
		{name: "today is valid", borrowDate: date(0), wantErr: false},
		{name: "tomorrow is valid", borrowDate: date(1), wantErr: false},
		{name: "next month is valid", borrowDate: date(30), wantErr: false},
		{name: "yesterday fails", borrowDate: date(-1), wantErr: true},
		{name: "last year fails", borrowDate: date(-365), wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := model.ValidateBorrowDate(tt.borrowDate)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var ve *errs.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, []string{"The borrowing cannot be backdated"}, ve.Fields["borrow_date"])
		})
	}
}

func TestValidateExpectedReturnDate(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name     string
		borrow   model.Date
		expected model.Date
		wantErr  bool
	}{
		{name: "same day is valid", borrow: date(0), expected: date(0), wantErr: false},
		{name: "later is valid", borrow: date(0), expected: date(10), wantErr: false},
		{name: "earlier fails", borrow: date(0), expected: date(-1), wantErr: true},
		{name: "earlier fails for future borrow", borrow: date(5), expected: date(4), wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := model.ValidateExpectedReturnDate(tt.borrow, tt.expected)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var ve *errs.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, []string{"Return date cannot be earlier than the borrow date"}, ve.Fields["expected_return_date"])
		})
	}
}

func TestValidateActualReturnDate(t *testing.T) {
	t.Parallel()
	ptr := func(d model.Date) *model.Date { return &d }

	var tests = []struct {
		name    string
		borrow  model.Date
		actual  *model.Date
		wantErr bool
	}{
		{name: "absent is valid", borrow: date(0), actual: nil, wantErr: false},
		{name: "same day is valid", borrow: date(0), actual: ptr(date(0)), wantErr: false},
		{name: "later is valid", borrow: date(0), actual: ptr(date(3)), wantErr: false},
		{name: "earlier fails", borrow: date(0), actual: ptr(date(-2)), wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := model.ValidateActualReturnDate(tt.borrow, tt.actual)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var ve *errs.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, []string{"Return date cannot be earlier than the borrow date"}, ve.Fields["actual_return_date"])
		})
	}
}
