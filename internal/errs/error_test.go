package errs_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/natalie-goriela/Library-API/internal/errs"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	t.Run("accumulates fields", func(t *testing.T) {
		t.Parallel()
		var ve *errs.ValidationError
		ve = errs.Merge(ve, errs.NewValidationError("borrow_date", "The borrowing cannot be backdated"))
		ve = errs.Merge(ve, errs.NewValidationError("expected_return_date", "Return date cannot be earlier than the borrow date"))

		err := ve.OrNil()
		require.Error(t, err)
		require.Len(t, ve.Fields, 2)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		t.Parallel()
		var ve *errs.ValidationError
		ve = errs.Merge(ve, nil)
		require.NoError(t, ve.OrNil())
	})

	t.Run("non-validation errors are ignored", func(t *testing.T) {
		t.Parallel()
		var ve *errs.ValidationError
		ve = errs.Merge(ve, errors.New("db down"))
		require.NoError(t, ve.OrNil())
	})

	t.Run("repeated field appends messages", func(t *testing.T) {
		t.Parallel()
		ve := errs.NewValidationError("inventory", "first")
		ve.Add("inventory", "second")
		require.Equal(t, []string{"first", "second"}, ve.Fields["inventory"])
	})
}
