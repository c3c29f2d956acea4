package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/natalie-goriela/Library-API/internal/model"
)

func TestDateJSON(t *testing.T) {
	t.Parallel()

	d := model.NewDate(2024, time.January, 10)
	data, err := json.Marshal(d)
	require.NoError(t, err)
	require.Equal(t, `"2024-01-10"`, string(data))

	var parsed model.Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-01-10"`), &parsed))
	require.True(t, parsed.Equal(d.Time))

	require.Error(t, json.Unmarshal([]byte(`"10.01.2024"`), &parsed))
}

func TestDateScan(t *testing.T) {
	t.Parallel()

	var d model.Date
	require.NoError(t, d.Scan(time.Date(2024, time.March, 5, 15, 30, 0, 0, time.UTC)))
	require.Equal(t, "2024-03-05", d.String())

	require.NoError(t, d.Scan(nil))
	require.True(t, d.IsZero())
}

func TestDateBefore(t *testing.T) {
	t.Parallel()

	a := model.NewDate(2024, time.January, 1)
	b := model.NewDate(2024, time.January, 2)
	require.True(t, a.Before(b))
	require.False(t, b.Before(a))
	require.False(t, a.Before(a))
}
