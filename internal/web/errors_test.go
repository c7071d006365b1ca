package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/JonMunkholm/dataclean/internal/core"
	"github.com/JonMunkholm/dataclean/internal/fileio"
	"github.com/JonMunkholm/dataclean/internal/session"
	"github.com/JonMunkholm/dataclean/internal/web/templates"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&core.WouldEmptyDatasetError{Operation: "drop", Rows: 2}, http.StatusConflict},
		{&core.UndefinedAggregateError{Columns: []string{"A"}}, http.StatusConflict},
		{&core.NonFiniteAggregateError{Columns: []string{"A"}}, http.StatusConflict},
		{&core.InvalidColumnError{Columns: []string{"x"}}, http.StatusBadRequest},
		{&core.UnreadableInputError{Source: "a.csv", Err: errors.New("bad quote")}, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: exceeds 1 MB limit", fileio.ErrFileTooLarge), http.StatusRequestEntityTooLarge},
		{fileio.ErrUnsupportedFormat, http.StatusBadRequest},
		{errNoFile, http.StatusBadRequest},
		{fmt.Errorf("%w: bad", errInvalidRequest), http.StatusBadRequest},
		{session.ErrSessionNotFound, http.StatusNotFound},
		{core.ErrNoDataset, http.StatusNotFound},
		{fmt.Errorf("%w %q", errUnknownOperation, "x"), http.StatusNotFound},
		{fileio.ErrTooManyUploads, http.StatusServiceUnavailable},
		{session.ErrTooManySessions, http.StatusServiceUnavailable},
		{errRateLimited, http.StatusTooManyRequests},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestOutcomeNotices(t *testing.T) {
	tests := []struct {
		name string
		res  core.OperationResult
		want []templates.Notice
	}{
		{
			name: "drop rows",
			res:  core.OperationResult{Action: core.ActionDropMissingRows, RowsBefore: 5, RowsAfter: 3},
			want: []templates.Notice{{Level: templates.LevelSuccess, Message: "Deleted 2 rows!"}},
		},
		{
			name: "empty columns",
			res:  core.OperationResult{Action: core.ActionRemoveEmptyColumns, RemovedColumns: []string{"X", "Y"}},
			want: []templates.Notice{{Level: templates.LevelSuccess, Message: "Removed 2 empty columns!"}},
		},
		{
			name: "fill with defaulted column",
			res: core.OperationResult{
				Action: core.ActionFillMissing,
				Fill:   &core.FillResult{Defaulted: []string{"Score"}},
			},
			want: []templates.Notice{
				{Level: templates.LevelSuccess, Message: "Filled all missing values!"},
				{Level: templates.LevelWarning, Message: "These numeric columns had no values and were filled with 0: Score"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outcomeNotices(tt.res))
		})
	}
}

func TestRateLimiterRefills(t *testing.T) {
	rl := newRateLimiter(60, 1)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.2"), "buckets are per IP")

	now = now.Add(time.Second)
	assert.True(t, rl.allow("10.0.0.1"), "one token per second at 60/min")
	assert.Equal(t, 1, rl.retryAfter())

	now = now.Add(10 * time.Minute)
	rl.allow("10.0.0.3")
	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Len(t, rl.visitors, 1, "idle visitors are swept")
}
