package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/dataclean/internal/core"
)

func TestOperationCounters(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.OperationCompleted(ctx, core.OperationResult{
		Action: core.ActionDropMissingRows, Applied: true, RowsBefore: 10, RowsAfter: 7,
	})
	m.OperationCompleted(ctx, core.OperationResult{
		Action: core.ActionDropMissingRows, RowsBefore: 7, RowsAfter: 7,
		Err: core.ErrWouldEmptyDataset,
	})
	m.OperationCompleted(ctx, core.OperationResult{
		Action: core.ActionFillMissing, Applied: true, RowsBefore: 7, RowsAfter: 7,
		Fill: &core.FillResult{Columns: []core.FilledColumn{{Column: "A", Cells: 4}, {Column: "B", Cells: 2}}},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("drop_missing_rows", "applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("drop_missing_rows", "rejected")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.rowsRemoved.WithLabelValues("drop_missing_rows")))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.cellsFilled))
}

func TestSessionsAndUploads(t *testing.T) {
	m := New()
	m.SetActiveSessions(4)
	m.UploadFinished("csv", "loaded")
	m.UploadFinished("", "rejected")

	assert.Equal(t, 4.0, testutil.ToFloat64(m.activeSessions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploads.WithLabelValues("csv", "loaded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploads.WithLabelValues("unknown", "rejected")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.UploadFinished("xlsx", "loaded")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `dataclean_uploads_total{format="xlsx",outcome="loaded"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
