// Package audit persists workspace operations to Postgres.
//
// A Recorder is a core.Observer: the web layer installs it on every new
// workspace when a database is configured. Write failures are logged and
// never surface to the user.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/netip"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/dataclean/internal/core"
)

// Execer is the subset of *pgxpool.Pool the recorder needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Severity ranks how much an action changes a dataset.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Outcome is "applied" or "rejected".
type Outcome string

const (
	OutcomeApplied  Outcome = "applied"
	OutcomeRejected Outcome = "rejected"
)

func severityFor(action core.Action) Severity {
	switch action {
	case core.ActionDropMissingRows, core.ActionRemoveColumns, core.ActionRemoveDuplicates:
		return SeverityHigh
	case core.ActionFillMissing, core.ActionRemoveEmptyColumns:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS cleaning_audit_log (
    id              UUID PRIMARY KEY,
    session_id      TEXT NOT NULL,
    request_id      TEXT,
    action          TEXT NOT NULL,
    severity        TEXT NOT NULL,
    outcome         TEXT NOT NULL,
    rows_before     INTEGER NOT NULL,
    rows_after      INTEGER NOT NULL,
    columns_before  INTEGER NOT NULL,
    columns_after   INTEGER NOT NULL,
    detail          JSONB,
    error           TEXT,
    ip_address      INET,
    user_agent      TEXT,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS cleaning_audit_log_session_idx
    ON cleaning_audit_log (session_id, created_at);
`

const insertSQL = `
INSERT INTO cleaning_audit_log (
    id, session_id, request_id, action, severity, outcome,
    rows_before, rows_after, columns_before, columns_after,
    detail, error, ip_address, user_agent, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, $12, $13, $14, $15)`

// EnsureSchema creates the audit table if it does not exist.
func EnsureSchema(ctx context.Context, db Execer) error {
	_, err := db.Exec(ctx, schemaSQL)
	return err
}

// Recorder writes one row per observed operation.
type Recorder struct {
	db      Execer
	timeout time.Duration
	now     func() time.Time
}

// NewRecorder returns a recorder that gives each write at most timeout.
func NewRecorder(db Execer, timeout time.Duration) *Recorder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Recorder{db: db, timeout: timeout, now: time.Now}
}

// Entry is the row written for one operation.
type Entry struct {
	ID            string
	SessionID     string
	RequestID     string
	Action        core.Action
	Severity      Severity
	Outcome       Outcome
	RowsBefore    int
	RowsAfter     int
	ColumnsBefore int
	ColumnsAfter  int
	Detail        []byte
	Error         string
	IPAddress     *netip.Addr
	UserAgent     string
	CreatedAt     time.Time
}

type detail struct {
	RemovedColumns []string         `json:"removedColumns,omitempty"`
	Fill           *core.FillResult `json:"fill,omitempty"`
	RowsRemoved    int              `json:"rowsRemoved,omitempty"`
}

// NewEntry builds the audit row for result using the request metadata in ctx.
func (r *Recorder) NewEntry(ctx context.Context, result core.OperationResult) Entry {
	info := core.RequestInfoFromContext(ctx)

	e := Entry{
		ID:            uuid.NewString(),
		SessionID:     result.SessionID,
		RequestID:     info.RequestID,
		Action:        result.Action,
		Severity:      severityFor(result.Action),
		Outcome:       OutcomeApplied,
		RowsBefore:    result.RowsBefore,
		RowsAfter:     result.RowsAfter,
		ColumnsBefore: result.ColumnsBefore,
		ColumnsAfter:  result.ColumnsAfter,
		IPAddress:     parseIP(info.IPAddress),
		UserAgent:     info.UserAgent,
		CreatedAt:     r.now().UTC(),
	}
	if !result.Applied {
		e.Outcome = OutcomeRejected
	}
	if result.Err != nil {
		e.Error = result.Err.Error()
	}

	d := detail{RemovedColumns: result.RemovedColumns, Fill: result.Fill, RowsRemoved: result.RowsRemoved()}
	if b, err := json.Marshal(d); err == nil {
		e.Detail = b
	}
	return e
}

// OperationCompleted implements core.Observer.
func (r *Recorder) OperationCompleted(ctx context.Context, result core.OperationResult) {
	e := r.NewEntry(ctx, result)

	// The write must outlive a request that has already been answered.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	if err := r.Write(writeCtx, e); err != nil {
		slog.Error("audit write failed",
			"error", err,
			"session_id", e.SessionID,
			"action", string(e.Action),
		)
	}
}

// Write inserts e.
func (r *Recorder) Write(ctx context.Context, e Entry) error {
	var detailArg any
	if e.Detail != nil {
		detailArg = string(e.Detail)
	}
	_, err := r.db.Exec(ctx, insertSQL,
		e.ID, e.SessionID, nullable(e.RequestID), string(e.Action), string(e.Severity), string(e.Outcome),
		e.RowsBefore, e.RowsAfter, e.ColumnsBefore, e.ColumnsAfter,
		detailArg, nullable(e.Error), e.IPAddress, nullable(e.UserAgent), e.CreatedAt,
	)
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// parseIP strips a port if present. Unparseable input yields nil.
func parseIP(s string) *netip.Addr {
	if s == "" {
		return nil
	}
	host := s
	if h, _, err := net.SplitHostPort(s); err == nil {
		host = h
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return nil
	}
	return &addr
}
