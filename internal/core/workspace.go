package core

import (
	"context"
	"errors"
)

// Action names a workspace operation for results, audit and metrics.
type Action string

const (
	ActionLoad               Action = "load"
	ActionRemoveColumns      Action = "remove_columns"
	ActionRemoveEmptyColumns Action = "remove_empty_columns"
	ActionDropMissingRows    Action = "drop_missing_rows"
	ActionFillMissing        Action = "fill_missing"
	ActionRemoveDuplicates   Action = "remove_duplicates"
)

// OperationResult describes one workspace call, applied or rejected.
type OperationResult struct {
	SessionID      string      `json:"sessionId"`
	Action         Action      `json:"action"`
	Applied        bool        `json:"applied"`
	RowsBefore     int         `json:"rowsBefore"`
	RowsAfter      int         `json:"rowsAfter"`
	ColumnsBefore  int         `json:"columnsBefore"`
	ColumnsAfter   int         `json:"columnsAfter"`
	RemovedColumns []string    `json:"removedColumns,omitempty"`
	Fill           *FillResult `json:"fill,omitempty"`
	Err            error       `json:"-"`
}

// RowsRemoved returns how many rows the operation removed.
func (r OperationResult) RowsRemoved() int {
	return r.RowsBefore - r.RowsAfter
}

// Observer is notified after every workspace operation. Implementations must
// not block for long; they run on the caller's goroutine.
type Observer interface {
	OperationCompleted(ctx context.Context, result OperationResult)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, result OperationResult)

func (f ObserverFunc) OperationCompleted(ctx context.Context, result OperationResult) {
	f(ctx, result)
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*Workspace)

// WithEmptyNumericPolicy sets how FillMissingValues treats numeric columns
// without values. The default is EmptyNumericZero.
func WithEmptyNumericPolicy(p EmptyNumericPolicy) WorkspaceOption {
	return func(w *Workspace) { w.policy = p }
}

// WithObserver adds an observer.
func WithObserver(o Observer) WorkspaceOption {
	return func(w *Workspace) {
		if o != nil {
			w.observers = append(w.observers, o)
		}
	}
}

// Workspace is the set of operations the presentation layer calls for one
// session. It reads diagnostics from the held table and commits each
// cleaning result back into the session's State.
type Workspace struct {
	state     *State
	policy    EmptyNumericPolicy
	observers []Observer
}

// NewWorkspace creates a workspace with an empty State for sessionID.
func NewWorkspace(sessionID string, opts ...WorkspaceOption) *Workspace {
	w := &Workspace{state: NewState(sessionID)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ID returns the session id.
func (w *Workspace) ID() string { return w.state.ID() }

// State returns the session's table slot.
func (w *Workspace) State() *State { return w.state }

// LoadIntoSession seeds the session with the loader's table. It returns false
// when the session already holds a table; in-progress cleaning is kept.
func (w *Workspace) LoadIntoSession(ctx context.Context, t *Table) bool {
	ok := w.state.Initialize(t)
	if ok {
		w.notify(ctx, OperationResult{
			SessionID:    w.ID(),
			Action:       ActionLoad,
			Applied:      true,
			RowsAfter:    t.NumRows(),
			ColumnsAfter: t.NumColumns(),
		})
	}
	return ok
}

// Summary returns the structural overview of the held table.
func (w *Workspace) Summary() (Summary, error) {
	t, err := w.current()
	if err != nil {
		return Summary{}, err
	}
	return Summarize(t), nil
}

// MissingReport returns the missing-value report of the held table.
func (w *Workspace) MissingReport() ([]MissingEntry, error) {
	t, err := w.current()
	if err != nil {
		return nil, err
	}
	return MissingReport(t), nil
}

// AllMissingColumns returns the columns of the held table with no values.
func (w *Workspace) AllMissingColumns() ([]string, error) {
	t, err := w.current()
	if err != nil {
		return nil, err
	}
	return AllMissingColumns(t), nil
}

// DuplicateReport returns the duplicate statistics of the held table.
func (w *Workspace) DuplicateReport() (DuplicateReport, error) {
	t, err := w.current()
	if err != nil {
		return DuplicateReport{}, err
	}
	return FindDuplicates(t), nil
}

// RemoveColumns drops the named columns.
func (w *Workspace) RemoveColumns(ctx context.Context, names []string) (OperationResult, error) {
	return w.apply(ctx, ActionRemoveColumns, func(t *Table) (*Table, *FillResult, error) {
		out, err := DropColumns(t, names...)
		return out, nil, err
	})
}

// RemoveEmptyColumns drops every column in which all cells are missing.
func (w *Workspace) RemoveEmptyColumns(ctx context.Context) (OperationResult, error) {
	return w.apply(ctx, ActionRemoveEmptyColumns, func(t *Table) (*Table, *FillResult, error) {
		out, err := DropColumns(t, AllMissingColumns(t)...)
		return out, nil, err
	})
}

// DropRowsWithMissing drops rows with any missing cell. When that would
// delete every row the table is kept and a *WouldEmptyDatasetError is
// returned.
func (w *Workspace) DropRowsWithMissing(ctx context.Context) (OperationResult, error) {
	return w.apply(ctx, ActionDropMissingRows, func(t *Table) (*Table, *FillResult, error) {
		out, err := DropRowsWithAnyMissing(t)
		return out, nil, err
	})
}

// FillMissingValues fills missing cells with column means and FillText. The
// result's Fill.Warning() is non-nil when a numeric column had no values.
func (w *Workspace) FillMissingValues(ctx context.Context) (OperationResult, error) {
	return w.apply(ctx, ActionFillMissing, func(t *Table) (*Table, *FillResult, error) {
		out, fr, err := FillMissing(t, w.policy)
		if err != nil {
			return nil, nil, err
		}
		return out, &fr, nil
	})
}

// RemoveDuplicates keeps the first occurrence of each distinct row.
func (w *Workspace) RemoveDuplicates(ctx context.Context) (OperationResult, error) {
	return w.apply(ctx, ActionRemoveDuplicates, func(t *Table) (*Table, *FillResult, error) {
		return DropDuplicateRows(t), nil, nil
	})
}

// ExportSnapshot returns the held table for the export adapters.
func (w *Workspace) ExportSnapshot() (*Table, error) {
	return w.current()
}

func (w *Workspace) current() (*Table, error) {
	t := w.state.Get()
	if t == nil {
		return nil, ErrNoDataset
	}
	return t, nil
}

type transform func(*Table) (*Table, *FillResult, error)

func (w *Workspace) apply(ctx context.Context, action Action, fn transform) (OperationResult, error) {
	var fill *FillResult
	before, after, err := w.state.update(func(t *Table) (*Table, error) {
		out, fr, err := fn(t)
		fill = fr
		return out, err
	})

	result := OperationResult{SessionID: w.ID(), Action: action, Fill: fill}
	if before != nil {
		result.RowsBefore = before.NumRows()
		result.ColumnsBefore = before.NumColumns()
	}

	if err != nil {
		result.RowsAfter = result.RowsBefore
		result.ColumnsAfter = result.ColumnsBefore
		result.Err = err
		if !errors.Is(err, ErrNoDataset) {
			w.notify(ctx, result)
		}
		return result, err
	}

	result.Applied = true
	result.RowsAfter = after.NumRows()
	result.ColumnsAfter = after.NumColumns()
	result.RemovedColumns = removedColumns(before, after)
	w.notify(ctx, result)
	return result, nil
}

func (w *Workspace) notify(ctx context.Context, result OperationResult) {
	for _, o := range w.observers {
		o.OperationCompleted(ctx, result)
	}
}

func removedColumns(before, after *Table) []string {
	if before.NumColumns() == after.NumColumns() {
		return nil
	}
	var removed []string
	for _, name := range before.ColumnNames() {
		if !after.HasColumn(name) {
			removed = append(removed, name)
		}
	}
	return removed
}
