// Package core is the data cleaning engine.
//
// It holds the tabular model, the read-only diagnostics, the cleaning
// transformations and the per-session state. Nothing here knows about HTTP,
// files or databases; the fileio, session and web packages build on it.
//
// # Tables
//
// A [Table] is column-major and immutable. Each [Column] has a [Kind]
// (numeric or text) and a slice of [Value] cells, where Valid=false marks a
// missing cell:
//
//	t, err := core.NewTable(
//	    core.NumericColumn("Age", ptr(31.0), nil, ptr(40.0)),
//	    core.TextColumn("City", ptr("Oslo"), ptr("Bergen"), nil),
//	)
//
// # Diagnostics
//
// [MissingReport], [AllMissingColumns], [FindDuplicates] and [Summarize]
// inspect a table without changing it.
//
// # Cleaning
//
// [DropColumns], [DropRowsWithAnyMissing], [FillMissing] and
// [DropDuplicateRows] return a new table. An operation that cannot be applied
// returns an error and no table; the input stays valid.
//
// # Sessions
//
// A [Workspace] owns one [State] slot. The first table loaded seeds it; each
// successful cleaning call replaces it, and a rejected call leaves it as it
// was. Registered [Observer]s see every applied or rejected operation, which
// is how audit and metrics are attached.
//
// # Error Handling
//
// Engine failures are typed errors that unwrap to sentinels such as
// [ErrWouldEmptyDataset]. [MapError] turns any error into a [UserMessage]
// with a support code.
package core
