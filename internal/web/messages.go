package web

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/dataclean/internal/core"
	"github.com/JonMunkholm/dataclean/internal/web/templates"
)

// outcomeNotices turns an applied operation into the messages shown to the
// user. A fill that defaulted empty numeric columns adds a warning.
func outcomeNotices(res core.OperationResult) []templates.Notice {
	var msg string
	switch res.Action {
	case core.ActionLoad:
		msg = "File uploaded successfully!"
	case core.ActionRemoveEmptyColumns:
		msg = fmt.Sprintf("Removed %d empty columns!", len(res.RemovedColumns))
	case core.ActionRemoveColumns:
		msg = fmt.Sprintf("Removed %d columns: %s", len(res.RemovedColumns), strings.Join(res.RemovedColumns, ", "))
	case core.ActionDropMissingRows:
		msg = fmt.Sprintf("Deleted %d rows!", res.RowsRemoved())
	case core.ActionFillMissing:
		msg = "Filled all missing values!"
	case core.ActionRemoveDuplicates:
		msg = fmt.Sprintf("Removed duplicates! New number of rows: %d", res.RowsAfter)
	default:
		msg = "Done."
	}

	out := []templates.Notice{{Level: templates.LevelSuccess, Message: msg}}
	if res.Fill != nil && res.Fill.Warning() != nil {
		out = append(out, templates.Notice{
			Level:   templates.LevelWarning,
			Message: "These numeric columns had no values and were filled with 0: " + strings.Join(res.Fill.Defaulted, ", "),
		})
	}
	return out
}

// messages flattens notices to strings for JSON responses.
func messages(ns []templates.Notice, level string) []string {
	var out []string
	for _, n := range ns {
		if n.Level == level {
			out = append(out, n.Message)
		}
	}
	return out
}

// errorNotice renders a mapped error as a page notice.
func errorNotice(m core.UserMessage) templates.Notice {
	text := m.Message
	if m.Action != "" {
		text += ". " + m.Action
	}
	return templates.Notice{Level: templates.LevelError, Message: text + " (Code: " + m.Code + ")"}
}
