package fileio

// reader.go wraps upload bodies before they reach a decoder.
//
//   - NewTextReader strips a UTF-8 BOM and replaces invalid UTF-8 with U+FFFD
//   - LimitReader fails with ErrFileTooLarge once a byte budget is exceeded

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// ErrFileTooLarge is returned by LimitReader when the input exceeds its limit.
var ErrFileTooLarge = errors.New("file too large")

// NewTextReader returns r decoded as UTF-8 text. A leading BOM, as written by
// Excel on Windows, is dropped and ill-formed sequences become U+FFFD so the
// CSV reader never sees broken runes.
func NewTextReader(r io.Reader) io.Reader {
	return transform.NewReader(r, transform.Chain(
		unicode.UTF8BOM.NewDecoder(),
		runes.ReplaceIllFormed(),
	))
}

// LimitReader counts the bytes read from the underlying reader and fails once
// more than Max bytes have been seen.
type LimitReader struct {
	reader    io.Reader
	Max       int64
	BytesRead int64
}

// NewLimitReader wraps r. A max of 0 or less disables the limit.
func NewLimitReader(r io.Reader, max int64) *LimitReader {
	return &LimitReader{reader: r, Max: max}
}

// Read implements io.Reader.
func (r *LimitReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	if r.Max > 0 && r.BytesRead > r.Max {
		return n, fmt.Errorf("%w: exceeds %s limit", ErrFileTooLarge, FormatBytes(r.Max))
	}
	return n, err
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(n int64) string {
	const unit = 1024
	switch {
	case n >= unit*unit*unit:
		return fmt.Sprintf("%dGB", n/(unit*unit*unit))
	case n >= unit*unit:
		return fmt.Sprintf("%dMB", n/(unit*unit))
	case n >= unit:
		return fmt.Sprintf("%dKB", n/unit)
	default:
		return fmt.Sprintf("%dB", n)
	}
}
