package fileio

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestNewTextReader(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "file with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello,world")...),
			expected: "hello,world",
		},
		{
			name:     "file without BOM",
			input:    []byte("hello,world"),
			expected: "hello,world",
		},
		{
			name:     "empty file",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
		{
			name:     "valid multibyte kept",
			input:    []byte("café,日本"),
			expected: "café,日本",
		},
		{
			name:     "invalid byte replaced",
			input:    []byte{'a', 0xFF, 'b'},
			expected: "a\uFFFDb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := io.ReadAll(NewTextReader(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}

func TestNewTextReaderSplitRune(t *testing.T) {
	// A multibyte rune split across reads must survive intact.
	input := []byte("xéy")
	r := NewTextReader(io.MultiReader(bytes.NewReader(input[:2]), bytes.NewReader(input[2:])))
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "xéy" {
		t.Errorf("got %q", got)
	}
}

func TestLimitReader(t *testing.T) {
	t.Run("under limit", func(t *testing.T) {
		r := NewLimitReader(strings.NewReader("hello"), 10)
		got, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(got) != "hello" || r.BytesRead != 5 {
			t.Errorf("got %q, BytesRead %d", got, r.BytesRead)
		}
	})

	t.Run("over limit", func(t *testing.T) {
		r := NewLimitReader(strings.NewReader(strings.Repeat("x", 2048)), 1024)
		_, err := io.ReadAll(r)
		if !errors.Is(err, ErrFileTooLarge) {
			t.Fatalf("expected ErrFileTooLarge, got %v", err)
		}
		if !strings.Contains(err.Error(), "1KB") {
			t.Errorf("error %q should name the limit", err)
		}
	})

	t.Run("no limit", func(t *testing.T) {
		r := NewLimitReader(strings.NewReader(strings.Repeat("x", 4096)), 0)
		if _, err := io.ReadAll(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512B"},
		{2048, "2KB"},
		{50 << 20, "50MB"},
		{3 << 30, "3GB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
