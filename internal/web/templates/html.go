// Package templates renders the cleaning UI as templ components.
package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// html accumulates writes and keeps the first error.
type html struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) int(n int) {
	h.raw(strconv.Itoa(n))
}

func (h *html) render(c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(h.ctx, h.w)
	}
}

// component adapts a body writer to templ.Component.
func component(body func(h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{ctx: ctx, w: w}
		body(h)
		return h.err
	})
}
