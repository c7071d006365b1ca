package templates

import "github.com/a-h/templ"

const styles = `
body{font-family:system-ui,sans-serif;margin:0;background:#f6f7f9;color:#1f2328}
main{max-width:1100px;margin:0 auto;padding:24px}
h1{margin:0 0 8px}
section{background:#fff;border:1px solid #d0d7de;border-radius:8px;padding:16px;margin:16px 0}
table{border-collapse:collapse;width:100%;font-size:14px}
th,td{border:1px solid #d0d7de;padding:4px 8px;text-align:left}
th{background:#f0f2f4}
td.missing{color:#8c959f;font-style:italic}
.alert{border-radius:6px;padding:10px 14px;margin:12px 0}
.alert-success{background:#dafbe1;border:1px solid #4ac26b}
.alert-warning{background:#fff8c5;border:1px solid #d4a72c}
.alert-error{background:#ffebe9;border:1px solid #ff8182}
.alert-info{background:#ddf4ff;border:1px solid #54aeff}
.actions{display:flex;gap:8px;flex-wrap:wrap;margin-top:12px}
button,.button{background:#1f883d;color:#fff;border:0;border-radius:6px;padding:8px 14px;cursor:pointer;text-decoration:none;font-size:14px}
button.danger{background:#cf222e}
small{color:#59636e}
`

// Layout wraps body in the page shell.
func Layout(title string, body templ.Component) templ.Component {
	return component(func(h *html) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><style>`)
		h.raw(styles)
		h.raw(`</style></head><body><main>`)
		h.render(body)
		h.raw(`</main></body></html>`)
	})
}
