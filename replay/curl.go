// Package replay renders captured webhooks as shell commands that reproduce the original request.
package replay

import (
	"net/url"
	"strings"

	"github.com/marcelsud/webhook-stream/webhook"
)

// Param is a single query parameter appended by FormatWithParams
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of query parameters
type Params []Param

// Format renders wh as a single-line curl invocation:
//
//	curl -X METHOD [-H 'Name: value']... [-d '<body>'] URL
//
// Headers keep their capture order and the body is written in compact JSON.
// The URL is emitted last and unmodified.
func Format(wh webhook.Webhook) string {
	return FormatWithParams(wh, nil)
}

// FormatWithParams is Format with extra query parameters appended to the URL.
// Parameters already present in the URL are left untouched, so a key given in
// both places appears twice.
func FormatWithParams(wh webhook.Webhook, params Params) string {
	var b strings.Builder

	b.WriteString("curl -X ")
	b.WriteString(wh.Method)

	for name, value := range wh.Headers.All() {
		b.WriteString(" -H ")
		b.WriteString(quote(name + ": " + value))
	}

	if !wh.Body.IsEmpty() {
		b.WriteString(" -d ")
		b.WriteString(quote(string(wh.Body.Bytes())))
	}

	b.WriteByte(' ')
	b.WriteString(wh.URL)
	if len(params) > 0 {
		b.WriteString(params.suffix(wh.URL))
	}

	return b.String()
}

func (p Params) suffix(rawURL string) string {
	var b strings.Builder
	if strings.Contains(rawURL, "?") {
		b.WriteByte('&')
	} else {
		b.WriteByte('?')
	}
	for i, param := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(param.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(param.Value))
	}
	return b.String()
}

// quote wraps s in single quotes for a POSIX shell, escaping embedded single quotes
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
