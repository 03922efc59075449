package present

import (
	"html"
)

// EscapeHTML makes s safe to insert into markup as text or as a quoted
// attribute value.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// StatusBadge wraps a status in a badge span that carries the status both as
// a CSS class and as visible text. The status is escaped in both places.
func StatusBadge(status string) string {
	s := EscapeHTML(status)
	return `<span class="badge ` + s + `">` + s + `</span>`
}
