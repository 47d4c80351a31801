package sanitize

import "strings"

// htmlReplacer escapes the five characters that are significant inside HTML
// text and attribute values. strings.Replacer performs a single pass, so an
// already escaped "&amp;" becomes "&amp;amp;" rather than being left alone.
var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML returns s with &, <, >, " and ' replaced by their entities.
// Use it on every user supplied value interpolated into an HTML body.
func EscapeHTML(s string) string {
	return htmlReplacer.Replace(s)
}

// EscapeHTMLWithBreaks escapes s and then turns each newline into <br>.
func EscapeHTMLWithBreaks(s string) string {
	return strings.ReplaceAll(EscapeHTML(s), "\n", "<br>")
}
