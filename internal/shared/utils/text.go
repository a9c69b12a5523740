package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

var plainTextPolicy = bluemonday.StrictPolicy()

// CleanText strips markup from user supplied text and returns it in NFC form
// without surrounding whitespace.
func CleanText(s string) string {
	stripped := html.UnescapeString(plainTextPolicy.Sanitize(s))
	return strings.TrimSpace(norm.NFC.String(stripped))
}

// NormalizeName is the canonical form of an incident type name. Every path
// that stores or looks up a name goes through it, so a name typed with
// markup, entities or a decomposed accent always finds its stored type.
func NormalizeName(name string) string {
	return CleanText(name)
}
