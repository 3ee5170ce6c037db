package openspout

import "strings"

// Unescaper turns escaped text content back into its literal form. The
// formatter applies it to the joined text of string cells; implementations
// must be safe for concurrent use.
type Unescaper interface {
	Unescape(escaped string) string
}

// UnescaperFunc adapts a plain function to the Unescaper interface.
type UnescaperFunc func(string) string

// Unescape calls f(escaped).
func (f UnescaperFunc) Unescape(escaped string) string { return f(escaped) }

// odsReplacer reverses the five predefined XML entities once. The decoder
// already resolved one level of escaping, so this catches values that were
// escaped twice when the file was written.
var odsReplacer = strings.NewReplacer(
	"&quot;", `"`,
	"&apos;", "'",
	"&gt;", ">",
	"&lt;", "<",
	"&amp;", "&",
)

// DefaultUnescaper returns the standard OpenDocument unescaper.
func DefaultUnescaper() Unescaper {
	return UnescaperFunc(odsReplacer.Replace)
}
