package stylish

import (
	"regexp"
	"strings"
)

// Marker is the fixed name that opts elements and style rules into
// processing. It doubles as the boolean HTML attribute on elements and
// as the pseudo-function name inside CSS content values. The same
// literal is baked into exprPattern; the two must not diverge.
const Marker = "stylish"

// exprPattern matches a CSS content value of the shape
//
//     'stylish( argument-text )'
//
// with optional surrounding quotes, and captures the argument text.
var exprPattern = regexp.MustCompile(`^['"]?` + Marker + `\((.*)\)['"]?$`)

// quoteUnescaper replaces backslash-escaped quotes, as they appear in
// serialized CSS content values, by plain double quotes. Applying it
// to already unescaped text is a no-op.
var quoteUnescaper = strings.NewReplacer(`\"`, `"`, `\'`, `"`)

// ExtractExpression extracts the argument text of a marker expression
// from a raw CSS content value. It returns the empty string if content
// does not match the expression pattern; absence of a match is a
// normal, silent outcome, not an error. On a match, escaped quotes are
// normalized and surrounding whitespace is trimmed.
func ExtractExpression(content string) string {
	content = strings.TrimSpace(content)
	if len(content) < len(Marker) {
		return ""
	}
	m := exprPattern.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(quoteUnescaper.Replace(m[1]))
}
