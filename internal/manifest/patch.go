package manifest

import (
	"fmt"
	"regexp"
)

// Change is a before/after declaration pair for one dependency.
type Change struct {
	Old string
	New string
}

// Patch rewrites each `"<name>": "<old>"` occurrence in src to carry the new
// declaration, globally, tolerating whitespace around the colon. Name and old
// declaration are matched as escaped literals. Occurrences that do not appear
// verbatim are silently left alone: this is a best-effort textual patch, not
// a structural rewrite, and everything outside the touched fields keeps its
// formatting.
func Patch(src []byte, changes map[string]Change) []byte {
	out := string(src)
	for name, change := range changes {
		expr := fmt.Sprintf(`"%s"\s*:\s*"%s"`, regexp.QuoteMeta(name), regexp.QuoteMeta(change.Old))
		replacement := fmt.Sprintf(`"%s": "%s"`, name, change.New)
		out = regexp.MustCompile(expr).ReplaceAllLiteralString(out, replacement)
	}
	return []byte(out)
}
