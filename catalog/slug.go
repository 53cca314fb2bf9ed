package catalog

import (
	"regexp"
	"strings"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe identifier from a display title: lowercase,
// runs of non-alphanumerics collapsed to a single hyphen, leading and
// trailing hyphens stripped. Deterministic: the same title always yields the
// same slug.
func Slugify(title string) string {
	lower := strings.ToLower(title)
	collapsed := nonSlugRun.ReplaceAllString(lower, "-")
	return strings.Trim(collapsed, "-")
}
