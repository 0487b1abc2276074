package diagram

import (
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

const (
	fingerprintLen = 10
	defaultSlug    = "diagram"
)

var reUnsafe = regexp.MustCompile(`[^a-z0-9._-]+`)

// Fingerprint returns the first hex digits of the SHA-1 digest of the diagram.
func Fingerprint(d Diagram) string {
	sum := sha1.Sum([]byte(d)) //nolint:gosec

	return hex.EncodeToString(sum[:])[:fingerprintLen]
}

// Slug lowercases title and collapses every run of characters unsafe in file
// names into a single dash.
func Slug(title string) string {
	slug := reUnsafe.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	slug = strings.Trim(slug, "-")

	if len(slug) == 0 {
		return defaultSlug
	}

	return slug
}

// Name returns the base file name of a diagram's artifacts:
// prefix_NNN_fingerprint, followed by _slug when the diagram has a title.
func Name(d Diagram, counter int, prefix string) string {
	name := fmt.Sprintf("%s_%03d_%s", prefix, counter, Fingerprint(d))

	if title := d.Title(); len(title) != 0 {
		name += "_" + Slug(title)
	}

	return name
}
