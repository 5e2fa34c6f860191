package content

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	nonSlug   = regexp.MustCompile(`[^a-z0-9\-]+`)
	multiDash = regexp.MustCompile(`-+`)
)

// MakeSlug generates a URL-safe base slug from a title.
// Example: "The Night Watch" -> "the-night-watch"
func MakeSlug(title string) string {
	base := strings.ToLower(strings.TrimSpace(title))
	base = strings.ReplaceAll(base, " ", "-")
	base = nonSlug.ReplaceAllString(base, "")
	base = multiDash.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	if base == "" {
		base = "item"
	}
	return base
}

// UniqueSlug returns MakeSlug(title), suffixed with a short random tag while
// taken reports a collision.
func UniqueSlug(title string, taken func(slug string) (bool, error)) (string, error) {
	base := MakeSlug(title)
	slug := base
	for i := 0; i < 5; i++ {
		used, err := taken(slug)
		if err != nil {
			return "", err
		}
		if !used {
			return slug, nil
		}
		slug = base + "-" + uuid.NewString()[:8]
	}
	return base + "-" + uuid.NewString(), nil
}
