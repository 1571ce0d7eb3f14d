// Package source holds the candidate discovery adapters. Each adapter is an
// independent strategy over one external provider; failures never escape an
// adapter; they become an empty result and a warn log, so the orchestrator
// can always join the fan-out.
package source

import (
	"context"
	"strings"

	"sourcing-engine/internal/domain"
)

type Finder interface {
	Name() string
	Find(ctx context.Context, query string, maxResults int) []domain.CandidateStub
}

// IsProfileURL reports whether u points at a public profile page.
func IsProfileURL(u string) bool {
	return strings.Contains(strings.ToLower(u), "linkedin.com/in/")
}

// CanonicalProfileURL strips query/fragment noise and absolutizes
// protocol-relative or path-only hrefs.
func CanonicalProfileURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if strings.HasPrefix(href, "/") {
		return "https://www.linkedin.com" + href
	}
	return href
}

// NameFromLocator derives a display name from the profile slug when the
// provider gives none ("/in/jane-doe" -> "Jane Doe").
func NameFromLocator(locator string) string {
	i := strings.Index(locator, "/in/")
	if i < 0 {
		return ""
	}
	slug := strings.Trim(locator[i+len("/in/"):], "/")
	if slug == "" {
		return ""
	}
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
