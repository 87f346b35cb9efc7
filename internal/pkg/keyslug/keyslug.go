// Package keyslug canonicalizes agent keys. Registry keys are lowercase
// hyphen-separated; corpus files sometimes show up with underscores or
// stray case, and the canonical form is what the bijection checker uses to
// propose the exact rename.
package keyslug

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Canonical returns the canonical form of an agent key: NFKC-normalized,
// lowercased, underscores and spaces turned into hyphens, characters
// outside [a-z0-9-] dropped, consecutive hyphens collapsed, edge hyphens
// trimmed.
func Canonical(key string) string {
	key = norm.NFKC.String(key)
	key = strings.ToLower(key)

	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-', r == '_', r == ' ':
			b.WriteRune('-')
		}
	}

	slug := b.String()
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}
