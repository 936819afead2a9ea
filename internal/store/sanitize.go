package store

import "strings"

// maxShareNameLen caps the sanitized share filename, excluding the
// ".pdf" suffix.
const maxShareNameLen = 80

// sanitizeShareName converts a user-facing title into a filename safe
// for external share targets: illegal filesystem characters are
// replaced, the length is capped, and a ".pdf" suffix is enforced.
func sanitizeShareName(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".pdf")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 0x20, r == 0x7f:
			b.WriteRune('-')
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}

	cleaned := strings.Trim(b.String(), " .")
	if runes := []rune(cleaned); len(runes) > maxShareNameLen {
		cleaned = string(runes[:maxShareNameLen])
	}
	if cleaned == "" {
		cleaned = "document"
	}

	return cleaned + ".pdf"
}
