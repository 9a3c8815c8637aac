package fsutil

import "strings"

// maxFilenameLen bounds names derived from dataset or run labels.
const maxFilenameLen = 128

// SanitizeFilename turns an arbitrary label into a file name: runs of
// characters other than ASCII letters, digits, '.', '_' and '-' become one
// underscore, and leading or trailing dots and underscores are trimmed.
// An empty result becomes "unnamed".
func SanitizeFilename(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range s {
		if b.Len() >= maxFilenameLen {
			break
		}
		ok := r < 0x80 && (r == '.' || r == '_' || r == '-' ||
			('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9'))
		if !ok {
			pending = true
			continue
		}
		if pending && b.Len() > 0 {
			b.WriteByte('_')
		}
		pending = false
		b.WriteRune(r)
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unnamed"
	}
	return out
}
