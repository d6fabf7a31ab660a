package utils

import (
	"regexp"
	"strings"
	"time"
)

var (
	unsafeFilenameChars = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]+`)
	repeatedSpaces      = regexp.MustCompile(`\s+`)
)

// SanitizeFilename strips characters that are invalid in file names on common
// desktop file systems and collapses whitespace.
// Example: `Quote: A/B "test"` -> `Quote AB test`
func SanitizeFilename(name string) string {
	cleaned := unsafeFilenameChars.ReplaceAllString(name, "")
	cleaned = repeatedSpaces.ReplaceAllString(cleaned, " ")
	cleaned = strings.Trim(cleaned, " .")
	if runes := []rune(cleaned); len(runes) > 120 {
		cleaned = strings.TrimSpace(string(runes[:120]))
	}
	return cleaned
}

// QuoteFilenameBase builds the export file name (without extension) following the pattern:
// <Prefix> - <Customer> - <YYYY-MM-DD>
// Example: "Quote - Dana Ruiz - 2026-01-04"
func QuoteFilenameBase(prefix, customerName string, at time.Time) string {
	parts := []string{}
	if p := SanitizeFilename(prefix); p != "" {
		parts = append(parts, p)
	}
	if c := SanitizeFilename(customerName); c != "" {
		parts = append(parts, c)
	}
	parts = append(parts, at.Format("2006-01-02"))
	return strings.Join(parts, " - ")
}

// StripExtension removes a trailing .pdf or .html (case-insensitive)
func StripExtension(filename string) string {
	lower := strings.ToLower(filename)
	for _, ext := range []string{".pdf", ".html", ".htm"} {
		if strings.HasSuffix(lower, ext) {
			return filename[:len(filename)-len(ext)]
		}
	}
	return filename
}
