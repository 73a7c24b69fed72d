package logger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxPathLength is the maximum length for URL paths in logs
	MaxPathLength = 500
	// MaxURLLength is the maximum length for external URLs in logs
	MaxURLLength = 1000
	// MaxErrorMessageLength is the maximum length for error messages in logs
	MaxErrorMessageLength = 1000
	// MaxQueryLength is the maximum length for user search input in logs
	MaxQueryLength = 500
)

// SanitizePath sanitizes a URL path for safe logging
func SanitizePath(path string) string {
	return SanitizeString(path, MaxPathLength)
}

// SanitizeURL sanitizes an external URL for safe logging. Metadata targets
// are arbitrary third-party pages, so treat them as untrusted input.
func SanitizeURL(url string) string {
	return SanitizeString(url, MaxURLLength)
}

// SanitizeQuery sanitizes free-text user input for safe logging
func SanitizeQuery(q string) string {
	return SanitizeString(q, MaxQueryLength)
}

// SanitizeError sanitizes an error message for safe logging
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error(), MaxErrorMessageLength)
}

// SanitizeString validates UTF-8, strips control characters (keeping space,
// tab, newline, carriage return) and truncates to maxLength.
func SanitizeString(s string, maxLength int) string {
	if s == "" {
		return ""
	}
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			builder.WriteRune(r)
		}
	}
	s = builder.String()
	if maxLength > 0 && len(s) > maxLength {
		s = s[:maxLength] + "..."
	}
	return s
}
