package util

import "strings"

// NormalizeBaseURL trims trailing slashes so callers can append path segments
// without producing double slashes.
func NormalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}
