package utils

// Truncate shortens s to at most maxLen runes, appending "..." when cut.
// Counting runes keeps multi-byte text (e.g. Chinese) valid UTF-8.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
