package utils

import (
	"net/url"
	"strings"
)

// componentReplacer undoes the escapes url.QueryEscape applies to characters
// that encodeURIComponent leaves alone, and spells spaces as %20.
var componentReplacer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent escapes s the way the browser's encodeURIComponent does.
func EncodeURIComponent(s string) string {
	return componentReplacer.Replace(url.QueryEscape(s))
}

// ExtractJSON returns the outermost {...} object embedded in raw, or "" if none.
// Model replies are sometimes wrapped in markdown fences or prose.
func ExtractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return raw[start : end+1]
}

// MaskSecret keeps the first and last four characters of a secret for logging.
func MaskSecret(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
