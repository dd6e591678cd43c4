// Package redact provides best-effort masking of secret material in free text.
//
// It complements types.SecretString: SecretString protects a known credential
// end-to-end, while this package scrubs unstructured text (API error bodies,
// wrapped transport errors) that may incidentally contain secret-shaped
// substrings before the text reaches a log or the console.
//
// The rules are label-anchored pattern matches. They are defense in depth,
// not a security boundary: a secret embedded without a recognizable label
// will pass through, and that is deliberate — broader guessing would corrupt
// legitimate error text.
package redact

import (
	"regexp"
	"strings"
)

// placeholder is the replacement text for a matched secret value.
const placeholder = "[REDACTED]"

// truncationSuffix is appended when sanitized text exceeds the length limit.
const truncationSuffix = "... [truncated]"

// DefaultMaxLength is the sanitized-output length limit used by Sanitize.
const DefaultMaxLength = 500

// rule pairs a compiled pattern with its replacement template. The template
// preserves the matched label prefix (capture group 1) and masks the value.
type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules is the ordered, read-only rule table shared by all calls. The
// patterns target disjoint label keywords, so ordering affects performance
// only, not the result.
var rules = []rule{
	// Bearer tokens in headers.
	{regexp.MustCompile(`(?i)(Bearer\s+)[A-Za-z0-9_\-.]+`), "${1}" + placeholder},
	// Authorization headers, with optional quoting.
	{regexp.MustCompile(`(?i)(Authorization["']?\s*:\s*["']?)[^"'}\s]+`), "${1}" + placeholder},
	// API key assignments and JSON-style keys (common formats).
	{regexp.MustCompile(`(?i)(api[_-]?key["']?\s*[:=]\s*["']?)[A-Za-z0-9_\-.]+`), "${1}" + placeholder},
	// Generic secret/token assignments.
	{regexp.MustCompile(`(?i)(secret["']?\s*[:=]\s*["']?)[A-Za-z0-9_\-.]+`), "${1}" + placeholder},
	{regexp.MustCompile(`(?i)(token["']?\s*[:=]\s*["']?)[A-Za-z0-9_\-.]+`), "${1}" + placeholder},
	// The platform API key as an environment variable assignment.
	{regexp.MustCompile(`(?i)(FREEPLAY_API_KEY\s*=\s*)\S+`), "${1}" + placeholder},
}

// Secrets applies every redaction rule to text and returns the result with
// secret-shaped values replaced by the placeholder. Label prefixes
// ("Bearer ", "api_key=") are preserved so the text stays diagnosable.
func Secrets(text string) string {
	result := text
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Sanitize redacts secrets from text and truncates the result to
// DefaultMaxLength characters. This is the standard way to prepare an API
// response body or transport error for printing.
func Sanitize(text string) string {
	return SanitizeN(text, DefaultMaxLength)
}

// SanitizeN is Sanitize with an explicit length limit. Text longer than
// maxLength after redaction is cut to exactly maxLength characters and
// suffixed with the truncation marker.
func SanitizeN(text string, maxLength int) string {
	redacted := Secrets(text)
	runes := []rune(redacted)
	if len(runes) <= maxLength {
		return redacted
	}
	var b strings.Builder
	b.Grow(maxLength + len(truncationSuffix))
	b.WriteString(string(runes[:maxLength]))
	b.WriteString(truncationSuffix)
	return b.String()
}
