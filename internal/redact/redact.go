package redact

import (
	"regexp"
)

const placeholder = "[REDACTED]"

var (
	// Long-term and temporary access key ids.
	accessKeyPattern = regexp.MustCompile(`\b(?:AKIA|ASIA|AIDA|AROA)[A-Z0-9]{16}\b`)
	// key=value or "key": "value" forms naming secret material.
	secretFieldPattern = regexp.MustCompile(`(?i)((?:aws_)?(?:secret_?access_?key|session_?token|secretaccesskey|sessiontoken)["']?\s*[:=]\s*["']?)([^"'\s,}]+)`)
	// JWT-looking bearer tokens.
	jwtPattern = regexp.MustCompile(`eyJ[a-zA-Z0-9_\-]+\.[a-zA-Z0-9_\-]+\.[a-zA-Z0-9_\-]+`)
)

// Redactor scrubs credential material from free text before it reaches
// audit or log output. Resource identifiers such as ARNs are preserved.
type Redactor struct{}

func New() *Redactor {
	return &Redactor{}
}

func (r *Redactor) RedactString(input string) string {
	out := secretFieldPattern.ReplaceAllString(input, "${1}"+placeholder)
	out = accessKeyPattern.ReplaceAllString(out, placeholder)
	return jwtPattern.ReplaceAllString(out, placeholder)
}

func (r *Redactor) RedactMap(input map[string]any) map[string]any {
	output := map[string]any{}
	for k, v := range input {
		output[k] = r.RedactValue(v)
	}
	return output
}

func (r *Redactor) RedactValue(input any) any {
	switch v := input.(type) {
	case string:
		return r.RedactString(v)
	case map[string]any:
		return r.RedactMap(v)
	case []any:
		redacted := make([]any, 0, len(v))
		for _, item := range v {
			redacted = append(redacted, r.RedactValue(item))
		}
		return redacted
	default:
		return input
	}
}
