package logging

import (
	"io"
	"regexp"

	"github.com/rs/zerolog"
)

// RedactedValue replaces sensitive data.
const RedactedValue = "[REDACTED]"

var sensitivePatterns = []*regexp.Regexp{
	// GitHub tokens (ghp_, gho_, ghu_, ghs_, ghr_) and fine-grained PATs
	regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]{20,}`),
	regexp.MustCompile(`github_pat_[a-zA-Z0-9_]{20,}`),
	// GitLab personal, project and group access tokens
	regexp.MustCompile(`glpat-[a-zA-Z0-9_-]{20,}`),
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._~+/=-]{8,}`),
	regexp.MustCompile(`(?i)(token|password|secret)\s*[:=]\s*["']?[^\s"',}]{8,}["']?`),
}

// ContainsSensitiveData reports whether s matches a known credential pattern.
func ContainsSensitiveData(s string) bool {
	for _, p := range sensitivePatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// Redact replaces every credential-looking substring of s with RedactedValue.
func Redact(s string) string {
	for _, p := range sensitivePatterns {
		s = p.ReplaceAllString(s, RedactedValue)
	}
	return s
}

// SensitiveDataHook flags log events whose message looks like it carries a credential.
// zerolog hooks cannot rewrite the message. Backend error text is passed through
// Redact before it is logged and the file sink is wrapped in a FilteringWriter.
type SensitiveDataHook struct{}

// NewSensitiveDataHook creates a SensitiveDataHook.
func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

// Run implements zerolog.Hook.
func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// FilteringWriter redacts each write before passing it on.
type FilteringWriter struct {
	target io.Writer
}

// NewFilteringWriter wraps target.
func NewFilteringWriter(target io.Writer) *FilteringWriter {
	return &FilteringWriter{target: target}
}

// Write implements io.Writer. It reports len(p) on success so callers do not
// treat redaction-induced length changes as short writes.
func (w *FilteringWriter) Write(p []byte) (int, error) {
	if _, err := w.target.Write([]byte(Redact(string(p)))); err != nil {
		return 0, err
	}
	return len(p), nil
}
