package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is the canonical build state reported for a workflow.
// The zero value is StatusUnknown.
type Status int

const (
	StatusUnknown Status = iota
	StatusSuccess
	StatusFail
)

// String returns the lowercase text form of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// ParseStatus converts a text form back into a Status.
func ParseStatus(text string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "unknown":
		return StatusUnknown, nil
	case "success":
		return StatusSuccess, nil
	case "fail":
		return StatusFail, nil
	}
	return StatusUnknown, fmt.Errorf("invalid status %q", text)
}

// MarshalText implements encoding.TextMarshaler so JSON and YAML carry the text form.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// StatusInformation is the normalized, backend-agnostic state of one workflow.
// BuildNumber and BuildTime are nil, and WorkflowTitle and ID empty, when the
// state could not be determined.
type StatusInformation struct {
	ServerType     string     `json:"server_type" yaml:"server_type"`
	RepositoryName string     `json:"repository_name" yaml:"repository_name"`
	ShortName      string     `json:"short_name,omitempty" yaml:"short_name,omitempty"`
	Branch         string     `json:"branch" yaml:"branch"`
	BuildNumber    *int       `json:"build_number,omitempty" yaml:"build_number,omitempty"`
	BuildTime      *time.Time `json:"build_time,omitempty" yaml:"build_time,omitempty"`
	WorkflowTitle  string     `json:"workflow_title,omitempty" yaml:"workflow_title,omitempty"`
	ID             string     `json:"id,omitempty" yaml:"id,omitempty"`
	Alias          string     `json:"alias" yaml:"alias"`
	Status         Status     `json:"status" yaml:"status"`
}

// Known reports whether the record carries any build metadata.
func (s StatusInformation) Known() bool {
	return s.BuildNumber != nil || s.BuildTime != nil || s.WorkflowTitle != "" || s.ID != ""
}
