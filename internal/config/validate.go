package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks that every system can be addressed. When knownKinds is not
// empty, each system kind must be one of them (case-insensitive).
// All problems are reported together.
func Validate(cfg Config, knownKinds ...string) error {
	var problems []error
	add := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if cfg.Concurrency < 0 {
		add("concurrency must not be negative")
	}
	seen := make(map[string]bool, len(cfg.Systems))
	for i, s := range cfg.Systems {
		label := fmt.Sprintf("systems[%d]", i)
		switch {
		case s.ID == "":
			add("%s: id is required", label)
		case seen[s.ID]:
			add("%s: duplicate id %q", label, s.ID)
		}
		seen[s.ID] = true

		if len(knownKinds) > 0 && !slices.Contains(knownKinds, strings.ToLower(s.Kind)) {
			add("%s: unsupported kind %q (want one of %s)", label, s.Kind, strings.Join(knownKinds, ", "))
		}
		if s.Tenant == "" && strings.EqualFold(s.Kind, "github") {
			add("%s: tenant is required", label)
		}
		for j, a := range s.Automations {
			if a.Repository == "" {
				add("%s.automations[%d]: repository is required", label, j)
			}
		}
	}
	return errors.Join(problems...)
}
