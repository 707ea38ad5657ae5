package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/waabox/devopswatch/internal/domain"
)

func TestErrUnauthorized_CanBeDetectedWithErrorsIs(t *testing.T) {
	wrapped := fmt.Errorf("gitlab API error: %w", domain.ErrUnauthorized)
	if !errors.Is(wrapped, domain.ErrUnauthorized) {
		t.Error("expected errors.Is to detect ErrUnauthorized in wrapped error")
	}
}

func TestErrUnexpectedStatus_CanBeDetectedWithErrorsIs(t *testing.T) {
	wrapped := fmt.Errorf("github API error: 500 Internal Server Error: %w", domain.ErrUnexpectedStatus)
	if !errors.Is(wrapped, domain.ErrUnexpectedStatus) {
		t.Error("expected errors.Is to detect ErrUnexpectedStatus in wrapped error")
	}
}
