package domain

import "errors"

var (
	// ErrUnauthorized is returned by adapters when the API responds with HTTP 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnexpectedStatus is returned by adapters for any other non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrNoRuns signals a response that decoded but held nothing to report.
	ErrNoRuns = errors.New("no qualifying runs")

	// ErrUnsupportedKind is returned when no provider is registered for a system kind.
	ErrUnsupportedKind = errors.New("unsupported devops system kind")
)
