package domain

import "context"

// StatusProvider is the port interface that every CI backend adapter implements.
// The domain does not know about GitHub, GitLab, or any specific CI system.
//
// FetchStatuses never fails: an automation whose state cannot be learned is
// reported as a StatusUnknown record instead of an error.
type StatusProvider interface {
	FetchStatuses(ctx context.Context, system DevOpsSystem) []StatusInformation
}
