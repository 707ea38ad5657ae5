package provider

import "github.com/waabox/devopswatch/internal/domain"

// UnknownStatus builds the record reported when nothing could be learned about
// an automation. Every failure path of every adapter goes through here.
func UnknownStatus(serverType string, automation domain.ObservedAutomation) domain.StatusInformation {
	return domain.StatusInformation{
		ServerType:     serverType,
		RepositoryName: automation.RepositoryName,
		Branch:         automation.Branch,
		Alias:          automation.Alias,
	}
}

// UnknownStatuses returns one Unknown record per automation of the system.
func UnknownStatuses(serverType string, system domain.DevOpsSystem) []domain.StatusInformation {
	result := make([]domain.StatusInformation, 0, len(system.ObservedAutomations))
	for _, automation := range system.ObservedAutomations {
		result = append(result, UnknownStatus(serverType, automation))
	}
	return result
}
