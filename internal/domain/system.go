package domain

// ObservedAutomation is one repository/workflow watched under a DevOps system.
// An empty Branch means the backend's default or any branch.
type ObservedAutomation struct {
	RepositoryName string `json:"repository" yaml:"repository"`
	Branch         string `json:"branch,omitempty" yaml:"branch,omitempty"`
	Alias          string `json:"alias" yaml:"alias"`
}

// DevOpsSystem is one configured CI backend instance.
type DevOpsSystem struct {
	ID                  string               `json:"id" yaml:"id"`
	Kind                string               `json:"kind" yaml:"kind"`
	ServerURL           string               `json:"server_url" yaml:"server_url"`
	Tenant              string               `json:"tenant" yaml:"tenant"`
	ObservedAutomations []ObservedAutomation `json:"automations" yaml:"automations"`
}
