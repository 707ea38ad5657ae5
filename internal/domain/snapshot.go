package domain

import "time"

// Snapshot is the result of fetching one DevOps system at a point in time.
type Snapshot struct {
	SystemID  string              `json:"system_id" yaml:"system_id"`
	Kind      string              `json:"kind" yaml:"kind"`
	FetchedAt time.Time           `json:"fetched_at" yaml:"fetched_at"`
	Statuses  []StatusInformation `json:"statuses" yaml:"statuses"`
}

// Count returns how many records of the snapshot carry the given status.
func (s Snapshot) Count(status Status) int {
	n := 0
	for _, st := range s.Statuses {
		if st.Status == status {
			n++
		}
	}
	return n
}
