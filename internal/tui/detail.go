package tui

import (
	"fmt"
	"strings"
	"time"
)

// renderDetail renders every field of a status record.
func renderDetail(r Row) string {
	st := r.Status
	buildTime := "--"
	if st.BuildTime != nil {
		buildTime = st.BuildTime.Local().Format(time.RFC1123)
	}
	fields := []struct{ label, value string }{
		{"System", r.SystemID},
		{"Server", st.ServerType},
		{"Repository", st.RepositoryName},
		{"Short name", st.ShortName},
		{"Alias", st.Alias},
		{"Branch", st.Branch},
		{"Status", statusIcon(st.Status) + " " + st.Status.String()},
		{"Build", buildLabel(st.BuildNumber)},
		{"Built at", buildTime},
		{"Workflow", st.WorkflowTitle},
		{"ID", st.ID},
	}
	var sb strings.Builder
	for _, f := range fields {
		value := f.value
		if value == "" {
			value = "--"
		}
		sb.WriteString(fmt.Sprintf("  %-12s %s\n", f.label, value))
	}
	return sb.String()
}
