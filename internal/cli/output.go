package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/waabox/devopswatch/internal/domain"
)

// writeSnapshots renders snapshots in the requested output format.
func writeSnapshots(w io.Writer, format string, snapshots []domain.Snapshot) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshots)
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snapshots); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeText(w, snapshots)
	}
}

func writeText(w io.Writer, snapshots []domain.Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SYSTEM\tSTATUS\tNAME\tREPOSITORY\tBRANCH\tBUILD\tWORKFLOW\tBUILT")
	for _, snap := range snapshots {
		for _, st := range snap.Statuses {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				snap.SystemID,
				st.Status,
				orDash(st.Alias),
				st.RepositoryName,
				orDash(st.Branch),
				buildNumber(st.BuildNumber),
				orDash(st.WorkflowTitle),
				buildTime(st),
			)
		}
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func buildNumber(n *int) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprintf("#%d", *n)
}

func buildTime(st domain.StatusInformation) string {
	if st.BuildTime == nil {
		return "-"
	}
	return st.BuildTime.UTC().Format("2006-01-02 15:04:05Z")
}
