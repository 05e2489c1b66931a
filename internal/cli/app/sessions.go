package app

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/antonkrylov/rcode/internal/sessionlog"
)

func newSessionsCmd(opts *rootOptions) *cobra.Command {
	var unique bool
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded sessions, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := sessionlog.New(opts.settings.SessionLog)
			recs, err := store.Records()
			if err != nil {
				return err
			}
			if unique {
				recs = firstByName(recs)
			}
			if len(recs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No sessions recorded in %s\n", store.Path())
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tURI")
			for _, r := range recs {
				fmt.Fprintf(tw, "%s\t%s\n", r.Name, r.URI)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVarP(&unique, "shortcuts", "s", false, "show only the record each name resolves to with --open-shortcut")
	return cmd
}

// firstByName keeps the first record of every name except latest, matching
// how shortcuts are resolved.
func firstByName(recs []sessionlog.Record) []sessionlog.Record {
	seen := make(map[string]bool)
	var out []sessionlog.Record
	for _, r := range recs {
		if r.Name == sessionlog.LatestName || seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		out = append(out, r)
	}
	return out
}
