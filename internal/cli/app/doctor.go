package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/antonkrylov/rcode/internal/editor"
	"github.com/antonkrylov/rcode/internal/launcher"
	"github.com/antonkrylov/rcode/internal/sessionlog"
	"github.com/antonkrylov/rcode/internal/sshconfig"
)

func newDoctorCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Print diagnostic information for troubleshooting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			s := opts.settings
			deps := opts.deps

			exe, _ := os.Executable()
			fmt.Fprintf(out, "executable=%s\n", strings.TrimSpace(exe))
			fmt.Fprintf(out, "mode=%s\n", opts.target.Mode)
			fmt.Fprintf(out, "flavor=%s\n", opts.target.Flavor.Name)
			if v, ok := deps.LookupEnv(launcher.SSHClientEnv); ok {
				fmt.Fprintf(out, "ssh_client=%s\n", v)
			}

			fmt.Fprintf(out, "config_path=%s\n", s.ConfigPath)
			fmt.Fprintf(out, "config_present=%t\n", s.Config != nil)
			fmt.Fprintf(out, "max_idle=%s\n", s.MaxIdle)
			fmt.Fprintf(out, "probe_timeout=%s\n", s.ProbeTimeout)

			for _, f := range editor.All() {
				for _, inst := range editor.Installations(deps.Home, f) {
					fmt.Fprintf(out, "installation=%s flavor=%s last_access=%s cli=%s\n",
						inst.Dir, f.Name, inst.LastAccess.Format(time.RFC3339), f.CLIPath(inst))
				}
			}

			if opts.target.Mode == launcher.Remote {
				reportSockets(cmd, opts)
			} else {
				reportLocal(cmd, opts)
			}
			return nil
		},
	}
	return cmd
}

func reportSockets(cmd *cobra.Command, opts *rootOptions) {
	out := cmd.OutOrStdout()
	r := opts.resolver()
	fmt.Fprintf(out, "runtime_dir=%s\n", r.RuntimeDir)
	cands, err := r.Candidates()
	if err != nil {
		fmt.Fprintf(out, "socket_error=%s\n", err.Error())
		return
	}
	if len(cands) == 0 {
		fmt.Fprintln(out, "sockets=0")
		return
	}
	for _, rep := range r.Selector.Inspect(cands, opts.target.Flavor) {
		fmt.Fprintf(out, "socket=%s idle=%s stale=%t live=%t pid=%d owned=%t\n",
			rep.Path,
			rep.Idle.Truncate(time.Second),
			rep.Stale,
			rep.Status.Live,
			rep.Status.PID,
			rep.Status.Owned,
		)
	}
	if sock, err := r.Resolve(opts.target.Flavor); err == nil {
		fmt.Fprintf(out, "selected=%s\n", sock)
	} else {
		fmt.Fprintln(out, "selected=")
	}
}

func reportLocal(cmd *cobra.Command, opts *rootOptions) {
	out := cmd.OutOrStdout()
	s := opts.settings

	bin := s.Config.EditorBinary(opts.target.Flavor.Name)
	if bin == "" {
		bin = opts.target.Flavor.LocalBinary
	}
	look, err := opts.deps.LookPath(bin)
	if err != nil {
		fmt.Fprintf(out, "editor_binary=%s editor_on_path=false\n", bin)
	} else {
		fmt.Fprintf(out, "editor_binary=%s editor_on_path=true path=%s\n", bin, filepath.Clean(look))
	}

	fmt.Fprintf(out, "ssh_config=%s\n", s.SSHConfig)
	hosts, err := sshconfig.Load(s.SSHConfig)
	if err != nil {
		fmt.Fprintf(out, "ssh_config_error=%s\n", err.Error())
	} else {
		fmt.Fprintf(out, "ssh_hosts=%s\n", strings.Join(hosts.Aliases(), ","))
	}

	store := sessionlog.New(s.SessionLog)
	fmt.Fprintf(out, "session_log=%s\n", store.Path())
	recs, err := store.Records()
	if err != nil {
		fmt.Fprintf(out, "session_log_error=%s\n", err.Error())
		return
	}
	fmt.Fprintf(out, "session_records=%d\n", len(recs))
}
