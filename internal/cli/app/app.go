// Package app wires the rcode and rcursor command lines.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	cliconfig "github.com/antonkrylov/rcode/internal/cli/config"
	"github.com/antonkrylov/rcode/internal/editor"
	"github.com/antonkrylov/rcode/internal/failure"
	"github.com/antonkrylov/rcode/internal/ipc"
	"github.com/antonkrylov/rcode/internal/launcher"
	"github.com/antonkrylov/rcode/internal/logger"
	"github.com/antonkrylov/rcode/internal/sessionlog"
	"github.com/antonkrylov/rcode/internal/sshconfig"
)

// Deps are the process-level collaborators. Zero fields fall back to the
// real OS.
type Deps struct {
	Home      string
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	LookupEnv func(string) (string, bool)
	Environ   []string
	Runner    launcher.Runner
	LookPath  func(string) (string, error)
	// Sys replaces the socket probe and owner lookup.
	Sys ipc.Capabilities
	Now func() time.Time
}

func (d *Deps) fill() error {
	if d.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return failure.New(failure.Configuration, "cannot determine home directory: "+err.Error())
		}
		d.Home = home
	}
	if d.Stdin == nil {
		d.Stdin = os.Stdin
	}
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Stderr == nil {
		d.Stderr = os.Stderr
	}
	if d.LookupEnv == nil {
		d.LookupEnv = os.LookupEnv
	}
	if d.Environ == nil {
		d.Environ = os.Environ()
	}
	if d.Runner == nil {
		d.Runner = launcher.ExecRunner{Stdin: d.Stdin, Stdout: d.Stdout, Stderr: d.Stderr}
	}
	if d.LookPath == nil {
		d.LookPath = exec.LookPath
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return nil
}

type rootOptions struct {
	configPath   string
	logLevel     string
	maxIdle      time.Duration
	latest       bool
	shortcutName string
	openShortcut string

	deps     *Deps
	flavor   editor.Flavor
	target   launcher.Target
	settings *cliconfig.Settings
	log      zerolog.Logger
	code     int
}

// prepare resolves settings, the logger and the invocation target.
func (r *rootOptions) prepare() error {
	s, err := cliconfig.Resolve(r.deps.Home, cliconfig.Overrides{
		ConfigPath: r.configPath,
		MaxIdle:    r.maxIdle,
		LogLevel:   r.logLevel,
	})
	if err != nil {
		return failure.New(failure.Configuration, err.Error())
	}
	r.settings = s

	level := logger.ParseLevel(s.LogLevel)
	if s.LogLevel == "" {
		if envLevel, ok := logger.GetLogLevelFromEnv(); ok {
			level = envLevel
		}
	}
	r.log = logger.Configure(level, r.deps.Stderr).With().
		Str("invocation", uuid.NewString()).
		Logger()

	r.target = launcher.Detect(r.deps.Home, r.deps.LookupEnv, r.flavor)
	r.log.Debug().
		Str("config", s.ConfigPath).
		Bool("config_present", s.Config != nil).
		Str("mode", r.target.Mode.String()).
		Str("flavor", r.target.Flavor.Name).
		Msg("resolved invocation")
	return nil
}

func (r *rootOptions) selector() *ipc.Selector {
	sys := r.deps.Sys
	if sys == nil {
		sys = ipc.System{ProbeTimeout: r.settings.ProbeTimeout}
	}
	return &ipc.Selector{
		Checker: ipc.OwnershipChecker{Sys: sys},
		MaxIdle: r.settings.MaxIdle,
		Now:     r.deps.Now,
		Log:     r.log,
	}
}

func (r *rootOptions) resolver() *ipc.Resolver {
	return &ipc.Resolver{
		RuntimeDir: r.settings.RuntimeDir,
		Pattern:    r.settings.SocketPattern,
		Selector:   r.selector(),
	}
}

func (r *rootOptions) launcher(hosts launcher.HostLookup) *launcher.Launcher {
	cfg := r.settings.Config
	return &launcher.Launcher{
		Target:   r.target,
		Home:     r.deps.Home,
		Locator:  editor.NewLocator(r.deps.Home, r.log),
		Sockets:  r.resolver(),
		Sessions: sessionlog.New(r.settings.SessionLog),
		Hosts:    hosts,
		Runner:   r.deps.Runner,
		Stdout:   r.deps.Stdout,
		Log:      r.log,
		Environ:  r.deps.Environ,
		LookPath: r.deps.LookPath,
		HostHome: cfg.HostHome,
		LocalBin: cfg.EditorBinary(r.target.Flavor.Name),
	}
}

func (r *rootOptions) request(args []string) (launcher.Request, error) {
	req := launcher.Request{
		Latest:       r.latest,
		ShortcutName: r.shortcutName,
		OpenShortcut: r.openShortcut,
	}
	prog := progName(r.flavor)
	if r.target.Mode == launcher.Remote {
		if len(args) > 1 {
			return req, failure.New(failure.Usage, "too many arguments",
				"usage: "+prog+" <dir>")
		}
		if len(args) == 1 {
			req.Dir = args[0]
		}
		return req, nil
	}
	if len(args) > 0 {
		req.Host = args[0]
	}
	if len(args) > 1 {
		req.Dir = args[1]
	}
	return req, nil
}

func (r *rootOptions) run(ctx context.Context, args []string) error {
	req, err := r.request(args)
	if err != nil {
		r.code = 1
		return err
	}
	var hosts launcher.HostLookup
	if r.target.Mode == launcher.Local {
		h, err := sshconfig.Load(r.settings.SSHConfig)
		if err != nil {
			r.code = 1
			return failure.New(failure.Configuration, err.Error(),
				"Fix the syntax of "+r.settings.SSHConfig+" and try again.")
		}
		hosts = h
	}
	code, err := r.launcher(hosts).Launch(ctx, req)
	r.code = code
	return err
}

// newRootCmd builds the command tree for flavor.
func newRootCmd(flavor editor.Flavor, deps *Deps) (*cobra.Command, *rootOptions) {
	opts := &rootOptions{deps: deps, flavor: flavor}
	prog := progName(flavor)
	rootCmd := &cobra.Command{
		Use:   prog + " [host] <dir>",
		Short: "Open a remote folder in " + flavor.Product,
		Long: "On your desktop: " + prog + " <host> <dir> opens <dir> on the ssh host <host>.\n" +
			"Inside a remote SSH session: " + prog + " <dir> opens <dir> in the attached editor window.",
		Args:          cobra.MaximumNArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd.Context(), args)
		},
	}
	rootCmd.SetGlobalNormalizationFunc(dashNormalize)
	rootCmd.SetOut(deps.Stdout)
	rootCmd.SetErr(deps.Stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", cliconfig.DefaultConfigPath(), "path to rcode config file")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (default warn)")
	pf.DurationVar(&opts.maxIdle, "max-idle", 0, "ignore IPC sockets idle longer than this (default 4h)")

	f := rootCmd.Flags()
	f.BoolVarP(&opts.latest, "latest", "l", false, "open the most recently recorded session")
	f.StringVarP(&opts.shortcutName, "shortcut-name", "n", "", "record this open under a shortcut name")
	f.StringVarP(&opts.openShortcut, "open-shortcut", "o", "", "open the session recorded under this shortcut name")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return opts.prepare()
	}

	rootCmd.AddCommand(newDoctorCmd(opts))
	rootCmd.AddCommand(newSessionsCmd(opts))
	return rootCmd, opts
}

// Run executes one invocation and returns the exit code to report.
func Run(ctx context.Context, flavor editor.Flavor, args []string, deps *Deps) (int, error) {
	if deps == nil {
		deps = &Deps{}
	}
	if err := deps.fill(); err != nil {
		return 1, err
	}
	cmd, opts := newRootCmd(flavor, deps)
	cmd.SetArgs(args)
	executed, err := cmd.ExecuteContextC(ctx)
	if err != nil {
		if executed != cmd || opts.code == 0 {
			return 1, err
		}
		return opts.code, err
	}
	if executed != cmd {
		return 0, nil
	}
	return opts.code, nil
}

// Main runs flavor's command line against the real process and returns the
// exit status.
func Main(flavor editor.Flavor) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := &Deps{}
	code, err := Run(ctx, flavor, os.Args[1:], deps)
	if err != nil {
		report(deps, flavor, err)
	}
	return code
}

func report(deps *Deps, flavor editor.Flavor, err error) {
	stdout, stderr := deps.Stdout, deps.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	var fe *failure.Error
	if errors.As(err, &fe) {
		fmt.Fprintln(stdout, fe.String())
		return
	}
	fmt.Fprintf(stderr, "%s: %v\n", progName(flavor), err)
	fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", progName(flavor))
}

func progName(f editor.Flavor) string {
	if f.Name == editor.Cursor.Name {
		return "rcursor"
	}
	return "rcode"
}

func dashNormalize(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}
