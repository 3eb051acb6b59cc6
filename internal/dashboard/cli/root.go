package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"coldchain/internal/platform/logger"
)

// Env is the process environment a command tree runs against. Tests replace
// it to avoid touching the real home directory.
type Env struct {
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
	Getenv func(string) string
}

// OSEnv returns the real process environment.
func OSEnv() Env {
	return Env{In: os.Stdin, Out: os.Stdout, Err: os.Stderr, Getenv: os.Getenv}
}

type rootOptions struct {
	env        Env
	configPath string
	baseURL    string
	logLevel   string

	app *App
}

// NewRootCommand builds the dispatchctl command tree.
func NewRootCommand(env Env) *cobra.Command {
	cmd, _ := newRootCommand(env)
	return cmd
}

func newRootCommand(env Env) (*cobra.Command, *rootOptions) {
	o := &rootOptions{env: env}

	cmd := &cobra.Command{
		Use:   "dispatchctl",
		Short: "Dispatcher client for the coldchain platform",
		Long: `dispatchctl signs a dispatcher in, shows their organizational session and
assigns drivers, vehicles and trailers to fleet sets with conflict
confirmation.

Settings are read from a YAML profile (default: $XDG_CONFIG_HOME/dispatchctl/config.yaml)
and may be overridden by DISPATCHCTL_BASE_URL, DISPATCHCTL_CREDENTIALS or flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.setup()
		},
	}
	cmd.SetIn(env.In)
	cmd.SetOut(env.Out)
	cmd.SetErr(env.Err)

	flags := cmd.PersistentFlags()
	flags.StringVar(&o.configPath, "config", "", "profile path")
	flags.StringVar(&o.baseURL, "base-url", "", "backend base URL (overrides the profile)")
	flags.StringVar(&o.logLevel, "log-level", "", "debug|info|warn|error (overrides the profile)")

	cmd.AddCommand(
		newLoginCommand(o),
		newSignUpCommand(o),
		newLogoutCommand(o),
		newSessionCommand(o),
		newProfileCommand(o),
		newOrgCommand(o),
		newVehiclesCommand(o),
		newFleetSetsCommand(o),
		newAssignCommand(o),
		newWatchCommand(o),
		newConfigCommand(o),
	)
	return cmd, o
}

func (o *rootOptions) setup() error {
	path := o.configPath
	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return err
		}
		o.configPath = path
	}
	profile, err := LoadProfile(path, o.env.Getenv)
	if err != nil {
		return err
	}
	if o.baseURL != "" {
		profile.BaseURL = o.baseURL
		if err := profile.validate(); err != nil {
			return err
		}
	}
	if o.logLevel != "" {
		profile.LogLevel = o.logLevel
	}
	o.app = NewApp(profile, logger.NewWithWriter(o.env.Err, profile.LogLevel))
	return nil
}

// Run executes args against env and stops the session listener afterwards.
func Run(ctx context.Context, env Env, args []string) error {
	cmd, o := newRootCommand(env)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if o.app != nil {
		o.app.Close()
	}
	return err
}
