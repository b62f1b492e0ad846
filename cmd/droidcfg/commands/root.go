// Package commands implements the CLI commands for droidcfg.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/droidcfg/internal/adapters/telemetry"
	"go.trai.ch/droidcfg/internal/app"
	"go.trai.ch/droidcfg/internal/build"
	"go.trai.ch/droidcfg/internal/core/domain"
	"go.trai.ch/droidcfg/internal/core/ports"
	"go.trai.ch/zerr"
)

// Log formats accepted by --log-format.
const (
	LogFormatPretty = "pretty"
	LogFormatJSON   = "json"
)

var errUnsupportedLogFormat = zerr.New("unsupported log format, expected pretty or json")

// Application represents the application logic interface.
type Application interface {
	Resolve(ctx context.Context, opts app.Options) (*app.Resolution, error)
	ResolveAndStore(ctx context.Context, opts app.Options) (*app.Resolution, error)
	Validate(ctx context.Context, opts app.Options) (*domain.BuildConfig, error)
	Verify(ctx context.Context, opts app.VerifyOptions) ([]domain.DependencyReport, error)
	Sign(ctx context.Context, opts app.SignOptions) (string, error)
	CheckSignature(ctx context.Context, opts app.CheckSignatureOptions) (string, error)
	Watch(ctx context.Context, opts app.Options) error
	Clean(ctx context.Context, opts app.Options) error
}

// jsonSwitcher is implemented by loggers that can switch to JSON output.
type jsonSwitcher interface {
	SetJSON(enable bool)
}

// CLI represents the command line interface for droidcfg.
type CLI struct {
	app     Application
	logger  ports.Logger
	rootCmd *cobra.Command

	configPath string
	logFormat  string
	trace      bool
	shutdown   func(context.Context) error
}

// Option configures a CLI.
type Option func(*CLI)

// WithLogger sets the logger configured by --log-format and used by --trace.
func WithLogger(l ports.Logger) Option {
	return func(c *CLI) {
		c.logger = l
	}
}

// New creates a new CLI instance with the given app.
func New(a Application, opts ...Option) *CLI {
	rootCmd := &cobra.Command{
		Use:           "droidcfg",
		Short:         "Resolve Android build configuration into a build plan",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	for _, opt := range opts {
		opt(c)
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.configPath, "file", "f", "", "Path to "+domain.ConfigFileName+" (default: discovered from the working directory)")
	flags.StringVar(&c.logFormat, "log-format", LogFormatPretty, "Log format: pretty or json")
	flags.BoolVar(&c.trace, "trace", false, "Log the duration of each resolution phase")

	rootCmd.PersistentPreRunE = c.setup
	rootCmd.PersistentPostRunE = c.teardown

	rootCmd.AddCommand(
		c.newResolveCmd(),
		c.newValidateCmd(),
		c.newVerifyCmd(),
		c.newSignCmd(),
		c.newCheckSignatureCmd(),
		c.newWatchCmd(),
		c.newCleanCmd(),
		c.newVersionCmd(),
	)

	return c
}

func (c *CLI) setup(*cobra.Command, []string) error {
	switch c.logFormat {
	case LogFormatPretty:
	case LogFormatJSON:
		if s, ok := c.logger.(jsonSwitcher); ok {
			s.SetJSON(true)
		}
	default:
		return zerr.With(errUnsupportedLogFormat, "format", c.logFormat)
	}

	if c.trace && c.logger != nil {
		c.shutdown = telemetry.Install(c.logger)
	}
	return nil
}

func (c *CLI) teardown(cmd *cobra.Command, _ []string) error {
	if c.shutdown == nil {
		return nil
	}
	return c.shutdown(context.WithoutCancel(cmd.Context()))
}

// options returns the shared options derived from persistent flags.
func (c *CLI) options(buildType string) app.Options {
	return app.Options{ConfigPath: c.configPath, BuildType: buildType}
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
