package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/getmockd/ewsparse/pkg/config"
	"github.com/getmockd/ewsparse/pkg/ews"
	"github.com/getmockd/ewsparse/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	globals globalOptions

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ewsparse",
	Short: "ewsparse decodes Exchange Web Services SOAP responses",
	Long: `ewsparse decodes Exchange Web Services (EWS) SOAP responses into JSON or YAML.

Each supported operation has a fixed extraction rule. Failed responses are
reported with the server's ResponseCode and MessageText.

Configuration can be provided via flags, environment variables (EWSPARSE_*),
or a configuration file in YAML, TOML or JSON.`,
	SilenceUsage:  true,
	SilenceErrors: true, // main prints the error
}

// Execute runs the root command with ctx. It is called by main.main().
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globals.ConfigPath, "config", "c", "", "Config file path (.yaml, .toml or .json)")
	rootCmd.PersistentFlags().StringVar(&globals.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&globals.LogFile, "log-file", "", "Also write JSON logs to this file")
}

// globalOptions holds the flags shared by every command.
type globalOptions struct {
	ConfigPath string
	LogLevel   string
	LogFile    string
	Format     string
}

// session is the state a command needs once flags are parsed.
type session struct {
	cfg    *config.Config
	log    *slog.Logger
	parser *ews.Parser
	close  func() error
}

// newSession loads configuration, applies environment and flag overrides in
// that order, and builds the logger and parser. Logs go to stderr.
func newSession(opts globalOptions, stderr io.Writer) (*session, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.LogFile != "" {
		cfg.Logging.File = opts.LogFile
	}
	if opts.Format != "" {
		cfg.Output.Format = opts.Format
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logCfg := cfg.LoggingConfig()
	logCfg.Output = stderr
	log, closeLog, err := logging.NewWithFile(logCfg, cfg.Logging.File)
	if err != nil {
		return nil, err
	}

	parser := ews.NewParser(
		ews.WithNamespaces(cfg.NamespaceTable()),
		ews.WithLogger(log),
	)

	return &session{cfg: cfg, log: log, parser: parser, close: closeLog}, nil
}
