package cmd

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fairq/fairq/lib/consts"
)

var BannerColor = color.New(color.FgCyan)

//nolint:gochecknoglobals
var (
	stderrTTY = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	stdout    io.Writer = colorable.NewColorableStdout()
	stderr    io.Writer = colorable.NewColorableStderr()
)

const defaultConfigFileName = "config.json"

//nolint:gochecknoglobals
var defaultConfigFilePath = defaultConfigFileName // Updated with the user's config folder in newRootCommand
//nolint:gochecknoglobals
var configFilePath = os.Getenv("FAIRQ_CONFIG") // Overridden by `-c`/`--config` flag!

//nolint:gochecknoglobals
var (
	quiet   bool
	noColor bool
	address string
)

// This is to keep all fields needed for the main/root fairq command
type rootCommand struct {
	ctx       context.Context
	logger    *logrus.Logger
	cmd       *cobra.Command
	logOutput string
	logFmt    string
	verbose   bool
}

func newRootCommand(ctx context.Context, logger *logrus.Logger) *rootCommand {
	c := &rootCommand{
		ctx:    ctx,
		logger: logger,
	}
	// the base command when called without any subcommands.
	c.cmd = &cobra.Command{
		Use:               "fairq",
		Short:             "a fair session pool server",
		Long:              BannerColor.Sprintf("\n%s", consts.Banner()),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
	}

	confDir, err := os.UserConfigDir()
	if err != nil {
		logger.WithError(err).Warn("could not get config directory")
		confDir = ".config"
	}
	defaultConfigFilePath = filepath.Join(confDir, "fairq", defaultConfigFileName)

	c.cmd.PersistentFlags().AddFlagSet(c.rootCmdPersistentFlagSet())
	return c
}

func (c *rootCommand) persistentPreRunE(cmd *cobra.Command, _ []string) error {
	if !cmd.Flags().Changed("log-output") {
		if envLogOutput, ok := os.LookupEnv("FAIRQ_LOG_OUTPUT"); ok {
			c.logOutput = envLogOutput
		}
	}
	if err := c.setupLoggers(); err != nil {
		return err
	}

	if noColor {
		color.NoColor = true
		stdout = colorable.NewNonColorable(os.Stdout)
		stderr = colorable.NewNonColorable(os.Stderr)
	}
	stdlog.SetOutput(c.logger.Writer())
	c.logger.Debugf("fairq version: v%s", consts.FullVersion())
	return nil
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := &logrus.Logger{
		Out:       os.Stderr,
		Formatter: new(logrus.TextFormatter),
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.InfoLevel,
	}

	c := newRootCommand(ctx, logger)
	c.cmd.AddCommand(
		getServeCmd(ctx, logger),
		getLoadCmd(ctx, logger),
		getVersionCmd(),
	)

	if err := c.cmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func (c *rootCommand) rootCmdPersistentFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVarP(&quiet, "quiet", "q", false, "disable progress updates")
	flags.BoolVar(&noColor, "no-color", false, "disable colored output")
	flags.StringVar(&c.logOutput, "log-output", "stderr",
		"change the output for fairq logs, possible values are stderr,stdout,none")
	flags.StringVar(&c.logFmt, "log-format", "", "log output format")
	flags.StringVarP(&address, "address", "a", "localhost:7465", "address for the api server")

	// This default value is needed, so both CLI flags and environment variables work
	flags.StringVarP(&configFilePath, "config", "c", configFilePath, "JSON config file")
	// And we also need to explicitly set the default value for the usage message here, so things
	// like `FAIRQ_CONFIG="blah" fairq serve -h` don't produce a weird usage message
	flags.Lookup("config").DefValue = defaultConfigFilePath
	must(cobra.MarkFlagFilename(flags, "config"))
	return flags
}

// fprintf panics when where's an error writing to the supplied io.Writer
func fprintf(w io.Writer, format string, a ...interface{}) (n int) {
	n, err := fmt.Fprintf(w, format, a...)
	if err != nil {
		panic(err.Error())
	}
	return n
}

// RawFormatter it does nothing with the message just prints it
type RawFormatter struct{}

// Format renders a single log entry
func (f RawFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return append([]byte(entry.Message), '\n'), nil
}

func (c *rootCommand) setupLoggers() error {
	if c.verbose {
		c.logger.SetLevel(logrus.DebugLevel)
	}
	switch c.logOutput {
	case "stderr":
		c.logger.SetOutput(stderr)
	case "stdout":
		c.logger.SetOutput(stdout)
	case "none":
		c.logger.SetOutput(io.Discard)
	default:
		return fmt.Errorf("unsupported log output `%s`", c.logOutput)
	}

	switch c.logFmt {
	case "raw":
		c.logger.SetFormatter(&RawFormatter{})
		c.logger.Debug("Logger format: RAW")
	case "json":
		c.logger.SetFormatter(&logrus.JSONFormatter{})
		c.logger.Debug("Logger format: JSON")
	default:
		c.logger.SetFormatter(&logrus.TextFormatter{ForceColors: stderrTTY, DisableColors: noColor})
		c.logger.Debug("Logger format: TEXT")
	}
	return nil
}
