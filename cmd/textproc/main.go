package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alucardeht/textproc/internal/config"
	"github.com/alucardeht/textproc/internal/logger"
	"github.com/alucardeht/textproc/internal/ops"
	"github.com/alucardeht/textproc/internal/textproc"
	"github.com/alucardeht/textproc/pkg/version"
)

func main() {
	runMain(os.Args, os.Stdin, os.Stdout, os.Stderr, os.Exit)
}

// execute runs the CLI with the provided args and streams.
func execute(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) error {
	cmd := newRootCmd()
	if len(args) > 0 {
		cmd.SetArgs(args[1:])
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.Execute()
}

func runMain(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer, exit func(int)) {
	if err := execute(args, stdin, stdout, stderr); err != nil {
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		exit(1)
	}
}

type rootOptions struct {
	configPath string
	logLevel   string
	noAccel    bool
}

// app is what every subcommand needs after flags are parsed.
type app struct {
	cfg       *config.Config
	log       *slog.Logger
	processor *textproc.Processor
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "textproc",
		Short:         "Reverse, count and clean text, using accelerated implementations when available",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.textproc/config.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.BoolVar(&opts.noAccel, "no-accel", false, "use the reference implementations only")

	cmd.AddCommand(
		newOperationCmd(opts, ops.Reverse, "reverse", "Reverse text by code point"),
		newOperationCmd(opts, ops.CharacterFrequency, "freq", "Count each distinct character", "character_frequency", "char_count"),
		newOperationCmd(opts, ops.CleanText, "clean", "Remove ASCII punctuation and lowercase ASCII letters", "clean_text"),
		newStrategiesCmd(opts),
		newServeCmd(opts),
	)

	return cmd
}

// load reads configuration, applies flag overrides, installs the logger on
// the command's stderr and builds the registry.
func (o *rootOptions) load(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.noAccel {
		cfg.Accel.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Init(logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	log := logger.ForComponent("cli")

	reg, err := textproc.Build(cfg.Accel, logger.ForComponent("registry"))
	if err != nil {
		return nil, fmt.Errorf("failed to build registry: %w", err)
	}

	return &app{
		cfg:       cfg,
		log:       log,
		processor: textproc.New(reg),
	}, nil
}
