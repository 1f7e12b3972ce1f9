package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/gops/agent"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chrisuehlinger/scriptdom/config"
	"github.com/chrisuehlinger/scriptdom/render"
	"github.com/chrisuehlinger/scriptdom/ui"
)

type options struct {
	configFile string
	headless   bool
	tree       bool
	diff       bool
	logLevel   string
	gops       bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "scriptdom [file]",
		Short: "scriptdom loads an HTML document, runs its inline scripts and displays the result.",
		Long: `
scriptdom parses an HTML document (from a file or standard input), exposes
it to inline scripts through document.getElementById and repaints the
display whenever a script assigns innerHTML.
`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configFile, "config", "c", "", "YAML configuration file")
	f.BoolVar(&opts.headless, "headless", false, "render to standard output instead of a window")
	f.BoolVar(&opts.tree, "tree", false, "print the document tree after scripts ran (headless)")
	f.BoolVar(&opts.diff, "diff", false, "print a diff of the rendering before and after scripts ran (headless)")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	f.BoolVar(&opts.gops, "gops", false, "start the gops diagnostics agent")
	return cmd
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	cfg := config.DefaultConfig()
	if opts.configFile != "" {
		var err error
		if cfg, err = config.LoadConfig(opts.configFile); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless = opts.headless
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if opts.gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			logger.Warn("gops agent failed", zap.Error(err))
		}
		defer agent.Close()
	}

	markup, err := readDocument(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	b, err := ui.NewBrowser(cfg, string(markup), logger)
	if err != nil {
		return err
	}

	if !cfg.Headless {
		b.Run(cmd.Context())
		return nil
	}
	return runHeadless(cmd.OutOrStdout(), b, opts)
}

func runHeadless(out io.Writer, b *ui.Browser, opts *options) error {
	before, err := render.Lines(b.Tree(), b.Tree().Root())
	if err != nil {
		return err
	}
	layer := b.RunHeadless()

	p := render.NewPrinter(out)
	if opts.diff {
		p.Heading(fmt.Sprintf("re-rendered %d time(s)", layer.Renders()))
		p.Diff(before, layer.Lines())
	} else {
		p.Lines(layer.Lines())
	}
	if opts.tree {
		p.Heading("document tree")
		return b.Tree().Dump(out)
	}
	return nil
}

func readDocument(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return data, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zc.DisableStacktrace = lvl > zapcore.DebugLevel
	return zc.Build()
}
