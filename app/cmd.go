package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/funkybooboo/mygrep/internal/config"
	"github.com/funkybooboo/mygrep/internal/grep"
	"github.com/funkybooboo/mygrep/internal/regex"
)

type rootFlags struct {
	cfgFile    string
	initConfig bool
	pattern    string
	extended   bool
	recursive  bool
	only       bool
	ignoreCase bool
	invert     bool
	count      bool
	lineNums   bool
	color      string
	maxSteps   int
	timeout    time.Duration
	logLevel   string
}

// run executes the command line and returns the process exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdin, stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	code := exitCode(err)
	if err != nil && code == exitTrouble {
		fmt.Fprintf(stderr, "mygrep: %v\n", err)
	}
	return code
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var f rootFlags
	cmd := &cobra.Command{
		Use:           "mygrep [flags] -E PATTERN [PATH...]",
		Short:         "mygrep - search lines for a regular expression",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if f.initConfig || cmd.Flags().Changed("regexp") || len(args) > 0 {
				return nil
			}
			return &exitError{code: exitTrouble, err: fmt.Errorf("usage: %s", cmd.UseLine())}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.initConfig {
				return initConfigurationFile(f.cfgFile, stdout)
			}
			return search(cmd, &f, args, stdin, stdout, stderr)
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &exitError{code: exitTrouble, err: err}
	})

	flags := cmd.Flags()
	flags.StringVar(&f.cfgFile, "config", "", "configuration file (default "+config.DefaultPath+")")
	flags.BoolVar(&f.initConfig, "init", false, "write a default configuration file and exit")
	flags.StringVarP(&f.pattern, "regexp", "e", "", "use PATTERN for matching")
	flags.BoolVarP(&f.extended, "extended-regexp", "E", false, "PATTERN is an extended regular expression (always on)")
	flags.BoolVarP(&f.recursive, "recursive", "r", false, "search directories recursively")
	flags.BoolVarP(&f.only, "only-matching", "o", false, "print only the matched parts of a line")
	flags.BoolVarP(&f.ignoreCase, "ignore-case", "i", false, "ignore case distinctions")
	flags.BoolVarP(&f.invert, "invert-match", "v", false, "select non-matching lines")
	flags.BoolVarP(&f.count, "count", "c", false, "print only a count of selected lines per input")
	flags.BoolVarP(&f.lineNums, "line-number", "n", false, "prefix each line with its line number")
	flags.StringVar(&f.color, "color", "", "highlight matches: never, always or auto")
	flags.IntVar(&f.maxSteps, "max-steps", 0, "give up matching a line after this many steps (0 = unlimited)")
	flags.DurationVar(&f.timeout, "timeout", 0, "give up matching a line after this long (0 = no limit)")
	flags.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	return cmd
}

// mergeFlags lays explicitly set flags over the configuration file.
func mergeFlags(cmd *cobra.Command, f *rootFlags, cfg config.Config) config.Config {
	flags := cmd.Flags()
	if flags.Changed("color") {
		cfg.Color = f.color
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = f.maxSteps
	}
	if flags.Changed("timeout") {
		cfg.Timeout = f.timeout
	}
	if f.ignoreCase {
		cfg.IgnoreCase = true
	}
	return cfg
}

func search(cmd *cobra.Command, f *rootFlags, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load(f.cfgFile)
	if err != nil {
		return &exitError{code: exitTrouble, err: err}
	}
	cfg = mergeFlags(cmd, f, cfg)
	if err := cfg.Validate(); err != nil {
		return &exitError{code: exitTrouble, err: err}
	}

	logger, err := newLogger(cfg.LogLevel, stderr)
	if err != nil {
		return &exitError{code: exitTrouble, err: err}
	}
	defer logger.Sync()

	// an explicit -e takes precedence, even when it is empty
	pattern := f.pattern
	paths := args
	if !cmd.Flags().Changed("regexp") {
		pattern, paths = args[0], args[1:]
	}

	reConfig := regex.DefaultConfig()
	reConfig.IgnoreCase = cfg.IgnoreCase
	reConfig.MaxSteps = cfg.MaxSteps
	re, err := regex.CompileWithConfig(pattern, reConfig)
	if err != nil {
		logger.Debug("Pattern rejected", zap.String("pattern", pattern), zap.Error(err))
		return &exitError{code: exitTrouble, err: err}
	}
	logger.Debug("Compiled pattern",
		zap.String("pattern", pattern),
		zap.Stringer("tree", re.Root()),
		zap.Int("captures", re.NumCaptures()),
		zap.Strings("prefilter", re.Literals()))

	opts := grep.Options{
		Recursive:    f.recursive,
		OnlyMatching: f.only,
		Invert:       f.invert,
		Count:        f.count,
		LineNumbers:  f.lineNums,
		Color:        useColor(cfg.Color, stdout),
		Timeout:      cfg.Timeout,
	}
	searcher := grep.New(re, opts, stdout, logger)

	found, err := searcher.Run(context.Background(), stdin, paths)
	if err != nil {
		logger.Error("Search failed", zap.Error(err))
		return &exitError{code: exitTrouble, err: err}
	}
	if !found {
		return &exitError{code: exitNoMatch}
	}
	return nil
}
