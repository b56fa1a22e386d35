package main

// An `ecslog` CLI for pretty-printing logs (streaming on stdin, or in log
// files) in ECS logging format (https://github.com/elastic/ecs-logging).

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.elastic.co/ecszap"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var flags = pflag.NewFlagSet("ecslog", pflag.ExitOnError)

var (
	flagLevel = flags.StringP("level", "l", "",
		`Filter out log records below the given level.
ECS does not mandate log level names. This supports level
names and ordering from common logging frameworks.`)
	flagKQL = flags.StringP("kql", "k", "",
		"Filter log records with the given KQL query.")
	flagFormat = flags.StringP("format", "f", defaultFormat,
		"Output format: default, compact, ecs, or simple.")
	flagColor = flags.String("color", "auto",
		"Colorize output: auto (when stdout is a TTY), yes, or no.")
	flagNoColor = flags.Bool("no-color", false,
		"Disable colorized output. Shorthand for --color=no.")
	flagColorScheme = flags.String("color-scheme", defaultColorScheme,
		"Color scheme: default, bunyan, or pino-pretty.")
	flagStrict = flags.Bool("strict", false,
		"Suppress lines that are not ecs-logging records instead of passing them through.")
	flagMaxLineLen = flags.Int("max-line-len", 0,
		"Do not attempt to render lines longer than this many bytes.")
	flagConfig = flags.StringP("config", "c", "",
		"Config file (default is $HOME/.config/ecslog/config.yml).")
	flagNoConfig = flags.Bool("no-config", false,
		"Ignore any config file.")
	flagPrintConfig = flags.Bool("print-config", false,
		"Print the effective configuration as YAML and exit.")
	flagVerbose = flags.BoolP("verbose", "v", false,
		"Verbose diagnostic output on stderr.")
	flagVersion = flags.Bool("version", false,
		"Print version information.")
	flagHelp = flags.BoolP("help", "h", false,
		"Print this help.")
)

func errorf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "ecslog: error: "+format+"\n", args...)
}

func usage() {
	fmt.Printf("usage: ecslog [OPTIONS] [LOG-FILES...]\n\n")
	fmt.Printf("Pretty-print and filter log files in ecs-logging format.\n")
	fmt.Printf("With no LOG-FILES, reads stdin.\n\n")
	flags.PrintDefaults()
}

// newDiagLogger builds the tool's own logger, which writes ecs-logging
// format to stderr so diagnostics never mix into the rendered output.
// https://www.elastic.co/guide/en/ecs-logging/go-zap/current/setup.html
func newDiagLogger(verbose bool) *zap.Logger {
	logLevel := zap.FatalLevel
	if verbose {
		logLevel = zap.DebugLevel
	}
	core := ecszap.NewCore(ecszap.NewDefaultEncoderConfig(), os.Stderr, logLevel)
	return zap.New(core, zap.AddCaller()).Named("ecslog")
}

func main() {
	flags.SortFlags = false
	flags.Usage = usage
	if err := flags.Parse(os.Args[1:]); err != nil {
		errorf("%s", err)
		os.Exit(2)
	}

	if *flagHelp {
		usage()
		os.Exit(0)
	}
	if *flagVersion {
		fmt.Printf("ecslog %s\n", version)
		fmt.Printf("  Commit: %s\n", commit)
		fmt.Printf("  Built:  %s\n", buildTime)
		os.Exit(0)
	}

	cfg, err := loadConfig(*flagConfig, *flagNoConfig, flags)
	if err != nil {
		errorf("%s", err)
		os.Exit(2)
	}
	if *flagNoColor {
		cfg.Color = "no"
	}

	if *flagPrintConfig {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			errorf("%s", err)
			os.Exit(1)
		}
		fmt.Print(string(out))
		os.Exit(0)
	}

	logger := newDiagLogger(*flagVerbose)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger, flags.Args()); err != nil {
		errorf("%s", err)
		os.Exit(1)
	}
}
