package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/formats"
	"github.com/weft-lang/weft/internal/interp"
	"github.com/weft-lang/weft/internal/util"
	"github.com/weft-lang/weft/internal/value"
)

const (
	DefaultConfigFile = "weft.toml"
	DefaultFormat     = "json"
)

var (
	// Version is the current version of the weft binary.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
	help      bool
	version   bool
	// logging
	logLevel string
	logFile  string
	// config vars
	configFile   string
	inputFormat  string
	outputFormat string
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	// format config
	flag.StringVar(&inputFormat, "input", "", "Input format: json, csv, xml (default json)")
	flag.StringVar(&outputFormat, "output", "", "Output format: json, csv, xml (default from the script's output directive, else json)")
	flag.StringVar(&configFile, "config", DefaultConfigFile, "Configuration file path")
	// log config
	flag.StringVar(&logLevel, "log-level", "error", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {
	flag.Parse()

	if version {
		printVersion()
		return
	}

	if help || flag.NArg() < 1 {
		printHelp()
		if !help {
			os.Exit(2)
		}
		return
	}

	config, err := util.LoadConfiguration(configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	config.Version = Version
	config.BuildDate = BuildDate
	config.Commit = Commit
	applyFlags(&config)

	// Creates a new Logger that uses a JSONHandler to write to the log sink
	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     logLevelFromString(config.LogLevel),
	}
	logWriter := configureLogWriter(config.LogFile)
	defaultLogger := slog.New(slog.NewJSONHandler(logWriter, loggerOptions))
	slog.SetDefault(defaultLogger)

	os.Exit(run(config))
}

func run(config util.Configuration) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.DivisionPrecision > 0 {
		decimal.DivisionPrecision = config.DivisionPrecision
	}

	source, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	codecs := formats.NewRegistry()
	it := interp.New(interp.WithStubBuiltins(config.StubBuiltins))
	codecs.RegisterBuiltins(it.Registry())

	program, err := it.Compile(string(source))
	if err != nil {
		printDiag(err, string(source))
		return 1
	}

	payload, err := readPayload(codecs, config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	result, err := program.Run(ctx, payload, nil)
	if err != nil {
		printDiag(err, string(source))
		return 1
	}

	out := firstNonEmpty(config.OutputFormat, program.Output(), DefaultFormat)
	codec, ok := codecs.Lookup(out)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown output format %q\n", out)
		return 1
	}
	data, encErr := codec.Write(result)
	if encErr != nil {
		fmt.Fprintln(os.Stderr, encErr)
		return 1
	}
	os.Stdout.Write(data)
	return 0
}

// readPayload decodes the second argument (or stdin when it is "-") with
// the configured input format. Without an input argument the payload is null.
func readPayload(codecs *formats.Registry, config util.Configuration) (value.Value, error) {
	if flag.NArg() < 2 {
		return value.NULL, nil
	}

	var data []byte
	var err error
	if flag.Arg(1) == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(flag.Arg(1))
	}
	if err != nil {
		return nil, err
	}

	name := firstNonEmpty(config.InputFormat, DefaultFormat)
	codec, ok := codecs.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown input format %q", name)
	}
	payload, decErr := codec.Read(data)
	if decErr != nil {
		return nil, decErr
	}
	return payload, nil
}

func applyFlags(config *util.Configuration) {
	if inputFormat != "" {
		config.InputFormat = inputFormat
	}
	if outputFormat != "" {
		config.OutputFormat = outputFormat
	}
	if logLevel != "" {
		config.LogLevel = logLevel
	}
	if logFile != "" {
		config.LogFile = logFile
	}
}

func printDiag(err error, source string) {
	if d, ok := err.(*diag.Error); ok {
		fmt.Fprintln(os.Stderr, diag.Render(d, source))
		return
	}
	fmt.Fprintln(os.Stderr, err)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func configureLogWriter(logFile string) *os.File {
	var logWriter *os.File
	var err error
	if logFile != "" {
		// Create parent directories if they don't exist
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log directory for '%s': %v; falling back to stderr\n", logFile, err)
			return os.Stderr
		}
		logWriter, err = os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file '%s': %v; falling back to stderr\n", logFile, err)
			logWriter = os.Stderr
		}
	} else {
		logWriter = os.Stderr
	}
	return logWriter
}

func printVersion() {
	fmt.Printf("weft version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: weft [options] script.weft [input-file]

Options:
  -input <format>    Input format: json, csv, xml. Default is 'json'.
  -output <format>   Output format: json, csv, xml. Default comes from the
                     script's output directive, else 'json'.
  -config <path>     Configuration file path. Default is 'weft.toml'.
  -help              Display this help information and exit.
  -version           Display version information and exit.
  -log-level <level> Set the log level: debug, info, warn, error. Default is 'error'.
  -log-file <path>   Specify a log file to write logs. Default is stderr.

Details:
This is the weft data transformation language.

The input file provides the script's payload; pass '-' to read it from
stdin. Without an input file the payload is null.

Examples:
  weft transform.weft input.json       Transform input.json
  cat input.json | weft transform.weft -
  weft -output=csv transform.weft input.json

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}

func logLevelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelError
	}
}
