package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/afero"

	"github.com/wandb/wandb/chartsync/internal/chartconfig"
	"github.com/wandb/wandb/chartsync/internal/datasource"
	"github.com/wandb/wandb/chartsync/internal/linked"
	"github.com/wandb/wandb/chartsync/internal/observability"
	"github.com/wandb/wandb/chartsync/internal/render"
	"github.com/wandb/wandb/chartsync/internal/sentryext"
	"github.com/wandb/wandb/chartsync/internal/tui"
	"github.com/wandb/wandb/chartsync/internal/version"
	"github.com/wandb/wandb/chartsync/internal/watcher"
)

func main() {
	exitCode := mainWithExitCode()
	os.Exit(exitCode)
}

func mainWithExitCode() int {
	debugLog := flag.String("debug-log", "",
		"Writes debug logs to the given file.")
	metricsDump := flag.String("metrics-dump", "",
		"Writes link propagation counters to the given file on exit, in the Prometheus text format.")
	eventsPath := flag.String("events", "",
		"Appends click, hover, window and brush events to the given file as JSON lines.")
	noColor := flag.Bool("no-color", false,
		"Draws charts without colors.")
	noWatch := flag.Bool("no-watch", false,
		"Disables reloading when the config or a data file changes.")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "wandb-chartsync - linked charts in the terminal\n\n")
		fmt.Fprintf(os.Stderr, "Version: %s\n\n", version.Version)
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  wandb-chartsync [flags] <config.yaml>\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  WANDB_DEBUG           Enable debug logging (creates wandb-chartsync.debug.log)\n")
		fmt.Fprintf(os.Stderr, "  WANDB_ERROR_REPORTING Set to false to disable error reporting\n")
		fmt.Fprintf(os.Stderr, "  WANDB_SENTRY_DSN      Sentry DSN errors are reported to\n")
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return 1
	}
	configPath := flag.Arg(0)
	session := uuid.NewString()

	// Sentry reporting.
	enableErrorReporting := true
	if os.Getenv("WANDB_ERROR_REPORTING") != "" {
		enableErrorReporting, _ = strconv.ParseBool(os.Getenv("WANDB_ERROR_REPORTING"))
	}

	sentryClient := sentryext.New(sentryext.Params{
		DSN:              os.Getenv("WANDB_SENTRY_DSN"),
		Disabled:         !enableErrorReporting,
		AttachStacktrace: true,
		Release:          version.Version,
		Environment:      version.Environment,
	})
	defer sentryClient.Flush(2 * time.Second)

	// WANDB_DEBUG enables debug logging without naming a file.
	if *debugLog == "" && os.Getenv("WANDB_DEBUG") != "" {
		*debugLog = "wandb-chartsync.debug.log"
	}

	var writer io.Writer = io.Discard
	if *debugLog != "" {
		loggerFile, err := os.OpenFile(*debugLog, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			fmt.Println("fatal:", err)
			return 1
		}
		writer = loggerFile
		defer func() {
			_ = loggerFile.Close()
		}()
	}

	logger := observability.NewCoreLogger(
		slog.New(slog.NewJSONHandler(
			writer,
			&slog.HandlerOptions{
				Level: slog.LevelDebug,
			},
		)),
		&observability.CoreLoggerParams{
			Tags:   observability.Tags{"session": session},
			Sentry: sentryClient,
		},
	)

	defer logger.Reraise()

	var events io.Writer
	if *eventsPath != "" {
		eventsFile, err := os.OpenFile(*eventsPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		events = eventsFile
		defer func() {
			_ = eventsFile.Close()
		}()
	}

	fs := afero.NewOsFs()

	var program atomic.Pointer[tea.Program]
	managerParams := chartconfig.ManagerParams{
		Fs:     fs,
		Path:   configPath,
		Logger: logger,
		OnReload: func(cfg *chartconfig.Config) {
			if p := program.Load(); p != nil {
				p.Send(tui.ReloadMsg{Config: cfg})
			}
		},
	}
	if !*noWatch {
		managerParams.Watcher = watcher.New(watcher.Params{Logger: logger})
	}
	manager, err := chartconfig.NewManager(managerParams)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer manager.Close()

	loader, err := datasource.NewLoader(datasource.LoaderParams{Fs: fs, Logger: logger})
	if err != nil {
		logger.CaptureError(err)
		return 1
	}

	registry := prometheus.NewRegistry()
	metrics := linked.NewMetrics(registry)
	if *metricsDump != "" {
		defer dumpMetrics(registry, *metricsDump, logger)
	}

	profile := termenv.ColorProfile()
	if *noColor {
		profile = termenv.Ascii
	}

	model := tui.NewModel(tui.Params{
		Config:   manager.Config(),
		Reload:   manager.Reload,
		Load:     loader.LoadAll,
		Renderer: render.New(render.NewTheme(os.Stdout, profile)),
		Metrics:  metrics,
		Logger:   logger,
		Events:   events,
		Session:  session,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	program.Store(p)

	if err := manager.Watch(); err != nil {
		logger.CaptureError(err)
	}

	if _, err := p.Run(); err != nil {
		logger.Error(fmt.Sprintf("chartsync: %v", err))
		return 1
	}

	return 0
}

// dumpMetrics writes every metric in reg to path.
func dumpMetrics(reg *prometheus.Registry, path string, logger *observability.CoreLogger) {
	families, err := reg.Gather()
	if err != nil {
		logger.CaptureError(err)
		return
	}

	file, err := os.Create(path)
	if err != nil {
		logger.CaptureError(err)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(file, mf); err != nil {
			logger.CaptureError(err)
			return
		}
	}
}
