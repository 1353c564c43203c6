package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"docgrip/internal/client"
	"docgrip/internal/config"
	"docgrip/internal/eventbus"
	"docgrip/internal/history"
	"docgrip/internal/logging"
	"docgrip/internal/searcher"
	"docgrip/internal/ui"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	os.Exit(run())
}

// run does the work of main and returns the exit code, so deferred cleanup
// runs before the process exits
func run() int {
	var (
		serverURL   string
		configPath  string
		query       string
		showVersion bool
	)
	flag.StringVar(&serverURL, "server", "", "Search server base URL (overrides config)")
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&query, "q", "", "Run a single search, print the results and exit")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println("docgrip", version)
		return 0
	}

	// -q "" is a valid one-shot search, so look at whether the flag was given
	oneShot := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "q" {
			oneShot = true
		}
	})

	if err := config.LoadEnvFile(""); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	configSvc := config.NewConfigService(configPath)
	cfg, firstRun := loadConfig(configSvc)
	config.ApplyEnv(cfg)
	if serverURL != "" {
		cfg.Server.URL = serverURL
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 2
	}

	// One-shot output owns stdout, so logs fall back to stderr there
	logOpts := logging.Options{Level: cfg.Log.Level, File: cfg.Log.File}
	if oneShot {
		logOpts.Fallback = os.Stderr
	} else {
		logOpts.Fallback = io.Discard
	}
	log, logCloser := logging.Setup(logOpts)
	defer logCloser.Close()

	log.Info().
		Str("version", version).
		Str("config", configSvc.Path()).
		Str("server", cfg.Server.URL).
		Msg("Starting docgrip")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	searchClient, err := client.New(client.Options{
		BaseURL:    cfg.Server.URL,
		Endpoint:   cfg.Server.Endpoint,
		Timeout:    cfg.Search.Timeout.Duration,
		BodyFormat: cfg.Search.BodyFormat,
		UserAgent:  "docgrip/" + version,
		Logger:     log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating search client: %v\n", err)
		return 2
	}

	mode, err := searcher.ParseMode(cfg.Search.Serialize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 2
	}
	opts := searcher.Options{
		Serialize:    mode,
		DiscardStale: cfg.Search.DiscardStale,
		CancelStale:  cfg.Search.CancelStale,
		Timeout:      cfg.Search.Timeout.Duration,
		Logger:       log,
	}

	if oneShot {
		return runOneShot(ctx, searchClient, query, opts, cfg.UISettings.ShowRank)
	}

	if err := runTUI(ctx, cfg, configSvc.Path(), firstRun, searchClient, opts, log); err != nil {
		log.Error().Err(err).Msg("Error running program")
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		return 1
	}
	log.Info().Msg("UI exited normally")
	return 0
}

// runOneShot runs query once, printing paths to stdout, and returns the exit code
func runOneShot(ctx context.Context, s searcher.Searcher, query string, opts searcher.Options, showRank bool) int {
	sink := &searcher.WriterSink{Out: os.Stdout, Err: os.Stderr, ShowRank: showRank}
	if _, err := searcher.RunOnce(ctx, s, sink, query, opts); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "search interrupted")
		}
		return 1
	}
	return 0
}

func runTUI(ctx context.Context, cfg *config.Config, configPath string, firstRun bool, s searcher.Searcher, opts searcher.Options, log zerolog.Logger) error {
	// Create event bus
	bus := eventbus.New(log)

	var (
		store      *history.Store
		recorder   *history.Recorder
		controller *searcher.Controller
		unsubs     []func()
	)
	// Stop the producers first, then the bus, and close the store last so no
	// history write can land on a closed database
	defer func() {
		if controller != nil {
			controller.Close()
		}
		if recorder != nil {
			recorder.Close()
		}
		for _, unsubscribe := range unsubs {
			unsubscribe()
		}
		bus.Close()
		if store != nil {
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close query history")
			}
		}
	}()

	// Set up event forwarding to UI. Events published before the program
	// runs wait in the channel.
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			// Channel full, drop event
			log.Warn().Str("event", string(e.Type())).Msg("Event channel full, dropping event")
		}
	}
	for _, t := range []eventbus.EventType{
		eventbus.EventSearchSubmitted,
		eventbus.EventSearchCompleted,
		eventbus.EventSearchFailed,
		eventbus.EventSearchDiscarded,
		eventbus.EventError,
		eventbus.EventConfigLoaded,
		eventbus.EventConfigSaved,
	} {
		unsubs = append(unsubs, bus.Subscribe(t, forward))
	}

	// First run writes the defaults out; the status line reports either the
	// new file or the one that was read
	configSvc := config.NewConfigServiceWithBus(configPath, bus)
	if firstRun {
		if err := configSvc.Save(config.DefaultConfig()); err != nil {
			log.Warn().Err(err).Str("path", configPath).Msg("Failed to write default config")
			bus.Publish(eventbus.ErrorEvent{Message: "could not write default config", Err: err})
		}
	} else {
		bus.Publish(eventbus.ConfigLoadedEvent{Path: configPath, ServerURL: cfg.Server.URL})
	}

	// Query history is optional; failures are reported and the UI runs without it
	var recent []string
	if cfg.History.Enabled {
		var err error
		store, err = history.Open(cfg.HistoryPath())
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.HistoryPath()).Msg("Query history unavailable")
			bus.Publish(eventbus.ErrorEvent{Message: "query history unavailable", Err: err})
		} else {
			recorder = history.NewRecorder(store, bus, cfg.UISettings.HistorySize, log)
			recent, err = store.Recent(ctx, cfg.UISettings.HistorySize)
			if err != nil {
				log.Warn().Err(err).Msg("Failed to load query history")
			}
		}
	}

	// Create UI model
	uiModel := ui.NewModel(cfg, bus, log, recent)

	// Create Bubble Tea program
	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithContext(ctx))
	uiModel.SetProgram(p)

	opts.Bus = bus
	controller = searcher.New(s, ui.NewProgramSink(p), opts)
	uiModel.SetSubmitter(controller)

	forwardCtx, stopForward := context.WithCancel(ctx)
	defer stopForward()
	go func() {
		for {
			select {
			case e := <-eventChan:
				p.Send(ui.EventMsg{Event: e})
			case <-forwardCtx.Done():
				return
			}
		}
	}()

	if os.Getenv("DOCGRIP_E2E_TEST") == "1" {
		fmt.Fprintln(os.Stderr, "__READY__")
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// loadConfig reads the config file. A missing file yields the defaults and
// reports a first run; an unreadable one yields the defaults with a warning.
func loadConfig(configSvc config.ConfigService) (*config.Config, bool) {
	cfg, err := configSvc.LoadFromPath(configSvc.Path())
	if err == nil {
		return cfg, false
	}
	if errors.Is(err, config.ErrConfigNotFound) {
		return config.DefaultConfig(), true
	}
	fmt.Fprintf(os.Stderr, "Warning: %v; using defaults\n", err)
	return config.DefaultConfig(), false
}
