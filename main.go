package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"homeboard/internal/api"
	"homeboard/internal/config"
	"homeboard/internal/eventbus"
	"homeboard/internal/roster"
	"homeboard/internal/ui"
)

// options are the command line settings; empty values leave the config untouched
type options struct {
	configPath   string
	apiURL       string
	studentsFile string
	debounce     time.Duration
	sort         string
	logFile      string
	writeConfig  bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var opts options

	flagSet := pflag.NewFlagSet("homeboard", pflag.ContinueOnError)
	flagSet.StringVar(&opts.configPath, "config", "", "path to config file (default: $XDG_CONFIG_HOME/homeboard/config.toml)")
	flagSet.StringVar(&opts.apiURL, "api-url", "", "base URL of the attendance API")
	flagSet.StringVar(&opts.studentsFile, "students-file", "", "read the roster from a JSON or YAML file instead of the API")
	flagSet.DurationVar(&opts.debounce, "debounce", 0, "search quiet period (e.g. 300ms)")
	flagSet.StringVar(&opts.sort, "sort", "", "initial sort: first_name or last_name")
	flagSet.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	flagSet.BoolVar(&opts.writeConfig, "write-config", false, "save the effective settings to the config file and exit")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	// Create event bus
	bus := eventbus.New()
	defer bus.Close()

	configSvc := config.NewConfigServiceWithBus(bus, opts.configPath)
	cfg, err := configSvc.Load()
	if err != nil {
		return err
	}
	if err := applyFlags(cfg, flagSet, opts); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if opts.writeConfig {
		if err := configSvc.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("Config written to %s\n", configSvc.Path())
		return nil
	}

	// Set up logging; the TUI owns the terminal
	if cfg.LogFile != "" {
		logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			log.Printf("Could not open log file: %v", err)
		} else {
			defer logFile.Close()
			log.SetOutput(logFile)
		}
	}
	log.Printf("Using config %s", configSvc.Path())

	fetcher, err := newFetcher(cfg)
	if err != nil {
		return err
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loader := api.NewLoader(fetcher, bus)
	ctrl := roster.NewController(loader,
		roster.WithDebounce(cfg.Debounce()),
		roster.WithEventBus(bus),
		roster.WithDefaultSort(cfg.SortKey()),
	)
	defer ctrl.Close()

	model := ui.NewModel(ctx, ctrl, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	model.SetProgram(p)

	subscribeActivityLog(bus)

	// Forward fetch outcomes and sort changes to the UI
	forward := func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	}
	bus.Subscribe(eventbus.EventRosterLoaded, forward)
	bus.Subscribe(eventbus.EventRosterLoadFailed, forward)
	bus.Subscribe(eventbus.EventSortChanged, forward)

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
			p.Quit()
		case <-ctx.Done():
		}
	}()

	log.Printf("Starting UI...")
	if _, err := p.Run(); err != nil {
		log.Printf("Error running program: %v", err)
		return err
	}
	cancel()
	loader.Wait()
	log.Printf("UI exited normally")
	return nil
}

// applyFlags overrides config values with the flags that were given
func applyFlags(cfg *config.Config, flagSet *pflag.FlagSet, opts options) error {
	if flagSet.Changed("api-url") {
		cfg.API.BaseURL = opts.apiURL
	}
	if flagSet.Changed("students-file") {
		cfg.Source.StudentsFile = opts.studentsFile
	}
	if flagSet.Changed("debounce") {
		cfg.UI.DebounceMillis = int(opts.debounce / time.Millisecond)
	}
	if flagSet.Changed("sort") {
		key, ok := roster.ParseSortKey(opts.sort)
		if !ok {
			return fmt.Errorf("invalid --sort %q: want first_name or last_name", opts.sort)
		}
		cfg.UI.DefaultSort = string(key)
	}
	if flagSet.Changed("log-file") {
		cfg.LogFile = opts.logFile
	}
	return nil
}

// newFetcher picks the roster file when one is configured, the API otherwise
func newFetcher(cfg *config.Config) (api.Fetcher, error) {
	if cfg.Source.StudentsFile != "" {
		return api.NewFileSource(cfg.Source.StudentsFile), nil
	}
	client, err := api.NewClient(cfg.API.BaseURL, api.WithTimeout(cfg.Timeout()))
	if err != nil {
		return nil, fmt.Errorf("attendance API: %w", err)
	}
	return client, nil
}

// subscribeActivityLog writes every domain event to the log
func subscribeActivityLog(bus eventbus.EventBus) {
	logEvent := func(e eventbus.DomainEvent) {
		switch event := e.(type) {
		case eventbus.RosterFetchRequestedEvent:
			log.Printf("Fetching roster from %s", event.Source)
		case eventbus.RosterLoadedEvent:
			log.Printf("Roster loaded: %d students", event.Count)
		case eventbus.RosterLoadFailedEvent:
			log.Printf("Roster load failed: %v", event.Err)
		case eventbus.RollModeChangedEvent:
			log.Printf("Roll mode active: %t", event.Active)
		case eventbus.SortChangedEvent:
			log.Printf("Sort changed from %s to %s", event.OldKey, event.NewKey)
		case eventbus.SearchSettledEvent:
			log.Printf("Search settled on %q", event.Query)
		}
	}
	for _, t := range []eventbus.EventType{
		eventbus.EventRosterFetchRequested,
		eventbus.EventRosterLoaded,
		eventbus.EventRosterLoadFailed,
		eventbus.EventRollModeChanged,
		eventbus.EventSortChanged,
		eventbus.EventSearchSettled,
	} {
		bus.Subscribe(t, logEvent)
	}
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `homeboard shows the class roster for taking roll.

The roster is fetched from the attendance API (GET /get-homeboard-students)
or read from a local JSON or YAML file with --students-file. Flags override
the config file.

Usage:
  homeboard [flags]

Flags:
%s`, flagSet.FlagUsages())
}
