package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/five82/thermo/internal/clock"
	"github.com/five82/thermo/internal/config"
	"github.com/five82/thermo/internal/connection"
	"github.com/five82/thermo/internal/history"
	"github.com/five82/thermo/internal/logging"
	"github.com/five82/thermo/internal/mqtt"
	"github.com/five82/thermo/internal/prefs"
	"github.com/five82/thermo/internal/present"
	"github.com/five82/thermo/internal/state"
	"github.com/five82/thermo/internal/thermostat"
	"github.com/five82/thermo/internal/ui"
)

// Options configure the thermo application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/thermo/prefs.toml
	PollEvery  int    // seconds; zero uses the configured fetch period
	APIURL     string // overrides api_url when set
	Headless   bool   // log events instead of starting the dashboard
}

// Run boots thermo until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg, opts)

	logPath := cfg.LogPath
	if opts.Headless {
		logPath = "" // stderr
	}
	slogger, logCloser, err := logging.New(logPath, logging.ParseLevel(cfg.LogLevel))
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logCloser.Close() }()
	logger := logging.Wrap(slogger)

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	storage, closeStorage, err := openStorage(cfg.HistoryDB)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = closeStorage.Close() }()

	client, err := thermostat.NewClient(cfg.APIURL)
	if err != nil {
		return fmt.Errorf("init thermostat client: %w", err)
	}

	store := state.NewStore(clock.Real.Now)
	presenters := present.Multi{store}
	if opts.Headless {
		presenters = append(presenters, present.NewLogger(logger))
	}
	if cfg.MQTT.Enabled() {
		broker, err := mqtt.Dial(cfg.MQTT.Broker, cfg.MQTT.ClientID)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		sink := mqtt.NewSink(broker, cfg.MQTT.Topic, mqtt.DefaultBuffer, clock.Real, logger)
		defer func() { _ = sink.Close() }()
		presenters = append(presenters, sink)
	}

	orch, err := NewOrchestrator(SyncOptions{
		Fetcher:       client,
		History:       history.New(storage, clock.Real, cfg.HistoryWindow, logger),
		Presenter:     presenters,
		Clock:         clock.Real,
		Logger:        logger,
		Policy:        cfg.RetryPolicy(),
		Rules:         cfg.Rules,
		Trend:         cfg.Trend,
		Difference:    cfg.Difference,
		Connection:    connection.Config{StaleAfter: cfg.StaleAfter, Initial: cfg.InitialState},
		FetchPeriod:   cfg.FetchPeriod,
		DisplayPeriod: cfg.DisplayPeriod,
		Range:         userPrefs.ChartRange,
		OnRangeSelected: func(key string) error {
			return prefs.Update(opts.PrefsPath, func(p *prefs.Prefs) { p.ChartRange = key })
		},
	})
	if err != nil {
		return fmt.Errorf("init sync: %w", err)
	}

	logger.Info("thermo starting",
		"api", client.BaseURL(),
		"headless", opts.Headless,
		"history_db", cfg.HistoryDB,
		"mqtt", cfg.MQTT.Enabled(),
	)

	if opts.Headless {
		return orch.Run(ctx)
	}

	runErr := make(chan error, 1)
	go func() { runErr <- orch.Run(ctx) }()

	uiErr := ui.Run(ui.Options{
		Context:      ctx,
		Store:        store,
		Controller:   orch,
		RefreshEvery: cfg.DisplayPeriod,
		ThemeName:    userPrefs.Theme,
		PrefsPath:    opts.PrefsPath,
		LogPath:      cfg.LogPath,
		Range:        userPrefs.ChartRange,
	})
	orch.Stop()
	if err := <-runErr; err != nil {
		return err
	}
	return uiErr
}

func applyOverrides(cfg *config.Config, opts Options) {
	if opts.PollEvery > 0 {
		cfg.FetchPeriod = time.Duration(opts.PollEvery) * time.Second
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
}

// openStorage returns the SQLite backend when path is set and the in-memory
// one otherwise.
func openStorage(path string) (history.Storage, io.Closer, error) {
	if path == "" {
		return history.NewMemoryStorage(), io.NopCloser(nil), nil
	}
	db, err := history.OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}
	return db, db, nil
}
