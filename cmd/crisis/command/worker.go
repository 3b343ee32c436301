package command

import (
	"fmt"
	"log/slog"
	"os"

	service "github.com/pixil98/go-service"

	"github.com/pixil98/go-crisis/internal/account"
	"github.com/pixil98/go-crisis/internal/arena"
	"github.com/pixil98/go-crisis/internal/driver"
	"github.com/pixil98/go-crisis/internal/ui"
)

// Workers returns the worker builder for the client. quit is called when
// the user exits the terminal UI.
func Workers(quit func()) func(config interface{}) (service.WorkerList, error) {
	return func(config interface{}) (service.WorkerList, error) {
		cfg, ok := config.(*Config)
		if !ok {
			return nil, fmt.Errorf("unable to cast config")
		}
		return buildWorkers(cfg, quit)
	}
}

func buildWorkers(cfg *Config, quit func()) (service.WorkerList, error) {
	// The terminal belongs to the UI, so logs go to a file.
	err := setupLogging(cfg.LogFile)
	if err != nil {
		return nil, err
	}

	client, err := cfg.Server.BuildAPIClient()
	if err != nil {
		return nil, err
	}

	socket, err := cfg.Server.BuildSocket()
	if err != nil {
		return nil, err
	}

	store, err := cfg.Storage.BuildProfileStore()
	if err != nil {
		return nil, fmt.Errorf("creating profile store: %w", err)
	}
	accounts := account.NewManager(client, store)

	var app *ui.App
	board := arena.NewBoard(client, arena.WithUpdateHandler(func(v arena.View) {
		if app != nil {
			app.ArenaUpdated(v)
		}
	}))

	workers := service.WorkerList{
		"driver": driver.NewDriver([]driver.Manager{board},
			driver.WithTickLength(cfg.Lobby.refreshInterval())),
	}

	toast, err := parseDuration("toast_duration", cfg.ToastDuration, ui.DefaultToastDuration)
	if err != nil {
		return nil, err
	}

	opts := []ui.AppOpt{
		ui.WithToastDuration(toast),
		ui.WithBoard(board),
		ui.WithTiming(cfg.Session.timing()),
		ui.WithTickInterval(cfg.Session.tickInterval()),
		ui.WithQuit(quit),
	}

	if cfg.Relay.Enabled {
		url := cfg.Relay.URL
		if cfg.Relay.Embedded != nil {
			ns, err := cfg.Relay.Embedded.buildNatsServer()
			if err != nil {
				return nil, fmt.Errorf("creating nats server: %w", err)
			}
			workers["nats"] = ns
			if url == "" {
				url = ns.ClientURL()
			}
		}

		relay := cfg.Relay.BuildRelay(url)
		workers["relay"] = relay
		opts = append(opts, ui.WithRelay(relay))
	}

	app = ui.NewApp(accounts, client, socket, opts...)
	workers["ui"] = app

	return workers, nil
}

func setupLogging(path string) error {
	if path == "" {
		path = DefaultLogFile
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(f, nil)))
	return nil
}
