package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tucha-cloud/tucha/internal/backend"
	"github.com/tucha-cloud/tucha/internal/client"
	"github.com/tucha-cloud/tucha/internal/config"
	"github.com/tucha-cloud/tucha/internal/constants"
	"github.com/tucha-cloud/tucha/internal/core"
	"github.com/tucha-cloud/tucha/internal/events"
	"github.com/tucha-cloud/tucha/internal/logging"
	"github.com/tucha-cloud/tucha/internal/progress"
	"github.com/tucha-cloud/tucha/internal/session"
	"github.com/tucha-cloud/tucha/internal/telegram"
)

var (
	errNoCredentials = errors.New("application credentials are not configured; run 'tucha config set-credentials'")
	errNoAccounts    = errors.New("no signed-in accounts; run 'tucha login'")
)

// app is the engine of one command invocation plus the loop that drives it.
type app struct {
	configPath string
	logger     *logging.Logger
	bus        *events.EventBus
	engine     *core.Engine
	status     progress.Reporter
	interval   time.Duration
}

// newApp wires the engine to the Telegram dialer and the data directory.
func newApp() *app {
	dir := config.DataDirectory(dataDir)
	configPath := config.ConfigPath(dir)
	log := GetLogger()

	dialer := telegram.NewDialer(log.Component("telegram"), log.ProtocolLogger(debug))
	if raw, err := config.ResolveProxy(proxyURL, configPath); err != nil {
		log.Warn().Err(err).Msg("Ignoring proxy setting")
	} else if raw != "" {
		if err := dialer.UseProxy(raw); err != nil {
			log.Warn().Err(err).Msg("Ignoring proxy setting")
		}
	}

	env := client.Environment{
		Dialer:   dialer,
		Sessions: session.NewStore(config.SessionsDirectory(dir)),
		Credentials: func() (backend.Credentials, error) {
			return resolveCredentials(configPath)
		},
		StoreCredentials: func(c backend.Credentials) error {
			return config.StoreAppCredentials(configPath, config.AppCredentials{APIID: c.APIID, APIHash: c.APIHash})
		},
		DownloadDir: func() (string, error) {
			cfg, err := config.LoadAppConfig(configPath)
			if err != nil {
				return "", err
			}
			return config.DownloadDirectory(cfg)
		},
		Logger: log.Component("client"),
	}

	var status progress.Reporter = progress.NewStderrStatus()
	if quiet {
		status = progress.NoOpProgress{}
	}
	return newAppWithEnv(env, configPath, log, status)
}

func newAppWithEnv(env client.Environment, configPath string, log *logging.Logger, status progress.Reporter) *app {
	bus := events.NewEventBus(constants.EventBusDefaultBuffer)
	a := &app{
		configPath: configPath,
		logger:     log,
		bus:        bus,
		status:     status,
		interval:   constants.TickInterval,
	}
	a.engine = core.NewEngine(env,
		core.WithEventBus(bus),
		core.WithLogger(log.Component("engine")),
	)
	watchEvents(bus, log.Component("events"))
	return a
}

func resolveCredentials(configPath string) (backend.Credentials, error) {
	resolved, err := config.ResolveCredentials(apiID, apiHash, configPath)
	if err != nil {
		return backend.Credentials{}, err
	}
	return backend.Credentials{APIID: resolved.APIID, APIHash: resolved.APIHash}, nil
}

// close releases every connection and stops event delivery.
func (a *app) close() {
	a.engine.Shutdown()
	a.bus.Close()
}

// run dispatches req and drives the engine until it settles.
func (a *app) run(ctx context.Context, req core.Request) error {
	a.engine.Start(req)
	return a.wait(ctx)
}

// wait ticks the engine until no operation is running and no outcome is
// pending, following chained operations. It returns the final error state.
func (a *app) wait(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	defer a.status.Finish()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		applied := a.engine.Tick()
		state := a.engine.State()
		a.status.Show(state)
		if !applied && !state.IsRunning() {
			if perr := state.Err(); perr != nil {
				return perr
			}
			return nil
		}
	}
}

// connect boots the engine, connects the saved sessions and selects the
// --account if one was given. The current account's tree is listed.
func (a *app) connect(ctx context.Context) error {
	a.engine.Boot()
	if a.engine.View() == core.ViewCredentials {
		return errNoCredentials
	}
	if err := a.wait(ctx); err != nil {
		return err
	}
	if len(a.engine.Accounts()) == 0 {
		return errNoAccounts
	}
	if account != "" && account != a.engine.CurrentAccount() {
		if err := a.engine.SwitchAccount(account); err != nil {
			return fmt.Errorf("%w (connected: %v)", err, a.engine.Accounts())
		}
		return a.wait(ctx)
	}
	return nil
}

// watchEvents logs engine events at debug level until the bus is closed.
func watchEvents(bus *events.EventBus, log *logging.Logger) {
	ch := bus.SubscribeAll()
	go func() {
		for event := range ch {
			switch e := event.(type) {
			case *events.ProcessStateEvent:
				log.Debug().Str("task", e.TaskID).Stringer("from", e.Old).Stringer("to", e.New).Msg("Process state")
			case *events.TreeRefreshedEvent:
				log.Debug().Str("account", e.Account).Int("files", e.Files).Msg("Tree refreshed")
			case *events.AccountsChangedEvent:
				log.Debug().Strs("accounts", e.Accounts).Str("current", e.Current).Msg("Accounts changed")
			case *events.ViewChangedEvent:
				log.Debug().Str("view", e.View).Msg("View changed")
			}
		}
	}()
}
