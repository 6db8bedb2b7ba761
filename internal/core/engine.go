// Package core owns the authoritative application state and moves it forward.
//
// Front ends call Start with a Request. Start checks the preconditions, sets the
// process state to Running and launches the operation on its own goroutine.
// The goroutine only sees cloned inputs and reports a single Outcome on a
// channel. Tick, called once per redraw, applies at most one pending Outcome.
// Engine methods must be called from one goroutine.
package core

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tucha-cloud/tucha/internal/backend"
	"github.com/tucha-cloud/tucha/internal/client"
	"github.com/tucha-cloud/tucha/internal/constants"
	"github.com/tucha-cloud/tucha/internal/events"
	"github.com/tucha-cloud/tucha/internal/logging"
	"github.com/tucha-cloud/tucha/internal/process"
	"github.com/tucha-cloud/tucha/internal/tree"
)

// View is the active screen.
type View string

const (
	ViewCredentials View = "credentials"
	ViewNewSession  View = "new-session"
	ViewCloud       View = "cloud"
)

// ErrUnknownAccount is returned by SwitchAccount for an account that is not connected.
var ErrUnknownAccount = errors.New("account is not connected")

// ErrNoSuchDirectory is returned by ChangeDirectory for a path missing from the tree.
var ErrNoSuchDirectory = errors.New("no such directory")

// envelope is what background work sends to the engine.
type envelope struct {
	taskID  string
	outcome Outcome
}

// Engine is the single owner of the application state.
type Engine struct {
	env    client.Environment
	bus    *events.EventBus
	logger *logging.Logger

	results chan envelope
	spawn   func(func())
	newID   func() string

	state   process.State
	task    string // id of the most recent dispatch
	view    View
	clients map[string]client.Client
	current string

	partial       *client.Client
	token         *backend.LoginToken
	passwordToken *backend.PasswordToken // set once the code was accepted
	codeReceived  bool

	trees      map[string]*tree.Dir
	cwd        tree.Path
	downloaded []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithSpawner replaces the goroutine launcher. Tests use it to count or
// serialize background work.
func WithSpawner(spawn func(func())) Option {
	return func(e *Engine) { e.spawn = spawn }
}

// WithEventBus publishes state transitions on bus.
func WithEventBus(bus *events.EventBus) Option {
	return func(e *Engine) { e.bus = bus }
}

// WithLogger sets the engine logger.
func WithLogger(logger *logging.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithOutcomeBuffer sets the outcome channel capacity.
func WithOutcomeBuffer(n int) Option {
	return func(e *Engine) { e.results = make(chan envelope, n) }
}

// NewEngine creates an idle engine showing the credentials view.
func NewEngine(env client.Environment, opts ...Option) *Engine {
	e := &Engine{
		env:     env,
		results: make(chan envelope, constants.OutcomeBuffer),
		spawn:   func(f func()) { go f() },
		newID:   newTaskID,
		state:   process.Idle(),
		view:    ViewCredentials,
		clients: make(map[string]client.Client),
		trees:   make(map[string]*tree.Dir),
		cwd:     tree.PathOf(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNopLogger()
	}
	if e.env.Logger == nil {
		e.env.Logger = e.logger
	}
	return e
}

// Events returns the event bus, or nil.
func (e *Engine) Events() *events.EventBus { return e.bus }

// State returns the process state.
func (e *Engine) State() process.State { return e.state }

// View returns the active view.
func (e *Engine) View() View { return e.view }

// SetView switches the active view.
func (e *Engine) SetView(v View) {
	if e.view == v {
		return
	}
	e.view = v
	if e.bus != nil {
		e.bus.PublishViewChanged(string(v))
	}
}

// Accounts returns the connected usernames, sorted.
func (e *Engine) Accounts() []string {
	names := make([]string, 0, len(e.clients))
	for name := range e.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CurrentAccount returns the selected username, or "".
func (e *Engine) CurrentAccount() string { return e.current }

// CodeReceived reports whether a login code was sent and sign-in is pending.
func (e *Engine) CodeReceived() bool { return e.codeReceived }

// LastDownloaded returns the local paths of the last completed download.
func (e *Engine) LastDownloaded() []string { return e.downloaded }

// Tree returns the last listed tree of an account.
func (e *Engine) Tree(account string) (*tree.Dir, bool) {
	root, ok := e.trees[account]
	return root, ok
}

// CurrentPath returns the browsing folder of the current account.
func (e *Engine) CurrentPath() tree.Path { return e.cwd }

// CurrentDirectory resolves the browsing folder in the current account's tree.
func (e *Engine) CurrentDirectory() (*tree.Dir, bool) {
	root, ok := e.trees[e.current]
	if !ok {
		return nil, false
	}
	return tree.FindDirectoryByRelativePath(root, e.cwd)
}

// Boot picks the first view. With usable credentials it shows the cloud view
// and connects the saved sessions; otherwise it asks for credentials.
func (e *Engine) Boot() {
	if e.env.Credentials == nil {
		e.SetView(ViewCredentials)
		return
	}
	if _, err := e.env.Credentials(); err != nil {
		e.logger.Info().Err(err).Msg("No usable application credentials")
		e.SetView(ViewCredentials)
		return
	}
	e.SetView(ViewCloud)
	e.Start(ConnectAllSaved{})
}

// SwitchAccount selects another connected account and refreshes its tree.
func (e *Engine) SwitchAccount(username string) error {
	if _, ok := e.clients[username]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAccount, username)
	}
	e.selectAccount(username)
	e.Start(ListObjects{})
	return nil
}

// RestartClients closes every connection, forgets all accounts and trees, and
// connects the saved sessions again.
func (e *Engine) RestartClients() {
	for name, c := range e.clients {
		if err := c.Close(); err != nil {
			e.logger.Warn().Str("account", name).Err(err).Msg("Close failed")
		}
	}
	e.clients = make(map[string]client.Client)
	e.trees = make(map[string]*tree.Dir)
	e.current = ""
	e.cwd = tree.PathOf()
	e.publishAccounts()
	e.Start(ConnectAllSaved{})
}

// Shutdown closes every connection, including the one of a pending login.
// Outcomes still in flight are not awaited.
func (e *Engine) Shutdown() {
	for name, c := range e.clients {
		if err := c.Close(); err != nil {
			e.logger.Warn().Str("account", name).Err(err).Msg("Close failed")
		}
	}
	if e.partial != nil {
		if err := e.partial.Close(); err != nil {
			e.logger.Warn().Err(err).Msg("Close of pending login failed")
		}
	}
	e.clients = make(map[string]client.Client)
	e.current = ""
	e.partial = nil
	e.token = nil
	e.passwordToken = nil
	e.codeReceived = false
}

// ChangeDirectory moves the browsing folder. raw is absolute when it starts
// with "/", otherwise relative to the current folder; ".." goes up.
func (e *Engine) ChangeDirectory(raw string) error {
	root, ok := e.trees[e.current]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchDirectory, raw)
	}
	target := ResolvePath(e.cwd, raw)
	if _, ok := tree.FindDirectoryByRelativePath(root, target); !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchDirectory, target)
	}
	e.cwd = target
	return nil
}

// DirectoryMessageIDs returns the ids of the files directly inside a folder
// of the current account's tree. Sub-folders are not included.
func (e *Engine) DirectoryMessageIDs(raw string) ([]int, error) {
	root, ok := e.trees[e.current]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchDirectory, raw)
	}
	target := ResolvePath(e.cwd, raw)
	dir, ok := tree.FindDirectoryByRelativePath(root, target)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchDirectory, target)
	}
	return tree.FileMessageIDs(dir), nil
}

// ResolvePath applies raw to base the way a shell cd would.
func ResolvePath(base tree.Path, raw string) tree.Path {
	out := base
	if len(raw) > 0 && raw[0] == '/' {
		out = tree.PathOf()
	}
	for _, component := range tree.NewPath(raw).Components() {
		switch component {
		case ".":
		case "..":
			out = out.Pop()
		default:
			out = out.Join(component)
		}
	}
	return out
}

// DismissError clears an error state.
func (e *Engine) DismissError() {
	if e.state.IsError() {
		e.setState(process.Idle(), e.task)
	}
}

func (e *Engine) selectAccount(username string) {
	e.current = username
	e.cwd = tree.PathOf()
	e.publishAccounts()
}

func (e *Engine) setState(s process.State, taskID string) {
	old := e.state
	e.state = s
	if e.bus != nil {
		e.bus.PublishProcessState(old, s, taskID)
	}
}

func (e *Engine) publishAccounts() {
	if e.bus != nil {
		e.bus.PublishAccountsChanged(e.Accounts(), e.current)
	}
}

// currentClient returns a copy of the selected client handle.
func (e *Engine) currentClient() (client.Client, bool) {
	if e.current == "" {
		return client.Client{}, false
	}
	c, ok := e.clients[e.current]
	return c, ok
}
