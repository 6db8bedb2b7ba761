package core

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/tucha-cloud/tucha/internal/backend"
	"github.com/tucha-cloud/tucha/internal/process"
	"github.com/tucha-cloud/tucha/internal/tree"
)

// Tick applies at most one pending outcome. It never blocks and reports
// whether an outcome was applied.
func (e *Engine) Tick() bool {
	select {
	case env := <-e.results:
		env.outcome.accept(&integrator{e: e, taskID: env.taskID})
		return true
	default:
		return false
	}
}

// integrator applies one outcome to the engine state. Chained requests
// re-enter Start and may fail synchronously like any other dispatch.
type integrator struct {
	e      *Engine
	taskID string
}

func (in *integrator) log() *zerolog.Logger {
	l := in.e.logger.With().Str("task", in.taskID).Logger()
	return &l
}

func (in *integrator) idle() {
	in.e.setState(process.Idle(), in.taskID)
}

func (in *integrator) savedClientsConnected(o SavedClientsConnected) {
	e := in.e
	in.idle()
	if len(o.Clients) == 0 {
		in.log().Info().Msg("No saved sessions")
		return
	}
	for name, old := range e.clients {
		if cur, ok := o.Clients[name]; ok && cur.Conn() == old.Conn() {
			continue
		}
		if err := old.Close(); err != nil {
			in.log().Warn().Str("account", name).Err(err).Msg("Close failed")
		}
	}
	e.clients = o.Clients
	e.trees = make(map[string]*tree.Dir)
	accounts := e.Accounts()
	in.log().Info().Strs("accounts", accounts).Msg("Connected saved sessions")
	e.selectAccount(accounts[0])
	e.Start(ListObjects{})
}

func (in *integrator) loginCodeSent(o LoginCodeSent) {
	e := in.e
	in.idle()
	token, partial := o.Token, o.Partial
	if e.partial != nil && e.partial.Conn() != partial.Conn() {
		if err := e.partial.Close(); err != nil {
			in.log().Warn().Err(err).Msg("Close of previous login failed")
		}
	}
	e.token = &token
	e.passwordToken = nil
	e.partial = &partial
	e.codeReceived = true
	in.log().Info().Msg("Login code sent")
}

func (in *integrator) signedIn(o SignedIn) {
	e := in.e
	in.idle()
	e.clients[o.Username] = o.Client
	e.partial = nil
	e.token = nil
	e.passwordToken = nil
	e.codeReceived = false
	e.selectAccount(o.Username)
	e.SetView(ViewCloud)
	in.log().Info().Str("account", o.Username).Msg("Signed in")
}

func (in *integrator) filesUploaded(FilesUploaded) {
	in.idle()
	in.e.Start(ListObjects{})
}

func (in *integrator) objectsListed(o ObjectsListed) {
	e := in.e
	in.idle()
	root := tree.Build(o.Files)
	e.trees[o.Owner] = root
	if o.Owner == e.current {
		if _, ok := tree.FindDirectoryByRelativePath(root, e.cwd); !ok {
			e.cwd = tree.PathOf()
		}
	}
	in.log().Debug().Str("account", o.Owner).Int("files", len(o.Files)).Msg("Tree rebuilt")
	if e.bus != nil {
		e.bus.PublishTreeRefreshed(o.Owner, len(o.Files))
	}
}

func (in *integrator) filesDownloaded(o FilesDownloaded) {
	in.idle()
	in.e.downloaded = o.Paths
}

func (in *integrator) filesDeleted(FilesDeleted) {
	in.idle()
	in.e.Start(ListObjects{})
}

func (in *integrator) appCredentialsStored(AppCredentialsStored) {
	in.idle()
	in.e.SetView(ViewCloud)
	in.e.Start(ConnectAllSaved{})
}

func (in *integrator) failed(o Failed) {
	in.log().Error().Str("group", string(o.Err.Code.Group())).Str("error", o.Err.Detail()).Msg(o.Err.Error())
	var pending *backend.PasswordRequiredError
	if errors.As(o.Err, &pending) && in.e.partial != nil {
		pt := pending.Token
		in.e.passwordToken = &pt
	}
	in.e.setState(process.Failed(o.Err), in.taskID)
}
