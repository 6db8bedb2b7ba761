package core

import (
	"context"

	"github.com/google/uuid"

	"github.com/tucha-cloud/tucha/internal/backend"
	"github.com/tucha-cloud/tucha/internal/client"
	"github.com/tucha-cloud/tucha/internal/process"
)

// job is a dispatch decision: either a precondition failure or the work to
// run in the background. run must only use values captured at dispatch time.
type job struct {
	run    func(ctx context.Context) Outcome
	reject *process.Error
}

func rejected(code process.Code) job {
	return job{reject: process.Fail(code)}
}

func newTaskID() string {
	return uuid.NewString()
}

// Start dispatches a request. A failed precondition queues a Failed outcome
// and spawns nothing. Otherwise the state becomes Running(kind) and the
// operation runs in the background; its outcome is applied by a later Tick.
func (e *Engine) Start(req Request) {
	id := e.newID()
	logger := e.logger.With().Str("task", id).Stringer("kind", req.Kind()).Logger()

	j := req.accept(dispatcher{e})
	if j.reject != nil {
		logger.Warn().Str("reason", j.reject.Error()).Msg("Precondition failed")
		e.post(envelope{taskID: id, outcome: Failed{Err: j.reject}})
		return
	}

	e.task = id
	e.setState(process.Running(req.Kind()), id)
	logger.Debug().Msg("Dispatched")

	results := e.results
	e.spawn(func() {
		results <- envelope{taskID: id, outcome: j.run(context.Background())}
	})
}

// post queues an outcome from the engine goroutine without blocking. When the
// buffer is full the send is handed to a goroutine.
func (e *Engine) post(env envelope) {
	select {
	case e.results <- env:
	default:
		results := e.results
		go func() { results <- env }()
	}
}

// dispatcher checks preconditions and captures copies of what each operation needs.
type dispatcher struct {
	e *Engine
}

func (d dispatcher) connectAllSaved(ConnectAllSaved) job {
	env := d.e.env
	return job{run: func(ctx context.Context) Outcome {
		clients, err := client.ConnectToSavedSessions(ctx, env)
		if err != nil {
			return failure(err, process.CannotLoadSessionFile)
		}
		return SavedClientsConnected{Clients: clients}
	}}
}

func (d dispatcher) sendLoginCode(r SendLoginCode) job {
	env := d.e.env
	phone := r.Phone
	return job{run: func(ctx context.Context) Outcome {
		token, partial, err := client.SendLoginCode(ctx, env, phone)
		if err != nil {
			return failure(err, process.LoginCodeIsNotSent)
		}
		return LoginCodeSent{Token: token, Partial: partial}
	}}
}

func (d dispatcher) signIn(r SignIn) job {
	if d.e.partial == nil {
		return rejected(process.IncompleteClientIsNone)
	}
	if d.e.token == nil {
		return rejected(process.LoginTokenIsNone)
	}
	env := d.e.env
	partial := *d.e.partial
	token := *d.e.token
	code, password := r.Code, r.Password
	if d.e.passwordToken != nil {
		pt := *d.e.passwordToken
		return job{run: func(ctx context.Context) Outcome {
			c, username, err := client.CheckPassword(ctx, env, partial, pt, password)
			if err != nil {
				return failure(err, process.OtherSignInError)
			}
			return SignedIn{Client: c, Username: username}
		}}
	}
	return job{run: func(ctx context.Context) Outcome {
		c, username, err := client.SignIn(ctx, env, partial, token, code, password)
		if err != nil {
			return failure(err, process.OtherSignInError)
		}
		return SignedIn{Client: c, Username: username}
	}}
}

func (d dispatcher) listObjects(ListObjects) job {
	c, ok := d.e.currentClient()
	if !ok {
		return rejected(process.CurrentClientIsNone)
	}
	env := d.e.env
	return job{run: func(ctx context.Context) Outcome {
		owner, files, err := client.GetUploadedFiles(ctx, env, c)
		if err != nil {
			return failure(err, process.CannotReadMessages)
		}
		return ObjectsListed{Owner: owner, Files: files}
	}}
}

func (d dispatcher) upload(r Upload) job {
	c, ok := d.e.currentClient()
	if !ok {
		return rejected(process.CurrentClientIsNone)
	}
	env := d.e.env
	paths := append([]string(nil), r.Paths...)
	dir := ResolvePath(d.e.cwd, r.Dir)
	return job{run: func(ctx context.Context) Outcome {
		if err := client.UploadFiles(ctx, env, c, paths, dir); err != nil {
			return failure(err, process.CannotUploadFile)
		}
		return FilesUploaded{}
	}}
}

func (d dispatcher) download(r Download) job {
	c, ok := d.e.currentClient()
	if !ok {
		return rejected(process.CurrentClientIsNone)
	}
	env := d.e.env
	ids := append([]int(nil), r.IDs...)
	return job{run: func(ctx context.Context) Outcome {
		paths, err := client.DownloadFiles(ctx, env, c, ids)
		if err != nil {
			return failure(err, process.CannotDownloadMedia)
		}
		return FilesDownloaded{Paths: paths}
	}}
}

func (d dispatcher) delete(r Delete) job {
	c, ok := d.e.currentClient()
	if !ok {
		return rejected(process.CurrentClientIsNone)
	}
	env := d.e.env
	ids := append([]int(nil), r.IDs...)
	return job{run: func(ctx context.Context) Outcome {
		if err := client.DeleteFiles(ctx, env, c, ids); err != nil {
			return failure(err, process.CannotDeleteFile)
		}
		return FilesDeleted{}
	}}
}

func (d dispatcher) storeAppCredentials(r StoreAppCredentials) job {
	env := d.e.env
	creds := backend.Credentials{APIID: r.APIID, APIHash: r.APIHash}
	return job{run: func(ctx context.Context) Outcome {
		if err := client.StoreAppCredentials(ctx, env, creds); err != nil {
			return failure(err, process.CannotSaveAPIKeys)
		}
		return AppCredentialsStored{}
	}}
}
