package client

import (
	"context"
	"errors"

	"github.com/tucha-cloud/tucha/internal/backend"
	"github.com/tucha-cloud/tucha/internal/logging"
	"github.com/tucha-cloud/tucha/internal/process"
)

// ConnectToSavedSessions connects every persisted session and returns the
// clients keyed by username. The first failing session aborts the whole
// enumeration; connections opened so far are closed.
func ConnectToSavedSessions(ctx context.Context, env Environment) (map[string]Client, error) {
	logger := env.log()

	entries, err := env.Sessions.List()
	if err != nil {
		return nil, process.NewError(process.CannotReadSessionsDirectory, err)
	}

	clients := make(map[string]Client, len(entries))
	abort := func(err error) (map[string]Client, error) {
		for name, c := range clients {
			if err := c.Close(); err != nil {
				logger.Warn().Str("account", name).Err(err).Msg("Close failed")
			}
		}
		return nil, err
	}

	for _, entry := range entries {
		blob, err := env.Sessions.Load(entry)
		if err != nil {
			return abort(process.NewError(process.CannotLoadSessionFile, err))
		}

		c, err := connectSession(ctx, env, blob)
		if err != nil {
			logger.Warn().Str("session", entry.Name).Err(err).Msg("Saved session failed")
			return abort(err)
		}
		clients[c.Username()] = c
		logger.Debug().Str("session", entry.Name).Str("account", c.Username()).Msg("Saved session connected")
	}

	logger.Info().Int("accounts", len(clients)).Msg("Saved sessions connected")
	return clients, nil
}

func connectSession(ctx context.Context, env Environment, blob []byte) (Client, error) {
	conn, err := env.dial(ctx, blob)
	if err != nil {
		return Client{}, err
	}

	fail := func(err error) (Client, error) {
		if cerr := conn.Close(); cerr != nil {
			env.log().Warn().Err(cerr).Msg("Close failed")
		}
		return Client{}, err
	}

	user, err := conn.Self(ctx)
	if err != nil {
		return fail(process.NewError(process.CannotGetUserData, err))
	}
	if user.Username == "" {
		return fail(process.Fail(process.UsernameIsNone))
	}

	chat, err := findContainer(ctx, conn, user)
	if err != nil {
		return fail(err)
	}
	if chat == nil {
		return fail(process.Fail(process.ChatIsNotFound))
	}

	return New(conn, chat, &user), nil
}

// SendLoginCode opens a fresh session and requests a login code. It returns
// the continuation token and the partial client holding the connection.
func SendLoginCode(ctx context.Context, env Environment, phone string) (backend.LoginToken, Client, error) {
	conn, err := env.dial(ctx, nil)
	if err != nil {
		return backend.LoginToken{}, Client{}, err
	}

	token, err := conn.RequestLoginCode(ctx, phone)
	if err != nil {
		if cerr := conn.Close(); cerr != nil {
			env.log().Warn().Err(cerr).Msg("Close failed")
		}
		return backend.LoginToken{}, Client{}, process.NewError(process.LoginCodeIsNotSent, err)
	}

	env.log().Info().Msg("Login code sent")
	return token, New(conn, nil, nil), nil
}

// authStage tracks the login progress of a single attempt and logs each
// transition.
type authStage struct {
	logger *logging.Logger
	stage  AuthStage
}

func (a *authStage) advance(e AuthEvent) {
	next := a.stage.Advance(e)
	a.logger.Debug().Stringer("from", a.stage).Stringer("to", next).Msg("Auth stage")
	a.stage = next
}

// SignIn completes the login of a partial client. An empty password means
// none was supplied. On success the session is persisted and the storage
// container is created if missing.
func SignIn(ctx context.Context, env Environment, partial Client, token backend.LoginToken, code, password string) (Client, string, error) {
	conn := partial.Conn()
	if conn == nil {
		return Client{}, "", process.Fail(process.IncompleteClientIsNone)
	}
	stage := &authStage{logger: env.log(), stage: StageCodeRequested}

	user, err := conn.SignIn(ctx, token, code)
	var passwordRequired *backend.PasswordRequiredError
	switch {
	case err == nil:
		stage.advance(EventCodeAccepted)
	case errors.As(err, &passwordRequired):
		stage.advance(EventPasswordNeeded)
		if password == "" {
			return Client{}, "", process.NewError(process.PasswordRequired, err)
		}
		user, err = checkPassword(ctx, conn, stage, passwordRequired.Token, password)
		if err != nil {
			return Client{}, "", err
		}
	case errors.Is(err, backend.ErrSignUpRequired):
		stage.advance(EventRejected)
		return Client{}, "", process.NewError(process.SignUpRequired, err)
	case errors.Is(err, backend.ErrInvalidCode):
		stage.advance(EventRejected)
		return Client{}, "", process.NewError(process.InvalidCode, err)
	default:
		stage.advance(EventRejected)
		return Client{}, "", process.NewError(process.OtherSignInError, err)
	}

	return finishSignIn(ctx, env, conn, stage, user)
}

// CheckPassword continues a login that stopped at the second factor. The
// code was already accepted, so only the password is sent.
func CheckPassword(ctx context.Context, env Environment, partial Client, pt backend.PasswordToken, password string) (Client, string, error) {
	conn := partial.Conn()
	if conn == nil {
		return Client{}, "", process.Fail(process.IncompleteClientIsNone)
	}
	if password == "" {
		return Client{}, "", process.Fail(process.PasswordRequired)
	}
	stage := &authStage{logger: env.log(), stage: StagePasswordRequired}

	user, err := checkPassword(ctx, conn, stage, pt, password)
	if err != nil {
		return Client{}, "", err
	}
	return finishSignIn(ctx, env, conn, stage, user)
}

func checkPassword(ctx context.Context, conn backend.Conn, stage *authStage, pt backend.PasswordToken, password string) (backend.User, error) {
	user, err := conn.CheckPassword(ctx, pt, password)
	if err != nil {
		stage.advance(EventRejected)
		if errors.Is(err, backend.ErrInvalidPassword) {
			return backend.User{}, process.NewError(process.InvalidPassword, err)
		}
		return backend.User{}, process.NewError(process.OtherSignInError, err)
	}
	stage.advance(EventPasswordAccepted)
	return user, nil
}

// finishSignIn persists the session of an authorized connection and makes
// sure the storage container exists.
func finishSignIn(ctx context.Context, env Environment, conn backend.Conn, stage *authStage, user backend.User) (Client, string, error) {
	logger := env.log()
	if user.Username == "" {
		return Client{}, "", process.Fail(process.UsernameIsNone)
	}

	blob, err := conn.ExportSession(ctx)
	if err != nil {
		return Client{}, "", process.NewError(process.CannotSaveSessionInFile, err)
	}
	if err := env.Sessions.Save(user.ID, blob); err != nil {
		return Client{}, "", process.NewError(process.CannotSaveSessionInFile, err)
	}

	chat, err := findContainer(ctx, conn, user)
	if err != nil {
		return Client{}, "", err
	}
	if chat == nil {
		created, err := conn.CreateChat(ctx, ContainerTitle(user.ID))
		if err != nil {
			return Client{}, "", process.NewError(process.CloudGroupIsNotCreated, err)
		}
		logger.Info().Str("title", created.Title).Msg("Storage container created")
		chat = &created
	}

	stage.advance(EventSessionReady)
	logger.Info().Str("account", user.Username).Msg("Signed in")
	return New(conn, chat, &user), user.Username, nil
}
