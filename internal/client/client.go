// Package client implements the account-level operations against the storage
// backend: connecting saved sessions, the login flow, and upload, listing,
// download and delete of stored objects.
//
// Every operation takes owned inputs and returns new Client values; nothing
// here touches engine state. Failures are always *process.Error.
package client

import (
	"context"
	"fmt"

	"github.com/tucha-cloud/tucha/internal/backend"
	"github.com/tucha-cloud/tucha/internal/constants"
	"github.com/tucha-cloud/tucha/internal/logging"
	"github.com/tucha-cloud/tucha/internal/process"
	"github.com/tucha-cloud/tucha/internal/session"
)

// Client is a handle to one connection. Copies share the connection.
// A Client without a user is the partial client of an unfinished login.
type Client struct {
	conn backend.Conn
	chat *backend.Chat
	user *backend.User
}

// New creates a handle. chat and user may be nil.
func New(conn backend.Conn, chat *backend.Chat, user *backend.User) Client {
	return Client{conn: conn, chat: chat, user: user}
}

// Conn returns the underlying connection.
func (c Client) Conn() backend.Conn { return c.conn }

// Chat returns the storage container, if found.
func (c Client) Chat() (backend.Chat, bool) {
	if c.chat == nil {
		return backend.Chat{}, false
	}
	return *c.chat, true
}

// User returns the account identity, if authenticated.
func (c Client) User() (backend.User, bool) {
	if c.user == nil {
		return backend.User{}, false
	}
	return *c.user, true
}

// Username returns the account username, or "" for a partial client.
func (c Client) Username() string {
	if c.user == nil {
		return ""
	}
	return c.user.Username
}

// Close closes the connection.
func (c Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Environment is what operations need besides the client handle.
type Environment struct {
	Dialer   backend.Dialer
	Sessions *session.Store

	// Credentials resolves the application credentials. Read on every
	// connect so that stored credentials take effect without restart.
	Credentials func() (backend.Credentials, error)

	// StoreCredentials persists new application credentials.
	StoreCredentials func(backend.Credentials) error

	// DownloadDir returns the download destination directory.
	DownloadDir func() (string, error)

	Logger *logging.Logger
}

func (env Environment) log() *logging.Logger {
	if env.Logger == nil {
		return logging.NewNopLogger()
	}
	return env.Logger
}

// ContainerTitle is the storage container title for an account.
func ContainerTitle(userID int64) string {
	return fmt.Sprintf("%s-%d", constants.StorageContainerPrefix, userID)
}

// findContainer looks the storage container up by exact title.
func findContainer(ctx context.Context, conn backend.Conn, user backend.User) (*backend.Chat, error) {
	chats, err := conn.Chats(ctx)
	if err != nil {
		return nil, process.NewError(process.CannotGetDialogs, err)
	}
	title := ContainerTitle(user.ID)
	for i := range chats {
		if chats[i].Title == title {
			chat := chats[i]
			return &chat, nil
		}
	}
	return nil, nil
}

func (env Environment) dial(ctx context.Context, blob []byte) (backend.Conn, error) {
	if env.Credentials == nil {
		return nil, process.Fail(process.InvalidAPI)
	}
	creds, err := env.Credentials()
	if err != nil {
		return nil, process.NewError(process.InvalidAPI, err)
	}
	conn, err := env.Dialer.Dial(ctx, creds, blob)
	if err != nil {
		return nil, process.NewError(process.ClientIsNotConnected, err)
	}
	return conn, nil
}

// StoreAppCredentials persists new application credentials.
func StoreAppCredentials(ctx context.Context, env Environment, creds backend.Credentials) error {
	if env.StoreCredentials == nil {
		return process.Fail(process.CannotSaveAPIKeys)
	}
	if err := env.StoreCredentials(creds); err != nil {
		return process.NewError(process.CannotSaveAPIKeys, err)
	}
	env.log().Info().Int("api_id", creds.APIID).Msg("Application credentials saved")
	return nil
}
