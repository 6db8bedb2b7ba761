// Package backend defines the transport-neutral view of the remote messaging
// service used as storage: a Dialer opens connections, a Conn offers account
// auth, chat discovery, message send/iterate/fetch/delete and file transfer.
//
// The client layer only depends on these interfaces. The MTProto implementation
// lives in internal/telegram; tests use fakes.
package backend

import (
	"context"
	"errors"
)

// Sign-in classification. Implementations must return these (or
// *PasswordRequiredError) so the client layer can classify failures without
// knowing the wire errors.
var (
	ErrInvalidCode     = errors.New("backend: invalid login code")
	ErrSignUpRequired  = errors.New("backend: sign up required")
	ErrInvalidPassword = errors.New("backend: invalid password")
)

// PasswordRequiredError is returned by SignIn when the account has two-step
// verification enabled. Token must be presented to CheckPassword.
type PasswordRequiredError struct {
	Token PasswordToken
}

func (e *PasswordRequiredError) Error() string {
	return "backend: password required"
}

// Credentials authenticate the application itself to the service.
type Credentials struct {
	APIID   int
	APIHash string
}

// User is the account identity.
type User struct {
	ID       int64
	Username string // empty when the account has no username
}

// Chat is a conversation. Ref is the implementation's peer handle.
type Chat struct {
	ID    int64
	Title string
	Ref   any
}

// MediaKind enumerates attachment shapes.
type MediaKind int

const (
	MediaOther MediaKind = iota
	MediaDocument
	MediaSticker // a sticker backed by a document
	MediaPhoto
)

// Media is a message attachment. Ref is the implementation's download handle.
type Media struct {
	Kind MediaKind
	Name string
	Size int64
	Ref  any
}

// Document reports whether the attachment is document-backed.
func (m *Media) Document() bool {
	return m != nil && (m.Kind == MediaDocument || m.Kind == MediaSticker)
}

// Message is one message in a chat. Media is nil for plain text messages.
type Message struct {
	ID    int
	Text  string
	Media *Media
}

// LoginToken continues a login after the code was sent.
type LoginToken struct {
	Phone string
	Hash  string
}

// PasswordToken continues a login that needs the two-step password.
type PasswordToken struct {
	Hint string
}

// Upload is a file already transferred to the service, ready to be attached.
type Upload struct {
	Name string
	Ref  any
}

// MessageIterator walks a chat history, newest first.
type MessageIterator interface {
	Next(ctx context.Context) bool
	Value() Message
	Err() error
}

// Dialer opens connections. sessionBlob is nil for a fresh unauthenticated session.
type Dialer interface {
	Dial(ctx context.Context, creds Credentials, sessionBlob []byte) (Conn, error)
}

// Conn is one live connection. Implementations must be safe for concurrent use.
type Conn interface {
	Self(ctx context.Context) (User, error)

	RequestLoginCode(ctx context.Context, phone string) (LoginToken, error)
	SignIn(ctx context.Context, token LoginToken, code string) (User, error)
	CheckPassword(ctx context.Context, token PasswordToken, password string) (User, error)
	ExportSession(ctx context.Context) ([]byte, error)

	Chats(ctx context.Context) ([]Chat, error)
	CreateChat(ctx context.Context, title string) (Chat, error)

	UploadFile(ctx context.Context, localPath string) (Upload, error)
	SendDocument(ctx context.Context, chat Chat, text string, upload Upload) (Message, error)
	History(ctx context.Context, chat Chat) MessageIterator
	MessagesByID(ctx context.Context, chat Chat, ids []int) ([]Message, error)
	DeleteMessages(ctx context.Context, chat Chat, ids []int) error
	Download(ctx context.Context, media *Media, destPath string) error

	Close() error
}
