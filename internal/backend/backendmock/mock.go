// Package backendmock provides testify mocks of the backend interfaces.
package backendmock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tucha-cloud/tucha/internal/backend"
)

// MockDialer implements backend.Dialer for testing
type MockDialer struct {
	mock.Mock
}

func (m *MockDialer) Dial(ctx context.Context, creds backend.Credentials, sessionBlob []byte) (backend.Conn, error) {
	args := m.Called(ctx, creds, sessionBlob)
	conn, _ := args.Get(0).(backend.Conn)
	return conn, args.Error(1)
}

// MockConn implements backend.Conn for testing
type MockConn struct {
	mock.Mock
}

func (m *MockConn) Self(ctx context.Context) (backend.User, error) {
	args := m.Called(ctx)
	return args.Get(0).(backend.User), args.Error(1)
}

func (m *MockConn) RequestLoginCode(ctx context.Context, phone string) (backend.LoginToken, error) {
	args := m.Called(ctx, phone)
	return args.Get(0).(backend.LoginToken), args.Error(1)
}

func (m *MockConn) SignIn(ctx context.Context, token backend.LoginToken, code string) (backend.User, error) {
	args := m.Called(ctx, token, code)
	return args.Get(0).(backend.User), args.Error(1)
}

func (m *MockConn) CheckPassword(ctx context.Context, token backend.PasswordToken, password string) (backend.User, error) {
	args := m.Called(ctx, token, password)
	return args.Get(0).(backend.User), args.Error(1)
}

func (m *MockConn) ExportSession(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	blob, _ := args.Get(0).([]byte)
	return blob, args.Error(1)
}

func (m *MockConn) Chats(ctx context.Context) ([]backend.Chat, error) {
	args := m.Called(ctx)
	chats, _ := args.Get(0).([]backend.Chat)
	return chats, args.Error(1)
}

func (m *MockConn) CreateChat(ctx context.Context, title string) (backend.Chat, error) {
	args := m.Called(ctx, title)
	return args.Get(0).(backend.Chat), args.Error(1)
}

func (m *MockConn) UploadFile(ctx context.Context, localPath string) (backend.Upload, error) {
	args := m.Called(ctx, localPath)
	return args.Get(0).(backend.Upload), args.Error(1)
}

func (m *MockConn) SendDocument(ctx context.Context, chat backend.Chat, text string, upload backend.Upload) (backend.Message, error) {
	args := m.Called(ctx, chat, text, upload)
	return args.Get(0).(backend.Message), args.Error(1)
}

func (m *MockConn) History(ctx context.Context, chat backend.Chat) backend.MessageIterator {
	args := m.Called(ctx, chat)
	return args.Get(0).(backend.MessageIterator)
}

func (m *MockConn) MessagesByID(ctx context.Context, chat backend.Chat, ids []int) ([]backend.Message, error) {
	args := m.Called(ctx, chat, ids)
	msgs, _ := args.Get(0).([]backend.Message)
	return msgs, args.Error(1)
}

func (m *MockConn) DeleteMessages(ctx context.Context, chat backend.Chat, ids []int) error {
	args := m.Called(ctx, chat, ids)
	return args.Error(0)
}

func (m *MockConn) Download(ctx context.Context, media *backend.Media, destPath string) error {
	args := m.Called(ctx, media, destPath)
	return args.Error(0)
}

func (m *MockConn) Close() error {
	args := m.Called()
	return args.Error(0)
}

// SliceIterator is a backend.MessageIterator over a fixed message list that
// optionally fails after the last message.
type SliceIterator struct {
	Messages []backend.Message
	Fail     error

	pos int
	cur backend.Message
}

// NewSliceIterator creates an iterator over msgs.
func NewSliceIterator(msgs ...backend.Message) *SliceIterator {
	return &SliceIterator{Messages: msgs}
}

func (it *SliceIterator) Next(ctx context.Context) bool {
	if it.pos >= len(it.Messages) {
		return false
	}
	it.cur = it.Messages[it.pos]
	it.pos++
	return true
}

func (it *SliceIterator) Value() backend.Message { return it.cur }

func (it *SliceIterator) Err() error {
	if it.pos >= len(it.Messages) {
		return it.Fail
	}
	return nil
}
