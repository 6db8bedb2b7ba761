// Package telegram implements the backend interfaces over MTProto using gotd.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/dcs"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"go.uber.org/zap"
	"golang.org/x/net/proxy"

	"github.com/tucha-cloud/tucha/internal/backend"
	"github.com/tucha-cloud/tucha/internal/constants"
	"github.com/tucha-cloud/tucha/internal/logging"
	"github.com/tucha-cloud/tucha/internal/ratelimit"
)

// memoryStorage holds the session blob of one connection. It is seeded from
// the session file and exported after sign-in.
type memoryStorage struct {
	mu   sync.Mutex
	data []byte
}

func newMemoryStorage(blob []byte) *memoryStorage {
	return &memoryStorage{data: append([]byte(nil), blob...)}
}

func (s *memoryStorage) LoadSession(context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.data) == 0 {
		return nil, session.ErrNotFound
	}
	return append([]byte(nil), s.data...), nil
}

func (s *memoryStorage) StoreSession(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	return nil
}

func (s *memoryStorage) bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data...)
}

var (
	_ backend.Dialer = (*Dialer)(nil)
	_ backend.Conn   = (*Conn)(nil)
)

// Dialer opens gotd connections.
type Dialer struct {
	protocolLog *zap.Logger
	logger      *logging.Logger
	dial        dcs.DialFunc
}

// NewDialer creates a dialer. protocolLog receives gotd's internal logs and
// may be nil.
func NewDialer(logger *logging.Logger, protocolLog *zap.Logger) *Dialer {
	if protocolLog == nil {
		protocolLog = zap.NewNop()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Dialer{protocolLog: protocolLog, logger: logger}
}

// UseProxy routes every connection through the SOCKS5 proxy at rawURL.
func (d *Dialer) UseProxy(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid proxy url: %w", err)
	}
	p, err := proxy.FromURL(u, proxy.Direct)
	if err != nil {
		return fmt.Errorf("failed to configure proxy: %w", err)
	}
	cd, ok := p.(proxy.ContextDialer)
	if !ok {
		return fmt.Errorf("proxy %s does not support contexts", u.Redacted())
	}
	d.dial = cd.DialContext
	d.logger.Debug().Str("proxy", u.Redacted()).Msg("Using proxy")
	return nil
}

// Dial starts a client and waits until it is connected. The connection lives
// until Close, independently of ctx.
func (d *Dialer) Dial(ctx context.Context, creds backend.Credentials, sessionBlob []byte) (backend.Conn, error) {
	storage := newMemoryStorage(sessionBlob)
	opts := telegram.Options{
		SessionStorage: storage,
		Logger:         d.protocolLog,
	}
	if d.dial != nil {
		opts.Resolver = dcs.Plain(dcs.PlainOptions{Dial: d.dial})
	}
	client := telegram.NewClient(creds.APIID, creds.APIHash, opts)

	runCtx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- client.Run(runCtx, func(ctx context.Context) error {
			close(ready)
			<-ctx.Done()
			return ctx.Err()
		})
	}()

	select {
	case <-ready:
	case err := <-done:
		cancel()
		return nil, fmt.Errorf("failed to connect: %w", err)
	case <-ctx.Done():
		cancel()
		<-done
		return nil, ctx.Err()
	}

	d.logger.Debug().Bool("resumed", len(sessionBlob) > 0).Msg("Connected")
	writes := ratelimit.NewRateLimiter(constants.WriteRatePerSec, constants.WriteBurstCapacity).
		WithLogger(d.logger)
	return &Conn{
		client:  client,
		api:     client.API(),
		storage: storage,
		cancel:  cancel,
		done:    done,
		logger:  d.logger,
		writes:  writes,
	}, nil
}

// Conn is one running gotd client.
type Conn struct {
	client  *telegram.Client
	api     *tg.Client
	storage *memoryStorage
	logger  *logging.Logger
	writes  *ratelimit.RateLimiter

	closeOnce sync.Once
	cancel    context.CancelFunc
	done      chan error
}

// ExportSession returns the current session blob.
func (c *Conn) ExportSession(context.Context) ([]byte, error) {
	blob := c.storage.bytes()
	if len(blob) == 0 {
		return nil, errors.New("session is empty")
	}
	return blob, nil
}

// Close stops the client and waits for it to exit.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		if runErr := <-c.done; runErr != nil && !errors.Is(runErr, context.Canceled) {
			err = runErr
		}
	})
	return err
}

// Self returns the authenticated account.
func (c *Conn) Self(ctx context.Context) (backend.User, error) {
	user, err := c.client.Self(ctx)
	if err != nil {
		return backend.User{}, err
	}
	return toUser(user), nil
}

// write paces a sending or deleting call. A FLOOD_WAIT answer is returned
// as is and holds back the next write of this connection for the requested time.
func (c *Conn) write(ctx context.Context, call func(ctx context.Context) error) error {
	if err := c.writes.Wait(ctx); err != nil {
		return err
	}
	err := call(ctx)
	if wait, flood := tgerr.AsFloodWait(err); flood {
		c.logger.Warn().Dur("wait", wait).Msg("Flood wait")
		c.writes.SetCooldown(wait)
	}
	return err
}

func toUser(u *tg.User) backend.User {
	return backend.User{ID: u.ID, Username: u.Username}
}
