package telegram

import (
	"context"
	"errors"
	"fmt"

	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	"github.com/tucha-cloud/tucha/internal/backend"
)

// RequestLoginCode asks the service to send a login code to phone.
func (c *Conn) RequestLoginCode(ctx context.Context, phone string) (backend.LoginToken, error) {
	sent, err := c.client.Auth().SendCode(ctx, phone, auth.SendCodeOptions{})
	if err != nil {
		return backend.LoginToken{}, err
	}
	code, ok := sent.(*tg.AuthSentCode)
	if !ok {
		return backend.LoginToken{}, fmt.Errorf("unexpected sent code type %T", sent)
	}
	return backend.LoginToken{Phone: phone, Hash: code.PhoneCodeHash}, nil
}

// SignIn submits the login code.
func (c *Conn) SignIn(ctx context.Context, token backend.LoginToken, code string) (backend.User, error) {
	_, err := c.client.Auth().SignIn(ctx, token.Phone, code, token.Hash)
	if err != nil {
		err = classifySignIn(err)
		var pre *backend.PasswordRequiredError
		if errors.As(err, &pre) {
			pre.Token.Hint = c.passwordHint(ctx)
		}
		return backend.User{}, err
	}
	return c.Self(ctx)
}

// CheckPassword completes a login that needs the two-step password.
func (c *Conn) CheckPassword(ctx context.Context, _ backend.PasswordToken, password string) (backend.User, error) {
	if _, err := c.client.Auth().Password(ctx, password); err != nil {
		if errors.Is(err, auth.ErrPasswordInvalid) {
			return backend.User{}, fmt.Errorf("%w: %v", backend.ErrInvalidPassword, err)
		}
		return backend.User{}, err
	}
	return c.Self(ctx)
}

func (c *Conn) passwordHint(ctx context.Context) string {
	pwd, err := c.api.AccountGetPassword(ctx)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Password hint unavailable")
		return ""
	}
	hint, _ := pwd.GetHint()
	return hint
}

// classifySignIn maps wire errors onto the backend sign-in sentinels.
func classifySignIn(err error) error {
	var signUp *auth.SignUpRequired
	switch {
	case errors.Is(err, auth.ErrPasswordAuthNeeded):
		return &backend.PasswordRequiredError{}
	case errors.As(err, &signUp):
		return fmt.Errorf("%w: %v", backend.ErrSignUpRequired, err)
	case tgerr.Is(err, "PHONE_CODE_INVALID", "PHONE_CODE_EMPTY", "PHONE_CODE_EXPIRED"):
		return fmt.Errorf("%w: %v", backend.ErrInvalidCode, err)
	}
	return err
}
