package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// EnvProxy overrides [network] proxy.
const EnvProxy = "TUCHA_PROXY"

// ErrInvalidProxy is returned for proxy URLs that cannot be dialed.
var ErrInvalidProxy = errors.New("proxy must be a socks5:// or socks5h:// URL with a host")

// ValidateProxyURL checks raw and returns the parsed URL.
func ValidateProxyURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProxy, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "socks5", "socks5h":
	default:
		return nil, fmt.Errorf("%w: scheme %q", ErrInvalidProxy, u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProxy, raw)
	}
	return u, nil
}

// ResolveProxy returns the proxy URL to use, or "" for a direct connection.
//
// Priority (highest to lowest):
//  1. flagProxy (--proxy)
//  2. TUCHA_PROXY
//  3. [network] proxy of the config file at configPath
//
// A non-empty result has passed ValidateProxyURL.
func ResolveProxy(flagProxy, configPath string) (string, error) {
	raw := strings.TrimSpace(flagProxy)
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv(EnvProxy))
	}
	if raw == "" {
		cfg, err := LoadAppConfig(configPath)
		if err != nil {
			return "", err
		}
		raw = cfg.Network.Proxy
	}
	if raw == "" {
		return "", nil
	}
	if _, err := ValidateProxyURL(raw); err != nil {
		return "", err
	}
	return raw, nil
}

// RedactProxy hides the password of a proxy URL for display.
func RedactProxy(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}
