package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables consulted by ResolveCredentials.
const (
	EnvAPIID   = "TUCHA_API_ID"
	EnvAPIHash = "TUCHA_API_HASH"
)

// CredentialSource names where a credential field was found.
type CredentialSource string

const (
	SourceFlag        CredentialSource = "flag"
	SourceEnvironment CredentialSource = "environment"
	SourceConfigFile  CredentialSource = "config-file"
)

// ResolvedCredentials is the outcome of ResolveCredentials with the source of
// each field, for --verbose output.
type ResolvedCredentials struct {
	AppCredentials
	IDSource   CredentialSource
	HashSource CredentialSource
}

// ResolveCredentials returns the application credentials by checking multiple
// sources in priority order, field by field.
//
// Priority (highest to lowest):
//  1. Provided flag values (non-zero id, non-empty hash)
//  2. TUCHA_API_ID / TUCHA_API_HASH environment variables
//  3. The [telegram] section of the config file at configPath
//
// The merged result must validate; otherwise an error is returned.
func ResolveCredentials(flagID int, flagHash string, configPath string) (ResolvedCredentials, error) {
	var out ResolvedCredentials

	// 1. Explicit flags
	if flagID != 0 {
		out.APIID, out.IDSource = flagID, SourceFlag
	}
	if flagHash != "" {
		out.APIHash, out.HashSource = flagHash, SourceFlag
	}

	// 2. Environment
	if out.IDSource == "" {
		if raw := strings.TrimSpace(os.Getenv(EnvAPIID)); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil {
				return out, fmt.Errorf("%w: %s=%q", ErrInvalidAPIID, EnvAPIID, raw)
			}
			out.APIID, out.IDSource = id, SourceEnvironment
		}
	}
	if out.HashSource == "" {
		if hash := strings.TrimSpace(os.Getenv(EnvAPIHash)); hash != "" {
			out.APIHash, out.HashSource = hash, SourceEnvironment
		}
	}

	// 3. Config file
	if out.IDSource == "" || out.HashSource == "" {
		cfg, err := LoadAppConfig(configPath)
		if err != nil {
			return out, err
		}
		if out.IDSource == "" && cfg.Telegram.APIID != 0 {
			out.APIID, out.IDSource = cfg.Telegram.APIID, SourceConfigFile
		}
		if out.HashSource == "" && cfg.Telegram.APIHash != "" {
			out.APIHash, out.HashSource = cfg.Telegram.APIHash, SourceConfigFile
		}
	}

	if err := out.Validate(); err != nil {
		return out, err
	}
	return out, nil
}
