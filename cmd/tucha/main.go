// tucha stores files in private Telegram groups.
//
// Build with:
//
//	go build -ldflags "-X github.com/tucha-cloud/tucha/internal/version.Version=v0.4.0 \
//	  -X github.com/tucha-cloud/tucha/internal/version.BuildTime=$(date -u +%Y-%m-%d)" ./cmd/tucha
package main

import (
	"os"

	"github.com/tucha-cloud/tucha/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
