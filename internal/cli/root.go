// Package cli provides the command-line interface for tucha.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tucha-cloud/tucha/internal/config"
	"github.com/tucha-cloud/tucha/internal/constants"
	"github.com/tucha-cloud/tucha/internal/logging"
	"github.com/tucha-cloud/tucha/internal/version"
)

var (
	// Global flags
	dataDir   string
	apiID     int
	apiHash   string
	account   string
	proxyURL  string
	verbose   bool
	debug     bool
	quiet     bool
	noLogFile bool

	// Global logger
	logger *logging.Logger

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   constants.AppName,
		Short: "Telegram-backed file storage",
		Long: `tucha ` + version.Version + ` - Built: ` + version.BuildTime + `
Stores files in a private Telegram group of each signed-in account.

Every stored object is a document message whose text records its virtual
path, so folders are reconstructed from the message history.

Getting started:
  tucha config set-credentials   # api_id / api_hash from my.telegram.org
  tucha login                    # sign in an account
  tucha upload report.pdf --to /work
  tucha ls /work`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose || debug {
				logging.SetGlobalLevel(zerolog.DebugLevel)
			}
			opts := logging.Options{}
			if !noLogFile {
				dir := config.DataDirectory(dataDir)
				if err := config.EnsureLogDirectory(dir); err == nil {
					opts.LogFile = filepath.Join(config.LogDirectory(dir), constants.AppName+".log")
				}
			}
			logger = logging.NewLogger(opts)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Close()
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory for config, sessions and logs")
	rootCmd.PersistentFlags().IntVar(&apiID, "api-id", 0, "Telegram api_id (overrides env and config)")
	rootCmd.PersistentFlags().StringVar(&apiHash, "api-hash", "", "Telegram api_hash (overrides env and config)")
	rootCmd.PersistentFlags().StringVar(&proxyURL, "proxy", "", "SOCKS5 proxy URL (overrides env and config)")
	rootCmd.PersistentFlags().StringVarP(&account, "account", "a", "", "Account to operate on (default: first by name)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output, including MTProto traffic in the log file")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Do not show the status spinner")
	rootCmd.PersistentFlags().BoolVar(&noLogFile, "no-log-file", false, "Do not write the rotating log file")

	rootCmd.Version = version.Version + " (" + version.BuildTime + ")"

	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	// Create a context that can be cancelled by signals
	rootContext, cancelFunc = context.WithCancel(context.Background())
	defer cancelFunc()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range sigChan {
			if sig != nil {
				fmt.Fprintf(os.Stderr, "\nReceived signal %v, stopping...\n", sig)
				cancelFunc()
			}
		}
	}()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	err := rootCmd.Execute()

	signal.Stop(sigChan)
	close(sigChan)

	return err
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newAccountsCmd())
	rootCmd.AddCommand(newLsCmd())
	rootCmd.AddCommand(newTreeCmd())
	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newDownloadCmd())
	rootCmd.AddCommand(newRmCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewLogger(logging.Options{})
	}
	return logger
}

// GetContext returns the global CLI context with signal handling.
// This context will be cancelled when the user presses Ctrl+C.
func GetContext() context.Context {
	if rootContext == nil {
		return context.Background()
	}
	return rootContext
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (built %s)\n", constants.AppName, version.Version, version.BuildTime)
		},
	}
}
