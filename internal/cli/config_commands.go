package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tucha-cloud/tucha/internal/config"
	"github.com/tucha-cloud/tucha/internal/core"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage tucha configuration",
		Long: `Configuration management commands for tucha.

Commands:
  set-credentials - Save the Telegram api_id and api_hash
  show            - Display current configuration
  path            - Show configuration file path`,
	}

	configCmd.AddCommand(newConfigSetCredentialsCmd())
	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigPathCmd())

	return configCmd
}

// newConfigSetCredentialsCmd creates the 'config set-credentials' command.
func newConfigSetCredentialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-credentials",
		Short: "Save the Telegram application credentials",
		Long: `Save the api_id and api_hash of your Telegram application.

Create an application at https://my.telegram.org to obtain them. Values
given with the global --api-id and --api-hash flags are used as is;
missing ones are prompted for. After saving, the saved sessions are
connected to verify the credentials.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.ErrOrStderr()
			reader := bufio.NewReader(os.Stdin)

			creds := config.AppCredentials{APIID: apiID, APIHash: apiHash}
			if creds.APIID == 0 {
				raw, err := promptLine(reader, out, "api_id: ")
				if err != nil {
					return err
				}
				id, err := strconv.Atoi(raw)
				if err != nil {
					return fmt.Errorf("%w: %q", config.ErrInvalidAPIID, raw)
				}
				creds.APIID = id
			}
			if creds.APIHash == "" {
				hash, err := promptSecret(reader, out, "api_hash: ")
				if err != nil {
					return err
				}
				creds.APIHash = hash
			}
			if err := creds.Validate(); err != nil {
				return err
			}

			a := newApp()
			defer a.close()

			if err := a.run(GetContext(), core.StoreAppCredentials{APIID: creds.APIID, APIHash: creds.APIHash}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Credentials saved to %s\n", a.configPath)
			fmt.Fprintf(cmd.OutOrStdout(), "Connected accounts: %d\n", len(a.engine.Accounts()))
			return nil
		},
	}

	return cmd
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			dir := config.DataDirectory(dataDir)
			configPath := config.ConfigPath(dir)

			cfg, err := config.LoadAppConfig(configPath)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "Current Configuration")
			fmt.Fprintln(out, "=====================")
			fmt.Fprintf(out, "Data directory:     %s\n", dir)
			fmt.Fprintf(out, "Config file:        %s\n", configPath)
			fmt.Fprintf(out, "Sessions directory: %s\n", config.SessionsDirectory(dir))
			fmt.Fprintf(out, "Log directory:      %s\n", config.LogDirectory(dir))

			downloads, err := config.DownloadDirectory(cfg)
			if err != nil {
				downloads = "(unavailable: " + err.Error() + ")"
			}
			fmt.Fprintf(out, "Download directory: %s\n", downloads)

			proxy, err := config.ResolveProxy(proxyURL, configPath)
			switch {
			case err != nil:
				proxy = "(invalid: " + err.Error() + ")"
			case proxy == "":
				proxy = "none"
			default:
				proxy = config.RedactProxy(proxy)
			}
			fmt.Fprintf(out, "Proxy:              %s\n", proxy)
			fmt.Fprintln(out)

			resolved, err := config.ResolveCredentials(apiID, apiHash, configPath)
			if err != nil {
				fmt.Fprintf(out, "Credentials:        not configured (%v)\n", err)
				return nil
			}
			fmt.Fprintf(out, "api_id:             %d (from %s)\n", resolved.APIID, resolved.IDSource)
			fmt.Fprintf(out, "api_hash:           %s (from %s)\n", resolved.MaskedHash(), resolved.HashSource)
			return nil
		},
	}
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.ConfigPath(config.DataDirectory(dataDir)))
		},
	}
}
