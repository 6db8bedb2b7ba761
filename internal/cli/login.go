package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tucha-cloud/tucha/internal/core"
	"github.com/tucha-cloud/tucha/internal/process"
)

// newLoginCmd creates the 'login' command.
func newLoginCmd() *cobra.Command {
	var phone string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in a Telegram account",
		Long: `Sign in a Telegram account and persist its session.

A login code is sent to the account; accounts with two-step verification
are also asked for their password. On success the storage group
(TuchaCloud-<user id>) is created if the account does not have one yet.

Examples:
  tucha login
  tucha login --phone +15551234567`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()
			out := cmd.ErrOrStderr()
			reader := bufio.NewReader(os.Stdin)

			a := newApp()
			defer a.close()

			if _, err := resolveCredentials(a.configPath); err != nil {
				a.logger.Debug().Err(err).Msg("Credential resolution failed")
				return errNoCredentials
			}
			a.engine.SetView(core.ViewNewSession)

			var err error
			if phone == "" {
				if phone, err = promptLine(reader, out, "Phone number (international format): "); err != nil {
					return err
				}
			}
			if err := a.run(ctx, core.SendLoginCode{Phone: phone}); err != nil {
				return err
			}

			code, err := promptLine(reader, out, "Login code: ")
			if err != nil {
				return err
			}
			err = a.run(ctx, core.SignIn{Code: code})
			if process.CodeOf(err) == process.PasswordRequired {
				password, perr := promptSecret(reader, out, "Two-step verification password: ")
				if perr != nil {
					return perr
				}
				err = a.run(ctx, core.SignIn{Password: password})
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", a.engine.CurrentAccount())
			return nil
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "Phone number in international format (prompted if omitted)")

	return cmd
}

// newAccountsCmd creates the 'accounts' command.
func newAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List signed-in accounts",
		Long: `Connect every saved session and list the accounts.

The account marked with * is the one commands operate on; select another
with --account.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			defer a.close()

			if err := a.connect(GetContext()); err != nil {
				return err
			}
			printAccounts(cmd.OutOrStdout(), a.engine.Accounts(), a.engine.CurrentAccount())
			return nil
		},
	}
}
