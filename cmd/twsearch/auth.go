package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"twsearch/pkg/auth"
	"twsearch/pkg/config"
	"twsearch/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the API bearer token",
	Long: `Manage the bearer token used to call the API.

The token is looked up in this order:
  - BEARER_TOKEN or TWSEARCH_BEARER_TOKEN environment variables
  - api.bearer_token in the configuration file
  - System keyring (stored with 'twsearch auth login')`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [token]",
	Short: "Store a bearer token in the system keyring",
	Long: `Store a bearer token in the system keyring.

When no token is given on the command line you are prompted for it and
the input is hidden.`,
	Example: `  # Interactive login
  twsearch auth login

  # Non-interactive
  echo "$TOKEN" | twsearch auth login`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored bearer token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

// statusCmd represents the auth status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which bearer token would be used",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	var token string
	if len(args) > 0 {
		token = args[0]
	} else {
		fmt.Fprint(cmd.ErrOrStderr(), "Bearer token: ")
		var err error
		token, err = readToken(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
	}

	if err := auth.NewManager().Store(token); err != nil {
		return err
	}

	ui.PrintSuccess("Bearer token stored in the system keyring")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	err := auth.NewManager().Delete()
	if errors.Is(err, auth.ErrTokenNotFound) {
		ui.PrintWarning("No stored bearer token")
		return nil
	}
	if err != nil {
		return err
	}

	ui.PrintSuccess("Bearer token removed from the system keyring")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, globalOverrides())
	if err != nil {
		return err
	}

	cred, err := auth.NewManager().Resolve(cfg.API.BearerToken)
	if err != nil {
		return err
	}

	if cred.Source == auth.SourceNone {
		ui.PrintWarning("No bearer token configured")
		fmt.Fprintln(cmd.OutOrStdout(), "Set BEARER_TOKEN or run 'twsearch auth login'.")
		return nil
	}

	ui.PrintInfo("Source", string(cred.Source))
	ui.PrintInfo("Token", auth.MaskToken(cred.Token))
	return nil
}

// readToken reads a token without echo from a terminal, or one line otherwise
func readToken(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && f == os.Stdin && term.IsTerminal(int(syscall.Stdin)) {
		token, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(token)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
