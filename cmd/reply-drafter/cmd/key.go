package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hal9000y/gmail-reply-drafter/internal/credential"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the OpenAI API key in the OS keyring",
	Long: `Store the OpenAI API key in the OS keychain (macOS Keychain, GNOME Keyring,
Windows Credential Manager). OPENAI_API_KEY still takes precedence when set.`,
}

var keySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Read the API key from stdin and store it",
	Example: `  printf '%s' "$OPENAI_API_KEY" | reply-drafter key set`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}

		key := strings.TrimSpace(string(data))
		if key == "" {
			return errors.New("empty key on stdin")
		}

		if err := credential.Set(credential.KeyOpenAI, key); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "API key stored in OS keyring")

		return nil
	},
}

var keyDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := credential.Delete(credential.KeyOpenAI); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "API key removed from OS keyring")

		return nil
	},
}

func init() {
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyDeleteCmd)
	rootCmd.AddCommand(keyCmd)
}
