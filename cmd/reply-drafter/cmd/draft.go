package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/hal9000y/gmail-reply-drafter/internal/auth"
	"github.com/hal9000y/gmail-reply-drafter/internal/draft"
	"github.com/hal9000y/gmail-reply-drafter/internal/gservice"
	"github.com/hal9000y/gmail-reply-drafter/internal/localstore"
)

var (
	draftConversation string
	draftAction       string
	draftEML          string
	draftDir          string
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Generate and save one reply draft",
	Long: `Generate a reply to the latest message of a conversation and save it as a
new draft.

By default the conversation is a Gmail thread ID and the draft is created in
Gmail; sign in once with 'reply-drafter serve' first. With --eml the
conversation is read from an .eml file or a directory of .eml files and the
draft is written as JSON under --drafts-dir.`,
	Example: `  reply-drafter draft --conversation 18c2f0a9b1e4d7c3 --action 同意
  reply-drafter draft --eml ./thread --drafts-dir ./drafts --action 感謝`,
	RunE: runDraft,
}

func init() {
	draftCmd.Flags().StringVar(&draftConversation, "conversation", "", "Gmail thread ID")
	draftCmd.Flags().StringVar(&draftAction, "action", "", "Action label, see 'reply-drafter actions'")
	draftCmd.Flags().StringVar(&draftEML, "eml", "", "Read the conversation from an .eml file or directory instead of Gmail")
	draftCmd.Flags().StringVar(&draftDir, "drafts-dir", "./data/drafts", "Directory for drafts created with --eml")
	_ = draftCmd.MarkFlagRequired("action")

	rootCmd.AddCommand(draftCmd)
}

func runDraft(cmd *cobra.Command, args []string) error {
	action, err := draft.ParseAction(draftAction)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var (
		backend        mailboxBackend
		conversationID string
	)
	switch {
	case draftEML != "":
		backend = localstore.New(draftDir)
		conversationID = draftEML
	case draftConversation != "":
		oauthCfg, err := newOAuthConfig(cfg, "http://localhost/oauth")
		if err != nil {
			return err
		}

		tok, err := auth.NewToken(oauthCfg, tokenStore(cfg))
		if err != nil {
			return fmt.Errorf("auth.NewToken failed: %w", err)
		}
		if _, err := tok.OAuthToken(); errors.Is(err, auth.ErrTokenNotSet) {
			return errors.New("gmail is not authorized yet, run 'reply-drafter serve' to sign in")
		}
		defer func() {
			if err := tok.Persist(); err != nil {
				log.Println(fmt.Errorf("tok.Persist failed: %w", err))
			}
		}()

		backend = gservice.NewGmail(tok, senderAddress(cfg))
		conversationID = draftConversation
	default:
		return errors.New("either --conversation or --eml is required")
	}

	drafter, err := newDrafter(cfg, backend)
	if err != nil {
		return err
	}

	out, err := drafter.Draft(cmd.Context(), conversationID, action)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), out.Summary())

	return nil
}
