package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"editor-note/internal/auth"
	"editor-note/internal/storage"
)

var tokenCmd = &cobra.Command{
	Use:   "token <login>",
	Short: "Issue an access token for a user",
	Long: `Issue an access token carrying the user's capabilities.
Send it as "Authorization: Bearer <token>" or in the editor_note_token cookie.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := openStore()
		if err != nil {
			return err
		}
		defer func() {
			_ = db.Close()
		}()

		user, err := storage.NewUserRepo(db).GetByLogin(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("look up user %q: %w", args[0], err)
		}

		tokens := auth.NewTokenManager(auth.TokenConfig{
			SecretKey: cfg.AuthSecret,
			Expiry:    cfg.TokenTTL,
		})
		token, err := tokens.Generate(auth.Principal{
			UserID:       user.ID,
			Login:        user.Login,
			Name:         user.DisplayName,
			Capabilities: user.Capabilities,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
