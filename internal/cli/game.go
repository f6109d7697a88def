package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/classgold/internal/api/response"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game session commands",
	}

	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGameSendCmd())

	return cmd
}

func newGameStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start a game session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.GameSession
			if err := client.Post("/api/v1/games", nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <session-id> <message>",
		Short: "Send a game message",
		Long: `Send a raw game message to a game session.

Messages:
  ADD_COINS|<n>  credit n gold to your balance
  CLOSE_GAME     end the session`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"message": args[1]}
			var result response.GameMessageResponse
			path := "/api/v1/games/" + url.PathEscape(args[0]) + "/messages"
			if err := client.Post(path, req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
