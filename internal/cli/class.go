package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/classgold/internal/api/response"
)

func newClassCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "class",
		Short: "Class commands",
	}

	cmd.AddCommand(newClassLeaderboardCmd())
	cmd.AddCommand(newClassActivityCmd())

	return cmd
}

func classPath(class, suffix string) string {
	return "/api/v1/classes/" + url.PathEscape(class) + "/" + suffix
}

func newClassLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard <class>",
		Short: "Show the class leaderboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Leaderboard
			if err := client.Get(classPath(args[0], "leaderboard"), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newClassActivityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activity <class>",
		Short: "Show student activity history (teachers)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.ClassActivity
			if err := client.Get(classPath(args[0], "activity"), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
