package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odysseyquest/odyssey/internal/game"
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Start a game straight away",
	Long:  "Start a game straight away. Run without a game to list the catalog.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			listGames(cmd)
			return nil
		}
		g, ok := game.DefaultCatalog().Get(args[0])
		if !ok {
			return fmt.Errorf("unknown game %q (run 'odyssey play' to list games)", args[0])
		}
		if g.ComingSoon {
			fmt.Fprintln(cmd.OutOrStdout(), "This game is coming soon! Stay tuned for updates.")
			return nil
		}
		return runApp(cmd, g.ID)
	},
}

func listGames(cmd *cobra.Command) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-18s  %-24s  %-8s  %s\n", "ID", "Title", "Subject", "")
	fmt.Fprintln(w, strings.Repeat("─", 64))
	for _, g := range game.DefaultCatalog().Games() {
		note := ""
		if g.ComingSoon {
			note = "coming soon"
		}
		fmt.Fprintf(w, "%-18s  %-24s  %-8s  %s\n", g.ID, g.Title, g.Subject.DisplayName(), note)
	}
}
