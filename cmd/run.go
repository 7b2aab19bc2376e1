package cmd

import (
	"github.com/spf13/cobra"

	"github.com/odysseyquest/odyssey/internal/app"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, startGame string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	svc, err := e.services(cmd.Context())
	if err != nil {
		return err
	}
	return app.Run(cmd.Context(), svc, app.Options{StartGame: startGame})
}
