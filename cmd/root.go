package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "odyssey",
	Short: "Learning adventures in your terminal",
	Long:  "OdysseyQuest turns school subjects into quiz games, lessons and a chat tutor for grades 6-12.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to the SQLite database file (overrides ODYSSEY_DB)")
	rootCmd.PersistentFlags().String("config", "", "Path to the config file (default $XDG_CONFIG_HOME/odyssey/config.yaml)")
	rootCmd.PersistentFlags().String("store", "", "Storage backend: sqlite, redis or memory")
	rootCmd.PersistentFlags().Bool("quiet", false, "Disable the log file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(lessonCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
