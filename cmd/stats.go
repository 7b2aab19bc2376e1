package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odysseyquest/odyssey/internal/curriculum"
	"github.com/odysseyquest/odyssey/internal/insights"
	"github.com/odysseyquest/odyssey/internal/rewards"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		tfFlag, _ := cmd.Flags().GetString("timeframe")
		tf, err := insights.ParseTimeframe(tfFlag)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()

		d, err := insights.NewService(e.learner, e.log, nil).Dashboard(ctx, tf)
		if err != nil {
			return err
		}
		usage, err := e.learner.StorageUsage(ctx)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		sep := strings.Repeat("─", 48)
		if d.User == nil {
			fmt.Fprintln(w, "No profile yet. Run odyssey to get started.")
		} else {
			fmt.Fprintf(w, "%s · Grade %d · %s\n", d.User.Name, d.User.Grade, d.User.Language)
			fmt.Fprintf(w, "Coins: %d   Logins: %d\n", d.User.Coins, d.User.TotalLogins)
		}
		fmt.Fprintf(w, "Overall: %.0f%%\n\n", d.Progress.OverallPerformance()*100)

		fmt.Fprintln(w, "Subjects")
		fmt.Fprintln(w, sep)
		names := make([]string, 0, len(d.Performance))
		for name := range d.Performance {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			sp := d.Progress.Subjects[name]
			fmt.Fprintf(w, "%-10s %4d%%  %3d games  best %3.0f%%\n",
				curriculum.Subject(name).DisplayName(), d.Performance[name], sp.TotalGames, sp.BestScore*100)
		}
		if len(names) == 0 {
			fmt.Fprintln(w, "(nothing played yet)")
		}

		fmt.Fprintf(w, "\n%s\n%s\n", tf.DisplayName(), sep)
		fmt.Fprintf(w, "Time studied:  %s\n", d.Summary.TimeLabel())
		fmt.Fprintf(w, "Lessons:       %d\n", d.Summary.LessonsCompleted)
		fmt.Fprintf(w, "Games played:  %d\n", d.Summary.GamesPlayed)
		fmt.Fprintf(w, "Improvement:   %s\n", d.Summary.ImprovementLabel())

		in := d.Insights
		fmt.Fprintf(w, "\nStrengths:     %s\n", strings.Join(in.Strengths, ", "))
		fmt.Fprintf(w, "To work on:    %s\n", strings.Join(in.Weaknesses, ", "))
		fmt.Fprintf(w, "Pace:          %s\n", in.LearningPace.DisplayName())
		fmt.Fprintln(w, "Recommendations:")
		for _, r := range in.Recommendations {
			fmt.Fprintf(w, "  - %s\n", r)
		}

		fmt.Fprintf(w, "\nAchievements\n%s\n", sep)
		for _, a := range d.Achievements {
			id := rewards.AchievementID(a.ID)
			fmt.Fprintf(w, "%s %-16s %s\n", id.Icon(), id.DisplayName(), a.UnlockedAt.Local().Format("2006-01-02"))
		}
		if len(d.Achievements) == 0 {
			fmt.Fprintln(w, "(none yet)")
		}

		fmt.Fprintf(w, "\nStorage: %.2f MB\n", usage.Megabytes)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringP("timeframe", "t", string(insights.Week), "Report window: week, month or all")
}
