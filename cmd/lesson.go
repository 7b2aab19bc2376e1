package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odysseyquest/odyssey/internal/content"
	"github.com/odysseyquest/odyssey/internal/curriculum"
	"github.com/odysseyquest/odyssey/internal/learner"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson",
	Short: "Generate a lesson and print it as markdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		subjectFlag, _ := cmd.Flags().GetString("subject")
		grade, _ := cmd.Flags().GetInt("grade")
		style, _ := cmd.Flags().GetString("style")
		save, _ := cmd.Flags().GetBool("save")

		subject, ok := curriculum.ParseSubject(subjectFlag)
		if !ok {
			return fmt.Errorf("unknown subject %q", subjectFlag)
		}
		if style != "" && !slices.Contains(content.LearningStyles, style) {
			return fmt.Errorf("unknown style %q (want %s)", style, strings.Join(content.LearningStyles, ", "))
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()

		// Unset flags fall back to the profile.
		u, err := e.learner.User(ctx)
		if err != nil {
			return err
		}
		if grade == 0 {
			grade = learner.DefaultGrade
			if u != nil {
				grade = u.Grade
			}
		}
		if style == "" {
			style = content.LearningStyles[0]
			if u != nil && slices.Contains(content.LearningStyles, u.Preferences.LearningStyle) {
				style = u.Preferences.LearningStyle
			}
		}

		gen, err := e.generator(e.provider(ctx), false)
		if err != nil {
			return err
		}
		ls, err := gen.GenerateLesson(ctx, content.LessonRequest{Subject: subject, Grade: grade, Style: style})
		if err != nil {
			return fmt.Errorf("generate lesson: %w", err)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, ls.Content)
		fmt.Fprintf(w, "\n---\nDuration: %s · Difficulty: %d/10", ls.Duration, ls.Difficulty)
		if ls.VideoID != "" {
			fmt.Fprintf(w, " · Video: %s", ls.VideoID)
		}
		fmt.Fprintln(w)

		if save {
			if _, err := e.learner.SaveForOffline(ctx, ls.ID, learner.OfflineContent{
				Kind:    learner.KindLesson,
				Subject: string(ls.Subject),
				Title:   ls.Title,
				Body:    ls.Content,
			}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Saved for offline reading.")
		}
		return nil
	},
}

func init() {
	lessonCmd.Flags().String("subject", string(curriculum.Math), "Subject: math, science, english or history")
	lessonCmd.Flags().Int("grade", 0, "Grade 6-12 (default: the profile's grade)")
	lessonCmd.Flags().String("style", "", "Learning style: visual, auditory, kinesthetic or reading")
	lessonCmd.Flags().Bool("save", false, "Also save the lesson for offline reading")
}
