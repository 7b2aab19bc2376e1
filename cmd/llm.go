package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odysseyquest/odyssey/internal/learner"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the LLM request log",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		// Filter before limiting so --purpose still shows up to --limit rows.
		all, err := e.learner.LLMRequests(cmd.Context(), 0)
		if err != nil {
			return fmt.Errorf("query requests: %w", err)
		}
		var reqs []learner.LLMRequest
		for _, r := range all {
			if purpose != "" && r.Purpose != purpose {
				continue
			}
			reqs = append(reqs, r)
			if limit > 0 && len(reqs) == limit {
				break
			}
		}

		w := cmd.OutOrStdout()
		if len(reqs) == 0 {
			fmt.Fprintln(w, "No LLM requests found.")
			return nil
		}

		fmt.Fprintf(w, "%-5s  %-19s  %-12s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Fprintln(w, strings.Repeat("─", 100))
		for _, r := range reqs {
			ok := "✓"
			if !r.Success {
				ok = "✗"
			}
			fmt.Fprintf(w, "%-5d  %-19s  %-12s  %-28s  %-6d  %-6d  %-7d  %s\n",
				r.ID,
				r.Timestamp.Local().Format("2006-01-02 15:04:05"),
				r.Purpose,
				truncate(r.Model, 28),
				r.InputTokens,
				r.OutputTokens,
				r.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View the full request and response of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		r, err := e.learner.LLMRequest(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get request: %w", err)
		}
		if r == nil {
			return fmt.Errorf("request %d not found", id)
		}

		w := cmd.OutOrStdout()
		sep := strings.Repeat("─", 60)
		fmt.Fprintf(w, "ID:        %d\n", r.ID)
		fmt.Fprintf(w, "Time:      %s\n", r.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "Provider:  %s\n", r.Provider)
		fmt.Fprintf(w, "Model:     %s\n", r.Model)
		fmt.Fprintf(w, "Purpose:   %s\n", r.Purpose)
		fmt.Fprintf(w, "Tokens:    %d in / %d out\n", r.InputTokens, r.OutputTokens)
		fmt.Fprintf(w, "Latency:   %dms\n", r.LatencyMs)
		if r.Cost > 0 {
			fmt.Fprintf(w, "Cost:      %s\n", formatCost(r.Cost))
		}
		fmt.Fprintf(w, "Success:   %v\n", r.Success)
		if r.Error != "" {
			fmt.Fprintf(w, "Error:     %s\n", r.Error)
		}

		for _, part := range []struct{ title, body string }{
			{"REQUEST", r.Request},
			{"RESPONSE", r.Response},
		} {
			fmt.Fprintln(w)
			fmt.Fprintln(w, sep)
			fmt.Fprintln(w, part.title)
			fmt.Fprintln(w, sep)
			if part.body == "" {
				fmt.Fprintln(w, "(not captured)")
			} else {
				fmt.Fprintln(w, part.body)
			}
		}
		return nil
	},
}

// usage aggregates requests sharing a purpose or model.
type usage struct {
	name      string
	calls     int
	in, out   int
	latencyMs int64
	cost      float64
	unpriced  bool
}

// aggregate groups reqs by key, sorted by name.
func aggregate(reqs []learner.LLMRequest, key func(learner.LLMRequest) string) []usage {
	by := map[string]*usage{}
	for _, r := range reqs {
		k := key(r)
		u, ok := by[k]
		if !ok {
			u = &usage{name: k}
			by[k] = u
		}
		u.calls++
		u.in += r.InputTokens
		u.out += r.OutputTokens
		u.latencyMs += r.LatencyMs
		u.cost += r.Cost
		if r.Cost == 0 && r.InputTokens+r.OutputTokens > 0 {
			u.unpriced = true
		}
	}
	out := make([]usage, 0, len(by))
	for _, u := range by {
		out = append(out, *u)
	}
	slices.SortFunc(out, func(a, b usage) int { return strings.Compare(a.name, b.name) })
	return out
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		reqs, err := e.learner.LLMRequests(cmd.Context(), 0)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		w := cmd.OutOrStdout()
		if len(reqs) == 0 {
			fmt.Fprintln(w, "No LLM usage recorded yet.")
			return nil
		}

		rule := strings.Repeat("─", 72)
		fmt.Fprintln(w, "Usage by Purpose")
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "%-16s  %6s  %10s  %10s  %10s  %8s\n",
			"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
		fmt.Fprintln(w, rule)
		var totalCalls, totalIn, totalOut int
		for _, u := range aggregate(reqs, func(r learner.LLMRequest) string { return r.Purpose }) {
			fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
				u.name, u.calls, u.in, u.out, u.in+u.out, u.latencyMs/int64(u.calls))
			totalCalls += u.calls
			totalIn += u.in
			totalOut += u.out
		}
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d\n",
			"TOTAL", totalCalls, totalIn, totalOut, totalIn+totalOut)

		fmt.Fprintln(w)
		fmt.Fprintln(w, "Estimated Cost (USD)")
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n",
			"Model", "Calls", "Input", "Output", "Cost")
		fmt.Fprintln(w, rule)
		var totalCost float64
		var unknown []string
		for _, u := range aggregate(reqs, func(r learner.LLMRequest) string { return r.Model }) {
			cost := formatCost(u.cost)
			if u.unpriced {
				unknown = append(unknown, u.name)
				cost = "?"
			}
			totalCost += u.cost
			fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
				truncate(u.name, 32), u.calls, u.in, u.out, cost)
		}
		fmt.Fprintln(w, rule)
		label := "TOTAL"
		if len(unknown) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(totalCost))
		if len(unknown) > 0 {
			fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
		}
		return nil
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. question-gen, lesson, tutor)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
