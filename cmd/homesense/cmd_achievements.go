package main

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/homesense/homesense/internal/achievements"
	"github.com/homesense/homesense/internal/graph"
)

func newAchievementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "achievements",
		Aliases: []string{"ach"},
		Short:   "List, inspect, check and reset achievements",
		Long: `Manage the player's achievements.

Examples:
  homesense achievements list
  homesense achievements show "Sleep monitoring"
  homesense achievements check --scenario house.yaml
  homesense achievements reset --yes`,
	}

	cmd.AddCommand(
		newAchievementsListCmd(),
		newAchievementsShowCmd(),
		newAchievementsCheckCmd(),
		newAchievementsResetCmd(),
	)
	return cmd
}

func newAchievementsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List unlocked and locked achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			done, notDone := a.tracker.Partition()
			out := cmd.OutOrStdout()
			if jsonFlag(cmd) {
				return json.NewEncoder(out).Encode(map[string]interface{}{
					"done":        done,
					"not_done":    notDone,
					"total":       a.catalog.Len(),
					"intro_shown": a.tracker.HasShownIntro(cmd.Context()),
				})
			}

			fmt.Fprintf(out, "Achievements (%d/%d unlocked):\n", len(done), a.catalog.Len())
			for _, name := range done {
				fmt.Fprintf(out, "  [x] %s\n", name)
			}
			for _, name := range notDone {
				fmt.Fprintf(out, "  [ ] %s\n", name)
			}
			return nil
		},
	}
}

func newAchievementsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show an achievement and whether it is unlocked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ach, ok := a.catalog.FindByName(args[0])
			// Locked hidden achievements stay secret.
			if !ok || (ach.Hidden && !a.tracker.IsDone(ach.Name)) {
				return unknownAchievementError(a.catalog, args[0])
			}
			unlocked := a.tracker.IsDone(ach.Name)

			out := cmd.OutOrStdout()
			if jsonFlag(cmd) {
				return json.NewEncoder(out).Encode(map[string]interface{}{
					"name":        ach.Name,
					"explanation": ach.Explanation,
					"hidden":      ach.Hidden,
					"unlocked":    unlocked,
				})
			}

			status := "locked"
			if unlocked {
				status = "unlocked"
			}
			fmt.Fprintf(out, "%s (%s)\n", ach.Name, status)
			fmt.Fprintf(out, "  %s\n", ach.Explanation)
			return nil
		},
	}
}

// unknownAchievementError reports an unknown name with close matches.
func unknownAchievementError(catalog *achievements.Catalog, name string) error {
	suggestions := catalog.Suggest(name)
	if len(suggestions) == 0 {
		return fmt.Errorf("unknown achievement: %q", name)
	}
	return fmt.Errorf("unknown achievement: %q (did you mean %s?)", name, quoteJoin(suggestions))
}

func quoteJoin(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(quoted, ", ")
}

func newAchievementsCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate a scenario and unlock satisfied achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarioPath, _ := cmd.Flags().GetString("scenario")

			sc, err := graph.LoadFile(scenarioPath)
			if err != nil {
				return err
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			unlocked, err := a.tracker.Evaluate(cmd.Context(), sc, sc)
			if err != nil {
				return fmt.Errorf("failed to save progress: %w", err)
			}

			names := make([]string, 0, len(unlocked))
			for _, ach := range unlocked {
				names = append(names, ach.Name)
			}
			coverage := sc.Coverage()
			doneCount, total := a.tracker.Progress()

			out := cmd.OutOrStdout()
			if jsonFlag(cmd) {
				return json.NewEncoder(out).Encode(map[string]interface{}{
					"unlocked": names,
					"coverage": coverage,
					"done":     doneCount,
					"total":    total,
				})
			}

			if len(unlocked) == 0 {
				fmt.Fprintln(out, "No new achievements.")
			}
			for _, ach := range unlocked {
				fmt.Fprintf(out, "Unlocked: %s\n  %s\n", ach.Name, ach.Explanation)
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Coverage:")
			modalities := make([]string, 0, len(coverage))
			for m := range coverage {
				modalities = append(modalities, m)
			}
			slices.Sort(modalities)
			for _, m := range modalities {
				fmt.Fprintf(out, "  %-14s %3d%%\n", m, coverage[m])
			}
			fmt.Fprintf(out, "\n%d/%d achievements unlocked\n", doneCount, total)
			return nil
		},
	}

	cmd.Flags().String("scenario", "", "Scenario file (.yaml or .json)")
	cmd.MarkFlagRequired("scenario")
	return cmd
}

func newAchievementsResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear all unlocked achievements and the intro flag",
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return fmt.Errorf("refusing to reset progress without --yes")
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			cleared, _ := a.tracker.Progress()
			if err := a.tracker.Reset(cmd.Context()); err != nil {
				return fmt.Errorf("failed to reset progress: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonFlag(cmd) {
				return json.NewEncoder(out).Encode(map[string]interface{}{
					"status":  "reset",
					"cleared": cleared,
				})
			}
			fmt.Fprintf(out, "Progress reset (%d achievement(s) cleared)\n", cleared)
			return nil
		},
	}

	cmd.Flags().Bool("yes", false, "Confirm the reset")
	return cmd
}
