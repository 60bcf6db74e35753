package main

import (
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/homesense/homesense/internal/graph"
	"github.com/homesense/homesense/internal/suggestions"
)

const maxHintCount = 10

func newHintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hint",
		Short: "Show the next hint for a scenario",
		Long: `Draw hints for a sensor network scenario, as the editor would.

Half of the time an active problem with the design is reported first;
otherwise one of the pending suggestions is picked. Set hints.seed in the
config (or HOMESENSE_SEED) for a repeatable sequence.

Examples:
  homesense hint --scenario house.yaml
  homesense hint --scenario house.yaml --count 3 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarioPath, _ := cmd.Flags().GetString("scenario")
			count, _ := cmd.Flags().GetInt("count")
			if count < 1 || count > maxHintCount {
				return fmt.Errorf("--count must be between 1 and %d", maxHintCount)
			}

			sc, err := graph.LoadFile(scenarioPath)
			if err != nil {
				return err
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			hints := make([]suggestions.Hint, 0, count)
			for range count {
				hints = append(hints, a.engine.Next(sc, sc))
			}

			out := cmd.OutOrStdout()
			if jsonFlag(cmd) {
				return json.NewEncoder(out).Encode(map[string]interface{}{
					"hints":    hints,
					"problems": a.engine.ActiveProblems(sc),
					"pending":  len(a.engine.PendingSuggestions(sc)),
				})
			}

			for i, h := range hints {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "[%s] %s\n", h.Type, plainText(h.Text))
			}
			return nil
		},
	}

	cmd.Flags().String("scenario", "", "Scenario file (.yaml or .json)")
	cmd.Flags().Int("count", 1, "Number of hints to draw")
	cmd.MarkFlagRequired("scenario")
	return cmd
}

var (
	lineBreakTag = regexp.MustCompile(`(?i)<br\s*/?>`)
	listItemTag  = regexp.MustCompile(`(?i)<li>\s*`)
	anyTag       = regexp.MustCompile(`<[^>]+>`)
)

// plainText renders hint markup for a terminal.
func plainText(s string) string {
	s = lineBreakTag.ReplaceAllString(s, "\n")
	s = listItemTag.ReplaceAllString(s, "\n  - ")
	s = anyTag.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}
