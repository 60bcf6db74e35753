package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homesense/homesense/internal/graph"
	"github.com/homesense/homesense/internal/visualization"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render a scenario's sensor network",
		Long: `Render the sensor network of a scenario for visualization.

Output formats:
  dot   Graphviz DOT (pipe to 'dot -Tpng' for an image)
  json  Nodes and links as JSON

Examples:
  homesense graph --scenario house.yaml | dot -Tsvg > house.svg
  homesense graph --scenario house.yaml --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarioPath, _ := cmd.Flags().GetString("scenario")
			format, _ := cmd.Flags().GetString("format")
			if jsonFlag(cmd) {
				format = "json"
			}

			sc, err := graph.LoadFile(scenarioPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "dot":
				fmt.Fprint(out, visualization.RenderDOT(sc))
				return nil
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(visualization.RenderJSON(sc))
			default:
				return fmt.Errorf("unknown format: %s (valid: dot, json)", format)
			}
		},
	}

	cmd.Flags().String("scenario", "", "Scenario file (.yaml or .json)")
	cmd.Flags().String("format", "dot", "Output format: dot, json")
	cmd.MarkFlagRequired("scenario")
	return cmd
}
