package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/homesense/homesense/internal/constants"
	"github.com/homesense/homesense/internal/options"
)

func newProtocolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "protocols",
		Short: "Describe the link protocols available in the editor",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List protocols in display order",
			RunE: func(cmd *cobra.Command, args []string) error {
				protocols := options.Protocols()
				out := cmd.OutOrStdout()
				if jsonFlag(cmd) {
					return json.NewEncoder(out).Encode(protocols)
				}

				fmt.Fprintf(out, "%-8s %-10s %-9s %s\n", "NM", "RANGE", "COLOR", "NAME")
				for _, p := range protocols {
					fmt.Fprintf(out, "%-8s %-10s %-9s %s\n", p.Nm, formatRange(p), p.Color, p.Name)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <nm>",
			Short: "Show a protocol by its short code",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, ok := options.ProtocolByName(args[0])
				if !ok {
					if near := closestProtocol(args[0]); near != "" {
						return fmt.Errorf("unknown protocol: %q (did you mean %q?)", args[0], near)
					}
					return fmt.Errorf("unknown protocol: %q", args[0])
				}

				out := cmd.OutOrStdout()
				if jsonFlag(cmd) {
					return json.NewEncoder(out).Encode(p)
				}
				writeProtocol(out, p)
				return nil
			},
		},
	)
	return cmd
}

func formatRange(p options.Protocol) string {
	return humanize.Ftoa(p.RangeMeters()) + " m"
}

func writeProtocol(w io.Writer, p options.Protocol) {
	fmt.Fprintf(w, "%s: %s\n", p.Nm, p.Name)
	fmt.Fprintf(w, "  Range: %s (%s px)\n", formatRange(p), humanize.Comma(int64(p.Range)))
	fmt.Fprintf(w, "  Color: %s\n", p.Color)
}

// closestProtocol returns the protocol code nearest to nm by edit distance,
// or "" when none is close enough.
func closestProtocol(nm string) string {
	query := strings.ToLower(nm)
	best, bestDist := "", constants.MaxFuzzyDistance+1
	for _, p := range options.Protocols() {
		d := levenshtein.ComputeDistance(query, strings.ToLower(p.Nm))
		if d < bestDist {
			best, bestDist = p.Nm, d
		}
	}
	return best
}

func newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Show the scalar game options",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := options.OptionNames()
			values := make(map[string]int, len(names))
			for _, name := range names {
				values[name], _ = options.Option(name)
			}

			out := cmd.OutOrStdout()
			if jsonFlag(cmd) {
				return json.NewEncoder(out).Encode(values)
			}

			width := 0
			for _, name := range names {
				width = max(width, len(name))
			}
			for _, name := range names {
				fmt.Fprintf(out, "%-*s  %s\n", width, name, humanize.Comma(int64(values[name])))
			}
			return nil
		},
	}
}
