package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/homesense/homesense/internal/graph"
	"github.com/homesense/homesense/internal/options"
	"github.com/homesense/homesense/internal/pathutil"
	"github.com/homesense/homesense/internal/ratelimit"
	"github.com/homesense/homesense/internal/suggestions"
	"github.com/homesense/homesense/internal/visualization"
)

const maxHintCount = 10

// registerTools registers all homesense MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "homesense_hint",
		Description: "Draw the next hint (problem or suggestion) for a sensor network scenario",
	}, s.handleHint)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "homesense_check",
		Description: "Evaluate a scenario against every achievement, unlock the satisfied ones and report coverage",
	}, s.handleCheck)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "homesense_achievements",
		Description: "List unlocked and locked achievements",
	}, s.handleAchievements)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "homesense_reset",
		Description: "Clear all unlocked achievements and the intro flag (requires confirm=true)",
	}, s.handleReset)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "homesense_protocols",
		Description: "Describe the link protocols and scalar game options",
	}, s.handleProtocols)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "homesense_graph",
		Description: "Render a scenario's sensor network as Graphviz DOT or JSON",
	}, s.handleGraph)
}

// logTool records a finished tool call at debug level.
func (s *Server) logTool(tool string, start time.Time, err error) {
	attrs := []any{"tool", tool, "duration_ms", time.Since(start).Milliseconds()}
	if err != nil {
		s.logger.Debug("tool call failed", append(attrs, "error", err)...)
		return
	}
	s.logger.Debug("tool call", attrs...)
}

// loadScenario validates path against the allowed directories and loads it.
func (s *Server) loadScenario(path string) (*graph.Scenario, error) {
	resolved, err := pathutil.ValidateScenario(path, s.scenarioDirs)
	if err != nil {
		return nil, err
	}
	return graph.LoadFile(resolved)
}

func (s *Server) handleHint(ctx context.Context, req *sdk.CallToolRequest, args HintInput) (_ *sdk.CallToolResult, _ HintOutput, retErr error) {
	start := time.Now()
	defer func() { s.logTool("homesense_hint", start, retErr) }()

	if err := ratelimit.CheckLimit(s.toolLimiters, "homesense_hint"); err != nil {
		return nil, HintOutput{}, err
	}

	count := args.Count
	if count <= 0 {
		count = 1
	}
	if count > maxHintCount {
		return nil, HintOutput{}, fmt.Errorf("count must be between 1 and %d, got %d", maxHintCount, count)
	}

	sc, err := s.loadScenario(args.Scenario)
	if err != nil {
		return nil, HintOutput{}, err
	}

	hints := make([]suggestions.Hint, 0, count)
	for range count {
		hints = append(hints, s.engine.Next(sc, sc))
	}

	problems := s.engine.ActiveProblems(sc)
	if problems == nil {
		problems = []string{}
	}
	return nil, HintOutput{
		Hints:    hints,
		Problems: problems,
		Pending:  len(s.engine.PendingSuggestions(sc)),
	}, nil
}

func (s *Server) handleCheck(ctx context.Context, req *sdk.CallToolRequest, args CheckInput) (_ *sdk.CallToolResult, _ CheckOutput, retErr error) {
	start := time.Now()
	defer func() { s.logTool("homesense_check", start, retErr) }()

	if err := ratelimit.CheckLimit(s.toolLimiters, "homesense_check"); err != nil {
		return nil, CheckOutput{}, err
	}

	sc, err := s.loadScenario(args.Scenario)
	if err != nil {
		return nil, CheckOutput{}, err
	}

	unlocked, err := s.tracker.Evaluate(ctx, sc, sc)
	if err != nil {
		return nil, CheckOutput{}, fmt.Errorf("saving progress: %w", err)
	}

	items := make([]AchievementItem, 0, len(unlocked))
	names := make([]string, 0, len(unlocked))
	for _, a := range unlocked {
		items = append(items, AchievementItem{Name: a.Name, Explanation: a.Explanation})
		names = append(names, a.Name)
	}

	done, total := s.tracker.Progress()
	message := fmt.Sprintf("No new achievements (%d/%d unlocked)", done, total)
	if len(names) > 0 {
		message = fmt.Sprintf("Unlocked %s (%d/%d unlocked)", strings.Join(names, ", "), done, total)
	}

	return nil, CheckOutput{
		Unlocked: items,
		Coverage: sc.Coverage(),
		Done:     done,
		Total:    total,
		Message:  message,
	}, nil
}

func (s *Server) handleAchievements(ctx context.Context, req *sdk.CallToolRequest, args AchievementsInput) (_ *sdk.CallToolResult, _ AchievementsOutput, retErr error) {
	start := time.Now()
	defer func() { s.logTool("homesense_achievements", start, retErr) }()

	if err := ratelimit.CheckLimit(s.toolLimiters, "homesense_achievements"); err != nil {
		return nil, AchievementsOutput{}, err
	}

	doneNames, notDone := s.tracker.Partition()
	done := make([]AchievementItem, 0, len(doneNames))
	for _, name := range doneNames {
		a, _ := s.catalog.FindByName(name)
		done = append(done, AchievementItem{Name: a.Name, Explanation: a.Explanation})
	}

	return nil, AchievementsOutput{
		Done:       done,
		NotDone:    notDone,
		Total:      s.catalog.Len(),
		IntroShown: s.tracker.HasShownIntro(ctx),
	}, nil
}

func (s *Server) handleReset(ctx context.Context, req *sdk.CallToolRequest, args ResetInput) (_ *sdk.CallToolResult, _ ResetOutput, retErr error) {
	start := time.Now()
	defer func() { s.logTool("homesense_reset", start, retErr) }()

	if !args.Confirm {
		return nil, ResetOutput{}, fmt.Errorf("reset requires confirm=true")
	}
	if err := ratelimit.CheckLimit(s.toolLimiters, "homesense_reset"); err != nil {
		return nil, ResetOutput{}, err
	}

	cleared, _ := s.tracker.Progress()
	if err := s.tracker.Reset(ctx); err != nil {
		return nil, ResetOutput{}, err
	}

	return nil, ResetOutput{
		Cleared: cleared,
		Message: fmt.Sprintf("Cleared %d achievement(s)", cleared),
	}, nil
}

func (s *Server) handleProtocols(ctx context.Context, req *sdk.CallToolRequest, args ProtocolsInput) (_ *sdk.CallToolResult, _ ProtocolsOutput, retErr error) {
	start := time.Now()
	defer func() { s.logTool("homesense_protocols", start, retErr) }()

	if err := ratelimit.CheckLimit(s.toolLimiters, "homesense_protocols"); err != nil {
		return nil, ProtocolsOutput{}, err
	}

	if args.Name != "" {
		p, ok := options.ProtocolByName(args.Name)
		if !ok {
			return nil, ProtocolsOutput{}, fmt.Errorf("unknown protocol: %s", args.Name)
		}
		return nil, ProtocolsOutput{Protocols: []ProtocolItem{protocolItem(p)}}, nil
	}

	all := options.Protocols()
	items := make([]ProtocolItem, 0, len(all))
	for _, p := range all {
		items = append(items, protocolItem(p))
	}

	opts := make(map[string]int)
	for _, name := range options.OptionNames() {
		opts[name], _ = options.Option(name)
	}

	return nil, ProtocolsOutput{Protocols: items, Options: opts}, nil
}

func protocolItem(p options.Protocol) ProtocolItem {
	return ProtocolItem{
		Nm:          p.Nm,
		Name:        p.Name,
		Color:       p.Color,
		RangePixels: p.Range,
		RangeMeters: p.RangeMeters(),
	}
}

func (s *Server) handleGraph(ctx context.Context, req *sdk.CallToolRequest, args GraphInput) (_ *sdk.CallToolResult, _ GraphOutput, retErr error) {
	start := time.Now()
	defer func() { s.logTool("homesense_graph", start, retErr) }()

	if err := ratelimit.CheckLimit(s.toolLimiters, "homesense_graph"); err != nil {
		return nil, GraphOutput{}, err
	}

	format := args.Format
	if format == "" {
		format = "dot"
	}
	if format != "dot" && format != "json" {
		return nil, GraphOutput{}, fmt.Errorf("invalid format %q (valid: dot, json)", format)
	}

	sc, err := s.loadScenario(args.Scenario)
	if err != nil {
		return nil, GraphOutput{}, err
	}

	if format == "json" {
		return nil, GraphOutput{Format: format, Graph: visualization.RenderJSON(sc)}, nil
	}
	return nil, GraphOutput{Format: format, DOT: visualization.RenderDOT(sc)}, nil
}
