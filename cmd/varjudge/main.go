package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fwojciec/varjudge"
	"github.com/fwojciec/varjudge/agent"
	"github.com/fwojciec/varjudge/bubbletea"
	"github.com/fwojciec/varjudge/config"
	"github.com/fwojciec/varjudge/fs"
	"github.com/fwojciec/varjudge/gemini"
	"github.com/fwojciec/varjudge/httpapi"
	"github.com/fwojciec/varjudge/judge"
	"github.com/fwojciec/varjudge/workspace"
)

// ErrNoOriginal is returned when no original root is configured.
var ErrNoOriginal = errors.New("no original root: use -original or varjudge.yaml")

// ErrNoVariations is returned when no variation roots are configured.
var ErrNoVariations = errors.New("no variations: use -var id=path or varjudge.yaml")

const usage = `usage: varjudge <command> [flags]

Commands:
  judge    Compare variations of a codebase against the original
  serve    Stream judging runs over HTTP server-sent events
  clone    Create variation copies of the original tree
  promote  Copy a variation's changes back onto the original`

// variationFlags collects repeatable -var id=path flags into a map.
type variationFlags map[string]string

func (v variationFlags) String() string {
	parts := make([]string, 0, len(v))
	for id, path := range v {
		parts = append(parts, id+"="+path)
	}
	return strings.Join(parts, ",")
}

func (v variationFlags) Set(value string) error {
	id, path, ok := strings.Cut(value, "=")
	if !ok || id == "" || path == "" {
		return fmt.Errorf("expected id=path, got %q", value)
	}
	v[id] = path
	return nil
}

// JudgeApp encapsulates a judging run for testing.
type JudgeApp struct {
	Agent      varjudge.Agent
	Differ     varjudge.VariationDiffer
	Original   string
	Variations map[string]string
	Options    []judge.Option
}

func (a *JudgeApp) gather(ctx context.Context) ([]varjudge.VariationDiffs, error) {
	if a.Original == "" {
		return nil, ErrNoOriginal
	}
	if len(a.Variations) == 0 {
		return nil, ErrNoVariations
	}
	return judge.GatherDiffs(ctx, a.Differ, a.Original, a.Variations)
}

// Run gathers diffs and executes the full judging pipeline.
func (a *JudgeApp) Run(ctx context.Context) (*varjudge.JudgeResult, error) {
	diffs, err := a.gather(ctx)
	if err != nil {
		return nil, err
	}
	return judge.New(a.Agent, a.Options...).Run(ctx, diffs)
}

// Stream gathers diffs and returns a channel of progress snapshots for the
// TUI and the HTTP API.
func (a *JudgeApp) Stream(ctx context.Context) (<-chan varjudge.JudgeProgress, error) {
	diffs, err := a.gather(ctx)
	if err != nil {
		return nil, err
	}
	return judge.New(a.Agent, a.Options...).Stream(ctx, diffs), nil
}

// WriteResult renders a result as text or JSON.
func WriteResult(w io.Writer, result *varjudge.JudgeResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Fprintf(w, "Winner: %s\n\n", result.Winner)
	for _, r := range result.Rankings {
		fmt.Fprintf(w, "%d. %s  avg %.2f  wins %d\n", r.Rank, r.Variation, r.AvgScore, r.FileWins)
	}
	if result.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", result.Summary)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return errors.New(usage)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch os.Args[1] {
	case "judge":
		return runJudge(ctx, os.Args[2:])
	case "serve":
		return runServe(ctx, os.Args[2:])
	case "clone":
		return runClone(ctx, os.Args[2:])
	case "promote":
		return runPromote(ctx, os.Args[2:])
	default:
		return fmt.Errorf("unknown command %q\n\n%s", os.Args[1], usage)
	}
}

// judgeConfig is the merged flag/file configuration for a judging run.
type judgeConfig struct {
	original       string
	variations     map[string]string
	agentName      string
	fastModel      string
	synthesisModel string
	batchSize      int
}

// mergeConfig overlays flag values on top of the project file. Flags win.
func mergeConfig(project *config.Project, flags judgeConfig) judgeConfig {
	merged := judgeConfig{
		original:       project.Original,
		variations:     project.Variations,
		agentName:      project.Agent,
		fastModel:      project.FastModel,
		synthesisModel: project.SynthesisModel,
		batchSize:      project.BatchSize,
	}
	if flags.original != "" {
		merged.original = flags.original
	}
	if len(flags.variations) > 0 {
		merged.variations = flags.variations
	}
	if flags.agentName != "" {
		merged.agentName = flags.agentName
	}
	if flags.fastModel != "" {
		merged.fastModel = flags.fastModel
	}
	if flags.synthesisModel != "" {
		merged.synthesisModel = flags.synthesisModel
	}
	if flags.batchSize > 0 {
		merged.batchSize = flags.batchSize
	}
	return merged
}

// selectAgent resolves the configured agent name into a reasoning agent and
// fills in the agent's default model tiers when none are configured.
func selectAgent(ctx context.Context, cfg *judgeConfig) (varjudge.Agent, error) {
	if cfg.agentName == "api" {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, errors.New("GEMINI_API_KEY environment variable required for -agent api")
		}
		client, err := gemini.NewClient(ctx, apiKey)
		if err != nil {
			return nil, fmt.Errorf("creating Gemini client: %w", err)
		}
		if cfg.fastModel == "" {
			cfg.fastModel = gemini.DefaultFastModel
		}
		if cfg.synthesisModel == "" {
			cfg.synthesisModel = gemini.DefaultSynthesisModel
		}
		return gemini.NewAgent(client), nil
	}

	caps := agent.Detect(nil)
	var tool agent.Tool
	if cfg.agentName == "" {
		first, err := caps.First()
		if err != nil {
			return nil, err
		}
		tool = first
	} else {
		named, ok := caps.Named(cfg.agentName)
		if !ok {
			return nil, fmt.Errorf("agent %q not found on PATH", cfg.agentName)
		}
		tool = named
	}
	if cfg.fastModel == "" {
		cfg.fastModel = tool.FastModel
	}
	if cfg.synthesisModel == "" {
		cfg.synthesisModel = tool.SynthesisModel
	}
	return agent.NewRunner(tool), nil
}

func runJudge(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("judge", flag.ExitOnError)
	configPath := fset.String("config", config.DefaultPath, "Project configuration file")
	original := fset.String("original", "", "Path to the original tree")
	vars := variationFlags{}
	fset.Var(vars, "var", "Variation as id=path (repeatable)")
	agentName := fset.String("agent", "", "Reasoning agent: claude, codex, gemini or api")
	fastModel := fset.String("fast-model", "", "Model for per-file evaluation")
	synthesisModel := fset.String("synthesis-model", "", "Model for the final synthesis")
	batchSize := fset.Int("batch-size", 0, "Files evaluated per agent call")
	asJSON := fset.Bool("json", false, "Write the result as JSON")
	tui := fset.Bool("tui", false, "Show an interactive progress view")
	if err := fset.Parse(args); err != nil {
		return err
	}

	project, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	cfg := mergeConfig(project, judgeConfig{
		original:       *original,
		variations:     vars,
		agentName:      *agentName,
		fastModel:      *fastModel,
		synthesisModel: *synthesisModel,
		batchSize:      *batchSize,
	})

	runAgent, err := selectAgent(ctx, &cfg)
	if err != nil {
		return err
	}

	app := &JudgeApp{
		Agent:      runAgent,
		Differ:     fs.NewDiffer(),
		Original:   cfg.original,
		Variations: cfg.variations,
		Options: []judge.Option{
			judge.WithModels(cfg.fastModel, cfg.synthesisModel),
			judge.WithBatchSize(cfg.batchSize),
		},
	}

	if *tui {
		ch, err := app.Stream(ctx)
		if err != nil {
			return err
		}
		return bubbletea.Run(ctx, ch)
	}

	result, err := app.Run(ctx)
	if err != nil {
		return err
	}
	return WriteResult(os.Stdout, result, *asJSON)
}

func runServe(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fset.String("addr", ":8689", "Listen address")
	configPath := fset.String("config", config.DefaultPath, "Project configuration file")
	if err := fset.Parse(args); err != nil {
		return err
	}

	project, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	cfg := mergeConfig(project, judgeConfig{})

	runAgent, err := selectAgent(ctx, &cfg)
	if err != nil {
		return err
	}

	server := httpapi.NewServer(func(ctx context.Context) (<-chan varjudge.JudgeProgress, error) {
		app := &JudgeApp{
			Agent:      runAgent,
			Differ:     fs.NewDiffer(),
			Original:   cfg.original,
			Variations: cfg.variations,
			Options: []judge.Option{
				judge.WithModels(cfg.fastModel, cfg.synthesisModel),
				judge.WithBatchSize(cfg.batchSize),
			},
		}
		return app.Stream(ctx)
	})

	srv := &http.Server{Addr: *addr, Handler: server.Handler()}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	fmt.Fprintf(os.Stderr, "listening on %s\n", *addr)
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// CloneApp creates variation workspaces and reports their paths.
type CloneApp struct {
	Workspace varjudge.Workspace
	Original  string
	N         int
	Out       io.Writer
}

func (a *CloneApp) Run(ctx context.Context) error {
	paths, err := a.Workspace.Clone(ctx, a.Original, a.N)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(a.Out, p)
	}
	return nil
}

// PromoteApp copies a variation's changes back over the original.
type PromoteApp struct {
	Workspace varjudge.Workspace
	Original  string
	Variation string
}

func (a *PromoteApp) Run(ctx context.Context) error {
	return a.Workspace.Promote(ctx, a.Original, a.Variation)
}

func runClone(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("clone", flag.ExitOnError)
	n := fset.Int("n", 2, "Number of variation copies to create")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if fset.NArg() < 1 {
		return errors.New("usage: varjudge clone [-n N] <original>")
	}

	app := &CloneApp{
		Workspace: workspace.NewManager(),
		Original:  fset.Arg(0),
		N:         *n,
		Out:       os.Stdout,
	}
	return app.Run(ctx)
}

func runPromote(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("promote", flag.ExitOnError)
	if err := fset.Parse(args); err != nil {
		return err
	}
	if fset.NArg() < 2 {
		return errors.New("usage: varjudge promote <original> <variation>")
	}

	app := &PromoteApp{
		Workspace: workspace.NewManager(),
		Original:  fset.Arg(0),
		Variation: fset.Arg(1),
	}
	return app.Run(ctx)
}
