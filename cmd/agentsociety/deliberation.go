package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentsociety/brain"
	"github.com/hupe1980/agentsociety/core"
	"github.com/hupe1980/agentsociety/deliberation"
	"github.com/hupe1980/agentsociety/logging"
	"github.com/hupe1980/agentsociety/tool"
)

// namedEntry is a peer given on the command line.
type namedEntry struct{ name, instruction string }

func (e namedEntry) Name() string        { return e.name }
func (e namedEntry) Instruction() string { return e.instruction }
func (e namedEntry) Port() int           { return 0 }

// rosterFlags builds a deliberation.Roster from repeated name=instruction
// flags.
type rosterFlags struct {
	friends []string
	tools   []string
}

func (f *rosterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.friends, "friend", nil, "peer as name=instruction (repeatable)")
	cmd.Flags().StringArrayVar(&f.tools, "tool", nil, "tool as name=instruction (repeatable)")
}

type roster struct {
	peers *core.PeerTable
	tools *tool.Table
}

func (r roster) Peers() *core.PeerTable { return r.peers }
func (r roster) Tools() *tool.Table     { return r.tools }

func (f *rosterFlags) roster() (roster, error) {
	r := roster{peers: core.NewPeerTable(), tools: tool.NewTable()}
	for _, raw := range f.friends {
		e, err := parseEntry(raw)
		if err != nil {
			return r, fmt.Errorf("--friend: %w", err)
		}
		r.peers.Add(e)
	}
	for _, raw := range f.tools {
		e, err := parseEntry(raw)
		if err != nil {
			return r, fmt.Errorf("--tool: %w", err)
		}
		spec := tool.Spec{ToolName: e.name, ToolInstruction: e.instruction}
		if err := spec.Validate(); err != nil {
			return r, fmt.Errorf("--tool: %w", err)
		}
		r.tools.Add(spec)
	}
	return r, nil
}

func parseEntry(raw string) (namedEntry, error) {
	name, instruction, ok := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return namedEntry{}, fmt.Errorf("%q is not name=instruction", raw)
	}
	return namedEntry{name: name, instruction: strings.TrimSpace(instruction)}, nil
}

// optimizeFlags collects the optimizer context.
type optimizeFlags struct {
	rosterFlags
	request string
	plans   []string
}

func (f *optimizeFlags) register(cmd *cobra.Command) {
	f.rosterFlags.register(cmd)
	cmd.Flags().StringVar(&f.request, "request", "", "request the plans must satisfy (required)")
	cmd.Flags().StringArrayVar(&f.plans, "plan", nil, "one single-line plan (repeatable, in order)")
	cmd.MarkFlagRequired("request")
}

func (f *optimizeFlags) input() (deliberation.OptimizeInput, error) {
	r, err := f.roster()
	if err != nil {
		return deliberation.OptimizeInput{}, err
	}
	plans := make([]core.Plan, len(f.plans))
	for i, p := range f.plans {
		plans[i] = core.Plan(p)
	}
	return deliberation.OptimizeInput{Agent: r, Request: f.request, Plans: plans}, nil
}

// reviewFlags collects the reviewer context.
type reviewFlags struct {
	rosterFlags
	plan        string
	actionType  string
	actionName  string
	instruction string
	extra       string
	result      string
}

func (f *reviewFlags) register(cmd *cobra.Command) {
	f.rosterFlags.register(cmd)
	cmd.Flags().StringVar(&f.plan, "plan", "", "plan under review (required)")
	cmd.Flags().StringVar(&f.actionType, "action-type", "", "Invite, Talk, Build or Use (required)")
	cmd.Flags().StringVar(&f.actionName, "action-name", "", "peer, tool or invitee name")
	cmd.Flags().StringVar(&f.instruction, "instruction", "", "action instruction")
	cmd.Flags().StringVar(&f.extra, "extra", "", "action extra")
	cmd.Flags().StringVar(&f.result, "result", "", "textual result of the action")
	cmd.MarkFlagRequired("plan")
	cmd.MarkFlagRequired("action-type")
}

func (f *reviewFlags) input() (deliberation.ReviewInput, error) {
	r, err := f.roster()
	if err != nil {
		return deliberation.ReviewInput{}, err
	}
	kind, err := core.ParseActionKind(f.actionType)
	if err != nil {
		return deliberation.ReviewInput{}, err
	}
	return deliberation.ReviewInput{
		Agent: r,
		Plan:  core.Plan(f.plan),
		Action: core.Action{
			Kind:        kind,
			Name:        f.actionName,
			Instruction: f.instruction,
			Extra:       f.extra,
		},
		Result: f.result,
	}, nil
}

func newPromptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Render a deliberation prompt",
	}

	var opt optimizeFlags
	optimize := &cobra.Command{
		Use:   "optimize",
		Short: "Render the plan optimizer prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := opt.input()
			if err != nil {
				return err
			}
			return renderTo(cmd.OutOrStdout(), deliberation.Optimizer{}, in)
		},
	}
	opt.register(optimize)

	var rev reviewFlags
	review := &cobra.Command{
		Use:   "review",
		Short: "Render the execution reviewer prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := rev.input()
			if err != nil {
				return err
			}
			return renderTo(cmd.OutOrStdout(), deliberation.Reviewer{}, in)
		},
	}
	rev.register(review)

	cmd.AddCommand(optimize, review)
	return cmd
}

func renderTo[C any](out io.Writer, d deliberation.Deliberation[C], in C) error {
	prompt, err := d.Render(in)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, prompt)
	return err
}

func newVerdictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verdict",
		Short: "Parse a reasoning response read from stdin",
		Long:  "Reads a free-text response from stdin and prints the verdict as JSON. A response that does not follow the workflow's schema is an error.",
	}

	parse := func(name string, fn func(string) (deliberation.Verdict, error)) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: fmt.Sprintf("Parse a %s response", name),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				v, err := fn(string(data))
				if err != nil {
					return err
				}
				return printVerdict(cmd.OutOrStdout(), v)
			},
		}
	}

	cmd.AddCommand(
		parse("optimize", deliberation.Optimizer{}.Parse),
		parse("review", deliberation.Reviewer{}.Parse),
	)
	return cmd
}

func newDeliberateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deliberate",
		Short: "Render a prompt, ask the configured brain and parse its answer",
	}

	var (
		configPath string
		opt        optimizeFlags
		rev        reviewFlags
	)

	optimize := &cobra.Command{
		Use:   "optimize",
		Short: "Check plans against a request",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := opt.input()
			if err != nil {
				return err
			}
			b, logger, err := brainFromConfig(cmd, configPath)
			if err != nil {
				return err
			}
			v, err := deliberation.Deliberate(cmd.Context(), deliberation.Optimizer{}, in, b,
				func(o *deliberation.Options) { o.Logger = logger })
			if err != nil {
				return err
			}
			return printVerdict(cmd.OutOrStdout(), v)
		},
	}
	opt.register(optimize)

	review := &cobra.Command{
		Use:   "review",
		Short: "Judge the result of one action",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := rev.input()
			if err != nil {
				return err
			}
			b, logger, err := brainFromConfig(cmd, configPath)
			if err != nil {
				return err
			}
			v, err := deliberation.Deliberate(cmd.Context(), deliberation.Reviewer{}, in, b,
				func(o *deliberation.Options) { o.Logger = logger })
			if err != nil {
				return err
			}
			return printVerdict(cmd.OutOrStdout(), v)
		},
	}
	rev.register(review)

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to agentsociety config file")
	cmd.AddCommand(optimize, review)
	return cmd
}

func brainFromConfig(cmd *cobra.Command, path string) (brain.Brain, logging.Logger, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	b, err := brain.New(cfg.Brain)
	if err != nil {
		return nil, nil, err
	}
	return b, newLogger(cfg.Logging, cmd.ErrOrStderr()), nil
}

func printVerdict(out io.Writer, v deliberation.Verdict) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
