package deliberation

import (
	"regexp"
	"strings"

	"github.com/hupe1980/agentsociety/core"
	"github.com/hupe1980/agentsociety/internal/util"
	"github.com/hupe1980/agentsociety/tool"
)

// OptimizeInput is the context of one pre-execution check.
type OptimizeInput struct {
	Agent   Roster
	Request string
	Plans   []core.Plan
}

// Optimizer checks proposed plans against a request before they run.
type Optimizer struct{}

var _ Deliberation[OptimizeInput] = Optimizer{}

// Name identifies the workflow in logs and metrics.
func (Optimizer) Name() string { return "optimize" }

var optimizeTemplate = util.MustTemplate("optimize", `
## Background
The type of action you can take is:
{{range $i, $k := .ActionKinds}}{{if $i}}
{{end}}{{$k}}: {{$k.Description}}{{end}}

Your friends:{{range .Peers}}
    {{.Name}}: {{.Instruction}}{{end}}
Your tools:{{range .Tools}}
    {{.Name}}: {{.Instruction}}{{end}}

==========your response schema==========
[Accept] or [Reject] your opinion
==========  response example  ==========
[Reject] Actually, I think that the plan is not good.
Because it is not efficient.
========================================

Check your affordance of plan on request. Request is:
{{.Request}}

You must not remake plan, just say opinion to increase affordance plan. Opinion is harsh, but it is the best way to increase affordance of plan.
If you Reject, you will tell which condition is not satisfied for request.
If you Accept, you will tell which condition is satisfied for request

You can consider following things.
- constraint: constraints must be satisfied with plan. ex) tools are in path tools/, code is in path playground/, etc.
- tool: you can only use tool once per action of plan. ex) you can't use code_writer to write html and js and python code in one action

Every plan must be written up in a single line.
Your plans are:
{{range $i, $p := .Plans}}{{if $i}}
{{end}}{{$p}}{{end}}

Check and increase affordance of your plan on request.
`)

type optimizeData struct {
	ActionKinds []core.ActionKind
	Peers       []core.Peer
	Tools       []tool.Tool
	Request     string
	Plans       []core.Plan
}

// Render builds the optimizer prompt. Only action kinds with a description
// are offered.
func (Optimizer) Render(in OptimizeInput) (string, error) {
	data := optimizeData{
		Request: in.Request,
		Plans:   in.Plans,
	}
	for _, k := range core.ActionKinds() {
		if k.HasDescription() {
			data.ActionKinds = append(data.ActionKinds, k)
		}
	}
	if in.Agent != nil {
		data.Peers = in.Agent.Peers().All()
		data.Tools = in.Agent.Tools().All()
	}
	return util.Execute(optimizeTemplate, data)
}

var optimizerToken = regexp.MustCompile(`\[(` + string(Accept) + `|` + string(Reject) + `)\]`)

// Parse requires exactly one [Accept] or [Reject] token anywhere in the
// response. The rationale is the trimmed text after it.
func (Optimizer) Parse(response string) (Verdict, error) {
	locs := optimizerToken.FindAllStringSubmatchIndex(response, -1)
	if len(locs) != 1 {
		return Verdict{}, core.Errorf("optimizer.parse", core.ErrSchemaViolation,
			"expected exactly one [Accept] or [Reject], found %d", len(locs))
	}
	loc := locs[0]

	decision, err := ParseOptimizerDecision(response[loc[2]:loc[3]])
	if err != nil {
		return Verdict{}, core.NewError("optimizer.parse", core.ErrSchemaViolation, err.Error())
	}
	return Verdict{
		Rationale: strings.TrimSpace(response[loc[1]:]),
		Accepted:  decision.Accepted(),
	}, nil
}
