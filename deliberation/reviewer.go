package deliberation

import (
	"regexp"
	"strings"

	"github.com/hupe1980/agentsociety/core"
	"github.com/hupe1980/agentsociety/internal/util"
	"github.com/hupe1980/agentsociety/tool"
)

// ReviewInput is the context of one post-execution check.
type ReviewInput struct {
	Agent  Roster
	Plan   core.Plan
	Action core.Action
	Result string
}

// Reviewer judges the result of one executed action.
type Reviewer struct{}

var _ Deliberation[ReviewInput] = Reviewer{}

// Name identifies the workflow in logs and metrics.
func (Reviewer) Name() string { return "review" }

var reviewTemplate = util.MustTemplate("review", `Your response should be in the following schema:
==============================
your opinion (if you rejected the plan)
Accepted | Rejected
==============================

Review your execution result for executing "{{.Plan}}".
Your action is:
{{.Action}}
Your result of action is:
{{.Result}}

The type of action you can take is:
Type | Description | Name | Instruction | Extra
-|-|-|-|-
Invite | Invite person who can do your work for you and are not your friends. | general person name | Personality | one of tools among {{quoted .ToolNames}} that the person needs.
Talk |  Talk to your friends. | Friend's Name (should be one of {{quoted .PeerNames}}) | Message | Attachment File List
Build | Build or rebuild a reusable tool when you can't do it yourself. It must have stdout, stderr messages. It should be executable with the following schema of commands: ` + "`tools/example instruction extra`" + ` | Tool's Name (snake_case) | Tool's description that includes objective, instruction format, extra format, output format | Source code of the tool
Use | Use one of your tools. | Tool's Name (should be one of {{quoted .ToolNames}}) | Tool Instruction for using tool | Extra for using tool

Your friends:{{range .Peers}}
    {{.Name}}: {{.Instruction}}{{end}}
Your tools:{{range .Tools}}
    {{.Name}}: {{.Instruction}}{{end}}

Don't execute again, just say your opinion about action and result.
Review your execution!!
`)

type reviewData struct {
	Plan      core.Plan
	Action    core.Action
	Result    string
	Peers     []core.Peer
	Tools     []tool.Tool
	PeerNames []string
	ToolNames []string
}

// Render builds the reviewer prompt.
func (Reviewer) Render(in ReviewInput) (string, error) {
	data := reviewData{
		Plan:   in.Plan,
		Action: in.Action,
		Result: in.Result,
	}
	if in.Agent != nil {
		peers, tools := in.Agent.Peers(), in.Agent.Tools()
		data.Peers, data.PeerNames = peers.All(), peers.Names()
		data.Tools, data.ToolNames = tools.All(), tools.Names()
	}
	return util.Execute(reviewTemplate, data)
}

// The leading group is greedy, so the decision binds to the last token.
var reviewerPattern = regexp.MustCompile(`(?s)(.*)(` + string(Accepted) + `|` + string(Rejected) + `)`)

// Parse reads the trailing Accepted or Rejected token. The rationale is the
// trimmed text before it.
func (Reviewer) Parse(response string) (Verdict, error) {
	m := reviewerPattern.FindStringSubmatch(response)
	if m == nil {
		return Verdict{}, core.NewError("reviewer.parse", core.ErrSchemaViolation,
			"expected a trailing Accepted or Rejected")
	}

	decision, err := ParseReviewDecision(m[2])
	if err != nil {
		return Verdict{}, core.NewError("reviewer.parse", core.ErrSchemaViolation, err.Error())
	}
	return Verdict{
		Rationale: strings.TrimSpace(m[1]),
		Accepted:  decision.Accepted(),
	}, nil
}
