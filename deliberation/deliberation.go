package deliberation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/agentsociety/brain"
	"github.com/hupe1980/agentsociety/core"
	"github.com/hupe1980/agentsociety/internal/metrics"
	"github.com/hupe1980/agentsociety/logging"
	"github.com/hupe1980/agentsociety/tool"
)

// Verdict is the reduced outcome of one deliberation.
type Verdict struct {
	Rationale string `json:"rationale"`
	Accepted  bool   `json:"accepted"`
}

// Deliberation is a prompt workflow over context type C.
type Deliberation[C any] interface {
	// Render builds the prompt. It is a pure function of c.
	Render(c C) (string, error)
	// Parse reduces a response to a Verdict or fails with
	// core.ErrSchemaViolation.
	Parse(response string) (Verdict, error)
}

// Roster is the read-only view of an agent a prompt is rendered from.
type Roster interface {
	Peers() *core.PeerTable
	Tools() *tool.Table
}

// Options configures Deliberate.
type Options struct {
	Logger logging.Logger
}

// Outcome labels recorded in metrics.
const (
	outcomeAccepted        = "accepted"
	outcomeRejected        = "rejected"
	outcomeSchemaViolation = "schema_violation"
	outcomeError           = "error"
)

// Deliberate renders c with d, asks b and parses the answer. It performs
// exactly one round trip.
func Deliberate[C any](ctx context.Context, d Deliberation[C], c C, b brain.Brain, optFns ...func(o *Options)) (Verdict, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	workflow := workflowName(d)
	start := time.Now()
	verdict, err := deliberate(ctx, d, c, b)
	dur := time.Since(start)

	metrics.DeliberationDuration.WithLabelValues(workflow).Observe(dur.Seconds())
	metrics.Deliberations.WithLabelValues(workflow, outcome(verdict, err)).Inc()
	logging.LogDeliberation(logging.OrNoOp(opts.Logger), workflow, dur, verdict.Accepted, err)

	return verdict, err
}

func deliberate[C any](ctx context.Context, d Deliberation[C], c C, b brain.Brain) (Verdict, error) {
	prompt, err := d.Render(c)
	if err != nil {
		return Verdict{}, err
	}
	response, err := b.Think(ctx, prompt)
	if err != nil {
		return Verdict{}, fmt.Errorf("deliberation: think: %w", err)
	}
	return d.Parse(response)
}

func workflowName(d any) string {
	if n, ok := d.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", d)
}

func outcome(v Verdict, err error) string {
	switch {
	case errors.Is(err, core.ErrSchemaViolation):
		return outcomeSchemaViolation
	case err != nil:
		return outcomeError
	case v.Accepted:
		return outcomeAccepted
	default:
		return outcomeRejected
	}
}
