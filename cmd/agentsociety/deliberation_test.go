package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hupe1980/agentsociety/deliberation"
)

func TestPromptOptimizeCmd(t *testing.T) {
	out, err := run(t, "", "prompt", "optimize",
		"--request", "ship the landing page",
		"--friend", "Bob=writes code",
		"--tool", "web_search=searches the web",
		"--plan", "Use web_search to find examples",
		"--plan", "Talk to Bob about the layout")
	if err != nil {
		t.Fatalf("prompt optimize failed: %v", err)
	}
	for _, want := range []string{
		"    Bob: writes code",
		"    web_search: searches the web",
		"Request is:\nship the landing page",
		"Use web_search to find examples\nTalk to Bob about the layout",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected prompt to contain %q, got:\n%s", want, out)
		}
	}
}

func TestPromptReviewCmd(t *testing.T) {
	out, err := run(t, "", "prompt", "review",
		"--plan", "Use web_search to find examples",
		"--action-type", "use",
		"--action-name", "web_search",
		"--instruction", "landing page examples",
		"--result", "5 links",
		"--friend", "Bob=writes code")
	if err != nil {
		t.Fatalf("prompt review failed: %v", err)
	}
	for _, want := range []string{"[Type]: Use", "[Name]: web_search", "5 links", "'Bob'"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
}

func TestPromptReviewCmd_BadActionType(t *testing.T) {
	_, err := run(t, "", "prompt", "review", "--plan", "p", "--action-type", "Dance")
	if err == nil {
		t.Fatal("expected unknown action kind error")
	}
}

func TestPromptCmd_BadFriend(t *testing.T) {
	_, err := run(t, "", "prompt", "optimize", "--request", "r", "--friend", "no-equals-sign")
	if err == nil || !strings.Contains(err.Error(), "--friend") {
		t.Fatalf("expected --friend error, got %v", err)
	}
}

func TestVerdictCmd(t *testing.T) {
	tests := []struct {
		workflow string
		stdin    string
		want     deliberation.Verdict
	}{
		{"optimize", "Reasoning. [Reject] tools missing.\n", deliberation.Verdict{Rationale: "tools missing.", Accepted: false}},
		{"review", "Everything worked.\nAccepted", deliberation.Verdict{Rationale: "Everything worked.", Accepted: true}},
	}
	for _, tt := range tests {
		t.Run(tt.workflow, func(t *testing.T) {
			out, err := run(t, tt.stdin, "verdict", tt.workflow)
			if err != nil {
				t.Fatalf("verdict failed: %v", err)
			}
			var got deliberation.Verdict
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("output is not a verdict: %v\n%s", err, out)
			}
			if got != tt.want {
				t.Errorf("verdict = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestVerdictCmd_SchemaViolation(t *testing.T) {
	_, err := run(t, "it went fine", "verdict", "review")
	if err == nil || !strings.Contains(err.Error(), "schema") {
		t.Fatalf("expected schema violation, got %v", err)
	}
}

func TestDeliberateCmd_MockBrainEchoesSchema(t *testing.T) {
	// The mock brain echoes the prompt, which names both tokens.
	path := writeConfig(t, "brain:\n  provider: mock\nlogging:\n  level: error\n")
	_, err := run(t, "", "deliberate", "optimize", "--config", path, "--request", "r", "--plan", "p")
	if err == nil || !strings.Contains(err.Error(), "schema") {
		t.Fatalf("expected schema violation, got %v", err)
	}
}

func TestParseEntry(t *testing.T) {
	e, err := parseEntry(" Bob = writes code ")
	if err != nil {
		t.Fatal(err)
	}
	if e.Name() != "Bob" || e.Instruction() != "writes code" {
		t.Errorf("unexpected entry %+v", e)
	}
	if _, err := parseEntry("=nameless"); err == nil {
		t.Error("expected error for empty name")
	}
}
