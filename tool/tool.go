// Package tool describes the reusable tools an agent owns. Tools are pure
// data to the wire and deliberation layers: only their names and
// instructions are read, to render prompts and to filter invite parameters.
package tool

import (
	"fmt"
	"strings"

	"github.com/hupe1980/agentsociety/internal/util"
)

// Tool defines what an agent needs to know about one of its tools.
type Tool interface {
	// Name returns the unique identifier for this tool (snake_case recommended).
	Name() string

	// Instruction describes objective, instruction format, extra format and
	// output format. It is shown verbatim to a reasoning capability.
	Instruction() string
}

// Spec is the plain data form of a Tool, typically produced by a Build action.
type Spec struct {
	ToolName        string `yaml:"name" json:"name"`
	ToolInstruction string `yaml:"instruction" json:"instruction"`
	// Command is how the tool is executed, e.g. "python tools/example.py".
	Command string `yaml:"command,omitempty" json:"command,omitempty"`
}

// Name implements Tool.
func (s Spec) Name() string { return s.ToolName }

// Instruction implements Tool.
func (s Spec) Instruction() string { return s.ToolInstruction }

// Validate checks that a spec can be registered.
func (s Spec) Validate() error {
	if strings.TrimSpace(s.ToolName) == "" {
		return NewToolError("", "name is required", "INVALID_SPEC")
	}
	if strings.ContainsAny(s.ToolName, " \t\r\n,") {
		return NewToolError(s.ToolName, "name must not contain whitespace or commas", "INVALID_SPEC")
	}
	return nil
}

// ToolError represents errors raised while registering or resolving tools.
type ToolError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}

// Table is the insertion ordered set of tools an agent owns.
type Table struct {
	reg util.Registry[Tool]
}

// NewTable creates a table holding the given tools in order.
func NewTable(tools ...Tool) *Table {
	t := &Table{}
	for _, tl := range tools {
		t.Add(tl)
	}
	return t
}

// Add inserts or replaces a tool.
func (t *Table) Add(tl Tool) { t.reg.Put(tl.Name(), tl) }

// Lookup returns the tool registered under name.
func (t *Table) Lookup(name string) (Tool, bool) { return t.reg.Get(name) }

// Has reports whether a tool named name is registered.
func (t *Table) Has(name string) bool {
	_, ok := t.reg.Get(name)
	return ok
}

// Names returns tool names in insertion order.
func (t *Table) Names() []string { return t.reg.Names() }

// All returns tools in insertion order.
func (t *Table) All() []Tool { return t.reg.Values() }

// Len returns the number of tools.
func (t *Table) Len() int { return t.reg.Len() }
