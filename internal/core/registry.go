package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownTool is returned when invoking a tool that is not registered.
var ErrUnknownTool = errors.New("tool not found")

// ErrMissingArgument is returned when a required tool argument is absent.
var ErrMissingArgument = errors.New("missing required argument")

// Args are the string arguments of a tool call.
type Args map[string]string

// Get returns the trimmed value of an argument, or "".
func (a Args) Get(name string) string {
	return strings.TrimSpace(a[name])
}

// Require returns the value of a non-empty argument.
func (a Args) Require(name string) (string, error) {
	v := a.Get(name)
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingArgument, name)
	}
	return v, nil
}

// ToolParam describes one argument of a tool.
type ToolParam struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// ToolResult is what a tool returns: a text rendering for conversational
// callers and the structured value behind it.
type ToolResult struct {
	Text string `json:"text"`
	Data any    `json:"data,omitempty"`
}

// ToolFunc runs a tool against a batch.
type ToolFunc func(b *Batch, args Args) (ToolResult, error)

// Tool is a named engine operation exposed to external dispatchers.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Params      []ToolParam `json:"params"`
	// Standalone tools ignore the batch and run before one is loaded.
	Standalone bool     `json:"standalone"`
	Run        ToolFunc `json:"-"`
}

// Toolset is a registry of tools.
type Toolset struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewToolset creates an empty registry.
func NewToolset() *Toolset {
	return &Toolset{tools: make(map[string]Tool)}
}

// Register adds a tool to the registry.
// Panics if a tool with the same name is already registered.
func (ts *Toolset) Register(tool Tool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, exists := ts.tools[tool.Name]; exists {
		panic(fmt.Sprintf("tool already registered: %s", tool.Name))
	}
	ts.tools[tool.Name] = tool
}

// Get returns a tool by name.
func (ts *Toolset) Get(name string) (Tool, bool) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	tool, ok := ts.tools[name]
	return tool, ok
}

// All returns every registered tool, sorted by name.
func (ts *Toolset) All() []Tool {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	result := make([]Tool, 0, len(ts.tools))
	for _, tool := range ts.tools {
		result = append(result, tool)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Count returns the number of registered tools.
func (ts *Toolset) Count() int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return len(ts.tools)
}

// Invoke runs the named tool against b. A nil b is only accepted by
// standalone tools.
func (ts *Toolset) Invoke(b *Batch, name string, args Args) (ToolResult, error) {
	tool, ok := ts.Get(name)
	if !ok {
		return ToolResult{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if b == nil && !tool.Standalone {
		return ToolResult{}, ErrNoBatch
	}
	if args == nil {
		args = Args{}
	}
	return tool.Run(b, args)
}
