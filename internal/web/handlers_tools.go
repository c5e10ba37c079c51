package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/JonMunkholm/cfop/internal/core"
	"github.com/JonMunkholm/cfop/internal/logging"
)

// maxToolArgsBytes bounds a tool invocation body.
const maxToolArgsBytes = 64 << 10

type toolInfo struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Params      []core.ToolParam `json:"params"`
	NeedsBatch  bool             `json:"needs_batch"`
}

type toolResponse struct {
	Tool string `json:"tool"`
	Text string `json:"text"`
	Data any    `json:"data,omitempty"`
}

// handleListTools describes the registered tools.
func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	tools := s.service.Tools().All()
	out := make([]toolInfo, len(tools))
	for i, t := range tools {
		params := t.Params
		if params == nil {
			params = []core.ToolParam{}
		}
		out[i] = toolInfo{Name: t.Name, Description: t.Description, Params: params, NeedsBatch: !t.Standalone}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleInvokeTool runs a tool with a JSON object of string arguments.
// An empty body means no arguments.
func (s *Server) handleInvokeTool(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")

	args := core.Args{}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxToolArgsBytes))
	if err := dec.Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		s.respondError(w, r, fmt.Errorf("%w: arguments must be a JSON object of strings: %v", core.ErrMissingArgument, err))
		return
	}

	res, err := s.service.InvokeTool(name, args)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Debug("tool invoked", "tool", name, "args", len(args))
	writeJSON(w, http.StatusOK, toolResponse{Tool: name, Text: res.Text, Data: res.Data})
}
