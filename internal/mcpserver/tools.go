package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/stepr/internal/stepper"
)

// registerTools registers the wizard navigation tools.
func (s *Server) registerTools() error {
	s.mcpServer.AddTool(
		mcp.NewTool("wizard-status",
			mcp.WithDescription("Show every step of the wizard with its indicator, navigability and field value"),
		),
		s.handleStatus,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("wizard-next",
			mcp.WithDescription("Advance to the next step. In linear mode this is refused while an earlier required step is incomplete"),
		),
		s.handleNext,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("wizard-previous",
			mcp.WithDescription("Go back to the previous step"),
		),
		s.handlePrevious,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("wizard-select",
			mcp.WithDescription("Select a step by its zero-based index"),
			mcp.WithNumber("index", mcp.Required(),
				mcp.Description("Zero-based step index"),
			),
		),
		s.handleSelect,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("wizard-set-value",
			mcp.WithDescription("Set the field value of a step and validate it"),
			mcp.WithString("step", mcp.Required(),
				mcp.Description("Step ID as shown by wizard-status"),
			),
			mcp.WithString("value", mcp.Required(),
				mcp.Description("New field value"),
			),
		),
		s.handleSetValue,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("wizard-reset",
			mcp.WithDescription("Return to the first step and clear every step"),
		),
		s.handleReset,
	)

	return nil
}

func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(s.sess.Status(), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal status: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleNext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	moved, err := s.sess.Next()
	return s.moveResult("next", moved, err), nil
}

func (s *Server) handlePrevious(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	moved, err := s.sess.Previous()
	return s.moveResult("previous", moved, err), nil
}

func (s *Server) handleSelect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("no arguments provided"), nil
	}

	// JSON numbers come as float64
	raw, ok := args["index"].(float64)
	if !ok {
		return mcp.NewToolResultError("'index' must be a number"), nil
	}
	if raw != float64(int(raw)) {
		return mcp.NewToolResultError("'index' must be a whole number"), nil
	}

	moved, err := s.sess.Select(int(raw))
	return s.moveResult(fmt.Sprintf("step %d", int(raw)), moved, err), nil
}

func (s *Server) handleSetValue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("no arguments provided"), nil
	}

	id, ok := args["step"].(string)
	if !ok || id == "" {
		return mcp.NewToolResultError("missing or empty 'step' parameter"), nil
	}
	value, ok := args["value"].(string)
	if !ok {
		return mcp.NewToolResultError("'value' must be a string"), nil
	}

	if err := s.sess.SetValue(ctx, id, value); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	for _, st := range s.sess.Status().Steps {
		if st.ID != id {
			continue
		}
		if st.Pending {
			return mcp.NewToolResultText(fmt.Sprintf("%s: validation pending", id)), nil
		}
		if st.Value == "" {
			return mcp.NewToolResultText(fmt.Sprintf("%s cleared", id)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s set to %q", id, st.Value)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s updated", id)), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.sess.Reset()
	return mcp.NewToolResultText("Wizard reset to the first step"), nil
}

// moveResult turns a navigation outcome into a tool result. Out-of-range
// requests are tool errors; refused moves are plain text so the agent can
// react to them.
func (s *Server) moveResult(target string, moved bool, err error) *mcp.CallToolResult {
	if err != nil {
		if errors.Is(err, stepper.ErrIndexOutOfBounds) {
			return mcp.NewToolResultError(fmt.Sprintf("cannot select %s: out of range", target))
		}
		return mcp.NewToolResultError(err.Error())
	}

	st := s.sess.Status()
	current := st.Steps[st.SelectedIndex]
	if !moved {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Move to %s refused; still on step %d (%s). Complete the current step or mark it optional.",
			target, st.SelectedIndex, current.Label,
		))
	}
	return mcp.NewToolResultText(fmt.Sprintf("Now on step %d (%s)", st.SelectedIndex, current.Label))
}
