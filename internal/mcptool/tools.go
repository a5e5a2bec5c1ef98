// Package mcptool exposes one calculator engine as MCP tools. Each stdio
// connection is one UI session.
package mcptool

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"scicalc/internal/engine"
)

// Tool names
const (
	ToolPress    = "calculator_press"
	ToolDisplay  = "calculator_display"
	ToolClear    = "calculator_clear"
	ToolEvaluate = "calculator_evaluate"
)

// View is the JSON text returned by the keypad tools.
type View struct {
	Display   engine.Display   `json:"display"`
	AngleMode engine.AngleMode `json:"angle_mode"`
	Pending   engine.Operator  `json:"pending,omitempty"`
}

// Calculator serializes tool calls onto a single engine.
type Calculator struct {
	mu     sync.Mutex
	engine *engine.Engine
	logger *zap.Logger
}

func NewCalculator(mode engine.AngleMode, logger *zap.Logger) *Calculator {
	e := engine.New()
	e.SetAngleMode(mode)
	return &Calculator{engine: e, logger: logger}
}

// NewServer builds an MCP server with every calculator tool registered.
func NewServer(name, version string, calc *Calculator) *server.MCPServer {
	s := server.NewMCPServer(name, version, server.WithToolCapabilities(false))
	calc.Register(s)
	return s
}

// Register adds the calculator tools to s.
func (c *Calculator) Register(s *server.MCPServer) {
	s.AddTool(pressTool(), c.HandlePress)
	s.AddTool(displayTool(), c.HandleDisplay)
	s.AddTool(clearTool(), c.HandleClear)
	s.AddTool(evaluateTool(), c.HandleEvaluate)
}

func pressTool() mcp.Tool {
	return mcp.NewTool(ToolPress,
		mcp.WithDescription(pressDescription()),
		mcp.WithString("keys", mcp.Required(), mcp.Description("Keys to press, e.g. \"2 + 3 =\"")),
	)
}

func pressDescription() string {
	ops := engine.Operators()
	symbols := make([]string, len(ops))
	for i, op := range ops {
		symbols[i] = op.String()
	}

	return "Press calculator keys in order and return both displays. " +
		"Keys are whitespace separated: digits, '.', operators (" + strings.Join(symbols, " ") + "), " +
		"'=', 'AC', 'DEL', 'RAD', 'DEG'. Numbers may be typed whole, e.g. '12.5 + 3 ='."
}

func displayTool() mcp.Tool {
	return mcp.NewTool(ToolDisplay,
		mcp.WithDescription("Return the calculator's primary and secondary displays"),
	)
}

func clearTool() mcp.Tool {
	return mcp.NewTool(ToolClear,
		mcp.WithDescription("Clear the calculator (AC)"),
	)
}

func evaluateTool() mcp.Tool {
	return mcp.NewTool(ToolEvaluate,
		mcp.WithDescription("Evaluate one operation without touching the keypad state"),
		mcp.WithString("operation", mcp.Required(), mcp.Description("Operator symbol or alias, e.g. ÷, sqrt, sin")),
		mcp.WithNumber("a", mcp.Required(), mcp.Description("Left operand, or the only operand of a unary operation")),
		mcp.WithNumber("b", mcp.Description("Right operand of a binary operation")),
		mcp.WithString("angle_mode", mcp.Description("deg (default) or rad")),
	)
}

// HandlePress processes calculator_press.
func (c *Calculator) HandlePress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input := mcp.ParseString(req, "keys", "")
	keys := engine.SplitKeys(input)
	if len(keys) == 0 {
		return mcp.NewToolResultError("keys parameter is required"), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Apply on a copy so a bad key leaves the keypad untouched.
	scratch, err := engine.Restore(c.engine.Snapshot())
	if err != nil {
		return nil, err
	}
	if err := scratch.PressAll(keys...); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	c.engine = scratch

	c.logger.Debug("mcp keys pressed", zap.Strings("keys", keys), zap.String("current", c.engine.Current()))

	return c.viewResult()
}

// HandleDisplay processes calculator_display.
func (c *Calculator) HandleDisplay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.viewResult()
}

// HandleClear processes calculator_clear.
func (c *Calculator) HandleClear(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.engine.Clear()
	return c.viewResult()
}

// HandleEvaluate processes calculator_evaluate.
func (c *Calculator) HandleEvaluate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	op, err := engine.ParseOperator(mcp.ParseString(req, "operation", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	mode, err := engine.ParseAngleMode(mcp.ParseString(req, "angle_mode", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// JSON numbers are never NaN, so NaN marks a missing argument.
	a := mcp.ParseFloat64(req, "a", math.NaN())
	b := mcp.ParseFloat64(req, "b", math.NaN())
	if math.IsNaN(a) {
		return mcp.NewToolResultError("a parameter is required"), nil
	}
	if op.IsBinary() && math.IsNaN(b) {
		return mcp.NewToolResultError(fmt.Sprintf("operation %s needs parameter b", op)), nil
	}

	prev, cur := a, b
	if op.IsUnary() {
		prev, cur = 0, a
	}

	result, err := engine.Evaluate(op, prev, cur, mode)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var expr string
	if op.IsUnary() {
		expr = engine.FormatSecondary(op, "", formatFloat(a))
	} else {
		expr = engine.FormatOperand(formatFloat(a)) + " " + op.String() + " " + engine.FormatOperand(formatFloat(b))
	}

	return mcp.NewToolResultText(expr + " = " + engine.FormatOperand(result)), nil
}

func (c *Calculator) viewResult() (*mcp.CallToolResult, error) {
	view := View{
		Display:   c.engine.Display(),
		AngleMode: c.engine.AngleMode(),
		Pending:   c.engine.Pending(),
	}

	data, err := json.Marshal(view)
	if err != nil {
		return nil, fmt.Errorf("encode view: %w", err)
	}

	return mcp.NewToolResultText(string(data)), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
