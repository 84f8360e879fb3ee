package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/mcp-go/client"
	"github.com/naineet-code/engineer-velocity-view/pkg/application"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/analytics"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/schedule"
)

// SchemaURI is the server resource describing its tool schema.
const SchemaURI = "velocity://schema"

// Client is a typed Go client for the velocity MCP server.
type Client struct {
	mcp         *client.Client
	retryCfg    retry.Config
	timeout     time.Duration
	schemaCheck bool
}

// NewClient creates a new SDK client wrapping the given MCP transport.
func NewClient(transport client.Transport, opts ...Option) *Client {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &Client{
		mcp:         client.New(transport, client.WithTimeout(o.timeout)),
		timeout:     o.timeout,
		retryCfg:    o.retryConfig(),
		schemaCheck: o.schemaCheck,
	}
}

// Initialize performs the MCP initialize handshake, then checks the tool
// schema when WithSchemaCheck is set.
func (c *Client) Initialize(ctx context.Context) (*client.ServerInfo, error) {
	info, err := c.mcp.Initialize(ctx)
	if err != nil {
		return nil, err
	}
	if c.schemaCheck {
		if err := c.Compatible(ctx); err != nil {
			return nil, err
		}
	}
	return info, nil
}

// Close closes the underlying transport.
func (c *Client) Close() error {
	return c.mcp.Close()
}

// call invokes a tool with retry. Tool-level errors are not retried.
func (c *Client) call(ctx context.Context, tool string, args map[string]any) (*client.ToolResult, error) {
	r := retry.New[*client.ToolResult](c.retryCfg)
	result, err := r.Do(ctx, func(ctx context.Context) (*client.ToolResult, error) {
		return c.mcp.CallTool(ctx, tool, args)
	})
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", tool, err)
	}
	if result.IsError {
		msg := ""
		if len(result.Content) > 0 {
			msg = result.Content[0].Text
		}
		return nil, &ToolError{Tool: tool, Message: msg}
	}
	return result, nil
}

// unmarshalText extracts Content[0].Text from a tool result and unmarshals it as JSON.
func unmarshalText[T any](result *client.ToolResult) (*T, error) {
	text, err := textResult(result)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return &v, nil
}

// textResult extracts Content[0].Text from a tool result.
func textResult(result *client.ToolResult) (string, error) {
	if len(result.Content) == 0 {
		return "", ErrNoContent
	}
	return result.Content[0].Text, nil
}

// GetSchema reads the velocity://schema resource from the server.
func (c *Client) GetSchema(ctx context.Context) (*SchemaInfo, error) {
	rc, err := c.mcp.ReadResource(ctx, SchemaURI)
	if err != nil {
		return nil, fmt.Errorf("read schema resource: %w", err)
	}
	var info SchemaInfo
	if err := json.Unmarshal([]byte(rc.Text), &info); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	return &info, nil
}

// Compatible returns nil when the server's schema major version matches
// SupportedSchemaMajor and it advertises every tool the client calls.
func (c *Client) Compatible(ctx context.Context) error {
	info, err := c.GetSchema(ctx)
	if err != nil {
		return fmt.Errorf("check compatibility: %w", err)
	}
	return checkSchema(info)
}

// --- Simulation ---

// Team returns every developer's projected queue plus team insights.
func (c *Client) Team(ctx context.Context) (*application.TeamSnapshot, error) {
	res, err := c.call(ctx, "velocity_team", nil)
	if err != nil {
		return nil, err
	}
	return unmarshalText[application.TeamSnapshot](res)
}

// Developer returns one developer's projected queue.
func (c *Client) Developer(ctx context.Context, name string) (*schedule.SimulatedDeveloper, error) {
	res, err := c.call(ctx, "velocity_developer", map[string]any{"name": name})
	if err != nil {
		return nil, err
	}
	return unmarshalText[schedule.SimulatedDeveloper](res)
}

// Insights returns the team insights. A clear team yields an empty slice.
func (c *Client) Insights(ctx context.Context) ([]string, error) {
	res, err := c.call(ctx, "velocity_insights", nil)
	if err != nil {
		return nil, err
	}
	text, err := textResult(res)
	if err != nil {
		return nil, err
	}
	// The server answers a clear team with a plain sentence.
	if !strings.HasPrefix(strings.TrimSpace(text), "[") {
		return []string{}, nil
	}
	var insights []string
	if err := json.Unmarshal([]byte(text), &insights); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return insights, nil
}

// Sprint returns the current sprint's spill-over plan.
func (c *Client) Sprint(ctx context.Context) (*schedule.SprintPlan, error) {
	res, err := c.call(ctx, "velocity_sprint", nil)
	if err != nil {
		return nil, err
	}
	return unmarshalText[schedule.SprintPlan](res)
}

// --- KPIs ---

// KPI returns the team pulse summary.
func (c *Client) KPI(ctx context.Context) (*analytics.Summary, error) {
	res, err := c.call(ctx, "velocity_kpi", nil)
	if err != nil {
		return nil, err
	}
	return unmarshalText[analytics.Summary](res)
}

// DeveloperKPI returns one developer's metrics card.
func (c *Client) DeveloperKPI(ctx context.Context, name string) (*analytics.DeveloperMetrics, error) {
	res, err := c.call(ctx, "velocity_kpi", map[string]any{"developer": name})
	if err != nil {
		return nil, err
	}
	return unmarshalText[analytics.DeveloperMetrics](res)
}

// ETARisk returns the tickets projected to miss their ETA.
func (c *Client) ETARisk(ctx context.Context) (*RiskReport, error) {
	res, err := c.call(ctx, "velocity_eta_risk", nil)
	if err != nil {
		return nil, err
	}
	return unmarshalText[RiskReport](res)
}
