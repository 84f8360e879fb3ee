package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/mcp-go/client"
	"github.com/felixgeelhaar/mcp-go/protocol"
)

// mockTransport implements client.Transport and returns canned responses
// keyed by request method.
type mockTransport struct {
	closed    bool
	toolCalls int
	sendErr   error
	responses map[string]any
}

func newMockTransport() *mockTransport {
	return &mockTransport{responses: make(map[string]any)}
}

// newMockTransportFrom returns a fresh transport sharing m's canned responses.
func newMockTransportFrom(m *mockTransport) *mockTransport {
	return &mockTransport{responses: m.responses}
}

func (m *mockTransport) setToolResponse(text string, isError bool) {
	result := map[string]any{
		"content": []any{map[string]any{"type": "text", "text": text}},
	}
	if isError {
		result["isError"] = true
	}
	m.responses["tools/call"] = result
}

func (m *mockTransport) setResourceResponse(text string) {
	m.responses["resources/read"] = map[string]any{
		"contents": []any{
			map[string]any{"uri": SchemaURI, "text": text},
		},
	}
}

func (m *mockTransport) Send(_ context.Context, req *protocol.Request) (*protocol.Response, error) {
	if req.Method == "tools/call" {
		m.toolCalls++
		if m.sendErr != nil {
			return nil, m.sendErr
		}
	}
	result, ok := m.responses[req.Method]
	if !ok {
		if req.Method == "initialize" {
			return protocol.NewResponse(req.ID, map[string]any{
				"serverInfo":      map[string]any{"name": "velocity", "version": "dev"},
				"protocolVersion": "2024-11-05",
				"capabilities":    map[string]any{"tools": map[string]any{}},
			}), nil
		}
		if req.IsNotification() {
			return nil, nil
		}
		return protocol.NewResponse(req.ID, map[string]any{
			"content": []any{map[string]any{"type": "text", "text": "ok"}},
		}), nil
	}
	return protocol.NewResponse(req.ID, result), nil
}

func (m *mockTransport) Close() error {
	m.closed = true
	return nil
}

func newTestClient(t *testing.T, mt *mockTransport) *Client {
	t.Helper()
	c := NewClient(mt, WithRetry(2, time.Millisecond))
	if _, err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return c
}

func TestTextResult(t *testing.T) {
	r := &client.ToolResult{Content: []client.ContentItem{{Type: "text", Text: "hello"}}}
	got, err := textResult(r)
	if err != nil || got != "hello" {
		t.Fatalf("textResult() = %q, %v", got, err)
	}
	if _, err := textResult(&client.ToolResult{}); !errors.Is(err, ErrNoContent) {
		t.Fatalf("textResult(empty) error = %v, want ErrNoContent", err)
	}
}

func TestMajorVersion(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1.0.0", "1"},
		{"2.3.4", "2"},
		{"10.0.1", "10"},
		{"3", "3"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := majorVersion(tt.input); got != tt.want {
			t.Errorf("majorVersion(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestClient_Team(t *testing.T) {
	mt := newMockTransport()
	mt.setToolResponse(`{
		"generated_at": "2026-10-19T10:00:00Z",
		"developers": [{
			"name": "Asha",
			"total_effort_days": 7,
			"has_queue_overflow": false,
			"tickets": [
				{"id": "T1", "title": "Checkout", "status": "In Development", "eta": "2026-10-22", "effort_remaining": 4, "is_risk": true, "owner": "Asha"},
				{"id": "T2", "title": "Refunds", "status": "Clarification", "eta": "", "effort_remaining": 3, "is_blocked": true, "days_blocked": 5, "blocked_by": "Client", "owner": "Asha"}
			]
		}],
		"insights": ["Client accounts for 100% of blocked tickets."]
	}`, false)
	c := newTestClient(t, mt)

	team, err := c.Team(context.Background())
	if err != nil {
		t.Fatalf("Team: %v", err)
	}
	if len(team.Developers) != 1 || len(team.Developers[0].Tickets) != 2 {
		t.Fatalf("unexpected team %+v", team)
	}
	if got := team.Developers[0].Tickets[0].ETA.String(); got != "2026-10-22" {
		t.Errorf("ETA = %s, want 2026-10-22", got)
	}
	if !team.Developers[0].Tickets[1].ETA.IsZero() {
		t.Error("empty ETA should decode to the zero date")
	}

	blocked, err := c.BlockedTickets(context.Background())
	if err != nil {
		t.Fatalf("BlockedTickets: %v", err)
	}
	want := BlockedTicket{Developer: "Asha", TicketID: "T2", Title: "Refunds", BlockedBy: "Client", DaysBlocked: 5}
	if len(blocked) != 1 || blocked[0] != want {
		t.Errorf("BlockedTickets() = %+v, want [%+v]", blocked, want)
	}

	overloaded, err := c.OverloadedDevelopers(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(overloaded) != 0 {
		t.Errorf("OverloadedDevelopers() = %v, want none", overloaded)
	}
}

func TestClient_Insights(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"list", `["Asha is blocked", "Ravi is idle"]`, 2},
		{"clear team", "No insights: nobody is blocked, at risk, overloaded or idle.", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mt := newMockTransport()
			mt.setToolResponse(tt.text, false)
			c := newTestClient(t, mt)

			got, err := c.Insights(context.Background())
			if err != nil {
				t.Fatalf("Insights: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("Insights() returned %d items, want %d", len(got), tt.want)
			}
		})
	}
}

func TestClient_KPI(t *testing.T) {
	mt := newMockTransport()
	mt.setToolResponse(`{"total_tickets": 14, "tickets_closed_yesterday": 1, "eta_risk_count": 2}`, false)
	c := newTestClient(t, mt)

	s, err := c.KPI(context.Background())
	if err != nil {
		t.Fatalf("KPI: %v", err)
	}
	if s.TotalTickets != 14 || s.TicketsClosedYesterday != 1 || s.ETARiskCount != 2 {
		t.Errorf("unexpected summary %+v", s)
	}
}

func TestClient_ETARisk(t *testing.T) {
	mt := newMockTransport()
	mt.setToolResponse(`{"count": 1, "developers": ["Asha"], "tickets": [{"id": "T1", "title": "Checkout", "owner": "Asha", "status": "In Development", "effort": 5, "eta": "2026-10-20"}]}`, false)
	c := newTestClient(t, mt)

	r, err := c.ETARisk(context.Background())
	if err != nil {
		t.Fatalf("ETARisk: %v", err)
	}
	if r.Count != 1 || r.Developers[0] != "Asha" || r.Tickets[0].ID != "T1" {
		t.Errorf("unexpected report %+v", r)
	}
}

func TestClient_ToolError(t *testing.T) {
	mt := newMockTransport()
	mt.setToolResponse("developer not found: Nobody", true)
	c := newTestClient(t, mt)

	_, err := c.Developer(context.Background(), "Nobody")
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("Developer() error = %v, want ToolError", err)
	}
	if toolErr.Tool != "velocity_developer" || toolErr.Message != "developer not found: Nobody" {
		t.Errorf("unexpected tool error %+v", toolErr)
	}
	if mt.toolCalls != 1 {
		t.Errorf("tool errors should not be retried, got %d calls", mt.toolCalls)
	}
	if !IsDeveloperNotFound(err) {
		t.Error("IsDeveloperNotFound() = false, want true")
	}
	if IsNotInitialized(err) {
		t.Error("IsNotInitialized() = true, want false")
	}
}

func TestClient_NotInitialized(t *testing.T) {
	mt := newMockTransport()
	mt.setToolResponse("Workspace not initialized. Run 'velocity init' and import tickets first.", true)
	c := newTestClient(t, mt)

	_, err := c.Team(context.Background())
	if !IsNotInitialized(err) {
		t.Errorf("IsNotInitialized(%v) = false, want true", err)
	}
	if IsDeveloperNotFound(err) {
		t.Error("IsDeveloperNotFound() = true, want false")
	}
	if IsDeveloperNotFound(errors.New("developer not found: plain")) {
		t.Error("plain errors are not tool errors")
	}
}

func TestClient_TransportError(t *testing.T) {
	mt := newMockTransport()
	c := newTestClient(t, mt)
	mt.sendErr = errors.New("broken pipe")

	if _, err := c.KPI(context.Background()); err == nil {
		t.Fatal("expected transport error")
	}
	if mt.toolCalls == 0 {
		t.Error("expected at least one attempt")
	}
}

func schemaJSON(version string, tools []string) string {
	data, _ := json.Marshal(SchemaInfo{SchemaVersion: version, ServerVersion: "dev", Tools: tools})
	return string(data)
}

func TestClient_Compatible(t *testing.T) {
	tests := []struct {
		name    string
		version string
		tools   []string
		wantErr bool
	}{
		{"same major", "1.4.0", requiredTools, false},
		{"newer major", "2.0.0", requiredTools, true},
		{"missing sprint tool", "1.0.0", requiredTools[:5], true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mt := newMockTransport()
			mt.setResourceResponse(schemaJSON(tt.version, tt.tools))
			c := newTestClient(t, mt)

			err := c.Compatible(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Compatible() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_InitializeWithSchemaCheck(t *testing.T) {
	mt := newMockTransport()
	mt.setResourceResponse(schemaJSON("2.0.0", requiredTools))
	c := NewClient(mt, WithSchemaCheck())

	if _, err := c.Initialize(context.Background()); err == nil {
		t.Fatal("expected Initialize to reject a major-2 schema")
	}

	mt.setResourceResponse(schemaJSON("1.1.0", requiredTools))
	c = NewClient(newMockTransportFrom(mt), WithSchemaCheck())
	if _, err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
}

func TestOptions(t *testing.T) {
	o := defaultOptions()
	for _, opt := range []Option{WithTimeout(0), WithRetry(0, time.Millisecond)} {
		opt(&o)
	}
	if o.timeout != defaultTimeout {
		t.Errorf("timeout = %v, want %v kept for a zero override", o.timeout, defaultTimeout)
	}
	cfg := o.retryConfig()
	if cfg.MaxAttempts != 1 {
		t.Errorf("MaxAttempts = %d, want 1", cfg.MaxAttempts)
	}
	if cfg.InitialDelay != time.Millisecond {
		t.Errorf("InitialDelay = %v, want 1ms", cfg.InitialDelay)
	}
}

func TestClient_Close(t *testing.T) {
	mt := newMockTransport()
	c := newTestClient(t, mt)
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if !mt.closed {
		t.Error("Close should close the transport")
	}
}
