// Package sdk provides a typed Go client for the velocity MCP server.
//
// Each method calls one tool and decodes its JSON payload into the domain
// types the server produces. Transport failures are retried via fortify.
//
// Usage:
//
//	transport, _ := client.NewStdioTransport("velocity", "mcp")
//	c := sdk.NewClient(transport, sdk.WithSchemaCheck())
//	defer c.Close()
//
//	_, _ = c.Initialize(ctx)
//	pulse, _ := c.KPI(ctx)
//	fmt.Println(pulse.ETARiskCount)
package sdk
