package mcp

type Toolset interface {
	ID() string
	Version() string
	Init(ctx ToolsetContext) error
	Register(reg Registry) error
}

// ResourceProvider is implemented by toolsets that also serve static MCP
// resources.
type ResourceProvider interface {
	Resources() []ResourceSpec
}
