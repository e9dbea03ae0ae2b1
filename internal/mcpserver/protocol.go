package mcpserver

// Message is a JSON-RPC 2.0 envelope, shaped to carry every one of
// initialize/tools/list/tools/call/resources/list/resources/read/
// prompts/list/prompts/get over a single newline-delimited stream.
type Message struct {
	Jsonrpc string      `json:"jsonrpc"`
	ID      interface{} `json:"id,omitempty"`
	Method  string      `json:"method,omitempty"`
	Params  interface{} `json:"params,omitempty"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *RPCError) Error() string { return e.Message }

// Standard and archlens-specific JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeTimeout        = -32000
)

func newErrorMessage(id interface{}, code int, message string, data interface{}) *Message {
	return &Message{Jsonrpc: "2.0", ID: id, Error: &RPCError{Code: code, Message: message, Data: data}}
}

func newResultMessage(id interface{}, result interface{}) *Message {
	return &Message{Jsonrpc: "2.0", ID: id, Result: result}
}

// IsRequest reports whether m is a request expecting a response.
func (m *Message) IsRequest() bool { return m.Method != "" && m.ID != nil }

// IsNotification reports whether m is a notification (no response expected).
func (m *Message) IsNotification() bool { return m.Method != "" && m.ID == nil }

// ToolDescriptor is one entry of a tools/list response.
type ToolDescriptor struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// toolDescriptors is the fixed catalog surfaced by tools/list and written
// to the out/schemas/*.schema.json files by the archlens schemas command.
var toolDescriptors = []ToolDescriptor{
	{
		Name:        "analyze.project",
		Description: "Run a full analysis of a project and return its AI summary JSON.",
		InputSchema: objectSchema(map[string]string{"path": "string"}, nil),
	},
	{
		Name:        "structure.get",
		Description: "Return component/relation counts and the layer map for a project.",
		InputSchema: objectSchema(map[string]string{"path": "string", "show_metrics": "boolean"}, nil),
	},
	{
		Name:        "graph.build",
		Description: "Render the dependency graph as Mermaid, with detected cycles highlighted.",
		InputSchema: requestSchema(),
	},
	{
		Name:        "export.ai_compact",
		Description: "Render the Markdown AI-compact projection of a project's analysis.",
		InputSchema: requestSchema(),
	},
	{
		Name:        "export.ai_summary_json",
		Description: "Render the JSON AI-summary projection of a project's analysis.",
		InputSchema: requestSchema(),
	},
	{
		Name:        "arch.refresh",
		Description: "Invalidate cached projections for a project and recompute its summary.",
		InputSchema: objectSchema(map[string]string{"path": "string"}, nil),
	},
	{
		Name:        "ai.recommend",
		Description: "Suggest the next tool calls to run from a project's component count and complexity, coupling and cohesion metrics; cycles, layers and validated findings are not consulted.",
		InputSchema: objectSchema(map[string]string{"path": "string", "focus": "string"}, nil),
	},
	{
		Name:        "history.recent",
		Description: "Return the N most recent recorded analysis runs.",
		InputSchema: objectSchema(map[string]string{"n": "integer"}, nil),
	},
}

func objectSchema(props map[string]string, required []string) map[string]interface{} {
	p := make(map[string]interface{}, len(props))
	for name, typ := range props {
		p[name] = map[string]interface{}{"type": typ}
	}
	schema := map[string]interface{}{"type": "object", "properties": p}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// ToolDescriptors returns the fixed tool catalog, for callers outside this
// package that need it without going through the stdio transport (the HTTP
// transport's /tools/list and /schemas/list endpoints).
func ToolDescriptors() []ToolDescriptor {
	return toolDescriptors
}

func requestSchema() map[string]interface{} {
	return objectSchema(map[string]string{
		"path":         "string",
		"detail_level": "string",
		"sections":     "array",
		"top_n":        "integer",
		"max_chars":    "integer",
	}, []string{"path"})
}
