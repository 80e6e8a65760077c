package entity

// ChatRequest is the inbound chat message contract
type ChatRequest struct {
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id"`
	Message  string `json:"message"`
}

// AssignedAgentDTO is the agent summary returned to chat callers.
// Load counters are internal and never exposed here.
type AssignedAgentDTO struct {
	AgentID         string   `json:"agent_id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Specializations []string `json:"specializations"`
}

// ChatResponse is the outbound chat contract
type ChatResponse struct {
	Reply         string            `json:"reply"`
	Escalated     bool              `json:"escalated"`
	Intent        Intent            `json:"intent"`
	Confidence    float64           `json:"confidence"`
	Source        ResponseSource    `json:"source"`
	AssignedAgent *AssignedAgentDTO `json:"assigned_agent,omitempty"`
	TicketID      string            `json:"ticket_id,omitempty"`
}

// ResultFormat selects the export format for ticket handoff documents
type ResultFormat string

const (
	FormatMarkdown ResultFormat = "md"
	FormatPDF      ResultFormat = "pdf"
)

// ErrorResponse is the API error contract
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// IngestError describes a single failed file during ingestion
type IngestError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// IngestResult summarizes a directory ingestion run
type IngestResult struct {
	TenantID    string        `json:"tenant_id"`
	Processed   []string      `json:"processed"`
	Skipped     []string      `json:"skipped"`
	Errors      []IngestError `json:"errors"`
	TotalChunks int           `json:"total_chunks"`
}

// IndexStatus reports the state of a tenant's vector index
type IndexStatus struct {
	TenantID   string `json:"tenant_id"`
	ChunkCount int    `json:"chunk_count"`
	Version    string `json:"version"`
}

// RegisterAgentRequest registers or updates a human agent in the pool
type RegisterAgentRequest struct {
	AgentID         string   `json:"agent_id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Specializations []string `json:"specializations"`
	MaxLoad         int      `json:"max_load"`
}

// UpdateAgentStatusRequest changes an agent's availability
type UpdateAgentStatusRequest struct {
	Status AgentStatus `json:"status"`
}
