package entity

import (
	"fmt"
	"time"
)

type Intent string

// Intent categories recognized by the classifier
const (
	// General queries
	IntentGeneralQuestion Intent = "general_question"
	IntentFeatureInquiry  Intent = "feature_inquiry"
	IntentPricingQuestion Intent = "pricing_question"

	// Account management
	IntentLoginIssue      Intent = "login_issue"
	IntentPasswordReset   Intent = "password_reset"
	IntentAccountSettings Intent = "account_settings"

	// High-risk actions (escalate when actionable)
	IntentAccountDeletion Intent = "account_deletion"
	IntentBillingRefund   Intent = "billing_refund"
	IntentChargeback      Intent = "chargeback"
	IntentDataExport      Intent = "data_export"

	// Technical support
	IntentBugReport       Intent = "bug_report"
	IntentIntegrationHelp Intent = "integration_help"
	IntentAPISupport      Intent = "api_support"

	// Feedback
	IntentFeedback  Intent = "feedback"
	IntentComplaint Intent = "complaint"

	IntentUnknown Intent = "unknown"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ResponseSource identifies what produced the reply text
type ResponseSource string

const (
	SourceDocument ResponseSource = "document"
	SourceLLM      ResponseSource = "llm"
	SourceHuman    ResponseSource = "human"
)

// GenerationMode selects the system prompt contract for a generation provider
type GenerationMode string

const (
	// ModeGrounded restricts the provider to the supplied document context
	ModeGrounded GenerationMode = "grounded"
	// ModeGeneral allows general knowledge but forbids fabricated specifics
	ModeGeneral GenerationMode = "general"
)

func (m GenerationMode) Validate() error {
	switch m {
	case ModeGrounded, ModeGeneral:
		return nil
	default:
		return fmt.Errorf("unknown generation mode: %s", m)
	}
}

// ChunkMetadata carries the provenance of an indexed document chunk
type ChunkMetadata struct {
	TenantID   string    `json:"tenant_id"`
	Source     string    `json:"source"`
	Page       int       `json:"page"`
	ChunkIndex int       `json:"chunk_index"`
	IngestedAt time.Time `json:"ingested_at"`
}

// DocumentChunk is a bounded span of source-document text with its embedding.
// The embedding is filled in by the index at add time; chunks and embeddings
// are stored in lockstep and must never diverge in length.
type DocumentChunk struct {
	Content   string        `json:"content"`
	Metadata  ChunkMetadata `json:"metadata"`
	Embedding []float64     `json:"embedding,omitempty"`
}

// IntentResult is the immutable output of intent classification
type IntentResult struct {
	Intent         Intent
	Confidence     float64
	IsHighRisk     bool
	IsActionable   bool
	Specialization string
	Severity       Severity
}

// RetrievalResult is a single matched chunk with its cosine similarity score
type RetrievalResult struct {
	Content  string
	Score    float64
	Metadata ChunkMetadata
}

// RetrievalResponse aggregates matched chunks for a query
type RetrievalResponse struct {
	Context    string
	Confidence float64
	Sources    []string
	IsRelevant bool
	Chunks     []RetrievalResult
}

// EscalationResult is the outcome of the escalation decision pipeline
type EscalationResult struct {
	ShouldEscalate bool
	Reason         string
	AssignedAgent  *HumanAgent
	TicketID       string
}

type AgentStatus string

const (
	AgentStatusAvailable AgentStatus = "available"
	AgentStatusBusy      AgentStatus = "busy"
	AgentStatusOffline   AgentStatus = "offline"
)

func (s AgentStatus) Validate() error {
	switch s {
	case AgentStatusAvailable, AgentStatusBusy, AgentStatusOffline:
		return nil
	default:
		return fmt.Errorf("unknown agent status: %s", s)
	}
}

// HumanAgent is a support agent loaded from the tenant roster.
// Load counters are mutated only through pool assignment and release.
type HumanAgent struct {
	AgentID         string      `json:"agent_id"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Status          AgentStatus `json:"status"`
	Specializations []string    `json:"specializations"`
	CurrentLoad     int         `json:"current_load"`
	MaxLoad         int         `json:"max_load"`
}

// HasCapacity reports whether the agent can take another assignment
func (a *HumanAgent) HasCapacity() bool {
	return a.Status == AgentStatusAvailable && a.CurrentLoad < a.MaxLoad
}

// HasSpecialization reports whether the agent covers the given routing tag
func (a *HumanAgent) HasSpecialization(tag string) bool {
	for _, s := range a.Specializations {
		if s == tag {
			return true
		}
	}
	return false
}

// Ticket is the persisted record of an escalation
type Ticket struct {
	TicketID       string    `json:"ticket_id"`
	TenantID       string    `json:"tenant_id"`
	UserID         string    `json:"user_id"`
	Intent         Intent    `json:"intent"`
	Severity       Severity  `json:"severity"`
	Reason         string    `json:"reason"`
	AssignedAgent  *string   `json:"assigned_agent,omitempty"`
	MessagePreview string    `json:"message_preview"`
	CreatedAt      time.Time `json:"created_at"`
}
