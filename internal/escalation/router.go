package escalation

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/futig/support-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Escalation reasons
const (
	ReasonUserRequestedHuman = "user_requested_human"
	ReasonSelfService        = "self_service"
	reasonHighRiskPrefix     = "high_risk_action:"
)

const messagePreviewLen = 200

// humanRequestPatterns match explicit requests for a human agent
var humanRequestPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(talk|speak|chat)\s+(to|with)\s+(a\s+)?(human|person|agent|representative|someone)\b`),
	regexp.MustCompile(`\b(need|want)\s+(a\s+)?(human|person|agent|representative)\b`),
	regexp.MustCompile(`\b(connect|transfer)\s+me\s+to\b`),
	regexp.MustCompile(`\bhuman\s+(help|support|assistance)\b`),
	regexp.MustCompile(`\breal\s+person\b`),
}

// questionStarters and questionIndicators detect informational phrasing for
// the high-risk rule, mirroring the classifier's informational signal.
var questionStarters = []string{
	"how ", "what ", "when ", "where ", "why ", "which ",
	"can i ", "can you ", "is it ", "is there ", "do you ", "does ",
	"could i ", "could you ", "would ", "should ",
}

var questionIndicators = []string{
	"how do i", "how can i", "how to", "what is", "what are",
	"tell me about", "explain", "information about", "info on",
	"policy", "process for", "steps to", "way to",
	"?",
}

// TicketRepository persists escalation records for audit
type TicketRepository interface {
	CreateTicket(ctx context.Context, ticket entity.Ticket) error
}

// Notifier delivers escalation notifications to the assigned agent
type Notifier interface {
	NotifyEscalation(ctx context.Context, agent entity.HumanAgent, ticket entity.Ticket, message string)
}

// Router evaluates the ordered escalation rules and assigns human agents.
//
// Rule order is deliberate: an explicit request for a human overrides
// everything, including informational phrasing; high-risk intents escalate
// only when the message is an action request; everything else self-serves.
type Router struct {
	pool     *Pool
	tickets  TicketRepository
	notifier Notifier
	logger   *zap.Logger
}

func NewRouter(pool *Pool, tickets TicketRepository, notifier Notifier, logger *zap.Logger) *Router {
	return &Router{
		pool:     pool,
		tickets:  tickets,
		notifier: notifier,
		logger:   logger,
	}
}

// Decide applies the rule order to the message and intent without touching
// the pool. Exposed separately so the decision is testable in isolation.
func Decide(message string, result entity.IntentResult) (bool, string) {
	msg := strings.ToLower(strings.TrimSpace(message))

	// Rule 1: explicit human request always wins.
	for _, pattern := range humanRequestPatterns {
		if pattern.MatchString(msg) {
			return true, ReasonUserRequestedHuman
		}
	}

	// Rule 2: high-risk intents escalate only for action requests.
	// "How do I delete my account?" stays self-service; "Delete my account
	// now" escalates.
	if result.IsHighRisk && result.IsActionable && !isInformationalQuery(msg) {
		return true, reasonHighRiskPrefix + string(result.Intent)
	}

	// Rule 3: self-service.
	return false, ReasonSelfService
}

// Route runs the decision and, on escalation, creates a ticket, assigns an
// agent and fires the notification. The ticket id is generated before agent
// lookup so a ticket exists even when nobody is available.
func (r *Router) Route(ctx context.Context, tenantID, userID, message string, result entity.IntentResult) entity.EscalationResult {
	escalate, reason := Decide(message, result)
	if !escalate {
		return entity.EscalationResult{ShouldEscalate: false, Reason: reason}
	}

	ticketID := newTicketID()
	agent := r.pool.Assign(result.Specialization, result.Severity)

	ticket := entity.Ticket{
		TicketID:       ticketID,
		TenantID:       tenantID,
		UserID:         userID,
		Intent:         result.Intent,
		Severity:       result.Severity,
		Reason:         reason,
		MessagePreview: preview(message),
		CreatedAt:      time.Now().UTC(),
	}
	if agent != nil {
		ticket.AssignedAgent = &agent.AgentID
	}

	if r.tickets != nil {
		if err := r.tickets.CreateTicket(ctx, ticket); err != nil {
			// Audit persistence must not block the escalation itself.
			ctxzap.Error(ctx, "failed to persist escalation ticket",
				zap.String("ticket_id", ticketID), zap.Error(err))
		}
	}

	if agent != nil && r.notifier != nil {
		r.notifier.NotifyEscalation(ctx, *agent, ticket, message)
	}

	ctxzap.Info(ctx, "request escalated",
		zap.String("ticket_id", ticketID),
		zap.String("reason", reason),
		zap.String("intent", string(result.Intent)),
		zap.Bool("agent_assigned", agent != nil),
	)

	return entity.EscalationResult{
		ShouldEscalate: true,
		Reason:         reason,
		AssignedAgent:  agent,
		TicketID:       ticketID,
	}
}

func isInformationalQuery(msg string) bool {
	for _, starter := range questionStarters {
		if strings.HasPrefix(msg, starter) {
			return true
		}
	}
	for _, indicator := range questionIndicators {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}

// newTicketID builds a date-stamped, human-traceable ticket id
func newTicketID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:6]
	return fmt.Sprintf("TKT-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}

func preview(message string) string {
	if len(message) > messagePreviewLen {
		return message[:messagePreviewLen]
	}
	return message
}
