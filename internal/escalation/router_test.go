package escalation

import (
	"context"
	"strings"
	"testing"

	"github.com/futig/support-backend/internal/entity"
	"github.com/futig/support-backend/internal/intent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTicketRepo struct {
	tickets []entity.Ticket
	err     error
}

func (f *fakeTicketRepo) CreateTicket(_ context.Context, ticket entity.Ticket) error {
	if f.err != nil {
		return f.err
	}
	f.tickets = append(f.tickets, ticket)
	return nil
}

type fakeNotifier struct {
	notified []entity.Ticket
}

func (f *fakeNotifier) NotifyEscalation(_ context.Context, _ entity.HumanAgent, ticket entity.Ticket, _ string) {
	f.notified = append(f.notified, ticket)
}

func TestDecide(t *testing.T) {
	classifier := intent.NewClassifier()

	t.Run("Explicit human request overrides everything", func(t *testing.T) {
		msg := "I need to talk to a human about billing"
		escalate, reason := Decide(msg, classifier.Classify(msg))
		assert.True(t, escalate)
		assert.Equal(t, ReasonUserRequestedHuman, reason)
	})

	t.Run("Human request wins even for informational phrasing", func(t *testing.T) {
		msg := "How can I speak with a real person?"
		escalate, reason := Decide(msg, classifier.Classify(msg))
		assert.True(t, escalate)
		assert.Equal(t, ReasonUserRequestedHuman, reason)
	})

	t.Run("High-risk question self-serves", func(t *testing.T) {
		msg := "How do I delete my account?"
		escalate, reason := Decide(msg, classifier.Classify(msg))
		assert.False(t, escalate)
		assert.Equal(t, ReasonSelfService, reason)
	})

	t.Run("High-risk action escalates with intent reason", func(t *testing.T) {
		msg := "Delete my account now"
		escalate, reason := Decide(msg, classifier.Classify(msg))
		assert.True(t, escalate)
		assert.Equal(t, "high_risk_action:account_deletion", reason)
	})

	t.Run("Ordinary question self-serves", func(t *testing.T) {
		msg := "What are your business hours?"
		escalate, reason := Decide(msg, classifier.Classify(msg))
		assert.False(t, escalate)
		assert.Equal(t, ReasonSelfService, reason)
	})
}

func TestRoute(t *testing.T) {
	logger := zap.NewNop()
	classifier := intent.NewClassifier()

	t.Run("Escalation creates ticket and notifies assigned agent", func(t *testing.T) {
		pool := NewPool(t.TempDir(), 5, logger)
		pool.Register(entity.RegisterAgentRequest{
			AgentID: "agent_billing",
			Name:    "Dana",
			Email:   "dana@example.com",
		})
		repo := &fakeTicketRepo{}
		notifier := &fakeNotifier{}
		router := NewRouter(pool, repo, notifier, logger)

		msg := "I want a refund immediately"
		result := router.Route(context.Background(), "acme", "u1", msg, classifier.Classify(msg))

		require.True(t, result.ShouldEscalate)
		require.NotNil(t, result.AssignedAgent)
		assert.Equal(t, "agent_billing", result.AssignedAgent.AgentID)
		assert.True(t, strings.HasPrefix(result.TicketID, "TKT-"), "ticket id %q", result.TicketID)

		require.Len(t, repo.tickets, 1)
		assert.Equal(t, result.TicketID, repo.tickets[0].TicketID)
		assert.Equal(t, "acme", repo.tickets[0].TenantID)
		require.NotNil(t, repo.tickets[0].AssignedAgent)
		assert.Equal(t, "agent_billing", *repo.tickets[0].AssignedAgent)

		require.Len(t, notifier.notified, 1)
		assert.Equal(t, result.TicketID, notifier.notified[0].TicketID)
	})

	t.Run("Ticket exists even when no agent is available", func(t *testing.T) {
		pool := NewPool(t.TempDir(), 5, logger)
		repo := &fakeTicketRepo{}
		notifier := &fakeNotifier{}
		router := NewRouter(pool, repo, notifier, logger)

		msg := "I need a human"
		result := router.Route(context.Background(), "acme", "u1", msg, classifier.Classify(msg))

		require.True(t, result.ShouldEscalate)
		assert.Nil(t, result.AssignedAgent)
		assert.NotEmpty(t, result.TicketID)

		require.Len(t, repo.tickets, 1)
		assert.Nil(t, repo.tickets[0].AssignedAgent)
		assert.Empty(t, notifier.notified, "no agent means nothing to notify")
	})

	t.Run("Ticket persistence failure does not block escalation", func(t *testing.T) {
		pool := NewPool(t.TempDir(), 5, logger)
		repo := &fakeTicketRepo{err: context.DeadlineExceeded}
		router := NewRouter(pool, repo, &fakeNotifier{}, logger)

		msg := "I need a human"
		result := router.Route(context.Background(), "acme", "u1", msg, classifier.Classify(msg))

		assert.True(t, result.ShouldEscalate)
		assert.NotEmpty(t, result.TicketID)
	})

	t.Run("Self-service path touches nothing", func(t *testing.T) {
		pool := NewPool(t.TempDir(), 5, logger)
		repo := &fakeTicketRepo{}
		router := NewRouter(pool, repo, &fakeNotifier{}, logger)

		msg := "What is your refund policy?"
		result := router.Route(context.Background(), "acme", "u1", msg, classifier.Classify(msg))

		assert.False(t, result.ShouldEscalate)
		assert.Equal(t, ReasonSelfService, result.Reason)
		assert.Empty(t, result.TicketID)
		assert.Empty(t, repo.tickets)
	})
}
