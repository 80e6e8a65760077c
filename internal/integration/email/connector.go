package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/futig/support-backend/internal/config"
	"github.com/futig/support-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector delivers escalation notifications over SMTP. When the SMTP
// credentials are not configured it runs in simulated mode: the full
// notification is logged and nothing is sent.
type Connector struct {
	config config.SMTPConfig
	logger *zap.Logger
}

func NewConnector(cfg config.SMTPConfig, logger *zap.Logger) *Connector {
	if !cfg.Configured() {
		logger.Warn("SMTP credentials not configured, escalation emails will be simulated")
	}
	return &Connector{
		config: cfg,
		logger: logger,
	}
}

// NotifyEscalation emails the assigned agent about a new ticket. Delivery is
// best effort: failures are logged, never propagated, so a broken mail relay
// cannot block an escalation.
func (c *Connector) NotifyEscalation(ctx context.Context, agent entity.HumanAgent, ticket entity.Ticket, message string) {
	subject := fmt.Sprintf("[%s] New escalation %s", strings.ToUpper(string(ticket.Severity)), ticket.TicketID)
	body := buildBody(agent, ticket, message)

	if !c.config.Configured() {
		ctxzap.Info(ctx, "[SIMULATED] escalation email",
			zap.String("to", agent.Email),
			zap.String("subject", subject),
			zap.String("ticket_id", ticket.TicketID),
		)
		return
	}

	if err := c.send(agent.Email, subject, body); err != nil {
		ctxzap.Error(ctx, "failed to send escalation email",
			zap.String("to", agent.Email),
			zap.String("ticket_id", ticket.TicketID),
			zap.Error(err),
		)
		return
	}

	ctxzap.Info(ctx, "escalation email sent",
		zap.String("to", agent.Email),
		zap.String("ticket_id", ticket.TicketID),
	)
}

func (c *Connector) send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", c.config.Host, c.config.Port)
	auth := smtp.PlainAuth("", c.config.User, c.config.Password, c.config.Host)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", c.config.SenderName, c.config.SenderEmail),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	return smtp.SendMail(addr, auth, c.config.SenderEmail, []string{to}, []byte(msg))
}

func buildBody(agent entity.HumanAgent, ticket entity.Ticket, message string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", agent.Name)
	fmt.Fprintf(&b, "A customer conversation has been escalated to you.\n\n")
	fmt.Fprintf(&b, "Ticket:   %s\n", ticket.TicketID)
	fmt.Fprintf(&b, "Tenant:   %s\n", ticket.TenantID)
	fmt.Fprintf(&b, "Intent:   %s\n", ticket.Intent)
	fmt.Fprintf(&b, "Severity: %s\n", ticket.Severity)
	fmt.Fprintf(&b, "Reason:   %s\n\n", ticket.Reason)
	fmt.Fprintf(&b, "Customer message:\n%s\n", message)
	return b.String()
}
