package tickets

import (
	"fmt"
	"strings"

	"github.com/futig/support-backend/internal/entity"
)

// toHandoffText renders a ticket as plain text for the export formatters
func toHandoffText(t *entity.Ticket) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ticket ID: %s\n", t.TicketID)
	fmt.Fprintf(&b, "Tenant: %s\n", t.TenantID)
	fmt.Fprintf(&b, "User: %s\n", t.UserID)
	fmt.Fprintf(&b, "Intent: %s\n", t.Intent)
	fmt.Fprintf(&b, "Severity: %s\n", t.Severity)
	fmt.Fprintf(&b, "Reason: %s\n", t.Reason)
	if t.AssignedAgent != nil {
		fmt.Fprintf(&b, "Assigned agent: %s\n", *t.AssignedAgent)
	} else {
		b.WriteString("Assigned agent: unassigned\n")
	}
	fmt.Fprintf(&b, "Created at: %s\n\n", t.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Customer message:\n%s\n", t.MessagePreview)
	return b.String()
}
