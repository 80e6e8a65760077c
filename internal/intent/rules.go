package intent

import (
	"regexp"

	"github.com/futig/support-backend/internal/entity"
)

// Rule is one entry of the ordered classification table. Rules are evaluated
// in order against the lower-cased message; the highest-confidence match wins.
type Rule struct {
	Pattern        *regexp.Regexp
	Intent         entity.Intent
	BaseConfidence float64
}

// defaultRules is the ordered (pattern, intent, weight) table
var defaultRules = []Rule{
	// Account deletion
	{regexp.MustCompile(`\b(delete|remove|close|terminate)\s+(my\s+)?(account|profile)\b`), entity.IntentAccountDeletion, 0.8},
	{regexp.MustCompile(`\bpermanently\s+(delete|remove)\b`), entity.IntentAccountDeletion, 0.85},
	{regexp.MustCompile(`\b(want|need)\s+to\s+(delete|close)\b`), entity.IntentAccountDeletion, 0.75},

	// Refunds
	{regexp.MustCompile(`\b(refund|money\s+back|reimburse)\b`), entity.IntentBillingRefund, 0.7},
	{regexp.MustCompile(`\b(get|want|need)\s+(a\s+)?refund\b`), entity.IntentBillingRefund, 0.8},
	{regexp.MustCompile(`\bcharge(d|s)?\s+(wrong|incorrect|twice|duplicate)\b`), entity.IntentBillingRefund, 0.75},

	// Chargebacks
	{regexp.MustCompile(`\bchargeback\b`), entity.IntentChargeback, 0.9},
	{regexp.MustCompile(`\bdispute\s+(charge|transaction|payment)\b`), entity.IntentChargeback, 0.8},
	{regexp.MustCompile(`\bcontact(ing)?\s+(my\s+)?bank\b`), entity.IntentChargeback, 0.7},

	// Data export
	{regexp.MustCompile(`\b(export|download)\s+(my\s+)?data\b`), entity.IntentDataExport, 0.8},
	{regexp.MustCompile(`\bgdpr\s+(request|data)\b`), entity.IntentDataExport, 0.85},
	{regexp.MustCompile(`\b(all\s+)?my\s+information\b`), entity.IntentDataExport, 0.6},

	// Login issues
	{regexp.MustCompile(`\b(can'?t|cannot|unable)\s+(to\s+)?(login|log\s*in|sign\s*in)\b`), entity.IntentLoginIssue, 0.85},
	{regexp.MustCompile(`\blogin\s+(problem|issue|error)\b`), entity.IntentLoginIssue, 0.8},
	{regexp.MustCompile(`\baccount\s+locked\b`), entity.IntentLoginIssue, 0.85},

	// Password reset
	{regexp.MustCompile(`\b(reset|forgot|change)\s+(my\s+)?password\b`), entity.IntentPasswordReset, 0.9},
	{regexp.MustCompile(`\bpassword\s+(reset|recovery)\b`), entity.IntentPasswordReset, 0.85},

	// Bug reports
	{regexp.MustCompile(`\b(bug|error|broken|not\s+working)\b`), entity.IntentBugReport, 0.6},
	{regexp.MustCompile(`\b(crash|crashes|crashed)\b`), entity.IntentBugReport, 0.7},
	{regexp.MustCompile(`\b(issue|problem)\s+with\b`), entity.IntentBugReport, 0.5},

	// Integration/API
	{regexp.MustCompile(`\bapi\s+(key|documentation|endpoint)\b`), entity.IntentAPISupport, 0.8},
	{regexp.MustCompile(`\b(integrate|integration|webhook)\b`), entity.IntentIntegrationHelp, 0.75},

	// Pricing
	{regexp.MustCompile(`\b(price|pricing|cost|subscription|plan)\b`), entity.IntentPricingQuestion, 0.7},
	{regexp.MustCompile(`\bhow\s+much\b`), entity.IntentPricingQuestion, 0.6},

	// Feedback/complaints
	{regexp.MustCompile(`\b(complaint|complain|disappointed|frustrated)\b`), entity.IntentComplaint, 0.7},
	{regexp.MustCompile(`\b(feedback|suggestion|recommend)\b`), entity.IntentFeedback, 0.7},

	// Feature inquiry
	{regexp.MustCompile(`\b(feature|capability|can\s+you|does\s+it)\b`), entity.IntentFeatureInquiry, 0.5},
}

// highRiskIntents escalate when the message is an action request
var highRiskIntents = map[entity.Intent]struct{}{
	entity.IntentBillingRefund:   {},
	entity.IntentChargeback:      {},
	entity.IntentAccountDeletion: {},
	entity.IntentDataExport:      {},
}

// IsHighRisk reports whether the intent belongs to the fixed high-risk set
func IsHighRisk(intent entity.Intent) bool {
	_, ok := highRiskIntents[intent]
	return ok
}

// informationalKeywords mark messages that ask about a topic rather than request an action
var informationalKeywords = []string{
	"how", "what", "when", "where", "why",
	"policy", "policies", "information", "info",
	"tell me about", "explain", "describe",
	"can i", "is it possible", "do you",
}

var questionStarters = []string{
	"how", "what", "when", "where", "why", "can i", "is it", "do you",
}

// actionKeywords mark messages that request an action
var actionKeywords = []string{
	"want", "need", "please", "now",
	"initiate", "process", "start",
	"do", "make", "get", "give",
	"immediately", "asap", "urgent",
}

// specializations maps intents to human routing tags
var specializations = map[entity.Intent]string{
	entity.IntentBillingRefund:   "billing",
	entity.IntentChargeback:      "billing",
	entity.IntentPricingQuestion: "billing",
	entity.IntentAccountDeletion: "account",
	entity.IntentAccountSettings: "account",
	entity.IntentLoginIssue:      "account",
	entity.IntentPasswordReset:   "account",
	entity.IntentDataExport:      "security",
	entity.IntentBugReport:       "technical",
	entity.IntentIntegrationHelp: "technical",
	entity.IntentAPISupport:      "technical",
	entity.IntentComplaint:       "general",
	entity.IntentFeedback:        "general",
	entity.IntentGeneralQuestion: "general",
	entity.IntentFeatureInquiry:  "general",
}

// severities maps intents to escalation severity
var severities = map[entity.Intent]entity.Severity{
	entity.IntentChargeback:      entity.SeverityHigh,
	entity.IntentAccountDeletion: entity.SeverityHigh,
	entity.IntentBillingRefund:   entity.SeverityMedium,
	entity.IntentDataExport:      entity.SeverityMedium,
	entity.IntentComplaint:       entity.SeverityMedium,
	entity.IntentBugReport:       entity.SeverityMedium,
	entity.IntentLoginIssue:      entity.SeverityLow,
	entity.IntentPasswordReset:   entity.SeverityLow,
	entity.IntentGeneralQuestion: entity.SeverityLow,
	entity.IntentFeatureInquiry:  entity.SeverityLow,
	entity.IntentPricingQuestion: entity.SeverityLow,
	entity.IntentFeedback:        entity.SeverityLow,
	entity.IntentAccountSettings: entity.SeverityLow,
	entity.IntentIntegrationHelp: entity.SeverityLow,
	entity.IntentAPISupport:      entity.SeverityLow,
}

// SpecializationFor returns the routing tag for an intent, "general" by default
func SpecializationFor(intent entity.Intent) string {
	if tag, ok := specializations[intent]; ok {
		return tag
	}
	return "general"
}

// SeverityFor returns the severity for an intent, low by default
func SeverityFor(intent entity.Intent) entity.Severity {
	if sev, ok := severities[intent]; ok {
		return sev
	}
	return entity.SeverityLow
}
