package intent

import (
	"math"
	"strings"

	"github.com/futig/support-backend/internal/entity"
)

const (
	defaultConfidence = 0.3
	actionableBoost   = 0.1
	informationalCut  = 0.3
	confidenceCeiling = 0.95
	confidenceFloor   = 0.3
)

// Classifier maps message text to an intent with a confidence score.
// Classification is a pure function of the message: the rule table is fixed at
// construction and never mutated, so identical input always yields identical output.
type Classifier struct {
	rules []Rule
}

func NewClassifier() *Classifier {
	return &Classifier{rules: defaultRules}
}

// Classify evaluates the ordered rule table against the lower-cased message.
//
// High-risk intents are adjusted by two message-level signals: an actionable
// non-question gains confidence (capped), a question about a risky topic loses
// it (floored). That adjustment is what separates "how do I delete my account"
// from "delete my account now".
func (c *Classifier) Classify(message string) entity.IntentResult {
	msg := strings.ToLower(strings.TrimSpace(message))

	informational := isInformational(msg)
	actionable := isActionable(msg)

	bestIntent := entity.IntentGeneralQuestion
	bestConfidence := defaultConfidence

	for _, rule := range c.rules {
		if !rule.Pattern.MatchString(msg) {
			continue
		}

		conf := rule.BaseConfidence
		if IsHighRisk(rule.Intent) {
			if actionable && !informational {
				conf = math.Min(conf+actionableBoost, confidenceCeiling)
			} else if informational {
				conf = math.Max(conf-informationalCut, confidenceFloor)
			}
		}

		if conf > bestConfidence {
			bestConfidence = conf
			bestIntent = rule.Intent
		}
	}

	return entity.IntentResult{
		Intent:         bestIntent,
		Confidence:     math.Round(bestConfidence*100) / 100,
		IsHighRisk:     IsHighRisk(bestIntent),
		IsActionable:   actionable && !informational,
		Specialization: SpecializationFor(bestIntent),
		Severity:       SeverityFor(bestIntent),
	}
}

func isInformational(msg string) bool {
	for _, kw := range informationalKeywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	for _, starter := range questionStarters {
		if strings.HasPrefix(msg, starter) {
			return true
		}
	}
	return false
}

func isActionable(msg string) bool {
	for _, kw := range actionKeywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}
