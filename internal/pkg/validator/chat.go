package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/futig/support-backend/internal/entity"
)

// Validator validates inbound API requests
type Validator struct {
	maxMessageLen int
}

func NewValidator(maxMessageLen int) *Validator {
	return &Validator{maxMessageLen: maxMessageLen}
}

// ValidateChat validates a chat request before it enters the pipeline
func (v *Validator) ValidateChat(req *entity.ChatRequest) error {
	if strings.TrimSpace(req.TenantID) == "" {
		return entity.ErrMissingTenantID
	}
	if strings.TrimSpace(req.UserID) == "" {
		return entity.ErrMissingUserID
	}
	if strings.TrimSpace(req.Message) == "" {
		return entity.ErrEmptyMessage
	}
	if utf8.RuneCountInString(req.Message) > v.maxMessageLen {
		return fmt.Errorf("%w: maximum %d characters", entity.ErrMessageTooLong, v.maxMessageLen)
	}
	return nil
}

// ValidateRegisterAgent validates an agent registration request
func (v *Validator) ValidateRegisterAgent(req *entity.RegisterAgentRequest) error {
	if strings.TrimSpace(req.AgentID) == "" {
		return fmt.Errorf("%w: agent_id", entity.ErrMissingField)
	}
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name", entity.ErrMissingField)
	}
	if strings.TrimSpace(req.Email) == "" {
		return fmt.Errorf("%w: email", entity.ErrMissingField)
	}
	if req.MaxLoad < 0 {
		return fmt.Errorf("%w: max_load must not be negative", entity.ErrInvalidParameter)
	}
	return nil
}
