package agents

import (
	"github.com/futig/support-backend/internal/entity"
)

type AgentPool interface {
	Register(req entity.RegisterAgentRequest) entity.HumanAgent
	Get(agentID string) (entity.HumanAgent, error)
	All() []entity.HumanAgent
	SetStatus(agentID string, status entity.AgentStatus) error
	Release(agentID string) error
}
