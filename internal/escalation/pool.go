package escalation

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/futig/support-backend/internal/entity"
	"go.uber.org/zap"
)

const rosterFile = "HumanAssistants.txt"

var defaultSpecializations = []string{"general", "billing", "technical"}

// Pool manages the human support agents for one process. Agents are loaded
// from per-tenant rosters at startup; assignment and release mutate load
// counters under the pool mutex so concurrent escalations cannot overbook an
// agent past its max load.
type Pool struct {
	documentsDir string
	maxLoad      int
	logger       *zap.Logger

	mu     sync.Mutex
	agents map[string]*entity.HumanAgent
	order  []string
}

func NewPool(documentsDir string, maxLoad int, logger *zap.Logger) *Pool {
	return &Pool{
		documentsDir: documentsDir,
		maxLoad:      maxLoad,
		logger:       logger,
		agents:       make(map[string]*entity.HumanAgent),
	}
}

// LoadRoster parses the tenant's HumanAssistants.txt. The format is pairs of
// "Name : ..." / "Email : ..." lines. A missing roster is not an error; the
// pool simply stays as it was.
func (p *Pool) LoadRoster(tenantID string) ([]entity.HumanAgent, error) {
	path := filepath.Join(p.documentsDir, tenantID, rosterFile)

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		p.logger.Warn("no agent roster found for tenant", zap.String("tenant_id", tenantID))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	var loaded []entity.HumanAgent
	var name, email string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "name":
			name = strings.TrimSpace(value)
		case "email":
			email = strings.TrimSpace(value)
		}

		if name != "" && email != "" {
			agent := p.addAgent(name, email)
			loaded = append(loaded, *agent)
			p.logger.Info("loaded support agent",
				zap.String("agent_id", agent.AgentID),
				zap.String("name", agent.Name),
			)
			name, email = "", ""
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	return loaded, nil
}

func (p *Pool) addAgent(name, email string) *entity.HumanAgent {
	p.mu.Lock()
	defer p.mu.Unlock()

	agent := &entity.HumanAgent{
		AgentID:         fmt.Sprintf("agent_%03d", len(p.agents)+1),
		Name:            name,
		Email:           email,
		Status:          entity.AgentStatusAvailable,
		Specializations: append([]string(nil), defaultSpecializations...),
		MaxLoad:         p.maxLoad,
	}
	p.agents[agent.AgentID] = agent
	p.order = append(p.order, agent.AgentID)
	return agent
}

// Register upserts an agent by id, keeping the current load of an existing one
func (p *Pool) Register(req entity.RegisterAgentRequest) entity.HumanAgent {
	p.mu.Lock()
	defer p.mu.Unlock()

	maxLoad := req.MaxLoad
	if maxLoad <= 0 {
		maxLoad = p.maxLoad
	}
	specs := req.Specializations
	if len(specs) == 0 {
		specs = append([]string(nil), defaultSpecializations...)
	}

	if existing, ok := p.agents[req.AgentID]; ok {
		existing.Name = req.Name
		existing.Email = req.Email
		existing.Specializations = specs
		existing.MaxLoad = maxLoad
		return *existing
	}

	agent := &entity.HumanAgent{
		AgentID:         req.AgentID,
		Name:            req.Name,
		Email:           req.Email,
		Status:          entity.AgentStatusAvailable,
		Specializations: specs,
		MaxLoad:         maxLoad,
	}
	p.agents[agent.AgentID] = agent
	p.order = append(p.order, agent.AgentID)
	return *agent
}

// Get returns a copy of the agent, or ErrAgentNotFound
func (p *Pool) Get(agentID string) (entity.HumanAgent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	agent, ok := p.agents[agentID]
	if !ok {
		return entity.HumanAgent{}, entity.ErrAgentNotFound
	}
	return *agent, nil
}

// All returns copies of every known agent in registration order
func (p *Pool) All() []entity.HumanAgent {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]entity.HumanAgent, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, *p.agents[id])
	}
	return out
}

// SetStatus updates an agent's availability
func (p *Pool) SetStatus(agentID string, status entity.AgentStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	agent, ok := p.agents[agentID]
	if !ok {
		return entity.ErrAgentNotFound
	}
	agent.Status = status
	return nil
}

// Assign picks an agent for the escalation and increments its load.
//
// Selection order: available agents with capacity whose specializations cover
// the routing tag, then any available agent with capacity (lowest load wins),
// then — only for high severity — the first known agent regardless of status
// or load, so every high-severity escalation gets an owner. Returns nil when
// nothing can be assigned.
func (p *Pool) Assign(specialization string, severity entity.Severity) *entity.HumanAgent {
	p.mu.Lock()
	defer p.mu.Unlock()

	candidates := p.availableLocked(specialization)
	if len(candidates) == 0 {
		if severity == entity.SeverityHigh && len(p.order) > 0 {
			// Overload-accept policy: force-assign past max load.
			forced := p.agents[p.order[0]]
			forced.CurrentLoad++
			copied := *forced
			return &copied
		}
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].CurrentLoad < candidates[j].CurrentLoad
	})

	chosen := candidates[0]
	chosen.CurrentLoad++
	copied := *chosen
	return &copied
}

// availableLocked prefers specialized agents, falling back to any with
// capacity. Callers must hold the pool mutex.
func (p *Pool) availableLocked(specialization string) []*entity.HumanAgent {
	var available, specialized []*entity.HumanAgent
	for _, id := range p.order {
		agent := p.agents[id]
		if !agent.HasCapacity() {
			continue
		}
		available = append(available, agent)
		if specialization != "" && agent.HasSpecialization(specialization) {
			specialized = append(specialized, agent)
		}
	}
	if len(specialized) > 0 {
		return specialized
	}
	return available
}

// Release decrements the agent's load, never below zero
func (p *Pool) Release(agentID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	agent, ok := p.agents[agentID]
	if !ok {
		return entity.ErrAgentNotFound
	}
	if agent.CurrentLoad > 0 {
		agent.CurrentLoad--
	}
	return nil
}
