package escalation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/futig/support-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadRoster(t *testing.T) {
	logger := zap.NewNop()

	t.Run("Parses name and email pairs", func(t *testing.T) {
		dir := t.TempDir()
		tenantDir := filepath.Join(dir, "acme")
		require.NoError(t, os.MkdirAll(tenantDir, 0o755))

		roster := "Name : Alice Smith\nEmail : alice@example.com\n\nName : Bob Jones\nEmail : bob@example.com\n"
		require.NoError(t, os.WriteFile(filepath.Join(tenantDir, "HumanAssistants.txt"), []byte(roster), 0o644))

		pool := NewPool(dir, 5, logger)
		agents, err := pool.LoadRoster("acme")
		require.NoError(t, err)
		require.Len(t, agents, 2)

		assert.Equal(t, "agent_001", agents[0].AgentID)
		assert.Equal(t, "Alice Smith", agents[0].Name)
		assert.Equal(t, "alice@example.com", agents[0].Email)
		assert.Equal(t, entity.AgentStatusAvailable, agents[0].Status)
		assert.Equal(t, 5, agents[0].MaxLoad)
		assert.Equal(t, "agent_002", agents[1].AgentID)
	})

	t.Run("Missing roster is not an error", func(t *testing.T) {
		pool := NewPool(t.TempDir(), 5, logger)
		agents, err := pool.LoadRoster("nobody")
		require.NoError(t, err)
		assert.Empty(t, agents)
	})
}

func TestAssign(t *testing.T) {
	logger := zap.NewNop()

	register := func(p *Pool, id string, specs []string, maxLoad int) {
		p.Register(entity.RegisterAgentRequest{
			AgentID:         id,
			Name:            id,
			Email:           id + "@example.com",
			Specializations: specs,
			MaxLoad:         maxLoad,
		})
	}

	t.Run("Prefers matching specialization", func(t *testing.T) {
		pool := NewPool(t.TempDir(), 5, logger)
		register(pool, "generalist", []string{"general"}, 5)
		register(pool, "biller", []string{"billing"}, 5)

		agent := pool.Assign("billing", entity.SeverityMedium)
		require.NotNil(t, agent)
		assert.Equal(t, "biller", agent.AgentID)
	})

	t.Run("Lowest load wins among candidates", func(t *testing.T) {
		pool := NewPool(t.TempDir(), 5, logger)
		register(pool, "a", []string{"general"}, 5)
		register(pool, "b", []string{"general"}, 5)

		first := pool.Assign("general", entity.SeverityLow)
		second := pool.Assign("general", entity.SeverityLow)
		require.NotNil(t, first)
		require.NotNil(t, second)
		assert.NotEqual(t, first.AgentID, second.AgentID, "load balancing should alternate")
	})

	t.Run("Agents at max load are skipped", func(t *testing.T) {
		pool := NewPool(t.TempDir(), 5, logger)
		register(pool, "solo", []string{"general"}, 1)

		require.NotNil(t, pool.Assign("general", entity.SeverityLow))
		assert.Nil(t, pool.Assign("general", entity.SeverityLow), "capacity exhausted")
	})

	t.Run("Offline agents are never assigned", func(t *testing.T) {
		pool := NewPool(t.TempDir(), 5, logger)
		register(pool, "away", []string{"general"}, 5)
		require.NoError(t, pool.SetStatus("away", entity.AgentStatusOffline))

		assert.Nil(t, pool.Assign("general", entity.SeverityLow))
	})

	t.Run("High severity force-assigns past max load", func(t *testing.T) {
		pool := NewPool(t.TempDir(), 5, logger)
		register(pool, "solo", []string{"billing"}, 1)

		require.NotNil(t, pool.Assign("billing", entity.SeverityHigh))
		forced := pool.Assign("billing", entity.SeverityHigh)
		require.NotNil(t, forced, "high severity must always get an owner")
		assert.Equal(t, "solo", forced.AgentID)
		assert.Equal(t, 2, forced.CurrentLoad)
	})

	t.Run("Unmatched specialization falls back to any available", func(t *testing.T) {
		pool := NewPool(t.TempDir(), 5, logger)
		register(pool, "techie", []string{"technical"}, 5)

		agent := pool.Assign("billing", entity.SeverityMedium)
		require.NotNil(t, agent)
		assert.Equal(t, "techie", agent.AgentID)
	})
}

func TestRelease(t *testing.T) {
	logger := zap.NewNop()
	pool := NewPool(t.TempDir(), 5, logger)
	pool.Register(entity.RegisterAgentRequest{AgentID: "a", Name: "A", Email: "a@example.com"})

	require.NotNil(t, pool.Assign("general", entity.SeverityLow))

	require.NoError(t, pool.Release("a"))
	agent, err := pool.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 0, agent.CurrentLoad)

	// Load never goes below zero.
	require.NoError(t, pool.Release("a"))
	agent, err = pool.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 0, agent.CurrentLoad)

	assert.ErrorIs(t, pool.Release("ghost"), entity.ErrAgentNotFound)
}

func TestRegister(t *testing.T) {
	logger := zap.NewNop()
	pool := NewPool(t.TempDir(), 3, logger)

	created := pool.Register(entity.RegisterAgentRequest{AgentID: "a", Name: "A", Email: "a@example.com"})
	assert.Equal(t, 3, created.MaxLoad, "pool default applies when max_load unset")
	assert.Equal(t, []string{"general", "billing", "technical"}, created.Specializations)

	require.NotNil(t, pool.Assign("general", entity.SeverityLow))

	// Re-registration keeps the current load.
	updated := pool.Register(entity.RegisterAgentRequest{
		AgentID:         "a",
		Name:            "A2",
		Email:           "a2@example.com",
		Specializations: []string{"billing"},
		MaxLoad:         10,
	})
	assert.Equal(t, "A2", updated.Name)
	assert.Equal(t, 10, updated.MaxLoad)
	assert.Equal(t, 1, updated.CurrentLoad)
}
