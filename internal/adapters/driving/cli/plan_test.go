package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyforge/studyforge-cli/internal/adapters/driven/storage/memory"
	"github.com/studyforge/studyforge-cli/internal/core/domain"
)

func TestPlanCmd_HasSubcommands(t *testing.T) {
	commands := planCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "show")
	assert.Contains(t, commandNames, "delete")
}

func TestPlanListCmd_PrintsSummaries(t *testing.T) {
	cleanup := setupPlanService(&mockPlanService{})
	defer cleanup()

	out, err := execute(t, "plan", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "plan-42")
	assert.Contains(t, out, "Ocean Currents")
	assert.Contains(t, out, "oceans.txt")
}

func TestPlanListCmd_Empty(t *testing.T) {
	cleanup := setupPlanService(&mockPlanService{
		listFunc: func(context.Context) ([]domain.LearningPlan, error) {
			return nil, nil
		},
	})
	defer cleanup()

	out, err := execute(t, "plan", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No plans stored yet")
}

func TestPlanShowCmd_Text(t *testing.T) {
	cleanup := setupPlanService(&mockPlanService{})
	defer cleanup()

	out, err := execute(t, "plan", "show", "plan-42")
	require.NoError(t, err)
	assert.Contains(t, out, "Ocean Currents")
	assert.Contains(t, out, "Thermohaline Circulation")
	assert.Contains(t, out, "Cold salty water sinks")
}

func TestPlanShowCmd_JSON(t *testing.T) {
	cleanup := setupPlanService(&mockPlanService{})
	defer cleanup()
	defer func() { planShowJSON = false }()

	out, err := execute(t, "plan", "show", "--json", "plan-42")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "plan-42"`)
	assert.Contains(t, out, `"cache_key": "cache-key"`)
	assert.Contains(t, out, `"topics"`)
}

func TestPlanShowCmd_NotFound(t *testing.T) {
	cleanup := setupPlanService(&mockPlanService{
		getFunc: func(context.Context, string) (*domain.LearningPlan, error) {
			return nil, domain.ErrNotFound
		},
	})
	defer cleanup()

	_, err := execute(t, "plan", "show", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlanDeleteCmd(t *testing.T) {
	cleanup := setupPlanService(&mockPlanService{})
	defer cleanup()

	store := memory.NewPlanStore()
	require.NoError(t, store.SavePlan(context.Background(), storedPlan()))
	oldStore := planStore
	planStore = store
	defer func() { planStore = oldStore }()

	out, err := execute(t, "plan", "delete", "plan-42")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted plan plan-42")

	_, err = execute(t, "plan", "delete", "plan-42")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
