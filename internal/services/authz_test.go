package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voluntia/volunteerhub-api/internal/models"
)

func TestAllow(t *testing.T) {
	allActions := []Action{
		ActionManagePostulations,
		ActionManageHistory,
		ActionManageMetrics,
		ActionManageBadges,
		ActionManageTier,
		ActionListProfiles,
		ActionApproveTime,
	}

	for _, action := range allActions {
		assert.True(t, Allow(models.RoleAdmin, action), "admin should be allowed %s", action)
		assert.False(t, Allow(models.RoleVolunteer, action), "volunteer should be denied %s", action)
		assert.False(t, Allow("", action), "missing role should be denied %s", action)
	}

	coordinatorAllowed := map[Action]bool{
		ActionManagePostulations: true,
		ActionManageHistory:      true,
		ActionManageMetrics:      true,
		ActionApproveTime:        true,
	}
	for _, action := range allActions {
		assert.Equal(t, coordinatorAllowed[action], Allow(models.RoleCoordinator, action),
			"coordinator permission for %s", action)
	}
}
