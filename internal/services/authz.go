package services

import "github.com/voluntia/volunteerhub-api/internal/models"

// Action names the privileged mutations of the workflow. Every restricted
// service method consults Allow before touching storage, instead of
// comparing role strings inline at each endpoint.
type Action string

const (
	ActionManagePostulations Action = "postulations.manage"
	ActionManageHistory      Action = "profile.history.manage"
	ActionManageMetrics      Action = "profile.metrics.manage"
	ActionManageBadges       Action = "profile.badges.manage"
	ActionManageTier         Action = "profile.tier.manage"
	ActionListProfiles       Action = "profile.list"
	ActionApproveTime        Action = "task.time.approve"
)

// coordinator-or-admin actions; everything else in the table is admin only.
var coordinatorActions = map[Action]bool{
	ActionManagePostulations: true,
	ActionManageHistory:      true,
	ActionManageMetrics:      true,
	ActionApproveTime:        true,
}

// Allow is the single authorization predicate: (caller role, action) →
// allow/deny. Admins may perform every action.
func Allow(role string, action Action) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleCoordinator:
		return coordinatorActions[action]
	default:
		return false
	}
}
