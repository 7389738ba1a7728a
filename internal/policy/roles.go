package policy

import "github.com/anonto42/circles/backend/internal/models"

// Action is a privileged operation on a circle or on someone else's content.
type Action int

const (
	ActionChangeRole Action = iota
	ActionRemoveMember
	ActionDeleteOthersPost
	ActionDeleteOthersComment
	ActionUpdateCircle
	ActionSetPrivacy
	ActionManageCircleAlbum
	ActionViewModerationLog
	ActionDeleteCircle
	ActionTransferOwnership
)

func (a Action) String() string {
	switch a {
	case ActionChangeRole:
		return "change_role"
	case ActionRemoveMember:
		return "remove_member"
	case ActionDeleteOthersPost:
		return "delete_others_post"
	case ActionDeleteOthersComment:
		return "delete_others_comment"
	case ActionUpdateCircle:
		return "update_circle"
	case ActionSetPrivacy:
		return "set_privacy"
	case ActionManageCircleAlbum:
		return "manage_circle_album"
	case ActionViewModerationLog:
		return "view_moderation_log"
	case ActionDeleteCircle:
		return "delete_circle"
	case ActionTransferOwnership:
		return "transfer_ownership"
	}
	return "unknown"
}

// minimumRole is the authorization table. Actions missing here are creator-only.
var minimumRole = map[Action]models.Role{
	ActionChangeRole:          models.RoleAdmin,
	ActionRemoveMember:        models.RoleAdmin,
	ActionDeleteOthersPost:    models.RoleAdmin,
	ActionUpdateCircle:        models.RoleAdmin,
	ActionSetPrivacy:          models.RoleAdmin,
	ActionDeleteOthersComment: models.RoleModerator,
	ActionManageCircleAlbum:   models.RoleModerator,
	ActionViewModerationLog:   models.RoleModerator,
}

// Standing is a user's position in one circle. Role is empty for non-members.
type Standing struct {
	UserID    uint
	CircleID  uint
	Role      models.Role
	IsCreator bool
}

func (s Standing) IsMember() bool { return s.Role.Valid() }

// Allowed reports whether the standing permits the action.
func Allowed(s Standing, a Action) bool {
	if s.UserID == 0 {
		return false
	}
	if s.IsCreator {
		return true
	}
	min, ok := minimumRole[a]
	if !ok {
		return false
	}
	return s.Role.AtLeast(min)
}

// CanChangeRole applies the role transition rules: the actor needs
// ActionChangeRole, the target must be a member, and the creator's role is fixed.
func CanChangeRole(actor, target Standing) bool {
	return Allowed(actor, ActionChangeRole) && target.IsMember() && !target.IsCreator
}

// CanRemoveMember mirrors CanChangeRole for removals.
func CanRemoveMember(actor, target Standing) bool {
	return Allowed(actor, ActionRemoveMember) && target.IsMember() && !target.IsCreator
}
