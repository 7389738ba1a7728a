package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Moderation actions recorded in the event log.
const (
	ModerationRoleChanged       = "role_changed"
	ModerationMemberRemoved     = "member_removed"
	ModerationPostRemoved       = "post_removed"
	ModerationCommentRemoved    = "comment_removed"
	ModerationPrivacyChanged    = "privacy_changed"
	ModerationOwnershipTransfer = "ownership_transferred"
	ModerationCircleDeleted     = "circle_deleted"
)

// ModerationEvent is an append-only record of a privileged action in a circle (MongoDB)
type ModerationEvent struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CircleID  uint               `json:"circle_id" bson:"circle_id"`
	ActorID   uint               `json:"actor_id" bson:"actor_id"`
	Action    string             `json:"action" bson:"action"`
	TargetID  uint               `json:"target_id" bson:"target_id"`
	Detail    map[string]string  `json:"detail,omitempty" bson:"detail,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
