package services

import (
	"context"
	"log"
	"strconv"

	"github.com/anonto42/circles/backend/internal/models"
	"github.com/anonto42/circles/backend/internal/repositories"
)

// moderationLog records privileged actions. A nil repository disables it.
type moderationLog struct {
	repo repositories.ModerationLogRepository
}

func (m moderationLog) record(ctx context.Context, circleID, actorID uint, action string, targetID uint, detail map[string]string) {
	if m.repo == nil {
		return
	}
	event := &models.ModerationEvent{
		CircleID: circleID,
		ActorID:  actorID,
		Action:   action,
		TargetID: targetID,
		Detail:   detail,
	}
	if err := m.repo.RecordEvent(ctx, event); err != nil {
		log.Printf("moderation log: %s in circle %d by user %d: %v", action, circleID, actorID, err)
	}
}

func uintString(v uint) string { return strconv.FormatUint(uint64(v), 10) }
