package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/anonto42/circles/backend/internal/models"
	"github.com/anonto42/circles/backend/internal/policy"
	"github.com/anonto42/circles/backend/internal/repositories"
)

// CircleDetail is a circle with derived counts and the viewer's role.
type CircleDetail struct {
	models.Circle
	MembersCount int64       `json:"members_count"`
	ViewerRole   models.Role `json:"viewer_role,omitempty"`
}

// CircleService owns circles and their memberships.
type CircleService struct {
	circles     repositories.CircleRepository
	memberships repositories.MembershipRepository
	users       repositories.UserRepository
	resolver    *policy.Resolver
	counters    *Counters
	notifier    *NotificationService
	modlog      moderationLog
}

func NewCircleService(
	circles repositories.CircleRepository,
	memberships repositories.MembershipRepository,
	users repositories.UserRepository,
	resolver *policy.Resolver,
	counters *Counters,
	notifier *NotificationService,
	modlog repositories.ModerationLogRepository,
) *CircleService {
	return &CircleService{
		circles:     circles,
		memberships: memberships,
		users:       users,
		resolver:    resolver,
		counters:    counters,
		notifier:    notifier,
		modlog:      moderationLog{repo: modlog},
	}
}

func (s *CircleService) loadCircle(ctx context.Context, circleID uint) (*models.Circle, error) {
	circle, err := s.circles.GetCircleByID(ctx, circleID)
	return circle, storageError(err, ErrCircleNotFound, nil)
}

func (s *CircleService) standing(ctx context.Context, userID uint, circleID uint) (*models.Circle, policy.Standing, error) {
	circle, err := s.loadCircle(ctx, circleID)
	if err != nil {
		return nil, policy.Standing{}, err
	}
	st, err := s.resolver.Standing(ctx, userID, circle)
	return circle, st, err
}

// CreateCircle creates a circle owned by creatorID, who becomes its first ADMIN.
func (s *CircleService) CreateCircle(ctx context.Context, creatorID uint, req models.CreateCircleRequest) (*models.Circle, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationError("circle name is required")
	}
	if err := requireAccount(ctx, s.users, creatorID); err != nil {
		return nil, err
	}
	circle := &models.Circle{
		Name:        name,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
		CreatorID:   creatorID,
	}
	if err := s.circles.CreateCircle(ctx, circle); err != nil {
		return nil, storageError(err, nil, nil)
	}
	return circle, nil
}

// GetCircle returns circle metadata. Names of private circles are not secret;
// their content is.
func (s *CircleService) GetCircle(ctx context.Context, viewerID, circleID uint) (*CircleDetail, error) {
	circle, st, err := s.standing(ctx, viewerID, circleID)
	if err != nil {
		return nil, err
	}
	count, err := s.counters.MemberCount(ctx, circle.ID)
	if err != nil {
		return nil, err
	}
	return &CircleDetail{Circle: *circle, MembersCount: count, ViewerRole: st.Role}, nil
}

// UpdateCircle edits name, description and privacy. Privacy changes apply to
// every visibility check made afterwards.
func (s *CircleService) UpdateCircle(ctx context.Context, actorID, circleID uint, req models.UpdateCircleRequest) (*models.Circle, error) {
	circle, st, err := s.standing(ctx, actorID, circleID)
	if err != nil {
		return nil, err
	}
	if !policy.Allowed(st, policy.ActionUpdateCircle) {
		return nil, forbidden("update this circle")
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validationError("circle name cannot be blank")
		}
		circle.Name = name
	}
	if req.Description != nil {
		circle.Description = *req.Description
	}
	privacyChanged := req.IsPrivate != nil && *req.IsPrivate != circle.IsPrivate
	if privacyChanged {
		if !policy.Allowed(st, policy.ActionSetPrivacy) {
			return nil, forbidden("change circle privacy")
		}
		circle.IsPrivate = *req.IsPrivate
	}
	if err := s.circles.UpdateCircle(ctx, circle); err != nil {
		return nil, err
	}
	if privacyChanged {
		s.modlog.record(ctx, circle.ID, actorID, models.ModerationPrivacyChanged, circle.ID,
			map[string]string{"is_private": strconv.FormatBool(circle.IsPrivate)})
	}
	return circle, nil
}

// SetPrivacy flips the circle's privacy flag.
func (s *CircleService) SetPrivacy(ctx context.Context, actorID, circleID uint, private bool) (*models.Circle, error) {
	return s.UpdateCircle(ctx, actorID, circleID, models.UpdateCircleRequest{IsPrivate: &private})
}

// DeleteCircle removes the circle with its memberships, posts and albums. Creator only.
func (s *CircleService) DeleteCircle(ctx context.Context, actorID, circleID uint) error {
	circle, st, err := s.standing(ctx, actorID, circleID)
	if err != nil {
		return err
	}
	if !policy.Allowed(st, policy.ActionDeleteCircle) {
		return forbidden("delete this circle")
	}
	if err := s.circles.DeleteCircle(ctx, circle.ID); err != nil {
		return storageError(err, ErrCircleNotFound, nil)
	}
	s.modlog.record(ctx, circle.ID, actorID, models.ModerationCircleDeleted, circle.ID, map[string]string{"name": circle.Name})
	return nil
}

// Join adds userID to the circle as a MEMBER. A second join of the same pair,
// concurrent or not, fails with ErrDuplicateMembership.
func (s *CircleService) Join(ctx context.Context, userID, circleID uint) (*models.Membership, error) {
	if _, err := s.loadCircle(ctx, circleID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, storageError(err, ErrUserNotFound, nil)
	}
	m := &models.Membership{UserID: userID, CircleID: circleID, Role: models.RoleMember}
	if err := s.memberships.CreateMembership(ctx, m); err != nil {
		return nil, storageError(err, nil, ErrDuplicateMembership)
	}
	return m, nil
}

// AddMember lets an admin enroll another user with any role.
func (s *CircleService) AddMember(ctx context.Context, actorID, userID, circleID uint, role models.Role) (*models.Membership, error) {
	if role == "" {
		role = models.RoleMember
	}
	if !role.Valid() {
		return nil, validationError("unknown role %q", role)
	}
	_, st, err := s.standing(ctx, actorID, circleID)
	if err != nil {
		return nil, err
	}
	if !policy.Allowed(st, policy.ActionChangeRole) {
		return nil, forbidden("add members to this circle")
	}
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, storageError(err, ErrUserNotFound, nil)
	}
	m := &models.Membership{UserID: userID, CircleID: circleID, Role: role}
	if err := s.memberships.CreateMembership(ctx, m); err != nil {
		return nil, storageError(err, nil, ErrDuplicateMembership)
	}
	return m, nil
}

// ChangeRole sets userID's role. Only an ADMIN or the creator may do this,
// and the creator's own role never changes.
func (s *CircleService) ChangeRole(ctx context.Context, actorID, userID, circleID uint, newRole models.Role) (*models.Membership, error) {
	if !newRole.Valid() {
		return nil, validationError("unknown role %q", newRole)
	}
	circle, actor, err := s.standing(ctx, actorID, circleID)
	if err != nil {
		return nil, err
	}
	if !policy.Allowed(actor, policy.ActionChangeRole) {
		return nil, forbidden("change roles in this circle")
	}
	target, err := s.resolver.Standing(ctx, userID, circle)
	if err != nil {
		return nil, err
	}
	if !target.IsMember() {
		return nil, ErrMembershipNotFound
	}
	if !policy.CanChangeRole(actor, target) {
		return nil, forbidden("change the creator's role")
	}
	if err := s.memberships.UpdateRole(ctx, userID, circleID, newRole); err != nil {
		return nil, storageError(err, ErrMembershipNotFound, nil)
	}

	s.modlog.record(ctx, circleID, actorID, models.ModerationRoleChanged, userID,
		map[string]string{"from": string(target.Role), "to": string(newRole)})
	s.notifier.Notify(ctx, &models.Notification{
		Type:        models.NotificationRoleChange,
		ActorID:     actorID,
		RecipientID: userID,
		TargetID:    circleID,
		TargetType:  "circle",
		Message:     "Your role in " + circle.Name + " is now " + string(newRole),
	}, true)

	return s.Membership(ctx, userID, circleID)
}

// Leave removes userID's own membership. The creator cannot leave.
func (s *CircleService) Leave(ctx context.Context, userID, circleID uint) error {
	circle, err := s.loadCircle(ctx, circleID)
	if err != nil {
		return err
	}
	if circle.CreatorID == userID {
		return ErrCreatorCannotLeave
	}
	return storageError(s.memberships.DeleteMembership(ctx, userID, circleID), ErrMembershipNotFound, nil)
}

// RemoveMember removes someone else's membership.
func (s *CircleService) RemoveMember(ctx context.Context, actorID, userID, circleID uint) error {
	if actorID == userID {
		return s.Leave(ctx, userID, circleID)
	}
	circle, actor, err := s.standing(ctx, actorID, circleID)
	if err != nil {
		return err
	}
	if !policy.Allowed(actor, policy.ActionRemoveMember) {
		return forbidden("remove members from this circle")
	}
	target, err := s.resolver.Standing(ctx, userID, circle)
	if err != nil {
		return err
	}
	if !target.IsMember() {
		return ErrMembershipNotFound
	}
	if !policy.CanRemoveMember(actor, target) {
		return forbidden("remove the circle creator")
	}
	if err := s.memberships.DeleteMembership(ctx, userID, circleID); err != nil {
		return storageError(err, ErrMembershipNotFound, nil)
	}
	s.modlog.record(ctx, circleID, actorID, models.ModerationMemberRemoved, userID, nil)
	return nil
}

// TransferOwnership hands the circle to another member, who becomes ADMIN.
// The previous creator keeps their ADMIN membership and may then leave.
func (s *CircleService) TransferOwnership(ctx context.Context, actorID, circleID, newCreatorID uint) (*models.Circle, error) {
	circle, actor, err := s.standing(ctx, actorID, circleID)
	if err != nil {
		return nil, err
	}
	if !policy.Allowed(actor, policy.ActionTransferOwnership) {
		return nil, forbidden("transfer ownership of this circle")
	}
	if newCreatorID == circle.CreatorID {
		return circle, nil
	}
	target, err := s.resolver.Standing(ctx, newCreatorID, circle)
	if err != nil {
		return nil, err
	}
	if !target.IsMember() {
		return nil, validationError("the new owner must be a member of the circle")
	}
	if err := s.circles.TransferOwnership(ctx, circleID, newCreatorID); err != nil {
		return nil, storageError(err, ErrMembershipNotFound, nil)
	}
	s.modlog.record(ctx, circleID, actorID, models.ModerationOwnershipTransfer, newCreatorID, nil)
	return s.loadCircle(ctx, circleID)
}

// Members lists memberships. Members of a private circle are only listed to its members.
func (s *CircleService) Members(ctx context.Context, viewerID, circleID uint) ([]models.Membership, error) {
	circle, err := s.loadCircle(ctx, circleID)
	if err != nil {
		return nil, err
	}
	ok, err := s.resolver.CanViewCircleContent(ctx, viewerID, circle)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, forbidden("list members of this circle")
	}
	return s.memberships.GetMembersByCircleID(ctx, circleID)
}

// Membership returns userID's membership row in the circle.
func (s *CircleService) Membership(ctx context.Context, userID, circleID uint) (*models.Membership, error) {
	m, err := s.memberships.GetMembership(ctx, userID, circleID)
	return m, storageError(err, ErrMembershipNotFound, nil)
}

func (s *CircleService) CirclesForUser(ctx context.Context, userID uint) ([]models.Circle, error) {
	return s.circles.GetCirclesForUser(ctx, userID)
}

func (s *CircleService) PublicCircles(ctx context.Context, page, limit int) ([]models.Circle, error) {
	page, limit = normalizePage(page, limit)
	return s.circles.GetPublicCircles(ctx, (page-1)*limit, limit)
}

// ModerationLog lists recorded privileged actions for moderators and above.
func (s *CircleService) ModerationLog(ctx context.Context, actorID, circleID uint, page, limit int) ([]models.ModerationEvent, error) {
	_, st, err := s.standing(ctx, actorID, circleID)
	if err != nil {
		return nil, err
	}
	if !policy.Allowed(st, policy.ActionViewModerationLog) {
		return nil, forbidden("view the moderation log")
	}
	if s.modlog.repo == nil {
		return []models.ModerationEvent{}, nil
	}
	page, limit = normalizePage(page, limit)
	return s.modlog.repo.GetEventsByCircleID(ctx, circleID, int64((page-1)*limit), int64(limit))
}

// normalizePage clamps pagination parameters the way every listing does.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return page, limit
}
