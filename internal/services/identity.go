package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/circles/backend/internal/models"
	"github.com/anonto42/circles/backend/internal/policy"
	"github.com/anonto42/circles/backend/internal/repositories"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Profile is a user as shown to a viewer.
type Profile struct {
	models.UserCompact
	Bio            string `json:"bio"`
	IsPrivate      bool   `json:"is_private"`
	FollowersCount int64  `json:"followers_count"`
	FollowingCount int64  `json:"following_count"`
	IsFollowing    bool   `json:"is_following"`
}

// IdentityService manages accounts, profiles and settings.
type IdentityService struct {
	users    repositories.UserRepository
	follows  repositories.FollowRepository
	resolver *policy.Resolver
	counters *Counters
}

func NewIdentityService(users repositories.UserRepository, follows repositories.FollowRepository, resolver *policy.Resolver, counters *Counters) *IdentityService {
	return &IdentityService{users: users, follows: follows, resolver: resolver, counters: counters}
}

// Register creates a local account with a bcrypt password hash and default settings.
func (s *IdentityService) Register(ctx context.Context, req models.CreateLocalUserRequest) (*models.User, error) {
	if len(req.Password) < 8 {
		return nil, validationError("password must be at least 8 characters")
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Username:    strings.TrimSpace(req.Username),
		DisplayName: req.DisplayName,
		Password:    string(hashedPassword),
	}
	if user.Email == "" || user.Username == "" {
		return nil, validationError("email and username are required")
	}
	if user.DisplayName == "" {
		user.DisplayName = user.Username
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, storageError(err, nil, ErrDuplicateAccount)
	}
	return user, nil
}

// Authenticate checks an email and password pair.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, storageError(err, ErrInvalidCredentials, nil)
	}
	if user.Password == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// FederatedLogin finds the user for an external identity, linking by email
// or creating a new account when neither the uid nor the email is known.
// Linking to an existing account requires the provider to have verified the email.
func (s *IdentityService) FederatedLogin(ctx context.Context, uid, email, name string, emailVerified bool) (*models.User, error) {
	if uid == "" || email == "" {
		return nil, validationError("federated identity needs uid and email")
	}
	email = strings.ToLower(email)

	user, err := s.users.GetUserByFirebaseUID(ctx, uid)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, err
	}

	user, err = s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if !emailVerified {
			return nil, ErrUnverifiedEmail
		}
		user.FirebaseUID = &uid
		if err := s.users.UpdateUser(ctx, user); err != nil {
			return nil, storageError(err, nil, ErrDuplicateAccount)
		}
		return user, nil
	case !errors.Is(err, repositories.ErrRecordNotFound):
		return nil, err
	}

	user = &models.User{
		Email:       email,
		Username:    "user" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		DisplayName: name,
		FirebaseUID: &uid,
	}
	if user.DisplayName == "" {
		user.DisplayName = user.Username
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, storageError(err, nil, ErrDuplicateAccount)
	}
	return user, nil
}

func (s *IdentityService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	return user, storageError(err, ErrUserNotFound, nil)
}

// GetProfile returns userID's profile as seen by viewerID.
func (s *IdentityService) GetProfile(ctx context.Context, viewerID, userID uint) (*Profile, error) {
	owner, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	visible, err := s.resolver.CanViewProfile(ctx, viewerID, owner)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, forbidden("view this profile")
	}

	profile := &Profile{UserCompact: owner.Compact(), Bio: owner.Bio, IsPrivate: owner.ProfilePrivate()}
	if profile.FollowersCount, err = s.counters.FollowerCount(ctx, owner.ID); err != nil {
		return nil, err
	}
	if profile.FollowingCount, err = s.counters.FollowingCount(ctx, owner.ID); err != nil {
		return nil, err
	}
	if viewerID != 0 && viewerID != owner.ID {
		if profile.IsFollowing, err = s.follows.IsFollowing(ctx, viewerID, owner.ID); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

func (s *IdentityService) UpdateProfile(ctx context.Context, userID uint, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.DisplayName != nil {
		if strings.TrimSpace(*req.DisplayName) == "" {
			return nil, validationError("display name cannot be blank")
		}
		user.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.IsProfilePrivate != nil {
		private := *req.IsProfilePrivate
		user.IsProfilePrivate = &private
	}
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, storageError(err, ErrUserNotFound, ErrDuplicateAccount)
	}
	return user, nil
}

func (s *IdentityService) GetSettings(ctx context.Context, userID uint) (*models.UserSettings, error) {
	settings, err := s.users.GetSettings(ctx, userID)
	return settings, storageError(err, ErrUserNotFound, nil)
}

func (s *IdentityService) UpdateSettings(ctx context.Context, userID uint, req models.UpdateSettingsRequest) (*models.UserSettings, error) {
	if req.FontSize != nil && (*req.FontSize < 10 || *req.FontSize > 32) {
		return nil, validationError("font size must be between 10 and 32")
	}
	settings, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	req.Apply(settings)
	if err := s.users.UpdateSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// DeleteUser removes the account and cascades to everything it owns.
func (s *IdentityService) DeleteUser(ctx context.Context, userID uint) error {
	return storageError(s.users.DeleteUser(ctx, userID), ErrUserNotFound, nil)
}

func (s *IdentityService) SearchUsers(ctx context.Context, query string, limit int) ([]models.UserCompact, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationError("search query is required")
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	users, err := s.users.SearchUsers(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return compactUsers(users), nil
}

// requireAccount fails with ErrUserNotFound when userID has no account, as
// happens for a token that outlived a deleted user.
func requireAccount(ctx context.Context, users repositories.UserRepository, userID uint) error {
	_, err := users.GetUserByID(ctx, userID)
	return storageError(err, ErrUserNotFound, nil)
}
