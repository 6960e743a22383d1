package service

import (
	"context"
	"strings"
	"time"

	"creospace/internal/models"
	"creospace/internal/repository"
	"creospace/internal/validation"
)

// ProfileService provides profile reads and edits. Privacy gating for profile
// detail views happens here; post-level visibility stays in PostService.
type ProfileService struct {
	profileRepo repository.ProfileRepository
	followRepo  repository.FollowRepository
}

// UpdateProfileInput carries a partial profile edit; empty fields are left
// unchanged.
type UpdateProfileInput struct {
	UserID      uint
	Username    string
	DisplayName string
	FullName    string
	Bio         string
	AvatarURL   string
	Department  string
	NutechID    string
	PhoneNumber string
	DOB         *time.Time
	IsPrivate   *bool
}

// ProfileView is a profile plus the viewer's relationship to it. For private
// profiles viewed by strangers, only the summary fields are populated.
type ProfileView struct {
	Profile      *models.Profile     `json:"profile"`
	Relationship models.Relationship `json:"relationship"`
	Restricted   bool                `json:"restricted"`
}

// NewProfileService returns a new ProfileService.
func NewProfileService(profileRepo repository.ProfileRepository, followRepo repository.FollowRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo, followRepo: followRepo}
}

// GetProfile returns the target profile gated by privacy. A private profile
// viewed by a non-follower comes back restricted: counters stay visible but
// bio and contact fields are blanked.
func (s *ProfileService) GetProfile(ctx context.Context, viewerID, targetID uint) (*ProfileView, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{Profile: profile, Relationship: models.RelationshipNone}
	if viewerID == targetID {
		view.Relationship = models.RelationshipFollowing
		return view, nil
	}

	edge, err := s.followRepo.GetEdge(ctx, viewerID, targetID)
	if err != nil {
		return nil, err
	}
	switch {
	case edge == nil:
	case edge.Status == models.FollowStatusPending:
		view.Relationship = models.RelationshipPending
	default:
		view.Relationship = models.RelationshipFollowing
	}

	if profile.IsPrivate && view.Relationship != models.RelationshipFollowing {
		restricted := *profile
		restricted.Bio = ""
		restricted.PhoneNumber = ""
		restricted.DOB = nil
		restricted.NutechID = ""
		view.Profile = &restricted
		view.Restricted = true
	}
	return view, nil
}

// GetProfileByUsername resolves a username to a gated profile view.
func (s *ProfileService) GetProfileByUsername(ctx context.Context, viewerID uint, username string) (*ProfileView, error) {
	profile, err := s.profileRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, models.NewNotFoundError("Profile", 0)
	}
	return s.GetProfile(ctx, viewerID, profile.UserID)
}

// UpdateProfile applies a partial edit to the caller's own profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500

	if in.Username != "" {
		username := strings.ToLower(strings.TrimSpace(in.Username))
		if err := validation.ValidateUsername(username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		profile.Username = username
	}
	if in.DisplayName != "" {
		profile.DisplayName = in.DisplayName
	}
	if in.FullName != "" {
		profile.FullName = in.FullName
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		profile.Bio = in.Bio
	}
	if in.AvatarURL != "" {
		profile.AvatarURL = in.AvatarURL
	}
	if in.Department != "" {
		profile.Department = in.Department
	}
	if in.NutechID != "" {
		profile.NutechID = in.NutechID
	}
	if in.PhoneNumber != "" {
		profile.PhoneNumber = in.PhoneNumber
	}
	if in.DOB != nil {
		profile.DOB = in.DOB
	}
	if in.IsPrivate != nil {
		// Flipping privacy reclassifies nothing: existing edges keep the
		// status they were created with.
		profile.IsPrivate = *in.IsPrivate
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// SearchProfiles returns profiles matching the query by username or name.
func (s *ProfileService) SearchProfiles(ctx context.Context, query string, limit, offset int) ([]models.Profile, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Profile{}, nil
	}
	return s.profileRepo.Search(ctx, query, normalizeLimit(limit), offset)
}
