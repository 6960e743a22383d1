package service

import (
	"context"

	"creospace/internal/models"
	"creospace/internal/repository"
)

// FollowService owns the directed follow-edge state machine. An edge is born
// pending when the target profile is private at request time and accepted
// otherwise; every removal path (reject, cancel, unfollow) lands back in the
// same no-edge state.
type FollowService struct {
	followRepo  repository.FollowRepository
	profileRepo repository.ProfileRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, profileRepo repository.ProfileRepository) *FollowService {
	return &FollowService{
		followRepo:  followRepo,
		profileRepo: profileRepo,
	}
}

// FollowUser creates a follow edge from userID to targetID. The target's
// privacy flag is read once, at creation: a later privacy toggle never
// reclassifies an existing edge.
func (s *FollowService) FollowUser(ctx context.Context, userID, targetID uint) (*models.Follow, error) {
	if userID == targetID {
		return nil, models.NewValidationError("Cannot follow yourself")
	}

	target, err := s.profileRepo.GetByUserID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	existing, err := s.followRepo.GetEdge(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status == models.FollowStatusAccepted {
			return nil, models.NewValidationError("Already following this user")
		}
		return nil, models.NewValidationError("Follow request already sent")
	}

	status := models.FollowStatusAccepted
	if target.IsPrivate {
		status = models.FollowStatusPending
	}

	follow := &models.Follow{
		FollowerID:  userID,
		FollowingID: targetID,
		Status:      status,
	}
	if err := s.followRepo.Create(ctx, follow); err != nil {
		return nil, err
	}

	if status == models.FollowStatusAccepted {
		if err := s.profileRepo.AdjustFollowCounts(ctx, userID, targetID, 1); err != nil {
			return nil, err
		}
	}

	summary := target.Summary()
	follow.Counterpart = &summary
	return follow, nil
}

// UnfollowUser removes the edge from userID to targetID regardless of its
// state. Unfollowing with no edge is a no-op, not an error.
func (s *FollowService) UnfollowUser(ctx context.Context, userID, targetID uint) error {
	edge, err := s.followRepo.GetEdge(ctx, userID, targetID)
	if err != nil {
		return err
	}
	if edge == nil {
		return nil
	}

	if err := s.followRepo.Delete(ctx, edge.ID); err != nil {
		return err
	}
	if edge.Status == models.FollowStatusAccepted {
		return s.profileRepo.AdjustFollowCounts(ctx, userID, targetID, -1)
	}
	return nil
}

// AcceptFollowRequest transitions a pending edge to accepted. Only the target
// of the request may accept it.
func (s *FollowService) AcceptFollowRequest(ctx context.Context, userID, requesterID uint) (*models.Follow, error) {
	edge, err := s.followRepo.GetEdge(ctx, requesterID, userID)
	if err != nil {
		return nil, err
	}
	if edge == nil {
		return nil, models.NewNotFoundError("Follow request", requesterID)
	}
	if edge.Status != models.FollowStatusPending {
		return nil, models.NewValidationError("Follow request is not pending")
	}

	if err := s.followRepo.UpdateStatus(ctx, edge.ID, models.FollowStatusAccepted); err != nil {
		return nil, err
	}
	if err := s.profileRepo.AdjustFollowCounts(ctx, requesterID, userID, 1); err != nil {
		return nil, err
	}

	edge.Status = models.FollowStatusAccepted
	return edge, nil
}

// RejectFollowRequest removes a pending edge addressed to userID. The
// requester learns nothing beyond the edge being gone.
func (s *FollowService) RejectFollowRequest(ctx context.Context, userID, requesterID uint) error {
	edge, err := s.followRepo.GetEdge(ctx, requesterID, userID)
	if err != nil {
		return err
	}
	if edge == nil {
		return models.NewNotFoundError("Follow request", requesterID)
	}
	if edge.Status != models.FollowStatusPending {
		return models.NewValidationError("Follow request is not pending")
	}
	return s.followRepo.Delete(ctx, edge.ID)
}

// GetFollowStatus reports the viewer's relationship to the target.
func (s *FollowService) GetFollowStatus(ctx context.Context, userID, targetID uint) (models.Relationship, error) {
	edge, err := s.followRepo.GetEdge(ctx, userID, targetID)
	if err != nil {
		return "", err
	}
	if edge == nil {
		return models.RelationshipNone, nil
	}
	if edge.Status == models.FollowStatusPending {
		return models.RelationshipPending, nil
	}
	return models.RelationshipFollowing, nil
}

// GetFollowers returns the accepted followers of targetID with hydrated
// profile summaries. A private profile exposes its list only to itself and to
// accepted followers; everyone else gets an empty list, not an error.
func (s *FollowService) GetFollowers(ctx context.Context, viewerID, targetID uint, limit, offset int) ([]models.Follow, error) {
	allowed, err := s.canViewConnections(ctx, viewerID, targetID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return []models.Follow{}, nil
	}

	follows, err := s.followRepo.GetFollowers(ctx, targetID, normalizeLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	return s.hydrateFollows(ctx, follows, func(f *models.Follow) uint { return f.FollowerID })
}

// GetFollowing returns who targetID follows, under the same privacy gate as
// GetFollowers.
func (s *FollowService) GetFollowing(ctx context.Context, viewerID, targetID uint, limit, offset int) ([]models.Follow, error) {
	allowed, err := s.canViewConnections(ctx, viewerID, targetID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return []models.Follow{}, nil
	}

	follows, err := s.followRepo.GetFollowing(ctx, targetID, normalizeLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	return s.hydrateFollows(ctx, follows, func(f *models.Follow) uint { return f.FollowingID })
}

// GetPendingRequests returns incoming pending requests with requester
// summaries hydrated.
func (s *FollowService) GetPendingRequests(ctx context.Context, userID uint) ([]models.Follow, error) {
	follows, err := s.followRepo.GetPendingRequests(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.hydrateFollows(ctx, follows, func(f *models.Follow) uint { return f.FollowerID })
}

// GetSentRequests returns outgoing pending requests with target summaries
// hydrated.
func (s *FollowService) GetSentRequests(ctx context.Context, userID uint) ([]models.Follow, error) {
	follows, err := s.followRepo.GetSentRequests(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.hydrateFollows(ctx, follows, func(f *models.Follow) uint { return f.FollowingID })
}

func (s *FollowService) canViewConnections(ctx context.Context, viewerID, targetID uint) (bool, error) {
	if viewerID == targetID {
		return true, nil
	}
	target, err := s.profileRepo.GetByUserID(ctx, targetID)
	if err != nil {
		return false, err
	}
	if !target.IsPrivate {
		return true, nil
	}
	edge, err := s.followRepo.GetEdge(ctx, viewerID, targetID)
	if err != nil {
		return false, err
	}
	return edge != nil && edge.Status == models.FollowStatusAccepted, nil
}

// hydrateFollows is the second half of the fetch-then-hydrate pattern: batch
// the counterpart IDs, load summaries once, attach in place.
func (s *FollowService) hydrateFollows(ctx context.Context, follows []models.Follow, pick func(*models.Follow) uint) ([]models.Follow, error) {
	if len(follows) == 0 {
		return follows, nil
	}
	ids := make([]uint, 0, len(follows))
	for i := range follows {
		ids = append(ids, pick(&follows[i]))
	}
	summaries, err := s.profileRepo.GetSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range follows {
		follows[i].Counterpart = summaries[pick(&follows[i])]
	}
	return follows, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}
