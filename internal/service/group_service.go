package service

import (
	"context"

	"creospace/internal/models"
	"creospace/internal/repository"
)

// GroupService provides group chat business logic. The core invariant is that
// a group always has at least one admin; every mutation that could remove or
// demote the last admin is rejected here before it reaches storage.
type GroupService struct {
	groupRepo   repository.GroupRepository
	profileRepo repository.ProfileRepository
}

// NewGroupService returns a new GroupService.
func NewGroupService(groupRepo repository.GroupRepository, profileRepo repository.ProfileRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo, profileRepo: profileRepo}
}

const maxMessageLen = 2000

// CreateGroup creates a group with the creator as its first admin.
func (s *GroupService) CreateGroup(ctx context.Context, creatorID uint, name, description string, isPrivate bool) (*models.Group, error) {
	if name == "" {
		return nil, models.NewValidationError("Group name is required")
	}

	group := &models.Group{
		Name:        name,
		Description: description,
		IsPrivate:   isPrivate,
		CreatedBy:   creatorID,
	}
	if err := s.groupRepo.Create(ctx, group, creatorID); err != nil {
		return nil, err
	}
	return group, nil
}

// GetGroup returns a group; private groups are visible to members only.
func (s *GroupService) GetGroup(ctx context.Context, viewerID, groupID uint) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.IsPrivate {
		member, err := s.groupRepo.GetMember(ctx, groupID, viewerID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, models.NewNotFoundError("Group", groupID)
		}
	}
	return group, nil
}

// ListGroups returns the groups the user belongs to.
func (s *GroupService) ListGroups(ctx context.Context, userID uint) ([]*models.Group, error) {
	return s.groupRepo.ListForUser(ctx, userID)
}

// UpdateGroup edits group metadata; admins only.
func (s *GroupService) UpdateGroup(ctx context.Context, userID, groupID uint, name, description, avatarURL string) (*models.Group, error) {
	if err := s.requireAdmin(ctx, groupID, userID); err != nil {
		return nil, err
	}
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		group.Name = name
	}
	if description != "" {
		group.Description = description
	}
	if avatarURL != "" {
		group.AvatarURL = avatarURL
	}
	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup removes the group entirely; admins only.
func (s *GroupService) DeleteGroup(ctx context.Context, userID, groupID uint) error {
	if err := s.requireAdmin(ctx, groupID, userID); err != nil {
		return err
	}
	return s.groupRepo.Delete(ctx, groupID)
}

// AddMember adds a user to the group; admins only for private groups, any
// member for public ones.
func (s *GroupService) AddMember(ctx context.Context, actorID, groupID, userID uint) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}

	actor, err := s.groupRepo.GetMember(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	if actor == nil {
		return models.NewForbiddenError("You are not a member of this group")
	}
	if group.IsPrivate && actor.Role != models.GroupRoleAdmin {
		return models.NewForbiddenError("Only admins can add members to a private group")
	}

	return s.groupRepo.AddMember(ctx, &models.GroupMember{
		GroupID: groupID,
		UserID:  userID,
		Role:    models.GroupRoleMember,
	})
}

// RemoveMember removes a user from the group. Admins can remove anyone but
// the last admin; members can only remove themselves (leave).
func (s *GroupService) RemoveMember(ctx context.Context, actorID, groupID, userID uint) error {
	actor, err := s.groupRepo.GetMember(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	if actor == nil {
		return models.NewForbiddenError("You are not a member of this group")
	}
	if actorID != userID && actor.Role != models.GroupRoleAdmin {
		return models.NewForbiddenError("Only admins can remove other members")
	}

	target, err := s.groupRepo.GetMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if target == nil {
		return models.NewNotFoundError("Group member", userID)
	}
	if target.Role == models.GroupRoleAdmin {
		admins, err := s.groupRepo.CountAdmins(ctx, groupID)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return models.NewValidationError("Cannot remove the last admin of a group")
		}
	}

	return s.groupRepo.RemoveMember(ctx, groupID, userID)
}

// UpdateMemberRole promotes or demotes a member. Demoting the last admin is
// rejected to keep the invariant that every group has at least one.
func (s *GroupService) UpdateMemberRole(ctx context.Context, actorID, groupID, userID uint, role models.GroupMemberRole) error {
	if role != models.GroupRoleAdmin && role != models.GroupRoleMember {
		return models.NewValidationError("Invalid role")
	}
	if err := s.requireAdmin(ctx, groupID, actorID); err != nil {
		return err
	}

	target, err := s.groupRepo.GetMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if target == nil {
		return models.NewNotFoundError("Group member", userID)
	}
	if target.Role == models.GroupRoleAdmin && role == models.GroupRoleMember {
		admins, err := s.groupRepo.CountAdmins(ctx, groupID)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return models.NewValidationError("Cannot demote the last admin of a group")
		}
	}

	return s.groupRepo.UpdateMemberRole(ctx, groupID, userID, role)
}

// ListMembers returns the group's members with hydrated profile summaries.
func (s *GroupService) ListMembers(ctx context.Context, viewerID, groupID uint) ([]models.GroupMember, error) {
	if _, err := s.GetGroup(ctx, viewerID, groupID); err != nil {
		return nil, err
	}

	members, err := s.groupRepo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(members))
	for i := range members {
		ids = append(ids, members[i].UserID)
	}
	summaries, err := s.profileRepo.GetSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range members {
		members[i].Member = summaries[members[i].UserID]
	}
	return members, nil
}

// SendMessage appends a message to the group's log; members only.
func (s *GroupService) SendMessage(ctx context.Context, userID, groupID uint, content, messageType string) (*models.Message, error) {
	if content == "" {
		return nil, models.NewValidationError("Message cannot be empty")
	}
	if len(content) > maxMessageLen {
		return nil, models.NewValidationError("Message too long (max 2000 characters)")
	}

	member, err := s.groupRepo.GetMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, models.NewForbiddenError("You are not a member of this group")
	}

	if messageType == "" {
		messageType = "text"
	}
	message := &models.Message{
		GroupID:     groupID,
		SenderID:    userID,
		Content:     content,
		MessageType: messageType,
	}
	if err := s.groupRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	summaries, err := s.profileRepo.GetSummaries(ctx, []uint{userID})
	if err != nil {
		return nil, err
	}
	message.Sender = summaries[userID]
	return message, nil
}

// GetMessages returns the group's message history, newest first; members only.
func (s *GroupService) GetMessages(ctx context.Context, userID, groupID uint, limit, offset int) ([]*models.Message, error) {
	member, err := s.groupRepo.GetMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, models.NewForbiddenError("You are not a member of this group")
	}

	messages, err := s.groupRepo.GetMessages(ctx, groupID, normalizeLimit(limit), offset)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.SenderID)
	}
	summaries, err := s.profileRepo.GetSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, m := range messages {
		m.Sender = summaries[m.SenderID]
	}
	return messages, nil
}

func (s *GroupService) requireAdmin(ctx context.Context, groupID, userID uint) error {
	member, err := s.groupRepo.GetMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if member == nil || member.Role != models.GroupRoleAdmin {
		return models.NewForbiddenError("Only group admins can do this")
	}
	return nil
}
