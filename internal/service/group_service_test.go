package service

import (
	"context"
	"errors"
	"testing"

	"creospace/internal/models"
)

func TestCreateGroupCreatorBecomesAdmin(t *testing.T) {
	groups := noopGroupRepo()
	var creator uint
	groups.createFn = func(_ context.Context, g *models.Group, creatorID uint) error {
		creator = creatorID
		g.ID = 1
		return nil
	}

	svc := NewGroupService(groups, noopProfileRepo())
	group, err := svc.CreateGroup(context.Background(), 7, "study group", "", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creator != 7 {
		t.Fatalf("expected creator 7 passed to repo, got %d", creator)
	}
	if group.CreatedBy != 7 {
		t.Fatalf("expected created_by 7, got %d", group.CreatedBy)
	}
}

func TestRemoveMemberLastAdminRejected(t *testing.T) {
	groups := noopGroupRepo()
	groups.getMemberFn = func(_ context.Context, groupID, userID uint) (*models.GroupMember, error) {
		return &models.GroupMember{GroupID: groupID, UserID: userID, Role: models.GroupRoleAdmin}, nil
	}
	groups.countAdminsFn = func(context.Context, uint) (int64, error) { return 1, nil }
	groups.removeMemberFn = func(context.Context, uint, uint) error {
		t.Fatal("last admin must not be removed")
		return nil
	}

	svc := NewGroupService(groups, noopProfileRepo())
	err := svc.RemoveMember(context.Background(), 1, 10, 1)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.ErrCodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRemoveMemberAdminLeavesWhenAnotherAdminExists(t *testing.T) {
	groups := noopGroupRepo()
	groups.getMemberFn = func(_ context.Context, groupID, userID uint) (*models.GroupMember, error) {
		return &models.GroupMember{GroupID: groupID, UserID: userID, Role: models.GroupRoleAdmin}, nil
	}
	groups.countAdminsFn = func(context.Context, uint) (int64, error) { return 2, nil }
	removed := false
	groups.removeMemberFn = func(context.Context, uint, uint) error {
		removed = true
		return nil
	}

	svc := NewGroupService(groups, noopProfileRepo())
	if err := svc.RemoveMember(context.Background(), 1, 10, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !removed {
		t.Fatal("expected member removed")
	}
}

func TestRemoveMemberNonAdminCannotRemoveOthers(t *testing.T) {
	groups := noopGroupRepo()
	groups.getMemberFn = func(_ context.Context, groupID, userID uint) (*models.GroupMember, error) {
		return &models.GroupMember{GroupID: groupID, UserID: userID, Role: models.GroupRoleMember}, nil
	}

	svc := NewGroupService(groups, noopProfileRepo())
	err := svc.RemoveMember(context.Background(), 1, 10, 2)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.ErrCodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestUpdateMemberRoleDemoteLastAdminRejected(t *testing.T) {
	groups := noopGroupRepo()
	groups.getMemberFn = func(_ context.Context, groupID, userID uint) (*models.GroupMember, error) {
		return &models.GroupMember{GroupID: groupID, UserID: userID, Role: models.GroupRoleAdmin}, nil
	}
	groups.countAdminsFn = func(context.Context, uint) (int64, error) { return 1, nil }

	svc := NewGroupService(groups, noopProfileRepo())
	err := svc.UpdateMemberRole(context.Background(), 1, 10, 1, models.GroupRoleMember)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.ErrCodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateMemberRolePromote(t *testing.T) {
	groups := noopGroupRepo()
	calls := 0
	groups.getMemberFn = func(_ context.Context, groupID, userID uint) (*models.GroupMember, error) {
		calls++
		role := models.GroupRoleAdmin
		if calls > 1 {
			role = models.GroupRoleMember
		}
		return &models.GroupMember{GroupID: groupID, UserID: userID, Role: role}, nil
	}
	var updatedRole models.GroupMemberRole
	groups.updateMemberRoleFn = func(_ context.Context, _, _ uint, role models.GroupMemberRole) error {
		updatedRole = role
		return nil
	}

	svc := NewGroupService(groups, noopProfileRepo())
	if err := svc.UpdateMemberRole(context.Background(), 1, 10, 2, models.GroupRoleAdmin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updatedRole != models.GroupRoleAdmin {
		t.Fatalf("expected promotion to admin, got %s", updatedRole)
	}
}

func TestSendMessageNonMemberForbidden(t *testing.T) {
	groups := noopGroupRepo()
	groups.getMemberFn = func(context.Context, uint, uint) (*models.GroupMember, error) { return nil, nil }

	svc := NewGroupService(groups, noopProfileRepo())
	_, err := svc.SendMessage(context.Background(), 1, 10, "hello", "")
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.ErrCodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestSendMessageHydratesSender(t *testing.T) {
	groups := noopGroupRepo()
	var created *models.Message
	groups.createMessageFn = func(_ context.Context, m *models.Message) error {
		created = m
		return nil
	}

	svc := NewGroupService(groups, noopProfileRepo())
	msg, err := svc.SendMessage(context.Background(), 1, 10, "hello", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.MessageType != "text" {
		t.Fatalf("expected default message type text, got %s", created.MessageType)
	}
	if msg.Sender == nil || msg.Sender.UserID != 1 {
		t.Fatal("expected hydrated sender summary")
	}
}

func TestGetGroupPrivateHiddenFromNonMembers(t *testing.T) {
	groups := noopGroupRepo()
	groups.getByIDFn = func(_ context.Context, id uint) (*models.Group, error) {
		return &models.Group{ID: id, IsPrivate: true}, nil
	}
	groups.getMemberFn = func(context.Context, uint, uint) (*models.GroupMember, error) { return nil, nil }

	svc := NewGroupService(groups, noopProfileRepo())
	_, err := svc.GetGroup(context.Background(), 1, 10)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.ErrCodeNotFound {
		t.Fatalf("expected not-found for non-member, got %v", err)
	}
}
