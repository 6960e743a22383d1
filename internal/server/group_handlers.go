package server

import (
	"encoding/json"
	"log"

	"creospace/internal/models"
	"creospace/internal/notifications"

	"github.com/gofiber/fiber/v2"
)

// CreateGroupRequest is the payload for creating a group chat.
type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
}

// UpdateGroupRequest is the payload for editing a group.
type UpdateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	AvatarURL   string `json:"avatar_url"`
}

// CreateGroup creates a group chat with the caller as its first admin.
func (s *Server) CreateGroup(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	group, err := s.groupService.CreateGroup(c.UserContext(), userID, req.Name, req.Description, req.IsPrivate)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(group)
}

// GetGroup returns a group's details if the viewer may see it.
func (s *Server) GetGroup(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	group, err := s.groupService.GetGroup(c.UserContext(), userID, groupID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(group)
}

// GetMyGroups lists the groups the viewer belongs to.
func (s *Server) GetMyGroups(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	groups, err := s.groupService.ListGroups(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"groups": groups,
		"count":  len(groups),
	})
}

// UpdateGroup edits group metadata. Admin only.
func (s *Server) UpdateGroup(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req UpdateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	group, err := s.groupService.UpdateGroup(c.UserContext(), userID, groupID, req.Name, req.Description, req.AvatarURL)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(group)
}

// DeleteGroup removes a group and its messages. Admin only.
func (s *Server) DeleteGroup(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.groupService.DeleteGroup(c.UserContext(), userID, groupID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Group deleted"})
}

// GetGroupMembers lists a group's members.
func (s *Server) GetGroupMembers(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	members, err := s.groupService.ListMembers(c.UserContext(), userID, groupID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"members": members,
		"count":   len(members),
	})
}

// AddGroupMember adds a user to a group. Admin only for private groups.
func (s *Server) AddGroupMember(c *fiber.Ctx) error {
	actorID := c.Locals("userID").(uint)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
	}

	if err := s.groupService.AddMember(c.UserContext(), actorID, groupID, req.UserID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	s.publishUserEvent(c.UserContext(), req.UserID, EventGroupMemberAdded, fiber.Map{
		"group_id": groupID,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Member added"})
}

// RemoveGroupMember removes a user from a group. Members may remove
// themselves; admins may remove anyone. The last admin cannot leave.
func (s *Server) RemoveGroupMember(c *fiber.Ctx) error {
	actorID := c.Locals("userID").(uint)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.groupService.RemoveMember(c.UserContext(), actorID, groupID, targetID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	s.publishUserEvent(c.UserContext(), targetID, EventGroupMemberRemoved, fiber.Map{
		"group_id": groupID,
	})

	return c.JSON(fiber.Map{"message": "Member removed"})
}

// UpdateGroupMemberRole promotes or demotes a member. Admin only; demoting
// the last admin is rejected.
func (s *Server) UpdateGroupMemberRole(c *fiber.Ctx) error {
	actorID := c.Locals("userID").(uint)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	role := models.GroupMemberRole(req.Role)
	if err := s.groupService.UpdateMemberRole(c.UserContext(), actorID, groupID, targetID, role); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Role updated"})
}

// SendGroupMessage persists a message and fans it out to active group
// WebSocket sessions via Redis.
func (s *Server) SendGroupMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content     string `json:"content"`
		MessageType string `json:"message_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.groupService.SendMessage(c.UserContext(), userID, groupID, req.Content, req.MessageType)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	s.fanOutGroupMessage(c, groupID, message)

	return c.Status(fiber.StatusCreated).JSON(message)
}

// GetGroupMessages returns a group's message history, newest first.
func (s *Server) GetGroupMessages(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 50)
	messages, err := s.groupService.GetMessages(c.UserContext(), userID, groupID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"messages": messages,
		"count":    len(messages),
	})
}

// fanOutGroupMessage publishes a persisted message to the group's Redis
// channel so every instance's ChatHub delivers it.
func (s *Server) fanOutGroupMessage(c *fiber.Ctx, groupID uint, message *models.Message) {
	if s.notifier == nil {
		return
	}

	username := ""
	if message.Sender != nil {
		username = message.Sender.Username
	}

	payload, err := json.Marshal(notifications.ChatMessage{
		Type:     "message",
		GroupID:  groupID,
		UserID:   message.SenderID,
		Username: username,
		Payload:  message,
	})
	if err != nil {
		log.Printf("failed to marshal group message %d: %v", message.ID, err)
		return
	}

	if err := s.notifier.PublishGroupMessage(c.UserContext(), groupID, string(payload)); err != nil {
		log.Printf("failed to publish message to group %d: %v", groupID, err)
	}
}
