package server

import (
	"context"
	"encoding/json"
	"log"

	"creospace/internal/models"
)

// Realtime event types pushed over the notifications WebSocket.
const (
	EventPostCreated           = "post_created"
	EventPostUpdated           = "post_updated"
	EventPostDeleted           = "post_deleted"
	EventPostReactionUpdated   = "post_reaction_updated"
	EventCommentCreated        = "comment_created"
	EventCommentUpdated        = "comment_updated"
	EventCommentDeleted        = "comment_deleted"
	EventStoryCreated          = "story_created"
	EventFollowRequestReceived = "follow_request_received"
	EventFollowRequestAccepted = "follow_request_accepted"
	EventFollowRequestRejected = "follow_request_rejected"
	EventFollowerAdded         = "follower_added"
	EventFollowerRemoved       = "follower_removed"
	EventGroupMemberAdded      = "group_member_added"
	EventGroupMemberRemoved    = "group_member_removed"
	EventMessageReceived       = "message_received"
	EventProjectStarred        = "project_starred"
	EventProjectForked         = "project_forked"
)

// realtimeEvent is the wire envelope for all pushed events.
type realtimeEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// publishUserEvent delivers an event to a single user, both to their local
// WebSocket connections and through Redis for other instances.
func (s *Server) publishUserEvent(ctx context.Context, userID uint, eventType string, payload interface{}) {
	data, err := json.Marshal(realtimeEvent{Type: eventType, Payload: payload})
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}

	if s.hub != nil {
		s.hub.Broadcast(userID, string(data))
	}
	if s.notifier != nil {
		if err := s.notifier.PublishUser(ctx, userID, string(data)); err != nil {
			log.Printf("failed to publish %s event for user %d: %v", eventType, userID, err)
		}
	}
}

// publishBroadcastEvent delivers an event to every connected user.
func (s *Server) publishBroadcastEvent(ctx context.Context, eventType string, payload interface{}) {
	data, err := json.Marshal(realtimeEvent{Type: eventType, Payload: payload})
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastAll(string(data))
	}
	if s.notifier != nil {
		if err := s.notifier.PublishBroadcast(ctx, string(data)); err != nil {
			log.Printf("failed to publish broadcast %s event: %v", eventType, err)
		}
	}
}

// profileSummary loads a compact profile representation for event payloads.
// Returns nil when the profile cannot be loaded; events remain usable without it.
func (s *Server) profileSummary(ctx context.Context, userID uint) *models.ProfileSummary {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil || profile == nil {
		return nil
	}
	summary := profile.Summary()
	return &summary
}
