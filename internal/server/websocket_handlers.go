package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"creospace/internal/middleware"
	"creospace/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebsocketHandler returns the general notifications websocket handler.
// Authentication is handled by route middleware and userID is read from
// connection locals.
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		ctx := context.Background()
		defer s.consumeWSTicket(ctx, conn.Locals("wsTicket"))

		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			if cerr := conn.Close(); cerr != nil {
				log.Printf("websocket close error: %v", cerr)
			}
			return
		}
		uid, ok := userIDVal.(uint)
		if !ok {
			_ = conn.Close()
			return
		}

		if s.hub == nil {
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(uid, conn)
		if err != nil {
			log.Printf("WebSocket Notification: Failed to register user %d: %v", uid, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		defer s.hub.UnregisterClient(client)

		s.notifyFollowersPresence(ctx, uid, "online")

		go client.WritePump()
		client.ReadPump()

		// After ReadPump returns the client is disconnected
		if !s.hub.IsOnline(uid) {
			s.notifyFollowersPresence(ctx, uid, "offline")
		}
	})
}

// notifyFollowersPresence pushes an online/offline event to the user's
// accepted followers.
func (s *Server) notifyFollowersPresence(ctx context.Context, userID uint, status string) {
	if s.followRepo == nil {
		return
	}
	followerIDs, err := s.followRepo.ListAcceptedFollowerIDs(ctx, userID)
	if err != nil {
		log.Printf("failed to load followers for presence event: %v", err)
		return
	}

	payload := map[string]interface{}{
		"user_id":    userID,
		"status":     status,
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	}
	if summary := s.profileSummary(ctx, userID); summary != nil {
		payload["username"] = summary.Username
		payload["avatar_url"] = summary.AvatarURL
	}

	for _, followerID := range followerIDs {
		s.publishUserEvent(ctx, followerID, "presence_changed", payload)
	}
}

// WebSocketChatHandler handles websocket connections for real-time group chat.
func (s *Server) WebSocketChatHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		ctx := context.Background()
		defer s.consumeWSTicket(ctx, conn.Locals("wsTicket"))

		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			log.Printf("WebSocket Chat: Unauthenticated connection attempt")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		userID := userIDVal.(uint)

		username := ""
		if summary := s.profileSummary(ctx, userID); summary != nil {
			username = summary.Username
		}

		if s.chatHub == nil {
			_ = conn.Close()
			return
		}

		client, err := s.chatHub.Register(userID, conn)
		if err != nil {
			log.Printf("WebSocket Chat: Failed to register user %d: %v", userID, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		client.IncomingHandler = func(c *notifications.Client, message []byte) {
			var incomingMsg map[string]interface{}
			if err := json.Unmarshal(message, &incomingMsg); err != nil {
				log.Printf("WebSocket: Invalid message format from user %d", userID)
				return
			}

			msgType, ok := incomingMsg["type"].(string)
			if !ok {
				return
			}
			groupIDFloat, ok := incomingMsg["group_id"].(float64)
			if !ok {
				return
			}
			groupID := uint(groupIDFloat)

			switch msgType {
			case "join":
				// Only group members can subscribe to the live stream.
				if !s.isGroupMember(ctx, userID, groupID) {
					return
				}
				s.chatHub.JoinGroup(userID, groupID)

				response := notifications.ChatMessage{
					Type:    "joined",
					GroupID: groupID,
					Payload: map[string]interface{}{"group_id": groupID},
				}
				if responseJSON, merr := json.Marshal(response); merr == nil {
					c.TrySend(responseJSON)
				}

				if s.notifier != nil {
					if perr := s.notifier.PublishPresence(ctx, groupID, userID, username, "online"); perr != nil {
						log.Printf("publish presence error: %v", perr)
					}
				}

			case "leave":
				s.chatHub.LeaveGroup(userID, groupID)
				if s.notifier != nil {
					if perr := s.notifier.PublishPresence(ctx, groupID, userID, username, "offline"); perr != nil {
						log.Printf("publish presence error: %v", perr)
					}
				}

			case "typing":
				isTyping, _ := incomingMsg["is_typing"].(bool)

				if s.notifier != nil && s.isGroupMember(ctx, userID, groupID) {
					// Rate limit typing indicators to keep spam off the wire
					id := fmt.Sprintf("user:%d", userID)
					allowed, _ := middleware.CheckRateLimit(ctx, s.redis, "typing", id, 10, 10*time.Second)
					if !allowed {
						return
					}

					if perr := s.notifier.PublishTypingIndicator(ctx, groupID, userID, username, isTyping); perr != nil {
						log.Printf("publish typing indicator error: %v", perr)
					}
				}

			case "message":
				content, _ := incomingMsg["content"].(string)
				if content == "" {
					return
				}

				// Same rate limit as the HTTP send endpoint
				id := fmt.Sprintf("user:%d", userID)
				allowed, _ := middleware.CheckRateLimit(ctx, s.redis, "send_chat", id, 15, time.Minute)
				if !allowed {
					response := notifications.ChatMessage{
						Type: "error",
						Payload: map[string]string{
							"message": "Rate limit exceeded. Please wait a moment.",
						},
					}
					if respJSON, merr := json.Marshal(response); merr == nil {
						c.TrySend(respJSON)
					}
					return
				}

				// Membership and persistence are enforced by the service.
				msg, serr := s.groupService.SendMessage(ctx, userID, groupID, content, "text")
				if serr != nil {
					log.Printf("WebSocket: Failed to create message: %v", serr)
					return
				}

				if s.notifier != nil {
					messageJSON, merr := json.Marshal(notifications.ChatMessage{
						Type:     "message",
						GroupID:  groupID,
						UserID:   userID,
						Username: username,
						Payload:  msg,
					})
					if merr != nil {
						log.Printf("marshal chat message error: %v", merr)
						return
					}
					if perr := s.notifier.PublishGroupMessage(ctx, groupID, string(messageJSON)); perr != nil {
						log.Printf("publish chat message error: %v", perr)
					}
				}
			}
		}

		// Send welcome message
		welcomeMsg := notifications.ChatMessage{
			Type:    "connected",
			Payload: map[string]interface{}{"user_id": userID, "username": username},
		}
		if welcomeJSON, merr := json.Marshal(welcomeMsg); merr == nil {
			client.TrySend(welcomeJSON)
		}

		go client.WritePump()
		client.ReadPump()
	})
}

// isGroupMember checks whether a user belongs to a group.
func (s *Server) isGroupMember(ctx context.Context, userID, groupID uint) bool {
	member, err := s.groupRepo.GetMember(ctx, groupID, userID)
	return err == nil && member != nil
}
