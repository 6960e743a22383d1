// Package notifications provides real-time notification delivery and management.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"

	"creospace/internal/observability"

	"github.com/gofiber/websocket/v2"
)

// ChatHub manages WebSocket connections for group chats.
// Unlike Hub (which is user-centric), ChatHub is group-centric.
type ChatHub struct {
	mu sync.RWMutex

	// groupID -> set of userIDs actively viewing the group
	groups map[uint]map[uint]struct{}

	// userID -> set of groupIDs they're actively viewing
	userActiveGroups map[uint]map[uint]struct{}

	// userID -> set of active Clients (multi-device support)
	userConns map[uint]map[*Client]bool
}

// Name returns a human-readable identifier for this hub.
func (h *ChatHub) Name() string { return "chat hub" }

// ChatMessage represents a message broadcast to a group chat.
type ChatMessage struct {
	Type     string      `json:"type"` // "message", "typing", "presence", "user_status", "connected_users"
	GroupID  uint        `json:"group_id"`
	UserID   uint        `json:"user_id,omitempty"`
	Username string      `json:"username,omitempty"`
	Payload  interface{} `json:"payload"`
}

// NewChatHub creates a new ChatHub instance
func NewChatHub() *ChatHub {
	return &ChatHub{
		groups:           make(map[uint]map[uint]struct{}),
		userActiveGroups: make(map[uint]map[uint]struct{}),
		userConns:        make(map[uint]map[*Client]bool),
	}
}

// Register registers a user's websocket connection. Returns Client or error if limits exceeded.
func (h *ChatHub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()

	if h.userConns[userID] == nil {
		h.userConns[userID] = make(map[*Client]bool)
	}
	if len(h.userConns[userID]) >= maxConnsPerUser {
		h.mu.Unlock()
		return nil, fmt.Errorf("user connection limit reached")
	}

	client := NewClient(h, conn, userID)
	h.userConns[userID][client] = true
	observability.WebSocketConnectionsTotal.Inc()

	onlineIDs := make([]uint, 0, len(h.userConns))
	for id := range h.userConns {
		if id != userID {
			onlineIDs = append(onlineIDs, id)
		}
	}
	h.mu.Unlock()

	log.Printf("ChatHub: Registered user %d (Active clients: %d)", userID, len(h.userConns[userID]))

	// Send initial snapshot of who is online.
	if len(onlineIDs) > 0 {
		snapshotMsg := ChatMessage{
			Type:    "connected_users",
			Payload: map[string]interface{}{"user_ids": onlineIDs},
		}
		if jsonMsg, err := json.Marshal(snapshotMsg); err == nil {
			client.TrySend(jsonMsg)
		}
	}

	h.BroadcastGlobalStatus(userID, "online")
	return client, nil
}

// UnregisterClient removes a user's websocket connection and, once their last
// connection is gone, cleans up all their group subscriptions.
func (h *ChatHub) UnregisterClient(client *Client) {
	h.mu.Lock()

	clients, ok := h.userConns[client.UserID]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(clients, client)
	observability.WebSocketConnectionsTotal.Dec()
	if len(clients) > 0 {
		h.mu.Unlock()
		log.Printf("ChatHub: Unregistered client for user %d (Remaining clients: %d)", client.UserID, len(clients))
		return
	}
	delete(h.userConns, client.UserID)

	if groupIDs, ok := h.userActiveGroups[client.UserID]; ok {
		for groupID := range groupIDs {
			if members, ok := h.groups[groupID]; ok {
				if _, present := members[client.UserID]; present {
					observability.WebSocketRoomConnections.WithLabelValues(groupLabel(groupID)).Dec()
				}
				delete(members, client.UserID)
				if len(members) == 0 {
					delete(h.groups, groupID)
				}
			}
		}
		delete(h.userActiveGroups, client.UserID)
	}

	h.mu.Unlock()

	log.Printf("ChatHub: Unregistered user %d (All connections closed)", client.UserID)
	h.BroadcastGlobalStatus(client.UserID, "offline")
}

// IsUserOnline returns true when the user has at least one active chat websocket client.
func (h *ChatHub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.userConns[userID]
	return ok && len(clients) > 0
}

// JoinGroup subscribes a user to a group's messages.
func (h *ChatHub) JoinGroup(userID, groupID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.userConns[userID]; !ok {
		log.Printf("ChatHub: User %d not connected, cannot join group %d", userID, groupID)
		return
	}

	if h.groups[groupID] == nil {
		h.groups[groupID] = make(map[uint]struct{})
	}
	if _, already := h.groups[groupID][userID]; !already {
		observability.WebSocketRoomConnections.WithLabelValues(groupLabel(groupID)).Inc()
	}
	h.groups[groupID][userID] = struct{}{}

	if h.userActiveGroups[userID] == nil {
		h.userActiveGroups[userID] = make(map[uint]struct{})
	}
	h.userActiveGroups[userID][groupID] = struct{}{}

	log.Printf("ChatHub: User %d joined group %d", userID, groupID)
}

// LeaveGroup unsubscribes a user from a group.
func (h *ChatHub) LeaveGroup(userID, groupID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.groups[groupID]; ok {
		if _, present := members[userID]; present {
			observability.WebSocketRoomConnections.WithLabelValues(groupLabel(groupID)).Dec()
		}
		delete(members, userID)
		if len(members) == 0 {
			delete(h.groups, groupID)
		}
	}
	if groupIDs, ok := h.userActiveGroups[userID]; ok {
		delete(groupIDs, groupID)
	}

	log.Printf("ChatHub: User %d left group %d", userID, groupID)
}

// BroadcastToGroup sends a message to all users viewing a group.
func (h *ChatHub) BroadcastToGroup(groupID uint, message ChatMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members, ok := h.groups[groupID]
	if !ok {
		return
	}

	messageJSON, err := json.Marshal(message)
	if err != nil {
		log.Printf("ChatHub: Failed to marshal message: %v", err)
		return
	}

	observability.MessageThroughput.WithLabelValues(groupLabel(groupID), message.Type).Inc()

	for userID := range members {
		if clients, ok := h.userConns[userID]; ok {
			for client := range clients {
				client.TrySend(messageJSON)
			}
		}
	}
}

// GetActiveUsers returns the list of userIDs currently viewing a group.
func (h *ChatHub) GetActiveUsers(groupID uint) []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members, ok := h.groups[groupID]
	if !ok {
		return []uint{}
	}
	result := make([]uint, 0, len(members))
	for userID := range members {
		result = append(result, userID)
	}
	return result
}

// IsUserActive checks if a user is currently viewing a group.
func (h *ChatHub) IsUserActive(userID, groupID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if groupIDs, ok := h.userActiveGroups[userID]; ok {
		_, active := groupIDs[groupID]
		return active
	}
	return false
}

// StartWiring connects the ChatHub to Redis pub/sub for group messages.
func (h *ChatHub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartChatSubscriber(ctx, func(channel, payload string) {
		// channel format: chat:group:<id>, typing:group:<id> or presence:group:<id>
		var groupID uint
		var msgType string

		if _, err := fmt.Sscanf(channel, "chat:group:%d", &groupID); err == nil {
			msgType = "message"
		} else if _, err := fmt.Sscanf(channel, "typing:group:%d", &groupID); err == nil {
			msgType = "typing"
		} else if _, err := fmt.Sscanf(channel, "presence:group:%d", &groupID); err == nil {
			msgType = "presence"
		} else {
			log.Printf("ChatHub: Invalid channel format: %s", channel)
			return
		}

		var message ChatMessage
		if err := json.Unmarshal([]byte(payload), &message); err != nil {
			log.Printf("ChatHub: Failed to parse message from channel %s: %v", channel, err)
			return
		}
		if message.Type == "" {
			message.Type = msgType
		}
		message.GroupID = groupID
		observability.WebSocketEventsTotal.WithLabelValues(message.Type).Inc()

		h.BroadcastToGroup(groupID, message)
	})
}

// BroadcastGlobalStatus sends a "user_status" event (online/offline) to ALL connected users.
func (h *ChatHub) BroadcastGlobalStatus(userID uint, status string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	message := ChatMessage{
		Type:    "user_status",
		UserID:  userID,
		Payload: map[string]interface{}{"status": status, "user_id": userID},
	}

	jsonMsg, err := json.Marshal(message)
	if err != nil {
		log.Printf("ChatHub: Failed to marshal status message: %v", err)
		return
	}

	for id, clients := range h.userConns {
		if id == userID {
			continue
		}
		for client := range clients {
			client.TrySend(jsonMsg)
		}
	}
}

// Shutdown gracefully closes all websocket connections
func (h *ChatHub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, clients := range h.userConns {
		for client := range clients {
			if client.Conn == nil {
				continue
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage,
				[]byte(`{"type":"server_shutdown","message":"Server is shutting down"}`)); err != nil {
				log.Printf("failed to write shutdown message for user %d: %v", userID, err)
			}
			if err := client.Conn.Close(); err != nil {
				log.Printf("failed to close websocket for user %d: %v", userID, err)
			}
		}
	}

	h.groups = make(map[uint]map[uint]struct{})
	h.userActiveGroups = make(map[uint]map[uint]struct{})
	h.userConns = make(map[uint]map[*Client]bool)

	return nil
}

func groupLabel(groupID uint) string {
	return strconv.FormatUint(uint64(groupID), 10)
}
