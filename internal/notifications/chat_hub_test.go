package notifications

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerChatClient(t *testing.T, hub *ChatHub, userID uint) *Client {
	t.Helper()
	client, err := hub.Register(userID, nil)
	require.NoError(t, err)
	drainMessages(client.Send)
	return client
}

func TestChatHub_RegisterUnregister(t *testing.T) {
	hub := NewChatHub()
	client := registerChatClient(t, hub, 1)

	hub.mu.RLock()
	assert.Len(t, hub.userConns[1], 1)
	hub.mu.RUnlock()

	hub.UnregisterClient(client)
	hub.mu.RLock()
	assert.Empty(t, hub.userConns[1])
	hub.mu.RUnlock()
	assert.False(t, hub.IsUserOnline(1))

	_ = hub.Shutdown(context.Background())
}

func TestChatHub_BroadcastToGroup(t *testing.T) {
	hub := NewChatHub()
	client := registerChatClient(t, hub, 1)
	hub.JoinGroup(1, 101)

	msg := ChatMessage{
		Type:    "message",
		GroupID: 101,
		Payload: "Hello",
	}
	hub.BroadcastToGroup(101, msg)

	sentMsg := <-client.Send
	var received ChatMessage
	err := json.Unmarshal(sentMsg, &received)
	assert.NoError(t, err)
	assert.Equal(t, "message", received.Type)
	assert.Equal(t, uint(101), received.GroupID)

	_ = hub.Shutdown(context.Background())
}

func TestChatHub_MultiDeviceSupport(t *testing.T) {
	hub := NewChatHub()
	userID := uint(42)

	client1 := registerChatClient(t, hub, userID)
	client2 := registerChatClient(t, hub, userID)

	hub.mu.RLock()
	assert.Len(t, hub.userConns[userID], 2)
	hub.mu.RUnlock()

	hub.JoinGroup(userID, 202)

	hub.BroadcastToGroup(202, ChatMessage{Type: "message", GroupID: 202, Payload: "Multi-device test"})

	// Both clients should receive the message
	select {
	case <-client1.Send:
	default:
		t.Error("client1 did not receive message")
	}

	select {
	case <-client2.Send:
	default:
		t.Error("client2 did not receive message")
	}

	// Dropping one device keeps group membership intact.
	hub.UnregisterClient(client1)
	assert.True(t, hub.IsUserActive(userID, 202))
	assert.True(t, hub.IsUserOnline(userID))

	_ = hub.Shutdown(context.Background())
}

func TestChatHub_BroadcastToGroup_DoesNotSendToNonMembers(t *testing.T) {
	hub := NewChatHub()

	member := registerChatClient(t, hub, 1)
	outsider := registerChatClient(t, hub, 2)
	drainMessages(member.Send) // member sees outsider's online status
	hub.JoinGroup(1, 404)

	hub.BroadcastToGroup(404, ChatMessage{
		Type:    "message",
		GroupID: 404,
		Payload: "Scoped fanout",
	})

	select {
	case <-member.Send:
	default:
		t.Fatal("group member did not receive message")
	}

	select {
	case <-outsider.Send:
		t.Fatal("non-member unexpectedly received message")
	default:
	}

	_ = hub.Shutdown(context.Background())
}

func TestChatHub_UnregisterCleansUpGroupSubscriptions(t *testing.T) {
	hub := NewChatHub()
	userID := uint(7)
	groupID := uint(303)

	client := registerChatClient(t, hub, userID)
	hub.JoinGroup(userID, groupID)

	hub.mu.RLock()
	assert.Contains(t, hub.groups[groupID], userID)
	assert.Contains(t, hub.userActiveGroups[userID], groupID)
	hub.mu.RUnlock()

	hub.UnregisterClient(client)

	hub.mu.RLock()
	_, userConnExists := hub.userConns[userID]
	_, groupExists := hub.groups[groupID]
	_, activeExists := hub.userActiveGroups[userID]
	hub.mu.RUnlock()
	assert.False(t, userConnExists)
	assert.False(t, groupExists)
	assert.False(t, activeExists)

	_ = hub.Shutdown(context.Background())
}

func TestChatHub_LeaveGroupStopsFanout(t *testing.T) {
	hub := NewChatHub()
	client := registerChatClient(t, hub, 1)
	hub.JoinGroup(1, 9)
	assert.True(t, hub.IsUserActive(1, 9))

	hub.LeaveGroup(1, 9)
	assert.False(t, hub.IsUserActive(1, 9))
	assert.Empty(t, hub.GetActiveUsers(9))

	hub.BroadcastToGroup(9, ChatMessage{Type: "message", GroupID: 9, Payload: "after leave"})
	select {
	case <-client.Send:
		t.Fatal("received message after leaving group")
	default:
	}

	_ = hub.Shutdown(context.Background())
}

func TestChatHub_ConnectedUsersSnapshotOnRegister(t *testing.T) {
	hub := NewChatHub()
	registerChatClient(t, hub, 1)

	second, err := hub.Register(2, nil)
	require.NoError(t, err)

	var snapshot struct {
		Type    string `json:"type"`
		Payload struct {
			UserIDs []uint `json:"user_ids"`
		} `json:"payload"`
	}
	raw := <-second.Send
	require.NoError(t, json.Unmarshal(raw, &snapshot))
	assert.Equal(t, "connected_users", snapshot.Type)
	assert.Equal(t, []uint{1}, snapshot.Payload.UserIDs)

	_ = hub.Shutdown(context.Background())
}

func TestChatHub_GlobalStatusBroadcastOnDisconnect(t *testing.T) {
	hub := NewChatHub()
	watcher := registerChatClient(t, hub, 1)

	leaver := registerChatClient(t, hub, 99)
	drainMessages(watcher.Send) // online status for user 99

	hub.UnregisterClient(leaver)
	assert.True(t, hasOfflineStatus(watcher.Send, 99))

	_ = hub.Shutdown(context.Background())
}

func TestChatHub_ConnectionLimitPerUser(t *testing.T) {
	hub := NewChatHub()
	clients := make([]*Client, 0, maxConnsPerUser)
	for i := 0; i < maxConnsPerUser; i++ {
		c, err := hub.Register(1, nil)
		require.NoError(t, err)
		clients = append(clients, c)
	}

	_, err := hub.Register(1, nil)
	assert.Error(t, err)

	hub.UnregisterClient(clients[0])
	_, err = hub.Register(1, nil)
	assert.NoError(t, err)

	_ = hub.Shutdown(context.Background())
}

func drainMessages(ch <-chan []byte) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

func hasOfflineStatus(ch <-chan []byte, userID uint) bool {
	found := false
	for {
		select {
		case raw := <-ch:
			var msg struct {
				Type    string `json:"type"`
				Payload struct {
					Status string `json:"status"`
					UserID uint   `json:"user_id"`
				} `json:"payload"`
			}
			if err := json.Unmarshal(raw, &msg); err != nil {
				continue
			}
			if msg.Type == "user_status" && msg.Payload.Status == "offline" && msg.Payload.UserID == userID {
				found = true
			}
		default:
			return found
		}
	}
}
