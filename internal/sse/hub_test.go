package sse

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/classgold/internal/model"
	"github.com/mcoot/classgold/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "single line data",
			eventName: "leaderboard",
			data:      `{"class":"5-A"}`,
			expected:  "event: leaderboard\ndata: {\"class\":\"5-A\"}\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "test",
			data:      "line1\nline2",
			expected:  "event: test\ndata: line1\ndata: line2\n\n",
		},
		{
			name:      "empty data",
			eventName: "ping",
			data:      "",
			expected:  "event: ping\ndata: \n\n",
		},
		{
			name:      "data with carriage returns",
			eventName: "test",
			data:      "line1\r\nline2\r\n",
			expected:  "event: test\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(formatSSEMessage(tt.eventName, tt.data)))
		})
	}
}

func TestHubRegisterAndBroadcast(t *testing.T) {
	hub := NewHub("5-A", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient("alice")
	require.True(t, hub.Register(client))

	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.BroadcastEvent("leaderboard", "refresh")

	select {
	case msg := <-client.send:
		assert.Equal(t, "event: leaderboard\ndata: refresh\n\n", string(msg))
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
	}
}

func TestHubUnregisterClosesClient(t *testing.T) {
	hub := NewHub("5-A", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient("alice")
	require.True(t, hub.Register(client))
	hub.Unregister(client)

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-client.send
	assert.False(t, ok)
}

func TestHubRegisterAfterClose(t *testing.T) {
	hub := NewHub("5-A", testutil.NopLogger())
	go hub.Run()
	hub.Close()
	hub.Close() // idempotent

	assert.False(t, hub.Register(NewClient("alice")))
}

func TestHubManagerCleanupEmptyHubs(t *testing.T) {
	m := NewHubManager(testutil.NopLogger())
	defer m.Close()

	hub := m.GetOrCreateHub("5-A")
	assert.Same(t, hub, m.GetOrCreateHub("5-A"))
	assert.Nil(t, m.GetHub("5-B"))

	m.CleanupEmptyHubs()
	assert.Nil(t, m.GetHub("5-A"))
}

func TestBroadcasterBalanceChanged(t *testing.T) {
	m := NewHubManager(testutil.NopLogger())
	defer m.Close()
	b := NewBroadcaster(m, testutil.NopLogger())

	hub := m.GetOrCreateHub("5-A")
	client := NewClient("bob")
	require.True(t, hub.Register(client))

	student := &model.Account{ID: "alice", Role: model.RoleStudent, ClassName: "5-A", Balance: 120}
	b.BalanceChanged(student, model.ActivityGameReward)

	select {
	case msg := <-client.send:
		frame := string(msg)
		require.True(t, strings.HasPrefix(frame, "event: leaderboard\ndata: "))
		payload := strings.TrimSuffix(strings.TrimPrefix(frame, "event: leaderboard\ndata: "), "\n\n")

		var change LeaderboardChange
		require.NoError(t, json.Unmarshal([]byte(payload), &change))
		assert.Equal(t, LeaderboardChange{
			ClassName: "5-A",
			AccountID: "alice",
			Balance:   120,
			Reason:    model.ActivityGameReward,
		}, change)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
	}
}

func TestBroadcasterSkipsTeachersAndUnwatchedClasses(t *testing.T) {
	m := NewHubManager(testutil.NopLogger())
	defer m.Close()
	b := NewBroadcaster(m, testutil.NopLogger())

	// Neither call may panic or create a hub
	b.BalanceChanged(&model.Account{ID: "t", Role: model.RoleTeacher, ClassName: "5-A"}, model.ActivityPurchase)
	b.BalanceChanged(&model.Account{ID: "s", Role: model.RoleStudent, ClassName: "5-B"}, model.ActivityPurchase)

	assert.Nil(t, m.GetHub("5-A"))
	assert.Nil(t, m.GetHub("5-B"))
}

func TestServeSSEStreamsEvents(t *testing.T) {
	hub := NewHub("5-A", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		ServeSSE(rec, req, hub, "alice")
		close(done)
	}()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	hub.BroadcastEvent("leaderboard", "refresh")

	// Let the stream write before disconnecting
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: connected\n")
	assert.Contains(t, body, "event: leaderboard\ndata: refresh\n\n")
}
