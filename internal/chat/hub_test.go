package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBroadcastKeepsHistoryWithoutConnections(t *testing.T) {
	hub := NewHub(10)

	hub.Broadcast(Message{Type: "message", Room: "1999-08-01_-_Sasha_-_Essential_Mix", User: "ana", Text: "classic"})
	hub.Broadcast(Message{Type: "message", Room: "1999-08-01_-_Sasha_-_Essential_Mix", User: "bo", Text: "agreed"})

	history := hub.History("1999-08-01_-_Sasha_-_Essential_Mix")
	require.Len(t, history, 2)
	require.Equal(t, "classic", history[0].Text)
	require.Equal(t, "agreed", history[1].Text)

	require.Nil(t, hub.History("some-other-room"))
}

func TestBroadcastTrimsHistory(t *testing.T) {
	hub := NewHub(2)

	hub.Broadcast(Message{Type: "message", Room: "r", User: "u", Text: "one"})
	hub.Broadcast(Message{Type: "message", Room: "r", User: "u", Text: "two"})
	hub.Broadcast(Message{Type: "message", Room: "r", User: "u", Text: "three"})

	history := hub.History("r")
	require.Len(t, history, 2)
	require.Equal(t, "two", history[0].Text)
	require.Equal(t, "three", history[1].Text)
}

func TestJoinEventsNotStoredInHistory(t *testing.T) {
	hub := NewHub(10)

	hub.Broadcast(Message{Type: "user_join", Room: "r", User: "ana"})
	hub.Broadcast(Message{Type: "message", Room: "r", User: "ana", Text: "hi"})

	history := hub.History("r")
	require.Len(t, history, 1)
	require.Equal(t, "hi", history[0].Text)
}
