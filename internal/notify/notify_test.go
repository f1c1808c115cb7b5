package notify

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndRemove(t *testing.T) {
	reg := NewRegistry()
	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9999}

	reg.Register("user-1", addr)
	reg.Register("", addr)        // ignored
	reg.Register("user-2", nil)   // ignored
	reg.Register("user-1", addr)  // idempotent

	clients := reg.Snapshot()
	require.Len(t, clients, 1)
	require.Equal(t, "user-1", clients[0].UserID)

	reg.Remove("user-1")
	require.Empty(t, reg.Snapshot())
}

func TestParseRegisterMessage(t *testing.T) {
	msg, err := ParseRegisterMessage([]byte(`{"type":"register","user_id":"user-1"}`))
	require.NoError(t, err)
	require.Equal(t, RegisterMessageType, msg.Type)
	require.Equal(t, "user-1", msg.UserID)

	_, err = ParseRegisterMessage([]byte(`{"type":"register"}`))
	require.Error(t, err)

	_, err = ParseRegisterMessage([]byte(`not json`))
	require.Error(t, err)
}
