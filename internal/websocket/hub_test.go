package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterMessageSkipsOwnOrigin(t *testing.T) {
	hub := NewHub(nil, nil)

	wrapped := hub.wrapClusterMessage("sess-1", []byte(`{"version":3}`))

	_, _, deliver := hub.acceptClusterMessage(wrapped)
	assert.False(t, deliver)
}

func TestClusterMessageDeliveredAcrossInstances(t *testing.T) {
	sender := NewHub(nil, nil)
	receiver := NewHub(nil, nil)

	wrapped := sender.wrapClusterMessage("sess-2", []byte(`{"version":7}`))

	sessionID, payload, deliver := receiver.acceptClusterMessage(wrapped)
	require.True(t, deliver)
	assert.Equal(t, "sess-2", sessionID)
	assert.JSONEq(t, `{"version":7}`, string(payload))
}

func TestClusterMessageRejectsMalformedPayload(t *testing.T) {
	hub := NewHub(nil, nil)

	_, _, deliver := hub.acceptClusterMessage([]byte("not-json"))
	assert.False(t, deliver)
}
