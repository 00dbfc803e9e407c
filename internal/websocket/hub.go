package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"eop-planner-be/internal/pkg/logger"
)

const clusterChannel = "eop_cluster_events"

type Hub struct {
	// Registered clients map: SessionID -> List of Clients (multi-tab)
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// Identifies this instance on the cluster channel so it can skip its
	// own relayed messages; local clients already got them directly.
	instanceID string

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// clusterEnvelope is the wire shape on the Redis cluster channel.
type clusterEnvelope struct {
	Origin          string          `json:"origin"`
	TargetSessionID string          `json:"target_session_id"`
	Message         json.RawMessage `json:"message"`
}

func (h *Hub) wrapClusterMessage(sessionID string, payload []byte) []byte {
	wrapped, _ := json.Marshal(clusterEnvelope{
		Origin:          h.instanceID,
		TargetSessionID: sessionID,
		Message:         json.RawMessage(payload),
	})
	return wrapped
}

// acceptClusterMessage parses a relayed message and reports whether this
// instance should deliver it. Self-originated messages are dropped.
func (h *Hub) acceptClusterMessage(raw []byte) (string, []byte, bool) {
	var env clusterEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("Redis msg parse error: %v", err)
		return "", nil, false
	}
	if env.Origin == h.instanceID {
		return "", nil, false
	}
	return env.TargetSessionID, env.Message, true
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"session_id": client.SessionID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Send pushes a proposal snapshot to every client watching the session, and
// relays it to other instances through Redis.
func (h *Hub) Send(sessionID string, payload []byte) {
	h.mu.RLock()
	clients, localFound := h.clients[sessionID]
	h.mu.RUnlock()

	if localFound {
		for _, client := range clients {
			select {
			case client.Send <- payload:
			default:
				h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"session_id": sessionID})
				h.unregister <- client
			}
		}
	}

	if h.rdb != nil {
		h.rdb.Publish(context.Background(), clusterChannel, h.wrapClusterMessage(sessionID, payload))
	}
}

func (h *Hub) subscribeToRedis() {
	// All instances subscribe to the cluster channel; each delivers a message
	// only if it holds the target session locally.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		sessionID, payload, deliver := h.acceptClusterMessage([]byte(msg.Payload))
		if !deliver {
			continue
		}

		h.mu.RLock()
		clients, ok := h.clients[sessionID]
		h.mu.RUnlock()

		if ok {
			for _, client := range clients {
				select {
				case client.Send <- payload:
				default:
					h.unregister <- client
				}
			}
		}
	}
}
