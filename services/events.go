package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// VerificationEvent is what a requester's open session sees when their
// verification state changes. Events for one user are delivered in the order
// the decisions were made; a stale "pending" must never land after "rejected".
type VerificationEvent struct {
	UserID    uint      `json:"userID"`
	RequestID uint      `json:"requestID,omitempty"`
	Status    string    `json:"status"` // approved | rejected | pending
	Notes     string    `json:"notes,omitempty"`
	At        time.Time `json:"at"`
}

// EventPublisher is the only thing the verification service knows about
// delivery. Transports (the in-process hub, the Redis bridge) live behind it.
type EventPublisher interface {
	Publish(event VerificationEvent)
}

// Hub fans verification events out to in-process subscribers, one ordered
// stream per user.
type Hub struct {
	mu   sync.Mutex
	subs map[uint][]chan VerificationEvent
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint][]chan VerificationEvent)}
}

// Subscribe registers a listener for one user's events. The returned cancel
// function must be called when the session goes away; it closes the channel.
func (h *Hub) Subscribe(userID uint) (<-chan VerificationEvent, func()) {
	ch := make(chan VerificationEvent, 16)

	h.mu.Lock()
	h.subs[userID] = append(h.subs[userID], ch)
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		chans := h.subs[userID]
		for i, c := range chans {
			if c == ch {
				h.subs[userID] = append(chans[:i], chans[i+1:]...)
				close(ch)
				break
			}
		}
		if len(h.subs[userID]) == 0 {
			delete(h.subs, userID)
		}
	}
	return ch, cancel
}

// Publish appends the event to every subscriber of the event's user. Sends
// never block and never reorder. A subscriber that has fallen a full buffer
// behind is disconnected (channel closed) rather than fed a partial stream:
// shedding the newest event could leave an open session believing a stale
// status. The session drains what it has, sees the close, and resubscribes
// with a status refetch.
func (h *Hub) Publish(event VerificationEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	chans := h.subs[event.UserID]
	kept := chans[:0]
	for _, ch := range chans {
		select {
		case ch <- event:
			kept = append(kept, ch)
		default:
			close(ch)
			log.Printf("⚠️  disconnecting slow verification subscriber (user %d)", event.UserID)
		}
	}
	if len(kept) == 0 {
		delete(h.subs, event.UserID)
	} else {
		h.subs[event.UserID] = kept
	}
}

// RedisEventBridge carries verification events across instances. Publish
// writes to the user's Redis channel only; Run relays inbound messages into
// the local hub. Routing everything through Redis (even same-instance
// events) keeps delivery single-sourced and therefore ordered.
type RedisEventBridge struct {
	rdb *redis.Client
	hub *Hub
}

func NewRedisEventBridge(rdb *redis.Client, hub *Hub) *RedisEventBridge {
	return &RedisEventBridge{rdb: rdb, hub: hub}
}

func eventChannel(userID uint) string {
	return fmt.Sprintf("verification:user:%d", userID)
}

func (b *RedisEventBridge) Publish(event VerificationEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("❌ EVENTS ERROR: marshaling verification event: %v", err)
		return
	}
	if err := b.rdb.Publish(context.Background(), eventChannel(event.UserID), payload).Err(); err != nil {
		log.Printf("❌ EVENTS ERROR: publishing verification event for user %d: %v", event.UserID, err)
	}
}

// Run blocks relaying Redis messages into the hub until ctx is canceled.
// Start it in its own goroutine at boot.
func (b *RedisEventBridge) Run(ctx context.Context) {
	sub := b.rdb.PSubscribe(ctx, "verification:user:*")
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			var event VerificationEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("❌ EVENTS ERROR: bad payload on %s: %v", msg.Channel, err)
				continue
			}
			// Channel name is authoritative for routing; guard against a
			// mismatched body.
			if !strings.HasSuffix(msg.Channel, fmt.Sprintf(":%d", event.UserID)) {
				log.Printf("⚠️  verification event user mismatch on %s", msg.Channel)
				continue
			}
			b.hub.Publish(event)
		}
	}
}
