// Package notifications publishes content lifecycle events into Redis
// channels for downstream consumers.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"

	"github.com/redis/go-redis/v9"
)

// Event names published by the content pipeline.
const (
	EventPostCreated    = "post.created"
	EventPostUpdated    = "post.updated"
	EventPostDeleted    = "post.deleted"
	EventCommentCreated = "comment.created"
	EventCommentUpdated = "comment.updated"
	EventCommentDeleted = "comment.deleted"
	EventContentBlocked = "content.blocked"
	EventAutoReply      = "comment.auto_reply"
)

// Event is the payload published for every lifecycle notification.
type Event struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	EntityID  uint   `json:"entity_id"`
	OwnerID   uint   `json:"owner_id"`
	PostID    uint   `json:"post_id,omitempty"`
	IsBlocked bool   `json:"is_blocked,omitempty"`
}

// UserChannel returns the Redis channel name for one user's events.
func UserChannel(userID uint) string {
	return fmt.Sprintf("content:user:%d", userID)
}

// Notifier provides helpers to publish lifecycle events into Redis channels.
// A nil Redis client turns every publish into a no-op.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishUser sends an event to the owning user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, event Event) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return n.rdb.Publish(ctx, UserChannel(userID), string(payload)).Err()
}

// PublishBroadcast sends an event to all subscribers.
func (n *Notifier) PublishBroadcast(ctx context.Context, event Event) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return n.rdb.Publish(ctx, "content:broadcast", string(payload)).Err()
}

// StartPatternSubscriber subscribes to the content channels and calls
// onMessage for each incoming message. onMessage receives channel and
// payload.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "content:user:*", "content:broadcast")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in PatternSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}
