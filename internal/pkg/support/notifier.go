package support

import (
	"context"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

const (
	// SessionsChannel carries a signal whenever the session collection
	// changes (create, status update).
	SessionsChannel = "support:sessions"

	// messageChannelPrefix + session ID carries a signal whenever that
	// session's message collection changes.
	messageChannelPrefix = "support:messages:"
)

// MessagesChannel returns the pub/sub channel name for one session's
// message feed.
func MessagesChannel(sessionID string) string {
	return messageChannelPrefix + sessionID
}

// Notifier publishes change signals for the support feed. Payloads are
// intentionally empty: subscribers re-fetch the full collection on any
// signal, so a lost payload can never desync the feed.
type Notifier struct {
	client *redis.Client
}

func NewNotifier(client *redis.Client) *Notifier {
	return &Notifier{client: client}
}

// SessionsChanged signals that the session collection changed.
func (n *Notifier) SessionsChanged(ctx context.Context) {
	n.publish(ctx, SessionsChannel)
}

// MessagesChanged signals that one session's messages changed.
func (n *Notifier) MessagesChanged(ctx context.Context, sessionID string) {
	n.publish(ctx, MessagesChannel(sessionID))
}

func (n *Notifier) publish(ctx context.Context, channel string) {
	if n == nil || n.client == nil {
		return
	}
	if err := n.client.Publish(ctx, channel, "changed").Err(); err != nil {
		log.Warnf("[Support] Failed to publish change signal on %s: %v", channel, err)
	}
}
