package support

import (
	"context"
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/maksab-hq/maksab-admin/app/models"
)

// SessionsHandler receives the full session collection after a change.
type SessionsHandler func(sessions []models.SupportSession)

// MessagesHandler receives one session's full message collection after
// a change.
type MessagesHandler func(sessionID string, messages []models.SupportMessage)

// Feed keeps a consumer in sync with the support tables. It holds one
// standing subscription for the session collection and at most one for
// a session's messages; opening a session tears down the previous
// message subscription first. Signals carry no payload, so every event
// triggers a full re-fetch through the service.
type Feed struct {
	client *redis.Client
	svc    *Service

	onSessions SessionsHandler
	onMessages MessagesHandler

	mu          sync.Mutex
	sessionSub  *redis.PubSub
	messageSub  *redis.PubSub
	openSession string
	closed      bool
}

func NewFeed(client *redis.Client, svc *Service, onSessions SessionsHandler, onMessages MessagesHandler) *Feed {
	return &Feed{
		client:     client,
		svc:        svc,
		onSessions: onSessions,
		onMessages: onMessages,
	}
}

// Start subscribes to the session collection and delivers an initial
// snapshot. It returns after the subscription is established; delivery
// continues on a background goroutine until Close.
func (f *Feed) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return fmt.Errorf("feed is closed")
	}
	if f.sessionSub != nil {
		return nil
	}

	sub := f.client.Subscribe(ctx, SessionsChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", SessionsChannel, err)
	}
	f.sessionSub = sub

	f.deliverSessions()
	go f.run(sub.Channel(), func(string) { f.deliverSessions() })
	return nil
}

// OpenSession switches the live message subscription to the given
// session. Any previously open session is closed first, then an
// initial snapshot is delivered.
func (f *Feed) OpenSession(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return fmt.Errorf("feed is closed")
	}
	if f.messageSub != nil {
		if err := f.messageSub.Close(); err != nil {
			log.Warnf("[Support] Failed to close message subscription for session %s: %v", f.openSession, err)
		}
		f.messageSub = nil
		f.openSession = ""
	}

	sub := f.client.Subscribe(ctx, MessagesChannel(sessionID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("failed to subscribe to session %s: %w", sessionID, err)
	}
	f.messageSub = sub
	f.openSession = sessionID

	f.deliverMessages(sessionID)
	go f.run(sub.Channel(), func(channel string) {
		f.deliverMessages(sessionID)
	})
	return nil
}

// CloseSession drops the live message subscription, if any.
func (f *Feed) CloseSession() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.messageSub != nil {
		_ = f.messageSub.Close()
		f.messageSub = nil
		f.openSession = ""
	}
}

// Close tears down every subscription. The feed cannot be restarted.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	if f.sessionSub != nil {
		_ = f.sessionSub.Close()
		f.sessionSub = nil
	}
	if f.messageSub != nil {
		_ = f.messageSub.Close()
		f.messageSub = nil
		f.openSession = ""
	}
}

// run pumps one subscription until its channel is closed.
func (f *Feed) run(ch <-chan *redis.Message, handle func(channel string)) {
	for msg := range ch {
		handle(msg.Channel)
	}
}

func (f *Feed) deliverSessions() {
	if f.onSessions == nil {
		return
	}
	sessions, err := f.svc.ListSessions()
	if err != nil {
		log.Errorf("[Support] Failed to refresh sessions: %v", err)
		return
	}
	f.onSessions(sessions)
}

func (f *Feed) deliverMessages(sessionID string) {
	if f.onMessages == nil {
		return
	}
	messages, err := f.svc.ListMessages(sessionID)
	if err != nil {
		log.Errorf("[Support] Failed to refresh messages for session %s: %v", sessionID, err)
		return
	}
	f.onMessages(sessionID, messages)
}
