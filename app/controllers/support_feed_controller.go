package controllers

import (
	"bufio"
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/maksab-hq/maksab-admin/app/models"
	"github.com/maksab-hq/maksab-admin/internal/pkg/cache"
	"github.com/maksab-hq/maksab-admin/internal/pkg/support"
)

const feedKeepAliveInterval = 30 * time.Second

type feedEvent struct {
	name string
	data interface{}
}

// HandleSupportFeed streams support data as server-sent events. Every
// connection gets an initial "sessions" snapshot and a fresh one after
// each change. With a session_id query param the stream also carries
// "messages" snapshots for that session, and its unseen user messages
// are marked seen on connect.
func HandleSupportFeed(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID != "" {
		if _, err := services.Support.GetSession(sessionID); err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Support session not found"})
		}
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		events := make(chan feedEvent, 16)
		done := make(chan struct{})
		send := func(ev feedEvent) {
			select {
			case events <- ev:
			case <-done:
			}
		}

		feed := support.NewFeed(cache.GetClient(), services.Support,
			func(sessions []models.SupportSession) {
				send(feedEvent{name: "sessions", data: sessions})
			},
			func(id string, messages []models.SupportMessage) {
				send(feedEvent{name: "messages", data: fiber.Map{"session_id": id, "messages": messages}})
			},
		)
		defer feed.Close()
		defer close(done)

		ctx := context.Background()
		if err := feed.Start(ctx); err != nil {
			log.Errorf("[Support] Feed start failed: %v", err)
			return
		}
		if sessionID != "" {
			if err := feed.OpenSession(ctx, sessionID); err != nil {
				log.Errorf("[Support] Feed open session %s failed: %v", sessionID, err)
				return
			}
			if err := services.Support.MarkSeen(ctx, sessionID); err != nil {
				log.Warnf("[Support] Mark seen on feed connect for session %s: %v", sessionID, err)
			}
		}

		keepAlive := time.NewTicker(feedKeepAliveInterval)
		defer keepAlive.Stop()

		for {
			select {
			case ev := <-events:
				if !writeFeedEvent(w, ev) {
					return
				}
			case <-keepAlive.C:
				// Comment line keeps the connection open and surfaces
				// a gone client as a write error.
				if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})

	return nil
}

func writeFeedEvent(w *bufio.Writer, ev feedEvent) bool {
	payload, err := json.Marshal(ev.data)
	if err != nil {
		log.Errorf("[Support] Failed to encode feed event %s: %v", ev.name, err)
		return true
	}
	if _, err := w.WriteString("event: " + ev.name + "\ndata: " + string(payload) + "\n\n"); err != nil {
		return false
	}
	return w.Flush() == nil
}
