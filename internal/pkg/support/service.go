package support

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/maksab-hq/maksab-admin/app/models"
	"github.com/maksab-hq/maksab-admin/app/repository"
)

// Service owns support sessions and their messages. Every write also
// publishes a change signal so open feeds re-sync.
type Service struct {
	sessions repository.SupportSessionRepository
	messages repository.SupportMessageRepository
	notifier *Notifier
	now      func() time.Time
}

func NewService(sessions repository.SupportSessionRepository, messages repository.SupportMessageRepository, notifier *Notifier) *Service {
	return &Service{
		sessions: sessions,
		messages: messages,
		notifier: notifier,
		now:      time.Now,
	}
}

// CreateSession opens a new active support session for a user.
func (s *Service) CreateSession(ctx context.Context, userID, subject, issue string) (*models.SupportSession, error) {
	session := &models.SupportSession{
		Subject: subject,
		Issue:   issue,
		Status:  models.SessionStatusActive,
		UserID:  userID,
	}
	if err := s.sessions.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create support session: %w", err)
	}
	s.notifier.SessionsChanged(ctx)
	return session, nil
}

// ListSessions returns every session, newest first.
func (s *Service) ListSessions() ([]models.SupportSession, error) {
	return s.sessions.ListAll()
}

// ListSessionsByUser returns one user's sessions, newest first.
func (s *Service) ListSessionsByUser(userID string) ([]models.SupportSession, error) {
	return s.sessions.ListByUser(userID)
}

// GetSession returns a single session by ID.
func (s *Service) GetSession(id string) (*models.SupportSession, error) {
	return s.sessions.GetByID(id)
}

// UpdateSessionStatus moves a session between active, pending and
// resolved.
func (s *Service) UpdateSessionStatus(ctx context.Context, id, status string) error {
	if !models.IsValidSessionStatus(status) {
		return fmt.Errorf("unknown session status: %s", status)
	}
	if err := s.sessions.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}
	s.notifier.SessionsChanged(ctx)
	return nil
}

// SendMessage appends a message to a session. isAdmin marks messages
// written from the dashboard side.
func (s *Service) SendMessage(ctx context.Context, sessionID, userID, content string, isAdmin bool) (*models.SupportMessage, error) {
	if _, err := s.sessions.GetByID(sessionID); err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	message := &models.SupportMessage{
		SessionID: sessionID,
		UserID:    userID,
		Content:   content,
		IsAdmin:   isAdmin,
	}
	if err := s.messages.Create(message); err != nil {
		return nil, fmt.Errorf("failed to send support message: %w", err)
	}
	s.notifier.MessagesChanged(ctx, sessionID)
	return message, nil
}

// ListMessages returns a session's messages, oldest first.
func (s *Service) ListMessages(sessionID string) ([]models.SupportMessage, error) {
	return s.messages.ListBySession(sessionID)
}

// UpdateMessage edits a message's content in place.
func (s *Service) UpdateMessage(ctx context.Context, sessionID, messageID, content string) error {
	if err := s.messages.UpdateContent(messageID, content); err != nil {
		return fmt.Errorf("failed to update support message: %w", err)
	}
	s.notifier.MessagesChanged(ctx, sessionID)
	return nil
}

// MarkSeen flags every unseen customer message in a session as seen.
// Each message is updated individually; failures are collected so one
// bad row does not hide the rest, and the joined error reports every
// message that could not be flagged.
func (s *Service) MarkSeen(ctx context.Context, sessionID string) error {
	msgs, err := s.messages.ListBySession(sessionID)
	if err != nil {
		return fmt.Errorf("failed to load messages for session %s: %w", sessionID, err)
	}

	var errs []error
	changed := false
	seenAt := s.now()
	for _, m := range msgs {
		if m.IsAdmin || m.Seen {
			continue
		}
		if err := s.messages.MarkSeen(m.ID, seenAt); err != nil {
			errs = append(errs, fmt.Errorf("message %s: %w", m.ID, err))
			continue
		}
		changed = true
	}

	if changed {
		s.notifier.MessagesChanged(ctx, sessionID)
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to mark %d message(s) as seen: %w", len(errs), errors.Join(errs...))
	}
	return nil
}
