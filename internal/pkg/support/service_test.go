package support

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/maksab-hq/maksab-admin/app/models"
)

type fakeSessionRepo struct {
	sessions map[string]*models.SupportSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*models.SupportSession{}}
}

func (r *fakeSessionRepo) Create(s *models.SupportSession) error {
	if s.ID == "" {
		s.ID = "sess_" + s.Subject
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) GetByID(id string) (*models.SupportSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) ListAll() ([]models.SupportSession, error) {
	out := make([]models.SupportSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeSessionRepo) ListByUser(userID string) ([]models.SupportSession, error) {
	out := []models.SupportSession{}
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) UpdateStatus(id, status string) error {
	s, ok := r.sessions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Status = status
	return nil
}

type fakeMessageRepo struct {
	messages   map[string]*models.SupportMessage
	markSeen   []string
	markSeenAt map[string]time.Time
	failMark   map[string]error
}

func newFakeMessageRepo(msgs ...*models.SupportMessage) *fakeMessageRepo {
	r := &fakeMessageRepo{
		messages:   map[string]*models.SupportMessage{},
		markSeenAt: map[string]time.Time{},
		failMark:   map[string]error{},
	}
	for _, m := range msgs {
		r.messages[m.ID] = m
	}
	return r
}

func (r *fakeMessageRepo) Create(m *models.SupportMessage) error {
	if m.ID == "" {
		m.ID = "msg_" + m.Content
	}
	r.messages[m.ID] = m
	return nil
}

func (r *fakeMessageRepo) ListBySession(sessionID string) ([]models.SupportMessage, error) {
	out := []models.SupportMessage{}
	for _, m := range r.messages {
		if m.SessionID == sessionID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMessageRepo) MarkSeen(id string, seenAt time.Time) error {
	if err := r.failMark[id]; err != nil {
		return err
	}
	m, ok := r.messages[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.Seen = true
	m.SeenAt = &seenAt
	r.markSeen = append(r.markSeen, id)
	r.markSeenAt[id] = seenAt
	return nil
}

func (r *fakeMessageRepo) UpdateContent(id, content string) error {
	m, ok := r.messages[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.Content = content
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeSessionRepo, *fakeMessageRepo, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sessions := newFakeSessionRepo()
	messages := newFakeMessageRepo()
	svc := NewService(sessions, messages, NewNotifier(client))
	return svc, sessions, messages, client
}

func msg(id, sessionID string, isAdmin, seen bool) *models.SupportMessage {
	return &models.SupportMessage{
		ID:        id,
		SessionID: sessionID,
		UserID:    "user_1",
		Content:   "hello",
		IsAdmin:   isAdmin,
		Seen:      seen,
	}
}

func TestCreateSessionPublishesSignal(t *testing.T) {
	svc, sessions, _, client := newTestService(t)

	sub := client.Subscribe(context.Background(), SessionsChannel)
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)
	defer sub.Close()

	session, err := svc.CreateSession(context.Background(), "user_1", "Billing", "Card declined")
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusActive, session.Status)
	assert.Contains(t, sessions.sessions, session.ID)

	select {
	case m := <-sub.Channel():
		assert.Equal(t, SessionsChannel, m.Channel)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change signal on the sessions channel")
	}
}

func TestSendMessagePublishesOnSessionChannel(t *testing.T) {
	svc, sessions, _, client := newTestService(t)
	require.NoError(t, sessions.Create(&models.SupportSession{ID: "sess_1", UserID: "user_1", Status: models.SessionStatusActive}))

	sub := client.Subscribe(context.Background(), MessagesChannel("sess_1"))
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)
	defer sub.Close()

	_, err = svc.SendMessage(context.Background(), "sess_1", "user_1", "it broke again", false)
	require.NoError(t, err)

	select {
	case m := <-sub.Channel():
		assert.Equal(t, MessagesChannel("sess_1"), m.Channel)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change signal on the message channel")
	}
}

func TestSendMessageRequiresSession(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.SendMessage(context.Background(), "missing", "user_1", "hello", false)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateSessionStatusValidates(t *testing.T) {
	svc, sessions, _, _ := newTestService(t)
	require.NoError(t, sessions.Create(&models.SupportSession{ID: "sess_1", Status: models.SessionStatusActive}))

	assert.Error(t, svc.UpdateSessionStatus(context.Background(), "sess_1", "closed"))
	require.NoError(t, svc.UpdateSessionStatus(context.Background(), "sess_1", models.SessionStatusResolved))
	assert.Equal(t, models.SessionStatusResolved, sessions.sessions["sess_1"].Status)
}

func TestMarkSeenFlagsOnlyUnseenCustomerMessages(t *testing.T) {
	svc, sessions, messages, _ := newTestService(t)
	require.NoError(t, sessions.Create(&models.SupportSession{ID: "sess_1", Status: models.SessionStatusActive}))

	require.NoError(t, messages.Create(msg("m1", "sess_1", false, false)))
	require.NoError(t, messages.Create(msg("m2", "sess_1", false, true)))
	require.NoError(t, messages.Create(msg("m3", "sess_1", true, false)))
	require.NoError(t, messages.Create(msg("m4", "other", false, false)))

	err := svc.MarkSeen(context.Background(), "sess_1")
	require.NoError(t, err)

	assert.Equal(t, []string{"m1"}, messages.markSeen, "only the unseen customer message gets updated")
	assert.True(t, messages.messages["m1"].Seen)
	assert.NotNil(t, messages.messages["m1"].SeenAt)
	assert.False(t, messages.messages["m3"].Seen, "admin messages are never flagged")
}

func TestMarkSeenCollectsFailures(t *testing.T) {
	svc, sessions, messages, _ := newTestService(t)
	require.NoError(t, sessions.Create(&models.SupportSession{ID: "sess_1", Status: models.SessionStatusActive}))

	require.NoError(t, messages.Create(msg("m1", "sess_1", false, false)))
	require.NoError(t, messages.Create(msg("m2", "sess_1", false, false)))
	require.NoError(t, messages.Create(msg("m3", "sess_1", false, false)))
	messages.failMark["m2"] = errors.New("row locked")

	err := svc.MarkSeen(context.Background(), "sess_1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 message(s)")
	assert.Contains(t, err.Error(), "m2")

	// The failure must not stop the remaining messages.
	assert.ElementsMatch(t, []string{"m1", "m3"}, messages.markSeen)
}
