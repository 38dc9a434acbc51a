package jobqueue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maksab-hq/maksab-admin/internal/pkg/cache"
	"github.com/maksab-hq/maksab-admin/internal/pkg/subscription"
)

// setupTestRedis points the shared cache client at an in-process redis.
func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	t.Setenv("CACHE_HOST", mr.Host())
	t.Setenv("CACHE_PORT", mr.Port())
	t.Setenv("CACHE_PASSWORD", "")
	cache.SetupCache()
	return mr
}

// TestNewQueue tests the queue constructor
func TestNewQueue(t *testing.T) {
	setupTestRedis(t)

	tests := []struct {
		name            string
		workers         int
		expectedWorkers int
	}{
		{"Valid worker count", 5, 5},
		{"Zero workers", 0, 3},
		{"Negative workers", -1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := NewQueue(tt.workers)

			assert.NotNil(t, queue)
			assert.Equal(t, tt.expectedWorkers, queue.workers)
			assert.Equal(t, tt.expectedWorkers, cap(queue.workerPool))
			assert.False(t, queue.running)
		})
	}
}

func TestEnqueueJobStoresAndQueues(t *testing.T) {
	setupTestRedis(t)
	queue := NewQueue(1)

	payload := NotificationEmailJobPayload{To: "ops@maksab.test", Subject: "Hi", Body: "Hello"}
	job, err := queue.EnqueueJob(JobTypeNotificationEmail, payload.ToMap())
	require.NoError(t, err)
	require.NotEmpty(t, job.ID)
	assert.Equal(t, JobStatusPending, job.Status)

	ctx := context.Background()
	size, err := queue.GetQueueSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), size)

	stored, err := queue.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobTypeNotificationEmail, stored.Type)

	decoded, err := NotificationEmailJobPayloadFromMap(stored.Payload)
	require.NoError(t, err)
	assert.Equal(t, "ops@maksab.test", decoded.To)
}

func TestProcessNotificationEmailJob(t *testing.T) {
	setupTestRedis(t)
	queue := NewQueue(1)

	var mu sync.Mutex
	var sent []string
	queue.SetMailSender(func(to, subject, body string) error {
		mu.Lock()
		defer mu.Unlock()
		sent = append(sent, to)
		return nil
	})

	payload := NotificationEmailJobPayload{To: "ops@maksab.test", Subject: "Hi", Body: "Hello"}
	job := &Job{
		ID:      "job-1",
		Type:    JobTypeNotificationEmail,
		Payload: payload.ToMap(),
	}

	require.NoError(t, queue.processNotificationEmailJob(job))
	assert.Equal(t, []string{"ops@maksab.test"}, sent)
}

func TestProcessNotificationEmailJobWithoutRecipient(t *testing.T) {
	setupTestRedis(t)
	queue := NewQueue(1)
	queue.SetMailSender(func(string, string, string) error { return nil })

	job := &Job{ID: "job-1", Type: JobTypeNotificationEmail, Payload: map[string]interface{}{}}
	assert.Error(t, queue.processNotificationEmailJob(job))
}

type stubSweepRunner struct {
	result subscription.SweepResult
	err    error
	calls  int
}

func (s *stubSweepRunner) Sweep(_ context.Context) (subscription.SweepResult, error) {
	s.calls++
	return s.result, s.err
}

func TestProcessSubscriptionSweepJob(t *testing.T) {
	setupTestRedis(t)
	queue := NewQueue(1)

	runner := &stubSweepRunner{result: subscription.SweepResult{Scanned: 10, Downgraded: 2}}
	queue.SetSweepRunner(runner)

	payload := SubscriptionSweepJobPayload{Trigger: "schedule"}
	job := &Job{ID: "job-1", Type: JobTypeSubscriptionSweep, Payload: payload.ToMap()}

	require.NoError(t, queue.processSubscriptionSweepJob(context.Background(), job))
	assert.Equal(t, 1, runner.calls)
}

func TestProcessSubscriptionSweepJobWithoutRunner(t *testing.T) {
	setupTestRedis(t)
	queue := NewQueue(1)

	job := &Job{ID: "job-1", Type: JobTypeSubscriptionSweep, Payload: map[string]interface{}{}}
	assert.Error(t, queue.processSubscriptionSweepJob(context.Background(), job))
}

func TestQueueProcessesJobsEndToEnd(t *testing.T) {
	setupTestRedis(t)
	queue := NewQueue(2)

	done := make(chan string, 4)
	queue.SetMailSender(func(to, subject, body string) error {
		done <- to
		return nil
	})

	queue.Start()
	defer queue.Stop()

	payload := NotificationEmailJobPayload{To: "ops@maksab.test", Subject: "Hi", Body: "Hello"}
	_, err := queue.EnqueueJob(JobTypeNotificationEmail, payload.ToMap())
	require.NoError(t, err)

	select {
	case to := <-done:
		assert.Equal(t, "ops@maksab.test", to)
	case <-time.After(5 * time.Second):
		t.Fatal("job was not processed in time")
	}
}

func TestFailedJobRecordsError(t *testing.T) {
	setupTestRedis(t)
	queue := NewQueue(1)
	queue.SetMailSender(func(string, string, string) error {
		return errors.New("smtp unavailable")
	})

	payload := NotificationEmailJobPayload{To: "ops@maksab.test", Subject: "Hi", Body: "Hello"}
	job := &Job{
		ID:         "job-fail",
		Type:       JobTypeNotificationEmail,
		Status:     JobStatusPending,
		Payload:    payload.ToMap(),
		MaxRetries: 0,
	}

	queue.processJob(context.Background(), job)

	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Contains(t, job.ErrorMsg, "smtp unavailable")
	assert.Equal(t, 1, job.RetryCount)
}

func TestJobLifecycleMarkers(t *testing.T) {
	job := &Job{Status: JobStatusPending, MaxRetries: 2}

	job.MarkAsProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	assert.NotNil(t, job.ProcessedAt)

	job.MarkAsFailed("boom")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	assert.True(t, job.IsRetryable())

	job.MarkAsFailed("boom again")
	assert.False(t, job.IsRetryable())

	job.MarkAsCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.Empty(t, job.ErrorMsg)
	assert.NotNil(t, job.CompletedAt)
}
