package jobqueue

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/maksab-hq/maksab-admin/internal/pkg/env"
)

// Manager manages the global job queue and background tasks
type Manager struct {
	queue       *Queue
	sweepTicker *time.Ticker
	stopCh      chan struct{}
	wg          sync.WaitGroup
	mu          sync.Mutex
	running     bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global job queue manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		workerCount := 5
		if v, err := strconv.Atoi(env.GetEnv("JOBQUEUE_WORKER_COUNT", "5")); err == nil && v > 0 {
			workerCount = v
		}

		globalManager = &Manager{
			queue:  NewQueue(workerCount),
			stopCh: make(chan struct{}),
		}
	})
	return globalManager
}

// GetQueue returns the managed job queue
func (m *Manager) GetQueue() *Queue {
	return m.queue
}

// SetSweepRunner wires the subscription sweep into the queue.
func (m *Manager) SetSweepRunner(r SweepRunner) {
	m.queue.SetSweepRunner(r)
}

// SetMailSender wires email delivery into the queue.
func (m *Manager) SetMailSender(s MailSender) {
	m.queue.SetMailSender(s)
}

// EnqueueNotificationEmail queues a notification email for delivery.
func (m *Manager) EnqueueNotificationEmail(to, subject, body string) error {
	payload := NotificationEmailJobPayload{To: to, Subject: subject, Body: body}
	_, err := m.queue.EnqueueJob(JobTypeNotificationEmail, payload.ToMap())
	return err
}

// EnqueueSubscriptionSweep queues one sweep run.
func (m *Manager) EnqueueSubscriptionSweep(trigger string) error {
	payload := SubscriptionSweepJobPayload{Trigger: trigger}
	_, err := m.queue.EnqueueJob(JobTypeSubscriptionSweep, payload.ToMap())
	return err
}

// Start starts the job queue and background tasks
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[JobQueue Manager] Starting job queue and background tasks")

	// Start the job queue
	m.queue.Start()

	// Schedule the periodic subscription sweep
	sweepInterval := 6 * time.Hour // Default fallback
	if v, err := strconv.Atoi(env.GetEnv("SUBSCRIPTION_SWEEP_INTERVAL_HOURS", "6")); err == nil && v > 0 {
		sweepInterval = time.Duration(v) * time.Hour
	}
	m.sweepTicker = time.NewTicker(sweepInterval)
	m.wg.Add(1)
	go m.sweepScheduler(sweepInterval)

	log.Info("[JobQueue Manager] Started successfully")
}

// Stop stops the job queue and background tasks
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[JobQueue Manager] Stopping job queue and background tasks...")

	if m.sweepTicker != nil {
		m.sweepTicker.Stop()
	}

	// Signal workers to stop
	close(m.stopCh)
	m.stopCh = nil
	m.running = false

	// Wait for background workers to finish
	m.wg.Wait()

	// Stop the job queue
	m.queue.Stop()

	log.Info("[JobQueue Manager] Stopped successfully")
}

// sweepScheduler enqueues a sweep job on every tick
func (m *Manager) sweepScheduler(interval time.Duration) {
	defer m.wg.Done()
	log.Infof("[JobQueue Manager] Started sweep scheduler (interval: %s)", interval)

	for {
		select {
		case <-m.stopCh:
			log.Info("[JobQueue Manager] Sweep scheduler stopping")
			return
		case <-m.sweepTicker.C:
			if err := m.EnqueueSubscriptionSweep("schedule"); err != nil {
				log.Errorf("[JobQueue Manager] Failed to enqueue scheduled sweep: %v", err)
			}
		}
	}
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
