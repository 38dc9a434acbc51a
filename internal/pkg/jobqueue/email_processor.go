package jobqueue

import (
	"fmt"
)

// MailSender delivers a single email.
type MailSender func(to, subject, body string) error

// processNotificationEmailJob delivers a queued notification email.
func (q *Queue) processNotificationEmailJob(job *Job) error {
	if q.sendMail == nil {
		return fmt.Errorf("no mail sender configured")
	}

	payload, err := NotificationEmailJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid email payload: %w", err)
	}
	if payload.To == "" {
		return fmt.Errorf("email payload has no recipient")
	}

	if err := q.sendMail(payload.To, payload.Subject, payload.Body); err != nil {
		return fmt.Errorf("failed to send notification email to %s: %w", payload.To, err)
	}
	return nil
}
