package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"poll-service/internal/tasks"

	"go.uber.org/zap"
)

type NotificationType string

const (
	NotificationClosed   NotificationType = "closed"
	NotificationReminder NotificationType = "reminder"
)

type NotificationPayload struct {
	PollID uint             `json:"poll_id"`
	Type   NotificationType `json:"type"`
}

// Notifier delivers a message to a recipient.
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string) error
}

// LogNotifier writes notifications to the log instead of sending email.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, recipient, subject, body string) error {
	n.logger.Info("sending notification",
		zap.String("to", recipient),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}

type NotificationService struct {
	polls    *PollService
	notifier Notifier
	queue    tasks.Queue
	logger   *zap.Logger
}

func NewNotificationService(polls *PollService, notifier Notifier, queue tasks.Queue, logger *zap.Logger) *NotificationService {
	return &NotificationService{polls: polls, notifier: notifier, queue: queue, logger: logger}
}

func notificationMessage(t NotificationType, title string) (string, error) {
	switch t {
	case NotificationClosed:
		return fmt.Sprintf("Your poll '%s' has ended. View the results now.", title), nil
	case NotificationReminder:
		return fmt.Sprintf("Reminder: The poll '%s' is closing soon!", title), nil
	}
	return "", fmt.Errorf("%w: unknown notification type %q", ErrInvalidRequest, t)
}

// Send notifies the poll's creator and returns a delivery report.
func (s *NotificationService) Send(ctx context.Context, pollID uint, t NotificationType) (string, error) {
	poll, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return "", err
	}
	msg, err := notificationMessage(t, poll.Title)
	if err != nil {
		return "", err
	}

	recipient := ""
	if poll.CreatedBy != nil {
		recipient = poll.CreatedBy.Email
	}
	if err := s.notifier.Notify(ctx, recipient, "Poll notification", msg); err != nil {
		return "", fmt.Errorf("deliver notification: %w", err)
	}
	return fmt.Sprintf("Notification '%s' sent to %s", t, recipient), nil
}

// Request enqueues a notification for a poll owned by userID.
func (s *NotificationService) Request(ctx context.Context, userID uint, slug string, t NotificationType) error {
	if _, err := notificationMessage(t, ""); err != nil {
		return err
	}
	poll, err := s.polls.GetOwned(ctx, userID, slug)
	if err != nil {
		return err
	}
	return s.queue.Enqueue(ctx, tasks.SendPollNotification, NotificationPayload{PollID: poll.ID, Type: t})
}

// HandleSendNotification is the send_poll_notification task handler.
func (s *NotificationService) HandleSendNotification(ctx context.Context, raw json.RawMessage) (string, error) {
	var p NotificationPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", tasks.Permanent(fmt.Errorf("invalid payload: %w", err))
	}
	report, err := s.Send(ctx, p.PollID, p.Type)
	if err != nil {
		if errors.Is(err, ErrPollNotFound) {
			s.logger.Warn("notification skipped, poll not found", zap.Uint("poll_id", p.PollID))
			return "", tasks.Permanent(fmt.Errorf("Poll %d not found.", p.PollID))
		}
		if errors.Is(err, ErrInvalidRequest) {
			return "", tasks.Permanent(err)
		}
		return "", err
	}
	return report, nil
}
