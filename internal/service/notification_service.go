package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/resolvepro/complaint-service/internal/config"
	"github.com/resolvepro/complaint-service/internal/events"
)

// Channel is a notification transport.
type Channel string

const (
	ChannelEmail   Channel = "email"
	ChannelWebhook Channel = "webhook"
)

// Notification is one outbound message derived from a domain event.
type Notification struct {
	Channel     Channel
	EventType   events.EventType
	ComplaintID int64
	RecipientID int64
	Summary     string
}

// Notifier delivers notifications. The default notifier only logs.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// notificationRoutes lists the channels each event fans out to.
var notificationRoutes = map[events.EventType][]Channel{
	events.EventComplaintCreated:       {ChannelWebhook},
	events.EventComplaintAssigned:      {ChannelEmail, ChannelWebhook},
	events.EventComplaintStatusChanged: {ChannelEmail},
	events.EventComplaintResponseSaved: {ChannelEmail},
	events.EventUserRegistered:         {ChannelEmail},
	events.EventUserReviewed:           {ChannelEmail},
}

// NotificationService turns lifecycle events into notifications and logs every event.
type NotificationService struct {
	dispatcher events.Dispatcher
	notifier   Notifier
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service with the logging notifier.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		notifier:   logNotifier{logger: logger, cfg: cfg},
		logger:     logger,
		cfg:        cfg,
	}
}

// withNotifier replaces the delivery backend.
func (n *NotificationService) withNotifier(notifier Notifier) *NotificationService {
	n.notifier = notifier
	return n
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for eventType := range notificationRoutes {
		n.dispatcher.Subscribe(eventType, n.handle)
	}
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	n.logger.Info("lifecycle event",
		zap.String("event_type", string(event.Type)),
		zap.Int64("complaint_id", event.ComplaintID),
		zap.Int64("actor_id", event.Actor.UserID),
		zap.Any("payload", event.Payload))

	recipient, summary := describeEvent(event)
	for _, channel := range notificationRoutes[event.Type] {
		if !n.channelEnabled(channel) {
			continue
		}
		err := n.notifier.Notify(ctx, Notification{
			Channel:     channel,
			EventType:   event.Type,
			ComplaintID: event.ComplaintID,
			RecipientID: recipient,
			Summary:     summary,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (n *NotificationService) channelEnabled(channel Channel) bool {
	switch channel {
	case ChannelEmail:
		return strings.TrimSpace(n.cfg.EmailFrom) != ""
	case ChannelWebhook:
		return strings.TrimSpace(n.cfg.WebhookURL) != ""
	}
	return false
}

// describeEvent picks who should hear about the event. Zero means the actor or an admin.
func describeEvent(event events.Event) (int64, string) {
	switch p := event.Payload.(type) {
	case events.ComplaintCreatedPayload:
		return event.Actor.UserID, "complaint filed under " + p.Category
	case events.ComplaintAssignedPayload:
		if p.Automatic {
			return p.AssigneeID, "complaint auto-assigned (" + p.MatchKind + " match)"
		}
		return p.AssigneeID, "complaint assigned by an administrator"
	case events.ComplaintStatusChangedPayload:
		return 0, "status changed from " + string(p.OldStatus) + " to " + string(p.NewStatus)
	case events.ComplaintResponseSavedPayload:
		return 0, "administrator responded: " + p.ResponsePreview
	case events.UserRegisteredPayload:
		return p.UserID, "account registered with status " + string(p.Status)
	case events.UserReviewedPayload:
		return p.UserID, "account " + string(p.Status)
	}
	return 0, string(event.Type)
}

type logNotifier struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

func (l logNotifier) Notify(_ context.Context, n Notification) error {
	target := l.cfg.EmailFrom
	if n.Channel == ChannelWebhook {
		target = l.cfg.WebhookURL
	}
	l.logger.Debug("notification queued",
		zap.String("channel", string(n.Channel)),
		zap.String("target", target),
		zap.String("event_type", string(n.EventType)),
		zap.Int64("complaint_id", n.ComplaintID),
		zap.Int64("recipient_id", n.RecipientID),
		zap.String("summary", n.Summary))
	return nil
}
