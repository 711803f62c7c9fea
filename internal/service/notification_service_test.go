package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/resolvepro/complaint-service/internal/config"
	"github.com/resolvepro/complaint-service/internal/domain"
	"github.com/resolvepro/complaint-service/internal/events"
)

type capturingNotifier struct {
	sent []Notification
	err  error
}

func (c *capturingNotifier) Notify(_ context.Context, n Notification) error {
	c.sent = append(c.sent, n)
	return c.err
}

func TestNotificationService_RoutesAssignmentToBothChannels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher(zap.New(core))
	notifier := &capturingNotifier{}
	NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{
		EmailFrom:  "noreply@example.com",
		WebhookURL: "https://hooks.example.com/complaints",
	}).withNotifier(notifier).RegisterHandlers()

	event := events.NewEvent(events.EventComplaintAssigned, 42, events.Actor{UserID: 1, Role: domain.RoleUser},
		events.ComplaintAssignedPayload{AssigneeID: 7, Automatic: true, MatchKind: "strict"})
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	require.Len(t, notifier.sent, 2)
	require.Equal(t, ChannelEmail, notifier.sent[0].Channel)
	require.Equal(t, ChannelWebhook, notifier.sent[1].Channel)
	require.Equal(t, int64(7), notifier.sent[0].RecipientID)
	require.Equal(t, int64(42), notifier.sent[0].ComplaintID)
	require.Contains(t, notifier.sent[0].Summary, "strict")
	require.Equal(t, 1, logs.FilterMessage("lifecycle event").Len())
}

func TestNotificationService_DisabledChannelsAreSkipped(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	notifier := &capturingNotifier{}
	NewNotificationService(dispatcher, nil, config.NotificationConfig{EmailFrom: "noreply@example.com"}).
		withNotifier(notifier).RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(),
		events.NewEvent(events.EventComplaintCreated, 1, events.Actor{UserID: 3}, events.ComplaintCreatedPayload{Category: "Plumbing"})))
	require.Empty(t, notifier.sent)

	require.NoError(t, dispatcher.Publish(context.Background(),
		events.NewEvent(events.EventUserReviewed, 0, events.Actor{UserID: 1}, events.UserReviewedPayload{UserID: 9, Status: domain.UserStatusApproved})))
	require.Len(t, notifier.sent, 1)
	require.Equal(t, int64(9), notifier.sent[0].RecipientID)
	require.Equal(t, "account approved", notifier.sent[0].Summary)
}

func TestNotificationService_DeliveryFailureDoesNotFailPublish(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	dispatcher := events.NewInMemoryDispatcher(zap.New(core))
	notifier := &capturingNotifier{err: errors.New("smtp down")}
	NewNotificationService(dispatcher, nil, config.NotificationConfig{EmailFrom: "noreply@example.com"}).
		withNotifier(notifier).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.NewEvent(events.EventComplaintStatusChanged, 5, events.Actor{},
		events.ComplaintStatusChangedPayload{OldStatus: domain.ComplaintStatusInProgress, NewStatus: domain.ComplaintStatusResolved}))
	require.NoError(t, err)
	require.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
	require.Equal(t, "status changed from In Progress to Resolved", notifier.sent[0].Summary)
}

func TestNotificationService_DefaultNotifierLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher(nil)
	NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{WebhookURL: "https://hooks.example.com"}).RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(),
		events.NewEvent(events.EventComplaintCreated, 2, events.Actor{UserID: 3}, events.ComplaintCreatedPayload{Category: "Civil"})))

	queued := logs.FilterMessage("notification queued").All()
	require.Len(t, queued, 1)
	require.Equal(t, "webhook", queued[0].ContextMap()["channel"])
	require.Equal(t, "complaint filed under Civil", queued[0].ContextMap()["summary"])
}
