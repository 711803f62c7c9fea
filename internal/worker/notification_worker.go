package worker

import (
	"go.uber.org/zap"

	"github.com/resolvepro/complaint-service/internal/service"
)

// StartNotificationWorker registers notification handlers on the event dispatcher.
// Handlers run synchronously inside the publishing request.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	if logger != nil {
		logger.Info("notification handlers registered")
	}
}
