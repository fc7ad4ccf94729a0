package docsystem

import (
	"context"
	"log/slog"
	"time"

	models "sation/internal/domain/models/docsystem"
	"sation/internal/domain/services"
)

// notifier sends change notices once a mutation has committed.
type notifier struct {
	publisher services.ChangePublisher
	logger    *slog.Logger
}

func (n notifier) publish(ctx context.Context, kind models.ChangeKind, ownerID string, at time.Time, ids []string, views ...models.View) {
	if n.publisher == nil {
		return
	}

	change := models.Change{
		Kind:        kind,
		OwnerID:     ownerID,
		DocumentIDs: ids,
		Views:       views,
		At:          at,
	}
	if err := n.publisher.Publish(ctx, change); err != nil {
		n.logger.Warn("failed to publish change",
			"kind", kind,
			"owner_id", ownerID,
			"error", err,
		)
	}
}
