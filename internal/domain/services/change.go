package services

import (
	"context"

	"sation/internal/domain/models/docsystem"
)

// ChangePublisher delivers invalidation notices after a mutation commits.
// Publishing is best effort: a failed publish never fails the mutation.
type ChangePublisher interface {
	Publish(ctx context.Context, change docsystem.Change) error
}

// ChangeSubscriber streams an owner's invalidation notices.
type ChangeSubscriber interface {
	// Subscribe returns a channel of changes for ownerID and a cancel func
	// that must be called to release the subscription.
	Subscribe(ownerID string) (<-chan docsystem.Change, func())
}
