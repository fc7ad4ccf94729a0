package docsystem

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sation/internal/domain"
	models "sation/internal/domain/models/docsystem"
	"sation/internal/domain/repositories"
	docsysRepo "sation/internal/domain/repositories/docsystem"
	docsysSvc "sation/internal/domain/services/docsystem"

	mapset "github.com/deckarep/golang-set/v2"
)

// ArchiveEngine is the soft-delete engine: cascading archive, target-only
// restore and single-row permanent delete.
type ArchiveEngine struct {
	docRepo   docsysRepo.DocumentRepository
	txManager repositories.TransactionManager
	clock     Clock
	notifier  notifier
	logger    *slog.Logger
}

var _ docsysSvc.ArchiveService = (*ArchiveEngine)(nil)

// NewArchiveService creates the soft-delete engine
func NewArchiveService(
	docRepo docsysRepo.DocumentRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
	opts ...Option,
) *ArchiveEngine {
	o := newOptions(opts)
	return &ArchiveEngine{
		docRepo:   docRepo,
		txManager: txManager,
		clock:     o.clock,
		notifier:  notifier{publisher: o.publisher, logger: logger},
		logger:    logger,
	}
}

// flagChange is the committed-state result of an archive or restore step.
type flagChange struct {
	kind    models.ChangeKind
	doc     *models.Document
	ids     []string
	changed int64
}

// Archive archives the document and all of its descendants in one transaction.
// Rows that are already archived are left untouched, so repeating the call is a no-op.
func (s *ArchiveEngine) Archive(ctx context.Context, ownerID, documentID string) (*models.Document, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	now := s.clock()
	var change *flagChange
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		change, err = s.archiveTx(txCtx, ownerID, documentID, now)
		return err
	})
	if err != nil {
		logFailure(s.logger, "archive document", documentID, ownerID, err)
		return nil, err
	}

	s.announce(ctx, ownerID, now, change)
	return change.doc, nil
}

// archiveTx flags the subtree rooted at documentID. Must run inside a transaction.
func (s *ArchiveEngine) archiveTx(ctx context.Context, ownerID, documentID string, at time.Time) (*flagChange, error) {
	if _, err := s.docRepo.GetByID(ctx, documentID, ownerID); err != nil {
		return nil, err
	}

	subtree, err := s.collectSubtree(ctx, documentID, ownerID)
	if err != nil {
		return nil, err
	}

	changed, err := s.docRepo.SetArchived(ctx, subtree, ownerID, true, at)
	if err != nil {
		return nil, err
	}

	doc, err := s.docRepo.GetByID(ctx, documentID, ownerID)
	if err != nil {
		return nil, err
	}
	return &flagChange{kind: models.ChangeArchived, doc: doc, ids: subtree, changed: changed}, nil
}

// collectSubtree returns documentID followed by every descendant in breadth-first order.
// The explicit queue bounds stack use on deep chains; the visited set stops on cycles.
func (s *ArchiveEngine) collectSubtree(ctx context.Context, documentID, ownerID string) ([]string, error) {
	visited := mapset.NewThreadUnsafeSet(documentID)
	order := []string{documentID}
	queue := []string{documentID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		children, err := s.docRepo.ListChildIDs(ctx, current, ownerID)
		if err != nil {
			return nil, fmt.Errorf("list children of %s: %w", current, err)
		}

		for _, child := range children {
			if !visited.Add(child) {
				s.logger.Warn("parent cycle detected during archive",
					"document_id", child,
					"parent_id", current,
				)
				continue
			}
			order = append(order, child)
			queue = append(queue, child)
		}
	}

	return order, nil
}

// Restore un-archives the target only. Archived descendants stay in the trash
// and the document keeps its parent.
func (s *ArchiveEngine) Restore(ctx context.Context, ownerID, documentID string) (*models.Document, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	now := s.clock()
	var change *flagChange
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		change, err = s.restoreTx(txCtx, ownerID, documentID, now)
		return err
	})
	if err != nil {
		logFailure(s.logger, "restore document", documentID, ownerID, err)
		return nil, err
	}

	s.announce(ctx, ownerID, now, change)
	return change.doc, nil
}

// restoreTx clears the archived flag on documentID. Must run inside a transaction.
func (s *ArchiveEngine) restoreTx(ctx context.Context, ownerID, documentID string, at time.Time) (*flagChange, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID, ownerID)
	if err != nil {
		return nil, err
	}
	change := &flagChange{kind: models.ChangeRestored, doc: doc, ids: []string{documentID}}
	if !doc.IsArchived {
		return change, nil
	}

	if change.changed, err = s.docRepo.SetArchived(ctx, change.ids, ownerID, false, at); err != nil {
		return nil, err
	}
	if change.doc, err = s.docRepo.GetByID(ctx, documentID, ownerID); err != nil {
		return nil, err
	}
	return change, nil
}

// announce logs and publishes a committed flag change. Unchanged rows publish nothing.
func (s *ArchiveEngine) announce(ctx context.Context, ownerID string, at time.Time, change *flagChange) {
	if change.changed == 0 {
		return
	}

	switch change.kind {
	case models.ChangeArchived:
		s.logger.Info("document archived",
			"id", change.doc.ID,
			"owner_id", ownerID,
			"subtree_size", len(change.ids),
			"rows_changed", change.changed,
		)
	default:
		s.logger.Info("document restored",
			"id", change.doc.ID,
			"owner_id", ownerID,
			"parent_id", change.doc.ParentID,
		)
	}
	s.notifier.publish(ctx, change.kind, ownerID, at, change.ids,
		models.ViewDocument, models.ViewSidebar, models.ViewTrash, models.ViewSearch)
}

// PermanentlyDelete hard-deletes one document. Its direct children move to root;
// nothing else is deleted.
func (s *ArchiveEngine) PermanentlyDelete(ctx context.Context, ownerID, documentID string) (bool, error) {
	if err := requireOwner(ownerID); err != nil {
		return false, err
	}

	now := s.clock()
	var deleted bool
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		deleted, err = deleteDocument(txCtx, s.docRepo, documentID, ownerID, now)
		return err
	})
	if err != nil {
		logFailure(s.logger, "permanently delete document", documentID, ownerID, err)
		return false, err
	}
	if !deleted {
		return false, &domain.NotFoundError{Message: fmt.Sprintf("document %s not found", documentID)}
	}

	s.logger.Info("document permanently deleted", "id", documentID, "owner_id", ownerID)
	s.notifier.publish(ctx, models.ChangeDeleted, ownerID, now, []string{documentID},
		models.ViewDocument, models.ViewTrash, models.ViewSidebar)

	return true, nil
}
