package docsystem

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"sation/internal/domain"
	models "sation/internal/domain/models/docsystem"
	"sation/internal/domain/repositories"
	docsysRepo "sation/internal/domain/repositories/docsystem"
	docsysSvc "sation/internal/domain/services/docsystem"

	"github.com/google/uuid"
)

type documentService struct {
	docRepo   docsysRepo.DocumentRepository
	txManager repositories.TransactionManager
	validator *HierarchyValidator
	archiver  *ArchiveEngine // archive flag changes go through the cascade
	clock     Clock
	notifier  notifier
	logger    *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo docsysRepo.DocumentRepository,
	txManager repositories.TransactionManager,
	validator *HierarchyValidator,
	archiver *ArchiveEngine,
	logger *slog.Logger,
	opts ...Option,
) docsysSvc.DocumentService {
	o := newOptions(opts)
	return &documentService{
		docRepo:   docRepo,
		txManager: txManager,
		validator: validator,
		archiver:  archiver,
		clock:     o.clock,
		notifier:  notifier{publisher: o.publisher, logger: logger},
		logger:    logger,
	}
}

// CreateDocument creates a root or child document
func (s *documentService) CreateDocument(ctx context.Context, req *docsysSvc.CreateDocumentRequest) (*models.Document, error) {
	req.ParentID = normalizeID(req.ParentID)
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	now := s.clock()
	doc := &models.Document{
		ID:         uuid.NewString(),
		Title:      models.NormalizeTitle(req.Title),
		OwnerID:    req.OwnerID,
		ParentID:   req.ParentID,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Icon:       req.Icon,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.validator.ValidateParent(txCtx, doc.ParentID, doc.OwnerID); err != nil {
			return err
		}
		return s.docRepo.Create(txCtx, doc)
	})
	if err != nil {
		s.logFailure("create document", doc.ID, doc.OwnerID, err)
		return nil, err
	}

	s.logger.Info("document created",
		"id", doc.ID,
		"title", doc.Title,
		"owner_id", doc.OwnerID,
		"parent_id", doc.ParentID,
	)
	s.notifier.publish(ctx, models.ChangeCreated, doc.OwnerID, now, []string{doc.ID},
		models.ViewSidebar, models.ViewSearch)

	return doc, nil
}

// GetDocument retrieves one of the owner's documents
func (s *documentService) GetDocument(ctx context.Context, ownerID, documentID string) (*models.Document, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	doc, err := s.docRepo.GetByID(ctx, documentID, ownerID)
	if err != nil {
		s.logFailure("get document", documentID, ownerID, err)
		return nil, err
	}
	return doc, nil
}

// GetPublishedDocument retrieves a document for public preview
func (s *documentService) GetPublishedDocument(ctx context.Context, documentID string) (*models.Document, error) {
	doc, err := s.docRepo.GetPublished(ctx, documentID)
	if err != nil {
		s.logFailure("get published document", documentID, "", err)
		return nil, err
	}
	return doc, nil
}

// UpdateDocument merge-patches the supplied fields.
// A change to is_archived runs through the archive cascade in the same transaction.
func (s *documentService) UpdateDocument(ctx context.Context, ownerID, documentID string, patch *models.DocumentPatch) (*models.Document, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	if patch.ParentID.Present {
		patch.ParentID.Value = normalizeID(patch.ParentID.Value)
	}

	now := s.clock()
	var (
		doc     *models.Document
		flagged *flagChange
		moved   bool
	)
	fieldsChanged := !patch.IsArchivedOnly()

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if fieldsChanged {
			var err error
			doc, err = s.docRepo.GetByID(txCtx, documentID, ownerID)
			if err != nil {
				return err
			}

			patch.ApplyTo(doc)

			if patch.ParentID.Present && !sameParent(doc.ParentID, patch.ParentID.Value) {
				if err := s.validator.ValidateMove(txCtx, doc, patch.ParentID.Value); err != nil {
					return err
				}
				doc.ParentID = patch.ParentID.Value
				moved = true
			}

			doc.UpdatedAt = now
			if err := s.docRepo.Update(txCtx, doc); err != nil {
				return err
			}
		}

		if !patch.IsArchived.Present {
			return nil
		}
		var err error
		if patch.IsArchived.Value {
			flagged, err = s.archiver.archiveTx(txCtx, ownerID, documentID, now)
		} else {
			flagged, err = s.archiver.restoreTx(txCtx, ownerID, documentID, now)
		}
		if err != nil {
			return err
		}
		doc = flagged.doc
		return nil
	})
	if err != nil {
		s.logFailure("update document", documentID, ownerID, err)
		return nil, err
	}

	if fieldsChanged {
		s.logger.Info("document updated",
			"id", documentID,
			"owner_id", ownerID,
			"title", doc.Title,
			"parent_id", doc.ParentID,
			"moved", moved,
		)

		kind := models.ChangeUpdated
		if moved {
			kind = models.ChangeMoved
		}
		s.notifier.publish(ctx, kind, ownerID, now, []string{documentID},
			models.ViewDocument, models.ViewSidebar, models.ViewSearch)
	}
	if flagged != nil {
		s.archiver.announce(ctx, ownerID, now, flagged)
	}

	return doc, nil
}

// DeleteDocument hard-deletes one document, moving its direct children to root
func (s *documentService) DeleteDocument(ctx context.Context, ownerID, documentID string) (bool, error) {
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
		s.logFailure("delete document", documentID, ownerID, err)
		return false, err
	}

	if deleted {
		s.logger.Info("document deleted", "id", documentID, "owner_id", ownerID)
		s.notifier.publish(ctx, models.ChangeDeleted, ownerID, now, []string{documentID},
			models.ViewDocument, models.ViewSidebar, models.ViewTrash, models.ViewSearch)
	}
	return deleted, nil
}

// ListDocuments lists the owner's documents with the given archived state
func (s *documentService) ListDocuments(ctx context.Context, ownerID string, archived bool) ([]models.Document, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	docs, err := s.docRepo.ListByOwner(ctx, ownerID, archived)
	if err != nil {
		s.logFailure("list documents", "", ownerID, err)
		return nil, err
	}
	return docs, nil
}

// logFailure logs storage failures at Error; caller mistakes are left to the handler.
func (s *documentService) logFailure(op, id, ownerID string, err error) {
	logFailure(s.logger, op, id, ownerID, err)
}

// deleteDocument detaches the direct children of id, then deletes the row.
// Must run inside a transaction.
func deleteDocument(ctx context.Context, repo docsysRepo.DocumentRepository, id, ownerID string, at time.Time) (bool, error) {
	if _, err := repo.DetachChildren(ctx, id, ownerID, at); err != nil {
		return false, err
	}
	return repo.Delete(ctx, id, ownerID)
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func logFailure(logger *slog.Logger, op, id, ownerID string, err error) {
	var storageErr *domain.StorageError
	if !errors.As(err, &storageErr) {
		return
	}
	logger.Error(op+" failed",
		"id", id,
		"owner_id", ownerID,
		"op", storageErr.Op,
		"error", storageErr.Err,
	)
}
