package docsystem

import (
	"context"
	"log/slog"

	models "sation/internal/domain/models/docsystem"
	docsysRepo "sation/internal/domain/repositories/docsystem"
	docsysSvc "sation/internal/domain/services/docsystem"
)

type treeService struct {
	docRepo docsysRepo.DocumentRepository
	logger  *slog.Logger
}

// NewTreeService creates the sidebar hierarchy resolver
func NewTreeService(docRepo docsysRepo.DocumentRepository, logger *slog.Logger) docsysSvc.TreeService {
	return &treeService{
		docRepo: docRepo,
		logger:  logger,
	}
}

// ListChildren returns one tree level. An unknown parent yields an empty list.
func (s *treeService) ListChildren(ctx context.Context, ownerID string, parentID *string) ([]models.Document, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	parentID = normalizeID(parentID)
	docs, err := s.docRepo.ListChildren(ctx, parentID, ownerID)
	if err != nil {
		logFailure(s.logger, "list children", derefOrEmpty(parentID), ownerID, err)
		return nil, err
	}

	s.logger.Debug("listed children",
		"owner_id", ownerID,
		"parent_id", parentID,
		"count", len(docs),
	)
	return docs, nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
