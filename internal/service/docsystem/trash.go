package docsystem

import (
	"context"
	"log/slog"
	"strings"

	models "sation/internal/domain/models/docsystem"
	docsysRepo "sation/internal/domain/repositories/docsystem"
	docsysSvc "sation/internal/domain/services/docsystem"
)

type trashService struct {
	docRepo docsysRepo.DocumentRepository
	logger  *slog.Logger
}

// NewTrashService creates the trash listing service
func NewTrashService(docRepo docsysRepo.DocumentRepository, logger *slog.Logger) docsysSvc.TrashService {
	return &trashService{
		docRepo: docRepo,
		logger:  logger,
	}
}

// ListArchived returns archived documents flat, newest update first
func (s *trashService) ListArchived(ctx context.Context, ownerID, query string) ([]models.Document, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	docs, err := s.docRepo.ListByOwner(ctx, ownerID, true)
	if err != nil {
		logFailure(s.logger, "list archived", "", ownerID, err)
		return nil, err
	}
	return FilterByTitle(docs, query), nil
}

// FilterByTitle keeps documents whose title contains query, ignoring case.
// A blank query returns docs unchanged. Input order is preserved.
func FilterByTitle(docs []models.Document, query string) []models.Document {
	query = strings.TrimSpace(query)
	if query == "" {
		return docs
	}

	needle := strings.ToLower(query)
	filtered := make([]models.Document, 0, len(docs))
	for _, doc := range docs {
		if strings.Contains(strings.ToLower(doc.Title), needle) {
			filtered = append(filtered, doc)
		}
	}
	return filtered
}
