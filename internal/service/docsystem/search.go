package docsystem

import (
	"context"
	"log/slog"

	models "sation/internal/domain/models/docsystem"
	docsysRepo "sation/internal/domain/repositories/docsystem"
	docsysSvc "sation/internal/domain/services/docsystem"
)

type searchService struct {
	docRepo docsysRepo.DocumentRepository
	logger  *slog.Logger
}

// NewSearchService creates the quick-open service
func NewSearchService(docRepo docsysRepo.DocumentRepository, logger *slog.Logger) docsysSvc.SearchService {
	return &searchService{
		docRepo: docRepo,
		logger:  logger,
	}
}

// ListSearchable returns non-archived documents in store order (newest update first)
func (s *searchService) ListSearchable(ctx context.Context, ownerID, query string) ([]models.SearchEntry, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	docs, err := s.docRepo.ListByOwner(ctx, ownerID, false)
	if err != nil {
		logFailure(s.logger, "list searchable", "", ownerID, err)
		return nil, err
	}

	docs = FilterByTitle(docs, query)
	entries := make([]models.SearchEntry, 0, len(docs))
	for i := range docs {
		entries = append(entries, models.NewSearchEntry(&docs[i]))
	}
	return entries, nil
}
