package docsystem

import (
	"log/slog"

	"sation/internal/domain/repositories"
	docsysRepo "sation/internal/domain/repositories/docsystem"
	docsysSvc "sation/internal/domain/services/docsystem"
)

// Services groups the document services sharing one repository and clock
type Services struct {
	Documents docsysSvc.DocumentService
	Tree      docsysSvc.TreeService
	Archive   docsysSvc.ArchiveService
	Trash     docsysSvc.TrashService
	Search    docsysSvc.SearchService
}

// SetupServices wires every document service. The archive service is built
// first because document updates delegate is_archived changes to it.
func SetupServices(
	docRepo docsysRepo.DocumentRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
	opts ...Option,
) *Services {
	archiver := NewArchiveService(docRepo, txManager, logger, opts...)
	validator := NewHierarchyValidator(docRepo)

	return &Services{
		Documents: NewDocumentService(docRepo, txManager, validator, archiver, logger, opts...),
		Tree:      NewTreeService(docRepo, logger),
		Archive:   archiver,
		Trash:     NewTrashService(docRepo, logger),
		Search:    NewSearchService(docRepo, logger),
	}
}
