package docsystem

import (
	"context"
	"errors"
	"fmt"

	"sation/internal/config"
	"sation/internal/domain"
	models "sation/internal/domain/models/docsystem"
	docsysRepo "sation/internal/domain/repositories/docsystem"
	docsysSvc "sation/internal/domain/services/docsystem"

	mapset "github.com/deckarep/golang-set/v2"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// HierarchyValidator checks parent references before a document is created or moved
type HierarchyValidator struct {
	docRepo docsysRepo.DocumentRepository
}

// NewHierarchyValidator creates a new hierarchy validator
func NewHierarchyValidator(docRepo docsysRepo.DocumentRepository) *HierarchyValidator {
	return &HierarchyValidator{docRepo: docRepo}
}

// ValidateParent ensures parentID names an existing, non-archived document of the same owner.
// A nil parentID (root level) is always valid.
func (v *HierarchyValidator) ValidateParent(ctx context.Context, parentID *string, ownerID string) (*models.Document, error) {
	if parentID == nil {
		return nil, nil
	}

	parent, err := v.docRepo.GetByID(ctx, *parentID, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("parent document %s not found", *parentID)}
		}
		return nil, err
	}
	if parent.IsArchived {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("parent document %s is archived", *parentID)}
	}
	return parent, nil
}

// ValidateMove ensures doc can be placed under newParentID without creating a cycle:
// the new parent may not be doc itself or any of its descendants.
func (v *HierarchyValidator) ValidateMove(ctx context.Context, doc *models.Document, newParentID *string) error {
	if newParentID == nil {
		return nil
	}
	if *newParentID == doc.ID {
		return &domain.ValidationError{Message: "a document cannot be its own parent"}
	}

	parent, err := v.ValidateParent(ctx, newParentID, doc.OwnerID)
	if err != nil {
		return err
	}

	// Walk up from the new parent; reaching doc means doc would become its own ancestor
	visited := mapset.NewThreadUnsafeSet[string]()
	current := parent
	for {
		if current.ID == doc.ID {
			return &domain.ValidationError{Message: "cannot move a document under one of its descendants"}
		}
		if !visited.Add(current.ID) {
			return &domain.ValidationError{Message: fmt.Sprintf("document %s is part of a parent cycle", current.ID)}
		}
		if current.IsRoot() {
			return nil
		}

		next, err := v.docRepo.GetByID(ctx, *current.ParentID, doc.OwnerID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return err
		}
		current = next
	}
}

// requireOwner rejects calls without an owner id
func requireOwner(ownerID string) error {
	if err := validation.Validate(ownerID, validation.Required); err != nil {
		return &domain.ValidationError{Message: "owner id: " + err.Error()}
	}
	return nil
}

// validateCreateRequest validates a document creation request
func validateCreateRequest(req *docsysSvc.CreateDocumentRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.OwnerID, validation.Required),
		validation.Field(&req.Title, validation.RuneLength(0, config.MaxTitleLength)),
		validation.Field(&req.ParentID, is.UUID),
		validation.Field(&req.Content, validation.Length(0, config.MaxContentBytes)),
		validation.Field(&req.Icon, validation.RuneLength(0, config.MaxIconLength)),
		validation.Field(&req.CoverImage, validation.Length(0, config.MaxCoverURLLength), is.URL),
	)
	if err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	return nil
}

// validatePatch validates the fields supplied in a partial update
func validatePatch(patch *models.DocumentPatch) error {
	if patch == nil || patch.IsEmpty() {
		return &domain.ValidationError{Message: "at least one field must be provided"}
	}

	err := validation.Errors{
		"title":       validation.Validate(patch.Title.Value, validation.RuneLength(0, config.MaxTitleLength)),
		"parent_id":   validation.Validate(patch.ParentID.Value, is.UUID),
		"content":     validation.Validate(patch.Content.Value, validation.Length(0, config.MaxContentBytes)),
		"icon":        validation.Validate(patch.Icon.Value, validation.RuneLength(0, config.MaxIconLength)),
		"cover_image": validation.Validate(patch.CoverImage.Value, validation.Length(0, config.MaxCoverURLLength), is.URL),
	}.Filter()
	if err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	return nil
}

// normalizeID maps an empty id to nil (root level)
func normalizeID(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}
