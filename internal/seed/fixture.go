// Package seed loads document fixtures and writes them through the document services.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	models "sation/internal/domain/models/docsystem"
	docsysSvc "sation/internal/domain/services/docsystem"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/workspace.yaml
var defaultFixture []byte

// Fixture is a tree of documents to create for one owner
type Fixture struct {
	Documents []Node `yaml:"documents"`
}

// Node is one fixture document and its children
type Node struct {
	Title     string `yaml:"title"`
	Icon      string `yaml:"icon,omitempty"`
	Content   string `yaml:"content,omitempty"`
	Cover     string `yaml:"cover_image,omitempty"`
	Published bool   `yaml:"published,omitempty"`
	Archived  bool   `yaml:"archived,omitempty"`
	Children  []Node `yaml:"children,omitempty"`
}

// Result counts what Apply wrote
type Result struct {
	Created  int
	Archived int
}

// DefaultFixture returns the built-in development workspace
func DefaultFixture() (*Fixture, error) {
	return Parse(defaultFixture)
}

// LoadFile reads a fixture from a YAML file
func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML fixture, rejecting unknown keys
func Parse(data []byte) (*Fixture, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var fixture Fixture
	if err := dec.Decode(&fixture); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &fixture, nil
}

// Count returns the number of documents in the fixture
func (f *Fixture) Count() int {
	return countNodes(f.Documents)
}

func countNodes(nodes []Node) int {
	n := len(nodes)
	for _, node := range nodes {
		n += countNodes(node.Children)
	}
	return n
}

// Seeder writes fixtures for one owner
type Seeder struct {
	documents docsysSvc.DocumentService
	archive   docsysSvc.ArchiveService
	logger    *slog.Logger
}

// NewSeeder creates a seeder on top of the document services
func NewSeeder(documents docsysSvc.DocumentService, archive docsysSvc.ArchiveService, logger *slog.Logger) *Seeder {
	return &Seeder{
		documents: documents,
		archive:   archive,
		logger:    logger,
	}
}

// Apply creates every node depth-first, then archives the nodes marked archived.
// Archiving happens last so archived subtrees still get their children.
func (s *Seeder) Apply(ctx context.Context, ownerID string, fixture *Fixture) (*Result, error) {
	result := &Result{}
	var toArchive []string

	var create func(parentID *string, nodes []Node) error
	create = func(parentID *string, nodes []Node) error {
		for _, node := range nodes {
			doc, err := s.documents.CreateDocument(ctx, &docsysSvc.CreateDocumentRequest{
				OwnerID:    ownerID,
				Title:      node.Title,
				ParentID:   parentID,
				Content:    optional(node.Content),
				Icon:       optional(node.Icon),
				CoverImage: optional(node.Cover),
			})
			if err != nil {
				return fmt.Errorf("create %q: %w", node.Title, err)
			}
			result.Created++

			if node.Published {
				patch := &models.DocumentPatch{IsPublished: models.Some(true)}
				if _, err := s.documents.UpdateDocument(ctx, ownerID, doc.ID, patch); err != nil {
					return fmt.Errorf("publish %q: %w", node.Title, err)
				}
			}

			s.logger.Debug("seeded document", "id", doc.ID, "title", doc.Title, "parent_id", parentID)

			id := doc.ID
			if err := create(&id, node.Children); err != nil {
				return err
			}
			if node.Archived {
				toArchive = append(toArchive, id)
			}
		}
		return nil
	}

	if err := create(nil, fixture.Documents); err != nil {
		return result, err
	}

	for _, id := range toArchive {
		if _, err := s.archive.Archive(ctx, ownerID, id); err != nil {
			return result, fmt.Errorf("archive %s: %w", id, err)
		}
		result.Archived++
	}

	return result, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
