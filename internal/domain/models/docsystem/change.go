package docsystem

import "time"

// ChangeKind names the mutation that produced a Change.
type ChangeKind string

const (
	ChangeCreated  ChangeKind = "created"
	ChangeUpdated  ChangeKind = "updated"
	ChangeMoved    ChangeKind = "moved"
	ChangeArchived ChangeKind = "archived"
	ChangeRestored ChangeKind = "restored"
	ChangeDeleted  ChangeKind = "deleted"
)

// View names a client list that must re-fetch after a change.
type View string

const (
	ViewSidebar  View = "sidebar"
	ViewTrash    View = "trash"
	ViewSearch   View = "search"
	ViewDocument View = "document"
)

// Change is the invalidation notice emitted after a successful mutation.
// It carries no document state; consumers re-fetch the listed views.
type Change struct {
	Kind        ChangeKind `json:"kind"`
	OwnerID     string     `json:"owner_id"`
	DocumentIDs []string   `json:"document_ids"`
	Views       []View     `json:"views"`
	At          time.Time  `json:"at"`
}
