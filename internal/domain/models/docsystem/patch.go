package docsystem

import (
	"bytes"
	"encoding/json"
)

// Optional tracks presence and value for JSON merge-patch semantics (RFC 7396):
//   - Present=false: field absent from JSON (don't change)
//   - Present=true: field was sent; for pointer types a JSON null yields a nil Value
type Optional[T any] struct {
	Present bool
	Value   T
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: v}
}

// UnmarshalJSON implements json.Unmarshaler.
// When this method is called, the field was present in the JSON.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(bytes.TrimSpace(data)) == "null" {
		var zero T
		o.Value = zero
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// DocumentPatch is a partial update. Unset fields are left untouched.
type DocumentPatch struct {
	Title       Optional[string]  `json:"title"`
	ParentID    Optional[*string] `json:"parent_id"` // null moves to root
	Content     Optional[*string] `json:"content"`
	CoverImage  Optional[*string] `json:"cover_image"` // null removes the cover
	Icon        Optional[*string] `json:"icon"`        // null removes the icon
	IsArchived  Optional[bool]    `json:"is_archived"`
	IsPublished Optional[bool]    `json:"is_published"`
}

// IsEmpty reports whether no field was supplied.
func (p *DocumentPatch) IsEmpty() bool {
	return !p.Title.Present &&
		!p.ParentID.Present &&
		!p.Content.Present &&
		!p.CoverImage.Present &&
		!p.Icon.Present &&
		!p.IsArchived.Present &&
		!p.IsPublished.Present
}

// IsArchivedOnly reports whether is_archived is the only field supplied.
func (p *DocumentPatch) IsArchivedOnly() bool {
	if !p.IsArchived.Present {
		return false
	}
	rest := *p
	rest.IsArchived = Optional[bool]{}
	return rest.IsEmpty()
}

// ApplyTo merge-patches the display fields onto doc.
// ParentID and IsArchived are not applied here: moves and archive state
// go through their own checks.
func (p *DocumentPatch) ApplyTo(doc *Document) {
	if p.Title.Present {
		doc.Title = NormalizeTitle(p.Title.Value)
	}
	if p.Content.Present {
		doc.Content = p.Content.Value
	}
	if p.CoverImage.Present {
		doc.CoverImage = p.CoverImage.Value
	}
	if p.Icon.Present {
		doc.Icon = p.Icon.Value
	}
	if p.IsPublished.Present {
		doc.IsPublished = p.IsPublished.Value
	}
}
